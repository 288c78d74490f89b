package appshell

import (
	"context"
	"io"
	"testing"
)

func TestRunPassesArgsAndCode(t *testing.T) {
	var got []string
	code := run(func(_ context.Context, argv []string, _, _ io.Writer) int {
		got = argv
		return 2
	}, []string{"--steps", "3"}, io.Discard, io.Discard)
	if code != 2 || len(got) != 2 || got[1] != "3" {
		t.Fatalf("code %d argv %v", code, got)
	}
}

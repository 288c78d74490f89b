package jsonutil

import (
	"bytes"
	"testing"
)

func TestEncodePrettyIndents(t *testing.T) {
	var b bytes.Buffer
	if err := EncodePretty(&b, map[string]int{"a": 1}); err != nil {
		t.Fatal(err)
	}
	if got := b.String(); got != "{\n  \"a\": 1\n}\n" {
		t.Fatalf("got %q", got)
	}
}

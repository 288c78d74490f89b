package jsonlutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestStartWritesLines(t *testing.T) {
	var buf bytes.Buffer
	in, done := Start[int](&buf, 1, func(enc *json.Encoder, v int) error { return enc.Encode(v) },
		func(error) bool { return false })
	for i := 0; i < 3; i++ {
		in <- i
	}
	close(in)
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "0\n1\n2\n" {
		t.Fatalf("got %q", got)
	}
}

func TestEncodeErrorDrains(t *testing.T) {
	boom := errors.New("boom")
	var buf bytes.Buffer
	in, done := Start[string](&buf, 1, func(enc *json.Encoder, v string) error {
		if strings.HasPrefix(v, "bad") {
			return boom
		}
		return enc.Encode(v)
	}, func(error) bool { return false })
	for _, v := range []string{"ok", "bad", "later", "later"} {
		in <- v
	}
	close(in)
	if err := <-done; !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}
}

func TestBrokenPipeIsSuppressed(t *testing.T) {
	boom := errors.New("pipe")
	in, done := Start[int](&bytes.Buffer{}, 1, func(*json.Encoder, int) error { return boom },
		func(err error) bool { return errors.Is(err, boom) })
	in <- 1
	close(in)
	if err := <-done; err != nil {
		t.Fatalf("broken pipe should be nil, got %v", err)
	}
}

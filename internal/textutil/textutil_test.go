package textutil

import (
	"errors"
	"testing"
)

func TestDecodeUTF8LFNormalizesNewlines(t *testing.T) {
	out, err := DecodeUTF8LF([]byte("pub struct Screenshot {\r\n    pub timestamp: u64,\r\n}\r"))
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	want := "pub struct Screenshot {\n    pub timestamp: u64,\n}\n"
	if string(out) != want {
		t.Fatalf("got %q, want %q", out, want)
	}
}

func TestDecodeUTF8LFRejectsInvalidUTF8(t *testing.T) {
	out, err := DecodeUTF8LF([]byte("pub timestamp: u64,\xff\x80"))
	if !errors.Is(err, ErrInvalidUTF8) {
		t.Fatalf("expected ErrInvalidUTF8, got %v", err)
	}
	if out != nil {
		t.Fatalf("undecodable input must yield no buffer, got %q", out)
	}
}

func TestDecodeUTF8LFKeepsValidTextIntact(t *testing.T) {
	src := []byte("let filename = format!(\"screenshot_{}.png\", now); // résumé ✓\n")
	out, err := DecodeUTF8LF(src)
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if string(out) != string(src) {
		t.Fatalf("valid LF input must pass through unchanged")
	}
}

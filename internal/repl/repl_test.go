package repl

import (
	"bytes"
	"strings"
	"testing"
)

func TestDisassembleValidWords(t *testing.T) {
	r := New("test")
	var out bytes.Buffer
	r.disassemble("05 0007", &out)

	got := out.String()
	if !strings.Contains(got, "ref 7") {
		t.Errorf("expected disassembly to contain %q, got %q", "ref 7", got)
	}
}

func TestDisassembleInvalidWord(t *testing.T) {
	r := New("test")
	var out bytes.Buffer
	r.disassemble("zzzz", &out)

	got := out.String()
	if !strings.Contains(got, "not a valid instruction word") {
		t.Errorf("expected an invalid-word error, got %q", got)
	}
}

func TestDisassembleTruncatedStream(t *testing.T) {
	r := New("test")
	var out bytes.Buffer
	r.disassemble("08 05", &out) // apply declaring 1 arg but only a bare Ref follows

	got := out.String()
	if !strings.Contains(got, "Warning") {
		t.Errorf("expected a truncation warning, got %q", got)
	}
}

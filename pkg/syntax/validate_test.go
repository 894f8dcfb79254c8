package syntax

import (
	"strings"
	"testing"
)

func errorMessages(p Parse[SourceFile]) []string {
	var out []string
	for _, e := range p.Errors() {
		out = append(out, e.Message)
	}
	return out
}

func TestValidateStringEscapes(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{`def S = "plain"` + "\n", nil},
		{`def S = "a\nb\t\"\\\0"` + "\n", nil},
		{`def S = "bad\qescape"` + "\n", []string{"unknown escape sequence `\\q`"}},
		{`def S = "two\x and \y"` + "\n", []string{
			"unknown escape sequence `\\x`",
			"unknown escape sequence `\\y`",
		}},
		// An escaped backslash does not start a second escape.
		{`def S = "a\\nb"` + "\n", nil},
	}
	for _, tt := range tests {
		got := errorMessages(ParseSourceFile(tt.input))
		if len(got) != len(tt.want) {
			t.Errorf("ParseSourceFile(%q) errors = %v; want %v", tt.input, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("ParseSourceFile(%q) error %d = %q; want %q", tt.input, i, got[i], tt.want[i])
			}
		}
	}
}

func TestValidateIntRange(t *testing.T) {
	tests := []struct {
		input string
		ok    bool
	}{
		{"0", true},
		{"2147483647", true},
		// The negative bound's magnitude is allowed; lowering rejects it
		// when it appears without a minus.
		{"2147483648", true},
		{"2147483649", false},
		{"4294967295", false},
		{"0xFFFFFFFF", true},
		{"0x100000000", false},
		{"0x7fffffff", true},
		{"0b11111111111111111111111111111111", true},
		{"0b111111111111111111111111111111111", false},
	}
	for _, tt := range tests {
		input := "def X = " + tt.input + "\n"
		got := errorMessages(ParseSourceFile(input))
		if tt.ok && len(got) != 0 {
			t.Errorf("ParseSourceFile(%q) errors = %v; want none", input, got)
		}
		if !tt.ok {
			want := "integer literal `" + tt.input + "` out of range"
			if len(got) != 1 || got[0] != want {
				t.Errorf("ParseSourceFile(%q) errors = %v; want [%s]", input, got, want)
			}
		}
	}
}

func TestValidateDuplicates(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		duplicates int
	}{
		{"distinct names", "def A = 1\ndef B = 2\nmain:\n EXIT 0, 0\n", 0},
		{"duplicate alias", "def A = 1\ndef A = 2\n", 1},
		{"duplicate label", "a:\n EXIT 0, 0\na:\n EXIT 0, 0\n", 1},
		{"alias and label collide", "def main = 1\nmain:\n EXIT 0, 0\n", 1},
		{"register alias is a separate namespace", "def pos = 1\ndef $pos = $v0\n", 0},
		{"duplicate register alias", "def $pos = $v0\ndef $pos = $v1\n", 1},
		{"triple definition reports twice", "def A = 1\ndef A = 2\ndef A = 3\n", 2},
	}
	for _, tt := range tests {
		p := ParseSourceFile(tt.input)
		var got int
		for _, msg := range errorMessages(p) {
			if strings.HasPrefix(msg, "duplicate definition of ") {
				got++
			}
		}
		if got != tt.duplicates {
			t.Errorf("%s: %d duplicate errors (%v); want %d",
				tt.name, got, errorMessages(p), tt.duplicates)
		}
	}
}

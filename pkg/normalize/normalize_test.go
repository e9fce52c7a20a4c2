package normalize

import (
	"strings"
	"testing"
)

func TestNormalize_TrailingWhitespace(t *testing.T) {
	got := Normalize("def f():   \n    return 1\t\n", "python")
	want := "def f():\n    return 1\n"
	if got != want {
		t.Errorf("Normalize() = %q, want %q", got, want)
	}
}

func TestNormalize_CollapsesBlankRuns(t *testing.T) {
	got := Normalize("a = 1\n\n\n\nb = 2\n", "python")
	want := "a = 1\n\nb = 2\n"
	if got != want {
		t.Errorf("Normalize() = %q, want %q", got, want)
	}
}

func TestNormalize_StripsOuterBlankLines(t *testing.T) {
	got := Normalize("\n\n\ndef f():\n    pass\n\n\n", "python")
	want := "def f():\n    pass\n"
	if got != want {
		t.Errorf("Normalize() = %q, want %q", got, want)
	}
}

func TestNormalize_SingleTrailingNewline(t *testing.T) {
	for _, in := range []string{"x = 1", "x = 1\n", "x = 1\n\n\n"} {
		got := Normalize(in, "python")
		if !strings.HasSuffix(got, "\n") || strings.HasSuffix(got, "\n\n") {
			t.Errorf("Normalize(%q) = %q, want exactly one trailing newline", in, got)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"def f():   \n\n\n\n    return 1  \n\n",
		"\n\nx = 1\n",
		"a\r\nb\r\n",
	}
	for _, in := range inputs {
		once := Normalize(in, "python")
		twice := Normalize(once, "python")
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestNormalize_UnsupportedLanguagePassesThrough(t *testing.T) {
	in := "fn main() {   \n\n\n}\n\n"
	if got := Normalize(in, "rust"); got != in {
		t.Errorf("Normalize() modified unsupported language: %q", got)
	}
}

func TestSupported(t *testing.T) {
	if !Supported("python") {
		t.Error("Supported(python) = false")
	}
	if Supported("cobol") {
		t.Error("Supported(cobol) = true")
	}
}

func TestHash_StableAndDistinct(t *testing.T) {
	a := Hash("def f():\n    return 1\n")
	b := Hash("def f():\n    return 1\n")
	c := Hash("def f():\n    return 2\n")

	if a != b {
		t.Errorf("Hash not deterministic: %s != %s", a, b)
	}
	if a == c {
		t.Error("Hash collided for different inputs")
	}
	if len(a) != 64 {
		t.Errorf("Hash length = %d, want 64 hex chars", len(a))
	}
}

func TestHash_TracksNormalization(t *testing.T) {
	// Two inputs that normalize identically must hash identically.
	a := Hash(Normalize("x = 1   \n\n\n", "python"))
	b := Hash(Normalize("x = 1\n", "python"))
	if a != b {
		t.Error("equal normalized forms produced different hashes")
	}
}

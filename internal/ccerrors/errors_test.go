package ccerrors

import (
	"strings"
	"testing"
)

func TestFormatIncludesSourceLineAndCaret(t *testing.T) {
	src := "int main() {\n  return x;\n}"
	err := New(2, 10, "undeclared variable \"x\"", src, "test.c")

	out := err.Format(false)
	if !strings.Contains(out, "  return x;") {
		t.Fatalf("expected the offending source line in output, got:\n%s", out)
	}
	if !strings.Contains(out, "^") {
		t.Fatalf("expected a caret in output, got:\n%s", out)
	}
	if !strings.Contains(out, "test.c:2:10") {
		t.Fatalf("expected file:line:col in output, got:\n%s", out)
	}
}

func TestFormatWithColorAddsEscapes(t *testing.T) {
	err := New(1, 1, "boom", "x;", "")
	out := err.Format(true)
	if !strings.Contains(out, "\033[") {
		t.Fatalf("expected ANSI escapes when color is enabled, got:\n%s", out)
	}
}

func TestFormatErrorsMultiple(t *testing.T) {
	errs := []*CompilerError{
		New(1, 1, "first", "a;", "f.c"),
		New(2, 1, "second", "a;\nb;", "f.c"),
	}
	out := FormatErrors(errs, false)
	if !strings.Contains(out, "2 error(s)") {
		t.Fatalf("expected an error count summary, got:\n%s", out)
	}
	if !strings.Contains(out, "first") || !strings.Contains(out, "second") {
		t.Fatalf("expected both messages, got:\n%s", out)
	}
}

func TestFormatErrorsEmpty(t *testing.T) {
	if out := FormatErrors(nil, false); out != "" {
		t.Fatalf("expected empty string for no errors, got %q", out)
	}
}

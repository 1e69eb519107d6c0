package normalize

import (
	"strings"
	"testing"
)

func TestMarkdown_StripsMarkup(t *testing.T) {
	input := "# Invoice\n\nTotal is due **now**, see *notes*.\n"

	got := Markdown([]byte(input))

	if !strings.Contains(got, "Invoice") {
		t.Errorf("expected heading text, got %q", got)
	}
	if !strings.Contains(got, "Total is due now, see notes.") {
		t.Errorf("expected markup-free paragraph, got %q", got)
	}
	if strings.Contains(got, "**") || strings.Contains(got, "#") {
		t.Errorf("markup markers survived: %q", got)
	}
}

func TestMarkdown_BlocksSeparatedByBlankLines(t *testing.T) {
	input := "First paragraph.\n\nSecond paragraph.\n"

	got := Markdown([]byte(input))
	want := "First paragraph.\n\nSecond paragraph."
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestMarkdown_KeepsCodeBlockContent(t *testing.T) {
	input := "## Endpoints\n\n```\nGET /api/users\nPOST /api/users\n```\n"

	got := Markdown([]byte(input))
	if !strings.Contains(got, "GET /api/users") {
		t.Errorf("expected code block content, got %q", got)
	}
}

func TestMarkdown_ListItems(t *testing.T) {
	input := "- alpha\n- beta\n"

	got := Markdown([]byte(input))
	if !strings.Contains(got, "alpha") || !strings.Contains(got, "beta") {
		t.Errorf("expected list item text, got %q", got)
	}
	if strings.Contains(got, "-") {
		t.Errorf("list markers survived: %q", got)
	}
}

func TestMarkdown_EmptyInput(t *testing.T) {
	if got := Markdown(nil); got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
}

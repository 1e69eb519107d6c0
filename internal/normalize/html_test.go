package normalize

import (
	"strings"
	"testing"
)

func TestHTMLTables_RowsAndCells(t *testing.T) {
	input := `<table>
		<tr><th>Item</th><th>Price</th></tr>
		<tr><td>Widget</td><td>9.99</td></tr>
		<tr><td>Gadget</td><td>24.50</td></tr>
	</table>`

	got := HTMLTables(input)
	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 rows, got %d: %q", len(lines), got)
	}
	if lines[0] != "Item\tPrice" {
		t.Errorf("header row: expected %q, got %q", "Item\tPrice", lines[0])
	}
	if lines[1] != "Widget\t9.99" {
		t.Errorf("row 1: expected %q, got %q", "Widget\t9.99", lines[1])
	}
}

func TestHTMLTables_MultipleTables(t *testing.T) {
	input := `<div><table><tr><td>a</td></tr></table><p>between</p><table><tr><td>b</td></tr></table></div>`

	got := HTMLTables(input)
	want := "a\n\nb"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestHTMLTables_NestedMarkupInsideCells(t *testing.T) {
	input := `<table><tr><td><b>Total</b> <span>due</span></td></tr></table>`

	got := HTMLTables(input)
	if got != "Total due" {
		t.Errorf("expected %q, got %q", "Total due", got)
	}
}

func TestHTMLTables_NoTables(t *testing.T) {
	if got := HTMLTables("<p>just a paragraph</p>"); got != "" {
		t.Errorf("expected empty output, got %q", got)
	}
	if got := HTMLTables(""); got != "" {
		t.Errorf("expected empty output for empty input, got %q", got)
	}
}

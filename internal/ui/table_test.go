package ui

import "testing"

func TestTableAlignsColumns(t *testing.T) {
	tbl := NewTable(3)
	tbl.AddRow("/note/get", "x")
	tbl.AddRow("/search/all-notes", "callbacks", "extra")

	want := "/note/get          x\n" +
		"/search/all-notes  callbacks  extra\n"
	if got := tbl.String(); got != want {
		t.Fatalf("String() =\n%q\nwant\n%q", got, want)
	}
	if tbl.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", tbl.Len())
	}
}

func TestTableMeasuresStyledCells(t *testing.T) {
	tbl := NewTable(2)
	tbl.AddRow(Bold.Render("ab"), "1")
	tbl.AddRow("abcd", "2")

	if w := tbl.colWidths[0]; w != 4 {
		t.Fatalf("column width = %d, want 4", w)
	}
}

func TestEmptyTable(t *testing.T) {
	if got := NewTable(2).String(); got != "" {
		t.Fatalf("String() = %q, want empty", got)
	}
}

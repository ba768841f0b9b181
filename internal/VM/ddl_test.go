package VM

import (
	"testing"

	DS "github.com/vtabrow/vtabrow/internal/DS"
)

func TestColumnDDL(t *testing.T) {
	cols := []DS.Column{
		{Name: "id", Type: DS.Integer64},
		{Name: "name", Type: DS.Text},
	}
	got := columnDDL(cols)
	want := `"id" INTEGER, "name" TEXT`
	if got != want {
		t.Fatalf("columnDDL = %q, want %q", got, want)
	}
}

func TestQuoteIdentEscapesDoubleQuotes(t *testing.T) {
	got := quoteIdent(`weird"name`)
	want := `"weird""name"`
	if got != want {
		t.Fatalf("quoteIdent = %q, want %q", got, want)
	}
}

package format_test

import (
	"strings"
	"testing"
	"time"

	"carbmix/internal/format"
)

func TestASCII_BasicTable(t *testing.T) {
	tb := format.NewTable(format.ASCII)
	tb.Header("RUN", "STATUS", "DONE")
	tb.Row("run-a", "completed", 4928)
	tb.Row("run-b", "interrupted", 1200)
	out := tb.String()

	if !strings.Contains(out, "RUN") {
		t.Errorf("expected header 'RUN' in output:\n%s", out)
	}
	if !strings.Contains(out, "interrupted") {
		t.Errorf("expected 'interrupted' in output:\n%s", out)
	}
	// ASCII uses box-drawing characters from StyleLight
	if !strings.Contains(out, "───") {
		t.Errorf("expected box-drawing characters in ASCII output:\n%s", out)
	}
}

func TestMarkdown_BasicTable(t *testing.T) {
	tb := format.NewTable(format.Markdown)
	tb.Header("Phase", "Amount (mol)")
	tb.Row("Calcite", 0.0319)
	tb.Row("C-S-H", 0.3607)
	out := tb.String()

	if !strings.Contains(out, "| Phase") {
		t.Errorf("expected markdown header with '| Phase':\n%s", out)
	}
	if !strings.Contains(out, "---") {
		t.Errorf("expected markdown separator '---':\n%s", out)
	}
	if !strings.Contains(out, "Calcite") {
		t.Errorf("expected 'Calcite' in output:\n%s", out)
	}
}

func TestMarkdown_WithFooter(t *testing.T) {
	tb := format.NewTable(format.Markdown)
	tb.Header("State", "Cases")
	tb.Row("converged", 4620)
	tb.Row("failed", 308)
	tb.Footer("TOTAL", 4928)
	out := tb.String()

	if !strings.Contains(out, "TOTAL") {
		t.Errorf("expected footer 'TOTAL' in output:\n%s", out)
	}
}

func TestHelpers(t *testing.T) {
	if got := format.FmtPercent(0.9375); got != "93.8%" {
		t.Errorf("FmtPercent: %s", got)
	}
	if got := format.FmtMol(0.031927); got != "0.03193" {
		t.Errorf("FmtMol: %s", got)
	}
	if got := format.FmtDuration(95 * time.Second); got != "1m 35s" {
		t.Errorf("FmtDuration: %s", got)
	}
	if got := format.FmtDuration(9 * time.Second); got != "9s" {
		t.Errorf("FmtDuration short: %s", got)
	}
	if got := format.Truncate("Hydrotalcite + Silica_gel", 15); got != "Hydrotalcite..." {
		t.Errorf("Truncate: %s", got)
	}
	if got := format.Truncate("Calcite", 15); got != "Calcite" {
		t.Errorf("Truncate no-op: %s", got)
	}
}

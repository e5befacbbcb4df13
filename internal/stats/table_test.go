package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Type", "Score", "When"}
	rows := [][]string{
		{"CPS", "4.60", "2026-01-02 03:04"},
		{"Reaction", "231", "2026-01-02 03:05"},
	}
	rightAlign := map[int]bool{1: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Type     Score When" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "CPS       4.60 2026-01-02 03:04" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "Reaction   231 2026-01-02 03:05" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableWideRunes(t *testing.T) {
	lines := formatTable([]string{"A", "B"}, [][]string{{"日本", "x"}, {"ab", "y"}}, nil)
	if lines[1] != "日本 x" {
		t.Fatalf("unexpected wide row: %q", lines[1])
	}
	if lines[2] != "ab   y" {
		t.Fatalf("unexpected narrow row: %q", lines[2])
	}
}

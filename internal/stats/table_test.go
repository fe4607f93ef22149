package stats

import "testing"

func TestFormatTableAlignsColumns(t *testing.T) {
	headers := []string{"Fact", "Accuracy", "Total"}
	rows := [][]string{
		{"7x8", "37.5%", "8"},
		{"21/7", "100.0%", "12"},
	}
	rightAlign := map[int]bool{1: true, 2: true}

	lines := formatTable(headers, rows, rightAlign)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Fact Accuracy Total" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "7x8     37.5%     8" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "21/7   100.0%    12" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestFormatTableEmpty(t *testing.T) {
	if lines := formatTable(nil, nil, nil); lines != nil {
		t.Fatalf("expected no lines, got %v", lines)
	}
}

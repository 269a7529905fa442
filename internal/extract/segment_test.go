package extract

import (
	"strings"
	"testing"
)

func TestSegment_NoMarkers(t *testing.T) {
	sections := Segment("Portfolio balance $12,345.67 as of today")
	if sections != nil {
		t.Errorf("Expected nil for text without markers, got %v", sections)
	}
}

func TestSegment_Empty(t *testing.T) {
	if sections := Segment(""); sections != nil {
		t.Errorf("Expected nil for empty text, got %v", sections)
	}
}

func TestSegment_SingleSection(t *testing.T) {
	text := "Wallet header junk\nContract Interaction 2024/05/12 14:05:33 -50 USDC ($50.00)"

	sections := Segment(text)
	if len(sections) != 1 {
		t.Fatalf("Expected 1 section, got %d", len(sections))
	}
	if !strings.HasPrefix(sections[0], "Contract Interaction") {
		t.Errorf("Section should start at the marker, got %q", sections[0])
	}
	if strings.Contains(sections[0], "Wallet header junk") {
		t.Errorf("Page chrome before the first marker must be discarded, got %q", sections[0])
	}
}

func TestSegment_MultipleSections(t *testing.T) {
	text := "chrome\n" +
		"Contract Interaction first swap details\n" +
		"fillOrderArgs second swap details\n" +
		"Contract Interaction third swap details"

	sections := Segment(text)
	if len(sections) != 3 {
		t.Fatalf("Expected 3 sections, got %d", len(sections))
	}
	if !strings.Contains(sections[0], "first swap") {
		t.Errorf("Section 0 mismatch: %q", sections[0])
	}
	if !strings.HasPrefix(sections[1], "fillOrderArgs") {
		t.Errorf("Section 1 should start at fillOrderArgs, got %q", sections[1])
	}
	if !strings.Contains(sections[2], "third swap") {
		t.Errorf("Section 2 mismatch: %q", sections[2])
	}
}

func TestSegment_LineBreaksFlattened(t *testing.T) {
	text := "Contract Interaction\n2024/05/12\n14:05:33"

	sections := Segment(text)
	if len(sections) != 1 {
		t.Fatalf("Expected 1 section, got %d", len(sections))
	}
	if strings.ContainsAny(sections[0], "\n\r") {
		t.Errorf("Line breaks should be flattened to spaces, got %q", sections[0])
	}
}

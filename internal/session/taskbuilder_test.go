package session

import (
	"errors"
	"testing"
)

func TestTaskBuilderSelectReplacesWithinCategory(t *testing.T) {
	b := NewTaskBuilder(nil)
	if err := b.Select("want", "ask"); err != nil {
		t.Fatalf("select ask: %v", err)
	}
	if err := b.Select("want", "research"); err != nil {
		t.Fatalf("select research: %v", err)
	}
	if b.Len() != 1 {
		t.Fatalf("expected one selection, got %d", b.Len())
	}
	if !b.IsSelected("want", "research") || b.IsSelected("want", "ask") {
		t.Fatal("expected research to replace ask")
	}
}

func TestTaskBuilderBuildUsesCategoryOrder(t *testing.T) {
	b := NewTaskBuilder(nil)
	for _, sel := range [][2]string{{"make", "sheet"}, {"use", "drive"}, {"want", "analyze"}} {
		if err := b.Select(sel[0], sel[1]); err != nil {
			t.Fatalf("select %v: %v", sel, err)
		}
	}
	if got := b.Build(); got != "Analyze Drive Sheet" {
		t.Fatalf("unexpected build %q", got)
	}
}

func TestTaskBuilderCompose(t *testing.T) {
	b := NewTaskBuilder(nil)
	if got := b.Compose("hello"); got != "hello" {
		t.Fatalf("text only: %q", got)
	}
	if err := b.Select("want", "search"); err != nil {
		t.Fatal(err)
	}
	if got := b.Compose(""); got != "Search" {
		t.Fatalf("task only: %q", got)
	}
	if got := b.Compose("   "); got != "Search" {
		t.Fatalf("blank text: %q", got)
	}
	if got := b.Compose("  q4 plan "); got != "Search:   q4 plan " {
		t.Fatalf("combined: %q", got)
	}
	b.Clear("want")
	if got := b.Compose(""); got != "" {
		t.Fatalf("expected empty after clear, got %q", got)
	}
}

func TestTaskBuilderRejectsUnknownIDs(t *testing.T) {
	b := NewTaskBuilder(nil)
	if err := b.Select("nope", "ask"); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
	if err := b.Select("want", "gmail"); !errors.Is(err, ErrUnknownItem) {
		t.Fatalf("expected ErrUnknownItem, got %v", err)
	}
}

func TestAttachmentStagingLifecycle(t *testing.T) {
	n := 0
	s := NewAttachmentStaging(func() string { n++; return "att-" + string(rune('0'+n)) })
	if _, err := s.AddLink("  "); !errors.Is(err, ErrEmptyLink) {
		t.Fatalf("expected ErrEmptyLink, got %v", err)
	}
	file, err := s.AddFile("a.txt", 10)
	if err != nil {
		t.Fatalf("add file: %v", err)
	}
	if _, err := s.AddLink("https://go.dev"); err != nil {
		t.Fatalf("add link: %v", err)
	}
	if !s.Remove(file.ID) || s.Remove(file.ID) {
		t.Fatal("expected single successful remove")
	}
	taken := s.Take()
	if len(taken) != 1 || taken[0].URL != "https://go.dev" {
		t.Fatalf("unexpected take: %+v", taken)
	}
	if s.Len() != 0 || s.Take() != nil {
		t.Fatal("expected staging empty after take")
	}
}

package lesson

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const cellsScript = `
title: Cell Biology
turns:
  - text: "The [HIGHLIGHT:mitochondria] is the powerhouse. [DRAW:CIRCLE color=blue-300 x=50 y=50 r=20]"
  - text: "Recap of last week."
    prerendered: true
  - text: "Watch this short clip."
    embed_url: "https://www.youtube.com/embed?listType=search&list=mitochondria"
`

func TestParseScript(t *testing.T) {
	s, err := ParseScript([]byte(cellsScript))
	if err != nil {
		t.Fatalf("ParseScript failed: %v", err)
	}
	if s.Title != "Cell Biology" || len(s.Turns) != 3 {
		t.Fatalf("unexpected script %+v", s)
	}

	if turn := s.Turns[1].Turn(); !turn.Prerendered || turn.Media != nil {
		t.Errorf("turn 2 = %+v", turn)
	}
	turn := s.Turns[2].Turn()
	if !turn.Media.Active() || !turn.Instant() {
		t.Errorf("turn 3 should carry media: %+v", turn)
	}
}

func TestParseScriptRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"bad yaml":   "turns: [}",
		"no turns":   "title: Empty\n",
		"empty turn": "turns:\n  - text: \"  \"\n",
	}
	for name, in := range tests {
		if _, err := ParseScript([]byte(in)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestLoadScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cells.yaml")
	if err := os.WriteFile(path, []byte(cellsScript), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadScript(path); err != nil {
		t.Fatalf("LoadScript failed: %v", err)
	}

	_, err := LoadScript(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "missing.yaml") {
		t.Errorf("expected wrapped error naming the file, got %v", err)
	}
}

func TestScriptSourceIterates(t *testing.T) {
	s, _ := ParseScript([]byte(cellsScript))
	src := NewScriptSource(s)
	ctx := context.Background()

	var texts []string
	for {
		turn, ok, err := src.Next(ctx)
		if err != nil {
			t.Fatalf("Next failed: %v", err)
		}
		if !ok {
			break
		}
		texts = append(texts, turn.Text)
	}
	if len(texts) != 3 || src.Remaining() != 0 {
		t.Errorf("got %d turns, remaining %d", len(texts), src.Remaining())
	}
	if src.Title() != "Cell Biology" {
		t.Errorf("title = %q", src.Title())
	}
}

func TestScriptSourceHonorsContext(t *testing.T) {
	s, _ := ParseScript([]byte(cellsScript))
	src := NewScriptSource(s)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, ok, err := src.Next(ctx); err == nil || ok {
		t.Errorf("Next on cancelled context = %v, %v", ok, err)
	}
	if src.Remaining() != 3 {
		t.Errorf("cancelled Next consumed a turn")
	}
}

func TestGreeting(t *testing.T) {
	g := Greeting("Nuro")
	if g.Text != "Hello! I'm Nuro. What shall we learn about today?" {
		t.Errorf("greeting = %q", g.Text)
	}
	if g.Instant() {
		t.Error("greeting should type out")
	}
}

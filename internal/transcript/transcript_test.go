package transcript

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
)

func sampleEntries() []Entry {
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return []Entry{
		{Author: AuthorUser, Text: "What do mitochondria do?", Timestamp: at},
		{Author: AuthorAI, Text: "The [HIGHLIGHT:mitochondria] is the powerhouse. [DRAW:CIRCLE color=blue-300 x=50 y=50 r=20]", Timestamp: at.Add(time.Second)},
	}
}

func TestStoreSaveAndLoad(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "nested", "history.json"))
	if err != nil {
		t.Fatal(err)
	}

	if err := store.Save(sampleEntries()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	history, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(history) != 1 || len(history[0].Entries) != 2 {
		t.Fatalf("history = %+v", history)
	}
	if history[0].Entries[1].Author != AuthorAI {
		t.Errorf("author = %q", history[0].Entries[1].Author)
	}
}

func TestStoreCapsSessions(t *testing.T) {
	store, _ := NewStore(filepath.Join(t.TempDir(), "history.json"))
	for i := 0; i < MaxSessions+5; i++ {
		if err := store.Save([]Entry{{Author: AuthorUser, Text: "q"}}); err != nil {
			t.Fatalf("Save %d failed: %v", i, err)
		}
	}
	history, _ := store.Load()
	if len(history) != MaxSessions {
		t.Errorf("history length = %d, want %d", len(history), MaxSessions)
	}
}

func TestStoreLoadMissingAndCorrupt(t *testing.T) {
	dir := t.TempDir()
	store, _ := NewStore(filepath.Join(dir, "history.json"))
	history, err := store.Load()
	if err != nil || len(history) != 0 {
		t.Errorf("missing file: %v %v", history, err)
	}

	os.WriteFile(store.Path(), []byte("{not json"), 0644)
	if _, err := store.Load(); errors.Cause(err) != ErrCorrupt {
		t.Errorf("corrupt history err = %v", err)
	}
	if err := store.Save(sampleEntries()); err != nil {
		t.Fatalf("Save should start a fresh history: %v", err)
	}
	history, err = store.Load()
	if err != nil || len(history) != 1 {
		t.Errorf("fresh history = %v %v", history, err)
	}

	backups, _ := filepath.Glob(store.Path() + ".corrupt-*")
	if len(backups) != 1 {
		t.Fatalf("backups = %v, want one", backups)
	}
	if data, _ := os.ReadFile(backups[0]); string(data) != "{not json" {
		t.Errorf("backup content = %q", data)
	}
}

func TestStoreDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("POLYBOARD_CONFIG_HOME", dir)
	store, err := NewStore("")
	if err != nil {
		t.Fatal(err)
	}
	if store.Path() != filepath.Join(dir, "history.json") {
		t.Errorf("path = %s", store.Path())
	}
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	r.Record(AuthorUser, "hi")
	r.Record(AuthorAI, "hello")

	entries := r.Entries()
	if len(entries) != 2 || entries[1].Text != "hello" {
		t.Fatalf("entries = %+v", entries)
	}
	entries[0].Text = "changed"
	if r.Entries()[0].Text != "hi" {
		t.Error("Entries should return a copy")
	}
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sampleEntries(), "Nuro")
	want := "**You:** What do mitochondria do?\n\n**Nuro:** The **mitochondria** is the powerhouse.\n"
	if md != want {
		t.Errorf("Markdown() = %q, want %q", md, want)
	}
	if strings.Contains(md, "DRAW") {
		t.Error("draw directive leaked into markdown")
	}
}

func TestHTML(t *testing.T) {
	html := HTML(sampleEntries(), "")
	if !strings.Contains(html, "<strong>mitochondria</strong>") {
		t.Errorf("HTML() missing highlight: %s", html)
	}
	if !strings.Contains(html, "<strong>Teacher:</strong>") {
		t.Errorf("HTML() missing default teacher label: %s", html)
	}
}

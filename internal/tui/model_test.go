package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Zacy-Sokach/PolyBoard/internal/config"
	"github.com/Zacy-Sokach/PolyBoard/internal/lesson"
	"github.com/Zacy-Sokach/PolyBoard/internal/reveal"
	"github.com/Zacy-Sokach/PolyBoard/internal/transcript"
	tea "github.com/charmbracelet/bubbletea"
)

type testEnv struct {
	model  *Model
	store  *transcript.Store
	copied *string
}

func newTestModel(t *testing.T, source lesson.Source) testEnv {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Reveal.IntervalMs = 1
	cfg.Export.Dir = filepath.Join(dir, "exports")
	cfg.Export.Width, cfg.Export.Height = 96, 64

	store, _ := transcript.NewStore(filepath.Join(dir, "history.json"))
	copied := new(string)
	m := NewModelWithDependencies(Dependencies{
		Config: cfg,
		Source: source,
		Store:  store,
		Copy: func(s string) error {
			*copied = s
			return nil
		},
	})
	t.Cleanup(m.board.Close)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return testEnv{model: m, store: store, copied: copied}
}

// revealAll 驱动打字效果直到当前轮完成
func revealAll(t *testing.T, m *Model) {
	t.Helper()
	for m.board.Frame().State != reveal.StateComplete {
		msgs := make(chan tea.Msg, 1)
		go func() { msgs <- m.waitForReveal()() }()
		select {
		case msg := <-msgs:
			m.Update(msg)
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for reveal")
		}
	}
}

func typeAndSubmit(m *Model, text string) tea.Cmd {
	m.textarea.SetValue(text)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return cmd
}

func TestWindowSizeResizesSurface(t *testing.T) {
	env := newTestModel(t, nil)
	w, h := env.model.surface.Size()
	if w <= 0 || h <= 0 {
		t.Fatalf("surface size = %dx%d", w, h)
	}
	dims := env.model.board.Overlay().Dimensions()
	if int(dims.Width) != w || int(dims.Height) != h {
		t.Errorf("overlay dims %+v do not match surface %dx%d", dims, w, h)
	}

	env.model.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	if w2, _ := env.model.surface.Size(); w2 >= w {
		t.Errorf("surface did not shrink: %d -> %d", w, w2)
	}
}

func TestInitPresentsGreeting(t *testing.T) {
	env := newTestModel(t, nil)
	m := env.model
	if cmd := m.Init(); cmd == nil {
		t.Fatal("Init returned no command")
	}
	revealAll(t, m)

	if got := plainText(m.board.Frame()); got != "Hello! I'm Nuro. What shall we learn about today?" {
		t.Errorf("greeting = %q", got)
	}
	entries := m.recorder.Entries()
	if len(entries) != 1 || entries[0].Author != transcript.AuthorAI {
		t.Errorf("transcript = %+v", entries)
	}
}

func TestSubmitDrawsOnCanvas(t *testing.T) {
	env := newTestModel(t, nil)
	m := env.model

	if cmd := typeAndSubmit(m, "A [HIGHLIGHT:cell] wall [DRAW:RECT color=green-400 x=10 y=10 w=80 h=80]"); cmd != nil {
		t.Error("typed input should not need a command")
	}
	revealAll(t, m)

	f := m.board.Frame()
	if plainText(f) != "A cell wall " || len(f.Commands) != 1 {
		t.Errorf("frame = %+v", f)
	}
	if m.surface.Painted() == 0 {
		t.Error("rect not drawn on the cell surface")
	}
	if !strings.Contains(m.View(), "Nuro's Notes") {
		t.Error("heading missing from view")
	}
	if m.textarea.Value() != "" {
		t.Error("input not cleared after submit")
	}

	entries := m.recorder.Entries()
	if len(entries) != 1 || entries[0].Author != transcript.AuthorUser {
		t.Errorf("transcript = %+v", entries)
	}
}

func TestPrerenderedToggle(t *testing.T) {
	env := newTestModel(t, nil)
	m := env.model
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlP})
	if !m.prerendered {
		t.Fatal("ctrl+p did not enable prerendered mode")
	}

	typeAndSubmit(m, "instant text")
	msg := m.waitForReveal()()
	m.Update(msg)
	if f := m.board.Frame(); f.State != reveal.StateComplete || f.Prefix != "instant text" || f.ShowCursor {
		t.Errorf("prerendered frame = %+v", f)
	}
}

func TestEmptyEnterAdvancesLesson(t *testing.T) {
	script, err := lesson.ParseScript([]byte("turns:\n  - text: first\n    prerendered: true\n"))
	if err != nil {
		t.Fatal(err)
	}
	env := newTestModel(t, lesson.NewScriptSource(script))
	m := env.model

	cmd := typeAndSubmit(m, "   ")
	if cmd == nil {
		t.Fatal("empty input should fetch the next lesson turn")
	}
	m.Update(cmd())
	revealAll(t, m)
	if m.board.Frame().Prefix != "first" {
		t.Errorf("prefix = %q", m.board.Frame().Prefix)
	}

	m.Update(typeAndSubmit(m, "")())
	if m.status != "课程已结束" {
		t.Errorf("status = %q", m.status)
	}
}

func TestEmptyEnterWithoutLesson(t *testing.T) {
	env := newTestModel(t, nil)
	if cmd := typeAndSubmit(env.model, ""); cmd != nil {
		t.Error("no lesson loaded, expected no command")
	}
	if env.model.status == "" {
		t.Error("expected a status message")
	}
}

func TestMediaTurnShowsMediaPanel(t *testing.T) {
	script, _ := lesson.ParseScript([]byte("turns:\n  - text: \"[DRAW:RECT x=1 y=1 w=50 h=50] clip\"\n    video_url: https://example.com/clip.mp4\n"))
	env := newTestModel(t, lesson.NewScriptSource(script))
	m := env.model

	m.Update(typeAndSubmit(m, "")())
	revealAll(t, m)
	if m.surface.Painted() != 0 {
		t.Error("canvas should stay clear under media")
	}
	if !strings.Contains(m.View(), "https://example.com/clip.mp4") {
		t.Error("media url missing from view")
	}
}

func TestCopyAndExport(t *testing.T) {
	env := newTestModel(t, nil)
	m := env.model
	typeAndSubmit(m, "copy [HIGHLIGHT:me] [DRAW:LINE x1=0 y1=0 x2=100 y2=100]")
	revealAll(t, m)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	m.Update(cmd())
	if *env.copied != "copy me " {
		t.Errorf("copied %q", *env.copied)
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlE})
	msg, ok := cmd().(ExportSuccessMsg)
	if !ok {
		t.Fatalf("export failed: %#v", msg)
	}
	if _, err := os.Stat(msg.FilePath); err != nil {
		t.Errorf("export file missing: %v", err)
	}
}

func TestQuitSavesTranscript(t *testing.T) {
	env := newTestModel(t, nil)
	m := env.model
	typeAndSubmit(m, "remember this")
	revealAll(t, m)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c should quit")
	}
	history, err := env.store.Load()
	if err != nil || len(history) != 1 {
		t.Fatalf("history = %+v err = %v", history, err)
	}
	if history[0].Entries[0].Text != "remember this" {
		t.Errorf("saved %+v", history[0].Entries)
	}
	if _, ok := m.waitForReveal()().(RevealClosedMsg); !ok {
		t.Error("updates should be closed after quit")
	}
}

func TestMaximizeHidesInput(t *testing.T) {
	env := newTestModel(t, nil)
	m := env.model
	if !strings.Contains(m.View(), "Ctrl+C") {
		t.Fatal("help missing before maximize")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlF})
	if strings.Contains(m.View(), "Ctrl+C") {
		t.Error("maximized view should hide help and input")
	}
}

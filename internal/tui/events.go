package tui

import (
	"github.com/Zacy-Sokach/PolyBoard/internal/blackboard"
	"github.com/Zacy-Sokach/PolyBoard/internal/logging"
	"github.com/Zacy-Sokach/PolyBoard/internal/transcript"
)

// TurnStartedEvent 新一轮开始显示
type TurnStartedEvent struct {
	BaseEvent
	Turn   uint64
	Author transcript.Author
	Value  blackboard.Turn
}

func NewTurnStartedEvent(id uint64, author transcript.Author, turn blackboard.Turn) *TurnStartedEvent {
	return &TurnStartedEvent{
		BaseEvent: NewBaseEvent(EventTypeTurnStarted),
		Turn:      id,
		Author:    author,
		Value:     turn,
	}
}

// RevealCompletedEvent 一轮文本完整显示
type RevealCompletedEvent struct {
	BaseEvent
	Turn     uint64
	Author   transcript.Author
	Text     string
	Commands int
}

func NewRevealCompletedEvent(id uint64, author transcript.Author, text string, commands int) *RevealCompletedEvent {
	return &RevealCompletedEvent{
		BaseEvent: NewBaseEvent(EventTypeRevealCompleted),
		Turn:      id,
		Author:    author,
		Text:      text,
		Commands:  commands,
	}
}

// SurfaceResizedEvent 画布尺寸变化
type SurfaceResizedEvent struct {
	BaseEvent
	Width  int
	Height int
}

func NewSurfaceResizedEvent(width, height int) *SurfaceResizedEvent {
	return &SurfaceResizedEvent{
		BaseEvent: NewBaseEvent(EventTypeSurfaceResized),
		Width:     width,
		Height:    height,
	}
}

// LoggingHandler 将事件写入日志
type LoggingHandler struct {
	log logging.Logger
}

func NewLoggingHandler(log logging.Logger) *LoggingHandler {
	if log == nil {
		log = logging.Discard()
	}
	return &LoggingHandler{log: log.WithPrefix("events")}
}

func (h *LoggingHandler) CanHandle(Event) bool { return true }
func (h *LoggingHandler) Priority() int { return 100 }

func (h *LoggingHandler) Handle(event Event) error {
	switch e := event.(type) {
	case *TurnStartedEvent:
		h.log.Info("turn %d started by %s: instant=%v", e.Turn, e.Author, e.Value.Instant())
	case *RevealCompletedEvent:
		h.log.Info("turn %d revealed: %d runes, %d drawings", e.Turn, len([]rune(e.Text)), e.Commands)
	case *SurfaceResizedEvent:
		h.log.Debug("surface resized to %dx%d", e.Width, e.Height)
	default:
		h.log.Debug("event %s", event.Type())
	}
	return nil
}

// TranscriptHandler 每轮完整显示后写入对话记录
type TranscriptHandler struct {
	recorder *transcript.Recorder
}

func NewTranscriptHandler(r *transcript.Recorder) *TranscriptHandler {
	return &TranscriptHandler{recorder: r}
}

func (h *TranscriptHandler) CanHandle(event Event) bool {
	e, ok := event.(*RevealCompletedEvent)
	return ok && h.recorder != nil && e.Text != ""
}

func (h *TranscriptHandler) Priority() int { return 10 }

func (h *TranscriptHandler) Handle(event Event) error {
	e := event.(*RevealCompletedEvent)
	h.recorder.Record(e.Author, e.Text)
	return nil
}

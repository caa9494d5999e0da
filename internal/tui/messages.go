package tui

import (
	"time"

	"github.com/Zacy-Sokach/PolyBoard/internal/blackboard"
	"github.com/Zacy-Sokach/PolyBoard/internal/reveal"
)

// Message types for tea.Model
type RevealMsg struct {
	Update reveal.Update
}

// RevealClosedMsg 更新通道已关闭
type RevealClosedMsg struct{}

type LessonTurnMsg struct {
	Turn blackboard.Turn
	OK   bool
	Err  error
}

type ExportSuccessMsg struct {
	FilePath string
}

type ExportErrorMsg struct {
	Error error
}

type CopySuccessMsg struct {
	Runes int
}

type CopyErrorMsg struct {
	Error error
}

// CursorBlinkMsg 光标闪烁
type CursorBlinkMsg struct {
	Time time.Time
}

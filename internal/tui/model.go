package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Zacy-Sokach/PolyBoard/internal/blackboard"
	"github.com/Zacy-Sokach/PolyBoard/internal/canvas"
	"github.com/Zacy-Sokach/PolyBoard/internal/config"
	"github.com/Zacy-Sokach/PolyBoard/internal/export"
	"github.com/Zacy-Sokach/PolyBoard/internal/lesson"
	"github.com/Zacy-Sokach/PolyBoard/internal/logging"
	"github.com/Zacy-Sokach/PolyBoard/internal/reveal"
	"github.com/Zacy-Sokach/PolyBoard/internal/segment"
	"github.com/Zacy-Sokach/PolyBoard/internal/transcript"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Version 是当前的 PolyBoard 版本，由 main 包设置
var Version string

const (
	blinkInterval = 530 * time.Millisecond
	cursorGlyph   = "▋"
)

type Model struct {
	viewport viewport.Model
	textarea textarea.Model
	ready    bool
	width    int
	height   int

	maximized   bool
	prerendered bool
	cursorOn    bool
	status      string

	cfg      *config.Config
	board    *blackboard.Board
	surface  *canvas.CellSurface
	renderer *canvas.Renderer
	theme    segment.Theme
	source   lesson.Source
	store    *transcript.Store
	recorder *transcript.Recorder
	bus      EventBus
	log      logging.Logger
	copyText func(string) error

	author    transcript.Author
	completed uint64
	surfaceW  int
	surfaceH  int

	ctx    context.Context
	cancel context.CancelFunc
}

func (m *Model) Init() tea.Cmd {
	m.present(lesson.Greeting(m.cfg.Teacher.Name), transcript.AuthorAI)
	return tea.Batch(textarea.Blink, m.waitForReveal(), blink())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, m.quit()
		case tea.KeyEnter:
			return m, m.submit()
		case tea.KeyCtrlP:
			m.prerendered = !m.prerendered
			m.status = fmt.Sprintf("预渲染模式: %v", m.prerendered)
			return m, nil
		case tea.KeyCtrlF:
			m.maximized = !m.maximized
			m.layout()
			return m, nil
		case tea.KeyCtrlE:
			return m, m.exportPNG()
		case tea.KeyCtrlY:
			return m, m.copyBoard()
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.layout()
		return m, nil

	case RevealMsg:
		m.apply(msg.Update)
		return m, m.waitForReveal()

	case RevealClosedMsg:
		return m, nil

	case LessonTurnMsg:
		switch {
		case msg.Err != nil:
			m.status = "读取课程失败: " + msg.Err.Error()
		case !msg.OK:
			m.status = "课程已结束"
		default:
			m.present(msg.Turn, transcript.AuthorAI)
		}
		return m, nil

	case ExportSuccessMsg:
		m.status = "已导出: " + msg.FilePath
		return m, nil

	case ExportErrorMsg:
		m.status = "导出失败: " + msg.Error.Error()
		m.log.Error("export failed: %v", msg.Error)
		return m, nil

	case CopySuccessMsg:
		m.status = fmt.Sprintf("已复制 %d 个字符", msg.Runes)
		return m, nil

	case CopyErrorMsg:
		m.status = "复制失败: " + msg.Error.Error()
		return m, nil

	case CursorBlinkMsg:
		m.cursorOn = !m.cursorOn
		m.refresh()
		return m, blink()
	}

	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

func (m *Model) View() string {
	if !m.ready {
		return "初始化中..."
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		m.panelStyle().Render(m.viewport.View()),
		m.panelStyle().Width(m.surfaceW).Height(m.surfaceH).Render(m.canvasView()),
	)
	if m.maximized {
		return fmt.Sprintf("%s\n%s", m.headingView(), body)
	}
	return fmt.Sprintf(
		"%s\n%s\n%s\n%s",
		m.headingView(),
		body,
		m.textarea.View(),
		m.helpView(),
	)
}

// present 开始显示新一轮内容
func (m *Model) present(turn blackboard.Turn, author transcript.Author) {
	id := m.board.Present(turn)
	m.author = author
	m.bus.Publish(NewTurnStartedEvent(id, author, turn))
	m.refresh()
}

func (m *Model) apply(u reveal.Update) {
	f, ok := m.board.Apply(u)
	if !ok {
		return
	}
	if f.State == reveal.StateComplete && m.completed != f.Turn {
		m.completed = f.Turn
		m.bus.Publish(NewRevealCompletedEvent(f.Turn, m.author, m.board.Turn().Text, len(f.Commands)))
	}
	m.refresh()
}

// waitForReveal 读取下一次前缀更新
func (m *Model) waitForReveal() tea.Cmd {
	updates := m.board.Updates()
	return func() tea.Msg {
		u, ok := <-updates
		if !ok {
			return RevealClosedMsg{}
		}
		return RevealMsg{Update: u}
	}
}

func (m *Model) submit() tea.Cmd {
	input := m.textarea.Value()
	m.textarea.Reset()
	if strings.TrimSpace(input) == "" {
		return m.nextLessonTurn()
	}
	m.present(blackboard.Turn{Text: input, Prerendered: m.prerendered}, transcript.AuthorUser)
	return nil
}

func (m *Model) nextLessonTurn() tea.Cmd {
	if m.source == nil {
		m.status = "未加载课程脚本"
		return nil
	}
	src, ctx := m.source, m.ctx
	return func() tea.Msg {
		turn, ok, err := src.Next(ctx)
		return LessonTurnMsg{Turn: turn, OK: ok, Err: err}
	}
}

func (m *Model) exportPNG() tea.Cmd {
	frame := m.board.Frame()
	opts := export.Options{
		Width:        m.cfg.Export.Width,
		Height:       m.cfg.Export.Height,
		Teacher:      m.cfg.Teacher.Name,
		TeacherColor: m.cfg.Teacher.Color,
		Renderer:     m.renderer,
	}
	path := export.Filename(m.cfg.ExportDir(), time.Now())
	return func() tea.Msg {
		if err := export.SavePNG(path, frame, opts); err != nil {
			return ExportErrorMsg{Error: err}
		}
		return ExportSuccessMsg{FilePath: path}
	}
}

func (m *Model) copyBoard() tea.Cmd {
	text := plainText(m.board.Frame())
	copyText := m.copyText
	return func() tea.Msg {
		if err := copyText(text); err != nil {
			return CopyErrorMsg{Error: err}
		}
		return CopySuccessMsg{Runes: len([]rune(text))}
	}
}

func (m *Model) quit() tea.Cmd {
	m.cancel()
	m.board.Close()
	if m.store != nil && m.recorder != nil {
		if err := m.store.Save(m.recorder.Entries()); err != nil {
			m.log.Error("saving transcript: %v", err)
		}
	}
	return tea.Quit
}

// layout 按窗口尺寸分配左右面板并通知画布
func (m *Model) layout() {
	if !m.ready {
		return
	}
	footer := 0
	if !m.maximized {
		footer = m.textarea.Height() + 1
	}
	bodyH := max(m.height-1-footer, 3)
	leftW := m.width / 2
	rightW := m.width - leftW

	m.viewport.Width = max(leftW-2, 1)
	m.viewport.Height = bodyH - 2
	m.textarea.SetWidth(m.width)

	w, h := max(rightW-2, 1), bodyH-2
	m.surfaceW, m.surfaceH = w, h
	m.board.Resize(canvas.Dimensions{Width: float64(w), Height: float64(h)})
	m.bus.Publish(NewSurfaceResizedEvent(w, h))
	m.refresh()
}

func (m *Model) refresh() {
	f := m.board.Frame()

	var sb strings.Builder
	if f.Media.Active() {
		sb.WriteString(f.Prefix)
	} else {
		sb.WriteString(m.theme.Format(f.Spans))
	}
	if f.ShowCursor && m.cursorOn {
		sb.WriteString(m.theme.Highlight.Render(cursorGlyph))
	}

	content := sb.String()
	if m.viewport.Width > 0 {
		content = lipgloss.NewStyle().Width(m.viewport.Width).Render(content)
	}
	m.viewport.SetContent(content)
	m.viewport.GotoBottom()
}

func (m *Model) canvasView() string {
	f := m.board.Frame()
	if f.Media.Active() {
		url := f.Media.EmbedURL
		if url == "" {
			url = f.Media.VideoURL
		}
		return lipgloss.Place(m.surfaceW, m.surfaceH, lipgloss.Center, lipgloss.Center,
			lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Render("▶ "+url))
	}
	return m.surface.String()
}

func (m *Model) headingView() string {
	c := m.renderer.Palette.Resolve(m.cfg.Teacher.Color + "-400")
	heading := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(canvas.Hex(c))).
		Render(fmt.Sprintf("%s's Notes", m.cfg.Teacher.Name))
	if m.maximized {
		return heading
	}
	if f := m.board.Frame(); f.State != reveal.StateComplete {
		heading += lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render("  书写中...")
	}
	return heading
}

func (m *Model) panelStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#3f5a3f"))
}

func (m *Model) helpView() string {
	help := "Enter: 显示 • 空行 Enter: 下一段 • Ctrl+P: 预渲染 • Ctrl+E: 导出 PNG • Ctrl+Y: 复制 • Ctrl+F: 最大化 • Ctrl+C: 退出"
	if m.status != "" {
		help = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Render(m.status) + "  " + help
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(help)
}

func blink() tea.Cmd {
	return tea.Tick(blinkInterval, func(t time.Time) tea.Msg {
		return CursorBlinkMsg{Time: t}
	})
}

// plainText 去掉指令后的黑板文字
func plainText(f blackboard.Frame) string {
	if f.Media.Active() {
		return f.Prefix
	}
	return segment.Plain(f.Spans)
}

var _ tea.Model = (*Model)(nil)

package blackboard

import (
	"github.com/Zacy-Sokach/PolyBoard/internal/canvas"
	"github.com/Zacy-Sokach/PolyBoard/internal/directive"
	"github.com/Zacy-Sokach/PolyBoard/internal/logging"
	"github.com/Zacy-Sokach/PolyBoard/internal/reveal"
	"github.com/Zacy-Sokach/PolyBoard/internal/segment"
)

// Media 替代黑板表面的视频或嵌入内容
type Media struct {
	VideoURL string `yaml:"video_url" json:"video_url,omitempty"`
	EmbedURL string `yaml:"embed_url" json:"embed_url,omitempty"`
}

// Active 是否有媒体覆盖层
func (m *Media) Active() bool {
	return m != nil && (m.VideoURL != "" || m.EmbedURL != "")
}

// Turn AI 的一轮输出
type Turn struct {
	Text        string
	Prerendered bool
	Media       *Media
}

// Instant 预渲染内容或媒体覆盖层直接完整显示
func (t Turn) Instant() bool {
	return t.Prerendered || t.Media.Active()
}

// Frame 当前一帧的显示内容
type Frame struct {
	Turn       uint64
	Prefix     string
	Parts      []directive.ContentPart
	Spans      []segment.Span
	Commands   []directive.DrawingCommand
	Malformed  []string
	State      reveal.State
	ShowCursor bool
	Media      *Media
}

// Board 一个会话的渲染管线：打字效果 → 指令解析 → 文本片段 + 画布
type Board struct {
	driver  *reveal.Driver
	parser  *directive.Parser
	overlay *canvas.Overlay
	log     logging.Logger

	turn    Turn
	turnID  uint64
	current Frame
	closed  bool
}

// NewBoard 创建黑板管线
func NewBoard(driver *reveal.Driver, parser *directive.Parser, overlay *canvas.Overlay, log logging.Logger) *Board {
	if log == nil {
		log = logging.Discard()
	}
	if parser == nil {
		parser = directive.NewParser(log)
	}
	if overlay == nil {
		overlay = canvas.NewOverlay(nil, nil)
	}
	if driver == nil {
		driver = reveal.NewDriver(reveal.DefaultInterval, nil)
	}
	return &Board{
		driver:  driver,
		parser:  parser,
		overlay: overlay,
		log:     log.WithPrefix("board"),
		current: Frame{State: reveal.StateComplete},
	}
}

// Updates 打字效果的更新通道
func (b *Board) Updates() <-chan reveal.Update {
	return b.driver.Updates()
}

// Present 开始新一轮显示，旧一轮的计时器会被取消
func (b *Board) Present(turn Turn) uint64 {
	if b.closed {
		return b.turnID
	}
	b.turn = turn
	b.turnID = b.driver.Start(turn.Text, turn.Instant())
	b.overlay.SetSuppressed(turn.Media.Active())
	b.current = Frame{Turn: b.turnID, State: reveal.StateReset, Media: turn.Media}
	b.overlay.SetCommands(nil)
	b.log.Debug("turn %d started: %d runes instant=%v", b.turnID, len([]rune(turn.Text)), turn.Instant())
	return b.turnID
}

// Apply 处理一次前缀更新，过期轮次的更新返回 false
func (b *Board) Apply(u reveal.Update) (Frame, bool) {
	if b.closed || u.Turn != b.turnID {
		return b.current, false
	}

	f := compose(b.parser, b.turn, u.Prefix, u.State)
	f.Turn = u.Turn
	if f.State == reveal.StateComplete {
		for _, raw := range f.Malformed {
			b.log.Warn("turn %d: 无法解析绘图指令 %q", f.Turn, raw)
		}
	}

	b.overlay.SetCommands(f.Commands)
	b.current = f
	return f, true
}

// Still 完整显示一轮内容得到的静态帧，用于导出
func Still(turn Turn) Frame {
	return compose(defaultParser, turn, turn.Text, reveal.StateComplete)
}

var defaultParser = directive.NewParser(nil)

func compose(p *directive.Parser, turn Turn, prefix string, state reveal.State) Frame {
	f := Frame{
		Prefix: prefix,
		State:  state,
		Media:  turn.Media,
	}
	if !turn.Media.Active() {
		res := p.Parse(prefix)
		f.Parts = res.Parts
		f.Commands = res.Commands
		f.Malformed = res.Malformed
		f.Spans = segment.Render(res.Parts)
	}
	f.ShowCursor = state == reveal.StateComplete && !turn.Prerendered && !turn.Media.Active()
	return f
}

// Resize 表面尺寸变化
func (b *Board) Resize(d canvas.Dimensions) {
	b.overlay.Resize(d)
}

// Frame 当前帧
func (b *Board) Frame() Frame {
	return b.current
}

// Turn 当前轮次内容
func (b *Board) Turn() Turn {
	return b.turn
}

// Overlay 画布覆盖层
func (b *Board) Overlay() *canvas.Overlay {
	return b.overlay
}

// Close 拆除视图：停止计时器并解除画布绑定
func (b *Board) Close() {
	if b.closed {
		return
	}
	b.closed = true
	b.driver.Close()
	b.overlay.Detach()
}

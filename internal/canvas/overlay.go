package canvas

import (
	"github.com/Zacy-Sokach/PolyBoard/internal/directive"
)

// Resizable 需要随容器尺寸调整自身大小的表面
type Resizable interface {
	Resize(d Dimensions)
}

// Overlay 维护当前命令集与表面尺寸
// 命令集、尺寸或遮挡状态变化时整帧清空重绘，不做增量更新
type Overlay struct {
	renderer   *Renderer
	surface    Surface
	dims       Dimensions
	commands   []directive.DrawingCommand
	suppressed bool
	detached   bool

	frames int
	drawn  int
}

// NewOverlay 创建画布覆盖层，surface 可以为 nil，稍后通过 Attach 提供
func NewOverlay(r *Renderer, s Surface) *Overlay {
	if r == nil {
		r = NewRenderer()
	}
	return &Overlay{renderer: r, surface: s}
}

// Attach 绑定绘图表面并立即重绘
func (o *Overlay) Attach(s Surface) {
	o.surface = s
	if s != nil && !o.dims.Empty() {
		if rs, ok := s.(Resizable); ok {
			rs.Resize(o.dims)
		}
	}
	o.render()
}

// SetCommands 替换命令集，内容不变时不重绘
func (o *Overlay) SetCommands(cmds []directive.DrawingCommand) bool {
	if equalCommands(o.commands, cmds) {
		return false
	}
	o.commands = cmds
	return o.render()
}

// Resize 接收尺寸变化通知
func (o *Overlay) Resize(d Dimensions) bool {
	if d == o.dims {
		return false
	}
	o.dims = d
	if rs, ok := o.surface.(Resizable); ok && !o.detached {
		rs.Resize(d)
	}
	return o.render()
}

// SetSuppressed 媒体覆盖层激活时清空画布并停止绘制命令
func (o *Overlay) SetSuppressed(suppressed bool) bool {
	if suppressed == o.suppressed {
		return false
	}
	o.suppressed = suppressed
	return o.render()
}

// Detach 拆除视图后不再重绘
func (o *Overlay) Detach() {
	o.detached = true
	o.surface = nil
}

func (o *Overlay) Commands() []directive.DrawingCommand { return o.commands }
func (o *Overlay) Dimensions() Dimensions { return o.dims }
func (o *Overlay) Suppressed() bool { return o.suppressed }

// Frames 已完成的重绘次数；Drawn 最近一帧绘制的图形数
func (o *Overlay) Frames() int { return o.frames }
func (o *Overlay) Drawn() int { return o.drawn }

func (o *Overlay) render() bool {
	if o.detached || o.surface == nil || o.dims.Empty() {
		return false
	}
	cmds := o.commands
	if o.suppressed {
		cmds = nil
	}
	o.drawn = o.renderer.Render(o.surface, o.dims, cmds)
	o.frames++
	return true
}

func equalCommands(a, b []directive.DrawingCommand) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Shape != b[i].Shape || a[i].Color != b[i].Color || len(a[i].Params) != len(b[i].Params) {
			return false
		}
		for k, v := range a[i].Params {
			if w, ok := b[i].Params[k]; !ok || w != v {
				return false
			}
		}
	}
	return true
}

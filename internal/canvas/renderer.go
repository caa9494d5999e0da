package canvas

import (
	"github.com/Zacy-Sokach/PolyBoard/internal/directive"
)

const (
	DefaultLineWidth = 3.0
	DefaultGlowBlur  = 5.0
)

// Renderer 将百分比坐标的绘图命令映射到表面上
type Renderer struct {
	Palette   Palette
	LineWidth float64
	GlowBlur  float64
	// SkipZeroParams 为 true 时值为 0 的必需参数视为缺失
	SkipZeroParams bool
}

// NewRenderer 创建使用默认调色板与线宽的渲染器
func NewRenderer() *Renderer {
	return &Renderer{
		Palette:   DefaultPalette(),
		LineWidth: DefaultLineWidth,
		GlowBlur:  DefaultGlowBlur,
	}
}

// Render 清空表面并重绘全部命令，返回实际绘制的图形数量
// 表面为空或尺寸为零时不做任何事
func (r *Renderer) Render(s Surface, dims Dimensions, cmds []directive.DrawingCommand) int {
	if s == nil || dims.Empty() {
		return 0
	}
	s.Clear()

	drawn := 0
	for _, cmd := range cmds {
		if r.draw(s, dims, cmd) {
			drawn++
		}
	}
	return drawn
}

func (r *Renderer) draw(s Surface, dims Dimensions, cmd directive.DrawingCommand) bool {
	var shape func()
	switch cmd.Shape {
	case directive.ShapeRect:
		v, ok := r.required(cmd, "x", "y", "w", "h")
		if !ok {
			return false
		}
		shape = func() {
			s.StrokeRect(scale(v[0], dims.Width), scale(v[1], dims.Height), scale(v[2], dims.Width), scale(v[3], dims.Height))
		}
	case directive.ShapeCircle:
		v, ok := r.required(cmd, "x", "y", "r")
		if !ok {
			return false
		}
		shape = func() {
			s.StrokeCircle(scale(v[0], dims.Width), scale(v[1], dims.Height), scale(v[2], dims.Width))
		}
	case directive.ShapeLine:
		v, ok := r.required(cmd, "x1", "y1", "x2", "y2")
		if !ok {
			return false
		}
		shape = func() {
			s.StrokeLine(scale(v[0], dims.Width), scale(v[1], dims.Height), scale(v[2], dims.Width), scale(v[3], dims.Height))
		}
	default:
		return false
	}

	c := r.palette().Resolve(cmd.Color)
	s.SetStroke(c, r.LineWidth)
	s.SetGlow(c, r.GlowBlur)
	shape()
	s.ResetGlow()
	return true
}

func (r *Renderer) required(cmd directive.DrawingCommand, names ...string) ([]float64, bool) {
	values := make([]float64, len(names))
	for i, name := range names {
		v, ok := cmd.Param(name)
		if !ok || (r.SkipZeroParams && v == 0) {
			return nil, false
		}
		values[i] = v
	}
	return values, true
}

func (r *Renderer) palette() Palette {
	if r.Palette == nil {
		return DefaultPalette()
	}
	return r.Palette
}

// scale 百分比换算为像素
func scale(percent, dimension float64) float64 {
	return percent * dimension / 100
}

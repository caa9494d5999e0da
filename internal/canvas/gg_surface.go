package canvas

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
)

const glowPasses = 3

// GGSurface 基于 gg 的位图表面，背景透明，便于叠加到其他图像上
type GGSurface struct {
	dc     *gg.Context
	stroke color.Color
	width  float64
	glow   color.Color
	blur   float64
}

// NewGGSurface 创建指定像素尺寸的表面
func NewGGSurface(width, height int) *GGSurface {
	return &GGSurface{
		dc:     gg.NewContext(width, height),
		stroke: White,
		width:  DefaultLineWidth,
	}
}

// Resize 尺寸变化时重建底层位图
func (s *GGSurface) Resize(d Dimensions) {
	w, h := int(d.Width), int(d.Height)
	if w <= 0 || h <= 0 || (w == s.dc.Width() && h == s.dc.Height()) {
		return
	}
	s.dc = gg.NewContext(w, h)
}

func (s *GGSurface) Clear() {
	s.dc.SetRGBA(0, 0, 0, 0)
	s.dc.Clear()
}

func (s *GGSurface) SetStroke(c color.Color, width float64) {
	s.stroke = c
	s.width = width
}

func (s *GGSurface) SetGlow(c color.Color, blur float64) {
	s.glow = c
	s.blur = blur
}

func (s *GGSurface) ResetGlow() {
	s.glow = nil
	s.blur = 0
}

func (s *GGSurface) StrokeRect(x, y, w, h float64) {
	s.stroked(func() { s.dc.DrawRectangle(x, y, w, h) })
}

func (s *GGSurface) StrokeCircle(cx, cy, r float64) {
	s.stroked(func() { s.dc.DrawCircle(cx, cy, r) })
}

func (s *GGSurface) StrokeLine(x1, y1, x2, y2 float64) {
	s.stroked(func() { s.dc.DrawLine(x1, y1, x2, y2) })
}

// stroked gg 没有阴影，辉光用逐渐收窄的半透明描边模拟
func (s *GGSurface) stroked(path func()) {
	if s.glow != nil && s.blur > 0 {
		r, g, b, _ := s.glow.RGBA()
		for i := glowPasses; i > 0; i-- {
			path()
			s.dc.SetRGBA(float64(r)/0xffff, float64(g)/0xffff, float64(b)/0xffff, 0.12)
			s.dc.SetLineWidth(s.width + s.blur*float64(i)/glowPasses*2)
			s.dc.Stroke()
		}
	}
	path()
	s.dc.SetColor(s.stroke)
	s.dc.SetLineWidth(s.width)
	s.dc.Stroke()
}

// Image 当前帧
func (s *GGSurface) Image() image.Image {
	return s.dc.Image()
}

// Context 底层 gg 上下文
func (s *GGSurface) Context() *gg.Context {
	return s.dc
}

package canvas

import (
	"image/color"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type cell struct {
	r    rune
	c    color.RGBA
	bold bool
}

// CellSurface 终端单元格表面，坐标单位为单元格
type CellSurface struct {
	w, h     int
	cells    []cell
	stroke   color.RGBA
	glow     bool
	renderer *lipgloss.Renderer
}

// NewCellSurface 创建 w×h 的单元格表面
func NewCellSurface(w, h int) *CellSurface {
	s := &CellSurface{stroke: White, renderer: lipgloss.DefaultRenderer()}
	s.Resize(Dimensions{Width: float64(w), Height: float64(h)})
	return s
}

// SetRenderer 指定输出样式使用的渲染器
func (s *CellSurface) SetRenderer(r *lipgloss.Renderer) {
	s.renderer = r
}

func (s *CellSurface) Resize(d Dimensions) {
	w, h := int(d.Width), int(d.Height)
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	s.w, s.h = w, h
	s.cells = make([]cell, w*h)
}

func (s *CellSurface) Size() (int, int) { return s.w, s.h }

func (s *CellSurface) Clear() {
	for i := range s.cells {
		s.cells[i] = cell{}
	}
}

func (s *CellSurface) SetStroke(c color.Color, _ float64) {
	s.stroke = toRGBA(c)
}

// SetGlow 终端中以粗体表示辉光
func (s *CellSurface) SetGlow(_ color.Color, blur float64) {
	s.glow = blur > 0
}

func (s *CellSurface) ResetGlow() {
	s.glow = false
}

func (s *CellSurface) StrokeRect(x, y, w, h float64) {
	x0, y0 := round(x), round(y)
	x1, y1 := round(x+w), round(y+h)
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	if x0 == x1 && y0 == y1 {
		s.plot(x0, y0, '·')
		return
	}

	for i := max(x0+1, 0); i < min(x1, s.w); i++ {
		s.plot(i, y0, '─')
		s.plot(i, y1, '─')
	}
	for j := max(y0+1, 0); j < min(y1, s.h); j++ {
		s.plot(x0, j, '│')
		s.plot(x1, j, '│')
	}
	switch {
	case x0 == x1:
		s.plot(x0, y0, '│')
		s.plot(x0, y1, '│')
	case y0 == y1:
		s.plot(x0, y0, '─')
		s.plot(x1, y0, '─')
	default:
		s.plot(x0, y0, '┌')
		s.plot(x1, y0, '┐')
		s.plot(x0, y1, '└')
		s.plot(x1, y1, '┘')
	}
}

func (s *CellSurface) StrokeCircle(cx, cy, r float64) {
	if r <= 0 {
		s.plot(round(cx), round(cy), '·')
		return
	}
	if cx+r < -1 || cx-r > float64(s.w) || cy+r < -1 || cy-r > float64(s.h) {
		return
	}
	if 4*math.Pi*r > float64(s.w*s.h) {
		s.scanRing(cx, cy, r)
		return
	}
	steps := int(math.Max(16, 4*math.Pi*r))
	for i := 0; i < steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		s.plot(round(cx+r*math.Cos(a)), round(cy+r*math.Sin(a)), '•')
	}
}

// scanRing 大圆逐格判断是否落在圆周上，开销只与网格大小有关
func (s *CellSurface) scanRing(cx, cy, r float64) {
	for y := 0; y < s.h; y++ {
		for x := 0; x < s.w; x++ {
			if math.Abs(math.Hypot(float64(x)-cx, float64(y)-cy)-r) <= 0.5 {
				s.plot(x, y, '•')
			}
		}
	}
}

// StrokeLine Bresenham 直线，字符按整体斜率选择
func (s *CellSurface) StrokeLine(x1, y1, x2, y2 float64) {
	ax, ay := round(x1), round(y1)
	bx, by := round(x2), round(y2)
	dx, dy := abs(bx-ax), abs(by-ay)

	glyph := '─'
	switch {
	case dx == 0 && dy == 0:
		glyph = '·'
	case dx*2 < dy:
		glyph = '│'
	case dy*2 < dx:
		glyph = '─'
	case (bx-ax)*(by-ay) > 0:
		glyph = '╲'
	default:
		glyph = '╱'
	}

	cx1, cy1, cx2, cy2, ok := clipSegment(clampCoord(x1), clampCoord(y1), clampCoord(x2), clampCoord(y2),
		-1, -1, float64(s.w), float64(s.h))
	if !ok {
		return
	}
	ax, ay = round(cx1), round(cy1)
	bx, by = round(cx2), round(cy2)
	dx, dy = abs(bx-ax), abs(by-ay)

	sx, sy := 1, 1
	if bx < ax {
		sx = -1
	}
	if by < ay {
		sy = -1
	}
	err := dx - dy
	for {
		s.plot(ax, ay, glyph)
		if ax == bx && ay == by {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			ax += sx
		}
		if e2 < dx {
			err += dx
			ay += sy
		}
	}
}

// Rune 返回单元格字符，未绘制时为空格
func (s *CellSurface) Rune(x, y int) rune {
	if !s.valid(x, y) || s.cells[y*s.w+x].r == 0 {
		return ' '
	}
	return s.cells[y*s.w+x].r
}

// ColorAt 返回单元格颜色
func (s *CellSurface) ColorAt(x, y int) (color.RGBA, bool) {
	if !s.valid(x, y) || s.cells[y*s.w+x].r == 0 {
		return color.RGBA{}, false
	}
	return s.cells[y*s.w+x].c, true
}

// Painted 已绘制的单元格数量
func (s *CellSurface) Painted() int {
	n := 0
	for _, c := range s.cells {
		if c.r != 0 {
			n++
		}
	}
	return n
}

// Lines 不带样式的逐行内容
func (s *CellSurface) Lines() []string {
	lines := make([]string, s.h)
	for y := 0; y < s.h; y++ {
		var sb strings.Builder
		for x := 0; x < s.w; x++ {
			sb.WriteRune(s.Rune(x, y))
		}
		lines[y] = sb.String()
	}
	return lines
}

// String 按颜色分段渲染整个网格
func (s *CellSurface) String() string {
	var sb strings.Builder
	for y := 0; y < s.h; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		x := 0
		for x < s.w {
			start := s.cells[y*s.w+x]
			var run strings.Builder
			for x < s.w {
				c := s.cells[y*s.w+x]
				if c.r == 0 {
					c.r = ' '
				}
				if c.c != start.c || c.bold != start.bold {
					break
				}
				run.WriteRune(c.r)
				x++
			}
			if start.r == 0 && start.c == (color.RGBA{}) {
				sb.WriteString(run.String())
				continue
			}
			style := s.renderer.NewStyle().Foreground(lipgloss.Color(Hex(start.c))).Bold(start.bold)
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

func (s *CellSurface) plot(x, y int, r rune) {
	if !s.valid(x, y) {
		return
	}
	s.cells[y*s.w+x] = cell{r: r, c: s.stroke, bold: s.glow}
}

func (s *CellSurface) valid(x, y int) bool {
	return x >= 0 && y >= 0 && x < s.w && y < s.h
}

func toRGBA(c color.Color) color.RGBA {
	if rgba, ok := c.(color.RGBA); ok {
		return rgba
	}
	r, g, b, a := c.RGBA()
	return color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)}
}

// maxCoord 坐标换算为整数前的截断范围
const maxCoord = 1 << 30

func clampCoord(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(-maxCoord, math.Min(maxCoord, v))
}

func round(v float64) int {
	return int(math.Round(clampCoord(v)))
}

// clipSegment Liang-Barsky 裁剪，线段完全在矩形外时返回 false
func clipSegment(x1, y1, x2, y2, minX, minY, maxX, maxY float64) (float64, float64, float64, float64, bool) {
	dx, dy := x2-x1, y2-y1
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, x1 - minX},
		{dx, maxX - x1},
		{-dy, y1 - minY},
		{dy, maxY - y1},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = math.Max(t0, t)
		} else {
			if t < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = math.Min(t1, t)
		}
	}
	return x1 + t0*dx, y1 + t0*dy, x1 + t1*dx, y1 + t1*dy, true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

package canvas

import "image/color"

// Dimensions 绘图表面的尺寸（像素或终端单元格）
type Dimensions struct {
	Width  float64
	Height float64
}

// Empty 任一边为零时无法绘制
func (d Dimensions) Empty() bool {
	return d.Width <= 0 || d.Height <= 0
}

// Surface 2D 绘图表面
type Surface interface {
	// Clear 清空整个画面
	Clear()
	SetStroke(c color.Color, width float64)
	// SetGlow 设置与描边同色的辉光，ResetGlow 取消
	SetGlow(c color.Color, blur float64)
	ResetGlow()
	StrokeRect(x, y, w, h float64)
	StrokeCircle(cx, cy, r float64)
	StrokeLine(x1, y1, x2, y2 float64)
}

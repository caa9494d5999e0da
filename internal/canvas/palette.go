package canvas

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Palette 将颜色标记映射为具体颜色
type Palette map[string]color.RGBA

// White 默认颜色
var White = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

var tailwindHex = map[string]string{
	"blue-300":   "#93c5fd",
	"blue-400":   "#60a5fa",
	"purple-300": "#d8b4fe",
	"purple-400": "#c084fc",
	"orange-300": "#fdba74",
	"orange-400": "#fb923c",
	"yellow-300": "#fde047",
	"yellow-400": "#facc15",
	"green-300":  "#86efac",
	"green-400":  "#4ade80",
	"red-300":    "#fca5a5",
	"red-400":    "#f87171",
	"white":      "#FFFFFF",
}

// DefaultPalette 黑板使用的固定调色板
func DefaultPalette() Palette {
	p := make(Palette, len(tailwindHex))
	for token, hex := range tailwindHex {
		c, err := ParseHex(hex)
		if err != nil {
			panic(err)
		}
		p[token] = c
	}
	return p
}

// Resolve 查找颜色，未知标记回退为白色
func (p Palette) Resolve(token string) color.RGBA {
	if c, ok := p[token]; ok {
		return c
	}
	return White
}

// Hex 返回颜色的 #rrggbb 表示
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseHex 解析 #rgb 或 #rrggbb
func ParseHex(s string) (color.RGBA, error) {
	h := strings.TrimPrefix(s, "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

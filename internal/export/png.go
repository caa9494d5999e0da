package export

import (
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Zacy-Sokach/PolyBoard/internal/blackboard"
	"github.com/Zacy-Sokach/PolyBoard/internal/canvas"
	"github.com/Zacy-Sokach/PolyBoard/internal/directive"
	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
)

const (
	margin      = 48.0
	bodySize    = 22.0
	headingSize = 30.0
	lineSpacing = 1.5
)

var (
	boardColor     = color.RGBA{0x2a, 0x3a, 0x2a, 0xff}
	textColor      = color.RGBA{0xff, 0xff, 0xff, 0xff}
	highlightColor = color.RGBA{0xfe, 0xf0, 0x8a, 0xff}
	highlightFill  = color.NRGBA{0xfe, 0xf0, 0x8a, 0x40}
)

// Options 导出参数
type Options struct {
	Width        int
	Height       int
	Teacher      string
	TeacherColor string
	Renderer     *canvas.Renderer
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = 1280
	}
	if o.Height <= 0 {
		o.Height = 720
	}
	if o.Teacher == "" {
		o.Teacher = "Teacher"
	}
	if o.TeacherColor == "" {
		o.TeacherColor = "green"
	}
	if o.Renderer == nil {
		o.Renderer = canvas.NewRenderer()
	}
	return o
}

// PNG 将一帧黑板内容绘制为 PNG
func PNG(w io.Writer, frame blackboard.Frame, opts Options) error {
	dc, err := Draw(frame, opts)
	if err != nil {
		return err
	}
	if err := dc.EncodePNG(w); err != nil {
		return errors.Wrap(err, "encoding png")
	}
	return nil
}

// SavePNG 写入文件，必要时创建目录
func SavePNG(path string, frame blackboard.Frame, opts Options) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "creating export dir")
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating %s", path)
	}
	if err := PNG(f, frame, opts); err != nil {
		f.Close()
		return err
	}
	return errors.Wrapf(f.Close(), "closing %s", path)
}

// Filename 按时间生成导出文件名
func Filename(dir string, at time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("polyboard-%s.png", at.Format("20060102-150405")))
}

// Draw 绘制黑板、文本与画布覆盖层
func Draw(frame blackboard.Frame, opts Options) (*gg.Context, error) {
	opts = opts.withDefaults()

	ttf, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse font")
	}

	dc := gg.NewContext(opts.Width, opts.Height)
	dc.SetColor(boardColor)
	dc.Clear()

	heading := fmt.Sprintf("%s's Notes", opts.Teacher)
	dc.SetFontFace(newFace(ttf, headingSize))
	dc.SetColor(opts.Renderer.Palette.Resolve(opts.TeacherColor + "-400"))
	dc.DrawString(heading, margin, margin+headingSize)

	dc.SetFontFace(newFace(ttf, bodySize))
	top := margin + headingSize*2
	parts := frame.Parts
	if frame.Media.Active() {
		parts = []directive.ContentPart{{Kind: directive.PartText, Value: frame.Prefix}}
	}
	drawParts(dc, parts, margin, top, float64(opts.Width)-margin*2)

	if frame.Media.Active() {
		return dc, nil
	}
	surface := canvas.NewGGSurface(opts.Width, opts.Height)
	dims := canvas.Dimensions{Width: float64(opts.Width), Height: float64(opts.Height)}
	opts.Renderer.Render(surface, dims, frame.Commands)
	dc.DrawImage(surface.Image(), 0, 0)
	return dc, nil
}

func newFace(ttf *truetype.Font, size float64) font.Face {
	return truetype.NewFace(ttf, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// word 排版后的一个单词
type word struct {
	text      string
	highlight bool
	x, y      float64
	width     float64
}

// layout 按宽度折行，高亮片段保持自身的单词边界
func layout(dc *gg.Context, parts []directive.ContentPart, left, top, maxWidth float64) []word {
	lineHeight := dc.FontHeight() * lineSpacing
	x, y := left, top
	var words []word

	for _, p := range parts {
		lines := strings.Split(p.Value, "\n")
		for li, line := range lines {
			if li > 0 {
				x = left
				y += lineHeight
			}
			for _, tok := range strings.SplitAfter(line, " ") {
				if tok == "" {
					continue
				}
				w, _ := dc.MeasureString(tok)
				if x > left && x+w > left+maxWidth {
					x = left
					y += lineHeight
				}
				words = append(words, word{
					text:      tok,
					highlight: p.Kind == directive.PartHighlight,
					x:         x,
					y:         y,
					width:     w,
				})
				x += w
			}
		}
	}
	return words
}

// fillHighlight 在黑板底色上叠加半透明的高亮底框
func fillHighlight(dc *gg.Context, x, y, w, h float64) {
	dc.SetColor(highlightFill)
	dc.DrawRectangle(x, y, w, h)
	dc.Fill()
}

func drawParts(dc *gg.Context, parts []directive.ContentPart, left, top, maxWidth float64) {
	words := layout(dc, parts, left, top, maxWidth)
	h := dc.FontHeight()

	for _, w := range words {
		if !w.highlight {
			continue
		}
		width, _ := dc.MeasureString(strings.TrimRight(w.text, " "))
		fillHighlight(dc, w.x-2, w.y-h, width+4, h*1.3)
	}
	for _, w := range words {
		if w.highlight {
			dc.SetColor(highlightColor)
		} else {
			dc.SetColor(textColor)
		}
		dc.DrawString(w.text, w.x, w.y)
	}
}

package directive

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/Zacy-Sokach/PolyBoard/internal/logging"
)

// Shape 绘图指令的图形名称，统一为大写
type Shape string

const (
	ShapeRect   Shape = "RECT"
	ShapeCircle Shape = "CIRCLE"
	ShapeLine   Shape = "LINE"
)

// Known 检查图形是否可被画布绘制
func (s Shape) Known() bool {
	switch s {
	case ShapeRect, ShapeCircle, ShapeLine:
		return true
	}
	return false
}

// DefaultColor 未指定 color= 时使用的颜色标记
const DefaultColor = "white"

// DrawingCommand 从 [DRAW:...] 中解析出的绘图命令，参数为百分比坐标
type DrawingCommand struct {
	Shape  Shape              `json:"shape"`
	Color  string             `json:"color"`
	Params map[string]float64 `json:"params"`
}

// Param 返回参数值以及是否存在
func (c DrawingCommand) Param(name string) (float64, bool) {
	v, ok := c.Params[name]
	return v, ok
}

// PartKind 文本片段类型
type PartKind string

const (
	PartText      PartKind = "text"
	PartHighlight PartKind = "highlight"
)

// ContentPart 去除指令后的显示文本片段
type ContentPart struct {
	Kind  PartKind `json:"kind"`
	Value string   `json:"value"`
}

// Result 一次解析的结果
type Result struct {
	Parts    []ContentPart    `json:"parts"`
	Commands []DrawingCommand `json:"commands"`
	// Malformed 参数无法解析而被丢弃的原始指令文本
	Malformed []string `json:"malformed,omitempty"`
}

// PlainText 按顺序拼接所有片段
func (r Result) PlainText() string {
	var sb strings.Builder
	for _, p := range r.Parts {
		sb.WriteString(p.Value)
	}
	return sb.String()
}

// Parser 指令解析器
type Parser struct {
	drawPattern      *regexp.Regexp
	colorPattern     *regexp.Regexp
	highlightPattern *regexp.Regexp
	log              logging.Logger
}

// NewParser 创建新的指令解析器，log 为 nil 时不输出日志
func NewParser(log logging.Logger) *Parser {
	if log == nil {
		log = logging.Discard()
	}
	return &Parser{
		drawPattern:      regexp.MustCompile(`\[DRAW:(\w+)\s+([^\]]+)\]`),
		colorPattern:     regexp.MustCompile(`color=([\w-]+)`),
		highlightPattern: regexp.MustCompile(`\[HIGHLIGHT:([^\]]+)\]`),
		log:              log.WithPrefix("directive"),
	}
}

var defaultParser = NewParser(nil)

// Parse 使用默认解析器解析文本
func Parse(text string) Result {
	return defaultParser.Parse(text)
}

// Parse 提取文本中的绘图与高亮指令
// 绘图指令从文本中整体移除；高亮指令只去掉外层语法，保留内部文字
func (p *Parser) Parse(text string) Result {
	stripped, commands, malformed := p.extractDrawings(text)
	return Result{
		Parts:     p.splitHighlights(stripped),
		Commands:  commands,
		Malformed: malformed,
	}
}

func (p *Parser) extractDrawings(text string) (string, []DrawingCommand, []string) {
	matches := p.drawPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text, nil, nil
	}

	var sb strings.Builder
	sb.Grow(len(text))
	var commands []DrawingCommand
	var malformed []string
	last := 0
	for _, m := range matches {
		sb.WriteString(text[last:m[0]])
		last = m[1]

		shape := text[m[2]:m[3]]
		cmd, ok, err := p.parseDrawing(shape, text[m[4]:m[5]])
		switch {
		case err != nil:
			// 打字过程中参数可能只显示了一半，这里只记调试日志
			p.log.Debug("无法解析绘图指令 %q: %v", text[m[0]:m[1]], err)
			malformed = append(malformed, text[m[0]:m[1]])
		case ok:
			commands = append(commands, cmd)
		}
	}
	sb.WriteString(text[last:])
	return sb.String(), commands, malformed
}

// parseDrawing 解析单条绘图指令的参数
// color= 先于通用参数提取，避免被当作数值解析
func (p *Parser) parseDrawing(shape, paramStr string) (DrawingCommand, bool, error) {
	color := DefaultColor
	if loc := p.colorPattern.FindStringSubmatchIndex(paramStr); loc != nil {
		color = paramStr[loc[2]:loc[3]]
		paramStr = paramStr[:loc[0]] + paramStr[loc[1]:]
	}

	params := make(map[string]float64)
	for _, token := range strings.Fields(paramStr) {
		kv := strings.Split(token, "=")
		if len(kv) < 2 || kv[0] == "" || kv[1] == "" {
			continue
		}
		v, err := strconv.ParseFloat(kv[1], 64)
		if err == nil && (math.IsNaN(v) || math.IsInf(v, 0)) {
			err = strconv.ErrRange
		}
		if err != nil {
			return DrawingCommand{}, false, err
		}
		params[kv[0]] = v
	}

	if len(params) == 0 {
		return DrawingCommand{}, false, nil
	}
	return DrawingCommand{
		Shape:  Shape(strings.ToUpper(shape)),
		Color:  color,
		Params: params,
	}, true, nil
}

// splitHighlights 交替切分普通文本与高亮文本，丢弃空的普通片段
func (p *Parser) splitHighlights(text string) []ContentPart {
	var parts []ContentPart
	last := 0
	for _, m := range p.highlightPattern.FindAllStringSubmatchIndex(text, -1) {
		if m[0] > last {
			parts = append(parts, ContentPart{Kind: PartText, Value: text[last:m[0]]})
		}
		parts = append(parts, ContentPart{Kind: PartHighlight, Value: text[m[2]:m[3]]})
		last = m[1]
	}
	if last < len(text) {
		parts = append(parts, ContentPart{Kind: PartText, Value: text[last:]})
	}
	return parts
}

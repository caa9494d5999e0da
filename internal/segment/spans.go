package segment

import (
	"strings"

	"github.com/Zacy-Sokach/PolyBoard/internal/directive"
	"github.com/charmbracelet/lipgloss"
)

// Span 可直接排版的文本片段
type Span struct {
	Kind directive.PartKind
	Text string
}

// Highlighted 是否为高亮片段
func (s Span) Highlighted() bool {
	return s.Kind == directive.PartHighlight
}

// Render 将解析片段按顺序转换为显示片段，不修改文本内容
func Render(parts []directive.ContentPart) []Span {
	if len(parts) == 0 {
		return nil
	}
	spans := make([]Span, 0, len(parts))
	for _, p := range parts {
		kind := directive.PartText
		if p.Kind == directive.PartHighlight {
			kind = directive.PartHighlight
		}
		spans = append(spans, Span{Kind: kind, Text: p.Value})
	}
	return spans
}

// Plain 拼接片段的原始文本
func Plain(spans []Span) string {
	var sb strings.Builder
	for _, s := range spans {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// Theme 普通文本与高亮文本的样式
type Theme struct {
	Text      lipgloss.Style
	Highlight lipgloss.Style
}

// DefaultTheme 黑板配色：白色粉笔字，高亮为暗黄底浅黄字
func DefaultTheme() Theme {
	return NewTheme(lipgloss.DefaultRenderer())
}

// NewTheme 使用指定渲染器创建主题
func NewTheme(r *lipgloss.Renderer) Theme {
	return Theme{
		Text: r.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			TabWidth(lipgloss.NoTabConversion),
		Highlight: r.NewStyle().
			Background(lipgloss.Color("#5b5a2f")).
			Foreground(lipgloss.Color("#fef08a")).
			TabWidth(lipgloss.NoTabConversion),
	}
}

// Format 渲染带样式的终端字符串
// 逐行渲染，避免 lipgloss 对多行文本做对齐填充
func (t Theme) Format(spans []Span) string {
	var sb strings.Builder
	for _, s := range spans {
		style := t.Text
		if s.Highlighted() {
			style = t.Highlight
		}
		for i, line := range strings.Split(s.Text, "\n") {
			if i > 0 {
				sb.WriteByte('\n')
			}
			if line != "" {
				sb.WriteString(style.Render(line))
			}
		}
	}
	return sb.String()
}

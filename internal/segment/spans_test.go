package segment

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/Zacy-Sokach/PolyBoard/internal/directive"
	"github.com/charmbracelet/lipgloss"
)

func TestRenderPreservesOrderAndText(t *testing.T) {
	parts := directive.Parse("The [HIGHLIGHT:mitochondria] is the powerhouse. ").Parts
	spans := Render(parts)

	want := []Span{
		{Kind: directive.PartText, Text: "The "},
		{Kind: directive.PartHighlight, Text: "mitochondria"},
		{Kind: directive.PartText, Text: " is the powerhouse. "},
	}
	if !reflect.DeepEqual(spans, want) {
		t.Errorf("spans = %+v, want %+v", spans, want)
	}
	if !spans[1].Highlighted() || spans[0].Highlighted() {
		t.Error("highlight flag mismatch")
	}
	if Plain(spans) != "The mitochondria is the powerhouse. " {
		t.Errorf("plain = %q", Plain(spans))
	}
}

func TestRenderEmpty(t *testing.T) {
	if spans := Render(nil); len(spans) != 0 {
		t.Errorf("Render(nil) = %+v", spans)
	}
	if got := DefaultTheme().Format(nil); got != "" {
		t.Errorf("Format(nil) = %q", got)
	}
}

func TestFormatWithoutColorKeepsText(t *testing.T) {
	// 非终端输出的渲染器为 ASCII 配置，样式不产生转义序列
	theme := NewTheme(lipgloss.NewRenderer(&bytes.Buffer{}))
	spans := []Span{
		{Kind: directive.PartText, Text: "line one\n  "},
		{Kind: directive.PartHighlight, Text: "key term"},
		{Kind: directive.PartText, Text: " and more\n"},
	}

	got := theme.Format(spans)
	if got != Plain(spans) {
		t.Errorf("Format = %q, want %q", got, Plain(spans))
	}
}

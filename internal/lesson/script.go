package lesson

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/Zacy-Sokach/PolyBoard/internal/blackboard"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Source 按顺序提供 AI 的输出轮次
type Source interface {
	// Next 返回下一轮；没有更多内容时 ok 为 false
	Next(ctx context.Context) (turn blackboard.Turn, ok bool, err error)
}

// Greeting 课堂开场白
func Greeting(teacherName string) blackboard.Turn {
	return blackboard.Turn{
		Text: fmt.Sprintf("Hello! I'm %s. What shall we learn about today?", teacherName),
	}
}

// ScriptTurn 脚本中的一轮
type ScriptTurn struct {
	Text        string `yaml:"text"`
	Prerendered bool   `yaml:"prerendered"`
	VideoURL    string `yaml:"video_url"`
	EmbedURL    string `yaml:"embed_url"`
}

// Turn 转换为黑板轮次
func (t ScriptTurn) Turn() blackboard.Turn {
	turn := blackboard.Turn{Text: t.Text, Prerendered: t.Prerendered}
	if t.VideoURL != "" || t.EmbedURL != "" {
		turn.Media = &blackboard.Media{VideoURL: t.VideoURL, EmbedURL: t.EmbedURL}
	}
	return turn
}

// Script YAML 课程脚本
type Script struct {
	Title string       `yaml:"title"`
	Turns []ScriptTurn `yaml:"turns"`
}

// LoadScript 从文件读取课程脚本
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading lesson script %s", path)
	}
	s, err := ParseScript(data)
	if err != nil {
		return nil, errors.Wrapf(err, "loading lesson script %s", path)
	}
	return s, nil
}

// ParseScript 解析课程脚本，至少需要一轮
func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(err, "parsing lesson script")
	}
	if len(s.Turns) == 0 {
		return nil, errors.New("lesson script has no turns")
	}
	for i, t := range s.Turns {
		if strings.TrimSpace(t.Text) == "" && t.VideoURL == "" && t.EmbedURL == "" {
			return nil, errors.Errorf("lesson script turn %d is empty", i+1)
		}
	}
	return &s, nil
}

// ScriptSource 逐轮播放脚本
type ScriptSource struct {
	mu     sync.Mutex
	script *Script
	pos    int
}

func NewScriptSource(s *Script) *ScriptSource {
	return &ScriptSource{script: s}
}

func (s *ScriptSource) Next(ctx context.Context) (blackboard.Turn, bool, error) {
	if err := ctx.Err(); err != nil {
		return blackboard.Turn{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.script == nil || s.pos >= len(s.script.Turns) {
		return blackboard.Turn{}, false, nil
	}
	t := s.script.Turns[s.pos]
	s.pos++
	return t.Turn(), true, nil
}

// Remaining 剩余轮数
func (s *ScriptSource) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.script == nil {
		return 0
	}
	return len(s.script.Turns) - s.pos
}

// Title 脚本标题
func (s *ScriptSource) Title() string {
	if s.script == nil {
		return ""
	}
	return s.script.Title
}

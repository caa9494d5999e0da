package transcript

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Zacy-Sokach/PolyBoard/internal/directive"
	"github.com/Zacy-Sokach/PolyBoard/internal/utils"
	"github.com/pkg/errors"
	"github.com/russross/blackfriday/v2"
)

// MaxSessions 历史文件最多保留的会话数
const MaxSessions = 100

// ErrCorrupt 历史文件无法解码
var ErrCorrupt = errors.New("corrupt history")

type Author string

const (
	AuthorUser Author = "user"
	AuthorAI   Author = "ai"
)

// Entry 一条对话记录，Text 保留原始指令
type Entry struct {
	Author    Author    `json:"author"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Session 一次课堂的全部记录
type Session struct {
	Timestamp time.Time `json:"timestamp"`
	Entries   []Entry   `json:"entries"`
}

// Recorder 并发安全的内存记录
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
	now     func() time.Time
}

func NewRecorder() *Recorder {
	return &Recorder{now: time.Now}
}

func (r *Recorder) Record(author Author, text string) Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := Entry{Author: author, Text: text, Timestamp: r.now()}
	r.entries = append(r.entries, e)
	return e
}

// Entries 返回记录的副本
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Store 历史文件
type Store struct {
	path string
}

// NewStore path 为空时使用配置目录下的 history.json
func NewStore(path string) (*Store, error) {
	if path == "" {
		p, err := utils.ConfigFile("history.json")
		if err != nil {
			return nil, errors.Wrap(err, "resolving history path")
		}
		path = p
	}
	return &Store{path: path}, nil
}

func (s *Store) Path() string { return s.path }

// Save 追加一次会话，超出 MaxSessions 时丢弃最旧的
func (s *Store) Save(entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	history, err := s.Load()
	if errors.Cause(err) == ErrCorrupt {
		// 损坏的文件另存一份后重新开始
		backup := s.path + ".corrupt-" + time.Now().Format("20060102-150405")
		if err := os.Rename(s.path, backup); err != nil {
			return errors.Wrapf(err, "moving corrupt history to %s", backup)
		}
		history = nil
	} else if err != nil {
		return err
	}
	history = append(history, Session{Timestamp: time.Now(), Entries: entries})
	if len(history) > MaxSessions {
		history = history[len(history)-MaxSessions:]
	}

	data, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding history")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errors.Wrap(err, "creating history dir")
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return errors.Wrapf(err, "writing %s", s.path)
	}
	return nil
}

// Load 读取全部会话，文件不存在时返回空
func (s *Store) Load() ([]Session, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return []Session{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", s.path)
	}

	var history []Session
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, errors.Wrapf(ErrCorrupt, "decoding %s: %v", s.path, err)
	}
	return history, nil
}

// Markdown 将记录渲染为 Markdown：高亮变为粗体，绘图指令被移除
func Markdown(entries []Entry, teacherName string) string {
	if teacherName == "" {
		teacherName = "Teacher"
	}

	var sb strings.Builder
	for i, e := range entries {
		if i > 0 {
			sb.WriteString("\n")
		}
		label := "You"
		if e.Author == AuthorAI {
			label = teacherName
		}
		sb.WriteString("**" + label + ":** ")
		sb.WriteString(strings.TrimSpace(markdownText(e.Text)))
		sb.WriteString("\n")
	}
	return sb.String()
}

func markdownText(text string) string {
	var sb strings.Builder
	for _, p := range directive.Parse(text).Parts {
		if p.Kind == directive.PartHighlight {
			sb.WriteString("**" + strings.TrimSpace(p.Value) + "**")
			continue
		}
		sb.WriteString(p.Value)
	}
	return sb.String()
}

// HTML 通过 Markdown 渲染为 HTML 片段
func HTML(entries []Entry, teacherName string) string {
	return string(blackfriday.Run([]byte(Markdown(entries, teacherName))))
}

package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Level 日志级别
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel 解析配置中的级别字符串，无法识别时返回 info
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger 黑板各组件使用的日志接口
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
	WithPrefix(prefix string) Logger
}

// writerLogger 写入 io.Writer 的带级别日志
type writerLogger struct {
	mu       *sync.Mutex
	out      io.Writer
	minLevel Level
	prefix   string
	now      func() time.Time
}

// New 创建日志实例，out 为 nil 时写入 stderr
func New(out io.Writer, minLevel Level, prefix string) Logger {
	if out == nil {
		out = os.Stderr
	}
	return &writerLogger{
		mu:       &sync.Mutex{},
		out:      out,
		minLevel: minLevel,
		prefix:   prefix,
		now:      time.Now,
	}
}

// WithPrefix 创建带附加前缀的子日志，共享同一输出和锁
func (l *writerLogger) WithPrefix(prefix string) Logger {
	newPrefix := prefix
	if l.prefix != "" {
		newPrefix = l.prefix + "/" + prefix
	}
	return &writerLogger{
		mu:       l.mu,
		out:      l.out,
		minLevel: l.minLevel,
		prefix:   newPrefix,
		now:      l.now,
	}
}

func (l *writerLogger) log(level Level, format string, args ...any) {
	if level < l.minLevel {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	prefix := ""
	if l.prefix != "" {
		prefix = fmt.Sprintf("[%s] ", l.prefix)
	}

	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(l.out, "%s %s %s%s\n", l.now().Format("15:04:05.000"), level.String(), prefix, msg)
}

func (l *writerLogger) Debug(format string, args ...any) { l.log(LevelDebug, format, args...) }
func (l *writerLogger) Info(format string, args ...any) { l.log(LevelInfo, format, args...) }
func (l *writerLogger) Warn(format string, args ...any) { l.log(LevelWarn, format, args...) }
func (l *writerLogger) Error(format string, args ...any) { l.log(LevelError, format, args...) }

type discardLogger struct{}

// Discard 返回丢弃所有输出的日志
func Discard() Logger { return discardLogger{} }

func (discardLogger) Debug(string, ...any) {}
func (discardLogger) Info(string, ...any) {}
func (discardLogger) Warn(string, ...any) {}
func (discardLogger) Error(string, ...any) {}
func (d discardLogger) WithPrefix(string) Logger { return d }

// OpenFile 以追加模式打开日志文件，返回日志与关闭函数
// TUI 占用 stdout，因此日志只能写文件；打开失败时退化为 Discard
func OpenFile(path string, minLevel Level) (Logger, func() error) {
	if path == "" {
		return Discard(), func() error { return nil }
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return Discard(), func() error { return nil }
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return Discard(), func() error { return nil }
	}
	return New(f, minLevel, ""), f.Close
}

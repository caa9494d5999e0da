package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Zacy-Sokach/PolyBoard/internal/utils"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultTeacherName  = "Nuro"
	DefaultTeacherColor = "green"
	DefaultIntervalMs   = 30
	DefaultLineWidth    = 3
	DefaultGlowBlur     = 5
	DefaultExportWidth  = 1280
	DefaultExportHeight = 720
	DefaultLogLevel     = "info"
)

type Config struct {
	Teacher TeacherConfig `yaml:"teacher"`
	Reveal  RevealConfig  `yaml:"reveal"`
	Canvas  CanvasConfig  `yaml:"canvas"`
	Export  ExportConfig  `yaml:"export"`
	Log     LogConfig     `yaml:"log"`
	Lesson  LessonConfig  `yaml:"lesson"`
}

// TeacherConfig 黑板标题中显示的老师
type TeacherConfig struct {
	Name  string `yaml:"name"`
	Color string `yaml:"color"`
}

type RevealConfig struct {
	IntervalMs int `yaml:"interval_ms"`
}

// Interval 每个字符的显示间隔
func (r RevealConfig) Interval() time.Duration {
	return time.Duration(r.IntervalMs) * time.Millisecond
}

type CanvasConfig struct {
	LineWidth      float64 `yaml:"line_width"`
	GlowBlur       float64 `yaml:"glow_blur"`
	SkipZeroParams bool    `yaml:"skip_zero_params"`
}

type ExportConfig struct {
	Dir    string `yaml:"dir"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

type LogConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

type LessonConfig struct {
	Script string `yaml:"script"`
}

// Default 返回全部字段为默认值的配置
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func LoadConfig() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("解析配置文件失败: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return cfg, nil
}

// LoadDotEnv 加载工作目录下的 .env 文件，文件不存在时忽略
func LoadDotEnv(path string) error {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("获取工作目录失败: %w", err)
		}
		path = filepath.Join(wd, ".env")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("读取 %s 失败: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("加载 %s 失败: %w", path, err)
	}
	return nil
}

// applyEnv 环境变量覆盖配置文件中的值
func (c *Config) applyEnv() error {
	if v := os.Getenv("POLYBOARD_REVEAL_INTERVAL_MS"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("POLYBOARD_REVEAL_INTERVAL_MS 无效: %w", err)
		}
		c.Reveal.IntervalMs = ms
	}
	if v := os.Getenv("POLYBOARD_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("POLYBOARD_LESSON_SCRIPT"); v != "" {
		c.Lesson.Script = v
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Teacher.Name == "" {
		c.Teacher.Name = DefaultTeacherName
	}
	if c.Teacher.Color == "" {
		c.Teacher.Color = DefaultTeacherColor
	}
	if c.Reveal.IntervalMs <= 0 {
		c.Reveal.IntervalMs = DefaultIntervalMs
	}
	if c.Canvas.LineWidth <= 0 {
		c.Canvas.LineWidth = DefaultLineWidth
	}
	if c.Canvas.GlowBlur <= 0 {
		c.Canvas.GlowBlur = DefaultGlowBlur
	}
	if c.Export.Width <= 0 {
		c.Export.Width = DefaultExportWidth
	}
	if c.Export.Height <= 0 {
		c.Export.Height = DefaultExportHeight
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
}

func SaveConfig(config *Config) error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("创建配置目录失败: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("写入配置文件失败: %w", err)
	}

	return nil
}

// LogPath 日志文件路径，未配置时写入配置目录
func (c *Config) LogPath() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	path, err := utils.ConfigFile("polyboard.log")
	if err != nil {
		return ""
	}
	return path
}

// ExportDir 导出目录，未配置时使用当前目录
func (c *Config) ExportDir() string {
	if c.Export.Dir != "" {
		return c.Export.Dir
	}
	return "."
}

// Path 配置文件路径
func Path() (string, error) {
	return getConfigPath()
}

func getConfigPath() (string, error) {
	configDir, err := utils.GetConfigDir()
	if err != nil {
		return "", fmt.Errorf("获取配置目录失败: %w", err)
	}
	return filepath.Join(configDir, "config.yaml"), nil
}

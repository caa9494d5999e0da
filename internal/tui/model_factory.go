package tui

import (
	"context"
	"fmt"

	"github.com/Zacy-Sokach/PolyBoard/internal/blackboard"
	"github.com/Zacy-Sokach/PolyBoard/internal/canvas"
	"github.com/Zacy-Sokach/PolyBoard/internal/config"
	"github.com/Zacy-Sokach/PolyBoard/internal/directive"
	"github.com/Zacy-Sokach/PolyBoard/internal/lesson"
	"github.com/Zacy-Sokach/PolyBoard/internal/logging"
	"github.com/Zacy-Sokach/PolyBoard/internal/reveal"
	"github.com/Zacy-Sokach/PolyBoard/internal/segment"
	"github.com/Zacy-Sokach/PolyBoard/internal/transcript"
	"github.com/Zacy-Sokach/PolyBoard/internal/utils"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
)

// Dependencies 模型依赖，未设置的字段使用默认实现
type Dependencies struct {
	Config   *config.Config
	Board    *blackboard.Board
	Surface  *canvas.CellSurface
	Renderer *canvas.Renderer
	Source   lesson.Source
	Store    *transcript.Store
	Recorder *transcript.Recorder
	Bus      EventBus
	Log      logging.Logger
	Copy     func(string) error
}

// NewRendererFromConfig 按配置创建画布渲染器
func NewRendererFromConfig(cfg *config.Config) *canvas.Renderer {
	r := canvas.NewRenderer()
	r.LineWidth = cfg.Canvas.LineWidth
	r.GlowBlur = cfg.Canvas.GlowBlur
	r.SkipZeroParams = cfg.Canvas.SkipZeroParams
	return r
}

// NewModel 根据配置组装黑板管线与界面
func NewModel(cfg *config.Config, log logging.Logger) (*Model, error) {
	if log == nil {
		log = logging.Discard()
	}

	deps := Dependencies{Config: cfg, Log: log}
	if cfg.Lesson.Script != "" {
		script, err := lesson.LoadScript(cfg.Lesson.Script)
		if err != nil {
			return nil, fmt.Errorf("加载课程脚本失败: %w", err)
		}
		deps.Source = lesson.NewScriptSource(script)
		log.Info("lesson %q loaded: %d turns", script.Title, len(script.Turns))
	}

	store, err := transcript.NewStore("")
	if err != nil {
		log.Warn("transcript disabled: %v", err)
	} else {
		deps.Store = store
	}
	return NewModelWithDependencies(deps), nil
}

// NewModelWithDependencies 使用给定依赖创建模型
func NewModelWithDependencies(d Dependencies) *Model {
	if d.Config == nil {
		d.Config = config.Default()
	}
	if d.Log == nil {
		d.Log = logging.Discard()
	}
	if d.Renderer == nil {
		d.Renderer = NewRendererFromConfig(d.Config)
	}
	if d.Surface == nil {
		d.Surface = canvas.NewCellSurface(0, 0)
	}
	if d.Board == nil {
		overlay := canvas.NewOverlay(d.Renderer, d.Surface)
		driver := reveal.NewDriver(d.Config.Reveal.Interval(), nil)
		d.Board = blackboard.NewBoard(driver, directive.NewParser(d.Log), overlay, d.Log)
	}
	if d.Recorder == nil {
		d.Recorder = transcript.NewRecorder()
	}
	if d.Bus == nil {
		d.Bus = NewMemoryEventBus()
	}
	if d.Copy == nil {
		d.Copy = utils.CopyToClipboard
	}
	d.Bus.Subscribe(EventTypeTurnStarted, NewLoggingHandler(d.Log))
	d.Bus.Subscribe(EventTypeRevealCompleted, NewLoggingHandler(d.Log))
	d.Bus.Subscribe(EventTypeSurfaceResized, NewLoggingHandler(d.Log))
	d.Bus.Subscribe(EventTypeRevealCompleted, NewTranscriptHandler(d.Recorder))

	ta := textarea.New()
	ta.Placeholder = "输入要写在黑板上的内容，空行回车播放下一段..."
	ta.Focus()
	ta.CharLimit = 0
	ta.SetWidth(80)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetEnabled(false)

	ctx, cancel := context.WithCancel(context.Background())

	return &Model{
		viewport: viewport.New(80, 20),
		textarea: ta,
		cfg:      d.Config,
		board:    d.Board,
		surface:  d.Surface,
		renderer: d.Renderer,
		theme:    segment.DefaultTheme(),
		source:   d.Source,
		store:    d.Store,
		recorder: d.Recorder,
		bus:      d.Bus,
		log:      d.Log.WithPrefix("tui"),
		copyText: d.Copy,
		cursorOn: true,
		ctx:      ctx,
		cancel:   cancel,
	}
}

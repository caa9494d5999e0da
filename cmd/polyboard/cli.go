package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/Zacy-Sokach/PolyBoard/internal/blackboard"
	"github.com/Zacy-Sokach/PolyBoard/internal/config"
	"github.com/Zacy-Sokach/PolyBoard/internal/directive"
	"github.com/Zacy-Sokach/PolyBoard/internal/export"
	"github.com/Zacy-Sokach/PolyBoard/internal/logging"
	"github.com/Zacy-Sokach/PolyBoard/internal/transcript"
	"github.com/Zacy-Sokach/PolyBoard/internal/tui"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	cfg    *config.Config
	log    logging.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.stdout, "PolyBoard - AI Teacher Blackboard")
	fmt.Fprintln(cli.stdout)
	fmt.Fprintln(cli.stdout, "Usage:")
	fmt.Fprintln(cli.stdout, "  polyboard                    Start the interactive blackboard")
	fmt.Fprintln(cli.stdout, "  polyboard parse              Parse directives from stdin, print JSON")
	fmt.Fprintln(cli.stdout, "  polyboard render -o FILE     Render stdin to a PNG blackboard")
	fmt.Fprintln(cli.stdout, "  polyboard transcript [-html] Print the last saved session")
	fmt.Fprintln(cli.stdout, "  polyboard config init        Write a default config file")
	fmt.Fprintln(cli.stdout, "  polyboard -v, --version      Show version information")
	fmt.Fprintln(cli.stdout, "  polyboard -h, --help         Show help information")
	fmt.Fprintln(cli.stdout)
	fmt.Fprintln(cli.stdout, "Config: "+configPathForDisplay())
}

// run 执行子命令，args 不含程序名
func (cli *commandLine) run(args []string) error {
	if len(args) == 0 {
		cli.printUsage()
		return errHelp
	}

	switch args[0] {
	case "-v", "--version":
		fmt.Fprintf(cli.stdout, "PolyBoard %s\n", Version)
		return nil
	case "-h", "--help":
		cli.printUsage()
		return nil
	case "parse":
		return cli.parse()
	case "render":
		return cli.render(args[1:])
	case "transcript":
		return cli.transcript(args[1:])
	case "config":
		return cli.configure(args[1:])
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) parse() error {
	text, err := io.ReadAll(cli.stdin)
	if err != nil {
		return fmt.Errorf("读取输入失败: %w", err)
	}
	res := directive.NewParser(cli.log).Parse(string(text))
	if res.Parts == nil {
		res.Parts = []directive.ContentPart{}
	}
	if res.Commands == nil {
		res.Commands = []directive.DrawingCommand{}
	}

	enc := json.NewEncoder(cli.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func (cli *commandLine) render(args []string) error {
	renderCmd := flag.NewFlagSet("render", flag.ContinueOnError)
	renderCmd.SetOutput(cli.stderr)
	out := renderCmd.String("o", "", "Output PNG file")
	width := renderCmd.Int("width", cli.cfg.Export.Width, "Image width in pixels")
	height := renderCmd.Int("height", cli.cfg.Export.Height, "Image height in pixels")
	teacher := renderCmd.String("teacher", cli.cfg.Teacher.Name, "Teacher name shown in the heading")

	if err := renderCmd.Parse(args); err != nil {
		return flagError(err)
	}
	if *out == "" {
		renderCmd.Usage()
		return errHelp
	}

	text, err := io.ReadAll(cli.stdin)
	if err != nil {
		return fmt.Errorf("读取输入失败: %w", err)
	}
	frame := blackboard.Still(blackboard.Turn{Text: string(text), Prerendered: true})
	opts := export.Options{
		Width:        *width,
		Height:       *height,
		Teacher:      *teacher,
		TeacherColor: cli.cfg.Teacher.Color,
		Renderer:     tui.NewRendererFromConfig(cli.cfg),
	}
	if err := export.SavePNG(*out, frame, opts); err != nil {
		return err
	}
	cli.log.Info("rendered %d drawings to %s", len(frame.Commands), *out)
	fmt.Fprintln(cli.stdout, *out)
	return nil
}

func (cli *commandLine) transcript(args []string) error {
	transcriptCmd := flag.NewFlagSet("transcript", flag.ContinueOnError)
	transcriptCmd.SetOutput(cli.stderr)
	asHTML := transcriptCmd.Bool("html", false, "Render the session as HTML")
	path := transcriptCmd.String("file", "", "History file (defaults to the config dir)")
	if err := transcriptCmd.Parse(args); err != nil {
		return flagError(err)
	}

	store, err := transcript.NewStore(*path)
	if err != nil {
		return err
	}
	history, err := store.Load()
	if err != nil {
		return err
	}
	if len(history) == 0 {
		fmt.Fprintln(cli.stdout, "没有保存的课堂记录")
		return nil
	}

	last := history[len(history)-1]
	if *asHTML {
		fmt.Fprint(cli.stdout, transcript.HTML(last.Entries, cli.cfg.Teacher.Name))
		return nil
	}
	fmt.Fprint(cli.stdout, transcript.Markdown(last.Entries, cli.cfg.Teacher.Name))
	return nil
}

func (cli *commandLine) configure(args []string) error {
	if len(args) == 0 || args[0] != "init" {
		fmt.Fprintln(cli.stderr, "Usage: polyboard config init [-force]")
		return errHelp
	}
	initCmd := flag.NewFlagSet("config init", flag.ContinueOnError)
	initCmd.SetOutput(cli.stderr)
	force := initCmd.Bool("force", false, "Overwrite an existing config file")
	if err := initCmd.Parse(args[1:]); err != nil {
		return flagError(err)
	}

	path, err := config.Path()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil && !*force {
		return fmt.Errorf("配置文件已存在: %s (使用 -force 覆盖)", path)
	}
	if err := config.SaveConfig(config.Default()); err != nil {
		return err
	}
	cli.log.Info("wrote default config to %s", path)
	fmt.Fprintln(cli.stdout, path)
	return nil
}

// flagError -h 已经打印了子命令用法，视为正常退出
func flagError(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	return err
}

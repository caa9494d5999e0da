package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/Zacy-Sokach/PolyBoard/internal/config"
	"github.com/Zacy-Sokach/PolyBoard/internal/logging"
	"github.com/Zacy-Sokach/PolyBoard/internal/tui"
	"github.com/Zacy-Sokach/PolyBoard/internal/utils"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	Version = "dev"
)

func main() {
	// 添加panic恢复
	defer func() {
		if r := recover(); r != nil {
			fmt.Printf("程序发生panic: %v\n", r)
			fmt.Println("堆栈跟踪:")
			debug.PrintStack()
			os.Exit(1)
		}
	}()

	if err := config.LoadDotEnv(""); err != nil {
		fmt.Printf("加载 .env 失败: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("加载配置失败: %v\n", err)
		os.Exit(1)
	}

	log, closeLog := logging.OpenFile(cfg.LogPath(), logging.ParseLevel(cfg.Log.Level))
	defer closeLog()

	if len(os.Args) > 1 {
		cli := &commandLine{cfg: cfg, log: log, stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
		if err := cli.run(os.Args[1:]); err != nil {
			if err != errHelp {
				fmt.Printf("错误: %v\n", err)
			}
			closeLog()
			os.Exit(1)
		}
		return
	}

	if !isTerminal() {
		fmt.Println("PolyBoard 运行在非交互式模式")
		fmt.Println("请在交互式终端中运行，或使用 polyboard parse / polyboard render")
		return
	}

	tui.Version = Version
	model, err := tui.NewModel(cfg, log)
	if err != nil {
		fmt.Println(lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Render(err.Error()))
		closeLog()
		os.Exit(1)
	}
	log.Info("PolyBoard %s started", Version)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("程序运行错误: %v\n", err)
		closeLog()
		os.Exit(1)
	}
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

func configPathForDisplay() string {
	return utils.GetConfigPathForDisplay()
}

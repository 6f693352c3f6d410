package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"golang.org/x/term"

	"github.com/John-Robertt/fa2png/internal/app/run"
	"github.com/John-Robertt/fa2png/internal/config"
)

func main() {
	args := os.Args[1:]
	for _, a := range args {
		if isHelp(a) {
			printUsage(os.Stdout)
			return
		}
	}
	if code := runCmd(args); code != 0 {
		os.Exit(code)
	}
}

func runCmd(args []string) int {
	cli, err := parseArgs(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "参数错误：%v\n\n", err)
		printUsage(os.Stderr)
		return 2
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: 读取当前目录失败：%v\n", err)
		return 1
	}

	eff, err := config.LoadEffective(cwd, executableDir(cwd), cli)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return 1
	}

	var logger *slog.Logger
	if eff.Verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	interactive := isTTY(os.Stdout)
	ui := newProgressUI(os.Stdout, interactive, stdoutWidth)

	// Ctrl-C 与其他错误一样中止运行（已写出的文件保留）。
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if _, err := run.ExecuteWithObserver(ctx, eff, ui, logger); err != nil {
		ui.Abort()
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		return 1
	}
	return 0
}

func parseArgs(args []string) (config.CLIArgs, error) {
	var cli config.CLIArgs

	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--source" || a == "--out":
			if i+1 >= len(args) {
				return config.CLIArgs{}, fmt.Errorf("%s 需要一个值", a)
			}
			i++
			if err := setPath(&cli, a, args[i]); err != nil {
				return config.CLIArgs{}, err
			}
		case strings.HasPrefix(a, "--source="):
			if err := setPath(&cli, "--source", strings.TrimPrefix(a, "--source=")); err != nil {
				return config.CLIArgs{}, err
			}
		case strings.HasPrefix(a, "--out="):
			if err := setPath(&cli, "--out", strings.TrimPrefix(a, "--out=")); err != nil {
				return config.CLIArgs{}, err
			}
		case a == "-v" || a == "--verbose":
			cli.Verbose = true
		case strings.HasPrefix(a, "-"):
			return config.CLIArgs{}, fmt.Errorf("未知参数 %q", a)
		default:
			return config.CLIArgs{}, fmt.Errorf("不接受位置参数：%q", a)
		}
	}
	return cli, nil
}

func setPath(cli *config.CLIArgs, flag, v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("%s 不能为空", flag)
	}
	switch flag {
	case "--source":
		if cli.SourceRoot != "" {
			return fmt.Errorf("重复的 --source：%q 与 %q", cli.SourceRoot, v)
		}
		cli.SourceRoot = v
	case "--out":
		if cli.OutRoot != "" {
			return fmt.Errorf("重复的 --out：%q 与 %q", cli.OutRoot, v)
		}
		cli.OutRoot = v
	}
	return nil
}

func isHelp(s string) bool {
	return s == "-h" || s == "--help" || s == "help"
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `用法：
  fa2png [--source <dir>] [--out <dir>] [--verbose]

把 Font Awesome Free 的 SVG（solid/regular/brands）批量导出为白色、透明背景、带留白的 PNG：
  <out>/800/<style>/*.png  （800x800，留白 110px）
  <out>/196/<style>/*.png  （196x196，留白 27px）

参数：
  --source    Font Awesome 包根目录（默认从当前目录向上查找 %s）
  --out       输出根目录（默认 <可执行文件目录>/%s；每次运行都会整体删除重建）
  -v, --verbose  输出逐文件调试日志（stderr）
  -h, --help  显示帮助
`, config.DefaultSourceRel, config.DefaultOutRel)
}

// executableDir 返回可执行文件所在目录；无法确定时退化为 cwd。
func executableDir(cwd string) string {
	exe, err := os.Executable()
	if err != nil {
		return cwd
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}

func isTTY(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func stdoutWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0
	}
	return w
}

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/John-Robertt/fa2png/internal/config"
	"github.com/John-Robertt/fa2png/internal/domain"
)

func TestFormatProgressLine(t *testing.T) {
	got := formatProgressLine("solid", 800, 1, 4, "house")
	// 30*1/4 = 7.5 -> 8 格；25%。
	want := "solid @ 800px | " + strings.Repeat("█", 8) + strings.Repeat("░", 22) + " |  25% | 1/4 | house"
	if got != want {
		t.Fatalf("\ngot =%q\nwant=%q", got, want)
	}

	got = formatProgressLine("brands", 196, 3, 3, "github")
	want = "brands @ 196px | " + strings.Repeat("█", 30) + " | 100% | 3/3 | github"
	if got != want {
		t.Fatalf("\ngot =%q\nwant=%q", got, want)
	}

	// 1/3 = 33.33% -> 33；30/3 = 10 格。
	got = formatProgressLine("regular", 800, 1, 3, "bell")
	if !strings.Contains(got, " |  33% | 1/3 | bell") || strings.Count(got, "█") != 10 {
		t.Fatalf("百分比/进度条不符合预期：%q", got)
	}
}

func TestFormatProgressLine_ZeroTotal(t *testing.T) {
	got := formatProgressLine("solid", 800, 0, 0, "")
	if strings.Count(got, "░") != 30 || !strings.Contains(got, "  0%") {
		t.Fatalf("total=0 时应为空进度条：%q", got)
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := truncateRunes("██░░ab", 3); got != "██░" {
		t.Fatalf("应按 rune 截断：%q", got)
	}
	if got := truncateRunes("abc", 10); got != "abc" {
		t.Fatalf("不应截断：%q", got)
	}
	if got := truncateRunes("abc", 0); got != "" {
		t.Fatalf("max<=0 应返回空串：%q", got)
	}
}

func TestProgressUI_Interactive(t *testing.T) {
	var buf bytes.Buffer
	ui := newProgressUI(&buf, true, func() int { return 0 })

	ui.OnStart(config.EffectiveConfig{
		SourceRoot: "/fa",
		OutRoot:    "/out",
		Targets:    config.DefaultTargets,
	})
	target := domain.Target{Size: 800, Padding: 110}
	ui.OnItem("solid", target, 1, 2, "anchor")
	ui.OnItem("solid", target, 2, 2, "house")
	ui.OnTargetDone(domain.StyleTargetResult{Style: "solid", Size: 800, Count: 2})
	ui.OnFinish(domain.RunReport{Entries: []domain.StyleTargetResult{{Style: "solid", Size: 800, Count: 2}}})

	out := buf.String()
	for _, want := range []string{
		"Font Awesome 包: /fa\n",
		"输出目录: /out\n",
		"目标尺寸: 800px, 196px\n",
		"| 1/2 | anchor",
		"\r",
		"solid @ 800px: 2 icons\n",
		"完成：共 2 个文件",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("输出缺少 %q：\n%q", want, out)
		}
	}
	// 第二次绘制之前必须先清行。
	if strings.Index(out, "\x1b[2K") < 0 {
		t.Fatalf("交互模式应使用清行序列：%q", out)
	}
}

func TestProgressUI_NonInteractive_NoRedraw(t *testing.T) {
	var buf bytes.Buffer
	ui := newProgressUI(&buf, false, nil)

	target := domain.Target{Size: 196, Padding: 27}
	ui.OnItem("brands", target, 1, 1, "github")
	ui.OnTargetDone(domain.StyleTargetResult{Style: "brands", Size: 196, Count: 1})
	ui.Abort()

	out := buf.String()
	if strings.Contains(out, "\r") || strings.Contains(out, "\x1b[") {
		t.Fatalf("非交互模式不应输出控制序列：%q", out)
	}
	if out != "✔ brands @ 196px: 1 icons\n" {
		t.Fatalf("输出不符合预期：%q", out)
	}
}

func TestProgressUI_TruncatesToWidth(t *testing.T) {
	var buf bytes.Buffer
	ui := newProgressUI(&buf, true, func() int { return 21 })

	ui.OnItem("solid", domain.Target{Size: 800, Padding: 110}, 1, 1, "a-very-long-icon-name")
	line := buf.String()
	if i := strings.LastIndex(line, "\r"); i >= 0 {
		line = line[i+1:]
	}
	if n := len([]rune(line)); n != 20 {
		t.Fatalf("期望截断到 20 列，实际 %d：%q", n, line)
	}
}

func TestProgressUI_AbortClearsOpenLine(t *testing.T) {
	var buf bytes.Buffer
	ui := newProgressUI(&buf, true, nil)

	ui.OnItem("solid", domain.Target{Size: 800, Padding: 110}, 1, 5, "house")
	before := buf.Len()
	ui.Abort()
	if !strings.HasSuffix(buf.String()[before:], "\r") {
		t.Fatalf("Abort 应清掉进度行：%q", buf.String()[before:])
	}

	// 重复调用不再输出。
	n := buf.Len()
	ui.Abort()
	if buf.Len() != n {
		t.Fatalf("重复 Abort 不应再输出")
	}
}

func TestParseArgs(t *testing.T) {
	cli, err := parseArgs([]string{"--source", "fa", "--out=dist", "-v"})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if cli.SourceRoot != "fa" || cli.OutRoot != "dist" || !cli.Verbose {
		t.Fatalf("解析结果不符合预期：%+v", cli)
	}

	bad := [][]string{
		{"--source"},
		{"--out="},
		{"--source", "a", "--source", "b"},
		{"--unknown"},
		{"positional"},
	}
	for _, args := range bad {
		if _, err := parseArgs(args); err == nil {
			t.Fatalf("%q：期望错误，但得到 nil", args)
		}
	}
}

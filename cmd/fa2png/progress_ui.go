package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/muesli/termenv"

	"github.com/John-Robertt/fa2png/internal/app/run"
	"github.com/John-Robertt/fa2png/internal/config"
	"github.com/John-Robertt/fa2png/internal/domain"
)

var _ run.Observer = (*progressUI)(nil)

const (
	barWidth  = 30
	barFilled = "█"
	barEmpty  = "░"
)

// progressUI 在终端上维护一行不断覆盖的进度条，并在每个 (style, target) 循环结束时留下一行摘要。
//
// - 交互终端：每个文件都清行重绘（\r），摘要行持久保留
// - 非交互（重定向到文件/管道）：不重绘，只输出横幅与摘要行，日志保持可读
// - 事件来自同一个 goroutine，不需要加锁
type progressUI struct {
	w           io.Writer
	out         *termenv.Output
	interactive bool
	// width 返回终端宽度；0 表示未知（不截断）。
	width func() int

	startedAt time.Time

	style    domain.Style
	size     int
	current  int
	total    int
	lineOpen bool
}

func newProgressUI(w io.Writer, interactive bool, width func() int) *progressUI {
	var opts []termenv.OutputOption
	if !interactive {
		opts = append(opts, termenv.WithProfile(termenv.Ascii))
	}
	return &progressUI{
		w:           w,
		out:         termenv.NewOutput(w, opts...),
		interactive: interactive,
		width:       width,
	}
}

func (p *progressUI) OnStart(eff config.EffectiveConfig) {
	p.startedAt = time.Now()

	fmt.Fprintf(p.w, "Font Awesome 包: %s\n", eff.SourceRoot)
	fmt.Fprintf(p.w, "输出目录: %s\n", eff.OutRoot)
	fmt.Fprintf(p.w, "目标尺寸: %s\n", domain.FormatTargets(eff.Targets))
	fmt.Fprintln(p.w)
}

func (p *progressUI) OnOutputReset(outRoot string) {
	fmt.Fprintf(p.w, "已删除旧的输出目录\n\n")
}

func (p *progressUI) OnItem(style domain.Style, t domain.Target, current, total int, name string) {
	p.style, p.size = style, t.Size
	p.current, p.total = current, total

	if !p.interactive {
		return
	}
	line := formatProgressLine(style, t.Size, current, total, name)
	if p.width != nil {
		if w := p.width(); w > 0 {
			// 留一列，避免恰好写满时终端自动换行导致无法覆盖。
			line = truncateRunes(line, w-1)
		}
	}
	p.clearLine()
	fmt.Fprint(p.w, line)
	p.lineOpen = true
}

func (p *progressUI) OnTargetDone(res domain.StyleTargetResult) {
	p.clearLine()
	check := p.out.String("✔").Foreground(termenv.ANSIGreen).String()
	fmt.Fprintf(p.w, "%s %s @ %dpx: %d icons\n", check, res.Style, res.Size, res.Count)

	p.current, p.total = 0, 0
}

func (p *progressUI) OnFinish(rr domain.RunReport) {
	p.clearLine()
	elapsed := time.Duration(0)
	if !p.startedAt.IsZero() {
		elapsed = time.Since(p.startedAt)
	}
	fmt.Fprintf(p.w, "\n🎉 完成：共 %d 个文件 (%s)\n", rr.Total(), formatShortDuration(elapsed))
}

// Abort 清掉未完成的进度行，供致命错误输出前调用。
func (p *progressUI) Abort() {
	p.clearLine()
}

func (p *progressUI) clearLine() {
	if !p.interactive || !p.lineOpen {
		return
	}
	p.out.ClearLine()
	fmt.Fprint(p.w, "\r")
	p.lineOpen = false
}

// formatProgressLine 生成 "<style> @ <size>px | <bar> | <pct>% | <cur>/<total> | <name>"。
//
// 规则：bar 宽 30，已完成格数四舍五入；百分比向下取整并左补空格到 3 位。
func formatProgressLine(style domain.Style, size, current, total int, name string) string {
	filled, pct := 0, 0
	if total > 0 {
		filled = (2*barWidth*current + total) / (2 * total)
		pct = current * 100 / total
	}
	if filled > barWidth {
		filled = barWidth
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat(barFilled, filled) + strings.Repeat(barEmpty, barWidth-filled)

	return fmt.Sprintf("%s @ %dpx | %s | %3d%% | %d/%d | %s", style, size, bar, pct, current, total, name)
}

func truncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

func formatShortDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

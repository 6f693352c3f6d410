package run

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/John-Robertt/fa2png/internal/config"
	"github.com/John-Robertt/fa2png/internal/domain"
	"github.com/John-Robertt/fa2png/internal/infra/fsx"
	"github.com/John-Robertt/fa2png/internal/infra/imgx"
	"github.com/John-Robertt/fa2png/internal/infra/svgx"
	"github.com/John-Robertt/fa2png/internal/scan"
	"github.com/John-Robertt/fa2png/internal/svgpatch"
)

const (
	StageRead   = "read"
	StageRender = "render"
	StageEncode = "encode"
	StageWrite  = "write"
)

// 通过可替换的函数指针，让测试能注入读取/渲染/写入失败。
var (
	readFileFunc  = os.ReadFile
	rasterizeFunc = svgx.Rasterize
	writeFileFunc = fsx.WriteFileAtomicReplace
)

// ConvertError 描述单个文件转换失败的位置与阶段。任何 ConvertError 都会中止整次运行。
type ConvertError struct {
	Style domain.Style
	Size  int
	File  string
	Stage string
	Err   error
}

func (e *ConvertError) Error() string {
	return fmt.Sprintf("%s @ %dpx: %s 失败（%s）：%v", e.Style, e.Size, e.File, e.Stage, e.Err)
}

func (e *ConvertError) Unwrap() error { return e.Err }

// Execute 执行一次完整转换，不输出任何进度。
func Execute(ctx context.Context, eff config.EffectiveConfig) (domain.RunReport, error) {
	return ExecuteWithObserver(ctx, eff, nil, nil)
}

// ExecuteWithObserver 与 Execute 相同，但允许传入 Observer（进度展示）与 logger（调试日志）。
//
// 流程（严格串行）：
// 1) OnStart
// 2) 删除并重建 OutRoot（每次都是全量重建，不做增量）
// 3) 按顺序处理 InputDirs：不存在的目录跳过；其余交给 convertDir
// 4) OnFinish
//
// 第一个错误即中止运行并原样返回；已写出的文件保留在磁盘上。
func ExecuteWithObserver(ctx context.Context, eff config.EffectiveConfig, obs Observer, logger *slog.Logger) (domain.RunReport, error) {
	if obs == nil {
		obs = nopObserver{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	rr := domain.RunReport{
		SourceRoot: eff.SourceRoot,
		OutRoot:    eff.OutRoot,
		StartedAt:  time.Now().UTC(),
		Entries:    make([]domain.StyleTargetResult, 0, len(eff.InputDirs)*len(eff.Targets)),
		Skipped:    []string{},
	}

	if err := config.Validate(eff); err != nil {
		return rr, err
	}

	obs.OnStart(eff)

	removed, err := fsx.ResetDir(eff.OutRoot)
	if err != nil {
		return rr, fmt.Errorf("重建输出目录 %q 失败：%w", eff.OutRoot, err)
	}
	if removed {
		obs.OnOutputReset(eff.OutRoot)
	}
	logger.Debug("output reset", "out", eff.OutRoot, "removed", removed)

	for _, dir := range eff.InputDirs {
		ok, err := fsx.DirExists(dir)
		if err != nil {
			return rr, err
		}
		if !ok {
			logger.Debug("style dir missing, skipped", "dir", dir)
			rr.Skipped = append(rr.Skipped, dir)
			continue
		}

		results, err := convertDir(ctx, eff, dir, obs, logger)
		rr.Entries = append(rr.Entries, results...)
		if err != nil {
			return rr, err
		}
	}

	rr.FinishedAt = time.Now().UTC()
	obs.OnFinish(rr)
	return rr, nil
}

// convertDir 把 dir 下的每个 .svg 按每个 target 转换为居中留白的 PNG。
// 外层按 target 声明顺序，内层按文件列举顺序。
func convertDir(ctx context.Context, eff config.EffectiveConfig, dir string, obs Observer, logger *slog.Logger) ([]domain.StyleTargetResult, error) {
	style := scan.StyleOf(dir)
	icons, err := scan.ScanIcons(dir)
	if err != nil {
		return nil, fmt.Errorf("读取风格目录 %q 失败：%w", dir, err)
	}

	results := make([]domain.StyleTargetResult, 0, len(eff.Targets))
	for _, t := range eff.Targets {
		outDir := domain.OutDir(eff.OutRoot, t, style)
		if err := fsx.EnsureDir(outDir); err != nil {
			return results, err
		}

		total := len(icons)
		for i, icon := range icons {
			if err := ctx.Err(); err != nil {
				return results, err
			}
			obs.OnItem(style, t, i+1, total, icon.Name)

			started := time.Now()
			if err := convertOne(eff, icon, t); err != nil {
				return results, err
			}
			logger.Debug("converted", "style", style, "size", t.Size, "name", icon.Name, "dur", time.Since(started))
		}

		res := domain.StyleTargetResult{Style: style, Size: t.Size, Count: total}
		results = append(results, res)
		obs.OnTargetDone(res)
	}
	return results, nil
}

// convertOne: read -> patch -> rasterize -> pad/center -> encode -> write。
func convertOne(eff config.EffectiveConfig, icon domain.IconRecord, t domain.Target) error {
	fail := func(stage string, err error) error {
		return &ConvertError{Style: icon.Style, Size: t.Size, File: icon.Src, Stage: stage, Err: err}
	}

	raw, err := readFileFunc(icon.Src)
	if err != nil {
		return fail(StageRead, err)
	}
	white := svgpatch.ForceWhite(string(raw))

	img, err := rasterizeFunc([]byte(white), eff.Density, t.Inner())
	if err != nil {
		return fail(StageRender, err)
	}
	canvas, err := imgx.PadCenter(img, t.Size)
	if err != nil {
		return fail(StageRender, err)
	}

	b, err := imgx.EncodePNG(canvas)
	if err != nil {
		return fail(StageEncode, err)
	}
	dst := icon.OutPath(eff.OutRoot, t)
	if err := writeFileFunc(filepath.Dir(dst), filepath.Base(dst), b); err != nil {
		return fail(StageWrite, err)
	}
	return nil
}

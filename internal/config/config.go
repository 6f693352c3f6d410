package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/John-Robertt/fa2png/internal/domain"
)

const (
	// ErrCodeInvalid 表示参数或内置配置不合法。
	ErrCodeInvalid = "config_invalid"
	// ErrCodeSourceNotFound 表示找不到 Font Awesome 包根目录。
	ErrCodeSourceNotFound = "source_not_found"
)

// 以下均为编译期常量：不提供配置文件，CLI 只允许覆盖输入/输出位置。
const (
	// DefaultDensity 是光栅化密度（dpi），全局唯一，不按 target 区分。
	DefaultDensity = 600.0
	// DefaultSourceRel 是从 cwd 逐级向上查找的包路径（与 node 的模块解析一致）。
	DefaultSourceRel = "node_modules/@fortawesome/fontawesome-free"
	// DefaultOutRel 是相对可执行文件所在目录的输出根目录。
	DefaultOutRel = "../out"
	// PackageManifest 用于确认包根目录确实是一个 npm 包。
	PackageManifest = "package.json"
)

// DefaultTargets 按声明顺序处理。
var DefaultTargets = []domain.Target{
	{Size: 800, Padding: 110},
	{Size: 196, Padding: 27},
}

// DefaultStyles 是包内固定的三个风格目录。
var DefaultStyles = []string{"solid", "regular", "brands"}

// svgDirNames 按优先级排列：新版本包提供 svgs-full，旧版本只有 svgs。
var svgDirNames = []string{"svgs-full", "svgs"}

// CLIArgs 是 CLI 暴露的覆盖项（空串表示未指定）。
type CLIArgs struct {
	SourceRoot string
	OutRoot    string
	Verbose    bool
}

// EffectiveConfig 是合并并规范化后的最终配置（实现层直接消费）。
type EffectiveConfig struct {
	SourceRoot string
	OutRoot    string

	Density float64
	Targets []domain.Target
	// InputDirs 是各风格目录的绝对路径（可能不存在；运行时跳过）。
	InputDirs []string

	Verbose bool
}

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeSourceNotFound:
		if e.Path != "" {
			return fmt.Sprintf("%s：未找到 Font Awesome 包 %q（可用 --source 指定）", e.Code, e.Path)
		}
		return fmt.Sprintf("%s：未找到 Font Awesome 包 %s（可用 --source 指定）", e.Code, DefaultSourceRel)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s：%v", e.Code, e.Err)
		}
		return e.Code
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// LoadEffective 解析输入/输出位置并与内置常量合并为最终配置。
//
// 规则（固定）：
// - source：CLI --source（相对 cwd）> 从 cwd 向上查找 node_modules/@fortawesome/fontawesome-free
// - out：CLI --out（相对 cwd）> <exeDir>/../out
// - out 不能与 source 相同，也不能包含 source（每次运行都会整体删除 out）
func LoadEffective(cwd, exeDir string, cli CLIArgs) (EffectiveConfig, error) {
	cwdAbs, err := filepath.Abs(cwd)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cwd, Err: err}
	}

	var source string
	if strings.TrimSpace(cli.SourceRoot) != "" {
		source = absCleanFrom(cwdAbs, cli.SourceRoot)
		if !isDir(source) {
			return EffectiveConfig{}, &Error{Code: ErrCodeSourceNotFound, Path: source, Err: os.ErrNotExist}
		}
	} else {
		source = findPackageRoot(cwdAbs)
		if source == "" {
			return EffectiveConfig{}, &Error{Code: ErrCodeSourceNotFound, Err: os.ErrNotExist}
		}
	}

	var out string
	if strings.TrimSpace(cli.OutRoot) != "" {
		out = absCleanFrom(cwdAbs, cli.OutRoot)
	} else {
		exeAbs, err := filepath.Abs(exeDir)
		if err != nil {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: exeDir, Err: err}
		}
		out = filepath.Clean(filepath.Join(exeAbs, DefaultOutRel))
	}
	if out == source || isUnder(source, out) {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: out, Err: fmt.Errorf("输出目录 %q 不能与输入目录 %q 相同或包含它", out, source)}
	}

	eff := EffectiveConfig{
		SourceRoot: source,
		OutRoot:    out,
		Density:    DefaultDensity,
		Targets:    append([]domain.Target(nil), DefaultTargets...),
		InputDirs:  InputDirs(source, DefaultStyles),
		Verbose:    cli.Verbose,
	}
	if err := Validate(eff); err != nil {
		return EffectiveConfig{}, err
	}
	return eff, nil
}

// Validate 校验密度与 target 不变量。
func Validate(eff EffectiveConfig) error {
	if eff.Density <= 0 {
		return &Error{Code: ErrCodeInvalid, Err: fmt.Errorf("density 必须为正数，实际是 %v", eff.Density)}
	}
	if len(eff.Targets) == 0 {
		return &Error{Code: ErrCodeInvalid, Err: errors.New("targets 不能为空")}
	}
	for _, t := range eff.Targets {
		if err := t.Validate(); err != nil {
			return &Error{Code: ErrCodeInvalid, Err: fmt.Errorf("target %s 无效：%w", t, err)}
		}
	}
	return nil
}

// InputDirs 返回 source 下各风格目录的绝对路径。
// 优先使用 svgs-full；该目录不存在时回退到 svgs。
func InputDirs(source string, styles []string) []string {
	base := filepath.Join(source, svgDirNames[0])
	for _, name := range svgDirNames {
		if isDir(filepath.Join(source, name)) {
			base = filepath.Join(source, name)
			break
		}
	}
	dirs := make([]string, 0, len(styles))
	for _, s := range styles {
		dirs = append(dirs, filepath.Join(base, s))
	}
	return dirs
}

// findPackageRoot 从 dir 开始逐级向上查找 <d>/node_modules/@fortawesome/fontawesome-free/package.json。
func findPackageRoot(dir string) string {
	for {
		cand := filepath.Join(dir, filepath.FromSlash(DefaultSourceRel))
		if isFile(filepath.Join(cand, PackageManifest)) {
			return cand
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// absCleanFrom 以 base 为基准，把 p 变为 clean + absolute。
func absCleanFrom(base, p string) string {
	p = filepath.Clean(strings.TrimSpace(p))
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Clean(filepath.Join(base, p))
}

func isUnder(path, base string) bool {
	if path == base {
		return true
	}
	sep := string(filepath.Separator)
	return strings.HasPrefix(path, strings.TrimSuffix(base, sep)+sep)
}

func isDir(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && fi.IsDir()
}

func isFile(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && fi.Mode().IsRegular()
}

package scan

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/John-Robertt/fa2png/internal/domain"
)

// SVGExt 是识别为矢量源文件的扩展名（区分大小写）。
const SVGExt = ".svg"

// StyleOf 返回目录对应的风格名（目录 base name）。
func StyleOf(dir string) domain.Style {
	return domain.Style(filepath.Base(filepath.Clean(dir)))
}

// ScanIcons 列出 dir 下（不递归）所有 .svg 文件。
//
// 规则：
// - 顺序即目录列举顺序（os.ReadDir 按文件名排序，结果稳定）
// - 子目录一律忽略，即使名字以 .svg 结尾
// - 只做列举，不读文件内容
func ScanIcons(dir string) ([]domain.IconRecord, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, err
	}

	style := StyleOf(abs)
	icons := make([]domain.IconRecord, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, SVGExt) {
			continue
		}
		icons = append(icons, domain.IconRecord{
			Style: style,
			Name:  strings.TrimSuffix(name, SVGExt),
			Src:   filepath.Join(abs, name),
		})
	}
	return icons, nil
}

package domain

import (
	"path/filepath"
	"strconv"
)

// Style 是图标风格分组（取输入目录的 base name，例如 solid/regular/brands）。
type Style string

// IconRecord 描述一个待转换的图标源文件（只做 stat，不读内容）。
//
// 不变量：
// - Src 必须是 clean + absolute
// - Name 是去掉扩展名后的文件名，用于输出文件命名
type IconRecord struct {
	Style Style
	Name  string
	Src   string
}

// OutPath 返回该图标在 target 下的输出路径：<outRoot>/<size>/<style>/<name>.png。
func (r IconRecord) OutPath(outRoot string, t Target) string {
	return filepath.Join(OutDir(outRoot, t, r.Style), r.Name+".png")
}

// OutDir 返回 <outRoot>/<size>/<style>。
func OutDir(outRoot string, t Target, style Style) string {
	return filepath.Join(outRoot, strconv.Itoa(t.Size), string(style))
}

package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Target 是一档输出规格：正方形画布边长 + 四周留白（单位均为像素）。
//
// 不变量：Padding*2 < Size，否则内部绘制区域不为正。
type Target struct {
	Size    int
	Padding int
}

// Inner 返回图标可用的内部绘制区域边长（Size - 2*Padding）。
func (t Target) Inner() int {
	return t.Size - 2*t.Padding
}

// Validate 校验 Target 的不变量。
func (t Target) Validate() error {
	if t.Size <= 0 {
		return fmt.Errorf("size 必须为正数，实际是 %d", t.Size)
	}
	if t.Padding < 0 {
		return fmt.Errorf("padding 不能为负数，实际是 %d", t.Padding)
	}
	if t.Inner() <= 0 {
		return fmt.Errorf("padding*2 必须小于 size：size=%d padding=%d", t.Size, t.Padding)
	}
	return nil
}

func (t Target) String() string {
	return strconv.Itoa(t.Size) + "px"
}

// FormatTargets 把目标列表格式化为 "800px, 196px"。
func FormatTargets(ts []Target) string {
	parts := make([]string, 0, len(ts))
	for _, t := range ts {
		parts = append(parts, t.String())
	}
	return strings.Join(parts, ", ")
}

// Package svgpatch 对 SVG 源码做最小的文本替换，使继承 currentColor 的路径渲染为指定颜色。
//
// 这里刻意不做结构化解析：只处理第一个文本匹配，其余内容原样保留。
package svgpatch

import (
	"regexp"
	"strings"
)

// White 是图标统一使用的颜色。
const White = "white"

var colorAttrRE = regexp.MustCompile(`color="[^"]*"`)

// ForceWhite 等价于 ForceColor(svg, White)。
func ForceWhite(svg string) string {
	return ForceColor(svg, White)
}

// ForceColor 把 SVG 的 color 属性改为 c。
//
// 规则（单遍文本替换）：
// - 源码中已出现 `color="`：只替换第一个 `color="..."` 的值
// - 否则：在第一个 "<svg" 之后注入 ` color="<c>"`
//
// 注意：判断依据是子串 `color="`，因此 `stop-color="` 之类也会命中；保持该行为。
func ForceColor(svg, c string) string {
	if strings.Contains(svg, `color="`) {
		loc := colorAttrRE.FindStringIndex(svg)
		if loc == nil {
			// 有 `color="` 但没有闭合引号：不做任何修改。
			return svg
		}
		return svg[:loc[0]] + `color="` + c + `"` + svg[loc[1]:]
	}
	return strings.Replace(svg, "<svg", `<svg color="`+c+`"`, 1)
}

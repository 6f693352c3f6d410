// Package svgx 把第三方 SVG 渲染器（oksvg/rasterx）包装成本项目需要的最小能力：
// 读取根元素元信息、按密度计算自然尺寸、按“fit inside + 不放大”光栅化。
package svgx

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// BaseDPI 是 SVG 用户单位对应的基准分辨率（1 user unit = 1 CSS px = 1/72 in 的渲染约定）。
const BaseDPI = 72.0

// DefaultColor 是根元素未声明 color 时 currentColor 的取值。
const DefaultColor = "black"

var (
	// ErrNoSVGRoot 表示源码里找不到 <svg> 元素（内容损坏或不是 SVG）。
	ErrNoSVGRoot = errors.New("找不到 <svg> 根元素")
	// ErrNoIntrinsicSize 表示无法从 viewBox/width/height 推导出正的固有尺寸。
	ErrNoIntrinsicSize = errors.New("无法确定 SVG 固有尺寸（viewBox/width/height 缺失或无效）")
)

// ViewBox 对应 SVG 的 viewBox 属性。
type ViewBox struct {
	X, Y, W, H float64
}

// Meta 是根 <svg> 元素上与渲染相关的属性。
type Meta struct {
	ViewBox ViewBox
	// Width/Height 仅接受无单位或 px；其他单位（%/em 等）视为未指定（0）。
	Width  float64
	Height float64
	// Color 是 color 属性原值；未声明时为空串。
	Color string
}

// Intrinsic 返回 SVG 的固有尺寸（用户单位）。
//
// 规则：width/height 优先；缺一边时按 viewBox 宽高比补齐；都缺时取 viewBox 宽高。
func (m Meta) Intrinsic() (w, h float64) {
	w, h = m.Width, m.Height
	vb := m.ViewBox
	if vb.W > 0 && vb.H > 0 {
		switch {
		case w <= 0 && h <= 0:
			w, h = vb.W, vb.H
		case w <= 0:
			w = h * vb.W / vb.H
		case h <= 0:
			h = w * vb.H / vb.W
		}
	}
	return w, h
}

// Probe 解析 src 并读取根 <svg> 元素的 viewBox/width/height/color。
func Probe(src []byte) (Meta, error) {
	if len(bytes.TrimSpace(src)) == 0 {
		return Meta{}, ErrNoSVGRoot
	}

	// html 解析器对 SVG 外来内容会把 viewbox 还原为 viewBox，属性名可以直接按 SVG 写法读取。
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(src))
	if err != nil {
		return Meta{}, err
	}
	root := doc.Find("svg").First()
	if root.Length() == 0 {
		return Meta{}, ErrNoSVGRoot
	}

	var m Meta
	if v, ok := root.Attr("viewBox"); ok {
		vb, err := parseViewBox(v)
		if err != nil {
			return Meta{}, err
		}
		m.ViewBox = vb
	}
	if v, ok := root.Attr("width"); ok {
		m.Width = parseLength(v)
	}
	if v, ok := root.Attr("height"); ok {
		m.Height = parseLength(v)
	}
	if v, ok := root.Attr("color"); ok {
		m.Color = strings.TrimSpace(v)
	}

	if w, h := m.Intrinsic(); w <= 0 || h <= 0 {
		return Meta{}, ErrNoIntrinsicSize
	}
	return m, nil
}

// NaturalSize 返回在给定密度（dpi）下的自然像素尺寸（四舍五入，最小 1px）。
func NaturalSize(m Meta, density float64) (w, h int) {
	iw, ih := m.Intrinsic()
	scale := density / BaseDPI
	return atLeastOne(math.Round(iw * scale)), atLeastOne(math.Round(ih * scale))
}

// FitInside 把 (w, h) 等比缩放到 box×box 之内；不放大（自然尺寸已能放下时原样返回）。
func FitInside(w, h, box int) (int, int) {
	if w <= 0 || h <= 0 || box <= 0 {
		return 0, 0
	}
	if w <= box && h <= box {
		return w, h
	}
	scale := math.Min(float64(box)/float64(w), float64(box)/float64(h))
	fw := clamp(atLeastOne(math.Round(float64(w)*scale)), box)
	fh := clamp(atLeastOne(math.Round(float64(h)*scale)), box)
	return fw, fh
}

var currentColorRE = regexp.MustCompile(`(?i)currentcolor`)

// ResolveCurrentColor 把源码中的 currentColor 替换为 color。
//
// oksvg 不实现 CSS 的 color 继承，遇到 currentColor 会解析失败；
// 这里用根元素声明的 color 代入，使 color="white" 对继承色路径生效。
func ResolveCurrentColor(src []byte, color string) []byte {
	color = strings.TrimSpace(color)
	if color == "" || strings.EqualFold(color, "currentcolor") || strings.EqualFold(color, "inherit") {
		color = DefaultColor
	}
	return currentColorRE.ReplaceAll(src, []byte(color))
}

// Rasterize 在 density 下计算自然尺寸，按 fit inside + 不放大缩放到 box×box 之内，
// 并在透明背景上光栅化。返回图像尺寸即图标实际像素尺寸。
func Rasterize(src []byte, density float64, box int) (*image.RGBA, error) {
	if density <= 0 {
		return nil, fmt.Errorf("density 必须为正数，实际是 %v", density)
	}
	if box <= 0 {
		return nil, fmt.Errorf("绘制区域必须为正数，实际是 %d", box)
	}

	meta, err := Probe(src)
	if err != nil {
		return nil, err
	}
	natW, natH := NaturalSize(meta, density)
	w, h := FitInside(natW, natH, box)

	icon, err := oksvg.ReadIconStream(bytes.NewReader(ResolveCurrentColor(src, meta.Color)))
	if err != nil {
		return nil, fmt.Errorf("解析 SVG 失败：%w", err)
	}
	icon.SetTarget(0, 0, float64(w), float64(h))

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	raster := rasterx.NewDasher(w, h, scanner)
	icon.Draw(raster, 1.0)
	return img, nil
}

func parseViewBox(v string) (ViewBox, error) {
	fields := strings.FieldsFunc(v, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(fields) != 4 {
		return ViewBox{}, fmt.Errorf("viewBox 需要 4 个数值，实际是 %q", v)
	}
	var nums [4]float64
	for i, f := range fields {
		n, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return ViewBox{}, fmt.Errorf("viewBox 数值无效：%q", v)
		}
		nums[i] = n
	}
	return ViewBox{X: nums[0], Y: nums[1], W: nums[2], H: nums[3]}, nil
}

func parseLength(v string) float64 {
	v = strings.TrimSuffix(strings.TrimSpace(v), "px")
	n, err := strconv.ParseFloat(v, 64)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

func atLeastOne(f float64) int {
	if f < 1 {
		return 1
	}
	return int(f)
}

func clamp(v, max int) int {
	if v > max {
		return max
	}
	return v
}

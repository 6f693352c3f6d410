package svgx

import (
	"errors"
	"image/color"
	"strings"
	"testing"
)

const squareSVG = `<?xml version="1.0" encoding="UTF-8"?>
<!--! test icon -->
<svg xmlns="http://www.w3.org/2000/svg" color="white" viewBox="0 0 10 10"><path fill="currentColor" d="M0 0L10 0L10 10L0 10Z"/></svg>`

func TestProbe_ViewBoxAndColor(t *testing.T) {
	m, err := Probe([]byte(`<svg xmlns="http://www.w3.org/2000/svg" color="white" viewBox="0 0 576 512"><path d="M0 0"/></svg>`))
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if m.ViewBox != (ViewBox{X: 0, Y: 0, W: 576, H: 512}) {
		t.Fatalf("viewBox 不符合预期：%+v", m.ViewBox)
	}
	if m.Color != "white" {
		t.Fatalf("期望 color=white，实际=%q", m.Color)
	}
	w, h := m.Intrinsic()
	if w != 576 || h != 512 {
		t.Fatalf("固有尺寸不符合预期：%vx%v", w, h)
	}
}

func TestProbe_WidthHeightOverrideViewBox(t *testing.T) {
	m, err := Probe([]byte(`<svg width="24px" viewBox="0, 0, 48, 96"></svg>`))
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	// 只有 width：height 按 viewBox 宽高比补齐。
	w, h := m.Intrinsic()
	if w != 24 || h != 48 {
		t.Fatalf("固有尺寸不符合预期：%vx%v", w, h)
	}
}

func TestProbe_Errors(t *testing.T) {
	cases := map[string]string{
		"empty":      "",
		"not svg":    "this is definitely not an svg file",
		"no size":    `<svg xmlns="http://www.w3.org/2000/svg"><path d="M0 0"/></svg>`,
		"bad number": `<svg viewBox="0 0 a b"></svg>`,
	}
	for name, src := range cases {
		if _, err := Probe([]byte(src)); err == nil {
			t.Fatalf("%s：期望错误，但得到 nil", name)
		}
	}

	if _, err := Probe([]byte("garbage")); !errors.Is(err, ErrNoSVGRoot) {
		t.Fatalf("期望 ErrNoSVGRoot，实际：%v", err)
	}
	if _, err := Probe([]byte(`<svg></svg>`)); !errors.Is(err, ErrNoIntrinsicSize) {
		t.Fatalf("期望 ErrNoIntrinsicSize，实际：%v", err)
	}
}

func TestNaturalSize_Density(t *testing.T) {
	m := Meta{ViewBox: ViewBox{W: 576, H: 512}}
	w, h := NaturalSize(m, 600)
	// 576*600/72 = 4800；512*600/72 = 4266.67 -> 4267
	if w != 4800 || h != 4267 {
		t.Fatalf("自然尺寸不符合预期：%dx%d", w, h)
	}
	w, h = NaturalSize(m, 72)
	if w != 576 || h != 512 {
		t.Fatalf("72dpi 下应等于用户单位：%dx%d", w, h)
	}
}

func TestFitInside(t *testing.T) {
	cases := []struct {
		w, h, box    int
		wantW, wantH int
	}{
		{4800, 4267, 580, 580, 516},
		{4267, 4800, 142, 126, 142},
		{4800, 4800, 580, 580, 580},
		// 不放大：自然尺寸小于 box 时原样返回。
		{10, 20, 580, 10, 20},
		{580, 580, 580, 580, 580},
		{10000, 1, 100, 100, 1},
		{0, 10, 100, 0, 0},
	}
	for _, c := range cases {
		gw, gh := FitInside(c.w, c.h, c.box)
		if gw != c.wantW || gh != c.wantH {
			t.Fatalf("FitInside(%d,%d,%d)：期望 %dx%d，实际 %dx%d", c.w, c.h, c.box, c.wantW, c.wantH, gw, gh)
		}
	}
}

func TestResolveCurrentColor(t *testing.T) {
	got := string(ResolveCurrentColor([]byte(`<path fill="currentColor" stroke="CURRENTCOLOR"/>`), "white"))
	if got != `<path fill="white" stroke="white"/>` {
		t.Fatalf("替换结果不符合预期：%q", got)
	}
	got = string(ResolveCurrentColor([]byte(`fill="currentColor"`), ""))
	if got != `fill="black"` {
		t.Fatalf("未声明 color 时应回退为 black：%q", got)
	}
}

func TestRasterize_WhiteSquareDownscaled(t *testing.T) {
	img, err := Rasterize([]byte(squareSVG), 600, 50)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	b := img.Bounds()
	if b.Dx() != 50 || b.Dy() != 50 {
		t.Fatalf("尺寸不符合预期：%dx%d", b.Dx(), b.Dy())
	}
	c := color.NRGBAModel.Convert(img.At(25, 25)).(color.NRGBA)
	if c.A < 250 || c.R < 250 || c.G < 250 || c.B < 250 {
		t.Fatalf("中心像素应为不透明白色，实际=%v", c)
	}
}

func TestRasterize_NoEnlargement(t *testing.T) {
	// 72dpi 下自然尺寸 10x10，远小于 box：不应放大。
	img, err := Rasterize([]byte(squareSVG), 72, 580)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if b := img.Bounds(); b.Dx() != 10 || b.Dy() != 10 {
		t.Fatalf("不应放大：实际 %dx%d", b.Dx(), b.Dy())
	}
}

func TestRasterize_Corrupt(t *testing.T) {
	_, err := Rasterize([]byte("\x00\x01 corrupt"), 600, 100)
	if err == nil {
		t.Fatalf("期望错误，但得到 nil")
	}

	_, err = Rasterize([]byte(strings.Replace(squareSVG, "</svg>", "", 1)+"<path d=\"M0"), 600, 100)
	if err == nil {
		t.Fatalf("XML 不完整时期望错误，但得到 nil")
	}
}

func TestRasterize_InvalidArgs(t *testing.T) {
	if _, err := Rasterize([]byte(squareSVG), 0, 100); err == nil {
		t.Fatalf("density=0 期望错误")
	}
	if _, err := Rasterize([]byte(squareSVG), 600, 0); err == nil {
		t.Fatalf("box=0 期望错误")
	}
}

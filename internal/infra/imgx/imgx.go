package imgx

import (
	"bytes"
	"errors"
	"image"
	"image/png"

	"golang.org/x/image/draw"
)

// PadCenter 创建 size×size 的全透明画布，并把 icon 居中合成上去。
//
// 约束：
// - 画布之外的区域 alpha 恒为 0（NewNRGBA 零值即全透明）
// - 偏移向下取整：(size-w)/2, (size-h)/2
// - icon 大于画布时两侧对称裁切
func PadCenter(icon image.Image, size int) (*image.NRGBA, error) {
	if size <= 0 {
		return nil, errors.New("画布尺寸必须为正数")
	}
	if icon == nil {
		return nil, errors.New("icon 为空")
	}

	canvas := image.NewNRGBA(image.Rect(0, 0, size, size))

	b := icon.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return canvas, nil
	}

	off := image.Pt((size-b.Dx())/2, (size-b.Dy())/2)
	dr := image.Rectangle{Min: off, Max: off.Add(b.Size())}
	draw.Draw(canvas, dr, icon, b.Min, draw.Over)
	return canvas, nil
}

// EncodePNG 把图像编码为 PNG。使用 BestCompression：输出稳定且体积更小。
func EncodePNG(img image.Image) ([]byte, error) {
	if img == nil {
		return nil, errors.New("图像为空")
	}
	var out bytes.Buffer
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	if err := enc.Encode(&out, img); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// ContentBounds 返回 img 中 alpha>0 像素的最小包围矩形；全透明时返回空矩形。
func ContentBounds(img image.Image) image.Rectangle {
	b := img.Bounds()
	var r image.Rectangle
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a == 0 {
				continue
			}
			r = r.Union(image.Rect(x, y, x+1, y+1))
		}
	}
	return r
}

package scene

import "image"

// addLayer composites src onto dst with additive ("lighter") blending inside
// box. Both images hold premultiplied RGBA of the same size; channels saturate.
func addLayer(dst, src *image.RGBA, box image.Rectangle) {
	box = box.Intersect(dst.Bounds()).Intersect(src.Bounds())
	if box.Empty() {
		return
	}
	for y := box.Min.Y; y < box.Max.Y; y++ {
		di := dst.PixOffset(box.Min.X, y)
		si := src.PixOffset(box.Min.X, y)
		for x := box.Min.X; x < box.Max.X; x++ {
			if src.Pix[si+3] != 0 {
				for c := 0; c < 4; c++ {
					v := int(dst.Pix[di+c]) + int(src.Pix[si+c])
					if v > 255 {
						v = 255
					}
					dst.Pix[di+c] = uint8(v)
				}
			}
			di += 4
			si += 4
		}
	}
}

package cursor

import "image"

// Image converts a cursor bitmap into an image.RGBA. Cursor bytes are laid
// out A,R,G,B with premultiplied colour.
func Image(buf []byte, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))
	n := BufferLen(width, height)
	if n == 0 || len(buf) < n {
		return img
	}
	for i := 0; i < n; i += bytesPerPixel {
		img.Pix[i+0] = buf[i+1]
		img.Pix[i+1] = buf[i+2]
		img.Pix[i+2] = buf[i+3]
		img.Pix[i+3] = buf[i+alphaOffset]
	}
	return img
}

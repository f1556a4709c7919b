package bitmap

import "fmt"

// Copy copies a w*h rectangle from src at sx, sy to dst at dx, dy. Only the
// planes both bitmaps have are copied, the way a cookie-cut blit with an
// all-ones mask behaves.
func Copy(src *Bitmap, sx, sy int, dst *Bitmap, dx, dy, w, h int) error {
	if w <= 0 || h <= 0 {
		return nil
	}
	if sx < 0 || sy < 0 || sx+w > src.Width() || sy+h > src.rows ||
		dx < 0 || dy < 0 || dx+w > dst.Width() || dy+h > dst.rows {
		return fmt.Errorf(
			"%w: %dx%d from %s (%d,%d) to %s (%d,%d)",
			ErrOutOfBounds, w, h, src, sx, sy, dst, dx, dy,
		)
	}

	depth := min(src.depth, dst.depth)
	srcStride, dstStride := src.BytesPerRow(), dst.BytesPerRow()

	// byte aligned copies move whole bytes
	if sx&7 == 0 && dx&7 == 0 && w&7 == 0 {
		n := w >> 3
		for p := 0; p < depth; p++ {
			so, do := src.planeOffset(p), dst.planeOffset(p)
			for y := 0; y < h; y++ {
				s := so + (sy+y)*srcStride + sx>>3
				d := do + (dy+y)*dstStride + dx>>3
				copy(dst.data[d:d+n], src.data[s:s+n])
			}
		}
		return nil
	}

	for p := 0; p < depth; p++ {
		so, do := src.planeOffset(p), dst.planeOffset(p)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				sX, dX := sx+x, dx+x
				bit := (src.data[so+(sy+y)*srcStride+sX>>3] >> (7 - uint(sX&7))) & 1
				d := do + (dy+y)*dstStride + dX>>3
				mask := byte(0x80) >> uint(dX&7)
				if bit != 0 {
					dst.data[d] |= mask
				} else {
					dst.data[d] &^= mask
				}
			}
		}
	}
	return nil
}

// CopyPlanes copies plane srcPlane of src into plane dstPlane of dst for
// every row both bitmaps have, over the byte width they share. It is used
// to split deep bitmaps into pairs of 2-plane bitmaps.
func CopyPlanes(src *Bitmap, srcPlane int, dst *Bitmap, dstPlane int) {
	n := min(src.byteWidth, dst.byteWidth)
	rows := min(src.rows, dst.rows)
	so, do := src.planeOffset(srcPlane), dst.planeOffset(dstPlane)
	for y := 0; y < rows; y++ {
		s := so + y*src.BytesPerRow()
		d := do + y*dst.BytesPerRow()
		copy(dst.data[d:d+n], src.data[s:s+n])
	}
}

package cursor

// AlphaOccupancyStats summarises where the opaque pixels of a bitmap sit.
type AlphaOccupancyStats struct {
	// Rows and Cols hold the opaque pixel count of each row and column.
	Rows []int
	Cols []int

	Total    int
	Diag     int // opaque pixels with x == y
	AntiDiag int // opaque pixels with x == width-y-1

	MaxRow int
	MaxCol int
}

// IsOpaque reports whether a pixel's alpha-bearing byte counts as drawn.
func IsOpaque(alpha byte) bool {
	return alpha > opaqueAlphaThreshold
}

// BufferLen is the byte length of a width x height bitmap.
func BufferLen(width, height int) int {
	if width <= 0 || height <= 0 {
		return 0
	}
	return width * height * bytesPerPixel
}

// Occupancy walks buf once and counts opaque pixels per row, per column and on
// both diagonals. A bitmap with non-positive dimensions or a buffer shorter than
// width*height*4 yields zero stats.
func Occupancy(buf []byte, width, height int) AlphaOccupancyStats {
	var st AlphaOccupancyStats
	if width <= 0 || height <= 0 || len(buf) < BufferLen(width, height) {
		return st
	}

	st.Rows = make([]int, height)
	st.Cols = make([]int, width)

	for y := 0; y < height; y++ {
		row := y * width * bytesPerPixel
		for x := 0; x < width; x++ {
			if !IsOpaque(buf[row+x*bytesPerPixel+alphaOffset]) {
				continue
			}
			st.Total++
			st.Rows[y]++
			st.Cols[x]++
			if x == y {
				st.Diag++
			}
			if x == width-y-1 {
				st.AntiDiag++
			}
		}
		if st.Rows[y] > st.MaxRow {
			st.MaxRow = st.Rows[y]
		}
	}
	for _, n := range st.Cols {
		if n > st.MaxCol {
			st.MaxCol = n
		}
	}
	return st
}

// DiagonalFractions returns the share of opaque pixels on the main diagonal
// and on the anti-diagonal. ok is false when there are no opaque pixels.
func (st AlphaOccupancyStats) DiagonalFractions() (main, anti float64, ok bool) {
	if st.Total <= 0 {
		return 0, 0, false
	}
	return float64(st.Diag) / float64(st.Total), float64(st.AntiDiag) / float64(st.Total), true
}

// Package cursor classifies cursor bitmaps into shape categories using only
// the layout of their opaque pixels.
package cursor

// Classify decides the category of a square cursor bitmap. buf is row-major
// with 4 bytes per pixel; the first byte of each pixel carries alpha.
//
// Only square bitmaps are meaningful here; callers filter other shapes first.
func Classify(buf []byte, width, height int) Category {
	return ClassifyStats(Occupancy(buf, width, height))
}

// ClassifyStats applies the diagonal test and then the widest-row table to
// precomputed occupancy stats. The diagonal test wins when it matches.
func ClassifyStats(st AlphaOccupancyStats) Category {
	if main, anti, ok := st.DiagonalFractions(); ok {
		// Exact comparison on purpose: only the calibrated bitmap lands on 0.04.
		if main == 0 && anti == diagonalResizeAntiDiagFraction {
			return DiagonalResize
		}
	}

	switch st.MaxRow {
	case verticalResizeMaxRow:
		return VerticalResize
	case horizontalResizeMaxRow, horizontalResizeLargeMaxRow:
		return HorizontalResize
	case pointerOrVerticalMaxRow:
		if st.MaxCol == pointerMaxCol {
			return Pointer
		}
		return VerticalResize
	}
	return Other
}

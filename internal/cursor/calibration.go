package cursor

// The values below were measured by hand against one window server's rendering of
// its stock cursors at 1x scale. They are calibration data, not geometry: a
// different renderer, theme or scale factor will not match them, and they must
// stay exact for the bitmaps they were taken from to keep classifying.
const (
	// opaqueAlphaThreshold is the alpha value a pixel must exceed to count as drawn.
	opaqueAlphaThreshold = 10

	// alphaOffset is the byte within each 4-byte pixel that carries alpha.
	alphaOffset = 0

	bytesPerPixel = 4

	// diagonalResizeAntiDiagFraction is the share of opaque pixels lying on the
	// anti-diagonal of the diagonal resize bitmap. Compared with ==.
	diagonalResizeAntiDiagFraction = 0.04

	// Widest opaque row, per cursor.
	verticalResizeMaxRow        = 6
	horizontalResizeMaxRow      = 8
	horizontalResizeLargeMaxRow = 10
	pointerOrVerticalMaxRow     = 14

	// pointerMaxCol separates the pointing hand from the tall vertical resize
	// bitmap, which share the same widest row.
	pointerMaxCol = 13

	// IBeamWidth and IBeamHeight are the exact dimensions of the text cursor
	// bitmap. The query path short-circuits on them without reading pixels.
	IBeamWidth  = 23
	IBeamHeight = 22
)

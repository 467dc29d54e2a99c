package platform

import "encoding/binary"

// PutARGB serialises packed ARGB words into buf as A,R,G,B bytes, which puts
// alpha in the first byte of each pixel. buf must hold 4*len(pixels) bytes.
func PutARGB(buf []byte, pixels []uint32) {
	for i, p := range pixels {
		binary.BigEndian.PutUint32(buf[i*4:], p)
	}
}

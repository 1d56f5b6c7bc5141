package qoi

import "encoding/binary"

// The Append functions write one chunk each. Their arguments are not checked:
// biased deltas must already be in range and run lengths in [1, MaxRun].

// AppendRGB appends an RGB chunk.
func AppendRGB(dst []byte, r, g, b uint8) []byte {
	return append(dst, OpRGB, r, g, b)
}

// AppendRGBA appends an RGBA chunk. The 3-channel encoder never emits it.
func AppendRGBA(dst []byte, r, g, b, a uint8) []byte {
	return append(dst, OpRGBA, r, g, b, a)
}

// AppendIndex appends an Index chunk referring to cache slot index.
func AppendIndex(dst []byte, index int) []byte {
	return append(dst, OpIndex|byte(index)&^opMask)
}

// AppendRun appends a Run chunk repeating the previous pixel length times.
func AppendRun(dst []byte, length int) []byte {
	return append(dst, OpRun|byte(length-1)&^opMask)
}

// AppendDiff appends a Diff chunk. dr, dg and db are biased by 2.
func AppendDiff(dst []byte, dr, dg, db uint8) []byte {
	return append(dst, OpDiff|(dr&0x03)<<4|(dg&0x03)<<2|db&0x03)
}

// AppendLuma appends a Luma chunk. dg is biased by 32, drdg and dbdg by 8.
func AppendLuma(dst []byte, dg, drdg, dbdg uint8) []byte {
	return append(dst,
		OpLuma|dg&^opMask,
		(drdg&0x0f)<<4|dbdg&0x0f,
	)
}

// AppendHeader appends the stream header for an image of the given size.
func AppendHeader(dst []byte, width, height uint32) []byte {
	dst = append(dst, Magic...)
	dst = binary.BigEndian.AppendUint32(dst, width)
	dst = binary.BigEndian.AppendUint32(dst, height)
	return append(dst, Channels, ColorspaceSRGB)
}

// AppendEnd appends the end marker.
func AppendEnd(dst []byte) []byte {
	return append(dst, EndMarker[:]...)
}

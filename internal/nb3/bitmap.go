package nb3

import (
	"fmt"
	"io"

	"github.com/dcrodman/nb3cut/internal/core/bytes"
)

const (
	// Width and Height are the dimensions of every portrait.
	Width  = 64
	Height = 80

	bitCount       = 8
	pixelsPerMeter = 2834

	fileHeaderSize = 14
	infoHeaderSize = 40
	headerSize     = fileHeaderSize + infoHeaderSize

	// Decompressed portraits start with 6 bytes that are not pixels.
	pixelPrefixSize = 6

	bytesPerRow = (Width*bitCount/8 + 3) / 4 * 4
	imageSize   = bytesPerRow * Height
	dataOffset  = headerSize + NumColors*4

	// FileSize is the size of every bitmap written by Encode.
	FileSize = dataOffset + imageSize
)

type fileHeader struct {
	Signature [2]byte
	Size      uint32
	Reserved  uint32
	Offset    uint32
}

type infoHeader struct {
	Size            uint32
	Width           int32
	Height          int32
	Planes          uint16
	BitCount        uint16
	Compression     uint32
	ImageSize       uint32
	XPelsPerMeter   int32
	YPelsPerMeter   int32
	ColorsUsed      uint32
	ColorsImportant uint32
}

type bitmapHeader struct {
	File    fileHeader
	Info    infoHeader
	Palette Palette
}

func newBitmapHeader(p *Palette) *bitmapHeader {
	return &bitmapHeader{
		File: fileHeader{
			Signature: [2]byte{'B', 'M'},
			Size:      FileSize,
			Offset:    dataOffset,
		},
		Info: infoHeader{
			Size:          infoHeaderSize,
			Width:         Width,
			Height:        Height,
			Planes:        1,
			BitCount:      bitCount,
			ImageSize:     imageSize,
			XPelsPerMeter: pixelsPerMeter,
			YPelsPerMeter: pixelsPerMeter,
			ColorsUsed:    NumColors,
		},
		Palette: *p,
	}
}

// Encode writes pixels as an uncompressed 8-bit bitmap using palette p.
//
// The pixel section is the track read backwards, from its last byte down to
// byte 6; the first 6 bytes never reach the image. Tracks that come up short
// are padded with color 0 and longer ones are cut off, so the output is always
// FileSize bytes.
func Encode(w io.Writer, pixels []byte, p *Palette) error {
	if p == nil {
		return ErrNoPalette
	}

	header, _ := bytes.BytesFromStruct(newBitmapHeader(p))
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("error writing bitmap header: %w", err)
	}
	if _, err := w.Write(pixelData(pixels)); err != nil {
		return fmt.Errorf("error writing bitmap pixels: %w", err)
	}
	return nil
}

func pixelData(pixels []byte) []byte {
	data := make([]byte, imageSize)
	n := 0
	for i := len(pixels) - 1; i >= pixelPrefixSize && n < len(data); i-- {
		data[n] = pixels[i]
		n++
	}
	return data
}

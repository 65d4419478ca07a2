// Package nb3 turns decompressed Nobunaga's Ambition tracks into palettes and
// 64x80 portrait bitmaps.
package nb3

import (
	"errors"
	"fmt"
)

const (
	// NumColors is the number of entries in a palette.
	NumColors = 256
	// DefaultPaletteTrack is the index of the palette track in palette.nb3.
	DefaultPaletteTrack = 1

	// Palette tracks store three bytes per color.
	paletteDataSize = NumColors * 3
)

var (
	// ErrTruncated is returned when a palette track is shorter than 256 colors.
	ErrTruncated = errors.New("nb3: palette data is too short")
	// ErrNoPalette is returned when a palette is needed before one has been built.
	ErrNoPalette = errors.New("nb3: palette has not been loaded")
)

// Color is one palette entry. The field order is the byte order of the entry
// in the bitmap color table, which is not the order of the palette track.
type Color struct {
	Blue     uint8
	Green    uint8
	Red      uint8
	Reserved uint8
}

// Palette is the color table shared by every portrait.
type Palette [NumColors]Color

// ReadPalette builds a palette from the first 768 bytes of data, read as
// (blue, red, green) triples. Anything past that is ignored.
func ReadPalette(data []byte) (*Palette, error) {
	if len(data) < paletteDataSize {
		return nil, fmt.Errorf("%d bytes, need %d: %w", len(data), paletteDataSize, ErrTruncated)
	}

	p := &Palette{}
	for i := range p {
		p[i] = Color{
			Blue:  data[i*3],
			Red:   data[i*3+1],
			Green: data[i*3+2],
		}
	}
	return p, nil
}

// PaletteBuilder watches the tracks of a palette archive and keeps the palette
// from the one at Track.
type PaletteBuilder struct {
	Track int

	palette *Palette
}

func NewPaletteBuilder(track int) *PaletteBuilder {
	return &PaletteBuilder{Track: track}
}

// Build reads the palette out of data when track is the palette track and
// ignores every other track.
func (b *PaletteBuilder) Build(data []byte, track int) error {
	if track != b.Track {
		return nil
	}

	p, err := ReadPalette(data)
	if err != nil {
		return err
	}
	b.palette = p
	return nil
}

// Palette returns the built palette, or ErrNoPalette if the palette track has
// not been seen.
func (b *PaletteBuilder) Palette() (*Palette, error) {
	if b.palette == nil {
		return nil, ErrNoPalette
	}
	return b.palette, nil
}

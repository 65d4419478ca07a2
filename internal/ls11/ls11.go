// Package ls11 reads the LS11 archives used by KOEI's Nobunaga's Ambition
// data files.
//
// An archive is a 16 byte signature area starting with "LS11", a 256 byte
// literal dictionary, and a directory of big-endian (compressed length,
// extracted size, offset) triples closed by a zero length. Every track is an
// MSB-first bit stream of variable-length codes that either pick a dictionary
// entry or copy earlier output.
package ls11

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
)

// Track is one decompressed archive entry, handed to a TrackFunc.
type Track struct {
	// Index is the track's position in the archive directory.
	Index int
	TrackDescriptor
	Data []byte
}

// TrackFunc receives each track in directory order. Returning an error stops
// the extraction and the error is passed back to the caller of Extract.
type TrackFunc func(t *Track) error

// Extract reads the archive header from r, then decompresses each track in
// directory order and passes it to fn. The first error stops the extraction;
// tracks already handed to fn are not revisited.
func Extract(ctx context.Context, r io.ReadSeeker, opts Options, fn TrackFunc) error {
	header, err := ReadHeader(bufio.NewReader(r))
	if err != nil {
		return err
	}

	for i, desc := range header.Tracks {
		if err := ctx.Err(); err != nil {
			return err
		}

		data, err := DecompressTrack(r, &header.Dictionary, desc, opts)
		if err != nil {
			return fmt.Errorf("track %d: %w", i, err)
		}

		if err := fn(&Track{Index: i, TrackDescriptor: desc, Data: data}); err != nil {
			return err
		}
	}
	return nil
}

// ExtractFile is Extract for the archive at path.
func ExtractFile(ctx context.Context, path string, opts Options, fn TrackFunc) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("error opening archive: %w", err)
	}
	defer f.Close()

	return Extract(ctx, f, opts, fn)
}

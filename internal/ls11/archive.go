package ls11

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

const (
	// DictionarySize is the number of entries in the literal substitution table.
	DictionarySize = 256

	magicSize = 16
)

var magic = []byte("LS11")

// Dictionary maps decoded literal indices to output bytes.
type Dictionary [DictionarySize]byte

// TrackDescriptor is one entry of the archive's track directory. All fields are
// stored as big-endian int32s.
type TrackDescriptor struct {
	CompressedLength int32
	ExtractedSize    int32
	Offset           int32
}

// Header is everything that precedes the compressed track data.
type Header struct {
	Dictionary Dictionary
	Tracks     []TrackDescriptor
}

// ReadHeader parses the signature, dictionary and track directory from r.
func ReadHeader(r io.Reader) (*Header, error) {
	if err := validateMagic(r); err != nil {
		return nil, err
	}

	header := &Header{}
	if err := readDictionary(r, &header.Dictionary); err != nil {
		return nil, err
	}

	tracks, err := readTrackDirectory(r)
	if err != nil {
		return nil, err
	}
	header.Tracks = tracks

	return header, nil
}

// ReadHeaderFile is ReadHeader for the archive at path.
func ReadHeaderFile(path string) (*Header, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening archive: %w", err)
	}
	defer f.Close()

	return ReadHeader(bufio.NewReader(f))
}

// validateMagic only looks at the first four bytes of the 16 byte signature
// area; whatever follows "LS11" is not checked.
func validateMagic(r io.Reader) error {
	var b [magicSize]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		if isEOF(err) {
			return ErrBadMagic
		}
		return fmt.Errorf("error reading signature: %w", err)
	}

	if !bytes.Equal(b[:len(magic)], magic) {
		return ErrBadMagic
	}
	return nil
}

func readDictionary(r io.Reader, dict *Dictionary) error {
	if _, err := io.ReadFull(r, dict[:]); err != nil {
		if isEOF(err) {
			return ErrTruncated
		}
		return fmt.Errorf("error reading dictionary: %w", err)
	}
	return nil
}

// readTrackDirectory reads descriptors until one with a zero compressed length
// or until the stream runs out where the next descriptor would start. A partial
// compressed length field at the end of the stream is dropped the same way.
func readTrackDirectory(r io.Reader) ([]TrackDescriptor, error) {
	var tracks []TrackDescriptor
	for {
		length, err := readInt32(r)
		if err != nil {
			if isEOF(err) {
				break
			}
			return nil, fmt.Errorf("error reading track directory: %w", err)
		}
		if length == 0 {
			break
		}

		desc := TrackDescriptor{CompressedLength: length}
		if desc.ExtractedSize, err = readInt32(r); err != nil {
			return nil, directoryError(err)
		}
		if desc.Offset, err = readInt32(r); err != nil {
			return nil, directoryError(err)
		}
		if desc.ExtractedSize <= 0 || desc.Offset < 0 {
			return nil, fmt.Errorf("track %d (size %d, offset %d): %w",
				len(tracks), desc.ExtractedSize, desc.Offset, ErrInvalidTrack)
		}

		tracks = append(tracks, desc)
	}
	return tracks, nil
}

func directoryError(err error) error {
	if isEOF(err) {
		return ErrTruncated
	}
	return fmt.Errorf("error reading track directory: %w", err)
}

func readInt32(r io.Reader) (int32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b[:])), nil
}

func isEOF(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}

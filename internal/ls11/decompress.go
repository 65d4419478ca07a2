package ls11

import (
	"bufio"
	"fmt"
	"io"
)

// Shortest run a back-reference can encode.
const minMatchLength = 3

// DefaultMaxTrackSize caps the declared size of a single track when Options
// does not set one.
const DefaultMaxTrackSize = 16 << 20

// Options tune how tracks are decompressed.
type Options struct {
	// MaxTrackSize is the largest extracted size a track may declare. Zero
	// means DefaultMaxTrackSize.
	MaxTrackSize int32
}

func (o Options) maxTrackSize() int32 {
	if o.MaxTrackSize <= 0 {
		return DefaultMaxTrackSize
	}
	return o.MaxTrackSize
}

type decompressor struct {
	br   *bitReader
	dict *Dictionary

	dst []byte
	// cur is the number of bytes of dst produced so far.
	cur int
}

func newDecompressor(src io.ByteReader, dict *Dictionary, size int) *decompressor {
	return &decompressor{
		br:   newBitReader(src),
		dict: dict,
		dst:  make([]byte, size),
	}
}

// decompress expands units until the output holds exactly the declared size.
func (d *decompressor) decompress() ([]byte, error) {
	for d.cur < len(d.dst) {
		if err := d.extractUnit(); err != nil {
			return nil, err
		}
	}
	return d.dst, nil
}

// extractUnit decodes either one dictionary literal or one back-reference.
// Values below DictionarySize index the dictionary; anything else is a distance
// biased by DictionarySize, followed by a length biased by minMatchLength.
func (d *decompressor) extractUnit() error {
	val, err := d.br.decode()
	if err != nil {
		return err
	}
	if val < DictionarySize {
		return d.put(d.dict[val])
	}

	distance := val - DictionarySize
	n, err := d.br.decode()
	if err != nil {
		return err
	}
	length := n + minMatchLength

	if distance == 0 || distance > uint64(d.cur) {
		return fmt.Errorf("distance %d at position %d: %w", distance, d.cur, ErrInvalidDistance)
	}
	if length > uint64(len(d.dst)-d.cur) {
		return fmt.Errorf("copy of %d bytes at position %d: %w", length, d.cur, ErrOverflow)
	}

	// The source and destination overlap whenever distance < length, which is
	// how runs are encoded, so this has to go one byte at a time.
	for i := uint64(0); i < length; i++ {
		if err := d.copyFromOffset(int(distance)); err != nil {
			return err
		}
	}
	return nil
}

func (d *decompressor) put(b byte) error {
	if d.cur >= len(d.dst) {
		return ErrOverflow
	}
	d.dst[d.cur] = b
	d.cur++
	return nil
}

func (d *decompressor) copyFromOffset(distance int) error {
	return d.put(d.dst[d.cur-distance])
}

// DecompressTrack seeks r to the track's data and expands it using dict.
func DecompressTrack(r io.ReadSeeker, dict *Dictionary, desc TrackDescriptor, opts Options) ([]byte, error) {
	if desc.ExtractedSize <= 0 || desc.Offset < 0 {
		return nil, ErrInvalidTrack
	}
	if desc.ExtractedSize > opts.maxTrackSize() {
		return nil, fmt.Errorf("%d bytes declared, limit is %d: %w",
			desc.ExtractedSize, opts.maxTrackSize(), ErrTooLarge)
	}

	if _, err := r.Seek(int64(desc.Offset), io.SeekStart); err != nil {
		return nil, fmt.Errorf("error seeking to track data: %w", err)
	}

	d := newDecompressor(bufio.NewReader(r), dict, int(desc.ExtractedSize))
	return d.decompress()
}

package ls11

import (
	"errors"
	"io"
)

// Longest prefix the decoder accepts. Keeps prefix+suffix well inside a uint64.
const maxCodeBits = 32

// bitReader hands out the bits of src most significant bit first, pulling
// a new byte only once the current one has been used up.
type bitReader struct {
	src io.ByteReader

	buf  byte
	mask byte
}

func newBitReader(src io.ByteReader) *bitReader {
	return &bitReader{src: src}
}

func (br *bitReader) readBit() (uint64, error) {
	if br.mask == 0 {
		b, err := br.src.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return 0, ErrTruncated
			}
			return 0, err
		}
		br.buf = b
		br.mask = 0x80
	}

	var bit uint64
	if br.buf&br.mask != 0 {
		bit = 1
	}
	br.mask >>= 1
	return bit, nil
}

// decode reads one variable-length integer. The prefix runs up to and including
// the first 0 bit; the suffix that follows has exactly as many bits as the prefix.
// The value is the sum of the two.
//
// ex: 1 0 | 0 1 -> prefix 0b10 (2), suffix 0b01 (1) -> 3
func (br *bitReader) decode() (uint64, error) {
	var prefix, suffix uint64

	length := 0
	for {
		bit, err := br.readBit()
		if err != nil {
			return 0, err
		}
		prefix = prefix<<1 | bit
		length++
		if bit == 0 {
			break
		}
		if length >= maxCodeBits {
			return 0, ErrInvalidCode
		}
	}

	for i := 0; i < length; i++ {
		bit, err := br.readBit()
		if err != nil {
			return 0, err
		}
		suffix = suffix<<1 | bit
	}
	return prefix + suffix, nil
}

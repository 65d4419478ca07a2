// Package ls11test builds small LS11 archives for tests.
package ls11test

import (
	"encoding/binary"
)

// BitWriter packs bits most significant bit first.
type BitWriter struct {
	buf   []byte
	nbits uint
}

func (w *BitWriter) WriteBit(bit uint64) {
	if w.nbits%8 == 0 {
		w.buf = append(w.buf, 0)
	}
	if bit != 0 {
		w.buf[len(w.buf)-1] |= 0x80 >> (w.nbits % 8)
	}
	w.nbits++
}

// WriteBits writes the low n bits of v, high bit first.
func (w *BitWriter) WriteBits(v uint64, n int) {
	for i := n - 1; i >= 0; i-- {
		w.WriteBit(v >> uint(i) & 1)
	}
}

// WriteCode writes v as a variable-length code: a prefix of length-1 ones and a
// zero, then a suffix of length bits holding v minus the prefix value.
func (w *BitWriter) WriteCode(v uint64) {
	length := 1
	for v > (uint64(1)<<uint(length+1))-3 {
		length++
	}
	prefix := (uint64(1) << uint(length)) - 2
	w.WriteBits(prefix, length)
	w.WriteBits(v-prefix, length)
}

// Bytes returns the packed stream, zero padded to a byte boundary.
func (w *BitWriter) Bytes() []byte {
	return w.buf
}

// Track is the directory entry and bit stream of one track.
type Track struct {
	Size   int32
	Stream []byte
}

// Codes encodes a track from raw code values.
func Codes(size int32, codes ...uint64) Track {
	var w BitWriter
	for _, c := range codes {
		w.WriteCode(c)
	}
	return Track{Size: size, Stream: w.Bytes()}
}

// Literals encodes data as one literal per byte, assuming an identity dictionary.
func Literals(data []byte) Track {
	codes := make([]uint64, len(data))
	for i, b := range data {
		codes[i] = uint64(b)
	}
	return Codes(int32(len(data)), codes...)
}

// IdentityDictionary maps every literal index to itself.
func IdentityDictionary() []byte {
	dict := make([]byte, 256)
	for i := range dict {
		dict[i] = byte(i)
	}
	return dict
}

// Build lays out a complete archive: signature, dictionary (identity when nil),
// directory with a zero terminator, then the track streams in order.
func Build(dict []byte, tracks ...Track) []byte {
	if dict == nil {
		dict = IdentityDictionary()
	}

	header := make([]byte, 16)
	copy(header, "LS11")
	header = append(header, dict...)

	offset := len(header) + 12*len(tracks) + 12
	var directory, data []byte
	for _, t := range tracks {
		directory = appendInt32(directory, int32(len(t.Stream)))
		directory = appendInt32(directory, t.Size)
		directory = appendInt32(directory, int32(offset))
		data = append(data, t.Stream...)
		offset += len(t.Stream)
	}
	directory = append(directory, make([]byte, 12)...)

	archive := append(header, directory...)
	return append(archive, data...)
}

func appendInt32(b []byte, v int32) []byte {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], uint32(v))
	return append(b, tmp[:]...)
}

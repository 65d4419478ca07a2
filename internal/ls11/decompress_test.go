package ls11

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dcrodman/nb3cut/internal/ls11/ls11test"
)

func identityDictionary() *Dictionary {
	var dict Dictionary
	copy(dict[:], ls11test.IdentityDictionary())
	return &dict
}

func decompressCodes(t *testing.T, dict *Dictionary, size int, codes ...uint64) ([]byte, error) {
	t.Helper()
	track := ls11test.Codes(int32(size), codes...)
	d := newDecompressor(bytes.NewReader(track.Stream), dict, size)
	return d.decompress()
}

func TestDecompress(t *testing.T) {
	reversed := &Dictionary{}
	for i := range reversed {
		reversed[i] = byte(255 - i)
	}

	tests := []struct {
		name  string
		dict  *Dictionary
		size  int
		codes []uint64
		want  []byte
	}{
		{
			name:  "literals through an identity dictionary",
			dict:  identityDictionary(),
			size:  10,
			codes: []uint64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
			want:  []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
		},
		{
			name:  "literals are substituted through the dictionary",
			dict:  reversed,
			size:  3,
			codes: []uint64{0, 1, 255},
			want:  []byte{255, 254, 0},
		},
		{
			name: "overlapping back-reference expands a run",
			dict: identityDictionary(),
			size: 6,
			// 0xAB, then distance 1 (256+1) with length 2+3.
			codes: []uint64{0xAB, 257, 2},
			want:  []byte{0xAB, 0xAB, 0xAB, 0xAB, 0xAB, 0xAB},
		},
		{
			name: "back-reference repeats a pattern",
			dict: identityDictionary(),
			size: 8,
			// 1 2, then distance 2 with length 0+3, then distance 5 with length 0+3.
			codes: []uint64{1, 2, 258, 0, 261, 0},
			want:  []byte{1, 2, 1, 2, 1, 1, 2, 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decompressCodes(t, tt.dict, tt.size, tt.codes...)
			if err != nil {
				t.Fatalf("decompress() returned error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("decompress() returned the wrong data; diff:\n%s", diff)
			}
		})
	}
}

func TestDecompressErrors(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		codes   []uint64
		wantErr error
	}{
		{
			name:    "back-reference runs past the declared size",
			size:    4,
			codes:   []uint64{0xAB, 257, 2},
			wantErr: ErrOverflow,
		},
		{
			name:    "back-reference before any output",
			size:    4,
			codes:   []uint64{257, 0},
			wantErr: ErrInvalidDistance,
		},
		{
			name:    "back-reference further back than the output",
			size:    8,
			codes:   []uint64{1, 2, 259, 0},
			wantErr: ErrInvalidDistance,
		},
		{
			name:    "zero distance",
			size:    8,
			codes:   []uint64{1, 256, 0},
			wantErr: ErrInvalidDistance,
		},
		{
			name:    "stream ends before the declared size",
			size:    64,
			codes:   []uint64{1, 2, 3},
			wantErr: ErrTruncated,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decompressCodes(t, identityDictionary(), tt.size, tt.codes...)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("decompress() error = %v, want %v", err, tt.wantErr)
			}
			if got != nil {
				t.Errorf("decompress() returned %d bytes alongside an error", len(got))
			}
		})
	}
}

func TestDecompressTrack(t *testing.T) {
	archive := ls11test.Build(nil,
		ls11test.Literals([]byte("ignored")),
		ls11test.Literals([]byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}),
	)
	r := bytes.NewReader(archive)
	header, err := ReadHeader(r)
	if err != nil {
		t.Fatalf("ReadHeader() returned error: %v", err)
	}

	first, err := DecompressTrack(r, &header.Dictionary, header.Tracks[1], Options{})
	if err != nil {
		t.Fatalf("DecompressTrack() returned error: %v", err)
	}
	if diff := cmp.Diff([]byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, first); diff != "" {
		t.Errorf("DecompressTrack() returned the wrong data; diff:\n%s", diff)
	}

	second, err := DecompressTrack(r, &header.Dictionary, header.Tracks[1], Options{})
	if err != nil {
		t.Fatalf("second DecompressTrack() returned error: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Errorf("repeated DecompressTrack() calls returned different data: %v vs %v", first, second)
	}
}

func TestDecompressTrack_Limits(t *testing.T) {
	r := bytes.NewReader(ls11test.Build(nil, ls11test.Literals([]byte{1, 2, 3, 4})))
	dict := identityDictionary()

	tests := []struct {
		name    string
		desc    TrackDescriptor
		opts    Options
		wantErr error
	}{
		{
			name:    "declared size above the limit",
			desc:    TrackDescriptor{CompressedLength: 1, ExtractedSize: 5, Offset: 0},
			opts:    Options{MaxTrackSize: 4},
			wantErr: ErrTooLarge,
		},
		{
			name:    "declared size above the default limit",
			desc:    TrackDescriptor{CompressedLength: 1, ExtractedSize: DefaultMaxTrackSize + 1, Offset: 0},
			wantErr: ErrTooLarge,
		},
		{
			name:    "zero declared size",
			desc:    TrackDescriptor{CompressedLength: 1, ExtractedSize: 0, Offset: 0},
			wantErr: ErrInvalidTrack,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecompressTrack(r, dict, tt.desc, tt.opts); !errors.Is(err, tt.wantErr) {
				t.Errorf("DecompressTrack() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

package ls11

import "errors"

var (
	// ErrBadMagic is returned when the archive does not start with the LS11 signature.
	ErrBadMagic = errors.New("ls11: not a LS11 file")
	// ErrTruncated is returned when the archive ends in the middle of a structure
	// or a compressed bit stream.
	ErrTruncated = errors.New("ls11: unexpected end of data")
	// ErrOverflow is returned when a track decompresses to more bytes than it declares.
	ErrOverflow = errors.New("ls11: decompressed data exceeds the declared size")
	// ErrInvalidTrack is returned for directory entries with a nonpositive size or a
	// negative offset.
	ErrInvalidTrack = errors.New("ls11: invalid track descriptor")
	// ErrInvalidCode is returned when a variable-length code is longer than the
	// decoder supports.
	ErrInvalidCode = errors.New("ls11: invalid variable-length code")
	// ErrInvalidDistance is returned when a back-reference points before the start
	// of the decompressed data.
	ErrInvalidDistance = errors.New("ls11: back-reference distance is too far back")
	// ErrTooLarge is returned when a track declares more data than the configured limit.
	ErrTooLarge = errors.New("ls11: track is too large")
)

package nb3

import (
	_ "embed"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dcrodman/nb3cut/internal/core/bytes"
)

// Character names for the tracks of Kao.nb3, one per line in track order.
// Blank lines are tracks without a name.
//
//go:embed names.txt
var namesFile string

var names = strings.Split(strings.TrimSuffix(namesFile, "\n"), "\n")

// NumNames is the number of entries in the naming table.
func NumNames() int {
	return len(names)
}

// Name returns the character shown in the given track, or "" if the track has
// no name.
func Name(index int) string {
	if index < 0 || index >= len(names) {
		return ""
	}
	return names[index]
}

// OutputName returns the bitmap file name for a track of archive. With named
// set the character name, converted to the given file name encoding, follows
// the track number.
//
// ex: Kao.nb3.002武田信玄.bmp, Kao2.nb3.002.bmp
func OutputName(archive string, index int, named bool, encoding string) (string, error) {
	base := filepath.Base(archive)
	if !named {
		return fmt.Sprintf("%s.%03d.bmp", base, index), nil
	}

	label, err := bytes.ConvertToEncoding(Name(index), encoding)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s.%03d%s.bmp", base, index, label), nil
}

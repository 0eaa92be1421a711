package classify

import (
	"bytes"

	"pgexport/constants"
)

var (
	magicPNG  = []byte{0x89, 0x50, 0x4E, 0x47}
	magicJPEG = []byte{0xFF, 0xD8, 0xFF}
	magicRIFF = []byte("RIFF")
)

// SniffFormat inspects a payload's leading bytes against known image magic
// numbers. The boolean is false when no signature matches, in which case the
// format is FormatBin.
//
// RIFF-prefixed data is labeled webp without checking the sub-chunk type, so
// other RIFF containers (WAVE, AVI) are misreported; known limitation kept
// for compatibility with existing exports.
func SniffFormat(b []byte) (constants.ImageFormat, bool) {
	switch {
	case bytes.HasPrefix(b, magicPNG):
		return constants.FormatPNG, true
	case bytes.HasPrefix(b, magicJPEG):
		return constants.FormatJPEG, true
	case bytes.HasPrefix(b, magicRIFF):
		return constants.FormatWEBP, true
	default:
		return constants.FormatBin, false
	}
}

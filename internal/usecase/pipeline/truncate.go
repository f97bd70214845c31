package pipeline

import (
	"strings"
	"unicode/utf8"

	"github.com/fhuszti/media-pipeline-go/internal/model"
)

const truncationMarker = "..."

// truncateError bounds a failure message to the processing_error column
// width. Messages over the limit are cut to 397 bytes (backing off to the
// nearest rune boundary, trailing whitespace trimmed) plus the marker, so a
// stored message never exceeds 400 bytes, stays valid UTF-8 and oversized
// ones always signal the cut.
func truncateError(msg string) string {
	if len(msg) <= model.MaxProcessingErrorLen {
		return msg
	}

	cut := msg[:model.MaxProcessingErrorLen-len(truncationMarker)]
	// The byte cut can land inside a multibyte rune; the column is utf8mb4 and
	// rejects the torn sequence.
	for len(cut) > 0 {
		r, size := utf8.DecodeLastRuneInString(cut)
		if r != utf8.RuneError || size != 1 {
			break
		}
		cut = cut[:len(cut)-1]
	}

	cut = strings.TrimRight(cut, " \t\r\n")
	return cut + truncationMarker
}

// Package language classifies text against configured Unicode block ranges to
// decide which languages a piece of text is script-compatible with.
package language

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/rangetable"
)

// DefaultBlocks maps common language codes to their Unicode block ranges, in the
// "XXXX-YYYY[,XXXX-YYYY...]" hex form stored on Language records. Used for seeding
// and tests; production installs configure their own table.
var DefaultBlocks = map[string]string{
	"en": "0041-005A,0061-007A",
	"de": "0041-005A,0061-007A,00C0-00FF",
	"es": "0041-005A,0061-007A,00C0-00FF",
	"fr": "0041-005A,0061-007A,00C0-00FF",
	"ru": "0400-04FF",
	"uk": "0400-04FF",
	"el": "0370-03FF",
	"he": "0590-05FF",
	"ar": "0600-06FF",
	"hi": "0900-097F",
	"th": "0E00-0E7F",
	"ja": "3040-309F,30A0-30FF,4E00-9FFF",
	"zh": "4E00-9FFF",
	"ko": "AC00-D7AF,1100-11FF",
}

// ParseBlocks converts the stored block-range form into a merged range table.
// Each segment is an inclusive pair of hex code points separated by '-'.
func ParseBlocks(blocks string) (*unicode.RangeTable, error) {
	segments := strings.Split(blocks, ",")
	tables := make([]*unicode.RangeTable, 0, len(segments))

	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		lo, hi, err := parseSegment(seg)
		if err != nil {
			return nil, err
		}
		tables = append(tables, &unicode.RangeTable{
			R32: []unicode.Range32{{Lo: lo, Hi: hi, Stride: 1}},
		})
	}

	return rangetable.Merge(tables...), nil
}

func parseSegment(seg string) (uint32, uint32, error) {
	lo, hi, ok := strings.Cut(seg, "-")
	if !ok {
		return 0, 0, fmt.Errorf("language: block segment %q missing '-'", seg)
	}

	start, err := strconv.ParseUint(lo, 16, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("language: invalid block start %q: %w", lo, err)
	}
	end, err := strconv.ParseUint(hi, 16, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("language: invalid block end %q: %w", hi, err)
	}
	if end < start {
		return 0, 0, fmt.Errorf("language: block %q ends before it starts", seg)
	}

	return uint32(start), uint32(end), nil
}

// Package ritband parses free-text RIT score labels into numeric bands.
package ritband

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/okian/skillgraph/internal/domain/model"
)

// Band shapes reported by Shape.
const (
	ShapeOpenUpper = "open-upper"
	ShapeOpenLower = "open-lower"
	ShapeClosed    = "closed"
	ShapeExact     = "exact"
	ShapeUnparsed  = "unparsed"
)

var (
	lessThanRe = regexp.MustCompile(`(?i)less\s+than\s+(\d[\d,]*)`)
	plusRe     = regexp.MustCompile(`(\d[\d,]*)\s*\+`)
	rangeRe    = regexp.MustCompile(`(\d[\d,]*)\s*[-–—]\s*(\d[\d,]*)`)
	exactRe    = regexp.MustCompile(`^(\d[\d,]*)$`)
)

// Parse converts a band label such as "141+", "less than 150" or "151–160"
// into a RitBand. Leading colons and whitespace are ignored. It returns nil
// for an empty label; any other unrecognised label yields a band with both
// bounds nil.
func Parse(label string) *model.RitBand {
	label = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(label), ":"))
	if label == "" {
		return nil
	}
	band := &model.RitBand{Label: label}

	if m := lessThanRe.FindStringSubmatch(label); m != nil {
		if n, ok := number(m[1]); ok {
			band.Max = &n
			return band
		}
	}
	if m := plusRe.FindStringSubmatch(label); m != nil {
		if n, ok := number(m[1]); ok {
			band.Min = &n
			band.MinInclusive = true
			return band
		}
	}
	if m := rangeRe.FindStringSubmatch(label); m != nil {
		lo, okLo := number(m[1])
		hi, okHi := number(m[2])
		if okLo && okHi {
			band.Min, band.Max = &lo, &hi
			band.MinInclusive, band.MaxInclusive = true, true
			return band
		}
	}
	if m := exactRe.FindStringSubmatch(label); m != nil {
		if n, ok := number(m[1]); ok {
			lo, hi := n, n
			band.Min, band.Max = &lo, &hi
			band.MinInclusive, band.MaxInclusive = true, true
			return band
		}
	}
	return band
}

// Shape classifies a parsed band.
func Shape(b *model.RitBand) string {
	switch {
	case b == nil || (b.Min == nil && b.Max == nil):
		return ShapeUnparsed
	case b.Max == nil:
		return ShapeOpenUpper
	case b.Min == nil:
		return ShapeOpenLower
	case *b.Min == *b.Max:
		return ShapeExact
	default:
		return ShapeClosed
	}
}

// number parses digits with optional thousands separators.
func number(s string) (int, bool) {
	n, err := strconv.Atoi(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return 0, false
	}
	return n, true
}

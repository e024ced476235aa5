// Package prereq derives prerequisite edges between skill nodes from their
// difficulty signatures and shared groupings.
package prereq

import (
	"cmp"
	"math"
	"strings"

	"github.com/okian/skillgraph/internal/domain/dedupe"
	"github.com/okian/skillgraph/internal/domain/model"
)

// Unknown is the anchor given to nodes with no band and no range.
const Unknown = 9999

// Signature orders nodes by difficulty.
type Signature struct {
	Anchor   int
	Stretch  int
	RangeMax int
	RangeMin int
	Score    int
	Order    int // smallest source ordinal, math.MaxInt when unknown
}

// SignatureOf computes the signature of n.
func SignatureOf(n model.SkillNode) Signature {
	var rMin, rMax *int
	if n.Range != nil {
		rMin, rMax = n.Range.Min, n.Range.Max
	}
	s := Signature{Anchor: Unknown, Order: math.MaxInt}
	switch {
	case n.RitAnchor != nil:
		s.Anchor = *n.RitAnchor
	case rMin != nil:
		s.Anchor = *rMin
	}
	switch {
	case n.RitStretch != nil:
		s.Stretch = *n.RitStretch
	case rMax != nil:
		s.Stretch = *rMax
	default:
		s.Stretch = s.Anchor
	}
	s.RangeMax = s.Stretch
	if rMax != nil {
		s.RangeMax = *rMax
	}
	s.RangeMin = s.Anchor
	if rMin != nil {
		s.RangeMin = *rMin
	}
	switch {
	case s.Anchor != Unknown:
		s.Score = s.Anchor
	case s.Stretch != Unknown:
		s.Score = s.Stretch
	default:
		s.Score = s.RangeMax
	}
	if n.SourceOrder > 0 {
		s.Order = n.SourceOrder
	}
	return s
}

// Rigour is the largest known value of the signature.
func (s Signature) Rigour() int {
	best := 0
	for _, v := range []int{s.Anchor, s.Stretch, s.RangeMax, s.RangeMin} {
		if v != Unknown && v > best {
			best = v
		}
	}
	return best
}

// CompareByDifficulty orders by anchor, stretch, range max, range min,
// source order and finally id. It returns 0 only for equal ids.
func CompareByDifficulty(a, b model.SkillNode) int {
	sa, sb := SignatureOf(a), SignatureOf(b)
	for _, c := range []int{
		cmp.Compare(sa.Anchor, sb.Anchor),
		cmp.Compare(sa.Stretch, sb.Stretch),
		cmp.Compare(sa.RangeMax, sb.RangeMax),
		cmp.Compare(sa.RangeMin, sb.RangeMin),
		cmp.Compare(sa.Order, sb.Order),
		strings.Compare(a.ID, b.ID),
	} {
		if c != 0 {
			return c
		}
	}
	return 0
}

// ShouldLink reports whether a may be recorded as a prerequisite of b.
//
// a must not be harder than b: score, then stretch, then a strictly earlier
// source order. With allowEquivalent an equal order is tolerated when the
// nodes share a cluster or strand, or sit in different units. Without it,
// nodes with different descriptors must share both unit and grouping. With
// it, same-unit nodes with different descriptors still need a shared grouping.
func ShouldLink(a, b model.SkillNode, allowEquivalent bool) bool {
	if a.ID == b.ID {
		return false
	}
	sa, sb := SignatureOf(a), SignatureOf(b)
	sameUnit := a.UnitID == b.UnitID
	grouped := SharesGrouping(a, b)
	if !orderedBefore(sa, sb, allowEquivalent && (grouped || !sameUnit)) {
		return false
	}
	sameDescriptor := a.BaseDescriptor != "" && a.BaseDescriptor == b.BaseDescriptor
	if sameDescriptor {
		return true
	}
	if !allowEquivalent {
		return sameUnit && grouped
	}
	return !sameUnit || grouped
}

// orderedBefore is the difficulty half of ShouldLink.
func orderedBefore(sa, sb Signature, tolerateEqual bool) bool {
	switch {
	case sa.Score != sb.Score:
		return sa.Score < sb.Score
	case sa.Stretch != sb.Stretch:
		return sa.Stretch < sb.Stretch
	case sa.Order != sb.Order:
		return sa.Order < sb.Order
	}
	return tolerateEqual
}

// SharesGrouping reports whether a and b share a cluster or strand label,
// ignoring case.
func SharesGrouping(a, b model.SkillNode) bool {
	return dedupe.Intersects(folded(a.Clusters), folded(b.Clusters)) ||
		dedupe.Intersects(folded(a.Strands), folded(b.Strands))
}

func folded(labels []string) []string {
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = strings.ToLower(l)
	}
	return out
}

// Package aggregate folds raw skill items that share a canonical key into
// a single skill node.
package aggregate

import (
	"sort"

	"github.com/okian/skillgraph/internal/domain/dedupe"
	"github.com/okian/skillgraph/internal/domain/model"
	"github.com/okian/skillgraph/internal/domain/normalize"
)

// maxSamples bounds how many raw descriptions a node keeps.
const maxSamples = 3

// IDPrefix is prepended to the canonical key to form a node id.
const IDPrefix = "skill."

type entry struct {
	node     model.SkillNode
	spans    *dedupe.Set
	domains  *dedupe.Set
	strands  *dedupe.Set
	clusters *dedupe.Set
	bands    *dedupe.Set
	sources  *dedupe.Set
	samples  *dedupe.Set
}

// Aggregator accumulates nodes keyed by canonical key.
type Aggregator struct {
	entries map[string]*entry
	order   []string
	items   int
}

// New creates an empty aggregator.
func New() *Aggregator {
	return &Aggregator{entries: make(map[string]*entry)}
}

// Add merges one raw item into the node for its canonical key, creating the
// node on first sight. It reports whether a new node was created.
func (a *Aggregator) Add(item model.RawSkillItem, n model.NormalizedSkill) bool {
	a.items++
	e, ok := a.entries[n.Key]
	created := !ok
	if !ok {
		e = newEntry(item, n)
		a.entries[n.Key] = e
		a.order = append(a.order, n.Key)
	}
	e.merge(item)
	return created
}

// Len returns the number of distinct nodes.
func (a *Aggregator) Len() int { return len(a.entries) }

// Items returns how many raw items were folded in.
func (a *Aggregator) Items() int { return a.items }

// Nodes returns the finalized nodes sorted by id.
func (a *Aggregator) Nodes() []model.SkillNode {
	out := make([]model.SkillNode, 0, len(a.entries))
	for _, key := range a.order {
		out = append(out, a.entries[key].finalize())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func newEntry(item model.RawSkillItem, n model.NormalizedSkill) *entry {
	title := normalize.Title(n.Verb, n.Focus, n.Range)
	return &entry{
		node: model.SkillNode{
			ID:              IDPrefix + n.Key,
			Title:           title,
			Description:     normalize.Description(title, n.Representations, n.Contexts),
			Verb:            n.Verb,
			Focus:           n.Focus,
			Range:           n.Range,
			Representations: n.Representations,
			Contexts:        n.Contexts,
			Operation:       n.Operation,
			SourceOrder:     item.Ordinal,
			BaseDescriptor:  n.BaseDescriptor,
		},
		spans:    dedupe.New(),
		domains:  dedupe.New(),
		strands:  dedupe.New(),
		clusters: dedupe.New(),
		bands:    dedupe.New(),
		sources:  dedupe.New(),
		samples:  dedupe.New(dedupe.WithCapacity(maxSamples)),
	}
}

func (e *entry) merge(item model.RawSkillItem) {
	e.spans.AddAll(item.GradeSpan)
	e.domains.AddAll(item.Domain)
	e.strands.AddAll(item.Strand)
	e.clusters.AddAll(item.Cluster)
	e.samples.AddAll(item.Text)

	if item.Ordinal < e.node.SourceOrder {
		e.node.SourceOrder = item.Ordinal
	}

	label := ""
	if item.RitBand != nil {
		label = item.RitBand.Label
		if e.bands.Add(label + "::" + item.RitBand.SourceID) {
			e.node.RitBands = append(e.node.RitBands, *item.RitBand)
			e.node.RitAnchor, e.node.RitStretch = Bounds(e.node.RitBands)
		}
	}
	if e.sources.Add(item.SourceID + "::" + label) {
		e.node.Sources = append(e.node.Sources, model.Source{
			SourceID:  item.SourceID,
			GradeSpan: item.GradeSpan,
			RitLabel:  label,
		})
	}
}

func (e *entry) finalize() model.SkillNode {
	n := e.node
	n.GradeSpans = e.spans.Sorted()
	n.Domains = e.domains.Sorted()
	n.Strands = e.strands.Sorted()
	n.Clusters = e.clusters.Sorted()
	n.Samples = e.samples.Keys()
	n.RitBands = append([]model.RitBand{}, e.node.RitBands...)
	n.Sources = append([]model.Source{}, e.node.Sources...)
	return n
}

// Bounds returns the minimum effective lower bound and the maximum
// effective upper bound across bands. Bands without usable bounds are
// skipped; nil means no band had one.
func Bounds(bands []model.RitBand) (anchor, stretch *int) {
	for _, b := range bands {
		if lo, ok := b.EffectiveLower(); ok && (anchor == nil || lo < *anchor) {
			anchor = model.IntPtr(lo)
		}
		if hi, ok := b.EffectiveUpper(); ok && (stretch == nil || hi > *stretch) {
			stretch = model.IntPtr(hi)
		}
	}
	return anchor, stretch
}

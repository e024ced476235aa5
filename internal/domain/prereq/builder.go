package prereq

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/okian/skillgraph/internal/domain/model"
	"github.com/okian/skillgraph/internal/domain/types"
)

// Pass names, in the order they run.
const (
	PassDescriptor = "descriptor"
	PassCluster    = "cluster"
	PassUnit       = "unit"
	PassBackfill   = "backfill"
	PassBridge     = "bridge"
)

// Passes lists every pass in run order.
var Passes = []string{PassDescriptor, PassCluster, PassUnit, PassBackfill, PassBridge}

// DefaultRigourThreshold is the signature value a stranded root must exceed
// before the cross-unit pass considers it.
const DefaultRigourThreshold = 160

// companions lists, per operation, the operations that make good
// cross-unit prerequisites.
var companions = map[string][]string{
	"division":       {"multiplication", "comparison"},
	"multiplication": {"addition", "comparison", "counting"},
	"fraction":       {"addition", "subtraction", "comparison"},
	"place-value":    {"comparison", "counting"},
	"rounding":       {"place-value", "comparison"},
	"subtraction":    {"addition", "counting", "comparison"},
	"addition":       {"counting", "comparison", "place-value"},
	"comparison":     {"counting", "place-value"},
	"measurement":    {"counting", "comparison", "addition"},
	"data":           {"counting", "comparison", "addition"},
}

// Stats counts what a build did.
type Stats struct {
	Added   map[string]int // edges added per pass
	Dropped int            // cross-unit edges removed from unit entries
}

// Builder links nodes with prerequisite edges.
type Builder struct {
	bridges BridgeSources
	rigour  int
}

// NewBuilder creates a builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{rigour: DefaultRigourThreshold}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// edgeSet keeps the first edge recorded for each id.
type edgeSet struct {
	byID  map[string]model.Edge
	inDeg map[string]int
	added map[string]int
}

func newEdgeSet() *edgeSet {
	return &edgeSet{
		byID:  make(map[string]model.Edge),
		inDeg: make(map[string]int),
		added: make(map[string]int),
	}
}

func (s *edgeSet) add(pass string, from, to model.SkillNode, rationale string) bool {
	if from.ID == to.ID {
		return false
	}
	e := model.NewEdge(model.EdgeTypePrerequisite, from.ID, to.ID, rationale)
	if _, ok := s.byID[e.ID]; ok {
		return false
	}
	s.byID[e.ID] = e
	s.inDeg[to.ID]++
	s.added[pass]++
	return true
}

// Build runs every pass over nodes and returns the edges sorted by id.
// Nodes must already carry their unit assignment.
func (b *Builder) Build(nodes []model.SkillNode) ([]model.Edge, Stats) {
	set := newEdgeSet()

	// BaseDescriptor is verb and focus without the range, so a group holds
	// one skill at increasing ranges: "count to 20" before "count to 100".
	// Nodes with the same full core text already share a key and a node.
	for _, g := range groupBy(nodes, 2, func(n model.SkillNode) []string { return []string{n.BaseDescriptor} }) {
		linkNearest(set, PassDescriptor, g.members, func(a, c model.SkillNode) bool {
			return ShouldLink(a, c, false)
		}, "Earlier step of the same skill")
	}

	for _, g := range groupBy(nodes, 2, clusterKeys) {
		linkNearest(set, PassCluster, g.members, func(a, c model.SkillNode) bool {
			return ShouldLink(a, c, true)
		}, fmt.Sprintf("Earlier skill in cluster %q", g.label))
	}

	units := groupBy(nodes, 1, unitKey)
	for _, g := range units {
		linkNearest(set, PassUnit, g.members, func(a, c model.SkillNode) bool {
			return ShouldLink(a, c, true)
		}, fmt.Sprintf("Earlier skill in unit %q", g.label))
	}

	for _, g := range units {
		b.backfill(set, g)
	}

	b.bridge(set, nodes, units)

	dropped := dropEntryBridges(set, units)

	edges := make([]model.Edge, 0, len(set.byID))
	for _, e := range set.byID {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(i, j int) bool { return edges[i].ID < edges[j].ID })
	return edges, Stats{Added: set.added, Dropped: dropped}
}

// backfill gives every unit member still without a prerequisite the nearest
// easier member of its unit. Only difficulty order is checked so that a unit
// stays connected internally even when members share no grouping.
func (b *Builder) backfill(set *edgeSet, g group) {
	sigs := make([]Signature, len(g.members))
	for i, n := range g.members {
		sigs[i] = SignatureOf(n)
	}
	for i := 1; i < len(g.members); i++ {
		if set.inDeg[g.members[i].ID] > 0 {
			continue
		}
		for j := i - 1; j >= 0; j-- {
			if orderedBefore(sigs[j], sigs[i], false) {
				set.add(PassBackfill, g.members[j], g.members[i],
					fmt.Sprintf("Closest easier skill in unit %q", g.label))
				break
			}
		}
	}
}

// bridge links demanding roots of units with several roots to the hardest
// compatible easier node anywhere in the graph.
func (b *Builder) bridge(set *edgeSet, nodes []model.SkillNode, units []group) {
	stranded := make([]model.SkillNode, 0)
	for _, g := range units {
		var roots []model.SkillNode
		for _, n := range g.members {
			if set.inDeg[n.ID] == 0 {
				roots = append(roots, n)
			}
		}
		if len(roots) > 1 {
			stranded = append(stranded, roots...)
		}
	}
	if len(stranded) == 0 {
		return
	}

	desc := slices.Clone(nodes)
	slices.SortStableFunc(desc, func(x, y model.SkillNode) int { return CompareByDifficulty(y, x) })

	for _, root := range stranded {
		if root.Operation == "" || root.Operation == "general" {
			continue
		}
		if SignatureOf(root).Rigour() <= b.rigour {
			continue
		}
		for _, c := range desc {
			if CompareByDifficulty(c, root) >= 0 {
				continue
			}
			if !b.compatible(c, root) || !ShouldLink(c, root, true) {
				continue
			}
			set.add(PassBridge, c, root,
				fmt.Sprintf("Bridge from unit %q into unit %q", c.UnitID, root.UnitID))
			break
		}
	}
}

func (b *Builder) compatible(c, root model.SkillNode) bool {
	if c.Operation == root.Operation || slices.Contains(companions[root.Operation], c.Operation) {
		return true
	}
	for _, ctx := range c.Contexts {
		if slices.Contains(root.Contexts, ctx) {
			return true
		}
	}
	if b.bridges != nil && slices.Contains(b.bridges.BridgeSources(root.UnitID), c.UnitID) {
		return true
	}
	if c.BaseDescriptor != "" && c.BaseDescriptor == root.BaseDescriptor {
		return true
	}
	return SharesGrouping(c, root)
}

// dropEntryBridges removes edges from another unit into a unit's easiest
// member, which must stay the unit's entry point.
func dropEntryBridges(set *edgeSet, units []group) int {
	entryUnit := make(map[string]string, len(units))
	unitOf := make(map[string]string)
	for _, g := range units {
		entryUnit[g.members[0].ID] = g.label
		for _, n := range g.members {
			unitOf[n.ID] = g.label
		}
	}
	dropped := 0
	for id, e := range set.byID {
		unit, isEntry := entryUnit[e.To]
		if isEntry && unitOf[e.From] != unit {
			delete(set.byID, id)
			set.inDeg[e.To]--
			dropped++
		}
	}
	return dropped
}

// linkNearest links every member of a difficulty-sorted group to the nearest
// earlier member accepted by ok.
func linkNearest(set *edgeSet, pass string, members []model.SkillNode, ok func(a, b model.SkillNode) bool, rationale string) {
	for i := 1; i < len(members); i++ {
		for j := i - 1; j >= 0; j-- {
			if ok(members[j], members[i]) {
				set.add(pass, members[j], members[i], rationale)
				break
			}
		}
	}
}

type group struct {
	label   string
	members []model.SkillNode
}

// groupBy buckets nodes by the labels keys returns, keeping buckets in
// first-seen order and sorting each by difficulty. Empty labels and groups
// smaller than minSize are skipped.
func groupBy(nodes []model.SkillNode, minSize int, keys func(model.SkillNode) []string) []group {
	index := make(map[string]int)
	var groups []group
	for _, n := range nodes {
		for _, k := range keys(n) {
			if k == "" {
				continue
			}
			i, ok := index[k]
			if !ok {
				i = len(groups)
				index[k] = i
				groups = append(groups, group{label: k})
			}
			groups[i].members = append(groups[i].members, n)
		}
	}
	out := groups[:0]
	for _, g := range groups {
		if len(g.members) < minSize {
			continue
		}
		slices.SortStableFunc(g.members, CompareByDifficulty)
		out = append(out, g)
	}
	return out
}

func unitKey(n model.SkillNode) []string { return []string{n.UnitID} }

func clusterKeys(n model.SkillNode) []string {
	seen := make(map[string]bool, len(n.Clusters))
	keys := make([]string, 0, len(n.Clusters))
	for _, c := range n.Clusters {
		k := strings.ToLower(strings.TrimSpace(c))
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	return keys
}

// Roots returns the nodes without incoming edges, grouped by unit. Units are
// sorted by id and roots by difficulty.
func Roots(nodes []model.SkillNode, edges []model.Edge) []types.UnitRoots {
	hasParent := make(map[string]bool, len(edges))
	for _, e := range edges {
		hasParent[e.To] = true
	}
	byUnit := make(map[string]*types.UnitRoots)
	for _, n := range nodes {
		if hasParent[n.ID] {
			continue
		}
		u, ok := byUnit[n.UnitID]
		if !ok {
			u = &types.UnitRoots{UnitID: n.UnitID, UnitName: n.UnitName}
			byUnit[n.UnitID] = u
		}
		u.Roots = append(u.Roots, n)
	}
	out := make([]types.UnitRoots, 0, len(byUnit))
	for _, u := range byUnit {
		slices.SortStableFunc(u.Roots, CompareByDifficulty)
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UnitID < out[j].UnitID })
	return out
}

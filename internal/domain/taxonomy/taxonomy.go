// Package taxonomy assigns skill nodes to curriculum units using a
// keyword-weighted rule set behind a cascade of targeted overrides.
package taxonomy

import (
	"regexp"
	"strings"

	"github.com/okian/skillgraph/internal/domain/model"
)

// Unit ids the override cascade knows about. Overrides only fire when the
// loaded taxonomy declares the unit.
const (
	UnitMeasurementData        = "measurement-data"
	UnitGeometry               = "geometry"
	UnitNumberSense            = "number-sense"
	UnitNumbersPlaceValue      = "numbers-place-value"
	UnitIntegers               = "integers"
	UnitAdditionSubtraction    = "addition-subtraction"
	UnitAddition               = "addition"
	UnitSubtraction            = "subtraction"
	UnitMultiplicationDivision = "multiplication-division"
	UnitMultiplication         = "multiplication"
	UnitDivision               = "division"
	UnitRatiosProportions      = "ratios-proportions"
	UnitFractionsDecimals      = "fractions-decimals"
	UnitAlgebraicThinking      = "algebraic-thinking"
)

// Stage names the cascade layer that decided an assignment.
const (
	StageMeasurementData = "measurement-data"
	StageGeometry        = "geometry"
	StageEvenOdd         = "even-odd"
	StageCounting        = "counting"
	StageIntegers        = "integers"
	StageAddition        = "addition"
	StageRatios          = "ratios"
	StageFractions       = "fractions"
	StageOperation       = "operation"
	StageKeywords        = "keywords"
	StageDefault         = "default"
)

// Assignment is the unit chosen for a node.
type Assignment struct {
	UnitID   string
	UnitName string
	Stage    string
}

type rule struct {
	unit     Unit
	index    int
	patterns []*regexp.Regexp
}

// Taxonomy is a compiled, read-only rule set.
type Taxonomy struct {
	rules       []*rule
	byID        map[string]*rule
	defaultUnit DefaultUnit
}

// Compile validates cfg and builds keyword matchers. A keyword matches at a
// word start; inner whitespace matches any whitespace run.
func Compile(cfg Config) (*Taxonomy, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	t := &Taxonomy{
		byID:        make(map[string]*rule, len(cfg.Units)),
		defaultUnit: cfg.DefaultUnit,
	}
	for i, u := range cfg.Units {
		r := &rule{unit: u, index: i}
		for _, kw := range u.Keywords {
			if re := keywordPattern(kw); re != nil {
				r.patterns = append(r.patterns, re)
			}
		}
		t.rules = append(t.rules, r)
		t.byID[u.ID] = r
	}
	return t, nil
}

func keywordPattern(kw string) *regexp.Regexp {
	words := strings.Fields(strings.ToLower(kw))
	if len(words) == 0 {
		return nil
	}
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)\b` + strings.Join(words, `\s+`))
}

// Has reports whether the taxonomy declares unit id.
func (t *Taxonomy) Has(id string) bool {
	_, ok := t.byID[id]
	return ok
}

// Default returns the fallback unit.
func (t *Taxonomy) Default() DefaultUnit { return t.defaultUnit }

// UnitIDs returns the declared unit ids in declaration order.
func (t *Taxonomy) UnitIDs() []string {
	ids := make([]string, 0, len(t.rules))
	for _, r := range t.rules {
		ids = append(ids, r.unit.ID)
	}
	return ids
}

// BridgeSources lists the units whose nodes may serve as cross-unit
// prerequisites for unitID. A unit's own bridgeSources take precedence over
// the built-in list.
func (t *Taxonomy) BridgeSources(unitID string) []string {
	if r, ok := t.byID[unitID]; ok && len(r.unit.BridgeSources) > 0 {
		return r.unit.BridgeSources
	}
	return defaultBridges[unitID]
}

// ClassifyAll assigns every node in place and returns the assignments in
// node order.
func (t *Taxonomy) ClassifyAll(nodes []model.SkillNode) []Assignment {
	out := make([]Assignment, len(nodes))
	for i := range nodes {
		a := t.Classify(nodes[i])
		nodes[i].UnitID = a.UnitID
		nodes[i].UnitName = a.UnitName
		out[i] = a
	}
	return out
}

// Classify picks exactly one unit for node. Overrides are evaluated top to
// bottom and the first hit wins; keyword scoring and the default unit come
// last.
func (t *Taxonomy) Classify(node model.SkillNode) Assignment {
	f := newFeatures(node)
	steps := []func(features) (string, string){
		t.measurementData,
		t.geometry,
		t.evenOdd,
		t.counting,
		t.keywordOverrides,
		t.operationHint,
	}
	for _, step := range steps {
		if id, stage := step(f); id != "" {
			return t.assign(id, stage)
		}
	}
	if r := t.bestScore(f); r != nil {
		return Assignment{UnitID: r.unit.ID, UnitName: r.unit.Name, Stage: StageKeywords}
	}
	return Assignment{UnitID: t.defaultUnit.ID, UnitName: t.defaultUnit.Name, Stage: StageDefault}
}

func (t *Taxonomy) assign(id, stage string) Assignment {
	r := t.byID[id]
	return Assignment{UnitID: r.unit.ID, UnitName: r.unit.Name, Stage: stage}
}

// first returns the first declared unit among ids.
func (t *Taxonomy) first(ids ...string) string {
	for _, id := range ids {
		if t.Has(id) {
			return id
		}
	}
	return ""
}

// features is the text a node is classified on.
type features struct {
	core     string // title and base descriptor
	cluster  string
	combined string // core and cluster
	metadata string // clusters, strands and domains
	contexts map[string]bool
	k2       bool
	op       string
}

func newFeatures(node model.SkillNode) features {
	core := strings.ToLower(node.Title + " " + node.BaseDescriptor)
	cluster := strings.ToLower(strings.Join(node.Clusters, " "))
	meta := make([]string, 0, len(node.Clusters)+len(node.Strands)+len(node.Domains))
	meta = append(meta, node.Clusters...)
	meta = append(meta, node.Strands...)
	meta = append(meta, node.Domains...)
	f := features{
		core:     core,
		cluster:  cluster,
		combined: core + " " + cluster,
		metadata: strings.ToLower(strings.Join(meta, " ")),
		contexts: make(map[string]bool, len(node.Contexts)),
		op:       node.Operation,
	}
	for _, c := range node.Contexts {
		f.contexts[c] = true
	}
	for _, span := range node.GradeSpans {
		if strings.EqualFold(span, "K-2") {
			f.k2 = true
		}
	}
	return f
}

func (t *Taxonomy) measurementData(f features) (string, string) {
	if !t.Has(UnitMeasurementData) {
		return "", ""
	}
	hit := f.contexts["time"] || clockRe.MatchString(f.core) ||
		f.contexts["money"] || moneyRe.MatchString(f.core) ||
		f.contexts["measurement"] ||
		(dataDomainRe.MatchString(f.metadata) && dataActionRe.MatchString(f.core)) ||
		measureRe.MatchString(f.core) || measureRe.MatchString(f.cluster)
	if hit {
		return UnitMeasurementData, StageMeasurementData
	}
	return "", ""
}

func (t *Taxonomy) geometry(f features) (string, string) {
	if t.Has(UnitGeometry) && geometryDomainRe.MatchString(f.metadata) && shapeRe.MatchString(f.combined) {
		return UnitGeometry, StageGeometry
	}
	return "", ""
}

func (t *Taxonomy) evenOdd(f features) (string, string) {
	if t.Has(UnitNumberSense) && evenOddRe.MatchString(f.combined) {
		return UnitNumberSense, StageEvenOdd
	}
	return "", ""
}

// counting sends K-2 counting to place value and later counting to number
// sense. Fraction-focused counting is only claimed for K-2.
func (t *Taxonomy) counting(f features) (string, string) {
	if !countRe.MatchString(f.combined) {
		return "", ""
	}
	if f.k2 {
		return t.first(UnitNumbersPlaceValue), StageCounting
	}
	if fractionRe.MatchString(f.core) {
		return "", ""
	}
	return t.first(UnitNumberSense), StageCounting
}

func (t *Taxonomy) keywordOverrides(f features) (string, string) {
	switch {
	case integersRe.MatchString(f.combined) && t.Has(UnitIntegers):
		return UnitIntegers, StageIntegers
	case additionRe.MatchString(f.combined) && !fractionRe.MatchString(f.core):
		if id := t.first(UnitAdditionSubtraction, UnitAddition); id != "" {
			return id, StageAddition
		}
	}
	switch {
	case ratioRe.MatchString(f.combined) && t.Has(UnitRatiosProportions):
		return UnitRatiosProportions, StageRatios
	case fractionRe.MatchString(f.combined) && t.Has(UnitFractionsDecimals):
		return UnitFractionsDecimals, StageFractions
	}
	return "", ""
}

func (t *Taxonomy) operationHint(f features) (string, string) {
	candidates := operationUnits[f.op]
	if f.op == "counting" {
		if f.k2 {
			candidates = []string{UnitNumbersPlaceValue, UnitNumberSense}
		} else {
			candidates = []string{UnitNumberSense, UnitNumbersPlaceValue}
		}
	}
	if id := t.first(candidates...); id != "" {
		return id, StageOperation
	}
	return "", ""
}

// bestScore ranks rules by 3 x core hits + metadata hits. Ties go to more
// core hits, then higher priority, then declaration order.
func (t *Taxonomy) bestScore(f features) *rule {
	var (
		best                *rule
		bestScore, bestCore int
	)
	for _, r := range t.rules {
		core, meta := 0, 0
		for _, re := range r.patterns {
			if re.MatchString(f.core) {
				core++
			}
			if re.MatchString(f.metadata) {
				meta++
			}
		}
		if core == 0 && r.unit.ID == UnitFractionsDecimals {
			continue
		}
		score := 3*core + meta
		if score == 0 {
			continue
		}
		better := best == nil ||
			score > bestScore ||
			(score == bestScore && core > bestCore) ||
			(score == bestScore && core == bestCore && r.unit.Priority > best.unit.Priority)
		if better {
			best, bestScore, bestCore = r, score, core
		}
	}
	return best
}

// Package normalize reduces a raw skill description to a canonical
// descriptor: a controlled verb, a focus phrase, an optional numeric range
// and inferred representation, context and operation tags.
package normalize

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/okian/skillgraph/internal/domain/model"
)

// rangeRule extracts a range from a phrase. phrase is the submatch index of
// the text removed from the focus; lo/hi are submatch indexes of the bounds
// (0 = absent).
type rangeRule struct {
	re     *regexp.Regexp
	phrase int
	lo, hi int
}

// rangeRules are tried in priority order; the first match wins.
var rangeRules = []rangeRule{
	{re: regexp.MustCompile(`(?i)\b(up\s+to\s+(\d[\d,]*))`), phrase: 1, hi: 2},
	{re: regexp.MustCompile(`(?i)((?:\bfrom\s+)?\b(\d[\d,]*)\s*(?:to|through|–|-)\s*(\d[\d,]*))\b`), phrase: 1, lo: 2, hi: 3},
	{re: regexp.MustCompile(`(?i)\bsums?\s+((?:up\s+)?to\s+(\d[\d,]*))`), phrase: 1, hi: 2},
	{re: regexp.MustCompile(`(?i)\b(within\s+(\d[\d,]*))`), phrase: 1, hi: 2},
	{re: regexp.MustCompile(`(?i)\b(to\s+(\d[\d,]*))\b`), phrase: 1, hi: 2},
}

var (
	delimiters = []string{" - ", " – "}
	slugRe     = regexp.MustCompile(`[^a-z0-9]+`)
	spaceRe    = regexp.MustCompile(`\s+`)
)

// Normalize derives the canonical reading of a raw item. The base
// descriptor is verb and focus without the range, so the same skill at
// different ranges shares it.
func Normalize(item model.RawSkillItem) model.NormalizedSkill {
	core := CoreDescriptor(item.Text)
	lowerCore := strings.ToLower(core)
	lowerText := strings.ToLower(item.Text)

	verb, focusSrc, fallback := splitVerb(core)
	rng, rule := extractRange(core)
	focus := cleanFocus(removeRange(focusSrc, rule))

	reps := representations(lowerText)
	contexts := inferContexts(lowerText)

	return model.NormalizedSkill{
		Key:             canonicalKey(verb, focus, rng),
		BaseDescriptor:  strings.ToLower(strings.TrimSpace(verb + " " + focus)),
		Verb:            verb,
		Focus:           focus,
		Range:           rng,
		Representations: reps,
		Contexts:        contexts,
		Operation:       operation(lowerCore, contexts),
		VerbFallback:    fallback,
	}
}

// CoreDescriptor keeps the text before the first " - " or " – " and drops
// trailing punctuation.
func CoreDescriptor(text string) string {
	cut := len(text)
	for _, d := range delimiters {
		if i := strings.Index(text, d); i >= 0 && i < cut {
			cut = i
		}
	}
	core := strings.TrimSpace(text[:cut])
	return strings.TrimRight(core, ".;: ")
}

// Title renders "Verb focus range", e.g. "Count up to 100".
func Title(verb, focus string, rng *model.Range) string {
	parts := []string{capitalize(verb)}
	if focus != "" {
		parts = append(parts, focus)
	}
	if label := RangeLabel(rng); label != "" {
		parts = append(parts, label)
	}
	return strings.Join(parts, " ")
}

// Description renders the title plus the inferred representations and contexts.
func Description(title string, reps, contexts []string) string {
	var sb strings.Builder
	sb.WriteString(title)
	sb.WriteString(".")
	if len(reps) > 0 && !(len(reps) == 1 && reps[0] == RepUnspecified) {
		sb.WriteString(" Represented with ")
		sb.WriteString(strings.Join(reps, ", "))
		sb.WriteString(".")
	}
	if len(contexts) > 0 {
		sb.WriteString(" Context: ")
		sb.WriteString(strings.Join(contexts, ", "))
		sb.WriteString(".")
	}
	return sb.String()
}

// RangeLabel renders a range as "up to N", "from N to M" or "from N".
func RangeLabel(rng *model.Range) string {
	switch {
	case rng == nil:
		return ""
	case rng.Min != nil && rng.Max != nil:
		return "from " + strconv.Itoa(*rng.Min) + " to " + strconv.Itoa(*rng.Max)
	case rng.Max != nil:
		return "up to " + strconv.Itoa(*rng.Max)
	case rng.Min != nil:
		return "from " + strconv.Itoa(*rng.Min)
	}
	return ""
}

// Slugify lowercases s and joins its alphanumeric runs with hyphens.
func Slugify(s string) string {
	return strings.Trim(slugRe.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// splitVerb maps the leading token through the verb vocabulary. Unknown
// tokens fall back to a generic verb and keep the whole descriptor as focus.
func splitVerb(core string) (verb, focus string, fallback bool) {
	fields := strings.Fields(core)
	if len(fields) == 0 {
		return VerbShortFallback, core, true
	}
	lead := cleanToken(fields[0])
	rest := fields[1:]
	if lead == "skip" && len(rest) > 0 && strings.HasPrefix(cleanToken(rest[0]), "count") {
		rest = rest[1:]
	}
	if v, ok := verbs[lead]; ok {
		return v, strings.Join(rest, " "), false
	}
	if len([]rune(lead)) <= 2 {
		return VerbShortFallback, core, true
	}
	return VerbLongFallback, core, true
}

func cleanToken(tok string) string {
	return strings.ToLower(strings.TrimFunc(tok, func(r rune) bool {
		return !unicode.IsLetter(r) && r != '-'
	}))
}

// extractRange applies rangeRules to the descriptor and returns the range
// with the rule that produced it.
func extractRange(core string) (*model.Range, *rangeRule) {
	for i := range rangeRules {
		rule := &rangeRules[i]
		m := rule.re.FindStringSubmatch(core)
		if m == nil {
			continue
		}
		rng := &model.Range{}
		if rule.lo > 0 {
			if n, ok := parseNumber(m[rule.lo]); ok {
				rng.Min = &n
			}
		}
		if rule.hi > 0 {
			if n, ok := parseNumber(m[rule.hi]); ok {
				rng.Max = &n
			}
		}
		if rng.Min != nil && rng.Max != nil && *rng.Min > *rng.Max {
			rng.Min, rng.Max = rng.Max, rng.Min
		}
		if rng.Min == nil && rng.Max == nil {
			continue
		}
		return rng, rule
	}
	return nil, nil
}

// removeRange cuts the phrase matched by rule out of s. Offsets come from
// matching s itself, so multi-byte text before the phrase stays intact.
func removeRange(s string, rule *rangeRule) string {
	if rule == nil {
		return s
	}
	loc := rule.re.FindStringSubmatchIndex(s)
	if loc == nil {
		return s
	}
	start, end := loc[2*rule.phrase], loc[2*rule.phrase+1]
	if start < 0 {
		return s
	}
	return s[:start] + " " + s[end:]
}

func cleanFocus(s string) string {
	s = spaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
	return strings.Trim(s, " ,;:.")
}

// canonicalKey builds the grouping key: slug(verb + focus words), then
// "-to-<max>" and "-from-<min>" when the range has them.
func canonicalKey(verb, focus string, rng *model.Range) string {
	words := []string{verb}
	for _, w := range strings.Fields(strings.ToLower(focus)) {
		if !stopWords[w] {
			words = append(words, w)
		}
	}
	key := Slugify(strings.Join(words, " "))
	if rng != nil && rng.Max != nil {
		key += "-to-" + strconv.Itoa(*rng.Max)
	}
	if rng != nil && rng.Min != nil {
		key += "-from-" + strconv.Itoa(*rng.Min)
	}
	return key
}

func representations(lower string) []string {
	tags := map[string]bool{}
	for _, rule := range representationRules {
		if rule.re.MatchString(lower) {
			tags[rule.tag] = true
		}
	}
	concrete := false
	for tag := range tags {
		if concreteReps[tag] {
			concrete = true
			break
		}
	}
	if !concrete && abstractRe.MatchString(lower) {
		tags["abstract-numerals"] = true
	}
	if len(tags) == 0 {
		return []string{RepUnspecified}
	}
	return sortedKeys(tags)
}

func inferContexts(lower string) []string {
	tags := map[string]bool{}
	for _, rule := range contextRules {
		if rule.re.MatchString(lower) {
			tags[rule.tag] = true
		}
	}
	return sortedKeys(tags)
}

// operation picks a single operation tag by priority.
func operation(lower string, contexts []string) string {
	switch {
	case additionRe.MatchString(lower):
		return OpAddition
	case subtractionRe.MatchString(lower):
		return OpSubtraction
	case multiplicationRe.MatchString(lower):
		return OpMultiplication
	case timesRe.MatchString(lower) && !hasTimeContext(lower, contexts):
		return OpMultiplication
	case divisionRe.MatchString(lower):
		return OpDivision
	}
	for _, rule := range operationRules {
		if rule.re.MatchString(lower) {
			return rule.tag
		}
	}
	return OpGeneral
}

func hasTimeContext(lower string, contexts []string) bool {
	for _, c := range contexts {
		if c == "time" {
			return true
		}
	}
	return timeRe.MatchString(lower)
}

func parseNumber(s string) (int, bool) {
	n, err := strconv.Atoi(strings.ReplaceAll(s, ",", ""))
	return n, err == nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

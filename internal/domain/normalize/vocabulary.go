package normalize

import "regexp"

// Fallback verbs for leading tokens outside the vocabulary.
const (
	VerbShortFallback = "classify"
	VerbLongFallback  = "explore"
)

// Operation tags.
const (
	OpAddition       = "addition"
	OpSubtraction    = "subtraction"
	OpMultiplication = "multiplication"
	OpDivision       = "division"
	OpFraction       = "fraction"
	OpCounting       = "counting"
	OpComparison     = "comparison"
	OpRounding       = "rounding"
	OpMeasurement    = "measurement"
	OpData           = "data"
	OpPlaceValue     = "place-value"
	OpGeneral        = "general"
)

// RepUnspecified marks a skill with no recognisable representation.
const RepUnspecified = "unspecified"

// verbs maps a leading token to its controlled verb.
var verbs = map[string]string{
	"add":            "add",
	"adds":           "add",
	"adding":         "add",
	"addition":       "add",
	"subtract":       "subtract",
	"subtracts":      "subtract",
	"subtracting":    "subtract",
	"subtraction":    "subtract",
	"multiply":       "multiply",
	"multiplies":     "multiply",
	"multiplying":    "multiply",
	"multiplication": "multiply",
	"divide":         "divide",
	"divides":        "divide",
	"dividing":       "divide",
	"division":       "divide",
	"count":          "count",
	"counts":         "count",
	"counting":       "count",
	"skipcount":      "count",
	"skip-count":     "count",
	"skip":           "count",
	"compare":        "compare",
	"compares":       "compare",
	"comparing":      "compare",
	"comparison":     "compare",
	"order":          "order",
	"orders":         "order",
	"ordering":       "order",
	"round":          "round",
	"rounds":         "round",
	"rounding":       "round",
	"estimate":       "estimate",
	"estimates":      "estimate",
	"estimating":     "estimate",
	"identify":       "identify",
	"identifies":     "identify",
	"identifying":    "identify",
	"recognize":      "identify",
	"recognizes":     "identify",
	"recognizing":    "identify",
	"name":           "identify",
	"names":          "identify",
	"read":           "read",
	"reads":          "read",
	"reading":        "read",
	"write":          "write",
	"writes":         "write",
	"writing":        "write",
	"solve":          "solve",
	"solves":         "solve",
	"solving":        "solve",
	"represent":      "represent",
	"represents":     "represent",
	"representing":   "represent",
	"model":          "represent",
	"models":         "represent",
	"use":            "use",
	"uses":           "use",
	"using":          "use",
	"measure":        "measure",
	"measures":       "measure",
	"measuring":      "measure",
	"tell":           "tell",
	"tells":          "tell",
	"telling":        "tell",
	"determine":      "determine",
	"determines":     "determine",
	"find":           "find",
	"finds":          "find",
	"finding":        "find",
	"classify":       "classify",
	"classifies":     "classify",
	"classifying":    "classify",
	"sort":           "classify",
	"sorts":          "classify",
	"sorting":        "classify",
	"describe":       "describe",
	"describes":      "describe",
	"explain":        "explain",
	"explains":       "explain",
	"interpret":      "interpret",
	"interprets":     "interpret",
	"interpreting":   "interpret",
	"create":         "create",
	"creates":        "create",
	"draw":           "draw",
	"draws":          "draw",
	"graph":          "graph",
	"graphs":         "graph",
	"label":          "label",
	"labels":         "label",
	"match":          "match",
	"matches":        "match",
	"matching":       "match",
	"partition":      "partition",
	"partitions":     "partition",
	"compose":        "compose",
	"composes":       "compose",
	"decompose":      "decompose",
	"decomposes":     "decompose",
	"complete":       "complete",
	"completes":      "complete",
	"know":           "know",
	"knows":          "know",
	"understand":     "understand",
	"understands":    "understand",
	"apply":          "apply",
	"applies":        "apply",
	"evaluate":       "evaluate",
	"evaluates":      "evaluate",
	"locate":         "locate",
	"locates":        "locate",
	"relate":         "relate",
	"relates":        "relate",
	"convert":        "convert",
	"converts":       "convert",
	"extend":         "extend",
	"extends":        "extend",
	"calculate":      "compute",
	"calculates":     "compute",
	"compute":        "compute",
	"computes":       "compute",
}

type tagRule struct {
	tag string
	re  *regexp.Regexp
}

var (
	moneyRe = regexp.MustCompile(`\bmoney\b|\bcoins?\b|\bcents?\b|\bdollars?\b|\bpennies\b|\bpenny\b|\bnickels?\b|\bdimes?\b|\$`)
	timeRe  = regexp.MustCompile(`\btime\b|\bclocks?\b|\bhours?\b|\bminutes?\b|\ba\.m\.|\bp\.m\.`)
)

var representationRules = []tagRule{
	{"ten-frame", regexp.MustCompile(`\bten[\s-]?frames?\b`)},
	{"number-line", regexp.MustCompile(`\bnumber\s+lines?\b`)},
	{"hundred-chart", regexp.MustCompile(`\bhundreds?\s+charts?\b|\b100s?\s+charts?\b`)},
	{"base-ten-blocks", regexp.MustCompile(`\bbase[\s-]?(ten|10)\s+blocks?\b|\bplace[\s-]value\s+blocks?\b`)},
	{"objects", regexp.MustCompile(`\bobjects?\b|\bpictures?\b|\bcounters?\b|\bmanipulatives?\b|\bcubes?\b|\bdots?\b`)},
	{"number-words", regexp.MustCompile(`\bnumber\s+words?\b|\bin\s+words\b|\bword\s+form\b|\bwritten\s+words?\b`)},
	{"symbols", regexp.MustCompile(`\bsymbols?\b|[<>=]`)},
	{"equations", regexp.MustCompile(`\bequations?\b|\bnumber\s+sentences?\b`)},
	{"money", moneyRe},
	{"time", timeRe},
	{"fraction-model", regexp.MustCompile(`\b(fraction|area)\s+models?\b|\bfraction\s+(bars?|strips?)\b|\bshaded\b|\bparts?\s+of\s+a\s+(whole|shape|set)\b`)},
	{"data-display", regexp.MustCompile(`\btally\b|\btallies\b|\btables?\b|\bpictographs?\b|\bline\s+plots?\b`)},
	{"data-graph", regexp.MustCompile(`\bgraphs?\b`)},
	{"arrays", regexp.MustCompile(`\barrays?\b`)},
}

// concreteReps suppress the "abstract-numerals" tag.
var concreteReps = map[string]bool{
	"objects":         true,
	"ten-frame":       true,
	"base-ten-blocks": true,
	"money":           true,
	"arrays":          true,
	"fraction-model":  true,
}

var abstractRe = regexp.MustCompile(`\bcount\w*|\bmental(ly)?\b|\bmental\s+math\b`)

var contextRules = []tagRule{
	{"word-problem", regexp.MustCompile(`\bword\s+problems?\b|\bstory\s+problems?\b|\breal[\s-]world\b|\bstories\b`)},
	{"money", moneyRe},
	{"food", regexp.MustCompile(`\bcookies?\b|\bpizzas?\b|\bapples?\b|\bcandy\b|\bcakes?\b|\bpies?\b|\bsandwich(es)?\b|\bfood\b|\bfruits?\b|\beggs?\b`)},
	{"time", timeRe},
	{"measurement", regexp.MustCompile(`\bmeasur\w*|\blength\b|\bweigh\w*|\bheight\b|\bcapacity\b|\bvolume\b|\bperimeter\b|\barea\b|\binch(es)?\b|\bfeet\b|\bfoot\b|\bcentimet\w*|\bmeters?\b|\bpounds?\b|\bgrams?\b|\bliters?\b|\bcups?\b`)},
}

var (
	additionRe       = regexp.MustCompile(`\badd(s|ed|ing|ition|end|ends)?\b|\bsums?\b|\bplus\b|\baltogether\b|\bin all\b|\+`)
	subtractionRe    = regexp.MustCompile(`\bsubtract\w*|\bdifferences?\b|\bminus\b|\btake away\b|\bhow many (more|fewer|left)\b|\bleft over\b`)
	multiplicationRe = regexp.MustCompile(`\bmultipl\w*|\bproducts?\b|\barrays?\b|\bequal groups\b|\bfactors?\b`)
	timesRe          = regexp.MustCompile(`\btimes\b`)
	divisionRe       = regexp.MustCompile(`\bdivi(de|des|ded|ding|sion|sor|dend)\w*|\bquotients?\b|\bshared? equally\b|\bequal shares\b|\bremainders?\b`)
	fractionRe       = regexp.MustCompile(`\bfraction\w*|\bnumerators?\b|\bdenominators?\b|\bhal(f|ves)\b|\bthirds?\b|\bfourths?\b|\bsixths?\b|\beighths?\b`)
	countingRe       = regexp.MustCompile(`\bcount\w*|\bskip[\s-]?count\w*|\btally\b|\btallies\b|\bhow many\b`)
	comparisonRe     = regexp.MustCompile(`\bcompar\w*|\bgreater\b|\bless than\b|\bfewer\b|\bmore than\b|\border(ing)?\b|\bleast\b|\bgreatest\b|[<>]`)
	roundingRe       = regexp.MustCompile(`\bround\w*|\bestimat\w*|\bnearest\b`)
	measurementRe    = regexp.MustCompile(`\bmeasur\w*|\blength\b|\bweigh\w*|\bcapacity\b|\bvolume\b|\bperimeter\b|\barea\b|\btime\b|\bclocks?\b|\bmoney\b|\bcoins?\b|\binch\w*|\bfeet\b|\bcentimet\w*|\bmeters?\b`)
	dataRe           = regexp.MustCompile(`\bdata\b|\bgraphs?\b|\btally\b|\btables?\b|\bcharts?\b|\bplots?\b|\bsurvey\w*|\bpictographs?\b`)
	placeValueRe     = regexp.MustCompile(`\bplace[\s-]value\b|\bones\b|\btens\b|\bhundreds\b|\bthousands\b|\bdigits?\b|\bexpanded form\b|\bbase[\s-](ten|10)\b`)
)

// operationRules are tried in order after the multiplication and division
// checks; the first hit wins.
var operationRules = []tagRule{
	{OpFraction, fractionRe},
	{OpCounting, countingRe},
	{OpComparison, comparisonRe},
	{OpRounding, roundingRe},
	{OpMeasurement, measurementRe},
	{OpData, dataRe},
	{OpPlaceValue, placeValueRe},
}

// stopWords are dropped from canonical keys.
var stopWords = map[string]bool{
	"a":   true,
	"an":  true,
	"the": true,
}

package taxonomy

import "regexp"

var (
	clockRe          = regexp.MustCompile(`\bclocks?\b|\bminutes?\b|\bhours?\b|\btell(ing)?\s+time\b|\ba\.m\.|\bp\.m\.|\belapsed\b`)
	moneyRe          = regexp.MustCompile(`\bmoney\b|\bcoins?\b|\bcents?\b|\bdollars?\b|\bpenn(y|ies)\b|\bnickels?\b|\bdimes?\b|\bquarters?\b`)
	dataDomainRe     = regexp.MustCompile(`\bdata\b|\bstatistic\w*|\bprobability\b|\bgraphs?\b`)
	dataActionRe     = regexp.MustCompile(`\bclassif\w*|\bsort\w*|\bgraph\w*|\btables?\b|\bplots?\b|\bfrequenc\w*|\btall(y|ies)\b|\bpictographs?\b|\bcharts?\b|\bsurvey\w*`)
	measureRe        = regexp.MustCompile(`\bperimeter\b|\barea\b|\bvolume\b|\blength\b|\bweight\b|\bcapacity\b|\btime\b|\bclocks?\b`)
	geometryDomainRe = regexp.MustCompile(`geometr`)
	shapeRe          = regexp.MustCompile(`\bshapes?\b|\bpolygons?\b|\bangles?\b|\blines?\b|\brays?\b|\bsegments?\b|\bsymmetr\w*|\bcoordinate\s+plane\b|\btriangles?\b|\bquadrilaterals?\b|\brectangles?\b|\bsquares?\b|\bcircles?\b|\b(two|three|2|3)[\s-]dimensional\b|\bsolids?\b`)
	evenOddRe        = regexp.MustCompile(`\beven\s+or\s+odd\b|\bodd\s+or\s+even\b`)
	countRe          = regexp.MustCompile(`\bcount\w*|\btall(y|ies)\b|\bskip[\s-]?count\w*`)
	integersRe       = regexp.MustCompile(`\bintegers?\b|\bnegative\s+numbers?\b|\bopposites?\b|\babsolute\s+value\b`)
	additionRe       = regexp.MustCompile(`\bfact\s+famil(y|ies)\b|\baddition\b|\bsubtraction\b|\badd(s|ing)?\b|\bsubtract(s|ing)?\b|\bsums?\b|\bdoubles\b|\bmake\s+(a\s+)?ten\b`)
	ratioRe          = regexp.MustCompile(`\bratios?\b|\bproportion\w*|\bunit\s+rates?\b|\brates?\b|\bpercent\w*`)
	fractionRe       = regexp.MustCompile(`\bfraction\w*|\bdecimals?\b|\bnumerators?\b|\bdenominators?\b|\btenths\b|\bhundredths\b|\bmixed\s+numbers?\b`)
)

// operationUnits maps an operation tag to candidate units, first declared wins.
var operationUnits = map[string][]string{
	"addition":       {UnitAdditionSubtraction, UnitAddition},
	"subtraction":    {UnitAdditionSubtraction, UnitSubtraction},
	"multiplication": {UnitMultiplicationDivision, UnitMultiplication},
	"division":       {UnitMultiplicationDivision, UnitDivision},
	"fraction":       {UnitFractionsDecimals},
	"measurement":    {UnitMeasurementData},
	"data":           {UnitMeasurementData},
	"place-value":    {UnitNumbersPlaceValue},
	"rounding":       {UnitNumberSense},
	"comparison":     {UnitNumberSense},
}

// defaultBridges lists, per unit, the units that may feed it prerequisites
// across unit boundaries.
var defaultBridges = map[string][]string{
	UnitNumberSense:            {UnitNumbersPlaceValue},
	UnitAdditionSubtraction:    {UnitNumbersPlaceValue, UnitNumberSense},
	UnitMultiplicationDivision: {UnitAdditionSubtraction, UnitNumbersPlaceValue},
	UnitFractionsDecimals:      {UnitMultiplicationDivision, UnitNumberSense},
	UnitRatiosProportions:      {UnitMultiplicationDivision, UnitFractionsDecimals},
	UnitIntegers:               {UnitNumberSense, UnitAdditionSubtraction},
	UnitMeasurementData:        {UnitNumbersPlaceValue, UnitAdditionSubtraction},
	UnitGeometry:               {UnitMeasurementData},
	UnitAlgebraicThinking:      {UnitAdditionSubtraction, UnitMultiplicationDivision},
}

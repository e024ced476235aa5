// Package document turns line-oriented curriculum-standards text into raw
// skill items.
//
// A document is a sequence of headers and numbered lines:
//
//	Operations and Algebraic Thinking      <- domain (followed by a RIT line)
//	RIT Score: 141-150                     <- band for everything below
//	Represent and Solve Problems           <- strand
//	Addition within 20                     <- cluster
//	1. Add within 10 - using objects       <- skill item
//
// Parsing keeps the last-seen domain, strand, cluster and band and stamps
// them onto every item.
package document

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/okian/skillgraph/internal/domain/model"
	"github.com/okian/skillgraph/internal/domain/ritband"
)

const ritPrefix = "rit score"

var itemRe = regexp.MustCompile(`^(\d+)\.\s*(.+)$`)

// strandHints are phrases that mark a line as a strand heading.
var strandHints = []string{
	"operations and algebraic thinking",
	"algebraic thinking",
	"number and operations",
	"numbers and operations",
	"number sense",
	"place value",
	"measurement and data",
	"geometry",
	"statistics and probability",
	"expressions and equations",
	"ratios and proportional",
	"the number system",
	"real and complex number systems",
	"computation",
	"problem solving",
	"fractions",
}

// Source identifies one input document.
type Source struct {
	ID        string
	Path      string
	GradeSpan string
}

// Document is a source paired with its text.
type Document struct {
	Source Source
	Text   string
}

// Parser numbers items across every document it parses.
type Parser struct {
	ordinal int
}

// NewParser creates a parser whose item ordinals start at 1.
func NewParser() *Parser {
	return &Parser{}
}

// parseState is the heading context while scanning one document.
type parseState struct {
	domain          string
	strand          string
	cluster         string
	band            *model.RitBand
	awaitingStrand  bool
	awaitingCluster bool
}

// Parse scans text and returns its skill items in document order.
func (p *Parser) Parse(src Source, text string) []model.RawSkillItem {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}

	var (
		st    parseState
		items []model.RawSkillItem
		count int
	)
	for i, line := range lines {
		if line == "" {
			continue
		}

		if isRitLine(line) {
			st.band = ritband.Parse(line[len(ritPrefix):])
			if st.band != nil {
				st.band.SourceID = src.ID
			}
			st.strand, st.cluster = "", ""
			st.awaitingStrand, st.awaitingCluster = true, false
			continue
		}

		if m := itemRe.FindStringSubmatch(line); m != nil {
			if (st.awaitingStrand || st.awaitingCluster) && st.cluster == "" {
				st.cluster = firstNonEmpty(st.strand, st.domain)
			}
			st.awaitingStrand, st.awaitingCluster = false, false
			p.ordinal++
			count++
			number, _ := strconv.Atoi(m[1])
			items = append(items, model.RawSkillItem{
				ID:        fmt.Sprintf("%s-%d", src.ID, count),
				Number:    number,
				Ordinal:   p.ordinal,
				Text:      strings.TrimSpace(m[2]),
				GradeSpan: src.GradeSpan,
				SourceID:  src.ID,
				Domain:    st.domain,
				Strand:    st.strand,
				Cluster:   st.cluster,
				RitBand:   cloneBand(st.band),
			})
			continue
		}

		if next, ok := nextContent(lines, i); ok && isRitLine(next) {
			st.domain = line
			st.strand, st.cluster = "", ""
			st.awaitingStrand, st.awaitingCluster = false, false
			continue
		}

		st.heading(line)
	}
	return items
}

// heading files a non-item, non-RIT line under the right level.
func (st *parseState) heading(line string) {
	if st.band == nil {
		if looksLikeStrand(line) {
			st.strand, st.cluster = line, ""
			st.awaitingCluster = true
			return
		}
		st.domain = line
		st.strand, st.cluster = "", ""
		st.awaitingStrand, st.awaitingCluster = false, false
		return
	}

	switch {
	case st.awaitingStrand:
		st.strand, st.cluster = line, ""
		st.awaitingStrand, st.awaitingCluster = false, true
	case st.awaitingCluster:
		st.cluster = line
		st.awaitingCluster = false
	case looksLikeStrand(line):
		st.strand, st.cluster = line, ""
		st.awaitingCluster = true
	default:
		st.cluster = line
	}
}

// ReadSources loads every source document in order. Any unreadable file
// aborts the run.
func ReadSources(ctx context.Context, sources []Source) ([]Document, error) {
	docs := make([]Document, 0, len(sources))
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(src.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s (%s): %w", ErrReadSource, src.ID, src.Path, err)
		}
		docs = append(docs, Document{Source: src, Text: string(data)})
	}
	return docs, nil
}

func isRitLine(line string) bool {
	return len(line) >= len(ritPrefix) && strings.EqualFold(line[:len(ritPrefix)], ritPrefix)
}

// nextContent returns the first non-blank line after index i.
func nextContent(lines []string, i int) (string, bool) {
	for j := i + 1; j < len(lines); j++ {
		if lines[j] != "" {
			return lines[j], true
		}
	}
	return "", false
}

func looksLikeStrand(line string) bool {
	lower := strings.ToLower(line)
	for _, hint := range strandHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func cloneBand(b *model.RitBand) *model.RitBand {
	if b == nil {
		return nil
	}
	c := *b
	return &c
}

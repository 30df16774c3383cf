// Package normalizer turns a raw statement text blob into an ordered sequence
// of logical lines, recovering line boundaries that the upstream extraction
// may have lost.
package normalizer

import (
	"regexp"
	"strings"

	"github.com/insightdelivered/statement-recovery/internal/models"
)

// SectionMarker is the literal phrase that introduces the transaction listing
// in this statement format.
const SectionMarker = "Transaction History"

var (
	// All line-break variants seen in exported/scanned statement text.
	lineBreakPattern = regexp.MustCompile("\r\n|[\r\n\v\f\u0085\u2028\u2029]")

	// Runs of two or more whitespace characters collapse to a single space.
	whitespaceRunPattern = regexp.MustCompile(`\s{2,}`)

	// Lines that are nothing but a page-number marker, e.g. "Page 2 of 7".
	pageMarkerPattern = regexp.MustCompile(`(?i)^page\s+\d+\s+of\s+\d+$`)

	// A DD/MM/YYYY-shaped token; every occurrence starts a new logical line
	// when the document arrives without usable line breaks.
	dateBoundaryPattern = regexp.MustCompile(`\b\d{2}/\d{2}/\d{4}`)
)

// Normalize splits raw text into cleaned logical lines in document order.
// Pure function; safe to call concurrently for independent inputs.
func Normalize(raw string) []models.LogicalLine {
	return NormalizeWithMarker(raw, SectionMarker)
}

// NormalizeWithMarker is Normalize with a custom section marker phrase, used
// by statement formats that label the transaction listing differently.
func NormalizeWithMarker(raw, marker string) []models.LogicalLine {
	return normalize(raw, marker, 0)
}

// NormalizePages normalizes each decoded page separately, tagging every
// logical line with its 1-based source page number.
func NormalizePages(pages []string) []models.LogicalLine {
	return NormalizePagesWithMarker(pages, SectionMarker)
}

// NormalizePagesWithMarker is NormalizePages with a custom section marker.
func NormalizePagesWithMarker(pages []string, marker string) []models.LogicalLine {
	var lines []models.LogicalLine
	for i, page := range pages {
		lines = append(lines, normalize(page, marker, i+1)...)
	}
	return lines
}

func normalize(raw, marker string, page int) []models.LogicalLine {
	var lines []models.LogicalLine
	for _, part := range lineBreakPattern.Split(raw, -1) {
		if line, ok := cleanLine(part); ok {
			lines = append(lines, models.LogicalLine{Text: line, Page: page})
		}
	}

	// Degenerate input: the document had no usable line breaks. Recover
	// boundaries by treating every date-shaped token as a line start.
	if len(lines) <= 2 && strings.TrimSpace(raw) != "" {
		if recovered := dateSplit(raw, marker, page); len(recovered) > len(lines) {
			return recovered
		}
	}

	return lines
}

// dateSplit re-splits an unbroken blob at every DD/MM/YYYY token start. If
// the section marker phrase is present, everything before it is preserved as
// one line, a synthetic section-header line is emitted, and only the
// remainder is date-split.
func dateSplit(raw, marker string, page int) []models.LogicalLine {
	var lines []models.LogicalLine

	rest := raw
	if marker != "" {
		if idx := strings.Index(raw, marker); idx >= 0 {
			if head, ok := cleanLine(raw[:idx]); ok {
				lines = append(lines, models.LogicalLine{Text: head, Page: page})
			}
			lines = append(lines, models.LogicalLine{Text: marker, Page: page})
			rest = raw[idx+len(marker):]
		}
	}

	locs := dateBoundaryPattern.FindAllStringIndex(rest, -1)
	if len(locs) == 0 {
		if line, ok := cleanLine(rest); ok {
			lines = append(lines, models.LogicalLine{Text: line, Page: page})
		}
		return lines
	}

	// Text before the first date token is its own preserved line.
	if head, ok := cleanLine(rest[:locs[0][0]]); ok {
		lines = append(lines, models.LogicalLine{Text: head, Page: page})
	}

	for i, loc := range locs {
		end := len(rest)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		if line, ok := cleanLine(rest[loc[0]:end]); ok {
			lines = append(lines, models.LogicalLine{Text: line, Page: page})
		}
	}

	return lines
}

// cleanLine collapses whitespace runs and trims. The second return is false
// when the line is empty after cleanup or is pure page-number noise.
func cleanLine(s string) (string, bool) {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.ReplaceAll(s, "\t", " ")
	s = whitespaceRunPattern.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if pageMarkerPattern.MatchString(s) {
		return "", false
	}
	return s, true
}

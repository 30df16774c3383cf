// Package txextract recovers draft transactions from normalized statement
// lines. It is a line-oriented state machine: it locates the transaction
// section, merges records whose descriptions wrapped onto following lines,
// and resolves which monetary token is the amount, the fee and the balance
// using position and magnitude alone.
package txextract

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-recovery/internal/models"
)

// pageFooterPattern matches page-number noise that survives normalization
// because it shares a line with other footer text.
var pageFooterPattern = regexp.MustCompile(`(?i)\bpage\s+\d+\s+of\s+\d+\b`)

// trailingNumberPattern matches a stray numeric remainder left at the end of
// a description after a category label was stripped.
var trailingNumberPattern = regexp.MustCompile(`\s+\d+$`)

// Extractor turns logical lines into draft transactions. Stateless across
// calls; safe to share between concurrent documents.
type Extractor struct {
	cfg    Config
	labels []CategoryLabel // longest-first
}

// New builds an Extractor, sorting the category vocabulary longest-first.
func New(cfg Config) *Extractor {
	return &Extractor{cfg: cfg, labels: sortedLabels(cfg.Labels)}
}

// extraction modes
const (
	stateSearching = iota
	stateInSection
)

// Extract walks the lines once and emits draft transactions in document
// order. Failures are always per-record skips; Extract never fails a
// document as a whole.
func (e *Extractor) Extract(lines []models.LogicalLine) []models.DraftTransaction {
	var drafts []models.DraftTransaction
	state := stateSearching

	for i := 0; i < len(lines); {
		text := lines[i].Text

		if state == stateSearching {
			// The marker phrase opens the section; a column header line is
			// accepted as confirmation when the marker is absent; failing
			// both, the first date-anchored line opens the section so a
			// marker-less document is not silently dropped.
			if e.containsMarker(text) || isColumnHeader(text) {
				state = stateInSection
				i++
				continue
			}
			if startsWithDate(text) {
				state = stateInSection
				continue
			}
			i++
			continue
		}

		// In section: anything not anchored by a date is intervening noise
		// (VAT disclaimers, page footers, the column header itself).
		if !startsWithDate(text) {
			i++
			continue
		}

		merged, consumed := e.mergeRecord(lines, i)
		if draft, ok := e.parseRecord(merged, lines[i].Page); ok {
			drafts = append(drafts, draft)
		}
		i += consumed
	}

	return drafts
}

// mergeRecord accumulates the record starting at index start. While the
// accumulated text holds fewer than two monetary tokens and the next line
// neither starts a new record nor is noise, the next line is appended.
// Returns the merged text and how many lines were consumed.
func (e *Extractor) mergeRecord(lines []models.LogicalLine, start int) (string, int) {
	merged := lines[start].Text
	consumed := 1
	for countMoneyTokens(merged) < 2 && start+consumed < len(lines) {
		next := lines[start+consumed].Text
		if startsWithDate(next) || e.isNoise(next) {
			break
		}
		merged += " " + next
		consumed++
	}
	return merged, consumed
}

// parseRecord turns one merged record into a draft transaction. The second
// return is false when the record is incomplete or boilerplate.
func (e *Extractor) parseRecord(merged string, page int) (models.DraftTransaction, bool) {
	date, rest, ok := parseDate(merged)
	if !ok {
		return models.DraftTransaction{}, false
	}

	tokens := findMoneyTokens(rest)
	if len(tokens) < 2 {
		// No amount besides the balance: incomplete record.
		return models.DraftTransaction{}, false
	}

	pre := strings.TrimSpace(rest[:tokens[0].start])
	if e.isBoilerplate(pre) {
		return models.DraftTransaction{}, false
	}

	desc, category := e.stripCategory(pre)
	if desc == "" {
		return models.DraftTransaction{}, false
	}

	// The last token is always the running balance.
	balance := tokens[len(tokens)-1].value
	body := tokens[:len(tokens)-1]

	amount := body[0].value
	var fee *decimal.Decimal
	if len(body) == 2 {
		if f, ok := e.feeCandidate(body[1].value); ok {
			fee = &f
		}
		// Otherwise the second token is a secondary amount component and is
		// ignored for fee purposes.
	}

	// Pure fee debit: the only amount on a "Fees" record is the fee itself.
	if len(tokens) == 2 && category == "Fees" && amount.IsNegative() {
		f := amount.Abs()
		fee = &f
	}

	return models.DraftTransaction{
		Date:        date,
		Description: desc,
		Amount:      amount,
		Balance:     balance,
		Fee:         fee,
		Category:    category,
		Type:        e.classify(amount, desc),
		Page:        page,
	}, true
}

// feeCandidate accepts v as a fee when it is negative and its magnitude sits
// inside the configured fee band. Returns the non-negative fee value.
func (e *Extractor) feeCandidate(v decimal.Decimal) (decimal.Decimal, bool) {
	if !v.IsNegative() {
		return decimal.Decimal{}, false
	}
	abs := v.Abs()
	if abs.LessThan(e.cfg.FeeMin) || abs.GreaterThanOrEqual(e.cfg.FeeMax) {
		return decimal.Decimal{}, false
	}
	return abs, true
}

// stripCategory removes trailing category labels from the pre-monetary text,
// longest label first, and re-applies once in case a second label or a stray
// numeric remainder was exposed by the first strip.
func (e *Extractor) stripCategory(pre string) (string, string) {
	desc := pre
	category := ""
	for pass := 0; pass < 2; pass++ {
		matched := false
		for _, l := range e.labels {
			switch l.Kind {
			case MatchSuffix:
				if tail, ok := trimSuffixFold(desc, l.Label); ok {
					desc = tail
					if category == "" {
						category = l.Label
					}
					matched = true
				}
			case MatchContains:
				if category == "" && containsFold(desc, l.Label) {
					category = l.Label
				}
			}
			if matched {
				break
			}
		}
		if !matched {
			break
		}
		desc = trailingNumberPattern.ReplaceAllString(desc, "")
	}
	return strings.TrimSpace(desc), category
}

// classify derives the transaction type from the signed amount and the
// description keywords.
func (e *Extractor) classify(amount decimal.Decimal, desc string) models.TransactionType {
	switch {
	case amount.IsPositive():
		return models.TypeCredit
	case amount.IsNegative():
		lower := strings.ToLower(desc)
		for _, kw := range e.cfg.TransferKeywords {
			if strings.Contains(lower, kw) {
				return models.TypeTransfer
			}
		}
		return models.TypeDebit
	default:
		return models.TypeUnknown
	}
}

func (e *Extractor) containsMarker(line string) bool {
	return e.cfg.SectionMarker != "" &&
		strings.Contains(strings.ToLower(line), strings.ToLower(e.cfg.SectionMarker))
}

// isBoilerplate reports whether pre-monetary text matches the blacklist of
// known non-transaction phrases that parse superficially like transactions.
func (e *Extractor) isBoilerplate(pre string) bool {
	lower := strings.ToLower(pre)
	for _, phrase := range e.cfg.Blacklist {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// isNoise reports whether a line must not be merged into the current record.
func (e *Extractor) isNoise(line string) bool {
	return pageFooterPattern.MatchString(line) ||
		isColumnHeader(line) ||
		e.isBoilerplate(line)
}

// isColumnHeader detects the transaction table header: a "date" token plus
// either a "description" or a "money" token.
func isColumnHeader(line string) bool {
	lower := strings.ToLower(line)
	return strings.Contains(lower, "date") &&
		(strings.Contains(lower, "description") || strings.Contains(lower, "money"))
}

// trimSuffixFold strips suffix off s case-insensitively, also trimming the
// space that separated it. The second return is false when s does not end
// with suffix.
func trimSuffixFold(s, suffix string) (string, bool) {
	if len(s) <= len(suffix) {
		return s, false
	}
	tail := s[len(s)-len(suffix):]
	if !strings.EqualFold(tail, suffix) {
		return s, false
	}
	return strings.TrimSpace(s[:len(s)-len(suffix)]), true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

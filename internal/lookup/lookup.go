// Package lookup holds the lightweight keyword/regex extractors for account
// and statement metadata. They consume the same normalized lines as the
// transaction extractor but do no multi-line merging or ambiguity resolution.
package lookup

import (
	"regexp"
	"strings"

	"github.com/insightdelivered/statement-recovery/internal/models"
)

var (
	// Account numbers in this format are 10 or 11 digits.
	accountNumberPattern = regexp.MustCompile(`\b(\d{10,11})\b`)

	datePattern = regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{2,4}\b`)
)

// issuerKeywords maps known issuer names to the phrases that identify them.
var issuerKeywords = []struct {
	name    string
	needles []string
}{
	{"Capitec", []string{"capitec", "capitecbank"}},
	{"TymeBank", []string{"tymebank", "tyme bank"}},
	{"Standard Bank", []string{"standard bank", "standardbank"}},
	{"FNB", []string{"fnb", "first national bank"}},
	{"Absa", []string{"absa"}},
	{"Nedbank", []string{"nedbank"}},
}

var holderLabels = []string{"Account Holder", "Account holder", "Account name", "Mr ", "Mrs ", "Ms "}

// Extract runs all metadata lookups over the normalized lines.
func Extract(lines []models.LogicalLine) models.AccountInfo {
	return models.AccountInfo{
		Issuer:        Issuer(lines),
		AccountHolder: AccountHolder(lines),
		AccountNumber: AccountNumber(lines),
		Period:        Period(lines),
	}
}

// Issuer identifies the statement issuer from known phrases, or "".
func Issuer(lines []models.LogicalLine) string {
	for _, line := range lines {
		lower := strings.ToLower(line.Text)
		for _, issuer := range issuerKeywords {
			for _, needle := range issuer.needles {
				if strings.Contains(lower, needle) {
					return issuer.name
				}
			}
		}
	}
	return ""
}

// AccountNumber returns the first account-number-shaped token, or "".
func AccountNumber(lines []models.LogicalLine) string {
	for _, line := range lines {
		if m := accountNumberPattern.FindString(line.Text); m != "" {
			return m
		}
	}
	return ""
}

// AccountHolder returns the text following a holder label, or "".
func AccountHolder(lines []models.LogicalLine) string {
	for _, line := range lines {
		for _, label := range holderLabels {
			idx := strings.Index(line.Text, label)
			if idx < 0 {
				continue
			}
			rest := strings.TrimSpace(line.Text[idx+len(label):])
			rest = strings.TrimPrefix(rest, ":")
			rest = strings.TrimSpace(rest)
			if rest != "" {
				return rest
			}
		}
	}
	return ""
}

// Period returns the statement period: a period-labeled date range when one
// exists, otherwise the first and last transaction-shaped dates seen.
func Period(lines []models.LogicalLine) string {
	for _, line := range lines {
		if !strings.Contains(strings.ToLower(line.Text), "period") {
			continue
		}
		if dates := datePattern.FindAllString(line.Text, 2); len(dates) == 2 {
			return dates[0] + " to " + dates[1]
		}
	}

	first, last := "", ""
	for _, line := range lines {
		if d := datePattern.FindString(line.Text); d != "" {
			if first == "" {
				first = d
			}
			last = d
		}
	}
	if first != "" && last != "" && first != last {
		return first + " to " + last
	}
	return ""
}

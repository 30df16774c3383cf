package txextract

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// moneyTokenPattern matches a monetary token: optional sign, digits
// optionally space-grouped in runs of three, and exactly two fractional
// digits. Examples: "200.00", "-6.00", "-1 000.00", "+12 345.67".
var moneyTokenPattern = regexp.MustCompile(`[-+]?\d+(?: \d{3})*\.\d{2}`)

// dateAnchorPattern matches a line that begins with a slash date.
var dateAnchorPattern = regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{2,4})\b`)

// moneyToken is one monetary value found in free text, with its position.
type moneyToken struct {
	start int
	end   int
	value decimal.Decimal
}

// findMoneyTokens locates every monetary token in s, in order. Tokens that
// fail to parse after de-grouping are skipped (cannot happen for strings the
// pattern accepts, but the parse error is not worth propagating).
func findMoneyTokens(s string) []moneyToken {
	locs := moneyTokenPattern.FindAllStringIndex(s, -1)
	tokens := make([]moneyToken, 0, len(locs))
	for _, loc := range locs {
		raw := s[loc[0]:loc[1]]
		raw = strings.TrimPrefix(raw, "+")
		raw = strings.ReplaceAll(raw, " ", "")
		v, err := decimal.NewFromString(raw)
		if err != nil {
			continue
		}
		tokens = append(tokens, moneyToken{start: loc[0], end: loc[1], value: v})
	}
	return tokens
}

// countMoneyTokens reports how many monetary tokens s contains.
func countMoneyTokens(s string) int {
	return len(moneyTokenPattern.FindAllStringIndex(s, -1))
}

// startsWithDate reports whether the line is anchored by a slash date.
func startsWithDate(line string) bool {
	return dateAnchorPattern.MatchString(line)
}

// Accepted date shapes: DD/MM/YYYY, D/M/YYYY and their two-digit-year
// variants. Go's unpadded layouts accept both one- and two-digit fields.
var dateLayouts = []string{"2/1/2006", "2/1/06"}

// parseDate parses the leading date off a line and returns the remainder.
func parseDate(line string) (time.Time, string, bool) {
	m := dateAnchorPattern.FindStringSubmatch(line)
	if m == nil {
		return time.Time{}, "", false
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, m[1]); err == nil {
			return d, line[len(m[1]):], true
		}
	}
	return time.Time{}, "", false
}

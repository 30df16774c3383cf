// Package dedup partitions draft transactions into originals and duplicates
// using a content fingerprint, and assembles the duplicate report.
package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/insightdelivered/statement-recovery/internal/models"
)

// fingerprintHexLen is the truncation width of the hex fingerprint. This is a
// within-document dedup key, not a security boundary; the width is a tunable
// constant.
const fingerprintHexLen = 16

// Fingerprint computes the deterministic content hash of a draft: day, the
// description lowercased with whitespace collapsed, the amount at two
// decimals, category, fee at two decimals when present, and type.
func Fingerprint(d models.DraftTransaction) string {
	fee := ""
	if d.Fee != nil {
		fee = d.Fee.StringFixed(2)
	}
	desc := strings.ToLower(strings.Join(strings.Fields(d.Description), " "))
	parts := []string{
		d.Date.Format("2006-01-02"),
		desc,
		d.Amount.StringFixed(2),
		d.Category,
		fee,
		string(d.Type),
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])[:fingerprintHexLen]
}

// Resolve fingerprints every draft and marks all but the first member of each
// fingerprint group as duplicates. Input order is preserved end to end; the
// report lists one group per fingerprint that matched more than once,
// numbered in the order the groups first appear.
func Resolve(drafts []models.DraftTransaction) ([]models.FinalTransaction, models.DuplicateReport) {
	finals := make([]models.FinalTransaction, 0, len(drafts))
	groups := make(map[string]*models.DuplicateGroup)
	var order []string

	for _, d := range drafts {
		fp := Fingerprint(d)
		final := models.FinalTransaction{DraftTransaction: d, Fingerprint: fp}

		if g, seen := groups[fp]; seen {
			final.IsDuplicate = true
			final.OriginalFingerprint = fp
			g.Duplicates = append(g.Duplicates, final)
		} else {
			groups[fp] = &models.DuplicateGroup{Fingerprint: fp, Original: final}
			order = append(order, fp)
		}

		finals = append(finals, final)
	}

	report := models.DuplicateReport{Total: len(finals)}
	for _, fp := range order {
		g := groups[fp]
		if len(g.Duplicates) == 0 {
			continue
		}
		g.GroupID = len(report.Groups) + 1
		report.Groups = append(report.Groups, *g)
		report.Duplicates += len(g.Duplicates)
	}
	report.Originals = report.Total - report.Duplicates

	return finals, report
}

package txextract

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-recovery/internal/normalizer"
)

// MatchKind says how a category label attaches to a transaction description.
type MatchKind int

const (
	// MatchSuffix labels are appended directly after the description with no
	// separator; they are stripped off the description tail.
	MatchSuffix MatchKind = iota
	// MatchContains labels appear anywhere in the description and assign a
	// category without altering the description.
	MatchContains
)

// CategoryLabel is one entry of the category vocabulary.
type CategoryLabel struct {
	Label string
	Kind  MatchKind
}

// Config controls extraction behavior. All heuristics the extractor applies
// are data here, not code: the category vocabulary, the boilerplate
// blacklist, the transfer keywords and the fee magnitude bounds.
type Config struct {
	// SectionMarker is the phrase introducing the transaction listing.
	SectionMarker string

	// Labels is the category vocabulary, in match-priority order. New sorts
	// it longest-first once at construction so that longer labels win over
	// their own suffixes ("Other Income" before "Income").
	Labels []CategoryLabel

	// Blacklist holds boilerplate phrases; a record whose pre-monetary text
	// contains one of these is rejected outright.
	Blacklist []string

	// TransferKeywords mark negative-amount records as transfers.
	TransferKeywords []string

	// Fee candidates are accepted only when FeeMin <= |v| < FeeMax. Fee
	// magnitudes in this format are far below transfer/purchase amounts; the
	// bounds are observed behavior for this statement format, not a general
	// rule, which is why they live in configuration.
	FeeMin decimal.Decimal
	FeeMax decimal.Decimal
}

// DefaultConfig returns the vocabulary and thresholds for the supported
// statement format.
func DefaultConfig() Config {
	return Config{
		SectionMarker: normalizer.SectionMarker,
		Labels: []CategoryLabel{
			{Label: "Furniture & Appliances", Kind: MatchSuffix},
			{Label: "Restaurants & Takeaways", Kind: MatchSuffix},
			{Label: "Transport & Fuel", Kind: MatchSuffix},
			{Label: "Digital Services", Kind: MatchSuffix},
			{Label: "Other Income", Kind: MatchSuffix},
			{Label: "Groceries", Kind: MatchSuffix},
			{Label: "Transfers", Kind: MatchSuffix},
			{Label: "Transfer", Kind: MatchSuffix},
			{Label: "Income", Kind: MatchSuffix},
			{Label: "Fees", Kind: MatchSuffix},
		},
		Blacklist: []string{
			"fee summary",
			"total fees",
			"fees charged",
			"balance available",
			"available balance",
			"value added tax",
			"vat reg",
			"vat charged",
			"tax invoice",
		},
		TransferKeywords: []string{
			"transfer",
			"sweep",
		},
		FeeMin: decimal.New(1, -2),   // 0.01
		FeeMax: decimal.New(100, 0),  // exclusive
	}
}

// sortedLabels returns the vocabulary sorted longest-first, preserving the
// configured order among equal lengths. Done once at load, not per call.
func sortedLabels(labels []CategoryLabel) []CategoryLabel {
	out := make([]CategoryLabel, len(labels))
	copy(out, labels)
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i].Label) > len(out[j].Label)
	})
	return out
}

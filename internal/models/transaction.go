package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies the direction of a recovered transaction.
type TransactionType string

const (
	TypeCredit   TransactionType = "CREDIT"
	TypeDebit    TransactionType = "DEBIT"
	TypeTransfer TransactionType = "TRANSFER"
	TypeUnknown  TransactionType = "UNKNOWN"
)

// LogicalLine is one normalized row of statement text in document order.
// Page is the 1-based source page number, or 0 when the input was a single
// undifferentiated text blob.
type LogicalLine struct {
	Text string `json:"text"`
	Page int    `json:"page,omitempty"`
}

// Document is what the upstream decoder hands the pipeline: the full text of
// one statement split into pages.
type Document struct {
	Pages     []string `json:"pages"`
	PageCount int      `json:"pageCount"`
}

// Text returns the document content as a single blob.
func (d Document) Text() string {
	out := ""
	for i, p := range d.Pages {
		if i > 0 {
			out += "\n"
		}
		out += p
	}
	return out
}

// DraftTransaction is one recognized transaction line (or merged multi-line
// group) before duplicate resolution. Immutable after creation.
type DraftTransaction struct {
	Date        time.Time        `json:"date"`
	Description string           `json:"description"`
	Amount      decimal.Decimal  `json:"amount"`
	Balance     decimal.Decimal  `json:"balance"`
	Fee         *decimal.Decimal `json:"fee,omitempty"` // non-negative when present
	Category    string           `json:"category,omitempty"`
	Type        TransactionType  `json:"type"`
	Page        int              `json:"page,omitempty"`
}

// FinalTransaction is a DraftTransaction after duplicate resolution.
type FinalTransaction struct {
	DraftTransaction
	Fingerprint         string `json:"fingerprint"`
	IsDuplicate         bool   `json:"isDuplicate"`
	OriginalFingerprint string `json:"originalFingerprint,omitempty"`
}

// Draft strips the resolution fields, yielding the underlying draft record.
func (f FinalTransaction) Draft() DraftTransaction {
	return f.DraftTransaction
}

// DuplicateGroup reports one fingerprint that matched more than one record.
// The original is always the first member in document order.
type DuplicateGroup struct {
	GroupID     int                `json:"groupId"`
	Fingerprint string             `json:"fingerprint"`
	Original    FinalTransaction   `json:"original"`
	Duplicates  []FinalTransaction `json:"duplicates"`
}

// DuplicateReport summarizes duplicate resolution for one document.
type DuplicateReport struct {
	Total      int              `json:"total"`
	Originals  int              `json:"originals"`
	Duplicates int              `json:"duplicates"`
	Groups     []DuplicateGroup `json:"groups,omitempty"`
}

// AccountInfo holds statement metadata recovered by the lookup extractors.
type AccountInfo struct {
	Issuer        string `json:"issuer,omitempty"`
	AccountHolder string `json:"holder,omitempty"`
	AccountNumber string `json:"number,omitempty"`
	Period        string `json:"period,omitempty"`
}

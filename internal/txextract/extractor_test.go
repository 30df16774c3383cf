package txextract

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/insightdelivered/statement-recovery/internal/models"
)

func mkLines(texts ...string) []models.LogicalLine {
	lines := make([]models.LogicalLine, len(texts))
	for i, t := range texts {
		lines[i] = models.LogicalLine{Text: t}
	}
	return lines
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestExtract_PaymentReceivedWithCategory(t *testing.T) {
	e := New(DefaultConfig())

	drafts := e.Extract(mkLines(
		"Transaction History",
		"Date Description Money In Money Out Balance",
		"01/11/2025 Payment Received: M Madiope Other Income 200.00 238.04",
	))

	if len(drafts) != 1 {
		t.Fatalf("drafts: got %d, want 1", len(drafts))
	}
	d := drafts[0]
	if want := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC); !d.Date.Equal(want) {
		t.Errorf("date: got %v, want %v", d.Date, want)
	}
	if d.Description != "Payment Received: M Madiope" {
		t.Errorf("description: got %q", d.Description)
	}
	if d.Category != "Other Income" {
		t.Errorf("category: got %q, want %q", d.Category, "Other Income")
	}
	if !d.Amount.Equal(dec("200.00")) {
		t.Errorf("amount: got %s, want 200.00", d.Amount)
	}
	if d.Fee != nil {
		t.Errorf("fee: got %s, want absent", d.Fee)
	}
	if !d.Balance.Equal(dec("238.04")) {
		t.Errorf("balance: got %s, want 238.04", d.Balance)
	}
	if d.Type != models.TypeCredit {
		t.Errorf("type: got %q, want CREDIT", d.Type)
	}
}

func TestExtract_FeeAlongsideAmount(t *testing.T) {
	e := New(DefaultConfig())

	drafts := e.Extract(mkLines(
		"Transaction History",
		"16/12/2025 Banking App External PayShap Payment: King Digital Payments -100.00 -6.00 43.56",
	))

	if len(drafts) != 1 {
		t.Fatalf("drafts: got %d, want 1", len(drafts))
	}
	d := drafts[0]
	if !d.Amount.Equal(dec("-100.00")) {
		t.Errorf("amount: got %s, want -100.00", d.Amount)
	}
	if d.Fee == nil || !d.Fee.Equal(dec("6.00")) {
		t.Errorf("fee: got %v, want 6.00", d.Fee)
	}
	if !d.Balance.Equal(dec("43.56")) {
		t.Errorf("balance: got %s, want 43.56", d.Balance)
	}
	if d.Type != models.TypeDebit {
		t.Errorf("type: got %q, want DEBIT", d.Type)
	}
}

func TestExtract_SpaceGroupedThousands(t *testing.T) {
	e := New(DefaultConfig())

	drafts := e.Extract(mkLines(
		"Transaction History",
		"08/12/2025 Rana General Trading P Witbank (Card 7938) Furniture & Appliances -1 000.00 520.06",
	))

	if len(drafts) != 1 {
		t.Fatalf("drafts: got %d, want 1", len(drafts))
	}
	d := drafts[0]
	if !d.Amount.Equal(dec("-1000.00")) {
		t.Errorf("amount: got %s, want -1000.00", d.Amount)
	}
	if !d.Balance.Equal(dec("520.06")) {
		t.Errorf("balance: got %s, want 520.06", d.Balance)
	}
	if d.Category != "Furniture & Appliances" {
		t.Errorf("category: got %q", d.Category)
	}
	if d.Description != "Rana General Trading P Witbank (Card 7938)" {
		t.Errorf("description: got %q", d.Description)
	}
}

func TestExtract_NoMonetaryTokensDropped(t *testing.T) {
	e := New(DefaultConfig())

	drafts := e.Extract(mkLines(
		"Transaction History",
		"02/12/2025 Insf. Funds Distrokid Musician New",
	))

	if len(drafts) != 0 {
		t.Fatalf("drafts: got %d, want 0", len(drafts))
	}
}

func TestExtract_FeeThresholdBoundary(t *testing.T) {
	e := New(DefaultConfig())

	tests := []struct {
		name    string
		line    string
		wantFee string // "" means absent
	}{
		{"exactly -100.00 is a secondary amount", "10/12/2025 Card Purchase Tech Store -500.00 -100.00 399.00", ""},
		{"-99.99 is a fee", "10/12/2025 Card Purchase Tech Store -500.00 -99.99 399.00", "99.99"},
		{"positive second token is not a fee", "10/12/2025 Card Purchase Tech Store -500.00 20.00 399.00", ""},
		{"below rounding floor is not a fee", "10/12/2025 Card Purchase Tech Store -500.00 -0.00 399.00", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drafts := e.Extract(mkLines("Transaction History", tt.line))
			if len(drafts) != 1 {
				t.Fatalf("drafts: got %d, want 1", len(drafts))
			}
			d := drafts[0]
			if tt.wantFee == "" {
				if d.Fee != nil {
					t.Errorf("fee: got %s, want absent", d.Fee)
				}
				return
			}
			if d.Fee == nil || !d.Fee.Equal(dec(tt.wantFee)) {
				t.Errorf("fee: got %v, want %s", d.Fee, tt.wantFee)
			}
		})
	}
}

func TestExtract_MultiLineMerge(t *testing.T) {
	e := New(DefaultConfig())

	drafts := e.Extract(mkLines(
		"Transaction History",
		"01/11/2025 Payment Received:",
		"M Madiope Other Income 200.00 238.04",
		"02/11/2025 Card Purchase Spar Groceries -50.00 188.04",
	))

	if len(drafts) != 2 {
		t.Fatalf("drafts: got %d, want 2", len(drafts))
	}
	if drafts[0].Description != "Payment Received: M Madiope" {
		t.Errorf("merged description: got %q", drafts[0].Description)
	}
	if !drafts[0].Balance.Equal(dec("238.04")) {
		t.Errorf("merged balance: got %s", drafts[0].Balance)
	}
	if drafts[1].Category != "Groceries" {
		t.Errorf("second category: got %q", drafts[1].Category)
	}
}

func TestExtract_MergeStopsAtNextDate(t *testing.T) {
	e := New(DefaultConfig())

	// The incomplete record must not swallow the next transaction.
	drafts := e.Extract(mkLines(
		"Transaction History",
		"02/12/2025 Insf. Funds Distrokid",
		"03/12/2025 Payment Received: J Dlamini Other Income 150.00 193.54",
	))

	if len(drafts) != 1 {
		t.Fatalf("drafts: got %d, want 1", len(drafts))
	}
	if drafts[0].Description != "Payment Received: J Dlamini" {
		t.Errorf("description: got %q", drafts[0].Description)
	}
}

func TestExtract_NoiseSkippedInSection(t *testing.T) {
	e := New(DefaultConfig())

	drafts := e.Extract(mkLines(
		"Transaction History",
		"01/11/2025 Payment Received: M Madiope Other Income 200.00 238.04",
		"All fees inclusive of VAT where applicable",
		"Statement continued on Page 2 of 3",
		"02/11/2025 Card Purchase Spar Groceries -50.00 188.04",
	))

	if len(drafts) != 2 {
		t.Fatalf("drafts: got %d, want 2", len(drafts))
	}
}

func TestExtract_BlacklistRejected(t *testing.T) {
	e := New(DefaultConfig())

	drafts := e.Extract(mkLines(
		"Transaction History",
		"01/11/2025 Fee Summary Total Fees -12.00 226.04",
		"01/11/2025 Available Balance 226.04 226.04",
		"02/11/2025 Card Purchase Spar Groceries -50.00 176.04",
	))

	if len(drafts) != 1 {
		t.Fatalf("drafts: got %d, want 1", len(drafts))
	}
	if drafts[0].Description != "Card Purchase Spar" {
		t.Errorf("description: got %q", drafts[0].Description)
	}
}

func TestExtract_NoMarkerFallback(t *testing.T) {
	e := New(DefaultConfig())

	// No marker and no confirmable header: the first date-anchored line must
	// still open the section.
	drafts := e.Extract(mkLines(
		"Some preamble the format does not promise",
		"01/11/2025 Payment Received: M Madiope Other Income 200.00 238.04",
	))

	if len(drafts) != 1 {
		t.Fatalf("drafts: got %d, want 1", len(drafts))
	}
}

func TestExtract_PureFeeDebit(t *testing.T) {
	e := New(DefaultConfig())

	drafts := e.Extract(mkLines(
		"Transaction History",
		"05/12/2025 Monthly Account Admin Fee Fees -5.50 32.56",
	))

	if len(drafts) != 1 {
		t.Fatalf("drafts: got %d, want 1", len(drafts))
	}
	d := drafts[0]
	if d.Category != "Fees" {
		t.Errorf("category: got %q, want Fees", d.Category)
	}
	if d.Fee == nil || !d.Fee.Equal(dec("5.50")) {
		t.Errorf("fee: got %v, want 5.50", d.Fee)
	}
	if !d.Amount.Equal(dec("-5.50")) {
		t.Errorf("amount: got %s, want -5.50", d.Amount)
	}
	if d.Type != models.TypeDebit {
		t.Errorf("type: got %q, want DEBIT", d.Type)
	}
}

func TestExtract_TransferClassification(t *testing.T) {
	e := New(DefaultConfig())

	drafts := e.Extract(mkLines(
		"Transaction History",
		"06/12/2025 Banking App Transfer to Flexible Savings Transfers -50.00 100.00",
	))

	if len(drafts) != 1 {
		t.Fatalf("drafts: got %d, want 1", len(drafts))
	}
	d := drafts[0]
	if d.Type != models.TypeTransfer {
		t.Errorf("type: got %q, want TRANSFER", d.Type)
	}
	if d.Category != "Transfers" {
		t.Errorf("category: got %q, want Transfers", d.Category)
	}
}

func TestExtract_InvalidDateDropped(t *testing.T) {
	e := New(DefaultConfig())

	drafts := e.Extract(mkLines(
		"Transaction History",
		"31/13/2025 Card Purchase Spar Groceries -50.00 176.04",
		"02/11/2025 Card Purchase Spar Groceries -50.00 126.04",
	))

	if len(drafts) != 1 {
		t.Fatalf("drafts: got %d, want 1", len(drafts))
	}
	if !drafts[0].Balance.Equal(dec("126.04")) {
		t.Errorf("surviving balance: got %s, want 126.04", drafts[0].Balance)
	}
}

func TestExtract_LastTokenIsBalance(t *testing.T) {
	e := New(DefaultConfig())

	// Three monetary tokens: amount, secondary component, balance.
	drafts := e.Extract(mkLines(
		"Transaction History",
		"07/12/2025 Card Purchase Takealot -250.00 -250.00 1 750.00",
	))

	if len(drafts) != 1 {
		t.Fatalf("drafts: got %d, want 1", len(drafts))
	}
	if !drafts[0].Balance.Equal(dec("1750.00")) {
		t.Errorf("balance: got %s, want 1750.00", drafts[0].Balance)
	}
	if !drafts[0].Amount.Equal(dec("-250.00")) {
		t.Errorf("amount: got %s, want -250.00", drafts[0].Amount)
	}
}

func TestExtract_OrderPreserved(t *testing.T) {
	e := New(DefaultConfig())

	drafts := e.Extract(mkLines(
		"Transaction History",
		"01/11/2025 Payment Received: A Other Income 10.00 10.00",
		"02/11/2025 Payment Received: B Other Income 20.00 30.00",
		"03/11/2025 Payment Received: C Other Income 30.00 60.00",
	))

	if len(drafts) != 3 {
		t.Fatalf("drafts: got %d, want 3", len(drafts))
	}
	for i, want := range []string{"Payment Received: A", "Payment Received: B", "Payment Received: C"} {
		if drafts[i].Description != want {
			t.Errorf("drafts[%d].Description: got %q, want %q", i, drafts[i].Description, want)
		}
	}
}

func TestStripCategory(t *testing.T) {
	e := New(DefaultConfig())

	tests := []struct {
		name         string
		pre          string
		wantDesc     string
		wantCategory string
	}{
		{"single label", "Payment Received: M Madiope Other Income", "Payment Received: M Madiope", "Other Income"},
		{"longest label wins over suffix", "Salary Deposit Other Income", "Salary Deposit", "Other Income"},
		{"stray number after strip", "POS Purchase Shoprite 7938 Groceries", "POS Purchase Shoprite", "Groceries"},
		{"second label on re-apply", "Payment Received Income Other Income", "Payment Received", "Other Income"},
		{"no label", "Banking App External PayShap Payment", "Banking App External PayShap Payment", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc, category := e.stripCategory(tt.pre)
			if desc != tt.wantDesc {
				t.Errorf("desc: got %q, want %q", desc, tt.wantDesc)
			}
			if category != tt.wantCategory {
				t.Errorf("category: got %q, want %q", category, tt.wantCategory)
			}
		})
	}
}

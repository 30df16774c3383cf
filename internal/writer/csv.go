// Package writer renders recovered transactions as CSV.
package writer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/insightdelivered/statement-recovery/internal/models"
)

// CSVWriter writes final transactions to CSV. Duplicates are included but
// flagged so downstream consumers can filter them.
type CSVWriter struct {
	IncludeHeader bool
}

// WriteToFile writes the CSV to a file at the given path.
func (w *CSVWriter) WriteToFile(path string, account models.AccountInfo, txns []models.FinalTransaction) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file %q: %w", path, err)
	}
	defer f.Close()

	return w.Write(f, account, txns)
}

// Write renders the CSV to the given writer.
func (w *CSVWriter) Write(out io.Writer, account models.AccountInfo, txns []models.FinalTransaction) error {
	writer := csv.NewWriter(out)
	defer writer.Flush()

	if w.IncludeHeader {
		if account.Issuer != "" {
			writer.Write([]string{"# Issuer", account.Issuer})
		}
		if account.AccountHolder != "" {
			writer.Write([]string{"# Account Holder", account.AccountHolder})
		}
		if account.AccountNumber != "" {
			writer.Write([]string{"# Account Number", account.AccountNumber})
		}
		if account.Period != "" {
			writer.Write([]string{"# Statement Period", account.Period})
		}
	}

	header := []string{"Date", "Description", "Category", "Type", "Amount", "Fee", "Balance", "Duplicate"}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, txn := range txns {
		fee := ""
		if txn.Fee != nil {
			fee = txn.Fee.StringFixed(2)
		}
		duplicate := ""
		if txn.IsDuplicate {
			duplicate = "yes"
		}
		row := []string{
			txn.Date.Format("02/01/2006"),
			txn.Description,
			txn.Category,
			string(txn.Type),
			txn.Amount.StringFixed(2),
			fee,
			txn.Balance.StringFixed(2),
			duplicate,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	return writer.Error()
}

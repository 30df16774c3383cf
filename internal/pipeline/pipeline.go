// Package pipeline wires the recovery stages together: normalize the raw
// document text, extract draft transactions, resolve duplicates, and run the
// metadata lookups. One call per document; no state is carried across calls.
package pipeline

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/insightdelivered/statement-recovery/internal/dedup"
	"github.com/insightdelivered/statement-recovery/internal/lookup"
	"github.com/insightdelivered/statement-recovery/internal/models"
	"github.com/insightdelivered/statement-recovery/internal/normalizer"
	"github.com/insightdelivered/statement-recovery/internal/txextract"
)

// Result is everything recovered from one document.
type Result struct {
	RunID        string                    `json:"runId"`
	Lines        []models.LogicalLine      `json:"-"`
	Account      models.AccountInfo        `json:"accountInfo"`
	Transactions []models.FinalTransaction `json:"transactions"`
	Report       models.DuplicateReport    `json:"duplicateReport"`
}

// Originals returns the non-duplicate transactions, which is what downstream
// balance/period calculations consume.
func (r Result) Originals() []models.FinalTransaction {
	out := make([]models.FinalTransaction, 0, len(r.Transactions))
	for _, t := range r.Transactions {
		if !t.IsDuplicate {
			out = append(out, t)
		}
	}
	return out
}

// Pipeline processes complete documents. Safe for concurrent use; each Run
// touches only its own inputs.
type Pipeline struct {
	cfg txextract.Config
	ext *txextract.Extractor
	log zerolog.Logger
}

// New builds a pipeline around the given extraction config.
func New(cfg txextract.Config, log zerolog.Logger) *Pipeline {
	return &Pipeline{cfg: cfg, ext: txextract.New(cfg), log: log}
}

// Run processes one decoded document.
func (p *Pipeline) Run(doc models.Document) Result {
	lines := normalizer.NormalizePagesWithMarker(doc.Pages, p.cfg.SectionMarker)
	return p.process(lines)
}

// RunText processes a pre-extracted text blob with no page information.
func (p *Pipeline) RunText(text string) Result {
	lines := normalizer.NormalizeWithMarker(text, p.cfg.SectionMarker)
	return p.process(lines)
}

func (p *Pipeline) process(lines []models.LogicalLine) Result {
	runID := uuid.NewString()

	drafts := p.ext.Extract(lines)
	finals, report := dedup.Resolve(drafts)
	account := lookup.Extract(lines)

	p.log.Info().
		Str("run_id", runID).
		Int("lines", len(lines)).
		Int("drafts", len(drafts)).
		Int("duplicates", report.Duplicates).
		Msg("document processed")

	return Result{
		RunID:        runID,
		Lines:        lines,
		Account:      account,
		Transactions: finals,
		Report:       report,
	}
}

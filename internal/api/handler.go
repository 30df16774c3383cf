// Package api exposes the recovery pipeline over HTTP.
package api

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/insightdelivered/statement-recovery/internal/extractor"
	"github.com/insightdelivered/statement-recovery/internal/models"
	"github.com/insightdelivered/statement-recovery/internal/pipeline"
	"github.com/insightdelivered/statement-recovery/internal/writer"
)

const version = "1.0.0"

// RecoverResponse is the JSON response from /api/recover.
type RecoverResponse struct {
	Success      bool                      `json:"success"`
	Error        string                    `json:"error,omitempty"`
	RunID        string                    `json:"runId,omitempty"`
	AccountInfo  *models.AccountInfo       `json:"accountInfo,omitempty"`
	Transactions []models.FinalTransaction `json:"transactions"`
	Report       models.DuplicateReport    `json:"duplicateReport"`
	CSV          string                    `json:"csv,omitempty"`
	Count        int                       `json:"count"`
	Version      string                    `json:"version,omitempty"`
}

// Server holds the HTTP handlers.
type Server struct {
	pipe *pipeline.Pipeline
	log  zerolog.Logger
}

// NewServer builds the API server around a pipeline.
func NewServer(pipe *pipeline.Pipeline, log zerolog.Logger) *Server {
	return &Server{pipe: pipe, log: log}
}

// Register sets up the routes on a fiber app.
func (s *Server) Register(app *fiber.App) {
	app.Get("/api/health", s.HandleHealth)
	app.Post("/api/recover", s.HandleRecover)
}

// HandleHealth reports service liveness.
func (s *Server) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": version,
	})
}

// HandleRecover accepts either a statement PDF (form file "file") or
// pre-extracted text (form field "text") and returns the recovered,
// deduplicated transactions.
func (s *Server) HandleRecover(c *fiber.Ctx) error {
	if text := c.FormValue("text"); strings.TrimSpace(text) != "" {
		result := s.pipe.RunText(text)
		return s.respond(c, result)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return writeError(c, fiber.StatusBadRequest, "no input provided; use form field 'file' (PDF) or 'text'")
	}
	if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".pdf") {
		return writeError(c, fiber.StatusBadRequest, "only PDF files are supported")
	}

	tmp, err := os.CreateTemp("", "statement-*.pdf")
	if err != nil {
		return writeError(c, fiber.StatusInternalServerError, "failed to create temp file")
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := c.SaveFile(fileHeader, tmpPath); err != nil {
		return writeError(c, fiber.StatusInternalServerError, "failed to save uploaded file")
	}

	doc, err := extractor.ExtractDocument(tmpPath)
	if err != nil {
		return writeError(c, fiber.StatusUnprocessableEntity, fmt.Sprintf("decoding %s failed: %v", filepath.Base(fileHeader.Filename), err))
	}

	result := s.pipe.Run(doc)
	return s.respond(c, result)
}

func (s *Server) respond(c *fiber.Ctx, result pipeline.Result) error {
	csvBuf := &bytes.Buffer{}
	if err := csvWriterFor(c).Write(csvBuf, result.Account, result.Transactions); err != nil {
		return writeError(c, fiber.StatusInternalServerError, fmt.Sprintf("csv generation failed: %v", err))
	}

	// nil marshals to JSON null, not []
	txns := result.Transactions
	if txns == nil {
		txns = []models.FinalTransaction{}
	}

	resp := RecoverResponse{
		Success:      true,
		RunID:        result.RunID,
		Transactions: txns,
		Report:       result.Report,
		CSV:          csvBuf.String(),
		Count:        len(txns),
		Version:      version,
	}
	if result.Account != (models.AccountInfo{}) {
		account := result.Account
		resp.AccountInfo = &account
	}

	s.log.Info().
		Str("run_id", result.RunID).
		Int("transactions", len(txns)).
		Int("duplicates", result.Report.Duplicates).
		Msg("recover request served")

	return c.JSON(resp)
}

func csvWriterFor(c *fiber.Ctx) *writer.CSVWriter {
	return &writer.CSVWriter{IncludeHeader: c.FormValue("header") != "false"}
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(RecoverResponse{
		Success: false,
		Error:   msg,
	})
}

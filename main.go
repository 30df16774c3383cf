package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	recovermw "github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/insightdelivered/statement-recovery/internal/api"
	"github.com/insightdelivered/statement-recovery/internal/extractor"
	"github.com/insightdelivered/statement-recovery/internal/logger"
	"github.com/insightdelivered/statement-recovery/internal/pipeline"
	"github.com/insightdelivered/statement-recovery/internal/txextract"
	"github.com/insightdelivered/statement-recovery/internal/writer"
)

const version = "1.0.0"

func main() {
	outputFlag := flag.String("output", "", "Output CSV file path (defaults to input filename with .csv extension)")
	headerFlag := flag.Bool("header", true, "Include account metadata header rows in CSV")
	markerFlag := flag.String("marker", "", "Override the transaction-section marker phrase")
	serveFlag := flag.Bool("serve", false, "Run the HTTP API instead of converting files")
	portFlag := flag.Int("port", 8080, "HTTP port for --serve")
	versionFlag := flag.Bool("version", false, "Print version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Statement Transaction Recovery
by Insight Delivered (QEA AutoLens)

Recovers an ordered, deduplicated transaction list from scanned or exported
bank statement text and writes it as CSV.

Usage:
  statement-recovery [flags] <input.pdf|input.txt> [input2 ...]
  statement-recovery --serve [--port 8080]

Flags:
`)
		flag.PrintDefaults()
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("statement-recovery v%s\n", version)
		os.Exit(0)
	}

	log := logger.New()

	cfg := txextract.DefaultConfig()
	if *markerFlag != "" {
		cfg.SectionMarker = *markerFlag
	}
	pipe := pipeline.New(cfg, log)

	if *serveFlag {
		app := fiber.New()
		app.Use(recovermw.New())
		api.NewServer(pipe, log).Register(app)
		addr := fmt.Sprintf(":%d", *portFlag)
		log.Info().Str("addr", addr).Msg("starting HTTP API")
		if err := app.Listen(addr); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
		return
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(0)
	}

	for _, inputPath := range flag.Args() {
		if err := processFile(pipe, inputPath, *outputFlag, *headerFlag); err != nil {
			log.Error().Err(err).Str("file", inputPath).Msg("processing failed")
			os.Exit(1)
		}
	}
}

func processFile(pipe *pipeline.Pipeline, inputPath, outputPath string, includeHeader bool) error {
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", inputPath)
	}

	var result pipeline.Result
	switch ext := strings.ToLower(filepath.Ext(inputPath)); ext {
	case ".pdf":
		doc, err := extractor.ExtractDocument(inputPath)
		if err != nil {
			return fmt.Errorf("decoding %s: %w", inputPath, err)
		}
		result = pipe.Run(doc)
	case ".txt":
		raw, err := os.ReadFile(inputPath)
		if err != nil {
			return fmt.Errorf("reading %s: %w", inputPath, err)
		}
		result = pipe.RunText(string(raw))
	default:
		return fmt.Errorf("expected .pdf or .txt file, got %q", ext)
	}

	outPath := outputPath
	if outPath == "" {
		outPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".csv"
	}

	w := &writer.CSVWriter{IncludeHeader: includeHeader}
	if err := w.WriteToFile(outPath, result.Account, result.Transactions); err != nil {
		return fmt.Errorf("csv write failed: %w", err)
	}

	fmt.Printf("%s: %d transaction(s), %d duplicate(s) -> %s\n",
		inputPath, len(result.Transactions), result.Report.Duplicates, outPath)
	for _, g := range result.Report.Groups {
		fmt.Printf("  duplicate group %d (%s): %q x%d\n",
			g.GroupID, g.Fingerprint, g.Original.Description, 1+len(g.Duplicates))
	}
	if len(result.Transactions) == 0 {
		fmt.Println("  warning: no transactions found; the text may not match the expected statement format")
	}

	return nil
}

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/saascan/saascan/internal/heuristic"
	"github.com/saascan/saascan/internal/history"
	"github.com/saascan/saascan/internal/llm"
	"github.com/saascan/saascan/internal/report"
	"github.com/saascan/saascan/internal/scanner"
)

func main() {
	var (
		mode      = flag.String("mode", "single", "Analysis mode: single, legacy or comprehensive")
		inputPath = flag.String("input", "", "Read the idea text from a file instead of arguments")
		mdPath    = flag.String("md", "", "Optional path to write a markdown report")
		pdfPath   = flag.String("pdf", "", "Optional path to write a PDF report")
		dataDir   = flag.String("data-dir", "./data", "Directory for history files")
		noSave    = flag.Bool("no-save", false, "Skip writing the result to history")
	)
	flag.Parse()

	idea, err := readIdea(*inputPath, flag.Args())
	if err != nil {
		log.Fatal(err)
	}

	store := history.NewStore(history.NewFileKV(*dataDir), history.DefaultKey, history.FileCap)
	if *noSave {
		store = history.NewStore(&discardKV{}, history.DefaultKey, history.FileCap)
	}

	var analyzer scanner.Analyzer
	if caller, err := llm.NewAnthropicCallerFromEnv(); err != nil {
		log.Printf("external analysis unavailable, using heuristic: %v", err)
	} else {
		analyzer = llm.NewExecutor(caller)
	}

	svc := scanner.New(analyzer, heuristic.New(nil), store)

	ctx := context.Background()
	var out scanner.Outcome
	switch *mode {
	case "single":
		out, err = svc.Analyze(ctx, idea)
	case "legacy":
		out, err = svc.AnalyzeLegacy(ctx, idea)
	case "comprehensive":
		out, err = svc.AnalyzeComprehensive(ctx, idea)
	default:
		log.Fatalf("unknown mode %q (want single, legacy or comprehensive)", *mode)
	}
	if err != nil {
		log.Fatalf("analysis failed: %v", err)
	}

	blob, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		log.Fatalf("encode result: %v", err)
	}
	fmt.Println(string(blob))

	if *mdPath != "" {
		if err := os.WriteFile(*mdPath, []byte(report.BuildMarkdown(out.Record)), 0o644); err != nil {
			log.Fatalf("write markdown: %v", err)
		}
	}
	if *pdfPath != "" {
		pdf, err := report.NewChromiumPDFRenderer().Render(ctx, out.Record)
		if err != nil {
			log.Fatalf("render pdf: %v", err)
		}
		if err := os.WriteFile(*pdfPath, pdf, 0o644); err != nil {
			log.Fatalf("write pdf: %v", err)
		}
	}
}

func readIdea(inputPath string, args []string) (string, error) {
	if inputPath != "" {
		blob, err := os.ReadFile(inputPath)
		if err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return strings.TrimSpace(string(blob)), nil
	}
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	stat, err := os.Stdin.Stat()
	if err == nil && stat.Mode()&os.ModeCharDevice == 0 {
		blob, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return strings.TrimSpace(string(blob)), nil
	}
	return "", fmt.Errorf("no idea text: pass it as arguments, -input or stdin")
}

// discardKV backs -no-save runs: the scanner still reports Saved without
// touching the filesystem.
type discardKV struct{}

func (discardKV) Get(string) (string, bool, error) { return "", false, nil }
func (discardKV) Set(string, string) error         { return nil }
func (discardKV) Remove(string) error              { return nil }

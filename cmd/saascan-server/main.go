package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/saascan/saascan/internal/heuristic"
	"github.com/saascan/saascan/internal/history"
	"github.com/saascan/saascan/internal/httpapi"
	"github.com/saascan/saascan/internal/llm"
	"github.com/saascan/saascan/internal/report"
	"github.com/saascan/saascan/internal/scanner"
)

func main() {
	var (
		addr    = flag.String("addr", ":8080", "HTTP listen address")
		backend = flag.String("backend", "sqlite", "History backend: sqlite or file")
		dbPath  = flag.String("db", "./data/saascan.db", "SQLite database path (sqlite backend)")
		dataDir = flag.String("data-dir", "./data", "Directory for history files (file backend)")
		histCap = flag.Int("history-cap", 0, "Max stored analyses (0 = backend default)")
	)
	flag.Parse()

	kv, limit := openBackend(*backend, *dbPath, *dataDir)
	if *histCap > 0 {
		limit = *histCap
	}
	store := history.NewStore(kv, history.DefaultKey, limit)

	var analyzer scanner.Analyzer
	caller, err := llm.NewAnthropicCallerFromEnv()
	if err != nil {
		log.Printf("external analysis unavailable, running heuristic-only: %v", err)
	} else {
		analyzer = llm.NewExecutor(caller)
	}

	svc := scanner.New(analyzer, heuristic.New(nil), store)
	handler := httpapi.NewServer(svc, store, report.NewChromiumPDFRenderer())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	log.Printf("saascan listening on %s (backend=%s)", *addr, *backend)
	srv := &http.Server{Addr: *addr, Handler: handler}
	go func() {
		<-ctx.Done()
		srv.Close()
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}

func openBackend(backend, dbPath, dataDir string) (history.KV, int) {
	switch backend {
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			log.Fatalf("create db directory: %v", err)
		}
		kv, err := history.NewSQLiteKV(dbPath)
		if err != nil {
			log.Fatalf("open sqlite history: %v", err)
		}
		return kv, history.SQLiteCap
	case "file":
		return history.NewFileKV(dataDir), history.FileCap
	default:
		log.Fatalf("unknown backend %q (want sqlite or file)", backend)
		return nil, 0
	}
}

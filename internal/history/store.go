// Package history is the capped, persisted collection of past analyses.
// Operations return booleans rather than errors: no storage failure here is
// fatal, the worst case is an entry silently not saved.
package history

import (
	"encoding/json"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/saascan/saascan/internal/analysis"
)

const (
	DefaultKey = "saascan_analysis_history"

	// FileCap mirrors the small footprint of the original cookie-backed
	// store; SQLiteCap the roomier local-storage one.
	FileCap   = 50
	SQLiteCap = 100

	// On a failed write the store retries once with only the most recent
	// items before giving up.
	reducedRetryCount = 10

	envelopeVersion = "2.0"
)

// Item wraps a record with the fields the history views index on.
type Item struct {
	ID           string          `json:"id"`
	Timestamp    string          `json:"timestamp"`
	OriginalIdea string          `json:"originalIdea"`
	OverallScore int             `json:"overallScore"`
	Analysis     analysis.Record `json:"analysisResults"`
}

// envelope is the versioned on-disk payload. Reads also accept a bare item
// array, the shape older exports used.
type envelope struct {
	Results     []Item `json:"results"`
	LastUpdated string `json:"lastUpdated"`
	Version     string `json:"version"`
}

type Stats struct {
	TotalAnalyses   int     `json:"totalAnalyses"`
	StorageSizeKB   float64 `json:"storageSizeKB"`
	OldestTimestamp string  `json:"oldestTimestamp,omitempty"`
}

// Store keeps the newest-first history list in a single KV slot, truncating
// to cap on every save. Callers only ever receive copies.
type Store struct {
	mu  sync.Mutex
	kv  KV
	key string
	cap int
}

func NewStore(kv KV, key string, cap int) *Store {
	if key == "" {
		key = DefaultKey
	}
	if cap <= 0 {
		cap = FileCap
	}
	return &Store{kv: kv, key: key, cap: cap}
}

// Save prepends the record and persists, evicting the oldest entries beyond
// the cap. Returns false on storage failure, never an error.
func (s *Store) Save(rec analysis.Record) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.load()
	items = append([]Item{itemFor(rec)}, items...)
	if len(items) > s.cap {
		items = items[:s.cap]
	}
	return s.persist(items)
}

// GetAll returns the newest-first list. Corrupted storage is reset to empty
// rather than surfaced.
func (s *Store) GetAll() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store) GetByID(id string) (Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.load() {
		if it.ID == id {
			return it, true
		}
	}
	return Item{}, false
}

func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.load()
	kept := items[:0:0]
	for _, it := range items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	if len(kept) == len(items) {
		return false
	}
	return s.persist(kept)
}

func (s *Store) DeleteMany(ids []string) bool {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.load()
	kept := items[:0:0]
	for _, it := range items {
		if !drop[it.ID] {
			kept = append(kept, it)
		}
	}
	if len(kept) == len(items) {
		return false
	}
	return s.persist(kept)
}

func (s *Store) Clear() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persist(nil)
}

// Search matches the query case-insensitively against the idea text, target
// audience and problems solved.
func (s *Store) Search(query string) []Item {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return s.GetAll()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Item
	for _, it := range s.load() {
		if strings.Contains(strings.ToLower(it.OriginalIdea), q) ||
			strings.Contains(strings.ToLower(it.Analysis.TargetAudience), q) ||
			strings.Contains(strings.ToLower(it.Analysis.ProblemsSolved), q) {
			out = append(out, it)
		}
	}
	return out
}

func (s *Store) FilterByScoreRange(min, max int) []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Item
	for _, it := range s.load() {
		if it.OverallScore >= min && it.OverallScore <= max {
			out = append(out, it)
		}
	}
	return out
}

func (s *Store) FilterByDateRange(start, end time.Time) []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Item
	for _, it := range s.load() {
		ts, err := parseTimestamp(it.Timestamp)
		if err != nil {
			continue
		}
		if !ts.Before(start) && !ts.After(end) {
			out = append(out, it)
		}
	}
	return out
}

func (s *Store) FilterByInnovationLevel(level analysis.InnovationLevel) []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Item
	for _, it := range s.load() {
		if it.Analysis.InnovationLevel == level {
			out = append(out, it)
		}
	}
	return out
}

// ExportJSON renders the full history as a pretty-printed versioned payload.
func (s *Store) ExportJSON() (string, error) {
	s.mu.Lock()
	items := s.load()
	s.mu.Unlock()

	blob, err := json.MarshalIndent(envelopeFor(items), "", "  ")
	if err != nil {
		return "", err
	}
	return string(blob), nil
}

// ImportJSON accepts either the versioned payload or a bare item array.
// Invalid items are dropped; the import fails only when nothing validates.
// Valid imports are merged ahead of existing entries, de-duplicated by id.
func (s *Store) ImportJSON(data string) bool {
	incoming, ok := decodeItems([]byte(data))
	if !ok {
		return false
	}

	valid := incoming[:0:0]
	for _, it := range incoming {
		if err := validateItem(it); err != nil {
			log.Printf("history: dropping invalid import item %q: %v", it.ID, err)
			continue
		}
		valid = append(valid, it)
	}
	if len(valid) == 0 {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool, len(valid))
	merged := make([]Item, 0, len(valid))
	for _, it := range valid {
		if !seen[it.ID] {
			seen[it.ID] = true
			merged = append(merged, it)
		}
	}
	for _, it := range s.load() {
		if !seen[it.ID] {
			seen[it.ID] = true
			merged = append(merged, it)
		}
	}
	if len(merged) > s.cap {
		merged = merged[:s.cap]
	}
	return s.persist(merged)
}

func (s *Store) Stats() Stats {
	s.mu.Lock()
	items := s.load()
	s.mu.Unlock()

	blob, _ := json.Marshal(envelopeFor(items))
	st := Stats{
		TotalAnalyses: len(items),
		StorageSizeKB: float64(len(blob)) / 1024,
	}
	if len(items) > 0 {
		st.OldestTimestamp = items[len(items)-1].Timestamp
	}
	return st
}

// load reads and decodes the slot. Any read or decode failure resets the
// slot to empty; the caller always gets a usable list.
func (s *Store) load() []Item {
	value, ok, err := s.kv.Get(s.key)
	if err != nil {
		log.Printf("history: read failed, resetting storage: %v", err)
		_ = s.kv.Remove(s.key)
		return nil
	}
	if !ok || strings.TrimSpace(value) == "" {
		return nil
	}
	items, ok := decodeItems([]byte(value))
	if !ok {
		log.Printf("history: corrupted payload, resetting storage")
		_ = s.kv.Remove(s.key)
		return nil
	}
	return items
}

func (s *Store) persist(items []Item) bool {
	blob, err := json.Marshal(envelopeFor(items))
	if err != nil {
		log.Printf("history: marshal failed: %v", err)
		return false
	}
	err = s.kv.Set(s.key, string(blob))
	if err == nil {
		return true
	}
	log.Printf("history: write failed, retrying with reduced payload: %v", err)

	if len(items) > reducedRetryCount {
		items = items[:reducedRetryCount]
	}
	blob, err = json.Marshal(envelopeFor(items))
	if err != nil {
		return false
	}
	if err := s.kv.Set(s.key, string(blob)); err != nil {
		log.Printf("history: reduced write failed: %v", err)
		return false
	}
	return true
}

func envelopeFor(items []Item) envelope {
	if items == nil {
		items = []Item{}
	}
	return envelope{
		Results:     items,
		LastUpdated: time.Now().UTC().Format(analysis.TimestampLayout),
		Version:     envelopeVersion,
	}
}

// decodeItems accepts the versioned envelope or a bare array. Anything else
// is corrupt.
func decodeItems(blob []byte) ([]Item, bool) {
	var env envelope
	if err := json.Unmarshal(blob, &env); err == nil && (env.Version != "" || env.Results != nil) {
		return env.Results, true
	}
	var items []Item
	if err := json.Unmarshal(blob, &items); err == nil {
		return items, true
	}
	return nil, false
}

func itemFor(rec analysis.Record) Item {
	// Out-of-range scores are never persisted.
	if rec.OverallScore < analysis.StorageFloor {
		rec.OverallScore = analysis.StorageFloor
	}
	if rec.OverallScore > analysis.ScoreCeiling {
		rec.OverallScore = analysis.ScoreCeiling
	}
	return Item{
		ID:           rec.ID,
		Timestamp:    rec.Timestamp,
		OriginalIdea: rec.OriginalIdea,
		OverallScore: rec.OverallScore,
		Analysis:     rec,
	}
}

func validateItem(it Item) error {
	if err := it.Analysis.Validate(); err != nil {
		return err
	}
	if it.ID != it.Analysis.ID {
		return errIDMismatch
	}
	return nil
}

var errIDMismatch = jsonError("item id does not match analysis id")

type jsonError string

func (e jsonError) Error() string { return string(e) }

func parseTimestamp(ts string) (time.Time, error) {
	if t, err := time.Parse(analysis.TimestampLayout, ts); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, ts)
}

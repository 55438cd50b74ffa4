package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/saascan/saascan/internal/analysis"
)

type memKV struct {
	data     map[string]string
	setErrs  int
	setCalls int
}

func newMemKV() *memKV {
	return &memKV{data: map[string]string{}}
}

func (m *memKV) Get(key string) (string, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Set(key, value string) error {
	m.setCalls++
	if m.setErrs > 0 {
		m.setErrs--
		return errors.New("simulated write failure")
	}
	m.data[key] = value
	return nil
}

func (m *memKV) Remove(key string) error {
	delete(m.data, key)
	return nil
}

func testRecord(i int) analysis.Record {
	return analysis.Record{
		ID:               fmt.Sprintf("analysis_%d_abcdef%03d", 1700000000000+i, i),
		Timestamp:        analysis.FormatTimestamp(time.Date(2026, 1, 1, 0, 0, i, 0, time.UTC)),
		Variant:          analysis.VariantHorizontal,
		OriginalIdea:     fmt.Sprintf("idea number %d", i),
		TargetAudience:   "dental clinics",
		ProblemsSolved:   "scheduling chaos",
		ProposedSolution: "a calendar",
		Competitors:      []string{"Calendly", "Acuity", "Square"},
		Scalability:      "regional then national",
		RevenueModel:     "per-seat subscription",
		InnovationLevel:  analysis.InnovationMedium,
		OverallScore:     50 + i%40,
		Verdict:          analysis.VerdictPotentiallyViable,
	}
}

func TestSaveCapEviction(t *testing.T) {
	store := NewStore(newMemKV(), "", FileCap)
	for i := 0; i < 60; i++ {
		if !store.Save(testRecord(i)) {
			t.Fatalf("save %d failed", i)
		}
	}
	items := store.GetAll()
	if len(items) != FileCap {
		t.Fatalf("got %d items, want %d", len(items), FileCap)
	}
	// Newest first: last saved record leads, the ten oldest evicted.
	if items[0].ID != testRecord(59).ID {
		t.Errorf("head = %s, want record 59", items[0].ID)
	}
	if items[len(items)-1].ID != testRecord(10).ID {
		t.Errorf("tail = %s, want record 10", items[len(items)-1].ID)
	}
}

func TestGetAllResetsCorruptedStorage(t *testing.T) {
	for _, corrupt := range []string{"not json {{", `"a string"`, "12345", `{"foo": 1}`} {
		kv := newMemKV()
		kv.data[DefaultKey] = corrupt
		store := NewStore(kv, "", FileCap)
		if got := store.GetAll(); len(got) != 0 {
			t.Errorf("payload %q: got %d items, want 0", corrupt, len(got))
		}
		if _, ok := kv.data[DefaultKey]; ok {
			t.Errorf("payload %q: corrupted slot not reset", corrupt)
		}
	}
}

func TestGetAllAcceptsBareArrayPayload(t *testing.T) {
	items := []Item{itemFor(testRecord(1))}
	blob, _ := json.Marshal(items)
	kv := newMemKV()
	kv.data[DefaultKey] = string(blob)

	store := NewStore(kv, "", FileCap)
	got := store.GetAll()
	if len(got) != 1 || got[0].ID != items[0].ID {
		t.Fatalf("bare array payload not readable: %+v", got)
	}
}

func TestSaveRetriesWithReducedPayload(t *testing.T) {
	kv := newMemKV()
	store := NewStore(kv, "", FileCap)
	for i := 0; i < 30; i++ {
		store.Save(testRecord(i))
	}

	kv.setErrs = 1
	if !store.Save(testRecord(99)) {
		t.Fatal("save should succeed via reduced retry")
	}
	items := store.GetAll()
	if len(items) != reducedRetryCount {
		t.Fatalf("got %d items after reduced retry, want %d", len(items), reducedRetryCount)
	}
	if items[0].ID != testRecord(99).ID {
		t.Errorf("newest item lost in reduced retry")
	}
}

func TestSaveFailsWhenBothWritesFail(t *testing.T) {
	kv := newMemKV()
	kv.setErrs = 2
	store := NewStore(kv, "", FileCap)
	if store.Save(testRecord(1)) {
		t.Fatal("save should report failure")
	}
}

func TestSaveClampsScoreOnWrite(t *testing.T) {
	rec := testRecord(1)
	rec.OverallScore = 200
	store := NewStore(newMemKV(), "", FileCap)
	store.Save(rec)
	items := store.GetAll()
	if items[0].OverallScore != analysis.ScoreCeiling {
		t.Errorf("stored score %d, want clamped to %d", items[0].OverallScore, analysis.ScoreCeiling)
	}
}

func TestGetByIDAndDelete(t *testing.T) {
	store := NewStore(newMemKV(), "", FileCap)
	for i := 0; i < 5; i++ {
		store.Save(testRecord(i))
	}

	it, ok := store.GetByID(testRecord(3).ID)
	if !ok || it.OriginalIdea != "idea number 3" {
		t.Fatalf("GetByID: ok=%v item=%+v", ok, it)
	}
	if _, ok := store.GetByID("missing"); ok {
		t.Fatal("GetByID found a missing id")
	}

	if !store.Delete(testRecord(3).ID) {
		t.Fatal("delete failed")
	}
	if store.Delete(testRecord(3).ID) {
		t.Fatal("second delete of same id should be false")
	}
	if len(store.GetAll()) != 4 {
		t.Fatal("delete did not persist")
	}

	if !store.DeleteMany([]string{testRecord(0).ID, testRecord(1).ID, "missing"}) {
		t.Fatal("deleteMany failed")
	}
	if len(store.GetAll()) != 2 {
		t.Fatal("deleteMany did not remove both")
	}

	if !store.Clear() {
		t.Fatal("clear failed")
	}
	if len(store.GetAll()) != 0 {
		t.Fatal("clear left items")
	}
}

func TestSearch(t *testing.T) {
	store := NewStore(newMemKV(), "", FileCap)
	rec := testRecord(1)
	rec.TargetAudience = "Veterinary Practices"
	store.Save(rec)
	store.Save(testRecord(2))

	if got := store.Search("veterinary"); len(got) != 1 {
		t.Fatalf("case-insensitive audience search: got %d", len(got))
	}
	if got := store.Search("idea number"); len(got) != 2 {
		t.Fatalf("idea text search: got %d", len(got))
	}
	if got := store.Search("zzz-nothing"); len(got) != 0 {
		t.Fatalf("miss search: got %d", len(got))
	}
}

func TestFilters(t *testing.T) {
	store := NewStore(newMemKV(), "", FileCap)
	low := testRecord(1)
	low.OverallScore = 50
	high := testRecord(2)
	high.OverallScore = 90
	high.InnovationLevel = analysis.InnovationHigh
	store.Save(low)
	store.Save(high)

	if got := store.FilterByScoreRange(80, 95); len(got) != 1 || got[0].OverallScore != 90 {
		t.Fatalf("score filter: %+v", got)
	}
	if got := store.FilterByInnovationLevel(analysis.InnovationHigh); len(got) != 1 {
		t.Fatalf("innovation filter: got %d", len(got))
	}
	start := time.Date(2026, 1, 1, 0, 0, 2, 0, time.UTC)
	end := time.Date(2026, 1, 1, 0, 0, 3, 0, time.UTC)
	if got := store.FilterByDateRange(start, end); len(got) != 1 {
		t.Fatalf("date filter: got %d", len(got))
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	store := NewStore(newMemKV(), "", FileCap)
	for i := 0; i < 3; i++ {
		store.Save(testRecord(i))
	}
	exported, err := store.ExportJSON()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(exported, `"version": "2.0"`) {
		t.Error("export missing version wrapper")
	}

	other := NewStore(newMemKV(), "", FileCap)
	if !other.ImportJSON(exported) {
		t.Fatal("import of valid export failed")
	}
	if len(other.GetAll()) != 3 {
		t.Fatalf("imported %d items, want 3", len(other.GetAll()))
	}
}

func TestImportRejections(t *testing.T) {
	store := NewStore(newMemKV(), "", FileCap)
	store.Save(testRecord(1))

	if store.ImportJSON(`[]`) {
		t.Error("empty array import should fail")
	}
	if store.ImportJSON(`[{"id":"x"}]`) {
		t.Error("import with zero valid items should fail")
	}
	if store.ImportJSON(`not json`) {
		t.Error("malformed import should fail")
	}
	if len(store.GetAll()) != 1 {
		t.Error("failed imports must leave the store unchanged")
	}
}

func TestImportKeepsValidSubset(t *testing.T) {
	good := itemFor(testRecord(7))
	payload, _ := json.Marshal([]any{good, map[string]any{"id": "bogus"}})

	store := NewStore(newMemKV(), "", FileCap)
	if !store.ImportJSON(string(payload)) {
		t.Fatal("import with one valid item should succeed")
	}
	items := store.GetAll()
	if len(items) != 1 || items[0].ID != good.ID {
		t.Fatalf("items = %+v", items)
	}
}

func TestStats(t *testing.T) {
	store := NewStore(newMemKV(), "", FileCap)
	st := store.Stats()
	if st.TotalAnalyses != 0 || st.OldestTimestamp != "" {
		t.Fatalf("empty stats = %+v", st)
	}

	store.Save(testRecord(1))
	store.Save(testRecord(2))
	st = store.Stats()
	if st.TotalAnalyses != 2 {
		t.Errorf("total = %d", st.TotalAnalyses)
	}
	if st.StorageSizeKB <= 0 {
		t.Errorf("size = %v", st.StorageSizeKB)
	}
	if st.OldestTimestamp != testRecord(1).Timestamp {
		t.Errorf("oldest = %s", st.OldestTimestamp)
	}
}

func TestFileBackendRoundTrip(t *testing.T) {
	kv := NewFileKV(t.TempDir())
	store := NewStore(kv, "", FileCap)
	if !store.Save(testRecord(1)) {
		t.Fatal("file-backed save failed")
	}

	reopened := NewStore(NewFileKV(kv.dir), "", FileCap)
	items := reopened.GetAll()
	if len(items) != 1 || items[0].ID != testRecord(1).ID {
		t.Fatalf("reopened store items = %+v", items)
	}
}

func TestSQLiteBackendRoundTrip(t *testing.T) {
	kv, err := NewSQLiteKV(t.TempDir() + "/history.db")
	if err != nil {
		t.Fatal(err)
	}
	defer kv.Close()

	store := NewStore(kv, "", SQLiteCap)
	if !store.Save(testRecord(1)) {
		t.Fatal("sqlite-backed save failed")
	}
	items := store.GetAll()
	if len(items) != 1 {
		t.Fatalf("got %d items", len(items))
	}
	if !store.Clear() {
		t.Fatal("clear failed")
	}
	if len(store.GetAll()) != 0 {
		t.Fatal("clear left items")
	}
}

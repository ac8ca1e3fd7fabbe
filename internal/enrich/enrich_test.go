package enrich

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/deusflow/uynews/internal/ai"
	"github.com/deusflow/uynews/internal/article"
	"github.com/deusflow/uynews/internal/retry"
	"github.com/deusflow/uynews/internal/storage"
)

type fakeStore struct {
	records map[string]storage.Record
	getErr  error
	putErr  error
	puts    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]storage.Record)}
}

func (s *fakeStore) Get(ctx context.Context, link string) (storage.Record, bool, error) {
	if s.getErr != nil {
		return storage.Record{}, false, s.getErr
	}
	r, ok := s.records[link]
	return r, ok, nil
}

func (s *fakeStore) Put(ctx context.Context, link, titleEN, summaryEN string) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.puts++
	s.records[link] = storage.Record{
		Link: link, TitleEN: titleEN, SummaryEN: summaryEN,
		CreatedUTC: storage.NowUTC(time.Now()),
	}
	return nil
}

func (s *fakeStore) ScanStale(ctx context.Context, limit int, ttl time.Duration) ([]string, error) {
	return nil, nil
}

func (s *fakeStore) Cleanup(ctx context.Context, retention time.Duration) (int64, error) {
	return 0, nil
}

func (s *fakeStore) Close() error { return nil }

type fakeTranslator struct {
	calls   int
	err     error
	answers map[string]ai.Translation
	seen    [][]ai.Item
}

func (f *fakeTranslator) TranslateBatch(ctx context.Context, items []ai.Item) (map[string]ai.Translation, error) {
	f.calls++
	f.seen = append(f.seen, items)
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[string]ai.Translation)
	for _, it := range items {
		if t, ok := f.answers[it.Link]; ok {
			out[it.Link] = t
		}
	}
	return out, nil
}

func newTestEnricher(store storage.Store, tr ai.Translator) *Enricher {
	return New(store, tr, 7*24*time.Hour, time.Second, retry.Config{MaxAttempts: 1})
}

func TestAttach_FreshRecord(t *testing.T) {
	store := newFakeStore()
	store.records["l"] = storage.Record{
		Link: "l", TitleEN: "T", SummaryEN: "S",
		CreatedUTC: storage.NowUTC(time.Now().Add(-time.Hour)),
	}
	e := newTestEnricher(store, &fakeTranslator{})

	a := article.Article{Link: "l"}
	e.Attach(context.Background(), &a)

	if a.TitleEN != "T" || a.SummaryEN != "S" {
		t.Errorf("translation not attached: %+v", a)
	}
	if !a.CacheFresh {
		t.Error("a 1h-old record must be marked fresh")
	}
}

func TestAttach_StaleRecordStillAttached(t *testing.T) {
	store := newFakeStore()
	store.records["l"] = storage.Record{
		Link: "l", TitleEN: "T", SummaryEN: "S",
		CreatedUTC: storage.NowUTC(time.Now().Add(-30 * 24 * time.Hour)),
	}
	e := newTestEnricher(store, &fakeTranslator{})

	a := article.Article{Link: "l"}
	e.Attach(context.Background(), &a)

	if a.TitleEN != "T" {
		t.Error("stale data still beats none; translation must be attached")
	}
	if a.CacheFresh {
		t.Error("a 30d-old record must not be marked fresh")
	}
}

func TestAttach_StoreErrorDegradesToNothing(t *testing.T) {
	store := newFakeStore()
	store.getErr = storage.ErrUnavailable
	e := newTestEnricher(store, &fakeTranslator{})

	a := article.Article{Link: "l"}
	e.Attach(context.Background(), &a)

	if a.TitleEN != "" || a.CacheFresh {
		t.Error("a failing store must degrade to no cached enrichment")
	}
}

func TestNeedsRefresh(t *testing.T) {
	store := newFakeStore()
	store.records["fresh"] = storage.Record{
		Link: "fresh", TitleEN: "T", SummaryEN: "S",
		CreatedUTC: storage.NowUTC(time.Now()),
	}
	store.records["stale"] = storage.Record{
		Link: "stale", TitleEN: "T", SummaryEN: "S",
		CreatedUTC: storage.NowUTC(time.Now().Add(-30 * 24 * time.Hour)),
	}
	e := newTestEnricher(store, &fakeTranslator{})
	ctx := context.Background()

	if e.NeedsRefresh(ctx, "fresh") {
		t.Error("fresh record must not need refresh")
	}
	if !e.NeedsRefresh(ctx, "stale") {
		t.Error("stale record must need refresh")
	}
	if !e.NeedsRefresh(ctx, "missing") {
		t.Error("missing record must need refresh")
	}
}

func TestEnrichBatch_WritesSuccesses(t *testing.T) {
	store := newFakeStore()
	tr := &fakeTranslator{answers: map[string]ai.Translation{
		"l1": {TitleEN: "T1", SummaryEN: "S1"},
	}}
	e := newTestEnricher(store, tr)

	got := e.EnrichBatch(context.Background(), []ai.Item{
		{Link: "l1", Title: "Título uno"},
		{Link: "l2", Title: "Título dos"},
	})

	if len(got) != 1 || got["l1"].TitleEN != "T1" {
		t.Fatalf("got %v, want only l1 translated", got)
	}
	if store.puts != 1 {
		t.Errorf("puts = %d, want 1 (only the answered link)", store.puts)
	}
	if e.Inflight().Len() != 0 {
		t.Error("all claims must be released after the batch")
	}
}

func TestEnrichBatch_FailedCallYieldsNothing(t *testing.T) {
	store := newFakeStore()
	tr := &fakeTranslator{err: errors.New("model down")}
	e := newTestEnricher(store, tr)

	got := e.EnrichBatch(context.Background(), []ai.Item{{Link: "l1", Title: "T"}})
	if len(got) != 0 {
		t.Errorf("failed batch must yield zero enrichments, got %v", got)
	}
	if store.puts != 0 {
		t.Error("nothing must be written on failure")
	}
	if e.Inflight().Len() != 0 {
		t.Error("claims must be released even on failure")
	}
}

func TestEnrichBatch_SkipsClaimedLinks(t *testing.T) {
	store := newFakeStore()
	tr := &fakeTranslator{answers: map[string]ai.Translation{
		"free": {TitleEN: "T", SummaryEN: "S"},
	}}
	e := newTestEnricher(store, tr)

	e.Inflight().TryClaim("busy")
	e.EnrichBatch(context.Background(), []ai.Item{
		{Link: "busy", Title: "A"},
		{Link: "free", Title: "B"},
	})

	if len(tr.seen) != 1 || len(tr.seen[0]) != 1 || tr.seen[0][0].Link != "free" {
		t.Errorf("translator saw %v, want only the unclaimed link", tr.seen)
	}
	if !e.Inflight().TryClaim("free") {
		t.Error("the link claimed by the batch must be released afterwards")
	}
	if e.Inflight().TryClaim("busy") {
		t.Error("the externally held claim must not be released by the batch")
	}
}

func TestEnrichBatch_AllClaimedSkipsModelCall(t *testing.T) {
	tr := &fakeTranslator{}
	e := newTestEnricher(newFakeStore(), tr)

	e.Inflight().TryClaim("l1")
	got := e.EnrichBatch(context.Background(), []ai.Item{{Link: "l1"}})

	if len(got) != 0 || tr.calls != 0 {
		t.Errorf("fully claimed batch must not call the model (calls=%d)", tr.calls)
	}
}

func TestEnrichBatch_RetriesOnFailure(t *testing.T) {
	store := newFakeStore()
	tr := &flakyTranslator{failuresLeft: 1, answer: ai.Translation{TitleEN: "T", SummaryEN: "S"}}
	e := New(store, tr, 7*24*time.Hour, time.Second, retry.Config{MaxAttempts: 2, Delay: time.Millisecond})

	got := e.EnrichBatch(context.Background(), []ai.Item{{Link: "l1", Title: "T"}})
	if len(got) != 1 {
		t.Errorf("second attempt must succeed, got %v", got)
	}
	if tr.calls != 2 {
		t.Errorf("calls = %d, want 2", tr.calls)
	}
}

type flakyTranslator struct {
	failuresLeft int
	calls        int
	answer       ai.Translation
}

func (f *flakyTranslator) TranslateBatch(ctx context.Context, items []ai.Item) (map[string]ai.Translation, error) {
	f.calls++
	if f.failuresLeft > 0 {
		f.failuresLeft--
		return nil, errors.New("transient")
	}
	out := make(map[string]ai.Translation)
	for _, it := range items {
		out[it.Link] = f.answer
	}
	return out, nil
}

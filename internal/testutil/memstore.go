// Package testutil provides in-memory collaborators for network-free tests:
// a Store implementation, a scripted HTTP fetcher, and a stub embedder.
package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mizanhq/mizan/internal/domain"
	"github.com/mizanhq/mizan/internal/fetcher"
	"github.com/mizanhq/mizan/internal/repository"
)

// MemStore is an in-memory repository.Store for tests.
type MemStore struct {
	mu        sync.RWMutex
	documents map[string]*domain.LegalDocument // key: source\x00url
	chunks    map[string][]domain.LegalChunk   // key: documentID
	runs      map[string]*domain.CrawlRun
	runOrder  []string
}

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		documents: make(map[string]*domain.LegalDocument),
		chunks:    make(map[string][]domain.LegalChunk),
		runs:      make(map[string]*domain.CrawlRun),
	}
}

func docKey(source, url string) string {
	return source + "\x00" + url
}

func (s *MemStore) UpsertDocument(_ context.Context, source, url string, fields repository.DocumentFields) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := docKey(source, url)
	doc, ok := s.documents[key]
	if !ok {
		doc = &domain.LegalDocument{
			ID:        uuid.New().String(),
			Source:    source,
			URL:       url,
			CreatedAt: time.Now(),
		}
		s.documents[key] = doc
	}
	doc.Title = fields.Title
	doc.ContentText = fields.ContentText
	doc.ContentHash = fields.ContentHash
	doc.HTTPStatus = fields.HTTPStatus
	doc.ETag = fields.ETag
	doc.LastModified = fields.LastModified
	doc.FetchedAt = fields.FetchedAt
	doc.Status = fields.Status
	doc.Error = fields.Error
	doc.UpdatedAt = time.Now()
	return doc.ID, nil
}

func (s *MemStore) GetDocument(_ context.Context, source, url string) (*domain.LegalDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[docKey(source, url)]
	if !ok {
		return nil, nil
	}
	copied := *doc
	return &copied, nil
}

func (s *MemStore) ReplaceChunks(_ context.Context, documentID string, chunks []repository.ChunkInput) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := make([]domain.LegalChunk, len(chunks))
	for i, c := range chunks {
		rows[i] = domain.LegalChunk{
			ID:         uuid.New().String(),
			DocumentID: documentID,
			ChunkIndex: c.Index,
			Text:       c.Text,
			Embedding:  c.Embedding,
			Meta:       c.Meta,
			CreatedAt:  time.Now(),
		}
	}
	s.chunks[documentID] = rows
	return nil
}

// Chunks returns the current chunk set of a document.
func (s *MemStore) Chunks(documentID string) []domain.LegalChunk {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.LegalChunk(nil), s.chunks[documentID]...)
}

// AddChunk inserts a standalone chunk row, for seeding retrieval tests.
func (s *MemStore) AddChunk(chunk domain.LegalChunk) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if chunk.ID == "" {
		chunk.ID = uuid.New().String()
	}
	if chunk.DocumentID == "" {
		chunk.DocumentID = "doc-" + chunk.ID
	}
	s.chunks[chunk.DocumentID] = append(s.chunks[chunk.DocumentID], chunk)
}

func (s *MemStore) allChunks() []domain.LegalChunk {
	var all []domain.LegalChunk
	for _, rows := range s.chunks {
		all = append(all, rows...)
	}
	return all
}

func (s *MemStore) ListChunksWithEmbeddings(_ context.Context, limit int) ([]domain.LegalChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.LegalChunk
	for _, c := range s.allChunks() {
		if c.Embedding != nil {
			out = append(out, c)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (s *MemStore) ListChunksByKeyword(_ context.Context, terms []string, limit int) ([]domain.LegalChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.LegalChunk
	for _, c := range s.allChunks() {
		for _, t := range terms {
			if t != "" && strings.Contains(c.Text, t) {
				out = append(out, c)
				break
			}
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *MemStore) CreateRun(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run := &domain.CrawlRun{
		ID:        uuid.New().String(),
		StartedAt: time.Now(),
		Status:    domain.RunStatusRunning,
	}
	s.runs[run.ID] = run
	s.runOrder = append(s.runOrder, run.ID)
	return run.ID, nil
}

func (s *MemStore) FinishRun(_ context.Context, runID string, status domain.RunStatus, pagesCrawled, documentsUpdated int, runErr error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[runID]
	if !ok {
		return fmt.Errorf("unknown run %s", runID)
	}
	now := time.Now()
	run.FinishedAt = &now
	run.Status = status
	run.PagesCrawled = pagesCrawled
	run.DocumentsUpdated = documentsUpdated
	if runErr != nil {
		msg := runErr.Error()
		run.Error = &msg
	}
	return nil
}

// LastRun returns the most recently created run, or nil.
func (s *MemStore) LastRun() *domain.CrawlRun {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.runOrder) == 0 {
		return nil
	}
	run := *s.runs[s.runOrder[len(s.runOrder)-1]]
	return &run
}

func (s *MemStore) Stats(_ context.Context) (*repository.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := &repository.Stats{DocumentsByState: make(map[string]int64)}
	for _, d := range s.documents {
		stats.Documents++
		stats.DocumentsByState[string(d.Status)]++
	}
	for _, c := range s.allChunks() {
		stats.Chunks++
		if c.Embedding != nil {
			stats.EmbeddedChunks++
		}
	}
	stats.LastRun = s.lastRunLocked()
	return stats, nil
}

func (s *MemStore) lastRunLocked() *domain.CrawlRun {
	if len(s.runOrder) == 0 {
		return nil
	}
	run := *s.runs[s.runOrder[len(s.runOrder)-1]]
	return &run
}

// FakeFetcher is a scripted fetcher.Client serving canned pages by URL.
type FakeFetcher struct {
	mu sync.Mutex
	// Pages maps URL to the result returned for it.
	Pages map[string]*fetcher.Result
	// Err, when set, fails every request not present in Pages.
	Err error
	// Requested records every GET in order.
	Requested []string
	// PostBodies records the last JSON body posted to each URL.
	PostBodies map[string]interface{}
}

// NewFakeFetcher creates a FakeFetcher with no pages.
func NewFakeFetcher() *FakeFetcher {
	return &FakeFetcher{
		Pages:      make(map[string]*fetcher.Result),
		PostBodies: make(map[string]interface{}),
	}
}

// AddHTML registers a 200 HTML page for url.
func (f *FakeFetcher) AddHTML(url, body string) {
	f.Pages[url] = &fetcher.Result{
		StatusCode:  200,
		Body:        body,
		ContentType: "text/html; charset=utf-8",
		FinalURL:    url,
	}
}

// AddJSON registers a 200 JSON response for url.
func (f *FakeFetcher) AddJSON(url, body string) {
	f.Pages[url] = &fetcher.Result{
		StatusCode:  200,
		Body:        body,
		ContentType: "application/json",
		FinalURL:    url,
	}
}

// AddXML registers a 200 XML page for url.
func (f *FakeFetcher) AddXML(url, body string) {
	f.Pages[url] = &fetcher.Result{
		StatusCode:  200,
		Body:        body,
		ContentType: "application/xml",
		FinalURL:    url,
	}
}

func (f *FakeFetcher) Get(_ context.Context, rawURL string) (*fetcher.Result, error) {
	f.mu.Lock()
	f.Requested = append(f.Requested, rawURL)
	f.mu.Unlock()

	if res, ok := f.Pages[rawURL]; ok {
		return res, nil
	}
	if f.Err != nil {
		return nil, f.Err
	}
	return &fetcher.Result{StatusCode: 404, FinalURL: rawURL}, nil
}

func (f *FakeFetcher) PostJSON(_ context.Context, rawURL string, _ map[string]string, body, out interface{}) (*fetcher.Result, error) {
	f.mu.Lock()
	f.Requested = append(f.Requested, rawURL)
	f.PostBodies[rawURL] = body
	f.mu.Unlock()

	if res, ok := f.Pages[rawURL]; ok {
		if out != nil && res.Body != "" {
			if err := json.Unmarshal([]byte(res.Body), out); err != nil {
				return nil, err
			}
		}
		return res, nil
	}
	if f.Err != nil {
		return nil, f.Err
	}
	return &fetcher.Result{StatusCode: 404, FinalURL: rawURL}, nil
}

// StubEmbedder returns fixed-length vectors derived from text length, so
// identical texts embed identically.
type StubEmbedder struct {
	Dim   int
	Calls int
	// Vectors, when set, maps exact text to a canned vector.
	Vectors map[string][]float32
}

func (e *StubEmbedder) vector(text string) []float32 {
	if v, ok := e.Vectors[text]; ok {
		return v
	}
	dim := e.Dim
	if dim <= 0 {
		dim = 4
	}
	v := make([]float32, dim)
	for i := range v {
		v[i] = float32((len(text)+i)%7) + 1
	}
	return v
}

func (e *StubEmbedder) EmbedText(_ context.Context, text string) ([]float32, error) {
	e.Calls++
	return e.vector(text), nil
}

func (e *StubEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	e.Calls++
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = e.vector(t)
	}
	return out, nil
}

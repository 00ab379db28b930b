package facts

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Record is one stored Facts result. Records are append-only: a re-run of the
// same session produces a new Record next to the old one.
type Record struct {
	ID               uuid.UUID `json:"id"`
	SessionID        string    `json:"sessionId"`
	NaturalNotesHash string    `json:"naturalNotesHash"`
	Version          string    `json:"version"`
	StoredAt         time.Time `json:"storedAt"`
	Facts            Facts     `json:"facts"`
}

// Store is an in-memory audit trail of Facts records with JSONL persistence.
// It belongs to the caller layer; the extraction core never touches it.
type Store struct {
	mu      sync.RWMutex
	records []Record

	// Indexes for fast lookups
	bySession map[string][]int // session id -> indices into records
	byHash    map[string][]int // natural notes hash -> indices into records
	byID      map[uuid.UUID]int

	now func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		bySession: make(map[string][]int),
		byHash:    make(map[string][]int),
		byID:      make(map[uuid.UUID]int),
		now:       time.Now,
	}
}

// Append stores a copy of f as a new record and returns it.
func (s *Store) Append(f Facts) Record {
	rec := Record{
		ID:               uuid.New(),
		SessionID:        f.SessionID,
		NaturalNotesHash: f.NaturalNotesHash,
		Version:          f.Version,
		StoredAt:         s.now().UTC(),
		Facts:            f,
	}
	s.add(rec)
	return rec
}

func (s *Store) add(recs ...Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range recs {
		idx := len(s.records)
		s.records = append(s.records, r)
		if r.SessionID != "" {
			s.bySession[r.SessionID] = append(s.bySession[r.SessionID], idx)
		}
		if r.NaturalNotesHash != "" {
			s.byHash[r.NaturalNotesHash] = append(s.byHash[r.NaturalNotesHash], idx)
		}
		s.byID[r.ID] = idx
	}
}

// All returns all records in insertion order.
func (s *Store) All() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]Record, len(s.records))
	copy(result, s.records)
	return result
}

// Count returns the number of records in the store.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Get returns the record with the given id.
func (s *Store) Get(id uuid.UUID) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.byID[id]
	if !ok {
		return Record{}, false
	}
	return s.records[idx], true
}

// History returns every record for a session, oldest first.
func (s *Store) History(sessionID string) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collectByIndex(s.bySession[sessionID])
}

// Latest returns the newest record for a session.
func (s *Store) Latest(sessionID string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	indices := s.bySession[sessionID]
	if len(indices) == 0 {
		return Record{}, false
	}
	return s.records[indices[len(indices)-1]], true
}

// ByHash returns all records produced from the same raw notes text.
func (s *Store) ByHash(hash string) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collectByIndex(s.byHash[hash])
}

// WriteJSONL writes all records as JSONL to the given writer.
func (s *Store) WriteJSONL(w io.Writer) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	enc := json.NewEncoder(w)
	for _, r := range s.records {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encoding record %s: %w", r.ID, err)
		}
	}
	return nil
}

// WriteJSONLFile writes all records as JSONL to the given file path.
func (s *Store) WriteJSONLFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	bw := bufio.NewWriter(f)
	if err := s.WriteJSONL(bw); err != nil {
		return err
	}
	return bw.Flush()
}

// AppendJSONLFile appends a single record to the JSONL file at path,
// creating the file and its directory if needed.
func AppendJSONLFile(path string, rec Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating ledger dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(rec); err != nil {
		return fmt.Errorf("encoding record %s: %w", rec.ID, err)
	}
	return nil
}

// ReadJSONL reads records from a JSONL reader and adds them to the store.
func (s *Store) ReadJSONL(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	// Allow large lines
	scanner.Buffer(make([]byte, 0, 1024*1024), 10*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return fmt.Errorf("decoding record: %w", err)
		}
		s.add(rec)
	}
	return scanner.Err()
}

// ReadJSONLFile reads records from a JSONL file and adds them to the store.
func (s *Store) ReadJSONLFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return s.ReadJSONL(f)
}

func (s *Store) collectByIndex(indices []int) []Record {
	result := make([]Record, 0, len(indices))
	for _, idx := range indices {
		if idx < len(s.records) {
			result = append(result, s.records[idx])
		}
	}
	return result
}

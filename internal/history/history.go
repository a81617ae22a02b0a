// Package history keeps a log of compression operations.
package history

import (
	"errors"
	"sort"
	"strconv"
	"sync"
	"time"
)

var ErrNotFound = errors.New("history record not found")

// Record describes one compression operation.
type Record struct {
	ID               string    `json:"id" csv:"id"`
	Timestamp        time.Time `json:"timestamp" csv:"timestamp"`
	Filename         string    `json:"filename" csv:"filename"`
	FileType         string    `json:"file_type" csv:"file_type"`
	Algorithm        string    `json:"algorithm" csv:"algorithm"`
	OriginalSize     int       `json:"original_size" csv:"original_size"`
	CompressedSize   int       `json:"compressed_size" csv:"compressed_size"`
	CompressionRatio float64   `json:"compression_ratio" csv:"compression_ratio"`
	SpaceSavings     float64   `json:"space_savings" csv:"space_savings"`
	Duration         float64   `json:"duration" csv:"duration_s"`
	IsCorrect        bool      `json:"is_correct" csv:"is_correct"`
}

// Filter narrows List. Zero fields match everything; Limit <= 0 means no limit.
type Filter struct {
	Limit     int
	Algorithm string
	FileType  string
}

// AlgorithmAverages are per-algorithm means over all records.
type AlgorithmAverages struct {
	Count      int     `json:"count"`
	AvgRatio   float64 `json:"avg_ratio"`
	AvgSavings float64 `json:"avg_savings"`
}

// Statistics summarizes the whole store.
type Statistics struct {
	TotalCompressions int                          `json:"total_compressions"`
	AlgorithmStats    map[string]int               `json:"algorithm_stats"`
	FileTypeStats     map[string]int               `json:"file_type_stats"`
	AverageStats      map[string]AlgorithmAverages `json:"average_stats"`
}

// Store persists Records.
type Store interface {
	// Save stores a copy of record, assigning an ID and, if unset, a
	// timestamp. It returns the ID.
	Save(record Record) (string, error)
	// List returns matching records, newest first.
	List(filter Filter) ([]Record, error)
	Get(id string) (Record, error)
	Delete(id string) error
	// ClearOlderThan removes records older than age and returns how many went.
	ClearOlderThan(age time.Duration) (int, error)
	Statistics() (Statistics, error)
}

// MemoryStore is a Store held in process memory.
type MemoryStore struct {
	lock    sync.RWMutex
	records map[string]Record
	nextID  uint64
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]Record),
		now:     time.Now,
	}
}

func (s *MemoryStore) Save(record Record) (string, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.nextID++
	record.ID = strconv.FormatUint(s.nextID, 10)
	if record.Timestamp.IsZero() {
		record.Timestamp = s.now()
	}
	s.records[record.ID] = record
	return record.ID, nil
}

func (s *MemoryStore) List(filter Filter) ([]Record, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	records := make([]Record, 0, len(s.records))
	for _, record := range s.records {
		if filter.Algorithm != "" && record.Algorithm != filter.Algorithm {
			continue
		}
		if filter.FileType != "" && record.FileType != filter.FileType {
			continue
		}
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool {
		if !records[i].Timestamp.Equal(records[j].Timestamp) {
			return records[i].Timestamp.After(records[j].Timestamp)
		}
		return idLess(records[j].ID, records[i].ID)
	})
	if filter.Limit > 0 && len(records) > filter.Limit {
		records = records[:filter.Limit]
	}
	return records, nil
}

// idLess orders the numeric IDs handed out by Save.
func idLess(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}

func (s *MemoryStore) Get(id string) (Record, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	record, ok := s.records[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return record, nil
}

func (s *MemoryStore) Delete(id string) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.records[id]; !ok {
		return ErrNotFound
	}
	delete(s.records, id)
	return nil
}

func (s *MemoryStore) ClearOlderThan(age time.Duration) (int, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	cutoff := s.now().Add(-age)
	removed := 0
	for id, record := range s.records {
		if record.Timestamp.Before(cutoff) {
			delete(s.records, id)
			removed++
		}
	}
	return removed, nil
}

func (s *MemoryStore) Statistics() (Statistics, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	stats := Statistics{
		TotalCompressions: len(s.records),
		AlgorithmStats:    make(map[string]int),
		FileTypeStats:     make(map[string]int),
		AverageStats:      make(map[string]AlgorithmAverages),
	}
	for _, record := range s.records {
		stats.AlgorithmStats[record.Algorithm]++
		if record.FileType != "" {
			stats.FileTypeStats[record.FileType]++
		}
		averages := stats.AverageStats[record.Algorithm]
		averages.Count++
		averages.AvgRatio += record.CompressionRatio
		averages.AvgSavings += record.SpaceSavings
		stats.AverageStats[record.Algorithm] = averages
	}
	for algorithm, averages := range stats.AverageStats {
		averages.AvgRatio /= float64(averages.Count)
		averages.AvgSavings /= float64(averages.Count)
		stats.AverageStats[algorithm] = averages
	}
	return stats, nil
}

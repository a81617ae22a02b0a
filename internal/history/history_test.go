package history_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/adilg123/rle-huffman-lzw/internal/history"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, store history.Store) []string {
	base := time.Now().Add(-time.Hour)
	records := []history.Record{
		{Filename: "a.txt", FileType: "text", Algorithm: "rle", CompressionRatio: 0.5, SpaceSavings: 50},
		{Filename: "b.png", FileType: "image", Algorithm: "huffman", CompressionRatio: 0.8, SpaceSavings: 20},
		{Filename: "c.txt", FileType: "text", Algorithm: "rle", CompressionRatio: 1.5, SpaceSavings: -50},
		{Filename: "d.md", FileType: "document", Algorithm: "lzw", CompressionRatio: 0.25, SpaceSavings: 75},
	}
	ids := make([]string, len(records))
	for i, record := range records {
		record.Timestamp = base.Add(time.Duration(i) * time.Minute)
		id, err := store.Save(record)
		require.NoError(t, err)
		ids[i] = id
	}
	return ids
}

func TestMemoryStore__SaveAndGet(t *testing.T) {
	store := history.NewMemoryStore()
	ids := seed(t, store)
	assert.Len(t, ids, 4)

	record, err := store.Get(ids[1])
	require.NoError(t, err)
	assert.Equal(t, ids[1], record.ID)
	assert.Equal(t, "b.png", record.Filename)

	_, err = store.Get("missing")
	assert.ErrorIs(t, err, history.ErrNotFound)
}

func TestMemoryStore__SaveAssignsTimestamp(t *testing.T) {
	store := history.NewMemoryStore()
	before := time.Now()
	id, err := store.Save(history.Record{Algorithm: "rle"})
	require.NoError(t, err)

	record, err := store.Get(id)
	require.NoError(t, err)
	assert.False(t, record.Timestamp.Before(before))
}

func TestMemoryStore__List(t *testing.T) {
	store := history.NewMemoryStore()
	seed(t, store)

	tests := []struct {
		Name     string
		Filter   history.Filter
		Expected []string
	}{
		{"all newest first", history.Filter{}, []string{"d.md", "c.txt", "b.png", "a.txt"}},
		{"limit", history.Filter{Limit: 2}, []string{"d.md", "c.txt"}},
		{"algorithm", history.Filter{Algorithm: "rle"}, []string{"c.txt", "a.txt"}},
		{"file type", history.Filter{FileType: "image"}, []string{"b.png"}},
		{"combined", history.Filter{Algorithm: "rle", FileType: "text", Limit: 1}, []string{"c.txt"}},
		{"no match", history.Filter{Algorithm: "gzip"}, []string{}},
	}
	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			records, err := store.List(test.Filter)
			require.NoError(t, err)
			names := make([]string, len(records))
			for i, r := range records {
				names[i] = r.Filename
			}
			assert.Equal(t, test.Expected, names)
		})
	}
}

func TestMemoryStore__ListSameTimestamp(t *testing.T) {
	store := history.NewMemoryStore()
	now := time.Now()
	for i := 0; i < 12; i++ {
		_, err := store.Save(history.Record{Filename: fmt.Sprint(i), Timestamp: now})
		require.NoError(t, err)
	}

	records, err := store.List(history.Filter{Limit: 3})
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "11", records[0].Filename)
	assert.Equal(t, "10", records[1].Filename)
	assert.Equal(t, "9", records[2].Filename)
}

func TestMemoryStore__Delete(t *testing.T) {
	store := history.NewMemoryStore()
	ids := seed(t, store)

	require.NoError(t, store.Delete(ids[0]))
	_, err := store.Get(ids[0])
	assert.ErrorIs(t, err, history.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ids[0]), history.ErrNotFound)

	records, err := store.List(history.Filter{})
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestMemoryStore__ClearOlderThan(t *testing.T) {
	store := history.NewMemoryStore()
	seed(t, store)
	_, err := store.Save(history.Record{Filename: "old", Timestamp: time.Now().Add(-40 * 24 * time.Hour)})
	require.NoError(t, err)

	removed, err := store.ClearOlderThan(30 * 24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	removed, err = store.ClearOlderThan(30 * time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 4, removed)

	records, err := store.List(history.Filter{})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestMemoryStore__Statistics(t *testing.T) {
	store := history.NewMemoryStore()
	seed(t, store)

	stats, err := store.Statistics()
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalCompressions)
	assert.Equal(t, map[string]int{"rle": 2, "huffman": 1, "lzw": 1}, stats.AlgorithmStats)
	assert.Equal(t, map[string]int{"text": 2, "image": 1, "document": 1}, stats.FileTypeStats)

	rle := stats.AverageStats["rle"]
	assert.Equal(t, 2, rle.Count)
	assert.InDelta(t, 1.0, rle.AvgRatio, 1e-9)
	assert.InDelta(t, 0.0, rle.AvgSavings, 1e-9)
	assert.InDelta(t, 0.25, stats.AverageStats["lzw"].AvgRatio, 1e-9)
}

func TestMemoryStore__EmptyStatistics(t *testing.T) {
	stats, err := history.NewMemoryStore().Statistics()
	require.NoError(t, err)
	assert.Zero(t, stats.TotalCompressions)
	assert.Empty(t, stats.AverageStats)
}

func TestMemoryStore__Concurrent(t *testing.T) {
	store := history.NewMemoryStore()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Save(history.Record{Algorithm: "lzw"})
			assert.NoError(t, err)
			_, err = store.List(history.Filter{Limit: 5})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stats, err := store.Statistics()
	require.NoError(t, err)
	assert.Equal(t, 20, stats.TotalCompressions)
}

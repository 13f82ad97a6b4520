package repository

import (
	"context"
	"hash/fnv"
	"sort"
	"sync"

	"github.com/okian/zebu/pkg/metrics"
)

const defaultShardCount = 8

// MemStore is a sharded in-memory Store. Writes touch one shard; ranking
// reads scan all shards and sort, which is fine at herd scale.
type MemStore struct {
	shards []*shard
}

type shard struct {
	mu   sync.RWMutex
	data map[string]Prediction
}

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithShardCount sets the number of shards.
func WithShardCount(n int) Option {
	return func(s *MemStore) {
		if n > 0 {
			s.shards = make([]*shard, n)
		}
	}
}

// NewMemStore creates an in-memory store with configuration options.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{shards: make([]*shard, defaultShardCount)}
	for _, opt := range opts {
		opt(s)
	}
	for i := range s.shards {
		s.shards[i] = &shard{data: make(map[string]Prediction)}
	}
	return s
}

func (s *MemStore) shardFor(animalID string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(animalID))
	return s.shards[int(h.Sum32())%len(s.shards)]
}

// Put stores or replaces the prediction for its animal.
func (s *MemStore) Put(ctx context.Context, p Prediction) error {
	if p.AnimalID == "" {
		return ErrEmptyID
	}
	sh := s.shardFor(p.AnimalID)
	sh.mu.Lock()
	sh.data[p.AnimalID] = p
	sh.mu.Unlock()

	metrics.UpdateResultsStored(s.Count(ctx))
	return nil
}

// Get returns the latest prediction for an animal.
func (s *MemStore) Get(_ context.Context, animalID string) (Prediction, error) {
	if animalID == "" {
		return Prediction{}, ErrEmptyID
	}
	sh := s.shardFor(animalID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	p, ok := sh.data[animalID]
	if !ok {
		return Prediction{}, ErrNotFound
	}
	return p, nil
}

// TopN returns up to n predictions ordered by quality score descending,
// ties broken by animal ID for a stable ranking.
func (s *MemStore) TopN(_ context.Context, n int) ([]RankedPrediction, error) {
	if n <= 0 {
		return nil, ErrInvalidLimit
	}

	var all []Prediction
	for _, sh := range s.shards {
		sh.mu.RLock()
		for _, p := range sh.data {
			all = append(all, p)
		}
		sh.mu.RUnlock()
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].Quality.Score != all[j].Quality.Score {
			return all[i].Quality.Score > all[j].Quality.Score
		}
		return all[i].AnimalID < all[j].AnimalID
	})

	if n > len(all) {
		n = len(all)
	}
	out := make([]RankedPrediction, n)
	for i := 0; i < n; i++ {
		out[i] = RankedPrediction{Rank: i + 1, Prediction: all[i]}
	}
	return out, nil
}

// Count returns the number of animals with a stored prediction.
func (s *MemStore) Count(_ context.Context) int {
	total := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		total += len(sh.data)
		sh.mu.RUnlock()
	}
	return total
}

// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	jobqueue "github.com/okian/zebu/internal/adapters/mq/queue"
	workerpool "github.com/okian/zebu/internal/adapters/mq/worker"
	repository "github.com/okian/zebu/internal/adapters/repository"
	"github.com/okian/zebu/internal/domain/carcass"
	"github.com/okian/zebu/internal/domain/dedupe"
	"github.com/okian/zebu/internal/domain/genetics"
	"github.com/okian/zebu/internal/domain/growth"
	"github.com/okian/zebu/internal/domain/model"
	"github.com/okian/zebu/internal/domain/nutrition"
	"github.com/okian/zebu/pkg/logger"
	"github.com/okian/zebu/pkg/metrics"
)

// Service implements the API dependencies for the prediction engine.
type Service struct {
	mu sync.RWMutex

	// Core components
	catalog    *genetics.Catalog
	store      repository.Store
	deduper    dedupe.Deduper
	jobs       jobqueue.Queue
	engine     *engine
	workerPool *workerpool.Pool

	// Configuration
	workerCount int
	queueSize   int
	dedupeSize  int
	shardCount  int

	// State
	started bool
	stopCh  chan struct{}

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the job queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithShardCount sets the shard count of the result store.
func WithShardCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.shardCount = count
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs a new Service with default configuration. The breed
// catalog is built immediately so synchronous lookups work without
// Start; the asynchronous pipeline comes up in Start.
func New(opts ...Option) *Service {
	s := &Service{
		catalog:     genetics.NewCatalog(),
		workerCount: runtime.NumCPU() * 2,
		queueSize:   10000,
		dedupeSize:  50000,
		stopCh:      make(chan struct{}),
	}
	s.engine = newEngine(s.catalog)

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the asynchronous pipeline.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting prediction service...")

	storeOpts := []repository.Option{}
	if s.shardCount > 0 {
		storeOpts = append(storeOpts, repository.WithShardCount(s.shardCount))
	}
	s.store = repository.NewMemStore(storeOpts...)
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.jobs = jobqueue.NewInMemoryQueue(
		jobqueue.WithCapacity(s.queueSize),
	)

	s.workerPool = workerpool.NewPool(s.workerCount, s.jobs, s.engine, s.store)
	s.workerPool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "prediction service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("breeds", len(s.catalog.Breeds())),
	)

	return nil
}

// Stop gracefully shuts down the service. The queue closes first so
// in-flight jobs drain before the workers exit.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping prediction service...")

	if s.workerPool != nil {
		_ = s.workerPool.Shutdown(ctx)
	}

	select {
	case <-s.stopCh:
		// Channel already closed
	default:
		close(s.stopCh)
	}

	s.started = false
	s.logger.Info(ctx, "prediction service stopped")
}

// Breeds returns the full catalog, sorted by id.
func (s *Service) Breeds(_ context.Context) []genetics.BreedProfile {
	return s.catalog.Breeds()
}

// Breed looks up one catalog breed by id or name.
func (s *Service) Breed(_ context.Context, idOrName string) (genetics.BreedProfile, error) {
	if b, ok := s.catalog.Breed(idOrName); ok {
		return b, nil
	}
	if b, ok := s.catalog.BreedByName(idOrName); ok {
		return b, nil
	}
	return genetics.BreedProfile{}, fmt.Errorf("%w: %s", ErrUnknownBreed, idOrName)
}

// Hybrid computes the crossbred profile of two catalog breeds.
func (s *Service) Hybrid(ctx context.Context, sireID, damID string) (genetics.BreedProfile, error) {
	sire, err := s.Breed(ctx, sireID)
	if err != nil {
		return genetics.BreedProfile{}, err
	}
	dam, err := s.Breed(ctx, damID)
	if err != nil {
		return genetics.BreedProfile{}, err
	}
	return genetics.Hybrid(sire, dam), nil
}

// DietRequirements computes the nutrient requirement bundle and the
// breed-specific KPI targets for one animal snapshot.
func (s *Service) DietRequirements(
	_ context.Context,
	animal model.AnimalState,
	stage model.LifeStage,
	objective model.Objective,
	asOf time.Time,
) (nutrition.Requirement, nutrition.KPITargets) {
	breed := s.catalog.Resolve(animal.BreedID, animal.SireBreedID, animal.DamBreedID)
	targets := nutrition.KPITargetsFor(breed, stage, objective, animal.System)
	state := physiologicalState(animal, stage, objective, asOf)
	required := nutrition.Requirements(
		animal.DefaultWeight(),
		targets.TargetADG,
		animal.AgeMonths(asOf),
		state,
		animal.EffectiveSex(),
	)
	return required, targets
}

// ValidateDiet aggregates a candidate ration and returns its alerts and
// active synergies for one animal.
func (s *Service) ValidateDiet(
	ctx context.Context,
	animal model.AnimalState,
	stage model.LifeStage,
	objective model.Objective,
	ration model.Ration,
	asOf time.Time,
) ([]nutrition.Alert, []nutrition.Synergy) {
	required, _ := s.DietRequirements(ctx, animal, stage, objective, asOf)
	agg := ration.Aggregate()
	alerts := nutrition.ValidateDiet(agg, animal.System, required.ProteinPct)
	for _, a := range alerts {
		metrics.RecordDietAlert(string(a.Code), string(a.Severity))
	}
	synergies := nutrition.Synergies(agg, animal)
	for _, syn := range synergies {
		if syn.Active {
			metrics.RecordSynergyDetected()
		}
	}
	return alerts, synergies
}

// SimulateGrowth projects the growth trajectory for one animal.
func (s *Service) SimulateGrowth(_ context.Context, animal model.AnimalState, asOf time.Time) growth.Trajectory {
	breed := s.catalog.Resolve(animal.BreedID, animal.SireBreedID, animal.DamBreedID)
	return growth.Simulate(animal, breed, animal.System, asOf)
}

// PredictCarcass runs the synchronous carcass predictor for one animal.
func (s *Service) PredictCarcass(
	_ context.Context,
	animal model.AnimalState,
	dietEnergy, dailyGain float64,
	asOf time.Time,
) carcass.Result {
	breed := s.catalog.Resolve(animal.BreedID, animal.SireBreedID, animal.DamBreedID)
	opts := carcass.Options{Month: asOf.Month()}
	if animal.BreedID == "" && animal.SireBreedID != "" && animal.DamBreedID != "" {
		if sire, ok := s.catalog.Breed(animal.SireBreedID); ok {
			opts.Sire = &sire
		}
		if dam, ok := s.catalog.Breed(animal.DamBreedID); ok {
			opts.Dam = &dam
		}
	}
	result := carcass.Predict(
		animal.DefaultWeight(),
		animal.AgeMonths(asOf),
		breed,
		animal.EffectiveSex(),
		dietEnergy,
		dailyGain,
		opts,
	)
	if result.Premium {
		metrics.RecordPremiumCarcass()
	}
	return result
}

// SeenAndRecord atomically checks if a request id was seen and records
// it if not. Returns true if the request was already seen.
func (s *Service) SeenAndRecord(ctx context.Context, id string) bool {
	seen := s.deduper.SeenAndRecord(ctx, id)
	if seen {
		metrics.RecordPredictionRejected()
	}
	return seen
}

// Unrecord removes a request id from the seen list, allowing a retry.
func (s *Service) Unrecord(ctx context.Context, id string) {
	s.deduper.Unrecord(ctx, id)
}

// Enqueue submits a prediction job for asynchronous processing.
// Returns false under backpressure.
func (s *Service) Enqueue(ctx context.Context, job model.PredictionJob) bool {
	ok := s.jobs.Enqueue(ctx, job)
	if ok {
		metrics.UpdateQueueSize(s.jobs.Len(ctx))
	}
	return ok
}

// Prediction returns the latest stored result for an animal.
func (s *Service) Prediction(ctx context.Context, animalID string) (repository.Prediction, error) {
	return s.store.Get(ctx, animalID)
}

// Ranking returns the top N animals by composite quality index.
func (s *Service) Ranking(ctx context.Context, n int) ([]repository.RankedPrediction, error) {
	return s.store.TopN(ctx, n)
}

// Stats is a point-in-time snapshot of the prediction pipeline.
// QueueLength and TotalAnimals are only meaningful while started.
type Stats struct {
	Started      bool `json:"started"`
	WorkerCount  int  `json:"worker_count"`
	QueueSize    int  `json:"queue_size"`
	DedupeSize   int  `json:"dedupe_size"`
	Breeds       int  `json:"breeds"`
	QueueLength  int  `json:"queue_length"`
	TotalAnimals int  `json:"total_animals"`
}

// GetStats snapshots the pipeline state and refreshes the queue and
// store gauges while it is at it.
func (s *Service) GetStats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := Stats{
		Started:     s.started,
		WorkerCount: s.workerCount,
		QueueSize:   s.queueSize,
		DedupeSize:  s.dedupeSize,
		Breeds:      len(s.catalog.Breeds()),
	}

	if s.started {
		stats.QueueLength = s.jobs.Len(ctx)
		stats.TotalAnimals = s.store.Count(ctx)

		metrics.UpdateQueueSize(stats.QueueLength)
		metrics.UpdateResultsStored(stats.TotalAnimals)
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}

// Size returns the current number of entries in the deduper.
func (s *Service) Size() int64 {
	if s.deduper == nil {
		return 0
	}
	return s.deduper.Size()
}

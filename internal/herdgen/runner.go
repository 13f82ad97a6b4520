package herdgen

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/zebu/pkg/logger"
)

const (
	drainPollInterval = 250 * time.Millisecond
	drainTimeout      = 60 * time.Second
	verifySampleSize  = 50
)

// Run executes the full herd test: generate animals, submit them,
// wait for the pipeline to drain, then verify stored results.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Named("herdgen")
	client := NewHTTPClient(config, log)

	log.Info(ctx, "starting herd test run",
		logger.String("base_url", config.BaseURL),
		logger.Int("animals", config.Animals),
		logger.Int("batch_size", config.BatchSize),
		logger.Int("workers", config.Workers))

	if err := client.CheckHealth(ctx); err != nil {
		return fmt.Errorf("service not reachable: %w", err)
	}

	items := GenerateAnimals(ctx, config, log)
	stats.AnimalsGenerated = len(items)

	if err := client.SubmitBatches(ctx, items, config, stats); err != nil {
		return err
	}

	if err := waitForResults(ctx, client, items, stats, log); err != nil {
		return err
	}

	if err := verifyRanking(ctx, client, config, stats, log); err != nil {
		return err
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	logFinalStats(ctx, stats, log)
	return nil
}

// waitForResults polls a sample of animals until their predictions are
// stored or the drain timeout expires.
func waitForResults(ctx context.Context, client *HTTPClient, items []batchItem, stats *Stats, log logger.Logger) error {
	sample := items
	if len(sample) > verifySampleSize {
		sample = sample[:verifySampleSize]
	}

	log.Info(ctx, "waiting for predictions", logger.Int("sample", len(sample)))

	deadline := time.Now().Add(drainTimeout)
	pending := make(map[string]bool, len(sample))
	for _, item := range sample {
		pending[item.Animal.ID] = true
	}

	for len(pending) > 0 && time.Now().Before(deadline) {
		for id := range pending {
			pred, err := client.GetPrediction(ctx, id)
			if err != nil {
				return err
			}
			if pred != nil {
				delete(pending, id)
				stats.ResultsVerified++
			}
		}
		if len(pending) == 0 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(drainPollInterval):
		}
	}

	stats.ResultsMissing = len(pending)
	if len(pending) > 0 {
		log.Warn(ctx, "some predictions never appeared", logger.Int("missing", len(pending)))
		return fmt.Errorf("%d of %d sampled predictions missing after %s", len(pending), len(sample), drainTimeout)
	}
	log.Info(ctx, "all sampled predictions stored", logger.Int("verified", stats.ResultsVerified))
	return nil
}

// verifyRanking fetches the ranking and checks ordering invariants.
func verifyRanking(ctx context.Context, client *HTTPClient, config *Config, stats *Stats, log logger.Logger) error {
	entries, err := client.GetRanking(ctx, config.TopN)
	if err != nil {
		return err
	}
	stats.RankingEntries = len(entries)

	for i, entry := range entries {
		if entry.Rank != i+1 {
			return fmt.Errorf("ranking entry %d has rank %d", i, entry.Rank)
		}
		if i > 0 && entry.QualityScore > entries[i-1].QualityScore {
			return fmt.Errorf("ranking not sorted at position %d: %.2f > %.2f",
				i, entry.QualityScore, entries[i-1].QualityScore)
		}
	}

	log.Info(ctx, "ranking verified", logger.Int("entries", len(entries)))
	if len(entries) > 0 {
		top := entries[0]
		log.Info(ctx, "top ranked animal",
			logger.String("animal_id", top.AnimalID),
			logger.String("breed", top.BreedName),
			logger.Float64("score", top.QualityScore),
			logger.Any("premium", top.Premium))
	}
	return nil
}

func logFinalStats(ctx context.Context, stats *Stats, log logger.Logger) {
	log.Info(ctx, "herd test completed",
		logger.Int("animals_generated", stats.AnimalsGenerated),
		logger.Int("batches_submitted", stats.BatchesSubmitted),
		logger.Int("batches_accepted", stats.BatchesAccepted),
		logger.Int("batches_failed", stats.BatchesFailed),
		logger.Int("results_verified", stats.ResultsVerified),
		logger.Int("results_missing", stats.ResultsMissing),
		logger.Int("ranking_entries", stats.RankingEntries),
		logger.Any("duration", stats.Duration.Round(time.Millisecond)))
}

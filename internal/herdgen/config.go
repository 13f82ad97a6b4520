// Package herdgen generates synthetic herd snapshots and drives the
// prediction API end to end, verifying stored results and the ranking.
package herdgen

import "time"

// Config holds configuration for the herd test run.
type Config struct {
	BaseURL   string        // Base URL of the service
	Animals   int           // Number of animals to generate
	BatchSize int           // Animals per batch submission
	TopN      int           // Number of ranking entries to fetch
	Workers   int           // Number of concurrent submitters
	Timeout   time.Duration // HTTP request timeout
	Verbose   bool          // Enable verbose logging
}

// AckResponse mirrors the batch submission acknowledgement.
type AckResponse struct {
	Status    string `json:"status"`
	RequestID string `json:"request_id"`
	Accepted  int    `json:"accepted"`
	Duplicate bool   `json:"duplicate"`
}

// RankingEntry mirrors one /v1/ranking entry.
type RankingEntry struct {
	Rank         int     `json:"rank"`
	AnimalID     string  `json:"animal_id"`
	BreedName    string  `json:"breed_name"`
	QualityScore float64 `json:"quality_score"`
	Premium      bool    `json:"premium"`
}

// Stats holds test statistics.
type Stats struct {
	AnimalsGenerated int
	BatchesSubmitted int
	BatchesAccepted  int
	BatchesFailed    int
	ResultsVerified  int
	ResultsMissing   int
	RankingEntries   int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}

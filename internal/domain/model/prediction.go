package model

import "time"

// Observation carries optional weighing-day measurements feeding the
// quality index. Zero values fall back to neutral defaults downstream.
type Observation struct {
	// THI is the temperature-humidity index at weighing.
	THI        float64
	DaysOnFeed float64
	// DietStability in [0,1]; 1 means no recent ration changes.
	DietStability float64
	// Health in [0,1]; 1 is fully healthy.
	Health float64
	// DailyGainKG is the realized average daily gain, if measured.
	DailyGainKG float64
}

// PredictionJob is one unit of asynchronous batch work: run the full
// engine for one animal snapshot as of a fixed instant.
type PredictionJob struct {
	// RequestID identifies the batch submission for idempotency.
	RequestID string
	Animal    AnimalState
	Objective Objective
	Stage     LifeStage
	Ration    Ration
	Obs       Observation
	// AsOf anchors all simulation time; the engine never reads the
	// wall clock.
	AsOf time.Time
}

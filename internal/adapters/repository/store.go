// Package repository defines the prediction result store and errors.
package repository

import (
	"context"
	"time"

	"github.com/okian/zebu/internal/domain/carcass"
	"github.com/okian/zebu/internal/domain/growth"
	"github.com/okian/zebu/internal/domain/nutrition"
)

// Prediction is the stored outcome of one full engine run for an animal.
// Pure data; safe to hand out by value.
type Prediction struct {
	AnimalID   string                 `json:"animal_id"`
	RequestID  string                 `json:"request_id"`
	ComputedAt time.Time              `json:"computed_at"`
	BreedName  string                 `json:"breed_name"`
	Projected  growth.Trajectory      `json:"projected"`
	Required   nutrition.Requirement  `json:"required"`
	Targets    nutrition.KPITargets   `json:"targets"`
	Alerts     []nutrition.Alert      `json:"alerts"`
	Synergies  []nutrition.Synergy    `json:"synergies"`
	Carcass    carcass.Result         `json:"carcass"`
	Quality    carcass.QualityResult  `json:"quality"`
}

// RankedPrediction pairs a stored prediction with its quality rank.
type RankedPrediction struct {
	Rank int `json:"rank"`
	Prediction
}

// Store provides read/write access to the latest prediction per animal.
type Store interface {
	// Put stores or replaces the prediction for its animal.
	Put(ctx context.Context, p Prediction) error

	// Get returns the latest prediction for an animal.
	// Returns ErrNotFound if the animal has none.
	Get(ctx context.Context, animalID string) (Prediction, error)

	// TopN returns up to n predictions ordered by quality score desc.
	TopN(ctx context.Context, n int) ([]RankedPrediction, error)

	// Count returns the number of animals with a stored prediction.
	Count(ctx context.Context) int
}

package herdgen

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/zebu/pkg/logger"
)

// animalPayload mirrors the animal shape accepted by the predictions API.
type animalPayload struct {
	ID          string  `json:"id"`
	BirthDate   string  `json:"birth_date"`
	Sex         string  `json:"sex"`
	WeightKG    float64 `json:"weight_kg"`
	BreedID     string  `json:"breed_id,omitempty"`
	SireBreedID string  `json:"sire_breed_id,omitempty"`
	DamBreedID  string  `json:"dam_breed_id,omitempty"`
	System      string  `json:"system"`
	Steer       bool    `json:"steer"`
}

type observationPayload struct {
	THI           float64 `json:"thi,omitempty"`
	DaysOnFeed    float64 `json:"days_on_feed,omitempty"`
	DietStability float64 `json:"diet_stability,omitempty"`
	Health        float64 `json:"health,omitempty"`
	DailyGainKG   float64 `json:"daily_gain_kg,omitempty"`
}

type batchItem struct {
	Animal    animalPayload      `json:"animal"`
	Stage     string             `json:"stage,omitempty"`
	Objective string             `json:"objective,omitempty"`
	Obs       observationPayload `json:"observation,omitempty"`
}

type batchRequest struct {
	RequestID string      `json:"request_id"`
	AsOf      string      `json:"as_of,omitempty"`
	Animals   []batchItem `json:"animals"`
}

var breedIDs = []string{"AN", "HE", "LI", "CH", "BB", "RE", "AV", "MO", "HO", "BR", "NE"}

// GenerateAnimals builds count synthetic animal snapshots concurrently.
func GenerateAnimals(ctx context.Context, config *Config, log logger.Logger) []batchItem {
	log.Info(ctx, "generating animals",
		logger.Int("count", config.Animals),
		logger.Int("workers", config.Workers))

	items := make([]batchItem, config.Animals)
	indexes := make(chan int, config.Animals)
	for i := 0; i < config.Animals; i++ {
		indexes <- i
	}
	close(indexes)

	var wg sync.WaitGroup
	for w := 0; w < config.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				items[i] = generateAnimal(i)
			}
		}()
	}
	wg.Wait()

	log.Info(ctx, "animal generation completed", logger.Int("count", len(items)))
	return items
}

// generateAnimal produces one snapshot with a varied profile so the
// resulting herd exercises different breeds, systems and finish levels.
func generateAnimal(index int) batchItem {
	id := uuid.New().String()
	ageMonths := 8 + randomInt(28)
	birth := time.Now().UTC().AddDate(0, -ageMonths, -randomInt(28))

	animal := animalPayload{
		ID:        id,
		BirthDate: birth.Format("2006-01-02"),
		WeightKG:  180 + randomFloat(450),
	}

	switch index % 8 {
	case 0: // purebred feedlot steer
		animal.BreedID = pickBreed()
		animal.Sex = "male"
		animal.Steer = true
		animal.System = "feedlot"
	case 1: // hybrid feedlot steer
		animal.SireBreedID = pickBreed()
		animal.DamBreedID = pickBreed()
		animal.Sex = "male"
		animal.Steer = true
		animal.System = "feedlot"
	case 2: // grazing heifer
		animal.BreedID = pickBreed()
		animal.Sex = "female"
		animal.System = "grazing"
	case 3: // montanera finisher
		animal.BreedID = "RE"
		animal.Sex = "male"
		animal.Steer = true
		animal.System = "montanera"
	case 4: // intact bull on mixed system
		animal.BreedID = pickBreed()
		animal.Sex = "male"
		animal.System = "mixed"
	case 5: // hybrid grazing female
		animal.SireBreedID = "CH"
		animal.DamBreedID = pickBreed()
		animal.Sex = "female"
		animal.System = "grazing"
	case 6: // heat-adapted feedlot animal
		animal.BreedID = "NE"
		animal.Sex = "male"
		animal.Steer = true
		animal.System = "feedlot"
	default:
		animal.BreedID = pickBreed()
		animal.Sex = "female"
		animal.System = "feedlot"
	}

	item := batchItem{Animal: animal}
	if ageMonths >= 18 {
		item.Stage = "finishing"
		item.Objective = "finish"
		item.Obs = observationPayload{
			DaysOnFeed:  float64(30 + randomInt(240)),
			DailyGainKG: 0.6 + randomFloat(100)/100.0,
		}
	} else {
		item.Stage = "rearing"
		item.Objective = "growth"
	}
	return item
}

func pickBreed() string {
	return breedIDs[randomInt(len(breedIDs))]
}

// randomInt returns a cryptographically random int in [0, max).
func randomInt(max int) int {
	if max <= 0 {
		return 0
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		return 0
	}
	return int(n.Int64())
}

// randomFloat returns a random float in [0, max) with two decimal places.
func randomFloat(max int) float64 {
	whole := randomInt(max)
	cents := randomInt(100)
	return float64(whole) + float64(cents)/100.0
}

// batchID builds a deterministic-looking request id for a batch index.
func batchID(index int) string {
	return fmt.Sprintf("herdgen-%s-%d", uuid.New().String()[:8], index)
}

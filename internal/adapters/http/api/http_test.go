package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/zebu/internal/adapters/http/api"
	service "github.com/okian/zebu/internal/app"
	"github.com/okian/zebu/internal/domain/model"
	"github.com/okian/zebu/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

const maxRankingLimit = 100

// newTestServer wires a started service behind the full route table.
func newTestServer(t *testing.T) (*httptest.Server, *service.Service) {
	t.Helper()

	svc := service.New(
		service.WithWorkerCount(2),
		service.WithQueueSize(100),
		service.WithDedupeSize(100),
	)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	t.Cleanup(svc.Stop)

	mux := http.NewServeMux()
	api.NewServer(svc, svc, maxRankingLimit).Register(context.Background(), mux)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts, svc
}

func postJSON(t *testing.T, url string, body any) (*http.Response, []byte) {
	t.Helper()
	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(buf)) //nolint:noctx
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	defer resp.Body.Close()
	var out bytes.Buffer
	_, _ = out.ReadFrom(resp.Body)
	return resp, out.Bytes()
}

func getJSON(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url) //nolint:noctx
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	defer resp.Body.Close()
	var out bytes.Buffer
	_, _ = out.ReadFrom(resp.Body)
	return resp, out.Bytes()
}

func testAnimal(id string) map[string]any {
	return map[string]any{
		"id":         id,
		"birth_date": "2023-06-15",
		"sex":        "male",
		"weight_kg":  520,
		"breed_id":   "AN",
		"system":     "feedlot",
		"steer":      true,
	}
}

func TestBreedEndpoints(t *testing.T) {
	ts, _ := newTestServer(t)

	Convey("Given the breed catalog endpoints", t, func() {
		Convey("When listing breeds", func() {
			resp, body := getJSON(t, ts.URL+"/v1/breeds")

			Convey("Then the full catalog comes back", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var breeds []map[string]any
				So(json.Unmarshal(body, &breeds), ShouldBeNil)
				So(len(breeds), ShouldBeGreaterThan, 5)
			})
		})

		Convey("When fetching one breed by id", func() {
			resp, body := getJSON(t, ts.URL+"/v1/breeds/AN")

			Convey("Then the profile comes back", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var breed map[string]any
				So(json.Unmarshal(body, &breed), ShouldBeNil)
				So(breed["name"], ShouldEqual, "Angus")
			})
		})

		Convey("When fetching an unknown breed", func() {
			resp, _ := getJSON(t, ts.URL+"/v1/breeds/nope")

			Convey("Then it should report not found", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When computing a hybrid", func() {
			resp, body := postJSON(t, ts.URL+"/v1/hybrid", map[string]any{
				"sire_breed_id": "LI",
				"dam_breed_id":  "BR",
			})

			Convey("Then a derived profile comes back", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var hybrid map[string]any
				So(json.Unmarshal(body, &hybrid), ShouldBeNil)
				So(hybrid["hybrid"], ShouldEqual, true)
				So(hybrid["sire_name"], ShouldEqual, "Limousin")
			})
		})

		Convey("When computing a hybrid with a missing parent", func() {
			resp, _ := postJSON(t, ts.URL+"/v1/hybrid", map[string]any{"sire_breed_id": "LI"})

			Convey("Then it should reject the request", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When computing a hybrid with an unknown parent", func() {
			resp, _ := postJSON(t, ts.URL+"/v1/hybrid", map[string]any{
				"sire_breed_id": "LI",
				"dam_breed_id":  "zz",
			})

			Convey("Then it should report not found", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestDietEndpoints(t *testing.T) {
	ts, _ := newTestServer(t)

	Convey("Given the diet endpoints", t, func() {
		Convey("When computing requirements", func() {
			resp, body := postJSON(t, ts.URL+"/v1/diet/requirements", map[string]any{
				"animal":    testAnimal("cow-1"),
				"stage":     "finishing",
				"objective": "growth",
				"as_of":     "2025-06-15",
			})

			Convey("Then both bundles come back populated", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var out struct {
					Required struct {
						IntakeKGDM float64 `json:"intake_kg_dm"`
						ProteinPct float64 `json:"protein_pct"`
					} `json:"required"`
					Targets struct {
						TargetADG float64 `json:"target_adg"`
					} `json:"targets"`
				}
				So(json.Unmarshal(body, &out), ShouldBeNil)
				So(out.Required.IntakeKGDM, ShouldBeGreaterThan, 0)
				So(out.Required.ProteinPct, ShouldBeGreaterThan, 0)
				So(out.Targets.TargetADG, ShouldBeGreaterThan, 0)
			})
		})

		Convey("When the animal payload is invalid", func() {
			bad := testAnimal("cow-1")
			bad["sex"] = "unknown"
			resp, _ := postJSON(t, ts.URL+"/v1/diet/requirements", map[string]any{"animal": bad})

			Convey("Then it should reject the request", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When validating a low-fiber feedlot ration", func() {
			resp, body := postJSON(t, ts.URL+"/v1/diet/validate", map[string]any{
				"animal":    testAnimal("cow-1"),
				"stage":     "finishing",
				"objective": "growth",
				"as_of":     "2025-06-15",
				"ration": []map[string]any{
					{
						"feed": map[string]any{
							"id": "corn", "name": "Corn grain", "category": "concentrate",
							"dry_matter_pct": 88, "energy_mcal_per_kg": 3.2,
							"protein_pct": 9, "fiber_pct": 3, "cost_per_kg": 0.3,
						},
						"fresh_kg": 10,
					},
				},
			})

			Convey("Then the acidosis alert fires", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var out struct {
					Alerts []struct {
						Code     string `json:"code"`
						Severity string `json:"severity"`
					} `json:"alerts"`
				}
				So(json.Unmarshal(body, &out), ShouldBeNil)
				found := false
				for _, a := range out.Alerts {
					if a.Code == "ACIDOSIS" {
						found = true
						So(a.Severity, ShouldEqual, "critical")
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When validating without a ration", func() {
			resp, _ := postJSON(t, ts.URL+"/v1/diet/validate", map[string]any{
				"animal": testAnimal("cow-1"),
			})

			Convey("Then it should reject the request", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestGrowthAndCarcassEndpoints(t *testing.T) {
	ts, _ := newTestServer(t)

	Convey("Given the growth and carcass endpoints", t, func() {
		Convey("When simulating growth", func() {
			resp, body := postJSON(t, ts.URL+"/v1/growth/simulate", map[string]any{
				"animal": testAnimal("cow-1"),
				"as_of":  "2025-06-15",
			})

			Convey("Then a monthly trajectory comes back", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var traj struct {
					Points        []map[string]any `json:"points"`
					FinalWeightKG float64          `json:"final_weight_kg"`
				}
				So(json.Unmarshal(body, &traj), ShouldBeNil)
				So(len(traj.Points), ShouldBeGreaterThan, 12)
				So(traj.FinalWeightKG, ShouldBeGreaterThan, 40)
			})
		})

		Convey("When simulating without a birth date", func() {
			animal := testAnimal("cow-1")
			delete(animal, "birth_date")
			resp, _ := postJSON(t, ts.URL+"/v1/growth/simulate", map[string]any{"animal": animal})

			Convey("Then it should reject the request", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When predicting a carcass", func() {
			resp, body := postJSON(t, ts.URL+"/v1/carcass", map[string]any{
				"animal":                  testAnimal("cow-1"),
				"diet_energy_mcal_per_kg": 2.6,
				"daily_gain_kg":           1.3,
				"as_of":                   "2025-06-15",
			})

			Convey("Then the result stays within bounds", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var result struct {
					YieldFraction float64 `json:"yield_fraction"`
					BMS           int     `json:"bms"`
					Conformation  string  `json:"conformation"`
				}
				So(json.Unmarshal(body, &result), ShouldBeNil)
				So(result.YieldFraction, ShouldBeBetweenOrEqual, 0.45, 0.70)
				So(result.BMS, ShouldBeBetweenOrEqual, 1, 12)
				So(result.Conformation, ShouldBeIn, "P", "O", "R", "U", "E", "S")
			})
		})

		Convey("When predicting without diet energy", func() {
			resp, _ := postJSON(t, ts.URL+"/v1/carcass", map[string]any{
				"animal":        testAnimal("cow-1"),
				"daily_gain_kg": 1.3,
			})

			Convey("Then it should reject the request", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

func TestPredictionEndpoints(t *testing.T) {
	ts, _ := newTestServer(t)

	waitForPrediction := func(animalID string) int {
		deadline := time.Now().Add(5 * time.Second)
		for time.Now().Before(deadline) {
			resp, _ := getJSON(t, ts.URL+"/v1/predictions/"+animalID)
			if resp.StatusCode == http.StatusOK {
				return resp.StatusCode
			}
			time.Sleep(10 * time.Millisecond)
		}
		return http.StatusNotFound
	}

	Convey("Given the async prediction endpoints", t, func() {
		batch := map[string]any{
			"request_id": "batch-1",
			"as_of":      "2025-06-15",
			"animals": []map[string]any{
				{"animal": testAnimal("cow-a"), "stage": "finishing"},
				{"animal": testAnimal("cow-b"), "stage": "finishing"},
			},
		}

		Convey("When submitting a batch", func() {
			resp, body := postJSON(t, ts.URL+"/v1/predictions", batch)

			Convey("Then it should be accepted", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusAccepted)
				var ack struct {
					Status   string `json:"status"`
					Accepted int    `json:"accepted"`
				}
				So(json.Unmarshal(body, &ack), ShouldBeNil)
				So(ack.Status, ShouldEqual, "accepted")
				So(ack.Accepted, ShouldEqual, 2)
			})

			Convey("And resubmitting the same request id reports duplicate", func() {
				dupResp, dupBody := postJSON(t, ts.URL+"/v1/predictions", batch)
				So(dupResp.StatusCode, ShouldEqual, http.StatusOK)
				var ack struct {
					Status    string `json:"status"`
					Duplicate bool   `json:"duplicate"`
				}
				So(json.Unmarshal(dupBody, &ack), ShouldBeNil)
				So(ack.Duplicate, ShouldBeTrue)
			})

			Convey("And the results become readable", func() {
				So(waitForPrediction("cow-a"), ShouldEqual, http.StatusOK)
				So(waitForPrediction("cow-b"), ShouldEqual, http.StatusOK)

				Convey("And the ranking lists both animals", func() {
					resp, body := getJSON(t, ts.URL+"/v1/ranking?limit=10")
					So(resp.StatusCode, ShouldEqual, http.StatusOK)
					var entries []struct {
						Rank         int     `json:"rank"`
						AnimalID     string  `json:"animal_id"`
						QualityScore float64 `json:"quality_score"`
					}
					So(json.Unmarshal(body, &entries), ShouldBeNil)
					So(len(entries), ShouldEqual, 2)
					So(entries[0].Rank, ShouldEqual, 1)
					So(entries[0].QualityScore, ShouldBeGreaterThanOrEqualTo, entries[1].QualityScore)
				})
			})
		})

		Convey("When submitting an empty batch", func() {
			resp, _ := postJSON(t, ts.URL+"/v1/predictions", map[string]any{"request_id": "batch-2"})

			Convey("Then it should reject the request", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When reading an animal without results", func() {
			resp, _ := getJSON(t, ts.URL+"/v1/predictions/ghost")

			Convey("Then it should report not found", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When asking for a malformed ranking limit", func() {
			resp, _ := getJSON(t, ts.URL+"/v1/ranking?limit=zero")
			So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)

			Convey("And an oversized limit is rejected too", func() {
				resp, _ := getJSON(t, fmt.Sprintf("%s/v1/ranking?limit=%d", ts.URL, maxRankingLimit+1))
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})
	})
}

// backpressureDeps overrides Enqueue to simulate a saturated queue.
type backpressureDeps struct {
	*service.Service
}

func (b backpressureDeps) Enqueue(_ context.Context, _ model.PredictionJob) bool {
	return false
}

func TestPredictionBackpressure(t *testing.T) {
	Convey("Given a saturated queue", t, func() {
		svc := service.New(service.WithWorkerCount(1))
		So(svc.Start(context.Background()), ShouldBeNil)
		defer svc.Stop()

		mux := http.NewServeMux()
		api.NewServer(backpressureDeps{svc}, svc, maxRankingLimit).Register(context.Background(), mux)
		ts := httptest.NewServer(mux)
		defer ts.Close()

		Convey("When submitting a batch", func() {
			resp, _ := postJSON(t, ts.URL+"/v1/predictions", map[string]any{
				"request_id": "batch-bp",
				"animals":    []map[string]any{{"animal": testAnimal("cow-bp")}},
			})

			Convey("Then it should report backpressure", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusTooManyRequests)
			})

			Convey("And the request id is unrecorded for retry", func() {
				So(svc.SeenAndRecord(context.Background(), "batch-bp"), ShouldBeFalse)
			})
		})
	})
}

func TestOperationalEndpoints(t *testing.T) {
	ts, _ := newTestServer(t)

	Convey("Given the operational endpoints", t, func() {
		Convey("When scraping /healthz", func() {
			resp, body := getJSON(t, ts.URL+"/healthz")

			Convey("Then Prometheus metrics come back", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(string(body), ShouldContainSubstring, "zebu_engine")
			})
		})

		Convey("When reading /stats", func() {
			resp, body := getJSON(t, ts.URL+"/stats")

			Convey("Then the typed snapshot comes back", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				var stats service.Stats
				So(json.Unmarshal(body, &stats), ShouldBeNil)
				So(stats.Started, ShouldBeTrue)
				So(stats.Breeds, ShouldBeGreaterThan, 0)
				So(stats.WorkerCount, ShouldBeGreaterThan, 0)
			})
		})
	})
}

package herdgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/zebu/pkg/logger"
)

// HTTPClient wraps an HTTP client for talking to the prediction service.
type HTTPClient struct {
	client  *http.Client
	baseURL string
	verbose bool
	log     logger.Logger
}

// NewHTTPClient creates a client for the given configuration.
func NewHTTPClient(config *Config, log logger.Logger) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: config.Timeout},
		baseURL: config.BaseURL,
		verbose: config.Verbose,
		log:     log,
	}
}

// CheckHealth verifies the service is reachable before the run starts.
func (c *HTTPClient) CheckHealth(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return fmt.Errorf("create health request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}
	return nil
}

// SubmitBatches splits the herd into batches and submits them concurrently.
func (c *HTTPClient) SubmitBatches(ctx context.Context, items []batchItem, config *Config, stats *Stats) error {
	batches := make([]batchRequest, 0, (len(items)+config.BatchSize-1)/config.BatchSize)
	for i := 0; i < len(items); i += config.BatchSize {
		end := i + config.BatchSize
		if end > len(items) {
			end = len(items)
		}
		batches = append(batches, batchRequest{
			RequestID: batchID(len(batches)),
			Animals:   items[i:end],
		})
	}
	stats.BatchesSubmitted = len(batches)

	c.log.Info(ctx, "submitting batches",
		logger.Int("batches", len(batches)),
		logger.Int("workers", config.Workers))

	var accepted, failed int64
	work := make(chan batchRequest, len(batches))
	for _, b := range batches {
		work <- b
	}
	close(work)

	var wg sync.WaitGroup
	for w := 0; w < config.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for batch := range work {
				if err := c.submitBatch(ctx, batch); err != nil {
					atomic.AddInt64(&failed, 1)
					c.log.Warn(ctx, "batch submission failed",
						logger.String("request_id", batch.RequestID),
						logger.Error(err))
					continue
				}
				atomic.AddInt64(&accepted, 1)
			}
		}()
	}
	wg.Wait()

	stats.BatchesAccepted = int(accepted)
	stats.BatchesFailed = int(failed)
	c.log.Info(ctx, "batch submission completed",
		logger.Int("accepted", int(accepted)),
		logger.Int("failed", int(failed)))
	if failed > 0 {
		return fmt.Errorf("%d of %d batches failed", failed, len(batches))
	}
	return nil
}

// submitBatch posts one batch, retrying on backpressure.
func (c *HTTPClient) submitBatch(ctx context.Context, batch batchRequest) error {
	const maxAttempts = 5

	body, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("marshal batch: %w", err)
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/predictions", bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			return fmt.Errorf("submit batch: %w", err)
		}

		var ack AckResponse
		decodeErr := json.NewDecoder(resp.Body).Decode(&ack)
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		switch resp.StatusCode {
		case http.StatusAccepted:
			if c.verbose {
				c.log.Info(ctx, "batch accepted",
					logger.String("request_id", batch.RequestID),
					logger.Int("animals", ack.Accepted))
			}
			return nil
		case http.StatusOK:
			if decodeErr == nil && ack.Duplicate {
				c.log.Warn(ctx, "batch was a duplicate", logger.String("request_id", batch.RequestID))
				return nil
			}
			return fmt.Errorf("unexpected 200 response for batch %s", batch.RequestID)
		case http.StatusTooManyRequests:
			backoff := time.Duration(attempt) * 200 * time.Millisecond
			c.log.Warn(ctx, "backpressure, retrying",
				logger.String("request_id", batch.RequestID),
				logger.Int("attempt", attempt),
				logger.Any("backoff", backoff))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		default:
			return fmt.Errorf("batch %s rejected with status %d", batch.RequestID, resp.StatusCode)
		}
	}
	return fmt.Errorf("batch %s still throttled after %d attempts", batch.RequestID, maxAttempts)
}

// GetPrediction fetches the stored prediction for one animal.
func (c *HTTPClient) GetPrediction(ctx context.Context, animalID string) (map[string]interface{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/predictions/"+animalID, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get prediction: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("prediction for %s returned status %d", animalID, resp.StatusCode)
	}
	var out map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode prediction: %w", err)
	}
	return out, nil
}

// GetRanking fetches the top n ranking entries.
func (c *HTTPClient) GetRanking(ctx context.Context, n int) ([]RankingEntry, error) {
	url := fmt.Sprintf("%s/v1/ranking?limit=%d", c.baseURL, n)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get ranking: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ranking returned status %d", resp.StatusCode)
	}
	var entries []RankingEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode ranking: %w", err)
	}
	return entries, nil
}

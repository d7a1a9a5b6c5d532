// Package smoke drives a running server through every endpoint and checks
// the responses.
package smoke

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/okian/solhttp/internal/domain/types"
	"github.com/okian/solhttp/pkg/logger"
)

// ErrChecksFailed is returned by Run when at least one check failed.
var ErrChecksFailed = errors.New("smoke checks failed")

// Run executes the complete smoke test.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	runID := uuid.NewString()[:8]
	ctx = logger.WithRequestID(ctx, runID)

	workers := config.Workers
	if workers < 1 {
		workers = 1
	}

	logger.Get().Info(ctx, "starting smoke test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("rounds", config.Rounds),
		logger.Int("workers", workers),
		logger.Duration("timeout", config.Timeout),
		logger.Bool("verbose", config.Verbose))

	client := NewClient(config.BaseURL, runID, config.Timeout)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Run rounds concurrently
	failures := runRounds(ctx, client, config, workers, stats)

	// Final statistics
	stats.Requests = client.Requests()
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	if len(failures) > 0 {
		return stats, fmt.Errorf("%w: %d of %d checks, first: round %d %s: %s", ErrChecksFailed,
			stats.ChecksFailed, stats.ChecksPassed+stats.ChecksFailed,
			failures[0].Round, failures[0].Check, failures[0].Detail)
	}
	if err := ctx.Err(); err != nil {
		return stats, fmt.Errorf("smoke test interrupted: %w", err)
	}

	logger.Get().Info(ctx, "smoke test completed successfully")
	return stats, nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *Client) error {
	logger.Get().Info(ctx, "checking service health")

	res, err := call[types.Health](ctx, client, http.MethodGet, "/health", nil)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if res.Status != http.StatusOK || !res.Envelope.Success || res.Envelope.Data == nil {
		return fmt.Errorf("service health check failed with status: %d", res.Status)
	}

	logger.Get().Info(ctx, "service is healthy",
		logger.String("version", res.Envelope.Data.Version),
		logger.String("uptime", res.Envelope.Data.Uptime))
	return nil
}

// runRounds fans rounds out over a worker pool and merges their results.
func runRounds(ctx context.Context, client *Client, config *Config, workers int, stats *Stats) []Failure {
	jobs := make(chan int, workers*WorkerChannelMultiplier)
	results := make(chan *round, workers*WorkerChannelMultiplier)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				if ctx.Err() != nil {
					continue
				}
				results <- runRound(ctx, client, id, config.Verbose)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for id := 1; id <= config.Rounds; id++ {
			select {
			case <-ctx.Done():
				return
			case jobs <- id:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var failures []Failure
	for r := range results {
		stats.RoundsRun++
		stats.ChecksPassed += r.passed
		stats.ChecksFailed += len(r.failures)
		if len(r.failures) > 0 {
			stats.RoundsFailed++
			failures = append(failures, r.failures...)
		}
	}
	return failures
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var passRate, requestsPerSecond float64

	if total := stats.ChecksPassed + stats.ChecksFailed; total > 0 {
		passRate = float64(stats.ChecksPassed) / float64(total) * PercentageMultiplier
	}
	if stats.Duration > 0 {
		requestsPerSecond = float64(stats.Requests) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("roundsRun", stats.RoundsRun),
		logger.Int("roundsFailed", stats.RoundsFailed),
		logger.Int("checksPassed", stats.ChecksPassed),
		logger.Int("checksFailed", stats.ChecksFailed),
		logger.Int("requests", stats.Requests),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("passRate", passRate),
		logger.Float64("requestsPerSecond", requestsPerSecond))
}

package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// Backoff controls retry behaviour for outbound provider calls.
type Backoff struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

var (
	errRateLimited = errors.New("rate limited")
	errServerError = errors.New("server error")
	errUnexpected  = errors.New("unexpected status code")
	errCircuitOpen = errors.New("circuit breaker open")
	errNoClient    = errors.New("http client not configured")
)

// resilientClient wraps an *http.Client with exponential-backoff retries and
// a circuit breaker. Provider fetches on a flaky home network fail often
// enough that retrying here keeps the failure handling out of the providers
// themselves.
type resilientClient struct {
	client  *http.Client
	backoff Backoff
	circuit *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

func newResilientClient(client *http.Client, name string, backoff Backoff, logger *zap.Logger) *resilientClient {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
	return &resilientClient{
		client:  client,
		backoff: backoff,
		circuit: cb,
		logger:  logger,
	}
}

// do executes the request produced by buildRequest, retrying transient
// failures until the retry budget is spent. A 2xx response is returned with
// its body unread; everything else is an error.
func (rc *resilientClient) do(ctx context.Context, buildRequest func() (*http.Request, error)) (*http.Response, error) {
	if rc.client == nil {
		return nil, errNoClient
	}

	delay := rc.backoff.InitialInterval
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}

	var lastErr error
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := buildRequest()
		if err != nil {
			return nil, err
		}
		req = req.WithContext(ctx)

		result, err := rc.circuit.Execute(func() (interface{}, error) {
			resp, execErr := rc.client.Do(req)
			if execErr != nil {
				return nil, execErr
			}
			switch {
			case resp.StatusCode == http.StatusTooManyRequests:
				resp.Body.Close()
				return nil, errRateLimited
			case resp.StatusCode >= 500:
				resp.Body.Close()
				return nil, errServerError
			case resp.StatusCode < 200 || resp.StatusCode >= 300:
				resp.Body.Close()
				return nil, fmt.Errorf("%w: %d", errUnexpected, resp.StatusCode)
			}
			return resp, nil
		})
		if err == nil {
			return result.(*http.Response), nil
		}

		// An open breaker means the provider is down; retrying would only
		// hammer it further.
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}

		lastErr = err
		if attempt >= rc.backoff.MaxRetries {
			return nil, lastErr
		}

		if rc.backoff.MaxInterval > 0 && delay > rc.backoff.MaxInterval {
			delay = rc.backoff.MaxInterval
		}
		rc.logger.Debug("provider request failed, backing off",
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
}

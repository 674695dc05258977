package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"creative-tools-api/internal/domain"
	"creative-tools-api/internal/metrics"

	"cloud.google.com/go/vertexai/genai"
	"github.com/sony/gobreaker"
	"golang.org/x/oauth2/google"
)

const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// generator performs one raw generation call.
type generator interface {
	generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error)
}

// Client implements domain.AIBackend on Vertex AI Gemini models.
// Text requests go through the genai SDK; requests asking for image or audio
// output use the REST generateContent endpoint, which exposes response
// modalities and speech configuration.
type Client struct {
	text    generator
	media   generator
	cb      *gobreaker.CircuitBreaker
	timeout time.Duration
	logger  domain.Logger
}

// NewClient dials Vertex AI with application default credentials.
func NewClient(ctx context.Context, config domain.Config, logger domain.Logger) (*Client, error) {
	projectID := config.GetGCPProjectID()
	location := config.GetGCPLocation()
	if projectID == "" {
		return nil, fmt.Errorf("GCP project ID must be provided")
	}

	sdk, err := genai.NewClient(ctx, projectID, location)
	if err != nil {
		return nil, fmt.Errorf("failed to create vertex ai client: %w", err)
	}

	httpClient, err := google.DefaultClient(ctx, cloudPlatformScope)
	if err != nil {
		return nil, fmt.Errorf("failed to get default credentials: %w", err)
	}

	rest := &restGenerator{
		httpClient: httpClient,
		endpoint:   vertexEndpoint(projectID, location),
	}

	return newClient(&sdkGenerator{client: sdk}, rest, config.GetBackendTimeout(), logger), nil
}

func newClient(text, media generator, timeout time.Duration, logger domain.Logger) *Client {
	c := &Client{
		text:    text,
		media:   media,
		timeout: timeout,
		logger:  logger,
	}

	c.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "gemini",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
		// Safety blocks are answers, not outages.
		IsSuccessful: func(err error) bool {
			return err == nil || isBlocked(err)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker changed state", "name", name, "from", from.String(), "to", to.String())
			metrics.BackendBreakerState.Set(float64(to))
		},
	})

	return c
}

// Close releases the SDK connection.
func (c *Client) Close() error {
	if closer, ok := c.text.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

// Generate runs one generation call. Every failure is a *domain.BackendError.
func (c *Client) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GenerationResult, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	g := c.text
	if req.WantsMedia() || g == nil {
		g = c.media
	}

	start := time.Now()
	out, err := c.cb.Execute(func() (interface{}, error) {
		return g.generate(ctx, req)
	})
	metrics.BackendDuration.WithLabelValues(req.Model).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.BackendErrors.WithLabelValues(req.Model).Inc()
		c.logger.Error("Generation call failed", err, "model", req.Model)
		return nil, toBackendError(err)
	}

	result, _ := out.(*domain.GenerationResult)
	if result == nil || (result.Text == "" && result.Media == nil) {
		metrics.BackendErrors.WithLabelValues(req.Model).Inc()
		return nil, domain.NewBackendError("", errors.New("empty response from model"))
	}
	return result, nil
}

// blockedError reports a prompt or candidate stopped by safety filters.
type blockedError struct {
	reason string
}

func (e *blockedError) Error() string {
	return "blocked by safety filters: " + e.reason
}

// apiError is a non-2xx answer from the REST endpoint.
type apiError struct {
	status  int
	message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("generateContent returned %d: %s", e.status, e.message)
}

func isBlocked(err error) bool {
	var be *blockedError
	var sdkBlocked *genai.BlockedError
	return errors.As(err, &be) || errors.As(err, &sdkBlocked)
}

// toBackendError keeps the most specific user-facing message available.
func toBackendError(err error) *domain.BackendError {
	var existing *domain.BackendError
	if errors.As(err, &existing) {
		return existing
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return domain.NewBackendError("", err)
	}

	var be *blockedError
	if errors.As(err, &be) {
		return domain.NewBackendError("The request was blocked by the AI safety filters ("+be.reason+").", err)
	}

	var sdkBlocked *genai.BlockedError
	if errors.As(err, &sdkBlocked) {
		return domain.NewBackendError("The request was blocked by the AI safety filters.", err)
	}

	var ae *apiError
	if errors.As(err, &ae) && ae.message != "" && ae.status < http.StatusInternalServerError {
		return domain.NewBackendError(ae.message, err)
	}

	return domain.NewBackendError("", err)
}

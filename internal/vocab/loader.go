package vocab

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// DefaultMaxBytes caps the size of a fetched vocabulary list
const DefaultMaxBytes = 8 << 20

// Config holds loader configuration
type Config struct {
	Client   *http.Client
	Timeout  time.Duration // per request, used when Client is nil
	MaxBytes int64
	Logger   *zap.Logger

	// Circuit breaker tuning; the breaker opens after this many consecutive
	// failed fetches and stays open for BreakerCooldown.
	BreakerFailures uint32
	BreakerCooldown time.Duration
}

// DefaultConfig returns default loader configuration
func DefaultConfig() *Config {
	return &Config{
		Timeout:         15 * time.Second,
		MaxBytes:        DefaultMaxBytes,
		BreakerFailures: 3,
		BreakerCooldown: 30 * time.Second,
	}
}

// Loader fetches and parses vocabulary lists
type Loader struct {
	client   *http.Client
	breaker  *gobreaker.CircuitBreaker
	maxBytes int64
	logger   *zap.Logger
}

// statusError marks a non-success HTTP response inside the breaker
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.code)
}

// NewLoader creates a new vocabulary loader
func NewLoader(config *Config) *Loader {
	defaults := DefaultConfig()
	if config == nil {
		config = defaults
	}

	client := config.Client
	if client == nil {
		timeout := config.Timeout
		if timeout <= 0 {
			timeout = defaults.Timeout
		}
		client = &http.Client{Timeout: timeout}
	}

	maxBytes := config.MaxBytes
	if maxBytes <= 0 {
		maxBytes = defaults.MaxBytes
	}

	failures := config.BreakerFailures
	if failures == 0 {
		failures = defaults.BreakerFailures
	}
	cooldown := config.BreakerCooldown
	if cooldown <= 0 {
		cooldown = defaults.BreakerCooldown
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	l := &Loader{
		client:   client,
		maxBytes: maxBytes,
		logger:   logger,
	}

	l.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "vocabulary-fetch",
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		// Client errors are the user's URL, not an unhealthy server
		IsSuccessful: func(err error) bool {
			var se *statusError
			if errors.As(err, &se) {
				return se.code < 500
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return l
}

// Load fetches the list at rawURL and parses it. rawURL may be an http(s)
// URL, a file:// URL, or a filesystem path.
func (l *Loader) Load(ctx context.Context, rawURL string) ([]Entry, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, &ConfigError{Field: "vocabulary URL", Reason: "please provide a vocabulary URL"}
	}

	var (
		body []byte
		err  error
	)

	u, parseErr := url.Parse(rawURL)
	switch {
	case parseErr == nil && (u.Scheme == "http" || u.Scheme == "https"):
		body, err = l.fetchHTTP(ctx, rawURL)
	case parseErr == nil && u.Scheme == "file":
		body, err = l.readFile(rawURL, u.Path)
	case parseErr == nil && len(u.Scheme) > 1:
		return nil, &ConfigError{Field: "vocabulary URL", Reason: fmt.Sprintf("unsupported scheme %q", u.Scheme)}
	default:
		// No scheme, or a Windows drive letter
		body, err = l.readFile(rawURL, rawURL)
	}
	if err != nil {
		l.logger.Error("Failed to fetch vocabulary", zap.String("url", rawURL), zap.Error(err))
		return nil, err
	}

	entries, err := Parse(bytes.NewReader(body))
	if err != nil {
		l.logger.Error("Failed to parse vocabulary", zap.String("url", rawURL), zap.Error(err))
		return nil, err
	}

	l.logger.Info("Vocabulary loaded", zap.String("url", rawURL), zap.Int("entries", len(entries)))
	return entries, nil
}

func (l *Loader) fetchHTTP(ctx context.Context, rawURL string) ([]byte, error) {
	result, err := l.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "text/plain, text/tab-separated-values, */*")

		resp, err := l.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, &statusError{code: resp.StatusCode}
		}

		return l.readLimited(resp.Body)
	})
	if err != nil {
		fe := &FetchError{URL: rawURL, Err: err}
		var se *statusError
		if errors.As(err, &se) {
			fe.StatusCode = se.code
		}
		return nil, fe
	}

	return result.([]byte), nil
}

func (l *Loader) readFile(rawURL, path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	defer f.Close()

	body, err := l.readLimited(f)
	if err != nil {
		return nil, &FetchError{URL: rawURL, Err: err}
	}
	return body, nil
}

func (l *Loader) readLimited(r io.Reader) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r, l.maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > l.maxBytes {
		return nil, fmt.Errorf("vocabulary exceeds %d bytes", l.maxBytes)
	}
	return body, nil
}

package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/genricoloni/weatherdesk/internal/domain"
	"go.uber.org/zap"
)

const _maxResponseSize = 64 * 1024

var (
	// ErrNoCity is returned when the geolocation service does not name a city
	ErrNoCity = errors.New("city could not be determined from IP, set one with --city")
	// ErrNoCondition is returned when the weather service answers with an empty body
	ErrNoCondition = errors.New("empty weather condition")
)

// HTTPProvider looks up the city through an ipinfo-compatible JSON endpoint
// and the current condition through a wttr.in-compatible one
type HTTPProvider struct {
	logger     *zap.Logger
	client     *http.Client
	weatherURL string
	geoURL     string
	now        func() time.Time
}

// NewHTTPProvider creates a provider against the given base URLs
func NewHTTPProvider(logger *zap.Logger, weatherURL, geoURL string) *HTTPProvider {
	return &HTTPProvider{
		logger: logger,
		client: &http.Client{
			Timeout: 10 * time.Second, // Essential to prevent blocking the daemon
		},
		weatherURL: strings.TrimSuffix(weatherURL, "/"),
		geoURL:     geoURL,
		now:        time.Now,
	}
}

type geoResponse struct {
	City string `json:"city"`
}

// City resolves the caller's city from their public IP
func (p *HTTPProvider) City(ctx context.Context) (string, error) {
	body, err := p.get(ctx, p.geoURL)
	if err != nil {
		return "", fmt.Errorf("city lookup failed: %w", err)
	}

	var geo geoResponse
	if err := json.Unmarshal(body, &geo); err != nil {
		return "", fmt.Errorf("city lookup failed: invalid response: %w", err)
	}

	city := strings.TrimSpace(geo.City)
	if city == "" {
		return "", ErrNoCity
	}

	p.logger.Debug("City resolved from IP", zap.String("city", city))
	return city, nil
}

// Condition returns the current weather condition for city, lowercased
func (p *HTTPProvider) Condition(ctx context.Context, city string) (domain.WeatherReport, error) {
	endpoint := p.weatherURL + "/" + url.PathEscape(city) + "?" + url.Values{"format": {"%C"}}.Encode()

	body, err := p.get(ctx, endpoint)
	if err != nil {
		return domain.WeatherReport{}, fmt.Errorf("weather lookup for %q failed: %w", city, err)
	}

	condition := strings.ToLower(strings.TrimSpace(string(body)))
	if condition == "" {
		return domain.WeatherReport{}, ErrNoCondition
	}

	p.logger.Debug("Weather fetched", zap.String("city", city), zap.String("condition", condition))
	return domain.WeatherReport{
		City:      city,
		Condition: condition,
		FetchedAt: p.now(),
	}, nil
}

func (p *HTTPProvider) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// wttr.in answers curl-like agents with plain text
	req.Header.Set("User-Agent", "curl/8.0 weatherdesk/1.0")
	req.Header.Set("Accept", "text/plain, application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("network error: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, _maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	return data, nil
}

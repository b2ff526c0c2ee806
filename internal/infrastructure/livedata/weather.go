package livedata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// WeatherProvider reports current conditions near the mountain from the
// OpenWeatherMap current weather API. Responses are cached for 15
// minutes and outbound calls are rate limited to stay inside the free
// tier.
type WeatherProvider struct {
	baseURL    string
	apiKey     string
	lat, lon   string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *cachedValue
}

func NewWeatherProvider(baseURL, apiKey, lat, lon string) *WeatherProvider {
	if baseURL == "" {
		baseURL = "https://api.openweathermap.org"
	}
	return &WeatherProvider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		lat:        lat,
		lon:        lon,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(time.Minute), 5),
		cache:      newCachedValue(15 * time.Minute),
	}
}

func (p *WeatherProvider) Get(ctx context.Context) (string, error) {
	if p.apiKey == "" {
		return "", fmt.Errorf("weather api key not configured")
	}
	if cached, ok := p.cache.get(); ok {
		return cached, nil
	}
	if !p.limiter.Allow() {
		return "", fmt.Errorf("weather api rate limit reached")
	}

	query := url.Values{}
	query.Set("lat", p.lat)
	query.Set("lon", p.lon)
	query.Set("units", "imperial")
	query.Set("appid", p.apiKey)

	reqURL := fmt.Sprintf("%s/data/2.5/weather?%s", p.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("create weather request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("weather status: %s", resp.Status)
	}

	var payload struct {
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
		Main struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode weather response: %w", err)
	}

	description := "conditions unavailable"
	if len(payload.Weather) > 0 {
		description = payload.Weather[0].Description
	}
	formatted := fmt.Sprintf(
		"Current conditions near the mountain: %s, %.0f°F (feels like %.0f°F), wind %.0f mph.",
		description, payload.Main.Temp, payload.Main.FeelsLike, payload.Wind.Speed,
	)

	p.cache.set(formatted)
	return formatted, nil
}

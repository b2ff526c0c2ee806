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

// TrailConditionsProvider summarizes active alerts for the park from
// the NPS API. Alerts change rarely, so the summary is cached for six
// hours.
type TrailConditionsProvider struct {
	baseURL    string
	apiKey     string
	parkCode   string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *cachedValue
}

func NewTrailConditionsProvider(baseURL, apiKey, parkCode string) *TrailConditionsProvider {
	if baseURL == "" {
		baseURL = "https://developer.nps.gov/api/v1"
	}
	if parkCode == "" {
		parkCode = "mora"
	}
	return &TrailConditionsProvider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		parkCode:   parkCode,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(time.Minute), 5),
		cache:      newCachedValue(6 * time.Hour),
	}
}

func (p *TrailConditionsProvider) Get(ctx context.Context) (string, error) {
	if p.apiKey == "" {
		return "", fmt.Errorf("nps api key not configured")
	}
	if cached, ok := p.cache.get(); ok {
		return cached, nil
	}
	if !p.limiter.Allow() {
		return "", fmt.Errorf("nps api rate limit reached")
	}

	query := url.Values{}
	query.Set("parkCode", p.parkCode)
	query.Set("api_key", p.apiKey)

	reqURL := fmt.Sprintf("%s/alerts?%s", p.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("create alerts request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("alerts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("alerts status: %s", resp.Status)
	}

	var payload struct {
		Data []parkAlert `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode alerts response: %w", err)
	}

	formatted := formatAlerts(payload.Data)
	p.cache.set(formatted)
	return formatted, nil
}

type parkAlert struct {
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

const maxReportedAlerts = 5

func formatAlerts(alerts []parkAlert) string {
	if len(alerts) == 0 {
		return "No active park alerts."
	}

	var b strings.Builder
	b.WriteString("Active park alerts:")
	for i, alert := range alerts {
		if i == maxReportedAlerts {
			fmt.Fprintf(&b, " (and %d more)", len(alerts)-maxReportedAlerts)
			break
		}
		fmt.Fprintf(&b, " [%s] %s.", alert.Category, strings.TrimSpace(alert.Title))
	}
	return b.String()
}

// Package weather implements the WeatherFetcher collaborator (§6) against
// the OpenWeatherMap current-conditions endpoint. net/http is used
// directly rather than an ecosystem HTTP client: the request shape is a
// single GET with query parameters and a JSON body, which net/http
// already expresses without a wrapper (justified in SPEC_FULL.md).
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/olafkfreund/cosmic-desktop-widget/internal/widget"
)

const baseURL = "https://api.openweathermap.org/data/2.5/weather"

// Client fetches current conditions for a city via OpenWeatherMap.
type Client struct {
	HTTP *http.Client
}

// NewClient builds a Client with a bounded-timeout http.Client suitable
// for the widget's own per-fetch context timeout to take precedence.
func NewClient() *Client {
	return &Client{HTTP: &http.Client{Timeout: 15 * time.Second}}
}

type apiResponse struct {
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		Main string `json:"main"`
	} `json:"weather"`
}

// Fetch implements widget.WeatherFetcher. units is not sent to the API:
// the request always asks for metric units, so the result is in Celsius,
// matching WeatherSnapshot.TemperatureC. Conversion to Fahrenheit is left
// to the widget.
func (c *Client) Fetch(ctx context.Context, city, units, apiKey string) (widget.WeatherSnapshot, error) {
	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", apiKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return widget.WeatherSnapshot{}, err
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return widget.WeatherSnapshot{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return widget.WeatherSnapshot{}, fmt.Errorf("weather api: status %d", resp.StatusCode)
	}

	var parsed apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return widget.WeatherSnapshot{}, fmt.Errorf("weather api: decode response: %w", err)
	}

	condition := "unknown"
	if len(parsed.Weather) > 0 {
		condition = parsed.Weather[0].Main
	}

	return widget.WeatherSnapshot{
		TemperatureC: parsed.Main.Temp,
		Condition:    condition,
		FetchedAt:    time.Now(),
	}, nil
}

package widgets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/showgo/player/internal/domain"
)

const defaultWeatherBaseURL = "https://api.openweathermap.org/data/2.5/weather"

// WeatherProvider fetches current conditions from OpenWeatherMap
type WeatherProvider struct {
	logger  *zap.Logger
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewWeatherProvider creates a provider using the given API key, which
// may be empty; fetches then fail and the widget degrades
func NewWeatherProvider(logger *zap.Logger, apiKey string) *WeatherProvider {
	return &WeatherProvider{
		logger:  logger,
		client:  &http.Client{Timeout: widgetTimeout},
		baseURL: defaultWeatherBaseURL,
		apiKey:  apiKey,
	}
}

type weatherResponse struct {
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Name string `json:"name"`
}

// Fetch resolves the current weather for a location
func (p *WeatherProvider) Fetch(ctx context.Context, location string) (domain.WeatherView, error) {
	if p.apiKey == "" {
		return domain.WeatherView{}, errors.New("no weather API key configured")
	}

	endpoint := fmt.Sprintf("%s?q=%s&appid=%s&units=imperial",
		p.baseURL, url.QueryEscape(location), url.QueryEscape(p.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.WeatherView{}, fmt.Errorf("failed to create weather request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return domain.WeatherView{}, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.WeatherView{}, fmt.Errorf("weather request returned status %d", resp.StatusCode)
	}

	var payload weatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return domain.WeatherView{}, fmt.Errorf("failed to decode weather response: %w", err)
	}

	view := domain.WeatherView{
		Enabled:  true,
		Location: location,
		TempF:    payload.Main.Temp,
	}
	if payload.Name != "" {
		view.Location = payload.Name
	}
	if len(payload.Weather) > 0 {
		view.Description = payload.Weather[0].Description
		view.Icon = payload.Weather[0].Icon
	}

	p.logger.Debug("Weather fetched",
		zap.String("location", view.Location),
		zap.Float64("tempF", view.TempF),
		zap.String("conditions", view.Description))
	return view, nil
}

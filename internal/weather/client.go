package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"sweetshop-bot/internal/logger"

	"go.uber.org/zap"
)

const defaultBaseURL = "http://api.openweathermap.org"

// ErrUnavailable covers every non-success answer from the weather provider:
// unknown city, bad key, provider outage. The caller apologizes to the user
// either way, so the distinction is only logged.
var ErrUnavailable = errors.New("weather data unavailable")

// Report is the subset of the provider response the bot shows to users.
type Report struct {
	City        string
	Temp        float64
	Description string
}

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey string) *Client {
	if apiKey == "" {
		logger.L().Warn("weather API key is empty")
	}

	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Current fetches current conditions for a free-text city name. No retries:
// the dialogue resets after one attempt regardless of outcome.
func (c *Client) Current(ctx context.Context, city string) (*Report, error) {
	log := logger.FromCtx(ctx).With(zap.String("city", city))

	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")
	q.Set("lang", "en")

	reqURL := c.baseURL + "/data/2.5/weather?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("weather request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("weather request failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warn("weather provider returned non-success status",
			zap.Int("status", resp.StatusCode),
		)
		return nil, ErrUnavailable
	}

	var body struct {
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		log.Error("failed decoding weather response", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	report := &Report{City: city, Temp: body.Main.Temp}
	if len(body.Weather) > 0 {
		report.Description = body.Weather[0].Description
	}

	log.Debug("weather fetched",
		zap.Float64("temp", report.Temp),
		zap.String("description", report.Description),
	)

	return report, nil
}

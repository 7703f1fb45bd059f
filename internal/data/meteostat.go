// Package data holds clients for external data providers.
package data

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"bifacial-tilt/internal/profile"
)

// MeteostatClient fetches daily weather-station history from the Meteostat
// point API, which is the source of the snow-depth series behind the
// row-height profile.
type MeteostatClient struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

// NewMeteostatClient creates a client. If baseURL is empty, defaults to the
// hosted Meteostat endpoint.
func NewMeteostatClient(apiKey string, baseURL string) *MeteostatClient {
	if baseURL == "" {
		baseURL = "https://meteostat.p.rapidapi.com"
	}
	return &MeteostatClient{
		APIKey:  apiKey,
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// MeteostatError represents an error response from the Meteostat API.
type MeteostatError struct {
	StatusCode int
	Message    string
}

func (e *MeteostatError) Error() string {
	return fmt.Sprintf("meteostat: %s (status %d)", e.Message, e.StatusCode)
}

// pointDailyResponse mirrors the /point/daily payload; only the fields we
// consume are mapped. Snow is nullable: stations frequently skip the reading.
type pointDailyResponse struct {
	Data []struct {
		Date string   `json:"date"`
		Snow *float64 `json:"snow"` // mm
	} `json:"data"`
}

// DailySnow fetches daily records for a coordinate over [start, end] and
// returns them ready for profile.HeightProfile. Missing snow readings come
// back as zero depth, matching the documented fallback.
func (c *MeteostatClient) DailySnow(lat, lon float64, start, end time.Time) ([]profile.DailyRecord, error) {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%.4f", lat))
	q.Set("lon", fmt.Sprintf("%.4f", lon))
	q.Set("start", start.Format("2006-01-02"))
	q.Set("end", end.Format("2006-01-02"))

	reqURL := fmt.Sprintf("%s/point/daily?%s", c.BaseURL, q.Encode())
	req, err := http.NewRequest(http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	if c.APIKey != "" {
		req.Header.Set("x-rapidapi-key", c.APIKey)
	}

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("meteostat request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &MeteostatError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("daily query for (%.4f, %.4f) failed", lat, lon),
		}
	}

	var payload pointDailyResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode meteostat response: %w", err)
	}

	records := make([]profile.DailyRecord, 0, len(payload.Data))
	for i, d := range payload.Data {
		date, err := time.Parse("2006-01-02", d.Date)
		if err != nil {
			return nil, fmt.Errorf("meteostat record %d: bad date %q: %w", i, d.Date, err)
		}
		rec := profile.DailyRecord{Date: date}
		if d.Snow != nil {
			rec.SnowDepthMM = *d.Snow
		}
		records = append(records, rec)
	}
	return records, nil
}

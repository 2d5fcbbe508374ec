package spots

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// POTAClient polls the POTA spot API for current activator spots.
type POTAClient struct {
	url        string
	httpClient *http.Client
}

// NewPOTAClient creates a client against the given spot endpoint.
func NewPOTAClient(url string) *POTAClient {
	return &POTAClient{
		url: url,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// potaSpot mirrors one entry of the POTA activator spot feed.
type potaSpot struct {
	Activator string `json:"activator"`
	Frequency string `json:"frequency"` // kHz
	Mode      string `json:"mode"`
	Reference string `json:"reference"`
	ParkName  string `json:"name"`
	Spotter   string `json:"spotter"`
	SpotTime  string `json:"spotTime"`
	Comments  string `json:"comments"`
}

// Fetch retrieves the current activator spots, newest first as the
// API returns them.
func (c *POTAClient) Fetch(ctx context.Context) ([]Spot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pota spots: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pota spots: status %d", resp.StatusCode)
	}

	var raw []potaSpot
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("pota spots: decode: %w", err)
	}

	out := make([]Spot, 0, len(raw))
	for _, p := range raw {
		if p.Activator == "" {
			continue
		}
		out = append(out, Spot{
			Callsign:  strings.ToUpper(p.Activator),
			Frequency: parseKHz(p.Frequency),
			Mode:      strings.ToUpper(p.Mode),
			Spotter:   strings.ToUpper(p.Spotter),
			Time:      parseSpotTime(p.SpotTime),
			Info:      p.Reference,
			Source:    "pota",
		})
	}
	return out, nil
}

// parseKHz converts the feed's kHz string to MHz.
func parseKHz(s string) float64 {
	khz, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return khz / 1000.0
}

// parseSpotTime handles the feed's zoneless timestamps.
func parseSpotTime(s string) time.Time {
	for _, layout := range []string{"2006-01-02T15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Now().UTC()
}

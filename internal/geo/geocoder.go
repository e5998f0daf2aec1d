// Package geo wraps the Google geocoding endpoint. Lookups feed map anchors
// only, so every failure mode degrades to an empty result set.
package geo

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"
)

const defaultEndpoint = "https://maps.googleapis.com/maps/api/geocode/json"

// Point is one resolved coordinate pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Geocoder struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

func NewGeocoder(apiKey string) *Geocoder {
	return &Geocoder{
		apiKey:     apiKey,
		endpoint:   defaultEndpoint,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Lookup resolves an address to its candidate coordinates, best match first.
// A missing key, network fault or unparseable body all return an empty slice.
func (g *Geocoder) Lookup(ctx context.Context, address string) []Point {
	if g.apiKey == "" || address == "" {
		return nil
	}

	q := url.Values{}
	q.Set("address", address)
	q.Set("key", g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil
	}
	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	var body struct {
		Results []struct {
			Geometry struct {
				Location Point `json:"location"`
			} `json:"geometry"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil
	}

	points := make([]Point, 0, len(body.Results))
	for _, r := range body.Results {
		points = append(points, r.Geometry.Location)
	}
	return points
}

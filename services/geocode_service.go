package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"
)

// GeocodeService proxies forward and reverse geocoding to a Nominatim
// endpoint. Every call is a single attempt; on failure the caller surfaces a
// generic "could not get location" response.
type GeocodeService struct {
	baseURL    string
	httpClient *http.Client
}

func NewGeocodeService() *GeocodeService {
	base := os.Getenv("NOMINATIM_BASE_URL")
	if base == "" {
		base = "https://nominatim.openstreetmap.org"
	}
	return &GeocodeService{
		baseURL: base,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type Place struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

type address struct {
	City    string `json:"city"`
	Town    string `json:"town"`
	Village string `json:"village"`
	Hamlet  string `json:"hamlet"`
	State   string `json:"state"`
	Region  string `json:"region"`
}

type ReverseResult struct {
	DisplayName string  `json:"display_name"`
	Address     address `json:"address"`
}

// Locality formats the result the way the booking form shows it: "City, State".
func (r *ReverseResult) Locality() string {
	city := r.Address.City
	if city == "" {
		city = r.Address.Town
	}
	if city == "" {
		city = r.Address.Village
	}
	if city == "" {
		city = r.Address.Hamlet
	}
	state := r.Address.State
	if state == "" {
		state = r.Address.Region
	}
	return fmt.Sprintf("%s, %s", city, state)
}

// Search resolves a free-text address to coordinate suggestions.
func (gs *GeocodeService) Search(ctx context.Context, query string) ([]Place, error) {
	endpoint := fmt.Sprintf("%s/search?format=json&q=%s&limit=5&addressdetails=1",
		gs.baseURL, url.QueryEscape(query))

	var places []Place
	if err := gs.get(ctx, endpoint, &places); err != nil {
		return nil, err
	}
	return places, nil
}

// Reverse resolves coordinates to an address.
func (gs *GeocodeService) Reverse(ctx context.Context, lat, lon string) (*ReverseResult, error) {
	endpoint := fmt.Sprintf("%s/reverse?format=json&lat=%s&lon=%s&addressdetails=1",
		gs.baseURL, url.QueryEscape(lat), url.QueryEscape(lon))

	var result ReverseResult
	if err := gs.get(ctx, endpoint, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (gs *GeocodeService) get(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	// Nominatim's usage policy requires an identifying user agent.
	req.Header.Set("User-Agent", "RepairUp/1.0")

	resp, err := gs.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("geocoding endpoint returned status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

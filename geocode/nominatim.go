// Package geocode wraps the Nominatim search API for the one question the
// resolver asks: which voivodeship does this town lie in.
package geocode

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"genesearch/config"
)

// Client is a minimal Nominatim client. One lookup per call, no batching.
type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

// NewClient creates a Nominatim client using the configured base URL,
// timeout and identifying User-Agent.
func NewClient(cfg *config.Config, logger *zap.Logger) *Client {
	hc := resty.New().
		SetBaseURL(cfg.NominatimBaseURL).
		SetTimeout(cfg.NominatimTimeout).
		SetHeader("User-Agent", cfg.NominatimTool)
	return &Client{http: hc, logger: logger}
}

type searchResult struct {
	DisplayName string `json:"display_name"`
}

// LookupVoivodeship geocodes a town name and extracts the voivodeship from
// the formatted address. The three outcomes are distinct:
//   - region, true, nil: the address names a voivodeship
//   - "", false, nil: a definitive answer with no voivodeship in it, safe to
//     cache as a negative result
//   - "", false, err: a soft failure (timeout, unreachable, bad status) that
//     must not be cached so a later run can retry
func (c *Client) LookupVoivodeship(ctx context.Context, town string) (string, bool, error) {
	var results []searchResult
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":      town,
			"format": "json",
			"limit":  "1",
		}).
		SetResult(&results).
		Get("/search")
	if err != nil {
		return "", false, fmt.Errorf("nominatim request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return "", false, fmt.Errorf("nominatim status %d", resp.StatusCode())
	}

	if len(results) == 0 || results[0].DisplayName == "" {
		c.logger.Debug("Nominatim found no location", zap.String("town", town))
		return "", false, nil
	}

	region := voivodeshipFromAddress(results[0].DisplayName)
	if region == "" {
		c.logger.Debug("Nominatim address carries no voivodeship",
			zap.String("town", town),
			zap.String("address", results[0].DisplayName))
		return "", false, nil
	}
	return region, true, nil
}

// voivodeshipFromAddress scans a formatted address for the segment naming
// the voivodeship ("województwo małopolskie") and returns the word after the
// marker, case preserved. Empty when no segment carries the marker.
func voivodeshipFromAddress(address string) string {
	for _, chunk := range strings.Split(address, ",") {
		if !strings.Contains(chunk, "województwo") {
			continue
		}
		fields := strings.Fields(strings.TrimSpace(chunk))
		if len(fields) >= 2 {
			return fields[len(fields)-1]
		}
	}
	return ""
}

package schedapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"skyfleet-etl/internal/domain/entity"
	"skyfleet-etl/pkg/logger"
	"skyfleet-etl/pkg/utils"
)

// defaultPageSize is the provider's fixed page size. A page shorter than
// this terminates the pagination loop.
const defaultPageSize = 1000

// Client is an HTTP client for the scheduling provider's connect API.
// Authentication is delegated to the injected token source; the oauth2
// transport attaches and refreshes bearer tokens transparently.
type Client struct {
	v1URL      string
	v2URL      string
	httpClient *http.Client
	pageSize   int
	logger     logger.Logger
}

// NewClient creates a new scheduling provider client
func NewClient(ctx context.Context, baseURL string, tokenSource oauth2.TokenSource, logger logger.Logger) *Client {
	base := strings.TrimRight(baseURL, "/")
	return &Client{
		v1URL:      base + "/connect/v1",
		v2URL:      base + "/connect/v2",
		httpClient: oauth2.NewClient(ctx, tokenSource),
		pageSize:   defaultPageSize,
		logger:     logger,
	}
}

// FlightLegs fetches every flight leg scheduled inside [start, end],
// walking the provider's Page parameter until a short or empty page.
func (c *Client) FlightLegs(ctx context.Context, start, end time.Time) ([]entity.FlightLeg, error) {
	params := url.Values{}
	params.Set("StartDate", utils.FormatAPITime(start))
	params.Set("EndDate", utils.FormatAPITime(end))

	var all []entity.FlightLeg
	for page := 1; ; page++ {
		params.Set("Page", strconv.Itoa(page))

		var legs []entity.FlightLeg
		if err := c.getJSON(ctx, c.v1URL+"/flightleg", params, &legs); err != nil {
			return nil, fmt.Errorf("fetch flight legs page %d: %w", page, err)
		}
		if len(legs) == 0 {
			break
		}

		all = append(all, legs...)
		c.logger.Info("Fetched flight leg page",
			"page", page, "records", len(legs), "total", len(all))

		if len(legs) < c.pageSize {
			break
		}
	}

	return all, nil
}

// TripItinerary fetches the trip detail used by demand enrichment.
// Cancelled legs are excluded server-side.
func (c *Client) TripItinerary(ctx context.Context, tripID string) (*entity.TripItinerary, error) {
	params := url.Values{}
	params.Set("includeCancelledLegs", "false")

	var itinerary entity.TripItinerary
	endpoint := c.v2URL + "/trip/" + url.PathEscape(tripID) + "/Itinerary"
	if err := c.getJSON(ctx, endpoint, params, &itinerary); err != nil {
		return nil, fmt.Errorf("fetch trip itinerary %s: %w", tripID, err)
	}
	return &itinerary, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("unexpected status %d from %s: %s", resp.StatusCode, endpoint, strings.TrimSpace(string(body)))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

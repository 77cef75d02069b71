package distance

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"route-optimizer-service/internal/domain"
	"route-optimizer-service/internal/platform/httpclient"
	"route-optimizer-service/internal/platform/obs"
	"route-optimizer-service/internal/ports"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// Google caps a single Distance Matrix request at 25 destinations.
const googleMaxDestinations = 25

// GoogleMatrixProvider implements MatrixProvider with the Google Distance
// Matrix API. Each origin row is fetched separately, a few rows at a time.
type GoogleMatrixProvider struct {
	client      *httpclient.Client
	apiKey      string
	baseURL     string
	concurrency int
	cache       ports.DistanceCache
}

type GoogleOptions struct {
	BaseURL       string
	Timeout       time.Duration
	RatePerSecond float64
	Concurrency   int
	DistanceCache ports.DistanceCache
}

type googleMatrixResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Rows         []struct {
		Elements []struct {
			Status   string `json:"status"`
			Distance struct {
				Value int `json:"value"`
			} `json:"distance"`
			Duration struct {
				Value int `json:"value"`
			} `json:"duration"`
		} `json:"elements"`
	} `json:"rows"`
}

func NewGoogleMatrixProvider(apiKey string, opts GoogleOptions) (*GoogleMatrixProvider, error) {
	if apiKey == "" {
		return nil, errors.New("google maps api key is empty")
	}
	if opts.BaseURL == "" {
		opts.BaseURL = "https://maps.googleapis.com"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}

	return &GoogleMatrixProvider{
		client:      httpclient.New("google", opts.Timeout, opts.RatePerSecond),
		apiKey:      apiKey,
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		concurrency: opts.Concurrency,
		cache:       opts.DistanceCache,
	}, nil
}

func (g *GoogleMatrixProvider) Name() string { return "google" }

// Matrix fetches every uncached origin row concurrently. A failed row leaves
// nil cells behind; the call only fails when no row could be fetched.
func (g *GoogleMatrixProvider) Matrix(
	ctx context.Context,
	points []domain.Coordinates,
) (_ [][]*ports.DistanceResult, err error) {
	defer obs.Time(ctx, "google.Matrix")(&err)

	matrix, missing := lookupCached(ctx, g.cache, points)
	if len(missing) == 0 {
		return matrix, nil
	}

	rowErrs := make([]error, len(missing))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.concurrency)
	for k, i := range missing {
		eg.Go(func() error {
			row, err := g.fetchRow(egCtx, points, i)
			if err != nil {
				log.Printf("google matrix row=%d failed: %v", i, err)
				rowErrs[k] = err
				return nil
			}
			for j, cell := range row {
				if matrix[i][j] == nil {
					matrix[i][j] = cell
				}
			}
			return nil
		})
	}
	_ = eg.Wait()

	fetched := make([]int, 0, len(missing))
	for k, i := range missing {
		if rowErrs[k] == nil {
			fetched = append(fetched, i)
		}
	}
	if len(fetched) == 0 {
		return nil, fmt.Errorf("all %d matrix rows failed: %w", len(missing), errors.Join(rowErrs...))
	}

	storeRows(ctx, g.cache, points, matrix, fetched)
	return matrix, nil
}

// fetchRow returns distances from points[origin] to every point, splitting
// destinations into chunks the API accepts.
func (g *GoogleMatrixProvider) fetchRow(
	ctx context.Context,
	points []domain.Coordinates,
	origin int,
) ([]*ports.DistanceResult, error) {
	row := make([]*ports.DistanceResult, len(points))

	for start := 0; start < len(points); start += googleMaxDestinations {
		end := min(start+googleMaxDestinations, len(points))

		var resp googleMatrixResponse
		if err := g.fetchChunk(ctx, points[origin], points[start:end], &resp); err != nil {
			return nil, err
		}
		if resp.Status != "OK" {
			return nil, fmt.Errorf("status %s: %s", resp.Status, resp.ErrorMessage)
		}
		if len(resp.Rows) != 1 || len(resp.Rows[0].Elements) != end-start {
			return nil, fmt.Errorf("unexpected matrix shape for %d destinations", end-start)
		}

		for k, el := range resp.Rows[0].Elements {
			if el.Status != "OK" {
				continue
			}
			row[start+k] = &ports.DistanceResult{
				DistanceMeters:  el.Distance.Value,
				DurationSeconds: el.Duration.Value,
			}
		}
	}

	return row, nil
}

func (g *GoogleMatrixProvider) fetchChunk(
	ctx context.Context,
	origin domain.Coordinates,
	dests []domain.Coordinates,
	out *googleMatrixResponse,
) error {
	req, err := g.client.NewRequest(ctx, http.MethodGet, g.baseURL+"/maps/api/distancematrix/json", nil)
	if err != nil {
		return err
	}

	destParts := make([]string, len(dests))
	for i, d := range dests {
		destParts[i] = latLng(d)
	}

	q := req.URL.Query()
	q.Set("origins", latLng(origin))
	q.Set("destinations", strings.Join(destParts, "|"))
	q.Set("mode", "driving")
	q.Set("units", "metric")
	q.Set("key", g.apiKey)
	req.URL.RawQuery = q.Encode()

	return g.client.DoJSON(req, out)
}

func latLng(c domain.Coordinates) string {
	return strconv.FormatFloat(c.Lat, 'f', 6, 64) + "," + strconv.FormatFloat(c.Lon, 'f', 6, 64)
}

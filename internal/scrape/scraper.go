package scrape

import (
	"context"
	"net/http"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/dublin-research/dublin-geo/internal/model"
)

// Scraper fetches case-listing pages with a politeness rate limit.
type Scraper struct {
	client  *http.Client
	limiter *rate.Limiter
}

// NewScraper creates a Scraper. A nil client falls back to
// http.DefaultClient; ratePerSec caps request frequency across all workers.
func NewScraper(client *http.Client, ratePerSec float64) *Scraper {
	if client == nil {
		client = http.DefaultClient
	}
	if ratePerSec <= 0 {
		ratePerSec = 0.5
	}
	return &Scraper{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(ratePerSec), 1),
	}
}

// FetchCases downloads and parses one listing URL.
func (s *Scraper) FetchCases(ctx context.Context, url string) ([]model.PlanningCase, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "scrape: rate limit")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, eris.Wrap(err, "scrape: build request")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "scrape: fetch %s", url)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("scrape: %s returned status %d", url, resp.StatusCode)
	}

	cases, err := ParseCases(resp.Body)
	if err != nil {
		return nil, err
	}

	zap.L().Info("scraped listing page", zap.String("url", url), zap.Int("cases", len(cases)))
	return cases, nil
}

// ScrapeAll fetches every URL with bounded concurrency, preserving URL order
// in the combined result, and de-duplicates by case reference.
func (s *Scraper) ScrapeAll(ctx context.Context, urls []string, concurrency int) ([]model.PlanningCase, error) {
	if concurrency <= 0 {
		concurrency = 2
	}

	perURL := make([][]model.PlanningCase, len(urls))
	var mu sync.Mutex

	eg, gCtx := errgroup.WithContext(ctx)
	eg.SetLimit(concurrency)

	for i, url := range urls {
		i, url := i, url
		eg.Go(func() error {
			cases, err := s.FetchCases(gCtx, url)
			if err != nil {
				return err
			}
			mu.Lock()
			perURL[i] = cases
			mu.Unlock()
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var all []model.PlanningCase
	for _, cases := range perURL {
		all = append(all, cases...)
	}
	return Dedupe(all), nil
}

package simulate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/okian/byline/internal/domain/model"
	"github.com/okian/byline/pkg/logger"
)

type outcome int

const (
	outcomeAccepted outcome = iota
	outcomeDuplicate
	outcomeFailed
)

const listPageSize = 100

// httpClient wraps http.Client with the service base URL.
type httpClient struct {
	client  *http.Client
	baseURL string
}

func newHTTPClient(cfg *Config) *httpClient {
	return &httpClient{client: &http.Client{Timeout: cfg.Timeout}, baseURL: cfg.BaseURL}
}

func (c *httpClient) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %d", path, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(body, out)
}

func (c *httpClient) submit(ctx context.Context, p model.PeriodPerformance) outcome {
	data, err := json.Marshal(p)
	if err != nil {
		return outcomeFailed
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/periods", bytes.NewReader(data))
	if err != nil {
		return outcomeFailed
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return outcomeFailed
	}
	defer resp.Body.Close()

	var ack ackResponse
	_ = json.NewDecoder(resp.Body).Decode(&ack)
	switch resp.StatusCode {
	case http.StatusAccepted:
		return outcomeAccepted
	case http.StatusOK:
		if ack.Duplicate {
			return outcomeDuplicate
		}
		return outcomeAccepted
	default:
		return outcomeFailed
	}
}

// listTotals pages through GET /totals.
func (c *httpClient) listTotals(ctx context.Context) ([]totalsEntry, error) {
	var all []totalsEntry
	for offset := 0; ; offset += listPageSize {
		q := url.Values{}
		q.Set("offset", strconv.Itoa(offset))
		q.Set("limit", strconv.Itoa(listPageSize))
		var page totalsPage
		if err := c.get(ctx, "/totals?"+q.Encode(), &page); err != nil {
			return nil, err
		}
		all = append(all, page.Items...)
		if len(page.Items) < listPageSize || len(all) >= page.Total {
			return all, nil
		}
	}
}

// submitPeriods posts periods with a pool of workers and tallies the outcomes.
func submitPeriods(ctx context.Context, cfg *Config, client *httpClient, periods []model.PeriodPerformance, stats *Stats) {
	log := logger.Get().Named("simulate")
	log.Info(ctx, "submitting periods", logger.Int("periods", len(periods)), logger.Int("workers", cfg.Workers))

	var submitted, accepted, duplicate, failed int64

	ch := make(chan model.PeriodPerformance, cfg.Workers*2)
	var wg sync.WaitGroup
	for range cfg.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range ch {
				atomic.AddInt64(&submitted, 1)
				switch client.submit(ctx, p) {
				case outcomeAccepted:
					atomic.AddInt64(&accepted, 1)
				case outcomeDuplicate:
					atomic.AddInt64(&duplicate, 1)
				default:
					atomic.AddInt64(&failed, 1)
				}
			}
		}()
	}

	go func() {
		defer close(ch)
		for _, p := range periods {
			select {
			case <-ctx.Done():
				return
			case ch <- p:
			}
		}
	}()
	wg.Wait()

	stats.PeriodsSubmitted += int(submitted)
	stats.Accepted += int(accepted)
	stats.Duplicates += int(duplicate)
	stats.Failed += int(failed)

	log.Info(ctx, "submission completed",
		logger.Int64("accepted", accepted),
		logger.Int64("duplicate", duplicate),
		logger.Int64("failed", failed))
}

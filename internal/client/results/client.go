package results

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"wheel_predictor/internal/client"
	"wheel_predictor/internal/model"
)

// maxResults - сколько последних результатов берется из ленты
const maxResults = 100

var (
	ErrFeedUnavailable = errors.New("results feed unavailable")
	ErrEmptyFeed       = errors.New("results feed is empty")
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type feedResponse struct {
	Success   bool     `json:"success"`
	Message   string   `json:"message"`
	Results   []string `json:"results"`
	Timestamp string   `json:"timestamp"`
}

type fetcher struct {
	url  string
	http HTTPClient
	log  *slog.Logger

	// не чаще одного запроса за minInterval, между запросами отдается кэш
	limiter *rate.Limiter
	mtx     sync.Mutex
	cached  []model.Outcome
}

// NewFetcher Клиент JSON-ленты результатов. minInterval <= 0 отключает кэш
func NewFetcher(url string, httpClient HTTPClient, minInterval time.Duration, log *slog.Logger) client.ResultsFetcher {
	limit := rate.Inf
	if minInterval > 0 {
		limit = rate.Every(minInterval)
	}
	return &fetcher{
		url:     url,
		http:    httpClient,
		log:     log,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Fetch возвращает нормализованные результаты, неизвестные названия отбрасываются
func (f *fetcher) Fetch(ctx context.Context) ([]model.Outcome, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	if f.cached != nil && !f.limiter.Allow() {
		return cloneOutcomes(f.cached), nil
	}

	outcomes, err := f.fetch(ctx)
	if err != nil {
		return nil, err
	}
	// успешный запрос сам расходует токен, если кэша еще не было
	if f.cached == nil {
		f.limiter.Allow()
	}
	f.cached = outcomes
	return cloneOutcomes(outcomes), nil
}

func (f *fetcher) fetch(ctx context.Context) ([]model.Outcome, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFeedUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: status %d", ErrFeedUnavailable, resp.StatusCode)
	}

	var body feedResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}
	if !body.Success {
		return nil, fmt.Errorf("%w: %s", ErrFeedUnavailable, body.Message)
	}

	outcomes := make([]model.Outcome, 0, min(len(body.Results), maxResults))
	dropped := 0
	for _, name := range body.Results {
		o, err := model.NormalizeOutcome(name)
		if err != nil {
			dropped++
			continue
		}
		outcomes = append(outcomes, o)
		if len(outcomes) == maxResults {
			break
		}
	}
	if dropped > 0 {
		f.log.Debug("unknown feed results dropped", "count", dropped)
	}
	if len(outcomes) == 0 {
		return nil, ErrEmptyFeed
	}

	f.log.Debug("feed fetched", "results", len(outcomes), "timestamp", body.Timestamp)
	return outcomes, nil
}

func cloneOutcomes(src []model.Outcome) []model.Outcome {
	dst := make([]model.Outcome, len(src))
	copy(dst, src)
	return dst
}

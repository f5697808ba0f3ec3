package gw2

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	ants "github.com/panjf2000/ants/v2"

	"github.com/gw2hardcore/contest-server/internal/platform/cache"
	"github.com/gw2hardcore/contest-server/internal/platform/logging"
	"github.com/gw2hardcore/contest-server/internal/platform/resilience"
	"github.com/gw2hardcore/contest-server/internal/usecase"
)

const (
	defaultBaseURL          = "https://api.guildwars2.com"
	achievementPageSize     = 200
	achievementDetailChunk  = 200
	achievementDetailWorker = 4
	achievementPointsTTL    = 10 * time.Minute
)

var requiredPermissions = []string{"account", "characters", "progression"}

var accessTokenParamRegex = regexp.MustCompile(`access_token=[^&\s"']+`)
var errGW2Transient = crerr.New("gw2 transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the game's public API. It implements
// usecase.AccountVerifier; API keys are supplied per call because every
// contestant brings their own credential.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
	pointsCache    *cache.Store
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 15 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
		pointsCache:    cache.NewStore(achievementPointsTTL),
	}
}

// VerifyKey checks the API key grants the permissions the contest needs and
// resolves the owning game account.
func (c *Client) VerifyKey(ctx context.Context, apiKey string) (usecase.GameAccount, error) {
	var info tokenInfo
	if err := c.doJSON(ctx, "/v2/tokeninfo", nil, apiKey, &info); err != nil {
		return usecase.GameAccount{}, fmt.Errorf("fetch token info: %w", err)
	}

	if missing := missingPermissions(info.Permissions); len(missing) > 0 {
		return usecase.GameAccount{}, fmt.Errorf(
			"%w: api key is missing permissions: %s",
			usecase.ErrInvalidInput, strings.Join(missing, ", "),
		)
	}

	var acct accountInfo
	if err := c.doJSON(ctx, "/v2/account", nil, apiKey, &acct); err != nil {
		return usecase.GameAccount{}, fmt.Errorf("fetch account: %w", err)
	}

	return usecase.GameAccount{
		ID:          acct.ID,
		Name:        acct.Name,
		Permissions: info.Permissions,
	}, nil
}

// AchievementPoints totals the account's achievement points. Totals are
// cached per key so registration retries do not hammer the paginated
// achievement endpoints.
func (c *Client) AchievementPoints(ctx context.Context, apiKey string) (int, error) {
	cacheKey := "ap:" + hashKey(apiKey)
	v, err := c.pointsCache.GetOrLoad(ctx, cacheKey, func(ctx context.Context) (any, error) {
		return c.computeAchievementPoints(ctx, apiKey)
	})
	if err != nil {
		return 0, err
	}

	total, _ := v.(int)
	return total, nil
}

func (c *Client) computeAchievementPoints(ctx context.Context, apiKey string) (int, error) {
	progress, err := c.fetchAccountAchievements(ctx, apiKey)
	if err != nil {
		return 0, err
	}
	if len(progress) == 0 {
		return 0, nil
	}

	ids := make([]int, 0, len(progress))
	for id := range progress {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	details, err := c.fetchAchievementDetails(ctx, apiKey, ids)
	if err != nil {
		return 0, err
	}

	total := 0
	for id, detail := range details {
		total += earnedPoints(progress[id], detail)
	}

	return total, nil
}

func (c *Client) fetchAccountAchievements(ctx context.Context, apiKey string) (map[int]accountAchievement, error) {
	out := make(map[int]accountAchievement, 1024)
	for page := 0; ; page++ {
		query := map[string]string{
			"page":      strconv.Itoa(page),
			"page_size": strconv.Itoa(achievementPageSize),
		}

		var items []accountAchievement
		if err := c.doJSON(ctx, "/v2/account/achievements", query, apiKey, &items); err != nil {
			return nil, fmt.Errorf("fetch account achievements page=%d: %w", page, err)
		}

		for _, item := range items {
			if item.ID > 0 {
				out[item.ID] = item
			}
		}
		if len(items) < achievementPageSize {
			return out, nil
		}
	}
}

// fetchAchievementDetails hydrates achievement definitions in id chunks
// through a small worker pool; a page of progress rows fans out into a
// handful of detail requests.
func (c *Client) fetchAchievementDetails(ctx context.Context, apiKey string, ids []int) (map[int]achievementDetail, error) {
	chunks := make([][]int, 0, (len(ids)+achievementDetailChunk-1)/achievementDetailChunk)
	for start := 0; start < len(ids); start += achievementDetailChunk {
		end := start + achievementDetailChunk
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}

	pool, err := ants.NewPool(achievementDetailWorker)
	if err != nil {
		return nil, fmt.Errorf("create achievement detail pool: %w", err)
	}
	defer pool.Release()

	out := make(map[int]achievementDetail, len(ids))
	var mu sync.Mutex
	var firstErr atomic.Pointer[error]
	var workers sync.WaitGroup

	for _, chunk := range chunks {
		chunk := chunk
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			if firstErr.Load() != nil || ctx.Err() != nil {
				return
			}

			idValues := make([]string, 0, len(chunk))
			for _, id := range chunk {
				idValues = append(idValues, strconv.Itoa(id))
			}
			query := map[string]string{"ids": strings.Join(idValues, ",")}

			var details []achievementDetail
			if err := c.doJSON(ctx, "/v2/achievements", query, apiKey, &details); err != nil {
				wrapped := fmt.Errorf("fetch achievement details chunk_size=%d: %w", len(chunk), err)
				firstErr.CompareAndSwap(nil, &wrapped)
				return
			}

			mu.Lock()
			for _, detail := range details {
				out[detail.ID] = detail
			}
			mu.Unlock()
		}); err != nil {
			workers.Done()
			return nil, fmt.Errorf("submit achievement detail chunk: %w", err)
		}
	}

	workers.Wait()
	if errPtr := firstErr.Load(); errPtr != nil {
		return nil, *errPtr
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	return out, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, apiKey string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "gw2 circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: game api is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	flightKey := hashKey(apiKey) + ":" + path + "?" + values.Encode()
	out, err, _ := c.flight.Do(flightKey, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL, apiKey)
		if c.circuitEnabled {
			if reqErr != nil && isGW2CircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		if isGW2CircuitFailure(err) {
			return fmt.Errorf("%w: %s", usecase.ErrDependencyUnavailable, err.Error())
		}
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode game api payload: %w", err)
	}

	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL, apiKey string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set("authorization", "Bearer "+apiKey)

		backoff := time.Duration(attempt+1) * time.Second

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errGW2Transient, sanitizeSensitiveText(err.Error(), apiKey))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errGW2Transient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
				return nil, fmt.Errorf("%w: game api rejected the key", usecase.ErrInvalidInput)
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: game api status=%d body=%s", errGW2Transient, resp.StatusCode, abbreviateBody(raw))
				if resp.StatusCode == http.StatusTooManyRequests {
					if wait := parseRetryAfter(resp.Header.Get("Retry-After")); wait > 0 {
						backoff = wait
					}
				}
			default:
				return nil, fmt.Errorf("game api status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("game api request failed")
	}
	c.logger.WarnContext(ctx, "gw2 request failed", "url", redactAPIURL(fullURL), "error", lastErr)
	return nil, lastErr
}

func isGW2CircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errGW2Transient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func parseRetryAfter(value string) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

func missingPermissions(granted []string) []string {
	have := make(map[string]bool, len(granted))
	for _, p := range granted {
		have[strings.ToLower(strings.TrimSpace(p))] = true
	}

	missing := make([]string, 0, len(requiredPermissions))
	for _, p := range requiredPermissions {
		if !have[p] {
			missing = append(missing, p)
		}
	}
	return missing
}

func sanitizeSensitiveText(value, apiKey string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if apiKey != "" {
		value = strings.ReplaceAll(value, apiKey, "REDACTED")
	}
	value = accessTokenParamRegex.ReplaceAllString(value, "access_token=REDACTED")
	return value
}

func redactAPIURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	query := parsed.Query()
	if query.Has("access_token") {
		query.Set("access_token", "REDACTED")
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func hashKey(apiKey string) string {
	sum := sha256.Sum256([]byte(apiKey))
	return hex.EncodeToString(sum[:8])
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}

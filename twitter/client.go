package twitter

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"scraper.local/twitter-archive/common"
)

const (
	DefaultBaseURL   = "https://api.twitter.com/1.1"
	DefaultStreamURL = "https://stream.twitter.com/1.1"
)

// API error codes worth distinguishing from the generic failure path.
const (
	codeRateLimited   = 88
	codePageNotExist  = 34
	codeUserNotFound  = 50
	codeUserSuspended = 63
)

// Client is an OAuth 1.0a signed client for the v1.1 REST and
// streaming endpoints. All calls share one pace limiter; endpoints
// with stricter windows add their own sleeps on top.
type Client struct {
	BaseURL   string
	StreamURL string

	httpClient    *http.Client
	signer        *oauth1Signer
	limiter       *rate.Limiter
	maxAttempts   int
	retryWait     time.Duration
	reconnectWait time.Duration
	log           *logrus.Entry
}

func NewClient(creds *Credentials, log *logrus.Entry) *Client {
	return &Client{
		BaseURL:       DefaultBaseURL,
		StreamURL:     DefaultStreamURL,
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		signer:        newOAuth1Signer(creds),
		limiter:       rate.NewLimiter(rate.Every(time.Second), 1),
		maxAttempts:   common.GetEnvInt("TWITTER_MAX_ATTEMPTS", 5),
		retryWait:     common.GetEnvDuration("TWITTER_RETRY_WAIT", time.Minute),
		reconnectWait: streamReconnectWait,
		log:           log,
	}
}

// Get performs a signed GET against endpoint (path under BaseURL,
// without the .json suffix) and returns the decoded body. Rate-limit
// responses are retried with a bounded budget; deleted or suspended
// resources map to ErrNotFound.
func (c *Client) Get(ctx context.Context, endpoint string, params map[string]string) (gjson.Result, error) {
	reqURL := c.BaseURL + "/" + endpoint + ".json"
	if len(params) > 0 {
		reqURL += "?" + encodeQuery(params)
	}
	for attempt := 1; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return gjson.Result{}, err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return gjson.Result{}, err
		}
		c.signer.Sign(req, params)
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return gjson.Result{}, err
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return gjson.Result{}, err
		}
		retryable, err := classify(resp, body)
		if err == nil {
			return gjson.ParseBytes(body), nil
		}
		if !retryable || attempt >= c.maxAttempts {
			return gjson.Result{}, fmt.Errorf("%s: %w", endpoint, err)
		}
		wait := retryAfter(resp, c.retryWait)
		c.log.WithFields(logrus.Fields{
			"endpoint": endpoint,
			"attempt":  attempt,
			"wait":     wait.String(),
		}).Warn("rate limited, backing off")
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return gjson.Result{}, ctx.Err()
		}
	}
}

// classify maps a response to (retryable, error). A nil error means
// the body is usable.
func classify(resp *http.Response, body []byte) (bool, error) {
	if resp.StatusCode == http.StatusTooManyRequests {
		return true, ErrRateLimited
	}
	if resp.StatusCode == http.StatusNotFound {
		return false, ErrNotFound
	}
	if apiErr := firstAPIError(body); apiErr != nil {
		switch apiErr.Code {
		case codeRateLimited:
			return true, ErrRateLimited
		case codePageNotExist, codeUserNotFound, codeUserSuspended:
			return false, ErrNotFound
		default:
			return false, apiErr
		}
	}
	if resp.StatusCode >= 500 {
		return true, fmt.Errorf("server error %d", resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return false, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return false, nil
}

func firstAPIError(body []byte) *APIError {
	first := gjson.GetBytes(body, "errors.0")
	if !first.Exists() {
		return nil
	}
	return &APIError{
		Code:    int(first.Get("code").Int()),
		Message: first.Get("message").String(),
	}
}

// retryAfter honors the Retry-After header or the v1.1 reset epoch
// before falling back to a fixed wait.
func retryAfter(resp *http.Response, fallback time.Duration) time.Duration {
	if ra := resp.Header.Get("Retry-After"); ra != "" {
		if secs, err := strconv.Atoi(ra); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	if reset := resp.Header.Get("X-Rate-Limit-Reset"); reset != "" {
		if epoch, err := strconv.ParseInt(reset, 10, 64); err == nil {
			if wait := time.Until(time.Unix(epoch, 0)); wait > 0 {
				return wait + time.Second
			}
		}
	}
	return fallback
}

// UserArgs builds the identifier parameters shared by most account
// endpoints. Zero values are omitted.
func UserArgs(userID int64, screenName string) map[string]string {
	args := map[string]string{}
	if userID != 0 {
		args["user_id"] = strconv.FormatInt(userID, 10)
	}
	if screenName != "" {
		args["screen_name"] = screenName
	}
	return args
}

// Profile fetches the identified user, or the authenticated account
// when no identifier is given.
func (c *Client) Profile(ctx context.Context, userID int64, screenName string) (gjson.Result, error) {
	args := UserArgs(userID, screenName)
	if len(args) == 0 {
		return c.Get(ctx, "account/verify_credentials", nil)
	}
	return c.Get(ctx, "users/show", args)
}

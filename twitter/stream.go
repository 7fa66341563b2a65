package twitter

import (
	"bufio"
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const streamReconnectWait = 5 * time.Second

// StreamFilter consumes the realtime statuses/filter feed, invoking fn
// once per decoded tweet. At least one of track or follow must be set.
// The connection is re-established after transport errors; the only
// clean exits are context cancellation and a callback error.
func (c *Client) StreamFilter(ctx context.Context, track []string, follow []string, fn func(tweet gjson.Result) error) error {
	params := map[string]string{}
	if len(track) > 0 {
		params["track"] = strings.Join(track, ",")
	}
	if len(follow) > 0 {
		params["follow"] = strings.Join(follow, ",")
	}
	// The stream stays open indefinitely, so the shared client's
	// request timeout cannot apply here.
	streamClient := &http.Client{}
	for {
		err := c.streamOnce(ctx, streamClient, params, fn)
		if err == nil || ctx.Err() != nil {
			return err
		}
		var cb *callbackError
		if errors.As(err, &cb) {
			return cb.err
		}
		c.log.WithError(err).Warn("stream disconnected, reconnecting")
		select {
		case <-time.After(c.reconnectWait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (c *Client) streamOnce(ctx context.Context, client *http.Client, params map[string]string, fn func(tweet gjson.Result) error) error {
	reqURL := c.StreamURL + "/statuses/filter.json"
	body := strings.NewReader(encodeQuery(params))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.signer.Sign(req, params)
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if _, err := classify(resp, nil); err != nil {
		return err
	}
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		// Blank lines are keep-alives.
		if line == "" {
			continue
		}
		tweet := gjson.Parse(line)
		// Non-tweet control messages (limit notices, deletions) carry
		// no id and are skipped.
		if !tweet.Get("id").Exists() {
			continue
		}
		if err := fn(tweet); err != nil {
			return &callbackError{err: err}
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return errStreamEnded
}

var errStreamEnded = errors.New("twitter: stream ended")

// callbackError marks an error raised by the consumer callback, which
// must stop the stream instead of triggering a reconnect.
type callbackError struct {
	err error
}

func (e *callbackError) Error() string { return e.err.Error() }
func (e *callbackError) Unwrap() error { return e.err }

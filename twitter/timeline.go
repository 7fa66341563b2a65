package twitter

import (
	"context"
	"strconv"
	"time"

	"github.com/tidwall/gjson"
)

const timelinePageSize = 200

// TimelineOptions configure one descending timeline walk.
type TimelineOptions struct {
	// Endpoint is the path under BaseURL, e.g. "statuses/user_timeline".
	Endpoint string
	// Params carries identifier or query parameters for the endpoint.
	Params map[string]string
	// SinceID stops the walk at tweets at or below this id. Zero means
	// walk as far back as the producer allows.
	SinceID int64
	// StopAfter caps the number of tweets yielded. Zero means no cap.
	StopAfter int
	// Delay is slept between pages. Zero means one second.
	Delay time.Duration
}

// Timeline walks a reverse-chronological feed page by page, invoking
// fn with each page of tweets. Each page requests ids strictly below
// the smallest id already seen, so no tweet is yielded twice even when
// new tweets land mid-walk. An empty page ends the walk.
func (c *Client) Timeline(ctx context.Context, opts TimelineOptions, fn func(page []gjson.Result) error) error {
	delay := opts.Delay
	if delay == 0 {
		delay = time.Second
	}
	args := map[string]string{}
	for k, v := range opts.Params {
		args[k] = v
	}
	args["count"] = strconv.Itoa(timelinePageSize)
	args["tweet_mode"] = "extended"
	if opts.SinceID > 0 {
		args["since_id"] = strconv.FormatInt(opts.SinceID, 10)
	}
	yielded := 0
	var minSeen int64
	for {
		if minSeen > 0 {
			args["max_id"] = strconv.FormatInt(minSeen-1, 10)
		}
		body, err := c.Get(ctx, opts.Endpoint, args)
		if err != nil {
			return err
		}
		// Search responses nest the page under "statuses".
		page := body
		if statuses := body.Get("statuses"); statuses.Exists() {
			page = statuses
		}
		tweets := page.Array()
		if len(tweets) == 0 {
			return nil
		}
		if opts.StopAfter > 0 && yielded+len(tweets) > opts.StopAfter {
			tweets = tweets[:opts.StopAfter-yielded]
		}
		if err := fn(tweets); err != nil {
			return err
		}
		yielded += len(tweets)
		if opts.StopAfter > 0 && yielded >= opts.StopAfter {
			return nil
		}
		for _, tweet := range tweets {
			id := tweet.Get("id").Int()
			if minSeen == 0 || id < minSeen {
				minSeen = id
			}
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

package twitter

import (
	"context"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const lookupBatchSize = 100

// UserBatches resolves identifiers to full user objects in
// lookup-sized batches. ids selects numeric-id lookup over screen
// names.
func (c *Client) UserBatches(ctx context.Context, identifiers []string, ids bool, fn func(batch []gjson.Result) error) error {
	key := "screen_name"
	if ids {
		key = "user_id"
	}
	return c.lookupBatches(ctx, "users/lookup", key, identifiers, fn)
}

// StatusBatches resolves tweet ids to full tweet objects in
// lookup-sized batches.
func (c *Client) StatusBatches(ctx context.Context, ids []string, fn func(batch []gjson.Result) error) error {
	return c.lookupBatches(ctx, "statuses/lookup", "id", ids, fn)
}

func (c *Client) lookupBatches(ctx context.Context, endpoint, key string, identifiers []string, fn func(batch []gjson.Result) error) error {
	for start := 0; start < len(identifiers); start += lookupBatchSize {
		end := start + lookupBatchSize
		if end > len(identifiers) {
			end = len(identifiers)
		}
		params := map[string]string{
			key:          strings.Join(identifiers[start:end], ","),
			"tweet_mode": "extended",
		}
		body, err := c.Get(ctx, endpoint, params)
		if err != nil {
			return err
		}
		if err := fn(body.Array()); err != nil {
			return err
		}
		if end < len(identifiers) {
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return nil
}

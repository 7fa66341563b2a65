package twitter

import (
	"context"
	"strconv"
	"time"

	"github.com/tidwall/gjson"
)

// DefaultCursorDelay paces cursored endpoints whose windows allow 15
// calls per 15 minutes.
const DefaultCursorDelay = 61 * time.Second

// CursorPages walks a cursored endpoint, invoking fn with the value of
// listKey from each page. Pagination ends when next_cursor comes back
// zero. delay is slept between pages, never after the last one.
func (c *Client) CursorPages(
	ctx context.Context,
	endpoint string,
	params map[string]string,
	listKey string,
	pageSize int,
	delay time.Duration,
	fn func(items []gjson.Result) error,
) error {
	cursor := int64(-1)
	for {
		args := map[string]string{}
		for k, v := range params {
			args[k] = v
		}
		args["count"] = strconv.Itoa(pageSize)
		args["cursor"] = strconv.FormatInt(cursor, 10)
		body, err := c.Get(ctx, endpoint, args)
		if err != nil {
			return err
		}
		if err := fn(body.Get(listKey).Array()); err != nil {
			return err
		}
		cursor = body.Get("next_cursor").Int()
		if cursor == 0 {
			return nil
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

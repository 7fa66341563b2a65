package commands

import (
	"context"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"

	"scraper.local/twitter-archive/common"
	"scraper.local/twitter-archive/models"
)

func NewHomeTimelineCommand() *cli.Command {
	var h *TimelineHandler
	return &cli.Command{
		Name:      "home-timeline",
		Usage:     "save tweets from the authenticated account's home timeline",
		ArgsUsage: "db_path",
		Flags:     mergeFlags([]cli.Flag{authFlag()}, sinceFlags()),
		Before: func(c *cli.Context) error {
			var err error
			h, err = newTimelineHandler(c, common.NewLogger("home-timeline"))
			return err
		},
		Action: func(c *cli.Context) error {
			if err := h.accountTimeline(c, models.FeedHomeTimeline, "statuses/home_timeline"); err != nil {
				return cli.Exit(err.Error(), 1)
			}
			return nil
		},
	}
}

func NewMentionsTimelineCommand() *cli.Command {
	var h *TimelineHandler
	return &cli.Command{
		Name:      "mentions-timeline",
		Usage:     "save tweets mentioning the authenticated account",
		ArgsUsage: "db_path",
		Flags:     mergeFlags([]cli.Flag{authFlag()}, sinceFlags()),
		Before: func(c *cli.Context) error {
			var err error
			h, err = newTimelineHandler(c, common.NewLogger("mentions-timeline"))
			return err
		},
		Action: func(c *cli.Context) error {
			if err := h.accountTimeline(c, models.FeedMentionsTimeline, "statuses/mentions_timeline"); err != nil {
				return cli.Exit(err.Error(), 1)
			}
			return nil
		},
	}
}

// accountTimeline walks a feed scoped to the authenticated account.
// The marker key is the account's own user id, so multiple accounts
// can share one store.
func (h *TimelineHandler) accountTimeline(c *cli.Context, feedType int, endpoint string) error {
	ctx := context.Background()
	userID, _, err := h.resolveUser(ctx, c)
	if err != nil {
		return err
	}
	key := strconv.FormatInt(userID, 10)
	sinceID, err := h.sinceID(c, feedType, key)
	if err != nil {
		return err
	}
	return h.run(ctx, timelineJob{
		FeedType: feedType,
		Key:      key,
		Endpoint: endpoint,
		Delay:    time.Second,
	}, sinceID, 0)
}

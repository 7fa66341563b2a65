package commands

import (
	"context"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"

	"scraper.local/twitter-archive/common"
	"scraper.local/twitter-archive/models"
	"scraper.local/twitter-archive/twitter"
)

func NewUserTimelineCommand() *cli.Command {
	var h *TimelineHandler
	return &cli.Command{
		Name:      "user-timeline",
		Usage:     "save tweets posted by the specified user",
		ArgsUsage: "db_path",
		Flags: mergeFlags(
			[]cli.Flag{authFlag()},
			userFlags(),
			sinceFlags(),
			[]cli.Flag{&cli.IntFlag{Name: "stop_after", Usage: "stop after this many tweets"}},
		),
		Before: func(c *cli.Context) error {
			var err error
			h, err = newTimelineHandler(c, common.NewLogger("user-timeline"))
			return err
		},
		Action: func(c *cli.Context) error {
			if err := h.userTimeline(c); err != nil {
				return cli.Exit(err.Error(), 1)
			}
			return nil
		},
	}
}

func (h *TimelineHandler) userTimeline(c *cli.Context) error {
	ctx := context.Background()
	userID, screenName, err := h.resolveUser(ctx, c)
	if err != nil {
		return err
	}
	key := strconv.FormatInt(userID, 10)
	sinceID, err := h.sinceID(c, models.FeedUserTimeline, key)
	if err != nil {
		return err
	}
	h.Log.WithField("screen_name", screenName).Info("fetching user timeline")
	return h.run(ctx, timelineJob{
		FeedType: models.FeedUserTimeline,
		Key:      key,
		Endpoint: "statuses/user_timeline",
		Params:   twitter.UserArgs(userID, ""),
		Delay:    time.Second,
	}, sinceID, c.Int("stop_after"))
}

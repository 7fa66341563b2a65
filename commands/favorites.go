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

func NewFavoritesCommand() *cli.Command {
	var h *TimelineHandler
	return &cli.Command{
		Name:      "favorites",
		Usage:     "save tweets favorited by the specified user",
		ArgsUsage: "db_path",
		Flags: mergeFlags(
			[]cli.Flag{authFlag()},
			userFlags(),
			sinceFlags(),
			[]cli.Flag{&cli.IntFlag{Name: "stop_after", Usage: "stop after this many tweets"}},
		),
		Before: func(c *cli.Context) error {
			var err error
			h, err = newTimelineHandler(c, common.NewLogger("favorites"))
			return err
		},
		Action: func(c *cli.Context) error {
			if err := h.favorites(c); err != nil {
				return cli.Exit(err.Error(), 1)
			}
			return nil
		},
	}
}

func (h *TimelineHandler) favorites(c *cli.Context) error {
	ctx := context.Background()
	userID, screenName, err := h.resolveUser(ctx, c)
	if err != nil {
		return err
	}
	key := strconv.FormatInt(userID, 10)
	sinceID, err := h.sinceID(c, models.FeedFavorites, key)
	if err != nil {
		return err
	}
	h.Log.WithField("screen_name", screenName).Info("fetching favorites")
	// The favorites window allows 75 calls per 15 minutes.
	return h.run(ctx, timelineJob{
		FeedType:    models.FeedFavorites,
		Key:         key,
		Endpoint:    "favorites/list",
		Params:      twitter.UserArgs(userID, ""),
		Delay:       12 * time.Second,
		FavoritedBy: userID,
	}, sinceID, c.Int("stop_after"))
}

package commands

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/urfave/cli/v2"

	"scraper.local/twitter-archive/common"
	"scraper.local/twitter-archive/models"
	"scraper.local/twitter-archive/twitter"
)

// cron keeps a store fresh unattended: on each tick it re-walks the
// configured feeds from their saved markers, so every run only fetches
// what is new.
func NewCronCommand() *cli.Command {
	var h *TimelineHandler
	return &cli.Command{
		Name:      "cron",
		Usage:     "periodically re-sync timelines and favorites",
		ArgsUsage: "db_path",
		Flags: mergeFlags(
			[]cli.Flag{authFlag()},
			userFlags(),
			[]cli.Flag{&cli.StringFlag{
				Name:  "schedule",
				Value: "@every 15m",
				Usage: "cron schedule expression",
			}},
		),
		Before: func(c *cli.Context) error {
			var err error
			h, err = newTimelineHandler(c, common.NewLogger("cron"))
			return err
		},
		Action: func(c *cli.Context) error {
			if err := h.cron(c); err != nil {
				return cli.Exit(err.Error(), 1)
			}
			return nil
		},
	}
}

func (h *TimelineHandler) cron(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	userID, screenName, err := h.resolveUser(ctx, c)
	if err != nil {
		return err
	}
	key := strconv.FormatInt(userID, 10)
	sync := func() {
		jobs := []timelineJob{
			{
				FeedType: models.FeedUserTimeline,
				Key:      key,
				Endpoint: "statuses/user_timeline",
				Params:   twitter.UserArgs(userID, ""),
				Delay:    time.Second,
			},
			{
				FeedType: models.FeedHomeTimeline,
				Key:      key,
				Endpoint: "statuses/home_timeline",
				Delay:    time.Second,
			},
			{
				FeedType:    models.FeedFavorites,
				Key:         key,
				Endpoint:    "favorites/list",
				Params:      twitter.UserArgs(userID, ""),
				Delay:       12 * time.Second,
				FavoritedBy: userID,
			},
		}
		for _, job := range jobs {
			sinceID, err := h.SinceIDs.Get(job.FeedType, job.Key)
			if err != nil {
				h.Log.WithError(err).Error("reading feed marker")
				return
			}
			if err := h.run(ctx, job, sinceID, 0); err != nil {
				if ctx.Err() != nil {
					return
				}
				h.Log.WithError(err).Error("feed sync failed")
			}
		}
	}

	h.Log.WithField("screen_name", screenName).Info("cron running...")
	sync()
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(c.String("schedule"), sync); err != nil {
		return err
	}
	scheduler.Start()
	<-ctx.Done()
	<-scheduler.Stop().Done()
	return nil
}

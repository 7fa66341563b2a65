package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v2"
	"gorm.io/gorm"

	"scraper.local/twitter-archive/models"
	"scraper.local/twitter-archive/normalize"
	"scraper.local/twitter-archive/repositories"
	"scraper.local/twitter-archive/twitter"
)

// timelineJob describes one resumable walk over a tweet feed.
type timelineJob struct {
	FeedType    int
	Key         string
	Endpoint    string
	Params      map[string]string
	Delay       time.Duration
	FavoritedBy int64
}

type TimelineHandler struct {
	Db       *gorm.DB
	Client   *twitter.Client
	Tweets   *repositories.TweetsRepository
	SinceIDs *repositories.SinceIDsRepository
	Log      *logrus.Entry
}

func newTimelineHandler(c *cli.Context, log *logrus.Entry) (*TimelineHandler, error) {
	db, err := openStore(c)
	if err != nil {
		return nil, err
	}
	client, err := newClient(c, log)
	if err != nil {
		return nil, err
	}
	return &TimelineHandler{
		Db:       db,
		Client:   client,
		Tweets:   repositories.NewTweetsRepository(db),
		SinceIDs: &repositories.SinceIDsRepository{Db: db},
		Log:      log,
	}, nil
}

// sinceID resolves the --since / --since_id pair. Combining them is
// rejected before any network or store access.
func (h *TimelineHandler) sinceID(c *cli.Context, feedType int, key string) (int64, error) {
	useMarker := c.Bool("since")
	explicit := c.Int64("since_id")
	if useMarker && explicit != 0 {
		return 0, fmt.Errorf("%w: --since and --since_id", twitter.ErrConflictingOptions)
	}
	if explicit != 0 {
		return explicit, nil
	}
	if useMarker {
		return h.SinceIDs.Get(feedType, key)
	}
	return 0, nil
}

// run walks the feed and persists every page. The resume marker is
// advanced after each page commits, so an interrupted walk never
// re-fetches what it already stored.
func (h *TimelineHandler) run(ctx context.Context, job timelineJob, sinceID int64, stopAfter int) error {
	var maxSeen int64
	saved := 0
	opts := twitter.TimelineOptions{
		Endpoint:  job.Endpoint,
		Params:    job.Params,
		SinceID:   sinceID,
		StopAfter: stopAfter,
		Delay:     job.Delay,
	}
	err := h.Client.Timeline(ctx, opts, func(page []gjson.Result) error {
		records := make([]*normalize.TweetRecord, 0, len(page))
		for _, raw := range page {
			record, err := normalize.Tweet(raw)
			if err != nil {
				return err
			}
			records = append(records, record)
			if record.Tweet.ID > maxSeen {
				maxSeen = record.Tweet.ID
			}
		}
		if err := h.Tweets.Save(records, job.FavoritedBy); err != nil {
			return err
		}
		saved += len(records)
		if maxSeen > 0 {
			if err := h.SinceIDs.Record(job.FeedType, job.Key, maxSeen); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	h.Log.WithFields(logrus.Fields{"feed": job.Key, "tweets": saved}).Info("feed saved")
	return nil
}

// resolveUser fetches the profile for the identified user (or the
// authenticated account) and saves it, returning the user row.
func (h *TimelineHandler) resolveUser(ctx context.Context, c *cli.Context) (int64, string, error) {
	profile, err := h.Client.Profile(ctx, c.Int64("user_id"), c.String("screen_name"))
	if err != nil {
		return 0, "", err
	}
	user, err := normalize.User(profile)
	if err != nil {
		return 0, "", err
	}
	users := &repositories.UsersRepository{Db: h.Db}
	if err := users.Save([]*models.User{user}, 0); err != nil {
		return 0, "", err
	}
	return user.ID, user.ScreenName, nil
}

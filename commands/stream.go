package commands

import (
	"context"
	"os"
	"os/signal"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/urfave/cli/v2"
	"gorm.io/gorm"

	"scraper.local/twitter-archive/common"
	"scraper.local/twitter-archive/models"
	"scraper.local/twitter-archive/normalize"
	"scraper.local/twitter-archive/repositories"
	"scraper.local/twitter-archive/twitter"
)

type StreamHandler struct {
	Db     *gorm.DB
	Client *twitter.Client
	Users  *repositories.UsersRepository
	Tweets *repositories.TweetsRepository
	Log    *logrus.Entry
}

func newStreamHandler(c *cli.Context, log *logrus.Entry) (*StreamHandler, error) {
	db, err := openStore(c)
	if err != nil {
		return nil, err
	}
	client, err := newClient(c, log)
	if err != nil {
		return nil, err
	}
	return &StreamHandler{
		Db:     db,
		Client: client,
		Users:  &repositories.UsersRepository{Db: db},
		Tweets: repositories.NewTweetsRepository(db),
		Log:    log,
	}, nil
}

func NewTrackCommand() *cli.Command {
	var h *StreamHandler
	return &cli.Command{
		Name:      "track",
		Usage:     "save tweets matching keywords in realtime",
		ArgsUsage: "db_path keywords...",
		Flags: mergeFlags(
			[]cli.Flag{authFlag()},
			[]cli.Flag{&cli.BoolFlag{Name: "verbose", Usage: "log every saved tweet"}},
		),
		Before: func(c *cli.Context) error {
			var err error
			h, err = newStreamHandler(c, common.NewLogger("track"))
			return err
		},
		Action: func(c *cli.Context) error {
			keywords := c.Args().Slice()[1:]
			if len(keywords) == 0 {
				return cli.Exit("at least one keyword is required", 1)
			}
			if err := h.stream(keywords, nil, c.Bool("verbose")); err != nil {
				return cli.Exit(err.Error(), 1)
			}
			return nil
		},
	}
}

func NewFollowCommand() *cli.Command {
	var h *StreamHandler
	return &cli.Command{
		Name:      "follow",
		Usage:     "save tweets from the specified users in realtime",
		ArgsUsage: "db_path identifiers...",
		Flags: mergeFlags(
			[]cli.Flag{authFlag()},
			identifierFlags(),
			[]cli.Flag{
				&cli.BoolFlag{Name: "ids", Usage: "treat identifiers as user ids, not screen names"},
				&cli.BoolFlag{Name: "verbose", Usage: "log every saved tweet"},
			},
		),
		Before: func(c *cli.Context) error {
			var err error
			h, err = newStreamHandler(c, common.NewLogger("follow"))
			return err
		},
		Action: func(c *cli.Context) error {
			identifiers, err := resolveIdentifiers(h.Db, c, c.Args().Tail())
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			if len(identifiers) == 0 {
				return cli.Exit("at least one identifier is required", 1)
			}
			if err := h.follow(c, identifiers); err != nil {
				return cli.Exit(err.Error(), 1)
			}
			return nil
		},
	}
}

// follow saves fresh profiles for the identifiers, resolves screen
// names to ids through the store, then streams those users' tweets.
func (h *StreamHandler) follow(c *cli.Context, identifiers []string) error {
	ids := c.Bool("ids")
	err := h.Client.UserBatches(
		context.Background(), identifiers, ids,
		func(batch []gjson.Result) error {
			users := make([]*models.User, 0, len(batch))
			for _, raw := range batch {
				user, err := normalize.User(raw)
				if err != nil {
					return err
				}
				users = append(users, user)
			}
			return h.Users.Save(users, 0)
		},
	)
	if err != nil {
		return err
	}
	followIDs := identifiers
	if !ids {
		followIDs = make([]string, 0, len(identifiers))
		for _, screenName := range identifiers {
			id, err := h.Users.ScreenNameToID(screenName)
			if err != nil {
				return err
			}
			followIDs = append(followIDs, strconv.FormatInt(id, 10))
		}
	}
	return h.stream(nil, followIDs, c.Bool("verbose"))
}

// stream runs until interrupted. Each tweet commits on its own, so a
// kill mid-stream loses at most the tweet in flight.
func (h *StreamHandler) stream(track, follow []string, verbose bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	h.Log.Info("streaming, interrupt to stop")
	err := h.Client.StreamFilter(ctx, track, follow, func(raw gjson.Result) error {
		record, err := normalize.Tweet(raw)
		if err != nil {
			return err
		}
		if verbose {
			h.Log.WithFields(logrus.Fields{
				"id":   record.Tweet.ID,
				"text": record.Tweet.FullText,
			}).Info("tweet")
		}
		return h.Tweets.Save([]*normalize.TweetRecord{record}, 0)
	})
	if err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

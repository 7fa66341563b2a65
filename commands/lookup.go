package commands

import (
	"context"
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

type LookupHandler struct {
	Db     *gorm.DB
	Client *twitter.Client
	Users  *repositories.UsersRepository
	Tweets *repositories.TweetsRepository
	Log    *logrus.Entry
}

func newLookupHandler(c *cli.Context, log *logrus.Entry) (*LookupHandler, error) {
	db, err := openStore(c)
	if err != nil {
		return nil, err
	}
	client, err := newClient(c, log)
	if err != nil {
		return nil, err
	}
	return &LookupHandler{
		Db:     db,
		Client: client,
		Users:  &repositories.UsersRepository{Db: db},
		Tweets: repositories.NewTweetsRepository(db),
		Log:    log,
	}, nil
}

func NewUsersLookupCommand() *cli.Command {
	var h *LookupHandler
	return &cli.Command{
		Name:      "users-lookup",
		Usage:     "save full profiles for the specified users",
		ArgsUsage: "db_path identifiers...",
		Flags: mergeFlags(
			[]cli.Flag{authFlag()},
			identifierFlags(),
			[]cli.Flag{&cli.BoolFlag{Name: "ids", Usage: "treat identifiers as user ids, not screen names"}},
		),
		Before: func(c *cli.Context) error {
			var err error
			h, err = newLookupHandler(c, common.NewLogger("users-lookup"))
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
			if err := h.usersLookup(c, identifiers); err != nil {
				return cli.Exit(err.Error(), 1)
			}
			return nil
		},
	}
}

func (h *LookupHandler) usersLookup(c *cli.Context, identifiers []string) error {
	total := 0
	err := h.Client.UserBatches(
		context.Background(), identifiers, c.Bool("ids"),
		func(batch []gjson.Result) error {
			users := make([]*models.User, 0, len(batch))
			for _, raw := range batch {
				user, err := normalize.User(raw)
				if err != nil {
					return err
				}
				users = append(users, user)
			}
			if err := h.Users.Save(users, 0); err != nil {
				return err
			}
			total += len(users)
			return nil
		},
	)
	if err != nil {
		return err
	}
	h.Log.WithField("users", total).Info("profiles saved")
	return nil
}

func NewStatusesLookupCommand() *cli.Command {
	var h *LookupHandler
	return &cli.Command{
		Name:      "statuses-lookup",
		Usage:     "save full tweets for the specified tweet ids",
		ArgsUsage: "db_path tweet_ids...",
		Flags: mergeFlags(
			[]cli.Flag{authFlag()},
			identifierFlags(),
			[]cli.Flag{
				&cli.BoolFlag{Name: "skip-existing", Usage: "skip ids already present in the store"},
				&cli.BoolFlag{Name: "silent", Usage: "suppress progress output"},
			},
		),
		Before: func(c *cli.Context) error {
			var err error
			h, err = newLookupHandler(c, common.NewLogger("statuses-lookup"))
			return err
		},
		Action: func(c *cli.Context) error {
			ids, err := resolveIdentifiers(h.Db, c, c.Args().Tail())
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			if len(ids) == 0 {
				return cli.Exit("at least one tweet id is required", 1)
			}
			if err := h.statusesLookup(c, ids); err != nil {
				return cli.Exit(err.Error(), 1)
			}
			return nil
		},
	}
}

func (h *LookupHandler) statusesLookup(c *cli.Context, ids []string) error {
	if c.Bool("skip-existing") {
		filtered, err := h.withoutExisting(ids)
		if err != nil {
			return err
		}
		ids = filtered
	}
	total := 0
	silent := c.Bool("silent")
	err := h.Client.StatusBatches(
		context.Background(), ids,
		func(batch []gjson.Result) error {
			records := make([]*normalize.TweetRecord, 0, len(batch))
			for _, raw := range batch {
				record, err := normalize.Tweet(raw)
				if err != nil {
					return err
				}
				records = append(records, record)
			}
			if err := h.Tweets.Save(records, 0); err != nil {
				return err
			}
			total += len(records)
			if !silent {
				h.Log.WithField("fetched", total).Info("progress")
			}
			return nil
		},
	)
	if err != nil {
		return err
	}
	h.Log.WithField("tweets", total).Info("tweets saved")
	return nil
}

func (h *LookupHandler) withoutExisting(ids []string) ([]string, error) {
	numeric := make([]int64, 0, len(ids))
	for _, raw := range ids {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			numeric = append(numeric, id)
		}
	}
	existing, err := h.Tweets.ExistingTweetIDs(numeric)
	if err != nil {
		return nil, err
	}
	var remaining []string
	for _, raw := range ids {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || !existing[id] {
			remaining = append(remaining, raw)
		}
	}
	return remaining, nil
}

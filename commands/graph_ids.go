package commands

import (
	"context"
	"errors"
	"strconv"
	"time"

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

const idsPageSize = 5000

type GraphIdsHandler struct {
	Db     *gorm.DB
	Client *twitter.Client
	Users  *repositories.UsersRepository
	Log    *logrus.Entry
}

func NewFollowersIdsCommand() *cli.Command {
	return newGraphIdsCommand(
		"followers-ids",
		"save follower ids for the specified users",
		"followers/ids",
		false,
	)
}

func NewFriendsIdsCommand() *cli.Command {
	return newGraphIdsCommand(
		"friends-ids",
		"save friend ids for the specified users",
		"friends/ids",
		true,
	)
}

// The ids endpoints return bare user ids, 5000 per page, so the full
// graph of a large account is reachable without fetching every
// profile. Edges are written even for accounts with no user row yet.
func newGraphIdsCommand(name, usage, endpoint string, inverted bool) *cli.Command {
	var h GraphIdsHandler
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: "db_path identifiers...",
		Flags: mergeFlags(
			[]cli.Flag{authFlag()},
			identifierFlags(),
			[]cli.Flag{
				&cli.BoolFlag{Name: "ids", Usage: "treat identifiers as user ids, not screen names"},
				&cli.IntFlag{Name: "sleep", Value: 61, Usage: "seconds to sleep between cursor pages"},
			},
		),
		Before: func(c *cli.Context) error {
			log := common.NewLogger(name)
			db, err := openStore(c)
			if err != nil {
				return err
			}
			client, err := newClient(c, log)
			if err != nil {
				return err
			}
			h = GraphIdsHandler{
				Db:     db,
				Client: client,
				Users:  &repositories.UsersRepository{Db: db},
				Log:    log,
			}
			return nil
		},
		Action: func(c *cli.Context) error {
			identifiers, err := resolveIdentifiers(h.Db, c, c.Args().Tail())
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			if len(identifiers) == 0 {
				return cli.Exit("at least one identifier is required", 1)
			}
			err = h.fetchIds(c, endpoint, identifiers, c.Bool("ids"), inverted)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			return nil
		},
	}
}

func (h *GraphIdsHandler) fetchIds(c *cli.Context, endpoint string, identifiers []string, ids, inverted bool) error {
	ctx := context.Background()
	delay := time.Duration(c.Int("sleep")) * time.Second
	for _, identifier := range identifiers {
		subjectID, err := h.saveSubject(ctx, identifier, ids)
		if err != nil {
			return err
		}
		total := 0
		err = h.Client.CursorPages(
			ctx, endpoint, identifierArgs(identifier, ids), "ids",
			idsPageSize, delay,
			func(items []gjson.Result) error {
				for _, item := range items {
					otherID := item.Int()
					followedID, followerID := subjectID, otherID
					if inverted {
						followedID, followerID = otherID, subjectID
					}
					err := h.Users.SaveFollowingEdge(followedID, followerID, "")
					if err != nil {
						return err
					}
				}
				total += len(items)
				return nil
			},
		)
		if err != nil {
			return err
		}
		h.Log.WithFields(logrus.Fields{
			"identifier": identifier,
			"edges":      total,
		}).Info("graph edges saved")
	}
	return nil
}

func (h *GraphIdsHandler) saveSubject(ctx context.Context, identifier string, ids bool) (int64, error) {
	var userID int64
	var screenName string
	if ids {
		parsed, err := strconv.ParseInt(identifier, 10, 64)
		if err != nil {
			return 0, errors.New("invalid user id: " + identifier)
		}
		userID = parsed
	} else {
		screenName = identifier
	}
	profile, err := h.Client.Profile(ctx, userID, screenName)
	if err != nil {
		return 0, err
	}
	user, err := normalize.User(profile)
	if err != nil {
		return 0, err
	}
	if err := h.Users.Save([]*models.User{user}, 0); err != nil {
		return 0, err
	}
	return user.ID, nil
}

func identifierArgs(identifier string, ids bool) map[string]string {
	if ids {
		return map[string]string{"user_id": identifier}
	}
	return map[string]string{"screen_name": identifier}
}

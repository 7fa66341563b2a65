package commands

import (
	"context"

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

const graphPageSize = 200

type GraphHandler struct {
	Db     *gorm.DB
	Client *twitter.Client
	Users  *repositories.UsersRepository
	Log    *logrus.Entry
}

func NewFollowersCommand() *cli.Command {
	return newGraphCommand(
		"followers",
		"save followers of the specified user (defaults to the authenticated account)",
		"followers/list",
		false,
	)
}

func NewFriendsCommand() *cli.Command {
	return newGraphCommand(
		"friends",
		"save accounts the specified user follows",
		"friends/list",
		true,
	)
}

// newGraphCommand builds a command that walks a cursored user list.
// inverted selects the edge direction: followers point at the subject,
// friends are pointed at by the subject.
func newGraphCommand(name, usage, endpoint string, inverted bool) *cli.Command {
	var h GraphHandler
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: "db_path",
		Flags: mergeFlags(
			[]cli.Flag{authFlag()},
			userFlags(),
			[]cli.Flag{&cli.BoolFlag{Name: "silent", Usage: "suppress progress output"}},
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
			h = GraphHandler{
				Db:     db,
				Client: client,
				Users:  &repositories.UsersRepository{Db: db},
				Log:    log,
			}
			return nil
		},
		Action: func(c *cli.Context) error {
			if err := h.fetchUserList(c, endpoint, inverted); err != nil {
				return cli.Exit(err.Error(), 1)
			}
			return nil
		},
	}
}

func (h *GraphHandler) fetchUserList(c *cli.Context, endpoint string, inverted bool) error {
	ctx := context.Background()
	profile, err := h.Client.Profile(ctx, c.Int64("user_id"), c.String("screen_name"))
	if err != nil {
		return err
	}
	subject, err := normalize.User(profile)
	if err != nil {
		return err
	}
	if err := h.Users.Save([]*models.User{subject}, 0); err != nil {
		return err
	}
	silent := c.Bool("silent")
	total := 0
	err = h.Client.CursorPages(
		ctx, endpoint, twitter.UserArgs(subject.ID, ""), "users",
		graphPageSize, twitter.DefaultCursorDelay,
		func(items []gjson.Result) error {
			users := make([]*models.User, 0, len(items))
			for _, raw := range items {
				user, err := normalize.User(raw)
				if err != nil {
					return err
				}
				users = append(users, user)
			}
			if err := h.saveEdges(users, subject.ID, inverted); err != nil {
				return err
			}
			total += len(users)
			if !silent {
				h.Log.WithField("fetched", total).Info("progress")
			}
			return nil
		},
	)
	if err != nil {
		return err
	}
	h.Log.WithFields(logrus.Fields{
		"screen_name": subject.ScreenName,
		"users":       total,
	}).Info("user list saved")
	return nil
}

func (h *GraphHandler) saveEdges(users []*models.User, subjectID int64, inverted bool) error {
	if !inverted {
		return h.Users.Save(users, subjectID)
	}
	// The subject follows these users, so each saved user is the
	// followed side of the edge.
	if err := h.Users.Save(users, 0); err != nil {
		return err
	}
	for _, user := range users {
		if err := h.Users.SaveFollowingEdge(user.ID, subjectID, ""); err != nil {
			return err
		}
	}
	return nil
}

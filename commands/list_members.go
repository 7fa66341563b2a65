package commands

import (
	"context"
	"errors"
	"strings"

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

type ListMembersHandler struct {
	Db     *gorm.DB
	Client *twitter.Client
	Users  *repositories.UsersRepository
	Log    *logrus.Entry
}

func NewListMembersCommand() *cli.Command {
	var h ListMembersHandler
	return &cli.Command{
		Name:      "list-members",
		Usage:     "save members of the specified lists",
		ArgsUsage: "db_path identifiers...",
		Flags: mergeFlags(
			[]cli.Flag{authFlag()},
			[]cli.Flag{&cli.BoolFlag{Name: "ids", Usage: "treat identifiers as list ids, not owner/slug pairs"}},
		),
		Before: func(c *cli.Context) error {
			log := common.NewLogger("list-members")
			db, err := openStore(c)
			if err != nil {
				return err
			}
			client, err := newClient(c, log)
			if err != nil {
				return err
			}
			h = ListMembersHandler{
				Db:     db,
				Client: client,
				Users:  &repositories.UsersRepository{Db: db},
				Log:    log,
			}
			return nil
		},
		Action: func(c *cli.Context) error {
			identifiers := c.Args().Slice()[1:]
			if len(identifiers) == 0 {
				return cli.Exit("at least one list identifier is required", 1)
			}
			for _, identifier := range identifiers {
				if err := h.fetchList(c, identifier, c.Bool("ids")); err != nil {
					return cli.Exit(err.Error(), 1)
				}
			}
			return nil
		},
	}
}

// fetchList walks one list's member pages. identifier is either a
// numeric list id or an owner/slug pair like "simonw/cool-people".
func (h *ListMembersHandler) fetchList(c *cli.Context, identifier string, ids bool) error {
	params := map[string]string{}
	if ids {
		params["list_id"] = identifier
	} else {
		owner, slug, found := strings.Cut(identifier, "/")
		if !found {
			return errors.New("list identifier must be owner/slug: " + identifier)
		}
		params["owner_screen_name"] = owner
		params["slug"] = slug
	}
	total := 0
	err := h.Client.CursorPages(
		context.Background(), "lists/members", params, "users",
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
	h.Log.WithFields(logrus.Fields{
		"list":    identifier,
		"members": total,
	}).Info("list members saved")
	return nil
}

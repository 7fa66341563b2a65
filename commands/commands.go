package commands

import (
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"gorm.io/gorm"

	"scraper.local/twitter-archive/common"
	"scraper.local/twitter-archive/repositories"
	"scraper.local/twitter-archive/twitter"
)

// Every data command takes the store path as its first positional
// argument, followed by command-specific identifiers.

func authFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "auth",
		Aliases: []string{"a"},
		Value:   "auth.json",
		Usage:   "path to the auth credentials file",
	}
}

func userFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Int64Flag{Name: "user_id", Usage: "numeric user id"},
		&cli.StringFlag{Name: "screen_name", Usage: "screen name"},
	}
}

func sinceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{Name: "since", Usage: "resume from the last saved position"},
		&cli.Int64Flag{Name: "since_id", Usage: "fetch tweets newer than this id"},
	}
}

func mergeFlags(groups ...[]cli.Flag) []cli.Flag {
	var merged []cli.Flag
	for _, group := range groups {
		merged = append(merged, group...)
	}
	return merged
}

// openStore opens the database named by the first positional argument
// and applies pending migrations before anything touches it.
func openStore(c *cli.Context) (*gorm.DB, error) {
	path := c.Args().Get(0)
	if path == "" {
		return nil, errors.New("database path is required")
	}
	db, err := common.NewDB(path)
	if err != nil {
		return nil, err
	}
	migrations := repositories.MigrationsRepository{Db: db}
	if err := migrations.Apply(repositories.DefaultMigrations()); err != nil {
		return nil, err
	}
	return db, nil
}

func newClient(c *cli.Context, log *logrus.Entry) (*twitter.Client, error) {
	creds, err := twitter.LoadCredentials(c.String("auth"))
	if err != nil {
		return nil, err
	}
	return twitter.NewClient(creds, log), nil
}

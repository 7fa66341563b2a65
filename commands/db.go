package commands

import (
	"github.com/urfave/cli/v2"
	"gorm.io/gorm"

	"scraper.local/twitter-archive/common"
	"scraper.local/twitter-archive/repositories"
)

type DbHandler struct {
	Db *gorm.DB
}

func NewDbCommand() *cli.Command {
	var h DbHandler
	return &cli.Command{
		Name:  "db",
		Usage: "store maintenance",
		Subcommands: []*cli.Command{
			{
				Name:      "migrate",
				Usage:     "create the schema and apply pending migrations",
				ArgsUsage: "db_path",
				Before: func(c *cli.Context) error {
					db, err := openStore(c)
					if err != nil {
						return err
					}
					h = DbHandler{Db: db}
					return nil
				},
				Action: func(c *cli.Context) error {
					if err := h.migrate(); err != nil {
						return cli.Exit(err.Error(), 1)
					}
					return nil
				},
			},
		},
	}
}

func (h *DbHandler) migrate() error {
	log := common.NewLogger("db")
	if err := repositories.EnsureSchema(h.Db); err != nil {
		return err
	}
	log.Info("schema is up to date")
	return nil
}

package commands

import (
	"github.com/urfave/cli/v2"

	"scraper.local/twitter-archive/archive"
	"scraper.local/twitter-archive/common"
)

func NewImportCommand() *cli.Command {
	var importer *archive.Importer
	return &cli.Command{
		Name:      "import",
		Usage:     "import a personal-data export (zip file, directory, or single .js file)",
		ArgsUsage: "db_path paths...",
		Before: func(c *cli.Context) error {
			db, err := openStore(c)
			if err != nil {
				return err
			}
			importer = archive.NewImporter(db, common.NewLogger("import"))
			return nil
		},
		Action: func(c *cli.Context) error {
			paths := c.Args().Slice()[1:]
			if len(paths) == 0 {
				return cli.Exit("at least one archive path is required", 1)
			}
			for _, path := range paths {
				if err := importer.ImportPath(path); err != nil {
					return cli.Exit(err.Error(), 1)
				}
			}
			return nil
		},
	}
}

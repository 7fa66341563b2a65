package main

import (
	"log"
	"os"
	"path"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"scraper.local/twitter-archive/commands"
)

func main() {
	// Optional .env next to the binary or in the working directory.
	if err := godotenv.Load(path.Join(filepath.Dir(os.Args[0]), ".env")); err != nil {
		dir, _ := os.Getwd()
		_ = godotenv.Load(path.Join(dir, ".env"))
	}

	app := &cli.App{
		Name:  "twitter-archive",
		Usage: "save twitter data to a local database",
		Action: func(c *cli.Context) error {
			cli.ShowAppHelp(c)
			return nil
		},
		Commands: []*cli.Command{
			commands.NewAuthCommand(),
			commands.NewFetchCommand(),
			commands.NewDbCommand(),
			commands.NewFollowersCommand(),
			commands.NewFriendsCommand(),
			commands.NewFollowersIdsCommand(),
			commands.NewFriendsIdsCommand(),
			commands.NewUserTimelineCommand(),
			commands.NewHomeTimelineCommand(),
			commands.NewMentionsTimelineCommand(),
			commands.NewFavoritesCommand(),
			commands.NewSearchCommand(),
			commands.NewUsersLookupCommand(),
			commands.NewStatusesLookupCommand(),
			commands.NewListMembersCommand(),
			commands.NewImportCommand(),
			commands.NewTrackCommand(),
			commands.NewFollowCommand(),
			commands.NewCronCommand(),
		},
		Version: "0.1.0",
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalln("error", err)
	}
}

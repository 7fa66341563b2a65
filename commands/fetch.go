package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/tidwall/pretty"
	"github.com/urfave/cli/v2"

	"scraper.local/twitter-archive/twitter"
)

// fetch performs one signed request against an arbitrary API URL and
// prints the pretty-printed response, useful for exploring endpoints
// before wiring them into a command.
func NewFetchCommand() *cli.Command {
	return &cli.Command{
		Name:      "fetch",
		Usage:     "make an authenticated api call and print the response",
		ArgsUsage: "url",
		Flags:     []cli.Flag{authFlag()},
		Action: func(c *cli.Context) error {
			reqURL := c.Args().Get(0)
			if reqURL == "" {
				return cli.Exit("url is required", 1)
			}
			creds, err := twitter.LoadCredentials(c.String("auth"))
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			body, err := twitter.FetchRaw(context.Background(), creds, reqURL)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			fmt.Fprintln(os.Stdout, string(pretty.Pretty(body)))
			return nil
		},
	}
}

package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"scraper.local/twitter-archive/twitter"
)

func NewAuthCommand() *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "save api credentials to a json file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "auth",
				Aliases: []string{"a"},
				Value:   "auth.json",
				Usage:   "path to save credentials to",
			},
		},
		Action: func(c *cli.Context) error {
			creds, err := promptCredentials(os.Stdin, os.Stdout)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			if err := creds.Save(c.String("auth")); err != nil {
				return cli.Exit(err.Error(), 1)
			}
			return nil
		},
	}
}

func promptCredentials(in *os.File, out *os.File) (*twitter.Credentials, error) {
	fmt.Fprintln(out, "Create an app here: https://developer.twitter.com/en/apps")
	fmt.Fprintln(out, "Then navigate to 'Keys and tokens' and paste in the following:")
	fmt.Fprintln(out)
	reader := bufio.NewReader(in)
	prompt := func(label string) (string, error) {
		fmt.Fprintf(out, "%s: ", label)
		line, err := reader.ReadString('\n')
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(line), nil
	}
	var creds twitter.Credentials
	var err error
	if creds.APIKey, err = prompt("API key"); err != nil {
		return nil, err
	}
	if creds.APISecretKey, err = prompt("API secret key"); err != nil {
		return nil, err
	}
	if creds.AccessToken, err = prompt("Access token"); err != nil {
		return nil, err
	}
	if creds.AccessTokenSecret, err = prompt("Access token secret"); err != nil {
		return nil, err
	}
	return &creds, nil
}

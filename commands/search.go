package commands

import (
	"context"
	"time"

	"github.com/urfave/cli/v2"

	"scraper.local/twitter-archive/common"
	"scraper.local/twitter-archive/models"
)

func NewSearchCommand() *cli.Command {
	var h *TimelineHandler
	return &cli.Command{
		Name:      "search",
		Usage:     "save tweets matching a search query",
		ArgsUsage: "db_path query",
		Flags:     mergeFlags([]cli.Flag{authFlag()}, sinceFlags()),
		Before: func(c *cli.Context) error {
			var err error
			h, err = newTimelineHandler(c, common.NewLogger("search"))
			return err
		},
		Action: func(c *cli.Context) error {
			query := c.Args().Get(1)
			if query == "" {
				return cli.Exit("search query is required", 1)
			}
			if err := h.search(c, query); err != nil {
				return cli.Exit(err.Error(), 1)
			}
			return nil
		},
	}
}

// search keys its resume marker on the query text itself, so each
// distinct query resumes independently.
func (h *TimelineHandler) search(c *cli.Context, query string) error {
	sinceID, err := h.sinceID(c, models.FeedSearch, query)
	if err != nil {
		return err
	}
	h.Log.WithField("query", query).Info("searching")
	return h.run(context.Background(), timelineJob{
		FeedType: models.FeedSearch,
		Key:      query,
		Endpoint: "search/tweets",
		Params:   map[string]string{"q": query, "result_type": "recent"},
		Delay:    2 * time.Second,
	}, sinceID, 0)
}

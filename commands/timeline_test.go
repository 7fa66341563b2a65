package commands

import (
	"errors"
	"flag"
	"fmt"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"

	"scraper.local/twitter-archive/common"
	"scraper.local/twitter-archive/models"
	"scraper.local/twitter-archive/repositories"
	"scraper.local/twitter-archive/twitter"
)

func sinceContext(t *testing.T, since bool, sinceID int64) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	set.Bool("since", false, "")
	set.Int64("since_id", 0, "")
	if since {
		if err := set.Set("since", "true"); err != nil {
			t.Fatalf("set flag: %v", err)
		}
	}
	if sinceID != 0 {
		if err := set.Set("since_id", fmt.Sprintf("%d", sinceID)); err != nil {
			t.Fatalf("set flag: %v", err)
		}
	}
	return cli.NewContext(nil, set, nil)
}

func newTestHandler(t *testing.T) *TimelineHandler {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := common.NewDB(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	return &TimelineHandler{
		Db:       db,
		SinceIDs: &repositories.SinceIDsRepository{Db: db},
		Log:      common.NewLogger("test"),
	}
}

func TestSinceFlagsConflict(t *testing.T) {
	h := newTestHandler(t)
	_, err := h.sinceID(sinceContext(t, true, 123), models.FeedUserTimeline, "1")
	if !errors.Is(err, twitter.ErrConflictingOptions) {
		t.Fatalf("err = %v, want ErrConflictingOptions", err)
	}
}

func TestSinceFlagExplicitID(t *testing.T) {
	h := newTestHandler(t)
	got, err := h.sinceID(sinceContext(t, false, 123), models.FeedUserTimeline, "1")
	if err != nil {
		t.Fatalf("sinceID: %v", err)
	}
	if got != 123 {
		t.Fatalf("sinceID = %d, want 123", got)
	}
}

func TestSinceFlagReadsMarker(t *testing.T) {
	h := newTestHandler(t)
	if err := h.SinceIDs.Record(models.FeedUserTimeline, "1", 456); err != nil {
		t.Fatalf("record: %v", err)
	}
	got, err := h.sinceID(sinceContext(t, true, 0), models.FeedUserTimeline, "1")
	if err != nil {
		t.Fatalf("sinceID: %v", err)
	}
	if got != 456 {
		t.Fatalf("sinceID = %d, want 456", got)
	}
}

func TestNoSinceFlagsStartsFromScratch(t *testing.T) {
	h := newTestHandler(t)
	if err := h.SinceIDs.Record(models.FeedUserTimeline, "1", 456); err != nil {
		t.Fatalf("record: %v", err)
	}
	got, err := h.sinceID(sinceContext(t, false, 0), models.FeedUserTimeline, "1")
	if err != nil {
		t.Fatalf("sinceID: %v", err)
	}
	if got != 0 {
		t.Fatalf("sinceID = %d, want 0 without --since", got)
	}
}

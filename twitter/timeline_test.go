package twitter

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/tidwall/gjson"
)

// fakeTimeline serves pages of descending tweet ids the way the
// timeline endpoints do: everything at or below max_id, newest first.
type fakeTimeline struct {
	ids      []int64
	pageSize int
	requests []string
}

func (f *fakeTimeline) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.requests = append(f.requests, r.URL.RawQuery)
		maxID := int64(1<<62 - 1)
		if v := r.URL.Query().Get("max_id"); v != "" {
			parsed, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				t.Errorf("bad max_id %q", v)
			}
			maxID = parsed
		}
		sinceID := int64(0)
		if v := r.URL.Query().Get("since_id"); v != "" {
			sinceID, _ = strconv.ParseInt(v, 10, 64)
		}
		var page []string
		for _, id := range f.ids {
			if id <= maxID && id > sinceID && len(page) < f.pageSize {
				page = append(page, fmt.Sprintf(`{"id": %d}`, id))
			}
		}
		w.Write([]byte("[" + strings.Join(page, ",") + "]"))
	}
}

func TestTimelinePaginatesToEnd(t *testing.T) {
	fake := &fakeTimeline{ids: []int64{50, 40, 30, 20, 10}, pageSize: 2}
	ts := httptest.NewServer(fake.handler(t))
	defer ts.Close()

	var seen []int64
	err := testClient(ts.URL).Timeline(context.Background(), TimelineOptions{
		Endpoint: "statuses/user_timeline",
		Delay:    time.Millisecond,
	}, func(page []gjson.Result) error {
		for _, tweet := range page {
			seen = append(seen, tweet.Get("id").Int())
		}
		return nil
	})
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	want := []int64{50, 40, 30, 20, 10}
	if len(seen) != len(want) {
		t.Fatalf("seen = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("seen = %v, want %v", seen, want)
		}
	}
}

func TestTimelineNoDuplicatesAcrossPages(t *testing.T) {
	fake := &fakeTimeline{ids: []int64{50, 40, 30, 20, 10}, pageSize: 3}
	ts := httptest.NewServer(fake.handler(t))
	defer ts.Close()

	seen := map[int64]int{}
	err := testClient(ts.URL).Timeline(context.Background(), TimelineOptions{
		Endpoint: "statuses/user_timeline",
		Delay:    time.Millisecond,
	}, func(page []gjson.Result) error {
		for _, tweet := range page {
			seen[tweet.Get("id").Int()]++
		}
		return nil
	})
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	for id, n := range seen {
		if n != 1 {
			t.Fatalf("tweet %d yielded %d times", id, n)
		}
	}
	if len(seen) != 5 {
		t.Fatalf("saw %d tweets, want 5", len(seen))
	}
}

func TestTimelineHonorsSinceID(t *testing.T) {
	fake := &fakeTimeline{ids: []int64{50, 40, 30, 20, 10}, pageSize: 10}
	ts := httptest.NewServer(fake.handler(t))
	defer ts.Close()

	var seen []int64
	err := testClient(ts.URL).Timeline(context.Background(), TimelineOptions{
		Endpoint: "statuses/user_timeline",
		SinceID:  30,
		Delay:    time.Millisecond,
	}, func(page []gjson.Result) error {
		for _, tweet := range page {
			seen = append(seen, tweet.Get("id").Int())
		}
		return nil
	})
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if len(seen) != 2 || seen[0] != 50 || seen[1] != 40 {
		t.Fatalf("seen = %v, want [50 40]", seen)
	}
}

func TestTimelineStopAfter(t *testing.T) {
	fake := &fakeTimeline{ids: []int64{50, 40, 30, 20, 10}, pageSize: 2}
	ts := httptest.NewServer(fake.handler(t))
	defer ts.Close()

	total := 0
	err := testClient(ts.URL).Timeline(context.Background(), TimelineOptions{
		Endpoint:  "statuses/user_timeline",
		StopAfter: 3,
		Delay:     time.Millisecond,
	}, func(page []gjson.Result) error {
		total += len(page)
		return nil
	})
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if total != 3 {
		t.Fatalf("yielded %d tweets, want 3", total)
	}
}

func TestTimelineUnwrapsSearchStatuses(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Write([]byte(`{"statuses": [{"id": 9}], "search_metadata": {}}`))
			return
		}
		w.Write([]byte(`{"statuses": [], "search_metadata": {}}`))
	}))
	defer ts.Close()

	var seen []int64
	err := testClient(ts.URL).Timeline(context.Background(), TimelineOptions{
		Endpoint: "search/tweets",
		Params:   map[string]string{"q": "golang"},
		Delay:    time.Millisecond,
	}, func(page []gjson.Result) error {
		for _, tweet := range page {
			seen = append(seen, tweet.Get("id").Int())
		}
		return nil
	})
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if len(seen) != 1 || seen[0] != 9 {
		t.Fatalf("seen = %v, want [9]", seen)
	}
}

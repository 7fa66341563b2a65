package twitter

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tidwall/gjson"
)

func TestCursorPagesWalksUntilZero(t *testing.T) {
	pages := map[string]string{
		"-1": `{"ids": [1, 2], "next_cursor": 77}`,
		"77": `{"ids": [3], "next_cursor": 0}`,
	}
	var cursors []string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cursor := r.URL.Query().Get("cursor")
		cursors = append(cursors, cursor)
		body, ok := pages[cursor]
		if !ok {
			t.Errorf("unexpected cursor %q", cursor)
			body = `{"ids": [], "next_cursor": 0}`
		}
		fmt.Fprint(w, body)
	}))
	defer ts.Close()

	var ids []int64
	err := testClient(ts.URL).CursorPages(
		context.Background(), "followers/ids", nil, "ids",
		5000, time.Millisecond,
		func(items []gjson.Result) error {
			for _, item := range items {
				ids = append(ids, item.Int())
			}
			return nil
		},
	)
	if err != nil {
		t.Fatalf("cursor pages: %v", err)
	}
	if len(ids) != 3 || ids[0] != 1 || ids[2] != 3 {
		t.Fatalf("ids = %v, want [1 2 3]", ids)
	}
	if len(cursors) != 2 || cursors[0] != "-1" || cursors[1] != "77" {
		t.Fatalf("cursors = %v", cursors)
	}
}

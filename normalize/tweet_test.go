package normalize

import (
	"errors"
	"fmt"
	"testing"

	"github.com/tidwall/gjson"
)

const rawTweet = `{
	"id": 1169079390577320000,
	"id_str": "1169079390577319937",
	"created_at": "Wed Sep 04 13:33:12 +0000 2019",
	"full_text": "New release! https://t.co/xyz &amp; more",
	"truncated": false,
	"display_text_range": [0, 38],
	"entities": {
		"urls": [{"url": "https://t.co/xyz", "expanded_url": "https://example.com/release"}]
	},
	"source": "<a href=\"URL\" rel=\"nofollow\">NAME</a>",
	"in_reply_to_status_id": null,
	"user": {
		"id": 12497,
		"screen_name": "simonw",
		"created_at": "Wed Nov 15 13:18:50 +0000 2006"
	},
	"retweet_count": 5,
	"favorite_count": 10,
	"favorited": false,
	"retweeted": false,
	"lang": "en"
}`

func TestTweetNormalization(t *testing.T) {
	rec, err := Tweet(gjson.Parse(rawTweet))
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if rec.Tweet.ID != 1169079390577320000 {
		t.Fatalf("id = %d", rec.Tweet.ID)
	}
	if rec.Tweet.CreatedAt != "2019-09-04T13:33:12Z" {
		t.Fatalf("created_at = %q", rec.Tweet.CreatedAt)
	}
	if rec.Tweet.FullText != "New release! https://example.com/release & more" {
		t.Fatalf("full_text = %q", rec.Tweet.FullText)
	}
	if rec.Author == nil || rec.Author.ID != 12497 {
		t.Fatal("author not extracted")
	}
	if rec.Tweet.User != 12497 {
		t.Fatalf("user fk = %d", rec.Tweet.User)
	}
	if rec.Source == nil || rec.Source.Name != "NAME" {
		t.Fatal("source not extracted")
	}
	if rec.Tweet.Source == nil || *rec.Tweet.Source != rec.Source.ID {
		t.Fatal("tweet does not reference source hash")
	}
	if rec.Tweet.InReplyToStatusID != nil {
		t.Fatal("null in_reply_to_status_id must stay nil")
	}
}

func TestTweetPlaceExtraction(t *testing.T) {
	raw := `{
		"id": 7,
		"created_at": "Wed Sep 04 15:00:00 +0000 2019",
		"full_text": "checked in",
		"user": {"id": 1, "created_at": "Wed Nov 15 13:18:50 +0000 2006"},
		"place": {
			"id": "01a9a39529b27f36",
			"place_type": "city",
			"name": "Manhattan",
			"full_name": "Manhattan, NY",
			"country_code": "US",
			"country": "United States",
			"bounding_box": {"type": "Polygon", "coordinates": [[[-74.02, 40.68]]]},
			"attributes": {"street_address": "795 Folsom St"}
		}
	}`
	rec, err := Tweet(gjson.Parse(raw))
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if rec.Place == nil || rec.Place.ID != "01a9a39529b27f36" {
		t.Fatal("place not extracted")
	}
	if rec.Tweet.Place == nil || *rec.Tweet.Place != rec.Place.ID {
		t.Fatal("tweet does not reference place id")
	}
	if rec.Place.Attributes["street_address"] != "795 Folsom St" {
		t.Fatalf("attributes = %v", rec.Place.Attributes)
	}
	if len(rec.Place.BoundingBox) == 0 {
		t.Fatal("bounding box not kept")
	}
}

func TestTweetNestedRetweetAndQuote(t *testing.T) {
	raw := fmt.Sprintf(`{
		"id": 2,
		"created_at": "Wed Sep 04 14:00:00 +0000 2019",
		"full_text": "RT outer",
		"user": {"id": 1, "created_at": "Wed Nov 15 13:18:50 +0000 2006"},
		"retweeted_status": %s,
		"quoted_status": {
			"id": 3,
			"created_at": "Wed Sep 04 12:00:00 +0000 2019",
			"full_text": "quoted inner",
			"user": {"id": 99, "created_at": "Wed Nov 15 13:18:50 +0000 2006"}
		}
	}`, rawTweet)
	rec, err := Tweet(gjson.Parse(raw))
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if rec.Retweeted == nil || rec.Retweeted.Tweet.ID != 1169079390577320000 {
		t.Fatal("retweeted status not extracted")
	}
	if rec.Tweet.RetweetedStatus == nil || *rec.Tweet.RetweetedStatus != rec.Retweeted.Tweet.ID {
		t.Fatal("outer tweet does not reference retweeted id")
	}
	if rec.Quoted == nil || rec.Quoted.Tweet.ID != 3 {
		t.Fatal("quoted status not extracted")
	}
	if rec.Quoted.Author == nil || rec.Quoted.Author.ID != 99 {
		t.Fatal("quoted author not extracted")
	}
}

func TestTweetNestingDepthBounded(t *testing.T) {
	inner := `{"id": 10, "created_at": "Wed Sep 04 10:00:00 +0000 2019", "full_text": "deep"}`
	for i := 0; i < 5; i++ {
		inner = fmt.Sprintf(`{
			"id": %d,
			"created_at": "Wed Sep 04 10:00:00 +0000 2019",
			"full_text": "level",
			"retweeted_status": %s
		}`, 11+i, inner)
	}
	rec, err := Tweet(gjson.Parse(inner))
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	depth := 0
	for cur := rec; cur.Retweeted != nil; cur = cur.Retweeted {
		depth++
	}
	if depth != 2 {
		t.Fatalf("nesting depth = %d, want 2", depth)
	}
}

func TestTweetMedia(t *testing.T) {
	raw := `{
		"id": 7,
		"created_at": "Wed Sep 04 10:00:00 +0000 2019",
		"full_text": "photo",
		"extended_entities": {
			"media": [{
				"id": 701,
				"media_url_https": "https://pbs.twimg.com/media/x.jpg",
				"type": "photo",
				"sizes": {"large": {"w": 2048, "h": 1024}}
			}]
		}
	}`
	rec, err := Tweet(gjson.Parse(raw))
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if len(rec.Media) != 1 || rec.Media[0].ID != 701 {
		t.Fatalf("media not extracted: %+v", rec.Media)
	}
	if rec.Media[0].Type != "photo" {
		t.Fatalf("media type = %q", rec.Media[0].Type)
	}
}

func TestTweetMissingID(t *testing.T) {
	_, err := Tweet(gjson.Parse(`{"full_text": "orphan"}`))
	if !errors.Is(err, ErrMalformedRecord) {
		t.Fatalf("got %v, want ErrMalformedRecord", err)
	}
}

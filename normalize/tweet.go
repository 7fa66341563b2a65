package normalize

import (
	"fmt"
	"html"

	"github.com/tidwall/gjson"

	"scraper.local/twitter-archive/common"
	"scraper.local/twitter-archive/models"
)

// maxNestingDepth bounds retweeted/quoted extraction. The producer
// never nests deeper than two levels; anything beyond that in the
// input is ignored rather than recursed into.
const maxNestingDepth = 2

// TweetRecord is one normalized tweet plus the sub-records extracted
// from it. The Tweet row holds only identifiers for the extracted
// parts; the sub-records are saved independently (nested tweets
// first, so the self-referencing foreign keys resolve).
type TweetRecord struct {
	Tweet     *models.Tweet
	Author    *models.User
	Place     *models.Place
	Source    *models.Source
	Media     []*models.Media
	Retweeted *TweetRecord
	Quoted    *TweetRecord
}

// Tweet rewrites a raw tweet object into storage form.
func Tweet(raw gjson.Result) (*TweetRecord, error) {
	return tweet(raw, 0)
}

func tweet(raw gjson.Result, depth int) (*TweetRecord, error) {
	id := raw.Get("id").Int()
	if id == 0 {
		return nil, fmt.Errorf("%w: tweet missing id", ErrMalformedRecord)
	}
	createdAt, err := ParseCreatedAt(raw.Get("created_at").String())
	if err != nil {
		return nil, fmt.Errorf("tweet %d: %w", id, err)
	}

	text := raw.Get("full_text").String()
	if text == "" {
		text = raw.Get("text").String()
	}
	text = ExpandEntities(text, raw.Get("entities"))
	text = html.UnescapeString(text)

	rec := &TweetRecord{
		Tweet: &models.Tweet{
			ID:                id,
			CreatedAt:         createdAt,
			FullText:          text,
			Truncated:         raw.Get("truncated").Bool(),
			DisplayTextRange:  raw.Get("display_text_range").Raw,
			IsQuoteStatus:     raw.Get("is_quote_status").Bool(),
			RetweetCount:      int(raw.Get("retweet_count").Int()),
			FavoriteCount:     int(raw.Get("favorite_count").Int()),
			Favorited:         raw.Get("favorited").Bool(),
			Retweeted:         raw.Get("retweeted").Bool(),
			PossiblySensitive: raw.Get("possibly_sensitive").Bool(),
			Lang:              raw.Get("lang").String(),
		},
	}

	if v := raw.Get("in_reply_to_status_id"); v.Exists() && v.Int() != 0 {
		n := v.Int()
		rec.Tweet.InReplyToStatusID = &n
	}
	if v := raw.Get("in_reply_to_user_id"); v.Exists() && v.Int() != 0 {
		n := v.Int()
		rec.Tweet.InReplyToUserID = &n
	}
	if v := raw.Get("in_reply_to_screen_name"); v.Exists() && v.String() != "" {
		s := v.String()
		rec.Tweet.InReplyToScreenName = &s
	}

	if user := raw.Get("user"); user.IsObject() {
		author, err := User(user)
		if err != nil {
			return nil, fmt.Errorf("tweet %d: %w", id, err)
		}
		rec.Author = author
		rec.Tweet.User = author.ID
	}

	if place := raw.Get("place"); place.IsObject() {
		rec.Place = &models.Place{
			ID:              place.Get("id").String(),
			URL:             place.Get("url").String(),
			PlaceType:       place.Get("place_type").String(),
			Name:            place.Get("name").String(),
			FullName:        place.Get("full_name").String(),
			CountryCode:     place.Get("country_code").String(),
			Country:         place.Get("country").String(),
			ContainedWithin: common.JSONValue(place.Get("contained_within").Value()),
			BoundingBox:     common.JSONValue(place.Get("bounding_box").Value()),
			Attributes:      common.JSONMap(place.Get("attributes").Value()),
		}
		placeID := rec.Place.ID
		rec.Tweet.Place = &placeID
	}

	if snippet := raw.Get("source").String(); snippet != "" {
		src, err := Source(snippet)
		if err == nil {
			rec.Source = src
			rec.Tweet.Source = &src.ID
		}
	}

	raw.Get("extended_entities.media").ForEach(func(_, m gjson.Result) bool {
		mediaID := m.Get("id").Int()
		if mediaID == 0 {
			return true
		}
		rec.Media = append(rec.Media, &models.Media{
			ID:            mediaID,
			Indices:       m.Get("indices").Raw,
			MediaURL:      m.Get("media_url").String(),
			MediaURLHTTPS: m.Get("media_url_https").String(),
			URL:           m.Get("url").String(),
			DisplayURL:    m.Get("display_url").String(),
			ExpandedURL:   m.Get("expanded_url").String(),
			Type:          m.Get("type").String(),
			Sizes:         common.JSONValue(m.Get("sizes").Value()),
		})
		return true
	})

	if depth < maxNestingDepth {
		if nested := raw.Get("retweeted_status"); nested.IsObject() {
			inner, err := tweet(nested, depth+1)
			if err != nil {
				return nil, fmt.Errorf("tweet %d: %w", id, err)
			}
			rec.Retweeted = inner
			rec.Tweet.RetweetedStatus = &inner.Tweet.ID
		}
		if nested := raw.Get("quoted_status"); nested.IsObject() {
			inner, err := tweet(nested, depth+1)
			if err != nil {
				return nil, fmt.Errorf("tweet %d: %w", id, err)
			}
			rec.Quoted = inner
			rec.Tweet.QuotedStatus = &inner.Tweet.ID
		}
	}

	return rec, nil
}

package normalize

import (
	"fmt"

	"github.com/tidwall/gjson"

	"scraper.local/twitter-archive/models"
)

// User rewrites a raw user object into its storage form: canonical
// timestamp, expanded URLs in description and url, redundant *_str
// and nested status fields dropped.
func User(raw gjson.Result) (*models.User, error) {
	id := raw.Get("id").Int()
	if id == 0 {
		return nil, fmt.Errorf("%w: user missing id", ErrMalformedRecord)
	}
	createdAt, err := ParseCreatedAt(raw.Get("created_at").String())
	if err != nil {
		return nil, fmt.Errorf("user %d: %w", id, err)
	}

	description := raw.Get("description").String()
	if description != "" {
		description = ExpandEntities(description, raw.Get("entities.description"))
	}
	url := raw.Get("url").String()
	if url != "" {
		url = ExpandEntities(url, raw.Get("entities.url"))
	}

	return &models.User{
		ID:              id,
		ScreenName:      raw.Get("screen_name").String(),
		Name:            raw.Get("name").String(),
		Location:        raw.Get("location").String(),
		Description:     description,
		URL:             url,
		Protected:       raw.Get("protected").Bool(),
		Verified:        raw.Get("verified").Bool(),
		GeoEnabled:      raw.Get("geo_enabled").Bool(),
		DefaultProfile:  raw.Get("default_profile").Bool(),
		Lang:            raw.Get("lang").String(),
		TimeZone:        raw.Get("time_zone").String(),
		ProfileImageURL: raw.Get("profile_image_url_https").String(),
		FollowersCount:  int(raw.Get("followers_count").Int()),
		FriendsCount:    int(raw.Get("friends_count").Int()),
		ListedCount:     int(raw.Get("listed_count").Int()),
		FavouritesCount: int(raw.Get("favourites_count").Int()),
		StatusesCount:   int(raw.Get("statuses_count").Int()),
		CreatedAt:       createdAt,
	}, nil
}

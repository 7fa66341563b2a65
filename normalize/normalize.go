package normalize

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

// ErrMalformedRecord marks a raw record missing required fields.
// Archive imports skip these records; live API callers abort, since a
// malformed record there means the producer broke its contract.
var ErrMalformedRecord = errors.New("malformed record")

// createdAtFormat is the producer's timestamp encoding,
// e.g. "Wed Sep 04 13:33:12 +0000 2019".
const createdAtFormat = time.RubyDate

// ParseCreatedAt canonicalizes a creation timestamp to RFC 3339 UTC.
// Feeding it an already-canonical string yields the same value, so
// records can be re-normalized safely.
func ParseCreatedAt(s string) (string, error) {
	if s == "" {
		return "", fmt.Errorf("%w: missing created_at", ErrMalformedRecord)
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC().Format(time.RFC3339), nil
	}
	t, err := time.Parse(createdAtFormat, s)
	if err != nil {
		return "", fmt.Errorf("%w: created_at %q: %v", ErrMalformedRecord, s, err)
	}
	return t.UTC().Format(time.RFC3339), nil
}

// ExpandEntities substitutes every shortened URL in s with its
// expanded form from the record's entity map. Entities is the raw
// object whose lists (urls, media, ...) each carry url/expanded_url
// pairs. Short URLs are unique within a record, so replacement order
// does not matter; unmapped short forms are left as they are.
func ExpandEntities(s string, entities gjson.Result) string {
	if s == "" || !entities.Exists() {
		return s
	}
	entities.ForEach(func(_, list gjson.Result) bool {
		list.ForEach(func(_, ent gjson.Result) bool {
			short := ent.Get("url").String()
			if short == "" {
				return true
			}
			expanded := ent.Get("expanded_url").String()
			if expanded == "" {
				expanded = short
			}
			s = strings.ReplaceAll(s, short, expanded)
			return true
		})
		return true
	})
	return s
}

package archive

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Row is one record destined for a dynamically created archive table.
// Values are int64, float64, bool, string, raw JSON string for nested
// structures, or nil.
type Row map[string]any

// TransformFunc maps one decoded record file onto the tables it
// produces. Most files yield a single table of the same name.
type TransformFunc func(data gjson.Result) map[string][]Row

type feedHandler struct {
	transform TransformFunc
	pk        string
}

// feedHandlers maps a record file's base name (without .js) to its
// handler. Built once, read-only afterwards.
var feedHandlers = map[string]feedHandler{}

func registerKey(name, key, pk string) {
	feedHandlers[name] = feedHandler{
		transform: func(data gjson.Result) map[string][]Row {
			var rows []Row
			data.ForEach(func(_, item gjson.Result) bool {
				rows = append(rows, rowFromJSON(item.Get(key)))
				return true
			})
			return map[string][]Row{name: rows}
		},
		pk: pk,
	}
}

func registerEach(name, pk string, fn func(item gjson.Result) Row) {
	feedHandlers[name] = feedHandler{
		transform: func(data gjson.Result) map[string][]Row {
			var rows []Row
			data.ForEach(func(_, item gjson.Result) bool {
				rows = append(rows, fn(item))
				return true
			})
			return map[string][]Row{name: rows}
		},
		pk: pk,
	}
}

func registerMulti(name string, fn TransformFunc) {
	feedHandlers[name] = feedHandler{transform: fn}
}

// rowFromJSON converts a JSON object into a Row. Nested objects and
// arrays are kept as raw JSON text columns.
func rowFromJSON(obj gjson.Result) Row {
	row := Row{}
	obj.ForEach(func(key, value gjson.Result) bool {
		row[key.String()] = columnValue(value)
		return true
	})
	return row
}

func columnValue(value gjson.Result) any {
	switch value.Type {
	case gjson.String:
		return value.String()
	case gjson.Number:
		n := value.Num
		if n == float64(int64(n)) {
			return int64(n)
		}
		return n
	case gjson.True:
		return true
	case gjson.False:
		return false
	case gjson.Null:
		return nil
	default:
		return value.Raw
	}
}

func init() {
	registerKey("account-creation-ip", "accountCreationIp", "")
	registerKey("account-suspension", "accountSuspension", "")
	registerKey("account-timezone", "accountTimezone", "")
	registerKey("account", "account", "")

	for name, path := range map[string]string{
		"ad-engagements":                     "ad.adsUserData.adEngagements",
		"ad-impressions":                     "ad.adsUserData.adImpressions",
		"ad-mobile-conversions-attributed":   "ad.adsUserData.attributedMobileAppConversions",
		"ad-mobile-conversions-unattributed": "ad.adsUserData.unattributedMobileAppConversions",
		"ad-online-conversions-attributed":   "ad.adsUserData.attributedOnlineConversions",
		"ad-online-conversions-unattributed": "ad.adsUserData.unattributedOnlineConversions",
	} {
		p := path
		registerEach(name, "", func(item gjson.Result) Row {
			return rowFromJSON(item.Get(p))
		})
	}

	registerEach("ageinfo", "", func(item gjson.Result) Row {
		return rowFromJSON(item.Get("ageMeta.ageInfo"))
	})

	registerKey("block", "blocking", "accountId")
	registerKey("connected-applications", "connectedApplication", "id")
	registerKey("direct-message-group-headers", "dmConversation", "conversationId")
	registerKey("direct-message-group", "dmConversation", "conversationId")
	registerKey("direct-message-headers", "dmConversation", "conversationId")
	// Conversations repeat across files, so no natural key here.
	registerKey("direct-message", "dmConversation", "")

	registerKey("email-address-change", "emailAddressChange", "")
	registerKey("follower", "follower", "accountId")
	registerKey("following", "following", "accountId")
	registerKey("ip-audit", "ipAudit", "")
	registerKey("like", "like", "tweetId")

	registerMulti("lists-created", func(data gjson.Result) map[string][]Row {
		return map[string][]Row{"lists-created": listsFromURLs(data)}
	})
	registerMulti("lists-member", func(data gjson.Result) map[string][]Row {
		return map[string][]Row{"lists-member": listsFromURLs(data)}
	})
	registerMulti("lists-subscribed", func(data gjson.Result) map[string][]Row {
		return map[string][]Row{"lists-subscribed": listsFromURLs(data)}
	})

	registerKey("moment", "moment", "momentId")

	registerMulti("ni-devices", func(data gjson.Result) map[string][]Row {
		var rows []Row
		data.ForEach(func(_, item gjson.Result) bool {
			block := item.Get("niDeviceResponse")
			block.ForEach(func(category, details gjson.Result) bool {
				row := rowFromJSON(details)
				row["category"] = category.String()
				rows = append(rows, row)
				return false
			})
			return true
		})
		return map[string][]Row{"ni-devices": rows}
	})

	registerMulti("personalization", personalization)

	registerKey("phone-number", "device", "")
	registerKey("profile", "profile", "")
	registerKey("saved-search", "savedSearch", "savedSearchId")

	registerEach("tweet", "id", func(item gjson.Result) Row {
		row := rowFromJSON(item)
		for key, value := range row {
			if key != "id" && !strings.HasSuffix(key, "_id") {
				continue
			}
			if s, ok := value.(string); ok {
				row[key] = gjson.Parse(s).Int()
			}
		}
		return row
	})

	registerKey("verified", "verified", "")
}

func personalization(data gjson.Result) map[string][]Row {
	first := data.Get("0.p13nData")
	out := map[string][]Row{}

	var languages []Row
	first.Get("demographics.languages").ForEach(func(_, item gjson.Result) bool {
		languages = append(languages, rowFromJSON(item))
		return true
	})
	out["personalization-demographics-languages"] = languages
	out["personalization-demographics-genderInfo"] = []Row{
		rowFromJSON(first.Get("demographics.genderInfo")),
	}

	var interests []Row
	first.Get("interests.interests").ForEach(func(_, item gjson.Result) bool {
		interests = append(interests, rowFromJSON(item))
		return true
	})
	out["personalization-interests"] = interests

	var partner []Row
	first.Get("interests.partnerInterests").ForEach(func(_, item gjson.Result) bool {
		partner = append(partner, rowFromJSON(item))
		return true
	})
	out["personalization-partnerInterests"] = partner

	var advertisers []Row
	first.Get("interests.audienceAndAdvertisers.advertisers").ForEach(func(_, item gjson.Result) bool {
		advertisers = append(advertisers, Row{"name": item.String()})
		return true
	})
	out["personalization-advertisers"] = advertisers

	out["personalization-num-audiences"] = []Row{
		{"numAudiences": columnValue(first.Get("interests.audienceAndAdvertisers.numAudiences"))},
	}

	var shows []Row
	first.Get("interests.shows").ForEach(func(_, item gjson.Result) bool {
		shows = append(shows, Row{"name": item.String()})
		return true
	})
	out["personalization-shows"] = shows

	var locations []Row
	first.Get("locationHistory").ForEach(func(_, item gjson.Result) bool {
		locations = append(locations, Row{"name": item.String()})
		return true
	})
	out["personalization-locationHistory"] = locations

	out["personalization-inferredAgeInfo"] = []Row{
		rowFromJSON(first.Get("inferredAgeInfo")),
	}
	return out
}

func listsFromURLs(data gjson.Result) []Row {
	var lists []Row
	data.ForEach(func(_, block gjson.Result) bool {
		block.Get("userListInfo.urls").ForEach(func(_, url gjson.Result) bool {
			bits := strings.Split(url.String(), "/")
			if len(bits) < 3 {
				return true
			}
			lists = append(lists, Row{
				"screen_name": bits[len(bits)-3],
				"list_slug":   bits[len(bits)-1],
			})
			return true
		})
		return true
	})
	return lists
}

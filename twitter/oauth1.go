package twitter

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// oauth1Signer signs requests with OAuth 1.0a HMAC-SHA1. nowFn and
// nonceFn are swappable so signatures are reproducible in tests.
type oauth1Signer struct {
	creds   *Credentials
	nowFn   func() time.Time
	nonceFn func() string
}

func newOAuth1Signer(creds *Credentials) *oauth1Signer {
	return &oauth1Signer{
		creds:   creds,
		nowFn:   time.Now,
		nonceFn: func() string { return strconv.FormatInt(rand.Int63(), 36) },
	}
}

// Sign sets the Authorization header. params must contain every
// query-string and form parameter carried by the request; they are
// part of the signature base string.
func (s *oauth1Signer) Sign(req *http.Request, params map[string]string) {
	oauth := map[string]string{
		"oauth_consumer_key":     s.creds.APIKey,
		"oauth_nonce":            s.nonceFn(),
		"oauth_signature_method": "HMAC-SHA1",
		"oauth_timestamp":        strconv.FormatInt(s.nowFn().Unix(), 10),
		"oauth_token":            s.creds.AccessToken,
		"oauth_version":          "1.0",
	}
	all := map[string]string{}
	for k, v := range oauth {
		all[k] = v
	}
	for k, v := range params {
		all[k] = v
	}
	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	paramParts := make([]string, 0, len(keys))
	for _, k := range keys {
		paramParts = append(paramParts, rfc3986(k)+"="+rfc3986(all[k]))
	}
	baseURL := req.URL.Scheme + "://" + req.URL.Host + req.URL.Path
	base := req.Method + "&" + rfc3986(baseURL) + "&" + rfc3986(strings.Join(paramParts, "&"))
	signingKey := rfc3986(s.creds.APISecretKey) + "&" + rfc3986(s.creds.AccessTokenSecret)
	mac := hmac.New(sha1.New, []byte(signingKey))
	mac.Write([]byte(base))
	oauth["oauth_signature"] = base64.StdEncoding.EncodeToString(mac.Sum(nil))

	hdrKeys := make([]string, 0, len(oauth))
	for k := range oauth {
		hdrKeys = append(hdrKeys, k)
	}
	sort.Strings(hdrKeys)
	authParts := make([]string, 0, len(hdrKeys))
	for _, k := range hdrKeys {
		authParts = append(authParts, fmt.Sprintf("%s=%q", rfc3986(k), rfc3986(oauth[k])))
	}
	req.Header.Set("Authorization", "OAuth "+strings.Join(authParts, ", "))
	req.Header.Set("Accept", "application/json")
}

func encodeQuery(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, url.QueryEscape(k)+"="+url.QueryEscape(params[k]))
	}
	return strings.Join(parts, "&")
}

// rfc3986 percent-encodes per the OAuth spec, which is stricter than
// query escaping about "+" and "*".
func rfc3986(s string) string {
	escaped := url.QueryEscape(s)
	escaped = strings.ReplaceAll(escaped, "+", "%20")
	return strings.ReplaceAll(escaped, "*", "%2A")
}

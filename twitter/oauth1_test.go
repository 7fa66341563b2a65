package twitter

import (
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestOAuth1SignatureIsDeterministic(t *testing.T) {
	signer := newOAuth1Signer(&Credentials{
		APIKey:            "ck",
		APISecretKey:      "cs",
		AccessToken:       "at",
		AccessTokenSecret: "as",
	})
	signer.nowFn = func() time.Time { return time.Unix(1567604000, 0) }
	signer.nonceFn = func() string { return "fixed-nonce" }

	sign := func() string {
		req, err := http.NewRequest(http.MethodGet, "https://api.twitter.com/1.1/users/show.json?user_id=1", nil)
		if err != nil {
			t.Fatalf("request: %v", err)
		}
		signer.Sign(req, map[string]string{"user_id": "1"})
		return req.Header.Get("Authorization")
	}
	first := sign()
	if !strings.HasPrefix(first, "OAuth ") {
		t.Fatalf("header = %q", first)
	}
	for _, part := range []string{
		`oauth_consumer_key="ck"`,
		`oauth_token="at"`,
		`oauth_signature_method="HMAC-SHA1"`,
		`oauth_timestamp="1567604000"`,
		"oauth_signature=",
	} {
		if !strings.Contains(first, part) {
			t.Fatalf("header missing %s: %q", part, first)
		}
	}
	if second := sign(); second != first {
		t.Fatalf("signature not deterministic:\n%s\n%s", first, second)
	}
}

func TestRFC3986Encoding(t *testing.T) {
	cases := map[string]string{
		"a b": "a%20b",
		"a*b": "a%2Ab",
		"a~b": "a~b",
	}
	for in, want := range cases {
		if got := rfc3986(in); got != want {
			t.Fatalf("rfc3986(%q) = %q, want %q", in, got, want)
		}
	}
}

package models

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
)

// Source is the client application that posted a tweet. The producer
// only ever sends it as an inline HTML anchor, so the row is keyed by
// a content hash of (name, url) and shared across tweets.
type Source struct {
	ID   string `gorm:"size:40;primaryKey"`
	Name string `gorm:"size:100"`
	URL  string `gorm:"size:200"`
}

func (m *Source) TableName() string {
	return "sources"
}

// HashID derives the content-addressed identifier: SHA-1 over the
// compact JSON encoding with keys in sorted order. Stable across runs
// and across reimplementations, so existing stores stay compatible.
func (m *Source) HashID() string {
	// Encoder instead of Marshal: the encoding must keep &, < and >
	// literal to hash byte for byte like existing stores do.
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.Encode(struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	}{m.Name, m.URL})
	sum := sha1.Sum(bytes.TrimRight(buf.Bytes(), "\n"))
	return hex.EncodeToString(sum[:])
}

package normalize

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"scraper.local/twitter-archive/models"
)

// Source parses the inline client snippet (`<a href="URL">NAME</a>`)
// into a content-addressed Source row. The ephemeral HTML encoding is
// never stored; many tweets share one row via the hash id.
func Source(snippet string) (*models.Source, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(snippet))
	if err != nil {
		return nil, fmt.Errorf("%w: source %q: %v", ErrMalformedRecord, snippet, err)
	}
	anchor := doc.Find("a").First()
	if anchor.Length() == 0 {
		return nil, fmt.Errorf("%w: source %q has no anchor", ErrMalformedRecord, snippet)
	}
	src := &models.Source{
		Name: anchor.Text(),
		URL:  anchor.AttrOr("href", ""),
	}
	src.ID = src.HashID()
	return src, nil
}

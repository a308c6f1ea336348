// Package lectionary builds render payloads from the USCCB Spanish daily
// readings feed: fetching the RSS item for a date, parsing the reading
// sections out of its description HTML, phrasing the spoken introductions,
// and chunking the bodies into slide-sized pieces.
package lectionary

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/autolectio/lectio/core/errors"
)

// FeedURL is the USCCB lecturas RSS feed.
const FeedURL = "https://bible.usccb.org/lecturas.rss"

// Item is one feed entry: a day of readings.
type Item struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
}

type rssDoc struct {
	Channel struct {
		Items []Item `xml:"item"`
	} `xml:"channel"`
}

// Fetch downloads and parses the feed. A nil client uses a default with a
// 30 second timeout.
func Fetch(ctx context.Context, client *http.Client, url string) ([]Item, error) {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build feed request")
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.NewIO("fetch", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewIO("fetch", url, fmt.Errorf("status %s", resp.Status))
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewIO("read", url, err)
	}
	return ParseFeed(raw)
}

// ParseFeed decodes raw RSS bytes into feed items.
func ParseFeed(raw []byte) ([]Item, error) {
	var doc rssDoc
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return nil, errors.NewParse("RSS", "", err.Error())
	}
	if len(doc.Channel.Items) == 0 {
		return nil, errors.NewParse("RSS", "", "feed holds no items")
	}
	return doc.Channel.Items, nil
}

// DateKey formats a date the way the feed encodes it in item links (mmddyy).
func DateKey(d time.Time) string {
	return d.Format("010206")
}

// PickItem finds the item for a date by its link key. Returns nil when the
// feed window does not cover the date.
func PickItem(items []Item, d time.Time) *Item {
	key := DateKey(d)
	for i := range items {
		if strings.Contains(items[i].Link, key) {
			return &items[i]
		}
	}
	return nil
}

// ParseDate accepts the date notations the CLI takes: ISO (2026-08-30),
// MM-DD-YY and MM/DD/YY.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", "01-02-06", "01/02/06"} {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

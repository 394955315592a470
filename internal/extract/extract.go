// Package extract turns raw Nitter search HTML into tweets. It deliberately
// uses tolerant pattern matching over a fragment at a time instead of a strict
// DOM parser: the upstream markup is unstable, and partial extraction beats
// aborting on a malformed page.
package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"nitter_collector/internal/domain"
)

const (
	// CanonicalDomain is the host used to derive tweet permalinks.
	CanonicalDomain = "twitter.com"

	// MaxTextLength caps normalized tweet text. Truncation is silent.
	MaxTextLength = 500

	// MinTextLength discards fragments whose normalized text is shorter.
	MinTextLength = 10
)

// Patterns holds the compiled markers that segment a page and pull fields out
// of each fragment. Keeping them in one place lets the markup patterns change
// without touching the accept/discard logic.
type Patterns struct {
	Fragment  *regexp.Regexp
	Permalink *regexp.Regexp
	Content   *regexp.Regexp
	Date      *regexp.Regexp
	Followers *regexp.Regexp
	Likes     *regexp.Regexp
}

// DefaultPatterns matches the timeline markup Nitter mirrors serve today.
func DefaultPatterns() *Patterns {
	return &Patterns{
		Fragment:  regexp.MustCompile(`(?s)<div class="timeline-item[^"]*"[^>]*>(.*?)<div class="show-more`),
		Permalink: regexp.MustCompile(`/(?P<handle>[^/]+)/status/(?P<id>\d+)`),
		Content:   regexp.MustCompile(`(?s)<div class="tweet-content[^"]*"[^>]*>(.*?)</div>`),
		Date:      regexp.MustCompile(`<span class="tweet-date"[^>]*>.*?title="([^"]+)"`),
		Followers: regexp.MustCompile(`(?i)(\d+(?:,\d+)*)\s*followers?`),
		Likes:     regexp.MustCompile(`icon-heart[^>]*>.*?(\d+(?:,\d+)*)`),
	}
}

var (
	tagPattern        = regexp.MustCompile(`<[^>]+>`)
	entityReplacer    = strings.NewReplacer("&quot;", `"`, "&amp;", "&", "&lt;", "<", "&gt;", ">", "&nbsp;", " ")
	thousandsReplacer = strings.NewReplacer(",", "")
)

// Extract segments html into post fragments and assembles one tweet per
// fragment that carries a permalink and enough text. It never fails: fragments
// missing required fields are skipped, and whatever could be assembled is
// returned in document order.
func (p *Patterns) Extract(html, hashtag string) []domain.Tweet {
	fragments := p.Fragment.FindAllStringSubmatch(html, -1)

	tweets := make([]domain.Tweet, 0, len(fragments))
	for _, fragment := range fragments {
		if tweet, ok := p.extractOne(fragment[1], hashtag); ok {
			tweets = append(tweets, tweet)
		}
	}
	return tweets
}

func (p *Patterns) extractOne(fragment, hashtag string) (domain.Tweet, bool) {
	link := p.Permalink.FindStringSubmatch(fragment)
	if link == nil {
		return domain.Tweet{}, false
	}
	username := link[p.Permalink.SubexpIndex("handle")]
	tweetID := link[p.Permalink.SubexpIndex("id")]

	content := p.Content.FindStringSubmatch(fragment)
	if content == nil {
		return domain.Tweet{}, false
	}
	text := normalizeText(content[1])
	if len([]rune(text)) < MinTextLength {
		return domain.Tweet{}, false
	}
	text = truncate(text, MaxTextLength)

	var createdAt *string
	if date := p.Date.FindStringSubmatch(fragment); date != nil {
		createdAt = &date[1]
	}

	return domain.Tweet{
		ID:        tweetID,
		Username:  username,
		Text:      text,
		URL:       fmt.Sprintf("https://%s/%s/status/%s", CanonicalDomain, username, tweetID),
		Followers: parseCount(p.Followers, fragment),
		Likes:     parseCount(p.Likes, fragment),
		CreatedAt: createdAt,
		Hashtag:   hashtag,
	}, true
}

func normalizeText(raw string) string {
	text := tagPattern.ReplaceAllString(raw, " ")
	text = entityReplacer.Replace(text)
	return strings.Join(strings.Fields(text), " ")
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// parseCount pulls a thousands-separated integer adjacent to a labeled marker.
// Absence or a parse failure yields 0, never an error.
func parseCount(pattern *regexp.Regexp, fragment string) int {
	match := pattern.FindStringSubmatch(fragment)
	if match == nil {
		return 0
	}
	n, err := strconv.Atoi(thousandsReplacer.Replace(match[1]))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

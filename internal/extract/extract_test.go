package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fragment(inner string) string {
	return `<div class="timeline-item "><div class="tweet-body">` + inner + `</div><div class="show-more"><a href="?cursor=x">Load more</a></div>`
}

func TestExtract_AssemblesRecord(t *testing.T) {
	html := fragment(`<a class="tweet-link" href="/alice/status/123456#m"></a>` +
		`<div class="tweet-content media-body">Flight AA100 cancelled, stuck at gate &amp; furious</div>` +
		`<span class="icon-heart"></span> 42`)

	tweets := DefaultPatterns().Extract(html, "#flightcancelled")
	require.Len(t, tweets, 1)

	got := tweets[0]
	assert.Equal(t, "123456", got.ID)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "Flight AA100 cancelled, stuck at gate & furious", got.Text)
	assert.Equal(t, "https://twitter.com/alice/status/123456", got.URL)
	assert.Equal(t, 42, got.Likes)
	assert.Equal(t, 0, got.Followers)
	assert.Nil(t, got.CreatedAt)
	assert.Equal(t, "#flightcancelled", got.Hashtag)
}

func TestExtract_PreservesDocumentOrder(t *testing.T) {
	html := fragment(`<a href="/alice/status/111"></a><div class="tweet-content">first tweet in the page</div>`) +
		fragment(`<a href="/bob/status/222"></a><div class="tweet-content">second tweet in the page</div>`)

	tweets := DefaultPatterns().Extract(html, "#x")
	require.Len(t, tweets, 2)
	assert.Equal(t, "111", tweets[0].ID)
	assert.Equal(t, "222", tweets[1].ID)
}

func TestExtract_DiscardsFragmentWithoutPermalink(t *testing.T) {
	html := fragment(`<div class="tweet-content">no permalink anywhere in this fragment</div>`)

	tweets := DefaultPatterns().Extract(html, "#x")
	assert.Empty(t, tweets)
}

func TestExtract_DiscardsShortText(t *testing.T) {
	// "short" is well under ten characters once normalized.
	html := fragment(`<a href="/alice/status/123"></a><div class="tweet-content">  <b>short</b>  </div>`)

	tweets := DefaultPatterns().Extract(html, "#x")
	assert.Empty(t, tweets)
}

func TestExtract_SkipsBadFragmentKeepsRest(t *testing.T) {
	html := fragment(`<div class="tweet-content">orphaned content, no link</div>`) +
		fragment(`<a href="/carol/status/333"></a><div class="tweet-content">a perfectly valid tweet here</div>`)

	tweets := DefaultPatterns().Extract(html, "#x")
	require.Len(t, tweets, 1)
	assert.Equal(t, "333", tweets[0].ID)
}

func TestExtract_TruncatesLongText(t *testing.T) {
	long := strings.Repeat("a", 900)
	html := fragment(`<a href="/alice/status/123"></a><div class="tweet-content">` + long + `</div>`)

	tweets := DefaultPatterns().Extract(html, "#x")
	require.Len(t, tweets, 1)
	assert.Len(t, []rune(tweets[0].Text), MaxTextLength)
}

func TestExtract_NormalizesMarkupAndEntities(t *testing.T) {
	html := fragment(`<a href="/alice/status/123"></a>` +
		`<div class="tweet-content">gate&nbsp;B7 &lt;terrible&gt;   <a href="#">#delay</a>  &quot;again&quot;</div>`)

	tweets := DefaultPatterns().Extract(html, "#x")
	require.Len(t, tweets, 1)
	assert.Equal(t, `gate B7 <terrible> #delay "again"`, tweets[0].Text)
}

func TestExtract_ParsesCounts(t *testing.T) {
	html := fragment(`<a href="/alice/status/123"></a>` +
		`<div class="tweet-content">counting followers and likes today</div>` +
		`<span>12,345 followers</span><span class="icon-heart"></span> 1,042`)

	tweets := DefaultPatterns().Extract(html, "#x")
	require.Len(t, tweets, 1)
	assert.Equal(t, 12345, tweets[0].Followers)
	assert.Equal(t, 1042, tweets[0].Likes)
}

func TestExtract_Timestamp(t *testing.T) {
	html := fragment(`<a href="/alice/status/123"></a>` +
		`<div class="tweet-content">a tweet with a proper date on it</div>` +
		`<span class="tweet-date"><a href="/alice/status/123" title="Nov 13, 2025 · 2:19 PM UTC">13h</a></span>`)

	tweets := DefaultPatterns().Extract(html, "#x")
	require.Len(t, tweets, 1)
	require.NotNil(t, tweets[0].CreatedAt)
	assert.Equal(t, "Nov 13, 2025 · 2:19 PM UTC", *tweets[0].CreatedAt)
}

func TestExtract_NeverFailsOnArbitraryInput(t *testing.T) {
	inputs := []string{
		"",
		"not html at all",
		`<div class="timeline-item ">truncated mid fragm`,
		`<div class="timeline-item "><div class="show-more">`,
		strings.Repeat(`<div class="timeline-item "><div class="show-more">`, 50),
	}

	for _, input := range inputs {
		tweets := DefaultPatterns().Extract(input, "#x")
		assert.NotNil(t, tweets)
	}
}

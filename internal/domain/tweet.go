package domain

// Tweet is one scraped post. Field names match the wire format expected by the
// downstream ingestion service.
type Tweet struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	Text      string  `json:"text"`
	URL       string  `json:"url"`
	Followers int     `json:"followers"`
	Likes     int     `json:"likes"`
	CreatedAt *string `json:"created_at"`
	Hashtag   string  `json:"hashtag"`
}

// WorkItem is one scheduled search: the query sent to the mirror and the
// hashtag label attached to every tweet it yields.
type WorkItem struct {
	Query   string
	Hashtag string
}

package domain

import "time"

// ItemResult records the outcome of one work item within a run.
type ItemResult struct {
	Hashtag string `json:"hashtag"`
	Mirror  string `json:"mirror"`
	Found   int    `json:"tweets_found"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// IngestResult is the downstream service's answer to a forwarded batch.
type IngestResult struct {
	Saved    int `json:"saved"`
	Filtered int `json:"filtered"`
}

// RunReport summarizes one complete collection run. It is always well-formed:
// item failures and forwarding failures are recorded inside it, never
// propagated past it.
type RunReport struct {
	Success         bool          `json:"success"`
	Elapsed         time.Duration `json:"elapsed"`
	Hashtags        []string      `json:"hashtags"`
	Results         []ItemResult  `json:"results"`
	TweetsCollected int           `json:"tweets_collected"`
	Ingestion       *IngestResult `json:"ingestion,omitempty"`
	IngestionError  string        `json:"ingestion_error,omitempty"`
}

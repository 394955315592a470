package domain

import "time"

// FailureKind classifies a failed mirror attempt.
type FailureKind string

const (
	// FailureNone is the zero value: the attempt succeeded.
	FailureNone    FailureKind = ""
	FailureTimeout FailureKind = "timeout"
	FailureHTTP    FailureKind = "http-error"
	FailureBlocked FailureKind = "blocked"
	FailureNetwork FailureKind = "network-error"
)

// Outcome is the health signal reported to the registry after every attempt
// against a mirror, successful or not.
type Outcome struct {
	Latency time.Duration
	Failure FailureKind
	Status  int
}

// FetchResult is what the fallback fetcher returns for one work item.
// Mirror is the mirror that succeeded, or the last one attempted on failure.
type FetchResult struct {
	Tweets   []Tweet `json:"tweets"`
	Mirror   string  `json:"mirror"`
	Attempts int     `json:"attempts"`
}

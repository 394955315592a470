package domain

import "time"

// MirrorProbe is the result of probing a single mirror in a probe run.
type MirrorProbe struct {
	Mirror      string        `json:"mirror"`
	Status      int           `json:"status,omitempty"`
	Latency     time.Duration `json:"latency"`
	Working     bool          `json:"working"`
	Blocked     bool          `json:"blocked"`
	TweetsFound int           `json:"tweets_found"`
	Error       string        `json:"error,omitempty"`
}

// ProbeReport ranks every configured mirror after one probe query each.
type ProbeReport struct {
	Query        string        `json:"query"`
	TotalTested  int           `json:"total_tested"`
	WorkingCount int           `json:"working_count"`
	BlockedCount int           `json:"blocked_count"`
	Best         []MirrorProbe `json:"best_mirrors"`
	Results      []MirrorProbe `json:"results"`
}

// StressAttempt is one request of a stress run.
type StressAttempt struct {
	Iteration int           `json:"iteration"`
	Mirror    string        `json:"mirror"`
	Status    int           `json:"status,omitempty"`
	Latency   time.Duration `json:"latency"`
	Success   bool          `json:"success"`
	Blocked   bool          `json:"blocked"`
	Error     string        `json:"error,omitempty"`
}

// StressReport summarizes repeated round-robin requests against the mirrors.
type StressReport struct {
	Iterations   int             `json:"iterations"`
	Elapsed      time.Duration   `json:"elapsed"`
	AvgLatency   time.Duration   `json:"avg_latency"`
	SuccessCount int             `json:"success_count"`
	BlockedCount int             `json:"blocked_count"`
	Attempts     []StressAttempt `json:"attempts"`
}

// QueryVolume is the per-query outcome of a volume run.
type QueryVolume struct {
	Query       string `json:"query"`
	TweetsFound int    `json:"tweets_found"`
	Sample      *Tweet `json:"sample,omitempty"`
	Error       string `json:"error,omitempty"`
}

// VolumeReport measures how many tweets a single mirror yields across a fixed
// query list.
type VolumeReport struct {
	Mirror      string        `json:"mirror"`
	QueriesRun  int           `json:"queries_run"`
	TotalTweets int           `json:"total_tweets"`
	Elapsed     time.Duration `json:"elapsed"`
	Results     []QueryVolume `json:"results"`
}

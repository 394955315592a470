// Package registry tracks the configured mirror endpoints and the advisory
// health signals observed against them within this process's lifetime.
package registry

import (
	"fmt"
	"sort"
	"time"

	"nitter_collector/internal/domain"
)

// Mirror is one configured endpoint plus its rolling health fields. Mirrors
// are never removed within a run; bad ones are only deprioritized when ranked.
type Mirror struct {
	URL                 string
	LastLatency         time.Duration
	LastFailure         domain.FailureKind
	ConsecutiveFailures int
}

type Registry struct {
	mirrors []*Mirror
	byURL   map[string]*Mirror
}

// New builds a registry from the configured mirror list, preserving order.
// An empty list is a configuration fault.
func New(urls []string) (*Registry, error) {
	if len(urls) == 0 {
		return nil, fmt.Errorf("mirror list is empty")
	}

	r := &Registry{
		mirrors: make([]*Mirror, 0, len(urls)),
		byURL:   make(map[string]*Mirror, len(urls)),
	}
	for _, u := range urls {
		m := &Mirror{URL: u, LastFailure: domain.FailureNone}
		r.mirrors = append(r.mirrors, m)
		r.byURL[u] = m
	}
	return r, nil
}

func (r *Registry) Len() int {
	return len(r.mirrors)
}

// MirrorFor returns the mirror assigned to index i, cycling over the list.
func (r *Registry) MirrorFor(i int) string {
	return r.mirrors[i%len(r.mirrors)].URL
}

// OrderingFrom returns all mirror URLs as a fallback ordering starting at
// index i, so consecutive work items start their attempts on different
// mirrors but can still fall through the whole list.
func (r *Registry) OrderingFrom(i int) []string {
	n := len(r.mirrors)
	ordering := make([]string, 0, n)
	for j := 0; j < n; j++ {
		ordering = append(ordering, r.mirrors[(i+j)%n].URL)
	}
	return ordering
}

// RecordOutcome updates a mirror's rolling health fields after an attempt.
// Unknown URLs are ignored.
func (r *Registry) RecordOutcome(url string, out domain.Outcome) {
	m, ok := r.byURL[url]
	if !ok {
		return
	}

	m.LastLatency = out.Latency
	m.LastFailure = out.Failure
	if out.Failure == domain.FailureNone {
		m.ConsecutiveFailures = 0
	} else {
		m.ConsecutiveFailures++
	}
}

// Snapshot copies the current health state in configured order.
func (r *Registry) Snapshot() []Mirror {
	out := make([]Mirror, len(r.mirrors))
	for i, m := range r.mirrors {
		out[i] = *m
	}
	return out
}

// RankedByLatency returns mirrors sorted by last observed latency, excluding
// any whose last classification was blocked. Used by diagnostic callers only;
// production assignment stays round-robin.
func (r *Registry) RankedByLatency() []Mirror {
	ranked := make([]Mirror, 0, len(r.mirrors))
	for _, m := range r.mirrors {
		if m.LastFailure == domain.FailureBlocked {
			continue
		}
		ranked = append(ranked, *m)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].LastLatency < ranked[j].LastLatency
	})
	return ranked
}

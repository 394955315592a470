package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nitter_collector/internal/domain"
)

var mirrors = []string{
	"https://nitter.net",
	"https://nitter.poast.org",
	"https://xcancel.com",
}

func TestNew_EmptyListRejected(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestMirrorFor_Cycles(t *testing.T) {
	r, err := New(mirrors)
	require.NoError(t, err)

	assert.Equal(t, "https://nitter.net", r.MirrorFor(0))
	assert.Equal(t, "https://nitter.poast.org", r.MirrorFor(1))
	assert.Equal(t, "https://xcancel.com", r.MirrorFor(2))
	assert.Equal(t, "https://nitter.net", r.MirrorFor(3))
	assert.Equal(t, "https://nitter.poast.org", r.MirrorFor(7))
}

func TestOrderingFrom_RotatesFullList(t *testing.T) {
	r, err := New(mirrors)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://nitter.poast.org",
		"https://xcancel.com",
		"https://nitter.net",
	}, r.OrderingFrom(1))

	assert.Equal(t, r.OrderingFrom(0), r.OrderingFrom(3))
}

func TestRecordOutcome_TracksHealth(t *testing.T) {
	r, err := New(mirrors)
	require.NoError(t, err)

	r.RecordOutcome("https://nitter.net", domain.Outcome{
		Latency: 200 * time.Millisecond,
		Failure: domain.FailureTimeout,
	})
	r.RecordOutcome("https://nitter.net", domain.Outcome{
		Latency: 150 * time.Millisecond,
		Failure: domain.FailureHTTP,
		Status:  502,
	})

	m := r.Snapshot()[0]
	assert.Equal(t, 150*time.Millisecond, m.LastLatency)
	assert.Equal(t, domain.FailureHTTP, m.LastFailure)
	assert.Equal(t, 2, m.ConsecutiveFailures)

	r.RecordOutcome("https://nitter.net", domain.Outcome{
		Latency: 90 * time.Millisecond,
		Failure: domain.FailureNone,
		Status:  200,
	})

	m = r.Snapshot()[0]
	assert.Equal(t, domain.FailureNone, m.LastFailure)
	assert.Equal(t, 0, m.ConsecutiveFailures)
}

func TestRecordOutcome_UnknownMirrorIgnored(t *testing.T) {
	r, err := New(mirrors)
	require.NoError(t, err)

	r.RecordOutcome("https://unknown.example", domain.Outcome{Failure: domain.FailureBlocked})
	assert.Len(t, r.Snapshot(), 3)
}

func TestRankedByLatency_ExcludesBlocked(t *testing.T) {
	r, err := New(mirrors)
	require.NoError(t, err)

	r.RecordOutcome("https://nitter.net", domain.Outcome{Latency: 300 * time.Millisecond})
	r.RecordOutcome("https://nitter.poast.org", domain.Outcome{Latency: 100 * time.Millisecond, Failure: domain.FailureBlocked, Status: 429})
	r.RecordOutcome("https://xcancel.com", domain.Outcome{Latency: 50 * time.Millisecond})

	ranked := r.RankedByLatency()
	require.Len(t, ranked, 2)
	assert.Equal(t, "https://xcancel.com", ranked[0].URL)
	assert.Equal(t, "https://nitter.net", ranked[1].URL)
}

package tracking

import (
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "onegov/pkg/domain-errors"
)

func TestIssueFormat(t *testing.T) {
	issuer := NewIssuer()
	got, err := issuer.Issue("APP")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^APP\d+$`), got)
	assert.True(t, Valid(got))
	assert.Greater(t, len(got), len("APP")+10, "suffix must not be a small integer")
}

func TestIssueRejectsBadPrefix(t *testing.T) {
	issuer := NewIssuer()
	for _, p := range []string{"", "app", "A1", "TOOLONGPREFIX"} {
		_, err := issuer.Issue(p)
		assert.True(t, dErrors.Is(err, dErrors.CodeInvalidInput), p)
	}
}

func TestIssueDistinctUnderFrozenClock(t *testing.T) {
	frozen := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	issuer := NewIssuer(WithClock(func() time.Time { return frozen }))

	seen := make(map[string]struct{}, 10_000)
	for range 10_000 {
		got, err := issuer.Issue("BIRTH")
		require.NoError(t, err)
		seen[got] = struct{}{}
	}
	assert.Len(t, seen, 10_000)
}

func TestIssueDistinctConcurrently(t *testing.T) {
	issuer := NewIssuer()
	const workers, each = 8, 2_000

	var (
		mu   sync.Mutex
		seen = make(map[string]struct{}, workers*each)
		wg   sync.WaitGroup
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]string, 0, each)
			for range each {
				got, err := issuer.Issue("APP")
				if err != nil {
					t.Error(err)
					return
				}
				local = append(local, got)
			}
			mu.Lock()
			for _, s := range local {
				seen[s] = struct{}{}
			}
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Len(t, seen, workers*each)
}

func TestClockGoingBackwards(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	issuer := NewIssuer(WithClock(func() time.Time { return now }))
	first, err := issuer.Issue("COMP")
	require.NoError(t, err)

	now = now.Add(-time.Hour)
	second, err := issuer.Issue("COMP")
	require.NoError(t, err)
	assert.Greater(t, second, first)
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("HEALTH1767225600000000000"))
	assert.False(t, Valid("APP42"))
	assert.False(t, Valid("app1767225600000000000"))
	assert.False(t, Valid("APP-1767225600000000000"))
}

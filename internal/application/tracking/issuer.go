// Package tracking issues human-presentable tracking identifiers: an
// upper-case family prefix followed by a nanosecond-derived numeric suffix.
package tracking

import (
	"regexp"
	"strconv"
	"sync/atomic"
	"time"

	dErrors "onegov/pkg/domain-errors"
)

var (
	prefixPattern   = regexp.MustCompile(`^[A-Z]{2,8}$`)
	trackingPattern = regexp.MustCompile(`^[A-Z]{2,8}[0-9]{10,20}$`)
)

// Issuer hands out suffixes that strictly increase within a process even when
// the clock stalls or steps backwards. Uniqueness across processes is left to
// the storage boundary.
type Issuer struct {
	clock func() time.Time
	last  atomic.Int64
}

type Option func(*Issuer)

func WithClock(clock func() time.Time) Option {
	return func(i *Issuer) { i.clock = clock }
}

func NewIssuer(opts ...Option) *Issuer {
	i := &Issuer{clock: time.Now}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Issue returns prefix followed by a fresh suffix.
func (i *Issuer) Issue(prefix string) (string, error) {
	if !prefixPattern.MatchString(prefix) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "tracking prefix must be upper-case letters")
	}
	return prefix + strconv.FormatInt(i.next(), 10), nil
}

func (i *Issuer) next() int64 {
	for {
		now := i.clock().UnixNano()
		last := i.last.Load()
		n := max(now, last+1)
		if i.last.CompareAndSwap(last, n) {
			return n
		}
	}
}

// Valid reports whether s has the shape of an issued tracking identifier.
func Valid(s string) bool {
	return trackingPattern.MatchString(s)
}

package calculation

import (
	"time"

	"github.com/rpgo/household-forecast/pkg/dateutil"
)

// Clock and seed sources. Tests pin both so projections and ensembles repeat exactly.
var (
	nowFunc  = time.Now
	seedFunc = func() int64 { return time.Now().UnixNano() }
)

// SetNowFunc overrides the clock that anchors the projection start (use only in tests).
func SetNowFunc(f func() time.Time) { nowFunc = f }

// SetSeedFunc overrides the master seed drawn when none is configured (use only in tests).
func SetSeedFunc(f func() int64) { seedFunc = f }

// today is the projection start: the current date at UTC midnight.
func today() time.Time {
	return dateutil.StartOfDay(nowFunc())
}

// resolveSeed returns the configured seed, or a fresh one when it is zero.
func resolveSeed(configured int64) int64 {
	if configured != 0 {
		return configured
	}
	return seedFunc()
}

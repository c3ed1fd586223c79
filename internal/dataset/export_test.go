package dataset

import "time"

// SetClock overrides the loader's clock so tests can control TTL expiry.
func (l *Loader) SetClock(now func() time.Time) {
	l.now = now
}

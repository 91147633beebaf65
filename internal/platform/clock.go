package platform

import "time"

// Clock abstracts the wall clock so services can be tested with fixed
// timestamps.
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

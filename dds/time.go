package dds

import (
	"time"
)

const maxUint32 = int64(^uint32(0))

const (
	// DurationInfiniteSec and DurationInfiniteNSec encode an infinite
	// duration on the wire.
	DurationInfiniteSec  = 0x7fffffff
	DurationInfiniteNSec = 0x7fffffff
)

const secondInNanosecond = 1000000000

// normalizeTemporal carries nsec into sec. ok is false when the result does
// not fit in {uint32, uint32}.
func normalizeTemporal(sec int64, nsec int64) (uint32, uint32, bool) {
	if nsec >= secondInNanosecond {
		sec += nsec / secondInNanosecond
		nsec = nsec % secondInNanosecond
	} else if nsec < 0 {
		sec += nsec/secondInNanosecond - 1
		nsec = nsec%secondInNanosecond + secondInNanosecond
	}

	if sec < 0 || sec > maxUint32 {
		return 0, 0, false
	}

	return uint32(sec), uint32(nsec), true
}

func temporalFromNSec(nsec uint64) (temporal, bool) {
	sec := nsec / secondInNanosecond
	if sec > uint64(maxUint32) {
		return temporal{}, false
	}
	return temporal{uint32(sec), uint32(nsec % secondInNanosecond)}, true
}

type temporal struct {
	Sec  uint32
	NSec uint32
}

func (t temporal) IsZero() bool {
	return t.Sec == 0 && t.NSec == 0
}

func (t temporal) ToNSec() uint64 {
	return uint64(t.Sec)*secondInNanosecond + uint64(t.NSec)
}

// Time is a DDS timestamp {sec, nsec} since the epoch.
type Time struct {
	temporal
}

// TimeMax is the latest representable timestamp.
var TimeMax = Time{temporal{^uint32(0), secondInNanosecond - 1}}

// NewTime creates a Time from seconds and nanoseconds. Values past TimeMax
// saturate to it.
func NewTime(sec uint32, nsec uint32) Time {
	s, ns, ok := normalizeTemporal(int64(sec), int64(nsec))
	if !ok {
		return TimeMax
	}
	return Time{temporal{s, ns}}
}

// TimeFromGo converts a wall clock instant. Instants before the epoch
// become zero and instants past TimeMax become TimeMax.
func TimeFromGo(t time.Time) Time {
	ns := t.UnixNano()
	if ns <= 0 {
		return Time{}
	}
	tmp, ok := temporalFromNSec(uint64(ns))
	if !ok {
		return TimeMax
	}
	return Time{tmp}
}

// Int64 returns the timestamp in nanoseconds.
func (t Time) Int64() int64 {
	return int64(t.ToNSec())
}

// Duration is a DDS duration. The all-ones pattern
// {DurationInfiniteSec, DurationInfiniteNSec} means infinite.
type Duration struct {
	temporal
}

var DurationInfinite = Duration{temporal{DurationInfiniteSec, DurationInfiniteNSec}}

// NewDuration creates a Duration from seconds and nanoseconds. Values too
// long to represent become DurationInfinite.
func NewDuration(sec uint32, nsec uint32) Duration {
	if sec == DurationInfiniteSec && nsec == DurationInfiniteNSec {
		return DurationInfinite
	}
	s, ns, ok := normalizeTemporal(int64(sec), int64(nsec))
	if !ok {
		return DurationInfinite
	}
	return Duration{temporal{s, ns}}
}

// DurationFromGo converts d. Negative values clamp to zero and values too
// long to represent become DurationInfinite.
func DurationFromGo(d time.Duration) Duration {
	if d <= 0 {
		return Duration{}
	}
	tmp, ok := temporalFromNSec(uint64(d))
	if !ok {
		return DurationInfinite
	}
	return Duration{tmp}
}

func (d Duration) IsInfinite() bool {
	return d.Sec == DurationInfiniteSec && d.NSec == DurationInfiniteNSec
}

// ToGo converts d; an infinite duration becomes zero, which callers treat
// as "unspecified".
func (d Duration) ToGo() time.Duration {
	if d.IsInfinite() {
		return 0
	}
	return time.Duration(d.ToNSec())
}

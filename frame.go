package voxevents

import "math"

// UnsetTime is the sentinel CurrentTime returns before the first SetTime
// or successful SetFrame call.
const UnsetTime = float32(-1)

// FrameRange is a half-open interval [First, Last) of valid frame indices.
type FrameRange struct {
	First uint32
	Last  uint32
}

// Contains reports whether frame lies in the range.
func (r FrameRange) Contains(frame uint32) bool {
	return frame >= r.First && frame < r.Last
}

// Empty reports whether the range holds no frames.
func (r FrameRange) Empty() bool {
	return r.Last <= r.First
}

// Count returns the number of frames in the range.
func (r FrameRange) Count() uint32 {
	if r.Empty() {
		return 0
	}
	return r.Last - r.First
}

// FrameRange derives the valid frame interval from the source's time
// range and the configured time step.
//
// For event-kind sources the effective end time is t1 minus the
// aggregation window: a source ending at time t means the frame starting
// at floor(t/dt) is complete, and the +1 keeps the range half-open while
// including that last complete frame. A window longer than the data
// interval yields the empty range [0, 0).
//
// Frame-kind sources are already binned, so the range is simply
// [floor(t0/dt), ceil(t1/dt)).
func (s *Store) FrameRange() FrameRange {
	t0, t1 := s.source.TimeRange()
	dt := float64(s.dt)

	switch s.source.Kind() {
	case KindEvent:
		end := t1 - s.duration
		if end < t0 {
			return FrameRange{}
		}
		// The +1 happens in float64 space so a saturated last frame stays
		// saturated instead of wrapping past MaxUint32.
		return FrameRange{
			First: clampFrame(math.Floor(float64(t0) / dt)),
			Last:  clampFrame(math.Floor(float64(end)/dt) + 1),
		}
	default:
		return FrameRange{
			First: clampFrame(math.Floor(float64(t0) / dt)),
			Last:  clampFrame(math.Ceil(float64(t1) / dt)),
		}
	}
}

func clampFrame(f float64) uint32 {
	if f < 0 {
		return 0
	}
	if f > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(f)
}

// IsInFrameRange reports whether frame is addressable.
func (s *Store) IsInFrameRange(frame uint32) bool {
	return s.FrameRange().Contains(frame)
}

// SetFrame selects the given frame, recording its start time as the
// current time. It returns false without changing state when the frame is
// outside the valid range.
func (s *Store) SetFrame(frame uint32) bool {
	if !s.IsInFrameRange(frame) {
		s.logger.Warn("frame outside valid range, ignored",
			"frame", frame,
			"range", s.FrameRange(),
		)
		return false
	}

	t0, _ := s.source.TimeRange()
	s.SetTime(t0 + s.dt*float32(frame))
	return true
}

// SetTime unconditionally records t as the current time. It triggers no
// load by itself; loaders consult CurrentTime to decide what to fetch.
func (s *Store) SetTime(t float32) {
	s.currentTime = t
}

// CurrentTime returns the selected time, or UnsetTime before any
// selection.
func (s *Store) CurrentTime() float32 {
	return s.currentTime
}

// Dt returns the time step between frames.
func (s *Store) Dt() float32 {
	return s.dt
}

// SetDt changes the time step between frames.
func (s *Store) SetDt(dt float32) {
	s.dt = dt
}

// Duration returns the post-event aggregation window.
func (s *Store) Duration() float32 {
	return s.duration
}

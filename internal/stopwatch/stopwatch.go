package stopwatch

import "github.com/samber/lo"

type Status int

const (
	Idle Status = iota
	Running
	Paused
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Running:
		return "Running"
	case Paused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// Snapshot is a copy of the stopwatch state. Mutating it has no effect on the
// stopwatch it came from.
type Snapshot struct {
	Status       Status
	ElapsedMs    int64
	Laps         []int64
	LastPausedMs int64
}

func (s Snapshot) CanStart() bool { return s.Status != Running }
func (s Snapshot) CanPause() bool { return s.Status == Running }
func (s Snapshot) CanLap() bool   { return s.Status == Running }

// Splits returns the time between consecutive laps. The first split is
// measured from zero.
func (s Snapshot) Splits() []int64 {
	return lo.Map(s.Laps, func(lap int64, i int) int64 {
		if i == 0 {
			return lap
		}
		return lap - s.Laps[i-1]
	})
}

// HandAngle is the dial hand position in degrees. The hand makes one full
// revolution per minute.
func (s Snapshot) HandAngle() float64 {
	return float64(s.ElapsedMs%60000) / 60000 * 360
}

// Stopwatch tracks elapsed time across start/pause/reset cycles.
// It's not safe for concurrent use; a single owner must serialize calls.
type Stopwatch struct {
	clock        Clock
	status       Status
	elapsedMs    int64
	baselineMs   int64
	anchor       int64
	laps         []int64
	lastPausedMs int64
}

func New(clock Clock) *Stopwatch {
	return &Stopwatch{
		clock:  clock,
		status: Idle,
		laps:   []int64{},
	}
}

func (s *Stopwatch) Start() Snapshot {
	switch s.status {
	case Idle, Paused:
		s.anchor = s.clock.Now()
		s.baselineMs = s.elapsedMs
		s.status = Running
	case Running:
	}
	return s.Snapshot()
}

// Tick recomputes elapsed time from the anchor captured by the last Start.
// Calls while not running are ignored.
func (s *Stopwatch) Tick(now int64) Snapshot {
	switch s.status {
	case Running:
		interval := now - s.anchor
		if interval < 0 {
			interval = 0
		}
		if elapsed := s.baselineMs + interval; elapsed > s.elapsedMs {
			s.elapsedMs = elapsed
		}
	case Idle, Paused:
	}
	return s.Snapshot()
}

func (s *Stopwatch) Pause() Snapshot {
	switch s.status {
	case Running:
		s.status = Paused
		s.anchor = 0
		s.lastPausedMs = s.elapsedMs
	case Idle, Paused:
	}
	return s.Snapshot()
}

// Toggle pauses a running stopwatch and starts one that isn't.
func (s *Stopwatch) Toggle() Snapshot {
	if s.status == Running {
		return s.Pause()
	}
	return s.Start()
}

func (s *Stopwatch) Reset() Snapshot {
	s.status = Idle
	s.elapsedMs = 0
	s.baselineMs = 0
	s.anchor = 0
	s.laps = []int64{}
	s.lastPausedMs = 0
	return s.Snapshot()
}

// Lap records the current elapsed time. Calls while not running are ignored.
func (s *Stopwatch) Lap() Snapshot {
	switch s.status {
	case Running:
		s.laps = append(s.laps, s.elapsedMs)
	case Idle, Paused:
	}
	return s.Snapshot()
}

func (s *Stopwatch) Snapshot() Snapshot {
	laps := make([]int64, len(s.laps))
	copy(laps, s.laps)
	return Snapshot{
		Status:       s.status,
		ElapsedMs:    s.elapsedMs,
		Laps:         laps,
		LastPausedMs: s.lastPausedMs,
	}
}

package main

import (
	"context"
	"sync"

	"go-erae/config"
	"go-erae/debug"
	"go-erae/engine"
	"go-erae/erae"
	"go-erae/midi"
	"go-erae/mpe"
)

// Stats is a snapshot of session counters for the monitor.
type Stats struct {
	Device    string
	Output    string
	Reports   uint64
	Malformed uint64
	Unmatched uint64
	Fingers   int
	Channels  int
	Steals    uint64
}

// Session wires the pipeline together: device watcher -> decoder -> region
// lookup -> behavior engine -> output sink. All engine state is confined to
// the Run goroutine; reports, disconnects and panics are serialized through
// its select loop, so Down/Up never interleave with ReleaseAll.
type Session struct {
	watcher *midi.Watcher
	monitor *midi.Monitor
	eng     *engine.Engine
	regions []engine.Region

	panicCh chan struct{}

	mu     sync.Mutex
	stats  Stats
	output string
}

// NewSession builds a session from the configuration. The output sink chain
// is PortSink (or NullSink when no port is configured) wrapped in a Monitor
// for the TUI.
func NewSession(cfg *config.Config) (*Session, error) {
	regions, err := cfg.BuildRegions()
	if err != nil {
		return nil, err
	}

	sink, outName, err := midi.FindOutSink(cfg.Output.PortName)
	if err != nil {
		return nil, err
	}

	monitor := midi.NewMonitor(sink)
	return &Session{
		watcher: midi.NewWatcher(cfg.Device.PortPattern, layoutZones(regions)),
		monitor: monitor,
		eng:     engine.New(monitor, mpe.NewAllocator()),
		regions: regions,
		panicCh: make(chan struct{}, 1),
		output:  outName,
	}, nil
}

// Monitor exposes the outbound event feed for the TUI.
func (s *Session) Monitor() *midi.Monitor { return s.monitor }

// Panic requests a release-everything pass. Safe from any goroutine; the
// dispatch loop runs it between reports.
func (s *Session) Panic() {
	select {
	case s.panicCh <- struct{}{}:
	default:
	}
}

// Stats returns a snapshot of the counters.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.stats
	st.Output = s.output
	return st
}

// Run is the single dispatch context. It owns the engine until ctx ends,
// then releases everything.
func (s *Session) Run(ctx context.Context) {
	go s.watcher.Run(ctx)

	for {
		select {
		case <-ctx.Done():
			s.eng.ReleaseAll()
			return

		case <-s.panicCh:
			debug.Log("session", "panic: releasing everything")
			s.eng.ReleaseAll()
			s.syncStats()

		case ev := <-s.watcher.Events():
			switch ev.Type {
			case midi.DeviceConnected:
				s.mu.Lock()
				s.stats.Device = ev.Name
				s.mu.Unlock()
			case midi.DeviceDisconnected:
				// Treat like a panic: fingers we will never see Up for
				// must not leave notes hanging.
				s.eng.ReleaseAll()
				s.mu.Lock()
				s.stats.Device = ""
				s.mu.Unlock()
			}

		case payload := <-s.watcher.Reports():
			s.dispatch(payload)
		}
	}
}

// layoutZones lists the distinct zones the layout touches, in layout order.
func layoutZones(regions []engine.Region) []uint8 {
	var zones []uint8
	seen := make(map[uint8]bool)
	for _, r := range regions {
		if !seen[r.Zone] {
			seen[r.Zone] = true
			zones = append(zones, r.Zone)
		}
	}
	return zones
}

func (s *Session) dispatch(payload []byte) {
	if len(payload) > 0 && payload[0] == erae.NonFinger {
		if br, ok := erae.ParseBoundaryReply(payload); ok {
			debug.Log("session", "zone %d is %dx%d", br.Zone, br.Width, br.Height)
		} else {
			debug.LogEvery(16, "session", "non-finger reply (%d bytes)", len(payload))
		}
		return
	}

	report, err := erae.ParseReport(payload)
	if err != nil {
		s.mu.Lock()
		s.stats.Malformed++
		s.mu.Unlock()
		debug.LogEvery(32, "session", "malformed report dropped (%d bytes)", len(payload))
		return
	}

	var region *engine.Region
	if report.Action == erae.ActionDown {
		region = s.lookupRegion(report.Zone, report.X, report.Y)
		if region == nil {
			s.mu.Lock()
			s.stats.Unmatched++
			s.mu.Unlock()
		}
	}

	s.eng.Handle(report, region)
	s.mu.Lock()
	s.stats.Reports++
	s.mu.Unlock()
	s.syncStats()
}

// lookupRegion is the hit test: first configured region on the zone whose
// box contains the point. Layout order decides overlaps.
func (s *Session) lookupRegion(zone uint8, x, y float32) *engine.Region {
	for i := range s.regions {
		r := &s.regions[i]
		if r.Zone != zone {
			continue
		}
		b := r.BBox
		if x >= b.XMin && x <= b.XMax && y >= b.YMin && y <= b.YMax {
			return r
		}
	}
	return nil
}

func (s *Session) syncStats() {
	s.mu.Lock()
	s.stats.Fingers = s.eng.ActiveFingers()
	s.stats.Channels = s.eng.Allocator().ActiveCount()
	s.stats.Steals = s.eng.Allocator().Steals()
	s.mu.Unlock()
}

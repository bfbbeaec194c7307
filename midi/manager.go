// Package midi connects the core to real MIDI ports: hot-plug watching for
// the touch surface, SysEx report intake, and output sinks.
package midi

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // register MIDI driver

	"go-erae/debug"
	"go-erae/erae"
)

// DeviceEvent is emitted when the surface connects or disconnects
type DeviceEvent struct {
	Type DeviceEventType
	Name string
}

type DeviceEventType int

const (
	DeviceConnected DeviceEventType = iota
	DeviceDisconnected
)

// Watcher polls for an Erae-named MIDI port pair, switches the device into
// API mode on connect, and feeds raw finger-stream reply payloads to the
// session loop. Handles hot-plug and hot-unplug transparently.
type Watcher struct {
	mu        sync.Mutex
	pattern   string
	zones     []uint8
	pollRate  time.Duration
	inPort    drivers.In
	send      func(msg gomidi.Message) error
	stopFn    func()
	connected bool
	name      string

	reports chan []byte
	events  chan DeviceEvent
}

// NewWatcher creates a watcher matching port names containing pattern
// (case-insensitive). On connect it asks the device for the size of each
// listed zone; the answers come back through Reports.
func NewWatcher(pattern string, zones []uint8) *Watcher {
	if pattern == "" {
		pattern = "erae"
	}
	return &Watcher{
		pattern:  strings.ToLower(pattern),
		zones:    zones,
		pollRate: time.Second,
		reports:  make(chan []byte, 128),
		events:   make(chan DeviceEvent, 8),
	}
}

// Reports returns raw reply payloads (receiver prefix stripped) ready for
// erae.ParseReport.
func (w *Watcher) Reports() <-chan []byte { return w.reports }

// Events returns connect/disconnect notifications.
func (w *Watcher) Events() <-chan DeviceEvent { return w.events }

// Connected reports the active device name, if any.
func (w *Watcher) Connected() (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.name, w.connected
}

// Run starts the polling loop (blocking, run in a goroutine).
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.pollRate)
	defer ticker.Stop()

	w.scan()

	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			w.closeConn()
			w.mu.Unlock()
			close(w.events)
			return
		case <-ticker.C:
			w.scan()
		}
	}
}

func (w *Watcher) scan() {
	inPorts := gomidi.GetInPorts()
	outPorts := gomidi.GetOutPorts()

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.connected {
		for _, in := range inPorts {
			if in.String() == w.name {
				return // still present
			}
		}
		debug.Log("watcher", "device disappeared: %s", w.name)
		name := w.name
		w.closeConn()
		w.emit(DeviceEvent{Type: DeviceDisconnected, Name: name})
		// fall through and look for a replacement right away
	}

	for _, in := range inPorts {
		if !strings.Contains(strings.ToLower(in.String()), w.pattern) {
			continue
		}
		var out drivers.Out
		for _, op := range outPorts {
			if strings.EqualFold(op.String(), in.String()) {
				out = op
				break
			}
		}
		if err := w.connect(in, out); err != nil {
			debug.Log("watcher", "connect %s failed: %v", in.String(), err)
			continue
		}
		w.emit(DeviceEvent{Type: DeviceConnected, Name: w.name})
		return
	}
}

// connect assumes w.mu is held
func (w *Watcher) connect(in drivers.In, out drivers.Out) error {
	if out != nil {
		send, err := gomidi.SendTo(out)
		if err != nil {
			return fmt.Errorf("open output: %w", err)
		}
		w.send = send
		// Switch the surface into API mode so it streams finger reports
		// instead of playing its onboard layout.
		if err := send(gomidi.SysEx(erae.EnableAPI())); err != nil {
			return fmt.Errorf("enable api: %w", err)
		}
		for _, z := range w.zones {
			if err := send(gomidi.SysEx(erae.ZoneBoundaryRequest(z))); err != nil {
				debug.Log("watcher", "boundary request for zone %d failed: %v", z, err)
			}
		}
	}

	stop, err := gomidi.ListenTo(in, func(msg gomidi.Message, timestampms int32) {
		var data []byte
		if !msg.GetSysEx(&data) {
			return
		}
		payload, ok := erae.ExtractReply(data)
		if !ok {
			return
		}
		select {
		case w.reports <- payload:
		default:
			debug.LogEvery(256, "watcher", "report queue full, dropping")
		}
	}, gomidi.UseSysEx())
	if err != nil {
		w.send = nil
		return fmt.Errorf("open input: %w", err)
	}

	w.inPort = in
	w.stopFn = stop
	w.connected = true
	w.name = in.String()
	debug.Log("watcher", "connected: %s", w.name)
	return nil
}

// closeConn assumes w.mu is held
func (w *Watcher) closeConn() {
	if w.send != nil {
		w.send(gomidi.SysEx(erae.DisableAPI()))
		w.send = nil
	}
	if w.stopFn != nil {
		w.stopFn()
		w.stopFn = nil
	}
	if w.inPort != nil {
		w.inPort.Close()
		w.inPort = nil
	}
	w.connected = false
	w.name = ""
}

func (w *Watcher) emit(ev DeviceEvent) {
	select {
	case w.events <- ev:
	default:
	}
}

// FindOutSink opens the first output port matching name and wraps it in a
// PortSink. An empty name yields a NullSink so a session can run without a
// synth wired up.
func FindOutSink(name string) (Sink, string, error) {
	if name == "" {
		return NullSink{}, "", nil
	}
	for _, out := range gomidi.GetOutPorts() {
		if strings.Contains(strings.ToLower(out.String()), strings.ToLower(name)) {
			send, err := gomidi.SendTo(out)
			if err != nil {
				return nil, "", fmt.Errorf("open output %q: %w", out.String(), err)
			}
			return NewPortSink(send), out.String(), nil
		}
	}
	return nil, "", fmt.Errorf("no output port matching %q", name)
}

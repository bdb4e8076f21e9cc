package midi

import (
	"fmt"
	"sync"
	"sync/atomic"

	"go-vj/debug"
	"go-vj/surface"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// APC mini mk2 note mapping
// Grid:          notes 0-63, note 0 bottom left, 56-63 top row
// Fader buttons: notes 100-107 under faders 1-8, 122 (shift) under the master
// Scene buttons: notes 112-119 down the right side, used as page select
// Faders:        CC 48-56
const (
	apcGridNotes       = 64
	apcFaderButtonBase = 100
	apcMasterButton    = 122
	apcSceneBase       = 112
	apcFaderCCBase     = 48

	// Grid LEDs take the palette index as velocity; the channel selects
	// brightness, 6 being 100%.
	apcGridChannel   = 6
	apcButtonChannel = 0
)

var ledSendCount uint64

// APCController handles an Akai APC mini mk2
type APCController struct {
	id       string
	outPort  drivers.Out
	inPort   drivers.In
	send     func(msg gomidi.Message) error
	stopFunc func()

	mu      sync.Mutex // guards closed and the send on events
	closed  bool
	events  chan surface.Event
	dropped uint64

	sendMu    sync.Mutex // serializes output; Close and the frame loop both send
	outClosed bool
}

// NewAPCController opens the ports of an APC mini. Either port may be nil.
func NewAPCController(id string, inPort drivers.In, outPort drivers.Out) (*APCController, error) {
	apc := &APCController{
		id:      id,
		inPort:  inPort,
		outPort: outPort,
		events:  make(chan surface.Event, 64),
	}

	if outPort != nil {
		send, err := gomidi.SendTo(outPort)
		if err != nil {
			return nil, fmt.Errorf("open output: %w", err)
		}
		apc.send = send
	}

	if inPort != nil {
		stop, err := gomidi.ListenTo(inPort, func(msg gomidi.Message, timestampms int32) {
			if ev, ok := Decode(msg); ok {
				apc.push(ev)
			}
		})
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		apc.stopFunc = stop
	}

	debug.Log("apc", "opened %s (in=%v out=%v)", id, inPort != nil, outPort != nil)
	return apc, nil
}

// push never blocks the driver callback; a full channel drops the event.
func (apc *APCController) push(ev surface.Event) {
	apc.mu.Lock()
	defer apc.mu.Unlock()
	if apc.closed {
		return
	}
	select {
	case apc.events <- ev:
	default:
		apc.dropped++
		debug.LogEvery(10, "apc", "event queue full, dropped %d", apc.dropped)
	}
}

func (apc *APCController) ID() string {
	return apc.id
}

func (apc *APCController) Type() ControllerType {
	return ControllerAPCMini
}

func (apc *APCController) Events() <-chan surface.Event {
	return apc.events
}

// SetLEDBatch sends one NoteOn per update. After Close it does nothing.
func (apc *APCController) SetLEDBatch(updates []LEDUpdate) error {
	apc.sendMu.Lock()
	defer apc.sendMu.Unlock()
	if apc.outClosed {
		return nil
	}
	return apc.sendBatch(updates)
}

// sendBatch must be called with sendMu held.
func (apc *APCController) sendBatch(updates []LEDUpdate) error {
	if apc.send == nil || len(updates) == 0 {
		return nil
	}

	for _, u := range updates {
		msg, ok := ledMessage(u)
		if !ok {
			continue
		}
		if err := apc.send(msg); err != nil {
			return fmt.Errorf("send led: %w", err)
		}
	}

	count := atomic.AddUint64(&ledSendCount, uint64(len(updates)))
	if count%100 < uint64(len(updates)) {
		debug.Log("apc-send", "batch count=%d (this batch=%d)", count, len(updates))
	}
	return nil
}

// Close clears the LEDs, stops input and closes Events. It is safe to call
// more than once and concurrently with SetLEDBatch.
func (apc *APCController) Close() error {
	apc.sendMu.Lock()
	if !apc.outClosed {
		apc.outClosed = true
		if err := apc.sendBatch(SnapshotUpdates(surface.Snapshot{})); err != nil {
			// port already gone with the device
			debug.Log("apc", "clear %s: %v", apc.id, err)
		}
	}
	apc.sendMu.Unlock()

	apc.mu.Lock()
	if apc.closed {
		apc.mu.Unlock()
		return nil
	}
	apc.closed = true
	close(apc.events)
	apc.mu.Unlock()

	// outside mu: the input callback takes it
	if apc.stopFunc != nil {
		apc.stopFunc()
	}
	return nil
}

// Decode turns an APC mini message into a surface event. Messages the
// surface has no use for (knobs, sysex, clock) report false.
func Decode(msg gomidi.Message) (surface.Event, bool) {
	var channel, key, velocity, cc, value uint8

	switch {
	case msg.GetNoteStart(&channel, &key, &velocity):
		return decodeButton(key, surface.EventPress, float64(velocity))
	case msg.GetNoteEnd(&channel, &key):
		return decodeButton(key, surface.EventRelease, 0)
	case msg.GetControlChange(&channel, &cc, &value):
		if cc >= apcFaderCCBase && cc < apcFaderCCBase+surface.NumFaders {
			return surface.FaderChange(int(cc-apcFaderCCBase), float64(value)), true
		}
	}
	return surface.Event{}, false
}

func decodeButton(key uint8, kind surface.EventKind, intensity float64) (surface.Event, bool) {
	ev := surface.Event{Kind: kind, Intensity: intensity}
	switch {
	case key < apcGridNotes:
		ev.Zone = surface.ZoneGrid
		ev.Row, ev.Col = noteToRowCol(key)
	case key >= apcFaderButtonBase && key < apcFaderButtonBase+8:
		ev.Zone = surface.ZoneFaderButton
		ev.Index = int(key - apcFaderButtonBase)
	case key == apcMasterButton:
		ev.Zone = surface.ZoneFaderButton
		ev.Index = 8
	case key >= apcSceneBase && key < apcSceneBase+surface.NumPages:
		ev.Zone = surface.ZonePageSelect
		ev.Index = int(key - apcSceneBase)
	default:
		return surface.Event{}, false
	}
	return ev, true
}

// ledMessage encodes an LED update. The button rows are single colour, so
// anything but ColorOff lights them.
func ledMessage(u LEDUpdate) (gomidi.Message, bool) {
	switch u.Zone {
	case surface.ZoneGrid:
		note, ok := rowColToNote(u.Row, u.Col)
		if !ok {
			return nil, false
		}
		return gomidi.NoteOn(apcGridChannel, note, uint8(u.Color)&0x7F), true
	case surface.ZonePageSelect:
		if u.Index < 0 || u.Index >= surface.NumPages {
			return nil, false
		}
		return gomidi.NoteOn(apcButtonChannel, uint8(apcSceneBase+u.Index), buttonLED(u.Color)), true
	case surface.ZoneFaderButton:
		switch {
		case u.Index >= 0 && u.Index < 8:
			return gomidi.NoteOn(apcButtonChannel, uint8(apcFaderButtonBase+u.Index), buttonLED(u.Color)), true
		case u.Index == 8:
			return gomidi.NoteOn(apcButtonChannel, apcMasterButton, buttonLED(u.Color)), true
		}
	}
	return nil, false
}

func buttonLED(c surface.Color) uint8 {
	if c == surface.ColorOff {
		return 0
	}
	return 1
}

// The surface counts rows from the top; the hardware counts from the bottom.
func rowColToNote(row, col int) (uint8, bool) {
	if row < 0 || row >= surface.GridRows || col < 0 || col >= surface.GridCols {
		return 0, false
	}
	return uint8((surface.GridRows-1-row)*surface.GridCols + col), true
}

func noteToRowCol(note uint8) (row, col int) {
	return surface.GridRows - 1 - int(note)/surface.GridCols, int(note) % surface.GridCols
}

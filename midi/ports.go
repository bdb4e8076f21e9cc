package midi

import (
	"errors"
	"strings"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver
)

// PortTimeout bounds port enumeration. CoreMIDI can hang; the fix is
// `sudo killall coreaudiod midiserver`.
const PortTimeout = 3 * time.Second

var ErrPortsTimeout = errors.New("midi port enumeration timed out")

// Ports is one enumeration of the system's MIDI ports.
type Ports struct {
	In  []drivers.In
	Out []drivers.Out
}

// ListPorts enumerates ports, giving up after timeout.
func ListPorts(timeout time.Duration) (Ports, error) {
	ch := make(chan Ports, 1)
	go func() {
		ch <- Ports{In: gomidi.GetInPorts(), Out: gomidi.GetOutPorts()}
	}()

	select {
	case p := <-ch:
		return p, nil
	case <-time.After(timeout):
		return Ports{}, ErrPortsTimeout
	}
}

// OutFor finds the output port with the same name as an input port.
func (p Ports) OutFor(name string) drivers.Out {
	name = strings.ToLower(name)
	for _, op := range p.Out {
		if strings.ToLower(op.String()) == name {
			return op
		}
	}
	return nil
}

// IsAPCMini matches the port names an APC mini mk2 registers. The second
// "Notes" port carries the note-mode keyboard and is skipped.
func IsAPCMini(name string) bool {
	name = strings.ToLower(name)
	return strings.Contains(name, "apc mini") && !strings.Contains(name, "notes")
}

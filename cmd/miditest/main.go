package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"

	"go-vj/midi"
	"go-vj/surface"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "list":
		listPorts()
	case "detect":
		detectAPC()
	case "leds":
		testLEDs()
	case "monitor":
		monitorInput()
	case "poll":
		pollDevices()
	default:
		usage()
	}
}

func usage() {
	fmt.Println("MIDI Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list     - List all MIDI ports")
	fmt.Println("  detect   - Find APC mini mk2")
	fmt.Println("  leds     - Test LED control")
	fmt.Println("  monitor  - Print decoded pad, fader and button input")
	fmt.Println("  poll     - Poll for device changes")
}

func listPorts() {
	fmt.Println("=== MIDI Input Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")

	ports, err := midi.ListPorts(midi.PortTimeout)
	if err != nil {
		fmt.Println("\nTIMEOUT! CoreMIDI is hung.")
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
		return
	}
	for i, p := range ports.In {
		fmt.Printf("  %d: %s\n", i, p.String())
	}
	fmt.Println("\n=== MIDI Output Ports ===")
	for i, p := range ports.Out {
		fmt.Printf("  %d: %s\n", i, p.String())
	}
}

// findAPC returns the first APC mini control port pair.
func findAPC() (drivers.In, drivers.Out, error) {
	ports, err := midi.ListPorts(midi.PortTimeout)
	if err != nil {
		return nil, nil, err
	}
	for _, in := range ports.In {
		if midi.IsAPCMini(in.String()) {
			return in, ports.OutFor(in.String()), nil
		}
	}
	return nil, nil, fmt.Errorf("no APC mini found")
}

func detectAPC() {
	fmt.Println("Looking for APC mini mk2...")

	in, out, err := findAPC()
	if err != nil {
		fmt.Printf("\n%v\n", err)
		return
	}
	fmt.Printf("Found input: %s\n", in.String())
	if out != nil {
		fmt.Printf("Found output: %s\n", out.String())
	} else {
		fmt.Println("No matching output, LEDs will stay dark")
	}
	fmt.Println("\nAPC mini mk2 detected!")
}

func openAPC() (*midi.APCController, error) {
	in, out, err := findAPC()
	if err != nil {
		return nil, err
	}
	return midi.NewAPCController(in.String(), in, out)
}

func testLEDs() {
	fmt.Println("Testing LED control...")

	apc, err := openAPC()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer apc.Close()

	colors := []surface.Color{
		surface.ColorRed, surface.ColorOrange, surface.ColorYellow, surface.ColorGreen,
		surface.ColorCyan, surface.ColorBlue, surface.ColorPurple, surface.ColorPink,
	}

	fmt.Println("Lighting up diagonal...")
	for i := 0; i < surface.GridRows; i++ {
		u := midi.LEDUpdate{Zone: surface.ZoneGrid, Row: i, Col: i, Color: colors[i]}
		if err := apc.SetLEDBatch([]midi.LEDUpdate{u}); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		time.Sleep(100 * time.Millisecond)
	}

	fmt.Println("Lighting page and fader buttons...")
	var buttons []midi.LEDUpdate
	for i := 0; i < surface.NumPages; i++ {
		buttons = append(buttons, midi.LEDUpdate{Zone: surface.ZonePageSelect, Index: i, Color: surface.ColorOn})
	}
	for i := 0; i < surface.NumFaders; i++ {
		buttons = append(buttons, midi.LEDUpdate{Zone: surface.ZoneFaderButton, Index: i, Color: surface.ColorOn})
	}
	if err := apc.SetLEDBatch(buttons); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Println("Press Enter to clear...")
	fmt.Scanln()
	fmt.Println("Done!")
}

func monitorInput() {
	apc, err := openAPC()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer apc.Close()

	fmt.Printf("Listening on %s. Ctrl+C to exit.\n", apc.ID())

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	for {
		select {
		case ev, ok := <-apc.Events():
			if !ok {
				return
			}
			fmt.Printf("[%s] %s\n", time.Now().Format("15:04:05.000"), describe(ev))
		case <-sig:
			return
		}
	}
}

func describe(ev surface.Event) string {
	state := "press"
	if ev.Kind == surface.EventRelease || ev.Intensity == 0 {
		state = "release"
	}
	switch ev.Zone {
	case surface.ZoneGrid:
		return fmt.Sprintf("pad row=%d col=%d %s vel=%.0f", ev.Row, ev.Col, state, ev.Intensity)
	case surface.ZoneFader:
		return fmt.Sprintf("fader %d = %.0f", ev.Index, ev.Intensity)
	case surface.ZoneFaderButton:
		return fmt.Sprintf("fader button %d %s", ev.Index, state)
	case surface.ZonePageSelect:
		return fmt.Sprintf("page %d %s", ev.Index, state)
	}
	return fmt.Sprintf("%+v", ev)
}

func pollDevices() {
	fmt.Println("Polling for device changes every 2 seconds...")
	fmt.Println("Connect/disconnect the APC mini to test. Ctrl+C to exit.")

	lastIn := ""
	lastOut := ""

	for {
		var inNames, outNames []string
		for _, p := range gomidi.GetInPorts() {
			inNames = append(inNames, p.String())
		}
		for _, p := range gomidi.GetOutPorts() {
			outNames = append(outNames, p.String())
		}

		currentIn := strings.Join(inNames, ",")
		currentOut := strings.Join(outNames, ",")

		if currentIn != lastIn || currentOut != lastOut {
			fmt.Printf("\n[%s] Device change detected!\n", time.Now().Format("15:04:05"))
			fmt.Printf("  Inputs: %v\n", inNames)
			fmt.Printf("  Outputs: %v\n", outNames)

			for _, name := range inNames {
				if midi.IsAPCMini(name) {
					fmt.Printf("  -> APC mini detected: %s\n", name)
				}
			}

			lastIn = currentIn
			lastOut = currentOut
		}

		time.Sleep(2 * time.Second)
	}
}

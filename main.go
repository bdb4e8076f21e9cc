// Package main is the entry point for the go-vj control surface.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	configPath  string
	layoutPath  string
	palettePath string
	faderMode   string
	addr        string
	bpm         float64
	debugLog    bool
	noAPI       bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "go-vj",
	Short: "APC mini mk2 control surface and beat clock for live visuals",
	Long: `go-vj turns an Akai APC mini mk2 into a control surface for a visuals
renderer. Pads become radio, toggle, oneshot, momentary and random inputs
described by a YAML layout; the faders and a tap-tempo beat clock come along.
Renderers read the current frame over HTTP.

Examples:
  go-vj                      monitor in the terminal, API on the configured address
  go-vj serve --addr :7700   headless
  go-vj ports                list MIDI ports
  go-vj check my-layout.yaml validate a layout`,
	Version:      version,
	SilenceUsage: true,
	RunE:         runMonitor,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the engine with the terminal monitor",
	Args:  cobra.NoArgs,
	RunE:  runMonitor,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the engine and API without a terminal UI",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List MIDI ports and mark the ones taken as controllers",
	Args:  cobra.NoArgs,
	RunE:  runPorts,
}

var checkCmd = &cobra.Command{
	Use:   "check [layout.yaml]",
	Short: "Validate a layout; without an argument the built-in one",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCheck,
}

func init() {
	// Global flags
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "config file (default ~/.config/go-vj/config.json)")
	pf.StringVarP(&layoutPath, "layout", "l", "", "YAML layout file (default built-in)")
	pf.Float64Var(&bpm, "bpm", 0, "starting tempo (default last used)")
	pf.StringVar(&faderMode, "fader-mode", "", "fader button mode: mute or random")
	pf.StringVar(&addr, "addr", "", "API listen address")
	pf.BoolVar(&noAPI, "no-api", false, "do not start the HTTP API")
	pf.BoolVar(&debugLog, "debug", false, "write a debug log")

	rootCmd.Flags().StringVar(&palettePath, "palette", "", "GIMP .gpl palette for the monitor")
	runCmd.Flags().StringVar(&palettePath, "palette", "", "GIMP .gpl palette for the monitor")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(portsCmd)
	rootCmd.AddCommand(checkCmd)
}

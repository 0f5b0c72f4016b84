package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"fleetsim/src/config"
	"fleetsim/src/dispatcher"
	"fleetsim/src/elev"
	"fleetsim/src/types"
	"fleetsim/src/utils"

	"github.com/eiannone/keyboard"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	numElevators := flag.Int("elevators", 0, "override the number of elevators")
	interactive := flag.Bool("interactive", false, "submit requests from the keyboard")
	logFile := flag.String("logfile", "", "also write logs to this file")
	flag.Parse()

	initLogger(*logFile)

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			slog.Error("Config load failed", "path", *configPath, "err", err)
			os.Exit(1)
		}
	}
	if *numElevators > 0 {
		cfg.NumElevators = *numElevators
	}

	requestChs := make([]chan<- types.Request, cfg.NumElevators)
	statusChs := make([]<-chan types.ElevatorStatus, cfg.NumElevators)
	for id := range cfg.NumElevators {
		unit := elev.Spawn(id, 0, cfg)
		requestChs[id] = unit.Requests()
		statusChs[id] = unit.Status()
	}
	d := dispatcher.New(cfg, requestChs, statusChs)

	go func() {
		for failure := range d.Failures() {
			slog.Error("Request lost",
				"origin", failure.Request.Origin,
				"destination", failure.Request.Destination,
				"elevator", failure.ElevatorID)
		}
	}()

	var submitted int
	if *interactive {
		submitted = runInteractive(d)
	} else {
		submitted = runScripted(d)
	}

	fleet := waitFleetIdle(d, cfg.NumElevators, submitted)
	utils.PrintFleet(fleet)
	d.Close()
}

// runScripted feeds the classic demo scenario: two riders going up, one down.
func runScripted(d *dispatcher.Dispatcher) int {
	requests := []types.Request{
		{Origin: 5, Destination: 9},
		{Origin: 3, Destination: 0},
		{Origin: 8, Destination: 9},
	}
	submitted := 0
	for _, req := range requests {
		if err := d.Submit(req); err != nil {
			slog.Error("Request rejected", "origin", req.Origin, "destination", req.Destination, "err", err)
			continue
		}
		submitted++
	}
	return submitted
}

// runInteractive reads floor digits from the keyboard: first key is the
// origin, second the destination. q or Ctrl-C stops.
func runInteractive(d *dispatcher.Dispatcher) int {
	fmt.Println("Type origin digit then destination digit, q to quit")
	submitted := 0
	pending := -1
	for {
		char, key, err := keyboard.GetSingleKey()
		if err != nil {
			slog.Error("Keyboard read failed", "err", err)
			return submitted
		}
		if char == 'q' || key == keyboard.KeyCtrlC {
			return submitted
		}
		if char < '0' || char > '9' {
			continue
		}
		floor := int(char - '0')
		if pending == -1 {
			pending = floor
			continue
		}
		req := types.Request{Origin: pending, Destination: floor}
		pending = -1
		if err := d.Submit(req); err != nil {
			slog.Error("Request rejected", "origin", req.Origin, "destination", req.Destination, "err", err)
			continue
		}
		submitted++
	}
}

// waitFleetIdle polls the dispatcher view until every elevator has drained to
// idle and all submitted requests are completed.
func waitFleetIdle(d *dispatcher.Dispatcher, numElevators, submitted int) map[int]types.ElevatorStatus {
	for {
		fleet := d.Fleet()
		completed := 0
		idle := len(fleet) == numElevators
		for _, s := range fleet {
			completed += s.Completed
			if s.Behaviour != types.Idle {
				idle = false
			}
		}
		if idle && completed >= submitted {
			return fleet
		}
		time.Sleep(50 * time.Millisecond)
	}
}

// initLogger sets up global logging with compact time format and file:line
// source locations.
func initLogger(logFile string) {
	var out io.Writer = os.Stdout
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			panic(err)
		}
		out = io.MultiWriter(os.Stdout, file)
	}

	handler := slog.NewTextHandler(out, &slog.HandlerOptions{
		Level:     slog.LevelInfo,
		AddSource: true,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.Format("15:04:05"))
				}
			}
			if a.Key == slog.SourceKey {
				if source, ok := a.Value.Any().(*slog.Source); ok {
					file := source.File
					if lastSlash := strings.LastIndexByte(file, '/'); lastSlash >= 0 {
						file = file[lastSlash+1:]
					}
					a.Value = slog.StringValue(fmt.Sprintf("%s:%d", file, source.Line))
				}
			}
			return a
		},
	})

	slog.SetDefault(slog.New(handler))
}

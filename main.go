package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"runtime"

	"github.com/alecthomas/kong"

	"gb-emu/dmg"
	"gb-emu/host"
	"gb-emu/host/ebitenhost"
	"gb-emu/host/headless"
	"gb-emu/host/sdlhost"
	"gb-emu/logger"
	"gb-emu/session"
	"gb-emu/statsview"
)

const programName = "gb-emu"

type CLI struct {
	ROM       string `arg:"" name:"rom" help:"ROM image, raw or inside a .zip, .7z, .rar or .gz archive."`
	Backend   string `enum:"ebiten,sdl,headless" default:"ebiten" help:"Window backend (${enum})."`
	Scale     int    `default:"3" help:"Window scale factor, 1 to 10."`
	Frames    int    `default:"60" help:"Frames to run with the headless backend."`
	ShowFPS   bool   `name:"show-fps" help:"Draw the measured frame rate (ebiten only)."`
	LogLevel  string `enum:"debug,info,warn,error" default:"info" help:"Log level (${enum})."`
	LogFormat string `enum:"text,json" default:"text" help:"Log format (${enum})."`
	Stats     bool   `help:"Serve runtime statistics over HTTP (needs the statsview build tag)."`
	StatsAddr string `default:"${stats_addr}" help:"Listen address for --stats."`
}

func (c *CLI) Validate() error {
	if c.Scale < 1 || c.Scale > 10 {
		return fmt.Errorf("scale must be between 1 and 10")
	}
	if c.Frames < 1 {
		return fmt.Errorf("frames must be positive")
	}
	return nil
}

func (c *CLI) windowFactory() session.WindowFactory {
	switch c.Backend {
	case "sdl":
		return sdlhost.New
	case "headless":
		return func(cfg host.Config) (host.Window, error) {
			return headless.New(cfg, c.Frames), nil
		}
	}
	return func(cfg host.Config) (host.Window, error) {
		return ebitenhost.New(cfg)
	}
}

func rootPath() string {
	_, thisFile, _, _ := runtime.Caller(0)
	return path.Dir(thisFile)
}

// run parses args and plays the ROM. It returns the process exit status.
func run(args []string, stdout, stderr io.Writer) int {
	var cli CLI
	exited, exitCode := false, 0

	parser, err := kong.New(&cli,
		kong.Name(programName),
		kong.Description("Game Boy emulator for ROM-only cartridges."),
		kong.Writers(stdout, stderr),
		kong.Vars{"stats_addr": statsview.DefaultAddr},
		kong.Exit(func(code int) {
			exited, exitCode = true, code
		}),
	)
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 1
	}

	_, err = parser.Parse(args)
	if exited {
		return exitCode
	}
	if err != nil {
		parser.Errorf("%s", err)
		_, _ = fmt.Fprintf(stderr, "usage: %s ROM\n", programName)
		return 1
	}

	log, err := logger.Setup(stderr, cli.LogLevel, cli.LogFormat, rootPath())
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return 1
	}

	if cli.Stats {
		stop, err := statsview.Serve(cli.StatsAddr, log)
		if err != nil {
			log.Warn("stats server unavailable", "err", err)
		} else {
			defer stop()
		}
	}

	s, err := session.New(session.Options{
		ROMPath:    cli.ROM,
		Title:      programName,
		Scale:      cli.Scale,
		ShowFPS:    cli.ShowFPS,
		OpenWindow: cli.windowFactory(),
		Logger:     log,
	})
	if err != nil {
		report(log, err)
		return 1
	}

	if err := s.Run(); err != nil {
		report(log, err)
		return 1
	}
	return 0
}

func report(log *slog.Logger, err error) {
	var ie *dmg.InitError
	var fe *session.FatalError
	switch {
	case errors.As(err, &ie):
		log.Error("rom rejected", "code", int(ie.Code), "err", err)
	case errors.As(err, &fe):
		log.Error("fatal emulation error", "kind", fe.Kind.String(), "value", fmt.Sprintf("%04X", fe.Value), "err", err)
	default:
		log.Error("session failed", "err", err)
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

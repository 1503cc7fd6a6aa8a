package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/integrii/flaggy"

	"github.com/noriah/recidia"
	"github.com/noriah/recidia/config"
	"github.com/noriah/recidia/input"
	"github.com/noriah/recidia/internal/log"

	_ "github.com/noriah/recidia/input/all"
)

var version = "unknown"

func main() {
	var f flags

	cmd := doFlags(&f)

	if l, ok := log.ParseLevel(f.logLevel); ok && f.logLevel != "" {
		log.SetLevel(l)
	}

	switch cmd {
	case cmdListBackends:
		listBackends()
		return

	case cmdListDevices:
		listDevices(f.backend)
		return
	}

	cfg, err := config.Load(f.configPath)
	chk(err, "failed to load config")

	f.apply(cfg)
	chk(cfg.Validate(), "invalid config")

	// Root Context
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	chk(recidia.Run(ctx, cfg), "failed to run recidia")
}

type command int

const (
	cmdRun command = iota
	cmdListBackends
	cmdListDevices
)

func doFlags(f *flags) command {
	parser := flaggy.NewParser(recidia.AppName)
	parser.Description = recidia.AppDesc
	parser.AdditionalHelpPrepend = recidia.AppSite
	parser.Version = version

	listBackendsCmd := flaggy.Subcommand{
		Name:        "list-backends",
		ShortName:   "lb",
		Description: "list all supported backends",
	}

	parser.AttachSubcommand(&listBackendsCmd, 1)

	listDevicesCmd := flaggy.Subcommand{
		Name:                 "list-devices",
		ShortName:            "ld",
		Description:          "list all devices for a backend",
		AdditionalHelpAppend: "\nuse the full name after the '-'",
	}

	parser.AttachSubcommand(&listDevicesCmd, 1)

	f.bind(parser)

	chk(parser.Parse(), "failed to parse arguments")

	switch {
	case listBackendsCmd.Used:
		return cmdListBackends
	case listDevicesCmd.Used:
		return cmdListDevices
	}

	return cmdRun
}

func listBackends() {
	def := input.DefaultBackend()

	fmt.Println("all backends. '*' marks default")

	for _, backend := range input.Backends {
		star := ' '
		if backend.Name == def {
			star = '*'
		}

		fmt.Printf("- %s %c\n", backend.Name, star)
	}
}

func listDevices(name string) {
	if name == "" {
		name = input.DefaultBackend()
	}

	backend, err := input.InitBackend(name)
	chk(err, "failed to init backend")
	defer backend.Close()

	devices, err := backend.Devices()
	chk(err, "failed to get devices")

	// We don't really need the default device to be indicated.
	defaultDevice, _ := backend.DefaultDevice()

	fmt.Printf("all devices for %q backend. '*' marks default\n", name)

	for idx := range devices {
		star := ' '
		if defaultDevice != nil && devices[idx].String() == defaultDevice.String() {
			star = '*'
		}

		fmt.Printf("- %v %c\n", devices[idx], star)
	}
}

func chk(err error, wrap string) {
	if err != nil {
		log.Fatalf("%s: %v", wrap, err)
	}
}

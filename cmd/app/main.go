package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/hubertat/servicemaker"

	"github.com/hubertat/blinkit"
)

var (
	Version string
	Build   string

	config      = flag.String("config", "config.json", "path of the configuration file")
	flagInstall = flag.Bool("install", false, "Install service in os")
	interval    = flag.String("interval", "", "blink interval (time.Duration), overrides config")
	cycles      = flag.Int("cycles", -1, "stop after this many on/off periods (0 blinks forever), overrides config")
	debug       = flag.Bool("debug", false, "log every level change")

	blkService = servicemaker.ServiceMaker{
		User:               "blinkit",
		UserGroups:         []string{"gpio", "i2c"},
		ServicePath:        "/etc/systemd/system/blinkit.service",
		ServiceDescription: "blinkit service: toggles a GPIO line at a fixed interval. github.com/hubertat/blinkit",
		ExecDir:            "/srv/blinkit",
		ExecName:           "blinkit",
	}
)

func main() {
	flag.Parse()
	if *debug {
		log.SetLevel(log.DebugLevel)
	}
	log.Info("blinkit started", "version", Version, "build", Build)

	if *flagInstall {
		err := blkService.InstallService()
		if err != nil {
			log.Fatal("failed to install service", "err", err)
		}
		log.Info("service installed!")
		return
	}

	bl := &blinkit.Blinker{}
	configFile, err := os.Open(*config)
	if err != nil {
		log.Fatal("can't find/open config file, will terminate", "path", *config, "err", err)
	}
	cBuff, err := io.ReadAll(configFile)
	configFile.Close()
	if err != nil {
		log.Fatal("failed reading config file", "err", err)
	}
	err = json.Unmarshal(cBuff, bl)
	if err != nil {
		log.Fatal("failed unmarshalling json config", "err", err)
	}

	if len(*interval) > 0 {
		bl.Interval = *interval
	}
	if *cycles >= 0 {
		bl.Cycles = *cycles
	}
	if bl.Cycles < 0 {
		log.Fatal("invalid cycles", "cycles", bl.Cycles)
	}
	if _, err = bl.ParseInterval(); err != nil {
		log.Fatal("invalid interval", "err", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		signal.Stop(c)
		cancel()
	}()

	bl.Greet(os.Stdout)

	err = run(ctx, bl)
	if err != nil {
		log.Error("blinkit stopped", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, bl *blinkit.Blinker) error {
	log.Debug("will init blinkit drivers...")
	err := bl.InitDrivers(ctx)
	defer bl.Close()
	if err != nil {
		return err
	}

	err = bl.InitOutput()
	if err != nil {
		return err
	}

	bl.PrintIoStatus(os.Stdout)

	return bl.Start(ctx)
}

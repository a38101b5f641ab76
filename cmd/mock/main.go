package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/hubertat/blinkit"
	"github.com/hubertat/blinkit/drivers"
)

var (
	Version string
	Build   string
)

func main() {
	var err error

	log.Info("blinkit started", "version", Version)
	log.Info("mock instance for testing puproses, should work on MacOs")

	bl := &blinkit.Blinker{
		Name:       "fake led",
		DriverName: "mock_driver",
		OutPin:     1,
		Interval:   "1s",
		Welcome:    "Welcome to blinkit (mock)!",
		FakeDriver: &drivers.MockIoDriver{},
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

	err = bl.InitDrivers(ctx)
	defer bl.Close()
	if err != nil {
		panic(err)
	}
	err = bl.InitOutput()
	if err != nil {
		panic(err)
	}

	bl.FakeDriver.MonitorStateChanges(os.Stdout)
	bl.PrintIoStatus(os.Stdout)

	err = bl.Start(ctx)
	if err != nil {
		log.Error("mock blinking stopped", "err", err)
	}
}

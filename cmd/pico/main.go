//go:build tinygo

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/hubertat/blinkit/blink"
	"github.com/hubertat/blinkit/drivers"
)

const ledPin = 1
const interval = time.Second

func main() {
	fmt.Println("Welcome to blinkit!")

	mio := drivers.MapAllIoDrivers()["machine"]
	err := mio.Setup(context.Background(), []uint16{ledPin})
	if err != nil {
		fmt.Println("setup failed: ", err.Error())
		panic(err)
	}

	led, err := mio.GetOutput(ledPin)
	if err != nil {
		panic(err)
	}

	err = blink.Run(context.Background(), led, interval)
	if err != nil {
		fmt.Println("blink failed: ", err.Error())
		panic(err)
	}
}

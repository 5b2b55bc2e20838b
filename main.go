package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/chmarti1/rumble/cli"
	"github.com/chmarti1/rumble/ljm"
	"github.com/chmarti1/rumble/motor"

	logger "github.com/d2r2/go-logger"
)

// Firmware pulse output is only available on lines 6 and 7, which fixes
// the pulse pin assignments. Each axis gets its own home switch input.
const (
	polarDirPin   = 4
	polarPulsePin = 6
	polarHomePin  = 8

	monoDirPin   = 5
	monoPulsePin = 7
	monoHomePin  = 9
)

var (
	device   = flag.String("device", "192.168.1.207", "T-series device, host or host:port")
	rate     = flag.Float64("rate", 1000, "pulse rate in Hz")
	polarCfg = flag.String("polarizer", "", "polarizer config file to load")
	monoCfg  = flag.String("mono", "", "monochromator config file to load")
	verbose  = flag.Bool("v", false, "debug logging")
)

func main() {
	flag.Parse()
	level := logger.InfoLevel
	if *verbose {
		level = logger.DebugLevel
	}
	logger.ChangePackageLogLevel("motor", level)
	logger.ChangePackageLogLevel("ljm", level)

	fmt.Println("rumble motion control")
	dev, err := ljm.Open(*device)
	if err != nil {
		fmt.Printf("failed to open device: %s\n", err)
		return
	}
	defer dev.Close()

	polarizer := motor.NewAxis(dev, "polarizer")
	mono := motor.NewAxis(dev, "mono")

	if *polarCfg != "" {
		err = polarizer.Load(*polarCfg)
	} else {
		if err = polarizer.SetClockHz(*rate); err == nil {
			err = polarizer.SetPins(polarDirPin, polarPulsePin, polarHomePin, false)
		}
	}
	if err != nil {
		fmt.Printf("failed to set up polarizer: %s\n", err)
		return
	}

	if *monoCfg != "" {
		err = mono.Load(*monoCfg)
	} else {
		// The clock is shared across all extended features, the
		// polarizer setup already programmed it.
		err = mono.SetPins(monoDirPin, monoPulsePin, monoHomePin, false)
	}
	if err != nil {
		fmt.Printf("failed to set up monochromator: %s\n", err)
		return
	}

	sh := cli.NewShell([]*motor.Axis{polarizer, mono}, os.Stdout)
	if err := sh.Run(os.Stdin); err != nil {
		fmt.Printf("shell error: %s\n", err)
	}
}

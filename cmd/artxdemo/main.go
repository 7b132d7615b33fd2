// ARTX demo: a "fast"/"slow"/idle task set, the Go equivalent of the
// original library's LED-blink example (original_source/example/example.c),
// with blinking LEDs replaced by logged toggles since there's no GPIO to
// drive in a simulation.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mhx/artx"
)

var (
	configFileArg = flag.String("config", "", "Config file to load (optional, defaults are used otherwise)")
	numTicksArg   = flag.Int("ticks", 0, "Run exactly N ticks and exit instead of running until a signal (0 disables)")
)

var log = artx.NewCompLogger("artxdemo")

var (
	ledR, ledG, ledB bool
)

func main() {
	flag.Parse()

	cfg := artx.DefaultConfig()
	if *configFileArg != "" {
		loaded, err := artx.LoadConfig(*configFileArg, nil, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error loading config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if err := artx.SetLogger(cfg.LoggerConfig); err != nil {
		fmt.Fprintf(os.Stderr, "error setting logger: %v\n", err)
		os.Exit(1)
	}

	fast, err := artx.NewTask("fast", 0, 20, 8)
	if err != nil {
		log.Fatal(err)
	}
	slow, err := artx.NewTask("slow", 1, 100, 8)
	if err != nil {
		log.Fatal(err)
	}
	idle := artx.NewIdleTask("idle", 8)

	fast.PushRoutine(artx.NewRoutine("run_fast", runFast))
	slow.PushRoutine(artx.NewRoutine("run_slow", runSlow))
	idle.PushRoutine(artx.NewRoutine("run_idle", runIdle))

	tasks := artx.NewTaskList()
	for _, t := range []*artx.TCB{fast, slow, idle} {
		if err := tasks.Add(t); err != nil {
			log.Fatal(err)
		}
	}

	transport, err := artx.NewStdoutTransport(nil)
	if err != nil {
		log.Fatal(err)
	}

	kernel, err := artx.NewKernel(cfg, tasks, transport)
	if err != nil {
		log.Fatal(err)
	}

	if *numTicksArg > 0 {
		for i := 0; i < *numTicksArg; i++ {
			kernel.Tick()
		}
		return
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	log.Info("starting ARTX demo, ctrl-c to stop")
	kernel.Run(ctx)
}

func runFast() {
	ledG = !ledG
	log.Debugf("LED_G -> %v", ledG)
}

func runSlow() {
	ledR = !ledR
	log.Debugf("LED_R -> %v", ledR)
}

func runIdle() {
	ledB = !ledB
	log.Debugf("LED_B -> %v", ledB)
}

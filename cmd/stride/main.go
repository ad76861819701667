package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	stride "github.com/kentwait/stride"
)

func main() {
	numCPUPtr := flag.Int("threads", runtime.NumCPU(), "number of CPU threads")
	loggerType := flag.String("logger", "csv", "data logger type (csv|sqlite|none)")
	seedNum := flag.Int64("seed", time.Now().UTC().UnixNano(), "random seed. Uses Unix time in nanoseconds as default")
	indexCase := flag.Int("index-case", -1, "person ID to seed as the initial infection, or -1 for none")
	flag.Parse()

	rand.Seed(*seedNum)
	runtime.GOMAXPROCS(*numCPUPtr)

	configPath := flag.Arg(0)
	if configPath == "" {
		log.Fatal("usage: stride [flags] <config.toml>")
	}

	conf, err := stride.LoadRunConfig(configPath)
	if err != nil {
		log.Fatal(err)
	}
	conf.NumThreads = *numCPUPtr
	conf.RandomSeed = *seedNum
	if err := conf.Validate(); err != nil {
		log.Fatal(err)
	}

	var logger stride.DataLogger
	switch *loggerType {
	case "csv":
		logger = stride.NewCSVLogger(conf.OutputPath, 1)
	case "sqlite":
		logger = stride.NewSQLiteLogger(conf.OutputPath, 1)
	case "none":
		logger = nil
	default:
		log.Fatalf("%s is not a valid logger type (csv|sqlite|none)", *loggerType)
	}

	start := time.Now()
	sim, err := stride.NewSimulator(conf, 1, logger)
	if err != nil {
		log.Fatalf("error building simulator from configuration: %s", err)
	}
	logStartupBanner(conf, start)

	if *indexCase >= 0 {
		sim.SeedIndexCase(*indexCase)
	}

	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)
	go func() {
		if _, ok := <-interrupts; ok {
			log.Println("received interrupt, stopping after the current day")
			sim.Interrupt()
		}
	}()

	if err := sim.Run(conf.NumDays); err != nil {
		log.Fatalf("error running simulation: %s", err)
	}
	log.Printf("finished %s in %s.\n", configPath, time.Since(start))
}

// logStartupBanner prints a human-readable summary of the run, colorized
// when stdout is a terminal.
func logStartupBanner(conf *stride.RunConfig, start time.Time) {
	bold := func(s string) string { return s }
	if isatty.IsTerminal(os.Stdout.Fd()) {
		bold = func(s string) string { return "\033[1m" + s + "\033[0m" }
	}
	fmt.Printf("%s days=%s threads=%d r0=%.2f seed=%d started=%s\n",
		bold("stride"),
		humanize.Comma(int64(conf.NumDays)),
		conf.NumThreads,
		conf.R0,
		conf.RandomSeed,
		start.Format(time.RFC3339),
	)
}

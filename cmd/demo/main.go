// Command demo drives a small corotick program for a fixed number of ticks
// through a logging executor, persisting an executor snapshot partway
// through and printing a Graphviz DOT rendering of that snapshot.
package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/outpace/corotick"
	"github.com/outpace/corotick/examples"
	"github.com/outpace/corotick/internal/extensibility"
	"github.com/outpace/corotick/internal/production"
)

func main() {
	tickInterval := flag.Duration("tick", 200*time.Millisecond, "simulated time advanced per tick")
	ticks := flag.Int("ticks", 10, "number of ticks to drive")
	snapshotDir := flag.String("snapshot-dir", "/tmp/corotick-demo", "directory for persisted snapshots")
	format := flag.String("format", "json", "snapshot format: json or yaml")
	flag.Parse()

	registry := corotick.NewGeneratorRegistry()
	if err := examples.Register(registry); err != nil {
		panic(err)
	}
	engine := corotick.NewSnapshotEngine(registry)

	executor := corotick.NewExecutor(registry)
	logged := extensibility.NewLoggingExecutor(executor)

	gen := examples.FetchThenProcess(examples.Countdown(3), func(v any) corotick.Generator {
		return examples.ConcurrentDelays(executor, *tickInterval*2, *tickInterval*3)
	})

	th, err := executor.Start(gen)
	if err != nil {
		panic(err)
	}

	var persister interface {
		Save(name string, snap corotick.ExecutorSnapshot) error
	}
	switch *format {
	case "yaml":
		persister, err = production.NewYAMLPersister(*snapshotDir)
	default:
		persister, err = production.NewJSONPersister(*snapshotDir)
	}
	if err != nil {
		panic(err)
	}

	for i := 0; i < *ticks && th.Status() == corotick.StatusYielded; i++ {
		if _, err := logged.Tick(*tickInterval); err != nil {
			fmt.Printf("tick %d error: %v\n", i+1, err)
			break
		}

		if i == *ticks/2 {
			snap, err := executor.Capture(engine)
			if err != nil {
				fmt.Printf("capture skipped: %v\n", err)
				continue
			}
			if err := persister.Save("demo", snap); err != nil {
				fmt.Printf("persist failed: %v\n", err)
				continue
			}
			fmt.Println(production.ExportDOT(snap))
		}
	}

	fmt.Printf("final status: %v\n", th.Status())
}

// Command hcal-cluster clusters calorimeter events read as JSON.
//
// Events are read from -events (or stdin) and one JSON result per event is
// written to -out (or stdout). Tuning comes from -config; without it the
// built-in defaults apply.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/banshee-data/hcal.cluster/internal/config"
	"github.com/banshee-data/hcal.cluster/internal/hcal/geometry"
	"github.com/banshee-data/hcal.cluster/internal/hcal/pipeline"
	"github.com/banshee-data/hcal.cluster/internal/monitoring"
	"github.com/banshee-data/hcal.cluster/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		log.Fatalf("hcal-cluster: %v", err)
	}
}

type options struct {
	configPath  string
	eventsPath  string
	outPath     string
	workers     int
	metricsAddr string
	verbose     bool
	showVersion bool
}

func parseFlags(args []string) (*options, error) {
	fs := flag.NewFlagSet("hcal-cluster", flag.ContinueOnError)
	o := &options{}
	fs.StringVar(&o.configPath, "config", "", "path to tuning JSON (defaults when empty)")
	fs.StringVar(&o.eventsPath, "events", "-", "path to events JSON, - for stdin")
	fs.StringVar(&o.outPath, "out", "-", "path for results JSON, - for stdout")
	fs.IntVar(&o.workers, "workers", 0, "concurrent events (overrides event_workers)")
	fs.StringVar(&o.metricsAddr, "metrics-listen", "", "serve prometheus metrics on this address")
	fs.BoolVar(&o.verbose, "v", false, "log per-event diagnostics")
	fs.BoolVar(&o.showVersion, "version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return o, nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	o, err := parseFlags(args)
	if err != nil {
		return err
	}
	if o.showVersion {
		_, err := fmt.Fprintln(stdout, version.String())
		return err
	}

	if o.verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		defer l.Sync() //nolint:errcheck
		monitoring.SetZapLogger(l)
	} else {
		monitoring.SetLogger(nil)
	}

	tuning := config.EmptyTuningConfig()
	if o.configPath != "" {
		if tuning, err = config.LoadTuningConfig(o.configPath); err != nil {
			return err
		}
	}
	workers := tuning.GetEventWorkers()
	if o.workers > 0 {
		workers = o.workers
	}

	producer, err := pipeline.NewProducerFromTuning(tuning, geometry.DefaultStripGeometry())
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	metrics, err := pipeline.NewMetrics(reg)
	if err != nil {
		return err
	}
	producer.SetMetrics(metrics)
	if o.metricsAddr != "" {
		srv := &http.Server{Addr: o.metricsAddr, Handler: promhttp.HandlerFor(reg, promhttp.HandlerOpts{})}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				monitoring.Logf("metrics server: %v", err)
			}
		}()
		defer srv.Close()
	}

	in := stdin
	if o.eventsPath != "-" {
		f, err := os.Open(o.eventsPath)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}
	events, err := pipeline.DecodeEvents(in)
	if err != nil {
		return err
	}

	results, err := producer.ProcessEvents(ctx, events, workers)
	if err != nil {
		return err
	}

	out := stdout
	if o.outPath != "-" {
		f, err := os.Create(o.outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	return writeResults(out, results)
}

type clusterJSON struct {
	Energy float64  `json:"energy"`
	X      float64  `json:"x"`
	Y      float64  `json:"y"`
	Z      float64  `json:"z"`
	Time   float64  `json:"time"`
	Hits   []uint32 `json:"hit_ids"`
}

type resultJSON struct {
	EventID         string        `json:"event_id"`
	Run             int           `json:"run"`
	Number          int           `json:"number"`
	Clusters        []clusterJSON `json:"clusters"`
	Rejected        []string      `json:"rejected,omitempty"`
	ClusteredEnergy float64       `json:"clustered_energy"`
}

func writeResults(w io.Writer, results []*pipeline.Result) error {
	enc := json.NewEncoder(w)
	for _, r := range results {
		out := resultJSON{
			EventID:         r.EventID.String(),
			Run:             r.Run,
			Number:          r.Number,
			Clusters:        make([]clusterJSON, len(r.Clusters)),
			ClusteredEnergy: r.ClusteredEnergy,
		}
		for i, c := range r.Clusters {
			ids := make([]uint32, len(c.HitIDs))
			for j, id := range c.HitIDs {
				ids[j] = uint32(id)
			}
			out.Clusters[i] = clusterJSON{
				Energy: c.Energy,
				X:      c.Centroid.X,
				Y:      c.Centroid.Y,
				Z:      c.Centroid.Z,
				Time:   c.Time,
				Hits:   ids,
			}
		}
		for _, rej := range r.Rejected {
			out.Rejected = append(out.Rejected, rej.Error())
		}
		if err := enc.Encode(out); err != nil {
			return err
		}
	}
	return nil
}

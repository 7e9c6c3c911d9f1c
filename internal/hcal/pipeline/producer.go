package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/banshee-data/hcal.cluster/internal/config"
	"github.com/banshee-data/hcal.cluster/internal/hcal/clustering"
	"github.com/banshee-data/hcal.cluster/internal/hcal/geometry"
	"github.com/banshee-data/hcal.cluster/internal/monitoring"
)

// Producer clusters events with a fixed configuration.
type Producer struct {
	cfg     clustering.Config
	geom    geometry.Geometry
	opts    []clustering.Option
	metrics *Metrics
}

// NewProducer checks that an engine can be built from cfg, geom and opts.
func NewProducer(cfg clustering.Config, geom geometry.Geometry, opts ...clustering.Option) (*Producer, error) {
	if _, err := clustering.NewEngine(cfg, geom, opts...); err != nil {
		return nil, err
	}
	return &Producer{cfg: cfg, geom: geom, opts: opts}, nil
}

// NewProducerFromTuning builds a Producer from a tuning file. The merge
// weighter named in t is applied before opts.
func NewProducerFromTuning(t *config.TuningConfig, geom geometry.Geometry, opts ...clustering.Option) (*Producer, error) {
	cfg, err := clustering.ConfigFromTuning(t)
	if err != nil {
		return nil, err
	}
	w, err := clustering.WeighterFromTuning(t)
	if err != nil {
		return nil, err
	}
	all := append([]clustering.Option{clustering.WithWeighter(w)}, opts...)
	return NewProducer(cfg, geom, all...)
}

// SetMetrics attaches m; nil detaches.
func (p *Producer) SetMetrics(m *Metrics) { p.metrics = m }

// Config returns the clustering configuration.
func (p *Producer) Config() clustering.Config { return p.cfg }

// Produce clusters one event. Events without an id are given a random one.
// Rejected hits are reported in the result; an error means the event could
// not be clustered at all.
func (p *Producer) Produce(ev Event) (*Result, error) {
	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}
	eng, err := clustering.NewEngine(p.cfg, p.geom, p.opts...)
	if err != nil {
		return nil, err
	}

	rejected, err := eng.Load(ev.Hits)
	if err == nil {
		err = eng.Merge()
	}
	if err != nil {
		p.metrics.observeFailure()
		monitoring.Logf("event run=%d number=%d id=%s failed: %v", ev.Run, ev.Number, ev.ID, err)
		return nil, fmt.Errorf("pipeline: event %s: %w", ev.ID, err)
	}

	res := &Result{
		EventID:         ev.ID,
		Run:             ev.Run,
		Number:          ev.Number,
		Clusters:        eng.FinalClusters(),
		Rejected:        rejected,
		Filtered:        eng.Filtered(),
		Transitions:     eng.Transitions(),
		Seeds:           eng.Seeds(),
		Iterations:      eng.Iterations(),
		ClusteredEnergy: eng.ClusteredEnergy(),
	}
	p.metrics.observe(res)
	if len(rejected) > 0 {
		monitoring.Logf("event run=%d number=%d: %d hits rejected", ev.Run, ev.Number, len(rejected))
	}
	return res, nil
}

// ProcessEvents clusters events on up to workers goroutines. Results are
// returned in input order. The first failed event cancels the remainder and
// its error is returned.
func (p *Producer) ProcessEvents(ctx context.Context, events []Event, workers int) ([]*Result, error) {
	if workers < 1 {
		workers = 1
	}
	results := make([]*Result, len(events))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range events {
		if gctx.Err() != nil {
			break
		}
		i := i // per-iteration copy (go.mod targets go 1.21 loop semantics)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := p.Produce(events[i])
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

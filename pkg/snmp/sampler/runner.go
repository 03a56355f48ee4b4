// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2024-present Datadog, Inc.

package sampler

import (
	"context"
	"sync"

	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/jchmura/jmeter-snmp/pkg/config"
	"github.com/jchmura/jmeter-snmp/pkg/util/log"
)

// RunnerConfig sizes a load run.
type RunnerConfig struct {
	Workers    int
	Iterations int
	// Rate caps the samples per second of all workers together, 0 means no
	// limit.
	Rate float64
}

// RunnerConfigFrom reads the runner section of cfg.
func RunnerConfigFrom(cfg config.Config) RunnerConfig {
	return RunnerConfig{
		Workers:    cfg.GetInt("runner.workers"),
		Iterations: cfg.GetInt("runner.iterations"),
		Rate:       cfg.GetFloat64("runner.rate"),
	}
}

// Runner runs samplers in parallel workers, each worker owning one Sampler.
type Runner struct {
	config   RunnerConfig
	props    Properties
	provider ListenerProvider
	opts     []Option
	sequence *atomic.Uint64
}

// NewRunner returns a runner for the given plan.
func NewRunner(config RunnerConfig, props Properties, provider ListenerProvider, opts ...Option) *Runner {
	return &Runner{
		config:   config,
		props:    props,
		provider: provider,
		opts:     opts,
		sequence: atomic.NewUint64(0),
	}
}

// Run blocks until every worker ran its iterations or ctx is done. The
// summary covers the samples taken so far in both cases.
func (r *Runner) Run(ctx context.Context) (*Summary, error) {
	workers := r.config.Workers
	if workers < 1 {
		workers = 1
	}
	var limiter *rate.Limiter
	if r.config.Rate > 0 {
		limiter = rate.NewLimiter(rate.Limit(r.config.Rate), 1)
	}

	log.Infof("Starting %d worker(s), %d iteration(s) each", workers, r.config.Iterations)
	c := &collector{}
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			return r.worker(gctx, w, limiter, c)
		})
	}
	err := g.Wait()
	return Summarize(c.results()), err
}

func (r *Runner) worker(ctx context.Context, id int, limiter *rate.Limiter, c *collector) error {
	opts := append([]Option{WithSequence(r.sequence)}, r.opts...)
	s := New(r.props, r.provider, opts...)
	s.ThreadStarted() //nolint:errcheck
	defer s.ThreadFinished()

	for i := 0; i < r.config.Iterations; i++ {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return err
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		result := s.Sample(ctx)
		log.Tracef("[worker %d] %s", id, result)
		c.add(result)
	}
	return nil
}

type collector struct {
	mu  sync.Mutex
	all []*Result
}

func (c *collector) add(r *Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.all = append(c.all, r)
}

func (c *collector) results() []*Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*Result(nil), c.all...)
}

/*
Package batch builds several fonts concurrently.

Every font is built by its own goroutine, with its own font data, rasterizer
and output container; builds share no mutable state. Start returns a promise
for a single build, Run starts a whole batch and waits for all of its builds
to complete. A failing build never stops its siblings.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package batch

import (
	"context"
	"path/filepath"

	"github.com/npillmayer/ejfont/core"
	"github.com/npillmayer/ejfont/engine/build"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces to tracing key 'ejf.build'.
func tracer() tracing.Trace {
	return tracing.Select("ejf.build")
}

// Outcome is the outcome of a single build.
type Outcome struct {
	Config build.Config
	Result build.Result
	Err    error
}

// Promise is a build in progress. A promise must not be awaited from more
// than one goroutine.
type Promise interface {
	Outcome() Outcome
	Await(ctx context.Context) (Outcome, error)
}

type builder struct {
	await func(ctx context.Context) (Outcome, error)
}

func (b builder) Outcome() Outcome {
	o, _ := b.await(context.Background())
	return o
}

func (b builder) Await(ctx context.Context) (Outcome, error) {
	return b.await(ctx)
}

// Start builds a font in a new goroutine. progress may be nil.
func Start(cfg build.Config, progress build.Progress) Promise {
	ch := make(chan Outcome, 1)
	go func(ch chan<- Outcome) {
		o := Outcome{Config: cfg}
		o.Result, o.Err = build.Build(cfg, progress)
		ch <- o
		close(ch)
	}(ch)
	var done *Outcome
	return builder{
		await: func(ctx context.Context) (Outcome, error) {
			if done != nil {
				return *done, nil
			}
			select {
			case <-ctx.Done():
				return Outcome{Config: cfg}, ctx.Err()
			case o := <-ch:
				done = &o
				return o, nil
			}
		},
	}
}

// ProgressFactory creates the progress sink of the i-th build of a batch.
type ProgressFactory func(i int, cfg build.Config) build.Progress

// Run builds all configured fonts concurrently and waits for all of them.
// Outcomes are in the order of cfgs. The error is non-nil only if the batch
// could not be started; failures of single builds are reported in their
// outcomes.
func Run(cfgs []build.Config, progress ProgressFactory) ([]Outcome, error) {
	if err := checkOutputs(cfgs); err != nil {
		return nil, err
	}
	promises := make([]Promise, len(cfgs))
	for i, cfg := range cfgs {
		var p build.Progress
		if progress != nil {
			p = progress(i, cfg)
		}
		promises[i] = Start(cfg, p)
	}
	outcomes := make([]Outcome, len(cfgs))
	for i, p := range promises {
		outcomes[i] = p.Outcome()
	}
	tracer().Infof("batch of %d fonts done, %d failed", len(cfgs), Failed(outcomes))
	return outcomes, nil
}

// Failed counts the failed builds.
func Failed(outcomes []Outcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Err != nil {
			n++
		}
	}
	return n
}

// checkOutputs rejects batches with two builds writing the same container.
func checkOutputs(cfgs []build.Config) error {
	seen := make(map[string]int, len(cfgs))
	for i, cfg := range cfgs {
		out, err := filepath.Abs(cfg.Output)
		if err != nil {
			out = filepath.Clean(cfg.Output)
		}
		if j, ok := seen[out]; ok {
			return core.Error(core.EINVALID, "fonts #%d and #%d are both written to %s", j+1, i+1, cfg.Output)
		}
		seen[out] = i
	}
	return nil
}

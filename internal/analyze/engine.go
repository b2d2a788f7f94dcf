package analyze

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/histlens/histlens/internal/history"
)

// FullReport bundles the output of every analyzer over one command set.
// The heatmap inside uses the default all/week view; callers needing a
// different slice call Heatmap directly.
type FullReport struct {
	GeneratedAt time.Time
	Stats       CommandStats
	Danger      DangerAnalysis
	Packages    PackageAnalysis
	Network     NetworkAnalysis
	Heatmap     HeatmapData
	Aliases     AliasAnalysis
	Experiments ExperimentAnalysis
}

// Engine runs the analyzers concurrently. The zero value is not usable;
// construct with NewEngine.
type Engine struct {
	now func() time.Time
}

func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// Analyze fans all seven analyzers out over the shared immutable slice
// and assembles the combined report. Each analyzer writes its own report
// field, so no locking is needed. The only error source is context
// cancellation.
func (e *Engine) Analyze(ctx context.Context, cmds []history.Command) (*FullReport, error) {
	now := e.now().UTC()
	report := &FullReport{GeneratedAt: now}

	g, ctx := errgroup.WithContext(ctx)
	run := func(fn func()) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn()
			return nil
		})
	}

	run(func() { report.Stats = Stats(cmds) })
	run(func() { report.Danger = Danger(cmds) })
	run(func() { report.Packages = Packages(cmds) })
	run(func() { report.Network = Network(cmds) })
	run(func() { report.Heatmap = Heatmap(cmds, ViewAll, WindowWeek, now) })
	run(func() { report.Aliases = Aliases(cmds) })
	run(func() { report.Experiments = Experiments(cmds) })

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return report, nil
}

package upload

import (
	"context"
	"fmt"
	"iter"

	"golang.org/x/sync/errgroup"

	"github.com/immich-go/client/asset"
	"github.com/immich-go/client/client"
	"github.com/immich-go/client/immicherr"
)

// Logger receives a one-line diagnostic for every per-asset upload failure.
// *logger.Journal satisfies this.
type Logger interface {
	Warning(format string, args ...any)
}

// Engine drives Threads worker goroutines against a lazy sequence of
// assets. It owns no state across runs; a single Engine value may be
// reused for successive Run calls.
type Engine struct {
	Threads int
	Logger  Logger
}

// NewEngine builds an Engine with threads workers (clamped to at least 1).
func NewEngine(threads int) *Engine {
	if threads < 1 {
		threads = 1
	}
	return &Engine{Threads: threads}
}

// Run uploads every asset produced by assets using e.Threads workers, each
// holding its own Client clone. If progress is non-nil, every completed
// Uploaded is also sent there, synchronously, before Run returns — a
// blocked progress receiver blocks the whole pipeline by design, so
// counters on the observer side are always consistent with the returned
// slice. Sending on a progress channel the caller has closed early is a
// programming error and panics, exactly as a plain Go send would.
//
// Shutdown order: the producer (this goroutine) closes the work channel
// once assets is exhausted; workers observe the close and exit; Run joins
// them via errgroup; only then does it close the result channel, which
// lets the collector goroutine finish; Run joins the collector last and
// returns its accumulated slice.
func (e *Engine) Run(ctx context.Context, cl *client.Client, assets iter.Seq[asset.Asset], progress chan<- Uploaded) ([]Uploaded, error) {
	work := make(chan asset.Asset, 2*e.Threads)
	results := make(chan Uploaded)
	done := make(chan []Uploaded, 1)

	go func() {
		collected := make([]Uploaded, 0)
		for u := range results {
			collected = append(collected, u)
			if progress != nil {
				progress <- u
			}
		}
		done <- collected
	}()

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < e.Threads; i++ {
		worker := cl.Clone()
		g.Go(func() error {
			for a := range work {
				a := a
				u, err := Upload(gctx, worker, &a)
				if err != nil && e.Logger != nil {
					e.Logger.Warning("upload %s failed: %v", a.DeviceAssetID, err)
				}
				results <- u
			}
			return nil
		})
	}

	for a := range assets {
		work <- a
	}
	close(work)

	werr := g.Wait()
	close(results)
	collected := <-done

	if werr != nil {
		return collected, fmt.Errorf("%w: %v", immicherr.ErrMultithread, werr)
	}
	return collected, nil
}

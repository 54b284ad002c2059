package ocr

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"

	"vobscribe/internal/logging"
)

// engineThreadLimit applies the process-wide cap on the native engine's
// internal threading exactly once, before any engine exists. Each worker
// already owns a whole engine instance; letting every instance spawn its
// own thread gang would oversubscribe the machine.
var engineThreadLimit sync.Once

func limitEngineThreads() {
	engineThreadLimit.Do(func() {
		os.Setenv("OMP_THREAD_LIMIT", "1")
	})
}

// Pool fans tasks out to a fixed set of workers. Each worker lazily builds
// one engine on its first task and keeps it, exclusively, until the pool
// drains.
type Pool struct {
	workers int
	factory Factory
	logger  *slog.Logger
}

// NewPool builds a pool. A non-positive worker count uses the machine's
// logical CPU count.
func NewPool(workers int, factory Factory, logger *slog.Logger) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pool{workers: workers, factory: factory, logger: logger}
}

// Run recognizes every task and returns outcomes in task order, whatever
// order workers finish in. Per-image failures fail only their task; an
// engine construction failure aborts the run and is returned.
func (p *Pool) Run(tasks []Task) ([]Outcome, error) {
	limitEngineThreads()

	outcomes := make([]Outcome, len(tasks))
	indexes := make(chan int)

	var (
		aborted  atomic.Bool
		fatalErr error
		fatal    sync.Once
	)

	var wg sync.WaitGroup
	for w := 0; w < p.workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			var engine Engine
			defer func() {
				if engine != nil {
					if err := engine.Close(); err != nil {
						p.logger.Warn("closing recognition engine", slog.Int("worker", worker), slog.Any("error", err))
					}
				}
			}()
			for i := range indexes {
				if aborted.Load() {
					continue
				}
				if engine == nil {
					built, err := p.factory()
					if err != nil {
						fatal.Do(func() { fatalErr = fmt.Errorf("build recognition engine: %w", err) })
						aborted.Store(true)
						continue
					}
					engine = built
				}
				outcomes[i] = p.recognizeTask(engine, tasks[i])
			}
		}(w)
	}

	for i := range tasks {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	if fatalErr != nil {
		return nil, fatalErr
	}
	return outcomes, nil
}

// recognizeTask runs one event's images strictly top to bottom, abandoning
// the remainder on the first failure. Engines return each line's text
// without a trailing newline; the line break between images is inserted
// here.
func (p *Pool) recognizeTask(engine Engine, task Task) Outcome {
	outcome := Outcome{Index: task.Index, Start: task.Start, End: task.End}
	lines := make([]string, 0, len(task.Images))
	for line, img := range task.Images {
		recognized, err := engine.Recognize(img)
		if err != nil {
			outcome.Err = fmt.Errorf("line %d of %d: %w", line+1, len(task.Images), err)
			return outcome
		}
		lines = append(lines, recognized)
	}
	outcome.Text = strings.Join(lines, "\n")
	p.logger.Debug("recognized subtitle",
		slog.Int(logging.FieldEventIndex, task.Index),
		slog.Int("lines", len(task.Images)))
	return outcome
}

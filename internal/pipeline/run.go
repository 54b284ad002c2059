package pipeline

import (
	"fmt"
	"log/slog"
	"strings"

	"vobscribe/internal/config"
	"vobscribe/internal/language"
	"vobscribe/internal/logging"
	"vobscribe/internal/ocr"
	"vobscribe/internal/ocrcache"
	"vobscribe/internal/segment"
	"vobscribe/internal/srt"
	"vobscribe/internal/vobsub"
)

// Result summarizes one conversion run.
type Result struct {
	// Cues are the successfully recognized subtitles, in input order.
	Cues []srt.Cue
	// Decoded counts events the decoder produced.
	Decoded int
	// SkippedDecode counts subtitles the decoder could not parse.
	SkippedDecode int
	// Blank counts events that segmented to zero text regions.
	Blank int
	// Failed counts events whose recognition failed.
	Failed int
	// Empty counts events whose recognized text was empty.
	Empty int
}

// PartialFailure reports whether any event failed recognition. The run is
// still considered complete; callers use this for a non-zero exit status.
func (r *Result) PartialFailure() bool { return r.Failed > 0 }

// Runner executes conversions with a fixed configuration.
type Runner struct {
	cfg    *config.Config
	logger *slog.Logger

	// factory, when set, replaces Tesseract engine construction.
	factory ocr.Factory
}

// New builds a Runner.
func New(cfg *config.Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{cfg: cfg, logger: logger}
}

// Run converts the VobSub pair named by its .idx path. When dumpDir is
// non-empty every rendered line image is also written there as a PNG.
func (r *Runner) Run(idxPath, dumpDir string) (*Result, error) {
	container, err := vobsub.Decode(idxPath, logging.WithComponent(r.logger, "decoder"))
	if err != nil {
		return nil, fmt.Errorf("read subtitles from %s: %w", idxPath, err)
	}
	return r.Process(container, dumpDir)
}

// Process runs segmentation, recognition, and aggregation over an already
// decoded container.
func (r *Runner) Process(container *vobsub.Container, dumpDir string) (*Result, error) {
	result := &Result{
		Decoded:       len(container.Events),
		SkippedDecode: container.Skipped,
	}

	prepared := segment.PrepareAll(container, segment.Options{
		Threshold: r.cfg.OCR.Threshold,
		Border:    r.cfg.OCR.Border,
	}, r.cfg.OCR.Workers)
	result.Blank = len(container.Events) - len(prepared)

	if dumpDir != "" {
		if err := dumpImages(dumpDir, prepared); err != nil {
			return nil, err
		}
	}
	if len(prepared) == 0 {
		r.logger.Warn("no text regions found in any subtitle")
		return result, nil
	}

	factory, cleanup, err := r.engineFactory()
	if err != nil {
		return nil, err
	}
	defer cleanup()

	tasks := make([]ocr.Task, len(prepared))
	for i, p := range prepared {
		tasks[i] = ocr.Task{Index: p.Index, Start: p.Start, End: p.End, Images: p.Images}
	}
	pool := ocr.NewPool(r.cfg.OCR.Workers, factory, logging.WithComponent(r.logger, "ocr"))
	outcomes, err := pool.Run(tasks)
	if err != nil {
		return nil, fmt.Errorf("perform OCR on subtitles: %w", err)
	}

	r.aggregate(result, outcomes)
	return result, nil
}

// aggregate filters outcomes into cues, warning about and excluding
// failures while preserving input order.
func (r *Runner) aggregate(result *Result, outcomes []ocr.Outcome) {
	for _, outcome := range outcomes {
		if outcome.Failed() {
			r.logger.Warn("subtitle failed OCR",
				slog.Int(logging.FieldEventIndex, outcome.Index),
				slog.String("start", srt.FormatTimestamp(outcome.Start)),
				slog.Any("error", outcome.Err))
			result.Failed++
			continue
		}
		text := strings.TrimSpace(outcome.Text)
		if text == "" {
			r.logger.Warn("subtitle recognized as empty, dropping",
				slog.Int(logging.FieldEventIndex, outcome.Index),
				slog.String("start", srt.FormatTimestamp(outcome.Start)))
			result.Empty++
			continue
		}
		result.Cues = append(result.Cues, srt.Cue{
			Start: outcome.Start,
			End:   outcome.End,
			Text:  text,
		})
	}
}

// engineFactory assembles the per-worker engine constructor from
// configuration, wrapping it with the result cache when enabled. The
// returned cleanup releases the cache store.
func (r *Runner) engineFactory() (ocr.Factory, func(), error) {
	noop := func() {}
	if r.factory != nil {
		return r.factory, noop, nil
	}

	script, err := language.ParseScript(r.cfg.OCR.Script)
	if err != nil {
		return nil, noop, err
	}
	lang, err := language.Normalize(r.cfg.OCR.Language, script)
	if err != nil {
		return nil, noop, err
	}

	tessCfg := ocr.TesseractConfig{
		TessdataDir: r.cfg.OCR.TessdataDir,
		Language:    lang,
		Blacklist:   r.cfg.OCR.Blacklist,
		DPI:         r.cfg.OCR.DPI,
		Variables:   parseVariables(r.cfg.OCR.Variables),
	}
	factory := ocr.NewTesseractFactory(tessCfg)

	if !r.cfg.Cache.Enabled {
		return factory, noop, nil
	}
	store, err := ocrcache.Open(r.cfg.Cache.Path)
	if err != nil {
		return nil, noop, fmt.Errorf("open ocr cache: %w", err)
	}
	cleanup := func() {
		if err := store.Close(); err != nil {
			r.logger.Warn("closing ocr cache", slog.Any("error", err))
		}
	}
	wrapped := ocrcache.WrapFactory(factory, store, tessCfg.Fingerprint(),
		logging.WithComponent(r.logger, "ocrcache"))
	return wrapped, cleanup, nil
}

// parseVariables splits validated "key=value" strings. Order is preserved
// so later user overrides win.
func parseVariables(values []string) []ocr.Variable {
	variables := make([]ocr.Variable, 0, len(values))
	for _, value := range values {
		key, val, ok := strings.Cut(value, "=")
		if !ok {
			continue
		}
		variables = append(variables, ocr.Variable{Key: strings.TrimSpace(key), Value: val})
	}
	return variables
}

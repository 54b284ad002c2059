package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"vobscribe/internal/config"
	"vobscribe/internal/logging"
	"vobscribe/internal/pipeline"
	"vobscribe/internal/srt"
)

// errPartialFailure signals that output was written but some subtitles
// failed recognition.
var errPartialFailure = errors.New("some subtitles failed OCR")

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var (
		output    string
		threshold float64
		border    int
		dpi       int
		lang      string
		script    string
		tessdata  string
		blacklist string
		variables []string
		workers   int
		dumpDir   string
	)

	cmd := &cobra.Command{
		Use:   "convert FILE.idx",
		Short: "OCR a VobSub pair into an SRT file",
		Long: `Convert a VobSub subtitle pair (.idx plus .sub) into SubRip text.

Each subtitle bitmap is binarized against the global palette, split into
text lines, and recognized with Tesseract. Subtitles that fail recognition
are logged and excluded; the command then exits with status 1 but still
writes every successful subtitle.

Examples:
  vobscribe convert -l en -o movie.srt movie.idx
  vobscribe convert -l chi -s traditional movie.idx > movie.srt
  vobscribe convert -l en --dump-dir work/lines movie.idx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			flags := cmd.Flags()
			if flags.Changed("threshold") {
				cfg.OCR.Threshold = threshold
			}
			if flags.Changed("border") {
				cfg.OCR.Border = border
			}
			if flags.Changed("dpi") {
				cfg.OCR.DPI = dpi
			}
			if flags.Changed("lang") {
				cfg.OCR.Language = lang
			}
			if flags.Changed("script") {
				cfg.OCR.Script = script
			}
			if flags.Changed("tessdata") {
				cfg.OCR.TessdataDir = config.ExpandPath(tessdata)
			}
			if flags.Changed("blacklist") {
				cfg.OCR.Blacklist = blacklist
			}
			if flags.Changed("variable") {
				cfg.OCR.Variables = append(cfg.OCR.Variables, variables...)
			}
			if flags.Changed("workers") {
				cfg.OCR.Workers = workers
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := ctx.newLogger(cfg)
			if err != nil {
				return err
			}
			idxPath := args[0]
			logger = logger.With(slog.String(logging.FieldInput, idxPath))

			runner := pipeline.New(cfg, logger)
			result, err := runner.Run(idxPath, dumpDir)
			if err != nil {
				return err
			}
			logger.Info("conversion finished",
				slog.Int("decoded", result.Decoded),
				slog.Int("recognized", len(result.Cues)),
				slog.Int("blank", result.Blank),
				slog.Int("failed", result.Failed))

			if err := writeCues(output, result.Cues); err != nil {
				return err
			}
			if result.PartialFailure() {
				return errPartialFailure
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output SRT file (default stdout)")
	cmd.Flags().Float64VarP(&threshold, "threshold", "t", 0, "Binarization threshold in [0,1]")
	cmd.Flags().IntVarP(&border, "border", "b", 0, "White border in pixels around each line image")
	cmd.Flags().IntVar(&dpi, "dpi", 0, "Resolution hint for the OCR engine")
	cmd.Flags().StringVarP(&lang, "lang", "l", "", "Language to recognize")
	cmd.Flags().StringVarP(&script, "script", "s", "", "Character script: autodetect, simplified, or traditional")
	cmd.Flags().StringVar(&tessdata, "tessdata", "", "Tesseract model data directory")
	cmd.Flags().StringVar(&blacklist, "blacklist", "", "Characters the engine must never emit")
	cmd.Flags().StringArrayVar(&variables, "variable", nil, "Extra engine variable as key=value (repeatable)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Worker count (0 = all CPUs)")
	cmd.Flags().StringVar(&dumpDir, "dump-dir", "", "Also write rendered line images to this directory")

	return cmd
}

func writeCues(output string, cues []srt.Cue) error {
	if output == "" {
		if err := srt.Write(os.Stdout, cues); err != nil {
			return fmt.Errorf("write SRT to stdout: %w", err)
		}
		return nil
	}
	file, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("create SRT file %s: %w", output, err)
	}
	if err := srt.Write(file, cues); err != nil {
		file.Close()
		return fmt.Errorf("write SRT file %s: %w", output, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close SRT file %s: %w", output, err)
	}
	return nil
}

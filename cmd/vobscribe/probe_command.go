package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"vobscribe/internal/segment"
	"vobscribe/internal/srt"
	"vobscribe/internal/vobsub"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "probe FILE.idx",
		Short: "Decode and segment a VobSub pair without running OCR",
		Long: `Decode every subtitle in a VobSub pair and report its timing, geometry,
and how many text lines segmentation found. Useful for checking a file and
tuning the threshold before paying for a full OCR pass.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger, err := ctx.newLogger(cfg)
			if err != nil {
				return err
			}

			container, err := vobsub.Decode(args[0], logger)
			if err != nil {
				return fmt.Errorf("read subtitles from %s: %w", args[0], err)
			}

			lum := segment.LuminancePalette(container.Palette)
			opts := segment.Options{Threshold: cfg.OCR.Threshold, Border: cfg.OCR.Border}

			rows := make([][]string, 0, len(container.Events))
			for i := range container.Events {
				event := &container.Events[i]
				images := segment.Prepare(event, lum, opts)
				rows = append(rows, []string{
					strconv.Itoa(i),
					srt.FormatTimestamp(event.Start),
					srt.FormatTimestamp(event.End),
					fmt.Sprintf("%dx%d", event.Width, event.Height),
					boolLabel(event.Forced),
					strconv.Itoa(len(images)),
				})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Start", "End", "Size", "Forced", "Lines"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
			))
			if container.Skipped > 0 {
				fmt.Fprintf(out, "%d subtitle(s) could not be decoded\n", container.Skipped)
			}
			return nil
		},
	}
	return cmd
}

func boolLabel(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

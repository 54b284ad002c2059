package vobsub

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// defaultEventDuration bounds events whose SPU carries no stop-display
// command. Such events end at the next event's start, or after this long,
// whichever comes first.
const defaultEventDuration = 4 * time.Second

// Decode reads a VobSub pair given the path to its .idx file. The companion
// .sub file must sit next to it. Subtitles whose packets cannot be parsed
// are logged and counted in Container.Skipped rather than failing the call.
func Decode(idxPath string, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	idxFile, err := os.Open(idxPath)
	if err != nil {
		return nil, fmt.Errorf("open idx: %w", err)
	}
	defer idxFile.Close()

	index, err := ParseIndex(idxFile)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", idxPath, err)
	}

	subPath := companionSubPath(idxPath)
	subFile, err := os.Open(subPath)
	if err != nil {
		return nil, fmt.Errorf("open sub: %w", err)
	}
	defer subFile.Close()
	stat, err := subFile.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat sub: %w", err)
	}

	container := &Container{Palette: index.Palette}
	for i, entry := range index.Entries {
		event, err := decodeEntry(subFile, stat.Size(), entry)
		if err != nil {
			logger.Warn("skipping unreadable subtitle",
				slog.Int("subtitle", i),
				slog.Duration("start", entry.Start),
				slog.Any("error", err))
			container.Skipped++
			continue
		}
		container.Events = append(container.Events, *event)
	}

	fillMissingEndTimes(container.Events)
	return container, nil
}

// companionSubPath swaps the .idx extension for .sub, preserving case
// conventions of the rest of the path.
func companionSubPath(idxPath string) string {
	ext := filepath.Ext(idxPath)
	return strings.TrimSuffix(idxPath, ext) + ".sub"
}

func decodeEntry(file *os.File, size int64, entry IndexEntry) (*Event, error) {
	if entry.Filepos >= size {
		return nil, fmt.Errorf("filepos %#x beyond stream end", entry.Filepos)
	}
	spuData, err := readSPU(file, entry.Filepos, size)
	if err != nil {
		return nil, fmt.Errorf("assemble subpicture: %w", err)
	}
	sub, err := parseSPU(spuData)
	if err != nil {
		return nil, fmt.Errorf("parse subpicture: %w", err)
	}
	pixels, err := sub.decodePixels()
	if err != nil {
		return nil, fmt.Errorf("decode pixels: %w", err)
	}

	event := &Event{
		Start:        entry.Start,
		Forced:       sub.forced,
		Width:        sub.width,
		Height:       sub.height,
		Pixels:       pixels,
		LocalPalette: sub.palette,
		Alpha:        sub.alpha,
	}
	if sub.stopDelay > 0 {
		event.End = entry.Start + sub.stopDelay
	}
	return event, nil
}

// fillMissingEndTimes gives events without a stop-display command an end
// time bounded by the following event.
func fillMissingEndTimes(events []Event) {
	for i := range events {
		if events[i].End > events[i].Start {
			continue
		}
		end := events[i].Start + defaultEventDuration
		if i+1 < len(events) && events[i+1].Start < end {
			end = events[i+1].Start
		}
		events[i].End = end
	}
}

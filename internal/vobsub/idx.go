package vobsub

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Index is the parsed .idx side of a VobSub pair.
type Index struct {
	Palette Palette
	Width   int
	Height  int
	Entries []IndexEntry
}

// IndexEntry names one subtitle's start time and its byte offset into the
// companion .sub stream.
type IndexEntry struct {
	Start   time.Duration
	Filepos int64
}

// ParseIndex reads a VobSub .idx file.
func ParseIndex(r io.Reader) (*Index, error) {
	idx := &Index{}
	sawPalette := false

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(strings.ToLower(key))
		value = strings.TrimSpace(value)
		switch key {
		case "palette":
			palette, err := parsePaletteLine(value)
			if err != nil {
				return nil, fmt.Errorf("idx line %d: %w", lineNo, err)
			}
			idx.Palette = palette
			sawPalette = true
		case "size":
			w, h, err := parseSizeLine(value)
			if err != nil {
				return nil, fmt.Errorf("idx line %d: %w", lineNo, err)
			}
			idx.Width, idx.Height = w, h
		case "timestamp":
			// The value itself contains colons, so re-split the raw line.
			entry, err := parseTimestampLine(line)
			if err != nil {
				return nil, fmt.Errorf("idx line %d: %w", lineNo, err)
			}
			idx.Entries = append(idx.Entries, entry)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read idx: %w", err)
	}
	if !sawPalette {
		return nil, fmt.Errorf("idx file declares no palette")
	}
	return idx, nil
}

func parsePaletteLine(value string) (Palette, error) {
	var palette Palette
	parts := strings.Split(value, ",")
	if len(parts) != len(palette) {
		return palette, fmt.Errorf("palette has %d entries, want %d", len(parts), len(palette))
	}
	for i, part := range parts {
		part = strings.TrimSpace(part)
		rgb, err := strconv.ParseUint(part, 16, 32)
		if err != nil || len(part) != 6 {
			return palette, fmt.Errorf("palette entry %d: invalid color %q", i, part)
		}
		palette[i] = [3]uint8{uint8(rgb >> 16), uint8(rgb >> 8), uint8(rgb)}
	}
	return palette, nil
}

func parseSizeLine(value string) (int, int, error) {
	wText, hText, ok := strings.Cut(value, "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid size %q", value)
	}
	w, errW := strconv.Atoi(strings.TrimSpace(wText))
	h, errH := strconv.Atoi(strings.TrimSpace(hText))
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("invalid size %q", value)
	}
	return w, h, nil
}

// parseTimestampLine parses "timestamp: hh:mm:ss:mmm, filepos: hex".
func parseTimestampLine(line string) (IndexEntry, error) {
	var entry IndexEntry
	rest := strings.TrimSpace(line[len("timestamp:"):])
	stampText, posPart, ok := strings.Cut(rest, ",")
	if !ok {
		return entry, fmt.Errorf("invalid timestamp line %q", line)
	}
	start, err := parseIdxTimestamp(strings.TrimSpace(stampText))
	if err != nil {
		return entry, err
	}
	posPart = strings.TrimSpace(posPart)
	posText, found := strings.CutPrefix(posPart, "filepos:")
	if !found {
		return entry, fmt.Errorf("timestamp line missing filepos: %q", line)
	}
	pos, err := strconv.ParseInt(strings.TrimSpace(posText), 16, 64)
	if err != nil || pos < 0 {
		return entry, fmt.Errorf("invalid filepos %q", posText)
	}
	entry.Start = start
	entry.Filepos = pos
	return entry, nil
}

func parseIdxTimestamp(value string) (time.Duration, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 4 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(parts[0])
	minutes, errM := strconv.Atoi(parts[1])
	seconds, errS := strconv.Atoi(parts[2])
	millis, errMS := strconv.Atoi(parts[3])
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(millis)*time.Millisecond, nil
}

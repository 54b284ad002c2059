package srt

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Cue is one subtitle: a time span and its text.
type Cue struct {
	Start time.Duration
	End   time.Duration
	Text  string
}

// Write emits cues as a SubRip file: 1-based counter, "start --> end"
// line, text, blank separator. Cue text is trimmed of surrounding
// whitespace; interior newlines are preserved as subtitle line breaks.
func Write(w io.Writer, cues []Cue) error {
	for i, cue := range cues {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return fmt.Errorf("write srt: %w", err)
			}
		}
		block := fmt.Sprintf("%d\n%s --> %s\n%s\n",
			i+1,
			FormatTimestamp(cue.Start),
			FormatTimestamp(cue.End),
			strings.TrimSpace(cue.Text))
		if _, err := io.WriteString(w, block); err != nil {
			return fmt.Errorf("write srt: %w", err)
		}
	}
	return nil
}

// FormatTimestamp renders a duration as "hh:mm:ss,mmm" with millisecond
// precision.
func FormatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	millis := d.Milliseconds()
	hours := millis / 3_600_000
	minutes := millis / 60_000 % 60
	seconds := millis / 1000 % 60
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis%1000)
}

// ParseTimestamp reads an SRT timestamp back into a duration. Periods are
// accepted in place of the standard comma.
func ParseTimestamp(value string) (time.Duration, error) {
	value = strings.ReplaceAll(strings.TrimSpace(value), ".", ",")
	hmsText, millisText, ok := strings.Cut(value, ",")
	if !ok {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(hmsText, ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(millisText)
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds)*time.Second +
		time.Duration(millis)*time.Millisecond, nil
}

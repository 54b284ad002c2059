package vobsub

import "time"

// Palette is the 16-entry global sRGB palette declared by the .idx file.
// Local palettes resolve into it.
type Palette [16][3]uint8

// Event is one decoded subtitle: a timed, palette-indexed bitmap.
//
// Pixels holds one local-palette slot number (0-3) per pixel, row major,
// Width*Height entries. LocalPalette and Alpha are stored in the SPU's
// reversed presentation order: index 0 corresponds to the last slot of the
// stored control-command order. Pixels use natural slot numbering; only
// palette/alpha lookups need the reversal.
type Event struct {
	Start  time.Duration
	End    time.Duration
	Forced bool

	Width  int
	Height int
	Pixels []uint8

	LocalPalette [4]uint8
	Alpha        [4]uint8
}

// Container is a fully decoded VobSub file pair.
type Container struct {
	Palette Palette
	Events  []Event

	// Skipped counts subtitles the decoder reported and dropped because
	// their packets could not be parsed.
	Skipped int
}

// Package vobsub decodes VobSub subtitle containers (.idx/.sub pairs) into
// palette-indexed subtitle events.
//
// The .idx side is a plain-text index carrying the 16-entry global palette,
// the frame size, and one timestamp/file-offset pair per subtitle. The .sub
// side is an MPEG-2 program stream whose private-stream-1 PES packets carry
// DVD subpicture units (SPUs). Each SPU contributes a run-length encoded
// 2-bit pixel buffer plus a control sequence naming the event's local
// palette, per-slot alpha, display window, and display timing.
//
// The local palette and alpha arrays are kept in the SPU's stored order,
// which is the reverse of presentation order. Consumers index them through
// that fixed convention; see Event.
//
// Malformed individual subtitles are logged and skipped rather than failing
// the whole container.
package vobsub

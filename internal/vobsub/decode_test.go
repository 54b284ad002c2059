package vobsub

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTestPair(t *testing.T, idxContent string, subContent []byte) string {
	t.Helper()
	dir := t.TempDir()
	idxPath := filepath.Join(dir, "movie.idx")
	if err := os.WriteFile(idxPath, []byte(idxContent), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "movie.sub"), subContent, 0o644); err != nil {
		t.Fatal(err)
	}
	return idxPath
}

func TestDecode(t *testing.T) {
	idxContent := `size: 720x480
palette: 000000, 111111, 222222, 333333, 444444, 555555, 666666, 777777, 888888, 999999, aaaaaa, bbbbbb, cccccc, dddddd, eeeeee, ffffff
timestamp: 00:00:10:000, filepos: 000000000
`
	idxPath := writeTestPair(t, idxContent, wrapInProgramStream(buildTestSPU()))

	container, err := Decode(idxPath, nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if container.Skipped != 0 {
		t.Fatalf("skipped = %d, want 0", container.Skipped)
	}
	if len(container.Events) != 1 {
		t.Fatalf("events = %d, want 1", len(container.Events))
	}

	event := container.Events[0]
	if event.Start != 10*time.Second {
		t.Fatalf("start = %v", event.Start)
	}
	wantEnd := 10*time.Second + time.Duration(0x50)*1024*time.Second/90000
	if event.End != wantEnd {
		t.Fatalf("end = %v, want %v", event.End, wantEnd)
	}
	if !event.Forced {
		t.Fatal("forced flag lost")
	}
	if event.Width != 4 || event.Height != 2 {
		t.Fatalf("size = %dx%d", event.Width, event.Height)
	}
	if event.LocalPalette != [4]uint8{2, 1, 4, 3} {
		t.Fatalf("local palette = %v", event.LocalPalette)
	}
	if event.Alpha != [4]uint8{0xf, 0, 0, 0xf} {
		t.Fatalf("alpha = %v", event.Alpha)
	}
}

func TestDecodeSkipsUnreadableSubtitles(t *testing.T) {
	idxContent := `palette: 000000, 111111, 222222, 333333, 444444, 555555, 666666, 777777, 888888, 999999, aaaaaa, bbbbbb, cccccc, dddddd, eeeeee, ffffff
timestamp: 00:00:10:000, filepos: 000000000
timestamp: 00:00:20:000, filepos: 00ffffff00
`
	idxPath := writeTestPair(t, idxContent, wrapInProgramStream(buildTestSPU()))

	container, err := Decode(idxPath, nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(container.Events) != 1 {
		t.Fatalf("events = %d, want 1", len(container.Events))
	}
	if container.Skipped != 1 {
		t.Fatalf("skipped = %d, want 1", container.Skipped)
	}
}

func TestDecodeMissingSubFile(t *testing.T) {
	dir := t.TempDir()
	idxPath := filepath.Join(dir, "movie.idx")
	idxContent := `palette: 000000, 111111, 222222, 333333, 444444, 555555, 666666, 777777, 888888, 999999, aaaaaa, bbbbbb, cccccc, dddddd, eeeeee, ffffff
`
	if err := os.WriteFile(idxPath, []byte(idxContent), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Decode(idxPath, nil); err == nil {
		t.Fatal("expected error for missing .sub")
	}
}

func TestFillMissingEndTimes(t *testing.T) {
	events := []Event{
		{Start: 0},
		{Start: 2 * time.Second},
		{Start: 10 * time.Second},
	}
	fillMissingEndTimes(events)
	if events[0].End != 2*time.Second {
		t.Fatalf("event 0 end = %v, want capped at next start", events[0].End)
	}
	if events[1].End != 6*time.Second {
		t.Fatalf("event 1 end = %v, want start+4s", events[1].End)
	}
	if events[2].End != 14*time.Second {
		t.Fatalf("event 2 end = %v, want start+4s", events[2].End)
	}
}

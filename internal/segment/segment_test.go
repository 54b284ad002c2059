package segment

import (
	"bytes"
	"testing"
	"time"

	"vobscribe/internal/vobsub"
)

func twoLineEvent() vobsub.Event {
	rows := [][]uint8{
		uniformRow(12, 0),
		rowWithInk(12, 2, 9),
		rowWithInk(12, 2, 9),
		uniformRow(12, 0),
		rowWithInk(12, 4, 7),
		uniformRow(12, 0),
	}
	event := eventFromRows(rows)
	event.Start = 1 * time.Second
	event.End = 3 * time.Second
	return *event
}

func blankEvent() vobsub.Event {
	event := eventFromRows([][]uint8{
		uniformRow(12, 0),
		uniformRow(12, 0),
	})
	return *event
}

func TestPrepareSplitsLines(t *testing.T) {
	event := twoLineEvent()
	lum := LuminancePalette(grayscaleRamp())

	images := Prepare(&event, lum, Options{Threshold: 0.6, Border: 2})
	if len(images) != 2 {
		t.Fatalf("got %d images, want 2", len(images))
	}
	// First line spans columns [2,10) rows [1,3): 8x2 interior plus border.
	if images[0].Bounds().Dx() != 12 || images[0].Bounds().Dy() != 6 {
		t.Fatalf("first line size = %v, want 12x6", images[0].Bounds())
	}
	// Second line spans columns [4,8) row [4,5): 4x1 interior plus border.
	if images[1].Bounds().Dx() != 8 || images[1].Bounds().Dy() != 5 {
		t.Fatalf("second line size = %v, want 8x5", images[1].Bounds())
	}
}

func TestPrepareBlankEventYieldsNoImages(t *testing.T) {
	event := blankEvent()
	lum := LuminancePalette(grayscaleRamp())
	if images := Prepare(&event, lum, Options{Threshold: 0.6, Border: 2}); images != nil {
		t.Fatalf("blank event produced %d images", len(images))
	}
}

func TestPrepareThresholdOneYieldsNoRegions(t *testing.T) {
	event := twoLineEvent()
	lum := LuminancePalette(grayscaleRamp())
	if images := Prepare(&event, lum, Options{Threshold: 1, Border: 2}); images != nil {
		t.Fatalf("threshold 1 produced %d images", len(images))
	}
}

func TestPrepareZeroAlphaEventIsSkippedNotError(t *testing.T) {
	event := twoLineEvent()
	event.Alpha = [4]uint8{}
	lum := LuminancePalette(grayscaleRamp())
	if images := Prepare(&event, lum, Options{Threshold: 0.6}); images != nil {
		t.Fatalf("fully transparent event produced %d images", len(images))
	}
}

func TestPrepareAllKeepsOrderAndDropsBlanks(t *testing.T) {
	container := &vobsub.Container{
		Palette: grayscaleRamp(),
		Events:  []vobsub.Event{twoLineEvent(), blankEvent(), twoLineEvent()},
	}

	prepared := PrepareAll(container, Options{Threshold: 0.6, Border: 1}, 4)
	if len(prepared) != 2 {
		t.Fatalf("got %d prepared events, want 2", len(prepared))
	}
	if prepared[0].Index != 0 || prepared[1].Index != 2 {
		t.Fatalf("prepared indexes = %d,%d, want 0,2", prepared[0].Index, prepared[1].Index)
	}
	if prepared[0].Start != 1*time.Second || prepared[0].End != 3*time.Second {
		t.Fatalf("time span not carried: %+v", prepared[0])
	}
}

// The whole segmentation stage must be byte-identical across worker counts.
func TestPrepareAllDeterministicAcrossWorkerCounts(t *testing.T) {
	events := make([]vobsub.Event, 9)
	for i := range events {
		if i%3 == 1 {
			events[i] = blankEvent()
		} else {
			events[i] = twoLineEvent()
		}
	}

	var baseline []Prepared
	for _, workers := range []int{1, 2, 4, 8} {
		container := &vobsub.Container{Palette: grayscaleRamp(), Events: events}
		prepared := PrepareAll(container, Options{Threshold: 0.6, Border: 3}, workers)
		if baseline == nil {
			baseline = prepared
			continue
		}
		if len(prepared) != len(baseline) {
			t.Fatalf("workers=%d: %d prepared events, want %d", workers, len(prepared), len(baseline))
		}
		for i := range prepared {
			if prepared[i].Index != baseline[i].Index {
				t.Fatalf("workers=%d: index mismatch at %d", workers, i)
			}
			for j := range prepared[i].Images {
				if !bytes.Equal(prepared[i].Images[j].Pix, baseline[i].Images[j].Pix) {
					t.Fatalf("workers=%d: image %d/%d differs from single-threaded result", workers, i, j)
				}
			}
		}
	}
}

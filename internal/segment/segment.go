package segment

import (
	"image"
	"runtime"
	"sync"
	"time"

	"vobscribe/internal/vobsub"
)

// Options controls binarization and rendering.
type Options struct {
	// Threshold is the normalized luminance cutoff in [0,1]; slots must
	// strictly exceed it to count as ink.
	Threshold float64
	// Border is the white margin, in pixels, added around each line image.
	Border int
}

// Prepared is one event's segmentation output: its time span and one image
// per text line, top to bottom.
type Prepared struct {
	Index  int
	Start  time.Duration
	End    time.Duration
	Forced bool
	Images []*image.Gray
}

// Prepare segments a single event. A blank event (no visible ink) returns
// no images; that is a skip, not an error.
func Prepare(event *vobsub.Event, lum [16]float64, opts Options) []*image.Gray {
	visible := VisibilityMask(event)
	ink := BinarizeLocalPalette(lum, event.LocalPalette, visible, opts.Threshold)

	extents := InventoryScanlines(event, ink)
	groups := FindRowGroups(extents)
	if len(groups) == 0 {
		return nil
	}

	regions := ExtractRegions(extents, groups)
	images := make([]*image.Gray, len(regions))
	for i, region := range regions {
		images[i] = RenderRegion(event, ink, region, opts.Border)
	}
	return images
}

// PrepareAll segments every event, fanning the work across workers while
// keeping results in input order. Events that segment to zero images are
// dropped; each survivor remembers its original index.
func PrepareAll(container *vobsub.Container, opts Options, workers int) []Prepared {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	lum := LuminancePalette(container.Palette)

	slots := make([][]*image.Gray, len(container.Events))
	indexes := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				slots[i] = Prepare(&container.Events[i], lum, opts)
			}
		}()
	}
	for i := range container.Events {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	prepared := make([]Prepared, 0, len(container.Events))
	for i, images := range slots {
		if len(images) == 0 {
			continue
		}
		event := &container.Events[i]
		prepared = append(prepared, Prepared{
			Index:  i,
			Start:  event.Start,
			End:    event.End,
			Forced: event.Forced,
			Images: images,
		})
	}
	return prepared
}

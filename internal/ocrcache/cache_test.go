package ocrcache

import (
	"context"
	"errors"
	"image"
	"path/filepath"
	"testing"

	"vobscribe/internal/ocr"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "ocr.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreGetPut(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if _, hit, err := store.Get(ctx, "digest-a", "fp-1"); err != nil || hit {
		t.Fatalf("empty store: hit=%v err=%v", hit, err)
	}

	if err := store.Put(ctx, "digest-a", "fp-1", "HELLO"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	text, hit, err := store.Get(ctx, "digest-a", "fp-1")
	if err != nil || !hit || text != "HELLO" {
		t.Fatalf("Get = %q hit=%v err=%v", text, hit, err)
	}

	// Same digest under a different engine fingerprint is a distinct entry.
	if _, hit, err := store.Get(ctx, "digest-a", "fp-2"); err != nil || hit {
		t.Fatalf("fingerprint leak: hit=%v err=%v", hit, err)
	}

	if err := store.Put(ctx, "digest-a", "fp-1", "REPLACED"); err != nil {
		t.Fatalf("Put replace: %v", err)
	}
	text, _, err = store.Get(ctx, "digest-a", "fp-1")
	if err != nil || text != "REPLACED" {
		t.Fatalf("Get after replace = %q err=%v", text, err)
	}
}

func TestOpenRefusesSecondHolder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ocr.db")
	first, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if _, err := Open(path); !errors.Is(err, ErrLocked) {
		t.Fatalf("second Open error = %v, want ErrLocked", err)
	}

	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	second, err := Open(path)
	if err != nil {
		t.Fatalf("reopen after Close: %v", err)
	}
	second.Close()
}

func TestStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ocr.db")
	ctx := context.Background()

	store, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Put(ctx, "d", "f", "persisted"); err != nil {
		t.Fatal(err)
	}
	store.Close()

	store, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()
	text, hit, err := store.Get(ctx, "d", "f")
	if err != nil || !hit || text != "persisted" {
		t.Fatalf("Get after reopen = %q hit=%v err=%v", text, hit, err)
	}
}

func TestImageDigest(t *testing.T) {
	a := image.NewGray(image.Rect(0, 0, 4, 2))
	b := image.NewGray(image.Rect(0, 0, 4, 2))
	if ImageDigest(a) != ImageDigest(b) {
		t.Fatal("identical images must share a digest")
	}

	b.Pix[3] = 0xff
	if ImageDigest(a) == ImageDigest(b) {
		t.Fatal("pixel change must change the digest")
	}

	// 4x2 and 2x4 have identical pixel buffers but different geometry.
	c := image.NewGray(image.Rect(0, 0, 2, 4))
	if ImageDigest(a) == ImageDigest(c) {
		t.Fatal("geometry must be part of the digest")
	}
}

type countingEngine struct {
	calls int
	text  string
	err   error
}

func (e *countingEngine) Recognize(*image.Gray) (string, error) {
	e.calls++
	return e.text, e.err
}

func (e *countingEngine) Close() error { return nil }

func TestWrapFactoryCachesRecognitions(t *testing.T) {
	store := openTestStore(t)
	inner := &countingEngine{text: "CACHED LINE"}
	factory := WrapFactory(func() (ocr.Engine, error) { return inner, nil }, store, "lang=eng", nil)

	engine, err := factory()
	if err != nil {
		t.Fatalf("factory: %v", err)
	}
	defer engine.Close()

	img := image.NewGray(image.Rect(0, 0, 8, 4))
	img.Pix[0] = 1

	for i := 0; i < 3; i++ {
		text, err := engine.Recognize(img)
		if err != nil {
			t.Fatalf("Recognize %d: %v", i, err)
		}
		if text != "CACHED LINE" {
			t.Fatalf("Recognize %d = %q", i, text)
		}
	}
	if inner.calls != 1 {
		t.Fatalf("inner engine ran %d times, want 1", inner.calls)
	}
}

func TestWrapFactoryDistinguishesFingerprints(t *testing.T) {
	store := openTestStore(t)
	img := image.NewGray(image.Rect(0, 0, 8, 4))

	innerA := &countingEngine{text: "A"}
	engineA, err := WrapFactory(func() (ocr.Engine, error) { return innerA, nil }, store, "lang=eng", nil)()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := engineA.Recognize(img); err != nil {
		t.Fatal(err)
	}

	innerB := &countingEngine{text: "B"}
	engineB, err := WrapFactory(func() (ocr.Engine, error) { return innerB, nil }, store, "lang=deu", nil)()
	if err != nil {
		t.Fatal(err)
	}
	text, err := engineB.Recognize(img)
	if err != nil {
		t.Fatal(err)
	}
	if text != "B" || innerB.calls != 1 {
		t.Fatalf("text = %q, calls = %d; cached result crossed fingerprints", text, innerB.calls)
	}
}

func TestWrapFactoryPropagatesEngineFailure(t *testing.T) {
	store := openTestStore(t)
	cause := errors.New("engine broke")
	inner := &countingEngine{err: cause}
	engine, err := WrapFactory(func() (ocr.Engine, error) { return inner, nil }, store, "fp", nil)()
	if err != nil {
		t.Fatal(err)
	}

	img := image.NewGray(image.Rect(0, 0, 2, 2))
	if _, err := engine.Recognize(img); !errors.Is(err, cause) {
		t.Fatalf("error = %v, want engine failure", err)
	}

	// The failure must not be cached.
	if _, hit, _ := store.Get(context.Background(), ImageDigest(img), FingerprintDigest("fp")); hit {
		t.Fatal("failed recognition was cached")
	}
}

package ocrcache

import (
	"context"
	"image"
	"log/slog"

	"vobscribe/internal/logging"
	"vobscribe/internal/ocr"
)

// WrapFactory decorates an engine factory with cache lookups. Hits bypass
// the engine; misses are recognized and stored. Cache errors degrade to a
// warning and a plain recognition, never a failed event.
func WrapFactory(factory ocr.Factory, store *Store, fingerprint string, logger *slog.Logger) ocr.Factory {
	if logger == nil {
		logger = logging.NewNop()
	}
	key := FingerprintDigest(fingerprint)
	return func() (ocr.Engine, error) {
		inner, err := factory()
		if err != nil {
			return nil, err
		}
		return &cachingEngine{inner: inner, store: store, fingerprint: key, logger: logger}, nil
	}
}

type cachingEngine struct {
	inner       ocr.Engine
	store       *Store
	fingerprint string
	logger      *slog.Logger
}

func (e *cachingEngine) Recognize(img *image.Gray) (string, error) {
	ctx := context.Background()
	digest := ImageDigest(img)

	text, hit, err := e.store.Get(ctx, digest, e.fingerprint)
	if err != nil {
		e.logger.Warn("ocr cache lookup failed", slog.Any("error", err))
	} else if hit {
		return text, nil
	}

	text, err = e.inner.Recognize(img)
	if err != nil {
		return "", err
	}
	if err := e.store.Put(ctx, digest, e.fingerprint, text); err != nil {
		e.logger.Warn("ocr cache store failed", slog.Any("error", err))
	}
	return text, nil
}

func (e *cachingEngine) Close() error {
	return e.inner.Close()
}

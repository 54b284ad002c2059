package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strconv"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Variable is one engine-variable override, applied after the built-in
// settings so user values win on conflict.
type Variable struct {
	Key   string
	Value string
}

// TesseractConfig describes how each worker's engine is built.
type TesseractConfig struct {
	// TessdataDir is the model data directory; empty uses the engine's
	// compiled-in default.
	TessdataDir string
	// Language is the engine language code, possibly multiple joined
	// with "+" (e.g. "chi_sim+chi_tra").
	Language string
	// Blacklist lists characters the engine must never emit.
	Blacklist string
	// DPI is the resolution hint set on every image.
	DPI int
	// Variables are applied in order after the built-in settings.
	Variables []Variable
}

// Fingerprint returns a stable description of every setting that affects
// recognition output. Used as a cache partition key.
func (c TesseractConfig) Fingerprint() string {
	var b strings.Builder
	fmt.Fprintf(&b, "tessdata=%s;lang=%s;blacklist=%s;dpi=%d", c.TessdataDir, c.Language, c.Blacklist, c.DPI)
	for _, v := range c.Variables {
		fmt.Fprintf(&b, ";%s=%s", v.Key, v.Value)
	}
	return b.String()
}

// NewTesseractFactory returns a Factory producing single-line Tesseract
// engines. Each engine disables online learning so results cannot depend on
// the order a shared-lifetime instance sees images.
func NewTesseractFactory(cfg TesseractConfig) Factory {
	return func() (Engine, error) {
		client := gosseract.NewClient()
		if err := configureClient(client, cfg); err != nil {
			client.Close()
			return nil, err
		}
		return &tesseractEngine{client: client, dpi: cfg.DPI}, nil
	}
}

func configureClient(client *gosseract.Client, cfg TesseractConfig) error {
	if cfg.TessdataDir != "" {
		if err := client.SetTessdataPrefix(cfg.TessdataDir); err != nil {
			return fmt.Errorf("set tessdata directory %s: %w", cfg.TessdataDir, err)
		}
	}
	languages := strings.Split(cfg.Language, "+")
	if err := client.SetLanguage(languages...); err != nil {
		return fmt.Errorf("set language %s: %w", cfg.Language, err)
	}
	// Every input is one already-cropped text line; telling the engine so
	// measurably improves accuracy over full-page analysis.
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_LINE); err != nil {
		return fmt.Errorf("set page segmentation mode: %w", err)
	}
	if err := client.SetVariable("classify_enable_learning", "0"); err != nil {
		return fmt.Errorf("disable adaptive learning: %w", err)
	}
	if cfg.Blacklist != "" {
		if err := client.SetBlacklist(cfg.Blacklist); err != nil {
			return fmt.Errorf("set character blacklist: %w", err)
		}
	}
	for _, v := range cfg.Variables {
		if err := client.SetVariable(gosseract.SettableVariable(v.Key), v.Value); err != nil {
			return fmt.Errorf("set variable %s: %w", v.Key, err)
		}
	}
	return nil
}

type tesseractEngine struct {
	client *gosseract.Client
	dpi    int
}

func (e *tesseractEngine) Recognize(img *image.Gray) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode line image: %w", err)
	}
	if err := e.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("load line image: %w", err)
	}
	if err := e.client.SetVariable("user_defined_dpi", strconv.Itoa(e.dpi)); err != nil {
		return "", fmt.Errorf("set resolution hint: %w", err)
	}
	text, err := e.client.Text()
	if err != nil {
		return "", fmt.Errorf("extract text: %w", err)
	}
	return text, nil
}

func (e *tesseractEngine) Close() error {
	return e.client.Close()
}

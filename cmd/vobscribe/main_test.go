package main

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

// writeVobSubFixture builds a minimal .idx/.sub pair with one 4x2 forced
// subtitle at 10s.
func writeVobSubFixture(t *testing.T) string {
	t.Helper()

	spu := []byte{
		0x00, 0x00, // total size, patched below
		0x00, 0x06, // control offset
		0xb8, // top field: run 2 slot 3, run 2 slot 0
		0x4d, // bottom field: run 1 slot 0, run 3 slot 1
		0x00, 0x00, // date 0
		0x00, 0x1f, // next sequence at 31
		0x00,             // force display
		0x01,             // start display
		0x03, 0x21, 0x43, // palette
		0x04, 0xf0, 0x0f, // alpha
		0x05, 0x00, 0x00, 0x03, 0x00, 0x00, 0x01, // window (0,0)-(3,1)
		0x06, 0x00, 0x04, 0x00, 0x05, // rle offsets
		0xff,
		0x00, 0x50, // date 0x50
		0x00, 0x1f, // next = self, terminates the chain
		0x02, // stop display
		0xff,
	}
	binary.BigEndian.PutUint16(spu[0:2], uint16(len(spu)))

	var sub bytes.Buffer
	sub.Write([]byte{0x00, 0x00, 0x01, 0xba})
	sub.Write(make([]byte, 10))
	sub.Write([]byte{0x00, 0x00, 0x01, 0xbd})
	body := append([]byte{0x80, 0x00, 0x00, 0x20}, spu...)
	var size [2]byte
	binary.BigEndian.PutUint16(size[:], uint16(len(body)))
	sub.Write(size[:])
	sub.Write(body)

	idx := `size: 720x480
palette: 000000, 111111, 222222, 333333, 444444, 555555, 666666, 777777, 888888, 999999, aaaaaa, bbbbbb, cccccc, dddddd, eeeeee, ffffff
timestamp: 00:00:10:000, filepos: 000000000
`

	dir := t.TempDir()
	idxPath := filepath.Join(dir, "movie.idx")
	if err := os.WriteFile(idxPath, []byte(idx), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "movie.sub"), sub.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return idxPath
}

func TestCLIConfigInit(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")

	out, err := runCLI(t, "--config", target, "config", "init")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, target) {
		t.Fatalf("output does not name the file: %q", out)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	if _, err := runCLI(t, "--config", target, "config", "init"); err == nil {
		t.Fatal("config init overwrote an existing file")
	}
}

func TestCLIConfigShow(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(target, []byte("[ocr]\nlanguage = \"deu\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "--config", target, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "# "+target) {
		t.Fatalf("missing path header: %q", out)
	}
	if !strings.Contains(out, "language = 'deu'") && !strings.Contains(out, `language = "deu"`) {
		t.Fatalf("override not reflected: %q", out)
	}
	if !strings.Contains(out, "[cache]") {
		t.Fatalf("defaults not rendered: %q", out)
	}
}

func TestCLIProbe(t *testing.T) {
	idxPath := writeVobSubFixture(t)
	cfgPath := filepath.Join(t.TempDir(), "config.toml")

	out, err := runCLI(t, "--config", cfgPath, "probe", idxPath)
	if err != nil {
		t.Fatalf("probe: %v", err)
	}
	for _, want := range []string{"Start", "00:00:10,000", "00:00:10,910", "4x2", "yes"} {
		if !strings.Contains(out, want) {
			t.Fatalf("probe output missing %q:\n%s", want, out)
		}
	}
}

func TestCLIConvertRejectsInvalidFlags(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.toml")

	if _, err := runCLI(t, "--config", cfgPath, "convert", "--threshold", "2", "missing.idx"); err == nil {
		t.Fatal("accepted out-of-range threshold")
	}
	if _, err := runCLI(t, "--config", cfgPath, "convert"); err == nil {
		t.Fatal("accepted missing input argument")
	}
}

func TestCLIConvertMissingInput(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.toml")

	_, err := runCLI(t, "--config", cfgPath, "convert", filepath.Join(t.TempDir(), "nope.idx"))
	if err == nil {
		t.Fatal("expected error for missing input file")
	}
}

package cmd

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AnyUserName/qoienc/internal/manifest"
	"github.com/AnyUserName/qoienc/internal/qoi"
	refqoi "github.com/xfmoulet/qoi"
)

// run executes the root command with fresh flag values.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	encodeOut, encodeZstd, encodeLevel, encodeMaxWidth, encodeMaxHeight = "", false, 0, 0, 0
	buildOutDir, buildProfile, buildWorkers, buildFormats = "./qoienc_out", "default", 0, nil
	buildLevel, buildMaxWidth, buildMaxHeight = 0, 0, 0
	verbose = false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := Execute(context.Background())
	return out.String(), err
}

func writeFixture(t *testing.T, path string, w, h int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{R: uint8(x * 3), G: uint8(y * 3), B: 64, A: 255}
			if x > w/2 {
				c = color.NRGBA{R: 10, G: 20, B: 30, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestEncodeCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "dice.png")
	writeFixture(t, in, 30, 20)

	out, err := run(t, "encode", in)
	if err != nil {
		t.Fatalf("encode: %v\n%s", err, out)
	}
	if !strings.Contains(out, "run:") || !strings.Contains(out, "time elapsed:") {
		t.Errorf("unexpected output: %q", out)
	}

	data, err := os.ReadFile(filepath.Join(dir, "dice.qoi"))
	if err != nil {
		t.Fatalf("output missing: %v", err)
	}
	img, err := refqoi.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 30 || img.Bounds().Dy() != 20 {
		t.Errorf("bounds: got %v", img.Bounds())
	}
}

func TestEncodeCommand_ZstdOut(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	outPath := filepath.Join(dir, "custom.bin")
	writeFixture(t, in, 8, 8)

	if out, err := run(t, "encode", in, "--zstd", "-o", outPath); err != nil {
		t.Fatalf("encode: %v\n%s", err, out)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	// zstd frame magic
	if !bytes.HasPrefix(data, []byte{0x28, 0xb5, 0x2f, 0xfd}) {
		t.Errorf("not a zstd frame: % x", data[:4])
	}
}

func TestEncodeCommand_Missing(t *testing.T) {
	if _, err := run(t, "encode", filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Fatal("expected error")
	}
}

func TestBuildValidateStats(t *testing.T) {
	in := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")
	writeFixture(t, filepath.Join(in, "a.png"), 24, 12)
	writeFixture(t, filepath.Join(in, "nested", "b.png"), 9, 7)

	out, err := run(t, "build", in, "-o", outDir, "-p", "archive", "-w", "2")
	if err != nil {
		t.Fatalf("build: %v\n%s", err, out)
	}
	if !strings.Contains(out, "build complete") {
		t.Errorf("missing report: %q", out)
	}

	out, err = run(t, "validate", outDir)
	if err != nil {
		t.Fatalf("validate: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Manifest is valid") {
		t.Errorf("unexpected validate output: %q", out)
	}

	out, err = run(t, "stats", filepath.Join(outDir, manifest.FileName))
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	for _, want := range []string{"Total assets:     2", "qoi.zst", "Chunk breakdown"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats output lacks %q:\n%s", want, out)
		}
	}
}

func TestValidate_DetectsTampering(t *testing.T) {
	in := t.TempDir()
	outDir := t.TempDir()
	writeFixture(t, filepath.Join(in, "a.png"), 16, 16)

	if out, err := run(t, "build", in, "-o", outDir); err != nil {
		t.Fatalf("build: %v\n%s", err, out)
	}
	m, err := manifest.ReadJSON(filepath.Join(outDir, manifest.FileName))
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(outDir, m.Assets["a"].Outputs[0].Path)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	data[qoi.HeaderSize] ^= 0xff
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "validate", outDir)
	if err == nil {
		t.Fatal("expected validation failure")
	}
	if !strings.Contains(out, "hash mismatch") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestValidateManifest_Consistency(t *testing.T) {
	m := manifest.New("x")
	m.Version = 7
	m.Assets["a"] = manifest.Asset{
		Original: manifest.OriginalInfo{Width: 2, Height: 2},
		Width:    2,
		Height:   2,
		Chunks:   qoi.Stats{RGB: 1},
	}
	m.Stats.TotalAssets = 3

	errs := validateManifest(m, t.TempDir())
	joined := strings.Join(errs, "\n")
	for _, want := range []string{"unsupported manifest version", "no outputs", "cover 1 pixels", "total_assets mismatch"} {
		if !strings.Contains(joined, want) {
			t.Errorf("missing %q in:\n%s", want, joined)
		}
	}
}

func TestFormatChunkCounts(t *testing.T) {
	got := formatChunkCounts(qoi.Stats{Runs: 2, RunPixels: 70, Diff: 3, Index: 4, RGB: 5, Luma: 6})
	if want := "run:70 diff:3 index:4 rgb:5 luma:6"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

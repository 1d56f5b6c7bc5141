package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/AnyUserName/qoienc/internal/qoi"
)

func sampleManifest() *Manifest {
	m := New("test-profile")
	m.BuildInfo = &BuildInfo{Workers: 4, ElapsedMS: 120}
	m.Assets["test/image"] = Asset{
		Original: OriginalInfo{
			Width: 800, Height: 600,
			Format: "png", Size: 100000, HasAlpha: false,
		},
		Width:  800,
		Height: 600,
		Chunks: qoi.Stats{Runs: 10, RunPixels: 400, Index: 5, Diff: 20, Luma: 30, RGB: 40},
		Outputs: []Output{
			{Format: "qoi", Size: 5000, Hash: "abcd1234abcd1234", Path: "test/image.abcd1234.qoi"},
			{Format: "qoi.zst", Size: 3000, Hash: "0123456789abcdef", Path: "test/image.01234567.qoi.zst"},
		},
	}
	m.Assets["other"] = Asset{
		Original: OriginalInfo{Width: 2, Height: 2, Format: "bmp", Size: 70},
		Width:    2,
		Height:   2,
		Chunks:   qoi.Stats{RGB: 1, Runs: 1, RunPixels: 3},
		Outputs: []Output{
			{Format: "qoi", Size: 27, Hash: "ffffffffffffffff", Path: "other.ffffffff.qoi"},
		},
	}
	return m
}

func TestManifestRoundtrip(t *testing.T) {
	m := sampleManifest()

	// Write to temp file.
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	if err := WriteJSON(m, path); err != nil {
		t.Fatalf("write: %v", err)
	}

	// Read back and parse.
	m2, err := ReadJSON(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	// Verify fields.
	if m2.Version != SupportedManifestVersion {
		t.Errorf("version: got %d, want %d", m2.Version, SupportedManifestVersion)
	}
	if m2.Profile != "test-profile" {
		t.Errorf("profile: got %q", m2.Profile)
	}
	if m2.BuildInfo == nil {
		t.Fatal("build_info missing")
	}
	if m2.BuildInfo.Workers != 4 || m2.BuildInfo.ElapsedMS != 120 {
		t.Errorf("build_info: got %+v", m2.BuildInfo)
	}

	a, ok := m2.Assets["test/image"]
	if !ok {
		t.Fatal("asset test/image missing")
	}
	if a.Chunks.Luma != 30 || a.Chunks.RunPixels != 400 {
		t.Errorf("chunks: got %+v", a.Chunks)
	}
	if len(a.Outputs) != 2 {
		t.Fatalf("outputs: got %d", len(a.Outputs))
	}
	if a.Outputs[1].Format != "qoi.zst" {
		t.Errorf("output format: got %q", a.Outputs[1].Format)
	}
}

func TestComputeStats(t *testing.T) {
	m := sampleManifest()
	m.ComputeStats()

	s := m.Stats
	if s.TotalAssets != 2 {
		t.Errorf("total_assets: got %d", s.TotalAssets)
	}
	if s.TotalOutputs != 3 {
		t.Errorf("total_outputs: got %d", s.TotalOutputs)
	}
	if s.TotalInputBytes != 100070 {
		t.Errorf("total_input_bytes: got %d", s.TotalInputBytes)
	}
	if s.TotalOutputBytes != 8027 {
		t.Errorf("total_output_bytes: got %d", s.TotalOutputBytes)
	}
	if s.TotalPixels != 800*600+4 {
		t.Errorf("total_pixels: got %d", s.TotalPixels)
	}
	want := qoi.Stats{Runs: 11, RunPixels: 403, Index: 5, Diff: 20, Luma: 30, RGB: 41}
	if s.Chunks != want {
		t.Errorf("chunks: got %+v, want %+v", s.Chunks, want)
	}
}

func TestManifestVersion(t *testing.T) {
	m := New("v-test")
	if m.Version != SupportedManifestVersion {
		t.Errorf("new manifest version: got %d, want %d", m.Version, SupportedManifestVersion)
	}
}

func TestManifestIgnoresUnknownFields(t *testing.T) {
	// Simulate a future manifest with extra fields.
	raw := `{
		"version": 1,
		"generated_at": "2026-01-01T00:00:00Z",
		"profile": "test",
		"base_path": "./",
		"future_field": "should be ignored",
		"build_info": { "workers": 8, "elapsed_ms": 5, "new_flag": true },
		"stats": { "total_input_bytes": 0, "total_output_bytes": 0, "total_assets": 0, "total_outputs": 0, "new_stat": 42 }
	}`
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := ReadJSON(path)
	if err != nil {
		t.Fatalf("unmarshal with unknown fields: %v", err)
	}
	if m.Version != 1 {
		t.Errorf("version: got %d", m.Version)
	}
	if m.BuildInfo == nil || m.BuildInfo.Workers != 8 {
		t.Error("build_info not parsed correctly")
	}
	if m.Assets == nil {
		t.Error("missing assets map not initialised")
	}
}

func TestReadJSON_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadJSON(path); err == nil {
		t.Fatal("expected parse error")
	}
}

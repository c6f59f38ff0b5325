package config

import (
	"os"
	"path/filepath"
	"testing"
)

type sample struct {
	Levels []float64 `yaml:"levels" json:"levels"`
	Name   string    `yaml:"name" json:"name"`
}

func TestDecode_FormatDetection(t *testing.T) {
	tests := []struct {
		name string
		data string
		ext  string
	}{
		{"yaml by extension", "name: sweep\nlevels: [0.3, 0.6]\n", ".yaml"},
		{"yml alias", "name: sweep\nlevels: [0.3, 0.6]\n", ".yml"},
		{"json by extension", `{"name":"sweep","levels":[0.3,0.6]}`, ".json"},
		{"json by content", `{"name":"sweep","levels":[0.3,0.6]}`, ""},
		{"yaml by content", "name: sweep\nlevels: [0.3, 0.6]\n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s sample
			if err := Decode([]byte(tt.data), tt.ext, &s); err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if s.Name != "sweep" || len(s.Levels) != 2 || s.Levels[1] != 0.6 {
				t.Fatalf("decoded: %+v", s)
			}
		})
	}
}

func TestDecode_Malformed(t *testing.T) {
	var s sample
	if err := Decode([]byte("{not json"), ".json", &s); err == nil {
		t.Fatal("malformed json accepted")
	}
	if err := Decode([]byte(":\n:\n"), ".yaml", &s); err == nil {
		t.Fatal("malformed yaml accepted")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "design.yaml")
	if err := os.WriteFile(path, []byte("name: from-file\nlevels: [1.1]\n"), 0644); err != nil {
		t.Fatal(err)
	}
	var s sample
	if err := LoadFile(path, &s); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if s.Name != "from-file" {
		t.Fatalf("decoded: %+v", s)
	}
	if err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), &s); err == nil {
		t.Fatal("missing file accepted")
	}
}

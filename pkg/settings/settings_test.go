package settings

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func write(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.ini"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if s != Default() {
		t.Errorf("Load() = %+v, want defaults", s)
	}
}

func TestDefaults(t *testing.T) {
	s := Default()
	if s.ToolRadius != 1.5 || s.CutDepth != 0 || s.MaxPassDepth != 3 || s.SafeZ != 5 {
		t.Errorf("machining defaults = %+v", s)
	}
	if s.FeedRate != 600 || s.PlungeRate != 200 {
		t.Errorf("feed defaults = %+v", s)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoadPartialFile(t *testing.T) {
	path := write(t, "[cncbox]\nboxdirectory = /tmp/boxes\ntoolradius = 3.175\n")
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := Default()
	want.BoxDirectory = "/tmp/boxes"
	want.ToolRadius = 3.175
	if s != want {
		t.Errorf("Load() = %+v, want %+v", s, want)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad number", "[cncbox]\nfeedrate = fast\n", "parse"},
		{"negative radius", "[cncbox]\ntoolradius = -1\n", "toolradius"},
		{"zero safe z", "[cncbox]\nsafez = 0\n", "safez"},
		{"broken file", "[cncbox\n", "load"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Load(write(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
			if s != Default() {
				t.Errorf("failed Load() returned %+v, want defaults", s)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)
	s := Default()
	s.BoxDirectory = "/home/me/boxes"
	s.GCodeDirectory = "/home/me/gcode"
	s.ToolRadius = 3.175
	s.MaxPassDepth = 0
	if err := s.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[cncbox]") {
		t.Errorf("saved file has no section header:\n%s", data)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != s {
		t.Errorf("round trip = %+v, want %+v", got, s)
	}
}

func TestDepth(t *testing.T) {
	s := Default()
	if got := s.Depth(6); got != 6 {
		t.Errorf("Depth(6) with no cut depth = %v, want the wall", got)
	}
	s.CutDepth = 6.5
	if got := s.Depth(6); got != 6.5 {
		t.Errorf("Depth(6) = %v, want 6.5", got)
	}
}

func TestConfigs(t *testing.T) {
	s := Default()
	s.SafeZ = 10
	if c := s.Toolpath(); c.SafeZ != 10 || c.MaxPassDepth != 3 {
		t.Errorf("Toolpath() = %+v", c)
	}
	c := s.GCode("lid")
	if c.SafeZ != 10 || c.FeedRate != 600 || c.PlungeRate != 200 || c.Comment != "lid" {
		t.Errorf("GCode() = %+v", c)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("GCode() config invalid: %v", err)
	}
}

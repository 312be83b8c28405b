package paths

import (
	"path/filepath"
	"testing"
)

func TestVideoLibraryDirIsUnderDataRoot(t *testing.T) {
	root := DataRoot()
	lib := VideoLibraryDir()
	want := filepath.Join(root, "videolib")
	if lib != want {
		t.Errorf("VideoLibraryDir() = %q, want %q", lib, want)
	}
}

func TestConfigFileIncludesAppName(t *testing.T) {
	path, err := ConfigFile("config.toml")
	if err != nil {
		t.Fatalf("ConfigFile: %v", err)
	}
	if filepath.Base(path) != "config.toml" {
		t.Errorf("ConfigFile base = %q, want config.toml", filepath.Base(path))
	}
	if filepath.Base(filepath.Dir(path)) != appName {
		t.Errorf("ConfigFile parent dir = %q, want %q", filepath.Base(filepath.Dir(path)), appName)
	}
}

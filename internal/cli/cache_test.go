package cli

import (
	"path/filepath"
	"testing"

	"github.com/matzehuels/panelboard/pkg/config"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/custom-cache")

	tests := []struct {
		name string
		dir  string
		want string
	}{
		{"xdg default", "", filepath.Join("/tmp/custom-cache", appName)},
		{"configured", "/var/cache/pb", "/var/cache/pb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Cache.Dir = tt.dir
			got, err := cacheDir(cfg)
			if err != nil {
				t.Fatalf("cacheDir() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("cacheDir() = %q, want %q", got, tt.want)
			}
		})
	}
}

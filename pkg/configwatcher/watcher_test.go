package configwatcher_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"quizpath_backend/internal/config"
	"quizpath_backend/pkg/configwatcher"
)

func TestWatchConfig_ReloadsOnWrite(t *testing.T) {
	configwatcher.DebounceInterval = 50 * time.Millisecond

	dir := t.TempDir()
	uploads := filepath.Join(t.TempDir(), "uploads")
	write := func(mode string) {
		body := "server:\n  mode: " + mode + "\nstorage:\n  type: local\n  local_path: " + uploads + "\n"
		if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("debug")

	reloaded := make(chan *config.Config, 4)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- configwatcher.WatchConfig(ctx, dir, func(cfg *config.Config) { reloaded <- cfg })
	}()

	// 等待 watcher 注册完成
	time.Sleep(200 * time.Millisecond)
	write("release")

	select {
	case cfg := <-reloaded:
		if cfg.Server.Mode != "release" {
			t.Errorf("reloaded mode = %q, want release", cfg.Server.Mode)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("WatchConfig() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("WatchConfig did not stop after cancel")
	}
}

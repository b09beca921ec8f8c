package gateway

import (
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kellegous/php-from-rs/log"
)

func TestRunAuxListenBusy(t *testing.T) {
	script := filepath.Join(t.TempDir(), "worker.sh")
	if err := os.WriteFile(script, []byte("#!/bin/sh\nsleep 30\n"), 0755); err != nil {
		t.Fatalf("write script failed: %v", err)
	}

	busy, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("cannot bind aux address: %v", err)
	}
	defer busy.Close()

	logger, err := log.NewLogger(&log.Options{
		AccessLogPath: "stdout",
		ErrorLogPath:  "stderr",
		ErrorLogLevel: "error",
	})
	if err != nil {
		t.Fatalf("cannot init logger: %v", err)
	}

	s, err := NewServer(&Options{
		Address:    "127.0.0.1:0",
		AuxAddress: busy.Addr().String(),
		Fpm: FpmOptions{
			Address:    "127.0.0.1:9000",
			Bin:        script,
			ScriptPath: "/var/www/pub/index.php",
			ConfigPath: "/dev/null",
		},
	}, logger)
	if err != nil {
		t.Fatalf("cannot init server: %v", err)
	}
	defer s.Stop()

	done := make(chan error, 1)
	go func() {
		done <- s.Run()
	}()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected an error for an already-bound aux address")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after the aux listen failure")
	}
}

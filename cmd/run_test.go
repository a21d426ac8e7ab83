package cmd

import (
	"context"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"thelife/repository"
)

func TestPurgeOnHangup(t *testing.T) {
	cache := repository.NewCatalogCache(8)
	ctx, cancel := context.WithCancel(context.Background())
	hangup := make(chan os.Signal)

	done := make(chan struct{})
	go func() {
		purgeOnHangup(ctx, cache, hangup)
		close(done)
	}()

	hangup <- syscall.SIGHUP
	hangup <- syscall.SIGHUP
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("purge loop did not stop after cancel")
	}
	assert.Equal(t, 0, cache.Len())
}

package view

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcherDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(path, []byte("package main\n"), 0o644))

	w, err := NewWatcher(path, 50*time.Millisecond)
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	changes, err := w.Start()
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf("package main // %d\n", i)), 0o644))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-changes:
	case <-time.After(2 * time.Second):
		t.Fatal("expected a change notification")
	}

	select {
	case <-changes:
		t.Fatal("writes should coalesce into one notification")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.go")
	other := filepath.Join(dir, "other.go")
	require.NoError(t, os.WriteFile(path, []byte("package main\n"), 0o644))
	require.NoError(t, os.WriteFile(other, []byte("package main\n"), 0o644))

	w, err := NewWatcher(path, 30*time.Millisecond)
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	changes, err := w.Start()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(other, []byte("package other\n"), 0o644))

	select {
	case <-changes:
		t.Fatal("unexpected notification for another file")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWaitForChangeTranslatesSignal(t *testing.T) {
	require.Nil(t, waitForChange(nil))

	ch := make(chan struct{}, 1)
	ch <- struct{}{}
	require.Equal(t, fileChangedMsg{}, waitForChange(ch)())

	close(ch)
	require.Nil(t, waitForChange(ch)())
}

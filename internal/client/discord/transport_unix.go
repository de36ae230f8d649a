//go:build !windows

package discord

import (
	"context"
	"net"
	"os"
	"path/filepath"
)

var ipcDirEnvs = []string{"XDG_RUNTIME_DIR", "TMPDIR", "TMP", "TEMP"}

func ipcPaths() []string {
	dir := ipcDir(os.Getenv)
	paths := make([]string, 0, ipcSlots)
	for slot := range ipcSlots {
		paths = append(paths, filepath.Join(dir, slotName(slot)))
	}
	return paths
}

func ipcDir(getenv func(string) string) string {
	for _, key := range ipcDirEnvs {
		if dir := getenv(key); dir != "" {
			return dir
		}
	}
	return "/tmp"
}

func dialIPC(ctx context.Context, path string) (net.Conn, error) {
	var dialer net.Dialer
	return dialer.DialContext(ctx, "unix", path)
}

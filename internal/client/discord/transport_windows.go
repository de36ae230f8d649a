//go:build windows

package discord

import (
	"context"
	"net"

	"github.com/Microsoft/go-winio"
)

const pipePrefix = `\\.\pipe\`

func ipcPaths() []string {
	paths := make([]string, 0, ipcSlots)
	for slot := range ipcSlots {
		paths = append(paths, pipePrefix+slotName(slot))
	}
	return paths
}

func dialIPC(ctx context.Context, path string) (net.Conn, error) {
	return winio.DialPipeContext(ctx, path)
}

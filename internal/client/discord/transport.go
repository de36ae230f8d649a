package discord

import (
	"context"
	"errors"
	"fmt"
	"net"
)

const (
	ipcName  = "discord-ipc-%d"
	ipcSlots = 10
)

// DialDefault connects to the first IPC endpoint that accepts, trying slots 0 through 9.
func DialDefault(ctx context.Context) (net.Conn, error) {
	return dialFirst(ctx, ipcPaths(), dialIPC)
}

func dialFirst(ctx context.Context, paths []string, dial func(context.Context, string) (net.Conn, error)) (net.Conn, error) {
	errs := make([]error, 0, len(paths))
	for _, path := range paths {
		conn, err := dial(ctx, path)
		if err == nil {
			return conn, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		errs = append(errs, err)
	}
	return nil, fmt.Errorf("%w: %w", ErrNoIPCSocket, errors.Join(errs...))
}

func slotName(slot int) string {
	return fmt.Sprintf(ipcName, slot)
}

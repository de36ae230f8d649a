package discord

import (
	"context"
	"encoding/json"
	"net"
)

// Session defines the presence operations the rest of the application relies on.
// It allows consumers to depend on the behavior rather than the IPC implementation.
type Session interface {
	// Login connects to the local chat client and completes the handshake.
	Login(ctx context.Context) (User, error)

	// SetActivity replaces the rich presence shown for the process identified by pid.
	SetActivity(ctx context.Context, pid int, activity Activity) error

	// Close releases the IPC connection.
	Close() error
}

// DialFunc opens the raw IPC connection to the chat client.
type DialFunc func(ctx context.Context) (net.Conn, error)

// ClientConfig defines the configuration for the IPC client.
type ClientConfig struct {
	ClientID string   // Application id registered with the chat service
	Dial     DialFunc // Connection factory; DialDefault when nil
}

// User is the account the chat client is logged in with.
type User struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Discriminator string `json:"discriminator"`
	GlobalName    string `json:"global_name,omitempty"`
}

// Tag renders the user as "username#discriminator".
// Accounts without a legacy discriminator ("" or "0") render as the bare username.
func (u User) Tag() string {
	if u.Discriminator == "" || u.Discriminator == "0" {
		return u.Username
	}
	return u.Username + "#" + u.Discriminator
}

// Timestamps bound the elapsed/remaining timer shown under the activity, in epoch milliseconds.
type Timestamps struct {
	Start int64 `json:"start,omitempty"`
	End   int64 `json:"end,omitempty"`
}

// Button is a clickable link attached to the activity.
type Button struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Activity is the rich presence payload. Empty strings are omitted from the wire.
type Activity struct {
	Details    string      `json:"details,omitempty"`
	State      string      `json:"state,omitempty"`
	Timestamps *Timestamps `json:"timestamps,omitempty"`
	Buttons    []Button    `json:"buttons,omitempty"`
	Instance   bool        `json:"instance"`
}

const (
	protocolVersion = 1

	cmdDispatch    = "DISPATCH"
	cmdSetActivity = "SET_ACTIVITY"

	evtReady = "READY"
	evtError = "ERROR"
)

type handshake struct {
	V        int    `json:"v"`
	ClientID string `json:"client_id"`
}

type command struct {
	Cmd   string `json:"cmd"`
	Args  any    `json:"args"`
	Nonce string `json:"nonce"`
}

type setActivityArgs struct {
	PID      int       `json:"pid"`
	Activity *Activity `json:"activity"`
}

type response struct {
	Cmd   string          `json:"cmd"`
	Evt   string          `json:"evt"`
	Nonce string          `json:"nonce"`
	Data  json.RawMessage `json:"data"`
}

type readyData struct {
	V    int  `json:"v"`
	User User `json:"user"`
}

type errorData struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

package discord

import "errors"

var (
	// ErrEmptyClientID is returned when the client id is empty during client construction.
	ErrEmptyClientID = errors.New("clientID cannot be empty")

	// ErrNilLogger is returned when the logger is nil during client construction.
	ErrNilLogger = errors.New("logger cannot be nil")

	// ErrNoIPCSocket is returned when none of the IPC endpoints accepted a connection.
	ErrNoIPCSocket = errors.New("could not connect: no IPC socket accepted the connection")

	// ErrConnectFailed is returned when the IPC connection cannot be opened.
	ErrConnectFailed = errors.New("connect failed")

	// ErrAlreadyConnected is returned by Login on a client that is already logged in.
	ErrAlreadyConnected = errors.New("already connected")

	// ErrNotConnected is returned when a command is issued before Login or after Close.
	ErrNotConnected = errors.New("not connected")

	// ErrHandshakeFailed is returned when the handshake does not end in a READY dispatch.
	ErrHandshakeFailed = errors.New("handshake failed")

	// ErrConnectionClosed is returned when the chat client closes the connection.
	ErrConnectionClosed = errors.New("connection closed by peer")

	// ErrCommandFailed is returned when the chat client answers a command with an ERROR event.
	ErrCommandFailed = errors.New("command failed")

	// ErrUnexpectedOpcode is returned when a frame carries an opcode the client does not handle.
	ErrUnexpectedOpcode = errors.New("unexpected opcode")

	// ErrFrameTooLarge is returned when a frame header announces a payload above the size limit.
	ErrFrameTooLarge = errors.New("frame too large")
)

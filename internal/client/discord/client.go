package discord

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/josimar-silva/thermocord/internal/infrastructure/logger"
	"github.com/josimar-silva/thermocord/internal/infrastructure/metrics"
)

// closeTimeout bounds the best-effort close frame written on shutdown.
const closeTimeout = time.Second

const (
	operationAuthenticate = "authenticate"
	operationSetActivity  = "set_activity"
)

const (
	logFieldClientID = "client_id"
	logFieldUser     = "user"
	logFieldNonce    = "nonce"
)

// Client speaks the local rich presence IPC protocol over a single connection.
// Calls are serialised; a request is always followed by reading its response.
type Client struct {
	clientID string
	dial     DialFunc
	logger   *logger.Logger
	metrics  *metrics.Registry

	mu   sync.Mutex
	conn net.Conn
	user User
}

// NewClient creates a new IPC client with the given configuration.
//
// Possible errors:
//   - ErrEmptyClientID if config.ClientID is empty
//   - ErrNilLogger if logger is nil
func NewClient(config ClientConfig, log *logger.Logger) (*Client, error) {
	if config.ClientID == "" {
		return nil, ErrEmptyClientID
	}
	if log == nil {
		return nil, ErrNilLogger
	}

	dial := config.Dial
	if dial == nil {
		dial = DialDefault
	}

	return &Client{
		clientID: config.ClientID,
		dial:     dial,
		logger:   log,
	}, nil
}

// SetMetrics sets the metrics registry for recording IPC call metrics.
// Should be called before the client is actively used.
func (c *Client) SetMetrics(reg *metrics.Registry) {
	c.metrics = reg
}

// User returns the account captured by the last successful Login.
func (c *Client) User() User {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.user
}

// Login opens the IPC connection and performs the handshake.
// Returns the logged-in user announced by the READY dispatch.
//
// Possible errors:
//   - ErrAlreadyConnected if Login already succeeded
//   - ErrConnectFailed (wrapped) if no connection could be opened
//   - ErrHandshakeFailed (wrapped) if the handshake is rejected or times out
//   - ErrConnectionClosed (wrapped) if the peer closes the connection during the handshake
func (c *Client) Login(ctx context.Context) (User, error) {
	startTime := time.Now()
	user, err := c.login(ctx)
	c.record(operationAuthenticate, err, startTime)
	return user, err
}

func (c *Client) login(ctx context.Context) (User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		return User{}, ErrAlreadyConnected
	}

	conn, err := c.dial(ctx)
	if err != nil {
		return User{}, fmt.Errorf("%w: %w", ErrConnectFailed, err)
	}

	user, err := c.handshake(ctx, conn)
	if err != nil {
		_ = conn.Close()
		return User{}, err
	}

	c.conn = conn
	c.user = user
	c.logger.DebugContext(ctx, "IPC handshake completed",
		logFieldClientID, c.clientID,
		logFieldUser, user.Tag(),
	)
	return user, nil
}

func (c *Client) handshake(ctx context.Context, conn net.Conn) (User, error) {
	release := bindContext(ctx, conn)
	defer release()

	payload, err := json.Marshal(handshake{V: protocolVersion, ClientID: c.clientID})
	if err != nil {
		return User{}, fmt.Errorf("%w: %w", ErrHandshakeFailed, err)
	}
	if err := writeFrame(conn, OpHandshake, payload); err != nil {
		return User{}, fmt.Errorf("%w: %w", ErrHandshakeFailed, contextErr(ctx, err))
	}

	resp, err := c.readResponse(conn, "")
	if err != nil {
		if errors.Is(err, ErrConnectionClosed) {
			return User{}, err
		}
		return User{}, fmt.Errorf("%w: %w", ErrHandshakeFailed, contextErr(ctx, err))
	}
	if resp.Cmd != cmdDispatch || resp.Evt != evtReady {
		return User{}, fmt.Errorf("%w: unexpected reply %s/%s", ErrHandshakeFailed, resp.Cmd, resp.Evt)
	}

	var ready readyData
	if err := json.Unmarshal(resp.Data, &ready); err != nil {
		return User{}, fmt.Errorf("%w: malformed READY payload: %w", ErrHandshakeFailed, err)
	}
	return ready.User, nil
}

// SetActivity sends a SET_ACTIVITY command for pid and waits for its acknowledgement.
//
// Possible errors:
//   - ErrNotConnected if Login has not succeeded or the connection was dropped
//   - ErrCommandFailed (wrapped) if the chat client rejects the activity
//   - ErrConnectionClosed (wrapped) if the peer closes the connection
func (c *Client) SetActivity(ctx context.Context, pid int, activity Activity) error {
	startTime := time.Now()
	err := c.setActivity(ctx, pid, activity)
	c.record(operationSetActivity, err, startTime)
	return err
}

func (c *Client) setActivity(ctx context.Context, pid int, activity Activity) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return ErrNotConnected
	}

	nonce := uuid.NewString()
	payload, err := json.Marshal(command{
		Cmd:   cmdSetActivity,
		Args:  setActivityArgs{PID: pid, Activity: &activity},
		Nonce: nonce,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", cmdSetActivity, err)
	}

	c.logger.DebugContext(ctx, "sending SET_ACTIVITY", logFieldNonce, nonce)

	release := bindContext(ctx, c.conn)
	defer release()

	if err := writeFrame(c.conn, OpFrame, payload); err != nil {
		c.drop()
		return contextErr(ctx, err)
	}

	if _, err := c.readResponse(c.conn, nonce); err != nil {
		if !errors.Is(err, ErrCommandFailed) {
			c.drop()
		}
		return contextErr(ctx, err)
	}
	return nil
}

// Close sends a close frame and releases the connection. Safe to call more than once.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}

	_ = c.conn.SetWriteDeadline(time.Now().Add(closeTimeout))
	_ = writeFrame(c.conn, OpClose, []byte("{}"))

	err := c.conn.Close()
	c.conn = nil
	if err != nil {
		return fmt.Errorf("failed to close IPC connection: %w", err)
	}
	return nil
}

// readResponse reads frames until a command reply arrives, answering pings on the way.
// When nonce is set, replies to other requests are discarded.
func (c *Client) readResponse(conn net.Conn, nonce string) (response, error) {
	for {
		op, payload, err := readFrame(conn)
		if err != nil {
			return response{}, err
		}

		switch op {
		case OpPing:
			if err := writeFrame(conn, OpPong, payload); err != nil {
				return response{}, err
			}
		case OpPong:
		case OpClose:
			var closed errorData
			_ = json.Unmarshal(payload, &closed)
			return response{}, fmt.Errorf("%w: %d %s", ErrConnectionClosed, closed.Code, closed.Message)
		case OpFrame:
			var resp response
			if err := json.Unmarshal(payload, &resp); err != nil {
				return response{}, fmt.Errorf("malformed frame: %w", err)
			}
			if nonce != "" && resp.Nonce != nonce {
				c.logger.Debug("discarding reply for another request", logFieldNonce, resp.Nonce)
				continue
			}
			if resp.Evt == evtError {
				var cmdErr errorData
				_ = json.Unmarshal(resp.Data, &cmdErr)
				return resp, fmt.Errorf("%w: %d %s", ErrCommandFailed, cmdErr.Code, cmdErr.Message)
			}
			return resp, nil
		default:
			return response{}, fmt.Errorf("%w: %d", ErrUnexpectedOpcode, op)
		}
	}
}

// drop discards a connection that can no longer be trusted. Caller holds c.mu.
func (c *Client) drop() {
	if c.conn == nil {
		return
	}
	_ = c.conn.Close()
	c.conn = nil
	c.logger.Warn("IPC connection dropped")
}

func (c *Client) record(operation string, err error, startTime time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.Presence.RecordCall(operation, err == nil, time.Since(startTime).Seconds())
}

// bindContext interrupts blocking reads and writes on conn once ctx is done.
// The returned func must be called once the exchange is over.
func bindContext(ctx context.Context, conn net.Conn) func() {
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Unix(1, 0))
	})
	return func() {
		stop()
		_ = conn.SetDeadline(time.Time{})
	}
}

func contextErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %w", ctxErr, err)
	}
	return err
}

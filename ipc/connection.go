package ipc

import (
	"errors"
	"log/slog"
	"net"
	"sync"
)

// Handler processes a received envelope. Return nil to send no reply.
type Handler func(env Envelope) (*Envelope, error)

// Connection represents a single controller client. Replies and pushed
// events share the conn, so every write goes through Send or Reply.
type Connection struct {
	conn     net.Conn
	handlers map[string]Handler
	wmu      sync.Mutex
	Client   string
}

func NewConnection(conn net.Conn, handlers map[string]Handler) *Connection {
	if handlers == nil {
		handlers = make(map[string]Handler)
	}
	return &Connection{
		conn:     conn,
		handlers: handlers,
	}
}

// RegisterHandler must be called before ReadLoop starts.
func (c *Connection) RegisterHandler(msgType string, handler Handler) {
	c.handlers[msgType] = handler
}

// Send pushes an unsolicited message.
func (c *Connection) Send(msgType string, data any) error {
	env, err := NewEnvelope(msgType, data)
	if err != nil {
		return err
	}
	return c.write(env)
}

func (c *Connection) write(env Envelope) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	return WriteEnvelope(c.conn, env)
}

func (c *Connection) Close() error { return c.conn.Close() }

// ReadLoop blocks until the connection closes or errors. It owns the conn lifetime
// so callers don't need to track cleanup.
func (c *Connection) ReadLoop() {
	defer c.conn.Close()

	for {
		env, err := ReadEnvelope(c.conn)
		if err != nil {
			slog.Info("connection read ended", "client", c.Client, "error", err)
			return
		}

		handler, ok := c.handlers[env.Type]
		if !ok {
			slog.Warn("no handler for message type", "type", env.Type)
			if err := c.replyError(env, Errorf(CodeBadRequest, "unknown message type %q", env.Type)); err != nil {
				return
			}
			continue
		}

		resp, err := handler(env)
		if err != nil {
			slog.Debug("handler error", "type", env.Type, "error", err)
			if err := c.replyError(env, err); err != nil {
				return
			}
			continue
		}

		if resp != nil {
			resp.ID = env.ID
			if err := c.write(*resp); err != nil {
				slog.Error("failed to send response", "type", resp.Type, "error", err)
				return
			}
			slog.Debug("sent response", "type", resp.Type, "client", c.Client)
		}
	}
}

func (c *Connection) replyError(req Envelope, err error) error {
	var ie *Error
	if !errors.As(err, &ie) {
		ie = &Error{Code: CodeInternal, Message: err.Error()}
	}
	resp, merr := NewEnvelope(TypeError, ie)
	if merr != nil {
		return merr
	}
	resp.ID = req.ID
	if werr := c.write(resp); werr != nil {
		slog.Error("failed to send error", "type", req.Type, "error", werr)
		return werr
	}
	return nil
}

package ipc

import (
	"log/slog"
	"net"
	"sync"
)

// Handler processes a received envelope. Return nil to send no reply.
type Handler func(env Envelope) (*Envelope, error)

// Connection represents a single front end talking to the daemon.
// The gang is known after the hello handshake.
type Connection struct {
	conn     net.Conn
	handlers map[string]Handler
	writeMu  sync.Mutex
	Gang     string
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

func (c *Connection) RegisterHandler(msgType string, handler Handler) {
	c.handlers[msgType] = handler
}

func (c *Connection) Send(msgType string, data any) error {
	env, err := NewEnvelope(msgType, data)
	if err != nil {
		return err
	}
	return c.write(env)
}

func (c *Connection) write(env Envelope) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return WriteEnvelope(c.conn, env)
}

// ReadLoop blocks until the connection closes or errors. It owns the conn lifetime
// so callers don't need to track cleanup. A handler error or an unknown message
// type is answered with an error envelope carrying the request id.
func (c *Connection) ReadLoop() {
	defer c.conn.Close()

	for {
		env, err := ReadEnvelope(c.conn)
		if err != nil {
			slog.Info("connection read ended", "gang", c.Gang, "error", err)
			return
		}

		var resp *Envelope
		handler, ok := c.handlers[env.Type]
		if !ok {
			slog.Warn("no handler for message type", "type", env.Type, "id", env.ID)
			resp = c.errorReply(env, "unknown message type "+env.Type)
		} else if resp, err = handler(env); err != nil {
			slog.Error("handler error", "type", env.Type, "id", env.ID, "error", err)
			resp = c.errorReply(env, err.Error())
		}

		if resp != nil {
			if err := c.write(*resp); err != nil {
				slog.Error("failed to send response", "type", resp.Type, "error", err)
				return
			}
			slog.Debug("sent response", "type", resp.Type, "id", resp.ID, "gang", c.Gang)
		}
	}
}

func (c *Connection) errorReply(req Envelope, msg string) *Envelope {
	env, err := Reply(req, TypeError, ErrorMessage{Request: req.Type, Error: msg})
	if err != nil {
		slog.Error("failed to build error reply", "error", err)
		return nil
	}
	return &env
}

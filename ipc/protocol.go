package ipc

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// MaxFrame bounds a single envelope payload.
const MaxFrame = 1 << 20

// Envelope is the wire format shared with campaign front ends.
// Data is kept as RawMessage so handlers can defer deserialization to the concrete type.
// ID correlates a reply with its request.
type Envelope struct {
	Type string          `json:"type"`
	ID   string          `json:"id,omitempty"`
	Data json.RawMessage `json:"data"`
}

// NewEnvelope builds an envelope with a fresh request id.
func NewEnvelope(msgType string, data any) (Envelope, error) {
	env, err := encode(msgType, data)
	if err != nil {
		return Envelope{}, err
	}
	env.ID = uuid.NewString()
	return env, nil
}

// Reply builds an envelope answering req; it carries the request's id.
func Reply(req Envelope, msgType string, data any) (Envelope, error) {
	env, err := encode(msgType, data)
	if err != nil {
		return Envelope{}, err
	}
	env.ID = req.ID
	return env, nil
}

func encode(msgType string, data any) (Envelope, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal data: %w", err)
	}
	return Envelope{Type: msgType, Data: raw}, nil
}

// ReadEnvelope reads a single length-prefixed JSON envelope.
// The prefix is a 4-byte little-endian payload length.
func ReadEnvelope(r io.Reader) (Envelope, error) {
	var length uint32
	if err := binary.Read(r, binary.LittleEndian, &length); err != nil {
		return Envelope{}, fmt.Errorf("read length: %w", err)
	}

	// Guard against corrupted frames or malicious payloads.
	if length == 0 || length > MaxFrame {
		return Envelope{}, fmt.Errorf("invalid message length: %d", length)
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return Envelope{}, fmt.Errorf("read payload: %w", err)
	}

	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return Envelope{}, fmt.Errorf("unmarshal envelope: %w", err)
	}

	return env, nil
}

func WriteEnvelope(w io.Writer, env Envelope) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}
	if len(payload) > MaxFrame {
		return fmt.Errorf("envelope too large: %d bytes", len(payload))
	}

	if err := binary.Write(w, binary.LittleEndian, uint32(len(payload))); err != nil {
		return fmt.Errorf("write length: %w", err)
	}

	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("write payload: %w", err)
	}

	return nil
}

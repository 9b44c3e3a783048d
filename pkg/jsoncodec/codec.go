// Package jsoncodec lets connect handlers and clients exchange plain Go structs as JSON.
package jsoncodec

import (
	"encoding/json"
	"fmt"

	"connectrpc.com/connect"
)

// Name replaces connect's protojson codec for the "json" content subtype.
const Name = "json"

type Codec struct{}

var _ connect.Codec = Codec{}

func (Codec) Name() string {
	return Name
}

func (Codec) Marshal(msg any) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %T: %w", msg, err)
	}
	return data, nil
}

func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("failed to unmarshal %T: %w", msg, err)
	}
	return nil
}

// WithJSON is the connect option every roomez handler and client is built with.
func WithJSON() connect.Option {
	return connect.WithCodec(Codec{})
}

package service

import (
	"encoding/json"
	"fmt"
)

// JSONCodec serializes plain Go request and response structs for Connect.
// It replaces Connect's default "json" codec, which only handles protobuf messages.
type JSONCodec struct{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (JSONCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("malformed request body: %w", err)
	}
	return nil
}

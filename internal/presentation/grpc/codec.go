package grpc

import (
	"encoding/json"
	"fmt"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

// jsonCodec carries the hand-written messages in proto.go as JSON. It is
// registered under the "json" content subtype, so protobuf services on the
// same server (health, reflection) keep the default codec.
type jsonCodec struct{}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("json codec marshal: %w", err)
	}
	return b, nil
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("json codec unmarshal: %w", err)
	}
	return nil
}

func (jsonCodec) Name() string { return "json" }

// ClientCodecOption makes a client connection call with the JSON codec.
func ClientCodecOption() grpclib.DialOption {
	return grpclib.WithDefaultCallOptions(grpclib.ForceCodec(jsonCodec{}))
}

// Package calibrationv1 is the wire contract of the calibration gRPC service.
//
// Messages are plain Go structs carried by a JSON codec registered under the
// "json" content subtype. Optional numbers are pointers; nil marks an absent
// reading value or a metric that could not be computed.
package calibrationv1

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

// CodecName is the gRPC content subtype of calibration messages.
const CodecName = "json"

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", v, err)
	}
	return data, nil
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal %T: %w", v, err)
	}
	return nil
}

func (jsonCodec) Name() string {
	return CodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// CallOption selects the calibration codec for one call.
func CallOption() grpc.CallOption {
	return grpc.CallContentSubtype(CodecName)
}

package kafka

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/linkedin/goavro/v2"
)

// Serializer turns a JSON document into the payload bytes written to Kafka.
type Serializer interface {
	Serialize(document []byte) ([]byte, error)
}

// JSONSerializer checks that the document is JSON and compacts it.
type JSONSerializer struct{}

// Serialize implements Serializer.
func (JSONSerializer) Serialize(document []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, document); err != nil {
		return nil, fmt.Errorf("JSONSerializer: invalid document: %w", err)
	}
	return buf.Bytes(), nil
}

// AvroSerializer encodes JSON documents as Avro binary for one schema.
type AvroSerializer struct {
	codec *goavro.Codec
}

// NewAvroSerializer compiles an Avro schema.
func NewAvroSerializer(schema string) (*AvroSerializer, error) {
	codec, err := goavro.NewCodec(schema)
	if err != nil {
		return nil, fmt.Errorf("AvroSerializer: invalid schema: %w", err)
	}
	return &AvroSerializer{codec: codec}, nil
}

// Serialize implements Serializer. The document uses Avro's JSON encoding,
// so union values are written as {"type": value}.
func (a *AvroSerializer) Serialize(document []byte) ([]byte, error) {
	native, _, err := a.codec.NativeFromTextual(document)
	if err != nil {
		return nil, fmt.Errorf("AvroSerializer: document does not match schema: %w", err)
	}
	out, err := a.codec.BinaryFromNative(nil, native)
	if err != nil {
		return nil, fmt.Errorf("AvroSerializer: failed to encode: %w", err)
	}
	return out, nil
}

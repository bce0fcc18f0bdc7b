package vectorstore

import (
	"encoding/json"
	"fmt"

	"github.com/qdrant/go-client/qdrant"
)

// Record is the minimal shape Upsert/Retrieve operate over: a point id,
// a dense vector, a sparse vector, and an arbitrary JSON-serialisable
// payload (the typed record itself).
type Record struct {
	ID      string
	Dense   []float32
	Sparse  SparseVector
	Payload map[string]any
}

// SparseVector mirrors embed.SparseVector without importing the
// embedding package, keeping vectorstore's dependency surface narrow.
type SparseVector struct {
	Indices []uint32
	Values  []float32
}

// PayloadFromJSON marshals an arbitrary record into a payload map via its
// JSON tags — the same "serialise the typed record, store it as the
// payload" approach as Tangerg-lynx's buildPointStruct, generalised from
// a single document-content field to the engine's full typed payloads.
func PayloadFromJSON(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("vectorstore: marshalling payload: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("vectorstore: unmarshalling payload: %w", err)
	}
	return m, nil
}

// DecodeInto unmarshals a Qdrant payload map back into a typed record.
func DecodeInto(payload map[string]*qdrant.Value, v any) error {
	plain := convertPayloadToMap(payload)
	b, err := json.Marshal(plain)
	if err != nil {
		return fmt.Errorf("vectorstore: re-marshalling payload: %w", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("vectorstore: decoding payload: %w", err)
	}
	return nil
}

// convertPayloadToMap mirrors Tangerg-lynx's convertPayloadToMetadata /
// convertQdrantValue / convertQdrantStruct / convertQdrantList chain,
// turning the wire qdrant.Value representation back into plain Go values.
func convertPayloadToMap(payload map[string]*qdrant.Value) map[string]any {
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		out[k] = convertValue(v)
	}
	return out
}

func convertValue(v *qdrant.Value) any {
	if v == nil {
		return nil
	}
	switch kind := v.Kind.(type) {
	case *qdrant.Value_DoubleValue:
		return kind.DoubleValue
	case *qdrant.Value_IntegerValue:
		return kind.IntegerValue
	case *qdrant.Value_StringValue:
		return kind.StringValue
	case *qdrant.Value_BoolValue:
		return kind.BoolValue
	case *qdrant.Value_NullValue:
		return nil
	case *qdrant.Value_StructValue:
		return convertStruct(kind.StructValue)
	case *qdrant.Value_ListValue:
		return convertList(kind.ListValue)
	default:
		return nil
	}
}

func convertStruct(s *qdrant.Struct) map[string]any {
	if s == nil {
		return nil
	}
	out := make(map[string]any, len(s.Fields))
	for k, v := range s.Fields {
		out[k] = convertValue(v)
	}
	return out
}

func convertList(l *qdrant.ListValue) []any {
	if l == nil {
		return nil
	}
	out := make([]any, len(l.Values))
	for i, v := range l.Values {
		out[i] = convertValue(v)
	}
	return out
}

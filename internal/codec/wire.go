package codec

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/quantum-lichen/LMC-Scanner/internal/provider"
)

// Messages travel as google.protobuf.Struct:
//
//	request:  {"topic": string, "text": string}
//	response: {"segments": [{"text": string, "coherence": number}, ...]}

// EncodeRequest builds a Segment request message.
func EncodeRequest(topic, text string) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(map[string]any{
		"topic": topic,
		"text":  text,
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return s, nil
}

// DecodeRequest reads topic and text from a request message.
func DecodeRequest(s *structpb.Struct) (topic, text string) {
	fields := s.GetFields()
	return fields["topic"].GetStringValue(), fields["text"].GetStringValue()
}

// EncodeSegments builds a Segment response message.
func EncodeSegments(segments []provider.Segment) (*structpb.Struct, error) {
	items := make([]any, len(segments))
	for i, seg := range segments {
		items[i] = map[string]any{
			"text":      seg.Text,
			"coherence": seg.Coherence,
		}
	}
	s, err := structpb.NewStruct(map[string]any{"segments": items})
	if err != nil {
		return nil, fmt.Errorf("encode segments: %w", err)
	}
	return s, nil
}

// DecodeSegments reads segments from a response message.
func DecodeSegments(s *structpb.Struct) ([]provider.Segment, error) {
	v, ok := s.GetFields()["segments"]
	if !ok {
		return nil, fmt.Errorf("decode segments: missing segments field")
	}
	list := v.GetListValue()
	if list == nil {
		return nil, fmt.Errorf("decode segments: segments is not a list")
	}
	out := make([]provider.Segment, 0, len(list.GetValues()))
	for i, item := range list.GetValues() {
		obj := item.GetStructValue()
		if obj == nil {
			return nil, fmt.Errorf("decode segments: item %d is not an object", i)
		}
		f := obj.GetFields()
		text, ok := f["text"].GetKind().(*structpb.Value_StringValue)
		if !ok {
			return nil, fmt.Errorf("decode segments: item %d has no text", i)
		}
		coh, ok := f["coherence"].GetKind().(*structpb.Value_NumberValue)
		if !ok {
			return nil, fmt.Errorf("decode segments: item %d has no coherence", i)
		}
		out = append(out, provider.Segment{Text: text.StringValue, Coherence: coh.NumberValue})
	}
	return out, nil
}

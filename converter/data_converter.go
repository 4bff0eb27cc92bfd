// The MIT License
//
// Copyright (c) 2020 Temporal Technologies Inc.  All rights reserved.
//
// Copyright (c) 2020 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package converter

import (
	"fmt"

	commonpb "go.temporal.io/api/common/v1"
)

// DataConverter serializes/deserializes Go values to/from wire Payloads. Workflow and
// activity inputs, outputs, memos, search attribute values, and heartbeat details all
// go through a DataConverter at the worker/client boundary.
type DataConverter interface {
	ToPayload(value interface{}) (*commonpb.Payload, error)
	ToPayloads(value ...interface{}) (*commonpb.Payloads, error)
	FromPayload(payload *commonpb.Payload, valuePtr interface{}) error
	FromPayloads(payloads *commonpb.Payloads, valuePtrs ...interface{}) error
	ToString(payload *commonpb.Payload) string
	ToStrings(payloads *commonpb.Payloads) []string
}

// CompositeDataConverter dispatches ToPayload/FromPayload across an ordered list of
// PayloadConverters. Encoding happens by first-acceptance: the first sub-converter whose
// ToPayload call returns a non-nil payload wins. Decoding dispatches strictly by the
// "encoding" metadata tag written at encode time.
type CompositeDataConverter struct {
	converters       []PayloadConverter
	convertersByName map[string]PayloadConverter
}

// NewCompositeDataConverter creates a DataConverter backed by the given sub-converters,
// tried in the order given.
func NewCompositeDataConverter(converters ...PayloadConverter) *CompositeDataConverter {
	dc := &CompositeDataConverter{
		converters:       converters,
		convertersByName: make(map[string]PayloadConverter, len(converters)),
	}
	for _, c := range converters {
		dc.convertersByName[c.Encoding()] = c
	}
	return dc
}

// defaultDataConverter is the converter used when no DataConverter is configured: nil,
// then raw bytes, then protobuf-as-JSON, then JSON for everything else. This exact order
// matches the encoding table in the payload conversion specification.
var defaultDataConverter = NewCompositeDataConverter(
	NewNilPayloadConverter(),
	NewByteSlicePayloadConverter(),
	NewProtoJSONPayloadConverter(),
	NewJSONPayloadConverter(),
)

// GetDefaultDataConverter returns the package-wide default DataConverter.
func GetDefaultDataConverter() DataConverter {
	return defaultDataConverter
}

// withValuer is implemented by DataConverters that carry request-scoped state (e.g. a
// tracing prefix, a per-call codec override) derived from a context value.
type withValuer interface {
	WithValue(v interface{}) DataConverter
}

// WithValue returns a DataConverter derived from dc for the given value, if dc supports
// it; otherwise it returns dc unchanged.
func WithValue(dc DataConverter, v interface{}) DataConverter {
	if wv, ok := dc.(withValuer); ok {
		return wv.WithValue(v)
	}
	return dc
}

func (dc *CompositeDataConverter) ToPayload(value interface{}) (*commonpb.Payload, error) {
	for _, converter := range dc.converters {
		payload, err := converter.ToPayload(value)
		if err != nil {
			return nil, err
		}
		if payload != nil {
			return payload, nil
		}
	}
	return nil, fmt.Errorf("value of type %T: %w", value, ErrUnableToEncode)
}

func (dc *CompositeDataConverter) ToPayloads(values ...interface{}) (*commonpb.Payloads, error) {
	if len(values) == 0 {
		return nil, nil
	}
	result := &commonpb.Payloads{Payloads: make([]*commonpb.Payload, len(values))}
	for i, value := range values {
		payload, err := dc.ToPayload(value)
		if err != nil {
			return nil, fmt.Errorf("values[%d]: %w", i, err)
		}
		result.Payloads[i] = payload
	}
	return result, nil
}

func (dc *CompositeDataConverter) FromPayload(payload *commonpb.Payload, valuePtr interface{}) error {
	if payload == nil {
		return nil
	}
	metadata := payload.GetMetadata()
	if metadata == nil {
		return ErrMetadataIsNotSet
	}
	encoding, ok := metadata[MetadataEncoding]
	if !ok {
		return ErrEncodingIsNotSet
	}
	converter, ok := dc.convertersByName[string(encoding)]
	if !ok {
		return fmt.Errorf("encoding %q: %w", encoding, ErrEncodingIsNotSupported)
	}
	return converter.FromPayload(payload, valuePtr)
}

func (dc *CompositeDataConverter) FromPayloads(payloads *commonpb.Payloads, valuePtrs ...interface{}) error {
	if payloads == nil {
		return nil
	}
	for i, payload := range payloads.GetPayloads() {
		if i >= len(valuePtrs) {
			break
		}
		if err := dc.FromPayload(payload, valuePtrs[i]); err != nil {
			return fmt.Errorf("payload item %d: %w", i, err)
		}
	}
	return nil
}

func (dc *CompositeDataConverter) ToString(payload *commonpb.Payload) string {
	metadata := payload.GetMetadata()
	encoding, ok := metadata[MetadataEncoding]
	if !ok {
		return "<unknown encoding>"
	}
	converter, ok := dc.convertersByName[string(encoding)]
	if !ok {
		return fmt.Sprintf("<unsupported encoding %q>", encoding)
	}
	return converter.ToString(payload)
}

func (dc *CompositeDataConverter) ToStrings(payloads *commonpb.Payloads) []string {
	if payloads == nil {
		return nil
	}
	result := make([]string, len(payloads.GetPayloads()))
	for i, payload := range payloads.GetPayloads() {
		result[i] = dc.ToString(payload)
	}
	return result
}

// codecDataConverter wraps a DataConverter so payloads are passed through the given codec
// chain on the way in and out: Encode runs after conversion on outbound values, Decode
// before conversion on inbound ones.
type codecDataConverter struct {
	DataConverter
	codecs []PayloadCodec
}

// WithCodecs returns a DataConverter that applies codecs (in order) after conversion on
// encode, and in reverse order before conversion on decode.
func WithCodecs(dc DataConverter, codecs ...PayloadCodec) DataConverter {
	if len(codecs) == 0 {
		return dc
	}
	return &codecDataConverter{DataConverter: dc, codecs: codecs}
}

func (c *codecDataConverter) ToPayload(value interface{}) (*commonpb.Payload, error) {
	payload, err := c.DataConverter.ToPayload(value)
	if err != nil {
		return nil, err
	}
	encoded, err := EncodeChain(c.codecs, []*commonpb.Payload{payload})
	if err != nil {
		return nil, err
	}
	return encoded[0], nil
}

func (c *codecDataConverter) ToPayloads(values ...interface{}) (*commonpb.Payloads, error) {
	payloads, err := c.DataConverter.ToPayloads(values...)
	if err != nil || payloads == nil {
		return payloads, err
	}
	encoded, err := EncodeChain(c.codecs, payloads.GetPayloads())
	if err != nil {
		return nil, err
	}
	return &commonpb.Payloads{Payloads: encoded}, nil
}

func (c *codecDataConverter) FromPayload(payload *commonpb.Payload, valuePtr interface{}) error {
	decoded, err := DecodeChain(c.codecs, []*commonpb.Payload{payload})
	if err != nil {
		return err
	}
	return c.DataConverter.FromPayload(decoded[0], valuePtr)
}

func (c *codecDataConverter) FromPayloads(payloads *commonpb.Payloads, valuePtrs ...interface{}) error {
	if payloads == nil {
		return nil
	}
	decoded, err := DecodeChain(c.codecs, payloads.GetPayloads())
	if err != nil {
		return err
	}
	return c.DataConverter.FromPayloads(&commonpb.Payloads{Payloads: decoded}, valuePtrs...)
}

func (c *codecDataConverter) ToStrings(payloads *commonpb.Payloads) []string {
	if payloads == nil {
		return nil
	}
	decoded, err := DecodeChain(c.codecs, payloads.GetPayloads())
	if err != nil {
		out := make([]string, len(payloads.GetPayloads()))
		for i := range out {
			out[i] = fmt.Sprintf("<codec error: %v>", err)
		}
		return out
	}
	return c.DataConverter.ToStrings(&commonpb.Payloads{Payloads: decoded})
}

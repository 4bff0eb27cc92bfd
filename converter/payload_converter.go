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
	"encoding/json"
	"fmt"
	"reflect"

	commonpb "go.temporal.io/api/common/v1"
)

// PayloadConverter converts a single Go value to/from a wire Payload. Sub-converters are
// tried in registration order by CompositeDataConverter; ToPayload returns (nil, nil) to
// signal "not my value" rather than an error, so the next sub-converter can try.
type PayloadConverter interface {
	ToPayload(value interface{}) (*commonpb.Payload, error)
	FromPayload(payload *commonpb.Payload, valuePtr interface{}) error
	ToString(payload *commonpb.Payload) string
	Encoding() string
}

func newPayload(data []byte, c PayloadConverter) *commonpb.Payload {
	return &commonpb.Payload{
		Metadata: map[string][]byte{
			MetadataEncoding: []byte(c.Encoding()),
		},
		Data: data,
	}
}

// NilPayloadConverter handles the untyped nil value as an empty binary/null payload.
type NilPayloadConverter struct{}

// NewNilPayloadConverter creates a new NilPayloadConverter.
func NewNilPayloadConverter() *NilPayloadConverter {
	return &NilPayloadConverter{}
}

func (c *NilPayloadConverter) ToPayload(value interface{}) (*commonpb.Payload, error) {
	if value != nil {
		rv := reflect.ValueOf(value)
		switch rv.Kind() {
		case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Ptr, reflect.Slice:
			if !rv.IsNil() {
				return nil, nil
			}
		default:
			return nil, nil
		}
	}
	return newPayload(nil, c), nil
}

func (c *NilPayloadConverter) FromPayload(payload *commonpb.Payload, valuePtr interface{}) error {
	rv := reflect.ValueOf(valuePtr)
	if rv.Kind() != reflect.Ptr {
		return ErrValueIsNotPointer
	}
	rv.Elem().Set(reflect.Zero(rv.Elem().Type()))
	return nil
}

func (c *NilPayloadConverter) ToString(payload *commonpb.Payload) string {
	return "nil"
}

func (c *NilPayloadConverter) Encoding() string {
	return MetadataEncodingNull
}

// ByteSlicePayloadConverter handles []byte values as raw binary/plain payloads.
type ByteSlicePayloadConverter struct{}

// NewByteSlicePayloadConverter creates a new ByteSlicePayloadConverter.
func NewByteSlicePayloadConverter() *ByteSlicePayloadConverter {
	return &ByteSlicePayloadConverter{}
}

func (c *ByteSlicePayloadConverter) ToPayload(value interface{}) (*commonpb.Payload, error) {
	if b, ok := value.([]byte); ok {
		return newPayload(b, c), nil
	}
	return nil, nil
}

func (c *ByteSlicePayloadConverter) FromPayload(payload *commonpb.Payload, valuePtr interface{}) error {
	rv := reflect.ValueOf(valuePtr)
	if rv.Kind() != reflect.Ptr {
		return ErrValueIsNotPointer
	}
	if rv.Elem().Kind() != reflect.Slice || rv.Elem().Type().Elem().Kind() != reflect.Uint8 {
		return fmt.Errorf("type %T: %w", valuePtr, ErrUnableToSetValue)
	}
	rv.Elem().SetBytes(payload.GetData())
	return nil
}

func (c *ByteSlicePayloadConverter) ToString(payload *commonpb.Payload) string {
	return fmt.Sprintf("%x", payload.GetData())
}

func (c *ByteSlicePayloadConverter) Encoding() string {
	return MetadataEncodingRaw
}

// JSONPayloadConverter is the catch-all converter: anything round-trippable through
// encoding/json lands here. It is registered last so more specific converters get first
// refusal.
type JSONPayloadConverter struct{}

// NewJSONPayloadConverter creates a new JSONPayloadConverter.
func NewJSONPayloadConverter() *JSONPayloadConverter {
	return &JSONPayloadConverter{}
}

func (c *JSONPayloadConverter) ToPayload(value interface{}) (*commonpb.Payload, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnableToEncode, err)
	}
	return newPayload(data, c), nil
}

func (c *JSONPayloadConverter) FromPayload(payload *commonpb.Payload, valuePtr interface{}) error {
	if err := json.Unmarshal(payload.GetData(), valuePtr); err != nil {
		return fmt.Errorf("%w: %v", ErrUnableToDecode, err)
	}
	return nil
}

func (c *JSONPayloadConverter) ToString(payload *commonpb.Payload) string {
	return string(payload.GetData())
}

func (c *JSONPayloadConverter) Encoding() string {
	return MetadataEncodingJSON
}

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

package internal

import (
	commonpb "go.temporal.io/api/common/v1"

	"go.temporal.io/sdk-core/converter"
)

type (
	// Value encapsulates/extracts a single encoded value from workflow/activity.
	Value interface {
		// HasValue reports whether there is a value encoded.
		HasValue() bool
		// Get extracts the encoded value into a strongly typed value pointer.
		Get(valuePtr interface{}) error
	}

	// Values encapsulates/extracts one or more encoded values from workflow/activity.
	Values interface {
		// HasValues reports whether there are values encoded.
		HasValues() bool
		// Get extracts the encoded values into strongly typed value pointers.
		Get(valuePtr ...interface{}) error
	}

	// DataConverter is an alias of converter.DataConverter, kept so internal code can
	// refer to it without importing the converter package directly everywhere.
	DataConverter = converter.DataConverter
)

// getDefaultDataConverter returns the default data converter used by the worker.
func getDefaultDataConverter() DataConverter {
	return converter.GetDefaultDataConverter()
}

// EncodedValues holds payloads received over the wire (activity/workflow results,
// error details, signal/query args) together with the converter needed to decode them
// lazily, only when the caller actually asks for a typed value via Get.
type EncodedValues struct {
	values *commonpb.Payloads
	dc     DataConverter
}

// newEncodedValues wraps payloads for lazy decoding with dc (or the default converter
// if dc is nil).
func newEncodedValues(payloads *commonpb.Payloads, dc DataConverter) *EncodedValues {
	if dc == nil {
		dc = getDefaultDataConverter()
	}
	return &EncodedValues{values: payloads, dc: dc}
}

// HasValues implements Values.
func (b *EncodedValues) HasValues() bool {
	return b.values != nil && len(b.values.GetPayloads()) > 0
}

// Get implements Values.
func (b *EncodedValues) Get(valuePtr ...interface{}) error {
	if !b.HasValues() {
		return ErrNoData
	}
	payloads := b.values.GetPayloads()
	if len(valuePtr) > len(payloads) {
		return ErrTooManyArg
	}
	for i, ptr := range valuePtr {
		if err := b.dc.FromPayload(payloads[i], ptr); err != nil {
			return err
		}
	}
	return nil
}

// encodedValue adapts a single wire Payload to the Value interface; used wherever a
// result is inherently one value (query results, the first detail of a failure) rather
// than the positional list EncodedValues models.
type encodedValue struct {
	payload *commonpb.Payload
	dc      DataConverter
}

func newEncodedValue(payload *commonpb.Payload, dc DataConverter) Value {
	if dc == nil {
		dc = getDefaultDataConverter()
	}
	return &encodedValue{payload: payload, dc: dc}
}

// HasValue implements Value.
func (v *encodedValue) HasValue() bool {
	return v.payload != nil
}

// Get implements Value.
func (v *encodedValue) Get(valuePtr interface{}) error {
	if !v.HasValue() {
		return ErrNoData
	}
	return v.dc.FromPayload(v.payload, valuePtr)
}

// NewValue wraps a single Payload for lazy decoding, e.g. the result of
// Client.QueryWorkflow.
func NewValue(payload *commonpb.Payload) Value {
	return newEncodedValue(payload, nil)
}

// NewValues wraps Payloads for lazy decoding, e.g. the arguments of a received signal.
func NewValues(payloads *commonpb.Payloads) Values {
	return newEncodedValues(payloads, nil)
}

// ErrorDetailsValues holds details supplied directly by calling code (e.g.
// NewApplicationError("msg", false, nil, "detail one", 42)) before they have been encoded
// into wire payloads. encodeArgs performs that encoding lazily, only when the error
// actually needs to cross the wire.
type ErrorDetailsValues []interface{}

// HasValues implements Values.
func (e ErrorDetailsValues) HasValues() bool {
	return len(e) > 0
}

// Get implements Values by copying positionally from the raw detail values. Used only
// when details are extracted in-process (without a round trip through the server),
// e.g. in activity-local error handling.
func (e ErrorDetailsValues) Get(valuePtr ...interface{}) error {
	if !e.HasValues() {
		return ErrNoData
	}
	if len(valuePtr) > len(e) {
		return ErrTooManyArg
	}
	for i, ptr := range valuePtr {
		if err := assignValue(e[i], ptr); err != nil {
			return err
		}
	}
	return nil
}

func assignValue(src interface{}, dstPtr interface{}) error {
	switch d := dstPtr.(type) {
	case *interface{}:
		*d = src
		return nil
	}
	// Route through the default converter's JSON round trip for everything else; this
	// mirrors what the wire path would have done anyway.
	dc := getDefaultDataConverter()
	payload, err := dc.ToPayload(src)
	if err != nil {
		return err
	}
	return dc.FromPayload(payload, dstPtr)
}

// encodeArgs converts raw detail values into wire Payloads using dc (or the default
// converter if dc is nil).
func encodeArgs(dc DataConverter, values ErrorDetailsValues) (*commonpb.Payloads, error) {
	if dc == nil {
		dc = getDefaultDataConverter()
	}
	if len(values) == 0 {
		return nil, nil
	}
	return dc.ToPayloads(([]interface{})(values)...)
}

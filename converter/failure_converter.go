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
	failurepb "go.temporal.io/api/failure/v1"
)

// EncodedAttributes is the shape placed inside Failure.EncodedAttributes when a
// FailureConverter is configured to encode common attributes: message and stack trace
// move off the wire-visible Failure fields and into an opaque payload instead.
type EncodedAttributes struct {
	Message    string `json:"message"`
	StackTrace string `json:"stack_trace"`
}

// FailureConverter does the opaque-payload half of failure conversion: moving
// message/stack_trace in and out of Failure.EncodedAttributes. The typed
// error<->Failure mapping itself lives in the internal package, which is the only
// place that knows the full error taxonomy; this converter is the narrow seam the
// internal package calls through so the "encode common attributes" behavior is
// pluggable per spec §4.1.
type FailureConverter interface {
	// EncodeCommonAttributes moves message/stack trace into f.EncodedAttributes, using dc
	// to produce the payload. Leaves f unchanged if this converter doesn't encode.
	EncodeCommonAttributes(dc DataConverter, f *failurepb.Failure)
	// DecodeCommonAttributes restores message/stack trace from f.EncodedAttributes in
	// place, if present.
	DecodeCommonAttributes(dc DataConverter, f *failurepb.Failure)
}

// DefaultFailureConverter leaves message/stack_trace on the wire-visible Failure fields.
type DefaultFailureConverter struct{}

func (DefaultFailureConverter) EncodeCommonAttributes(DataConverter, *failurepb.Failure) {}
func (DefaultFailureConverter) DecodeCommonAttributes(DataConverter, *failurepb.Failure) {}

// EncodedAttributesFailureConverter encodes message/stack_trace into an opaque payload,
// leaving only FailureInfo-specific fields visible on the wire Failure. Useful when
// failure messages may carry sensitive details that should go through the same
// codec/encryption chain as regular payloads.
type EncodedAttributesFailureConverter struct{}

func (EncodedAttributesFailureConverter) EncodeCommonAttributes(dc DataConverter, f *failurepb.Failure) {
	if f == nil || f.GetEncodedAttributes() != nil {
		return
	}
	payload, err := dc.ToPayload(EncodedAttributes{Message: f.GetMessage(), StackTrace: f.GetStackTrace()})
	if err != nil {
		return
	}
	f.EncodedAttributes = payload
	f.Message = "Encoded failure"
	f.StackTrace = ""
}

func (EncodedAttributesFailureConverter) DecodeCommonAttributes(dc DataConverter, f *failurepb.Failure) {
	if f == nil || f.GetEncodedAttributes() == nil {
		return
	}
	var attrs EncodedAttributes
	if err := dc.FromPayload(f.GetEncodedAttributes(), &attrs); err != nil {
		return
	}
	f.Message = attrs.Message
	f.StackTrace = attrs.StackTrace
}

// GetDefaultFailureConverter returns the package-wide default FailureConverter.
func GetDefaultFailureConverter() FailureConverter {
	return DefaultFailureConverter{}
}

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

import "errors"

const (
	// MetadataEncoding is the Payload metadata key for the encoding sub-converter name.
	MetadataEncoding = "encoding"
	// MetadataEncodingNull is the encoding for the singleton nil value.
	MetadataEncodingNull = "binary/null"
	// MetadataEncodingRaw is the encoding for raw byte slices.
	MetadataEncodingRaw = "binary/plain"
	// MetadataEncodingProtoJSON is the encoding for protobuf messages marshaled as JSON.
	MetadataEncodingProtoJSON = "json/protobuf"
	// MetadataEncodingJSON is the encoding for everything else, round-tripped through encoding/json.
	MetadataEncodingJSON = "json/plain"

	// MetadataMessageType records the concrete proto message type name, set only on json/protobuf payloads.
	MetadataMessageType = "messageType"
)

// ErrUnableToEncode is returned when a sub-converter fails to encode an otherwise-accepted value.
var ErrUnableToEncode = errors.New("unable to encode")

// ErrUnableToDecode is returned when a sub-converter fails to decode a payload it claims to own.
var ErrUnableToDecode = errors.New("unable to decode")

// ErrUnableToSetValue is returned when the destination pointer for FromPayload cannot be set.
var ErrUnableToSetValue = errors.New("unable to set value")

// ErrValueIsNotPointer is returned when FromPayload is given a non-pointer destination.
var ErrValueIsNotPointer = errors.New("value is not pointer")

// ErrValueDoesntImplementProtoMessage is returned when a value claimed to be a proto message isn't one.
var ErrValueDoesntImplementProtoMessage = errors.New("value doesn't implement proto.Message")

// ErrEncodingIsNotSupported is returned from FromPayload(s) when no sub-converter recognizes the encoding.
var ErrEncodingIsNotSupported = errors.New("payload encoding is not supported")

// ErrMetadataIsNotSet is returned when a payload has no metadata at all.
var ErrMetadataIsNotSet = errors.New("metadata is not set")

// ErrEncodingIsNotSet is returned when a payload's metadata has no "encoding" key.
var ErrEncodingIsNotSet = errors.New("payload encoding metadata is not set")

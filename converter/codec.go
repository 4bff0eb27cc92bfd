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

// Package converter implements the payload and failure conversion boundary between Go
// values and the wire protocol: DataConverter for values, FailureConverter for errors,
// and an optional PayloadCodec chain (compression, encryption) applied at the byte level
// after conversion on the way out and before conversion on the way in.
package converter

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"

	commonpb "go.temporal.io/api/common/v1"
	"google.golang.org/protobuf/proto"
)

// PayloadCodec transforms payloads at the byte level, independent of the value
// conversion above it. A codec chain is applied in order on Encode and in reverse order
// on Decode, so the outermost codec in the chain produces the outermost wire bytes.
type PayloadCodec interface {
	Encode(payloads []*commonpb.Payload) ([]*commonpb.Payload, error)
	Decode(payloads []*commonpb.Payload) ([]*commonpb.Payload, error)
}

// EncodeChain runs payloads through each codec in order.
func EncodeChain(codecs []PayloadCodec, payloads []*commonpb.Payload) ([]*commonpb.Payload, error) {
	result := payloads
	for _, codec := range codecs {
		var err error
		result, err = codec.Encode(result)
		if err != nil {
			return nil, fmt.Errorf("codec encode: %w", err)
		}
	}
	return result, nil
}

// DecodeChain undoes EncodeChain: codecs run in reverse registration order.
func DecodeChain(codecs []PayloadCodec, payloads []*commonpb.Payload) ([]*commonpb.Payload, error) {
	result := payloads
	for i := len(codecs) - 1; i >= 0; i-- {
		var err error
		result, err = codecs[i].Decode(result)
		if err != nil {
			return nil, fmt.Errorf("codec decode: %w", err)
		}
	}
	return result, nil
}

const metadataEncodingZlib = "binary/zlib"

// ZlibCodec compresses payloads with DEFLATE. It marshals each original payload, metadata
// included, compresses those bytes, and tags the result with the metadataEncodingZlib
// encoding, so Decode can restore the original payload whole, matching the wrapping
// convention used by the compression/encryption codecs shipped with the real SDK.
type ZlibCodec struct {
	// MinBytes is the data size below which Encode passes a payload through unchanged,
	// since compressing it would not be worthwhile.
	MinBytes int
}

// NewZlibCodec creates a ZlibCodec with the given minimum-size threshold.
func NewZlibCodec(minBytes int) *ZlibCodec {
	return &ZlibCodec{MinBytes: minBytes}
}

func (z *ZlibCodec) Encode(payloads []*commonpb.Payload) ([]*commonpb.Payload, error) {
	result := make([]*commonpb.Payload, len(payloads))
	for i, p := range payloads {
		if len(p.GetData()) < z.MinBytes {
			result[i] = p
			continue
		}
		marshaled, err := proto.Marshal(p)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		w := zlib.NewWriter(&buf)
		if _, err := w.Write(marshaled); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		result[i] = &commonpb.Payload{
			Metadata: map[string][]byte{MetadataEncoding: []byte(metadataEncodingZlib)},
			Data:     buf.Bytes(),
		}
	}
	return result, nil
}

func (z *ZlibCodec) Decode(payloads []*commonpb.Payload) ([]*commonpb.Payload, error) {
	result := make([]*commonpb.Payload, len(payloads))
	for i, p := range payloads {
		if string(p.GetMetadata()[MetadataEncoding]) != metadataEncodingZlib {
			result[i] = p
			continue
		}
		r, err := zlib.NewReader(bytes.NewReader(p.GetData()))
		if err != nil {
			return nil, err
		}
		marshaled, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		if err := r.Close(); err != nil {
			return nil, err
		}
		var original commonpb.Payload
		if err := proto.Unmarshal(marshaled, &original); err != nil {
			return nil, fmt.Errorf("zlib codec: %w", err)
		}
		result[i] = &original
	}
	return result, nil
}

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

package bridge

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
)

// CallbackFunc services one outbound RPC from a host application that routes its own
// gRPC stack on our behalf (e.g. a lower-level native core library embedding this SDK).
// It performs the call for req and returns the response message, which Invoke then
// copies into the caller's resp.
type CallbackFunc func(ctx context.Context, method string, req proto.Message) (proto.Message, error)

// CallbackTransport implements Transport by delegating every Invoke to a host-supplied
// CallbackFunc instead of opening a gRPC connection itself. This is an alternative
// transport only: CallOptions, retry, and metadata injection behave identically to the
// real gRPC transport.
type CallbackTransport struct {
	Callback CallbackFunc
}

// NewCallbackTransport wraps fn as a Transport.
func NewCallbackTransport(fn CallbackFunc) *CallbackTransport {
	return &CallbackTransport{Callback: fn}
}

func (t *CallbackTransport) Invoke(ctx context.Context, method string, req, resp proto.Message, _ ...grpc.CallOption) error {
	result, err := t.Callback(ctx, method, req)
	if err != nil {
		return err
	}
	if result == nil {
		return fmt.Errorf("callback transport: nil response for %s", method)
	}
	proto.Reset(resp)
	proto.Merge(resp, result)
	return nil
}

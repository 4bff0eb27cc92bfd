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
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"

	"go.temporal.io/api/workflowservice/v1"

	"go.temporal.io/sdk-core/internal/common/backoff"
)

// Transport performs one unary RPC given a fully-qualified method name. Two
// implementations exist: grpcTransport (real network calls) and CallbackTransport (a
// host-supplied function, for embedding a lower-level core library's gRPC stack).
type Transport interface {
	Invoke(ctx context.Context, method string, req, resp proto.Message, opts ...grpc.CallOption) error
}

// Identity carries the request metadata every call is stamped with.
type Identity struct {
	ClientName    string
	ClientVersion string
	APIKey        string
}

// Client is the single seam every higher-level RPC call in the SDK goes through: one
// unary Call operation parameterized by a CallOptions preset.
type Client struct {
	transport Transport
	identity  Identity

	// WorkflowService is the generated stub surface; Call wraps it with retry and
	// metadata injection. Exposed directly because the generated client has ~40 methods
	// and re-declaring each as a Client method would just be indirection.
	WorkflowService workflowservice.WorkflowServiceClient
}

// NewClient builds a Client over a real gRPC connection.
func NewClient(conn *grpc.ClientConn, identity Identity) *Client {
	return &Client{
		transport:       &grpcTransport{conn: conn},
		identity:        identity,
		WorkflowService: workflowservice.NewWorkflowServiceClient(conn),
	}
}

// NewClientWithTransport builds a Client over an arbitrary Transport (real gRPC,
// callback-override, or a test double); WorkflowService is left nil since only Call is
// meaningful in this mode.
func NewClientWithTransport(transport Transport, identity Identity) *Client {
	return &Client{transport: transport, identity: identity}
}

type grpcTransport struct {
	conn *grpc.ClientConn
}

func (t *grpcTransport) Invoke(ctx context.Context, method string, req, resp proto.Message, opts ...grpc.CallOption) error {
	return t.conn.Invoke(ctx, method, req, resp, opts...)
}

// Call issues one logical RPC, retrying per opts.RetryPolicy/RetryableCodes within
// opts.OverallDeadline, and stamping outbound metadata from c.identity.
func (c *Client) Call(ctx context.Context, method string, req, resp proto.Message, opts CallOptions) error {
	ctx = c.withMetadata(ctx)

	if opts.OverallDeadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.OverallDeadline)
		defer cancel()
	}

	isRetryable := func(err error) bool {
		st, ok := status.FromError(err)
		if !ok {
			return false
		}
		return opts.isRetryableCode(st.Code())
	}

	return backoff.Retry(ctx, func() error {
		return c.transport.Invoke(ctx, method, req, resp)
	}, opts.RetryPolicy, isRetryable)
}

func (c *Client) withMetadata(ctx context.Context) context.Context {
	md := metadata.MD{}
	if c.identity.ClientName != "" {
		md.Set("client-name", c.identity.ClientName)
	}
	if c.identity.ClientVersion != "" {
		md.Set("client-version", c.identity.ClientVersion)
	}
	if c.identity.APIKey != "" {
		md.Set("authorization", fmt.Sprintf("Bearer %s", c.identity.APIKey))
	}
	return metadata.NewOutgoingContext(ctx, md)
}

// IsNotFound reports whether err represents a server NotFound status, used by the
// schedule facade's describe-after-delete behavior.
func IsNotFound(err error) bool {
	st, ok := status.FromError(err)
	return ok && st.Code() == codes.NotFound
}

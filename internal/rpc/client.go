// Gateway-side client stub.
//
// CourseClient is the channel handle the gateway dispatch layer is
// constructed with. The concrete implementation wraps a pre-dialed
// grpc.ClientConn and invokes the course methods by full name; there is no
// lazy global and no retry, a transport failure is a hard error.
package rpc

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
)

// CourseClient is the operation set the gateway forwards to.
type CourseClient interface {
	CreateCourse(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	FindAllCourses(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	FindOneCourse(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	UpdateCourse(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	RemoveCourse(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	SetCourseFile(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	RemoveFilesFromCourse(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// Client is the grpc-backed CourseClient.
type Client struct {
	conn    *grpc.ClientConn
	timeout time.Duration
}

var _ CourseClient = (*Client)(nil)

// DialOption configures a Client.
type DialOption func(*Client)

// WithTimeout sets a per-call deadline applied to every forwarded RPC.
// Zero leaves calls bounded only by the caller's context.
func WithTimeout(d time.Duration) DialOption {
	return func(c *Client) { c.timeout = d }
}

// Dial connects to the backend at target (host:port). The connection is
// plaintext; the channel is internal and assumed reliable.
func Dial(target string, opts ...DialOption) (*Client, error) {
	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial course backend: %w", err)
	}
	c := &Client{conn: conn}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func (c *Client) invoke(ctx context.Context, method string, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		req = &structpb.Struct{}
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	resp := &structpb.Struct{}
	if err := c.conn.Invoke(ctx, "/"+ServiceName+"/"+method, req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) CreateCourse(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return c.invoke(ctx, "CreateCourse", req)
}

func (c *Client) FindAllCourses(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return c.invoke(ctx, "FindAllCourses", req)
}

func (c *Client) FindOneCourse(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return c.invoke(ctx, "FindOneCourse", req)
}

func (c *Client) UpdateCourse(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return c.invoke(ctx, "UpdateCourse", req)
}

func (c *Client) RemoveCourse(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return c.invoke(ctx, "RemoveCourse", req)
}

func (c *Client) SetCourseFile(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return c.invoke(ctx, "SetCourseFile", req)
}

func (c *Client) RemoveFilesFromCourse(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return c.invoke(ctx, "RemoveFilesFromCourse", req)
}

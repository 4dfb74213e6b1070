package rpc

import (
	"context"
	"fmt"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/dynamic"
	"github.com/jhump/protoreflect/dynamic/grpcdynamic"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Client talks to a running check daemon.
type Client struct {
	conn  *grpc.ClientConn
	stub  grpcdynamic.Stub
	check *desc.MethodDescriptor
}

// RemoteDiagnostic is one diagnostic as reported by the daemon.
type RemoteDiagnostic struct {
	Code    string
	Line    int
	Col     int
	Message string
	Left    string
	Right   string
}

func Dial(addr string) (*Client, error) {
	sd, err := loadServiceDescriptor()
	if err != nil {
		return nil, err
	}
	check := sd.FindMethodByName("Check")
	if check == nil {
		return nil, fmt.Errorf("method Check not found on %s", serviceName)
	}
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	return &Client{
		conn:  conn,
		stub:  grpcdynamic.NewStub(conn),
		check: check,
	}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// Check submits one source file and returns the session id with the
// diagnostics in emission order.
func (c *Client) Check(ctx context.Context, file, source string) (string, []RemoteDiagnostic, error) {
	req := dynamic.NewMessage(c.check.GetInputType())
	req.SetFieldByName("file", file)
	req.SetFieldByName("source", source)

	raw, err := c.stub.InvokeRpc(ctx, c.check, req)
	if err != nil {
		return "", nil, err
	}
	resp, err := dynamic.AsDynamicMessage(raw)
	if err != nil {
		return "", nil, err
	}

	sessionID, _ := resp.GetFieldByName("session_id").(string)

	var out []RemoteDiagnostic
	items, _ := resp.GetFieldByName("diags").([]interface{})
	for _, item := range items {
		msg, ok := item.(*dynamic.Message)
		if !ok {
			continue
		}
		d := RemoteDiagnostic{}
		d.Code, _ = msg.GetFieldByName("code").(string)
		if v, ok := msg.GetFieldByName("line").(int32); ok {
			d.Line = int(v)
		}
		if v, ok := msg.GetFieldByName("col").(int32); ok {
			d.Col = int(v)
		}
		d.Message, _ = msg.GetFieldByName("message").(string)
		d.Left, _ = msg.GetFieldByName("left").(string)
		d.Right, _ = msg.GetFieldByName("right").(string)
		out = append(out, d)
	}
	return sessionID, out, nil
}

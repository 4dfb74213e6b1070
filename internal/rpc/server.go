// Package rpc serves the checker over gRPC. The service is described by
// the embedded loom.proto, parsed at startup and served with dynamic
// messages, so no generated stubs are checked in.
package rpc

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"io"
	"net"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/loomlang/loom/internal/pipeline"
)

//go:embed loom.proto
var protoFS embed.FS

const (
	protoFile   = "loom.proto"
	serviceName = "loom.v1.Checker"
)

// loadServiceDescriptor parses the embedded proto and finds the Checker
// service.
func loadServiceDescriptor() (*desc.ServiceDescriptor, error) {
	parser := protoparse.Parser{
		Accessor: func(name string) (io.ReadCloser, error) {
			data, err := protoFS.ReadFile(name)
			if err != nil {
				return nil, err
			}
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
	fds, err := parser.ParseFiles(protoFile)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", protoFile, err)
	}
	var fdp *descriptorpb.FileDescriptorProto = fds[0].AsFileDescriptorProto()
	if fdp.GetSyntax() != "proto3" {
		return nil, fmt.Errorf("%s: expected proto3 syntax, got %q", protoFile, fdp.GetSyntax())
	}
	sd := fds[0].FindService(serviceName)
	if sd == nil {
		return nil, fmt.Errorf("service %s not found in %s", serviceName, protoFile)
	}
	return sd, nil
}

// Server hosts the Checker service.
type Server struct {
	grpcServer *grpc.Server
	sd         *desc.ServiceDescriptor
}

func NewServer() (*Server, error) {
	sd, err := loadServiceDescriptor()
	if err != nil {
		return nil, err
	}
	s := &Server{
		grpcServer: grpc.NewServer(),
		sd:         sd,
	}
	s.register()
	return s, nil
}

// register constructs the grpc.ServiceDesc from the parsed descriptor
// and binds the unary handler.
func (s *Server) register() {
	svcDesc := &grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*interface{})(nil),
		Methods:     []grpc.MethodDesc{},
		Streams:     []grpc.StreamDesc{},
		Metadata:    s.sd.GetFile().GetName(),
	}

	for _, method := range s.sd.GetMethods() {
		if method.IsClientStreaming() || method.IsServerStreaming() {
			continue
		}
		md := method
		svcDesc.Methods = append(svcDesc.Methods, grpc.MethodDesc{
			MethodName: md.GetName(),
			Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
				h := srv.(*Server)
				return h.handleUnary(ctx, md, dec)
			},
		})
	}

	s.grpcServer.RegisterService(svcDesc, s)
}

func (s *Server) handleUnary(_ context.Context, md *desc.MethodDescriptor, dec func(interface{}) error) (interface{}, error) {
	req := dynamic.NewMessage(md.GetInputType())
	if err := dec(req); err != nil {
		return nil, err
	}

	switch md.GetName() {
	case "Check":
		return s.handleCheck(req, md)
	default:
		return nil, fmt.Errorf("unknown method %s", md.GetName())
	}
}

func (s *Server) handleCheck(req *dynamic.Message, md *desc.MethodDescriptor) (interface{}, error) {
	file, _ := req.GetFieldByName("file").(string)
	source, _ := req.GetFieldByName("source").(string)

	ctx := pipeline.CheckFile(file, source)

	resp := dynamic.NewMessage(md.GetOutputType())
	resp.SetFieldByName("session_id", ctx.SessionID)

	diagType := md.GetOutputType().FindFieldByName("diags").GetMessageType()
	for _, d := range ctx.Diags.Items() {
		dm := dynamic.NewMessage(diagType)
		dm.SetFieldByName("code", string(d.Code))
		dm.SetFieldByName("line", int32(d.Token.Line))
		dm.SetFieldByName("col", int32(d.Token.Column))
		dm.SetFieldByName("message", d.Message)
		dm.SetFieldByName("left", d.Left)
		dm.SetFieldByName("right", d.Right)
		resp.AddRepeatedFieldByName("diags", dm)
	}
	return resp, nil
}

// Serve listens on addr and blocks until the server stops.
func (s *Server) Serve(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.grpcServer.Serve(lis)
}

// ServeListener serves on an existing listener; used by tests to bind
// an ephemeral port.
func (s *Server) ServeListener(lis net.Listener) error {
	return s.grpcServer.Serve(lis)
}

// Stop shuts the server down gracefully.
func (s *Server) Stop() {
	s.grpcServer.GracefulStop()
}

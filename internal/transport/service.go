package transport

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/funvibe/finlang/internal/analyzer"
)

// SignatureSource answers signature lookups by dotted function name.
type SignatureSource interface {
	Lookup(ctx context.Context, name string) (FunctionSignature, bool, error)
}

// ProgramSource serves the functions of a live Program.
type ProgramSource struct {
	Program *analyzer.Program
}

func (s ProgramSource) Lookup(_ context.Context, name string) (FunctionSignature, bool, error) {
	fn, ok := s.Program.Function(name)
	if !ok {
		return FunctionSignature{}, false, nil
	}
	return Signature(fn), true, nil
}

const (
	ServiceName  = "finlang.Signatures"
	lookupMethod = "Lookup"
	lookupPath   = "/" + ServiceName + "/" + lookupMethod
)

// Requests are {"name": "ns.fn"}; responses are {"found": bool} plus
// "signature" when found.
type signaturesServer struct {
	src SignatureSource
}

func (s *signaturesServer) lookup(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	name := req.GetFields()["name"].GetStringValue()
	if name == "" {
		return nil, status.Error(codes.InvalidArgument, "name is required")
	}
	sig, ok, err := s.src.Lookup(ctx, name)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "looking up %s: %v", name, err)
	}
	resp := &structpb.Struct{Fields: map[string]*structpb.Value{
		"found": structpb.NewBoolValue(ok),
	}}
	if !ok {
		return resp, nil
	}
	enc, err := EncodeSignature(sig)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	resp.Fields["signature"] = structpb.NewStructValue(enc)
	return resp, nil
}

var signaturesServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*any)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: lookupMethod,
			Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
				req := new(structpb.Struct)
				if err := dec(req); err != nil {
					return nil, err
				}
				s := srv.(*signaturesServer)
				if interceptor == nil {
					return s.lookup(ctx, req)
				}
				info := &grpc.UnaryServerInfo{Server: srv, FullMethod: lookupPath}
				return interceptor(ctx, req, info, func(ctx context.Context, req any) (any, error) {
					return s.lookup(ctx, req.(*structpb.Struct))
				})
			},
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "finlang/signatures",
}

// RegisterSignatures exposes src on server.
func RegisterSignatures(server *grpc.Server, src SignatureSource) {
	server.RegisterService(&signaturesServiceDesc, &signaturesServer{src: src})
}

// SignaturesClient calls a remote Signatures service.
type SignaturesClient struct {
	cc grpc.ClientConnInterface
}

func NewSignaturesClient(cc grpc.ClientConnInterface) *SignaturesClient {
	return &SignaturesClient{cc: cc}
}

// Lookup implements SignatureSource over the wire.
func (c *SignaturesClient) Lookup(ctx context.Context, name string) (FunctionSignature, bool, error) {
	req := &structpb.Struct{Fields: map[string]*structpb.Value{
		"name": structpb.NewStringValue(name),
	}}
	resp := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, lookupPath, req, resp); err != nil {
		return FunctionSignature{}, false, err
	}
	if !resp.GetFields()["found"].GetBoolValue() {
		return FunctionSignature{}, false, nil
	}
	enc := resp.GetFields()["signature"].GetStructValue()
	if enc == nil {
		return FunctionSignature{}, false, fmt.Errorf("lookup %s: response has no signature", name)
	}
	sig, err := DecodeSignature(enc)
	if err != nil {
		return FunctionSignature{}, false, err
	}
	return sig, true, nil
}

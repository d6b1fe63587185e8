package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"user-roster/internal/adapter/kv"
	"user-roster/internal/usecase/user"
	"user-roster/pkg/security"
)

// ServiceName is the full gRPC name of the roster service.
const ServiceName = "roster.v1.Roster"

// RosterServer exposes the roster over gRPC. Messages are protobuf
// well-known types so no generated code is needed.
type RosterServer struct {
	uc    user.Usecase
	store kv.Store
}

// NewRosterServer creates a new gRPC roster server.
func NewRosterServer(uc user.Usecase, store kv.Store) *RosterServer {
	return &RosterServer{uc: uc, store: store}
}

// Register attaches the roster service to s.
func (s *RosterServer) Register(r grpc.ServiceRegistrar) {
	r.RegisterService(&serviceDesc, s)
}

// ListNames returns the names of users matching the query, in insertion order.
func (s *RosterServer) ListNames(ctx context.Context, req *wrapperspb.StringValue) (*structpb.ListValue, error) {
	resp, err := s.uc.ListNames(ctx, user.ListNamesRequest{Query: req.GetValue()})
	if err != nil {
		return nil, err
	}

	names := make([]any, len(resp.Names))
	for i, n := range resp.Names {
		names[i] = n
	}
	return structpb.NewList(names)
}

// GetUserByName returns the first user with the exact name.
func (s *RosterServer) GetUserByName(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	resp, err := s.uc.GetUserByName(ctx, user.GetUserByNameRequest{Name: req.GetValue()})
	if err != nil {
		return nil, err
	}

	fields := map[string]any{
		"name": resp.Name,
		"age":  float64(resp.Age),
	}
	if resp.Email != nil {
		fields["email"] = *resp.Email
	}
	return structpb.NewStruct(fields)
}

// Lookup returns the value stored under the key, or NotFound.
func (s *RosterServer) Lookup(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	if err := security.ValidateKey(req.GetValue()); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	v, found, err := s.store.Get(ctx, req.GetValue())
	if err != nil {
		return nil, status.Error(codes.Internal, "lookup failed")
	}
	if !found {
		return nil, status.Error(codes.NotFound, kv.FormatLookup(v, found))
	}
	return wrapperspb.String(v), nil
}

type rosterService interface {
	ListNames(context.Context, *wrapperspb.StringValue) (*structpb.ListValue, error)
	GetUserByName(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	Lookup(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*rosterService)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListNames", Handler: unary("ListNames", (*RosterServer).ListNames)},
		{MethodName: "GetUserByName", Handler: unary("GetUserByName", (*RosterServer).GetUserByName)},
		{MethodName: "Lookup", Handler: unary("Lookup", (*RosterServer).Lookup)},
	},
	Streams: []grpc.StreamDesc{},
}

// unary adapts a typed method to the grpc.MethodDesc handler signature.
func unary[Resp any](
	method string,
	fn func(*RosterServer, context.Context, *wrapperspb.StringValue) (Resp, error),
) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(wrapperspb.StringValue)
		if err := dec(in); err != nil {
			return nil, err
		}
		s := srv.(*RosterServer)
		if interceptor == nil {
			return fn(s, ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: "/" + ServiceName + "/" + method,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return fn(s, ctx, req.(*wrapperspb.StringValue))
		}
		return interceptor(ctx, in, info, handler)
	}
}

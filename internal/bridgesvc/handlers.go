package bridgesvc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/funvibe/typebridge/internal/mirror"
)

// serviceDesc describes the TypeBridge service by hand, since this bridge
// ships no .proto-generated stubs: every method exchanges a
// google.protobuf.Struct, a well-known type already vendored by
// google.golang.org/protobuf, so no codegen step is required to add or
// evolve a method.
const serviceName = "funxy.bridge.TypeBridge"

var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*any)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "IsSameType", Handler: unaryHandler("IsSameType", (*Service).handleIsSameType)},
		{MethodName: "IsSubtype", Handler: unaryHandler("IsSubtype", (*Service).handleIsSubtype)},
		{MethodName: "IsAssignable", Handler: unaryHandler("IsAssignable", (*Service).handleIsAssignable)},
		{MethodName: "Erasure", Handler: unaryHandler("Erasure", (*Service).handleErasure)},
		{MethodName: "DirectSupertypes", Handler: unaryHandler("DirectSupertypes", (*Service).handleDirectSupertypes)},
		{MethodName: "AnnotationsOf", Handler: unaryHandler("AnnotationsOf", (*Service).handleAnnotationsOf)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "bridgesvc/typebridge.proto",
}

// unaryHandler adapts a (*Service) method of the fixed
// (ctx, *structpb.Struct) -> (*structpb.Struct, error) shape into the
// grpc.methodHandler signature grpc.MethodDesc requires, threading the
// server's unary interceptor chain through exactly as generated code would.
func unaryHandler(methodName string, fn func(*Service, context.Context, *structpb.Struct) (*structpb.Struct, error)) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	fullMethod := "/" + serviceName + "/" + methodName
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		s := srv.(*Service)
		if interceptor == nil {
			return fn(s, ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return fn(s, ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func boolResult(b bool) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{"result": structpb.NewBoolValue(b)}}
}

func requireField(req *structpb.Struct, name string) (*structpb.Value, error) {
	v, ok := req.Fields[name]
	if !ok {
		return nil, status.Errorf(codes.InvalidArgument, "request missing %q", name)
	}
	return v, nil
}

// asDeclared requires t to be a declared type, the only mirror variant
// DirectSupertypes and AsMemberOf operate on.
func asDeclared(t mirror.Type) (*mirror.DeclaredTypeMirror, bool) {
	dt, ok := t.(*mirror.DeclaredTypeMirror)
	return dt, ok
}

// handleIsSameType implements spec.md §4.3.1 over the wire: {a, b} -> {result}.
func (s *Service) handleIsSameType(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	a, b, err := s.decodePair(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	return boolResult(s.TypeUtils.IsSameType(s.Projector.Project(a), s.Projector.Project(b))), nil
}

// handleIsSubtype implements spec.md §4.3.2 over the wire.
func (s *Service) handleIsSubtype(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	a, b, err := s.decodePair(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	return boolResult(s.TypeUtils.IsSubtype(s.Projector.Project(a), s.Projector.Project(b))), nil
}

// handleIsAssignable implements spec.md §4.3.3 over the wire.
func (s *Service) handleIsAssignable(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	a, b, err := s.decodePair(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	return boolResult(s.TypeUtils.IsAssignable(s.Projector.Project(a), s.Projector.Project(b))), nil
}

// handleErasure implements spec.md §4.3.6 over the wire: {type} -> {type}.
func (s *Service) handleErasure(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	typeField, err := requireField(req, "type")
	if err != nil {
		return nil, err
	}
	ref, err := s.decodeTypeRef(typeField)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	erased := s.TypeUtils.Erasure(s.Projector.Project(ref))
	return &structpb.Struct{Fields: map[string]*structpb.Value{"type": encodeType(erased)}}, nil
}

// handleDirectSupertypes implements spec.md §4.3.5 over the wire:
// {type} -> {supertypes: []type}.
func (s *Service) handleDirectSupertypes(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	typeField, err := requireField(req, "type")
	if err != nil {
		return nil, err
	}
	ref, err := s.decodeTypeRef(typeField)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	declared, ok := asDeclared(s.Projector.Project(ref))
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "DirectSupertypes requires a declared type")
	}
	supers := s.TypeUtils.DirectSupertypes(declared)
	vals := make([]*structpb.Value, len(supers))
	for i, sup := range supers {
		vals[i] = encodeType(sup)
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"supertypes": structpb.NewListValue(&structpb.ListValue{Values: vals}),
	}}, nil
}

// handleAnnotationsOf implements the annotation adapter over the wire:
// {qualifiedName, grouped?} -> {annotations: []annotation}.
func (s *Service) handleAnnotationsOf(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	qn := req.Fields["qualifiedName"].GetStringValue()
	if qn == "" {
		return nil, status.Error(codes.InvalidArgument, "request missing \"qualifiedName\"")
	}
	decl, ok := s.Oracle.LookupByQualifiedName(s.Oracle.QualifiedNameOf(qn))
	if !ok {
		return nil, status.Errorf(codes.NotFound, "unknown declaration %q", qn)
	}

	var mirrors []*structpb.Value
	if req.Fields["grouped"].GetBoolValue() {
		for _, m := range s.Annotation.Group(decl) {
			mirrors = append(mirrors, encodeAnnotation(m))
		}
	} else {
		for _, m := range s.Annotation.AdaptAnnotations(decl) {
			mirrors = append(mirrors, encodeAnnotation(m))
		}
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"annotations": structpb.NewListValue(&structpb.ListValue{Values: mirrors}),
	}}, nil
}

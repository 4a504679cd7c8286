// Package bridgesvc exposes the adapter core over gRPC: one TypeBridge
// service whose methods accept and return google.protobuf.Struct payloads,
// so a caller needs no generated stubs beyond the protobuf well-known
// types already vendored by google.golang.org/protobuf. This is the one
// place in the bridge that recovers a bridgeerr panic, turning it into a
// gRPC status error instead of taking down a process that may be serving
// other concurrent rounds.
package bridgesvc

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/funvibe/typebridge/internal/annotation"
	"github.com/funvibe/typebridge/internal/bridgeerr"
	"github.com/funvibe/typebridge/internal/bridgelog"
	"github.com/funvibe/typebridge/internal/mirror"
	"github.com/funvibe/typebridge/internal/oracle"
	"github.com/funvibe/typebridge/internal/projection"
	"github.com/funvibe/typebridge/internal/roundstore"
	"github.com/funvibe/typebridge/internal/typeutils"
)

// Service is the TypeBridge gRPC service implementation, bound to one
// oracle backend and its derived projection/typeutils/annotation stack.
type Service struct {
	Backend    string
	Oracle     oracle.Oracle
	Projector  *projection.Projector
	TypeUtils  *typeutils.TypeUtils
	Annotation *annotation.Adapter
	Rounds     *roundstore.Store
	Log        *bridgelog.Logger
}

// New wires a Service over an already-constructed oracle and cache,
// wiring typeutils.OnAmbiguousAdmit to a warning log line per round.
func New(backend string, o oracle.Oracle, cache *projection.Cache, rounds *roundstore.Store, log *bridgelog.Logger) *Service {
	projector := projection.New(o, cache)
	tu := typeutils.New(o, projector)
	svc := &Service{
		Backend:    backend,
		Oracle:     o,
		Projector:  projector,
		TypeUtils:  tu,
		Annotation: annotation.New(projector),
		Rounds:     rounds,
		Log:        log,
	}
	tu.OnAmbiguousAdmit = func(s, t *mirror.DeclaredTypeMirror) {
		log.Warnf("conservatively admitting invariant compatibility: %s vs %s", s.String(), t.String())
	}
	return svc
}

// Serve blocks, running the gRPC server on listenAddr until ctx is
// cancelled.
func (s *Service) Serve(ctx context.Context, listenAddr string) error {
	lis, err := net.Listen("tcp", listenAddr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", listenAddr, err)
	}

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.recoverInterceptor, s.roundInterceptor))
	srv.RegisterService(&serviceDesc, s)
	reflection.Register(srv)

	for name, info := range srv.GetServiceInfo() {
		for _, m := range info.Methods {
			s.Log.Infof("serving gRPC method %s", name+"/"+m.Name)
		}
	}

	go func() {
		<-ctx.Done()
		s.Log.Infof("shutting down TypeBridge service at %s", listenAddr)
		srv.GracefulStop()
	}()

	s.Log.Infof("TypeBridge service listening on %s (backend=%s)", listenAddr, s.Backend)
	return srv.Serve(lis)
}

// recoverInterceptor turns a bridgeerr panic into a gRPC status error
// instead of crashing the process — the single recovery point spec.md §7
// calls for at the service boundary.
func (s *Service) recoverInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
	defer func() {
		if r := recover(); r != nil {
			switch e := r.(type) {
			case *bridgeerr.ContractViolationError:
				err = status.Error(codes.InvalidArgument, e.Error())
			case *bridgeerr.MissingSymbolError:
				err = status.Error(codes.NotFound, e.Error())
			default:
				err = status.Errorf(codes.Internal, "panic in %s: %v", info.FullMethod, r)
			}
		}
	}()
	return handler(ctx, req)
}

// roundInterceptor assigns and logs a round id for every request, and
// records it in the round ledger.
func (s *Service) roundInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	roundID := uuid.NewString()
	started := time.Now()

	if s.Rounds != nil {
		if err := s.Rounds.Begin(roundID, s.Backend, started); err != nil {
			s.Log.Warnf("round %s: failed to record start: %v", roundID, err)
		}
	}
	rlog := s.Log.ForRound(roundID)
	rlog.Infof("handling %s", info.FullMethod)

	resp, err := handler(ctx, req)

	outcome := roundstore.OutcomeOK
	detail := ""
	if err != nil {
		outcome = roundstore.OutcomeFailed
		detail = err.Error()
		rlog.Errorf("%s failed: %v", info.FullMethod, err)
	}
	if s.Rounds != nil {
		if rerr := s.Rounds.Finish(roundID, time.Now(), outcome, detail); rerr != nil {
			rlog.Warnf("failed to record round finish: %v", rerr)
		}
	}
	return resp, err
}

// requireStruct rejects a non-*structpb.Struct request, which would
// otherwise be a confusing nil-pointer panic deep inside one of the
// handlers below.
func requireStruct(req any) (*structpb.Struct, error) {
	s, ok := req.(*structpb.Struct)
	if !ok {
		return nil, status.Errorf(codes.InvalidArgument, "expected google.protobuf.Struct, got %T", req)
	}
	return s, nil
}

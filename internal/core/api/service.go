// Package api implements the remap.v1.Transform gRPC service.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/solatis/remap/internal/core/logging"
	"github.com/solatis/remap/internal/transform"
	"github.com/solatis/remap/internal/value"
)

// TransformService runs requests through a transform.Remap.
// Thin adapter: conversion, status mapping and the program ID header.
type TransformService struct {
	remap  *transform.Remap
	logger *slog.Logger
}

var _ TransformServer = (*TransformService)(nil)

// NewTransformService creates a service over remap.
func NewTransformService(remap *transform.Remap, logger *slog.Logger) (*TransformService, error) {
	if remap == nil {
		return nil, fmt.Errorf("remap cannot be nil")
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &TransformService{
		remap:  remap,
		logger: logger.With("service", ServiceName),
	}, nil
}

// Transform applies the program to one event. A failed event is returned
// unchanged unless the component drops on error, in which case the call
// fails with INVALID_ARGUMENT.
func (s *TransformService) Transform(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	s.setProgramHeader(ctx)

	res := s.remap.Process(ctx, StructToObject(req))
	if res.Err != nil {
		if st := contextStatus(res.Err); st != nil {
			return nil, st.Err()
		}
		if res.Dropped {
			return nil, status.Error(codes.InvalidArgument, res.Err.Error())
		}
		return req, nil
	}

	out, err := ObjectToStruct(res.Event)
	if err != nil {
		return nil, encodeStatus(err, "failed to encode event")
	}
	return out, nil
}

// TransformBatch applies the program to every event of the list. Each
// element must be a Struct. Dropped events come back as null; failed events
// that are not dropped come back unchanged.
func (s *TransformService) TransformBatch(ctx context.Context, req *structpb.ListValue) (*structpb.ListValue, error) {
	s.setProgramHeader(ctx)

	items := req.GetValues()
	events := make([]value.Object, len(items))
	for i, item := range items {
		st := item.GetStructValue()
		if st == nil {
			return nil, status.Error(codes.InvalidArgument, fmt.Sprintf("event %d is not an object", i))
		}
		events[i] = StructToObject(st)
	}

	results, err := s.remap.ProcessBatch(ctx, events)
	if err != nil {
		if st := contextStatus(err); st != nil {
			return nil, st.Err()
		}
		if errors.Is(err, transform.ErrBatchTooLarge) {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		return nil, status.Error(codes.Internal, err.Error())
	}

	out := &structpb.ListValue{Values: make([]*structpb.Value, len(results))}
	for i, res := range results {
		switch {
		case res.Dropped:
			out.Values[i] = structpb.NewNullValue()
		case res.Err != nil:
			out.Values[i] = items[i]
		default:
			st, err := ObjectToStruct(res.Event)
			if err != nil {
				return nil, encodeStatus(err, fmt.Sprintf("failed to encode event %d", i))
			}
			out.Values[i] = structpb.NewStructValue(st)
		}
	}
	return out, nil
}

// encodeStatus maps a response encoding failure. An event the program made
// unrepresentable is the caller's problem, anything else is ours.
func encodeStatus(err error, msg string) error {
	code := codes.Internal
	if errors.Is(err, ErrNotEncodable) {
		code = codes.InvalidArgument
	}
	return status.Error(code, fmt.Sprintf("%s: %v", msg, err))
}

func (s *TransformService) setProgramHeader(ctx context.Context) {
	md := metadata.Pairs(ProgramIDHeader, string(s.remap.Program().ID))
	if err := grpc.SetHeader(ctx, md); err != nil {
		s.logger.Debug("program id header not set", "error", err)
	}
}

func contextStatus(err error) *status.Status {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return status.FromContextError(err)
	}
	return nil
}

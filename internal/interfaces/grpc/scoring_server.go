package grpc

import (
	"context"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/turtacn/loanrisk/internal/application/service"
	"github.com/turtacn/loanrisk/internal/domain/models"
	"github.com/turtacn/loanrisk/internal/infrastructure/classifier"
	"github.com/turtacn/loanrisk/pkg/classifierpb"
	"github.com/turtacn/loanrisk/pkg/constants"
	"github.com/turtacn/loanrisk/pkg/logger"
)

// ScoringService implements classifierpb.ClassifierServer on top of the
// prediction application service, so one deployment can act as the model
// server of another.
type ScoringService struct {
	predictions service.PredictionAppService
	log         logger.Logger
}

// NewScoringService creates a new ScoringService.
func NewScoringService(predictions service.PredictionAppService, log logger.Logger) *ScoringService {
	return &ScoringService{predictions: predictions, log: log}
}

// Predict decodes the record, scores it and answers (label, [P(Non-Default), P(Default)]).
func (s *ScoringService) Predict(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	record, err := classifier.DecodeRecord(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	res, err := s.predictions.Predict(ctx, record, constants.SourceGRPC)
	if err != nil {
		return nil, err
	}

	return classifier.EncodeClassification(&models.Classification{
		Label:         res.Label,
		Probabilities: []float64{res.NonDefaultProbability(), res.ProbabilityOfDefault},
	}, res.ModelVersion)
}

// Server runs the gRPC scoring endpoint.
type Server struct {
	server *grpc.Server
	health *health.Server
	addr   string
	log    logger.Logger
}

// NewServer builds a gRPC server exposing loanrisk.v1.Classifier and the
// standard health service.
func NewServer(addr string, predictions service.PredictionAppService, log logger.Logger, opts ...grpc.ServerOption) *Server {
	chain := NewInterceptorChain(log)
	server := grpc.NewServer(append([]grpc.ServerOption{chain.ChainUnaryInterceptors()}, opts...)...)
	classifierpb.RegisterClassifierServer(server, NewScoringService(predictions, log))

	hs := health.NewServer()
	hs.SetServingStatus(classifierpb.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(server, hs)

	return &Server{server: server, health: hs, addr: addr, log: log}
}

// Start listens on the configured address and serves until Stop.
func (s *Server) Start() error {
	lis, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(lis)
}

// Serve serves on lis until Stop.
func (s *Server) Serve(lis net.Listener) error {
	s.log.Info(context.Background(), "Starting gRPC server", logger.String("address", lis.Addr().String()))
	if err := s.server.Serve(lis); err != nil && err != grpc.ErrServerStopped {
		return err
	}
	return nil
}

// Stop drains in-flight calls, forcing a stop when ctx expires first.
func (s *Server) Stop(ctx context.Context) error {
	s.log.Info(ctx, "Stopping gRPC server...")
	s.health.Shutdown()

	done := make(chan struct{})
	go func() {
		s.server.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.server.Stop()
		return ctx.Err()
	}
}

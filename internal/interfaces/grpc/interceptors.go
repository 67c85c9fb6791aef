package grpc

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"github.com/turtacn/loanrisk/internal/domain/models"
	"github.com/turtacn/loanrisk/pkg/errors"
	"github.com/turtacn/loanrisk/pkg/logger"
	"google.golang.org/grpc"
	grpcCodes "google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// InterceptorChain 拦截器链
type InterceptorChain struct {
	log logger.Logger
}

// NewInterceptorChain 创建拦截器链
func NewInterceptorChain(log logger.Logger) *InterceptorChain {
	return &InterceptorChain{log: log}
}

// UnaryRecoveryInterceptor 恢复拦截器(捕获 panic)
func (ic *InterceptorChain) UnaryRecoveryInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (resp interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				ic.log.Error(ctx, "gRPC handler panic recovered", fmt.Errorf("%v", r),
					logger.String("method", info.FullMethod),
				)
				err = status.Error(grpcCodes.Internal, "internal server error")
			}
		}()

		return handler(ctx, req)
	}
}

// UnaryLoggingInterceptor 日志拦截器
func (ic *InterceptorChain) UnaryLoggingInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		startTime := time.Now()

		// 提取 Metadata
		md, _ := metadata.FromIncomingContext(ctx)
		var userAgent string
		if agents := md.Get("user-agent"); len(agents) > 0 {
			userAgent = agents[0]
		}

		// 执行处理器
		resp, err := handler(ctx, req)

		ic.log.Info(ctx, "gRPC request completed", logger.Fields{
			"method":      info.FullMethod,
			"user_agent":  userAgent,
			"duration_ms": time.Since(startTime).Milliseconds(),
			"status":      status.Code(err).String(),
		})

		return resp, err
	}
}

// UnaryErrorInterceptor 错误转换拦截器(将领域错误转换为 gRPC 状态码)
func (ic *InterceptorChain) UnaryErrorInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		resp, err := handler(ctx, req)
		if err == nil {
			return resp, nil
		}

		// 转换领域错误为 gRPC 状态码
		return resp, convertDomainErrorToGRPC(err)
	}
}

// convertDomainErrorToGRPC 将领域错误转换为 gRPC 错误
func convertDomainErrorToGRPC(err error) error {
	var verrs models.ValidationErrors
	if stderrors.As(err, &verrs) {
		return status.Error(grpcCodes.InvalidArgument, verrs.Error())
	}

	se, ok := errors.AsServiceError(err)
	if !ok {
		switch {
		case stderrors.Is(err, context.DeadlineExceeded):
			return status.Error(grpcCodes.DeadlineExceeded, err.Error())
		case stderrors.Is(err, context.Canceled):
			return status.Error(grpcCodes.Canceled, err.Error())
		}
		if st, isStatus := status.FromError(err); isStatus {
			return st.Err()
		}
		return status.Error(grpcCodes.Internal, "internal server error")
	}

	switch se.HTTPStatus() {
	case http.StatusNotFound:
		return status.Error(grpcCodes.NotFound, se.Error())
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return status.Error(grpcCodes.InvalidArgument, se.Error())
	case http.StatusServiceUnavailable:
		return status.Error(grpcCodes.Unavailable, se.Error())
	default:
		return status.Error(grpcCodes.Internal, se.Error())
	}
}

// ChainUnaryInterceptors 链式调用所有拦截器
func (ic *InterceptorChain) ChainUnaryInterceptors() grpc.ServerOption {
	return grpc.ChainUnaryInterceptor(
		ic.UnaryRecoveryInterceptor(), // 1. 恢复 panic
		ic.UnaryLoggingInterceptor(),  // 2. 日志
		ic.UnaryErrorInterceptor(),    // 3. 错误转换
	)
}

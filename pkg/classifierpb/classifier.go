// Package classifierpb is the gRPC contract of the loanrisk.v1.Classifier service.
// Messages are google.protobuf.Struct values, so no generated code is needed:
//
//	Predict(Struct{<record fields>}) returns (Struct{label: number, probabilities: [p0, p1]})
package classifierpb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName        = "loanrisk.v1.Classifier"
	PredictMethod      = "Predict"
	PredictFullMethod  = "/" + ServiceName + "/" + PredictMethod
	FieldLabel         = "label"
	FieldProbabilities = "probabilities"
	FieldModelVersion  = "model_version"
)

// ClassifierServer is the server API for the Classifier service.
type ClassifierServer interface {
	Predict(ctx context.Context, record *structpb.Struct) (*structpb.Struct, error)
}

// ClassifierClient is the client API for the Classifier service.
type ClassifierClient interface {
	Predict(ctx context.Context, record *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type classifierClient struct {
	cc grpc.ClientConnInterface
}

// NewClassifierClient binds a client to an open connection.
func NewClassifierClient(cc grpc.ClientConnInterface) ClassifierClient {
	return &classifierClient{cc: cc}
}

func (c *classifierClient) Predict(ctx context.Context, record *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, PredictFullMethod, record, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// RegisterClassifierServer registers srv on s.
func RegisterClassifierServer(s grpc.ServiceRegistrar, srv ClassifierServer) {
	s.RegisterService(&ClassifierServiceDesc, srv)
}

func predictHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ClassifierServer).Predict(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: PredictFullMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ClassifierServer).Predict(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// ClassifierServiceDesc is the grpc.ServiceDesc for the Classifier service.
var ClassifierServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ClassifierServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: PredictMethod,
			Handler:    predictHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "loanrisk/v1/classifier.proto",
}

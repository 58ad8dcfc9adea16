package grpc

// proto.go is the hand-written equivalent of the generated service code for
// installment.v1.InstallmentService. Messages travel as JSON through the
// codec registered below, so the application DTOs double as wire messages.

import (
	"context"
	"encoding/json"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/encoding"
	"google.golang.org/grpc/status"

	"github.com/bibbank/installments/internal/application/dto"
)

// CodecName is the content subtype clients select with
// grpc.CallContentSubtype(CodecName).
const CodecName = "json"

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (jsonCodec) Name() string                       { return CodecName }

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "installment.v1.InstallmentService"

// InstallmentServiceServer is the server API for InstallmentService.
type InstallmentServiceServer interface {
	CreatePortfolio(context.Context, *dto.CreatePortfolioRequest) (*dto.PortfolioResponse, error)
	GetPortfolio(context.Context, *dto.GetPortfolioRequest) (*dto.GetPortfolioResponse, error)
	PayInstallment(context.Context, *dto.PayInstallmentRequest) (*dto.PaymentResponse, error)
	PayMultipleInstallments(context.Context, *dto.PayMultipleInstallmentsRequest) (*dto.PaymentResponse, error)
	PayLumpSum(context.Context, *dto.PayLumpSumRequest) (*dto.PaymentResponse, error)
	CancelInstallment(context.Context, *dto.CancelInstallmentRequest) (*dto.InstallmentResponse, error)
	ReversePayment(context.Context, *dto.ReversePaymentRequest) (*dto.InstallmentResponse, error)
	mustEmbedUnimplementedInstallmentServiceServer()
}

// UnimplementedInstallmentServiceServer provides forward-compatible default implementations.
type UnimplementedInstallmentServiceServer struct{}

func (UnimplementedInstallmentServiceServer) CreatePortfolio(context.Context, *dto.CreatePortfolioRequest) (*dto.PortfolioResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method CreatePortfolio not implemented")
}
func (UnimplementedInstallmentServiceServer) GetPortfolio(context.Context, *dto.GetPortfolioRequest) (*dto.GetPortfolioResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetPortfolio not implemented")
}
func (UnimplementedInstallmentServiceServer) PayInstallment(context.Context, *dto.PayInstallmentRequest) (*dto.PaymentResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method PayInstallment not implemented")
}
func (UnimplementedInstallmentServiceServer) PayMultipleInstallments(context.Context, *dto.PayMultipleInstallmentsRequest) (*dto.PaymentResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method PayMultipleInstallments not implemented")
}
func (UnimplementedInstallmentServiceServer) PayLumpSum(context.Context, *dto.PayLumpSumRequest) (*dto.PaymentResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method PayLumpSum not implemented")
}
func (UnimplementedInstallmentServiceServer) CancelInstallment(context.Context, *dto.CancelInstallmentRequest) (*dto.InstallmentResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method CancelInstallment not implemented")
}
func (UnimplementedInstallmentServiceServer) ReversePayment(context.Context, *dto.ReversePaymentRequest) (*dto.InstallmentResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ReversePayment not implemented")
}
func (UnimplementedInstallmentServiceServer) mustEmbedUnimplementedInstallmentServiceServer() {}

// RegisterInstallmentServiceServer registers srv with the gRPC server.
func RegisterInstallmentServiceServer(s grpclib.ServiceRegistrar, srv InstallmentServiceServer) {
	s.RegisterService(&installmentServiceDesc, srv)
}

var installmentServiceDesc = grpclib.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*InstallmentServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "CreatePortfolio", Handler: unary("CreatePortfolio", InstallmentServiceServer.CreatePortfolio)},
		{MethodName: "GetPortfolio", Handler: unary("GetPortfolio", InstallmentServiceServer.GetPortfolio)},
		{MethodName: "PayInstallment", Handler: unary("PayInstallment", InstallmentServiceServer.PayInstallment)},
		{MethodName: "PayMultipleInstallments", Handler: unary("PayMultipleInstallments", InstallmentServiceServer.PayMultipleInstallments)},
		{MethodName: "PayLumpSum", Handler: unary("PayLumpSum", InstallmentServiceServer.PayLumpSum)},
		{MethodName: "CancelInstallment", Handler: unary("CancelInstallment", InstallmentServiceServer.CancelInstallment)},
		{MethodName: "ReversePayment", Handler: unary("ReversePayment", InstallmentServiceServer.ReversePayment)},
	},
	Streams: []grpclib.StreamDesc{},
}

// FullMethod returns the gRPC method path of a service method.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// unary adapts a typed service method to the untyped handler signature the
// service descriptor expects, running the interceptor chain when present.
func unary[Req, Resp any](
	method string,
	call func(InstallmentServiceServer, context.Context, *Req) (*Resp, error),
) func(any, context.Context, func(any) error, grpclib.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(InstallmentServiceServer), ctx, in)
		}
		info := &grpclib.UnaryServerInfo{
			Server:     srv,
			FullMethod: FullMethod(method),
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(InstallmentServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

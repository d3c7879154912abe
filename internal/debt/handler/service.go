package handler

import (
	"context"

	"github.com/fekuna/omnipos-ledger/internal/transport/grpcjson"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
)

const ServiceName = "ledger.v1.DebtService"

type DebtServer interface {
	CreateDebt(context.Context, *CreateDebtRequest) (*DebtResponse, error)
	RecordPayment(context.Context, *RecordPaymentRequest) (*PaymentResponse, error)
	RemoveDebt(context.Context, *GetDebtRequest) (*emptypb.Empty, error)
	GetDebt(context.Context, *GetDebtRequest) (*DebtResponse, error)
	ListDebts(context.Context, *ListDebtsRequest) (*ListDebtsResponse, error)
	ListPayments(context.Context, *GetDebtRequest) (*ListPaymentsResponse, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DebtServer)(nil),
	Methods: []grpc.MethodDesc{
		grpcjson.Unary(ServiceName, "CreateDebt", func(srv interface{}, ctx context.Context, req *CreateDebtRequest) (*DebtResponse, error) {
			return srv.(DebtServer).CreateDebt(ctx, req)
		}),
		grpcjson.Unary(ServiceName, "RecordPayment", func(srv interface{}, ctx context.Context, req *RecordPaymentRequest) (*PaymentResponse, error) {
			return srv.(DebtServer).RecordPayment(ctx, req)
		}),
		grpcjson.Unary(ServiceName, "RemoveDebt", func(srv interface{}, ctx context.Context, req *GetDebtRequest) (*emptypb.Empty, error) {
			return srv.(DebtServer).RemoveDebt(ctx, req)
		}),
		grpcjson.Unary(ServiceName, "GetDebt", func(srv interface{}, ctx context.Context, req *GetDebtRequest) (*DebtResponse, error) {
			return srv.(DebtServer).GetDebt(ctx, req)
		}),
		grpcjson.Unary(ServiceName, "ListDebts", func(srv interface{}, ctx context.Context, req *ListDebtsRequest) (*ListDebtsResponse, error) {
			return srv.(DebtServer).ListDebts(ctx, req)
		}),
		grpcjson.Unary(ServiceName, "ListPayments", func(srv interface{}, ctx context.Context, req *GetDebtRequest) (*ListPaymentsResponse, error) {
			return srv.(DebtServer).ListPayments(ctx, req)
		}),
	},
	Streams: []grpc.StreamDesc{},
}

func RegisterDebtServer(s grpc.ServiceRegistrar, srv DebtServer) {
	s.RegisterService(&ServiceDesc, srv)
}

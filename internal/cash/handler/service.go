package handler

import (
	"context"

	"github.com/fekuna/omnipos-ledger/internal/transport/grpcjson"
	"google.golang.org/grpc"
)

const ServiceName = "ledger.v1.CashService"

type CashServer interface {
	RequestWithdrawal(context.Context, *RequestWithdrawalRequest) (*WithdrawalResponse, error)
	ApproveWithdrawal(context.Context, *ApproveWithdrawalRequest) (*WithdrawalResponse, error)
	ListWithdrawals(context.Context, *ListWithdrawalsRequest) (*ListWithdrawalsResponse, error)
	CloseCash(context.Context, *CloseCashRequest) (*ClosingResponse, error)
	GetClosing(context.Context, *GetClosingRequest) (*ClosingResponse, error)
	ListClosings(context.Context, *ListClosingsRequest) (*ListClosingsResponse, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CashServer)(nil),
	Methods: []grpc.MethodDesc{
		grpcjson.Unary(ServiceName, "RequestWithdrawal", func(srv interface{}, ctx context.Context, req *RequestWithdrawalRequest) (*WithdrawalResponse, error) {
			return srv.(CashServer).RequestWithdrawal(ctx, req)
		}),
		grpcjson.Unary(ServiceName, "ApproveWithdrawal", func(srv interface{}, ctx context.Context, req *ApproveWithdrawalRequest) (*WithdrawalResponse, error) {
			return srv.(CashServer).ApproveWithdrawal(ctx, req)
		}),
		grpcjson.Unary(ServiceName, "ListWithdrawals", func(srv interface{}, ctx context.Context, req *ListWithdrawalsRequest) (*ListWithdrawalsResponse, error) {
			return srv.(CashServer).ListWithdrawals(ctx, req)
		}),
		grpcjson.Unary(ServiceName, "CloseCash", func(srv interface{}, ctx context.Context, req *CloseCashRequest) (*ClosingResponse, error) {
			return srv.(CashServer).CloseCash(ctx, req)
		}),
		grpcjson.Unary(ServiceName, "GetClosing", func(srv interface{}, ctx context.Context, req *GetClosingRequest) (*ClosingResponse, error) {
			return srv.(CashServer).GetClosing(ctx, req)
		}),
		grpcjson.Unary(ServiceName, "ListClosings", func(srv interface{}, ctx context.Context, req *ListClosingsRequest) (*ListClosingsResponse, error) {
			return srv.(CashServer).ListClosings(ctx, req)
		}),
	},
	Streams: []grpc.StreamDesc{},
}

func RegisterCashServer(s grpc.ServiceRegistrar, srv CashServer) {
	s.RegisterService(&ServiceDesc, srv)
}

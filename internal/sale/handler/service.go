package handler

import (
	"context"

	"github.com/fekuna/omnipos-ledger/internal/transport/grpcjson"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
)

const ServiceName = "ledger.v1.SaleService"

type SaleServer interface {
	CreateSale(context.Context, *CreateSaleRequest) (*SaleResponse, error)
	GetSale(context.Context, *GetSaleRequest) (*SaleResponse, error)
	ListSales(context.Context, *ListSalesRequest) (*ListSalesResponse, error)
	VoidSale(context.Context, *VoidSaleRequest) (*SaleResponse, error)
	DeleteSale(context.Context, *GetSaleRequest) (*emptypb.Empty, error)
	RemoveSaleItem(context.Context, *RemoveSaleItemRequest) (*SaleResponse, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SaleServer)(nil),
	Methods: []grpc.MethodDesc{
		grpcjson.Unary(ServiceName, "CreateSale", func(srv interface{}, ctx context.Context, req *CreateSaleRequest) (*SaleResponse, error) {
			return srv.(SaleServer).CreateSale(ctx, req)
		}),
		grpcjson.Unary(ServiceName, "GetSale", func(srv interface{}, ctx context.Context, req *GetSaleRequest) (*SaleResponse, error) {
			return srv.(SaleServer).GetSale(ctx, req)
		}),
		grpcjson.Unary(ServiceName, "ListSales", func(srv interface{}, ctx context.Context, req *ListSalesRequest) (*ListSalesResponse, error) {
			return srv.(SaleServer).ListSales(ctx, req)
		}),
		grpcjson.Unary(ServiceName, "VoidSale", func(srv interface{}, ctx context.Context, req *VoidSaleRequest) (*SaleResponse, error) {
			return srv.(SaleServer).VoidSale(ctx, req)
		}),
		grpcjson.Unary(ServiceName, "DeleteSale", func(srv interface{}, ctx context.Context, req *GetSaleRequest) (*emptypb.Empty, error) {
			return srv.(SaleServer).DeleteSale(ctx, req)
		}),
		grpcjson.Unary(ServiceName, "RemoveSaleItem", func(srv interface{}, ctx context.Context, req *RemoveSaleItemRequest) (*SaleResponse, error) {
			return srv.(SaleServer).RemoveSaleItem(ctx, req)
		}),
	},
	Streams: []grpc.StreamDesc{},
}

func RegisterSaleServer(s grpc.ServiceRegistrar, srv SaleServer) {
	s.RegisterService(&ServiceDesc, srv)
}

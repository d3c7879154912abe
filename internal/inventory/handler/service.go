package handler

import (
	"context"

	"github.com/fekuna/omnipos-ledger/internal/transport/grpcjson"
	"google.golang.org/grpc"
)

const ServiceName = "ledger.v1.InventoryService"

type InventoryServer interface {
	GetProductStock(context.Context, *GetProductStockRequest) (*ProductStockResponse, error)
	AdjustInventory(context.Context, *AdjustInventoryRequest) (*MovementResponse, error)
	ListMovements(context.Context, *ListMovementsRequest) (*ListMovementsResponse, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*InventoryServer)(nil),
	Methods: []grpc.MethodDesc{
		grpcjson.Unary(ServiceName, "GetProductStock", func(srv interface{}, ctx context.Context, req *GetProductStockRequest) (*ProductStockResponse, error) {
			return srv.(InventoryServer).GetProductStock(ctx, req)
		}),
		grpcjson.Unary(ServiceName, "AdjustInventory", func(srv interface{}, ctx context.Context, req *AdjustInventoryRequest) (*MovementResponse, error) {
			return srv.(InventoryServer).AdjustInventory(ctx, req)
		}),
		grpcjson.Unary(ServiceName, "ListMovements", func(srv interface{}, ctx context.Context, req *ListMovementsRequest) (*ListMovementsResponse, error) {
			return srv.(InventoryServer).ListMovements(ctx, req)
		}),
	},
	Streams: []grpc.StreamDesc{},
}

func RegisterInventoryServer(s grpc.ServiceRegistrar, srv InventoryServer) {
	s.RegisterService(&ServiceDesc, srv)
}

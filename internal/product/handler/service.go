package handler

import (
	"context"

	"github.com/fekuna/omnipos-ledger/internal/transport/grpcjson"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
)

const ServiceName = "ledger.v1.ProductService"

type ProductServer interface {
	CreateProduct(context.Context, *CreateProductRequest) (*ProductResponse, error)
	GetProduct(context.Context, *GetProductRequest) (*ProductResponse, error)
	ListProducts(context.Context, *ListProductsRequest) (*ListProductsResponse, error)
	UpdateProduct(context.Context, *UpdateProductRequest) (*ProductResponse, error)
	DeactivateProduct(context.Context, *GetProductRequest) (*ProductResponse, error)
	ListLowStock(context.Context, *emptypb.Empty) (*ListProductsResponse, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ProductServer)(nil),
	Methods: []grpc.MethodDesc{
		grpcjson.Unary(ServiceName, "CreateProduct", func(srv interface{}, ctx context.Context, req *CreateProductRequest) (*ProductResponse, error) {
			return srv.(ProductServer).CreateProduct(ctx, req)
		}),
		grpcjson.Unary(ServiceName, "GetProduct", func(srv interface{}, ctx context.Context, req *GetProductRequest) (*ProductResponse, error) {
			return srv.(ProductServer).GetProduct(ctx, req)
		}),
		grpcjson.Unary(ServiceName, "ListProducts", func(srv interface{}, ctx context.Context, req *ListProductsRequest) (*ListProductsResponse, error) {
			return srv.(ProductServer).ListProducts(ctx, req)
		}),
		grpcjson.Unary(ServiceName, "UpdateProduct", func(srv interface{}, ctx context.Context, req *UpdateProductRequest) (*ProductResponse, error) {
			return srv.(ProductServer).UpdateProduct(ctx, req)
		}),
		grpcjson.Unary(ServiceName, "DeactivateProduct", func(srv interface{}, ctx context.Context, req *GetProductRequest) (*ProductResponse, error) {
			return srv.(ProductServer).DeactivateProduct(ctx, req)
		}),
		grpcjson.Unary(ServiceName, "ListLowStock", func(srv interface{}, ctx context.Context, req *emptypb.Empty) (*ListProductsResponse, error) {
			return srv.(ProductServer).ListLowStock(ctx, req)
		}),
	},
	Streams: []grpc.StreamDesc{},
}

func RegisterProductServer(s grpc.ServiceRegistrar, srv ProductServer) {
	s.RegisterService(&ServiceDesc, srv)
}

package handler

import (
	"context"

	"github.com/fekuna/omnipos-ledger/internal/transport/grpcjson"
	"google.golang.org/grpc"
)

const ServiceName = "ledger.v1.CustomerService"

type CustomerServer interface {
	CreateCustomer(context.Context, *CustomerRequest) (*CustomerResponse, error)
	GetCustomer(context.Context, *GetCustomerRequest) (*CustomerResponse, error)
	ListCustomers(context.Context, *ListCustomersRequest) (*ListCustomersResponse, error)
	UpdateCustomer(context.Context, *CustomerRequest) (*CustomerResponse, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CustomerServer)(nil),
	Methods: []grpc.MethodDesc{
		grpcjson.Unary(ServiceName, "CreateCustomer", func(srv interface{}, ctx context.Context, req *CustomerRequest) (*CustomerResponse, error) {
			return srv.(CustomerServer).CreateCustomer(ctx, req)
		}),
		grpcjson.Unary(ServiceName, "GetCustomer", func(srv interface{}, ctx context.Context, req *GetCustomerRequest) (*CustomerResponse, error) {
			return srv.(CustomerServer).GetCustomer(ctx, req)
		}),
		grpcjson.Unary(ServiceName, "ListCustomers", func(srv interface{}, ctx context.Context, req *ListCustomersRequest) (*ListCustomersResponse, error) {
			return srv.(CustomerServer).ListCustomers(ctx, req)
		}),
		grpcjson.Unary(ServiceName, "UpdateCustomer", func(srv interface{}, ctx context.Context, req *CustomerRequest) (*CustomerResponse, error) {
			return srv.(CustomerServer).UpdateCustomer(ctx, req)
		}),
	},
	Streams: []grpc.StreamDesc{},
}

func RegisterCustomerServer(s grpc.ServiceRegistrar, srv CustomerServer) {
	s.RegisterService(&ServiceDesc, srv)
}

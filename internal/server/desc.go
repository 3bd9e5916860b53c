package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "sales.v1.SalesReportService"

// Method names.
const (
	MethodCreateSession  = "CreateSession"
	MethodCloseSession   = "CloseSession"
	MethodUploadDataset  = "UploadDataset"
	MethodListProvinces  = "ListProvinces"
	MethodSelectProvince = "SelectProvince"
	MethodSelectCustomer = "SelectCustomer"
	MethodAddContact     = "AddContact"
	MethodExportReport   = "ExportReport"
)

// ReportService is the server API. Payloads are google.protobuf.Struct messages.
type ReportService interface {
	CreateSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CloseSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UploadDataset(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListProvinces(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SelectProvince(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SelectCustomer(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AddContact(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ExportReport(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(ReportService, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unary(name string, call unaryCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(ReportService), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + name}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(ReportService), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc describes ReportService for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ReportService)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodCreateSession, ReportService.CreateSession),
		unary(MethodCloseSession, ReportService.CloseSession),
		unary(MethodUploadDataset, ReportService.UploadDataset),
		unary(MethodListProvinces, ReportService.ListProvinces),
		unary(MethodSelectProvince, ReportService.SelectProvince),
		unary(MethodSelectCustomer, ReportService.SelectCustomer),
		unary(MethodAddContact, ReportService.AddContact),
		unary(MethodExportReport, ReportService.ExportReport),
	},
	Streams: []grpc.StreamDesc{},
}

// RegisterReportServiceServer registers srv on s.
func RegisterReportServiceServer(s grpc.ServiceRegistrar, srv ReportService) {
	s.RegisterService(&ServiceDesc, srv)
}

// Client calls ReportService over a connection.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Call invokes method with a JSON-like request and returns the decoded response.
func (c *Client) Call(ctx context.Context, method string, req map[string]any, opts ...grpc.CallOption) (map[string]any, error) {
	in, err := structpb.NewStruct(req)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out.AsMap(), nil
}

package grpc

import (
	"context"
	"errors"
	"math"
	"time"

	"catalog_service/internal/domain"
	"catalog_service/internal/usecase"

	"github.com/sirupsen/logrus"
	grpcgo "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const ServiceName = "catalog.v1.Catalog"

// CatalogServer is served over the well-known protobuf types so the
// service needs no generated stubs.
type CatalogServer interface {
	GetProduct(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error)
	SearchProducts(ctx context.Context, req *wrapperspb.StringValue) (*structpb.ListValue, error)
	BuyProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

type CatalogHandler struct {
	productUseCase usecase.ProductUseCase
	log            *logrus.Logger
}

var _ CatalogServer = (*CatalogHandler)(nil)

func NewCatalogHandler(puc usecase.ProductUseCase, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{
		productUseCase: puc,
		log:            logger,
	}
}

func mapDomainProductToStruct(prod *domain.Product) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		"id":          prod.ID,
		"name":        prod.Name,
		"sku":         prod.SKU,
		"description": prod.Description,
		"price":       prod.Price.String(),
		"stock":       prod.Stock,
		"category_id": prod.CategoryID,
		"image_url":   prod.ImageURL,
		"created_at":  prod.CreatedAt.UTC().Format(time.RFC3339),
	})
}

func (h *CatalogHandler) GetProduct(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error) {
	id := int(req.GetValue())
	h.log.Infof("gRPC Handler: Received GetProduct request: ID=%d", id)
	if id <= 0 {
		return nil, status.Error(codes.InvalidArgument, "Invalid product ID")
	}

	prod, err := h.productUseCase.GetProductByID(ctx, id)
	if err != nil {
		h.log.Warnf("gRPC Handler: GetProduct use case error for ID %d: %v", id, err)
		return nil, mapDomainErrorToGrpcStatus(err)
	}

	out, err := mapDomainProductToStruct(prod)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "Failed to encode product: %v", err)
	}
	return out, nil
}

func (h *CatalogHandler) SearchProducts(ctx context.Context, req *wrapperspb.StringValue) (*structpb.ListValue, error) {
	h.log.Infof("gRPC Handler: Received SearchProducts request: Term=%q", req.GetValue())

	products, err := h.productUseCase.SearchByTerm(ctx, req.GetValue())
	if err != nil {
		h.log.Errorf("gRPC Handler: SearchProducts use case error: %v", err)
		return nil, mapDomainErrorToGrpcStatus(err)
	}

	resp := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(products))}
	for i := range products {
		item, err := mapDomainProductToStruct(&products[i])
		if err != nil {
			return nil, status.Errorf(codes.Internal, "Failed to encode product: %v", err)
		}
		resp.Values = append(resp.Values, structpb.NewStructValue(item))
	}

	h.log.Infof("gRPC Handler: Found %d products", len(resp.Values))
	return resp, nil
}

// BuyProduct expects {"name": string, "quantity": number}.
func (h *CatalogHandler) BuyProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()
	name := fields["name"].GetStringValue()
	raw := fields["quantity"].GetNumberValue()
	h.log.Infof("gRPC Handler: Received BuyProduct request: Name=%s, Quantity=%v", name, raw)

	if raw != math.Trunc(raw) || math.Abs(raw) > math.MaxInt32 {
		return nil, status.Error(codes.InvalidArgument, "Quantity must be a whole number")
	}

	result, err := h.productUseCase.BuyProduct(ctx, name, int(raw))
	if err != nil {
		h.log.Warnf("gRPC Handler: BuyProduct use case error for %s: %v", name, err)
		return nil, mapDomainErrorToGrpcStatus(err)
	}

	out, err := structpb.NewStruct(map[string]interface{}{
		"name":      result.Name,
		"quantity":  result.Quantity,
		"remaining": result.Remaining,
	})
	if err != nil {
		return nil, status.Errorf(codes.Internal, "Failed to encode purchase: %v", err)
	}
	return out, nil
}

func mapDomainErrorToGrpcStatus(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidRequest):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrInsufficientStock):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, domain.ErrConflict):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrStoreUnavailable):
		return status.Error(codes.Unavailable, "store unavailable")
	default:
		return status.Error(codes.Internal, "Internal server error")
	}
}

func unaryHandler[Req any, Resp any](call func(CatalogServer, context.Context, *Req) (Resp, error), fullMethod string) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpcgo.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpcgo.UnaryServerInterceptor) (interface{}, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(CatalogServer), ctx, in)
		}
		info := &grpcgo.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(CatalogServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var catalogServiceDesc = grpcgo.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CatalogServer)(nil),
	Methods: []grpcgo.MethodDesc{
		{
			MethodName: "GetProduct",
			Handler:    unaryHandler(CatalogServer.GetProduct, "/"+ServiceName+"/GetProduct"),
		},
		{
			MethodName: "SearchProducts",
			Handler:    unaryHandler(CatalogServer.SearchProducts, "/"+ServiceName+"/SearchProducts"),
		},
		{
			MethodName: "BuyProduct",
			Handler:    unaryHandler(CatalogServer.BuyProduct, "/"+ServiceName+"/BuyProduct"),
		},
	},
	Streams: []grpcgo.StreamDesc{},
}

func RegisterCatalogServer(s grpcgo.ServiceRegistrar, srv CatalogServer) {
	s.RegisterService(&catalogServiceDesc, srv)
}

package grpc

// proto.go defines the gRPC service for problempulse/triage/v1/triage.proto.
// It stands in for generated code; messages are plain structs carried by the
// JSON codec in codec.go.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	serviceName = "problempulse.triage.v1.TriageService"

	// RecommendPriorityMethod is the full method name of RecommendPriority.
	RecommendPriorityMethod = "/" + serviceName + "/RecommendPriority"
	// RenderPromptMethod is the full method name of RenderPrompt.
	RenderPromptMethod = "/" + serviceName + "/RenderPrompt"
)

// RiskReportMsg represents the proto RiskReport message.
type RiskReportMsg struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
}

// RecommendPriorityRequest represents the proto RecommendPriorityRequest message.
type RecommendPriorityRequest struct {
	Report *RiskReportMsg `json:"report"`
}

// RecommendationMsg represents the proto Recommendation message.
type RecommendationMsg struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	Explanation string `json:"explanation"`
	Backend     string `json:"backend"`
	GeneratedAt string `json:"generated_at"`
}

// RecommendPriorityResponse represents the proto RecommendPriorityResponse message.
type RecommendPriorityResponse struct {
	Recommendation *RecommendationMsg `json:"recommendation"`
}

// RenderPromptRequest represents the proto RenderPromptRequest message.
type RenderPromptRequest struct {
	Report *RiskReportMsg `json:"report"`
}

// RenderPromptResponse represents the proto RenderPromptResponse message.
type RenderPromptResponse struct {
	Prompt string `json:"prompt"`
}

// TriageServiceServer is the server API for TriageService.
type TriageServiceServer interface {
	RecommendPriority(context.Context, *RecommendPriorityRequest) (*RecommendPriorityResponse, error)
	RenderPrompt(context.Context, *RenderPromptRequest) (*RenderPromptResponse, error)
	mustEmbedUnimplementedTriageServiceServer()
}

// UnimplementedTriageServiceServer provides forward-compatible default implementations.
type UnimplementedTriageServiceServer struct{}

func (UnimplementedTriageServiceServer) RecommendPriority(context.Context, *RecommendPriorityRequest) (*RecommendPriorityResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method RecommendPriority not implemented")
}
func (UnimplementedTriageServiceServer) RenderPrompt(context.Context, *RenderPromptRequest) (*RenderPromptResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method RenderPrompt not implemented")
}
func (UnimplementedTriageServiceServer) mustEmbedUnimplementedTriageServiceServer() {}

// RegisterTriageServiceServer registers the TriageServiceServer with the gRPC server.
func RegisterTriageServiceServer(s grpclib.ServiceRegistrar, srv TriageServiceServer) {
	s.RegisterService(&_TriageService_serviceDesc, srv)
}

var _TriageService_serviceDesc = grpclib.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*TriageServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "RecommendPriority", Handler: _TriageService_RecommendPriority_Handler},
		{MethodName: "RenderPrompt", Handler: _TriageService_RenderPrompt_Handler},
	},
	Streams:  []grpclib.StreamDesc{},
	Metadata: "problempulse/triage/v1/triage.proto",
}

func _TriageService_RecommendPriority_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(RecommendPriorityRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TriageServiceServer).RecommendPriority(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: RecommendPriorityMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(TriageServiceServer).RecommendPriority(ctx, req.(*RecommendPriorityRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func _TriageService_RenderPrompt_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(RenderPromptRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(TriageServiceServer).RenderPrompt(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: RenderPromptMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(TriageServiceServer).RenderPrompt(ctx, req.(*RenderPromptRequest))
	}
	return interceptor(ctx, req, info, handler)
}

// TriageServiceClient is the client API for TriageService.
type TriageServiceClient interface {
	RecommendPriority(ctx context.Context, in *RecommendPriorityRequest, opts ...grpclib.CallOption) (*RecommendPriorityResponse, error)
	RenderPrompt(ctx context.Context, in *RenderPromptRequest, opts ...grpclib.CallOption) (*RenderPromptResponse, error)
}

type triageServiceClient struct {
	cc grpclib.ClientConnInterface
}

// NewTriageServiceClient creates a client on a connection dialed with
// ClientCodecOption.
func NewTriageServiceClient(cc grpclib.ClientConnInterface) TriageServiceClient {
	return &triageServiceClient{cc: cc}
}

func (c *triageServiceClient) RecommendPriority(ctx context.Context, in *RecommendPriorityRequest, opts ...grpclib.CallOption) (*RecommendPriorityResponse, error) {
	out := new(RecommendPriorityResponse)
	if err := c.cc.Invoke(ctx, RecommendPriorityMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *triageServiceClient) RenderPrompt(ctx context.Context, in *RenderPromptRequest, opts ...grpclib.CallOption) (*RenderPromptResponse, error) {
	out := new(RenderPromptResponse)
	if err := c.cc.Invoke(ctx, RenderPromptMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

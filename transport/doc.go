// Package transport provides OpenTelemetry instrumentation for the HTTP
// and gRPC connections a model client uses to reach its backend. Transport
// spans appear as children of the generation spans emitted by the vertexai
// package, so one trace covers the full request path.
//
// # HTTP
//
//	httpClient := transport.NewHTTPClient(
//	    transport.WithTimeout(2 * time.Minute),
//	)
//
// # gRPC
//
//	conn, err := grpc.NewClient(target,
//	    grpc.WithStatsHandler(transport.GRPCClientHandler()),
//	)
package transport

// Package tracer provides distributed tracing on top of OpenTelemetry.
//
// The Task Service opens one span per operation (tasks.create, tasks.search, ...)
// and child spans around the embedding call and the store query. The embedding
// client injects the trace headers returned by GetCarrier into its outgoing
// request so traces continue into the embedding service.
//
// Export is off by default; set TRACING_ENABLE_EXPORT=true and optionally
// TRACING_OTLP_ENDPOINT to ship spans over OTLP/HTTP.
package tracer

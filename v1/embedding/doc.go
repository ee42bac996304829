// Package embedding is the client for the external embedding service that
// turns task descriptions and search queries into vectors.
//
// The service is an opaque collaborator with one call:
//
//	POST <EMBEDDING_SERVICE_URL>   {"text": "Get milk from the store"}
//	200 OK                         {"embedding": [0.013, -0.071, ...]}
//
// Callers depend on the Embedder interface so tests can substitute a
// deterministic stub (see MockEmbedder).
//
// # Failure contract
//
// Embed never retries. Transport errors, timeouts (EMBEDDING_HTTP_TIMEOUT_SECONDS),
// non-2xx statuses and payloads without a usable "embedding" array all return an
// error wrapping ErrUnavailable:
//
//	vec, err := client.Embed(ctx, text)
//	if errors.Is(err, embedding.ErrUnavailable) {
//	    // fail the enclosing operation, persist nothing
//	}
//
// Length checking against EMBEDDING_DIMENSION happens in the vector codec.
package embedding

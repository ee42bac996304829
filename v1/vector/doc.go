// Package vector is the codec between in-memory embeddings and the textual
// representation accepted by a pgvector `vector(N)` column.
//
// The codec enforces the system-wide dimensionality: an embedding of the wrong
// length is rejected before it can reach the database, where it would either
// fail the column type or, worse, silently skew distance ranking.
//
//	codec, _ := vector.NewCodec(384)
//	literal, err := codec.Encode(embedding) // "[0.1,-0.25,...]"
package vector

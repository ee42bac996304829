package vector

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/pgvector/pgvector-go"
)

var (
	// ErrDimensionMismatch is returned when a vector does not have the codec's dimension.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrNonFinite is returned when a vector contains NaN or ±Inf.
	ErrNonFinite = errors.New("vector contains non-finite value")

	// ErrMalformed is returned when a textual vector cannot be parsed.
	ErrMalformed = errors.New("malformed vector literal")
)

// Codec converts embeddings to and from the pgvector text literal
// "[v0,v1,...,vN-1]". Position i is embedding dimension i; order is preserved
// in both directions.
//
// A Codec is immutable and safe for concurrent use.
type Codec struct {
	dim int
}

// NewCodec returns a codec for vectors of exactly dim components.
func NewCodec(dim int) (*Codec, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("vector: dimension must be positive, got %d", dim)
	}
	return &Codec{dim: dim}, nil
}

// Dimension returns the fixed number of components.
func (c *Codec) Dimension() int {
	return c.dim
}

// Validate checks the length and finiteness of v.
func (c *Codec) Validate(v []float32) error {
	if len(v) != c.dim {
		return fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(v), c.dim)
	}
	for i, x := range v {
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w at index %d", ErrNonFinite, i)
		}
	}
	return nil
}

// Encode renders v as a pgvector literal. Every value uses the shortest
// representation that round-trips to the same float32.
func (c *Codec) Encode(v []float32) (string, error) {
	if err := c.Validate(v); err != nil {
		return "", err
	}
	return pgvector.NewVector(v).String(), nil
}

// Decode parses a pgvector literal back into its components.
func (c *Codec) Decode(s string) ([]float32, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		return nil, fmt.Errorf("%w: missing brackets", ErrMalformed)
	}

	var v pgvector.Vector
	if err := v.Parse(s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	out := v.Slice()
	if err := c.Validate(out); err != nil {
		return nil, err
	}
	return out, nil
}

// Distance returns the Euclidean (L2) distance between a and b, the metric
// behind pgvector's <-> operator. It panics if the lengths differ.
func Distance(a, b []float32) float64 {
	if len(a) != len(b) {
		panic(fmt.Sprintf("vector: distance between lengths %d and %d", len(a), len(b)))
	}

	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}

// ABOUTME: Error taxonomy for embedding generation
// ABOUTME: EmbeddingError is always fatal to the calling create/update operation
package embedder

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput indicates the input text was empty or whitespace-only.
	ErrEmptyInput = errors.New("input text is empty")
	// ErrZeroVector indicates the combined embedding had zero norm.
	ErrZeroVector = errors.New("embedding has zero norm")
	// ErrDimensionMismatch indicates an encoder result with the wrong length.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")
)

// EmbeddingError wraps a failure in any stage of embedding generation.
// Callers must treat it as fatal to the operation that needed the vector:
// a document that needed but lacks a vector is never persisted.
type EmbeddingError struct {
	Stage string
	Err   error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("embedding failed at %s: %v", e.Stage, e.Err)
}

func (e *EmbeddingError) Unwrap() error {
	return e.Err
}

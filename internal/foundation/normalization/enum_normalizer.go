package normalization

import "fmt"

// EnumNormalizer is a Normalizer that names the setting it validates.
type EnumNormalizer[T comparable] struct {
	*Normalizer[T]
	name string
}

// NewEnumNormalizer creates a normalizer for the setting called name.
func NewEnumNormalizer[T comparable](name string, values map[string]T, defaultValue T) *EnumNormalizer[T] {
	return &EnumNormalizer[T]{Normalizer: NewNormalizer(values, defaultValue), name: name}
}

// Validate normalizes raw and names the setting in any error.
func (e *EnumNormalizer[T]) Validate(raw string) (T, error) {
	v, err := e.NormalizeWithError(raw)
	if err != nil {
		return v, fmt.Errorf("invalid %s: %w", e.name, err)
	}
	return v, nil
}

// Name returns the setting name.
func (e *EnumNormalizer[T]) Name() string { return e.name }

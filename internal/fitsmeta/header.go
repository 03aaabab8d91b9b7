package fitsmeta

import (
	"fmt"
	"math"
	"math/big"
	"strings"
)

// Header is the capability set needed from a FITS header: ordered keyword
// iteration, case-insensitive value lookup and a comment for any keyword.
// Values are scalars: bool, a Go integer type (or *big.Int), float32/float64
// or string.
type Header interface {
	Keys() []string
	Get(key string) (any, bool)
	Comment(key string) string
}

type card struct {
	key     string
	value   any
	comment string
}

// MapHeader is an ordered, case-insensitive in-memory Header.
// Setting an existing keyword replaces its value in place.
type MapHeader struct {
	cards []card
	index map[string]int

	// CommentFunc, when set, supplies comments for keywords without an
	// explicit one.
	CommentFunc func(key string) string
}

// NewMapHeader creates an empty header.
func NewMapHeader() *MapHeader {
	return &MapHeader{index: make(map[string]int)}
}

func normalizeKey(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}

// Set adds or replaces a keyword value and returns the header for chaining.
func (h *MapHeader) Set(key string, value any) *MapHeader {
	return h.SetWithComment(key, value, "")
}

// SetWithComment adds or replaces a keyword value together with its comment.
func (h *MapHeader) SetWithComment(key string, value any, comment string) *MapHeader {
	if h.index == nil {
		h.index = make(map[string]int)
	}
	norm := normalizeKey(key)
	if i, ok := h.index[norm]; ok {
		h.cards[i].value = value
		if comment != "" {
			h.cards[i].comment = comment
		}
		return h
	}
	h.index[norm] = len(h.cards)
	h.cards = append(h.cards, card{key: strings.TrimSpace(key), value: value, comment: comment})
	return h
}

// Keys returns the keywords in insertion order.
func (h *MapHeader) Keys() []string {
	keys := make([]string, 0, len(h.cards))
	for _, c := range h.cards {
		keys = append(keys, c.key)
	}
	return keys
}

// Get looks up a keyword, ignoring case and surrounding spaces.
func (h *MapHeader) Get(key string) (any, bool) {
	i, ok := h.index[normalizeKey(key)]
	if !ok {
		return nil, false
	}
	return h.cards[i].value, true
}

// Comment returns the keyword's comment, falling back to CommentFunc.
func (h *MapHeader) Comment(key string) string {
	if i, ok := h.index[normalizeKey(key)]; ok && h.cards[i].comment != "" {
		return h.cards[i].comment
	}
	if h.CommentFunc != nil {
		return h.CommentFunc(key)
	}
	return ""
}

// Len returns the number of keywords.
func (h *MapHeader) Len() int {
	return len(h.cards)
}

// Has reports whether the header defines key.
func Has(h Header, key string) bool {
	_, ok := h.Get(key)
	return ok
}

// GetString returns a keyword value as a string with FITS padding removed.
func GetString(h Header, key string) (string, bool) {
	v, ok := h.Get(key)
	if !ok {
		return "", false
	}
	if s, ok := v.(string); ok {
		return strings.TrimRight(s, " "), true
	}
	return FormatValue(v), true
}

// GetInt returns an integer keyword. Values of a non-integer type fail with
// ErrMalformedHeader.
func GetInt(h Header, key string) (int64, error) {
	v, ok := h.Get(key)
	if !ok {
		return 0, fmt.Errorf("%w: missing %s", ErrMalformedHeader, key)
	}
	n, ok := toInt64(v)
	if !ok {
		return 0, fmt.Errorf("%w: %s is %T, want integer", ErrMalformedHeader, key, v)
	}
	return n, nil
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n <= math.MaxInt64 {
			return int64(n), true
		}
	case uint:
		if uint64(n) <= math.MaxInt64 {
			return int64(n), true
		}
	case *big.Int:
		if n != nil && n.IsInt64() {
			return n.Int64(), true
		}
	}
	return 0, false
}

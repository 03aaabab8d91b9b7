package fitsmeta

import "fmt"

// simHeader returns a header whose comments follow a fixed pattern, like a
// header read back from a file with generated comments.
func simHeader() *MapHeader {
	h := NewMapHeader()
	h.CommentFunc = func(key string) string {
		return fmt.Sprintf("This is the comment on %s.", key)
	}
	return h
}

func emptyPrimary() *MapHeader {
	return simHeader().
		Set("SIMPLE", true).
		Set("BITPIX", 8).
		Set("NAXIS", 0).
		Set("EXTEND", true)
}

package graph

import "strings"

var complement = strings.NewReplacer(
	"A", "T", "T", "A", "C", "G", "G", "C",
	"a", "t", "t", "a", "c", "g", "g", "c",
)

// ReverseComplement returns the key of the opposite strand. Symbols other
// than ACGT are kept as they are.
func ReverseComplement(key string) string {
	b := []byte(complement.Replace(key))
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}

// overlaps reports whether child follows parent in a de Bruijn graph: the
// last k-1 symbols of parent are the first k-1 of child
func overlaps(parent, child string) bool {
	if len(parent) != len(child) || len(parent) < 2 {
		return false
	}
	return parent[1:] == child[:len(child)-1]
}

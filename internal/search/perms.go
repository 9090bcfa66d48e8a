package search

import (
	"slices"
	"strings"

	"github.com/talshorer/spirit-island-144p-lair/pkg/lair"
)

// Sequence is an ordering of toplevel actions. The final ravage is implied.
type Sequence []string

func (s Sequence) String() string {
	return "(" + strings.Join(s, ", ") + ")"
}

// Candidates returns the sequences to plan: the forced line alone when one
// is given, otherwise every distinct ordering of actions plus both lair
// innates.
func Candidates(actions, forceLine []string) []Sequence {
	if len(forceLine) > 0 {
		return []Sequence{slices.Clone(forceLine)}
	}
	all := append(slices.Clone(actions), lair.ActionLairBlue, lair.ActionLairOrange)
	return Permutations(all)
}

// Permutations returns the distinct orderings of items in lexicographic
// order. Repeated items yield each ordering once.
func Permutations(items []string) []Sequence {
	cur := slices.Clone(items)
	slices.Sort(cur)
	out := []Sequence{slices.Clone(cur)}
	for nextPermutation(cur) {
		out = append(out, slices.Clone(cur))
	}
	return out
}

// nextPermutation rearranges s into its lexicographic successor, reporting
// false when s is already the last ordering.
func nextPermutation(s []string) bool {
	i := len(s) - 2
	for i >= 0 && s[i] >= s[i+1] {
		i--
	}
	if i < 0 {
		return false
	}
	j := len(s) - 1
	for s[j] <= s[i] {
		j--
	}
	s[i], s[j] = s[j], s[i]
	slices.Reverse(s[i+1:])
	return true
}

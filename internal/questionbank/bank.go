// Package questionbank loads, validates and generates the multiple-choice
// question sets learners are assessed on.
package questionbank

import (
	"sort"

	"github.com/abhisek/placeprep/internal/assessment"
)

// CommunityPrefix prefixes the IDs of sets built from reviewed generated
// questions.
const CommunityPrefix = "community-"

// Set is an ordered group of questions assessed together. Its ID is the
// gating context an attempt is recorded against.
type Set struct {
	ID          string
	Title       string
	Description string
	Questions   []assessment.Question
}

// Bank is a versioned collection of question sets.
type Bank struct {
	Version string
	sets    []Set
	byID    map[string]int
}

// NewBank creates an empty bank at the given document version.
func NewBank(version string) *Bank {
	return &Bank{Version: version, byID: make(map[string]int)}
}

// Put adds a set, replacing any existing set with the same ID in place.
func (b *Bank) Put(s Set) {
	if b.byID == nil {
		b.byID = make(map[string]int)
	}
	if i, ok := b.byID[s.ID]; ok {
		b.sets[i] = s
		return
	}
	b.byID[s.ID] = len(b.sets)
	b.sets = append(b.sets, s)
}

// Set returns the set with the given ID.
func (b *Bank) Set(id string) (Set, bool) {
	i, ok := b.byID[id]
	if !ok {
		return Set{}, false
	}
	return b.sets[i], true
}

// Sets returns all sets in document order.
func (b *Bank) Sets() []Set {
	out := make([]Set, len(b.sets))
	copy(out, b.sets)
	return out
}

// IDs returns set IDs sorted alphabetically.
func (b *Bank) IDs() []string {
	ids := make([]string, 0, len(b.sets))
	for _, s := range b.sets {
		ids = append(ids, s.ID)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of sets.
func (b *Bank) Len() int { return len(b.sets) }

// Merge returns a new bank with other's sets layered over b's. A set in
// other replaces the set with the same ID in b.
func (b *Bank) Merge(other *Bank) *Bank {
	out := NewBank(b.Version)
	for _, s := range b.sets {
		out.Put(s)
	}
	if other == nil {
		return out
	}
	for _, s := range other.sets {
		out.Put(s)
	}
	return out
}

// CommunitySet builds the set that holds verified generated questions for
// a topic.
func CommunitySet(topic string, questions []assessment.Question) Set {
	return Set{
		ID:          CommunitySetID(topic),
		Title:       "Community: " + topic,
		Description: "Generated questions verified by an admin.",
		Questions:   questions,
	}
}

// CommunitySetID returns the set ID for a topic's verified questions.
func CommunitySetID(topic string) string {
	return CommunityPrefix + Slug(topic)
}

package vocab

import (
	"fmt"
	"sort"
	"sync/atomic"
)

// Facet names recognized by the tagger. ItemType and Style are hierarchical
// (three levels), the rest are flat term sets.
const (
	FacetItemType = "ItemType"
	FacetStyle    = "Style"
	FacetGender   = "Gender"
	FacetColour   = "Colour"
	FacetMaterial = "Material"
	FacetPattern  = "Pattern"
	FacetBrand    = "Brand"
	FacetSize     = "Size"
)

// MaxDepth is the number of levels in a hierarchical facet.
const MaxDepth = 3

// ErrUnknownFacet is returned when a facet name is not present in the
// vocabulary. This is an integration error, not a validation outcome.
var ErrUnknownFacet = fmt.Errorf("unknown facet")

// ErrLevelRequired is returned when a hierarchical facet is queried without a
// level (or a flat facet is queried with one).
var ErrLevelRequired = fmt.Errorf("hierarchy level required")

// LoadError reports a malformed vocabulary definition. It is fatal at startup.
type LoadError struct {
	Facet  string
	Detail string
}

func (e *LoadError) Error() string {
	if e.Facet == "" {
		return "vocabulary: " + e.Detail
	}
	return fmt.Sprintf("vocabulary: facet %s: %s", e.Facet, e.Detail)
}

// Match is a closest-match result.
type Match struct {
	Term  string
	Score float64
}

// tree holds one hierarchical facet. Terms are stored in canonical casing,
// sorted per level for deterministic iteration.
type tree struct {
	levels  [MaxDepth][]string
	index   [MaxDepth]map[string]string   // normalized -> canonical
	parents [MaxDepth]map[string][]string // normalized child -> canonical parents (levels 2,3)
}

// Vocabulary is an immutable controlled-vocabulary snapshot. It is safe for
// concurrent use; reload happens by building a new Vocabulary and swapping it
// into a Snapshot, never by mutation.
type Vocabulary struct {
	trees map[string]*tree
	flats map[string][]string // canonical, sorted
	flatIndex map[string]map[string]string
}

// IsHierarchical reports whether the named facet is a hierarchy. The second
// return is false when the facet does not exist at all.
func (v *Vocabulary) IsHierarchical(facet string) (bool, bool) {
	if _, ok := v.trees[facet]; ok {
		return true, true
	}
	_, ok := v.flats[facet]
	return false, ok
}

// Terms returns the canonical term list for a facet, sorted. Level is
// required (1..3) for hierarchical facets and must be 0 for flat facets.
func (v *Vocabulary) Terms(facet string, level int) ([]string, error) {
	if t, ok := v.trees[facet]; ok {
		if level < 1 || level > MaxDepth {
			return nil, fmt.Errorf("facet %s: %w", facet, ErrLevelRequired)
		}
		return t.levels[level-1], nil
	}
	if terms, ok := v.flats[facet]; ok {
		if level != 0 {
			return nil, fmt.Errorf("facet %s is flat, level must be omitted: %w", facet, ErrLevelRequired)
		}
		return terms, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownFacet, facet)
}

// Lookup reports whether term exists in the facet at the given level and
// returns its canonical casing.
func (v *Vocabulary) Lookup(facet, term string, level int) (string, bool, error) {
	norm := Normalize(term)
	if t, ok := v.trees[facet]; ok {
		if level < 1 || level > MaxDepth {
			return "", false, fmt.Errorf("facet %s: %w", facet, ErrLevelRequired)
		}
		canonical, ok := t.index[level-1][norm]
		return canonical, ok, nil
	}
	if idx, ok := v.flatIndex[facet]; ok {
		if level != 0 {
			return "", false, fmt.Errorf("facet %s is flat, level must be omitted: %w", facet, ErrLevelRequired)
		}
		canonical, ok := idx[norm]
		return canonical, ok, nil
	}
	return "", false, fmt.Errorf("%w: %s", ErrUnknownFacet, facet)
}

// ClosestMatch returns the vocabulary term at the facet/level with the
// highest similarity to term, with its score. Equal top scores are broken by
// lexicographic order of the candidate so results are reproducible. The
// second return is false when the term set is empty.
func (v *Vocabulary) ClosestMatch(facet, term string, level int) (Match, bool, error) {
	terms, err := v.Terms(facet, level)
	if err != nil {
		return Match{}, false, err
	}
	return ClosestAmong(term, terms)
}

// ClosestAmong finds the highest-similarity candidate in a term list.
// Candidates are scanned in sorted order, and a strictly greater score is
// required to displace the current best, which yields the lexicographic
// tie-break.
func ClosestAmong(term string, candidates []string) (Match, bool, error) {
	if len(candidates) == 0 {
		return Match{}, false, nil
	}
	sorted := make([]string, len(candidates))
	copy(sorted, candidates)
	sort.Strings(sorted)

	best := Match{Score: -1}
	for _, c := range sorted {
		if score := Similarity(term, c); score > best.Score {
			best = Match{Term: c, Score: score}
		}
	}
	return best, true, nil
}

// ParentOf returns the canonical valid parent term(s) of term at level-1.
// Level must be 2 or 3. The single-parent invariant enforced at load time
// means the slice has at most one element for a term that exists.
func (v *Vocabulary) ParentOf(facet, term string, level int) ([]string, error) {
	t, ok := v.trees[facet]
	if !ok {
		if _, flat := v.flats[facet]; flat {
			return nil, fmt.Errorf("facet %s is flat, has no hierarchy: %w", facet, ErrLevelRequired)
		}
		return nil, fmt.Errorf("%w: %s", ErrUnknownFacet, facet)
	}
	if level < 2 || level > MaxDepth {
		return nil, fmt.Errorf("facet %s: parent lookup needs level 2..%d, got %d: %w", facet, MaxDepth, level, ErrLevelRequired)
	}
	return t.parents[level-1][Normalize(term)], nil
}

// Snapshot holds the current vocabulary and allows an admin reload to swap in
// a new one atomically. Readers never block.
type Snapshot struct {
	ptr atomic.Pointer[Vocabulary]
}

// NewSnapshot wraps an initial vocabulary.
func NewSnapshot(v *Vocabulary) *Snapshot {
	s := &Snapshot{}
	s.ptr.Store(v)
	return s
}

// Current returns the vocabulary in effect.
func (s *Snapshot) Current() *Vocabulary {
	return s.ptr.Load()
}

// Swap replaces the vocabulary. In-flight validations keep using the
// snapshot they started with.
func (s *Snapshot) Swap(v *Vocabulary) {
	s.ptr.Store(v)
}

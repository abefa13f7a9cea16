package vocab

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Definition is the on-disk vocabulary format: hierarchical facets as nested
// term maps (Level1 -> Level2 -> [Level3]), flat facets as term lists.
type Definition struct {
	Hierarchical map[string]map[string]map[string][]string `yaml:"hierarchical"`
	Flat         map[string][]string                       `yaml:"flat"`
}

// Facets every vocabulary must define. Brand and Size are optional.
var (
	requiredTrees = []string{FacetItemType, FacetStyle}
	requiredFlats = []string{FacetGender, FacetColour, FacetMaterial, FacetPattern}
)

// LoadFile reads and parses a YAML vocabulary definition.
func LoadFile(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary file: %w", err)
	}

	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, &LoadError{Detail: fmt.Sprintf("invalid YAML: %v", err)}
	}
	return Parse(&def)
}

// Parse builds an immutable Vocabulary from a definition, enforcing the
// structural invariants: required facets present, terms unique within a
// facet level, every child term under exactly one parent, and no term
// recurring at a different level of the same tree.
func Parse(def *Definition) (*Vocabulary, error) {
	v := &Vocabulary{
		trees:     make(map[string]*tree),
		flats:     make(map[string][]string),
		flatIndex: make(map[string]map[string]string),
	}

	for _, name := range requiredTrees {
		if _, ok := def.Hierarchical[name]; !ok {
			return nil, &LoadError{Facet: name, Detail: "required hierarchical facet missing"}
		}
	}
	for _, name := range requiredFlats {
		if _, ok := def.Flat[name]; !ok {
			return nil, &LoadError{Facet: name, Detail: "required flat facet missing"}
		}
	}

	for name, roots := range def.Hierarchical {
		if _, dup := def.Flat[name]; dup {
			return nil, &LoadError{Facet: name, Detail: "defined as both hierarchical and flat"}
		}
		t, err := buildTree(name, roots)
		if err != nil {
			return nil, err
		}
		v.trees[name] = t
	}

	for name, terms := range def.Flat {
		index := make(map[string]string, len(terms))
		canonical := make([]string, 0, len(terms))
		for _, term := range terms {
			norm := Normalize(term)
			if norm == "" {
				return nil, &LoadError{Facet: name, Detail: fmt.Sprintf("empty term %q", term)}
			}
			if _, dup := index[norm]; dup {
				return nil, &LoadError{Facet: name, Detail: fmt.Sprintf("duplicate term %q", term)}
			}
			index[norm] = term
			canonical = append(canonical, term)
		}
		sort.Strings(canonical)
		v.flats[name] = canonical
		v.flatIndex[name] = index
	}

	return v, nil
}

func buildTree(facet string, roots map[string]map[string][]string) (*tree, error) {
	t := &tree{}
	for i := range t.index {
		t.index[i] = make(map[string]string)
	}
	t.parents[1] = make(map[string][]string)
	t.parents[2] = make(map[string][]string)

	// seen tracks which level a normalized term first appeared at, to reject
	// terms recurring at another level of the same tree (a hierarchy cycle in
	// the nested-map encoding).
	seen := make(map[string]int)

	addTerm := func(term string, level int) (string, error) {
		norm := Normalize(term)
		if norm == "" {
			return "", &LoadError{Facet: facet, Detail: fmt.Sprintf("empty term %q at level %d", term, level)}
		}
		if prior, ok := seen[norm]; ok && prior != level {
			return "", &LoadError{Facet: facet, Detail: fmt.Sprintf("term %q appears at levels %d and %d", term, prior, level)}
		}
		seen[norm] = level
		if _, dup := t.index[level-1][norm]; dup {
			return "", &LoadError{Facet: facet, Detail: fmt.Sprintf("duplicate term %q at level %d", term, level)}
		}
		t.index[level-1][norm] = term
		t.levels[level-1] = append(t.levels[level-1], term)
		return norm, nil
	}

	for l1, children := range roots {
		if _, err := addTerm(l1, 1); err != nil {
			return nil, err
		}
		for l2, leaves := range children {
			norm2, err := addTerm(l2, 2)
			if err != nil {
				// A level-2 term under two level-1 parents trips the
				// duplicate check above: it violates the single-parent rule.
				return nil, err
			}
			t.parents[1][norm2] = []string{l1}
			for _, l3 := range leaves {
				norm3, err := addTerm(l3, 3)
				if err != nil {
					return nil, err
				}
				t.parents[2][norm3] = []string{l2}
			}
		}
	}

	for i := range t.levels {
		sort.Strings(t.levels[i])
	}
	return t, nil
}

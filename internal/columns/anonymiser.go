package columns

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"
	"strings"
	"sync"
)

const (
	randomIntMin = 1_000_000
	randomIntMax = 9_999_999
)

// Mapping is one raw -> output pair recorded by a handler.
type Mapping struct {
	Raw    string `json:"raw"`
	Output string `json:"output"`
}

// Anonymiser applies the configured handlers and remembers every mapping it
// produces. Apply calls for one column must arrive in row order for the output
// to be deterministic.
type Anonymiser struct {
	mu      sync.Mutex
	specs   []Spec
	byName  map[string]int
	rng     *rand.Rand
	columns []columnState
}

type columnState struct {
	values map[string]string
	order  []string
	used   map[int]struct{}
	levels []map[string]int
}

// NewAnonymiser builds an anonymiser for the given column specs. The seed
// drives RandomiseInteger.
func NewAnonymiser(specs []Spec, seed int64) *Anonymiser {
	a := &Anonymiser{
		specs:   slices.Clone(specs),
		byName:  make(map[string]int, len(specs)),
		rng:     rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15)),
		columns: make([]columnState, len(specs)),
	}
	for i, spec := range specs {
		a.byName[spec.Name] = i
		a.columns[i] = columnState{values: make(map[string]string)}
	}
	return a
}

// Specs returns the column specs in configured order.
func (a *Anonymiser) Specs() []Spec {
	return slices.Clone(a.specs)
}

// Apply maps one cell of column. Equal raw values always map to the same
// output. Empty cells are left empty.
func (a *Anonymiser) Apply(column, value string) (string, error) {
	idx, ok := a.byName[column]
	if !ok {
		return "", fmt.Errorf("column %q has no handler configured", column)
	}
	if value == "" {
		return "", nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	state := &a.columns[idx]
	if out, ok := state.values[value]; ok {
		return out, nil
	}

	spec := a.specs[idx]
	var out string
	switch spec.Handler {
	case HandlerNone, HandlerPassthrough:
		out = value
	case HandlerRandomiseInteger:
		out = strconv.Itoa(a.drawInteger(state))
	case HandlerFLOC:
		out = state.floc(value)
	case HandlerToUniqueString:
		out = spec.Prefix + strconv.Itoa(len(state.order)+1)
	default:
		return "", fmt.Errorf("column %q: unknown handler %q", column, spec.Handler)
	}

	state.values[value] = out
	state.order = append(state.order, value)
	return out, nil
}

func (a *Anonymiser) drawInteger(state *columnState) int {
	if state.used == nil {
		state.used = make(map[int]struct{})
	}
	for {
		n := randomIntMin + a.rng.IntN(randomIntMax-randomIntMin+1)
		if _, taken := state.used[n]; taken {
			continue
		}
		state.used[n] = struct{}{}
		return n
	}
}

// floc relabels each hierarchy level independently, numbering segments in
// the order they are first seen at that level.
func (s *columnState) floc(value string) string {
	parts := strings.FieldsFunc(value, func(r rune) bool {
		return r == '.' || r == '-'
	})
	if len(parts) == 0 {
		parts = []string{value}
	}
	out := make([]string, len(parts))
	for level, part := range parts {
		if level >= len(s.levels) {
			s.levels = append(s.levels, make(map[string]int))
		}
		seen := s.levels[level]
		n, ok := seen[part]
		if !ok {
			n = len(seen) + 1
			seen[part] = n
		}
		out[level] = strconv.Itoa(n)
	}
	return strings.Join(out, "-")
}

// Mappings returns the recorded pairs per source column, in first-seen order.
func (a *Anonymiser) Mappings() map[string][]Mapping {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make(map[string][]Mapping, len(a.specs))
	for i, spec := range a.specs {
		state := a.columns[i]
		pairs := make([]Mapping, 0, len(state.order))
		for _, raw := range state.order {
			pairs = append(pairs, Mapping{Raw: raw, Output: state.values[raw]})
		}
		out[spec.Name] = pairs
	}
	return out
}

package anonymise

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

// LabelPrefix starts every asset label.
const LabelPrefix = "Asset"

var labelPattern = regexp.MustCompile(`\b` + LabelPrefix + `\d+\b`)

// Mode selects how a Registry numbers its labels.
type Mode int

const (
	// ModeFirstSeen labels keys in the order they are first resolved.
	ModeFirstSeen Mode = iota
	// ModeDataset collects keys with Observe and labels them on Seal.
	ModeDataset
)

func (m Mode) String() string {
	switch m {
	case ModeFirstSeen:
		return "first-seen"
	case ModeDataset:
		return "dataset"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Entry is one canonical key and its label.
type Entry struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Registry maps canonical keys to labels for a single run. It is never shared
// between runs.
type Registry struct {
	mode Mode

	mu       sync.Mutex
	observed map[string]struct{}
	late     map[string]string

	// labels is read without locking once sealed is set.
	labels map[string]string
	order  []string
	sealed atomic.Bool
}

// NewRegistry returns an empty registry.
func NewRegistry(mode Mode) *Registry {
	return &Registry{
		mode:     mode,
		observed: make(map[string]struct{}),
		late:     make(map[string]string),
		labels:   make(map[string]string),
	}
}

// Mode reports the labelling mode.
func (r *Registry) Mode() Mode { return r.mode }

// Observe records key for labelling at Seal time. Keys observed after Seal
// are labelled immediately.
func (r *Registry) Observe(key string) {
	if key == "" {
		return
	}
	if r.mode != ModeDataset {
		r.Resolve(key)
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sealed.Load() {
		r.assignLateLocked(key)
		return
	}
	r.observed[key] = struct{}{}
}

// Seal assigns labels to every observed key. Keys are sorted and then shuffled
// with seed, so the numbering depends only on the set of keys and the seed.
// Seal is a no-op outside dataset mode or when already sealed.
func (r *Registry) Seal(seed int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.mode != ModeDataset || r.sealed.Load() {
		return
	}

	keys := make([]string, 0, len(r.observed))
	for key := range r.observed {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
	rng.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })

	for _, key := range keys {
		if _, ok := r.late[key]; ok {
			continue
		}
		r.appendLocked(key)
	}
	r.sealed.Store(true)
}

// Sealed reports whether labels have been assigned in dataset mode.
func (r *Registry) Sealed() bool {
	return r.sealed.Load()
}

// Resolve returns the label for key, assigning the next free label when the
// key has not been seen before.
func (r *Registry) Resolve(key string) string {
	if r.mode == ModeDataset && r.sealed.Load() {
		if label, ok := r.labels[key]; ok {
			return label
		}
		r.mu.Lock()
		defer r.mu.Unlock()
		return r.assignLateLocked(key)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if label, ok := r.labels[key]; ok {
		return label
	}
	if r.mode == ModeDataset {
		// Resolving before Seal still has to stay consistent with it.
		r.observed[key] = struct{}{}
		return r.assignLateLocked(key)
	}
	return r.appendLocked(key)
}

// Label returns the label for key without assigning one.
func (r *Registry) Label(key string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if label, ok := r.labels[key]; ok {
		return label, true
	}
	label, ok := r.late[key]
	return label, ok
}

// Len reports the number of labelled keys.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}

// Entries returns every key and label in label order.
func (r *Registry) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, 0, len(r.order))
	for _, key := range r.order {
		label, ok := r.labels[key]
		if !ok {
			label = r.late[key]
		}
		out = append(out, Entry{Key: key, Label: label})
	}
	return out
}

func (r *Registry) appendLocked(key string) string {
	label := LabelPrefix + strconv.Itoa(len(r.order)+1)
	r.labels[key] = label
	r.order = append(r.order, key)
	return label
}

// assignLateLocked labels a key that missed Seal. Late labels live in their
// own map so lock-free readers of labels never race a writer.
func (r *Registry) assignLateLocked(key string) string {
	if label, ok := r.labels[key]; ok {
		return label
	}
	if label, ok := r.late[key]; ok {
		return label
	}
	label := LabelPrefix + strconv.Itoa(len(r.order)+1)
	r.late[key] = label
	r.order = append(r.order, key)
	return label
}

// IsLabel reports whether token is exactly an asset label such as "Asset12".
func IsLabel(token string) bool {
	if !strings.HasPrefix(token, LabelPrefix) || len(token) == len(LabelPrefix) {
		return false
	}
	for _, c := range token[len(LabelPrefix):] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Restore replaces every label in text for which lookup returns a value.
func Restore(text string, lookup func(label string) (string, bool)) string {
	return labelPattern.ReplaceAllStringFunc(text, func(label string) string {
		if original, ok := lookup(label); ok {
			return original
		}
		return label
	})
}

// Package datasets maps platform+method pairs to the remote dataset
// specs that collect them.
package datasets

import (
	"fmt"
	"net/url"
	"sort"
	"sync"

	"github.com/fwojciec/harvest"
)

// Ensure Registry implements harvest.SpecRegistry at compile time.
var _ harvest.SpecRegistry = (*Registry)(nil)

// Registry is an in-memory SpecRegistry safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	builders map[harvest.RegistryKey]harvest.SpecBuilder
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{builders: make(map[harvest.RegistryKey]harvest.SpecBuilder)}
}

// Get returns the builder for a platform+method key.
func (r *Registry) Get(platform, method string) (harvest.SpecBuilder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.builders[harvest.RegistryKey{Platform: platform, Method: method}]
	return b, ok
}

// Register adds a builder, replacing any existing one for the same key.
func (r *Registry) Register(platform, method string, b harvest.SpecBuilder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.builders[harvest.RegistryKey{Platform: platform, Method: method}] = b
}

// List returns all registered keys sorted by platform then method.
func (r *Registry) List() []harvest.RegistryKey {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]harvest.RegistryKey, 0, len(r.builders))
	for k := range r.builders {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Platform != keys[j].Platform {
			return keys[i].Platform < keys[j].Platform
		}
		return keys[i].Method < keys[j].Method
	})
	return keys
}

// Remote dataset identifiers, one per platform+method.
const (
	linkedinProfiles  = "gd_l1viktl72bvl7bjuj0"
	linkedinCompanies = "gd_l1vikfnt1wgvvqz95w"
	linkedinJobs      = "gd_lpfll7v5hcqtkxl6l"
	linkedinPosts     = "gd_lyy3tktm25m4avu764"
	amazonProducts    = "gd_l7q7dkf244hwjntr0"
	amazonReviews     = "gd_le8e811kzy4ggddlq"
	instagramProfiles = "gd_l1vikfch901nx3by4"
	instagramPosts    = "gd_lk5ns7kz21pck8jpis"
	chatgptPrompts    = "gd_m7aof0k82r803d5bjm"
)

// DefaultRegistry returns a Registry with every supported platform+method
// builder registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register("linkedin", "profiles", Builder(linkedinProfiles, "url"))
	r.Register("linkedin", "companies", Builder(linkedinCompanies, "url"))
	r.Register("linkedin", "jobs", Builder(linkedinJobs, "url"))
	r.Register("linkedin", "posts", Builder(linkedinPosts, "url"))
	r.Register("amazon", "products", Builder(amazonProducts, "url"))
	r.Register("amazon", "reviews", Builder(amazonReviews, "url"))
	r.Register("instagram", "profiles", Builder(instagramProfiles, "url"))
	r.Register("instagram", "posts", Builder(instagramPosts, "url"))
	r.Register("chatgpt", "prompts", Builder(chatgptPrompts, "prompt"))

	return r
}

// builder produces dataset trigger specs for one dataset id, requiring a
// single named field in every input.
type builder struct {
	datasetID string
	required  string
	params    url.Values
}

// Builder returns a SpecBuilder for a dataset that requires the given
// field in every input record.
func Builder(datasetID, required string) harvest.SpecBuilder {
	return &builder{
		datasetID: datasetID,
		required:  required,
		params:    url.Values{"include_errors": []string{"true"}},
	}
}

func (b *builder) Build(inputs []harvest.Input) (harvest.TriggerSpec, error) {
	if len(inputs) == 0 {
		return harvest.TriggerSpec{}, harvest.Errorf(harvest.EINVALID, "at least one input is required")
	}
	for i, in := range inputs {
		v, ok := in[b.required]
		if !ok {
			return harvest.TriggerSpec{}, harvest.Errorf(harvest.EINVALID, "input %d: missing required field %q", i, b.required)
		}
		if s, ok := v.(string); ok && s == "" {
			return harvest.TriggerSpec{}, harvest.Errorf(harvest.EINVALID, "input %d: field %q cannot be empty", i, b.required)
		}
	}

	params := url.Values{}
	for k, vs := range b.params {
		params[k] = append([]string(nil), vs...)
	}

	return harvest.TriggerSpec{
		Kind:      harvest.KindDataset,
		DatasetID: b.datasetID,
		Payload:   inputs,
		Params:    params,
	}, nil
}

func (b *builder) String() string {
	return fmt.Sprintf("dataset builder %s (requires %q)", b.datasetID, b.required)
}

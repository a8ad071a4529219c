package harvest

// Input is one record submitted to a dataset trigger, e.g.
// {"url": "https://www.linkedin.com/in/someone"} or a search criterion
// like {"first_name": "James", "last_name": "Smith"}.
type Input map[string]any

// SpecBuilder turns caller inputs into a TriggerSpec for one
// platform+method combination.
type SpecBuilder interface {
	// Build validates the inputs and produces the trigger spec.
	// Returns EINVALID when a required input field is missing.
	Build(inputs []Input) (TriggerSpec, error)
}

// RegistryKey identifies a spec builder by platform and method,
// e.g. {"linkedin", "profiles"}.
type RegistryKey struct {
	Platform string
	Method   string
}

// SpecRegistry maps platform+method keys to request-spec builders. It
// decouples per-platform dataset sprawl from the polling core: the Poller
// never knows which platform a job belongs to.
type SpecRegistry interface {
	// Get returns the builder for a platform+method key.
	// The bool is false if no builder is registered.
	Get(platform, method string) (SpecBuilder, bool)

	// Register adds a builder for a platform+method key, replacing any
	// existing one.
	Register(platform, method string, b SpecBuilder)

	// List returns all registered keys sorted by platform then method.
	List() []RegistryKey
}

package mock

import "github.com/fwojciec/harvest"

var _ harvest.SpecRegistry = (*SpecRegistry)(nil)

// SpecRegistry is a mock implementation of harvest.SpecRegistry.
type SpecRegistry struct {
	GetFn      func(platform, method string) (harvest.SpecBuilder, bool)
	RegisterFn func(platform, method string, b harvest.SpecBuilder)
	ListFn     func() []harvest.RegistryKey
}

func (r *SpecRegistry) Get(platform, method string) (harvest.SpecBuilder, bool) {
	return r.GetFn(platform, method)
}

func (r *SpecRegistry) Register(platform, method string, b harvest.SpecBuilder) {
	r.RegisterFn(platform, method, b)
}

func (r *SpecRegistry) List() []harvest.RegistryKey {
	return r.ListFn()
}

var _ harvest.SpecBuilder = (*SpecBuilder)(nil)

// SpecBuilder is a mock implementation of harvest.SpecBuilder.
type SpecBuilder struct {
	BuildFn func(inputs []harvest.Input) (harvest.TriggerSpec, error)
}

func (b *SpecBuilder) Build(inputs []harvest.Input) (harvest.TriggerSpec, error) {
	return b.BuildFn(inputs)
}

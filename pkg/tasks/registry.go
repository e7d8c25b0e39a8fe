package tasks

import (
	"github.com/arthur-debert/hostprep/pkg/config"
	"github.com/arthur-debert/hostprep/pkg/registry"
)

// Factory builds a task from the effective configuration
type Factory func(cfg *config.Config) Task

var factories = registry.New[Factory]()

// Register makes a task available under id. Concrete task packages call it
// from init.
func Register(id string, factory Factory) {
	factories.MustRegister(id, factory)
}

// Registered returns every known task id in registration order
func Registered() []string {
	return factories.List()
}

// Build instantiates the tasks named by ids, in that order
func Build(cfg *config.Config, ids []string) ([]Task, error) {
	fs, err := factories.Resolve(ids)
	if err != nil {
		return nil, err
	}
	out := make([]Task, 0, len(fs))
	for _, f := range fs {
		out = append(out, f(cfg))
	}
	return out, nil
}

// Package env provides property sources satisfying core.Environment.
package env

import (
	"os"

	"github.com/flightdesk/appctx/pkg/core"
)

var (
	_ core.Environment = Map(nil)
	_ core.Environment = System{}
	_ core.Environment = Chain(nil)
)

// Map is an in-memory property source.
type Map map[string]string

func (m Map) Get(name string) (string, bool) {
	value, ok := m[name]
	return value, ok
}

// System reads properties from the process environment.
type System struct{}

func (System) Get(name string) (string, bool) {
	return os.LookupEnv(name)
}

// Chain looks a property up in every source in order, the first source which has it wins.
type Chain []core.Environment

func (c Chain) Get(name string) (string, bool) {
	for _, source := range c {
		if source == nil {
			continue
		}

		if value, ok := source.Get(name); ok {
			return value, true
		}
	}

	return "", false
}

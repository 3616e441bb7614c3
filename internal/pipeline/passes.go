package pipeline

import (
	"fmt"
	"slices"
)

// Pass names, in dependency order.
const (
	PassPorts            = "ports"
	PassShipsInPort      = "ships-in-port"
	PassExpectedArrivals = "expected-arrivals"
	PassShipsOfInterest  = "ships-of-interest"
)

// PassNames returns every pass name in dependency order.
func PassNames() []string {
	return []string{PassPorts, PassShipsInPort, PassExpectedArrivals, PassShipsOfInterest}
}

// DefaultPipeline builds a pipeline of the named passes in dependency order,
// whatever order the names are given in. No names selects every pass.
func DefaultPipeline(env *Env, names []string, opts ...Option) (*Pipeline, error) {
	for _, name := range names {
		if !slices.Contains(PassNames(), name) {
			return nil, fmt.Errorf("%w: %q (valid: %v)", ErrUnknownPass, name, PassNames())
		}
	}

	constructors := map[string]func(*Env) Pass{
		PassPorts:            func(e *Env) Pass { return NewPortsPass(e) },
		PassShipsInPort:      func(e *Env) Pass { return NewShipsInPortPass(e) },
		PassExpectedArrivals: func(e *Env) Pass { return NewExpectedArrivalsPass(e) },
		PassShipsOfInterest:  func(e *Env) Pass { return NewShipsOfInterestPass(e) },
	}

	p := New(opts...)
	for _, name := range PassNames() {
		if len(names) > 0 && !slices.Contains(names, name) {
			continue
		}
		p.AddPass(constructors[name](env))
	}
	return p, nil
}

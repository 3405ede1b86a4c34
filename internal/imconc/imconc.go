// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package imconc

import "github.com/sourcegraph/conc"

// Routine is a long running component of the agent that can be asked to stop.
type Routine interface {
	Stop(force bool)
}

// RoutineFunc adapts a plain function, such as a datastore Close, to a Routine.
type RoutineFunc func(force bool)

func (f RoutineFunc) Stop(force bool) {
	f(force)
}

type ConcGroup struct {
	routines []Routine
	wg       *conc.WaitGroup
}

func NewConcGroup() *ConcGroup {
	return &ConcGroup{
		wg: &conc.WaitGroup{},
	}
}

func (c *ConcGroup) Add(routine Routine) *ConcGroup {
	c.routines = append(c.routines, routine)
	return c
}

func (c *ConcGroup) Go(fn func()) {
	c.wg.Go(fn)
}

// Stop stops routines in reverse registration order so later components, which depend on
// earlier ones, go first.
func (c *ConcGroup) Stop(force bool) {
	for i := len(c.routines) - 1; i >= 0; i-- {
		c.routines[i].Stop(force)
	}
}

func (c *ConcGroup) Wait() {
	c.wg.Wait()
}

// Package backend tracks which array and table backends are linked into the
// binary. Backends register themselves from init; converters call Require
// before touching any data so a missing backend fails fast.
package backend

import (
	"fmt"
	"sort"
	"sync"

	"github.com/apache/arrow-go/v18/arrow/memory"
	cserrors "github.com/paveg/chartseries/internal/errors"
)

// Capability names a backend a converter depends on.
type Capability string

const (
	// NDArray is the homogeneous n-dimensional array backend.
	NDArray Capability = "ndarray"
	// DataFrame is the labeled table backend.
	DataFrame Capability = "dataframe"
)

type entry struct {
	probe func() error
	once  sync.Once
	err   error
}

var (
	mu       sync.RWMutex
	registry = make(map[Capability]*entry)
)

// Register records a backend. The probe runs once, on the first Require.
// A nil probe always succeeds.
func Register(c Capability, probe func() error) {
	mu.Lock()
	defer mu.Unlock()
	registry[c] = &entry{probe: probe}
}

// Unregister removes a backend and returns a function restoring it.
func Unregister(c Capability) (restore func()) {
	mu.Lock()
	defer mu.Unlock()
	prev, ok := registry[c]
	delete(registry, c)
	return func() {
		mu.Lock()
		defer mu.Unlock()
		if ok {
			registry[c] = prev
		}
	}
}

// Registered lists the registered capabilities in name order.
func Registered() []Capability {
	mu.RLock()
	defer mu.RUnlock()
	caps := make([]Capability, 0, len(registry))
	for c := range registry {
		caps = append(caps, c)
	}
	sort.Slice(caps, func(i, j int) bool { return caps[i] < caps[j] })
	return caps
}

// Require returns a MissingDependency error for the first capability that is
// not registered or whose probe failed.
func Require(op string, caps ...Capability) error {
	for _, c := range caps {
		mu.RLock()
		e, ok := registry[c]
		mu.RUnlock()
		if !ok {
			return cserrors.NewMissingDependencyError(op, string(c), nil)
		}
		e.once.Do(func() {
			if e.probe != nil {
				e.err = e.probe()
			}
		})
		if e.err != nil {
			return cserrors.NewMissingDependencyError(op, string(c), e.err)
		}
	}
	return nil
}

// ProbeArrow checks that the Arrow allocator can hand out and take back memory.
func ProbeArrow() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("arrow allocator panicked: %v", r)
		}
	}()
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	buf := mem.Allocate(64)
	if len(buf) != 64 {
		return fmt.Errorf("arrow allocator returned %d bytes, want 64", len(buf))
	}
	mem.Free(buf)
	if n := mem.CurrentAlloc(); n != 0 {
		return fmt.Errorf("arrow allocator leaked %d bytes", n)
	}
	return nil
}

package yoloencode

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// ClassRegistry resolves class names to stable IDs for one release.
// Names are collected with Observe before any line is encoded; IDs are only
// assigned once the registry is frozen, alphabetical order, 0..n-1,
// following an "assemble then finalize" builder flow. Safe for
// concurrent use while open; Resolve
// after Freeze is safe for concurrent readers too.
type ClassRegistry struct {
	mu     sync.Mutex
	seen   map[string]struct{}
	frozen bool
	ids    map[string]int
	names  []string
}

// NewClassRegistry returns an open (not yet frozen) registry.
func NewClassRegistry() *ClassRegistry {
	return &ClassRegistry{seen: make(map[string]struct{})}
}

// Observe records className as present in the release. A no-op once
// Freeze has run — every observation must happen before Freeze; the
// orchestrator observes every annotation's class in a pre-pass before
// its worker pool starts.
func (c *ClassRegistry) Observe(className string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.frozen {
		return
	}
	c.seen[className] = struct{}{}
}

// Freeze sorts the observed names alphabetically, assigns IDs 0..n-1 in
// that order, and locks the registry against further Observe calls.
// Idempotent.
func (c *ClassRegistry) Freeze() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.frozen {
		return
	}
	c.names = make([]string, 0, len(c.seen))
	for name := range c.seen {
		c.names = append(c.names, name)
	}
	sort.Strings(c.names)
	c.ids = make(map[string]int, len(c.names))
	for i, name := range c.names {
		c.ids[name] = i
	}
	c.frozen = true
}

// Names returns the frozen, alphabetically-sorted class list. Empty
// until Freeze has been called.
func (c *ClassRegistry) Names() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.names...)
}

// Resolve returns the frozen ID for className. If className was never
// observed (a race with upstream), it falls back to a
// caller-supplied resolver; if that also fails to produce a known
// name, the ultimate fallback is class 0 with a logged warning.
func (c *ClassRegistry) Resolve(logger *slog.Logger, className string, fallback func(string) (string, bool)) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if id, ok := c.ids[className]; ok {
		return id
	}
	if fallback != nil {
		if resolved, ok := fallback(className); ok {
			if id, ok := c.ids[resolved]; ok {
				return id
			}
		}
	}
	logger.Warn("class name not in frozen registry, falling back to class 0", "class_name", className)
	return 0
}

// DataConfig is the data.yaml shape this build emits: a sorted
// name list and its count.
type DataConfig struct {
	Names []string
	NC    int
}

// NewDataConfig builds a DataConfig from a frozen registry.
func NewDataConfig(c *ClassRegistry) DataConfig {
	names := c.Names()
	return DataConfig{Names: names, NC: len(names)}
}

func (d DataConfig) String() string {
	return fmt.Sprintf("DataConfig{nc=%d, names=%v}", d.NC, d.Names)
}

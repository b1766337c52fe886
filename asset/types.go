package asset

import (
	"github.com/quiltcore/bundler/immutable"
	"github.com/quiltcore/bundler/location"
)

// ID identifies an Asset or a Dependency within a Graph. IDs are assigned
// by the external resolver and are stable across a single build.
type ID string

// Context identifies the runtime an Env targets.
type Context string

// Recognized Env contexts.
const (
	ContextBrowser       Context = "browser"
	ContextWorker        Context = "worker"
	ContextNode          Context = "node"
	ContextServiceWorker Context = "service-worker"
)

// OutputFormat identifies the module format an Env expects at output.
type OutputFormat string

// Recognized output formats.
const (
	FormatESModule OutputFormat = "esmodule"
	FormatCommonJS OutputFormat = "commonjs"
	FormatGlobal   OutputFormat = "global"
)

// Env describes the runtime environment a Bundle or Asset targets.
//
// Env is a value type; two Envs with equal fields are interchangeable for
// bundling purposes.
type Env struct {
	Context      Context
	OutputFormat OutputFormat
	IsLibrary    bool
	isolated     bool
}

// NewEnv constructs an Env. isolated corresponds to environments (such as
// workers) whose bundles may never share ancestor-reachable assets with a
// sibling environment's bundles.
func NewEnv(context Context, format OutputFormat, isLibrary, isolated bool) Env {
	return Env{Context: context, OutputFormat: format, IsLibrary: isLibrary, isolated: isolated}
}

// IsIsolated reports whether this environment forbids ancestor sharing.
func (e Env) IsIsolated() bool {
	return e.isolated
}

// Target describes where a Bundle's output is written and served from.
type Target struct {
	Directory location.CanonicalPath
	Env       Env
	PublicURL string
}

// Asset is an opaque unit of code: a source module, a stylesheet, a
// binary resource. The bundler core never mutates an Asset; it only reads
// the fields below and moves references to the asset's ID between bundles.
type Asset struct {
	ID         ID
	Type       string
	Size       int64
	IsInline   bool
	IsIsolated bool
	Env        Env
	Extra      immutable.Map[string]
}

// Dependency is a directed edge from a source asset (or the virtual root)
// to zero or more target assets, resolved lazily via a closure supplied by
// the external resolver.
type Dependency struct {
	ID         ID
	IsEntry    bool
	IsAsync    bool
	IsOptional bool
	IsWeak     bool
	IsDeferred bool
	Target     Target

	resolve func() []ID
}

// NewDependency constructs a Dependency bound to the given resolution
// closure. resolve is invoked lazily and may be called more than once
// (GraphModel re-enters shared subtrees); it must be deterministic and
// side-effect free.
func NewDependency(id ID, isEntry, isAsync, isOptional, isWeak, isDeferred bool, target Target, resolve func() []ID) Dependency {
	if resolve == nil {
		resolve = func() []ID { return nil }
	}
	return Dependency{
		ID:         id,
		IsEntry:    isEntry,
		IsAsync:    isAsync,
		IsOptional: isOptional,
		IsWeak:     isWeak,
		IsDeferred: isDeferred,
		Target:     target,
		resolve:    resolve,
	}
}

// Resolve returns the dependency's current target asset IDs. An empty
// result means the dependency is unresolved (deferred, weak-and-deferred,
// or genuinely has no target).
func (d Dependency) Resolve() []ID {
	ids := d.resolve()
	if len(ids) == 0 {
		return nil
	}
	out := make([]ID, len(ids))
	copy(out, ids)
	return out
}

// IsRequired reports whether an unresolved Dependency is a bundling
// failure: not optional, and not (weak and deferred).
func (d Dependency) IsRequired() bool {
	if d.IsOptional {
		return false
	}
	if d.IsWeak && d.IsDeferred {
		return false
	}
	return true
}

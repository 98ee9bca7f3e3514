package workingday

import "reflect"

// Builder collects a de-duplicated set of sources and builds Services from it.
// Membership is tested with ==, so pointer sources are deduplicated by
// identity: adding the same instance twice is a no-op while two distinct
// instances with equal contents are both kept. Values of non-comparable
// types (such as SourceFunc) can not be compared and are always added.
//
// A Builder is not safe for concurrent use.
type Builder struct {
	sources []Source
}

// NewBuilder creates an empty Builder
func NewBuilder() *Builder {
	return &Builder{}
}

// UseSource replaces the configured sources with src
func (b *Builder) UseSource(src Source) *Builder {
	b.sources = nil
	return b.AddSource(src)
}

// UseSources replaces the configured sources with srcs
func (b *Builder) UseSources(srcs ...Source) *Builder {
	b.sources = nil
	return b.AddSources(srcs...)
}

// AddSource adds src to the configured sources
func (b *Builder) AddSource(src Source) *Builder {
	if src == nil || b.contains(src) {
		return b
	}
	b.sources = append(b.sources, src)
	return b
}

// AddSources adds every element of srcs to the configured sources
func (b *Builder) AddSources(srcs ...Source) *Builder {
	for _, src := range srcs {
		b.AddSource(src)
	}
	return b
}

// Len returns the number of configured sources
func (b *Builder) Len() int {
	return len(b.sources)
}

// Build returns a Service over a snapshot of the configured sources.
// The builder stays usable and later changes do not affect the result.
func (b *Builder) Build() *Service {
	return NewService(b.sources...)
}

// contains reports whether src is already configured. Values that hold a
// non-comparable dynamic value anywhere (funcs, maps, slices) are never equal.
func (b *Builder) contains(src Source) bool {
	if !reflect.ValueOf(src).Comparable() {
		return false
	}
	for _, existing := range b.sources {
		if reflect.TypeOf(existing) == reflect.TypeOf(src) && existing == src {
			return true
		}
	}
	return false
}

package workingday

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuilder_AddSourceDeduplicatesInstances(t *testing.T) {
	monday := mondaySource()

	b := NewBuilder().AddSource(monday).AddSource(monday).AddSources(monday, monday)
	assert.Equal(t, 1, b.Len())
	assert.Equal(t, 1, b.Build().Len())
}

func TestBuilder_DistinctInstancesAreKept(t *testing.T) {
	b := NewBuilder().AddSources(mondaySource(), mondaySource())
	assert.Equal(t, 2, b.Len())
}

func TestBuilder_UseReplaces(t *testing.T) {
	b := NewBuilder().AddSources(mondaySource(), tuesdaySource())
	b.UseSource(constSource(false))
	assert.Equal(t, 1, b.Len())

	svc := b.Build()
	assert.False(t, svc.IsWorkingDay(time.Date(2018, 5, 14, 0, 0, 0, 0, time.UTC)))

	b.UseSources(mondaySource(), tuesdaySource())
	assert.Equal(t, 2, b.Len())
	assert.True(t, b.Build().IsWorkingDay(time.Date(2018, 5, 14, 0, 0, 0, 0, time.UTC)))
}

func TestBuilder_BuildIsSnapshot(t *testing.T) {
	b := NewBuilder().AddSource(mondaySource())
	first := b.Build()

	b.AddSource(tuesdaySource())
	second := b.Build()

	tuesday := time.Date(2018, 5, 15, 0, 0, 0, 0, time.UTC)
	assert.False(t, first.IsWorkingDay(tuesday))
	assert.True(t, second.IsWorkingDay(tuesday))
	assert.Equal(t, 1, first.Len())
	assert.Equal(t, 2, second.Len())
}

func TestBuilder_EmptyBuildIsAlwaysWorking(t *testing.T) {
	svc := NewBuilder().Build()
	assert.True(t, svc.IsWorkingDay(time.Date(2018, 5, 19, 0, 0, 0, 0, time.UTC)))
}

func TestBuilder_AcceptsNonComparableSources(t *testing.T) {
	fn := SourceFunc(func(date time.Time) bool { return date.Weekday() == time.Wednesday })

	b := NewBuilder()
	assert.NotPanics(t, func() {
		b.AddSource(fn).AddSource(mondaySource())
	})
	assert.Equal(t, 2, b.Len())
	assert.True(t, b.Build().IsWorkingDay(time.Date(2018, 5, 16, 0, 0, 0, 0, time.UTC)))
}

// wrappedSource is a comparable type whose dynamic value may not be
type wrappedSource struct {
	inner Source
}

func (w wrappedSource) IsWorkingDay(date time.Time) bool { return w.inner.IsWorkingDay(date) }

func TestBuilder_AcceptsSourcesHoldingNonComparableValues(t *testing.T) {
	fn := SourceFunc(func(date time.Time) bool { return date.Weekday() == time.Wednesday })

	b := NewBuilder()
	assert.NotPanics(t, func() {
		b.AddSource(wrappedSource{inner: fn}).AddSource(wrappedSource{inner: fn})
	})
	assert.Equal(t, 2, b.Len())

	// comparable dynamic values are still deduplicated
	monday := mondaySource()
	b = NewBuilder().AddSource(wrappedSource{inner: monday}).AddSource(wrappedSource{inner: monday})
	assert.Equal(t, 1, b.Len())
}

func TestBuilder_IgnoresNil(t *testing.T) {
	b := NewBuilder().AddSource(nil).AddSources(nil, mondaySource())
	assert.Equal(t, 1, b.Len())
}

func TestBuilder_ServiceAsSource(t *testing.T) {
	inner := NewBuilder().AddSource(mondaySource()).Build()
	outer := NewBuilder().UseSources(inner, tuesdaySource()).AddSource(inner).Build()

	assert.Equal(t, 2, outer.Len())
	assert.True(t, outer.IsWorkingDay(time.Date(2018, 5, 14, 0, 0, 0, 0, time.UTC)))
}

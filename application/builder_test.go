package application

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kbukum/hostkit/component"
	"github.com/kbukum/hostkit/di"
	"github.com/kbukum/hostkit/errors"
	"github.com/kbukum/hostkit/logger"
)

func TestBuilderExposesServices(t *testing.T) {
	reg := di.NewRegistry()
	reg.MustAdd(di.Instance("greeting", "hello"))
	provider := reg.Build()

	b := NewBuilder(provider, logger.NewNop())
	v, err := b.ApplicationServices().Resolve("greeting")
	require.NoError(t, err)
	require.Equal(t, "hello", v)
	require.NotNil(t, b.Logger())
}

func TestBuilderProperties(t *testing.T) {
	b := NewBuilder(di.NewRegistry().Build(), nil)
	_, ok := b.Property(PropertyEnvironment)
	require.False(t, ok)

	b.SetProperty(PropertyEnvironment, "Staging")
	v, ok := b.Property(PropertyEnvironment)
	require.True(t, ok)
	require.Equal(t, "Staging", v)

	props := b.Properties()
	props["other"] = 1
	_, ok = b.Property("other")
	require.False(t, ok, "Properties must return a copy")
}

func TestBuilderBuildRunsStepsOnce(t *testing.T) {
	b := NewBuilder(di.NewRegistry().Build(), logger.NewNop())
	var order []int
	b.OnBuild(func() error { order = append(order, 1); return nil })
	b.OnBuild(nil)
	b.OnBuild(func() error { order = append(order, 2); return nil })

	require.NoError(t, b.Build())
	require.Equal(t, []int{1, 2}, order)
	require.True(t, b.Built())

	err := b.Build()
	require.True(t, errors.IsCode(err, errors.ErrCodeInvalidOperation))
}

func TestBuilderBuildStopsAtFirstError(t *testing.T) {
	b := NewBuilder(di.NewRegistry().Build(), logger.NewNop())
	ran := false
	b.OnBuild(func() error { return fmt.Errorf("boom") })
	b.OnBuild(func() error { ran = true; return nil })

	require.EqualError(t, b.Build(), "boom")
	require.False(t, ran)
}

func TestBuilderUse(t *testing.T) {
	b := NewBuilder(di.NewRegistry().Build(), logger.NewNop())
	require.NoError(t, b.Use(&component.Func{ComponentName: "worker"}))
	require.Equal(t, 1, b.Components().Len())
	require.NoError(t, b.Components().StartAll(context.Background()))

	require.NoError(t, b.Build())
	err := b.Use(&component.Func{ComponentName: "late"})
	require.True(t, errors.IsCode(err, errors.ErrCodeInvalidOperation))
}

func TestDefaultFactory(t *testing.T) {
	var f Factory = DefaultFactory{}
	b := f.CreateBuilder(di.NewRegistry().Build(), logger.NewNop())
	require.NotNil(t, b)
	require.Equal(t, "github.com/kbukum/hostkit/application.Factory", FactoryKey)
}

package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseErrorWrapsUnderlying(t *testing.T) {
	t.Parallel()

	underlying := fmt.Errorf("unexpected token")
	err := NewParseError("forge.yaml", 12, underlying)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, "forge.yaml", parseErr.Path)
	require.Equal(t, 12, parseErr.Line)
	require.True(t, stdErrors.Is(err, underlying))
	require.Contains(t, err.Error(), "forge.yaml")
}

func TestValidationErrorRecordsFieldAndMessage(t *testing.T) {
	t.Parallel()

	err := NewValidationError("params.version", "references unknown parameter", nil)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "params.version", validationErr.Field)
	require.Contains(t, validationErr.Message, "references unknown parameter")
}

func TestExecutionErrorIncludesTargetContext(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("command failed")
	err := NewExecutionError("compile", underlying)

	var executionErr *ExecutionError
	require.ErrorAs(t, err, &executionErr)
	require.Equal(t, "compile", executionErr.TargetName)
	require.True(t, stdErrors.Is(err, underlying))
}

func TestNewAggregateDropsNilsAndUnwraps(t *testing.T) {
	t.Parallel()

	e1 := stdErrors.New("missing docker")
	e2 := stdErrors.New("missing git")

	err := NewAggregate(nil, e1, nil, e2)

	var agg *Aggregate
	require.ErrorAs(t, err, &agg)
	require.Len(t, agg.Errors, 2)
	require.True(t, stdErrors.Is(err, e1))
	require.True(t, stdErrors.Is(err, e2))
}

func TestNewAggregateSingleErrorUnwrapped(t *testing.T) {
	t.Parallel()

	e1 := stdErrors.New("missing docker")
	err := NewAggregate(e1)

	require.Same(t, e1, err)
}

func TestNewAggregateAllNilReturnsNil(t *testing.T) {
	t.Parallel()

	require.NoError(t, NewAggregate(nil, nil))
}

func TestAggregateFlattenFoldsNestedOneLevel(t *testing.T) {
	t.Parallel()

	inner := &Aggregate{Errors: []error{stdErrors.New("a"), stdErrors.New("b")}}
	outer := &Aggregate{Errors: []error{inner, stdErrors.New("c")}}

	flat := outer.Flatten()
	require.Len(t, flat.Errors, 3)
}

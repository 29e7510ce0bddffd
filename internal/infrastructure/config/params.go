// Package config implements the typed parameter binding table: resolving a
// named build parameter from a CLI flag, falling back to an environment
// variable, then to a forge.yaml default, then to the spec's own default
// value, with type coercion and validation applied at the boundary.
package config

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/forgehq/forge/internal/ports"
	apperrors "github.com/forgehq/forge/pkg/errors"
)

// ParamType enumerates the value kinds the binder knows how to coerce.
type ParamType int

const (
	ParamString ParamType = iota
	ParamBool
	ParamInt
	ParamNullableInt
	ParamEnum
)

// ParamSpec declares one bindable build parameter.
type ParamSpec struct {
	Name     string
	CLIFlag  string
	EnvVar   string
	Type     ParamType
	Enum     []string
	Default  interface{}
	Required bool
	Tag      string // optional go-playground validator tag, e.g. "omitempty,oneof=Debug Release"
}

// Binder resolves a Build's parameter values from CLI flags, environment
// variables, and file defaults, in that precedence order.
type Binder struct {
	specs     []ParamSpec
	logger    ports.Logger
	validator *validator.Validate
}

// NewBinder constructs a Binder. logger may be nil.
func NewBinder(logger ports.Logger) *Binder {
	return &Binder{logger: logger, validator: GetValidator()}
}

// Register adds a parameter declaration to the binding table.
func (b *Binder) Register(spec ParamSpec) {
	b.specs = append(b.specs, spec)
}

// Bind resolves every registered parameter. cliValues holds flags the caller
// already parsed (nil entry means "not set on the command line"); env and
// fileDefaults are consulted in that order when a flag is absent.
func (b *Binder) Bind(ctx context.Context, cliValues map[string]*string, env ports.EnvReader, fileDefaults map[string]string) (map[string]interface{}, error) {
	resolved := make(map[string]interface{}, len(b.specs))
	var errs []error

	for _, spec := range b.specs {
		if err := b.validator.Var(spec.Name, "param_name"); err != nil {
			errs = append(errs, apperrors.NewValidationError(spec.Name, "parameter name must start with a letter and contain only letters, digits and underscores", err))
			continue
		}

		raw, present := b.resolveRaw(spec, cliValues, env, fileDefaults)
		if !present {
			if spec.Required {
				errs = append(errs, apperrors.NewValidationError(spec.Name, "required parameter not supplied", nil))
				continue
			}
			resolved[spec.Name] = spec.Default
			continue
		}

		value, err := coerce(spec, raw)
		if err != nil {
			errs = append(errs, apperrors.NewValidationError(spec.Name, err.Error(), err))
			continue
		}

		if spec.Tag != "" {
			if err := b.validator.Var(value, spec.Tag); err != nil {
				errs = append(errs, apperrors.NewValidationError(spec.Name, fmt.Sprintf("invalid value %v", value), err))
				continue
			}
		}

		resolved[spec.Name] = value
		b.logDebug(ctx, "bound parameter", spec.Name, value)
	}

	if err := apperrors.NewAggregate(errs...); err != nil {
		return nil, err
	}
	return resolved, nil
}

func (b *Binder) resolveRaw(spec ParamSpec, cliValues map[string]*string, env ports.EnvReader, fileDefaults map[string]string) (string, bool) {
	if cliValues != nil {
		if v, ok := cliValues[spec.Name]; ok && v != nil {
			return *v, true
		}
	}
	if env != nil && spec.EnvVar != "" {
		if v, ok := env.Lookup(spec.EnvVar); ok {
			return v, true
		}
	}
	if fileDefaults != nil {
		if v, ok := fileDefaults[spec.Name]; ok {
			return v, true
		}
	}
	return "", false
}

func coerce(spec ParamSpec, raw string) (interface{}, error) {
	switch spec.Type {
	case ParamBool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("expected a boolean, got %q", raw)
		}
		return v, nil
	case ParamInt:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("expected an integer, got %q", raw)
		}
		return v, nil
	case ParamNullableInt:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("expected an integer, got %q", raw)
		}
		return &v, nil
	case ParamEnum:
		for _, allowed := range spec.Enum {
			if allowed == raw {
				return raw, nil
			}
		}
		return nil, fmt.Errorf("expected one of %v, got %q", spec.Enum, raw)
	default:
		return raw, nil
	}
}

func (b *Binder) logDebug(ctx context.Context, msg, name string, value interface{}) {
	if b.logger == nil {
		return
	}
	b.logger.Debug(ctx, msg, "parameter", name, "value", value)
}

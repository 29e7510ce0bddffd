// Package requirements validates a build's declared pre-conditions before
// the executor runs: every requirement of every executing target must name
// a non-empty, non-zero build parameter, or the whole run fails fast with
// one aggregate error listing every unmet requirement.
package requirements

import (
	"fmt"

	"github.com/forgehq/forge/internal/domain/target"
	apperrors "github.com/forgehq/forge/pkg/errors"
)

// Validate checks every requirement declared by the targets in list against
// the build's parameters. It returns a single *target.DomainError with code
// ErrCodeRequirements wrapping an aggregate of every unmet requirement, or
// nil if all requirements are satisfied. It gates on whatever list contains,
// nothing more: a skipped target's requirement only matters if the caller
// left it in list.Targets, so callers that want to exempt skipped targets
// must filter them out before calling Validate (see forge.go's executingOnly).
func Validate(list target.ExecutionList, params map[string]interface{}) error {
	var unmet []error

	for _, t := range list.Targets {
		for _, req := range t.Requirements {
			if satisfied(params, req.Name) {
				continue
			}
			unmet = append(unmet, fmt.Errorf("target %q requires parameter %q", t.Name, req.Name))
		}
	}

	if len(unmet) == 0 {
		return nil
	}

	agg := apperrors.NewAggregate(unmet...)
	return target.NewRequirementsError(agg.Error(), map[string]interface{}{"unmet_count": len(unmet)})
}

func satisfied(params map[string]interface{}, name string) bool {
	v, ok := params[name]
	if !ok || v == nil {
		return false
	}
	switch val := v.(type) {
	case string:
		return val != ""
	case bool:
		return val
	case int:
		return val != 0
	case []string:
		return len(val) > 0
	default:
		return true
	}
}

package when

import (
	"fmt"
	"strings"

	"github.com/femnad/kur/internal"
	"github.com/femnad/kur/precheck"
)

const (
	negation = "not "
)

type Whenable interface {
	RunWhen() string
}

// EvalStatement evaluates a fact name, optionally prefixed with "not".
func EvalStatement(statement string, facts map[string]func() (bool, error)) (bool, error) {
	statement = strings.TrimSpace(statement)
	if statement == "" {
		return true, nil
	}

	negate := strings.HasPrefix(statement, negation)
	name := strings.TrimSpace(strings.TrimPrefix(statement, negation))

	fact, ok := facts[name]
	if !ok {
		return false, fmt.Errorf("unknown fact %s", name)
	}

	result, err := fact()
	if err != nil {
		return false, err
	}

	return result != negate, nil
}

func ShouldRun(whenable Whenable) bool {
	statement := whenable.RunWhen()
	if statement == "" {
		return true
	}

	shouldRun, err := EvalStatement(statement, precheck.Facts)
	if err != nil {
		internal.Log.Warningf("error evaluating condition %s: %v", statement, err)
		return false
	}

	return shouldRun
}

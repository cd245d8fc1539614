// Package env_vars exposes the process environment to plans as the env
// object, so plan expressions can read env.SOLVER_URL and the like.
package env_vars

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/vk/shiftgrid/internal/ctxlog"
	"github.com/vk/shiftgrid/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// VarName is the plan variable name.
const VarName = "env"

// DotEnvFile is loaded, when present, before the environment is read.
// Variables already set in the process take precedence.
var DotEnvFile = ".env"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Register registers the plan variable with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterPlanVar(VarName, Value)
}

// Value returns the environment as a cty object of strings.
func Value(ctx context.Context) (cty.Value, error) {
	if err := godotenv.Load(DotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		ctxlog.FromContext(ctx).Warn("Failed to load dotenv file", "file", DotEnvFile, "error", err)
	}

	envMap := make(map[string]cty.Value)
	for _, e := range os.Environ() {
		pair := strings.SplitN(e, "=", 2)
		if len(pair) == 2 && pair[0] != "" {
			envMap[pair[0]] = cty.StringVal(pair[1])
		}
	}
	if len(envMap) == 0 {
		return cty.EmptyObjectVal, nil
	}
	return cty.ObjectVal(envMap), nil
}

package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/shiftgrid/internal/ctxlog"
)

// DefaultFormat is the exporter every registry must provide.
const DefaultFormat = "text"

// ValidateRegistry checks that the registered modules form a usable set.
func (r *Registry) ValidateRegistry(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	if len(r.TransportRegistry) == 0 {
		errs = append(errs, "no solver transport registered")
	}
	if _, ok := r.ExporterRegistry[DefaultFormat]; !ok {
		errs = append(errs, fmt.Sprintf("default exporter '%s' is not registered", DefaultFormat))
	}

	for name, e := range r.ExporterRegistry {
		if e.Write == nil {
			errs = append(errs, fmt.Sprintf("exporter '%s': missing write function", name))
		}
		if e.ContentType == "" || e.Extension == "" {
			errs = append(errs, fmt.Sprintf("exporter '%s': content type and extension are required", name))
		}
	}

	for name := range r.PlanVarRegistry {
		if !hclsyntax.ValidIdentifier(name) {
			errs = append(errs, fmt.Sprintf("plan variable '%s' is not a valid identifier", name))
		}
	}

	if r.Uploader == nil {
		logger.Warn("No uploader registered, --upload-url will be unavailable.")
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}

	return nil
}

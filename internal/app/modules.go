package app

import (
	"github.com/vk/shiftgrid/internal/registry"
	"github.com/vk/shiftgrid/modules/csv"
	"github.com/vk/shiftgrid/modules/env_vars"
	"github.com/vk/shiftgrid/modules/html"
	"github.com/vk/shiftgrid/modules/http_solver"
	"github.com/vk/shiftgrid/modules/json"
	"github.com/vk/shiftgrid/modules/print"
	"github.com/vk/shiftgrid/modules/s3"
	"github.com/vk/shiftgrid/modules/socketio_solver"
	"github.com/vk/shiftgrid/modules/xlsx"
)

// coreModules is the definitive list of all modules that are compiled into
// the shiftgrid binary.
var coreModules = []registry.Module{
	&env_vars.Module{},
	&http_solver.Module{},
	&socketio_solver.Module{},
	&print.Module{},
	&html.Module{},
	&csv.Module{},
	&xlsx.Module{},
	&json.Module{},
	&s3.Module{},
}

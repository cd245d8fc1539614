// Package registry provides the central "glue" for the module system.
//
// The Registry maps the names used on the command line and in plan files
// (e.g. "http", "xlsx", "env") to the compiled Go code that implements them:
// solver transports, view exporters, plan variables and the artifact
// uploader. Modules populate it at startup and it is validated once before
// the application serves any request.
package registry

package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/vk/shiftgrid/internal/ctxlog"
	"github.com/vk/shiftgrid/internal/registry"
	"github.com/vk/shiftgrid/internal/render"
)

var (
	// ErrNoResult is returned when there is nothing to export yet.
	ErrNoResult = errors.New("no schedule has been produced yet")
	// ErrNoUploader is returned when no module provides uploads.
	ErrNoUploader = errors.New("no uploader registered")
)

// Exporter resolves format, falling back to the configured default format.
func (a *App) Exporter(format string) (*registry.Exporter, error) {
	if format == "" {
		format = a.config.Format
	}
	if format == "" {
		format = registry.DefaultFormat
	}
	return a.registry.Exporter(format)
}

// Export writes the latest view to w in the given format.
func (a *App) Export(ctx context.Context, w io.Writer, format string) error {
	view := a.state.LastView()
	if view == nil {
		return ErrNoResult
	}
	return a.ExportView(ctx, w, format, view)
}

// ExportView writes view to w in the given format.
func (a *App) ExportView(ctx context.Context, w io.Writer, format string, view *render.View) error {
	exporter, err := a.Exporter(format)
	if err != nil {
		return err
	}
	ctx = ctxlog.WithLogger(ctx, a.logger)
	if err := exporter.Write(ctx, w, view); err != nil {
		return fmt.Errorf("failed to export %s: %w", exporter.Name, err)
	}
	return nil
}

// Upload exports the latest view and sends it to a pre-signed URL.
func (a *App) Upload(ctx context.Context, url, format string) error {
	if a.registry.Uploader == nil {
		return ErrNoUploader
	}
	exporter, err := a.Exporter(format)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := a.Export(ctx, &buf, exporter.Name); err != nil {
		return err
	}

	ctx = ctxlog.WithLogger(ctx, a.logger)
	if err := a.registry.Uploader(ctx, url, exporter.ContentType, buf.Bytes()); err != nil {
		return fmt.Errorf("failed to upload %s export: %w", exporter.Name, err)
	}
	return nil
}

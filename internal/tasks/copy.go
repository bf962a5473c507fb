// SPDX-License-Identifier: MPL-2.0

package tasks

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/packup/packup/internal/buildctx"
)

// CopyHandler copies a non-script asset from its source to its output.
type CopyHandler struct {
	reporter
	clock Clock
}

// NewCopyHandler creates the watch:copy handler.
func NewCopyHandler(opts ...HandlerOption) *CopyHandler {
	o := applyHandlerOptions(opts)
	return &CopyHandler{clock: o.clock}
}

// Run copies the asset once and again every time the source changes.
func (h *CopyHandler) Run(ctx context.Context, bc *buildctx.Context, task WatchTask) <-chan Result {
	cwd := bc.Cwd()
	return runLoop(ctx, bc, task, h.clock, func(context.Context) error {
		return copyFile(task.SourcePath(cwd), task.OutputPath(cwd))
	})
}

// copyFile writes src to dst through a temporary file in dst's directory so
// readers never observe a partial copy.
func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*")
	if err != nil {
		return fmt.Errorf("create temporary file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = io.Copy(tmp, in); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("copy %s: %w", filepath.Base(src), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temporary file: %w", err)
	}
	if err = os.Chmod(tmp.Name(), info.Mode().Perm()); err != nil {
		return fmt.Errorf("set output mode: %w", err)
	}
	if err = os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("replace output: %w", err)
	}
	return nil
}

// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"errors"
	"fmt"

	"github.com/packup/packup/internal/config"
	"github.com/packup/packup/internal/issue"
	"github.com/packup/packup/internal/tasks"
	"github.com/packup/packup/pkg/manifest"
)

// ErrConfigMissing is the sentinel wrapped by ConfigMissingError.
var ErrConfigMissing = errors.New("missing package.json")

// Sentinels of every fatal error class, so callers only import this package.
var (
	ErrManifestLoad       = manifest.ErrManifestLoad
	ErrManifestValidation = manifest.ErrManifestValidation
	ErrExportOrdering     = manifest.ErrExportOrdering
	ErrBuildConfig        = config.ErrBuildConfig
	ErrTaskHandler        = tasks.ErrTaskHandler
)

// ConfigMissingError is returned when package.json is not part of the
// current config file set or is gone from disk.
type ConfigMissingError struct {
	Path string
}

func (e *ConfigMissingError) Error() string {
	return fmt.Sprintf("%s in %s", ErrConfigMissing, dirOf(e.Path))
}

func (e *ConfigMissingError) Unwrap() error { return ErrConfigMissing }

// IssueFor returns the catalog entry explaining err, or zero when err is
// not one of the fatal error classes.
func IssueFor(err error) issue.Id {
	switch {
	case errors.Is(err, ErrConfigMissing):
		return issue.ConfigMissingId
	case errors.Is(err, ErrManifestLoad):
		return issue.ManifestLoadId
	case errors.Is(err, ErrManifestValidation):
		return issue.ManifestValidationId
	case errors.Is(err, ErrExportOrdering):
		return issue.ExportOrderingId
	case errors.Is(err, ErrBuildConfig):
		return issue.BuildConfigId
	case errors.Is(err, ErrTaskHandler):
		return issue.TaskHandlerId
	default:
		return 0
	}
}

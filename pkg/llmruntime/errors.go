package llmruntime

import (
	"github.com/cockroachdb/errors"
)

var (
	// ErrConfig marks every configuration error returned by this package.
	ErrConfig = errors.New("configuration error")
	// ErrBackendUnavailable marks configuration errors caused by a provider
	// backend that is not registered.
	ErrBackendUnavailable = errors.New("backend unavailable")
)

func configErrorf(format string, args ...any) error {
	return errors.Mark(errors.Newf(format, args...), ErrConfig)
}

// IsConfigError returns true if err is a configuration error.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrConfig)
}

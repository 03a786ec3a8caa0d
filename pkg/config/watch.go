package config

import (
	"github.com/fsnotify/fsnotify"

	"github.com/marmos91/essentials/internal/logger"
)

// Watch calls onChange with the reloaded configuration each time the file
// read by Load changes on disk. A reload that fails validation is passed as
// an error and the previous configuration stays in effect for the caller.
//
// Watch does nothing when Load found no file. It must be called after Load.
func (l *Loader) Watch(onChange func(*Config, error)) bool {
	if !l.found {
		return false
	}

	l.v.OnConfigChange(func(e fsnotify.Event) {
		logger.Debug("Configuration file changed", logger.Path(e.Name), "op", e.Op.String())
		onChange(l.decode())
	})
	l.v.WatchConfig()
	return true
}

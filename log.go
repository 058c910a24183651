// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package logicsim

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var logger atomic.Pointer[zap.Logger]

func init() {
	logger.Store(zap.NewNop())
}

// SetLogger sets the logger used by logicsim and its sub-packages. The
// default logger discards everything. Passing nil restores the default.
//
// Only editing operations log (connections, removals, promotion, loading),
// at debug level. The simulation loop never logs.
//
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger.Store(l)
}

// Logger returns the current logger.
//
func Logger() *zap.Logger {
	return logger.Load()
}

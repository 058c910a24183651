// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package logicsim

import "time"

// SetClock replaces the clock read by Timer gates and returns a function
// restoring the previous one.
func SetClock(f func() time.Time) (restore func()) {
	prev := now
	now = f
	return func() { now = prev }
}

// asserter_test.go -- shared test assertion helper
//
// (c) Sudhi Herle 2018
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package kissdb

import "testing"

// newAsserter returns a small helper in the style used throughout this
// package's tests: assert(cond, format, args...) fails the test with a
// formatted message when cond is false.
func newAsserter(t *testing.T) func(cond bool, format string, args ...interface{}) {
	t.Helper()

	return func(cond bool, format string, args ...interface{}) {
		t.Helper()

		if !cond {
			t.Fatalf(format, args...)
		}
	}
}

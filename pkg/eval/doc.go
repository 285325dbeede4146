// Package eval runs extracted plans against a matrix engine and reports the
// number of matching vertex pairs along with the time spent.
package eval

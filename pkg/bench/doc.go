// Package bench measures how evaluation time varies across the equivalent
// plans of a query.
//
// For every query the Runner saturates the compiled plan once, then
// repeatedly extracts a plan (a random one, or the cheapest) and times its
// evaluation against the graph. Reports list the first samples along with
// the best, worst, mean and median times.
package bench

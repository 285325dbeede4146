package bench

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/authzed/rpqplan/pkg/egraph"
	"github.com/authzed/rpqplan/pkg/genutil/slicez"
	"github.com/authzed/rpqplan/pkg/plan"
)

// Sample is one timed evaluation.
type Sample struct {
	Plan    string
	Count   uint64
	Elapsed time.Duration
}

// QueryReport holds the results of benchmarking one query.
type QueryReport struct {
	ID    int
	Query string

	// Err is set if the query could not be compiled or saturated.
	Err error

	Input      plan.Expr
	Saturation egraph.Report

	// Samples are in the order they were taken.
	Samples []Sample

	// Dropped counts rounds whose evaluation failed.
	Dropped int

	DistinctPlans int
	Best, Worst   Sample
	Mean, Median  time.Duration
	P90, P99      time.Duration
}

func (qr *QueryReport) summarize() {
	if len(qr.Samples) == 0 {
		return
	}

	byElapsed := func(a, b Sample) int { return cmp.Compare(a.Elapsed, b.Elapsed) }
	qr.Best = slices.MinFunc(qr.Samples, byElapsed)
	qr.Worst = slices.MaxFunc(qr.Samples, byElapsed)

	durations := slicez.Map(qr.Samples, func(s Sample) time.Duration { return s.Elapsed })
	var total time.Duration
	for _, d := range durations {
		total += d
	}
	qr.Mean = total / time.Duration(len(durations))

	slices.Sort(durations)
	mid := len(durations) / 2
	if len(durations)%2 == 0 {
		qr.Median = (durations[mid-1] + durations[mid]) / 2
	} else {
		qr.Median = durations[mid]
	}
}

// firstRuns is the number of leading samples listed in a report.
func firstRuns(runs int) int {
	return runs / 100
}

var (
	heading = color.New(color.Bold).SprintFunc()
	failure = color.New(color.FgRed).SprintFunc()
	good    = color.New(color.FgGreen).SprintFunc()
	bad     = color.New(color.FgYellow).SprintFunc()
)

func (qr *QueryReport) write(w io.Writer) {
	fmt.Fprintf(w, "%s %d,%s\n", heading("Running"), qr.ID, qr.Query)
	if qr.Err != nil {
		fmt.Fprintf(w, "%s %s\n\n", failure("unable to execute query:"), qr.Err)
		return
	}

	fmt.Fprintf(w, "%s %d,%s\n", heading("Stats for"), qr.ID, qr.Query)
	fmt.Fprintf(w, "    Saturation: %s after %d iterations, %s nodes in %s classes (%s)\n",
		qr.Saturation.StopReason,
		len(qr.Saturation.Iterations),
		humanize.Comma(int64(qr.Saturation.Nodes)),
		humanize.Comma(int64(qr.Saturation.Classes)),
		qr.Saturation.Elapsed,
	)

	runs := len(qr.Samples) + qr.Dropped
	first := min(firstRuns(runs), len(qr.Samples))
	fmt.Fprintf(w, "    First %d runs\n", first)
	for _, s := range qr.Samples[:first] {
		fmt.Fprintf(w, "    - %s %s %s\n", s.Elapsed, s.Plan, humanize.Comma(int64(s.Count)))
	}

	if len(qr.Samples) == 0 {
		fmt.Fprintf(w, "    %s\n\n", failure("every evaluation failed"))
		return
	}

	fmt.Fprintf(w, "    Best %s: %s\n", good(qr.Best.Elapsed), qr.Best.Plan)
	fmt.Fprintf(w, "    Worst %s: %s\n", bad(qr.Worst.Elapsed), qr.Worst.Plan)
	fmt.Fprintf(w, "    Mean: %s\n", qr.Mean)
	fmt.Fprintf(w, "    Median: %s\n", qr.Median)
	fmt.Fprintf(w, "    p90: %s p99: %s\n", qr.P90, qr.P99)
	fmt.Fprintf(w, "    Distinct plans: %s of %s samples\n",
		humanize.Comma(int64(qr.DistinctPlans)),
		humanize.Comma(int64(len(qr.Samples))),
	)
	if qr.Dropped > 0 {
		fmt.Fprintf(w, "    Dropped: %s failed evaluations\n", humanize.Comma(int64(qr.Dropped)))
	}
	fmt.Fprintln(w)
}

// Copyright (C) 2020 Markus L. Noga
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"strconv"
	"strings"
	"time"

	nl "github.com/mlnoga/quickselect/internal"
	"github.com/mlnoga/quickselect/internal/bench"
	"github.com/mlnoga/quickselect/internal/plot"
	"github.com/mlnoga/quickselect/internal/qsort"
	"github.com/mlnoga/quickselect/internal/rest"
	"github.com/pbnjay/memory"
	"github.com/pkg/errors"
	pb "gopkg.in/cheggaaa/pb.v1"
)

const version = "0.1.0"

var totalMiBs = memory.TotalMemory() / 1024 / 1024

var cpuprofile = flag.String("cpuprofile", "", "write cpu profile to `file`")
var memprofile = flag.String("memprofile", "", "write memory profile to `file`")

var out = flag.String("out", "", "save experiment results as CSV to `file`")
var chart = flag.String("plot", "", "save chart of experiment results to `file`, with suffix .png, .tif or .tiff")
var log = flag.String("log", "%auto", "save log output to `file`. `%auto` replaces suffix of output file with .log")

var policy = flag.String("policy", "deterministic", "pivot policy, deterministic (last element) or randomized")
var seed = flag.Uint("seed", 0, "seed for random inputs and pivots, 0=random")

var plan = flag.String("plan", "", "load experiment plan from .json, .yaml or .yml `file`")
var sizes = flag.String("sizes", "", "comma-separated input lengths, e.g. `100,1000,10000`. Empty=experiment default")
var trials = flag.Int("trials", 0, "timed trials per input length, 0=experiment default")
var reps = flag.Int("reps", 0, "repetitions per input length for sortComparison, 0=experiment default")
var maxFactor = flag.Int("maxFactor", 0, "largest input length for runningTimes as multiple of 100, 0=experiment default")
var verify = flag.Bool("verify", false, "cross-check every timed result against a full sort")
var progress = flag.Bool("progress", false, "show a progress bar while running experiments")
var maxLen = flag.Int("maxLen", 0, "refuse input lengths above this, 0=memory budget only")
var benchMemory = flag.Int64("benchMemory", int64((totalMiBs*7)/10), "total MiB of memory to use for experiments, default=0.7x physical memory")

var addr = flag.String("addr", ":8080", "listen address for serve")
var maxWork = flag.Int64("maxWork", 50000000, "serve: refuse posted experiments whose timed calls times largest input length exceed this, 0=unlimited")
var chroot = flag.String("chroot", "", "serve: change filesystem root to `dir` before accepting requests (requires root)")
var setuid = flag.Int("setuid", -1, "serve: switch to this user id before accepting requests, -1=keep")

// The reference list from the documentation; its 5th largest element is 39
var exampleValues = []int{81, 2, 25, 33, 69, 39, 42, 17, 62, 15}

func main() {
	logWriter := nl.LogWriter()
	start := time.Now()
	flag.Usage = func() {
		fmt.Fprintf(os.Stdout, `Quickselect Copyright (c) 2020 Markus L. Noga
This program comes with ABSOLUTELY NO WARRANTY.
This is free software, and you are welcome to redistribute it under certain conditions.
Refer to https://www.gnu.org/licenses/gpl-3.0.en.html for details.

Usage: %s [-flag value] (select|example|bench|serve|legal|version|help) (args)

Commands:
  select  Select the k-th largest of the given values, e.g. select 5 81 2 25 33 69
  example Select the 5th largest element of a fixed reference list
  bench   Run a timing experiment, one of %s
  serve   Serve the REST API
  legal   Show license and attribution information
  version Show version information

Flags:
`, os.Args[0], strings.Join(bench.ExperimentTypes(), ", "))
		flag.PrintDefaults()
	}
	flag.Parse()

	// Initialize logging to file in addition to stdout, if selected
	if *log == "%auto" {
		if *out != "" {
			*log = strings.TrimSuffix(*out, filepath.Ext(*out)) + ".log"
		} else {
			*log = ""
		}
	}
	if *log != "" {
		if err := nl.LogAlsoToFile(*log); err != nil {
			nl.LogFatalf("Unable to open logfile '%s'\n", *log)
		}
	}

	// Enable CPU profiling if flagged
	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			nl.LogFatal("Could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			nl.LogFatal("Could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}

	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
		return
	}

	// run actions
	var err error
	switch args[0] {
	case "select":
		err = cmdSelect(args[1:])

	case "example":
		err = cmdExample()

	case "bench":
		err = cmdBench(args[1:])

	case "serve":
		if err = rest.MakeSandbox(logWriter, *chroot, *setuid); err == nil {
			srv := rest.NewServer(logWriter)
			if *maxLen > 0 {
				srv.MaxInputLength = *maxLen
			}
			srv.MaxWork = *maxWork
			err = srv.Run(*addr)
		}

	case "legal":
		nl.LogPrint(legal)

	case "version":
		fmt.Fprintf(logWriter, "Version %s\n", version)
		return

	case "help", "?":
		flag.Usage()
		return

	default:
		fmt.Fprintf(logWriter, "Unknown command '%s'\n\n", args[0])
		flag.Usage()
		return
	}

	elapsed := time.Since(start)
	fmt.Fprintf(logWriter, "\nDone after %v\n", elapsed)

	// Store memory profile if flagged
	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		if err != nil {
			nl.LogFatal("Could not create memory profile: ", err)
		}
		defer f.Close()
		runtime.GC() // get up-to-date statistics
		if err := pprof.Lookup("allocs").WriteTo(f, 0); err != nil {
			nl.LogFatal("Could not write allocation profile: ", err)
		}
	}

	if err != nil {
		fmt.Fprintf(logWriter, "Error: %s\n", err.Error())
		nl.LogSync()
		os.Exit(-1)
	}
	nl.LogSync()
}

// Returns the index source for the -seed flag, nil for the process-wide source
func pivotSource() qsort.IndexSource {
	if *seed == 0 {
		return nil
	}
	return qsort.NewSeededSource(uint32(*seed))
}

// Select the k-th largest of the values given on the command line
func cmdSelect(args []string) error {
	if len(args) < 1 {
		return errors.New("select needs a rank k followed by values")
	}
	k, err := strconv.Atoi(args[0])
	if err != nil {
		return errors.Wrapf(err, "parsing rank '%s'", args[0])
	}
	values := make([]float64, len(args)-1)
	for i, a := range args[1:] {
		if values[i], err = strconv.ParseFloat(a, 64); err != nil {
			return errors.Wrapf(err, "parsing value '%s'", a)
		}
	}
	p, err := qsort.ParsePolicy(*policy)
	if err != nil {
		return err
	}
	res, err := qsort.Select(values, k, p, pivotSource())
	if err != nil {
		return err
	}
	nl.LogPrintf("%g\n", res)
	return nil
}

// Select the 5th largest of the reference list with both policies
func cmdExample() error {
	nl.LogPrintf("Values %v\n", exampleValues)
	for _, p := range []qsort.Policy{qsort.Deterministic, qsort.Randomized} {
		res, err := qsort.Select(exampleValues, 5, p, pivotSource())
		if err != nil {
			return err
		}
		nl.LogPrintf("5th largest with %s pivot: %d\n", p, res)
	}
	return nil
}

// Run a timing experiment given by plan file or type name, with flag overrides
func cmdBench(args []string) error {
	var e bench.Experiment
	var err error
	switch {
	case *plan != "":
		e, err = bench.LoadExperiment(*plan)
	case len(args) > 0:
		e, err = bench.NewExperiment(args[0])
	default:
		err = errors.Errorf("bench needs an experiment type or -plan, one of %v", bench.ExperimentTypes())
	}
	if err != nil {
		return err
	}
	if err = applyFlags(e); err != nil {
		return err
	}

	c := bench.NewContext(nl.LogWriter())
	c.BenchMemoryMB = int(*benchMemory)
	c.MaxInputLength = *maxLen
	c.Seed = uint32(*seed)
	c.Verify = *verify
	if *progress {
		bar := pb.New(e.NumTrials())
		bar.Output = os.Stderr
		bar.ShowTimeLeft = true
		bar.Start()
		defer bar.Finish()
		c.Progress = func(done, total int) { bar.Set(done) }
	}

	nl.LogPrintf("Running %s on %s\n", e.GetType(), bench.CurrentHost())
	r, err := e.Run(c)
	if err != nil {
		return err
	}
	r.LogFits(nl.LogWriter())

	if *out != "" {
		nl.LogPrintf("Writing results to %s\n", *out)
		if err = r.WriteCSVFile(*out); err != nil {
			return err
		}
	}
	if *chart != "" {
		nl.LogPrintf("Writing chart to %s\n", *chart)
		if err = plot.WriteFile(*chart, r.Chart()); err != nil {
			return err
		}
	}
	return nil
}

// Returns true if the named flag was given on the command line
func isSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

func parseSizes(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	res := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, errors.Wrapf(err, "parsing input length '%s'", p)
		}
		res[i] = n
	}
	return res, nil
}

// Overrides experiment settings with the flags given on the command line
func applyFlags(e bench.Experiment) error {
	sz, err := parseSizes(*sizes)
	if err != nil {
		return err
	}
	switch x := e.(type) {
	case *bench.RunningTimes:
		if len(sz) > 0 {
			return errors.New("runningTimes takes -maxFactor, not -sizes")
		}
		if *maxFactor > 0 {
			x.MaxFactor = *maxFactor
		}
		if *trials > 0 {
			x.Trials = *trials
		}
		if isSet("policy") {
			x.Policy = *policy
		}
	case *bench.SortComparison:
		if len(sz) > 0 {
			x.Sizes = sz
		}
		if *reps > 0 {
			x.Reps = *reps
		}
	case *bench.InputOrder:
		if len(sz) > 0 {
			x.Sizes = sz
		}
		if *trials > 0 {
			x.Trials = *trials
		}
		if isSet("policy") {
			x.Policy = *policy
		}
	case *bench.PolicyGrowth:
		if len(sz) > 0 {
			x.Sizes = sz
		}
		if *trials > 0 {
			x.Trials = *trials
		}
	}
	return nil
}

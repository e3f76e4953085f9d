// Command 1brc computes per-station minimum/mean/maximum temperature
// aggregates from a flat, semicolon-delimited measurements file.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"runtime/debug"
	"runtime/pprof"
	"runtime/trace"

	"github.com/asg0451/1brc/internal/config"
	"github.com/asg0451/1brc/internal/pipeline"
	"github.com/asg0451/1brc/internal/report"
	"go.coldcutz.net/go-stuff/utils"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to `file`")
	memprofile = flag.String("memprofile", "", "write memory profile to `file`")
	traceFile  = flag.String("trace", "", "write trace to `file`")

	inputFile  = flag.String("file", "measurements.txt", "path to the measurements file")
	configFile = flag.String("config", "1brc.toml", "optional TOML override file")
	baseline   = flag.String("baseline", "", "if set, compare output against this baseline file before printing it; a mismatch is fatal")
	useMmap    = flag.Bool("mmap", true, "use mmap + offset-adjust splitting instead of streamed reads")
	useSWAR    = flag.Bool("swar", true, "use the branchless SWAR line parser instead of the scalar one")
	fastMap    = flag.Bool("fast-map", false, "use the fingerprint hashing scheme instead of the general byte-sequence hash")
)

func main() {
	flag.Parse()

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			panic(err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			panic(err)
		}
		defer pprof.StopCPUProfile()
	}

	if *traceFile != "" {
		f, err := os.Create(*traceFile)
		if err != nil {
			panic(err)
		}
		defer f.Close()
		if err := trace.Start(f); err != nil {
			panic(err)
		}
		defer trace.Stop()
	}

	_, done, log, err := utils.StdSetup()
	if err != nil {
		panic(err)
	}
	done() // use default signal stuff

	if err := run(log); err != nil {
		log.Error("error", "err", err)
		os.Exit(1)
	}

	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		if err != nil {
			panic(err)
		}
		defer f.Close()
		runtime.GC() // get up-to-date statistics
		if err := pprof.WriteHeapProfile(f); err != nil {
			panic(err)
		}
	}
}

func run(log *slog.Logger) error {
	fc, err := config.LoadFileConfig(*configFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if fc.DisableGC {
		debug.SetGCPercent(-1)
	}

	workers, err := config.Workers()
	if err != nil {
		return fmt.Errorf("resolving worker count: %w", err)
	}

	cfg := pipeline.Config{
		Path:                *inputFile,
		Workers:             workers,
		UseMmap:             *useMmap,
		UseSWAR:             *useSWAR,
		FastMap:             *fastMap,
		MaxStationNameBytes: fc.MaxStationNameBytes,
		ChunkBufferBytes:    fc.ChunkBufferBytes,
	}

	log.Info("starting run", "file", cfg.Path, "workers", cfg.Workers, "mmap", cfg.UseMmap, "swar", cfg.UseSWAR, "fastMap", cfg.FastMap)

	m, err := pipeline.Run(cfg)
	if err != nil {
		return fmt.Errorf("running pipeline: %w", err)
	}

	output := report.Format(m)

	if *baseline != "" {
		if err := report.CompareBaseline(output, *baseline); err != nil {
			return err
		}
	}

	fmt.Println(output)
	return nil
}

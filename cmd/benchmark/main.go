package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"strconv"
	"strings"
	"time"

	"github.com/delaneyj/finegrain/reactive"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"
)

const (
	widthsKey  = "widths"
	heightsKey = "heights"
	itersKey   = "iters"
	profileKey = "profile"
)

func main() {
	cmd := &cli.Command{
		Name:  "benchmark",
		Usage: "Measure write-to-effect latency through memo chains",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  widthsKey,
				Usage: "Comma separated number of parallel chains",
				Value: "1,10,100,1000",
			},
			&cli.StringFlag{
				Name:  heightsKey,
				Usage: "Comma separated chain lengths",
				Value: "1,10,100,1000",
			},
			&cli.UintFlag{
				Name:  itersKey,
				Usage: "Writes per configuration",
				Value: 100,
			},
			&cli.StringFlag{
				Name:  profileKey,
				Usage: "Write a CPU profile to this file",
				Value: "default.pgo",
			},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	ww, err := parseInts(cmd.String(widthsKey))
	if err != nil {
		return fmt.Errorf("widths: %w", err)
	}
	hh, err := parseInts(cmd.String(heightsKey))
	if err != nil {
		return fmt.Errorf("heights: %w", err)
	}
	iters := int(cmd.Uint(itersKey))

	if path := cmd.String(profileKey); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return err
		}
		defer pprof.StopCPUProfile()
	}

	log.Printf("warming up")
	if _, err := benchmarkPropagate(ww, hh, iters, false); err != nil {
		return err
	}

	for _, bench := range []struct {
		title   string
		batched bool
	}{
		{"Propagate", false},
		{"Propagate (batched writes)", true},
	} {
		tbl, err := benchmarkPropagate(ww, hh, iters, bench.batched)
		if err != nil {
			return err
		}
		tbl.SetTitle(bench.title)
		tbl.Render()
	}
	return nil
}

func addOne(v int) int {
	return v + 1
}

func benchmarkPropagate(ww, hh []int, iters int, batched bool) (table.Writer, error) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"benchmark", "avg", "min", "p75", "p99", "max", "runs"})

	for _, w := range ww {
		for _, h := range hh {
			tach := tachymeter.New(&tachymeter.Config{Size: iters})

			rt := reactive.NewRuntime(reactive.WithCapacity(w*(h+1) + 1))
			root := rt.Root()
			src, setSrc := reactive.CreateSignal(root, 1)

			runs := 0
			for i := 0; i < w; i++ {
				var last reactive.Readable[int] = src
				for j := 0; j < h; j++ {
					last = reactive.Derive1(root, last, addOne)
				}

				tail := last
				if _, err := reactive.CreateEffect(root, func(reactive.Scope) {
					tail.Get()
					runs++
				}); err != nil {
					return nil, err
				}
			}
			runs = 0

			for i := 0; i < iters; i++ {
				start := time.Now()
				var err error
				if batched {
					err = rt.Batch(func() {
						setSrc.Set(src.Peek() + 1)
						setSrc.Set(src.Peek() + 1)
					})
				} else {
					err = setSrc.Write(src.Peek() + 1)
				}
				if err != nil {
					return nil, err
				}
				tach.AddTime(time.Since(start))
			}

			calc := tach.Calc()
			tbl.AppendRows([]table.Row{
				{
					fmt.Sprintf("propagate: %d * %d", w, h),
					calc.Time.Avg,
					calc.Time.Min,
					calc.Time.P75,
					calc.Time.P99,
					calc.Time.Max,
					runs,
				},
			})

			if err := rt.Dispose(); err != nil {
				return nil, err
			}
		}
	}
	return tbl, nil
}

func parseInts(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

package main

import (
	"context"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/delaneyj/finegrain/reactive"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"
)

const (
	repeatsKey = "repeats"
	onlyKey    = "only"
)

type testConfig struct {
	name           string  // friendly name for the test, should be unique
	width          int     // width of dependency graph to construct
	totalLayers    int     // depth of dependency graph to construct
	staticFraction float64 // fraction of nodes that always read the same sources
	nSources       int     // number of sources each node reads
	readFraction   float64 // fraction of the last layer read back each iteration
	iterations     int64   // number of test iterations
}

var testConfigs = []testConfig{
	{
		name:           "simple component",
		width:          10,
		staticFraction: 1,
		nSources:       2,
		totalLayers:    5,
		readFraction:   0.2,
		iterations:     600000,
	},
	{
		name:           "dynamic component",
		width:          10,
		totalLayers:    10,
		staticFraction: 0.75,
		nSources:       6,
		readFraction:   0.2,
		iterations:     15000,
	},
	{
		name:           "large web app",
		width:          1000,
		totalLayers:    12,
		staticFraction: 0.95,
		nSources:       4,
		readFraction:   1,
		iterations:     7000,
	},
	{
		name:           "wide dense",
		width:          1000,
		totalLayers:    5,
		staticFraction: 1,
		nSources:       25,
		readFraction:   1,
		iterations:     3000,
	},
	{
		name:           "deep",
		width:          5,
		totalLayers:    500,
		staticFraction: 1,
		nSources:       3,
		readFraction:   1,
		iterations:     500,
	},
	{
		name:           "very dynamic",
		width:          100,
		totalLayers:    15,
		staticFraction: 0.5,
		nSources:       6,
		readFraction:   1,
		iterations:     2000,
	},
}

func main() {
	cmd := &cli.Command{
		Name:  "benchmark_dynamic",
		Usage: "Run layered graphs with static and dynamic memos",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  repeatsKey,
				Usage: "Timed runs per configuration; the best is reported",
				Value: 5,
			},
			&cli.StringFlag{
				Name:  onlyKey,
				Usage: "Run only configurations whose name contains this",
			},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

type results struct {
	sum      int
	count    int64
	duration time.Duration
}

func run(ctx context.Context, cmd *cli.Command) error {
	log.Print("Starting dynamic graph benchmark, please wait...")
	defer log.Print("Finished dynamic graph benchmark")

	repeats := int(cmd.Uint(repeatsKey))
	only := cmd.String(onlyKey)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{
		"size", "nSources", "read%", "static%",
		"nTimes", "test", "time", "sum", "count",
		"updateRate", "title",
	})

	for _, cfg := range testConfigs {
		if only != "" && !strings.Contains(cfg.name, only) {
			continue
		}
		log.Printf("Running '%s' config", cfg.name)

		best, err := runConfig(cfg, repeats)
		if err != nil {
			return fmt.Errorf("%s: %w", cfg.name, err)
		}

		updateRate := float64(best.count) / (float64(best.duration) / float64(time.Millisecond))
		table.Append([]string{
			fmt.Sprintf("%dx%d", cfg.width, cfg.totalLayers),
			fmt.Sprint(cfg.nSources),
			fmt.Sprint(cfg.readFraction),
			fmt.Sprint(cfg.staticFraction),
			humanize.Comma(cfg.iterations),
			cfg.name,
			fmt.Sprint(best.duration),
			fmt.Sprint(best.sum),
			humanize.Comma(best.count),
			humanize.Comma(int64(updateRate)),
			makeTitle(cfg),
		})
	}
	table.Render()
	return nil
}

func runConfig(cfg testConfig, repeats int) (*results, error) {
	rt := reactive.NewRuntime(reactive.WithCapacity(cfg.width * cfg.totalLayers))
	defer rt.Dispose()

	counter := new(int64)
	g := makeGraph(rt.Root(), cfg, counter)

	// warm up
	if _, err := runGraph(g, cfg); err != nil {
		return nil, err
	}

	best := &results{duration: time.Hour}
	for i := 0; i < repeats; i++ {
		log.Printf("Running '%s' config, iteration %d/%d %d%%", cfg.name, i+1, repeats, (i+1)*100/repeats)
		*counter = 0
		start := time.Now()
		sum, err := runGraph(g, cfg)
		if err != nil {
			return nil, err
		}
		duration := time.Since(start)

		if duration < best.duration {
			best.duration = duration
			best.sum = sum
			best.count = *counter
		}
	}
	return best, nil
}

func makeTitle(cfg testConfig) string {
	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("%dx%d %d sources", cfg.width, cfg.totalLayers, cfg.nSources))
	if cfg.staticFraction < 1 {
		sb.WriteString(" dynamic")
	}
	if cfg.readFraction < 1 {
		sb.WriteString(fmt.Sprintf(" read %0.2f%%", 100*cfg.readFraction))
	}
	return sb.String()
}

type graph struct {
	sources []reactive.WriteSignal[int]
	layers  [][]reactive.Memo[int]
}

func makeGraph(s reactive.Scope, cfg testConfig, counter *int64) *graph {
	g := &graph{}
	prevRow := make([]reactive.Readable[int], cfg.width)
	for i := 0; i < cfg.width; i++ {
		r, w := reactive.CreateSignal(s, i)
		g.sources = append(g.sources, w)
		prevRow[i] = r
	}

	random := rand.New(rand.NewSource(0))
	for l := 0; l < cfg.totalLayers-1; l++ {
		row := makeRow(s, prevRow, cfg, counter, random)
		g.layers = append(g.layers, row)
		prevRow = make([]reactive.Readable[int], len(row))
		for i, m := range row {
			prevRow[i] = m
		}
	}
	return g
}

func makeRow(s reactive.Scope, sources []reactive.Readable[int], cfg testConfig, counter *int64, random *rand.Rand) []reactive.Memo[int] {
	row := make([]reactive.Memo[int], len(sources))
	for myDex := range sources {
		mySources := make([]reactive.Readable[int], 0, cfg.nSources)
		for sourceDex := 0; sourceDex < cfg.nSources; sourceDex++ {
			mySources = append(mySources, sources[(myDex+sourceDex)%len(sources)])
		}

		if random.Float64() < cfg.staticFraction {
			row[myDex] = reactive.CreateMemo(s, func(int) int {
				*counter++
				sum := 0
				for _, src := range mySources {
					sum += src.Get()
				}
				return sum
			})
			continue
		}

		first, tail := mySources[0], mySources[1:]
		row[myDex] = reactive.CreateMemo(s, func(int) int {
			*counter++
			sum := first.Get()
			shouldDrop := sum&0x1 > 0
			dropDex := 0
			if len(tail) > 0 {
				dropDex = sum % len(tail)
			}
			for i := range tail {
				if shouldDrop && i == dropDex {
					continue
				}
				sum += tail[i].Get()
			}
			return sum
		})
	}
	return row
}

// runGraph writes one source per iteration and reads back part of the last
// layer, returning the sum of the leaves read.
func runGraph(g *graph, cfg testConfig) (int, error) {
	random := rand.New(rand.NewSource(0))
	leaves := g.layers[len(g.layers)-1]
	skipCount := int(math.Round(float64(len(leaves)) * (1 - cfg.readFraction)))
	readLeaves := removeElems(leaves, skipCount, random)

	for i := 0; i < int(cfg.iterations); i++ {
		sourceDex := i % len(g.sources)
		if err := g.sources[sourceDex].Write(i + sourceDex); err != nil {
			return 0, err
		}
		for _, leaf := range readLeaves {
			if _, err := leaf.Read(); err != nil {
				return 0, err
			}
		}
	}

	sum := 0
	for _, leaf := range readLeaves {
		v, err := leaf.Read()
		if err != nil {
			return 0, err
		}
		sum += v
	}
	return sum, nil
}

func removeElems[T any](src []T, rmCount int, rand *rand.Rand) []T {
	out := make([]T, len(src))
	copy(out, src)
	for i := 0; i < rmCount; i++ {
		rmDex := rand.Intn(len(out))
		out[rmDex] = out[len(out)-1]
		out = out[:len(out)-1]
	}
	return out
}

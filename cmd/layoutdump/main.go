// Command layoutdump prints the generated grid and placement plan of every
// level in the catalog.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/milk9111/dungeoncrawler/layout"
	"github.com/milk9111/dungeoncrawler/levels"
	"github.com/milk9111/dungeoncrawler/placement"
	"github.com/milk9111/dungeoncrawler/prefabs"
)

func main() {
	catalogName := flag.String("catalog", levels.CatalogFile, "catalog file under levels/")
	only := flag.Int("level", -1, "dump a single level index")
	gridOnly := flag.Bool("grid", false, "skip the placement summary")
	flag.Parse()

	if err := run(context.Background(), *catalogName, *only, *gridOnly); err != nil {
		slog.Error("layoutdump", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, catalogName string, only int, gridOnly bool) error {
	catalog, err := levels.Load(catalogName)
	if err != nil {
		return err
	}
	tuning, err := prefabs.LoadTuning()
	if err != nil {
		return err
	}

	defs := catalog.Levels
	if only >= 0 {
		def, ok := catalog.Get(only)
		if !ok {
			return fmt.Errorf("level %d outside catalog of %d", only, catalog.Len())
		}
		defs = []levels.LevelDefinition{def}
	}

	out := make([]string, len(defs))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, def := range defs {
		g.Go(func() error {
			dump, err := dumpLevel(def, tuning, catalog.IsFinal(def.Index), gridOnly)
			if err != nil {
				return fmt.Errorf("level %d: %w", def.Index, err)
			}
			out[i] = dump
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	fmt.Print(strings.Join(out, "\n"))
	return nil
}

func dumpLevel(def levels.LevelDefinition, tuning *prefabs.Tuning, final, gridOnly bool) (string, error) {
	rng := rand.New(rand.NewPCG(def.Seed, def.Seed))
	grid, err := layout.Generate(def.Layout, rng)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "== %d %s (seed %d, %s, %d tiles)\n", def.Index, def.Name, def.Seed, def.Layout.Shape, grid.Len())
	b.WriteString(grid.String())
	if gridOnly {
		return b.String(), nil
	}

	opts := placement.FromTuning(tuning, final, placement.DefaultOptions().Player)
	res, err := placement.Plan(grid, def, opts)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(&b, "door %v spawn %v exit %v\n", res.Door, res.Spawn, res.Exit)
	for _, e := range res.Enemies {
		fmt.Fprintf(&b, "  enemy  %-8s #%d at %v patrol %.0f\n", e.Kind, e.Serial, e.Pos, e.Patrol.Range)
	}
	for _, boss := range res.Bosses {
		fmt.Fprintf(&b, "  boss   #%d at %v hp %d atk %d def %d\n", boss.Serial, boss.Pos, boss.Health, boss.Attack, boss.Defense)
	}
	for _, c := range res.Chests {
		content := c.Item.String()
		if c.Mimic {
			content = "mimic"
		}
		fmt.Fprintf(&b, "  chest  %d at %v %s\n", c.Slot, c.Tile, content)
	}
	for _, p := range res.Props {
		fmt.Fprintf(&b, "  prop   %-6s at %v\n", p.Kind, p.Tile)
	}
	if res.Shortfall.Any() {
		fmt.Fprintf(&b, "  shortfall chests=%d props=%d enemies=%d\n", res.Shortfall.Chests, res.Shortfall.Props, res.Shortfall.Enemies)
	}
	return b.String(), nil
}

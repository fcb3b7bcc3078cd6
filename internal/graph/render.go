package graph

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
)

// Colorer returns the path colors an element belongs to, in region order
type Colorer interface {
	ColorsFor(key string) []string
	ColorsForPair(key1, key2 string) []string
}

// RenderOptions controls neighborhood rendering
type RenderOptions struct {
	Center string
	Radius int
	Format graphviz.Format
	Colors Colorer
}

const (
	focusColor    = "yellow"
	offPathColor  = "gray"
	outerStyle    = "filled,rounded,dotted"
	innerStyle    = "filled,rounded"
	labelKeepTail = 6
)

// Render draws the vertices within opts.Radius of opts.Center. Path
// members are filled with their first path color; edges shared by paths take
// the shared colors.
func (gr *Graph) Render(ctx context.Context, w io.Writer, opts RenderOptions) error {
	if opts.Radius <= 0 {
		opts.Radius = 3
	}
	if opts.Format == "" {
		opts.Format = graphviz.XDOT
	}

	levels, edges, err := gr.Neighborhood(opts.Center, opts.Radius)
	if err != nil {
		return err
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return fmt.Errorf("failed to create graphviz instance: %w", err)
	}
	defer gv.Close()

	gvGraph, err := gv.Graph()
	if err != nil {
		return fmt.Errorf("failed to create graphviz graph: %w", err)
	}
	defer gvGraph.Close()

	gvGraph.SetLayout("dot")
	gvGraph.SetRankDir(cgraph.LRRank)
	gvGraph.SetBackgroundColor("black")
	if _, err := gvGraph.Attr(int(cgraph.EDGE), "color", "white"); err != nil {
		return fmt.Errorf("failed to set edge defaults: %w", err)
	}
	if _, err := gvGraph.Attr(int(cgraph.NODE), "penwidth", "2"); err != nil {
		return fmt.Errorf("failed to set node defaults: %w", err)
	}

	gvNodes := make(map[string]*cgraph.Node, len(levels))
	for _, key := range sortedLevels(levels) {
		node, err := gvGraph.CreateNodeByName(key)
		if err != nil {
			return fmt.Errorf("failed to create node %s: %w", key, err)
		}

		label := shortLabel(key)
		if coverage, ok := gr.coverage[key]; ok {
			label = fmt.Sprintf("%s\\n%d", label, coverage)
		}
		node.SetLabel(label)
		node.SetShape("box")
		node.SetFontColor("black")
		node.SetFillColor(gr.fillColor(key, opts))

		if levels[key] == opts.Radius {
			node.SetStyle(outerStyle)
		} else {
			node.SetStyle(innerStyle)
		}
		gvNodes[key] = node
	}

	for _, e := range edges {
		edge, err := gvGraph.CreateEdgeByName("", gvNodes[e[0]], gvNodes[e[1]])
		if err != nil {
			return fmt.Errorf("failed to create edge %s -> %s: %w", e[0], e[1], err)
		}
		edge.SetArrowSize(0.8)
		if opts.Colors != nil {
			if colors := opts.Colors.ColorsForPair(e[0], e[1]); len(colors) > 0 {
				edge.SetColor(joinColors(colors))
				edge.SetPenWidth(3)
			}
		}
	}

	if err := gv.Render(ctx, gvGraph, opts.Format, w); err != nil {
		return fmt.Errorf("failed to render graph as %s: %w", opts.Format, err)
	}
	return nil
}

func (gr *Graph) fillColor(key string, opts RenderOptions) string {
	if key == opts.Center {
		return focusColor
	}
	if opts.Colors != nil {
		if colors := opts.Colors.ColorsFor(key); len(colors) > 0 {
			return colors[0]
		}
	}
	return offPathColor
}

// shortLabel keeps long k-mers readable: "ACGTAC…GGTACA"
func shortLabel(key string) string {
	if len(key) <= 2*labelKeepTail+1 {
		return key
	}
	return key[:labelKeepTail] + "…" + key[len(key)-labelKeepTail:]
}

// joinColors builds a graphviz parallel-edge color list
func joinColors(colors []string) string {
	return strings.Join(colors, ":")
}

func sortedLevels(levels map[string]int) []string {
	keys := make([]string, 0, len(levels))
	for k := range levels {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b string) int {
		if c := cmp.Compare(levels[a], levels[b]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	return keys
}

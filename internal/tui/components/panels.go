package components

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"

	"raybrowser/internal/api"
	"raybrowser/internal/region"
)

// RegionSummary is the subset of a region the region panel shows
type RegionSummary struct {
	Name     string
	Key      api.RegionKey
	Color    string
	Location int
	Length   int
	Cached   int
	InFlight bool
}

// Summarize extracts the display fields of a region
func Summarize(r *region.Region) RegionSummary {
	name := r.Identity().RegionName
	if name == "" {
		name = "region " + r.Key().String()
	}
	return RegionSummary{
		Name:     name,
		Key:      r.Key(),
		Color:    r.Color(),
		Location: r.Location(),
		Length:   r.Length(),
		Cached:   r.CachedCount(),
		InFlight: r.InFlight(),
	}
}

// FormatRegions renders the region list with color swatches. selected is
// marked with an arrow.
func FormatRegions(regions []RegionSummary, selected int) string {
	if len(regions) == 0 {
		return "[gray]No paths.\nPress n to start one.[-]"
	}

	var b strings.Builder
	for i, r := range regions {
		marker := "  "
		if i == selected {
			marker = "[yellow]>[-] "
		}
		fmt.Fprintf(&b, "%s[%s]■[-] %s\n", marker, r.Color, tview.Escape(r.Name))
		fmt.Fprintf(&b, "    %d/%d", r.Location, r.Length-1)
		if r.InFlight {
			b.WriteString(" [cyan]…[-]")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// ElementView is everything the element panel shows about the cursor
type ElementView struct {
	Region    RegionSummary
	Left      int
	Right     int
	HasBounds bool
	Element   string
	Cached    bool
	Detail    *api.VertexDetail
	Positions []int
	Colors    []string
}

// FormatElement renders the current element panel
func FormatElement(v ElementView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[yellow]%s[-] (%s)\n", tview.Escape(v.Region.Name), v.Region.Key)
	fmt.Fprintf(&b, "Position: %d of %d\n", v.Region.Location, v.Region.Length)
	if v.HasBounds {
		fmt.Fprintf(&b, "Cached:   %d..%d (%d elements)\n", v.Left, v.Right, v.Region.Cached)
	} else {
		b.WriteString("Cached:   [gray]waiting for first window[-]\n")
	}
	b.WriteString("\n")

	if !v.Cached {
		b.WriteString("[gray]Element not fetched yet[-]\n")
		return b.String()
	}

	fmt.Fprintf(&b, "[green]%s[-]\n", v.Element)
	if len(v.Positions) > 1 {
		fmt.Fprintf(&b, "Also at: %s\n", joinInts(v.Positions))
	}
	if len(v.Colors) > 0 {
		b.WriteString("Paths:   ")
		for _, c := range v.Colors {
			fmt.Fprintf(&b, "[%s]■[-]", c)
		}
		b.WriteString("\n")
	}
	if v.Detail != nil {
		fmt.Fprintf(&b, "Coverage: %d\n", v.Detail.Coverage)
		fmt.Fprintf(&b, "Parents:  %s\n", strings.Join(v.Detail.ParentKeys(), " "))
		fmt.Fprintf(&b, "Children: %s\n", strings.Join(v.Detail.ChildKeys(), " "))
	}
	return b.String()
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ", ")
}

// PanelComponent holds the region list and the element view
type PanelComponent struct {
	regionView  *tview.TextView
	elementView *tview.TextView
}

// NewPanelComponent creates the side and main panels
func NewPanelComponent() *PanelComponent {
	regionView := DefaultTheme.NewPanel("Paths")
	elementView := DefaultTheme.NewPanel("Current element")
	elementView.SetText("[gray]Press n to start a path, a to add one, q to quit.[-]")

	return &PanelComponent{
		regionView:  regionView,
		elementView: elementView,
	}
}

func (pc *PanelComponent) GetRegionView() *tview.TextView  { return pc.regionView }
func (pc *PanelComponent) GetElementView() *tview.TextView { return pc.elementView }

// UpdateRegions redraws the region list
func (pc *PanelComponent) UpdateRegions(regions []RegionSummary, selected int) {
	pc.regionView.SetText(FormatRegions(regions, selected))
}

// UpdateElement redraws the element view
func (pc *PanelComponent) UpdateElement(v ElementView) {
	pc.elementView.SetText(FormatElement(v))
}

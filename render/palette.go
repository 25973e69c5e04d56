package render

import (
	"fmt"
	"strings"
)

// Palette provides color schemes for graph visualization
type Palette struct {
	NodeColors []string
	EdgeColor  string
	LabelColor string
	Background string
}

// Category10 returns the ten-colour categorical scheme used for groups.
func Category10() *Palette {
	return &Palette{
		NodeColors: []string{
			"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
			"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
		},
		EdgeColor:  "#999999",
		LabelColor: "#000000",
		Background: "#ffffff",
	}
}

// VividPalette returns a palette with vibrant colors
func VividPalette() *Palette {
	return &Palette{
		NodeColors: []string{
			"#4285F4", // Blue
			"#EA4335", // Red
			"#FBBC05", // Yellow
			"#34A853", // Green
			"#673AB7", // Purple
			"#3F51B5", // Indigo
			"#00BCD4", // Cyan
			"#009688", // Teal
			"#FF5722", // Deep Orange
		},
		EdgeColor:  "#888888",
		LabelColor: "#202124",
		Background: "#f8f8f8",
	}
}

// DarkPalette returns a high-contrast palette for dark backgrounds
func DarkPalette() *Palette {
	return &Palette{
		NodeColors: []string{
			"#FF6D00", // Amber
			"#2979FF", // Blue
			"#00E676", // Green
			"#F50057", // Pink
			"#651FFF", // Deep Purple
			"#C6FF00", // Lime
			"#FF3D00", // Deep Orange
			"#00B0FF", // Light Blue
			"#76FF03", // Light Green
		},
		EdgeColor:  "#9E9E9E",
		LabelColor: "#EEEEEE",
		Background: "#212121",
	}
}

// PaletteByName looks up a palette; the empty name selects Category10.
func PaletteByName(name string) (*Palette, error) {
	switch strings.ToLower(name) {
	case "", "category10":
		return Category10(), nil
	case "vivid":
		return VividPalette(), nil
	case "dark":
		return DarkPalette(), nil
	default:
		return nil, fmt.Errorf("unknown palette: %s", name)
	}
}

// Ordinal maps group labels to palette slots in order of first use, cycling
// once the palette is exhausted.
type Ordinal struct {
	size  int
	index map[string]int
}

// NewOrdinal creates an ordinal scale over n slots.
func NewOrdinal(n int) *Ordinal {
	if n < 1 {
		n = 1
	}
	return &Ordinal{size: n, index: make(map[string]int)}
}

// Index returns the slot for group, assigning the next one on first use.
func (o *Ordinal) Index(group string) int {
	i, ok := o.index[group]
	if !ok {
		i = len(o.index)
		o.index[group] = i
	}
	return i % o.size
}

// Color returns the node color for group.
func (p *Palette) Color(o *Ordinal, group string) string {
	return p.NodeColors[o.Index(group)%len(p.NodeColors)]
}

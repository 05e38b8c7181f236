package layout

import (
	"sort"

	"github.com/tsawler/layoutlens/model"
	"github.com/tsawler/layoutlens/text"
)

// NodeKind identifies what a layout node holds.
type NodeKind int

const (
	NodeText NodeKind = iota
	NodeFigure
)

func (k NodeKind) String() string {
	switch k {
	case NodeText:
		return "Text"
	case NodeFigure:
		return "Figure"
	default:
		return "Unknown"
	}
}

// Figure is an image or form region on the page.
type Figure struct {
	BBox model.BBox
	// Tabular is set when the document marks the region as a table.
	Tabular bool
}

// Node is one entry of a page's layout tree.
type Node struct {
	Kind NodeKind
	BBox model.BBox // native page space

	// Text is the raw block text for NodeText, empty for figures.
	Text string

	// Tabular mirrors Figure.Tabular for NodeFigure.
	Tabular bool
}

// Build assembles the layout tree of a page: text blocks detected from the
// fragments plus the figure regions, in reading order.
func Build(detector *BlockDetector, fragments []text.TextFragment, figures []Figure) []Node {
	blocks := detector.Detect(fragments)
	gapRatio := detector.Config().WordGapRatio

	nodes := make([]Node, 0, len(blocks)+len(figures))
	for i := range blocks {
		nodes = append(nodes, Node{
			Kind: NodeText,
			BBox: blocks[i].BBox,
			Text: blocks[i].Text(gapRatio),
		})
	}
	for _, f := range figures {
		nodes = append(nodes, Node{
			Kind:    NodeFigure,
			BBox:    f.BBox,
			Tabular: f.Tabular,
		})
	}

	sort.SliceStable(nodes, func(i, j int) bool {
		return readsBefore(nodes[i].BBox, nodes[j].BBox)
	})
	return nodes
}

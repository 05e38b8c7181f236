package layout

import (
	"math"
	"sort"
	"strings"

	"github.com/tsawler/layoutlens/model"
	"github.com/tsawler/layoutlens/text"
)

// Block represents a contiguous rectangular region of text on a page.
type Block struct {
	// BBox is the bounding box of the block
	BBox model.BBox

	// Lines are the fragments grouped into horizontal lines, top to bottom,
	// each sorted left to right
	Lines [][]text.TextFragment
}

// Text returns the block's lines joined by newlines.
func (b *Block) Text(gapRatio float64) string {
	lines := make([]string, 0, len(b.Lines))
	for _, line := range b.Lines {
		lines = append(lines, text.Join(line, gapRatio))
	}
	return strings.Join(lines, "\n")
}

// BlockConfig holds configuration for block detection
type BlockConfig struct {
	// LineHeightTolerance is the Y-distance tolerance for grouping fragments
	// into lines as a fraction of fragment height (default: 0.5)
	LineHeightTolerance float64

	// HorizontalGapThreshold is the minimum horizontal gap, as a fraction of
	// font height, that splits a line into separate segments (default: 3.0)
	HorizontalGapThreshold float64

	// VerticalGapThreshold is the minimum vertical gap to start a new block
	// as a fraction of average line height (default: 1.0)
	VerticalGapThreshold float64

	// WordGapRatio is the gap, as a fraction of glyph height, above which a
	// space is inserted between neighbouring glyphs (default: 0.1)
	WordGapRatio float64
}

// DefaultBlockConfig returns sensible default configuration
func DefaultBlockConfig() BlockConfig {
	return BlockConfig{
		LineHeightTolerance:    0.5,
		HorizontalGapThreshold: 3.0,
		VerticalGapThreshold:   1.0,
		WordGapRatio:           0.1,
	}
}

// BlockDetector detects text blocks on a page
type BlockDetector struct {
	config BlockConfig
}

// NewBlockDetector creates a new block detector with default configuration
func NewBlockDetector() *BlockDetector {
	return &BlockDetector{config: DefaultBlockConfig()}
}

// NewBlockDetectorWithConfig creates a block detector with custom configuration
func NewBlockDetectorWithConfig(config BlockConfig) *BlockDetector {
	return &BlockDetector{config: config}
}

// Config returns the detector's configuration.
func (d *BlockDetector) Config() BlockConfig {
	return d.config
}

// Detect groups fragments into blocks in reading order.
func (d *BlockDetector) Detect(fragments []text.TextFragment) []Block {
	if len(fragments) == 0 {
		return nil
	}

	var segments [][]text.TextFragment
	for _, line := range d.groupIntoLines(fragments) {
		segments = append(segments, d.splitLine(line)...)
	}

	blocks := d.groupSegmentsIntoBlocks(segments)
	sortBlocksInReadingOrder(blocks)
	return blocks
}

// groupIntoLines groups fragments into horizontal lines based on Y position
func (d *BlockDetector) groupIntoLines(fragments []text.TextFragment) [][]text.TextFragment {
	sorted := make([]text.TextFragment, len(fragments))
	copy(sorted, fragments)
	// Higher Y (top of page) first; content order breaks ties
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Y > sorted[j].Y
	})

	var lines [][]text.TextFragment
	var current []text.TextFragment
	var lineY float64

	for _, frag := range sorted {
		if len(current) == 0 {
			current = []text.TextFragment{frag}
			lineY = frag.Y
			continue
		}

		tolerance := math.Max(frag.Height, current[0].Height) * d.config.LineHeightTolerance
		if math.Abs(frag.Y-lineY) <= tolerance {
			current = append(current, frag)
			continue
		}

		lines = append(lines, current)
		current = []text.TextFragment{frag}
		lineY = frag.Y
	}
	if len(current) > 0 {
		lines = append(lines, current)
	}

	for i := range lines {
		line := lines[i]
		sort.SliceStable(line, func(a, b int) bool {
			return line[a].X < line[b].X
		})
	}

	return lines
}

// splitLine breaks a line wherever the horizontal gap is wide enough to
// indicate separate columns.
func (d *BlockDetector) splitLine(line []text.TextFragment) [][]text.TextFragment {
	var segments [][]text.TextFragment
	start := 0
	for i := 1; i < len(line); i++ {
		gap := line[i].X - line[i-1].Right()
		if gap > line[i].Height*d.config.HorizontalGapThreshold {
			segments = append(segments, line[start:i])
			start = i
		}
	}
	return append(segments, line[start:])
}

// groupSegmentsIntoBlocks attaches each line segment to the open block
// directly above it, or starts a new block.
func (d *BlockDetector) groupSegmentsIntoBlocks(segments [][]text.TextFragment) []Block {
	var blocks []Block

	for _, seg := range segments {
		segBox := text.Union(seg)
		attached := false

		for i := len(blocks) - 1; i >= 0; i-- {
			b := &blocks[i]
			last := b.Lines[len(b.Lines)-1]
			lastBox := text.Union(last)

			// Distance between bottom of previous line and top of this one
			gap := lastBox.Bottom() - segBox.Top()
			avgHeight := (lastBox.Height + segBox.Height) / 2
			overlaps := segBox.Left() < lastBox.Right() && lastBox.Left() < segBox.Right()

			if overlaps && gap <= avgHeight*d.config.VerticalGapThreshold {
				b.Lines = append(b.Lines, seg)
				b.BBox = b.BBox.Union(segBox)
				attached = true
				break
			}
		}

		if !attached {
			blocks = append(blocks, Block{
				BBox:  segBox,
				Lines: [][]text.TextFragment{seg},
			})
		}
	}

	return blocks
}

// sortBlocksInReadingOrder sorts blocks top-to-bottom, then left-to-right
func sortBlocksInReadingOrder(blocks []Block) {
	sort.SliceStable(blocks, func(i, j int) bool {
		return readsBefore(blocks[i].BBox, blocks[j].BBox)
	})
}

// readsBefore orders boxes by top edge (higher first), falling back to the
// left edge when the tops are within a small tolerance.
func readsBefore(a, b model.BBox) bool {
	const sameRow = 2.0
	if d := a.Top() - b.Top(); math.Abs(d) > sameRow {
		return d > 0
	}
	return a.Left() < b.Left()
}

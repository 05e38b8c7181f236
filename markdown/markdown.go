// Package markdown serializes extracted elements into a Markdown document.
//
// Output is deterministic: the same blocks and metadata always render to
// byte-identical text. An optional YAML front matter block records where
// the document came from and the extraction metrics.
package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"

	"github.com/tsawler/layoutlens/model"
)

// BlockKind selects how a block is written.
type BlockKind int

const (
	// BlockParagraph is plain text.
	BlockParagraph BlockKind = iota
	// BlockTitle is a level-one heading.
	BlockTitle
	// BlockHeader is a level-two heading.
	BlockHeader
	// BlockImage is an image reference; Text is the alt text.
	BlockImage
)

// Block is one Markdown fragment.
type Block struct {
	Kind BlockKind
	Text string
}

// Metadata is written as front matter when passed to Render.
type Metadata struct {
	Filename      string  `yaml:"filename,omitempty"`
	Model         string  `yaml:"model,omitempty"`
	TimeS         float64 `yaml:"time_s"`
	ElementsCount int     `yaml:"elements_count"`
	WordCount     int     `yaml:"word_count"`
}

// MetadataFromResult fills the metric fields of a Metadata from a result.
func MetadataFromResult(filename, modelID string, r *model.ExtractionResult) *Metadata {
	return &Metadata{
		Filename:      filename,
		Model:         modelID,
		TimeS:         r.Metrics.TimeS,
		ElementsCount: r.Metrics.ElementsCount,
		WordCount:     r.Metrics.WordCount,
	}
}

// BlocksFromElements maps elements to blocks by type: titles and headers
// become headings, figures and tables become image references, anything
// else is a paragraph. Elements with blank text are skipped.
func BlocksFromElements(elements []model.Element) []Block {
	blocks := make([]Block, 0, len(elements))
	for _, el := range elements {
		if el.Type == model.ElementTypeFigure || el.Type == model.ElementTypeTable {
			blocks = append(blocks, Image(el.Type, el.Page))
			continue
		}
		if strings.TrimSpace(el.Text) == "" {
			continue
		}
		switch el.Type {
		case model.ElementTypeTitle:
			blocks = append(blocks, Block{Kind: BlockTitle, Text: el.Text})
		case model.ElementTypeHeader:
			blocks = append(blocks, Block{Kind: BlockHeader, Text: el.Text})
		default:
			blocks = append(blocks, Block{Kind: BlockParagraph, Text: el.Text})
		}
	}
	return blocks
}

// Image returns the image-reference block for a figure or table on a page,
// e.g. "![Figure 2]()".
func Image(t model.ElementType, page int) Block {
	return Block{Kind: BlockImage, Text: fmt.Sprintf("%s %d", t.Label(), page)}
}

// String renders a single block.
func (b Block) String() string {
	switch b.Kind {
	case BlockTitle:
		return "# " + b.Text
	case BlockHeader:
		return "## " + b.Text
	case BlockImage:
		return "![" + b.Text + "]()"
	default:
		return b.Text
	}
}

// Render joins the blocks with one blank line between them. When meta is
// non-nil it is prepended as YAML front matter.
func Render(blocks []Block, meta *Metadata) string {
	var sb strings.Builder

	if meta != nil {
		sb.WriteString(frontMatter(meta))
	}

	first := true
	for _, b := range blocks {
		s := strings.TrimSpace(b.String())
		if s == "" {
			continue
		}
		if !first {
			sb.WriteString("\n\n")
		}
		sb.WriteString(s)
		first = false
	}
	if !first {
		sb.WriteString("\n")
	}

	return sb.String()
}

// WithFrontMatter prepends meta to an already rendered document. A nil meta
// returns md unchanged.
func WithFrontMatter(md string, meta *Metadata) string {
	if meta == nil {
		return md
	}
	return frontMatter(meta) + StripFrontMatter(md)
}

func frontMatter(meta *Metadata) string {
	var buf bytes.Buffer
	buf.WriteString("---\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	// Metadata holds only scalars, encoding cannot fail
	_ = enc.Encode(meta)
	_ = enc.Close()
	buf.WriteString("---\n\n")
	return buf.String()
}

var converter = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// ToHTML renders Markdown to an HTML fragment for previews. Front matter,
// if present, is dropped.
func ToHTML(md string) (string, error) {
	var buf bytes.Buffer
	if err := converter.Convert([]byte(StripFrontMatter(md)), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return buf.String(), nil
}

// StripFrontMatter removes a leading YAML front matter block.
func StripFrontMatter(md string) string {
	if !strings.HasPrefix(md, "---\n") {
		return md
	}
	end := strings.Index(md[4:], "\n---\n")
	if end < 0 {
		return md
	}
	return strings.TrimLeft(md[4+end+5:], "\n")
}

package layout

import (
	"testing"

	"github.com/tsawler/layoutlens/model"
)

func TestBuild(t *testing.T) {
	frags := glyphs("Caption below", 72, 300, 12)
	frags = append(frags, glyphs("Top text", 72, 700, 12)...)
	figures := []Figure{
		{BBox: model.NewBBox(72, 400, 200, 200)},
		{BBox: model.NewBBox(300, 100, 100, 50), Tabular: true},
	}

	nodes := Build(NewBlockDetector(), frags, figures)
	if len(nodes) != 4 {
		t.Fatalf("got %d nodes, want 4", len(nodes))
	}

	wantKinds := []NodeKind{NodeText, NodeFigure, NodeText, NodeFigure}
	for i, want := range wantKinds {
		if nodes[i].Kind != want {
			t.Errorf("node %d kind = %v, want %v", i, nodes[i].Kind, want)
		}
	}
	if nodes[0].Text != "Top text" {
		t.Errorf("node 0 text = %q", nodes[0].Text)
	}
	if !nodes[3].Tabular {
		t.Error("expected last figure to be tabular")
	}
}

func TestBuildEmptyPage(t *testing.T) {
	if nodes := Build(NewBlockDetector(), nil, nil); len(nodes) != 0 {
		t.Errorf("expected no nodes, got %d", len(nodes))
	}
}

func TestNodeKindString(t *testing.T) {
	if NodeText.String() != "Text" || NodeFigure.String() != "Figure" || NodeKind(9).String() != "Unknown" {
		t.Error("unexpected NodeKind names")
	}
}

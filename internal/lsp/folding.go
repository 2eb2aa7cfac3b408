package lsp

import (
	"sort"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"emerald/internal/ast"
	"emerald/internal/parser"
)

// collectFoldingRanges folds runs of comment lines and every statement or
// do-block spanning more than one line. Only comment runs are folded when
// the parse failed.
func collectFoldingRanges(result *parser.ParseResult) []protocol.FoldingRange {
	ends := map[uint32]uint32{}
	kinds := map[uint32]string{}

	addRange := func(startRow, endRow int, kind string) {
		if endRow <= startRow {
			return
		}
		start, end := uint32(startRow-1), uint32(endRow-1)
		if prev, ok := ends[start]; !ok || end > prev {
			ends[start] = end
			kinds[start] = kind
		}
	}

	runStart, runEnd := 0, 0
	for _, c := range result.Comments {
		if runEnd != 0 && c.Start.Row == runEnd+1 {
			runEnd = c.Start.Row
			continue
		}
		addRange(runStart, runEnd, "comment")
		runStart, runEnd = c.Start.Row, c.Start.Row
	}
	addRange(runStart, runEnd, "comment")

	if result.Mod != nil {
		ast.InspectMod(result.Mod, func(n ast.Node) bool {
			switch node := n.(type) {
			case *ast.Stmt:
				if end, ok := node.End(); ok {
					addRange(node.Location.Row, end.Row, "")
				}
			case *ast.Expr:
				if _, ok := node.Node.(*ast.DoBlock); ok {
					if end, ok := node.End(); ok {
						addRange(node.Location.Row, end.Row, "")
					}
				}
			}
			return true
		})
	}

	starts := make([]uint32, 0, len(ends))
	for start := range ends {
		starts = append(starts, start)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i] < starts[j] })

	ranges := make([]protocol.FoldingRange, 0, len(starts))
	for _, start := range starts {
		fr := protocol.FoldingRange{StartLine: start, EndLine: ends[start]}
		if kind := kinds[start]; kind != "" {
			fr.Kind = &kind
		}
		ranges = append(ranges, fr)
	}
	return ranges
}

// Package refmap loads the node reference map used for batch estimation runs.
//
// The map lives in an Excel workbook maintained by the trading desk: one row
// per pricing node, carrying the ISO it settles in and the hub used as the
// volatility backbone for price-volatility multipliers.
package refmap

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"lmp-shapers/internal/market"
)

// NodeMapping is one row of the reference map.
type NodeMapping struct {
	ISO         market.Market
	Name        string
	NodeID      string
	VolBackbone string
}

// Load reads node mappings from the named sheet of an xlsx workbook. The
// first row is treated as a header; column positions are resolved from it so
// desk edits that reorder columns keep working. Rows with an unknown ISO or a
// blank node id are skipped.
func Load(path, sheet string) ([]NodeMapping, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open reference map: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %q has no data rows", sheet)
	}

	cols, err := headerColumns(rows[0])
	if err != nil {
		return nil, err
	}

	var out []NodeMapping
	for _, row := range rows[1:] {
		nodeID := cellAt(row, cols.nodeID)
		if nodeID == "" {
			continue
		}

		iso, err := market.Parse(cellAt(row, cols.iso))
		if err != nil {
			continue
		}

		out = append(out, NodeMapping{
			ISO:         iso,
			Name:        cellAt(row, cols.name),
			NodeID:      nodeID,
			VolBackbone: cellAt(row, cols.backbone),
		})
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("sheet %q yielded no usable mappings", sheet)
	}
	return out, nil
}

// ForMarket filters mappings down to one ISO.
func ForMarket(mappings []NodeMapping, m market.Market) []NodeMapping {
	var out []NodeMapping
	for _, nm := range mappings {
		if nm.ISO == m {
			out = append(out, nm)
		}
	}
	return out
}

// Backbone returns the hub node used as the volatility backbone for a node.
// Falls back to the market's default hub when the map leaves the column
// blank.
func Backbone(nm NodeMapping) (string, error) {
	if nm.VolBackbone != "" {
		return nm.VolBackbone, nil
	}
	desc, err := market.Lookup(nm.ISO)
	if err != nil {
		return "", err
	}
	if desc.HubNode == "" {
		return "", fmt.Errorf("no volatility backbone for node %s in %s", nm.NodeID, nm.ISO)
	}
	return desc.HubNode, nil
}

type columns struct {
	iso      int
	name     int
	nodeID   int
	backbone int
}

func headerColumns(header []string) (columns, error) {
	cols := columns{iso: -1, name: -1, nodeID: -1, backbone: -1}
	for i, h := range header {
		switch normalizeHeader(h) {
		case "iso", "market":
			cols.iso = i
		case "name", "node name":
			cols.name = i
		case "node id", "node", "settlement point":
			cols.nodeID = i
		case "vol backbone", "backbone", "hub":
			cols.backbone = i
		}
	}
	if cols.iso < 0 || cols.nodeID < 0 {
		return cols, fmt.Errorf("reference map header missing iso or node id column")
	}
	return cols, nil
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

package refmap

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"lmp-shapers/internal/market"
)

func writeWorkbook(t *testing.T, sheet string, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	f.SetSheetName(f.GetSheetName(0), sheet)
	for i, row := range rows {
		for j, val := range row {
			col, err := excelize.ColumnNumberToName(j + 1)
			require.NoError(t, err)
			cell, err := excelize.JoinCellName(col, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, val))
		}
	}

	path := filepath.Join(t.TempDir(), "refmap.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestLoad(t *testing.T) {
	path := writeWorkbook(t, "Price Map", [][]any{
		{"ISO", "Name", "Node ID", "Vol Backbone"},
		{"PJM", "Western Hub", "51288", ""},
		{"PJM", "AECO Zone", "51291", "51288"},
		{"MISO", "Indiana Hub", "INDIANA.HUB", ""},
		{"", "blank iso row", "99999", ""},
		{"XYZ", "unknown iso row", "88888", ""},
		{"SPP", "no node id", "", ""},
	})

	mappings, err := Load(path, "Price Map")
	require.NoError(t, err)
	require.Len(t, mappings, 3)

	assert.Equal(t, market.PJM, mappings[0].ISO)
	assert.Equal(t, "Western Hub", mappings[0].Name)
	assert.Equal(t, "51288", mappings[0].NodeID)
	assert.Equal(t, "", mappings[0].VolBackbone)

	assert.Equal(t, "51288", mappings[1].VolBackbone)
	assert.Equal(t, market.MISO, mappings[2].ISO)
}

func TestLoadReorderedColumns(t *testing.T) {
	path := writeWorkbook(t, "Price Map", [][]any{
		{"Node ID", "Vol Backbone", "ISO", "Name"},
		{"4000", "", "ISONE", "Mass Hub"},
	})

	mappings, err := Load(path, "Price Map")
	require.NoError(t, err)
	require.Len(t, mappings, 1)
	assert.Equal(t, market.ISONE, mappings[0].ISO)
	assert.Equal(t, "4000", mappings[0].NodeID)
}

func TestLoadMissingSheet(t *testing.T) {
	path := writeWorkbook(t, "Price Map", [][]any{
		{"ISO", "Name", "Node ID", "Vol Backbone"},
		{"PJM", "Western Hub", "51288", ""},
	})

	_, err := Load(path, "Wrong Sheet")
	assert.Error(t, err)
}

func TestLoadMissingHeader(t *testing.T) {
	path := writeWorkbook(t, "Price Map", [][]any{
		{"Foo", "Bar"},
		{"PJM", "51288"},
	})

	_, err := Load(path, "Price Map")
	assert.ErrorContains(t, err, "missing iso or node id")
}

func TestForMarket(t *testing.T) {
	mappings := []NodeMapping{
		{ISO: market.PJM, NodeID: "51288"},
		{ISO: market.MISO, NodeID: "INDIANA.HUB"},
		{ISO: market.PJM, NodeID: "51291"},
	}

	pjm := ForMarket(mappings, market.PJM)
	require.Len(t, pjm, 2)
	assert.Equal(t, "51288", pjm[0].NodeID)
	assert.Equal(t, "51291", pjm[1].NodeID)

	assert.Empty(t, ForMarket(mappings, market.SPP))
}

func TestBackbone(t *testing.T) {
	explicit := NodeMapping{ISO: market.PJM, NodeID: "51291", VolBackbone: "51288"}
	hub, err := Backbone(explicit)
	require.NoError(t, err)
	assert.Equal(t, "51288", hub)

	fallback := NodeMapping{ISO: market.MISO, NodeID: "SOME.NODE"}
	hub, err = Backbone(fallback)
	require.NoError(t, err)
	assert.Equal(t, "INDIANA.HUB", hub)
}

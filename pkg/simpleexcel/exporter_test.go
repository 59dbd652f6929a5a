package simpleexcel

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type item struct {
	Name  string
	Price float64
}

func TestFluentSections(t *testing.T) {
	exporter := NewDataExporter()
	exporter.AddSheet("Items").
		AddSection(&SectionConfig{
			Title:      "Catalog",
			ShowHeader: true,
			Data:       []item{{"Pen", 1.5}, {"Ink", 12}},
			Columns: []ColumnConfig{
				{FieldName: "Name", Header: "Item", Width: 20},
				{FieldName: "Price", Header: "Price", NumberFormat: "0.00"},
			},
		}).
		AddSection(&SectionConfig{
			Title: "Notes",
			Data:  []map[string]interface{}{{"Text": "checked"}},
			Columns: []ColumnConfig{
				{FieldName: "Text"},
			},
		})

	f, err := exporter.BuildExcel()
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Items")
	require.NoError(t, err)
	// Title, header, 2 data rows, spacer, title, 1 data row
	require.Len(t, rows, 7)
	assert.Equal(t, []string{"Catalog"}, rows[0])
	assert.Equal(t, []string{"Item", "Price"}, rows[1])
	assert.Equal(t, "Pen", rows[2][0])
	assert.Equal(t, "Ink", rows[3][0])
	assert.Empty(t, rows[4])
	assert.Equal(t, []string{"Notes"}, rows[5])
	assert.Equal(t, []string{"checked"}, rows[6])

	width, err := f.GetColWidth("Items", "A")
	require.NoError(t, err)
	assert.Equal(t, 20.0, width)
}

func TestYamlTemplateWithBoundData(t *testing.T) {
	yamlConfig := `
sheets:
  - name: "Report"
    sections:
      - id: "people"
        title: "People"
        show_header: true
        title_style:
          font:
            bold: true
        header_style:
          fill:
            color: "#DDEBF7"
        columns:
          - field_name: "Name"
            header: "Full Name"
          - field_name: "Price"
            header: "Rate"
  - name: "Second"
`
	exporter, err := NewDataExporterFromYamlConfig(yamlConfig)
	require.NoError(t, err)
	require.NotNil(t, exporter.GetSheet("Report"))
	require.NotNil(t, exporter.GetSheet("Report").Section("people"))
	assert.Nil(t, exporter.GetSheet("Missing"))

	exporter.BindSectionData("people", []*item{{"Ann", 10}})

	data, err := exporter.ToBytes()
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Report", "Second"}, f.GetSheetList())

	rows, err := f.GetRows("Report")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Full Name", "Rate"}, rows[1])
	assert.Equal(t, []string{"Ann", "10"}, rows[2])

	styleID, err := f.GetCellStyle("Report", "A2")
	require.NoError(t, err)
	assert.NotZero(t, styleID)

	merged, err := f.GetMergeCells("Report")
	require.NoError(t, err)
	require.Len(t, merged, 1)
	assert.Equal(t, "A1", merged[0].GetStartAxis())
	assert.Equal(t, "B1", merged[0].GetEndAxis())
}

func TestYamlTemplateErrors(t *testing.T) {
	_, err := NewDataExporterFromYamlConfig("sheets: [")
	assert.Error(t, err)

	_, err = NewDataExporterFromYamlConfig("sheets: []")
	assert.Error(t, err)

	_, err = NewDataExporterFromYamlConfig("sheets:\n  - sections: []\n")
	assert.Error(t, err)

	_, err = NewDataExporterFromYamlFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestExportToExcelFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	exporter := NewDataExporter()
	exporter.AddSheet("Only").AddSection(&SectionConfig{Title: "Hello"})

	require.NoError(t, exporter.ExportToExcel(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())
}

func TestBuildWithoutSheetsFails(t *testing.T) {
	_, err := NewDataExporter().BuildExcel()
	assert.Error(t, err)
}

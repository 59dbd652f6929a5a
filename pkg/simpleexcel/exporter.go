package simpleexcel

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// Types
// =============================================================================

// DataExporter builds a workbook from sheets of titled data sections.
// Sheets come from a YAML template, from the fluent API, or both.
type DataExporter struct {
	// data holds data bound to section IDs
	data   map[string]interface{}
	sheets []*SheetBuilder
}

// ReportTemplate represents the YAML structure.
type ReportTemplate struct {
	Sheets []SheetTemplate `yaml:"sheets"`
}

// SheetTemplate represents a sheet in the YAML.
type SheetTemplate struct {
	Name     string          `yaml:"name"`
	Sections []SectionConfig `yaml:"sections"`
}

// SectionConfig defines a block of rows in a sheet: optional title, optional
// header row, then one row per element of Data.
type SectionConfig struct {
	ID          string         `yaml:"id"`
	Title       string         `yaml:"title"`
	Data        interface{}    `yaml:"-"` // bound at runtime
	ShowHeader  bool           `yaml:"show_header"`
	TitleStyle  *StyleTemplate `yaml:"title_style"`
	HeaderStyle *StyleTemplate `yaml:"header_style"`
	Columns     []ColumnConfig `yaml:"columns"`
}

// ColumnConfig defines a column in a section.
type ColumnConfig struct {
	FieldName    string  `yaml:"field_name"` // struct field name or map key
	Header       string  `yaml:"header"`
	Width        float64 `yaml:"width"`
	NumberFormat string  `yaml:"number_format"` // e.g. "#,##0.00"
}

// StyleTemplate defines basic styling.
type StyleTemplate struct {
	Font *FontTemplate `yaml:"font"`
	Fill *FillTemplate `yaml:"fill"`
}

type FontTemplate struct {
	Bold  bool   `yaml:"bold"`
	Color string `yaml:"color"` // hex color
}

type FillTemplate struct {
	Color string `yaml:"color"` // hex color
}

// =============================================================================
// Constructors
// =============================================================================

func NewDataExporter() *DataExporter {
	return &DataExporter{
		data:   make(map[string]interface{}),
		sheets: []*SheetBuilder{},
	}
}

// NewDataExporterFromYamlConfig creates an exporter whose sheets are described by yamlConfig.
func NewDataExporterFromYamlConfig(yamlConfig string) (*DataExporter, error) {
	return newFromTemplate(strings.NewReader(yamlConfig))
}

func NewDataExporterFromYamlFile(path string) (*DataExporter, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open yaml file: %w", err)
	}
	defer f.Close()
	return newFromTemplate(f)
}

func newFromTemplate(r io.Reader) (*DataExporter, error) {
	var tmpl ReportTemplate
	if err := yaml.NewDecoder(r).Decode(&tmpl); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if len(tmpl.Sheets) == 0 {
		return nil, fmt.Errorf("decode yaml: template has no sheets")
	}

	e := NewDataExporter()
	for _, st := range tmpl.Sheets {
		if st.Name == "" {
			return nil, fmt.Errorf("decode yaml: sheet without name")
		}
		sb := e.AddSheet(st.Name)
		for i := range st.Sections {
			sec := st.Sections[i]
			sb.AddSection(&sec)
		}
	}
	return e, nil
}

// =============================================================================
// Fluent API
// =============================================================================

// AddSheet starts a new sheet builder.
func (e *DataExporter) AddSheet(name string) *SheetBuilder {
	sb := &SheetBuilder{
		exporter: e,
		name:     name,
		sections: []*SectionConfig{},
	}
	e.sheets = append(e.sheets, sb)
	return sb
}

// GetSheet returns the sheet with the given name, or nil.
func (e *DataExporter) GetSheet(name string) *SheetBuilder {
	for _, sb := range e.sheets {
		if sb.name == name {
			return sb
		}
	}
	return nil
}

// BindSectionData binds data to a section ID. Bound data wins over Data set on the section.
func (e *DataExporter) BindSectionData(id string, data interface{}) *DataExporter {
	e.data[id] = data
	return e
}

type SheetBuilder struct {
	exporter *DataExporter
	name     string
	sections []*SectionConfig
}

func (sb *SheetBuilder) AddSection(config *SectionConfig) *SheetBuilder {
	sb.sections = append(sb.sections, config)
	return sb
}

// Section returns the section with the given ID on this sheet, or nil.
func (sb *SheetBuilder) Section(id string) *SectionConfig {
	for _, sec := range sb.sections {
		if sec.ID == id {
			return sec
		}
	}
	return nil
}

func (sb *SheetBuilder) Build() *DataExporter {
	return sb.exporter
}

// =============================================================================
// Output
// =============================================================================

// BuildExcel renders all sheets into a new workbook. The caller closes it.
func (e *DataExporter) BuildExcel() (*excelize.File, error) {
	if len(e.sheets) == 0 {
		return nil, fmt.Errorf("no sheets to export")
	}

	f := excelize.NewFile()
	for i, sb := range e.sheets {
		if i == 0 {
			f.SetSheetName("Sheet1", sb.name)
		} else if _, err := f.NewSheet(sb.name); err != nil {
			f.Close()
			return nil, fmt.Errorf("create sheet %q: %w", sb.name, err)
		}

		if err := e.renderSections(f, sb.name, sb.sections); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

// ExportToExcel writes the workbook to path.
func (e *DataExporter) ExportToExcel(path string) error {
	f, err := e.BuildExcel()
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

// ToBytes exports the workbook to an in-memory byte slice.
func (e *DataExporter) ToBytes() ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := e.ToWriter(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ToWriter writes the workbook to w.
func (e *DataExporter) ToWriter(w io.Writer) error {
	f, err := e.BuildExcel()
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.WriteTo(w)
	return err
}

// =============================================================================
// Rendering
// =============================================================================

func (e *DataExporter) renderSections(f *excelize.File, sheet string, sections []*SectionConfig) error {
	row := 1

	for _, sec := range sections {
		data := sec.Data
		if bound, ok := e.data[sec.ID]; ok && sec.ID != "" {
			data = bound
		}

		if sec.Title != "" {
			cell, _ := excelize.CoordinatesToCellName(1, row)
			if err := f.SetCellValue(sheet, cell, sec.Title); err != nil {
				return err
			}
			if sec.TitleStyle != nil {
				styleID, err := createStyle(f, sec.TitleStyle, "")
				if err != nil {
					return err
				}
				endCell := cell
				if len(sec.Columns) > 1 {
					endCell, _ = excelize.CoordinatesToCellName(len(sec.Columns), row)
					if err := f.MergeCell(sheet, cell, endCell); err != nil {
						return err
					}
				}
				if err := f.SetCellStyle(sheet, cell, endCell, styleID); err != nil {
					return err
				}
			}
			row++
		}

		if sec.ShowHeader {
			headerStyle := 0
			if sec.HeaderStyle != nil {
				id, err := createStyle(f, sec.HeaderStyle, "")
				if err != nil {
					return err
				}
				headerStyle = id
			}
			for i, col := range sec.Columns {
				cell, _ := excelize.CoordinatesToCellName(i+1, row)
				if err := f.SetCellValue(sheet, cell, col.Header); err != nil {
					return err
				}
				if headerStyle != 0 {
					if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
						return err
					}
				}
			}
			row++
		}

		for i, col := range sec.Columns {
			if col.Width > 0 {
				colName, _ := excelize.ColumnNumberToName(i + 1)
				if err := f.SetColWidth(sheet, colName, colName, col.Width); err != nil {
					return err
				}
			}
		}

		colStyles := make([]int, len(sec.Columns))
		for i, col := range sec.Columns {
			if col.NumberFormat != "" {
				id, err := createStyle(f, nil, col.NumberFormat)
				if err != nil {
					return err
				}
				colStyles[i] = id
			}
		}

		items := reflect.ValueOf(data)
		if items.Kind() == reflect.Ptr {
			items = items.Elem()
		}
		if data != nil && items.Kind() == reflect.Slice {
			for i := 0; i < items.Len(); i++ {
				item := items.Index(i)
				for j, col := range sec.Columns {
					cell, _ := excelize.CoordinatesToCellName(j+1, row)
					if err := f.SetCellValue(sheet, cell, extractValue(item, col.FieldName)); err != nil {
						return fmt.Errorf("write %s!%s: %w", sheet, cell, err)
					}
					if colStyles[j] != 0 {
						if err := f.SetCellStyle(sheet, cell, cell, colStyles[j]); err != nil {
							return err
						}
					}
				}
				row++
			}
		}

		// blank row between sections
		row++
	}
	return nil
}

func extractValue(item reflect.Value, fieldName string) interface{} {
	for item.Kind() == reflect.Ptr || item.Kind() == reflect.Interface {
		if item.IsNil() {
			return ""
		}
		item = item.Elem()
	}

	switch item.Kind() {
	case reflect.Struct:
		if f := item.FieldByName(fieldName); f.IsValid() && f.CanInterface() {
			return f.Interface()
		}
	case reflect.Map:
		if item.Type().Key().Kind() == reflect.String {
			if v := item.MapIndex(reflect.ValueOf(fieldName).Convert(item.Type().Key())); v.IsValid() {
				return v.Interface()
			}
		}
	}
	return ""
}

func createStyle(f *excelize.File, tmpl *StyleTemplate, numberFormat string) (int, error) {
	style := &excelize.Style{}
	if tmpl != nil && tmpl.Font != nil {
		style.Font = &excelize.Font{
			Bold:  tmpl.Font.Bold,
			Color: strings.TrimPrefix(tmpl.Font.Color, "#"),
		}
	}
	if tmpl != nil && tmpl.Fill != nil {
		style.Fill = excelize.Fill{
			Type:    "pattern",
			Color:   []string{strings.TrimPrefix(tmpl.Fill.Color, "#")},
			Pattern: 1,
		}
	}
	if numberFormat != "" {
		style.CustomNumFmt = &numberFormat
	}
	return f.NewStyle(style)
}

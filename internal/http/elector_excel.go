package httpapi

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"campana-api/internal/domain"
	"campana-api/internal/service"
)

// Column headers of the elector spreadsheet. Import matches them
// case-insensitively so volunteers can reuse exports as import templates.
var electorHeader = []string{
	"Cedula",
	"Nombre",
	"Nro Socio",
	"Telefono",
	"Celular",
	"Email",
	"Direccion",
	"Estado",
}

const electorSheet = "Electores"

// GenerateElectorExport renders the elector listing as an XLSX workbook.
func GenerateElectorExport(items []*domain.ElectorConPersona) ([]byte, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(electorSheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	for col, header := range electorHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(electorSheet, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(electorSheet, cell, cell, headerStyle); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to set header style: %w", err)
		}
	}

	for rowIdx, item := range items {
		row := rowIdx + 2
		values := []any{
			item.Persona.Cedula,
			item.Persona.Nombre,
			item.Persona.NroSocio,
			item.Persona.Telefono,
			item.Persona.Celular,
			item.Persona.Email,
			item.Persona.Direccion,
			string(item.Estado),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to convert coordinates: %w", err)
			}
			if err := f.SetCellValue(electorSheet, cell, v); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}

	if err := f.SetPanes(electorSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseElectorImport reads the first sheet of an uploaded workbook into
// import rows. Unknown columns are ignored; the Nombre column is the only
// one the importer insists on.
func ParseElectorImport(r io.Reader) ([]service.ImportRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	colIdx := map[string]int{}
	for i, h := range rows[0] {
		colIdx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := colIdx["nombre"]; !ok {
		return nil, fmt.Errorf("missing Nombre column")
	}

	cellAt := func(row []string, name string) string {
		i, ok := colIdx[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	out := make([]service.ImportRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		out = append(out, service.ImportRow{
			Cedula:    cellAt(row, "cedula"),
			Nombre:    cellAt(row, "nombre"),
			NroSocio:  cellAt(row, "nro socio"),
			Telefono:  cellAt(row, "telefono"),
			Celular:   cellAt(row, "celular"),
			Email:     cellAt(row, "email"),
			Direccion: cellAt(row, "direccion"),
		})
	}
	return out, nil
}

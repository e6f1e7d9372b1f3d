// Package report renders spreadsheet exports.
package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/hrmsuite/hrms/internal/db/models"
	"github.com/hrmsuite/hrms/internal/rbac"
)

const (
	// MatrixSheet is the sheet name of the role matrix workbook.
	MatrixSheet = "Role Matrix"
	// ContentTypeXLSX is the MIME type of the generated workbooks.
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	granted = "x"
)

var matrixHeader = []string{"Resource", "Action", "Permission"}

// RoleMatrix renders permissions as rows and roles as columns; a cell is marked when the
// role holds the permission.
func RoleMatrix(roles []rbac.RoleDetail, permissions []models.Permission) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	index, err := f.NewSheet(MatrixSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}

	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	header := make([]any, 0, len(matrixHeader)+len(roles))
	for _, h := range matrixHeader {
		header = append(header, h)
	}

	held := make([]map[string]struct{}, len(roles))

	for i, r := range roles {
		header = append(header, r.Name)

		held[i] = make(map[string]struct{}, len(r.Permissions))
		for _, p := range r.Permissions {
			held[i][p] = struct{}{}
		}
	}

	if err := writeRow(f, 1, header); err != nil {
		return nil, err
	}

	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return nil, fmt.Errorf("failed to convert coordinates: %w", err)
	}

	if err := f.SetCellStyle(MatrixSheet, "A1", last, headerStyle); err != nil {
		return nil, fmt.Errorf("failed to set header style: %w", err)
	}

	for i, p := range permissions {
		row := i + 2

		if err := writeRow(f, row, []any{p.Resource, p.Action, p.Name}); err != nil {
			return nil, err
		}

		for j := range roles {
			if _, ok := held[j][p.Name]; !ok {
				continue
			}

			cell, err := excelize.CoordinatesToCellName(len(matrixHeader)+j+1, row)
			if err != nil {
				return nil, fmt.Errorf("failed to convert coordinates: %w", err)
			}

			if err := f.SetCellValue(MatrixSheet, cell, granted); err != nil {
				return nil, fmt.Errorf("failed to set cell %s: %w", cell, err)
			}
		}
	}

	if err := f.SetColWidth(MatrixSheet, "A", "B", 18); err != nil {
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}

	if err := f.SetColWidth(MatrixSheet, "C", "C", 30); err != nil {
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}

	if err := f.SetPanes(MatrixSheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      len(matrixHeader),
		YSplit:      1,
		TopLeftCell: "D2",
		ActivePane:  "bottomRight",
	}); err != nil {
		return nil, fmt.Errorf("failed to freeze header: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to convert coordinates: %w", err)
	}

	if err := f.SetSheetRow(MatrixSheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}

	return nil
}

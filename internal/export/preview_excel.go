package export

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"tour_admin/internal/domain/models"

	"github.com/xuri/excelize/v2"
)

// PreviewHeader is the column order of every preview sheet.
var PreviewHeader = []string{
	"ID",
	"Tour Code",
	"Title",
	"Country",
	"Days",
	"Nights",
	"Price",
	"Departure Date",
	"Image URL",
}

var previewColumnWidths = []float64{8, 16, 48, 16, 8, 8, 12, 16, 48}

const previewSheet = "Preview"

// TabPreview builds a workbook with the preview rows of tab.
func TabPreview(tab models.TourTab, preview models.TabPreview) ([]byte, error) {
	meta := [][2]string{
		{"Tab", tab.Name},
		{"Sort", string(tab.SortBy)},
		{"Display limit", fmt.Sprint(tab.DisplayLimit)},
		{"Tours", fmt.Sprint(len(preview.Tours))},
	}
	return generatePreviewExcel(meta, preview.Tours)
}

// FestivalPreview builds a workbook with the sampled tours of f. The true match
// count is written next to the sample size.
func FestivalPreview(f models.FestivalHoliday, preview models.FestivalPreview) ([]byte, error) {
	meta := [][2]string{
		{"Festival", f.Name},
		{"Period", f.StartDate + " - " + f.EndDate},
		{"Total count", fmt.Sprint(preview.TotalCount)},
		{"Sample", fmt.Sprint(len(preview.PreviewTours))},
	}
	return generatePreviewExcel(meta, preview.PreviewTours)
}

func generatePreviewExcel(meta [][2]string, tours []models.TourSummary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(previewSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	labelStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create label style: %w", err)
	}

	row := 1
	for _, kv := range meta {
		if err := f.SetSheetRow(previewSheet, cell(1, row), &[]any{kv[0], kv[1]}); err != nil {
			return nil, fmt.Errorf("failed to write summary row %d: %w", row, err)
		}
		if err := f.SetCellStyle(previewSheet, cell(1, row), cell(1, row), labelStyle); err != nil {
			return nil, fmt.Errorf("failed to set label style: %w", err)
		}
		row++
	}

	// one blank row between the summary and the table
	row++
	headerRow := row

	header := make([]any, len(PreviewHeader))
	for i, h := range PreviewHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(previewSheet, cell(1, headerRow), &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	if err := f.SetCellStyle(previewSheet, cell(1, headerRow), cell(len(PreviewHeader), headerRow), headerStyle); err != nil {
		return nil, fmt.Errorf("failed to set header style: %w", err)
	}

	for i, width := range previewColumnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, fmt.Errorf("failed to convert column number: %w", err)
		}
		if err := f.SetColWidth(previewSheet, col, col, width); err != nil {
			return nil, fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i, t := range tours {
		r := headerRow + 1 + i
		values := []any{t.ID, t.TourCode, t.Title, t.Country, t.Days, t.Nights, t.Price, t.DepartureDate, t.ImageURL}
		if err := f.SetSheetRow(previewSheet, cell(1, r), &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", r, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	return buf.Bytes(), nil
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

var unsafeName = regexp.MustCompile(`[^\p{L}\p{M}\p{N}_-]+`)

// FileName turns a label into "<prefix>-<label>.xlsx" safe for any filesystem.
func FileName(prefix, label string) string {
	label = strings.Trim(unsafeName.ReplaceAllString(strings.TrimSpace(label), "-"), "-")
	if label == "" {
		return prefix + ".xlsx"
	}
	return prefix + "-" + label + ".xlsx"
}

// WriteFile stores data as name inside dir and returns the full path.
func WriteFile(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export dir: %w", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}

	return path, nil
}

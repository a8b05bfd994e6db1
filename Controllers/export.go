package Controllers

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"Summit/Models"
	"Summit/OKR"

	excelizev1 "github.com/360EntSecGroup-Skylar/excelize"
	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

const exportSheetName = "OKRs"

// exportColumns is the persisted schema minus the surrogate id, in row order.
var exportColumns = []string{
	"Department", "Objective", "KR", "KR ID", "Task", "Task ID",
	"Status", "Responsible", "Deadline", "Current", "Target", "Tenant",
}

// ExportExcel flattens the tenant's board and streams it as an .xlsx download.
func (ctrl *OKRController) ExportExcel(c *fiber.Ctx) error {
	sess, err := ctrl.session(c)
	if err != nil {
		return err
	}

	records := OKR.ToRecords(sess.SnapshotObjectives(), sess.Tenant())

	f := excelize.NewFile()
	sheetName := exportSheetName
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": fmt.Sprintf("Failed to build export: %v", err),
		})
	}
	f.SetActiveSheet(index)

	for i, header := range exportColumns {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6E6FA"},
			Pattern: 1,
		},
	})
	if err == nil {
		f.SetRowStyle(sheetName, 1, 1, headerStyle)
	}

	for rowIndex, record := range records {
		row := rowIndex + 2
		values := []interface{}{
			record.Department,
			record.Objective,
			record.KR,
			record.KRID,
			record.Task,
			record.TaskID,
			record.Status,
			record.Responsible,
			record.Deadline,
			record.Current,
			record.Target,
			record.Tenant,
		}
		for colIndex, value := range values {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, row)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	for i := range exportColumns {
		f.SetColWidth(sheetName, string('A'+rune(i)), string('A'+rune(i)), 18)
	}

	if f.GetSheetName(0) != sheetName {
		f.DeleteSheet("Sheet1")
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": fmt.Sprintf("Failed to build export: %v", err),
		})
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("okr_export_%s.xlsx", timestamp)

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Set("Content-Length", fmt.Sprintf("%d", buf.Len()))
	return c.Send(buf.Bytes())
}

// ImportExcel replaces the in-memory board with the contents of an uploaded
// spreadsheet in the export column layout. Nothing is persisted until the
// tenant saves.
func (ctrl *OKRController) ImportExcel(c *fiber.Ctx) error {
	sess, err := ctrl.session(c)
	if err != nil {
		return err
	}

	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "No file provided. Please upload an .xlsx file.",
		})
	}
	if strings.ToLower(filepath.Ext(file.Filename)) != ".xlsx" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid file type. Please upload an .xlsx file.",
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Failed to open uploaded file.",
		})
	}
	defer src.Close()

	f, err := excelizev1.OpenReader(src)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Could not read spreadsheet.",
		})
	}

	// The active-sheet index is not reliable for workbooks whose first sheet
	// was replaced after creation; resolve the name through the sheet map,
	// preferring the export sheet when present.
	sheet := importSheet(f.GetSheetMap())
	if sheet == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Spreadsheet contains no sheets.",
		})
	}
	rows := f.GetRows(sheet)
	records := rowsToRecords(rows, sess.Tenant())
	if len(records) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "No OKR rows found in the spreadsheet.",
		})
	}

	sess.ReplaceTree(OKR.FromRecords(records))
	return c.JSON(fiber.Map{
		"imported": len(records),
		"dirty":    sess.Dirty(),
	})
}

// rowsToRecords converts sheet rows in the export layout to flat records. The
// first row is skipped when it looks like the header.
func rowsToRecords(rows [][]string, tenant string) []Models.OKRRecord {
	var records []Models.OKRRecord
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		if i == 0 && strings.EqualFold(cellAt(row, 0), "department") {
			continue
		}
		record := Models.OKRRecord{
			Tenant:      tenant,
			Department:  cellAt(row, 0),
			Objective:   cellAt(row, 1),
			KR:          cellAt(row, 2),
			KRID:        cellAt(row, 3),
			Task:        cellAt(row, 4),
			TaskID:      cellAt(row, 5),
			Status:      cellAt(row, 6),
			Responsible: cellAt(row, 7),
			Deadline:    cellAt(row, 8),
		}
		record.Current, _ = strconv.ParseFloat(cellAt(row, 9), 64)
		record.Target, _ = strconv.ParseFloat(cellAt(row, 10), 64)
		if record.Department == "" && record.Objective == "" {
			continue
		}
		records = append(records, record)
	}
	return records
}

// importSheet picks the sheet to read: the export sheet by name when present,
// otherwise the lowest-indexed sheet in the workbook.
func importSheet(sheetMap map[int]string) string {
	sheet := ""
	lowest := 0
	for idx, name := range sheetMap {
		if name == exportSheetName {
			return name
		}
		if sheet == "" || idx < lowest {
			sheet = name
			lowest = idx
		}
	}
	return sheet
}

func cellAt(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

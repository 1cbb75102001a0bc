package controllers

import (
	"fmt"
	"strconv"

	"panchayath_go/config"
	"panchayath_go/database"
	"panchayath_go/middleware"
	"panchayath_go/models"
	"panchayath_go/services/hierarchy"
	"panchayath_go/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// HierarchyExportController renders a panchayath's agent hierarchy as a
// downloadable artifact: Excel workbook, plain-text tree, or HTML page.
type HierarchyExportController struct{}

func loadForest(panchayathID uint) (*models.Panchayath, *hierarchy.Forest, error) {
	var panchayath models.Panchayath
	if err := database.DB.First(&panchayath, panchayathID).Error; err != nil {
		return nil, nil, err
	}

	var agents []models.Agent
	if err := database.DB.Where("panchayath_id = ?", panchayathID).
		Order("id ASC").Find(&agents).Error; err != nil {
		return nil, nil, err
	}

	return &panchayath, hierarchy.NewForest(agents), nil
}

// buildWorkbook writes the forest into a two-sheet workbook: the
// stepped Hierarchy sheet the importer round-trips, plus a Summary
// sheet of per-role counts.
func buildWorkbook(panchayath *models.Panchayath, forest *hierarchy.Forest) (*excelize.File, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(hierarchy.SheetName)
	if err != nil {
		return nil, err
	}
	for r, row := range forest.ExportRows() {
		for c, val := range row {
			if val == "" {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			if err := f.SetCellValue(hierarchy.SheetName, cell, val); err != nil {
				return nil, err
			}
		}
	}

	if _, err := f.NewSheet(hierarchy.SummarySheetName); err != nil {
		return nil, err
	}
	f.SetCellValue(hierarchy.SummarySheetName, "A1", "Panchayath")
	f.SetCellValue(hierarchy.SummarySheetName, "B1", panchayath.Name)
	f.SetCellValue(hierarchy.SummarySheetName, "A2", "District")
	f.SetCellValue(hierarchy.SummarySheetName, "B2", panchayath.District)
	for i, rc := range forest.Summary() {
		f.SetCellValue(hierarchy.SummarySheetName, fmt.Sprintf("A%d", i+4), rc.Label)
		f.SetCellValue(hierarchy.SummarySheetName, fmt.Sprintf("B%d", i+4), rc.Count)
	}
	// Agents without a resolvable superior are absent from the stepped
	// sheet; their count is reported here so the export is accounted for.
	f.SetCellValue(hierarchy.SummarySheetName, "A8", "Unassigned")
	f.SetCellValue(hierarchy.SummarySheetName, "B8", len(forest.Orphans()))
	f.SetCellValue(hierarchy.SummarySheetName, "A9", "Total")
	f.SetCellValue(hierarchy.SummarySheetName, "B9", forest.Len())

	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}
	return f, nil
}

// archiveExport ships a copy of the artifact to S3 when enabled. Best
// effort: an archive failure never fails the download.
func archiveExport(data []byte, filename, contentType string, panchayathID uint) {
	if !config.AppConfig.ArchiveExportsToS3 {
		return
	}
	go func() {
		svc, err := storage.NewStorageService()
		if err != nil {
			logrus.WithError(err).Warn("export archive unavailable")
			return
		}
		url, err := svc.UploadBytes(data, "exports", filename, contentType)
		if err != nil {
			logrus.WithError(err).Warn("failed to archive export")
			return
		}
		logrus.WithFields(logrus.Fields{
			"panchayath_id": panchayathID,
			"url":           url,
		}).Info("Export archived")
	}()
}

// GET /api/panchayaths/:id/export/xlsx
func (ec *HierarchyExportController) ExportExcel(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid panchayath ID"})
	}

	panchayath, forest, err := loadForest(uint(id))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Panchayath not found"})
	}

	f, err := buildWorkbook(panchayath, forest)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build workbook"})
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build workbook"})
	}

	filename := fmt.Sprintf("%s_hierarchy.xlsx", sanitizeFilename(panchayath.Name))
	archiveExport(buf.Bytes(), filename, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", panchayath.ID)
	middleware.LogActivity(c, "EXPORT", "agents", panchayath.ID, fiber.Map{"format": "xlsx", "agents": forest.Len()})

	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(buf.Bytes())
}

// GET /api/panchayaths/:id/export/txt
func (ec *HierarchyExportController) ExportText(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid panchayath ID"})
	}

	panchayath, forest, err := loadForest(uint(id))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Panchayath not found"})
	}

	body := []byte(forest.TextTree())
	filename := fmt.Sprintf("%s_hierarchy.txt", sanitizeFilename(panchayath.Name))
	archiveExport(body, filename, "text/plain", panchayath.ID)
	middleware.LogActivity(c, "EXPORT", "agents", panchayath.ID, fiber.Map{"format": "txt", "agents": forest.Len()})

	c.Set("Content-Type", "text/plain; charset=utf-8")
	c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(body)
}

// GET /api/panchayaths/:id/export/html
func (ec *HierarchyExportController) ExportHTML(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid panchayath ID"})
	}

	panchayath, forest, err := loadForest(uint(id))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Panchayath not found"})
	}

	title := fmt.Sprintf("%s Hierarchy", panchayath.Name)
	body := []byte(forest.HTMLTree(title))
	filename := fmt.Sprintf("%s_hierarchy.html", sanitizeFilename(panchayath.Name))
	archiveExport(body, filename, "text/html", panchayath.ID)
	middleware.LogActivity(c, "EXPORT", "agents", panchayath.ID, fiber.Map{"format": "html", "agents": forest.Len()})

	c.Set("Content-Type", "text/html; charset=utf-8")
	return c.Send(body)
}

package controllers

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"panchayath_go/database"
	"panchayath_go/middleware"
	"panchayath_go/models"
	"panchayath_go/services/changefeed"
	"panchayath_go/services/hierarchy"
	"panchayath_go/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// HierarchyImportController imports a panchayath's agent hierarchy from
// the tabular round-trip format described by the export.
type HierarchyImportController struct{}

// importedAgent is one resolved agent from the import batch, in
// creation order (superiors always precede their subordinates).
type importedAgent struct {
	Name         string
	Role         string
	SuperiorName string // "" when none resolved
	Phone        string
	Ward         string
	Email        string
}

// requiredImportColumns are the headers the Hierarchy sheet must carry.
// Email is optional.
var requiredImportColumns = []string{
	"Level 1 (Coordinator)",
	"Level 2 (Supervisor)",
	"Level 3 (Group Leader)",
	"Level 4 (P.R.O)",
	"Phone",
	"Ward",
}

// levelRoles maps the 0-based level column to the stored role value.
var levelRoles = []string{
	models.RoleCoordinator,
	models.RoleSupervisor,
	models.RoleGroupLeader,
	models.RolePro,
}

// buildColumnIndex maps trimmed header names to their positions.
func buildColumnIndex(header []string) map[string]int {
	col := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		if _, exists := col[h]; !exists {
			col[h] = i
		}
	}
	return col
}

// missingImportColumns returns required columns absent from the index.
func missingImportColumns(col map[string]int) []string {
	var missing []string
	for _, name := range requiredImportColumns {
		if _, ok := col[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// resolveImportRows turns data rows into an ordered agent batch.
//
// For each row, any non-empty level cell whose name has not been seen
// becomes a new agent whose superior is the nearest already-resolved
// ancestor level, from the same row when denormalized or carried from
// previous rows when the table is stepped. Names dedupe by exact string
// match within the batch: a name seen twice is treated as the same
// agent, which silently merges distinct people who share a name.
// Malformed rows (no level cell populated) are silently skipped.
func resolveImportRows(rows [][]string, col map[string]int) []importedAgent {
	cell := func(row []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var batch []importedAgent
	seen := make(map[string]int) // name -> index into batch
	var lastAtLevel [4]string    // carried ancestor context

	for _, row := range rows {
		deepest := -1      // deepest populated level on this row
		introduced := -1   // batch index of the agent introduced on this row
		for level := 0; level < 4; level++ {
			name := cell(row, requiredImportColumns[level])
			if name == "" {
				continue
			}
			deepest = level

			if _, ok := seen[name]; ok {
				// Same name is the same agent, even across rows.
				lastAtLevel[level] = name
				for l := level + 1; l < 4; l++ {
					lastAtLevel[l] = ""
				}
				introduced = -1
				continue
			}

			superior := ""
			if level > 0 {
				superior = lastAtLevel[level-1]
			}
			batch = append(batch, importedAgent{
				Name:         name,
				Role:         levelRoles[level],
				SuperiorName: superior,
			})
			seen[name] = len(batch) - 1
			introduced = len(batch) - 1

			lastAtLevel[level] = name
			for l := level + 1; l < 4; l++ {
				lastAtLevel[l] = ""
			}
		}

		if deepest == -1 {
			continue // malformed row, skipped silently
		}

		// Contact columns belong to the agent introduced on the row.
		if introduced >= 0 {
			batch[introduced].Phone = cell(row, "Phone")
			batch[introduced].Ward = cell(row, "Ward")
			batch[introduced].Email = cell(row, "Email")
		}
	}

	return batch
}

// readHierarchySheet opens the workbook and returns the rows of the
// Hierarchy sheet. A missing sheet is an error; the import aborts.
func readHierarchySheet(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(hierarchy.SheetName)
	if err != nil {
		return nil, fmt.Errorf("missing sheet: %s", hierarchy.SheetName)
	}
	return rows, nil
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	return name
}

// POST /api/panchayaths/:id/import
// Multipart form with file field: file
func (ic *HierarchyImportController) Import(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid panchayath ID"})
	}

	var panchayath models.Panchayath
	if err := database.DB.First(&panchayath, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Panchayath not found"})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required"})
	}
	filename := strings.ToLower(fileHeader.Filename)
	if !strings.HasSuffix(filename, ".xlsx") && !strings.HasSuffix(filename, ".xls") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unsupported file type (xlsx)"})
	}

	// Buffer to a temp path for excelize to open
	tmpDir, _ := os.MkdirTemp("", "pms-xlsx-")
	tmp := filepath.Join(tmpDir, fmt.Sprintf("%d_%s", time.Now().UnixNano(), sanitizeFilename(fileHeader.Filename)))
	if err := c.SaveFile(fileHeader, tmp); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "failed to buffer upload"})
	}
	rows, parseErr := readHierarchySheet(tmp)
	_ = os.Remove(tmp)
	if parseErr != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": parseErr.Error()})
	}

	if len(rows) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Hierarchy sheet is empty"})
	}

	col := buildColumnIndex(rows[0])
	if missing := missingImportColumns(col); len(missing) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("missing column: %s", strings.Join(missing, ", ")),
		})
	}

	batch := resolveImportRows(rows[1:], col)
	if len(batch) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Hierarchy sheet is empty"})
	}

	created := 0
	updated := 0
	idByName := make(map[string]uint, len(batch))

	for _, item := range batch {
		var superiorID *uint
		if item.SuperiorName != "" {
			if sid, ok := idByName[item.SuperiorName]; ok {
				superiorID = &sid
			}
		}

		// Upsert by exact name within the target panchayath so that
		// re-importing an edited export updates in place.
		var existing models.Agent
		err := database.DB.Where("panchayath_id = ? AND name = ?", panchayath.ID, item.Name).First(&existing).Error
		switch {
		case err == nil:
			updates := map[string]interface{}{
				"role":        item.Role,
				"superior_id": superiorID,
			}
			if item.Phone != "" && utils.IsValidMobileNumber(item.Phone) {
				updates["phone"] = item.Phone
			}
			if item.Ward != "" {
				updates["ward"] = item.Ward
			}
			if item.Email != "" {
				updates["email"] = item.Email
			}
			if uerr := database.DB.Model(&existing).Updates(updates).Error; uerr != nil {
				continue // row skipped silently
			}
			idByName[item.Name] = existing.ID
			updated++
		case err == gorm.ErrRecordNotFound:
			agent := models.Agent{
				Name:         item.Name,
				Role:         item.Role,
				PanchayathID: panchayath.ID,
				SuperiorID:   superiorID,
				Ward:         item.Ward,
				Email:        item.Email,
			}
			if item.Phone != "" && utils.IsValidMobileNumber(item.Phone) {
				agent.Phone = item.Phone
			}
			if cerr := database.DB.Create(&agent).Error; cerr != nil {
				continue // row skipped silently
			}
			idByName[item.Name] = agent.ID
			created++
		default:
			continue
		}
	}

	changefeed.Publish("agents", changefeed.EventInsert, panchayath.ID)
	middleware.LogActivity(c, "IMPORT", "agents", panchayath.ID, fiber.Map{
		"created": created,
		"updated": updated,
		"rows":    len(rows) - 1,
	})

	return c.JSON(fiber.Map{
		"message": "Hierarchy imported successfully",
		"created": created,
		"updated": updated,
		"total":   len(batch),
	})
}

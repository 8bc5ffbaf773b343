package inventory

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"matrium-backend/internal/audit"
	"matrium-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

type ImportProductsResponse struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors"`
}

// POST /importProducts
// Uploads an .xlsx price list and feeds each row through create-or-merge.
// Expected columns: product name, category, quantity, unit price, supplier.
func ImportProductsHandler(svc *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "File could not be uploaded: "+err.Error())
		}

		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
			return fiber.NewError(fiber.StatusBadRequest, "Only .xlsx files are accepted")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "File could not be opened: "+err.Error())
		}
		defer file.Close()

		excelFile, err := excelize.OpenReader(file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Excel file could not be read: "+err.Error())
		}
		defer excelFile.Close()

		sheetList := excelFile.GetSheetList()
		if len(sheetList) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Excel file has no sheets")
		}

		rows, err := excelFile.GetRows(sheetList[0])
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Sheet could not be read: "+err.Error())
		}
		if len(rows) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Excel file is empty")
		}

		// First row is treated as a header when it starts with a label
		startIndex := 0
		if len(rows[0]) > 0 {
			firstCell := strings.ToUpper(strings.TrimSpace(rows[0][0]))
			if strings.Contains(firstCell, "PRODUCT") || strings.Contains(firstCell, "NAME") {
				startIndex = 1
			}
		}

		resp := ImportProductsResponse{Errors: make([]string, 0)}
		for i := startIndex; i < len(rows); i++ {
			row := rows[i]
			if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
				continue
			}

			in, err := parseImportRow(row)
			if err != nil {
				resp.Skipped++
				resp.Errors = append(resp.Errors, fmt.Sprintf("row %d: %v", i+1, err))
				continue
			}

			p, err := svc.CreateOrMerge(*in)
			if err != nil {
				resp.Skipped++
				resp.Errors = append(resp.Errors, fmt.Sprintf("row %d: %v", i+1, err))
				continue
			}
			resp.Imported++

			_ = audit.WriteLog(audit.LogOptions{
				EntityType:  "product",
				EntityID:    p.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Product imported from %s: %s", fileHeader.Filename, p.Name),
				After:       p,
			})
		}

		log.Printf("product import finished: %d imported, %d skipped", resp.Imported, resp.Skipped)
		return c.JSON(resp)
	}
}

func parseImportRow(row []string) (*CreateProductInput, error) {
	if len(row) < 5 {
		return nil, fmt.Errorf("expected 5 columns (name, category, quantity, unit price, supplier), got %d", len(row))
	}

	qty, err := strconv.Atoi(strings.TrimSpace(row[2]))
	if err != nil {
		return nil, fmt.Errorf("quantity %q is not an integer", row[2])
	}

	price, err := decimal.NewFromString(strings.TrimSpace(strings.ReplaceAll(row[3], ",", "")))
	if err != nil {
		return nil, fmt.Errorf("unit price %q is not a number", row[3])
	}

	return &CreateProductInput{
		Name:      strings.TrimSpace(row[0]),
		Category:  strings.TrimSpace(row[1]),
		Quantity:  qty,
		UnitPrice: price,
		Supplier:  strings.TrimSpace(row[4]),
	}, nil
}

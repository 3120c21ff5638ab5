package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"opentrees/api/internal/apperr"
	"opentrees/api/internal/model"
)

// ExportService renders the inventory as a spreadsheet.
type ExportService struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewExportService creates a new export service.
func NewExportService(db *gorm.DB, logger *zap.Logger) *ExportService {
	return &ExportService{db: db, logger: logger}
}

var exportColumns = []string{
	"ID", "Custom ID", "Latitude", "Longitude", "Address", "City",
	"Species", "Condition", "Comments", "Actions", "Height",
	"Trunk Diameter (cm)", "Crown Diameter (m)", "Age", "Location",
	"CPC", "Next Check",
}

// Export writes every tree record into an xlsx workbook.
func (s *ExportService) Export(ctx context.Context) (*bytes.Buffer, error) {
	var trees []model.Tree
	if err := s.db.WithContext(ctx).Find(&trees).Error; err != nil {
		return nil, apperr.Store(err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Trees"
	f.SetSheetName("Sheet1", sheet)

	for i, col := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, col)
	}

	for row, tree := range trees {
		values := []interface{}{
			tree.ID, tree.CustomID, tree.Latitude, tree.Longitude,
			tree.Address, tree.City, tree.Species, tree.Condition,
			tree.Comments, tree.Actions, tree.Height,
			floatOrEmpty(tree.TrunkDiameter), floatOrEmpty(tree.CrownDiameter),
			tree.Age, tree.Location, tree.CPC, dateOrEmpty(tree.NextCheck),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("inventory exported", zap.Int("trees", len(trees)))
	return &buf, nil
}

func floatOrEmpty(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func dateOrEmpty(d *model.Date) interface{} {
	if d == nil {
		return ""
	}
	return d.String()
}

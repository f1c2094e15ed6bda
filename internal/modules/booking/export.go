package booking

import (
	"bytes"
	"context"

	"campuscollab/internal/domain"
	"campuscollab/internal/store"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Bookings"

var exportHeader = []any{"ID", "Date", "Start", "End", "Skill", "Student", "Tutor", "Status", "Total Price", "Notes"}

// Export renders the requester's bookings as an xlsx workbook.
func (s *Service) Export(ctx context.Context, userID int64, party store.Party) (*bytes.Buffer, error) {
	list, err := s.ListBookings(ctx, userID, party)
	if err != nil {
		return nil, err
	}
	return writeWorkbook(list)
}

func writeWorkbook(list []domain.Booking) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(exportSheet, "A1", "J1", bold); err != nil {
		return nil, err
	}
	_ = f.SetColWidth(exportSheet, "B", "G", 16)

	for i, b := range list {
		var skill, student, tutor string
		if b.Skill != nil {
			skill = b.Skill.Title
			if b.Skill.Tutor != nil {
				tutor = b.Skill.Tutor.DisplayName
			}
		}
		if b.Student != nil {
			student = b.Student.DisplayName
		}

		row := []any{b.ID, b.Date, b.StartTime, b.EndTime, skill, student, tutor, string(b.Status), b.TotalPrice, b.Notes}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	return f.WriteToBuffer()
}

package service

import (
	"context"
	"io"

	"quizpath_backend/internal/model"
	"quizpath_backend/internal/util"

	"github.com/xuri/excelize/v2"
)

const progressSheet = "Progress"

var progressHeader = []interface{}{
	"User ID", "Topic ID", "Concept ID", "Current Difficulty", "Streak", "Attempts",
	"Medium Passed", "Expert Passed", "Professor Passed", "Created At", "Updated At",
}

// ExportProgress 按过滤条件导出学习记录为 xlsx，每条记录一行
func (s *LearningPathService) ExportProgress(ctx context.Context, w io.Writer, userID, topicID string) (int, error) {
	records, err := s.ListProgress(ctx, userID, topicID)
	if err != nil {
		return 0, err
	}
	if err := WriteProgressWorkbook(w, records); err != nil {
		return 0, err
	}
	return len(records), nil
}

func WriteProgressWorkbook(w io.Writer, records []model.ProgressRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", progressSheet); err != nil {
		return err
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	header := append([]interface{}(nil), progressHeader...)
	if err := f.SetSheetRow(progressSheet, "A1", &header); err != nil {
		return err
	}
	if err := f.SetRowStyle(progressSheet, 1, 1, style); err != nil {
		return err
	}
	if err := f.SetColWidth(progressSheet, "A", "K", 20); err != nil {
		return err
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			r.UserID,
			r.TopicID,
			r.ConceptID,
			r.CurrentDifficulty.String(),
			r.Streak,
			r.Attempts,
			r.MediumPassed,
			r.ExpertPassed,
			r.ProfessorPassed,
			r.CreatedAt.UTC().Format(util.TimeFormat),
			r.UpdatedAt.UTC().Format(util.TimeFormat),
		}
		if err := f.SetSheetRow(progressSheet, cell, &row); err != nil {
			return err
		}
	}

	_, err = f.WriteTo(w)
	return err
}

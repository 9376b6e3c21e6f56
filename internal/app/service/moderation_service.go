package service

import (
	"bytes"
	"fmt"

	"github.com/sofaspartan/sofaspartan-backend/internal/app/model"
	"github.com/sofaspartan/sofaspartan-backend/internal/app/repository"
	"github.com/sofaspartan/sofaspartan-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

// ModerationService gives the artist an overview of reported comments:
// an xlsx export for offline review and a digest that the scheduler
// logs daily.
type ModerationService interface {
	ExportFlaggedComments() (*bytes.Buffer, error)
	DigestSummary() (flagged, pinned int, err error)
}

type moderationService struct {
	moderationRepo repository.ModerationRepository
}

func NewModerationService(moderationRepo repository.ModerationRepository) ModerationService {
	return &moderationService{moderationRepo: moderationRepo}
}

// ExportFlaggedComments renders every flagged comment to a spreadsheet:
// one row per comment with its author, body, flag types and flagger
// count.
func (s *moderationService) ExportFlaggedComments() (*bytes.Buffer, error) {
	flagged, err := s.moderationRepo.ListFlaggedComments()
	if err != nil {
		logger.Error("Failed to load flagged comments for export", err, nil)
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Flagged Comments"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	headers := []string{"Comment ID", "Author", "Content", "Posted At", "Flag Types", "Flaggers", "Pinned"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for row, fc := range flagged {
		author := "(deleted account)"
		if fc.Comment.User != nil {
			author = fc.Comment.User.DisplayName
		}

		types := make(map[model.FlagType]int)
		pinned := false
		for _, flag := range fc.Flags {
			types[flag.Type]++
			if flag.Type == model.FlagPinned {
				pinned = true
			}
		}
		typeSummary := ""
		for t, n := range types {
			if typeSummary != "" {
				typeSummary += ", "
			}
			typeSummary += fmt.Sprintf("%s x%d", t, n)
		}

		values := []interface{}{
			fc.Comment.ID,
			author,
			fc.Comment.Content,
			fc.Comment.CreatedAt.Format("2006-01-02 15:04:05"),
			typeSummary,
			len(fc.Flags),
			pinned,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		logger.Error("Failed to write moderation export", err, nil)
		return nil, err
	}

	logger.Info("Moderation export generated", map[string]interface{}{
		"flagged_comments": len(flagged),
	})
	return buf, nil
}

// DigestSummary counts flagged and pinned comments for the daily log
// digest.
func (s *moderationService) DigestSummary() (int, int, error) {
	flagged, err := s.moderationRepo.ListFlaggedComments()
	if err != nil {
		return 0, 0, err
	}

	pinned := 0
	reported := 0
	for _, fc := range flagged {
		isPinned := false
		for _, flag := range fc.Flags {
			if flag.Type == model.FlagPinned {
				isPinned = true
				break
			}
		}
		if isPinned {
			pinned++
		} else {
			reported++
		}
	}
	return reported, pinned, nil
}

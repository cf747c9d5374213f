package services

import (
	"context"
	"testing"

	"github.com/findin/findin-backend/internal/dto"
	"github.com/findin/findin-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCreateCommentRejectsUnverifiedCommenter(t *testing.T) {
	svc := NewCommentService(nil, newFakeReportStorage(), &fakeUserGetter{}, nil)

	commenter := testAuthor()
	commenter.IsVerified = false
	_, err := svc.CreateComment(context.Background(), commenter, &dto.CreateCommentRequest{
		ReportID: uuid.New(),
		Content:  "Saw someone matching the description",
	})
	assert.ErrorIs(t, err, ErrAuthorNotVerified)

	commenter = testAuthor()
	commenter.VerificationStatus = models.VerificationPending
	_, err = svc.CreateComment(context.Background(), commenter, &dto.CreateCommentRequest{
		ReportID: uuid.New(),
		Content:  "Saw someone matching the description",
	})
	assert.ErrorIs(t, err, ErrAuthorNotVerified)
}

func TestCreateCommentRequiresContent(t *testing.T) {
	svc := NewCommentService(nil, newFakeReportStorage(), &fakeUserGetter{}, nil)

	_, err := svc.CreateComment(context.Background(), testAuthor(), &dto.CreateCommentRequest{
		ReportID: uuid.New(),
		Content:  "   ",
	})
	assert.Error(t, err)
}

func TestCreateCommentUnknownReport(t *testing.T) {
	svc := NewCommentService(nil, newFakeReportStorage(), &fakeUserGetter{}, nil)

	_, err := svc.CreateComment(context.Background(), testAuthor(), &dto.CreateCommentRequest{
		ReportID: uuid.New(),
		Content:  "Saw someone matching the description",
	})
	assert.ErrorIs(t, err, ErrReportNotFound)
}

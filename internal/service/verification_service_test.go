package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/pension-verification/internal/domain"
	"github.com/segyhp/pension-verification/internal/mocks"
	pkgErrors "github.com/segyhp/pension-verification/pkg/errors"
	"github.com/segyhp/pension-verification/pkg/metrics"
)

var fixedNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

type verificationFixture struct {
	pensioners *mocks.MockPensionerRepository
	reviews    *mocks.MockReviewRepository
	logs       *mocks.MockVerificationLogRepository
	mailer     *mocks.MockMailer
	metrics    *metrics.Metrics
	service    *VerificationService
}

func newVerificationFixture() *verificationFixture {
	f := &verificationFixture{
		pensioners: &mocks.MockPensionerRepository{},
		reviews:    &mocks.MockReviewRepository{},
		logs:       &mocks.MockVerificationLogRepository{},
		mailer:     &mocks.MockMailer{},
		metrics:    metrics.New(),
	}
	f.service = NewVerificationService(f.pensioners, f.reviews, f.logs, f.mailer, f.metrics, fixedClock)
	return f
}

func TestDecidePensioner_Approve(t *testing.T) {
	f := newVerificationFixture()
	adminID := uuid.New()
	pensioner := &domain.Pensioner{ID: uuid.New(), Email: "ada@example.com", FullName: "Ada Obi", PensionID: "PEN-1"}
	expectedDue := fixedNow.Add(365 * 24 * time.Hour)

	f.pensioners.On("GetByID", mock.Anything, pensioner.ID).Return(pensioner, nil)
	f.pensioners.On("RecordDecision", mock.Anything, mock.MatchedBy(func(d *domain.PensionerDecision) bool {
		return d.PensionerID == pensioner.ID &&
			d.Status == domain.StatusVerified &&
			d.NextDueAt != nil && d.NextDueAt.Equal(expectedDue) &&
			d.LogEntry.PensionerID == pensioner.ID &&
			d.LogEntry.Method == domain.MethodAdminReview &&
			d.LogEntry.Message == "Pensioner approved by admin" &&
			d.LogEntry.PerformedBy != nil && *d.LogEntry.PerformedBy == adminID
	})).Return(nil)
	f.mailer.On("Send", mock.Anything, "ada@example.com", "Pension verification update", mock.AnythingOfType("string")).Return(nil)

	resp, err := f.service.DecidePensioner(context.Background(), adminID, pensioner.ID, &domain.DecisionRequest{Action: "approve"})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusVerified, resp.Status)
	assert.Equal(t, expectedDue, *resp.NextDueAt)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.DecisionsTotal.WithLabelValues("pensioner", "VERIFIED")))
	f.pensioners.AssertExpectations(t)
	f.mailer.AssertExpectations(t)
}

func TestDecidePensioner_InvalidActionTouchesNothing(t *testing.T) {
	f := newVerificationFixture()

	_, err := f.service.DecidePensioner(context.Background(), uuid.New(), uuid.New(), &domain.DecisionRequest{Action: "suspend"})

	assert.True(t, errors.Is(err, pkgErrors.ErrInvalidAction))
	f.pensioners.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	f.pensioners.AssertNotCalled(t, "RecordDecision", mock.Anything, mock.Anything)
}

func TestDecidePensioner_NotFound(t *testing.T) {
	f := newVerificationFixture()
	id := uuid.New()
	f.pensioners.On("GetByID", mock.Anything, id).Return(nil, sql.ErrNoRows)

	_, err := f.service.DecidePensioner(context.Background(), uuid.New(), id, &domain.DecisionRequest{Action: "flag"})

	assert.True(t, errors.Is(err, pkgErrors.ErrPensionerNotFound))
	assert.Equal(t, pkgErrors.ErrCodePensionerNotFound, pkgErrors.Code(err))
}

func TestDecidePensioner_MailFailureKeepsDecision(t *testing.T) {
	f := newVerificationFixture()
	pensioner := &domain.Pensioner{ID: uuid.New(), Email: "ada@example.com"}

	f.pensioners.On("GetByID", mock.Anything, pensioner.ID).Return(pensioner, nil)
	f.pensioners.On("RecordDecision", mock.Anything, mock.MatchedBy(func(d *domain.PensionerDecision) bool {
		return d.Status == domain.StatusFlagged && d.NextDueAt == nil &&
			d.LogEntry.Message == "Pensioner flagged: Duplicate record"
	})).Return(nil)
	f.mailer.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	resp, err := f.service.DecidePensioner(context.Background(), uuid.New(), pensioner.ID,
		&domain.DecisionRequest{Action: "flag", Reason: "Duplicate record"})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusFlagged, resp.Status)
	assert.Nil(t, resp.NextDueAt)
}

func TestDecidePensioner_DatabaseError(t *testing.T) {
	f := newVerificationFixture()
	pensioner := &domain.Pensioner{ID: uuid.New()}

	f.pensioners.On("GetByID", mock.Anything, pensioner.ID).Return(pensioner, nil)
	f.pensioners.On("RecordDecision", mock.Anything, mock.Anything).Return(errors.New("connection refused"))

	_, err := f.service.DecidePensioner(context.Background(), uuid.New(), pensioner.ID, &domain.DecisionRequest{Action: "reject"})

	assert.Equal(t, pkgErrors.ErrCodeDatabaseError, pkgErrors.Code(err))
	f.mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDecideReview_Approve(t *testing.T) {
	f := newVerificationFixture()
	officerID := uuid.New()
	pensioner := &domain.Pensioner{ID: uuid.New(), Email: "ada@example.com"}
	review := &domain.VerificationReview{ID: uuid.New(), PensionerID: pensioner.ID, Status: domain.StatusPending}
	expectedDue := time.Date(2028, 3, 14, 9, 30, 0, 0, time.UTC)

	f.reviews.On("GetByID", mock.Anything, review.ID).Return(review, nil)
	f.reviews.On("RecordDecision", mock.Anything, mock.MatchedBy(func(d *domain.ReviewDecision) bool {
		return d.ReviewID == review.ID &&
			d.OfficerID == officerID &&
			d.Status == domain.StatusVerified &&
			d.NextDueAt.Equal(expectedDue) &&
			d.LogEntry.Method == domain.MethodManualReview &&
			d.LogEntry.PensionerID == pensioner.ID
	})).Return(nil)
	f.pensioners.On("GetByID", mock.Anything, pensioner.ID).Return(pensioner, nil)
	f.mailer.On("Send", mock.Anything, "ada@example.com", mock.Anything, mock.Anything).Return(nil)

	resp, err := f.service.DecideReview(context.Background(), officerID, review.ID, &domain.ReviewDecisionRequest{Decision: "approve"})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusVerified, resp.Review.Status)
	assert.Equal(t, officerID, *resp.Review.OfficerID)
	assert.Equal(t, fixedNow, *resp.Review.ReviewedAt)
	assert.Equal(t, expectedDue, *resp.LogEntry.NextDueAt)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.DecisionsTotal.WithLabelValues("review", "VERIFIED")))
}

func TestDecideReview_ConcurrentDecisionConflicts(t *testing.T) {
	f := newVerificationFixture()
	review := &domain.VerificationReview{ID: uuid.New(), PensionerID: uuid.New(), Status: domain.StatusPending}

	f.reviews.On("GetByID", mock.Anything, review.ID).Return(review, nil)
	f.reviews.On("RecordDecision", mock.Anything, mock.Anything).
		Return(fmt.Errorf("review %s: %w", review.ID, pkgErrors.ErrReviewAlreadyDecided))

	_, err := f.service.DecideReview(context.Background(), uuid.New(), review.ID, &domain.ReviewDecisionRequest{Decision: "REJECT"})

	assert.Equal(t, pkgErrors.ErrCodeReviewAlreadyDecided, pkgErrors.Code(err))
	f.mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDecideReview_AlreadyDecided(t *testing.T) {
	f := newVerificationFixture()
	review := &domain.VerificationReview{ID: uuid.New(), Status: domain.StatusRejected}
	f.reviews.On("GetByID", mock.Anything, review.ID).Return(review, nil)

	_, err := f.service.DecideReview(context.Background(), uuid.New(), review.ID, &domain.ReviewDecisionRequest{Decision: "APPROVE"})

	assert.True(t, errors.Is(err, pkgErrors.ErrReviewAlreadyDecided))
	f.reviews.AssertNotCalled(t, "RecordDecision", mock.Anything, mock.Anything)
}

func TestDecideReview_InvalidAndMissing(t *testing.T) {
	f := newVerificationFixture()
	missing := uuid.New()
	f.reviews.On("GetByID", mock.Anything, missing).Return(nil, sql.ErrNoRows)

	_, err := f.service.DecideReview(context.Background(), uuid.New(), uuid.New(), &domain.ReviewDecisionRequest{Decision: "MAYBE"})
	assert.True(t, errors.Is(err, pkgErrors.ErrInvalidDecision))

	_, err = f.service.DecideReview(context.Background(), uuid.New(), missing, &domain.ReviewDecisionRequest{Decision: "APPROVE"})
	assert.True(t, errors.Is(err, pkgErrors.ErrReviewNotFound))
}

func TestDueNotification(t *testing.T) {
	f := newVerificationFixture()
	past := fixedNow.Add(-time.Minute)
	due := &domain.Pensioner{ID: uuid.New(), NextDueAt: &past}
	seen := &domain.Pensioner{ID: uuid.New(), NextDueAt: &past, HasSeenDueNotification: true}

	f.pensioners.On("GetByID", mock.Anything, due.ID).Return(due, nil)
	f.pensioners.On("GetByID", mock.Anything, seen.ID).Return(seen, nil)

	resp, err := f.service.DueNotification(context.Background(), due.ID)
	require.NoError(t, err)
	assert.True(t, resp.Show)

	resp, err = f.service.DueNotification(context.Background(), seen.ID)
	require.NoError(t, err)
	assert.False(t, resp.Show)
}

func TestAcknowledgeDueNotification(t *testing.T) {
	f := newVerificationFixture()
	known, unknown := uuid.New(), uuid.New()

	f.pensioners.On("MarkDueNotificationSeen", mock.Anything, known, fixedNow).Return(nil)
	f.pensioners.On("MarkDueNotificationSeen", mock.Anything, unknown, fixedNow).Return(pkgErrors.ErrPensionerNotFound)

	assert.NoError(t, f.service.AcknowledgeDueNotification(context.Background(), known))
	assert.Equal(t, pkgErrors.ErrCodePensionerNotFound, pkgErrors.Code(f.service.AcknowledgeDueNotification(context.Background(), unknown)))
}

func TestListLogs(t *testing.T) {
	f := newVerificationFixture()
	id := uuid.New()
	entries := []*domain.VerificationLogEntry{{ID: uuid.New(), PensionerID: id}}

	f.pensioners.On("GetByID", mock.Anything, id).Return(&domain.Pensioner{ID: id}, nil)
	f.logs.On("ListByPensioner", mock.Anything, id).Return(entries, nil)

	got, err := f.service.ListLogs(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, entries, got)
}

func TestListPendingReviews_ClampsPage(t *testing.T) {
	f := newVerificationFixture()
	f.reviews.On("ListPending", mock.Anything, 200, 0).Return([]*domain.VerificationReview{}, nil)

	_, err := f.service.ListPendingReviews(context.Background(), 5000, -3)

	require.NoError(t, err)
	f.reviews.AssertExpectations(t)
}

func TestSendDueReminders(t *testing.T) {
	f := newVerificationFixture()
	past := fixedNow.Add(-24 * time.Hour)
	future := fixedNow.Add(24 * time.Hour)
	pensioners := []*domain.Pensioner{
		{ID: uuid.New(), Email: "one@example.com", NextDueAt: &past},
		{ID: uuid.New(), Email: "two@example.com", NextDueAt: &past},
		{ID: uuid.New(), Email: "late@example.com", NextDueAt: &future},
	}

	f.pensioners.On("ListDueForReverification", mock.Anything, fixedNow).Return(pensioners, nil)
	f.mailer.On("Send", mock.Anything, "one@example.com", mock.Anything, mock.Anything).Return(nil)
	f.mailer.On("Send", mock.Anything, "two@example.com", mock.Anything, mock.Anything).Return(errors.New("mailbox full"))

	sent, failed, err := f.service.SendDueReminders(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, 1, failed)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.RemindersTotal.WithLabelValues("sent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.RemindersTotal.WithLabelValues("failed")))
	f.mailer.AssertNotCalled(t, "Send", mock.Anything, "late@example.com", mock.Anything, mock.Anything)
}

//go:build integration

package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/segyhp/pension-verification/internal/domain"
	pkgErrors "github.com/segyhp/pension-verification/pkg/errors"
)

// Run with: TEST_DATABASE_URL=postgres://... go test -tags integration ./internal/repository/
// The target database is wiped and rebuilt from scripts/init.sql.

var integrationDB *sqlx.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		os.Exit(m.Run())
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		panic("failed to connect to test database: " + err.Error())
	}
	if err := resetSchema(db); err != nil {
		panic("failed to initialize database schema: " + err.Error())
	}

	integrationDB = db
	code := m.Run()
	db.Close()
	os.Exit(code)
}

func resetSchema(db *sqlx.DB) error {
	_, err := db.Exec(`DROP TABLE IF EXISTS verification_reviews, documents, verification_logs, staff_users, pensioners CASCADE`)
	if err != nil {
		return err
	}

	schema, err := os.ReadFile("../../scripts/init.sql")
	if err != nil {
		return err
	}

	_, err = db.Exec(string(schema))
	return err
}

func cleanupTestData(t *testing.T) {
	t.Helper()
	if integrationDB == nil {
		t.Skip("TEST_DATABASE_URL not set")
	}
	_, err := integrationDB.Exec(`TRUNCATE verification_reviews, documents, verification_logs, staff_users, pensioners`)
	require.NoError(t, err)
}

func seedPensioner(t *testing.T, repo PensionerRepository, pensionID string) *domain.Pensioner {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Second)
	p := &domain.Pensioner{
		ID:                     uuid.New(),
		PensionID:              pensionID,
		FullName:               "Adaeze Okafor",
		Email:                  "adaeze@example.com",
		PasswordHash:           "hash",
		Salary:                 decimal.NewFromInt(850000),
		DateOfFirstAppointment: time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		DateOfRetirement:       time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		PensionSchemeType:      domain.SchemeTotal,
		VerificationStatus:     domain.StatusPending,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func TestIntegration_PensionerLifecycle(t *testing.T) {
	cleanupTestData(t)
	ctx := context.Background()
	pensioners := NewPensionerRepository(integrationDB)
	logs := NewVerificationLogRepository(integrationDB)

	p := seedPensioner(t, pensioners, "PEN-INT-001")

	t.Run("duplicate pension id", func(t *testing.T) {
		dup := *p
		dup.ID = uuid.New()
		err := pensioners.Create(ctx, &dup)
		assert.ErrorIs(t, err, pkgErrors.ErrPensionerAlreadyExists)
	})

	t.Run("round trip", func(t *testing.T) {
		got, err := pensioners.GetByPensionID(ctx, "PEN-INT-001")
		require.NoError(t, err)
		assert.Equal(t, p.ID, got.ID)
		assert.True(t, got.Salary.Equal(p.Salary))
		assert.Equal(t, domain.StatusPending, got.VerificationStatus)
		assert.Nil(t, got.NextDueAt)
	})

	now := time.Now().UTC().Truncate(time.Second)
	due := now.AddDate(0, 0, 365)
	adminID := uuid.New()

	t.Run("approve then flag clears due date", func(t *testing.T) {
		err := pensioners.RecordDecision(ctx, &domain.PensionerDecision{
			PensionerID: p.ID,
			Status:      domain.StatusVerified,
			NextDueAt:   &due,
			LogEntry: &domain.VerificationLogEntry{
				ID: uuid.New(), PensionerID: p.ID, Method: domain.MethodAdminReview,
				Status: domain.StatusVerified, Message: "Pensioner approved",
				PerformedBy: &adminID, VerifiedAt: now, NextDueAt: &due,
			},
		})
		require.NoError(t, err)

		err = pensioners.RecordDecision(ctx, &domain.PensionerDecision{
			PensionerID: p.ID,
			Status:      domain.StatusFlagged,
			LogEntry: &domain.VerificationLogEntry{
				ID: uuid.New(), PensionerID: p.ID, Method: domain.MethodAdminReview,
				Status: domain.StatusFlagged, Message: "Pensioner flagged",
				PerformedBy: &adminID, VerifiedAt: now.Add(time.Minute),
			},
		})
		require.NoError(t, err)

		got, err := pensioners.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusFlagged, got.VerificationStatus)
		assert.Nil(t, got.NextDueAt)

		entries, err := logs.ListByPensioner(ctx, p.ID)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, domain.StatusFlagged, entries[0].Status)
	})

	t.Run("due listing and acknowledgement", func(t *testing.T) {
		listed, err := pensioners.ListDueForReverification(ctx, due.Add(time.Hour))
		require.NoError(t, err)
		assert.Empty(t, listed, "a flagged pensioner has no due date")

		err = pensioners.RecordDecision(ctx, &domain.PensionerDecision{
			PensionerID: p.ID,
			Status:      domain.StatusVerified,
			NextDueAt:   &due,
			LogEntry: &domain.VerificationLogEntry{
				ID: uuid.New(), PensionerID: p.ID, Method: domain.MethodAdminReview,
				Status: domain.StatusVerified, Message: "Pensioner approved",
				PerformedBy: &adminID, VerifiedAt: now.Add(2 * time.Minute), NextDueAt: &due,
			},
		})
		require.NoError(t, err)

		listed, err = pensioners.ListDueForReverification(ctx, due.Add(time.Hour))
		require.NoError(t, err)
		require.Len(t, listed, 1)

		require.NoError(t, pensioners.MarkDueNotificationSeen(ctx, p.ID, now))

		listed, err = pensioners.ListDueForReverification(ctx, due.Add(time.Hour))
		require.NoError(t, err)
		assert.Empty(t, listed)
	})

	t.Run("unknown pensioner", func(t *testing.T) {
		err := pensioners.MarkDueNotificationSeen(ctx, uuid.New(), now)
		assert.ErrorIs(t, err, pkgErrors.ErrPensionerNotFound)
	})
}

func TestIntegration_DocumentReviewFlow(t *testing.T) {
	cleanupTestData(t)
	ctx := context.Background()
	pensioners := NewPensionerRepository(integrationDB)
	documents := NewDocumentRepository(integrationDB)
	reviews := NewReviewRepository(integrationDB)
	staff := NewStaffRepository(integrationDB)

	p := seedPensioner(t, pensioners, "PEN-INT-002")
	now := time.Now().UTC().Truncate(time.Second)

	officer := &domain.StaffUser{
		ID: uuid.New(), Email: "officer@example.com", FullName: "Officer",
		PasswordHash: "hash", Role: domain.RoleOfficer, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, staff.Create(ctx, officer))

	upload := func(docType string) *domain.VerificationReview {
		doc := &domain.Document{
			ID: uuid.New(), PensionerID: p.ID, DocumentType: docType,
			ObjectKey: "pensioners/" + p.ID.String() + "/" + uuid.NewString() + ".png",
			FileID:    "etag", ContentType: "image/png", SizeBytes: 64, CreatedAt: now,
		}
		docID := doc.ID
		queued, err := documents.CreateWithReview(ctx, doc, &domain.VerificationReview{
			ID: uuid.New(), PensionerID: p.ID, DocumentID: &docID,
			Status: domain.StatusPending, CreatedAt: now,
		})
		require.NoError(t, err)
		return queued
	}

	first := upload(domain.DocumentIDCard)
	second := upload(domain.DocumentPassport)
	assert.Equal(t, first.ID, second.ID, "a second upload joins the pending review")

	pending, err := reviews.ListPending(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	due := now.AddDate(3, 0, 0)
	decide := func() error {
		return reviews.RecordDecision(ctx, &domain.ReviewDecision{
			ReviewID: first.ID, OfficerID: officer.ID, Status: domain.StatusVerified,
			ReviewedAt: now, NextDueAt: &due,
			LogEntry: &domain.VerificationLogEntry{
				ID: uuid.New(), PensionerID: p.ID, Method: domain.MethodManualReview,
				Status: domain.StatusVerified, Message: "Manual review approved",
				PerformedBy: &officer.ID, VerifiedAt: now, NextDueAt: &due,
			},
		})
	}

	require.NoError(t, decide())
	assert.ErrorIs(t, decide(), pkgErrors.ErrReviewAlreadyDecided)

	got, err := pensioners.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusVerified, got.VerificationStatus)

	docs, err := documents.ListByPensioner(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	require.NoError(t, documents.Delete(ctx, docs[0].ID))
	assert.ErrorIs(t, documents.Delete(ctx, docs[0].ID), pkgErrors.ErrDocumentNotFound)
}

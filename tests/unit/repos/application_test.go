package repos

import (
	"context"
	"testing"
	"time"

	"nestio-backend/internal/domain"
	"nestio-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var applicationRows = []string{
	"id", "slug", "property_id", "user_id", "applicant_name", "applicant_email",
	"applicant_phone", "applicant_identity", "status", "proposed_rent",
	"move_in_date", "landlord_notes", "created_on", "updated_on",
}

func TestApplicationRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewApplicationRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		app := &domain.Application{
			Slug: "bob-sunny-loft-abc", PropertyID: 42,
			ApplicantName: "Bob", ApplicantEmail: "bob@example.com",
			Identity: "email:bob@example.com",
			Status:   domain.ApplicationStatusPending,
		}

		mock.ExpectQuery("INSERT INTO applications").
			WithArgs(app.Slug, app.PropertyID, nil, app.ApplicantName, app.ApplicantEmail,
				app.ApplicantPhone, app.Identity, app.Status, nil, nil,
				app.LandlordNotes, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

		err := repo.Create(ctx, app)
		require.NoError(t, err)
		assert.Equal(t, int64(11), app.ID)
	})

	t.Run("PendingDuplicate", func(t *testing.T) {
		app := &domain.Application{
			Slug: "bob-sunny-loft-def", PropertyID: 42,
			ApplicantName: "Bob", ApplicantEmail: "bob@example.com",
			Identity: "email:bob@example.com",
			Status:   domain.ApplicationStatusPending,
		}

		// The partial unique index over (property_id, applicant_identity)
		// WHERE status = 'PENDING' fires under concurrent submissions.
		mock.ExpectQuery("INSERT INTO applications").
			WillReturnError(&pq.Error{Code: "23505", Constraint: "uq_applications_pending"})

		err := repo.Create(ctx, app)
		assert.ErrorIs(t, err, domain.ErrDuplicateApplication)
	})

	t.Run("OtherStoreFailure", func(t *testing.T) {
		app := &domain.Application{Slug: "x", PropertyID: 42, Status: domain.ApplicationStatusPending}

		mock.ExpectQuery("INSERT INTO applications").
			WillReturnError(&pq.Error{Code: "23503"})

		err := repo.Create(ctx, app)
		var serr *domain.StoreError
		assert.ErrorAs(t, err, &serr)
		assert.NotErrorIs(t, err, domain.ErrDuplicateApplication)
	})
}

func TestApplicationRepository_HasPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewApplicationRepository(db)
	ctx := context.Background()

	t.Run("Pending", func(t *testing.T) {
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(int64(42), "user:7", domain.ApplicationStatusPending).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		pending, err := repo.HasPending(ctx, 42, "user:7")
		require.NoError(t, err)
		assert.True(t, pending)
	})

	t.Run("OnlyResolvedRows", func(t *testing.T) {
		mock.ExpectQuery("SELECT EXISTS").
			WithArgs(int64(42), "user:7", domain.ApplicationStatusPending).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		pending, err := repo.HasPending(ctx, 42, "user:7")
		require.NoError(t, err)
		assert.False(t, pending)
	})
}

func TestApplicationRepository_Accept(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewApplicationRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		notes := "welcome aboard"

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE applications SET status").
			WithArgs(domain.ApplicationStatusAccepted, &notes, sqlmock.AnyArg(), int64(11), domain.ApplicationStatusPending).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE properties SET availability").
			WithArgs(domain.AvailabilityRented, sqlmock.AnyArg(), int64(42)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Accept(ctx, 11, 42, &notes)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("AlreadyResolved", func(t *testing.T) {
		// The status guard in the UPDATE matches zero rows once another
		// transition has landed; the property is never touched.
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE applications SET status").
			WithArgs(domain.ApplicationStatusAccepted, nil, sqlmock.AnyArg(), int64(11), domain.ApplicationStatusPending).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.Accept(ctx, 11, 42, nil)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("PropertyGoneRollsBack", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE applications SET status").
			WithArgs(domain.ApplicationStatusAccepted, nil, sqlmock.AnyArg(), int64(11), domain.ApplicationStatusPending).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE properties SET availability").
			WithArgs(domain.AvailabilityRented, sqlmock.AnyArg(), int64(42)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		err := repo.Accept(ctx, 11, 42, nil)
		var serr *domain.StoreError
		assert.ErrorAs(t, err, &serr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestApplicationRepository_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewApplicationRepository(db)
	ctx := context.Background()

	t.Run("NilNotesKeepExisting", func(t *testing.T) {
		mock.ExpectExec("UPDATE applications SET status=\\$1, landlord_notes=COALESCE\\(\\$2, landlord_notes\\)").
			WithArgs(domain.ApplicationStatusRejected, nil, sqlmock.AnyArg(), int64(11)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.UpdateStatus(ctx, 11, domain.ApplicationStatusRejected, nil)
		assert.NoError(t, err)
	})
}

func TestApplicationRepository_ListByApplicant(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewApplicationRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		now := time.Now()
		mock.ExpectQuery("SELECT count\\(\\*\\) FROM \\(SELECT (.+) WHERE applicant_identity = \\$1\\) as sub").
			WithArgs("user:7").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery("SELECT (.+) FROM applications WHERE applicant_identity = \\$1 ORDER BY created_on DESC LIMIT \\$2 OFFSET \\$3").
			WithArgs("user:7", int64(20), int64(0)).
			WillReturnRows(sqlmock.NewRows(applicationRows).AddRow(
				11, "bob-sunny-loft-abc", 42, 7, "Bob", "bob@example.com", "",
				"user:7", "PENDING", nil, nil, "", now, now,
			))

		apps, total, err := repo.ListByApplicant(ctx, "user:7", 1, 20)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, apps, 1)
		assert.Equal(t, domain.ApplicationStatusPending, apps[0].Status)
	})
}

func TestApplicationRepository_ExpireStale(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewApplicationRepository(db)
	ctx := context.Background()

	t.Run("WithdrawsOldPending", func(t *testing.T) {
		cutoff := time.Now().AddDate(0, 0, -30)
		mock.ExpectExec("UPDATE applications SET status").
			WithArgs(domain.ApplicationStatusWithdrawn, "expired", sqlmock.AnyArg(), domain.ApplicationStatusPending, cutoff).
			WillReturnResult(sqlmock.NewResult(0, 3))

		n, err := repo.ExpireStale(ctx, cutoff, "expired")
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
	})
}

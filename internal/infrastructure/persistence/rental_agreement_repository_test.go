package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/rentworks/backend/internal/domain/rental"
	"github.com/rentworks/backend/internal/domain/shared"
	"github.com/rentworks/backend/internal/domain/shared/valueobject"
)

// newMockAgreementRepository creates a GormAgreementRepository with a mocked SQL connection
func newMockAgreementRepository(t *testing.T) (*GormAgreementRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormAgreementRepository(gormDB), mock, mockDB
}

func newPersistedAgreement(t *testing.T) *rental.RentalAgreement {
	t.Helper()

	agreement, err := rental.NewRentalAgreement(rental.NewAgreementParams{
		AgreementNumber: "RA-20260301-00001",
		CustomerID:      uuid.New(),
		CustomerName:    "Acme Rentals",
		RentalItemID:    uuid.New(),
		ItemName:        "Excavator",
		Quantity:        1,
		PeriodType:      rental.PeriodMonthly,
		StartDate:       time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		ExpectedPeriods: 6,
		RentAmount:      valueobject.NewMoneyFromFloat(2500),
		SecurityDeposit: valueobject.NewMoneyFromFloat(5000),
	})
	require.NoError(t, err)
	return agreement
}

func TestGormAgreementRepository_FindByID(t *testing.T) {
	t.Run("finds existing agreement", func(t *testing.T) {
		repo, mock, mockDB := newMockAgreementRepository(t)
		defer mockDB.Close()

		agreementID := uuid.New()
		customerID := uuid.New()

		rows := sqlmock.NewRows([]string{"id", "agreement_number", "customer_id", "customer_name", "quantity", "status", "version"}).
			AddRow(agreementID, "RA-20260301-00001", customerID, "Acme Rentals", 1, "active", 1)

		mock.ExpectQuery(`SELECT \* FROM "rental_agreements" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(agreementID, 1).
			WillReturnRows(rows)

		agreement, err := repo.FindByID(context.Background(), agreementID)

		require.NoError(t, err)
		assert.Equal(t, agreementID, agreement.ID)
		assert.Equal(t, "RA-20260301-00001", agreement.AgreementNumber)
		assert.Equal(t, customerID, agreement.CustomerID)
		assert.Equal(t, rental.AgreementActive, agreement.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for non-existent agreement", func(t *testing.T) {
		repo, mock, mockDB := newMockAgreementRepository(t)
		defer mockDB.Close()

		agreementID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "rental_agreements" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(agreementID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		_, err := repo.FindByID(context.Background(), agreementID)

		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormAgreementRepository_FindByNumber(t *testing.T) {
	repo, mock, mockDB := newMockAgreementRepository(t)
	defer mockDB.Close()

	agreementID := uuid.New()

	rows := sqlmock.NewRows([]string{"id", "agreement_number", "status", "version"}).
		AddRow(agreementID, "RA-20260301-00007", "active", 1)

	mock.ExpectQuery(`SELECT \* FROM "rental_agreements" WHERE agreement_number = \$1 ORDER BY .* LIMIT .*`).
		WithArgs("RA-20260301-00007", 1).
		WillReturnRows(rows)

	agreement, err := repo.FindByNumber(context.Background(), "RA-20260301-00007")

	require.NoError(t, err)
	assert.Equal(t, agreementID, agreement.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormAgreementRepository_SaveWithLock(t *testing.T) {
	t.Run("persists when the version matches", func(t *testing.T) {
		repo, mock, mockDB := newMockAgreementRepository(t)
		defer mockDB.Close()

		agreement := newPersistedAgreement(t)
		agreement.Version = 2 // version already bumped by the domain operation

		mock.ExpectExec(`UPDATE "rental_agreements" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.SaveWithLock(context.Background(), agreement)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("reports a conflict when no row matches the version", func(t *testing.T) {
		repo, mock, mockDB := newMockAgreementRepository(t)
		defer mockDB.Close()

		agreement := newPersistedAgreement(t)
		agreement.Version = 2

		mock.ExpectExec(`UPDATE "rental_agreements" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SaveWithLock(context.Background(), agreement)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "OPTIMISTIC_LOCK_ERROR", domainErr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormAgreementRepository_GenerateAgreementNumber(t *testing.T) {
	prefix := fmt.Sprintf("RA-%s-", time.Now().Format("20060102"))

	t.Run("starts from one when no agreements exist today", func(t *testing.T) {
		repo, mock, mockDB := newMockAgreementRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT .* FROM "rental_agreements" WHERE agreement_number LIKE \$1`).
			WithArgs(prefix+"%", 1).
			WillReturnRows(sqlmock.NewRows([]string{"agreement_number"}))

		number, err := repo.GenerateAgreementNumber(context.Background())

		require.NoError(t, err)
		assert.Equal(t, prefix+"00001", number)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("increments past the highest existing number", func(t *testing.T) {
		repo, mock, mockDB := newMockAgreementRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT .* FROM "rental_agreements" WHERE agreement_number LIKE \$1`).
			WithArgs(prefix+"%", 1).
			WillReturnRows(sqlmock.NewRows([]string{"agreement_number"}).AddRow(prefix + "00041"))

		number, err := repo.GenerateAgreementNumber(context.Background())

		require.NoError(t, err)
		assert.Equal(t, prefix+"00042", number)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

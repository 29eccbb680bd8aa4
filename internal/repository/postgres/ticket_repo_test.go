package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventticketing/internal/domain"
)

const (
	testToken  = "a3f1c2d4-5e6f-4a7b-8c9d-0e1f2a3b4c5d"
	testToken2 = "b4f1c2d4-5e6f-4a7b-8c9d-0e1f2a3b4c5e"
)

func ticketRows(used bool, usedAt, usedBy any) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "email", "name", "ticket_type_id", "used", "used_at", "used_by_key_id", "issued_at"})
	rows.AddRow(testToken, "a@b.is", "Anna", "type-1", used, usedAt, usedBy, time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC))
	return rows
}

func TestTicketRepository_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		ticket  *domain.Ticket
		mock    func(mock sqlmock.Sqlmock)
		wantErr bool
		errIs   error
	}{
		{
			name:   "success",
			ticket: domain.NewTicket(testToken, "type-1", "a@b.is", "Anna", time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)),
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO tickets`).
					WithArgs(testToken, "a@b.is", sqlmock.AnyArg(), "type-1", time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name:   "duplicate token",
			ticket: domain.NewTicket(testToken, "type-1", "a@b.is", "", time.Now()),
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO tickets`).
					WillReturnError(&pq.Error{Code: "23505"})
			},
			wantErr: true,
			errIs:   domain.ErrDuplicate,
		},
		{
			name:   "db error",
			ticket: domain.NewTicket(testToken, "type-1", "a@b.is", "", time.Now()),
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO tickets`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewTicketRepository(db)
			err = repo.Create(ctx, tt.ticket)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errIs != nil {
					require.ErrorIs(t, err, tt.errIs)
				}
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestTicketRepository_Redeem(t *testing.T) {
	ctx := context.Background()
	usedAt := time.Date(2026, 2, 1, 20, 30, 0, 0, time.UTC)
	keyID := "key-1"

	t.Run("conditional update wins", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`UPDATE tickets t`).
			WithArgs(testToken, keyID, "event-1").
			WillReturnRows(ticketRows(true, usedAt, keyID))

		repo := NewTicketRepository(db)
		ticket, err := repo.Redeem(ctx, testToken, keyID, "event-1")
		require.NoError(t, err)
		assert.True(t, ticket.Used)
		require.NotNil(t, ticket.UsedAt)
		assert.Equal(t, usedAt, *ticket.UsedAt)
		require.NotNil(t, ticket.UsedByKeyID)
		assert.Equal(t, keyID, *ticket.UsedByKeyID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("zero rows is ErrNotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`UPDATE tickets t`).
			WithArgs(testToken, keyID, "event-1").
			WillReturnError(sql.ErrNoRows)

		repo := NewTicketRepository(db)
		_, err = repo.Redeem(ctx, testToken, keyID, "event-1")
		require.ErrorIs(t, err, domain.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error passes through", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`UPDATE tickets t`).
			WillReturnError(sql.ErrConnDone)

		repo := NewTicketRepository(db)
		_, err = repo.Redeem(ctx, testToken, keyID, "event-1")
		require.Error(t, err)
		require.NotErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestTicketRepository_GetByTokenForEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("found in scope", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT (.+) FROM tickets t JOIN ticket_types tt`).
			WithArgs(testToken, "event-1").
			WillReturnRows(ticketRows(false, nil, nil))

		repo := NewTicketRepository(db)
		ticket, err := repo.GetByTokenForEvent(ctx, testToken, "event-1")
		require.NoError(t, err)
		assert.Equal(t, testToken, ticket.ID)
		assert.False(t, ticket.Used)
		assert.Nil(t, ticket.UsedAt)
		assert.Nil(t, ticket.UsedByKeyID)
	})

	t.Run("outside scope is ErrNotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT (.+) FROM tickets t JOIN ticket_types tt`).
			WithArgs(testToken, "event-2").
			WillReturnError(sql.ErrNoRows)

		repo := NewTicketRepository(db)
		_, err = repo.GetByTokenForEvent(ctx, testToken, "event-2")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestTicketRepository_Burn(t *testing.T) {
	ctx := context.Background()

	t.Run("counts matched rows", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`UPDATE tickets`).
			WithArgs(pq.Array([]string{testToken, testToken2})).
			WillReturnResult(sqlmock.NewResult(0, 2))

		repo := NewTicketRepository(db)
		count, err := repo.Burn(ctx, []string{testToken, testToken2})
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown tokens match nothing", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`UPDATE tickets`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewTicketRepository(db)
		count, err := repo.Burn(ctx, []string{testToken})
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}

func TestTicketRepository_ListByEmail(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM tickets t WHERE t.email`).
		WithArgs("a@b.is", 50).
		WillReturnRows(ticketRows(false, nil, nil))

	repo := NewTicketRepository(db)
	tickets, err := repo.ListByEmail(ctx, "a@b.is", 50)
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, "a@b.is", tickets[0].Email)
	require.NoError(t, mock.ExpectationsWereMet())
}

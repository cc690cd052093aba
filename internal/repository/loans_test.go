package repository_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/Astemirdum/lending-service/internal/errs"
	"github.com/Astemirdum/lending-service/internal/model"
)

const (
	loanInsertQuery = `INSERT INTO loans \(loan_uid,person_id,book_id,checkout_date\) VALUES \(\$1,\$2,\$3,\$4\) returning loan_uid`
	loanSelectQuery = `select l\.id, l\.loan_uid, l\.person_id`
	loanReturnQuery = `update loans\s+set return_date = current_date\s+where loan_uid = \$1 and return_date is null\s+returning loan_uid`
)

// expectCapacityProbe scripts the locked read sequence inside the
// checkout transaction: person existence, book row for update, active
// loan count.
func expectCapacityProbe(mock sqlmock.Sqlmock, personID, bookID, quantity, active int) {
	mock.ExpectQuery(`select exists \(select 1 from persons where id = \$1\)`).
		WithArgs(personID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(`select quantity from books where id = \$1 for update`).
		WithArgs(bookID).
		WillReturnRows(sqlmock.NewRows([]string{"quantity"}).AddRow(quantity))
	mock.ExpectQuery(`select count\(\*\) from loans where book_id = \$1 and return_date is null`).
		WithArgs(bookID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(active))
}

func loanRows(loanUid string, returned bool) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "loan_uid", "person_id", "person_name",
		"book_id", "book_name", "checkout_date", "return_date", "status",
	})
	checkout := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if returned {
		rows.AddRow(1, loanUid, 1, "Anna Reed", 2, "The Go Programming Language", checkout, checkout.AddDate(0, 0, 4), "returned")
	} else {
		rows.AddRow(1, loanUid, 1, "Anna Reed", 2, "The Go Programming Language", checkout, nil, "active")
	}
	return rows
}

func TestRepository_Checkout_CapacityGate(t *testing.T) {
	t.Parallel()

	var tests = []struct {
		name     string
		quantity int
		active   int
		wantErr  error
	}{
		{
			name:     "one of two copies out",
			quantity: 2,
			active:   1,
			wantErr:  nil,
		},
		{
			name:     "all copies out",
			quantity: 2,
			active:   2,
			wantErr:  errs.ErrCapacityExceeded,
		},
		{
			name:     "zero stock",
			quantity: 0,
			active:   0,
			wantErr:  errs.ErrCapacityExceeded,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			repo, mock := newMockRepo(t)
			const loanUid = "9c8e0a5d-4f52-4cbf-b4d4-6a1c8e1a2b11"

			mock.ExpectBegin()
			expectCapacityProbe(mock, 1, 2, tt.quantity, tt.active)
			if tt.wantErr == nil {
				mock.ExpectQuery(loanInsertQuery).
					WithArgs(sqlmock.AnyArg(), 1, 2, sqlmock.AnyArg()).
					WillReturnRows(sqlmock.NewRows([]string{"loan_uid"}).AddRow(loanUid))
				mock.ExpectCommit()
				mock.ExpectQuery(loanSelectQuery).
					WithArgs(loanUid).
					WillReturnRows(loanRows(loanUid, false))
			} else {
				mock.ExpectRollback()
			}

			loan, err := repo.Checkout(context.Background(), model.CheckoutRequest{
				PersonID:     1,
				BookID:       2,
				CheckoutDate: mustDate(t, "2024-03-01"),
			})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				require.Equal(t, loanUid, loan.LoanUid)
				require.Equal(t, model.StatusActive, loan.Status)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

// A single-copy book cycles through checkout, a rejected second
// checkout, return, and a fresh checkout.
func TestRepository_Checkout_SingleCopyCycle(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)
	ctx := context.Background()
	const (
		firstUid  = "9c8e0a5d-4f52-4cbf-b4d4-6a1c8e1a2b11"
		secondUid = "2f1b87cf-03ef-4a70-9a9e-5d7c12f0aa42"
	)
	req := model.CheckoutRequest{PersonID: 1, BookID: 2, CheckoutDate: mustDate(t, "2024-03-01")}

	mock.ExpectBegin()
	expectCapacityProbe(mock, 1, 2, 1, 0)
	mock.ExpectQuery(loanInsertQuery).
		WithArgs(sqlmock.AnyArg(), 1, 2, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"loan_uid"}).AddRow(firstUid))
	mock.ExpectCommit()
	mock.ExpectQuery(loanSelectQuery).WithArgs(firstUid).WillReturnRows(loanRows(firstUid, false))

	loan, err := repo.Checkout(ctx, req)
	require.NoError(t, err)
	require.Equal(t, model.StatusActive, loan.Status)

	mock.ExpectBegin()
	expectCapacityProbe(mock, 1, 2, 1, 1)
	mock.ExpectRollback()

	_, err = repo.Checkout(ctx, req)
	require.ErrorIs(t, err, errs.ErrCapacityExceeded)

	mock.ExpectQuery(loanReturnQuery).
		WithArgs(firstUid).
		WillReturnRows(sqlmock.NewRows([]string{"loan_uid"}).AddRow(firstUid))
	mock.ExpectQuery(loanSelectQuery).WithArgs(firstUid).WillReturnRows(loanRows(firstUid, true))

	returnedLoan, err := repo.Return(ctx, firstUid)
	require.NoError(t, err)
	require.Equal(t, model.StatusReturned, returnedLoan.Status)
	require.NotNil(t, returnedLoan.ReturnDate)

	mock.ExpectBegin()
	expectCapacityProbe(mock, 1, 2, 1, 0)
	mock.ExpectQuery(loanInsertQuery).
		WithArgs(sqlmock.AnyArg(), 1, 2, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"loan_uid"}).AddRow(secondUid))
	mock.ExpectCommit()
	mock.ExpectQuery(loanSelectQuery).WithArgs(secondUid).WillReturnRows(loanRows(secondUid, false))

	loan, err = repo.Checkout(ctx, req)
	require.NoError(t, err)
	require.Equal(t, secondUid, loan.LoanUid)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Checkout_PersonNotFound(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`select exists \(select 1 from persons where id = \$1\)`).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectRollback()

	_, err := repo.Checkout(context.Background(), model.CheckoutRequest{
		PersonID:     42,
		BookID:       2,
		CheckoutDate: mustDate(t, "2024-03-01"),
	})
	require.ErrorIs(t, err, errs.ErrPersonNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Checkout_BookNotFound(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`select exists \(select 1 from persons where id = \$1\)`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(`select quantity from books where id = \$1 for update`).
		WithArgs(404).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.Checkout(context.Background(), model.CheckoutRequest{
		PersonID:     1,
		BookID:       404,
		CheckoutDate: mustDate(t, "2024-03-01"),
	})
	require.ErrorIs(t, err, errs.ErrBookNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

// The return update matches only active rows; a second return finds
// nothing to update and reports the state conflict.
func TestRepository_Return_OneShot(t *testing.T) {
	t.Parallel()
	const loanUid = "9c8e0a5d-4f52-4cbf-b4d4-6a1c8e1a2b11"

	var tests = []struct {
		name    string
		exists  bool
		wantErr error
	}{
		{
			name:    "already returned",
			exists:  true,
			wantErr: errs.ErrAlreadyReturned,
		},
		{
			name:    "unknown loan",
			exists:  false,
			wantErr: errs.ErrLoanNotFound,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			repo, mock := newMockRepo(t)

			mock.ExpectQuery(loanReturnQuery).
				WithArgs(loanUid).
				WillReturnRows(sqlmock.NewRows([]string{"loan_uid"}))
			mock.ExpectQuery(`select exists \(select 1 from loans where loan_uid = \$1\)`).
				WithArgs(loanUid).
				WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(tt.exists))

			_, err := repo.Return(context.Background(), loanUid)
			require.ErrorIs(t, err, tt.wantErr)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRepository_DeleteLoan(t *testing.T) {
	t.Parallel()
	const loanUid = "9c8e0a5d-4f52-4cbf-b4d4-6a1c8e1a2b11"

	var tests = []struct {
		name    string
		rows    int64
		wantErr error
	}{
		{
			name:    "ok",
			rows:    1,
			wantErr: nil,
		},
		{
			name:    "unknown loan",
			rows:    0,
			wantErr: errs.ErrLoanNotFound,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			repo, mock := newMockRepo(t)

			mock.ExpectExec(`DELETE FROM loans WHERE loan_uid = \$1`).
				WithArgs(loanUid).
				WillReturnResult(sqlmock.NewResult(0, tt.rows))

			err := repo.Delete(context.Background(), loanUid)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

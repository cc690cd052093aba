package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/lending-service/internal/errs"
	"github.com/Astemirdum/lending-service/internal/model"
	"github.com/Astemirdum/lending-service/internal/service"

	repo_mocks "github.com/Astemirdum/lending-service/internal/repository/mocks"
)

func today() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}

func dateDaysAgo(days int) model.Date {
	return model.NewDate(today().AddDate(0, 0, -days))
}

func TestService_Checkout_DefaultsDate(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	defer c.Finish()
	repo := repo_mocks.NewMockRepository(c)
	svc := service.NewService(repo, nil, zap.NewExample().Named("test"))

	want := model.Loan{
		LoanUid:      "9c8e0a5d-4f52-4cbf-b4d4-6a1c8e1a2b11",
		PersonID:     1,
		BookID:       2,
		CheckoutDate: model.NewDate(today()),
		Status:       model.StatusActive,
	}
	repo.EXPECT().
		Checkout(context.Background(), gomock.Any()).
		DoAndReturn(func(_ context.Context, req model.CheckoutRequest) (model.Loan, error) {
			require.Equal(t, model.NewDate(today()), req.CheckoutDate)
			return want, nil
		})

	got, err := svc.Checkout(context.Background(), model.CheckoutRequest{PersonID: 1, BookID: 2})
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestService_Checkout_KeepsCallerDate(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	defer c.Finish()
	repo := repo_mocks.NewMockRepository(c)
	svc := service.NewService(repo, nil, zap.NewExample().Named("test"))

	checkoutDate := dateDaysAgo(3)
	repo.EXPECT().
		Checkout(context.Background(), model.CheckoutRequest{
			PersonID:     1,
			BookID:       2,
			CheckoutDate: checkoutDate,
		}).
		Return(model.Loan{}, errs.ErrCapacityExceeded)

	_, err := svc.Checkout(context.Background(), model.CheckoutRequest{
		PersonID:     1,
		BookID:       2,
		CheckoutDate: checkoutDate,
	})
	require.ErrorIs(t, err, errs.ErrCapacityExceeded)
}

func TestService_Availability(t *testing.T) {
	t.Parallel()

	var tests = []struct {
		name     string
		quantity int
		active   int
		want     model.Availability
	}{
		{
			name:     "copies left",
			quantity: 3,
			active:   1,
			want:     model.Availability{BookID: 1, Total: 3, Available: 2},
		},
		{
			name:     "fully checked out",
			quantity: 3,
			active:   3,
			want:     model.Availability{BookID: 1, Total: 3, Available: 0},
		},
		{
			name:     "negative is not clamped",
			quantity: 3,
			active:   5,
			want:     model.Availability{BookID: 1, Total: 3, Available: -2},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			repo := repo_mocks.NewMockRepository(c)
			svc := service.NewService(repo, nil, zap.NewExample().Named("test"))

			repo.EXPECT().
				GetBook(context.Background(), 1).
				Return(model.Book{ID: 1, Quantity: tt.quantity}, nil)
			repo.EXPECT().
				ActiveLoanCount(context.Background(), 1).
				Return(tt.active, nil)

			got, err := svc.Availability(context.Background(), 1)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestService_Availability_BookNotFound(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	defer c.Finish()
	repo := repo_mocks.NewMockRepository(c)
	svc := service.NewService(repo, nil, zap.NewExample().Named("test"))

	repo.EXPECT().
		GetBook(context.Background(), 42).
		Return(model.Book{}, errs.ErrBookNotFound)

	_, err := svc.Availability(context.Background(), 42)
	require.ErrorIs(t, err, errs.ErrBookNotFound)
}

func TestService_Report(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	defer c.Finish()
	repo := repo_mocks.NewMockRepository(c)
	svc := service.NewService(repo, nil, zap.NewExample().Named("test"))

	returnDate := dateDaysAgo(1)
	loans := []model.Loan{
		// returned, never counts as overdue
		{LoanUid: "a", CheckoutDate: dateDaysAgo(20), ReturnDate: &returnDate, Status: model.StatusReturned},
		// active within the grace period
		{LoanUid: "b", CheckoutDate: dateDaysAgo(6), Status: model.StatusActive},
		// active exactly at the boundary, still not overdue
		{LoanUid: "c", CheckoutDate: dateDaysAgo(7), Status: model.StatusActive},
		// active past the boundary
		{LoanUid: "d", CheckoutDate: dateDaysAgo(8), Status: model.StatusActive},
	}
	usage := []model.BookUsage{
		{Name: "The Go Programming Language", Count: 3},
		{Name: "Deleted Book", Count: 1},
	}

	repo.EXPECT().List(gomock.Any()).Return(loans, nil)
	repo.EXPECT().MostBorrowed(gomock.Any()).Return(usage, nil)

	report, err := svc.Report(context.Background())
	require.NoError(t, err)
	require.Equal(t, model.Report{
		TotalLoans:   4,
		Active:       3,
		Returned:     1,
		Overdue:      1,
		MostBorrowed: usage,
	}, report)
}

func TestService_Report_Empty(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	defer c.Finish()
	repo := repo_mocks.NewMockRepository(c)
	svc := service.NewService(repo, nil, zap.NewExample().Named("test"))

	repo.EXPECT().List(gomock.Any()).Return([]model.Loan{}, nil)
	repo.EXPECT().MostBorrowed(gomock.Any()).Return([]model.BookUsage{}, nil)

	report, err := svc.Report(context.Background())
	require.NoError(t, err)
	require.Equal(t, model.Report{MostBorrowed: []model.BookUsage{}}, report)
}

func TestService_Report_RepoError(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	defer c.Finish()
	repo := repo_mocks.NewMockRepository(c)
	svc := service.NewService(repo, nil, zap.NewExample().Named("test"))

	repo.EXPECT().List(gomock.Any()).Return(nil, errors.New("db internal"))
	repo.EXPECT().MostBorrowed(gomock.Any()).Return([]model.BookUsage{}, nil).AnyTimes()

	_, err := svc.Report(context.Background())
	require.Error(t, err)
}

func TestService_Delete_FetchesBeforeDelete(t *testing.T) {
	t.Parallel()
	c := gomock.NewController(t)
	defer c.Finish()
	repo := repo_mocks.NewMockRepository(c)
	svc := service.NewService(repo, nil, zap.NewExample().Named("test"))

	const loanUid = "9c8e0a5d-4f52-4cbf-b4d4-6a1c8e1a2b11"

	repo.EXPECT().
		Get(context.Background(), loanUid).
		Return(model.Loan{}, errs.ErrLoanNotFound)

	err := svc.Delete(context.Background(), loanUid)
	require.ErrorIs(t, err, errs.ErrLoanNotFound)
}

func TestService_Overdue_Boundary(t *testing.T) {
	t.Parallel()
	now := today()

	var tests = []struct {
		name string
		loan model.Loan
		want bool
	}{
		{
			name: "fresh",
			loan: model.Loan{CheckoutDate: model.NewDate(now)},
			want: false,
		},
		{
			name: "day seven",
			loan: model.Loan{CheckoutDate: dateDaysAgo(7)},
			want: false,
		},
		{
			name: "day eight",
			loan: model.Loan{CheckoutDate: dateDaysAgo(8)},
			want: true,
		},
		{
			name: "returned long ago",
			loan: func() model.Loan {
				rd := dateDaysAgo(10)
				return model.Loan{CheckoutDate: dateDaysAgo(30), ReturnDate: &rd}
			}(),
			want: false,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, tt.loan.Overdue(now))
		})
	}
}

package repository

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/lending-service/internal/errs"
	"github.com/Astemirdum/lending-service/internal/model"
)

// loanSelect resolves display names at read time; a dangling reference
// renders as 'Unknown' instead of failing the read.
const loanSelect = `
select l.id, l.loan_uid, l.person_id, coalesce(p.name, 'Unknown') as person_name,
       l.book_id, coalesce(b.name, 'Unknown') as book_name,
       l.checkout_date, l.return_date,
       case when l.return_date is null then 'active' else 'returned' end as status
from loans l
left join persons p on p.id = l.person_id
left join books b on b.id = l.book_id`

// Checkout admits a new loan under the capacity invariant. The book row
// is locked for the count-then-insert sequence so concurrent checkouts
// of the same book are linearized.
func (r *repository) Checkout(ctx context.Context, req model.CheckoutRequest) (model.Loan, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.Loan{}, errors.Wrap(err, "begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	var personExists bool
	if err := tx.GetContext(ctx, &personExists,
		`select exists (select 1 from persons where id = $1)`, req.PersonID); err != nil {
		return model.Loan{}, err
	}
	if !personExists {
		return model.Loan{}, errs.ErrPersonNotFound
	}

	var quantity int
	if err := tx.GetContext(ctx, &quantity,
		`select quantity from books where id = $1 for update`, req.BookID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Loan{}, errs.ErrBookNotFound
		}
		return model.Loan{}, err
	}

	var active int
	if err := tx.GetContext(ctx, &active,
		`select count(*) from loans where book_id = $1 and return_date is null`, req.BookID); err != nil {
		return model.Loan{}, err
	}
	if active >= quantity {
		return model.Loan{}, errs.ErrCapacityExceeded
	}

	q, args, err := qb.Insert(loansTableName).
		Columns("loan_uid", "person_id", "book_id", "checkout_date").
		Values(uuid.New(), req.PersonID, req.BookID, req.CheckoutDate).
		Suffix("returning loan_uid").
		ToSql()
	if err != nil {
		return model.Loan{}, err
	}
	var loanUid string
	if err := tx.GetContext(ctx, &loanUid, q, args...); err != nil {
		r.log.Error("Checkout", zap.String("q", q), zap.Any("args", args))
		return model.Loan{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Loan{}, errors.Wrap(err, "commit tx")
	}

	return r.Get(ctx, loanUid)
}

func (r *repository) Return(ctx context.Context, loanUid string) (model.Loan, error) {
	q := fmt.Sprintf(`update %s
	set return_date = current_date
	where loan_uid = $1 and return_date is null
	returning loan_uid`, loansTableName)

	var uid string
	if err := r.db.GetContext(ctx, &uid, q, loanUid); err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return model.Loan{}, err
		}
		var exists bool
		if err := r.db.GetContext(ctx, &exists,
			`select exists (select 1 from loans where loan_uid = $1)`, loanUid); err != nil {
			return model.Loan{}, err
		}
		if exists {
			return model.Loan{}, errs.ErrAlreadyReturned
		}
		return model.Loan{}, errs.ErrLoanNotFound
	}

	return r.Get(ctx, uid)
}

func (r *repository) Delete(ctx context.Context, loanUid string) error {
	q, args, err := qb.Delete(loansTableName).
		Where(sq.Eq{"loan_uid": loanUid}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.ErrLoanNotFound
	}
	return nil
}

func (r *repository) Get(ctx context.Context, loanUid string) (model.Loan, error) {
	q := loanSelect + `
where l.loan_uid = $1`

	var loan model.Loan
	if err := r.db.GetContext(ctx, &loan, q, loanUid); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Loan{}, errs.ErrLoanNotFound
		}
		return model.Loan{}, err
	}
	return loan, nil
}

func (r *repository) List(ctx context.Context) ([]model.Loan, error) {
	q := loanSelect + `
order by l.id`

	loans := make([]model.Loan, 0)
	if err := r.db.SelectContext(ctx, &loans, q); err != nil {
		return nil, err
	}
	return loans, nil
}

func (r *repository) ListByPerson(ctx context.Context, personID int) ([]model.Loan, error) {
	q := loanSelect + `
where l.person_id = $1
order by l.id`

	loans := make([]model.Loan, 0)
	if err := r.db.SelectContext(ctx, &loans, q, personID); err != nil {
		return nil, err
	}
	return loans, nil
}

// MostBorrowed groups loans by the referenced book's display name with a
// sentinel for deleted books; ties are broken by name so the order is
// deterministic.
func (r *repository) MostBorrowed(ctx context.Context) ([]model.BookUsage, error) {
	q := `
select coalesce(b.name, 'Deleted Book') as name, count(*) as count
from loans l
left join books b on b.id = l.book_id
group by coalesce(b.name, 'Deleted Book')
order by count desc, name asc`

	usage := make([]model.BookUsage, 0)
	if err := r.db.SelectContext(ctx, &usage, q); err != nil {
		return nil, err
	}
	return usage, nil
}

func (r *repository) ActiveLoanCount(ctx context.Context, bookID int) (int, error) {
	q := `
	select count(*) from loans
	where book_id = $1 and return_date is null
`
	var count int
	if err := r.db.QueryRowContext(ctx, q, bookID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

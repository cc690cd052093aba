package repository

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/lending-service/internal/errs"
	"github.com/Astemirdum/lending-service/internal/model"
)

// availableExpr derives availability from the ledger on every read; the
// catalog never stores the count.
const availableExpr = `b.quantity - (select count(*) from loans l where l.book_id = b.id and l.return_date is null) as available`

var bookColumns = []string{
	"b.id", "b.name", "b.author", "b.isbn", "b.category_id",
	"coalesce(c.name, 'Uncategorized') as category_name",
	"b.acquired_at", "b.image_url", "b.quantity",
	availableExpr,
}

func (r *repository) CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error) {
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	q, args, err := qb.Insert(booksTableName).
		Columns("name", "author", "isbn", "category_id", "acquired_at", "image_url", "quantity").
		Values(req.Name, req.Author, req.ISBN, req.CategoryID, req.AcquiredAt, req.ImageURL, quantity).
		Suffix("returning id").
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	var id int
	if err := r.db.GetContext(ctx, &id, q, args...); err != nil {
		r.log.Error("CreateBook", zap.String("q", q), zap.Any("args", args))
		return model.Book{}, constraintErr(err, errs.ErrCategoryNotFound, errs.ErrBookExists)
	}
	return r.GetBook(ctx, id)
}

func (r *repository) GetBook(ctx context.Context, id int) (model.Book, error) {
	query, args, err := qb.Select(bookColumns...).
		From(booksTableName + " b").
		LeftJoin(fmt.Sprintf("%s c on c.id = b.category_id", categoriesTableName)).
		Where(sq.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var book model.Book
	if err := r.db.GetContext(ctx, &book, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errs.ErrBookNotFound
		}
		return model.Book{}, err
	}
	return book, nil
}

func (r *repository) ListBooks(ctx context.Context, search string) ([]model.Book, error) {
	q := qb.Select(bookColumns...).
		From(booksTableName + " b").
		LeftJoin(fmt.Sprintf("%s c on c.id = b.category_id", categoriesTableName))

	if search != "" {
		pattern := "%" + search + "%"
		q = q.Where(sq.Or{
			sq.ILike{"b.name": pattern},
			sq.ILike{"b.author": pattern},
			sq.ILike{"c.name": pattern},
		})
	}

	query, args, err := q.OrderBy("b.id").ToSql()
	if err != nil {
		return nil, err
	}
	r.log.Debug("ListBooks", zap.String("query", query), zap.Any("args", args))

	books := make([]model.Book, 0)
	if err := r.db.SelectContext(ctx, &books, query, args...); err != nil {
		return nil, err
	}
	return books, nil
}

func (r *repository) UpdateBook(ctx context.Context, id int, req model.UpdateBookRequest) (model.Book, error) {
	set := make(map[string]interface{})
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Author != nil {
		set["author"] = *req.Author
	}
	if req.ISBN != nil {
		set["isbn"] = *req.ISBN
	}
	if req.CategoryID != nil {
		set["category_id"] = *req.CategoryID
	}
	if req.AcquiredAt != nil {
		set["acquired_at"] = *req.AcquiredAt
	}
	if req.ImageURL != nil {
		set["image_url"] = *req.ImageURL
	}
	if req.Quantity != nil {
		set["quantity"] = *req.Quantity
	}
	if len(set) == 0 {
		return r.GetBook(ctx, id)
	}

	q, args, err := qb.Update(booksTableName).
		SetMap(set).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return model.Book{}, constraintErr(err, errs.ErrCategoryNotFound, errs.ErrBookExists)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.Book{}, err
	}
	if n == 0 {
		return model.Book{}, errs.ErrBookNotFound
	}
	return r.GetBook(ctx, id)
}

// DeleteBook removes the catalog entry only; loans referencing the book
// stay in the ledger and render the deleted-book sentinel.
func (r *repository) DeleteBook(ctx context.Context, id int) error {
	q, args, err := qb.Delete(booksTableName).
		Where(sq.Eq{"id": id}).
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
		return errs.ErrBookNotFound
	}
	return nil
}

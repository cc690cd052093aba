package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"

	"github.com/Astemirdum/lending-service/internal/errs"
	"github.com/Astemirdum/lending-service/internal/model"
)

func (r *repository) ListCategories(ctx context.Context) ([]model.Category, error) {
	q, args, err := qb.Select("id", "name").
		From(categoriesTableName).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}

	categories := make([]model.Category, 0)
	if err := r.db.SelectContext(ctx, &categories, q, args...); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *repository) CreateCategory(ctx context.Context, name string) (model.Category, error) {
	q, args, err := qb.Insert(categoriesTableName).
		Columns("name").
		Values(name).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Category{}, err
	}
	var category model.Category
	if err := r.db.GetContext(ctx, &category, q, args...); err != nil {
		r.log.Error("CreateCategory", zap.String("q", q), zap.Any("args", args))
		return model.Category{}, constraintErr(err, nil, errs.ErrCategoryExists)
	}
	return category, nil
}

// DeleteCategory is refused while books still reference the category;
// the restricting foreign key surfaces as ErrCategoryInUse.
func (r *repository) DeleteCategory(ctx context.Context, id int) error {
	q, args, err := qb.Delete(categoriesTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return constraintErr(err, errs.ErrCategoryInUse, nil)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errs.ErrCategoryNotFound
	}
	return nil
}

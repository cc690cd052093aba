package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/lending-service/internal/errs"
	"github.com/Astemirdum/lending-service/internal/model"
)

const recommendationSelect = `
select r.id, r.book_id, b.name as book_name, b.author, b.image_url, r.start_date, r.end_date
from recommendations r
join books b on b.id = r.book_id`

// ListRecommendations returns the picks whose window covers today.
func (r *repository) ListRecommendations(ctx context.Context) ([]model.Recommendation, error) {
	q := recommendationSelect + `
where r.start_date <= current_date and r.end_date >= current_date
order by r.id`

	items := make([]model.Recommendation, 0)
	if err := r.db.SelectContext(ctx, &items, q); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) CreateRecommendation(ctx context.Context, req model.CreateRecommendationRequest) (model.Recommendation, error) {
	q, args, err := qb.Insert(recommendationsTableName).
		Columns("book_id", "start_date", "end_date").
		Values(req.BookID, req.StartDate, req.EndDate).
		Suffix("returning id").
		ToSql()
	if err != nil {
		return model.Recommendation{}, err
	}
	var id int
	if err := r.db.GetContext(ctx, &id, q, args...); err != nil {
		r.log.Error("CreateRecommendation", zap.String("q", q), zap.Any("args", args))
		return model.Recommendation{}, constraintErr(err, errs.ErrBookNotFound, nil)
	}

	var item model.Recommendation
	if err := r.db.GetContext(ctx, &item, recommendationSelect+`
where r.id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Recommendation{}, errs.ErrRecommendationNotFound
		}
		return model.Recommendation{}, err
	}
	return item, nil
}

func (r *repository) DeleteRecommendation(ctx context.Context, id int) error {
	q, args, err := qb.Delete(recommendationsTableName).
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
		return errs.ErrRecommendationNotFound
	}
	return nil
}

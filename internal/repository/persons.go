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

var personColumns = []string{"id", "document", "name", "age", "email", "phone", "kind", "position"}

func (r *repository) CreatePerson(ctx context.Context, req model.CreatePersonRequest) (model.Person, error) {
	q, args, err := qb.Insert(personsTableName).
		Columns("document", "name", "age", "email", "phone", "kind", "position").
		Values(req.Document, req.Name, req.Age, req.Email, req.Phone, req.Kind, req.Position).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Person{}, err
	}
	var person model.Person
	if err := r.db.GetContext(ctx, &person, q, args...); err != nil {
		r.log.Error("CreatePerson", zap.String("q", q), zap.Any("args", args))
		return model.Person{}, constraintErr(err, nil, errs.ErrPersonExists)
	}
	return person, nil
}

func (r *repository) GetPerson(ctx context.Context, id int) (model.Person, error) {
	q, args, err := qb.Select(personColumns...).
		From(personsTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Person{}, err
	}

	var person model.Person
	if err := r.db.GetContext(ctx, &person, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Person{}, errs.ErrPersonNotFound
		}
		return model.Person{}, err
	}
	return person, nil
}

func (r *repository) ListPersons(ctx context.Context) ([]model.Person, error) {
	q, args, err := qb.Select(personColumns...).
		From(personsTableName).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}

	persons := make([]model.Person, 0)
	if err := r.db.SelectContext(ctx, &persons, q, args...); err != nil {
		return nil, err
	}
	return persons, nil
}

func (r *repository) UpdatePerson(ctx context.Context, id int, req model.UpdatePersonRequest) (model.Person, error) {
	set := make(map[string]interface{})
	if req.Document != nil {
		set["document"] = *req.Document
	}
	if req.Name != nil {
		set["name"] = *req.Name
	}
	if req.Age != nil {
		set["age"] = *req.Age
	}
	if req.Email != nil {
		set["email"] = *req.Email
	}
	if req.Phone != nil {
		set["phone"] = *req.Phone
	}
	if req.Kind != nil {
		set["kind"] = *req.Kind
	}
	if req.Position != nil {
		set["position"] = *req.Position
	}
	// position belongs to staff only
	if req.Kind != nil && *req.Kind != model.KindStaff {
		set["position"] = nil
	}
	if len(set) == 0 {
		return r.GetPerson(ctx, id)
	}

	q, args, err := qb.Update(personsTableName).
		SetMap(set).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Person{}, err
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return model.Person{}, constraintErr(err, nil, errs.ErrPersonExists)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.Person{}, err
	}
	if n == 0 {
		return model.Person{}, errs.ErrPersonNotFound
	}
	return r.GetPerson(ctx, id)
}

// DeletePerson also drops the person's loans through the cascading
// foreign key, as the registration flow expects.
func (r *repository) DeletePerson(ctx context.Context, id int) error {
	q, args, err := qb.Delete(personsTableName).
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
		return errs.ErrPersonNotFound
	}
	return nil
}

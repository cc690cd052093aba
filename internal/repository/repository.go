package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/lending-service/internal/model"
)

//go:generate go run github.com/golang/mock/mockgen -destination=mocks/mock.go github.com/Astemirdum/lending-service/internal/repository Repository

type LoanRepository interface {
	Checkout(ctx context.Context, req model.CheckoutRequest) (model.Loan, error)
	Return(ctx context.Context, loanUid string) (model.Loan, error)
	Delete(ctx context.Context, loanUid string) error
	Get(ctx context.Context, loanUid string) (model.Loan, error)
	List(ctx context.Context) ([]model.Loan, error)
	ListByPerson(ctx context.Context, personID int) ([]model.Loan, error)
	MostBorrowed(ctx context.Context) ([]model.BookUsage, error)
	ActiveLoanCount(ctx context.Context, bookID int) (int, error)
}

type BookRepository interface {
	CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error)
	GetBook(ctx context.Context, id int) (model.Book, error)
	ListBooks(ctx context.Context, search string) ([]model.Book, error)
	UpdateBook(ctx context.Context, id int, req model.UpdateBookRequest) (model.Book, error)
	DeleteBook(ctx context.Context, id int) error
}

type PersonRepository interface {
	CreatePerson(ctx context.Context, req model.CreatePersonRequest) (model.Person, error)
	GetPerson(ctx context.Context, id int) (model.Person, error)
	ListPersons(ctx context.Context) ([]model.Person, error)
	UpdatePerson(ctx context.Context, id int, req model.UpdatePersonRequest) (model.Person, error)
	DeletePerson(ctx context.Context, id int) error
}

type CategoryRepository interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	CreateCategory(ctx context.Context, name string) (model.Category, error)
	DeleteCategory(ctx context.Context, id int) error
}

type RecommendationRepository interface {
	ListRecommendations(ctx context.Context) ([]model.Recommendation, error)
	CreateRecommendation(ctx context.Context, req model.CreateRecommendationRequest) (model.Recommendation, error)
	DeleteRecommendation(ctx context.Context, id int) error
}

type Repository interface {
	LoanRepository
	BookRepository
	PersonRepository
	CategoryRepository
	RecommendationRepository
}

type repository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewRepository(db *sqlx.DB, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	loansTableName           = `loans`
	booksTableName           = `books`
	personsTableName         = `persons`
	categoriesTableName      = `categories`
	recommendationsTableName = `recommendations`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// constraintErr translates postgres constraint violations into the
// matching sentinel, leaving every other error as is.
func constraintErr(err error, onFK, onUnique error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.ForeignKeyViolation:
			if onFK != nil {
				return onFK
			}
		case pgerrcode.UniqueViolation:
			if onUnique != nil {
				return onUnique
			}
		}
	}
	return err
}

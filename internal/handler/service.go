package handler

import (
	"context"

	"github.com/Astemirdum/lending-service/internal/model"
	"github.com/Astemirdum/lending-service/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type LendingService interface {
	Checkout(ctx context.Context, req model.CheckoutRequest) (model.Loan, error)
	Return(ctx context.Context, loanUid string) (model.Loan, error)
	Delete(ctx context.Context, loanUid string) error
	Get(ctx context.Context, loanUid string) (model.Loan, error)
	List(ctx context.Context) ([]model.Loan, error)
	ListByPerson(ctx context.Context, personID int) ([]model.Loan, error)
	Availability(ctx context.Context, bookID int) (model.Availability, error)
	Report(ctx context.Context) (model.Report, error)
}

type CatalogService interface {
	CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error)
	GetBook(ctx context.Context, id int) (model.Book, error)
	ListBooks(ctx context.Context, search string) ([]model.Book, error)
	UpdateBook(ctx context.Context, id int, req model.UpdateBookRequest) (model.Book, error)
	DeleteBook(ctx context.Context, id int) error
	ListCategories(ctx context.Context) ([]model.Category, error)
	CreateCategory(ctx context.Context, name string) (model.Category, error)
	DeleteCategory(ctx context.Context, id int) error
}

type RegistryService interface {
	CreatePerson(ctx context.Context, req model.CreatePersonRequest) (model.Person, error)
	GetPerson(ctx context.Context, id int) (model.Person, error)
	ListPersons(ctx context.Context) ([]model.Person, error)
	UpdatePerson(ctx context.Context, id int, req model.UpdatePersonRequest) (model.Person, error)
	DeletePerson(ctx context.Context, id int) error
}

type CurationService interface {
	ListRecommendations(ctx context.Context) ([]model.Recommendation, error)
	CreateRecommendation(ctx context.Context, req model.CreateRecommendationRequest) (model.Recommendation, error)
	DeleteRecommendation(ctx context.Context, id int) error
}

var (
	_ LendingService  = (*service.Service)(nil)
	_ CatalogService  = (*service.Service)(nil)
	_ RegistryService = (*service.Service)(nil)
	_ CurationService = (*service.Service)(nil)
)

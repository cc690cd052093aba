package service

import (
	"context"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/Astemirdum/lending-service/internal/model"
	"github.com/Astemirdum/lending-service/internal/repository"
)

type Service struct {
	log      *zap.Logger
	repo     repository.Repository
	producer sarama.SyncProducer
}

// NewService wires the repositories and an optional event producer;
// producer may be nil when no broker is configured.
func NewService(repo repository.Repository, producer sarama.SyncProducer, log *zap.Logger) *Service {
	return &Service{
		log:      log,
		repo:     repo,
		producer: producer,
	}
}

func (s *Service) CreateBook(ctx context.Context, req model.CreateBookRequest) (model.Book, error) {
	return s.repo.CreateBook(ctx, req)
}

func (s *Service) GetBook(ctx context.Context, id int) (model.Book, error) {
	return s.repo.GetBook(ctx, id)
}

func (s *Service) ListBooks(ctx context.Context, search string) ([]model.Book, error) {
	return s.repo.ListBooks(ctx, search)
}

func (s *Service) UpdateBook(ctx context.Context, id int, req model.UpdateBookRequest) (model.Book, error) {
	return s.repo.UpdateBook(ctx, id, req)
}

func (s *Service) DeleteBook(ctx context.Context, id int) error {
	return s.repo.DeleteBook(ctx, id)
}

func (s *Service) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) CreateCategory(ctx context.Context, name string) (model.Category, error) {
	return s.repo.CreateCategory(ctx, name)
}

func (s *Service) DeleteCategory(ctx context.Context, id int) error {
	return s.repo.DeleteCategory(ctx, id)
}

func (s *Service) CreatePerson(ctx context.Context, req model.CreatePersonRequest) (model.Person, error) {
	return s.repo.CreatePerson(ctx, req)
}

func (s *Service) GetPerson(ctx context.Context, id int) (model.Person, error) {
	return s.repo.GetPerson(ctx, id)
}

func (s *Service) ListPersons(ctx context.Context) ([]model.Person, error) {
	return s.repo.ListPersons(ctx)
}

func (s *Service) UpdatePerson(ctx context.Context, id int, req model.UpdatePersonRequest) (model.Person, error) {
	return s.repo.UpdatePerson(ctx, id, req)
}

func (s *Service) DeletePerson(ctx context.Context, id int) error {
	return s.repo.DeletePerson(ctx, id)
}

func (s *Service) ListRecommendations(ctx context.Context) ([]model.Recommendation, error) {
	return s.repo.ListRecommendations(ctx)
}

func (s *Service) CreateRecommendation(ctx context.Context, req model.CreateRecommendationRequest) (model.Recommendation, error) {
	return s.repo.CreateRecommendation(ctx, req)
}

func (s *Service) DeleteRecommendation(ctx context.Context, id int) error {
	return s.repo.DeleteRecommendation(ctx, id)
}

package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Astemirdum/lending-service/internal/model"
	"github.com/Astemirdum/lending-service/pkg/kafka"
)

// Checkout admits a loan if the book still has a free copy. The date
// defaults to today; caller-supplied dates are taken as given.
func (s *Service) Checkout(ctx context.Context, req model.CheckoutRequest) (model.Loan, error) {
	if req.CheckoutDate.IsZero() {
		req.CheckoutDate = model.NewDate(today())
	}
	loan, err := s.repo.Checkout(ctx, req)
	if err != nil {
		return model.Loan{}, err
	}
	s.publishLoanEvent(kafka.EventCheckout, loan)
	return loan, nil
}

func (s *Service) Return(ctx context.Context, loanUid string) (model.Loan, error) {
	loan, err := s.repo.Return(ctx, loanUid)
	if err != nil {
		return model.Loan{}, err
	}
	s.publishLoanEvent(kafka.EventReturn, loan)
	return loan, nil
}

func (s *Service) Delete(ctx context.Context, loanUid string) error {
	loan, err := s.repo.Get(ctx, loanUid)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, loanUid); err != nil {
		return err
	}
	s.publishLoanEvent(kafka.EventDelete, loan)
	return nil
}

func (s *Service) Get(ctx context.Context, loanUid string) (model.Loan, error) {
	return s.repo.Get(ctx, loanUid)
}

func (s *Service) List(ctx context.Context) ([]model.Loan, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListByPerson(ctx context.Context, personID int) ([]model.Loan, error) {
	return s.repo.ListByPerson(ctx, personID)
}

// Availability derives the loanable count from total stock and the
// ledger. No clamping: a negative value signals corrupted data and is
// passed through for the caller to notice.
func (s *Service) Availability(ctx context.Context, bookID int) (model.Availability, error) {
	book, err := s.repo.GetBook(ctx, bookID)
	if err != nil {
		return model.Availability{}, err
	}
	active, err := s.repo.ActiveLoanCount(ctx, bookID)
	if err != nil {
		return model.Availability{}, err
	}
	return model.Availability{
		BookID:    bookID,
		Total:     book.Quantity,
		Available: book.Quantity - active,
	}, nil
}

// Report recomputes the summary from the full loan set on every call.
func (s *Service) Report(ctx context.Context) (model.Report, error) {
	var (
		loans []model.Loan
		usage []model.BookUsage
	)
	gg, ctx := errgroup.WithContext(ctx)
	gg.Go(func() error {
		var err error
		loans, err = s.repo.List(ctx)
		return err
	})
	gg.Go(func() error {
		var err error
		usage, err = s.repo.MostBorrowed(ctx)
		return err
	})
	if err := gg.Wait(); err != nil {
		return model.Report{}, err
	}

	report := model.Report{MostBorrowed: usage}
	now := today()
	for _, loan := range loans {
		report.TotalLoans++
		if loan.ReturnDate == nil {
			report.Active++
			if loan.Overdue(now) {
				report.Overdue++
			}
		}
	}
	report.Returned = report.TotalLoans - report.Active
	return report, nil
}

func today() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}

func (s *Service) publishLoanEvent(eventType kafka.EventType, loan model.Loan) {
	if s.producer == nil {
		return
	}
	event := kafka.LoanEvent{
		Timestamp: time.Now().UTC(),
		LoanUid:   loan.LoanUid,
		PersonID:  loan.PersonID,
		BookID:    loan.BookID,
		EventType: eventType,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.log.Error("marshal loan event", zap.Error(err))
		return
	}
	// delivery is best effort: the ledger mutation is already committed
	if _, _, err := s.producer.SendMessage(&sarama.ProducerMessage{
		Topic: kafka.LoanTopic,
		Value: sarama.ByteEncoder(payload),
	}); err != nil {
		s.log.Error("publish loan event", zap.Error(err))
	}
}

package model

import (
	"time"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusReturned Status = "returned"
)

// LoanPeriodDays is the grace period before an active loan counts as overdue.
const LoanPeriodDays = 7

type Loan struct {
	ID           int    `json:"-" db:"id"`
	LoanUid      string `json:"id" db:"loan_uid"`
	PersonID     int    `json:"personId" db:"person_id"`
	PersonName   string `json:"personName" db:"person_name"`
	BookID       int    `json:"bookId" db:"book_id"`
	BookName     string `json:"bookName" db:"book_name"`
	CheckoutDate Date   `json:"checkoutDate" db:"checkout_date"`
	ReturnDate   *Date  `json:"returnDate" db:"return_date"`
	Status       Status `json:"status" db:"status"`
}

// Overdue reports whether the loan is active and past its grace period.
// today must be truncated to a calendar date.
func (l Loan) Overdue(today time.Time) bool {
	return l.ReturnDate == nil && today.After(l.CheckoutDate.AddDate(0, 0, LoanPeriodDays))
}

type CheckoutRequest struct {
	PersonID     int  `json:"personId" validate:"required"`
	BookID       int  `json:"bookId" validate:"required"`
	CheckoutDate Date `json:"checkoutDate"`
}

type BookUsage struct {
	Name  string `json:"name" db:"name"`
	Count int    `json:"count" db:"count"`
}

type Report struct {
	TotalLoans   int         `json:"totalLoans"`
	Active       int         `json:"active"`
	Returned     int         `json:"returned"`
	Overdue      int         `json:"overdue"`
	MostBorrowed []BookUsage `json:"mostBorrowed"`
}

type Availability struct {
	BookID    int `json:"bookId"`
	Total     int `json:"total"`
	Available int `json:"available"`
}

type Book struct {
	ID           int     `json:"id" db:"id"`
	Name         string  `json:"name" db:"name"`
	Author       string  `json:"author" db:"author"`
	ISBN         string  `json:"isbn" db:"isbn"`
	CategoryID   int     `json:"categoryId" db:"category_id"`
	CategoryName string  `json:"categoryName" db:"category_name"`
	AcquiredAt   Date    `json:"acquiredAt" db:"acquired_at"`
	ImageURL     *string `json:"imageUrl" db:"image_url"`
	Quantity     int     `json:"quantity" db:"quantity"`
	Available    int     `json:"available" db:"available"`
}

type CreateBookRequest struct {
	Name       string  `json:"name" validate:"required"`
	Author     string  `json:"author" validate:"required"`
	ISBN       string  `json:"isbn" validate:"required"`
	CategoryID int     `json:"categoryId" validate:"required"`
	AcquiredAt Date    `json:"acquiredAt" validate:"required"`
	ImageURL   *string `json:"imageUrl"`
	Quantity   *int    `json:"quantity" validate:"omitempty,gte=0"`
}

type UpdateBookRequest struct {
	Name       *string `json:"name"`
	Author     *string `json:"author"`
	ISBN       *string `json:"isbn"`
	CategoryID *int    `json:"categoryId"`
	AcquiredAt *Date   `json:"acquiredAt"`
	ImageURL   *string `json:"imageUrl"`
	Quantity   *int    `json:"quantity" validate:"omitempty,gte=0"`
}

type Kind string

const (
	KindClient    Kind = "client"
	KindProfessor Kind = "professor"
	KindStaff     Kind = "staff"
)

// Person is a single entity for every borrower variant; Kind tags the
// role and Position is only set for staff.
type Person struct {
	ID       int     `json:"id" db:"id"`
	Document string  `json:"document" db:"document"`
	Name     string  `json:"name" db:"name"`
	Age      int     `json:"age" db:"age"`
	Email    string  `json:"email" db:"email"`
	Phone    string  `json:"phone" db:"phone"`
	Kind     Kind    `json:"kind" db:"kind"`
	Position *string `json:"position,omitempty" db:"position"`
}

type CreatePersonRequest struct {
	Document string  `json:"document" validate:"required,len=11,numeric"`
	Name     string  `json:"name" validate:"required"`
	Age      int     `json:"age" validate:"required,gte=0"`
	Email    string  `json:"email" validate:"required,email"`
	Phone    string  `json:"phone" validate:"required"`
	Kind     Kind    `json:"kind" validate:"required,oneof=client professor staff"`
	Position *string `json:"position"`
}

type UpdatePersonRequest struct {
	Document *string `json:"document" validate:"omitempty,len=11,numeric"`
	Name     *string `json:"name"`
	Age      *int    `json:"age" validate:"omitempty,gte=0"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone"`
	Kind     *Kind   `json:"kind" validate:"omitempty,oneof=client professor staff"`
	Position *string `json:"position"`
}

type Category struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

type Recommendation struct {
	ID        int     `json:"id" db:"id"`
	BookID    int     `json:"bookId" db:"book_id"`
	BookName  string  `json:"bookName" db:"book_name"`
	Author    string  `json:"author" db:"author"`
	ImageURL  *string `json:"imageUrl" db:"image_url"`
	StartDate Date    `json:"startDate" db:"start_date"`
	EndDate   Date    `json:"endDate" db:"end_date"`
}

type CreateRecommendationRequest struct {
	BookID    int  `json:"bookId" validate:"required"`
	StartDate Date `json:"startDate" validate:"required"`
	EndDate   Date `json:"endDate" validate:"required"`
}

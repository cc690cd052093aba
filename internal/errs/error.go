package errs

import (
	"errors"
)

var (
	ErrPersonNotFound = errors.New("person not found")
	ErrBookNotFound   = errors.New("book not found")
	ErrLoanNotFound   = errors.New("loan not found")

	ErrAlreadyReturned  = errors.New("loan already returned")
	ErrCapacityExceeded = errors.New("all copies are checked out")

	ErrCategoryNotFound       = errors.New("category not found")
	ErrCategoryExists         = errors.New("category already exists")
	ErrCategoryInUse          = errors.New("category has books")
	ErrBookExists             = errors.New("book isbn already exists")
	ErrPersonExists           = errors.New("person document or email already exists")
	ErrRecommendationNotFound = errors.New("recommendation not found")
)

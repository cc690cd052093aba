package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/lending-service/internal/errs"
	"github.com/Astemirdum/lending-service/internal/handler"
	"github.com/Astemirdum/lending-service/internal/model"
	"github.com/Astemirdum/lending-service/pkg/validate"

	service_mocks "github.com/Astemirdum/lending-service/internal/handler/mocks"
)

func newBooksTestRouter(h *handler.Handler) *echo.Echo {
	e := echo.New()
	e.Validator = validate.NewCustomValidator()
	e.POST("/books", h.CreateBook)
	e.GET("/books", h.ListBooks)
	e.GET("/books/:id", h.GetBook)
	e.GET("/books/:id/availability", h.BookAvailability)
	return e
}

func TestHandler_GetBook(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockCatalogService)

	var tests = []struct {
		name         string
		bookID       string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name:   "ok",
			bookID: "1",
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().
					GetBook(context.Background(), 1).
					Return(model.Book{
						ID:           1,
						Name:         "The Go Programming Language",
						Author:       "Alan Donovan",
						ISBN:         "9780134190440",
						CategoryID:   1,
						CategoryName: "Programming",
						AcquiredAt:   mustDate(t, "2023-01-15"),
						Quantity:     3,
						Available:    2,
					}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"id":1,"name":"The Go Programming Language","author":"Alan Donovan","isbn":"9780134190440","categoryId":1,"categoryName":"Programming","acquiredAt":"2023-01-15","imageUrl":null,"quantity":3,"available":2}`,
			},
		},
		{
			name:   "err. not found",
			bookID: "42",
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().
					GetBook(context.Background(), 42).
					Return(model.Book{}, errs.ErrBookNotFound)
			},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"book not found"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockCatalogService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(nil, svc, nil, nil, log)

			e := newBooksTestRouter(h)

			r := httptest.NewRequest(http.MethodGet, "/books/"+tt.bookID, http.NoBody)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_CreateBook(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockCatalogService)

	quantity := 2

	var tests = []struct {
		name         string
		requestBody  string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name:        "ok",
			requestBody: `{"name":"Clean Code","author":"Robert Martin","isbn":"9780132350884","categoryId":1,"acquiredAt":"2023-06-10","quantity":2}`,
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().
					CreateBook(context.Background(), model.CreateBookRequest{
						Name:       "Clean Code",
						Author:     "Robert Martin",
						ISBN:       "9780132350884",
						CategoryID: 1,
						AcquiredAt: mustDate(t, "2023-06-10"),
						Quantity:   &quantity,
					}).
					Return(model.Book{
						ID:           2,
						Name:         "Clean Code",
						Author:       "Robert Martin",
						ISBN:         "9780132350884",
						CategoryID:   1,
						CategoryName: "Programming",
						AcquiredAt:   mustDate(t, "2023-06-10"),
						Quantity:     2,
						Available:    2,
					}, nil)
			},
			response: response{
				expectedCode: http.StatusCreated,
				expectedBody: `{"id":2,"name":"Clean Code","author":"Robert Martin","isbn":"9780132350884","categoryId":1,"categoryName":"Programming","acquiredAt":"2023-06-10","imageUrl":null,"quantity":2,"available":2}`,
			},
		},
		{
			name:        "err. unknown category",
			requestBody: `{"name":"Clean Code","author":"Robert Martin","isbn":"9780132350884","categoryId":99,"acquiredAt":"2023-06-10"}`,
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().
					CreateBook(context.Background(), model.CreateBookRequest{
						Name:       "Clean Code",
						Author:     "Robert Martin",
						ISBN:       "9780132350884",
						CategoryID: 99,
						AcquiredAt: mustDate(t, "2023-06-10"),
					}).
					Return(model.Book{}, errs.ErrCategoryNotFound)
			},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"category not found"}`,
			},
		},
		{
			name:        "err. duplicate isbn",
			requestBody: `{"name":"Clean Code","author":"Robert Martin","isbn":"9780132350884","categoryId":1,"acquiredAt":"2023-06-10"}`,
			mockBehavior: func(r *service_mocks.MockCatalogService) {
				r.EXPECT().
					CreateBook(context.Background(), model.CreateBookRequest{
						Name:       "Clean Code",
						Author:     "Robert Martin",
						ISBN:       "9780132350884",
						CategoryID: 1,
						AcquiredAt: mustDate(t, "2023-06-10"),
					}).
					Return(model.Book{}, errs.ErrBookExists)
			},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"message":"book isbn already exists"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockCatalogService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(nil, svc, nil, nil, log)

			e := newBooksTestRouter(h)

			r := httptest.NewRequest(http.MethodPost, "/books", strings.NewReader(tt.requestBody))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_BookAvailability(t *testing.T) {
	t.Parallel()
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockLendingService)

	var tests = []struct {
		name         string
		bookID       string
		mockBehavior mockBehavior
		response     response
	}{
		{
			name:   "ok",
			bookID: "1",
			mockBehavior: func(r *service_mocks.MockLendingService) {
				r.EXPECT().
					Availability(context.Background(), 1).
					Return(model.Availability{BookID: 1, Total: 3, Available: 1}, nil)
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"bookId":1,"total":3,"available":1}`,
			},
		},
		{
			name:   "err. not found",
			bookID: "42",
			mockBehavior: func(r *service_mocks.MockLendingService) {
				r.EXPECT().
					Availability(context.Background(), 42).
					Return(model.Availability{}, errs.ErrBookNotFound)
			},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"book not found"}`,
			},
		},
		{
			name:         "err. invalid id",
			bookID:       "abc",
			mockBehavior: func(r *service_mocks.MockLendingService) {},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"id is invalid"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockLendingService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(svc, nil, nil, nil, log)

			e := newBooksTestRouter(h)

			r := httptest.NewRequest(http.MethodGet, "/books/"+tt.bookID+"/availability", http.NoBody)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Astemirdum/lending-service/internal/errs"
	"github.com/Astemirdum/lending-service/internal/model"
)

func (h *Handler) Checkout(c echo.Context) error {
	var req model.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	loan, err := h.lendingSvc.Checkout(c.Request().Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrPersonNotFound), errors.Is(err, errs.ErrBookNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, errs.ErrCapacityExceeded):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, loan)
}

func (h *Handler) ReturnLoan(c echo.Context) error {
	// a malformed uid can never name a loan
	loanUid := c.Param("loanUid")
	if _, err := uuid.Parse(loanUid); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, errs.ErrLoanNotFound.Error())
	}

	loan, err := h.lendingSvc.Return(c.Request().Context(), loanUid)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrLoanNotFound):
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		case errors.Is(err, errs.ErrAlreadyReturned):
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, loan)
}

func (h *Handler) DeleteLoan(c echo.Context) error {
	loanUid := c.Param("loanUid")
	if _, err := uuid.Parse(loanUid); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, errs.ErrLoanNotFound.Error())
	}

	if err := h.lendingSvc.Delete(c.Request().Context(), loanUid); err != nil {
		if errors.Is(err, errs.ErrLoanNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) GetLoan(c echo.Context) error {
	loanUid := c.Param("loanUid")
	if _, err := uuid.Parse(loanUid); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, errs.ErrLoanNotFound.Error())
	}

	loan, err := h.lendingSvc.Get(c.Request().Context(), loanUid)
	if err != nil {
		if errors.Is(err, errs.ErrLoanNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, loan)
}

func (h *Handler) ListLoans(c echo.Context) error {
	loans, err := h.lendingSvc.List(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, loans)
}

// ListPersonLoans answers an empty list for an unresolvable person id
// rather than an error.
func (h *Handler) ListPersonLoans(c echo.Context) error {
	personID, err := strconv.Atoi(c.Param("id"))
	if err != nil || personID <= 0 {
		return c.JSON(http.StatusOK, []model.Loan{})
	}

	loans, err := h.lendingSvc.ListByPerson(c.Request().Context(), personID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, loans)
}

func (h *Handler) Report(c echo.Context) error {
	report, err := h.lendingSvc.Report(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, report)
}

func (h *Handler) BookAvailability(c echo.Context) error {
	bookID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "id is invalid")
	}

	availability, err := h.lendingSvc.Availability(c.Request().Context(), bookID)
	if err != nil {
		if errors.Is(err, errs.ErrBookNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, availability)
}

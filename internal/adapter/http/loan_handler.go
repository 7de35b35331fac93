package http

import (
	"context"
	"net/http"
	"strconv"

	"loan-registry/internal/adapter/middleware"
	"loan-registry/internal/usecase/loan"
	"loan-registry/internal/usecase/query"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type LoanHandler struct {
	registry *loan.Usecase
	query    *query.Facade
}

func NewLoanHandler(registry *loan.Usecase, q *query.Facade) *LoanHandler {
	return &LoanHandler{registry: registry, query: q}
}

type createLoanReq struct {
	CollateralAsset  string          `json:"collateral_asset"  validate:"required,asset"`
	CollateralAmount decimal.Decimal `json:"collateral_amount" validate:"dpos"`
	LoanAsset        string          `json:"loan_asset"        validate:"required,asset"`
	LoanAmount       decimal.Decimal `json:"loan_amount"       validate:"dpos"`
	DurationDays     int             `json:"duration_days"     validate:"gte=1,lte=36500"`
}

type listLoansReq struct {
	Borrower string `query:"borrower" validate:"omitempty,account"`
	Lender   string `query:"lender"   validate:"omitempty,account"`
	Status   string `query:"status"`
	Limit    int    `query:"limit"    validate:"gte=0"`
	Offset   int    `query:"offset"   validate:"gte=0"`
}

type txJournalReq struct {
	TxID string `param:"tx_id" validate:"required,len=32,hexadecimal"`
}

type countResp struct {
	Count uint64 `json:"count"`
}

// CreateLoan registers a loan for the calling account as borrower.
func (h *LoanHandler) CreateLoan(c echo.Context) error {
	borrower := middleware.AccountFrom(c)
	if borrower == "" {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing caller identity"})
	}
	var req createLoanReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	dto, err := h.registry.Create(c.Request().Context(), loan.CreateLoanInput{
		Borrower:         borrower,
		CollateralAsset:  req.CollateralAsset,
		CollateralAmount: req.CollateralAmount,
		LoanAsset:        req.LoanAsset,
		LoanAmount:       req.LoanAmount,
		DurationDays:     req.DurationDays,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

// FundLoan funds a created loan with the calling account as lender.
func (h *LoanHandler) FundLoan(c echo.Context) error {
	lender := middleware.AccountFrom(c)
	if lender == "" {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing caller identity"})
	}
	id, ok := loanIDParam(c)
	if !ok {
		return badRequest(c, "invalid loan_id path param")
	}
	dto, err := h.registry.Fund(c.Request().Context(), loan.FundLoanInput{LoanID: id, Lender: lender})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) RepayLoan(c echo.Context) error {
	return h.lifecycle(c, h.registry.Repay)
}

func (h *LoanHandler) ExpireLoan(c echo.Context) error {
	return h.lifecycle(c, h.registry.Expire)
}

func (h *LoanHandler) CancelLoan(c echo.Context) error {
	return h.lifecycle(c, h.registry.Cancel)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	id, ok := loanIDParam(c)
	if !ok {
		return badRequest(c, "invalid loan_id path param")
	}
	dto, err := h.query.GetLoan(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) CountLoans(c echo.Context) error {
	n, err := h.query.LoanCount(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, countResp{Count: n})
}

func (h *LoanHandler) ListLoans(c echo.Context) error {
	var req listLoansReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid query")
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	list, err := h.query.ListLoans(c.Request().Context(), query.ListFilter{
		Borrower: req.Borrower,
		Lender:   req.Lender,
		Status:   req.Status,
		Limit:    req.Limit,
		Offset:   req.Offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *LoanHandler) LoanJournal(c echo.Context) error {
	id, ok := loanIDParam(c)
	if !ok {
		return badRequest(c, "invalid loan_id path param")
	}
	entries, err := h.query.LoanJournal(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, entries)
}

// TxJournal returns the movements recorded under one operation's tx id.
func (h *LoanHandler) TxJournal(c echo.Context) error {
	var req txJournalReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid tx_id path param")
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	entries, err := h.query.TxJournal(c.Request().Context(), req.TxID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, entries)
}

// ---- helpers ----

func (h *LoanHandler) lifecycle(c echo.Context, op func(ctx context.Context, loanID uint64) (*loan.LoanDTO, error)) error {
	id, ok := loanIDParam(c)
	if !ok {
		return badRequest(c, "invalid loan_id path param")
	}
	dto, err := op(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func loanIDParam(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("loan_id"), 10, 64)
	return id, err == nil
}

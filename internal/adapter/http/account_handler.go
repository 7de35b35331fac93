package http

import (
	"context"
	"net/http"

	"loan-registry/internal/adapter/middleware"
	"loan-registry/internal/usecase/escrow"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type AccountHandler struct {
	escrow *escrow.Usecase
}

func NewAccountHandler(u *escrow.Usecase) *AccountHandler {
	return &AccountHandler{escrow: u}
}

type balancesReq struct {
	Account string `param:"account" validate:"required,account"`
	Asset   string `query:"asset"   validate:"omitempty,asset"`
}

type movementReq struct {
	Asset  string          `json:"asset"  validate:"required,asset"`
	Amount decimal.Decimal `json:"amount" validate:"dpos"`
}

// Deposit credits the caller's available balance.
func (h *AccountHandler) Deposit(c echo.Context) error {
	return h.move(c, h.escrow.Deposit)
}

// Withdraw debits the caller's available balance. Locked funds are not
// withdrawable.
func (h *AccountHandler) Withdraw(c echo.Context) error {
	return h.move(c, h.escrow.Withdraw)
}

func (h *AccountHandler) Balances(c echo.Context) error {
	var req balancesReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request")
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	if req.Asset != "" {
		b, err := h.escrow.Balance(c.Request().Context(), req.Account, req.Asset)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, []escrow.BalanceDTO{*b})
	}
	list, err := h.escrow.Balances(c.Request().Context(), req.Account)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *AccountHandler) move(c echo.Context, op func(ctx context.Context, in escrow.MovementInput) (*escrow.MovementDTO, error)) error {
	account := middleware.AccountFrom(c)
	if account == "" {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "missing caller identity"})
	}
	var req movementReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	dto, err := op(c.Request().Context(), escrow.MovementInput{
		Account: account,
		Asset:   req.Asset,
		Amount:  req.Amount,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

package http

import (
	"github.com/labstack/echo/v4"
)

// Register mounts every registry route on e. guard is applied to the
// mutating groups (identity and idempotency).
func Register(e *echo.Echo, h *Handler, loans *LoanHandler, accounts *AccountHandler, guard ...echo.MiddlewareFunc) {
	e.GET("/health", h.Health)

	lg := e.Group("/loans", guard...)
	lg.POST("", loans.CreateLoan)
	lg.GET("", loans.ListLoans)
	lg.GET("/count", loans.CountLoans)
	lg.GET("/:loan_id", loans.GetLoan)
	lg.GET("/:loan_id/journal", loans.LoanJournal)
	lg.POST("/:loan_id/fund", loans.FundLoan)
	lg.POST("/:loan_id/repay", loans.RepayLoan)
	lg.POST("/:loan_id/expire", loans.ExpireLoan)
	lg.POST("/:loan_id/cancel", loans.CancelLoan)

	ag := e.Group("/accounts", guard...)
	ag.POST("/deposits", accounts.Deposit)
	ag.POST("/withdrawals", accounts.Withdraw)
	ag.GET("/:account/balances", accounts.Balances)

	jg := e.Group("/journal", guard...)
	jg.GET("/:tx_id", loans.TxJournal)
}

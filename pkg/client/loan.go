package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Astemirdum/library-loans/pkg/circuit_breaker"
	"go.uber.org/zap"
)

type LoanClient struct {
	*Client
}

func NewLoanClient(cfg Config, cbCfg circuit_breaker.Config, log *zap.Logger) *LoanClient {
	return &LoanClient{Client: New(cfg, cbCfg, log.Named("loan_client"))}
}

// AdoptLoan is idempotent on HoldKey: a repeated call returns the loan already created for it.
func (c *LoanClient) AdoptLoan(ctx context.Context, req AdoptLoanRequest) (Loan, error) {
	var l Loan
	err := c.do(ctx, http.MethodPost, "/api/v1/loans/adopt", nil, req, &l)
	return l, err
}

func (c *LoanClient) GetByHoldKey(ctx context.Context, holdKey string) (Loan, error) {
	var l Loan
	err := c.do(ctx, http.MethodGet, "/api/v1/loans/hold/"+url.PathEscape(holdKey), nil, nil, &l)
	return l, err
}

func (c *LoanClient) Summary(ctx context.Context) ([]LoanSummary, error) {
	var items []LoanSummary
	err := c.do(ctx, http.MethodGet, "/api/v1/loans/summary", nil, nil, &items)
	return items, err
}

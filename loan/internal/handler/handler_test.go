package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Astemirdum/library-loans/loan/internal/handler"
	"github.com/Astemirdum/library-loans/loan/internal/model"
	"github.com/Astemirdum/library-loans/pkg/apierr"
	"github.com/Astemirdum/library-loans/pkg/pagination"
	"github.com/Astemirdum/library-loans/pkg/validate"
	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	service_mocks "github.com/Astemirdum/library-loans/loan/internal/handler/mocks"
)

func newServer(t *testing.T) (*service_mocks.MockLoanService, *echo.Echo) {
	t.Helper()
	c := gomock.NewController(t)
	svc := service_mocks.NewMockLoanService(c)
	h := handler.New(svc, zap.NewExample().Named("test"))

	e := echo.New()
	e.Validator = validate.NewCustomValidator()
	e.POST("/loans", h.CreateLoan)
	e.POST("/loans/adopt", h.AdoptLoan)
	e.GET("/loans/hold/:key", h.GetByHoldKey)
	e.GET("/loans", h.ListLoans)
	e.GET("/loans/overdue", h.ListOverdue)
	e.GET("/loans/summary", h.Summary)
	e.GET("/loans/user/:id", h.ListByUser)
	e.GET("/loans/:id", h.GetLoan)
	e.PUT("/loans/:id", h.UpdateLoan)
	e.POST("/loans/:id/return", h.ReturnLoan)
	e.DELETE("/loans/:id", h.DeleteLoan)
	return svc, e
}

func do(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, r)
	return w
}

func body(w *httptest.ResponseRecorder) string {
	return strings.Trim(w.Body.String(), "\n")
}

func TestHandler_CreateLoan(t *testing.T) {
	t.Parallel()
	type mockBehavior func(r *service_mocks.MockLoanService)

	tests := []struct {
		name         string
		body         string
		mockBehavior mockBehavior
		expectedCode int
		expectedBody string
	}{
		{
			name: "ok",
			body: `{"userId":1,"materialId":2}`,
			mockBehavior: func(r *service_mocks.MockLoanService) {
				r.EXPECT().CreateLoan(gomock.Any(), model.CreateLoan{UserID: 1, MaterialID: 2}).
					Return(model.Loan{ID: 7, UserID: 1, MaterialID: 2, Status: model.StatusActive}, nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name:         "err. material required",
			body:         `{"userId":1}`,
			mockBehavior: func(r *service_mocks.MockLoanService) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "err. no copies",
			body: `{"userId":1,"materialId":2}`,
			mockBehavior: func(r *service_mocks.MockLoanService) {
				r.EXPECT().CreateLoan(gomock.Any(), gomock.Any()).Return(model.Loan{}, apierr.ErrNoCopiesAvailable)
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"code":"CAPACITY_EXCEEDED","message":"no copies available"}`,
		},
		{
			name: "err. catalog down",
			body: `{"userId":1,"materialId":2}`,
			mockBehavior: func(r *service_mocks.MockLoanService) {
				r.EXPECT().CreateLoan(gomock.Any(), gomock.Any()).Return(model.Loan{}, apierr.ErrUpstreamUnavailable)
			},
			expectedCode: http.StatusServiceUnavailable,
			expectedBody: `{"code":"UPSTREAM_UNAVAILABLE","message":"upstream service unavailable"}`,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, e := newServer(t)
			tt.mockBehavior(svc)

			w := do(e, http.MethodPost, "/loans", tt.body)

			require.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedBody != "" {
				require.Equal(t, tt.expectedBody, body(w))
			}
			if w.Code == http.StatusCreated {
				var l model.Loan
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &l))
				require.Equal(t, int64(7), l.ID)
				require.Equal(t, model.StatusActive, l.Status)
			}
		})
	}
}

func TestHandler_ListLoans(t *testing.T) {
	t.Parallel()
	svc, e := newServer(t)
	p := pagination.Params{Offset: 0, Limit: 5}
	svc.EXPECT().
		ListLoans(gomock.Any(), model.Filter{Status: model.StatusActive, UserID: 3}, p).
		Return(pagination.NewPage([]model.Loan{{ID: 1}}, 1, p), nil)
	svc.EXPECT().
		ListLoans(gomock.Any(), model.Filter{UserID: 4}, pagination.Params{Limit: pagination.DefaultSize}).
		Return(pagination.NewPage[model.Loan](nil, 0, pagination.Params{Limit: pagination.DefaultSize}), nil)

	w := do(e, http.MethodGet, "/loans?status=active&userId=3&size=5", "")
	require.Equal(t, http.StatusOK, w.Code)
	var page pagination.Page[model.Loan]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Data, 1)

	w = do(e, http.MethodGet, "/loans/user/4", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, body(w), `"data":[]`)

	w = do(e, http.MethodGet, "/loans?status=lost", "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = do(e, http.MethodGet, "/loans?materialId=x", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, `{"code":"BAD_REQUEST","message":"materialId is invalid"}`, body(w))
}

func TestHandler_ReturnLoan(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name         string
		method       string
		target       string
		body         string
		mockBehavior func(r *service_mocks.MockLoanService)
		expectedCode int
		expectedBody string
	}{
		{
			name:   "return",
			method: http.MethodPost,
			target: "/loans/5/return",
			mockBehavior: func(r *service_mocks.MockLoanService) {
				now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
				r.EXPECT().ReturnLoan(gomock.Any(), int64(5)).
					Return(model.Loan{ID: 5, Status: model.StatusReturned, ReturnDate: &now}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:   "put returned status",
			method: http.MethodPut,
			target: "/loans/5",
			body:   `{"status":"returned"}`,
			mockBehavior: func(r *service_mocks.MockLoanService) {
				r.EXPECT().ReturnLoan(gomock.Any(), int64(5)).Return(model.Loan{ID: 5, Status: model.StatusReturned}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "put other status",
			method:       http.MethodPut,
			target:       "/loans/5",
			body:         `{"status":"active"}`,
			mockBehavior: func(r *service_mocks.MockLoanService) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:   "already returned",
			method: http.MethodPost,
			target: "/loans/5/return",
			mockBehavior: func(r *service_mocks.MockLoanService) {
				r.EXPECT().ReturnLoan(gomock.Any(), int64(5)).Return(model.Loan{}, apierr.ErrAlreadyReturned)
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"code":"VALIDATION_CONFLICT","message":"loan already returned"}`,
		},
		{
			name:   "not found",
			method: http.MethodPost,
			target: "/loans/6/return",
			mockBehavior: func(r *service_mocks.MockLoanService) {
				r.EXPECT().ReturnLoan(gomock.Any(), int64(6)).Return(model.Loan{}, apierr.ErrLoanNotFound)
			},
			expectedCode: http.StatusNotFound,
			expectedBody: `{"code":"NOT_FOUND","message":"loan not found"}`,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, e := newServer(t)
			tt.mockBehavior(svc)
			w := do(e, tt.method, tt.target, tt.body)
			require.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedBody != "" {
				require.Equal(t, tt.expectedBody, body(w))
			}
		})
	}
}

func TestHandler_DeleteLoan(t *testing.T) {
	t.Parallel()
	svc, e := newServer(t)
	svc.EXPECT().DeleteLoan(gomock.Any(), int64(3)).Return(nil)
	svc.EXPECT().DeleteLoan(gomock.Any(), int64(4)).Return(apierr.ErrLoanNotFound)

	w := do(e, http.MethodDelete, "/loans/3", "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = do(e, http.MethodDelete, "/loans/4", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_Summary(t *testing.T) {
	t.Parallel()
	svc, e := newServer(t)
	last := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	svc.EXPECT().Summary(gomock.Any()).
		Return([]model.MaterialSummary{{MaterialID: 2, LoanedCount: 3, MostRecentLoanDate: last}}, nil)

	w := do(e, http.MethodGet, "/loans/summary", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, `[{"materialId":2,"loanedCount":3,"mostRecentLoanDate":"2024-02-01T09:00:00Z"}]`, body(w))
}

func TestHandler_AdoptLoan(t *testing.T) {
	t.Parallel()
	type mockBehavior func(r *service_mocks.MockLoanService)

	tests := []struct {
		name         string
		body         string
		mockBehavior mockBehavior
		expectedCode int
		expectedBody string
	}{
		{
			name: "ok",
			body: `{"userId":1,"materialId":2,"holdKey":"request:abc"}`,
			mockBehavior: func(r *service_mocks.MockLoanService) {
				r.EXPECT().AdoptLoan(gomock.Any(), model.AdoptLoan{UserID: 1, MaterialID: 2, HoldKey: "request:abc"}).
					Return(model.Loan{ID: 7, UserID: 1, MaterialID: 2, HoldKey: "request:abc"}, nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name:         "err. loan hold key",
			body:         `{"userId":1,"materialId":2,"holdKey":"loan:abc"}`,
			mockBehavior: func(r *service_mocks.MockLoanService) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "err. hold key required",
			body:         `{"userId":1,"materialId":2}`,
			mockBehavior: func(r *service_mocks.MockLoanService) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "err. hold belongs to another loan",
			body: `{"userId":1,"materialId":2,"holdKey":"request:abc"}`,
			mockBehavior: func(r *service_mocks.MockLoanService) {
				r.EXPECT().AdoptLoan(gomock.Any(), gomock.Any()).Return(model.Loan{}, apierr.ErrHoldConflict)
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"code":"VALIDATION_CONFLICT","message":"copy hold belongs to another loan"}`,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, e := newServer(t)
			tt.mockBehavior(svc)

			w := do(e, http.MethodPost, "/loans/adopt", tt.body)
			require.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedBody != "" {
				require.Equal(t, tt.expectedBody, body(w))
			}
		})
	}
}

func TestHandler_GetByHoldKey(t *testing.T) {
	t.Parallel()
	svc, e := newServer(t)
	svc.EXPECT().GetByHoldKey(gomock.Any(), "request:abc").Return(model.Loan{ID: 7, HoldKey: "request:abc"}, nil)
	svc.EXPECT().GetByHoldKey(gomock.Any(), "request:zzz").Return(model.Loan{}, apierr.ErrLoanNotFound)

	w := do(e, http.MethodGet, "/loans/hold/request:abc", "")
	require.Equal(t, http.StatusOK, w.Code)
	var l model.Loan
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &l))
	require.Equal(t, int64(7), l.ID)

	w = do(e, http.MethodGet, "/loans/hold/request:zzz", "")
	require.Equal(t, http.StatusNotFound, w.Code)
}

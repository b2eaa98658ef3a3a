package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Astemirdum/library-loans/pkg/apierr"
	"github.com/Astemirdum/library-loans/pkg/pagination"
	"github.com/Astemirdum/library-loans/pkg/validate"
	"github.com/Astemirdum/library-loans/request/internal/handler"
	"github.com/Astemirdum/library-loans/request/internal/model"
	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	service_mocks "github.com/Astemirdum/library-loans/request/internal/handler/mocks"
)

func newServer(t *testing.T) (*service_mocks.MockRequestService, *echo.Echo) {
	t.Helper()
	c := gomock.NewController(t)
	svc := service_mocks.NewMockRequestService(c)
	h := handler.New(svc, zap.NewExample().Named("test"))

	e := echo.New()
	e.Validator = validate.NewCustomValidator()
	e.POST("/requests", h.CreateRequest)
	e.GET("/requests", h.ListRequests)
	e.GET("/requests/stats", h.Stats)
	e.GET("/requests/document/:doc", h.ListByDocument)
	e.GET("/requests/:id", h.GetRequest)
	e.PUT("/requests/:id", h.UpdateRequest)
	e.POST("/requests/:id/approve", h.ApproveRequest)
	e.POST("/requests/:id/reject", h.RejectRequest)
	e.DELETE("/requests/:id", h.DeleteRequest)
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

func TestHandler_CreateRequest(t *testing.T) {
	t.Parallel()
	type mockBehavior func(r *service_mocks.MockRequestService)

	tests := []struct {
		name         string
		body         string
		mockBehavior mockBehavior
		expectedCode int
		expectedBody string
	}{
		{
			name: "ok by document",
			body: `{"identityDocument":"D-1","name":"Ana","materialId":2}`,
			mockBehavior: func(r *service_mocks.MockRequestService) {
				r.EXPECT().
					CreateRequest(gomock.Any(), model.CreateRequest{IdentityDocument: "D-1", Name: "Ana", MaterialID: 2}).
					Return(model.LoanRequest{ID: 1, Status: model.StatusPending, Reserved: true}, nil)
			},
			expectedCode: http.StatusCreated,
		},
		{
			name:         "err. no requester",
			body:         `{"materialId":2}`,
			mockBehavior: func(r *service_mocks.MockRequestService) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name: "err. material not found",
			body: `{"userId":3,"materialId":2}`,
			mockBehavior: func(r *service_mocks.MockRequestService) {
				r.EXPECT().CreateRequest(gomock.Any(), gomock.Any()).Return(model.LoanRequest{}, apierr.ErrMaterialNotFound)
			},
			expectedCode: http.StatusNotFound,
			expectedBody: `{"code":"NOT_FOUND","message":"material not found"}`,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc, e := newServer(t)
			tt.mockBehavior(svc)

			w := do(e, http.MethodPost, "/requests", tt.body)

			require.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedBody != "" {
				require.Equal(t, tt.expectedBody, body(w))
			}
			if w.Code == http.StatusCreated {
				var r model.LoanRequest
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &r))
				require.Equal(t, model.StatusPending, r.Status)
				require.NotContains(t, body(w), "holdKey")
			}
		})
	}
}

func TestHandler_ListRequests(t *testing.T) {
	t.Parallel()
	svc, e := newServer(t)
	p := pagination.Params{Limit: pagination.DefaultSize}
	svc.EXPECT().ListRequests(gomock.Any(), model.Filter{Status: model.StatusPending}, p).
		Return(pagination.NewPage([]model.LoanRequest{{ID: 1}}, 1, p), nil)
	svc.EXPECT().ListRequests(gomock.Any(), model.Filter{IdentityDocument: "D-1"}, p).
		Return(pagination.NewPage[model.LoanRequest](nil, 0, p), nil)

	w := do(e, http.MethodGet, "/requests?status=pending", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = do(e, http.MethodGet, "/requests/document/D-1", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, `{"data":[],"pagination":{"total":0,"page":1,"size":10,"pages":1}}`, body(w))

	w = do(e, http.MethodGet, "/requests?status=done", "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Decide(t *testing.T) {
	t.Parallel()
	notes := "damaged"
	tests := []struct {
		name         string
		method       string
		target       string
		body         string
		mockBehavior func(r *service_mocks.MockRequestService)
		expectedCode int
		expectedBody string
	}{
		{
			name:   "approve",
			method: http.MethodPost,
			target: "/requests/1/approve",
			mockBehavior: func(r *service_mocks.MockRequestService) {
				r.EXPECT().ApproveRequest(gomock.Any(), int64(1)).Return(model.LoanRequest{ID: 1, Status: model.StatusApproved}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:   "approve no copies",
			method: http.MethodPost,
			target: "/requests/1/approve",
			mockBehavior: func(r *service_mocks.MockRequestService) {
				r.EXPECT().ApproveRequest(gomock.Any(), int64(1)).Return(model.LoanRequest{}, apierr.ErrNoCopiesAvailable)
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"code":"CAPACITY_EXCEEDED","message":"no copies available"}`,
		},
		{
			name:   "reject with notes",
			method: http.MethodPost,
			target: "/requests/1/reject",
			body:   `{"notes":"damaged"}`,
			mockBehavior: func(r *service_mocks.MockRequestService) {
				r.EXPECT().RejectRequest(gomock.Any(), int64(1), &notes).Return(model.LoanRequest{ID: 1, Status: model.StatusRejected}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:   "reject twice",
			method: http.MethodPost,
			target: "/requests/1/reject",
			mockBehavior: func(r *service_mocks.MockRequestService) {
				r.EXPECT().RejectRequest(gomock.Any(), int64(1), nil).Return(model.LoanRequest{}, apierr.ErrAlreadyFinal)
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"code":"VALIDATION_CONFLICT","message":"loan request already decided"}`,
		},
		{
			name:   "put status",
			method: http.MethodPut,
			target: "/requests/1",
			body:   `{"status":"approved"}`,
			mockBehavior: func(r *service_mocks.MockRequestService) {
				r.EXPECT().UpdateRequest(gomock.Any(), int64(1), model.UpdateRequest{Status: model.StatusApproved}).
					Return(model.LoanRequest{ID: 1, Status: model.StatusApproved}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:         "put pending",
			method:       http.MethodPut,
			target:       "/requests/1",
			body:         `{"status":"pending"}`,
			mockBehavior: func(r *service_mocks.MockRequestService) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:   "delete",
			method: http.MethodDelete,
			target: "/requests/1",
			mockBehavior: func(r *service_mocks.MockRequestService) {
				r.EXPECT().DeleteRequest(gomock.Any(), int64(1)).Return(nil)
			},
			expectedCode: http.StatusNoContent,
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

func TestHandler_Stats(t *testing.T) {
	t.Parallel()

	t.Run("ok", func(t *testing.T) {
		t.Parallel()
		svc, e := newServer(t)
		svc.EXPECT().Stats(gomock.Any()).Return(model.Stats{Total: 6, Pending: 3, Approved: 2, Rejected: 1}, nil)

		w := do(e, http.MethodGet, "/requests/stats", "")
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, `{"total":6,"pending":3,"approved":2,"rejected":1}`, strings.Trim(w.Body.String(), "\n"))
	})

	t.Run("err. db", func(t *testing.T) {
		t.Parallel()
		svc, e := newServer(t)
		svc.EXPECT().Stats(gomock.Any()).Return(model.Stats{}, errors.New("connection refused"))

		w := do(e, http.MethodGet, "/requests/stats", "")
		require.Equal(t, http.StatusInternalServerError, w.Code)
		require.Equal(t, `{"code":"INTERNAL","message":"internal error"}`, strings.Trim(w.Body.String(), "\n"))
	})
}

package leave_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lms/internal/access"
	"lms/internal/auth"
	"lms/internal/leave"
	leaveerrors "lms/internal/leave/errors"
	"lms/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok      bool            `json:"ok"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeLeaveService struct {
	createFn     func(ctx context.Context, actor *access.Actor, req leave.CreateLeaveRequest) (leave.LeaveResponse, error)
	getByIDFn    func(ctx context.Context, actor *access.Actor, id string) (leave.LeaveResponse, error)
	listMineFn   func(ctx context.Context, actor *access.Actor) ([]leave.LeaveResponse, error)
	listAllFn    func(ctx context.Context, actor *access.Actor) ([]leave.LeaveResponse, error)
	listTodayFn  func(ctx context.Context, actor *access.Actor) ([]leave.LeaveResponse, error)
	listActiveFn func(ctx context.Context, actor *access.Actor) ([]leave.LeaveResponse, error)
	approveFn    func(ctx context.Context, actor *access.Actor, id string, req leave.ApproveLeaveRequest) (leave.LeaveResponse, error)
	rejectFn     func(ctx context.Context, actor *access.Actor, id string, req leave.RejectLeaveRequest) (leave.LeaveResponse, error)
	updateFn     func(ctx context.Context, actor *access.Actor, id string, req leave.UpdateLeaveRequest) (leave.LeaveResponse, error)
	cancelFn     func(ctx context.Context, actor *access.Actor, id string) error
}

func (f *fakeLeaveService) Create(ctx context.Context, actor *access.Actor, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
	return f.createFn(ctx, actor, req)
}
func (f *fakeLeaveService) GetByID(ctx context.Context, actor *access.Actor, id string) (leave.LeaveResponse, error) {
	return f.getByIDFn(ctx, actor, id)
}
func (f *fakeLeaveService) ListMine(ctx context.Context, actor *access.Actor) ([]leave.LeaveResponse, error) {
	return f.listMineFn(ctx, actor)
}
func (f *fakeLeaveService) ListAll(ctx context.Context, actor *access.Actor) ([]leave.LeaveResponse, error) {
	return f.listAllFn(ctx, actor)
}
func (f *fakeLeaveService) ListToday(ctx context.Context, actor *access.Actor) ([]leave.LeaveResponse, error) {
	return f.listTodayFn(ctx, actor)
}
func (f *fakeLeaveService) ListActive(ctx context.Context, actor *access.Actor) ([]leave.LeaveResponse, error) {
	return f.listActiveFn(ctx, actor)
}
func (f *fakeLeaveService) Approve(ctx context.Context, actor *access.Actor, id string, req leave.ApproveLeaveRequest) (leave.LeaveResponse, error) {
	return f.approveFn(ctx, actor, id, req)
}
func (f *fakeLeaveService) Reject(ctx context.Context, actor *access.Actor, id string, req leave.RejectLeaveRequest) (leave.LeaveResponse, error) {
	return f.rejectFn(ctx, actor, id, req)
}
func (f *fakeLeaveService) Update(ctx context.Context, actor *access.Actor, id string, req leave.UpdateLeaveRequest) (leave.LeaveResponse, error) {
	return f.updateFn(ctx, actor, id, req)
}
func (f *fakeLeaveService) Cancel(ctx context.Context, actor *access.Actor, id string) error {
	return f.cancelFn(ctx, actor, id)
}

func authedContext(t *testing.T, w *httptest.ResponseRecorder, u *auth.User) *gin.Context {
	t.Helper()
	c, _ := gin.CreateTestContext(w)
	if u != nil {
		c.Set("current_user", u)
	}
	return c
}

func TestLeaveHandler_Create(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		u := &auth.User{ID: uuid.New(), Role: access.RoleEmployee}

		svc := &fakeLeaveService{
			createFn: func(ctx context.Context, actor *access.Actor, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, u.ID, actor.ID)
				assert.Equal(t, access.RoleEmployee, actor.Role)
				assert.Equal(t, leave.TypeVacation, req.LeaveType)
				return leave.LeaveResponse{
					ID:         uuid.New().String(),
					EmployeeID: actor.ID.String(),
					LeaveType:  req.LeaveType,
					StartDate:  req.StartDate,
					EndDate:    req.EndDate,
					Duration:   3,
					Status:     leave.StatusPending,
				}, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c := authedContext(t, w, u)
		body := `{"leave_type":"vacation","start_date":"2030-03-10","end_date":"2030-03-12","reason":"Family trip out of town"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		assert.Equal(t, "Leave request submitted successfully", env.Message)

		var got leave.LeaveResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, u.ID.String(), got.EmployeeID)
		assert.Equal(t, leave.StatusPending, got.Status)
	})

	t.Run("negative invalid duration unit rejected at binding", func(t *testing.T) {
		svc := &fakeLeaveService{
			createFn: func(ctx context.Context, actor *access.Actor, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
				t.Fatal("service must not be called")
				return leave.LeaveResponse{}, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c := authedContext(t, w, &auth.User{ID: uuid.New(), Role: access.RoleEmployee})
		body := `{"leave_type":"vacation","start_date":"2030-03-10","end_date":"2030-03-12","duration_unit":"weeks","reason":"Family trip out of town"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "INVALID_INPUT", env.Error.Code)
	})

	t.Run("negative service error mapped to envelope", func(t *testing.T) {
		svc := &fakeLeaveService{
			createFn: func(ctx context.Context, actor *access.Actor, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrReasonTooShort
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c := authedContext(t, w, &auth.User{ID: uuid.New(), Role: access.RoleEmployee})
		body := `{"leave_type":"vacation","start_date":"2030-03-10","end_date":"2030-03-12","reason":"short"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "Reason must be at least 10 characters", env.Error.Message)
	})

	t.Run("negative unauthenticated actor forwarded as nil", func(t *testing.T) {
		svc := &fakeLeaveService{
			createFn: func(ctx context.Context, actor *access.Actor, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
				assert.Nil(t, actor)
				return leave.LeaveResponse{}, access.ErrUnauthenticated
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c := authedContext(t, w, nil)
		body := `{"leave_type":"vacation","start_date":"2030-03-10","end_date":"2030-03-12","reason":"Family trip out of town"}`
		c.Request = httptest.NewRequest(http.MethodPost, "/leaves", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Create(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestLeaveHandler_Reviews(t *testing.T) {
	gin.SetMode(gin.TestMode)
	id := uuid.New().String()
	hr := &auth.User{ID: uuid.New(), Role: access.RoleHR}

	t.Run("approve success", func(t *testing.T) {
		svc := &fakeLeaveService{
			approveFn: func(ctx context.Context, actor *access.Actor, targetID string, req leave.ApproveLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, id, targetID)
				assert.Equal(t, "Enjoy your trip", *req.AdminComment)
				return leave.LeaveResponse{ID: targetID, Status: leave.StatusApproved}, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c := authedContext(t, w, hr)
		c.Params = gin.Params{{Key: "id", Value: id}}
		c.Request = httptest.NewRequest(http.MethodPut, "/leaves/"+id+"/approve",
			strings.NewReader(`{"admin_comment":"Enjoy your trip"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Approve(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
	})

	t.Run("approve without a body succeeds", func(t *testing.T) {
		svc := &fakeLeaveService{
			approveFn: func(ctx context.Context, actor *access.Actor, targetID string, req leave.ApproveLeaveRequest) (leave.LeaveResponse, error) {
				assert.Nil(t, req.AdminComment)
				return leave.LeaveResponse{ID: targetID, Status: leave.StatusApproved}, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c := authedContext(t, w, hr)
		c.Params = gin.Params{{Key: "id", Value: id}}
		c.Request = httptest.NewRequest(http.MethodPut, "/leaves/"+id+"/approve", nil)

		h.Approve(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
	})

	t.Run("reject without a body still requires a reason", func(t *testing.T) {
		svc := &fakeLeaveService{
			rejectFn: func(ctx context.Context, actor *access.Actor, targetID string, req leave.RejectLeaveRequest) (leave.LeaveResponse, error) {
				assert.Empty(t, req.RejectedReason)
				return leave.LeaveResponse{}, leaveerrors.ErrRejectedReasonTooShort
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c := authedContext(t, w, hr)
		c.Params = gin.Params{{Key: "id", Value: id}}
		c.Request = httptest.NewRequest(http.MethodPut, "/leaves/"+id+"/reject", nil)

		h.Reject(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("approve conflict when already processed", func(t *testing.T) {
		svc := &fakeLeaveService{
			approveFn: func(ctx context.Context, actor *access.Actor, targetID string, req leave.ApproveLeaveRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrAlreadyProcessed
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c := authedContext(t, w, hr)
		c.Params = gin.Params{{Key: "id", Value: id}}
		c.Request = httptest.NewRequest(http.MethodPut, "/leaves/"+id+"/approve", strings.NewReader(`{}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Approve(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "CONFLICT", env.Error.Code)
	})

	t.Run("reject passes reason through", func(t *testing.T) {
		svc := &fakeLeaveService{
			rejectFn: func(ctx context.Context, actor *access.Actor, targetID string, req leave.RejectLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, "Coverage gap", req.RejectedReason)
				return leave.LeaveResponse{ID: targetID, Status: leave.StatusRejected}, nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c := authedContext(t, w, hr)
		c.Params = gin.Params{{Key: "id", Value: id}}
		c.Request = httptest.NewRequest(http.MethodPut, "/leaves/"+id+"/reject",
			strings.NewReader(`{"rejected_reason":"Coverage gap"}`))
		c.Request.Header.Set("Content-Type", "application/json")

		h.Reject(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestLeaveHandler_Cancel(t *testing.T) {
	gin.SetMode(gin.TestMode)
	id := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		u := &auth.User{ID: uuid.New(), Role: access.RoleEmployee}
		svc := &fakeLeaveService{
			cancelFn: func(ctx context.Context, actor *access.Actor, targetID string) error {
				assert.Equal(t, id, targetID)
				return nil
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c := authedContext(t, w, u)
		c.Params = gin.Params{{Key: "id", Value: id}}
		c.Request = httptest.NewRequest(http.MethodDelete, "/leaves/"+id, nil)

		h.Cancel(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "Leave request cancelled successfully", env.Message)
	})

	t.Run("negative not owner", func(t *testing.T) {
		svc := &fakeLeaveService{
			cancelFn: func(ctx context.Context, actor *access.Actor, targetID string) error {
				return access.ErrNotOwner
			},
		}

		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c := authedContext(t, w, &auth.User{ID: uuid.New(), Role: access.RoleEmployee})
		c.Params = gin.Params{{Key: "id", Value: id}}
		c.Request = httptest.NewRequest(http.MethodDelete, "/leaves/"+id, nil)

		h.Cancel(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "You can only modify your own leave requests", env.Error.Message)
	})
}

// Exercises the mounted route chain: authentication resolves the caller and
// the per-user limiter keys on that identity, so a burst from one user is
// throttled while the route still works for the first requests.
func TestLeaveRoutes_UserRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	u := &auth.User{ID: uuid.New(), Role: access.RoleEmployee}
	svc := &fakeLeaveService{
		listMineFn: func(ctx context.Context, actor *access.Actor) ([]leave.LeaveResponse, error) {
			return nil, nil
		},
	}

	authn := func(c *gin.Context) {
		c.Set("current_user", u)
		c.Set("user_id_validated", u.ID.String())
		c.Next()
	}
	passthrough := func(c *gin.Context) { c.Next() }

	router := gin.New()
	api := router.Group("/api")
	leave.RegisterRoutes(api, leave.NewHandler(svc), authn, middleware.RateLimitByUser(rate.Limit(1), 2), passthrough)

	status := func() int {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/leaves/my-leaves", nil))
		return w.Code
	}

	assert.Equal(t, http.StatusOK, status())
	assert.Equal(t, http.StatusOK, status())
	assert.Equal(t, http.StatusTooManyRequests, status())
}

package user_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"lms/internal/access"
	"lms/internal/auth"
	"lms/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeUserService struct {
	myStatsFn       func(ctx context.Context, actor *access.Actor) (user.EmployeeStatsResponse, error)
	adminStatsFn    func(ctx context.Context, actor *access.Actor) (user.AdminStatsResponse, error)
	listEmployeesFn func(ctx context.Context, actor *access.Actor) ([]user.EmployeeResponse, error)
}

func (f *fakeUserService) MyStats(ctx context.Context, actor *access.Actor) (user.EmployeeStatsResponse, error) {
	return f.myStatsFn(ctx, actor)
}
func (f *fakeUserService) AdminStats(ctx context.Context, actor *access.Actor) (user.AdminStatsResponse, error) {
	return f.adminStatsFn(ctx, actor)
}
func (f *fakeUserService) ListEmployees(ctx context.Context, actor *access.Actor) ([]user.EmployeeResponse, error) {
	return f.listEmployeesFn(ctx, actor)
}

func TestUserHandler_MyStats(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		u := &auth.User{ID: uuid.New(), Role: access.RoleEmployee}
		svc := &fakeUserService{
			myStatsFn: func(ctx context.Context, actor *access.Actor) (user.EmployeeStatsResponse, error) {
				assert.Equal(t, u.ID, actor.ID)
				return user.EmployeeStatsResponse{TotalLeaves: 5, ApprovedLeaves: 3, PendingLeaves: 1, RejectedLeaves: 1}, nil
			},
		}

		h := user.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set("current_user", u)
		c.Request = httptest.NewRequest(http.MethodGet, "/users/stats", nil)

		h.MyStats(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)

		var got user.EmployeeStatsResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, int64(5), got.TotalLeaves)
	})
}

func TestUserHandler_AdminStats(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("negative employee denied", func(t *testing.T) {
		svc := &fakeUserService{
			adminStatsFn: func(ctx context.Context, actor *access.Actor) (user.AdminStatsResponse, error) {
				return user.AdminStatsResponse{}, access.ErrAdminRequired
			},
		}

		h := user.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set("current_user", &auth.User{ID: uuid.New(), Role: access.RoleEmployee})
		c.Request = httptest.NewRequest(http.MethodGet, "/users/admin-stats", nil)

		h.AdminStats(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, "Admin access required", env.Error.Message)
	})

	t.Run("success", func(t *testing.T) {
		svc := &fakeUserService{
			adminStatsFn: func(ctx context.Context, actor *access.Actor) (user.AdminStatsResponse, error) {
				return user.AdminStatsResponse{TotalEmployees: 4, TotalLeaves: 10}, nil
			},
		}

		h := user.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set("current_user", &auth.User{ID: uuid.New(), Role: access.RoleHR})
		c.Request = httptest.NewRequest(http.MethodGet, "/users/admin-stats", nil)

		h.AdminStats(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestUserHandler_ListEmployees(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		svc := &fakeUserService{
			listEmployeesFn: func(ctx context.Context, actor *access.Actor) ([]user.EmployeeResponse, error) {
				return []user.EmployeeResponse{{Name: "Jane Smith", EmployeeCode: "EMP001"}}, nil
			},
		}

		h := user.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set("current_user", &auth.User{ID: uuid.New(), Role: access.RoleHR})
		c.Request = httptest.NewRequest(http.MethodGet, "/users/employees", nil)

		h.ListEmployees(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())

		var got []user.EmployeeResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Len(t, got, 1)
	})
}

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/esotericremi/Vii-Bookings-sub002/internal/availability"
	"github.com/esotericremi/Vii-Bookings-sub002/internal/cache"
	"github.com/esotericremi/Vii-Bookings-sub002/internal/dto"
	"github.com/esotericremi/Vii-Bookings-sub002/internal/service"
	apperrors "github.com/esotericremi/Vii-Bookings-sub002/pkg/errors"
	"github.com/esotericremi/Vii-Bookings-sub002/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	registerResult   *dto.UserResponse
	registerErr      error
	loginResult      *dto.TokenResponse
	loginErr         error
	refreshResult    *dto.TokenResponse
	refreshErr       error
	logoutErr        error
	getCurrentResult *dto.UserResponse
	getCurrentErr    error
	changePassErr    error
}

func (m *mockAuthService) Register(_ context.Context, _ *dto.RegisterRequest) (*dto.UserResponse, error) {
	return m.registerResult, m.registerErr
}
func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) RefreshToken(_ context.Context, _ *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	return m.refreshResult, m.refreshErr
}
func (m *mockAuthService) Logout(_ context.Context, _ string) error {
	return m.logoutErr
}
func (m *mockAuthService) GetCurrentUser(_ context.Context, _ string) (*dto.UserResponse, error) {
	return m.getCurrentResult, m.getCurrentErr
}
func (m *mockAuthService) ChangePassword(_ context.Context, _ string, _ *dto.ChangePasswordRequest) error {
	return m.changePassErr
}

// ── Mock BookingService ──

type mockBookingService struct {
	createResult *dto.BookingResponse
	createErr    error
	getResult    *dto.BookingResponse
	getErr       error
	listResult   []dto.BookingResponse
	listTotal    int64
	listErr      error
	updateResult *dto.BookingResponse
	updateErr    error
	cancelResult *dto.BookingResponse
	cancelErr    error
}

func (m *mockBookingService) Create(_ context.Context, _ *dto.CreateBookingRequest, _ string) (*dto.BookingResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockBookingService) GetByID(_ context.Context, _ string) (*dto.BookingResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockBookingService) List(_ context.Context, _ *dto.BookingListRequest, _, _ string) ([]dto.BookingResponse, int64, error) {
	return m.listResult, m.listTotal, m.listErr
}
func (m *mockBookingService) Update(_ context.Context, _ string, _ *dto.UpdateBookingRequest, _, _ string) (*dto.BookingResponse, error) {
	return m.updateResult, m.updateErr
}
func (m *mockBookingService) Cancel(_ context.Context, _ string, _ int, _, _ string) (*dto.BookingResponse, error) {
	return m.cancelResult, m.cancelErr
}

// ── Mock AvailabilityService ──

type mockAvailabilityService struct {
	dayResult  *dto.AvailabilityResponse
	dayErr     error
	listResult *dto.CachedRoomListResponse
	listErr    error
}

func (m *mockAvailabilityService) GetDayAvailability(_ context.Context, _ string, _ *dto.AvailabilityRequest) (*dto.AvailabilityResponse, error) {
	return m.dayResult, m.dayErr
}
func (m *mockAvailabilityService) ListRoomsCached(_ context.Context) (*dto.CachedRoomListResponse, error) {
	return m.listResult, m.listErr
}
func (m *mockAvailabilityService) RegisterReconcilers(_ *cache.Monitor) {}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) ExportBookings(_ context.Context, _ *dto.ExportBookingsRequest, _, _ string) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}
func (m *mockExportService) ExportBookingICS(_ context.Context, _, _, _ string) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func setupGin() (*gin.Engine, *gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, r := gin.CreateTestContext(w)
	return r, c, w
}

func setAuth(c *gin.Context) {
	c.Set("user_id", "test-user-id")
	c.Set("role", "member")
	c.Set("access_token", "test-access-token")
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Register_Success(t *testing.T) {
	mock := &mockAuthService{
		registerResult: &dto.UserResponse{
			ID:    "user-1",
			Name:  "张三",
			Email: "zhangsan@example.com",
			Role:  "member",
		},
	}
	h := NewAuthHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/auth/register", jsonBody(dto.RegisterRequest{
		Name:     "张三",
		Email:    "zhangsan@example.com",
		Password: "Test12345",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestAuthHandler_Register_EmailExists(t *testing.T) {
	mock := &mockAuthService{registerErr: service.ErrEmailExists}
	h := NewAuthHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/auth/register", jsonBody(dto.RegisterRequest{
		Name:     "张三",
		Email:    "zhangsan@example.com",
		Password: "Test12345",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/register", h.Register)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 11002 {
		t.Errorf("expected error code 11002, got %d", resp.Code)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{
		loginResult: &dto.TokenResponse{
			AccessToken:  "test-access-token",
			RefreshToken: "test-refresh-token",
			ExpiresIn:    900,
		},
	}
	h := NewAuthHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Email:    "zhangsan@example.com",
		Password: "Test12345",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	mock := &mockAuthService{loginErr: service.ErrInvalidCredentials}
	h := NewAuthHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Email:    "zhangsan@example.com",
		Password: "wrong-password",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 11001 {
		t.Errorf("expected error code 11001, got %d", resp.Code)
	}
}

func TestAuthHandler_Login_UserDisabled(t *testing.T) {
	mock := &mockAuthService{loginErr: service.ErrUserDisabled}
	h := NewAuthHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Email:    "zhangsan@example.com",
		Password: "Test12345",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 11003 {
		t.Errorf("expected error code 11003, got %d", resp.Code)
	}
}

func TestAuthHandler_RefreshToken_Success(t *testing.T) {
	mock := &mockAuthService{
		refreshResult: &dto.TokenResponse{
			AccessToken:  "new-access",
			RefreshToken: "new-refresh",
			ExpiresIn:    900,
		},
	}
	h := NewAuthHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/auth/refresh", jsonBody(dto.RefreshTokenRequest{
		RefreshToken: "old-refresh",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/refresh", h.RefreshToken)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestAuthHandler_RefreshToken_MissingToken(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/auth/refresh", jsonBody(map[string]string{}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/refresh", h.RefreshToken)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_RefreshToken_Invalid(t *testing.T) {
	mock := &mockAuthService{refreshErr: service.ErrInvalidRefresh}
	h := NewAuthHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/auth/refresh", jsonBody(dto.RefreshTokenRequest{
		RefreshToken: "garbage",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/refresh", h.RefreshToken)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 11004 {
		t.Errorf("expected error code 11004, got %d", resp.Code)
	}
}

func TestAuthHandler_GetCurrentUser_Success(t *testing.T) {
	mock := &mockAuthService{
		getCurrentResult: &dto.UserResponse{
			ID:   "test-user-id",
			Name: "张三",
		},
	}
	h := NewAuthHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/auth/me", nil)

	r := gin.New()
	r.GET("/auth/me", func(c *gin.Context) {
		setAuth(c)
		h.GetCurrentUser(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestAuthHandler_GetCurrentUser_Unauthenticated(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/auth/me", nil)

	r := gin.New()
	r.GET("/auth/me", h.GetCurrentUser)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuthHandler_ChangePassword_WrongOld(t *testing.T) {
	mock := &mockAuthService{changePassErr: service.ErrOldPasswordWrong}
	h := NewAuthHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/auth/password", jsonBody(dto.ChangePasswordRequest{
		OldPassword: "Old12345",
		NewPassword: "New12345",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/password", func(c *gin.Context) {
		setAuth(c)
		h.ChangePassword(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 11005 {
		t.Errorf("expected error code 11005, got %d", resp.Code)
	}
}

func TestAuthHandler_Logout_Success(t *testing.T) {
	mock := &mockAuthService{}
	h := NewAuthHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/auth/logout", nil)

	r := gin.New()
	r.POST("/auth/logout", func(c *gin.Context) {
		setAuth(c)
		h.Logout(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// BookingHandler Tests
// ═══════════════════════════════════════════════════════════

func TestBookingHandler_Create_Success(t *testing.T) {
	mock := &mockBookingService{
		createResult: &dto.BookingResponse{
			ID:      "booking-1",
			Title:   "周会",
			Status:  "confirmed",
			Version: 1,
		},
	}
	h := NewBookingHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/bookings", jsonBody(map[string]interface{}{
		"room_id":    "11111111-1111-1111-1111-111111111111",
		"title":      "周会",
		"start_time": "2026-03-02T10:00:00Z",
		"end_time":   "2026-03-02T11:00:00Z",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/bookings", func(c *gin.Context) {
		setAuth(c)
		h.CreateBooking(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestBookingHandler_Create_BadJSON(t *testing.T) {
	mock := &mockBookingService{}
	h := NewBookingHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/bookings", bytes.NewReader([]byte("bad")))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/bookings", func(c *gin.Context) {
		setAuth(c)
		h.CreateBooking(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestBookingHandler_Create_Conflict(t *testing.T) {
	mock := &mockBookingService{createErr: service.ErrBookingConflict}
	h := NewBookingHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/bookings", jsonBody(map[string]interface{}{
		"room_id":    "11111111-1111-1111-1111-111111111111",
		"title":      "周会",
		"start_time": "2026-03-02T10:00:00Z",
		"end_time":   "2026-03-02T11:00:00Z",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/bookings", func(c *gin.Context) {
		setAuth(c)
		h.CreateBooking(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 14002 {
		t.Errorf("expected error code 14002, got %d", resp.Code)
	}
}

func TestBookingHandler_Update_OptimisticLock(t *testing.T) {
	mock := &mockBookingService{updateErr: apperrors.ErrOptimisticLock}
	h := NewBookingHandler(mock)

	title := "改期的周会"
	_, _, w := setupGin()
	req := httptest.NewRequest("PUT", "/bookings/booking-1", jsonBody(dto.UpdateBookingRequest{
		Title:   &title,
		Version: 1,
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/bookings/:id", func(c *gin.Context) {
		setAuth(c)
		h.UpdateBooking(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 14008 {
		t.Errorf("expected error code 14008, got %d", resp.Code)
	}
}

func TestBookingHandler_Cancel_Success(t *testing.T) {
	mock := &mockBookingService{
		cancelResult: &dto.BookingResponse{
			ID:      "booking-1",
			Status:  "cancelled",
			Version: 2,
		},
	}
	h := NewBookingHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/bookings/booking-1/cancel", jsonBody(map[string]int{
		"version": 1,
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/bookings/:id/cancel", func(c *gin.Context) {
		setAuth(c)
		h.CancelBooking(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestBookingHandler_Cancel_MissingVersion(t *testing.T) {
	mock := &mockBookingService{}
	h := NewBookingHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/bookings/booking-1/cancel", jsonBody(map[string]int{}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/bookings/:id/cancel", func(c *gin.Context) {
		setAuth(c)
		h.CancelBooking(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestBookingHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"NotFound", service.ErrBookingNotFound, 404, 14001},
		{"RoomNotFound", service.ErrRoomNotFound, 404, 13001},
		{"RoomInactive", service.ErrRoomInactive, 400, 13003},
		{"Conflict", service.ErrBookingConflict, 409, 14002},
		{"Invalid", service.ErrBookingInvalid, 400, 14003},
		{"InPast", service.ErrBookingInPast, 400, 14004},
		{"BeyondHorizon", service.ErrBookingBeyondHorizon, 400, 14005},
		{"Cancelled", service.ErrBookingCancelled, 400, 14006},
		{"NotOwner", service.ErrBookingNotOwner, 403, 14007},
		{"OptimisticLock", apperrors.ErrOptimisticLock, 409, 14008},
		{"InternalError", errors.New("unknown"), 500, 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockBookingService{createErr: tt.err}
			h := NewBookingHandler(mock)

			_, _, w := setupGin()
			req := httptest.NewRequest("POST", "/bookings", jsonBody(map[string]interface{}{
				"room_id":    "11111111-1111-1111-1111-111111111111",
				"title":      "周会",
				"start_time": "2026-03-02T10:00:00Z",
				"end_time":   "2026-03-02T11:00:00Z",
			}))
			req.Header.Set("Content-Type", "application/json")

			r := gin.New()
			r.POST("/bookings", func(c *gin.Context) {
				setAuth(c)
				h.CreateBooking(c)
			})
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			resp := parseResponse(w)
			if resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

// ═══════════════════════════════════════════════════════════
// AvailabilityHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAvailabilityHandler_GetDayAvailability_Success(t *testing.T) {
	mock := &mockAvailabilityService{
		dayResult: &dto.AvailabilityResponse{
			RoomID: "room-1",
			Date:   "2026-03-02",
			Source: "fresh",
		},
	}
	h := NewAvailabilityHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/rooms/room-1/availability?date=2026-03-02", nil)

	r := gin.New()
	r.GET("/rooms/:id/availability", h.GetDayAvailability)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestAvailabilityHandler_GetDayAvailability_MissingDate(t *testing.T) {
	mock := &mockAvailabilityService{}
	h := NewAvailabilityHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/rooms/room-1/availability", nil)

	r := gin.New()
	r.GET("/rooms/:id/availability", h.GetDayAvailability)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAvailabilityHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"RoomNotFound", service.ErrRoomNotFound, 404, 13001},
		{"OfflineNoCache", cache.ErrOfflineUnavailable, 503, 15001},
		{"LiveFetchFailed", &cache.LiveFetchError{Err: errors.New("connection refused")}, 503, 15002},
		{"BadSlotConfig", &availability.ConfigError{Reason: "时段长度必须为正"}, 400, 15003},
		{"InternalError", errors.New("unknown"), 500, 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockAvailabilityService{dayErr: tt.err}
			h := NewAvailabilityHandler(mock)

			_, _, w := setupGin()
			req := httptest.NewRequest("GET", "/rooms/room-1/availability?date=2026-03-02", nil)

			r := gin.New()
			r.GET("/rooms/:id/availability", h.GetDayAvailability)
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			resp := parseResponse(w)
			if resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestAvailabilityHandler_ListRoomsCached_Success(t *testing.T) {
	mock := &mockAvailabilityService{
		listResult: &dto.CachedRoomListResponse{
			List:   []dto.RoomResponse{{ID: "room-1", Name: "玄武厅"}},
			Source: "cache",
		},
	}
	h := NewAvailabilityHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/rooms/cached", nil)

	r := gin.New()
	r.GET("/rooms/cached", h.ListRoomsCached)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestAvailabilityHandler_ListRoomsCached_Offline(t *testing.T) {
	mock := &mockAvailabilityService{listErr: cache.ErrOfflineUnavailable}
	h := NewAvailabilityHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/rooms/cached", nil)

	r := gin.New()
	r.GET("/rooms/cached", h.ListRoomsCached)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 15001 {
		t.Errorf("expected error code 15001, got %d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ExportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestExportHandler_ExportBookings_Success(t *testing.T) {
	mock := &mockExportService{
		buf:      bytes.NewBufferString("excel content"),
		filename: "预订报表_20260302.xlsx",
	}
	h := NewExportHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/export/bookings", nil)

	r := gin.New()
	r.GET("/export/bookings", func(c *gin.Context) {
		setAuth(c)
		h.ExportBookings(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	ct := w.Header().Get("Content-Type")
	if ct != contentTypeXLSX {
		t.Errorf("unexpected content type: %s", ct)
	}
	cd := w.Header().Get("Content-Disposition")
	if cd == "" {
		t.Error("expected Content-Disposition header")
	}
}

func TestExportHandler_ExportBookings_NoBookings(t *testing.T) {
	mock := &mockExportService{err: service.ErrExportNoBookings}
	h := NewExportHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/export/bookings", nil)

	r := gin.New()
	r.GET("/export/bookings", func(c *gin.Context) {
		setAuth(c)
		h.ExportBookings(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 16001 {
		t.Errorf("expected error code 16001, got %d", resp.Code)
	}
}

func TestExportHandler_ExportBookingICS_Success(t *testing.T) {
	mock := &mockExportService{
		buf:      bytes.NewBufferString("BEGIN:VCALENDAR"),
		filename: "预订_20260302_1000.ics",
	}
	h := NewExportHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/export/bookings/booking-1/ics", nil)

	r := gin.New()
	r.GET("/export/bookings/:id/ics", func(c *gin.Context) {
		setAuth(c)
		h.ExportBookingICS(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	ct := w.Header().Get("Content-Type")
	if ct != contentTypeICS {
		t.Errorf("unexpected content type: %s", ct)
	}
}

func TestExportHandler_ExportBookingICS_NotOwner(t *testing.T) {
	mock := &mockExportService{err: service.ErrBookingNotOwner}
	h := NewExportHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/export/bookings/booking-1/ics", nil)

	r := gin.New()
	r.GET("/export/bookings/:id/ics", func(c *gin.Context) {
		setAuth(c)
		h.ExportBookingICS(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 14007 {
		t.Errorf("expected error code 14007, got %d", resp.Code)
	}
}

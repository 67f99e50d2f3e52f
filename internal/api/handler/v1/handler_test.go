package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/event-attendance-api/internal/api/middleware"
	"github.com/vietanh2810/event-attendance-api/internal/config"
	"github.com/vietanh2810/event-attendance-api/internal/domain"
	"github.com/vietanh2810/event-attendance-api/internal/pkg/jwthelper"
	"github.com/vietanh2810/event-attendance-api/internal/service"
)

const testSigningKey = "session-secret"

var errStoreDown = errors.New("connection refused")

func init() {
	gin.SetMode(gin.TestMode)
}

// serve runs one request through VerifyJWT and handler as caller.
func serve(t *testing.T, method, route, path string, body any, caller *jwthelper.Principal, handler gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()

	router := gin.New()
	if caller != nil {
		router.Handle(method, route, middleware.NewAuthenticator(testSigningKey).VerifyJWT(), handler)
	} else {
		router.Handle(method, route, handler)
	}

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if caller != nil {
		token, err := jwthelper.GenerateToken([]byte(testSigningKey), *caller, "", time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

type stubScanService struct {
	result domain.ScanResult
	err    error

	gotActorID   uint
	gotActorKind domain.ActorKind
}

func (s *stubScanService) Submit(_ context.Context, _ string, actorID uint, actorKind domain.ActorKind) (domain.ScanResult, error) {
	s.gotActorID = actorID
	s.gotActorKind = actorKind
	return s.result, s.err
}

func TestHandleSubmitScan(t *testing.T) {
	volunteer := &jwthelper.Principal{ID: 7, Kind: string(domain.ActorVolunteer)}

	t.Run("checked in", func(t *testing.T) {
		svc := &stubScanService{result: domain.ScanResult{
			Status:      domain.ScanCheckedIn,
			SubjectID:   100,
			SubjectKind: domain.SubjectStudent,
			EventID:     1,
		}}
		h := NewScanHandler(svc)

		rec := serve(t, http.MethodPost, "/scans", "/scans", gin.H{"token": "abc"}, volunteer, h.HandleSubmitScan)

		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, true, body["ok"])
		assert.Equal(t, "checked-in", body["status"])
		assert.Equal(t, "student", body["subject_kind"])
		assert.Equal(t, uint(7), svc.gotActorID)
		assert.Equal(t, domain.ActorVolunteer, svc.gotActorKind)
	})

	t.Run("stale scope", func(t *testing.T) {
		h := NewScanHandler(&stubScanService{err: domain.RejectStaleScope(1, 2)})

		rec := serve(t, http.MethodPost, "/scans", "/scans", gin.H{"token": "abc"}, volunteer, h.HandleSubmitScan)

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, false, body["ok"])
		assert.Equal(t, "StaleEventScope", body["reason"])
		assert.NotEmpty(t, body["message"])
		details, ok := body["details"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, float64(1), details["claimed_event_id"])
		assert.Equal(t, float64(2), details["active_event_id"])
	})

	t.Run("bad signature has no details", func(t *testing.T) {
		h := NewScanHandler(&stubScanService{err: domain.Reject(domain.ReasonBadSignature)})

		rec := serve(t, http.MethodPost, "/scans", "/scans", gin.H{"token": "abc"}, volunteer, h.HandleSubmitScan)

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "BadSignature", body["reason"])
		assert.NotContains(t, body, "details")
	})

	t.Run("store failure is retryable", func(t *testing.T) {
		h := NewScanHandler(&stubScanService{err: errStoreDown})

		rec := serve(t, http.MethodPost, "/scans", "/scans", gin.H{"token": "abc"}, volunteer, h.HandleSubmitScan)

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, true, decode(t, rec)["retryable"])
	})

	t.Run("empty token", func(t *testing.T) {
		h := NewScanHandler(&stubScanService{})

		rec := serve(t, http.MethodPost, "/scans", "/scans", gin.H{"token": ""}, volunteer, h.HandleSubmitScan)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("no session", func(t *testing.T) {
		h := NewScanHandler(&stubScanService{})

		rec := serve(t, http.MethodPost, "/scans", "/scans", gin.H{"token": "abc"}, nil, h.HandleSubmitScan)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

type stubEligibilityService struct {
	verdict domain.Verdict
	err     error

	gotStudentID uint
	gotStallID   uint
}

func (s *stubEligibilityService) CanSubmitFeedback(_ context.Context, _, studentID, stallID uint) (domain.Verdict, error) {
	s.gotStudentID = studentID
	s.gotStallID = stallID
	return s.verdict, s.err
}

func (s *stubEligibilityService) CanVote(_ context.Context, _, studentID uint) (domain.Verdict, error) {
	s.gotStudentID = studentID
	return s.verdict, s.err
}

func TestHandleEligibility(t *testing.T) {
	student := &jwthelper.Principal{ID: 100, Kind: string(domain.ActorUser), Role: string(domain.RoleStudent)}

	t.Run("feedback allowed", func(t *testing.T) {
		svc := &stubEligibilityService{verdict: domain.Allow()}
		h := NewEligibilityHandler(svc)

		rec := serve(t, http.MethodGet, "/events/:eventID/eligibility/feedback", "/events/1/eligibility/feedback?stall_id=10",
			nil, student, h.HandleFeedbackEligibility)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, decode(t, rec)["allowed"])
		assert.Equal(t, uint(100), svc.gotStudentID)
		assert.Equal(t, uint(10), svc.gotStallID)
	})

	t.Run("vote denied", func(t *testing.T) {
		h := NewEligibilityHandler(&stubEligibilityService{verdict: domain.Deny(domain.DenyNotCheckedIn)})

		rec := serve(t, http.MethodGet, "/events/:eventID/eligibility/vote", "/events/1/eligibility/vote",
			nil, student, h.HandleVoteEligibility)

		require.Equal(t, http.StatusOK, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, false, body["allowed"])
		assert.Equal(t, "NotCheckedIn", body["reason"])
	})

	t.Run("unknown event", func(t *testing.T) {
		h := NewEligibilityHandler(&stubEligibilityService{err: service.ErrEventNotFound})

		rec := serve(t, http.MethodGet, "/events/:eventID/eligibility/vote", "/events/9/eligibility/vote",
			nil, student, h.HandleVoteEligibility)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing stall id", func(t *testing.T) {
		h := NewEligibilityHandler(&stubEligibilityService{})

		rec := serve(t, http.MethodGet, "/events/:eventID/eligibility/feedback", "/events/1/eligibility/feedback",
			nil, student, h.HandleFeedbackEligibility)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bad event id", func(t *testing.T) {
		h := NewEligibilityHandler(&stubEligibilityService{})

		rec := serve(t, http.MethodGet, "/events/:eventID/eligibility/vote", "/events/abc/eligibility/vote",
			nil, student, h.HandleVoteEligibility)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

type stubAuthService struct {
	actor domain.Actor
	err   error
}

func (s *stubAuthService) Login(context.Context, string, string, domain.ActorKind) (domain.Actor, error) {
	return s.actor, s.err
}

func TestHandleLogin(t *testing.T) {
	conf := &config.APIConfig{JWTSigningKey: testSigningKey, SessionTTL: time.Hour}
	login := gin.H{"email": "vol@example.com", "password": "secret", "kind": "volunteer"}

	t.Run("issues a session token", func(t *testing.T) {
		actor := domain.Actor{ID: 3, Kind: domain.ActorVolunteer, Name: "Vol"}
		h := NewAuthHandler(conf, &stubAuthService{actor: actor})

		rec := serve(t, http.MethodPost, "/auth/login", "/auth/login", login, nil, h.HandleLogin)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Token string       `json:"token"`
			Actor domain.Actor `json:"actor"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, actor, resp.Actor)

		p, err := jwthelper.ParseToken([]byte(testSigningKey), resp.Token)
		require.NoError(t, err)
		assert.Equal(t, uint(3), p.ID)
		assert.Equal(t, string(domain.ActorVolunteer), p.Kind)
	})

	t.Run("wrong password", func(t *testing.T) {
		h := NewAuthHandler(conf, &stubAuthService{err: service.ErrWrongPassword})

		rec := serve(t, http.MethodPost, "/auth/login", "/auth/login", login, nil, h.HandleLogin)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("disabled account", func(t *testing.T) {
		h := NewAuthHandler(conf, &stubAuthService{err: service.ErrAccountDisabled})

		rec := serve(t, http.MethodPost, "/auth/login", "/auth/login", login, nil, h.HandleLogin)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("unknown kind", func(t *testing.T) {
		h := NewAuthHandler(conf, &stubAuthService{})

		rec := serve(t, http.MethodPost, "/auth/login", "/auth/login",
			gin.H{"email": "vol@example.com", "password": "secret", "kind": "robot"}, nil, h.HandleLogin)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

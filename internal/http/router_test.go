package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/crypto/bcrypt"

	"github.com/yungbote/rsvp-backend/internal/data/aggregates"
	guestrepos "github.com/yungbote/rsvp-backend/internal/data/repos/guests"
	"github.com/yungbote/rsvp-backend/internal/data/repos/ordering"
	"github.com/yungbote/rsvp-backend/internal/data/repos/testutil"
	"github.com/yungbote/rsvp-backend/internal/domain/guests"
	domainstats "github.com/yungbote/rsvp-backend/internal/domain/stats"
	httpH "github.com/yungbote/rsvp-backend/internal/http/handlers"
	httpMW "github.com/yungbote/rsvp-backend/internal/http/middleware"
	"github.com/yungbote/rsvp-backend/internal/http/response"
	"github.com/yungbote/rsvp-backend/internal/observability"
	"github.com/yungbote/rsvp-backend/internal/services/auth"
	"github.com/yungbote/rsvp-backend/internal/services/collections"
	"github.com/yungbote/rsvp-backend/internal/services/stats"
)

const adminPassword = "letmein"

type harness struct {
	router *gin.Engine
	meals  []uuid.UUID
	cache  *stats.Cache
}

func newHarness(t *testing.T) harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.DB(t)
	log := testutil.Logger(t)
	ctx := context.Background()

	var meals []uuid.UUID
	for i, name := range []string{"Beef", "Fish", "Pasta"} {
		meals = append(meals, testutil.SeedMenuOption(t, ctx, db, guests.MenuKindMeal, name, i).ID)
	}
	testutil.SeedGuest(t, ctx, db, testutil.PtrBool(true), testutil.PtrUUID(meals[1]), nil)
	testutil.SeedGuest(t, ctx, db, testutil.PtrBool(false), nil, nil)
	testutil.SeedGuest(t, ctx, db, nil, nil, nil)

	metrics := observability.NewMetrics()
	agg := stats.NewAggregator(log, guestrepos.NewGuestRepo(db, log), guestrepos.NewMenuOptionRepo(db, log))
	cache := stats.NewCache(agg, stats.CacheConfig{
		TTL:     time.Minute,
		Clock:   clockwork.NewFakeClock(),
		Log:     log,
		Metrics: metrics,
	})
	t.Cleanup(func() { _ = cache.Close(context.Background()) })

	repo := ordering.NewCollectionRepo(db, log)
	seq := aggregates.NewSequencer(aggregates.SequencerDeps{
		BaseDeps: aggregates.BaseDeps{DB: db, Log: log, Hooks: aggregates.NewObservabilityHooks(metrics)},
		Store:    repo,
	})

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	authSvc, err := auth.NewAuthService(log, auth.Config{JWTSecretKey: "router-test", PasswordHash: string(hash)})
	if err != nil {
		t.Fatalf("auth: %v", err)
	}

	r := NewRouter(RouterConfig{
		Log:               log,
		Metrics:           metrics,
		AuthHandler:       httpH.NewAuthHandler(authSvc),
		AuthMiddleware:    httpMW.NewAuthMiddleware(log, authSvc),
		StatisticsHandler: httpH.NewStatisticsHandler(cache),
		CollectionHandler: httpH.NewCollectionHandler(collections.NewService(log, seq, repo, cache, nil)),
		HealthHandler:     httpH.NewHealthHandler(nil),
	})
	return harness{router: r, meals: meals, cache: cache}
}

func (h harness) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func (h harness) login(t *testing.T) string {
	t.Helper()
	rec := h.do(t, http.MethodPost, "/api/admin/login", "", map[string]string{"password": adminPassword})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: want=%d got=%d body=%s", http.StatusOK, rec.Code, rec.Body.String())
	}
	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	return out.AccessToken
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) response.APIError {
	t.Helper()
	var env response.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode error: %v (%s)", err, rec.Body.String())
	}
	return env.Error
}

func TestHealthcheckIsPublic(t *testing.T) {
	h := newHarness(t)
	if rec := h.do(t, http.MethodGet, "/healthcheck", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("healthcheck: want=%d got=%d", http.StatusOK, rec.Code)
	}
	if rec := h.do(t, http.MethodGet, "/metrics", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("metrics: want=%d got=%d", http.StatusOK, rec.Code)
	}
}

func TestAdminRoutesRequireToken(t *testing.T) {
	h := newHarness(t)
	rec := h.do(t, http.MethodGet, "/api/admin/statistics", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("want=%d got=%d", http.StatusUnauthorized, rec.Code)
	}
	rec = h.do(t, http.MethodGet, "/api/admin/statistics", "bogus", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bogus token: want=%d got=%d", http.StatusUnauthorized, rec.Code)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	h := newHarness(t)
	rec := h.do(t, http.MethodPost, "/api/admin/login", "", map[string]string{"password": "nope"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("want=%d got=%d", http.StatusUnauthorized, rec.Code)
	}
	if got := decodeError(t, rec).Code; got != "invalid_credentials" {
		t.Fatalf("code: want=invalid_credentials got=%s", got)
	}
}

func TestGetStatistics(t *testing.T) {
	h := newHarness(t)
	token := h.login(t)

	rec := h.do(t, http.MethodGet, "/api/admin/statistics", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("want=%d got=%d body=%s", http.StatusOK, rec.Code, rec.Body.String())
	}
	var snap domainstats.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.Version != 1 || snap.TotalGuests != 3 || snap.RespondedGuests != 2 || snap.AttendingGuests != 1 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if got := snap.MealStats[h.meals[1].String()].Count; got != 1 {
		t.Fatalf("fish count: want=1 got=%d", got)
	}

	// fresh within TTL
	rec = h.do(t, http.MethodGet, "/api/admin/statistics", token, nil)
	_ = json.Unmarshal(rec.Body.Bytes(), &snap)
	if snap.Version != 1 {
		t.Fatalf("cached version: want=1 got=%d", snap.Version)
	}

	rec = h.do(t, http.MethodGet, "/api/admin/statistics?refresh=1", token, nil)
	_ = json.Unmarshal(rec.Body.Bytes(), &snap)
	if snap.Version != 2 {
		t.Fatalf("forced refresh version: want=2 got=%d", snap.Version)
	}

	rec = h.do(t, http.MethodGet, "/api/admin/statistics/status", token, nil)
	var st stats.CacheStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if st.Version != 2 || st.InProgress || st.Stale {
		t.Fatalf("unexpected status: %+v", st)
	}
}

func TestReorderCollection(t *testing.T) {
	h := newHarness(t)
	token := h.login(t)
	want := []uuid.UUID{h.meals[1], h.meals[0], h.meals[2]}

	if rec := h.do(t, http.MethodGet, "/api/admin/statistics", token, nil); rec.Code != http.StatusOK {
		t.Fatalf("prime statistics: want=%d got=%d", http.StatusOK, rec.Code)
	}
	if h.cache.Status().Stale {
		t.Fatalf("statistics should be fresh after priming")
	}

	rec := h.do(t, http.MethodPut, "/api/admin/collections/mealOptions/order", token, map[string]any{"ids": want})
	if rec.Code != http.StatusOK {
		t.Fatalf("want=%d got=%d body=%s", http.StatusOK, rec.Code, rec.Body.String())
	}
	if !h.cache.Status().Stale {
		t.Fatalf("reorder should invalidate statistics")
	}

	rec = h.do(t, http.MethodGet, "/api/admin/collections/mealOptions", token, nil)
	var out struct {
		Items []ordering.Item `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(out.Items) != len(want) {
		t.Fatalf("items: want=%d got=%d", len(want), len(out.Items))
	}
	for i, it := range out.Items {
		if it.ID != want[i] {
			t.Fatalf("position %d: want=%s got=%s", i, want[i], it.ID)
		}
	}
}

func TestReorderErrors(t *testing.T) {
	h := newHarness(t)
	token := h.login(t)
	stranger := uuid.New()

	rec := h.do(t, http.MethodPut, "/api/admin/collections/mealOptions/order", token, map[string]any{"ids": []uuid.UUID{h.meals[0], stranger}})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown id: want=%d got=%d", http.StatusNotFound, rec.Code)
	}
	if apiErr := decodeError(t, rec); apiErr.Code != "not_found" || apiErr.FailedID != stranger.String() {
		t.Fatalf("unexpected error body: %+v", apiErr)
	}

	rec = h.do(t, http.MethodPut, "/api/admin/collections/playlist/order", token, map[string]any{"ids": []uuid.UUID{h.meals[0]}})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown collection: want=%d got=%d", http.StatusBadRequest, rec.Code)
	}

	rec = h.do(t, http.MethodPut, "/api/admin/collections/mealOptions/order", token, map[string]any{"ids": []string{"not-a-uuid"}})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad uuid: want=%d got=%d", http.StatusBadRequest, rec.Code)
	}
	if apiErr := decodeError(t, rec); apiErr.FailedID != "not-a-uuid" {
		t.Fatalf("failed id: want=not-a-uuid got=%q", apiErr.FailedID)
	}
}

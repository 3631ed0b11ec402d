package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"staybook/internal/model"
	"staybook/internal/service"
	"staybook/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	router *gin.Engine
	store  *testutil.MemoryStore
	llm    *testutil.FakeCompleter
	idp    *testutil.FakeIdentity
	user   *model.User
	token  string
}

func strPtr(s string) *string      { return &s }
func floatPtr(f float64) *float64 { return &f }

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := testutil.NewMemoryStore()
	now := time.Now()
	store.Categories = []model.Category{{ID: "cat-apt", Name: "Apartment"}}
	store.Facilities = []model.Facility{{ID: "f-pool", Name: "Pool"}}
	store.Properties = []model.Property{
		{ID: "p1", Title: "Lekki Loft", Location: strPtr("Lagos"), CategoryID: strPtr("cat-apt"), PricePerNight: floatPtr(4000), CreatedAt: now},
		{ID: "p2", Title: "Osu Flat", Location: strPtr("Accra"), CategoryID: strPtr("cat-apt"), PricePerNight: floatPtr(2500), CreatedAt: now.Add(-time.Hour)},
	}
	store.PropertyFacilities["p1"] = []string{"f-pool"}
	store.Images["p1"] = []testutil.Image{{URL: "https://img/p1.jpg", CreatedAt: now}}
	store.Reviews["p1"] = []model.Review{{PropertyID: "p1", Rating: 4, CreatedAt: now}, {PropertyID: "p1", Rating: 5, CreatedAt: now}}
	store.Hotels = []model.Hotel{{ID: "h1", Name: "Eko Hotel"}}

	llm := &testutil.FakeCompleter{Reply: `{"location":"Lagos","must_have":["pool"]}`}
	idp := testutil.NewFakeIdentity()
	user, token := idp.AddUser("ada@example.com", "secret1")

	enricher := service.NewEnricher(store, 4)
	authService := service.NewAuthService(idp, "")

	router := gin.New()
	RegisterRoutes(router, Handlers{
		Search:   NewSearchHandler(service.NewSearchService(service.NewQueryInterpreter(llm), store, enricher, time.Second)),
		Property: NewPropertyHandler(service.NewPropertyService(store, enricher)),
		Booking:  NewBookingHandler(service.NewBookingService(store)),
		Hotel:    NewHotelHandler(service.NewHotelService(store)),
		Auth:     NewAuthHandler(authService),
		Require:  AuthRequired(authService),
	})

	return &testEnv{router: router, store: store, llm: llm, idp: idp, user: user, token: token}
}

func (e *testEnv) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestAIRecommendations(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/ai-recommendations", gin.H{"query": "Lagos place with a pool"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	listings := decode[[]map[string]any](t, w)
	require.Len(t, listings, 1)
	assert.Equal(t, "p1", listings[0]["id"])
	assert.Equal(t, "Apartment", listings[0]["category"])
	assert.Equal(t, "https://img/p1.jpg", listings[0]["thumbnail"])
	assert.Equal(t, 4.5, listings[0]["average_rating"])
}

func TestAIRecommendations_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		reply      string
		wantStatus int
		wantCalls  int
	}{
		{name: "empty query", body: gin.H{"query": "   "}, wantStatus: http.StatusBadRequest},
		{name: "missing query", body: gin.H{}, wantStatus: http.StatusBadRequest},
		{name: "malformed reply", body: gin.H{"query": "villa"}, reply: "no json here", wantStatus: http.StatusInternalServerError, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			if tt.reply != "" {
				env.llm.Reply = tt.reply
			}

			w := env.do(http.MethodPost, "/api/ai-recommendations", tt.body, "")
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.NotEmpty(t, decode[map[string]string](t, w)["error"])
			assert.Len(t, env.llm.Calls(), tt.wantCalls)
		})
	}
}

func TestListProperties(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/properties?search=accra", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	listings := decode[[]map[string]any](t, w)
	require.Len(t, listings, 1)
	assert.Equal(t, "p2", listings[0]["id"])
	assert.Nil(t, listings[0]["average_rating"])
	assert.Contains(t, listings[0], "thumbnail")

	env.store.FailOn["FindProperties"] = true
	w = env.do(http.MethodGet, "/api/properties", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetProperty(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/properties/p1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode[model.PropertyDetail](t, w)
	assert.Equal(t, "Lekki Loft", detail.Property.Title)
	assert.Equal(t, []string{"Pool"}, detail.Facilities)
	assert.Len(t, detail.Reviews, 2)

	w = env.do(http.MethodGet, "/api/properties/missing", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCategoriesAndHotels(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/categories", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []model.Category{{ID: "cat-apt", Name: "Apartment"}}, decode[[]model.Category](t, w))

	w = env.do(http.MethodGet, "/api/hotels", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]model.Hotel](t, w), 1)

	env.store.FailOn["ListHotels"] = true
	w = env.do(http.MethodGet, "/api/hotels", nil, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestAuthRequired(t *testing.T) {
	env := newTestEnv(t)
	booking := gin.H{"property_id": "p1", "check_in": "2024-06-01", "check_out": "2024-06-03", "guests": 2, "amount_paid": 8000}

	w := env.do(http.MethodPost, "/api/book", booking, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Missing authorization header", decode[map[string]string](t, w)["error"])

	w = env.do(http.MethodPost, "/api/book", booking, "forged")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid or expired token", decode[map[string]string](t, w)["error"])
}

func TestBookAndPay(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/book", gin.H{
		"property_id": "p1", "check_in": "2024-06-01", "check_out": "2024-06-03", "guests": 2, "amount_paid": 8000,
	}, env.token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	bookings := decode[[]model.Booking](t, w)
	require.Len(t, bookings, 1)
	assert.Equal(t, env.user.ID, bookings[0].UserID)
	assert.Equal(t, "paid", bookings[0].PaymentStatus)

	w = env.do(http.MethodGet, "/api/bookings/"+env.user.ID, nil, env.token)
	require.Equal(t, http.StatusOK, w.Code)
	var listed struct {
		Bookings []map[string]any `json:"bookings"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed.Bookings, 1)
	assert.Equal(t, "Lekki Loft", listed.Bookings[0]["bnbName"])
	assert.Equal(t, "https://img/p1.jpg", listed.Bookings[0]["imageUrl"])
	assert.Equal(t, 8000.0, listed.Bookings[0]["price"])

	w = env.do(http.MethodGet, "/api/bookings/someone-else", nil, env.token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(http.MethodPost, "/api/payments/process", gin.H{
		"booking_id": bookings[0].ID, "payment_method": "card", "amount": 8000,
	}, env.token)
	require.Equal(t, http.StatusOK, w.Code)
	result := decode[model.PaymentResult](t, w)
	assert.True(t, result.Success)
	assert.Equal(t, "confirmed", result.BookingStatus)

	w = env.do(http.MethodPost, "/api/payments/process", gin.H{
		"booking_id": "missing", "payment_method": "card", "amount": 1,
	}, env.token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBook_Invalid(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/book", gin.H{
		"property_id": "p1", "check_in": "2024-06-03", "check_out": "2024-06-01", "guests": 2,
	}, env.token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, env.store.Bookings)
}

func TestBookAndPay_AmountRequired(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/book", gin.H{
		"property_id": "p1", "check_in": "2024-06-01", "check_out": "2024-06-03", "guests": 2,
	}, env.token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, env.store.Bookings)

	w = env.do(http.MethodPost, "/api/book", gin.H{
		"property_id": "p1", "check_in": "2024-06-01", "check_out": "2024-06-03", "guests": 2, "amount_paid": 0,
	}, env.token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	bookings := decode[[]model.Booking](t, w)
	require.Len(t, bookings, 1)

	w = env.do(http.MethodPost, "/api/payments/process", gin.H{
		"booking_id": bookings[0].ID, "payment_method": "card",
	}, env.token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, env.store.Payments)
}

func TestCreateProperty(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/properties", gin.H{
		"title":          "Garden Cottage",
		"location":       "Ibadan",
		"gallery_images": []string{"https://img/c.jpg"},
		"facility_ids":   []string{"f-pool"},
	}, env.token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resp := decode[model.CreatePropertyResponse](t, w)
	assert.Equal(t, "Property created", resp.Message)

	created, err := env.store.GetProperty(context.Background(), resp.PropertyID)
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, env.user.ID, *created.OwnerID)

	w = env.do(http.MethodPost, "/api/properties", gin.H{"location": "Ibadan"}, env.token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthRoutes(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodPost, "/api/auth/signup", gin.H{"email": "bola@example.com", "password": "hunter22", "fullName": "Bola"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	signed := decode[model.AuthResult](t, w)
	assert.Equal(t, "success", signed.Status)
	require.NotNil(t, signed.Session)

	w = env.do(http.MethodPost, "/api/auth/signup", gin.H{"email": "not-an-email", "password": "hunter22"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "error", decode[map[string]string](t, w)["status"])

	w = env.do(http.MethodPost, "/api/auth/login", gin.H{"email": "bola@example.com", "password": "wrong"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid login credentials", decode[map[string]string](t, w)["error"])

	w = env.do(http.MethodPut, "/api/auth/submit-kyc", gin.H{"idType": "passport", "idNumber": "A1", "address": "Lagos"}, signed.Session.AccessToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	kyc := decode[model.UserResult](t, w)
	assert.Equal(t, "passport", kyc.User.UserMetadata["idType"])

	w = env.do(http.MethodPut, "/api/auth/update-user", gin.H{"user_metadata": gin.H{"phone": "+234"}}, env.token)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodPut, "/api/auth/update-user", gin.H{}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

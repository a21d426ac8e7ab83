package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"thelife/game"
	"thelife/models"
)

type testServer struct {
	players     *MockPlayerService
	confinement *MockConfinementService
	crimes      *MockCrimeService
	combat      *MockCombatService
	market      *MockMarketService
	handler     http.Handler
}

func newTestServer(limiter Limiter) *testServer {
	ts := &testServer{
		players:     new(MockPlayerService),
		confinement: new(MockConfinementService),
		crimes:      new(MockCrimeService),
		combat:      new(MockCombatService),
		market:      new(MockMarketService),
	}
	ts.handler = New(Services{
		Players:     ts.players,
		Confinement: ts.confinement,
		Crimes:      ts.crimes,
		Combat:      ts.combat,
		Market:      ts.market,
	}, limiter).Handler()
	return ts
}

func (ts *testServer) do(method, path string, player uuid.UUID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if player != uuid.Nil {
		req.Header.Set(PlayerHeader, player.String())
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

type response struct {
	Player  map[string]any `json:"player"`
	Outcome map[string]any `json:"outcome"`
	Error   *errorBody     `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) response {
	t.Helper()
	var out response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestServer_RequiresPlayerHeader(t *testing.T) {
	ts := newTestServer(nil)

	rec := ts.do(http.MethodPost, "/v1/crimes/1/attempt", uuid.Nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/v1/state", nil)
	req.Header.Set(PlayerHeader, "not-a-uuid")
	rec = httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServer_AttemptCrime(t *testing.T) {
	ts := newTestServer(nil)
	playerID := uuid.New()
	player := &models.Player{ID: playerID, Cash: 650}

	ts.crimes.On("AttemptCrime", mock.Anything, playerID, int64(3)).
		Return(player, &models.CrimeOutcome{CrimeID: 3, Success: true, Reward: 150}, nil)

	rec := ts.do(http.MethodPost, "/v1/crimes/3/attempt", playerID, "")

	require.Equal(t, http.StatusOK, rec.Code)
	out := decode(t, rec)
	assert.Nil(t, out.Error)
	assert.Equal(t, float64(650), out.Player["cash"])
	assert.Equal(t, true, out.Outcome["success"])
	assert.Equal(t, float64(150), out.Outcome["reward"])
}

func TestServer_ErrorStatuses(t *testing.T) {
	tests := []struct {
		err    error
		status int
		kind   string
	}{
		{fmt.Errorf("%w: jailed for another 20 minutes", game.ErrConfined), http.StatusConflict, "Confined"},
		{game.ErrAlreadyExists, http.StatusConflict, "AlreadyExists"},
		{game.ErrConcurrentModification, http.StatusConflict, "ConcurrentModification"},
		{fmt.Errorf("%w: need $100, have $5", game.ErrInsufficientFunds), http.StatusPaymentRequired, "InsufficientFunds"},
		{game.ErrNotFound, http.StatusNotFound, "NotFound"},
		{game.ErrInsufficientResource, http.StatusUnprocessableEntity, "InsufficientResource"},
		{game.ErrBelowLevelRequirement, http.StatusUnprocessableEntity, "BelowLevelRequirement"},
		{game.ErrNotReady, http.StatusUnprocessableEntity, "NotReady"},
		{fmt.Errorf("connection reset"), http.StatusInternalServerError, "Internal"},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			ts := newTestServer(nil)
			playerID := uuid.New()
			ts.crimes.On("AttemptCrime", mock.Anything, playerID, int64(1)).Return(nil, nil, tt.err)

			rec := ts.do(http.MethodPost, "/v1/crimes/1/attempt", playerID, "")

			assert.Equal(t, tt.status, rec.Code)
			out := decode(t, rec)
			require.NotNil(t, out.Error)
			assert.Equal(t, tt.kind, out.Error.Kind)
		})
	}
}

func TestServer_ConfinedResponseCarriesPlayer(t *testing.T) {
	ts := newTestServer(nil)
	playerID := uuid.New()
	jailUntil := time.Date(2024, 3, 1, 12, 20, 0, 0, time.UTC)
	player := &models.Player{ID: playerID, Cash: 75, JailUntil: &jailUntil}
	ts.crimes.On("AttemptCrime", mock.Anything, playerID, int64(1)).
		Return(player, nil, fmt.Errorf("%w: jailed for another 20 minutes", game.ErrConfined))

	rec := ts.do(http.MethodPost, "/v1/crimes/1/attempt", playerID, "")

	require.Equal(t, http.StatusConflict, rec.Code)
	out := decode(t, rec)
	require.NotNil(t, out.Error)
	assert.Equal(t, "Confined", out.Error.Kind)
	require.NotNil(t, out.Player)
	assert.Equal(t, float64(75), out.Player["cash"])
	assert.Equal(t, "2024-03-01T12:20:00Z", out.Player["jail_until"])
	assert.Nil(t, out.Outcome)
}

func TestServer_InternalErrorsAreNotEchoed(t *testing.T) {
	ts := newTestServer(nil)
	playerID := uuid.New()
	ts.crimes.On("AttemptCrime", mock.Anything, playerID, int64(1)).
		Return(&models.Player{ID: playerID}, nil, fmt.Errorf("pq: password authentication failed"))

	rec := ts.do(http.MethodPost, "/v1/crimes/1/attempt", playerID, "")

	out := decode(t, rec)
	require.NotNil(t, out.Error)
	assert.Equal(t, "internal error", out.Error.Message)
	assert.Nil(t, out.Player)
}

func TestServer_BadPathID(t *testing.T) {
	ts := newTestServer(nil)

	rec := ts.do(http.MethodPost, "/v1/crimes/abc/attempt", uuid.New(), "")

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	ts.crimes.AssertNotCalled(t, "AttemptCrime", mock.Anything, mock.Anything, mock.Anything)
}

func TestServer_Attack(t *testing.T) {
	ts := newTestServer(nil)
	attacker, defender := uuid.New(), uuid.New()
	ts.combat.On("Attack", mock.Anything, attacker, defender).
		Return(&models.Player{ID: attacker}, &models.AttackOutcome{DefenderID: defender, Won: true, CashStolen: 100}, nil)

	rec := ts.do(http.MethodPost, "/v1/players/"+defender.String()+"/attack", attacker, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(100), decode(t, rec).Outcome["cash_stolen"])
}

func TestServer_Escape(t *testing.T) {
	ts := newTestServer(nil)
	playerID := uuid.New()
	ts.confinement.On("EscapeWithBribe", mock.Anything, playerID).
		Return(&models.Player{ID: playerID}, &models.EscapeOutcome{Method: "bribe", Percentage: 11, Amount: 1100}, nil)

	rec := ts.do(http.MethodPost, "/v1/jail/escape", playerID, `{"method":"bribe"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1100), decode(t, rec).Outcome["amount"])

	rec = ts.do(http.MethodPost, "/v1/jail/escape", playerID, `{"method":"tunnel"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	ts.confinement.AssertNotCalled(t, "EscapeWithItem", mock.Anything, mock.Anything)
}

func TestServer_Treat(t *testing.T) {
	ts := newTestServer(nil)
	playerID := uuid.New()
	ts.confinement.On("PayHospitalFee", mock.Anything, playerID, game.TreatmentSurgery).
		Return(&models.Player{ID: playerID}, &models.TreatmentOutcome{Treatment: "surgery", Fee: 200, HPRestored: 60}, nil)

	rec := ts.do(http.MethodPost, "/v1/hospital/treat", playerID, `{"treatment":"surgery"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(200), decode(t, rec).Outcome["fee"])
}

func TestServer_UnknownBodyFieldsRejected(t *testing.T) {
	ts := newTestServer(nil)

	rec := ts.do(http.MethodPost, "/v1/bank/deposit", uuid.New(), `{"amount": 5, "from": "bank"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	ts.players.AssertNotCalled(t, "DepositBank", mock.Anything, mock.Anything, mock.Anything)
}

func TestServer_ShipDock(t *testing.T) {
	ts := newTestServer(nil)
	playerID := uuid.New()
	ts.market.On("ShipDock", mock.Anything, playerID, int64(5), int64(10)).
		Return(&models.Player{ID: playerID}, &models.DockShipment{BoatID: 5, Quantity: 10, Payout: 800}, nil)

	rec := ts.do(http.MethodPost, "/v1/market/dock/5/ship", playerID, `{"quantity":10}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(800), decode(t, rec).Outcome["payout"])
}

func TestServer_LedgerPassesLimit(t *testing.T) {
	ts := newTestServer(nil)
	playerID := uuid.New()
	ts.players.On("LedgerHistory", mock.Anything, playerID, 5).Return([]*models.LedgerHistory{}, nil)

	rec := ts.do(http.MethodGet, "/v1/ledger?limit=5", playerID, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	ts.players.AssertExpectations(t)
}

type denyAfter struct {
	allowed int
	calls   int
	err     error
}

func (d *denyAfter) Allow(_ context.Context, _ string) (bool, error) {
	d.calls++
	return d.calls <= d.allowed, d.err
}

func TestServer_RateLimit(t *testing.T) {
	ts := newTestServer(&denyAfter{allowed: 1})
	playerID := uuid.New()
	ts.crimes.On("AttemptCrime", mock.Anything, playerID, int64(1)).
		Return(&models.Player{ID: playerID}, &models.CrimeOutcome{}, nil)

	first := ts.do(http.MethodPost, "/v1/crimes/1/attempt", playerID, "")
	second := ts.do(http.MethodPost, "/v1/crimes/1/attempt", playerID, "")

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	ts.crimes.AssertNumberOfCalls(t, "AttemptCrime", 1)

	// reads are not limited
	ts.crimes.On("ListCrimes", mock.Anything, playerID).Return([]*models.CrimeOption{}, nil)
	assert.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/v1/crimes", playerID, "").Code)
}

func TestServer_HealthAndMetrics(t *testing.T) {
	ts := newTestServer(nil)

	assert.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/healthz", uuid.Nil, "").Code)
	assert.Equal(t, http.StatusOK, ts.do(http.MethodGet, "/metrics", uuid.Nil, "").Code)
}

func TestLocalLimiter(t *testing.T) {
	l := NewLocalLimiter(2, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := l.Allow(ctx, "a")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, _ := l.Allow(ctx, "a")
	assert.False(t, ok)

	ok, _ = l.Allow(ctx, "b")
	assert.True(t, ok, "keys have separate buckets")
}

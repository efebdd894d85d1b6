package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alexiusacademia/gobatten/internal/config"
	"github.com/alexiusacademia/gobatten/internal/profile"
	"gonum.org/v1/gonum/floats/scalar"
)

func newTestServer(t *testing.T, key []byte) *Server {
	t.Helper()
	store := profile.NewFileStore(filepath.Join(t.TempDir(), "profiles.json"))
	return New(store, &config.Config{TokenKey: key, Rate: 1000, Burst: 1000})
}

func do(t *testing.T, h http.Handler, method, path, body string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestForward(t *testing.T) {
	h := newTestServer(t, nil).Handler()
	rec := do(t, h, "POST", "/api/forward", `{"stiffness":[2,2],"load_n":10,"length_m":2}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	var resp forwardResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	want := 10.0 * 8 / (48 * 2)
	if len(resp.Deflections) != 1 || !scalar.EqualWithinRel(resp.Deflections[0], want, 1e-9) {
		t.Errorf("deflections %v, want [%g]", resp.Deflections, want)
	}
}

func TestBadRequests(t *testing.T) {
	h := newTestServer(t, nil).Handler()
	tests := []struct {
		name, path, body string
	}{
		{"malformed json", "/api/forward", `{`},
		{"unknown field", "/api/forward", `{"stiff":[1]}`},
		{"degenerate beam", "/api/forward", `{"stiffness":[2,-1],"load_n":10,"length_m":2}`},
		{"too many segments", "/api/forward", `{"stiffness":[2,2,2,2,2],"load_n":10,"length_m":2}`},
		{"segment count", "/api/calibrate", `{"weight_kg":2,"length_mm":2000,"deflections_mm":[28],"segments":5}`},
		{"unknown method", "/api/calibrate", `{"weight_kg":2,"length_mm":2000,"deflections_mm":[28],"segments":2,"method":"bfgs"}`},
		{"negative segment", "/api/composite", `{"segments":[{"length_mm":-1,"ei_nm2":2}]}`},
		{"negative weight", "/api/test", `{"test_weight_kg":-1,"test_length_mm":2000}`},
	}
	for _, tt := range tests {
		rec := do(t, h, "POST", tt.path, tt.body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status %d, want 400", tt.name, rec.Code)
		}
	}
}

func TestCalibrateAndComposite(t *testing.T) {
	h := newTestServer(t, nil).Handler()
	rec := do(t, h, "POST", "/api/calibrate", `{"weight_kg":2,"length_mm":2000,"deflections_mm":[20,28,20],"segments":4}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("calibrate status %d: %s", rec.Code, rec.Body)
	}
	var res struct {
		Stiffness []float64 `json:"stiffness_nm2"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatal(err)
	}
	if len(res.Stiffness) != 4 {
		t.Errorf("got %d segments", len(res.Stiffness))
	}

	rec = do(t, h, "POST", "/api/composite", `{"segments":[{"length_mm":1000,"ei_nm2":2},{"length_mm":1000,"ei_nm2":2}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("composite status %d: %s", rec.Code, rec.Body)
	}
	var comp struct {
		EI float64 `json:"equivalent_ei_nm2"`
	}
	json.NewDecoder(rec.Body).Decode(&comp)
	if !scalar.EqualWithinRel(comp.EI, 2, 1e-12) {
		t.Errorf("equivalent EI %g, want 2", comp.EI)
	}
}

func TestBattenTest(t *testing.T) {
	h := newTestServer(t, nil).Handler()
	body := `{"test_weight_kg":2,"test_length_mm":2000,"self":[10,12,11],"weighted":[40,52,35]}`
	rec := do(t, h, "POST", "/api/test", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	var resp testResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Analysis.FrontPercent != 75 || len(resp.Curve) != 61 {
		t.Errorf("got %+v with %d curve points", resp.Analysis, len(resp.Curve))
	}
}

func TestReportPDF(t *testing.T) {
	h := newTestServer(t, nil).Handler()
	rec := do(t, h, "POST", "/api/report/pdf", `{"weight_kg":2,"length_mm":2000,"deflections_mm":[28],"segments":2,"project":"test"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("content type %q", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Error("body is not a PDF")
	}
}

func TestProfileLifecycle(t *testing.T) {
	h := newTestServer(t, nil).Handler()
	body := `{"name":"top","inputs":{"test_weight_kg":2,"test_length_mm":2000,"self":[10,12,11],"weighted":[40,52,35]}}`
	rec := do(t, h, "POST", "/api/profiles", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("save status %d: %s", rec.Code, rec.Body)
	}
	var saved profile.Profile
	json.NewDecoder(rec.Body).Decode(&saved)
	if saved.ID == "" {
		t.Fatal("no id assigned")
	}

	rec = do(t, h, "GET", "/api/profiles", "")
	var list []profile.Profile
	json.NewDecoder(rec.Body).Decode(&list)
	if len(list) != 1 || list[0].Name != "top" {
		t.Errorf("list %+v", list)
	}

	if rec := do(t, h, "GET", "/api/profiles/"+saved.ID, ""); rec.Code != http.StatusOK {
		t.Errorf("get status %d", rec.Code)
	}
	if rec := do(t, h, "DELETE", "/api/profiles/"+saved.ID, ""); rec.Code != http.StatusNoContent {
		t.Errorf("delete status %d", rec.Code)
	}
	if rec := do(t, h, "GET", "/api/profiles/"+saved.ID, ""); rec.Code != http.StatusNotFound {
		t.Errorf("get after delete status %d", rec.Code)
	}
	if rec := do(t, h, "POST", "/api/profiles", `{"name":"","inputs":{}}`); rec.Code != http.StatusBadRequest {
		t.Errorf("blank name status %d", rec.Code)
	}
}

func TestEmptyProfileListIsArray(t *testing.T) {
	h := newTestServer(t, nil).Handler()
	rec := do(t, h, "GET", "/api/profiles", "")
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Errorf("body %q, want []", got)
	}
}

func TestTokenGuard(t *testing.T) {
	key := []byte("secret")
	h := newTestServer(t, key).Handler()
	body := `{"name":"top","inputs":{"test_weight_kg":2,"test_length_mm":2000}}`

	if rec := do(t, h, "POST", "/api/profiles", body); rec.Code != http.StatusUnauthorized {
		t.Errorf("no token: status %d", rec.Code)
	}
	if rec := do(t, h, "POST", "/api/profiles", body, "Authorization", "Bearer junk"); rec.Code != http.StatusUnauthorized {
		t.Errorf("bad token: status %d", rec.Code)
	}
	other, _ := IssueToken([]byte("other"), "loft", time.Hour)
	if rec := do(t, h, "POST", "/api/profiles", body, "Authorization", "Bearer "+other); rec.Code != http.StatusUnauthorized {
		t.Errorf("foreign token: status %d", rec.Code)
	}
	expired, _ := IssueToken(key, "loft", -time.Minute)
	if rec := do(t, h, "POST", "/api/profiles", body, "Authorization", "Bearer "+expired); rec.Code != http.StatusUnauthorized {
		t.Errorf("expired token: status %d", rec.Code)
	}

	token, err := IssueToken(key, "loft", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if rec := do(t, h, "POST", "/api/profiles", body, "Authorization", "Bearer "+token); rec.Code != http.StatusCreated {
		t.Errorf("valid token: status %d: %s", rec.Code, rec.Body)
	}
	// reads stay open
	if rec := do(t, h, "GET", "/api/profiles", ""); rec.Code != http.StatusOK {
		t.Errorf("list: status %d", rec.Code)
	}
}

func TestIssueTokenNeedsKey(t *testing.T) {
	if _, err := IssueToken(nil, "x", time.Hour); err == nil {
		t.Error("expected error for empty key")
	}
}

func TestRateLimit(t *testing.T) {
	store := profile.NewFileStore(filepath.Join(t.TempDir(), "profiles.json"))
	h := New(store, &config.Config{Rate: 0.001, Burst: 2}).Handler()
	codes := make([]int, 3)
	for i := range codes {
		codes[i] = do(t, h, "GET", "/api/profiles", "").Code
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes %v, want [200 200 429]", codes)
	}
}

func TestLimiterSweepDropsIdleClients(t *testing.T) {
	l := NewIPRateLimiter(10, 1)
	clock := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return clock }

	h := l.LimitMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	for i := 0; i < 100; i++ {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = fmt.Sprintf("10.0.%d.%d:1234", i/256, i%256)
		h.ServeHTTP(httptest.NewRecorder(), req)
	}
	if n := l.Len(); n != 100 {
		t.Fatalf("tracking %d clients, want 100", n)
	}

	clock = clock.Add(5 * time.Minute)
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.0:1234"
	h.ServeHTTP(httptest.NewRecorder(), req)

	clock = clock.Add(6 * time.Minute)
	if n := l.Sweep(10 * time.Minute); n != 99 {
		t.Errorf("swept %d clients, want 99", n)
	}
	if n := l.Len(); n != 1 {
		t.Errorf("%d clients left, want 1", n)
	}
}

func TestCORSPreflight(t *testing.T) {
	h := newTestServer(t, nil).Handler()
	rec := do(t, h, "OPTIONS", "/api/forward", "")
	if rec.Code != http.StatusNoContent || rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("status %d headers %v", rec.Code, rec.Header())
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	s := newTestServer(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, "127.0.0.1:0") }()
	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

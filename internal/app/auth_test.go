package app

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sar-ops/rosterd/internal/config"
	"github.com/sar-ops/rosterd/internal/models"
)

func testApp() *App {
	gin.SetMode(gin.TestMode)
	return &App{Cfg: &config.Config{JWTSecret: "test-secret", TokenTTL: time.Hour}}
}

func authRouter(a *App) *gin.Engine {
	r := gin.New()
	r.GET("/whoami", a.requireAuth(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.POST("/admin", a.requireAuth(), a.requireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func TestTokenRoundTrip(t *testing.T) {
	a := testApp()
	token, err := a.issueToken(&models.Account{ID: 7, Role: models.RoleAdmin})
	if err != nil {
		t.Fatal(err)
	}
	cl, err := a.parseToken(token)
	if err != nil {
		t.Fatal(err)
	}
	if cl.Subject != "7" || cl.Role != "admin" {
		t.Fatalf("claims: %#v", cl)
	}
}

func TestRequireAuth(t *testing.T) {
	a := testApp()
	r := authRouter(a)

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"garbage", "Bearer not.a.token", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.want {
				t.Errorf("got %d, want %d", w.Code, tc.want)
			}
		})
	}

	token, err := a.issueToken(&models.Account{ID: 1, Role: models.RoleViewer})
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("valid token rejected: %d", w.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	a := testApp()
	r := authRouter(a)

	viewer, err := a.issueToken(&models.Account{ID: 2, Role: models.RoleViewer})
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+viewer)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Errorf("viewer on admin route: got %d, want 403", w.Code)
	}

	admin, err := a.issueToken(&models.Account{ID: 3, Role: models.RoleAdmin})
	if err != nil {
		t.Fatal(err)
	}
	req = httptest.NewRequest(http.MethodPost, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+admin)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Errorf("admin on admin route: got %d, want 204", w.Code)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	a := testApp()
	a.Cfg.TokenTTL = -time.Minute
	token, err := a.issueToken(&models.Account{ID: 4, Role: models.RoleAdmin})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := a.parseToken(token); err == nil {
		t.Fatal("expired token parsed without error")
	}
}

package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"

	"blog-cms/pkg/config"
)

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("test-secret"))))
	r.GET("/login/github", GithubLogin)
	r.GET("/auth/callback", AuthCallback)
	return r
}

func TestGithubLoginSetsRandomState(t *testing.T) {
	config.OauthConf = &oauth2.Config{
		ClientID: "id",
		Endpoint: oauth2.Endpoint{AuthURL: "https://github.test/authorize"},
	}
	r := newAuthRouter()

	w := doRequest(r, http.MethodGet, "/login/github", nil)
	if w.Code != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d", w.Code)
	}

	location := w.Header().Get("Location")
	if !strings.Contains(location, "state=") {
		t.Errorf("redirect without state: %q", location)
	}
	if strings.Contains(location, "state=state") {
		t.Errorf("state parameter is not random: %q", location)
	}
}

func TestAuthCallbackRejectsUnknownState(t *testing.T) {
	config.OauthConf = &oauth2.Config{
		ClientID: "id",
		Endpoint: oauth2.Endpoint{AuthURL: "https://github.test/authorize"},
	}
	r := newAuthRouter()

	// No login happened in this session, so any state is unexpected.
	w := doRequest(r, http.MethodGet, "/auth/callback?code=x&state=y", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

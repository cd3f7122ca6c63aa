package handlers

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"blog-cms/pkg/config"
)

func AuthRequired(c *gin.Context) {
	session := sessions.Default(c)
	token := session.Get("access_token")
	if token == nil {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		} else {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
		}
		return
	}
	c.Next()
}

func LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", nil)
}

func GithubLogin(c *gin.Context) {
	state := newOauthState()
	session := sessions.Default(c)
	session.Set("oauth_state", state)
	session.Save()

	url := config.OauthConf.AuthCodeURL(state, oauth2.AccessTypeOffline)
	c.Redirect(http.StatusTemporaryRedirect, url)
}

func AuthCallback(c *gin.Context) {
	session := sessions.Default(c)

	expected, _ := session.Get("oauth_state").(string)
	if expected == "" || c.Query("state") != expected {
		c.String(http.StatusBadRequest, "Invalid OAuth state")
		return
	}
	session.Delete("oauth_state")

	code := c.Query("code")
	token, err := config.OauthConf.Exchange(context.Background(), code)
	if err != nil {
		log.Error().Err(err).Msg("oauth exchange failed")
		c.String(http.StatusInternalServerError, "OAuth Exchange Failed")
		return
	}

	session.Set("access_token", token.AccessToken)
	session.Save()

	c.Redirect(http.StatusFound, "/")
}

func Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.Redirect(http.StatusFound, "/login")
}

func newOauthState() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}

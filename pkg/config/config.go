package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

var (
	RepoPath   = "./blog"
	ContentDir = "content"
	PublicPath = "./blog/public"
	PreviewURL = "/preview/"

	// External static site generator. The blog repo only promises files
	// shaped like markdown-plus-front-matter; which generator consumes them
	// is configurable.
	GeneratorCmd = "hugo"

	// Description length ceiling for the SEO lint rule.
	DescriptionMaxLen = 320

	// Git settings
	GitUserEmail = "bot@blog-cms.local"
	GitUserName  = "Blog CMS Bot"
	GitBranch    = "main"
	GitRemote    = "origin"
)

var OauthConf *oauth2.Config

func Init() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found")
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if getEnv("LOG_FORMAT", "console") == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	appURL := getEnv("APP_URL", "http://localhost:8080")
	redirectURL := getEnv("GITHUB_REDIRECT_URL", appURL+"/auth/callback")

	RepoPath = getEnv("REPO_PATH", "./blog")
	ContentDir = getEnv("CONTENT_DIR", "content")
	PublicPath = getEnv("PUBLIC_PATH", filepath.Join(RepoPath, "public"))

	GeneratorCmd = getEnv("SITE_GENERATOR", "hugo")

	GitUserEmail = getEnv("GIT_USER_EMAIL", "bot@blog-cms.local")
	GitUserName = getEnv("GIT_USER_NAME", "Blog CMS Bot")
	GitBranch = getEnv("GIT_BRANCH", "main")
	GitRemote = getEnv("GIT_REMOTE", "origin")

	if v := os.Getenv("DESCRIPTION_MAX_LEN"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			DescriptionMaxLen = n
		}
	}

	OauthConf = &oauth2.Config{
		ClientID:     os.Getenv("GITHUB_CLIENT_ID"),
		ClientSecret: os.Getenv("GITHUB_CLIENT_SECRET"),
		Scopes:       []string{"repo"},
		Endpoint:     github.Endpoint,
		RedirectURL:  redirectURL,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// ContentPath is the directory all post paths resolve under.
func ContentPath() string {
	return filepath.Join(RepoPath, ContentDir)
}

func GetAppURL() string {
	return getEnv("APP_URL", "http://localhost:8080")
}

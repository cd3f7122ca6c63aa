package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"blog-cms/pkg/config"
	"blog-cms/pkg/handlers"
)

func main() {
	config.Init()

	r := gin.Default()

	store := cookie.NewStore([]byte(os.Getenv("SESSION_SECRET")))
	r.Use(sessions.Sessions("blogcms_session", store))

	r.LoadHTMLGlob("templates/*")
	r.Static(config.PreviewURL, config.PublicPath)
	r.Static("/static", "./static")

	// --- Auth Routes ---
	r.GET("/login", handlers.LoginPage)
	r.GET("/login/github", handlers.GithubLogin)
	r.GET("/auth/callback", handlers.AuthCallback)
	r.GET("/logout", handlers.Logout)

	// --- Main App (Authorized) ---
	authorized := r.Group("/")
	authorized.Use(handlers.AuthRequired)
	{
		authorized.GET("/", func(c *gin.Context) { c.HTML(http.StatusOK, "index.html", nil) })

		api := authorized.Group("/api")
		{
			api.GET("/posts", handlers.ListPosts)
			api.GET("/post", handlers.GetPost)
			api.POST("/post", handlers.SavePost)
			api.POST("/create", handlers.CreatePost)
			api.POST("/delete", handlers.DeletePost)
			api.GET("/render", handlers.RenderPost)
			api.POST("/diff", handlers.GetDiff)

			api.GET("/lint", handlers.LintCorpus)
			api.GET("/lint/post", handlers.LintPost)

			api.GET("/tags", handlers.ListTags)
			api.GET("/tags/:tag", handlers.PostsByTag)

			api.GET("/media", handlers.ListMedia)
			api.POST("/media", handlers.UploadMedia)
			api.POST("/media/delete", handlers.DeleteMedia)
			api.GET("/media/raw", handlers.ServeMediaRaw)

			api.POST("/build", handlers.HandleBuild)
			api.POST("/sync", handlers.HandleSync)
			api.POST("/publish", handlers.HandlePublish)
			api.GET("/config", handlers.GetConfig)
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("repo", config.RepoPath).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}
	log.Info().Msg("server stopped")
}

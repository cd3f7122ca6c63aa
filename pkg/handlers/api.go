package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"blog-cms/pkg/config"
	"blog-cms/pkg/models"
	"blog-cms/pkg/services"
)

func ListPosts(c *gin.Context) {
	posts, err := services.ListPosts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list posts"})
		return
	}
	c.JSON(http.StatusOK, posts)
}

func GetPost(c *gin.Context) {
	targetPath := c.Query("path")
	post, err := services.LoadPost(targetPath)
	if err != nil {
		if os.IsNotExist(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, post)
}

func SavePost(c *gin.Context) {
	var post models.Post
	if err := c.BindJSON(&post); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	if err := services.ValidatePost(&post); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	if err := services.SavePost(&post); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Save failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "saved"})
}

func CreatePost(c *gin.Context) {
	var req struct {
		Path  string `json:"path"`
		Title string `json:"title"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if req.Path == "" || strings.Contains(req.Path, "..") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid path"})
		return
	}

	post, err := services.CreateContent(req.Path, req.Title)
	if err != nil {
		if os.IsExist(err) {
			c.JSON(http.StatusConflict, gin.H{"error": "Post already exists"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, post)
}

func DeletePost(c *gin.Context) {
	var req struct {
		Path string `json:"path"`
	}
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	if err := services.DeletePost(req.Path); err != nil {
		if os.IsNotExist(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// RenderPost previews one post the way the external generator would render
// it: HTML body, plus the heading outline when the post enables a TOC.
func RenderPost(c *gin.Context) {
	targetPath := c.Query("path")
	post, err := services.LoadPost(targetPath)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	rendered, err := services.RenderHTML([]byte(post.Body))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Render failed"})
		return
	}

	resp := gin.H{
		"path":  post.Path,
		"title": post.Title,
		"html":  string(rendered),
	}
	if post.TOC {
		resp["toc"] = services.ExtractHeadings([]byte(post.Body))
	}
	c.JSON(http.StatusOK, resp)
}

func GetDiff(c *gin.Context) {
	var post models.Post
	if err := c.BindJSON(&post); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}

	fullPath := services.SafeJoin(config.ContentPath(), "", post.Path)
	if fullPath == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid path"})
		return
	}

	savedContent, err := os.ReadFile(fullPath)
	if err != nil {
		savedContent = []byte("")
	}
	if len(savedContent) > 0 {
		if saved, err := services.ParseFrontMatter(savedContent); err == nil {
			saved.Path = post.Path
			if normalized, err := services.ConstructFileContent(saved); err == nil {
				savedContent = normalized
			}
		}
	}

	editorContent, err := services.ConstructFileContent(&post)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Construction failed"})
		return
	}

	tmpDir := os.TempDir()
	f1, err := os.CreateTemp(tmpDir, "diff_saved_*")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Diff failed"})
		return
	}
	f2, err := os.CreateTemp(tmpDir, "diff_editor_*")
	if err != nil {
		f1.Close()
		os.Remove(f1.Name())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Diff failed"})
		return
	}
	defer os.Remove(f1.Name())
	defer os.Remove(f2.Name())

	f1.Write(savedContent)
	f2.Write(editorContent)
	f1.Close()
	f2.Close()

	repoRelPath := filepath.Join(config.ContentDir, post.Path)
	diffStr, diffType := services.Diff(f1.Name(), f2.Name(), repoRelPath)
	c.JSON(http.StatusOK, gin.H{"diff": diffStr, "type": diffType})
}

func HandleBuild(c *gin.Context) {
	err, buildLog := services.BuildSite()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "log": buildLog})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "log": buildLog})
}

func HandleSync(c *gin.Context) {
	session := sessions.Default(c)
	token, _ := session.Get("access_token").(string)
	err, gitLog := services.SyncRepo(token)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "log": gitLog})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "log": gitLog})
}

func HandlePublish(c *gin.Context) {
	session := sessions.Default(c)
	token, _ := session.Get("access_token").(string)
	err, gitLog := services.PublishRepo(token)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "log": gitLog})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "log": gitLog})
}

func GetConfig(c *gin.Context) {
	cfg, err := services.GetRawSiteConfig()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse config"})
		return
	}
	c.JSON(http.StatusOK, cfg)
}

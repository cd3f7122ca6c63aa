package handlers

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"blog-cms/pkg/services"
)

// LintCorpus reports every lint finding across the content directory.
func LintCorpus(c *gin.Context) {
	issues, err := services.LintCorpus()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lint failed: " + err.Error()})
		return
	}

	errors := 0
	for _, issue := range issues {
		if issue.Severity == services.SeverityError {
			errors++
		}
	}

	if issues == nil {
		issues = []services.Issue{}
	}
	c.JSON(http.StatusOK, gin.H{
		"issues": issues,
		"errors": errors,
		"clean":  len(issues) == 0,
	})
}

// LintPost runs the single-post rules against one post. A post that exists
// but whose metadata block does not parse is a lint finding, not a 404.
func LintPost(c *gin.Context) {
	targetPath := c.Query("path")
	post, err := services.LoadPost(targetPath)
	if err != nil {
		if os.IsNotExist(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		issues := []services.Issue{{
			Path:     targetPath,
			Rule:     "invalid-front-matter",
			Severity: services.SeverityError,
			Message:  fmt.Sprintf("metadata block could not be parsed: %v", err),
		}}
		c.JSON(http.StatusOK, gin.H{"issues": issues, "clean": false})
		return
	}

	issues := services.LintPost(post)
	if issues == nil {
		issues = []services.Issue{}
	}
	c.JSON(http.StatusOK, gin.H{"issues": issues, "clean": len(issues) == 0})
}

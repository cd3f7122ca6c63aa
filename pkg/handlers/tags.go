package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"blog-cms/pkg/services"
)

func ListTags(c *gin.Context) {
	tags, err := services.ListTags()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build tag index"})
		return
	}
	if tags == nil {
		tags = []services.TagCount{}
	}
	c.JSON(http.StatusOK, tags)
}

func PostsByTag(c *gin.Context) {
	tag := c.Param("tag")
	posts, err := services.PostsByTag(tag)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list posts"})
		return
	}
	if posts == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No posts for tag"})
		return
	}
	c.JSON(http.StatusOK, posts)
}

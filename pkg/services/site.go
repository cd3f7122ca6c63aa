package services

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"blog-cms/pkg/config"
	"blog-cms/pkg/models"
)

// BuildSite invokes the external static site generator over the blog repo.
// The generator's templating and deployment pipeline stay outside this
// service; its only contract with us is accepting the content files.
func BuildSite() (error, string) {
	cmd := exec.Command(config.GeneratorCmd,
		"--source", config.RepoPath,
		"--destination", "public",
		"--baseURL", config.GetAppURL()+config.PreviewURL,
		"--cleanDestinationDir",
		"-D",
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		log.Error().Err(err).Str("generator", config.GeneratorCmd).Msg("site build failed")
	}
	return err, string(output)
}

// GetSiteConfig reads the collection schema from the blog repo.
func GetSiteConfig() (*models.SiteConfig, error) {
	configPath := filepath.Join(config.RepoPath, "static/admin/config.yml")
	content, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var cfg models.SiteConfig
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("parse site config: %w", err)
	}
	return &cfg, nil
}

// GetRawSiteConfig returns the schema as loose key-values for the editor UI.
func GetRawSiteConfig() (map[string]interface{}, error) {
	configPath := filepath.Join(config.RepoPath, "static/admin/config.yml")
	content, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var cfg map[string]interface{}
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// CreateContent scaffolds a new post at relPath, seeding the front matter
// from the matching collection's field defaults. Fails if the file exists;
// posts are authored once and revised in place, never silently replaced.
func CreateContent(relPath, title string) (*models.Post, error) {
	fullPath := SafeJoin(config.ContentPath(), "", relPath)
	if fullPath == "" {
		return nil, fmt.Errorf("invalid post path: %s", relPath)
	}
	if _, err := os.Stat(fullPath); err == nil {
		return nil, os.ErrExist
	}

	post := &models.Post{
		Path:   filepath.ToSlash(relPath),
		Title:  title,
		Format: "yaml",
	}

	if cfg, err := GetSiteConfig(); err == nil {
		if col := matchCollection(cfg, post.Path); col != nil {
			applyCollectionDefaults(post, col)
		}
	}

	if err := SavePost(post); err != nil {
		return nil, err
	}
	log.Info().Str("path", post.Path).Msg("post created")
	return post, nil
}

// matchCollection picks the collection whose folder prefixes the post path.
func matchCollection(cfg *models.SiteConfig, relPath string) *models.Collection {
	full := filepath.ToSlash(filepath.Join(config.ContentDir, relPath))
	for i := range cfg.Collections {
		folder := filepath.ToSlash(cfg.Collections[i].Folder)
		if folder != "" && strings.HasPrefix(full, folder+"/") {
			return &cfg.Collections[i]
		}
	}
	return nil
}

// applyCollectionDefaults fills the scaffolded post from field defaults.
// Known fields land on the model; anything else goes to Extra.
func applyCollectionDefaults(post *models.Post, col *models.Collection) {
	for _, field := range col.Fields {
		switch field.Name {
		case "title":
			if post.Title == "" {
				if s, ok := field.Default.(string); ok {
					post.Title = s
				}
			}
		case "description":
			if s, ok := field.Default.(string); ok {
				post.Description = s
			}
		case "toc":
			if b, ok := field.Default.(bool); ok {
				post.TOC = b
			}
		case "draft":
			if b, ok := field.Default.(bool); ok {
				post.Draft = b
			}
		case "tags":
			post.Tags = defaultTags(field.Default)
		case "body":
			if s, ok := field.Default.(string); ok {
				post.Body = s
			}
		default:
			if post.Extra == nil {
				post.Extra = make(map[string]interface{})
			}
			post.Extra[field.Name] = defaultFieldValue(field)
		}
	}
}

func defaultTags(value interface{}) []string {
	switch v := value.(type) {
	case []string:
		return normalizeTags(v)
	case []interface{}:
		tags := make([]string, 0, len(v))
		for _, t := range v {
			tags = append(tags, fmt.Sprint(t))
		}
		return normalizeTags(tags)
	default:
		return nil
	}
}

func defaultFieldValue(field models.Field) interface{} {
	if field.Default != nil {
		return sanitizeValue(field.Default)
	}
	switch field.Widget {
	case "datetime":
		return time.Now().Format(time.RFC3339)
	case "boolean":
		return false
	case "list":
		return []string{}
	default:
		return ""
	}
}

package services

import (
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"blog-cms/pkg/config"
	"blog-cms/pkg/models"
)

var (
	postCache   []models.PostSummary
	cacheMutex  sync.Mutex
	cacheLoaded bool
)

// SafeJoin resolves target under root/sub, refusing path traversal.
func SafeJoin(root, sub, target string) string {
	cleanTarget := filepath.Clean(target)
	if strings.Contains(cleanTarget, "..") || filepath.IsAbs(cleanTarget) {
		return ""
	}
	return filepath.Join(root, sub, cleanTarget)
}

// ListPosts returns cached summaries of every markdown post under the content
// directory, annotated with their git dirty state.
func ListPosts() ([]models.PostSummary, error) {
	cacheMutex.Lock()
	defer cacheMutex.Unlock()

	if cacheLoaded {
		return postCache, nil
	}

	contentDir := config.ContentPath()
	dirtyFiles, _ := getGitDirtyFiles(config.RepoPath)

	var posts []models.PostSummary
	err := filepath.WalkDir(contentDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}

		relPath, _ := filepath.Rel(contentDir, path)
		relPath = filepath.ToSlash(relPath)

		repoRelPath, _ := filepath.Rel(config.RepoPath, path)
		repoRelPath = filepath.ToSlash(repoRelPath)

		summary := models.PostSummary{
			Path:    relPath,
			Title:   relPath, // fallback when metadata is unreadable
			IsDirty: dirtyFiles[repoRelPath],
		}

		if content, err := os.ReadFile(path); err == nil {
			if post, err := ParseFrontMatter(content); err == nil {
				if post.Title != "" {
					summary.Title = post.Title
				}
				summary.Tags = post.Tags
				summary.Draft = post.Draft
			}
		}

		posts = append(posts, summary)
		return nil
	})
	if err != nil {
		return nil, err
	}

	postCache = posts
	cacheLoaded = true
	log.Debug().Int("posts", len(posts)).Msg("post cache loaded")
	return postCache, nil
}

// LoadPost reads and parses one post by its content-relative path.
func LoadPost(relPath string) (*models.Post, error) {
	fullPath := SafeJoin(config.ContentPath(), "", relPath)
	if fullPath == "" {
		return nil, fmt.Errorf("invalid post path: %s", relPath)
	}

	content, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, err
	}

	post, err := ParseFrontMatter(content)
	if err != nil {
		return nil, err
	}
	post.Path = filepath.ToSlash(relPath)
	return post, nil
}

// LoadError records a corpus file whose metadata block could not be parsed.
type LoadError struct {
	Path string
	Err  error
}

// LoadCorpus parses every post in the content directory. Files with broken
// front matter are reported separately instead of aborting the walk, so lint
// can surface them.
func LoadCorpus() ([]*models.Post, []LoadError, error) {
	summaries, err := ListPosts()
	if err != nil {
		return nil, nil, err
	}

	var posts []*models.Post
	var failures []LoadError
	for _, s := range summaries {
		post, err := LoadPost(s.Path)
		if err != nil {
			failures = append(failures, LoadError{Path: s.Path, Err: err})
			continue
		}
		post.IsDirty = s.IsDirty
		posts = append(posts, post)
	}
	return posts, failures, nil
}

// SavePost re-serializes the post and writes it back under the content root.
func SavePost(post *models.Post) error {
	fullPath := SafeJoin(config.ContentPath(), "", post.Path)
	if fullPath == "" {
		return fmt.Errorf("invalid post path: %s", post.Path)
	}

	content, err := ConstructFileContent(post)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		return err
	}

	InvalidateCache()
	return nil
}

// DeletePost removes a post file. The git history keeps the content; there is
// no soft-delete workflow.
func DeletePost(relPath string) error {
	fullPath := SafeJoin(config.ContentPath(), "", relPath)
	if fullPath == "" {
		return fmt.Errorf("invalid post path: %s", relPath)
	}
	if err := os.Remove(fullPath); err != nil {
		return err
	}
	InvalidateCache()
	return nil
}

func InvalidateCache() {
	cacheMutex.Lock()
	defer cacheMutex.Unlock()
	cacheLoaded = false
	postCache = nil
}

func getGitDirtyFiles(dir string) (map[string]bool, error) {
	cmd := exec.Command("git", "status", "--porcelain")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return nil, err
	}
	return parseGitStatus(string(out)), nil
}

// parseGitStatus reads `git status --porcelain` output. Rename entries
// report "old -> new"; the new path is the dirty one.
func parseGitStatus(out string) map[string]bool {
	dirty := make(map[string]bool)
	for _, line := range strings.Split(out, "\n") {
		if len(line) < 4 {
			continue
		}
		path := strings.TrimSpace(line[3:])
		if _, after, ok := strings.Cut(path, " -> "); ok {
			path = after
		}
		path = strings.Trim(path, "\"")
		dirty[path] = true
	}
	return dirty
}

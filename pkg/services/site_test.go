package services

import (
	"os"
	"path/filepath"
	"testing"

	"blog-cms/pkg/config"
)

const testSiteConfig = `media_folder: static/images
public_folder: /images
collections:
  - name: posts
    label: Posts
    folder: content/posts
    extension: md
    fields:
      - {name: title, widget: string}
      - {name: description, widget: string, default: ""}
      - {name: toc, widget: boolean, default: true}
      - {name: draft, widget: boolean, default: true}
      - {name: tags, widget: list}
      - {name: date, widget: datetime}
      - {name: body, widget: markdown}
`

func writeSiteConfig(t *testing.T) {
	t.Helper()
	adminDir := filepath.Join(config.RepoPath, "static/admin")
	if err := os.MkdirAll(adminDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(adminDir, "config.yml"), []byte(testSiteConfig), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestGetSiteConfig(t *testing.T) {
	setupTestRepo(t, nil)
	writeSiteConfig(t)

	cfg, err := GetSiteConfig()
	if err != nil {
		t.Fatalf("GetSiteConfig: %v", err)
	}
	if cfg.MediaFolder != "static/images" {
		t.Errorf("MediaFolder = %q", cfg.MediaFolder)
	}
	if len(cfg.Collections) != 1 || cfg.Collections[0].Name != "posts" {
		t.Errorf("Collections = %#v", cfg.Collections)
	}
}

func TestCreateContentScaffoldsFromCollection(t *testing.T) {
	setupTestRepo(t, nil)
	writeSiteConfig(t)

	post, err := CreateContent("posts/new-essay.md", "A New Essay")
	if err != nil {
		t.Fatalf("CreateContent: %v", err)
	}

	if post.Title != "A New Essay" {
		t.Errorf("Title = %q", post.Title)
	}
	if !post.TOC || !post.Draft {
		t.Errorf("collection defaults not applied: toc=%v draft=%v", post.TOC, post.Draft)
	}
	if _, ok := post.Extra["date"]; !ok {
		t.Errorf("datetime field missing from Extra: %#v", post.Extra)
	}

	// The scaffold must be readable back as a normal post.
	loaded, err := LoadPost("posts/new-essay.md")
	if err != nil {
		t.Fatalf("LoadPost: %v", err)
	}
	if loaded.Title != "A New Essay" || !loaded.Draft {
		t.Errorf("reloaded scaffold = %#v", loaded)
	}
}

func TestCreateContentRefusesExisting(t *testing.T) {
	setupTestRepo(t, map[string]string{
		"posts/existing.md": "---\ntitle: X\n---\nbody\n",
	})
	writeSiteConfig(t)

	if _, err := CreateContent("posts/existing.md", "X"); !os.IsExist(err) {
		t.Errorf("expected already-exists error, got %v", err)
	}
}

func TestCreateContentWithoutSiteConfig(t *testing.T) {
	setupTestRepo(t, nil)

	post, err := CreateContent("posts/bare.md", "Bare")
	if err != nil {
		t.Fatalf("CreateContent: %v", err)
	}
	if post.Title != "Bare" || post.TOC {
		t.Errorf("bare scaffold = %#v", post)
	}
}

package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"blog-cms/pkg/models"
)

// knownKeys are the front-matter fields the Post model understands. Anything
// else survives in Post.Extra so saving a post never drops author metadata.
var knownKeys = []string{"title", "description", "tags", "toc", "draft", "superseded_by"}

type matter struct {
	Title        string   `yaml:"title" toml:"title" json:"title"`
	Description  string   `yaml:"description" toml:"description" json:"description"`
	Tags         []string `yaml:"tags" toml:"tags" json:"tags"`
	TOC          bool     `yaml:"toc" toml:"toc" json:"toc"`
	Draft        bool     `yaml:"draft" toml:"draft" json:"draft"`
	SupersededBy string   `yaml:"superseded_by" toml:"superseded_by" json:"superseded_by"`
}

// DetectFormat sniffs the front-matter delimiter. Returns "" when the file
// has no recognizable metadata block. A leading brace only counts as JSON
// when the document actually decodes as an object; prose that happens to
// open with "{" is a bare body, not broken metadata.
func DetectFormat(content []byte) string {
	str := string(content)
	if strings.HasPrefix(str, "---\n") || strings.HasPrefix(str, "---\r\n") {
		return "yaml"
	}
	if strings.HasPrefix(str, "+++\n") || strings.HasPrefix(str, "+++\r\n") {
		return "toml"
	}
	if strings.HasPrefix(strings.TrimSpace(str), "{") {
		var m map[string]interface{}
		if json.Unmarshal(content, &m) == nil {
			return "json"
		}
	}
	return ""
}

func matterFormats() []*frontmatter.Format {
	return []*frontmatter.Format{
		frontmatter.NewFormat("---", "---", yaml.Unmarshal),
		frontmatter.NewFormat("+++", "+++", toml.Unmarshal),
	}
}

// ParseFrontMatter splits a content file into its metadata block and markdown
// body. The metadata block must precede the body; a file without one yields a
// post with empty metadata and the whole file as body. JSON posts are
// metadata-only documents.
func ParseFrontMatter(content []byte) (*models.Post, error) {
	format := DetectFormat(content)

	var meta matter
	var raw map[string]interface{}
	var body []byte

	if format == "json" {
		if err := json.Unmarshal(content, &meta); err != nil {
			return nil, fmt.Errorf("parse front matter: %w", err)
		}
		if err := json.Unmarshal(content, &raw); err != nil {
			return nil, fmt.Errorf("parse front matter: %w", err)
		}
	} else {
		var err error
		body, err = frontmatter.Parse(bytes.NewReader(content), &meta, matterFormats()...)
		if err != nil {
			return nil, fmt.Errorf("parse front matter: %w", err)
		}
		if _, err := frontmatter.Parse(bytes.NewReader(content), &raw, matterFormats()...); err != nil {
			return nil, fmt.Errorf("parse front matter: %w", err)
		}
	}

	extra := make(map[string]interface{})
	for k, v := range raw {
		known := false
		for _, kk := range knownKeys {
			if k == kk {
				known = true
				break
			}
		}
		if !known {
			extra[k] = sanitizeValue(v)
		}
	}
	if len(extra) == 0 {
		extra = nil
	}

	return &models.Post{
		Title:        meta.Title,
		Description:  meta.Description,
		Tags:         normalizeTags(meta.Tags),
		TOC:          meta.TOC,
		Draft:        meta.Draft,
		SupersededBy: meta.SupersededBy,
		Extra:        extra,
		Body:         strings.TrimSpace(normalizeLineEndings(string(body))),
		Format:       format,
	}, nil
}

// ConstructFileContent re-serializes a post in its original front-matter
// format, ready to be written back to disk.
func ConstructFileContent(post *models.Post) ([]byte, error) {
	fm := make(map[string]interface{})
	for k, v := range post.Extra {
		fm[k] = sanitizeValue(v)
	}
	fm["title"] = post.Title
	if post.Description != "" {
		fm["description"] = post.Description
	}
	if len(post.Tags) > 0 {
		fm["tags"] = normalizeTags(post.Tags)
	}
	if post.TOC {
		fm["toc"] = true
	}
	if post.Draft {
		fm["draft"] = true
	}
	if post.SupersededBy != "" {
		fm["superseded_by"] = post.SupersededBy
	}

	var buf bytes.Buffer
	switch post.Format {
	case "yaml", "":
		buf.WriteString("---\n")
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(fm); err != nil {
			return nil, err
		}
		buf.WriteString("---\n")
	case "toml":
		buf.WriteString("+++\n")
		enc := toml.NewEncoder(&buf)
		if err := enc.Encode(fm); err != nil {
			return nil, err
		}
		buf.WriteString("+++\n")
	case "json":
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(fm); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", post.Format)
	}

	if post.Body != "" {
		buf.WriteString("\n")
		buf.WriteString(strings.TrimSpace(normalizeLineEndings(post.Body)))
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// normalizeTags trims whitespace and collapses duplicates, preserving the
// author's order. Tags are a set, not a list.
func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// sanitizeValue converts the map[interface{}]interface{} values some YAML
// decoders produce into JSON-friendly map[string]interface{}.
func sanitizeValue(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, inner := range v {
			out[k] = sanitizeValue(inner)
		}
		return out
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, inner := range v {
			out[fmt.Sprint(k)] = sanitizeValue(inner)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i := range v {
			out[i] = sanitizeValue(v[i])
		}
		return out
	default:
		return v
	}
}

func normalizeLineEndings(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

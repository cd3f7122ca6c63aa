package services

import (
	"fmt"
	"path"
	"sort"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"blog-cms/pkg/config"
	"blog-cms/pkg/models"
)

// Issue is one lint finding against the corpus.
type Issue struct {
	Path     string `json:"path"`
	Rule     string `json:"rule"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// ValidatePost enforces the front-matter contract before a post is written
// back to disk. Lint reports findings; this rejects them.
func ValidatePost(p *models.Post) error {
	return validation.ValidateStruct(p,
		validation.Field(&p.Title, validation.Required.Error("title is mandatory")),
		validation.Field(&p.Description, validation.Length(0, config.DescriptionMaxLen)),
		validation.Field(&p.Tags, validation.Each(validation.Required.Error("tags must be non-empty"))),
	)
}

// LintPost runs the single-post rules.
func LintPost(post *models.Post) []Issue {
	var issues []Issue

	if strings.TrimSpace(post.Title) == "" {
		issues = append(issues, Issue{
			Path:     post.Path,
			Rule:     "missing-title",
			Severity: SeverityError,
			Message:  "post has no title in its front matter",
		})
	}

	if post.TOC && len(ExtractHeadings([]byte(post.Body))) == 0 {
		issues = append(issues, Issue{
			Path:     post.Path,
			Rule:     "toc-without-headings",
			Severity: SeverityWarning,
			Message:  "toc is enabled but the body contains no headings",
		})
	}

	for _, tag := range post.Tags {
		if strings.TrimSpace(tag) == "" {
			issues = append(issues, Issue{
				Path:     post.Path,
				Rule:     "empty-tag",
				Severity: SeverityWarning,
				Message:  "tags must be non-empty strings",
			})
			break
		}
	}

	if strings.TrimSpace(post.Description) == "" {
		issues = append(issues, Issue{
			Path:     post.Path,
			Rule:     "missing-description",
			Severity: SeverityInfo,
			Message:  "no description set; summaries and SEO snippets fall back to body text",
		})
	}

	return issues
}

// LintCorpus runs every rule over the whole content directory.
func LintCorpus() ([]Issue, error) {
	posts, failures, err := LoadCorpus()
	if err != nil {
		return nil, err
	}

	var issues []Issue
	for _, f := range failures {
		issues = append(issues, Issue{
			Path:     f.Path,
			Rule:     "invalid-front-matter",
			Severity: SeverityError,
			Message:  fmt.Sprintf("metadata block could not be parsed: %v", f.Err),
		})
	}

	for _, post := range posts {
		issues = append(issues, LintPost(post)...)
	}

	issues = append(issues, lintDuplicateTitles(posts)...)
	issues = append(issues, lintBrokenLinks(posts)...)

	sort.Slice(issues, func(i, j int) bool {
		if issues[i].Path != issues[j].Path {
			return issues[i].Path < issues[j].Path
		}
		return issues[i].Rule < issues[j].Rule
	})
	return issues, nil
}

// lintDuplicateTitles flags posts sharing a title with divergent bodies when
// none of the copies is marked as a draft or superseded revision. A draft and
// its revised version may coexist; two unmarked divergent copies may not.
func lintDuplicateTitles(posts []*models.Post) []Issue {
	byTitle := make(map[string][]*models.Post)
	for _, p := range posts {
		title := strings.ToLower(strings.TrimSpace(p.Title))
		if title == "" {
			continue
		}
		byTitle[title] = append(byTitle[title], p)
	}

	var issues []Issue
	for _, group := range byTitle {
		var unmarked []*models.Post
		for _, p := range group {
			if !p.HasRevisionMarker() {
				unmarked = append(unmarked, p)
			}
		}
		if len(unmarked) < 2 {
			continue
		}

		divergent := false
		for _, p := range unmarked[1:] {
			if p.Body != unmarked[0].Body {
				divergent = true
				break
			}
		}
		if !divergent {
			continue
		}

		for _, p := range unmarked {
			issues = append(issues, Issue{
				Path:     p.Path,
				Rule:     "duplicate-title",
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("title %q is shared with divergent content and no revision marker", p.Title),
			})
		}
	}
	return issues
}

// lintBrokenLinks checks that relative markdown cross-references between
// posts resolve to an existing post.
func lintBrokenLinks(posts []*models.Post) []Issue {
	exists := make(map[string]struct{}, len(posts))
	for _, p := range posts {
		exists[p.Path] = struct{}{}
	}

	var issues []Issue
	for _, p := range posts {
		for _, dest := range ExtractLinks([]byte(p.Body)) {
			target, ok := resolveCrossReference(p.Path, dest)
			if !ok {
				continue
			}
			if _, found := exists[target]; !found {
				issues = append(issues, Issue{
					Path:     p.Path,
					Rule:     "broken-link",
					Severity: SeverityWarning,
					Message:  fmt.Sprintf("link %q does not resolve to a post", dest),
				})
			}
		}
	}
	return issues
}

// resolveCrossReference turns a link destination into a content-relative post
// path. External links, anchors, and non-markdown targets are not
// cross-references and resolve to ok=false.
func resolveCrossReference(fromPath, dest string) (string, bool) {
	if dest == "" || strings.HasPrefix(dest, "#") || strings.Contains(dest, "://") ||
		strings.HasPrefix(dest, "mailto:") {
		return "", false
	}

	if i := strings.IndexAny(dest, "#?"); i >= 0 {
		dest = dest[:i]
	}
	if !strings.HasSuffix(dest, ".md") {
		return "", false
	}

	if strings.HasPrefix(dest, "/") {
		return path.Clean(strings.TrimPrefix(dest, "/")), true
	}
	resolved := path.Clean(path.Join(path.Dir(fromPath), dest))
	if strings.HasPrefix(resolved, "..") {
		return "", false
	}
	return resolved, true
}

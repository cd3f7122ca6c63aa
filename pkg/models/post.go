package models

// Post represents one blog article: a markdown body preceded by a
// front-matter metadata block. Title is the only mandatory field.
type Post struct {
	Path         string                 `json:"path"`
	Title        string                 `json:"title"`
	Description  string                 `json:"description,omitempty"`
	Tags         []string               `json:"tags,omitempty"`
	TOC          bool                   `json:"toc"`
	Draft        bool                   `json:"draft"`
	SupersededBy string                 `json:"superseded_by,omitempty"`
	Extra        map[string]interface{} `json:"extra,omitempty"` // unrecognized front-matter keys, kept for round-trip
	Body         string                 `json:"body,omitempty"`
	Format       string                 `json:"format,omitempty"` // yaml, toml, json
	IsDirty      bool                   `json:"is_dirty"`
}

// PostSummary is the listing view of a post, cheap enough to cache for the
// whole corpus.
type PostSummary struct {
	Path    string   `json:"path"`
	Title   string   `json:"title"`
	Tags    []string `json:"tags,omitempty"`
	Draft   bool     `json:"draft"`
	IsDirty bool     `json:"is_dirty"`
}

// HasRevisionMarker reports whether the post explicitly marks itself as a
// draft or superseded revision of another post with the same title.
func (p *Post) HasRevisionMarker() bool {
	return p.Draft || p.SupersededBy != ""
}

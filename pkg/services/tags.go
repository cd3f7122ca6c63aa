package services

import (
	"sort"
	"strings"

	"blog-cms/pkg/models"
)

// TagCount is one entry of the tag index.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// ListTags builds the discovery index over the cached corpus: every tag with
// the number of posts carrying it, most used first.
func ListTags() ([]TagCount, error) {
	posts, err := ListPosts()
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, p := range posts {
		for _, tag := range p.Tags {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			counts[tag]++
		}
	}

	tags := make([]TagCount, 0, len(counts))
	for tag, count := range counts {
		tags = append(tags, TagCount{Tag: tag, Count: count})
	}
	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Count != tags[j].Count {
			return tags[i].Count > tags[j].Count
		}
		return tags[i].Tag < tags[j].Tag
	})
	return tags, nil
}

// PostsByTag lists the posts carrying a tag. Matching is exact.
func PostsByTag(tag string) ([]models.PostSummary, error) {
	posts, err := ListPosts()
	if err != nil {
		return nil, err
	}

	var matched []models.PostSummary
	for _, p := range posts {
		for _, t := range p.Tags {
			if t == tag {
				matched = append(matched, p)
				break
			}
		}
	}
	return matched, nil
}

package services

import (
	"reflect"
	"strings"
	"testing"

	"blog-cms/pkg/models"
)

func samplePost() *models.Post {
	return &models.Post{
		Path:        "posts/testing.md",
		Title:       "Testing and Testability",
		Description: "Why testable code is better code",
		Tags:        []string{"testing", "design"},
		TOC:         true,
		Extra:       map[string]interface{}{"series": "software-design"},
		Body:        "# Why test\n\nBecause it matters.",
	}
}

func TestParseFrontMatterYAML(t *testing.T) {
	content := []byte(`---
title: Testing and Testability
description: Why testable code is better code
tags:
  - testing
  - design
toc: true
author: me
---

# Why test

Because it matters.
`)

	post, err := ParseFrontMatter(content)
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}

	if post.Format != "yaml" {
		t.Errorf("Format = %q, want yaml", post.Format)
	}
	if post.Title != "Testing and Testability" {
		t.Errorf("Title = %q", post.Title)
	}
	if post.Description != "Why testable code is better code" {
		t.Errorf("Description = %q", post.Description)
	}
	if !reflect.DeepEqual(post.Tags, []string{"testing", "design"}) {
		t.Errorf("Tags = %#v", post.Tags)
	}
	if !post.TOC {
		t.Error("TOC should be true")
	}
	if post.Extra["author"] != "me" {
		t.Errorf("Extra[author] = %#v", post.Extra["author"])
	}
	if !strings.HasPrefix(post.Body, "# Why test") {
		t.Errorf("Body = %q", post.Body)
	}
}

func TestParseFrontMatterTOML(t *testing.T) {
	content := []byte(`+++
title = "Advent of Code Day 7"
tags = ["clojure", "babashka"]
draft = true
+++

Parsing terminal output into a tree.
`)

	post, err := ParseFrontMatter(content)
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}

	if post.Format != "toml" {
		t.Errorf("Format = %q, want toml", post.Format)
	}
	if post.Title != "Advent of Code Day 7" {
		t.Errorf("Title = %q", post.Title)
	}
	if !post.Draft {
		t.Error("Draft should be true")
	}
	if !reflect.DeepEqual(post.Tags, []string{"clojure", "babashka"}) {
		t.Errorf("Tags = %#v", post.Tags)
	}
	if post.Body != "Parsing terminal output into a tree." {
		t.Errorf("Body = %q", post.Body)
	}
}

func TestParseFrontMatterJSON(t *testing.T) {
	content := []byte(`{
  "title": "Encapsulation",
  "tags": ["design"],
  "toc": false
}`)

	post, err := ParseFrontMatter(content)
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}
	if post.Format != "json" {
		t.Errorf("Format = %q, want json", post.Format)
	}
	if post.Title != "Encapsulation" {
		t.Errorf("Title = %q", post.Title)
	}
	if post.Body != "" {
		t.Errorf("JSON posts are metadata-only, got body %q", post.Body)
	}
}

func TestParseFrontMatterWithoutMetadata(t *testing.T) {
	content := []byte("Just prose, no metadata block.\n")

	post, err := ParseFrontMatter(content)
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}
	if post.Title != "" {
		t.Errorf("Title = %q, want empty", post.Title)
	}
	if post.Body != "Just prose, no metadata block." {
		t.Errorf("Body = %q", post.Body)
	}
}

func TestParseFrontMatterBraceProse(t *testing.T) {
	content := []byte("{On curly braces} and other punctuation.\n\nMore prose.\n")

	post, err := ParseFrontMatter(content)
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}
	if post.Format != "" {
		t.Errorf("Format = %q, want no metadata", post.Format)
	}
	if !strings.HasPrefix(post.Body, "{On curly braces}") {
		t.Errorf("Body = %q", post.Body)
	}
}

func TestParseFrontMatterInvalid(t *testing.T) {
	content := []byte("---\ntitle: [unclosed\n---\nbody\n")

	if _, err := ParseFrontMatter(content); err == nil {
		t.Fatal("expected parse error for malformed metadata")
	}
}

func TestRoundTrip(t *testing.T) {
	for _, format := range []string{"yaml", "toml"} {
		original := samplePost()
		original.Format = format

		content, err := ConstructFileContent(original)
		if err != nil {
			t.Fatalf("[%s] ConstructFileContent: %v", format, err)
		}

		parsed, err := ParseFrontMatter(content)
		if err != nil {
			t.Fatalf("[%s] ParseFrontMatter: %v", format, err)
		}

		if parsed.Title != original.Title {
			t.Errorf("[%s] Title = %q", format, parsed.Title)
		}
		if parsed.Description != original.Description {
			t.Errorf("[%s] Description = %q", format, parsed.Description)
		}
		if !reflect.DeepEqual(parsed.Tags, original.Tags) {
			t.Errorf("[%s] Tags = %#v", format, parsed.Tags)
		}
		if parsed.TOC != original.TOC || parsed.Draft != original.Draft {
			t.Errorf("[%s] flags = %v/%v", format, parsed.TOC, parsed.Draft)
		}
		if parsed.Extra["series"] != "software-design" {
			t.Errorf("[%s] Extra = %#v", format, parsed.Extra)
		}
		if parsed.Body != original.Body {
			t.Errorf("[%s] Body = %q", format, parsed.Body)
		}
	}
}

func TestNormalizeTags(t *testing.T) {
	got := normalizeTags([]string{" testing ", "design", "testing", "design"})
	want := []string{"testing", "design"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("normalizeTags = %#v, want %#v", got, want)
	}
}

func TestDetectFormat(t *testing.T) {
	cases := []struct {
		content string
		want    string
	}{
		{"---\ntitle: x\n---\n", "yaml"},
		{"+++\ntitle = \"x\"\n+++\n", "toml"},
		{"{\"title\": \"x\"}", "json"},
		{"{not actually json, just prose", ""},
		{"no metadata here", ""},
	}
	for _, tc := range cases {
		if got := DetectFormat([]byte(tc.content)); got != tc.want {
			t.Errorf("DetectFormat(%q) = %q, want %q", tc.content, got, tc.want)
		}
	}
}

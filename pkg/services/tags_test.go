package services

import (
	"reflect"
	"testing"
)

func TestListTags(t *testing.T) {
	setupTestRepo(t, map[string]string{
		"a.md": "---\ntitle: A\ntags: [clojure, babashka]\n---\nbody\n",
		"b.md": "---\ntitle: B\ntags: [clojure]\n---\nbody\n",
		"c.md": "---\ntitle: C\ntags: [design]\n---\nbody\n",
	})

	tags, err := ListTags()
	if err != nil {
		t.Fatalf("ListTags: %v", err)
	}

	want := []TagCount{
		{Tag: "clojure", Count: 2},
		{Tag: "babashka", Count: 1},
		{Tag: "design", Count: 1},
	}
	if !reflect.DeepEqual(tags, want) {
		t.Errorf("ListTags = %#v, want %#v", tags, want)
	}
}

func TestPostsByTag(t *testing.T) {
	setupTestRepo(t, map[string]string{
		"a.md": "---\ntitle: A\ntags: [clojure]\n---\nbody\n",
		"b.md": "---\ntitle: B\ntags: [design]\n---\nbody\n",
	})

	posts, err := PostsByTag("clojure")
	if err != nil {
		t.Fatalf("PostsByTag: %v", err)
	}
	if len(posts) != 1 || posts[0].Title != "A" {
		t.Errorf("PostsByTag = %#v", posts)
	}

	posts, err = PostsByTag("nope")
	if err != nil {
		t.Fatalf("PostsByTag: %v", err)
	}
	if posts != nil {
		t.Errorf("expected no posts, got %#v", posts)
	}
}

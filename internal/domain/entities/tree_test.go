//go:build unit

package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/decapgateway/internal/domain/entities"
)

func TestTreeListingFindDirectory(t *testing.T) {
	t.Parallel()

	listing := &entities.TreeListing{
		SHA: "root",
		Tree: []entities.TreeNode{
			{Path: "content/posts", Type: entities.BlobNodeType, SHA: "not-a-dir"},
			{Path: "content", Type: entities.TreeNodeType, SHA: "content-sha"},
			{Path: "content/posts", Type: entities.TreeNodeType, SHA: "posts-sha"},
			{Path: "content/posts", Type: entities.TreeNodeType, SHA: "duplicate-sha"},
		},
	}

	t.Run("should return the first tree entry with the exact path", func(t *testing.T) {
		t.Parallel()

		// when
		node, found := listing.FindDirectory("content/posts")

		// then
		require.True(t, found)
		assert.Equal(t, "posts-sha", node.SHA)
	})

	t.Run("should not match a path prefix", func(t *testing.T) {
		t.Parallel()

		// when
		_, found := listing.FindDirectory("content/post")

		// then
		assert.False(t, found)
	})
}

func TestTreeListingWithBlobURLs(t *testing.T) {
	t.Parallel()

	t.Run("should rewrite blob URLs only and leave the source listing untouched", func(t *testing.T) {
		t.Parallel()

		// given
		listing := &entities.TreeListing{
			SHA: "posts-sha",
			Tree: []entities.TreeNode{
				{Path: "hello.md", Type: entities.BlobNodeType, SHA: "b1", URL: "https://api.github.com/b1"},
				{Path: "drafts", Type: entities.TreeNodeType, SHA: "t1", URL: "https://api.github.com/t1"},
			},
		}

		// when
		rewritten := listing.WithBlobURLs("https://gateway.example.com/")

		// then
		assert.Equal(t, "https://gateway.example.com/github/git/blobs/b1", rewritten.Tree[0].URL)
		assert.Equal(t, "https://api.github.com/t1", rewritten.Tree[1].URL)
		assert.Equal(t, "https://api.github.com/b1", listing.Tree[0].URL)
		assert.Equal(t, "posts-sha", rewritten.SHA)
	})
}

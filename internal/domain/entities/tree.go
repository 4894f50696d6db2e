package entities

import "strings"

const (
	TreeNodeType = "tree"
	BlobNodeType = "blob"
)

// TreeNode is one entry of a GitHub Git Trees listing.
type TreeNode struct {
	Path string `json:"path"`
	Mode string `json:"mode,omitempty"`
	Type string `json:"type"`
	SHA  string `json:"sha"`
	Size *int   `json:"size,omitempty"`
	URL  string `json:"url,omitempty"`
}

// TreeListing is a GitHub Git Trees response.
type TreeListing struct {
	SHA       string     `json:"sha"`
	URL       string     `json:"url,omitempty"`
	Tree      []TreeNode `json:"tree"`
	Truncated bool       `json:"truncated"`
}

// FindDirectory returns the first tree-type node whose path equals path.
func (it *TreeListing) FindDirectory(path string) (TreeNode, bool) {
	for _, node := range it.Tree {
		if node.Path == path && node.Type == TreeNodeType {
			return node, true
		}
	}
	return TreeNode{}, false
}

// WithBlobURLs returns a copy of the listing where every blob node's URL
// points at baseURL + "/github/git/blobs/<sha>". Tree nodes are untouched.
func (it *TreeListing) WithBlobURLs(baseURL string) *TreeListing {
	base := strings.TrimSuffix(baseURL, "/")
	rewritten := *it
	rewritten.Tree = make([]TreeNode, len(it.Tree))
	for i, node := range it.Tree {
		if node.Type == BlobNodeType {
			node.URL = base + "/github/git/blobs/" + node.SHA
		}
		rewritten.Tree[i] = node
	}
	return &rewritten
}

package entities

// ProxyRequest is a GitHub API call forwarded on behalf of a caller.
type ProxyRequest struct {
	Method      string
	Path        string // escaped, relative to the GitHub API root
	RawQuery    string
	ContentType string
	Body        []byte
}

// ProxyResponse is the upstream answer, passed back verbatim.
type ProxyResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

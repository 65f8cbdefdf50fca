package workspace

import (
	"net/url"
	"path/filepath"
	"strings"
)

// URIToPath converts a file:// URI to a file system path with forward
// slashes, decoding percent escapes. Anything that is not a file URI is
// returned unchanged.
func URIToPath(uri string) string {
	parsed, err := url.Parse(uri)
	if err != nil || parsed.Scheme != "file" {
		return uri
	}

	path := parsed.Path
	if path == "" {
		path = parsed.Opaque
	}
	// file:///C:/path on Windows
	if len(path) > 2 && path[0] == '/' && path[2] == ':' {
		path = path[1:]
	}
	return path
}

// PathToURI converts a file system path to a file:// URI, escaping what
// needs escaping.
func PathToURI(path string) string {
	path = filepath.ToSlash(path)
	if len(path) > 1 && path[1] == ':' {
		path = "/" + path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return (&url.URL{Scheme: "file", Path: path}).String()
}

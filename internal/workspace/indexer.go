package workspace

import (
	"os"
	"path/filepath"
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// File is a source file found on disk.
type File struct {
	URI  string
	Path string
}

// Indexer finds the source files of workspace folders so their public
// declarations are known before the files are opened.
type Indexer struct {
	// accept decides, by URI, whether a file belongs to a known language.
	accept   func(uri string) bool
	maxDepth int
	maxFiles int
	files    []File
}

// NewIndexer creates an indexer collecting files accepted by accept.
func NewIndexer(accept func(uri string) bool, maxFiles int) *Indexer {
	if maxFiles <= 0 {
		maxFiles = 10000
	}
	return &Indexer{
		accept:   accept,
		maxDepth: 10,
		maxFiles: maxFiles,
	}
}

// Scan walks the workspace folders and returns the accepted files.
func (idx *Indexer) Scan(folders []protocol.WorkspaceFolder) []File {
	idx.files = nil
	for _, folder := range folders {
		path := URIToPath(folder.URI)
		if path == "" {
			log.Warningf("could not convert workspace folder URI to path: %s", folder.URI)
			continue
		}
		log.Infof("scanning workspace folder %s", path)
		idx.scanDirectory(path, 0)
	}
	log.Infof("workspace scan found %d files", len(idx.files))
	return idx.files
}

func (idx *Indexer) scanDirectory(dirPath string, depth int) {
	if depth > idx.maxDepth || len(idx.files) >= idx.maxFiles {
		return
	}

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		// unreadable directories are skipped
		return
	}

	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		fullPath := filepath.Join(dirPath, entry.Name())

		if entry.IsDir() {
			switch entry.Name() {
			case "node_modules", "vendor", "bin", "obj", "dist", "build", "out", "__pycache__":
				continue
			}
			idx.scanDirectory(fullPath, depth+1)
			continue
		}

		uri := PathToURI(fullPath)
		if !idx.accept(uri) {
			continue
		}
		idx.files = append(idx.files, File{URI: uri, Path: fullPath})
		if len(idx.files) >= idx.maxFiles {
			log.Warningf("workspace scan stopped at %d files", idx.maxFiles)
			return
		}
	}
}

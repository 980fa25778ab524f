package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FilesystemLoader loads {dir}/{name}.css files.
type FilesystemLoader struct {
	dir string
}

// NewFilesystemLoader creates a FilesystemLoader for dir.
// Returns ErrInvalidStyleDir if dir is not a readable directory.
func NewFilesystemLoader(dir string) (*FilesystemLoader, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidStyleDir)
	}

	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStyleDir, err)
	}

	// Resolve symlinks so containment checks compare real paths.
	if realPath, err := filepath.EvalSymlinks(absPath); err == nil {
		absPath = realPath
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: directory does not exist: %s", ErrInvalidStyleDir, absPath)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidStyleDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory: %s", ErrInvalidStyleDir, absPath)
	}

	return &FilesystemLoader{dir: absPath}, nil
}

// LoadStyle reads {dir}/{name}.css.
func (f *FilesystemLoader) LoadStyle(name string) (string, error) {
	if err := ValidateStyleName(name); err != nil {
		return "", err
	}

	filePath := filepath.Join(f.dir, name+".css")
	if err := f.verifyPathContainment(filePath); err != nil {
		return "", err
	}

	content, err := os.ReadFile(filePath) // #nosec G304 -- path validated above
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
		}
		return "", fmt.Errorf("%w: %v", ErrStyleRead, err)
	}
	return string(content), nil
}

// ListStyles returns the names of the .css files in the directory.
func (f *FilesystemLoader) ListStyles() ([]string, error) {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStyleRead, err)
	}
	return cssNames(entries), nil
}

// verifyPathContainment ensures the resolved file path is within dir, even
// through symlinks.
func (f *FilesystemLoader) verifyPathContainment(filePath string) error {
	absFilePath, err := filepath.Abs(filePath)
	if err != nil {
		return fmt.Errorf("%w: cannot resolve path", ErrPathTraversal)
	}

	// A missing file keeps its unresolved path; the read fails later anyway.
	if realPath, err := filepath.EvalSymlinks(absFilePath); err == nil {
		absFilePath = realPath
	}

	if !strings.HasPrefix(absFilePath, f.dir+string(filepath.Separator)) {
		return fmt.Errorf("%w: path escapes style directory", ErrPathTraversal)
	}
	return nil
}

// Compile-time interface check.
var _ StyleLoader = (*FilesystemLoader)(nil)

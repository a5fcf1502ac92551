package sink

import (
	"os"
	"path/filepath"
)

// FSSink is a Sink rooted at a plain filesystem staging directory.
type FSSink struct {
	root string
}

// NewFSSink returns an FSSink rooted at root. root is created lazily
// by EnsureDir/WriteBytes/WriteText, not at construction.
func NewFSSink(root string) *FSSink {
	return &FSSink{root: root}
}

// Root returns the staging directory this sink writes under.
func (s *FSSink) Root() string {
	return s.root
}

func (s *FSSink) resolve(path string) string {
	return filepath.Join(s.root, path)
}

func (s *FSSink) WriteBytes(path string, data []byte) error {
	full := s.resolve(path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	return os.WriteFile(full, data, 0o644)
}

func (s *FSSink) WriteText(path string, text string) error {
	return s.WriteBytes(path, []byte(text))
}

func (s *FSSink) EnsureDir(path string) error {
	return os.MkdirAll(s.resolve(path), 0o755)
}

func (s *FSSink) RemoveFile(path string) error {
	err := os.Remove(s.resolve(path))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

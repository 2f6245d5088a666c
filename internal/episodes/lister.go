package episodes

import "os"

// DirLister lists directory entries from the real filesystem.
type DirLister struct{}

// List returns the file names in dir, ignoring subdirectories.
func (DirLister) List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

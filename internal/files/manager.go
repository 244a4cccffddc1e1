package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	dirPermissions  = 0o755
	filePermissions = 0o644

	// ConfigFileName is the optional viper config file inside the base directory.
	ConfigFileName = "config.toml"
	// LogFileName receives logs while the TUI owns the terminal.
	LogFileName = "tugas.log"
)

// Manager centralizes where tugas keeps its files and how they are named.
type Manager struct {
	basePath string
}

// NewManager constructs a Manager rooted at the provided directory. If basePath
// is empty, it falls back to ~/.tugas (or another location determined by
// ResolveBasePath).
func NewManager(basePath string) (*Manager, error) {
	var err error
	if basePath == "" {
		basePath, err = ResolveBasePath()
		if err != nil {
			return nil, err
		}
	}
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, err
	}

	return &Manager{basePath: abs}, nil
}

// BasePath returns the root directory holding all tugas files.
func (m *Manager) BasePath() string {
	return m.basePath
}

// Path joins name onto the base directory unless name is already absolute.
func (m *Manager) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(m.basePath, name)
}

// ConfigPath is where the optional config file lives.
func (m *Manager) ConfigPath() string {
	return m.Path(ConfigFileName)
}

// LogPath is where the TUI writes its log.
func (m *Manager) LogPath() string {
	return m.Path(LogFileName)
}

// ExportName suggests a file name for an export taken at t.
func ExportName(t time.Time, ext string) string {
	return fmt.Sprintf("assignments-%04d-%02d-%02d.%s", t.Year(), t.Month(), t.Day(), ext)
}

// EnsureBaseDir creates the base directory tree if it is missing.
func (m *Manager) EnsureBaseDir() error {
	if m == nil {
		return errors.New("files.Manager is nil")
	}
	if err := os.MkdirAll(m.basePath, dirPermissions); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	return nil
}

// WriteAtomic replaces path with data via a temp file in the same directory,
// keeping the existing file mode when there is one.
func WriteAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	temp, err := os.CreateTemp(dir, "tugas-*")
	if err != nil {
		return err
	}
	defer os.Remove(temp.Name())

	if _, err := temp.Write(data); err != nil {
		temp.Close()
		return err
	}
	if err := temp.Sync(); err != nil {
		temp.Close()
		return err
	}
	if err := temp.Close(); err != nil {
		return err
	}

	mode := os.FileMode(filePermissions)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}
	if err := os.Chmod(temp.Name(), mode); err != nil {
		return err
	}

	return os.Rename(temp.Name(), path)
}

package plan

import (
	"fmt"
	"os"
	"path/filepath"
)

// CreatePath creates a directory chain; rollback removes only the
// directories the action itself created.
type CreatePath struct {
	Path string

	created []string
}

func NewCreatePath(path string) *CreatePath {
	return &CreatePath{Path: path}
}

func (a *CreatePath) String() string {
	return fmt.Sprintf("create-path %s", a.Path)
}

func (a *CreatePath) Execute() error {
	missing := []string{}
	cur := filepath.Clean(a.Path)
	for {
		_, err := os.Stat(cur)
		if err == nil {
			break
		}
		if !os.IsNotExist(err) {
			return fmt.Errorf("could not stat %q: %w", cur, err)
		}
		missing = append(missing, cur)
		next := filepath.Dir(cur)
		if next == cur {
			break
		}
		cur = next
	}
	if err := os.MkdirAll(a.Path, 0755); err != nil {
		return fmt.Errorf("could not create %q: %w", a.Path, err)
	}
	a.created = missing
	return nil
}

func (a *CreatePath) Rollback() error {
	// innermost first
	for _, dir := range a.created {
		if err := os.Remove(dir); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("could not remove %q: %w", dir, err)
		}
	}
	a.created = nil
	return nil
}

// WriteFile writes data to a temporary file in the destination
// directory and renames it into place, so readers never observe a
// partial write. Rollback restores the prior bytes or removes the file.
type WriteFile struct {
	Path string
	Data []byte

	executed    bool
	prior       []byte
	priorExists bool
}

func NewWriteFile(path string, data []byte) *WriteFile {
	return &WriteFile{Path: path, Data: data}
}

func (a *WriteFile) String() string {
	return fmt.Sprintf("write-file %s (%d bytes)", a.Path, len(a.Data))
}

func (a *WriteFile) Execute() error {
	prior, err := os.ReadFile(a.Path)
	switch {
	case err == nil:
		a.prior = prior
		a.priorExists = true
	case os.IsNotExist(err):
	default:
		return fmt.Errorf("could not read %q: %w", a.Path, err)
	}
	if err := atomicWrite(a.Path, a.Data); err != nil {
		return err
	}
	a.executed = true
	return nil
}

func (a *WriteFile) Rollback() error {
	if !a.executed {
		return nil
	}
	a.executed = false
	if !a.priorExists {
		if err := os.Remove(a.Path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("could not remove %q: %w", a.Path, err)
		}
		return nil
	}
	return atomicWrite(a.Path, a.prior)
}

// RemoveFile renames the file aside rather than deleting it, keeping
// rollback possible until Cleanup.
type RemoveFile struct {
	Path string

	backup string
}

func NewRemoveFile(path string) *RemoveFile {
	return &RemoveFile{Path: path}
}

func (a *RemoveFile) String() string {
	return fmt.Sprintf("remove-file %s", a.Path)
}

func (a *RemoveFile) Execute() error {
	backup := a.Path + ".removed"
	if err := os.Rename(a.Path, backup); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("could not move %q aside: %w", a.Path, err)
	}
	a.backup = backup
	return nil
}

func (a *RemoveFile) Rollback() error {
	if a.backup == "" {
		return nil
	}
	if err := os.Rename(a.backup, a.Path); err != nil {
		return fmt.Errorf("could not restore %q: %w", a.Path, err)
	}
	a.backup = ""
	return nil
}

func (a *RemoveFile) Cleanup() error {
	if a.backup == "" {
		return nil
	}
	if err := os.Remove(a.backup); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("could not remove backup %q: %w", a.backup, err)
	}
	a.backup = ""
	return nil
}

func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".shard-*")
	if err != nil {
		return fmt.Errorf("could not create temp file in %q: %w", dir, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("could not write %q: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("could not close %q: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("could not rename %q to %q: %w", tmpName, path, err)
	}
	return nil
}

package medrec

import (
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// ensureParent makes sure the directory holding filename exists.
func ensureParent(fs FileSystem, filename string) error {
	dir := filepath.Dir(filename)
	if dir == "." || dir == string(filepath.Separator) {
		return nil
	}

	exists, err := afero.DirExists(fs, dir)
	if err != nil {
		return err
	}

	if exists {
		return nil
	}

	return fs.MkdirAll(dir, 0744)
}

// backupFile rename filename to filename.bak, it will return a restore function
// and a clean function. The restore function will rename filename.bak to filename,
// and the clean function will remove filename.bak. If filename does not exist,
// both functions are no-ops.
func backupFile(fs FileSystem, filename string) (restoreFn func() error, cleanFn func() error, err error) {
	noop := func() error { return nil }

	exists, err := afero.Exists(fs, filename)
	if err != nil {
		return nil, nil, errors.Wrap(err, "backupFile stat failed")
	}
	if !exists {
		return noop, noop, nil
	}

	oldName := filename
	backupName := filename + ".bak"

	if err = fs.Rename(filename, backupName); err != nil {
		return nil, nil, errors.Wrap(err, "backupFile rename failed")
	}

	restoreFn = func() error {
		_ = fs.Remove(oldName)
		return fs.Rename(backupName, oldName)
	}

	cleanFn = func() error {
		return fs.Remove(backupName)
	}

	return restoreFn, cleanFn, nil
}

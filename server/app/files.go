package app

import (
	"os"

	"github.com/mattermost/mattermost-server/v6/model"
	"github.com/mattermost/mattermost-server/v6/shared/filestore"
	"github.com/pkg/errors"
)

// FileBackend is the part of filestore.FileBackend the sweep uses.
// Paths are relative to the backend root.
type FileBackend interface {
	FileExists(path string) (bool, error)
	RemoveFile(path string) error
}

// NewLocalFileBackend opens the Mattermost data directory. The directory must exist:
// a wrong path would make every file look missing and orphan them once the rows are gone.
func NewLocalFileBackend(directory string) (FileBackend, error) {
	info, err := os.Stat(directory)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open data directory %s", directory)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("data directory %s is not a directory", directory)
	}

	backend, err := filestore.NewFileBackend(filestore.FileBackendSettings{
		DriverName: model.ImageDriverLocal,
		Directory:  directory,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create the local file backend")
	}
	return backend, nil
}

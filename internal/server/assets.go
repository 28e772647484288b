package server

import (
	"io/fs"
	"os"

	"github.com/pkg/errors"
)

// Assets reads static files and page templates.
//
// ReadText and ReadBinary return an empty value when the file is missing.
type Assets interface {
	ReadText(path string) (string, error)
	ReadBinary(path string) ([]byte, error)
	ReadTemplate(name string) (string, error)
}

// FSAssets serves static files from Public and templates from Templates.
// Files in Override, when set, win over Public.
type FSAssets struct {
	Public    fs.FS
	Override  fs.FS
	Templates fs.FS
}

// NewFSAssets takes the embedded tree (with public/ and templates/) and an
// optional directory on disk that shadows public/.
func NewFSAssets(root fs.FS, overrideDir string) (*FSAssets, error) {
	pub, err := fs.Sub(root, "public")
	if err != nil {
		return nil, err
	}
	tpl, err := fs.Sub(root, "templates")
	if err != nil {
		return nil, err
	}
	a := &FSAssets{Public: pub, Templates: tpl}
	if overrideDir != "" {
		a.Override = os.DirFS(overrideDir)
	}
	return a, nil
}

func (a *FSAssets) ReadText(path string) (string, error) {
	b, err := a.ReadBinary(path)
	return string(b), err
}

func (a *FSAssets) ReadBinary(path string) ([]byte, error) {
	if !fs.ValidPath(path) {
		return nil, nil
	}
	if a.Override != nil {
		b, err := readOptional(a.Override, path)
		if err != nil || len(b) > 0 {
			return b, err
		}
	}
	return readOptional(a.Public, path)
}

func (a *FSAssets) ReadTemplate(name string) (string, error) {
	b, err := fs.ReadFile(a.Templates, name+".html")
	if err != nil {
		return "", errors.Wrapf(err, "template %s", name)
	}
	return string(b), nil
}

func readOptional(fsys fs.FS, path string) ([]byte, error) {
	b, err := fs.ReadFile(fsys, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) {
			return nil, nil
		}
		// Directories named like assets read as missing too.
		if info, statErr := fs.Stat(fsys, path); statErr == nil && info.IsDir() {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return b, nil
}

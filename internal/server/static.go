package server

import (
	"strings"

	"github.com/pkg/errors"
)

type assetKind int

const (
	assetNone assetKind = iota
	assetText
	assetBinary
)

var assetKinds = map[string]assetKind{
	"css":   assetText,
	"js":    assetText,
	"svg":   assetText,
	"woff2": assetBinary,
	"woff":  assetBinary,
	"ttf":   assetBinary,
	"eot":   assetBinary,
	"otf":   assetBinary,
	"png":   assetBinary,
	"jpg":   assetBinary,
	"ico":   assetBinary,
}

var mimeTypes = map[string]string{
	"css":   "text/css",
	"js":    "text/javascript",
	"svg":   "image/svg+xml",
	"woff2": "font/woff2",
	"woff":  "font/woff",
	"ttf":   "font/ttf",
	"eot":   "application/vnd.ms-fontobject",
	"otf":   "font/otf",
	"png":   "image/png",
	"jpg":   "image/jpeg",
	"ico":   "image/x-icon",
}

// fileExtension is whatever follows the last dot, or the whole path when
// there is no dot.
func fileExtension(path string) string {
	return path[strings.LastIndex(path, ".")+1:]
}

func staticKind(path string) (assetKind, string) {
	ext := fileExtension(path)
	return assetKinds[ext], ext
}

// serveStatic reads a text or binary asset by its trimmed path.
func (d *Dispatcher) serveStatic(path string, kind assetKind, ext string) (Response, error) {
	var body []byte
	switch kind {
	case assetText:
		s, err := d.assets.ReadText(path)
		if err != nil {
			return Response{}, errors.Wrapf(err, "static %s", path)
		}
		body = []byte(s)
	case assetBinary:
		b, err := d.assets.ReadBinary(path)
		if err != nil {
			return Response{}, errors.Wrapf(err, "static %s", path)
		}
		body = b
	}
	return Static(mimeTypes[ext], body), nil
}

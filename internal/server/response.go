package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/Virginijus03/45-server/internal/shared"
)

const (
	contentTypeJSON = "application/json"
	contentTypeHTML = "text/html"
)

// Response is the single result of a request. It is built by one of the
// constructors below and written once by the Dispatcher.
type Response struct {
	Status      int
	ContentType string
	Body        []byte
	Header      http.Header
}

// JSON builds an API response. A zero status means 200. A string value is
// sent as is; anything else is JSON encoded.
func JSON(status int, v any, header http.Header) Response {
	if status == 0 {
		status = http.StatusOK
	}
	var body []byte
	switch p := v.(type) {
	case string:
		body = []byte(p)
	case []byte:
		body = p
	case nil:
		body = []byte{}
	default:
		b, err := json.Marshal(p)
		if err != nil {
			return JSONError(http.StatusInternalServerError, "response encoding failed")
		}
		body = b
	}
	return Response{Status: status, ContentType: contentTypeJSON, Body: body, Header: header}
}

// JSONError is the structured error every API failure uses.
func JSONError(status int, msg string) Response {
	b, _ := json.Marshal(shared.ErrorResponse{Error: msg})
	return Response{Status: status, ContentType: contentTypeJSON, Body: b}
}

// HTML builds a page response.
func HTML(status int, html string, header http.Header) Response {
	if status == 0 {
		status = http.StatusOK
	}
	return Response{Status: status, ContentType: contentTypeHTML, Body: []byte(html), Header: header}
}

// Static builds a static asset response; an empty body is a 404 that
// still names the asset's MIME type.
func Static(mime string, body []byte) Response {
	status := http.StatusOK
	if len(body) == 0 {
		status = http.StatusNotFound
		body = []byte{}
	}
	return Response{Status: status, ContentType: mime, Body: body}
}

// NotFound is the API answer for an unknown route.
func NotFound() Response {
	return JSONError(http.StatusNotFound, "route not found")
}

// Write sends the response. r.Header is applied after Content-Type and
// may replace it.
func (r Response) Write(w http.ResponseWriter) error {
	h := w.Header()
	h.Set("Content-Type", r.ContentType)
	for k, vs := range r.Header {
		h.Del(k)
		for _, v := range vs {
			h.Add(k, v)
		}
	}
	h.Set("Content-Length", strconv.Itoa(len(r.Body)))
	w.WriteHeader(r.Status)
	_, err := w.Write(r.Body)
	return err
}

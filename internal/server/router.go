package server

import (
	"context"
	"fmt"
	"html"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	apiPrefix = "api/"

	defaultRequestTimeout = 10 * time.Second
	defaultMaxBodyBytes   = 2 << 20
)

// Request categories, in the order the classifier tries them.
const (
	categoryStatic = "static"
	categoryAPI    = "api"
	categoryPage   = "page"
)

// DispatcherConfig wires the Dispatcher's collaborators. Pages must hold a
// NotFoundPage entry.
type DispatcherConfig struct {
	Pages    PageTable
	API      APITable
	Assets   Assets
	Store    Store
	Verifier TokenVerifier
	Logger   *logrus.Logger
	Metrics  *Metrics

	RequestTimeout time.Duration
	MaxBodyBytes   int64
}

// Dispatcher classifies every request as a static asset, an API call or a
// page and produces exactly one response for it.
type Dispatcher struct {
	pages    PageTable
	api      APITable
	assets   Assets
	store    Store
	verifier TokenVerifier
	log      *logrus.Logger
	metrics  *Metrics

	timeout time.Duration
	maxBody int64
}

func NewDispatcher(cfg DispatcherConfig) (*Dispatcher, error) {
	if cfg.Pages[NotFoundPage] == nil {
		return nil, errors.Errorf("page table has no %q page", NotFoundPage)
	}
	if cfg.Assets == nil || cfg.Store == nil || cfg.Verifier == nil {
		return nil, errors.New("dispatcher needs assets, store and token verifier")
	}
	d := &Dispatcher{
		pages:    make(PageTable, len(cfg.Pages)),
		api:      make(APITable, len(cfg.API)),
		assets:   cfg.Assets,
		store:    cfg.Store,
		verifier: cfg.Verifier,
		log:      cfg.Logger,
		metrics:  cfg.Metrics,
		timeout:  cfg.RequestTimeout,
		maxBody:  cfg.MaxBodyBytes,
	}
	// Private copies so the tables cannot change after construction.
	for k, v := range cfg.Pages {
		d.pages[k] = v
	}
	for k, bundle := range cfg.API {
		b := make(APIBundle, len(bundle))
		for m, f := range bundle {
			b[strings.ToLower(m)] = f
		}
		d.api[k] = b
	}
	if d.log == nil {
		d.log = logrus.StandardLogger()
	}
	if d.timeout <= 0 {
		d.timeout = defaultRequestTimeout
	}
	if d.maxBody <= 0 {
		d.maxBody = defaultMaxBodyBytes
	}
	return d, nil
}

// route is the outcome of classifying a trimmed path.
type route struct {
	category string
	path     string
	key      string // API route or page key
	kind     assetKind
	ext      string
}

func trimSlashes(p string) string {
	return strings.Trim(p, "/")
}

// classify applies the routing order: a static extension wins over the
// api/ prefix, and everything else is a page.
func classify(path string) route {
	if kind, ext := staticKind(path); kind != assetNone {
		return route{category: categoryStatic, path: path, kind: kind, ext: ext}
	}
	if strings.HasPrefix(path, apiPrefix) {
		return route{category: categoryAPI, path: path, key: strings.TrimPrefix(path, apiPrefix)}
	}
	return route{category: categoryPage, path: path, key: path}
}

func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	// Routing sees the path as sent, so an encoded slash is not a separator.
	rt := classify(trimSlashes(r.URL.EscapedPath()))

	resp := d.respond(w, r, rt)
	if err := resp.Write(w); err != nil {
		d.log.WithError(err).WithField("path", rt.path).Debug("Writing response failed")
	}

	elapsed := time.Since(start)
	d.metrics.observe(rt.category, resp.Status, elapsed)
	d.log.WithFields(logrus.Fields{
		"method":   r.Method,
		"path":     rt.path,
		"category": rt.category,
		"status":   resp.Status,
		"duration": elapsed,
	}).Debug("Request served")
}

// respond buffers the body and runs the dispatch under the request
// deadline. Whichever of result and deadline comes first is the response.
func (d *Dispatcher) respond(w http.ResponseWriter, r *http.Request, rt route) Response {
	// The deadline covers reading the body too. Writers that cannot set
	// one (recorders in tests) just skip it.
	_ = http.NewResponseController(w).SetReadDeadline(time.Now().Add(d.timeout))

	body, err := io.ReadAll(io.LimitReader(r.Body, d.maxBody+1))
	if err != nil {
		d.log.WithError(err).WithField("path", rt.path).Info("Reading request body failed")
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			return failure(rt.category, http.StatusRequestTimeout)
		}
		return failure(rt.category, http.StatusBadRequest)
	}
	if int64(len(body)) > d.maxBody {
		return failure(rt.category, http.StatusRequestEntityTooLarge)
	}

	ctx, cancel := context.WithTimeout(r.Context(), d.timeout)
	defer cancel()

	// Everything the worker needs from r is copied here; r must not be
	// touched once ServeHTTP returns.
	rc := newRequestContext(r, rt.path, string(body), d.store)
	cookie := r.Header.Get("Cookie")

	done := make(chan Response, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				d.reportPanic(p, rt)
				done <- failure(rt.category, http.StatusInternalServerError)
			}
		}()
		rc.User = d.buildUser(ctx, cookie)
		done <- d.dispatch(ctx, rc, rt)
	}()

	select {
	case resp := <-done:
		return resp
	case <-ctx.Done():
		d.log.WithField("path", rt.path).WithError(ctx.Err()).Warn("Request deadline exceeded")
		return failure(rt.category, http.StatusServiceUnavailable)
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, rc *RequestContext, rt route) Response {
	switch rt.category {
	case categoryStatic:
		resp, err := d.serveStatic(rt.path, rt.kind, rt.ext)
		if err != nil {
			d.log.WithError(err).Error("Static asset read failed")
			return failure(rt.category, http.StatusInternalServerError)
		}
		return resp

	case categoryAPI:
		f, ok := d.api.lookup(rt.key, rc.Method)
		if !ok {
			return NotFound()
		}
		if f == nil {
			return JSONError(http.StatusMethodNotAllowed, "method not allowed")
		}
		return f(ctx, rc)

	default:
		page, err := d.pages.lookup(rt.key)(ctx, rc)
		if err != nil {
			d.log.WithError(err).WithField("page", rt.key).Error("Page rendering failed")
			return failure(rt.category, http.StatusInternalServerError)
		}
		return page.response()
	}
}

// newRequestContext fills everything but User, which needs the token
// lookup.
func newRequestContext(r *http.Request, path, body string, store Store) *RequestContext {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return &RequestContext{
		Method:  strings.ToLower(r.Method),
		Path:    path,
		BaseURL: scheme + "://" + r.Host,
		Query:   r.URL.Query(),
		Header:  r.Header.Clone(),
		Body:    body,
		Payload: parsePayload(body),
		Store:   store,
	}
}

func (d *Dispatcher) reportPanic(p any, rt route) {
	var err error
	switch e := p.(type) {
	case error:
		err = e
	default:
		err = errors.Errorf("%v", e)
	}
	d.log.WithError(err).WithField("path", rt.path).Error("Handler panicked")
	sentry.CurrentHub().Recover(p)
}

// failure is the response for errors the handlers did not answer
// themselves, shaped after the request category.
func failure(category string, status int) Response {
	text := http.StatusText(status)
	switch category {
	case categoryAPI:
		return JSONError(status, strings.ToLower(text))
	case categoryStatic:
		return Response{Status: status, ContentType: "text/plain", Body: []byte(text)}
	default:
		return HTML(status, fmt.Sprintf("<!DOCTYPE html><html><body><h1>%d %s</h1></body></html>", status, html.EscapeString(text)), nil)
	}
}

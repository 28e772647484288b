package server

import (
	"bytes"
	"context"
	"html/template"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/Virginijus03/45-server/internal/shared"
)

// Pages renders the HTML pages from the layout template plus one content
// template per page. None of the pages refuse anonymous visitors; the admin
// templates show a log-in prompt instead.
type Pages struct {
	Assets Assets
	Store  Store
	Tokens *TokenService
	Log    *logrus.Logger
}

type pageData struct {
	Title    string
	PageCSS  string
	Script   string
	User     UserContext
	Services []shared.Service
	Service  *shared.Service
	Message  string
	Year     int
}

// Table returns the page routes keyed by trimmed path.
func (p *Pages) Table() PageTable {
	return PageTable{
		"":                     p.home,
		NotFoundPage:           p.notFound,
		"about":                p.about,
		"login":                p.login,
		"register":             p.register,
		"logout":               p.logout,
		"admin":                p.admin,
		"admin/services":       p.adminServices,
		"admin/add-service":    p.adminAddService,
		"admin/update-service": p.adminUpdateService,
	}
}

func (p *Pages) render(name string, data pageData) (string, error) {
	layout, err := p.Assets.ReadTemplate("layout")
	if err != nil {
		return "", err
	}
	content, err := p.Assets.ReadTemplate(name)
	if err != nil {
		return "", err
	}

	t, err := template.New("page").Parse(layout)
	if err != nil {
		return "", errors.Wrap(err, "parse layout")
	}
	if _, err := t.Parse(content); err != nil {
		return "", errors.Wrapf(err, "parse %s", name)
	}

	data.Year = time.Now().Year()
	if data.PageCSS == "" {
		data.PageCSS = name
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return "", errors.Wrapf(err, "execute %s", name)
	}
	return buf.String(), nil
}

func (p *Pages) simple(name, title, script string) PageFunc {
	return func(_ context.Context, rc *RequestContext) (Page, error) {
		html, err := p.render(name, pageData{Title: title, Script: script, User: rc.User})
		return Page{HTML: html}, err
	}
}

func (p *Pages) home(ctx context.Context, rc *RequestContext) (Page, error) {
	all, err := ListServices(ctx, p.Store)
	if err != nil {
		return Page{}, err
	}
	active := make([]shared.Service, 0, len(all))
	for _, s := range all {
		if s.IsActive {
			active = append(active, s)
		}
	}
	html, err := p.render("home", pageData{Title: "Services", User: rc.User, Services: active})
	return Page{HTML: html}, err
}

func (p *Pages) notFound(_ context.Context, rc *RequestContext) (Page, error) {
	html, err := p.render("404", pageData{Title: "Page not found", User: rc.User})
	return Page{HTML: html, Status: http.StatusNotFound}, err
}

func (p *Pages) about(ctx context.Context, rc *RequestContext) (Page, error) {
	return p.simple("about", "About", "")(ctx, rc)
}

func (p *Pages) login(ctx context.Context, rc *RequestContext) (Page, error) {
	return p.simple("login", "Log in", "/js/login.js")(ctx, rc)
}

func (p *Pages) register(ctx context.Context, rc *RequestContext) (Page, error) {
	return p.simple("register", "Register", "/js/register.js")(ctx, rc)
}

// logout revokes the request's token and clears the cookie.
func (p *Pages) logout(ctx context.Context, rc *RequestContext) (Page, error) {
	if err := p.Tokens.Revoke(ctx, requestToken(rc)); err != nil {
		p.Log.WithError(err).Warn("Revoking token on logout failed")
	}
	html, err := p.render("logout", pageData{Title: "Logged out"})
	h := http.Header{}
	h.Set("Set-Cookie", expiredLoginCookie().String())
	return Page{HTML: html, Header: h}, err
}

func (p *Pages) admin(ctx context.Context, rc *RequestContext) (Page, error) {
	return p.simple("admin", "Admin", "")(ctx, rc)
}

func (p *Pages) adminServices(ctx context.Context, rc *RequestContext) (Page, error) {
	data := pageData{Title: "Admin: services", PageCSS: "admin", Script: "/js/admin-services.js", User: rc.User}
	if rc.User.IsLoggedIn {
		list, err := ListServices(ctx, p.Store)
		if err != nil {
			return Page{}, err
		}
		data.Services = list
	}
	html, err := p.render("admin-services", data)
	return Page{HTML: html}, err
}

func (p *Pages) adminAddService(_ context.Context, rc *RequestContext) (Page, error) {
	html, err := p.render("admin-service-form", pageData{
		Title:   "Admin: add service",
		PageCSS: "admin",
		Script:  "/js/admin-service.js",
		User:    rc.User,
	})
	return Page{HTML: html}, err
}

func (p *Pages) adminUpdateService(ctx context.Context, rc *RequestContext) (Page, error) {
	data := pageData{
		Title:   "Admin: update service",
		PageCSS: "admin",
		Script:  "/js/admin-service.js",
		User:    rc.User,
	}
	status := http.StatusOK
	if rc.User.IsLoggedIn {
		svc, ok, err := readRecord[shared.Service](ctx, p.Store, CollectionServices, rc.Query.Get("id"))
		if err != nil {
			return Page{}, err
		}
		if ok {
			data.Service = &svc
		} else {
			data.Message = "Service not found."
			status = http.StatusNotFound
		}
	}
	html, err := p.render("admin-service-form", data)
	return Page{HTML: html, Status: status}, err
}

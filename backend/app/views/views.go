// Package views renders the HTML pages served by the controllers.
package views

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"feedback-board/backend/app/dto"
	"feedback-board/backend/app/models"
	"feedback-board/backend/app/session"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

//go:embed templates/*.html
var embedded embed.FS

const layoutFile = "layout.html"

// Pages rendered by the application. Each one is executed inside the layout.
const (
	PageRegister = "register"
	PageLogin    = "login"
	PageProfile  = "profile"
	PageFeedback = "feedback_form"
	PageError    = "error"
)

var pages = []string{PageRegister, PageLogin, PageProfile, PageFeedback, PageError}

// Page is the data every template receives.
type Page struct {
	Identity session.Identity
	Form     any
	Errors   dto.FieldErrors
	User     *models.User
	Feedback *models.Feedback
	Action   string
	Status   int
	Message  string
}

type Renderer struct {
	dir    string
	logger zerolog.Logger

	mu  sync.RWMutex
	set map[string]*template.Template
}

// New parses the templates from dir, or from the embedded set when dir is
// empty.
func New(dir string, logger zerolog.Logger) (*Renderer, error) {
	r := &Renderer{dir: dir, logger: logger}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Renderer) source() (fs.FS, error) {
	if r.dir == "" {
		return fs.Sub(embedded, "templates")
	}
	return os.DirFS(r.dir), nil
}

// Reload reparses every page. The previous set stays in use when parsing
// fails.
func (r *Renderer) Reload() error {
	src, err := r.source()
	if err != nil {
		return err
	}
	set := make(map[string]*template.Template, len(pages))
	for _, name := range pages {
		t, err := template.New(name).Funcs(funcs).ParseFS(src, layoutFile, name+".html")
		if err != nil {
			return fmt.Errorf("parse template %s: %w", name, err)
		}
		set[name] = t
	}
	r.mu.Lock()
	r.set = set
	r.mu.Unlock()
	return nil
}

// Render executes page into a buffer and writes it with status. Nothing is
// written when execution fails.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data Page) error {
	r.mu.RLock()
	t, ok := r.set[page]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// Watch reloads the templates whenever a file in the template directory
// changes. It returns immediately for the embedded set and blocks until ctx
// is done otherwise.
func (r *Renderer) Watch(ctx context.Context) error {
	if r.dir == "" {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dir, err := filepath.Abs(r.dir)
	if err != nil {
		return err
	}
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	r.logger.Info().Str("dir", dir).Msg("watching templates")

	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create) &&
				!evt.Has(fsnotify.Remove) && !evt.Has(fsnotify.Rename) {
				continue
			}
			if err := r.Reload(); err != nil {
				r.logger.Error().Err(err).Str("file", evt.Name).Msg("template reload failed")
				continue
			}
			r.logger.Debug().Str("file", evt.Name).Msg("templates reloaded")
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Error().Err(err).Msg("template watcher error")
		}
	}
}

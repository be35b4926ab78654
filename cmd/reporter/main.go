package main

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"newsroom/internal/agent"
	"newsroom/internal/app"
	"newsroom/internal/httputil"
	"newsroom/internal/session"
)

//go:embed index.html
var uiFS embed.FS

type reviseRequest struct {
	Feedback string `json:"feedback" validate:"required,min=3,max=2000"`
}

func main() {
	deps, err := app.Build()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	r := newRouter(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Port)
	// The UI URL goes to stdout; everything else is structured logging.
	fmt.Printf("http://localhost:%d\n", deps.Config.Port)
	deps.Log.Info("reporter listening", "addr", addr)

	g, ctx := errgroup.WithContext(context.Background())
	g.Go(func() error {
		return http.ListenAndServe(addr, r)
	})
	if mem, ok := deps.Sessions.(*session.MemoryStore); ok {
		g.Go(func() error {
			return mem.Janitor(ctx, time.Minute)
		})
	}
	if err := g.Wait(); err != nil {
		deps.Log.Error("server failed", "err", err)
	}
}

func newRouter(deps app.Deps) *chi.Mux {
	r := httputil.NewRouter(deps.Log)

	r.Get("/", uiHandler(deps))
	r.Post("/api/sessions", createSessionHandler(deps))
	r.Get("/api/sessions/{id}", getSessionHandler(deps))
	r.Post("/api/sessions/{id}/revise", reviseHandler(deps))
	r.Post("/api/sessions/{id}/save", saveHandler(deps))
	r.Get("/healthz", httputil.HealthHandler(deps.Log))

	return r
}

func uiHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := uiFS.ReadFile("index.html")
		if err != nil {
			httputil.Fail(deps.Log, w, "ui unavailable", err, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if _, err := w.Write(page); err != nil {
			deps.Log.Warn("ui write failed", "err", err)
		}
	}
}

// createSessionHandler accepts multipart uploads (fields "audio" and/or
// "image"), runs the initial generation, and stores the new session.
func createSessionHandler(deps app.Deps) http.HandlerFunc {
	maxFileSize := deps.Config.MaxUploadSize

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		// Validate size before parsing the form
		if r.ContentLength > maxFileSize {
			httputil.Fail(deps.Log, w, fmt.Sprintf("upload too large (max %d bytes)", maxFileSize), nil, http.StatusBadRequest)
			return
		}

		st := session.State{ID: uuid.New()}
		uploadDir := filepath.Join(deps.Config.UploadDir, st.ID.String())

		audioPath, err := saveUpload(r, "audio", uploadDir, maxFileSize, audioExt)
		if err != nil {
			httputil.Fail(deps.Log, w, "invalid audio upload", err, http.StatusBadRequest)
			return
		}
		imagePath, err := saveUpload(r, "image", uploadDir, maxFileSize, imageExt)
		if err != nil {
			httputil.Fail(deps.Log, w, "invalid image upload", err, http.StatusBadRequest)
			return
		}
		st.AudioPath = audioPath
		st.ImagePath = imagePath

		st, err = deps.Reporter.Generate(ctx, st)
		if err != nil {
			failAgent(deps.Log, w, err)
			return
		}

		if err := deps.Sessions.Put(ctx, st); err != nil {
			httputil.Fail(deps.Log, w, "failed to store session", err, http.StatusInternalServerError)
			return
		}

		httputil.WriteJSON(w, http.StatusCreated, sessionResponse(st))
	}
}

func getSessionHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, ok := loadSession(deps, w, r)
		if !ok {
			return
		}
		httputil.WriteJSON(w, http.StatusOK, sessionResponse(st))
	}
}

func reviseHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req reviseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httputil.Fail(deps.Log, w, "invalid payload", err, http.StatusBadRequest)
			return
		}
		req.Feedback = strings.TrimSpace(req.Feedback)
		if err := httputil.Validator.Struct(&req); err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}

		st, ok := loadSession(deps, w, r)
		if !ok {
			return
		}

		ctx := r.Context()
		st, err := deps.Reporter.Revise(ctx, st, req.Feedback)
		if err != nil {
			failAgent(deps.Log, w, err)
			return
		}

		if err := deps.Sessions.Put(ctx, st); err != nil {
			httputil.Fail(deps.Log, w, "failed to store session", err, http.StatusInternalServerError)
			return
		}

		httputil.WriteJSON(w, http.StatusOK, sessionResponse(st))
	}
}

func saveHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, ok := loadSession(deps, w, r)
		if !ok {
			return
		}
		if !st.HasReport() {
			httputil.Fail(deps.Log, w, "no report to save", agent.ErrNoPriorReport, http.StatusConflict)
			return
		}

		path, err := deps.Saver.Save(st.ID, st.Report)
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to save report", err, http.StatusInternalServerError)
			return
		}

		deps.Log.Info("report saved", "session_id", st.ID, "path", path)
		httputil.WriteJSON(w, http.StatusOK, map[string]any{"path": path})
	}
}

// loadSession parses the id URL param and fetches the session, writing the
// error response itself when either step fails.
func loadSession(deps app.Deps, w http.ResponseWriter, r *http.Request) (session.State, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Fail(deps.Log, w, "invalid session id", err, http.StatusBadRequest)
		return session.State{}, false
	}
	st, err := deps.Sessions.Get(r.Context(), id)
	if errors.Is(err, session.ErrNotFound) {
		httputil.Fail(deps.Log, w, "session not found", err, http.StatusNotFound)
		return session.State{}, false
	}
	if err != nil {
		httputil.Fail(deps.Log, w, "failed to load session", err, http.StatusInternalServerError)
		return session.State{}, false
	}
	return st, true
}

// failAgent maps agent errors onto HTTP statuses.
func failAgent(log *slog.Logger, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, agent.ErrInputMissing):
		httputil.Fail(log, w, "please provide an audio or image file", err, http.StatusBadRequest)
	case errors.Is(err, agent.ErrNoPriorReport):
		httputil.Fail(log, w, "no report to revise", err, http.StatusConflict)
	case errors.Is(err, agent.ErrInference):
		httputil.Fail(log, w, "model call failed", err, http.StatusBadGateway)
	default:
		httputil.Fail(log, w, "internal error", err, http.StatusInternalServerError)
	}
}

func sessionResponse(st session.State) map[string]any {
	transcript := st.Transcript
	if st.AudioPath == "" {
		transcript = "No audio was provided to transcribe."
	}
	description := st.ImageDescription
	if st.ImagePath == "" {
		description = "No image was provided to describe."
	}
	return map[string]any{
		"session_id":        st.ID.String(),
		"report":            st.Report,
		"transcript":        transcript,
		"image_description": description,
	}
}

var (
	audioExt = map[string]bool{
		".mp3": true, ".wav": true, ".m4a": true,
		".ogg": true, ".flac": true, ".webm": true,
	}
	imageExt = map[string]bool{
		".jpg": true, ".jpeg": true, ".png": true,
		".gif": true, ".webp": true,
	}
)

// saveUpload writes the named multipart file under dir and returns its path.
// A missing field is not an error; it returns an empty path.
func saveUpload(r *http.Request, field, dir string, maxSize int64, allowed map[string]bool) (string, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer file.Close()

	if header.Size > maxSize {
		return "", fmt.Errorf("%s too large (max %d bytes)", field, maxSize)
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowed[ext] {
		return "", fmt.Errorf("unsupported %s type: %s", field, ext)
	}
	return writeUpload(file, dir, field+ext)
}

func writeUpload(file multipart.File, dir, name string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, name)
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, file); err != nil {
		return "", err
	}
	return path, nil
}

package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/desertthunder/ytbox/internal/creator"
	"github.com/desertthunder/ytbox/internal/formatter"
	"github.com/desertthunder/ytbox/internal/models"
	"github.com/desertthunder/ytbox/internal/session"
	"github.com/desertthunder/ytbox/internal/shared"
	"github.com/desertthunder/ytbox/internal/tasks"
	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

// RegisterRoutes sets up all API routes on the given gin engine.
func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", s.Health)

	api := r.Group("/api")
	{
		api.GET("/creator/tiers", s.ListTiers)
		api.POST("/sessions", s.CreateSession)
	}

	sess := api.Group("/sessions/:id", s.loadSession)
	{
		sess.GET("", s.GetSession)
		sess.DELETE("", s.CloseSession)

		sess.GET("/search", s.Search)
		sess.POST("/select", s.Select)
		sess.POST("/resolve", s.Resolve)
		sess.PUT("/now-playing", s.Play)
		sess.DELETE("/now-playing", s.Stop)

		sess.GET("/playlists", s.ListPlaylists)
		sess.POST("/playlists", s.CreatePlaylist)
		sess.PUT("/playlists/active", s.UsePlaylist)
		sess.POST("/playlists/import", s.ImportPlaylist)
		sess.GET("/playlists/:name", s.GetPlaylist)
		sess.DELETE("/playlists/:name", s.ClearPlaylist)
		sess.POST("/playlists/:name/tracks", s.AddTracks)
		sess.DELETE("/playlists/:name/tracks/:index", s.RemoveTrack)
		sess.GET("/playlists/:name/export", s.ExportPlaylist)
		sess.POST("/playlists/:name/download", s.DownloadPlaylist)

		sess.POST("/acquire", s.Acquire)
		sess.GET("/files/:file", s.File)
		sess.POST("/clean", s.Clean)

		sess.GET("/uploads", s.ListUploads)
		sess.POST("/uploads", s.Upload)
		sess.POST("/uploads/:upload/play", s.PlayUpload)
		sess.POST("/uploads/:upload/promote", s.Promote)
		sess.GET("/earnings", s.Earnings)
	}
}

func (s *Server) loadSession(c *gin.Context) {
	sess, err := s.manager.Get(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set(sessionKey, sess)
	c.Next()
}

func current(c *gin.Context) *session.Session {
	return c.MustGet(sessionKey).(*session.Session)
}

func reqCtx(c *gin.Context) context.Context {
	return c.Request.Context()
}

// Health returns a simple health check response.
func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": len(s.manager.IDs())})
}

// CreateSession starts a session and returns its id.
func (s *Server) CreateSession(c *gin.Context) {
	sess, err := s.manager.Create()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": sess.ID, "created": sess.Created})
}

// GetSession returns a snapshot of the session state.
func (s *Server) GetSession(c *gin.Context) {
	snap, err := s.commands.Snapshot(reqCtx(c), current(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// CloseSession tears the session down and purges its working area.
func (s *Server) CloseSession(c *gin.Context) {
	if err := s.manager.Close(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Search runs GET ?q=&provider=&limit= and replaces the session's results.
func (s *Server) Search(c *gin.Context) {
	provider, err := models.ParseProvider(c.DefaultQuery("provider", string(models.ProviderAny)))
	if err != nil {
		writeError(c, err)
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil || limit < 1 {
			badRequest(c, "limit must be a positive integer")
			return
		}
	}

	res, err := s.commands.Search(reqCtx(c), current(c), c.Query("q"), provider, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type indexRequest struct {
	Index *int `json:"index" binding:"required"`
}

// Select highlights a search result.
func (s *Server) Select(c *gin.Context) {
	var req indexRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	t, err := s.commands.Select(reqCtx(c), current(c), *req.Index)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

type urlRequest struct {
	URL string `json:"url" binding:"required"`
}

// Resolve turns a pasted link into the selected search result.
func (s *Server) Resolve(c *gin.Context) {
	var req urlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	t, err := s.commands.ResolveURL(reqCtx(c), current(c), req.URL)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// trackRequest optionally carries a track; without one the selection is used.
type trackRequest struct {
	Track *models.Track `json:"track"`
}

func bindOptional(c *gin.Context, v any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(v); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// Play sets the now-playing track.
func (s *Server) Play(c *gin.Context) {
	var req trackRequest
	if !bindOptional(c, &req) {
		return
	}
	t, err := s.commands.Play(reqCtx(c), current(c), req.Track)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// Stop clears the now-playing track.
func (s *Server) Stop(c *gin.Context) {
	if err := s.commands.Stop(reqCtx(c), current(c)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListPlaylists returns every playlist and the active name.
func (s *Server) ListPlaylists(c *gin.Context) {
	snap, err := s.commands.Snapshot(reqCtx(c), current(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"active": snap.Active, "playlists": snap.Playlists})
}

type nameRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreatePlaylist adds an empty playlist and makes it active.
func (s *Server) CreatePlaylist(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	if err := s.commands.CreatePlaylist(reqCtx(c), current(c), req.Name); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"name": req.Name})
}

// UsePlaylist switches the active playlist.
func (s *Server) UsePlaylist(c *gin.Context) {
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	if err := s.commands.UsePlaylist(reqCtx(c), current(c), req.Name); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"active": req.Name})
}

// GetPlaylist returns one playlist.
func (s *Server) GetPlaylist(c *gin.Context) {
	p, err := s.commands.Playlist(reqCtx(c), current(c), c.Param("name"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// ClearPlaylist empties a playlist. It requires ?confirm=true.
func (s *Server) ClearPlaylist(c *gin.Context) {
	confirmed, _ := strconv.ParseBool(c.Query("confirm"))
	n, err := s.commands.ClearPlaylist(reqCtx(c), current(c), c.Param("name"), confirmed)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": n})
}

type addRequest struct {
	Track *models.Track `json:"track"`
	URLs  []string      `json:"urls"`
}

// AddTracks appends to the named playlist, activating it first. The body carries
// a track, a list of links to resolve, or nothing to add the selection. A failed
// add leaves the previously active playlist in place.
func (s *Server) AddTracks(c *gin.Context) {
	var req addRequest
	if !bindOptional(c, &req) {
		return
	}

	out, err := s.commands.AddToPlaylist(reqCtx(c), current(c), c.Param("name"), session.AddRequest{
		URLs:  req.URLs,
		Track: req.Track,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	if out.URLs != nil {
		c.JSON(http.StatusOK, out.URLs)
		return
	}
	c.JSON(http.StatusCreated, out.Track)
}

// RemoveTrack deletes the track at a zero based index.
func (s *Server) RemoveTrack(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		badRequest(c, "index must be an integer")
		return
	}
	t, err := s.commands.Remove(reqCtx(c), current(c), c.Param("name"), index)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// ExportPlaylist offers a playlist document as an attachment (?format=json|csv|markdown|txt).
func (s *Server) ExportPlaylist(c *gin.Context) {
	format, err := formatter.ParseFormat(c.DefaultQuery("format", string(formatter.FormatJSON)))
	if err != nil {
		writeError(c, err)
		return
	}

	sink := &attachmentSink{}
	if _, err := s.commands.Export(reqCtx(c), current(c), c.Param("name"), format, sink); err != nil {
		writeError(c, err)
		return
	}
	sink.single(c)
}

// ImportPlaylist merges an uploaded playlist document into the playlist it names,
// creating and activating it as needed.
func (s *Server) ImportPlaylist(c *gin.Context) {
	var body io.Reader = c.Request.Body
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if err != nil {
			badRequest(c, "multipart field 'file' is required")
			return
		}
		f, err := fh.Open()
		if err != nil {
			writeError(c, err)
			return
		}
		defer f.Close()
		body = f
	}

	res, err := s.commands.ImportPlaylist(reqCtx(c), current(c), body)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// DownloadPlaylist batch downloads a playlist (?mode=bundle|individual).
//
// A bundle is returned as a zip attachment. Individual artifacts are listed and
// fetched one by one from the files endpoint.
func (s *Server) DownloadPlaylist(c *gin.Context) {
	mode, err := models.ParseBatchMode(c.Query("mode"))
	if err != nil {
		writeError(c, err)
		return
	}

	sess := current(c)
	logger := sess.Logger()
	progress := func(u tasks.ProgressUpdate) {
		logger.Debug("batch progress", "phase", u.Phase, "step", u.Step, "total", u.Total, "message", u.Message)
	}

	sink := &attachmentSink{}
	result, err := s.commands.DownloadPlaylist(reqCtx(c), sess, c.Param("name"), mode, progress, sink)
	if err != nil {
		writeError(c, err)
		return
	}
	if mode == models.BatchBundle && sink.single(c) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result, "files": sink.names()})
}

type acquireRequest struct {
	URL   string        `json:"url"`
	Track *models.Track `json:"track"`
}

// Acquire downloads one track and returns it as an attachment. The body names a
// link, a track, or nothing to use the selection.
func (s *Server) Acquire(c *gin.Context) {
	var req acquireRequest
	if !bindOptional(c, &req) {
		return
	}

	sess := current(c)
	sink := &attachmentSink{}
	var err error
	switch {
	case req.URL != "":
		_, err = s.commands.DownloadURL(reqCtx(c), sess, req.URL, sink)
	case req.Track != nil:
		_, err = s.commands.DownloadTrack(reqCtx(c), sess, *req.Track, sink)
	default:
		_, err = s.commands.DownloadSelected(reqCtx(c), sess, sink)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	sink.single(c)
}

// File serves an artifact from the session working area.
func (s *Server) File(c *gin.Context) {
	sess := current(c)
	name := filepath.Base(c.Param("file"))

	err := sess.Do(reqCtx(c), func(context.Context, *session.State) error {
		data, err := os.ReadFile(filepath.Join(sess.Dir, name))
		if err != nil {
			return fmt.Errorf("%w: no file %q in session", shared.ErrTrackNotFound, name)
		}
		attach(c, name, tasks.AudioMimeType(name), data)
		return nil
	})
	if err != nil {
		writeError(c, err)
	}
}

// Clean purges downloads from the working area.
func (s *Server) Clean(c *gin.Context) {
	n, err := s.commands.CleanWorkdir(reqCtx(c), current(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": n})
}

// ListUploads returns the creator inventory.
func (s *Server) ListUploads(c *gin.Context) {
	ups, err := s.commands.Uploads(reqCtx(c), current(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ups)
}

// Upload accepts a multipart form with title, artist, genre and file fields.
func (s *Server) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "multipart field 'file' is required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		writeError(c, err)
		return
	}
	defer f.Close()

	up, err := s.commands.Upload(reqCtx(c), current(c), c.PostForm("title"), c.PostForm("artist"), c.PostForm("genre"), fh.Filename, f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, up)
}

// PlayUpload counts a play of an upload.
func (s *Server) PlayUpload(c *gin.Context) {
	up, err := s.commands.PlayUpload(reqCtx(c), current(c), c.Param("upload"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, up)
}

type promoteRequest struct {
	Tier string `json:"tier" binding:"required"`
}

// Promote returns a payment link for promoting an upload.
func (s *Server) Promote(c *gin.Context) {
	var req promoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	promo, err := s.commands.Promote(reqCtx(c), current(c), c.Param("upload"), req.Tier)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, promo)
}

type amount struct {
	Cents    int64  `json:"cents"`
	Currency string `json:"currency"`
	Display  string `json:"display"`
}

func toAmount(m *money.Money) amount {
	return amount{Cents: m.Amount(), Currency: m.Currency().Code, Display: m.Display()}
}

// Earnings returns simulated earnings from play counts.
func (s *Server) Earnings(c *gin.Context) {
	total, err := s.commands.Earnings(reqCtx(c), current(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAmount(total))
}

// ListTiers returns the promotion tiers with prices.
func (s *Server) ListTiers(c *gin.Context) {
	type tier struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Price       amount `json:"price"`
	}

	tiers := creator.Tiers(s.currency)
	out := make([]tier, len(tiers))
	for i, t := range tiers {
		out[i] = tier{Name: t.Name, Description: t.Description, Price: toAmount(t.Price)}
	}
	c.JSON(http.StatusOK, out)
}

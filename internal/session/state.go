package session

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/desertthunder/ytbox/internal/models"
	"github.com/desertthunder/ytbox/internal/shared"
)

// DefaultPlaylist always exists once a state is created.
const DefaultPlaylist = "Favorites"

// State is the in-memory state of one interactive session.
//
// Every method either applies its whole change or, on error, leaves the state
// untouched. State is not safe for concurrent use; [Session.Do] serializes access.
type State struct {
	results    []models.Track
	playlists  map[string]*models.Playlist
	order      []string
	active     string
	selected   *models.Track
	nowPlaying *models.Track
	uploads    []models.UploadedTrack
}

// NewState returns a state holding only the empty [DefaultPlaylist], which is active.
func NewState() *State {
	s := &State{playlists: map[string]*models.Playlist{}}
	s.ensureDefault()
	return s
}

func (s *State) ensureDefault() {
	if len(s.playlists) == 0 {
		s.playlists[DefaultPlaylist] = models.NewPlaylist(DefaultPlaylist)
		s.order = []string{DefaultPlaylist}
		s.active = DefaultPlaylist
	}
}

// SetSearchResults replaces the search results and clears the selection.
func (s *State) SetSearchResults(tracks []models.Track) {
	s.results = slices.Clone(tracks)
	if s.results == nil {
		s.results = []models.Track{}
	}
	s.selected = nil
}

// SearchResults returns a copy of the last search results.
func (s *State) SearchResults() []models.Track {
	return slices.Clone(s.results)
}

// Select highlights search result index (zero based).
func (s *State) Select(index int) (models.Track, error) {
	if index < 0 || index >= len(s.results) {
		return models.Track{}, fmt.Errorf("%w: result %d of %d", shared.ErrInvalidIndex, index, len(s.results))
	}
	t := s.results[index]
	s.selected = &t
	return t, nil
}

// Selected returns the highlighted track, if any.
func (s *State) Selected() (models.Track, bool) {
	if s.selected == nil {
		return models.Track{}, false
	}
	return *s.selected, true
}

// ActivePlaylist returns a copy of the active playlist.
func (s *State) ActivePlaylist() *models.Playlist {
	s.ensureDefault()
	return s.playlists[s.active].Clone()
}

// ActiveName is the name of the active playlist.
func (s *State) ActiveName() string {
	s.ensureDefault()
	return s.active
}

// Playlist returns a copy of the named playlist.
func (s *State) Playlist(name string) (*models.Playlist, error) {
	p, err := s.lookup(name)
	if err != nil {
		return nil, err
	}
	return p.Clone(), nil
}

func (s *State) lookup(name string) (*models.Playlist, error) {
	s.ensureDefault()
	p, ok := s.playlists[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", shared.ErrPlaylistNotFound, name)
	}
	return p, nil
}

// PlaylistNames lists playlists in creation order.
func (s *State) PlaylistNames() []string {
	s.ensureDefault()
	return slices.Clone(s.order)
}

// AddToActive appends track to the active playlist.
//
// A track whose source url is already present is not added and
// [shared.ErrDuplicateTrack] is returned; callers treat it as a warning.
func (s *State) AddToActive(track models.Track) error {
	if err := track.Validate(); err != nil {
		return err
	}
	p, err := s.lookup(s.ActiveName())
	if err != nil {
		return err
	}
	if p.Contains(track.SourceURL) {
		return fmt.Errorf("%w: %q is already in %q", shared.ErrDuplicateTrack, track.Title, p.Name)
	}
	p.Tracks = append(p.Tracks, track)
	return nil
}

// RemoveFromPlaylist removes the track at index (zero based) from the named playlist.
func (s *State) RemoveFromPlaylist(name string, index int) (models.Track, error) {
	p, err := s.lookup(name)
	if err != nil {
		return models.Track{}, err
	}
	if index < 0 || index >= p.Len() {
		return models.Track{}, fmt.Errorf("%w: track %d of %d in %q", shared.ErrInvalidIndex, index, p.Len(), name)
	}
	removed := p.Tracks[index]
	p.Tracks = slices.Delete(p.Tracks, index, index+1)
	return removed, nil
}

// CreatePlaylist inserts an empty playlist and makes it active.
func (s *State) CreatePlaylist(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: playlist name is empty", shared.ErrValidation)
	}
	s.ensureDefault()
	if _, ok := s.playlists[name]; ok {
		return fmt.Errorf("%w: %q", shared.ErrDuplicateName, name)
	}
	s.playlists[name] = models.NewPlaylist(name)
	s.order = append(s.order, name)
	s.active = name
	return nil
}

// SetActivePlaylist switches the active playlist.
func (s *State) SetActivePlaylist(name string) error {
	if _, err := s.lookup(name); err != nil {
		return err
	}
	s.active = name
	return nil
}

// ClearPlaylist empties the named playlist. confirmed records that the user agreed;
// without it [shared.ErrConfirmationRequired] is returned and nothing changes.
func (s *State) ClearPlaylist(name string, confirmed bool) (int, error) {
	p, err := s.lookup(name)
	if err != nil {
		return 0, err
	}
	if !confirmed {
		return 0, fmt.Errorf("%w: clearing %q removes %d tracks", shared.ErrConfirmationRequired, name, p.Len())
	}
	n := p.Len()
	p.Tracks = []models.Track{}
	return n, nil
}

// SetNowPlaying sets the simulated playback target.
func (s *State) SetNowPlaying(track models.Track) {
	s.nowPlaying = &track
}

// ClearNowPlaying stops simulated playback.
func (s *State) ClearNowPlaying() {
	s.nowPlaying = nil
}

// NowPlaying returns the playback target, if any.
func (s *State) NowPlaying() (models.Track, bool) {
	if s.nowPlaying == nil {
		return models.Track{}, false
	}
	return *s.nowPlaying, true
}

// ExportPlaylist snapshots the named playlist as a portable document.
func (s *State) ExportPlaylist(name string, now time.Time) (models.PlaylistDocument, error) {
	p, err := s.lookup(name)
	if err != nil {
		return models.PlaylistDocument{}, err
	}
	return models.NewPlaylistDocument(p, now), nil
}

// ImportDocument merges doc into the active playlist by source url and returns how
// many tracks were added. Songs that fail validation are skipped.
func (s *State) ImportDocument(doc models.PlaylistDocument) int {
	p, err := s.lookup(s.ActiveName())
	if err != nil {
		return 0
	}
	added := 0
	for _, t := range doc.Songs {
		if t.Validate() != nil || p.Contains(t.SourceURL) {
			continue
		}
		p.Tracks = append(p.Tracks, t)
		added++
	}
	return added
}

// RegisterUpload appends to the creator inventory.
func (s *State) RegisterUpload(u models.UploadedTrack) {
	s.uploads = append(s.uploads, u)
}

// Uploads returns a copy of the creator inventory.
func (s *State) Uploads() []models.UploadedTrack {
	return slices.Clone(s.uploads)
}

// Upload finds an inventory entry by id.
func (s *State) Upload(id string) (models.UploadedTrack, error) {
	for _, u := range s.uploads {
		if u.ID == id {
			return u, nil
		}
	}
	return models.UploadedTrack{}, fmt.Errorf("%w: %q", shared.ErrUploadNotFound, id)
}

// RecordPlay counts one play of an upload.
func (s *State) RecordPlay(id string) (models.UploadedTrack, error) {
	for i := range s.uploads {
		if s.uploads[i].ID == id {
			s.uploads[i].Plays++
			return s.uploads[i], nil
		}
	}
	return models.UploadedTrack{}, fmt.Errorf("%w: %q", shared.ErrUploadNotFound, id)
}

// MarkPromoted records the tier an upload was promoted at.
func (s *State) MarkPromoted(id, tier string) error {
	for i := range s.uploads {
		if s.uploads[i].ID == id {
			s.uploads[i].Promoted = tier
			return nil
		}
	}
	return fmt.Errorf("%w: %q", shared.ErrUploadNotFound, id)
}

// Snapshot is a read-only view of a state, safe to serialize.
type Snapshot struct {
	SearchResults []models.Track         `json:"search_results"`
	Selected      *models.Track          `json:"selected,omitempty"`
	NowPlaying    *models.Track          `json:"now_playing,omitempty"`
	Active        string                 `json:"active_playlist"`
	Playlists     []*models.Playlist     `json:"playlists"`
	Uploads       []models.UploadedTrack `json:"uploads"`
}

// Snapshot copies the whole state.
func (s *State) Snapshot() Snapshot {
	snap := Snapshot{
		SearchResults: s.SearchResults(),
		Active:        s.ActiveName(),
		Uploads:       s.Uploads(),
	}
	if snap.SearchResults == nil {
		snap.SearchResults = []models.Track{}
	}
	if snap.Uploads == nil {
		snap.Uploads = []models.UploadedTrack{}
	}
	if t, ok := s.Selected(); ok {
		snap.Selected = &t
	}
	if t, ok := s.NowPlaying(); ok {
		snap.NowPlaying = &t
	}
	for _, name := range s.order {
		snap.Playlists = append(snap.Playlists, s.playlists[name].Clone())
	}
	return snap
}

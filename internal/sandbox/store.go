package sandbox

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/therealutkarshpriyadarshi/catalogadmin/pkg/models"
)

const dateLayout = "02.01.2006"

var (
	errNotFound  = errors.New("not found")
	errDuplicate = errors.New("duplicate")
)

type video struct {
	id          int64
	name        string
	url         string
	imgURL      string
	description string
	categoryIDs []int64
	created     time.Time
}

type category struct {
	id      int64
	name    string
	imgURL  string
	typeIDs []int64
	created time.Time
}

type contentType struct {
	id      int64
	name    string
	created time.Time
}

type user struct {
	id            int64
	username      string
	admin         bool
	contentTypeID int64
	passwordHash  string
	created       time.Time
}

type file struct {
	data    []byte
	modTime time.Time
}

// store is the sandbox's in-memory catalog
type store struct {
	mu         sync.RWMutex
	nextID     int64
	videos     map[int64]*video
	categories map[int64]*category
	types      map[int64]*contentType
	users      map[int64]*user
	files      map[models.MediaKind]map[string]file
	now        func() time.Time
}

func newStore() *store {
	return &store{
		videos:     make(map[int64]*video),
		categories: make(map[int64]*category),
		types:      make(map[int64]*contentType),
		users:      make(map[int64]*user),
		files: map[models.MediaKind]map[string]file{
			models.MediaVideo: {},
			models.MediaImage: {},
		},
		now: time.Now,
	}
}

func (s *store) id() int64 {
	s.nextID++
	return s.nextID
}

func sortedKeys[T any](m map[int64]T) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// refs resolves ids against names, dropping unknown ids
func refs[T any](ids []int64, m map[int64]T, name func(T) string) []models.Ref {
	out := make([]models.Ref, 0, len(ids))
	for _, id := range ids {
		if v, ok := m[id]; ok {
			out = append(out, models.Ref{ID: models.ID(id), Name: name(v)})
		}
	}
	return out
}

func categoryName(c *category) string { return c.name }
func typeName(t *contentType) string  { return t.name }

func (s *store) videoView(v *video) models.Video {
	return models.Video{
		ID:          models.ID(v.id),
		Name:        v.name,
		Description: v.description,
		URL:         v.url,
		ImgURL:      v.imgURL,
		Categories:  refs(v.categoryIDs, s.categories, categoryName),
		CreatedAt:   v.created.Format(dateLayout),
	}
}

func (s *store) categoryView(c *category) models.Category {
	return models.Category{
		ID:          models.ID(c.id),
		Name:        c.name,
		ImgURL:      c.imgURL,
		Types:       refs(c.typeIDs, s.types, typeName),
		DateCreated: c.created.Format(dateLayout),
	}
}

func typeView(t *contentType) models.ContentType {
	return models.ContentType{ID: models.ID(t.id), Name: t.name, CreatedAt: t.created.Format(dateLayout)}
}

func (s *store) userView(u *user) models.User {
	out := models.User{
		ID:            models.ID(u.id),
		Username:      u.username,
		Admin:         u.admin,
		ContentTypeID: models.ID(u.contentTypeID),
		DateCreated:   u.created.Format(dateLayout),
	}
	if t, ok := s.types[u.contentTypeID]; ok {
		out.ContentTypeName = t.name
	}
	return out
}

// Videos

func (s *store) listVideos() []models.Video {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Video, 0, len(s.videos))
	for _, id := range sortedKeys(s.videos) {
		out = append(out, s.videoView(s.videos[id]))
	}
	return out
}

func (s *store) getVideo(id int64) (models.Video, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.videos[id]
	if !ok {
		return models.Video{}, errNotFound
	}
	return s.videoView(v), nil
}

func (s *store) putVideo(id int64, req models.VideoRequest) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := &video{created: s.now()}
	if id != 0 {
		existing, ok := s.videos[id]
		if !ok {
			return 0, errNotFound
		}
		v = existing
	} else {
		v.id = s.id()
		s.videos[v.id] = v
	}
	v.name = req.Name
	v.url = req.URL
	v.imgURL = req.ImgURL
	v.description = req.Description
	v.categoryIDs = append([]int64(nil), req.CategoryIDs...)
	return v.id, nil
}

func (s *store) deleteVideo(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.videos[id]; !ok {
		return errNotFound
	}
	delete(s.videos, id)
	return nil
}

// Categories

func (s *store) listCategories() []models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Category, 0, len(s.categories))
	for _, id := range sortedKeys(s.categories) {
		out = append(out, s.categoryView(s.categories[id]))
	}
	return out
}

func (s *store) getCategory(id int64) (models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.categories[id]
	if !ok {
		return models.Category{}, errNotFound
	}
	return s.categoryView(c), nil
}

func (s *store) putCategory(id int64, req models.CategoryRequest) (models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := &category{created: s.now()}
	if id != 0 {
		existing, ok := s.categories[id]
		if !ok {
			return models.Category{}, errNotFound
		}
		c = existing
	} else {
		c.id = s.id()
		s.categories[c.id] = c
	}
	c.name = req.Name
	c.imgURL = req.ImgURL
	c.typeIDs = append([]int64(nil), req.TypeIDs...)
	return s.categoryView(c), nil
}

func (s *store) deleteCategory(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[id]; !ok {
		return errNotFound
	}
	delete(s.categories, id)
	return nil
}

// Content types

func (s *store) listTypes() []models.ContentType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ContentType, 0, len(s.types))
	for _, id := range sortedKeys(s.types) {
		out = append(out, typeView(s.types[id]))
	}
	return out
}

func (s *store) getType(id int64) (models.ContentType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.types[id]
	if !ok {
		return models.ContentType{}, errNotFound
	}
	return typeView(t), nil
}

func (s *store) putType(id int64, name string) (models.ContentType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &contentType{created: s.now()}
	if id != 0 {
		existing, ok := s.types[id]
		if !ok {
			return models.ContentType{}, errNotFound
		}
		t = existing
	} else {
		t.id = s.id()
		s.types[t.id] = t
	}
	t.name = name
	return typeView(t), nil
}

func (s *store) deleteType(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.types[id]; !ok {
		return errNotFound
	}
	delete(s.types, id)
	return nil
}

// Users

func (s *store) listUsers() []models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, 0, len(s.users))
	for _, id := range sortedKeys(s.users) {
		out = append(out, s.userView(s.users[id]))
	}
	return out
}

func (s *store) getUser(id int64) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return models.User{}, errNotFound
	}
	return s.userView(u), nil
}

// userInput is a validated user body
type userInput struct {
	username      string
	admin         bool
	contentTypeID int64
	passwordHash  string
}

func (s *store) putUser(id int64, in userInput) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.id != id && strings.EqualFold(u.username, in.username) {
			return models.User{}, errDuplicate
		}
	}

	u := &user{created: s.now()}
	if id != 0 {
		existing, ok := s.users[id]
		if !ok {
			return models.User{}, errNotFound
		}
		u = existing
	} else {
		u.id = s.id()
		s.users[u.id] = u
	}
	u.username = in.username
	u.admin = in.admin
	u.contentTypeID = in.contentTypeID
	if in.passwordHash != "" {
		u.passwordHash = in.passwordHash
	}
	return s.userView(u), nil
}

// hasPassword reports whether a user has a stored password
func (s *store) hasPassword(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	return ok && u.passwordHash != ""
}

func (s *store) deleteUser(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return errNotFound
	}
	delete(s.users, id)
	return nil
}

// adminByCredentials finds an admin user by login and password digest
func (s *store) adminByCredentials(login, passwordHash string) (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.username == login && u.passwordHash == passwordHash && u.admin {
			return s.userView(u), true
		}
	}
	return models.User{}, false
}

// Files

func (s *store) listFiles(kind models.MediaKind) []models.FileInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.files[kind]))
	for name := range s.files[kind] {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]models.FileInfo, 0, len(names))
	for _, name := range names {
		f := s.files[kind][name]
		out = append(out, models.FileInfo{
			Name:    name,
			Size:    int64(len(f.data)),
			ModTime: f.modTime.UTC().Format(time.RFC3339),
		})
	}
	return out
}

func (s *store) saveFile(kind models.MediaKind, name string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[kind][name] = file{data: data, modTime: s.now()}
}

func (s *store) fileData(kind models.MediaKind, name string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.files[kind][name]
	return f.data, ok
}

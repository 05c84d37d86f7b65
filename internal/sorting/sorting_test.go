package sorting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/therealutkarshpriyadarshi/catalogadmin/pkg/models"
)

func TestToggle(t *testing.T) {
	tests := []struct {
		name   string
		state  State
		field  string
		policy Policy
		want   State
	}{
		{"table new field starts ascending", State{}, "name", TablePolicy, State{"name", Asc}},
		{"table same field flips", State{"name", Asc}, "name", TablePolicy, State{"name", Desc}},
		{"table flips back", State{"name", Desc}, "name", TablePolicy, State{"name", Asc}},
		{"table switching field resets", State{"name", Desc}, "id", TablePolicy, State{"id", Asc}},
		{"file list new field starts descending", State{"mod_time", Desc}, "size", FileListPolicy, State{"size", Desc}},
		{"file list same field flips", State{"size", Desc}, "size", FileListPolicy, State{"size", Asc}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.Toggle(tt.field, tt.policy))
		})
	}
}

func TestSortVideos(t *testing.T) {
	videos := []models.Video{
		{ID: 2, Name: "beta", CreatedAt: "01.02.2024"},
		{ID: 10, Name: "Alpha", CreatedAt: "31.12.2023"},
		{ID: 1, Name: "gamma", CreatedAt: "2024-03-01T10:00:00Z"},
	}

	byID := Sort(videos, Videos, State{"id", Asc})
	assert.Equal(t, []models.ID{1, 2, 10}, videoIDs(byID))

	byName := Sort(videos, Videos, State{"name", Asc})
	assert.Equal(t, []string{"Alpha", "beta", "gamma"}, []string{byName[0].Name, byName[1].Name, byName[2].Name})

	byDate := Sort(videos, Videos, State{"created_at", Desc})
	assert.Equal(t, []models.ID{1, 2, 10}, videoIDs(byDate))

	// input untouched
	assert.Equal(t, models.ID(2), videos[0].ID)
}

func TestSortUnknownFieldKeepsOrder(t *testing.T) {
	videos := []models.Video{{ID: 3}, {ID: 1}, {ID: 2}}
	got := Sort(videos, Videos, State{"nope", Asc})
	assert.Equal(t, []models.ID{3, 1, 2}, videoIDs(got))
}

// assertReverses checks every field of fs: the descending order is the
// ascending order backwards, up to ties
func assertReverses[T any](t *testing.T, items []T, fs FieldSet[T]) {
	t.Helper()
	for _, field := range fs.Fields() {
		t.Run(field, func(t *testing.T) {
			asc := Sort(items, fs, State{field, Asc})
			desc := Sort(items, fs, State{field, Desc})
			cmp := fs[field]
			for i := range asc {
				assert.Zero(t, cmp(asc[i], desc[len(desc)-1-i]), "position %d", i)
			}
			assert.NotZero(t, cmp(asc[0], asc[len(asc)-1]), "fixture has no spread on %s", field)
		})
	}
}

func TestSortDescendingReversesAscending(t *testing.T) {
	t.Run("users", func(t *testing.T) {
		assertReverses(t, []models.User{
			{ID: 3, Username: "carol", Admin: true, ContentTypeID: 2, ContentTypeName: " Movies", DateCreated: "03.01.2024"},
			{ID: 1, Username: "alice", Admin: false, ContentTypeID: 1, ContentTypeName: "anime", DateCreated: "01.01.2024"},
			{ID: 2, Username: "bob", Admin: true, ContentTypeID: 3, ContentTypeName: "series", DateCreated: "02.01.2024"},
		}, Users)
	})

	t.Run("videos", func(t *testing.T) {
		assertReverses(t, []models.Video{
			{ID: 2, Name: "beta", CreatedAt: "01.02.2024"},
			{ID: 10, Name: "Alpha", CreatedAt: "31.12.2023"},
			{ID: 1, Name: "gamma", CreatedAt: "2024-03-01T10:00:00Z"},
		}, Videos)
	})

	t.Run("categories", func(t *testing.T) {
		assertReverses(t, []models.Category{
			{ID: 5, Name: "Drama", DateCreated: "05.05.2024"},
			{ID: 4, Name: "cartoons", DateCreated: "01.01.2023"},
			{ID: 6, Name: "Érotique", DateCreated: "not a date"},
		}, Categories)
	})

	t.Run("content types", func(t *testing.T) {
		assertReverses(t, []models.ContentType{
			{ID: 1, Name: "Movies", CreatedAt: "02.03.2024"},
			{ID: 3, Name: "kids", CreatedAt: "01.03.2024"},
			{ID: 2, Name: "Series", CreatedAt: "2024-03-05"},
		}, ContentTypes)
	})

	t.Run("files", func(t *testing.T) {
		assertReverses(t, []models.FileInfo{
			{Name: "b.mp4", Size: 300, ModTime: "2024-01-02T00:00:00Z"},
			{Name: "A.mp4", Size: 100, ModTime: "2024-01-03T00:00:00Z"},
			{Name: "c.mp4", Size: 200, ModTime: "2024-01-01T00:00:00Z"},
		}, Files)
	})
}

func TestSortUsersAdminFalseFirst(t *testing.T) {
	users := []models.User{
		{ID: 1, Admin: true},
		{ID: 2, Admin: false},
		{ID: 3, Admin: true},
	}

	asc := Sort(users, Users, State{"admin", Asc})
	assert.False(t, asc[0].Admin)
	// stable among equal keys
	assert.Equal(t, models.ID(1), asc[1].ID)
	assert.Equal(t, models.ID(3), asc[2].ID)

	desc := Sort(users, Users, State{"admin", Desc})
	assert.False(t, desc[2].Admin)
}

func TestSortUsersContentTypeNameIsNormalized(t *testing.T) {
	users := []models.User{
		{ID: 1, ContentTypeName: "  Zeta"},
		{ID: 2, ContentTypeName: "alpha"},
		{ID: 3, ContentTypeName: "BETA "},
	}

	got := Sort(users, Users, State{"content_type_name", Asc})
	assert.Equal(t, models.ID(2), got[0].ID)
	assert.Equal(t, models.ID(3), got[1].ID)
	assert.Equal(t, models.ID(1), got[2].ID)
}

func TestSortFiles(t *testing.T) {
	files := []models.FileInfo{
		{Name: "b.mp4", Size: 300, ModTime: "2024-01-02T00:00:00Z"},
		{Name: "A.mp4", Size: 100, ModTime: "2024-01-03T00:00:00Z"},
		{Name: "c.mp4", Size: 200, ModTime: "2024-01-01T00:00:00Z"},
	}

	byDefault := SortFiles(files, DefaultFileSort)
	assert.Equal(t, "A.mp4", byDefault[0].Name)
	assert.Equal(t, "c.mp4", byDefault[2].Name)

	bySize := SortFiles(files, State{"size", Asc})
	assert.Equal(t, int64(100), bySize[0].Size)

	// case-insensitive name order, also for unknown fields
	byName := SortFiles(files, State{"whatever", Asc})
	assert.Equal(t, []string{"A.mp4", "b.mp4", "c.mp4"}, []string{byName[0].Name, byName[1].Name, byName[2].Name})
}

func TestBaseNamesIgnoresCaseAndAccents(t *testing.T) {
	assert.Equal(t, 0, BaseNames.Compare("resume.mp4", "Résumé.MP4"))
	assert.Equal(t, -1, BaseNames.Compare("apple", "Banana"))
}

func TestParseDate(t *testing.T) {
	epoch := time.Unix(0, 0).UTC()

	tests := []struct {
		in   string
		want time.Time
	}{
		{"31.12.2024", time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)},
		{"1.2.2024", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
		{"2024-03-05T10:20:30Z", time.Date(2024, 3, 5, 10, 20, 30, 0, time.UTC)},
		{"2024-03-05", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"2024-03-05 10:20:30", time.Date(2024, 3, 5, 10, 20, 30, 0, time.UTC)},
		{"", epoch},
		{"not a date", epoch},
		{"31.02.2024", epoch},
		{"aa.bb.cccc", epoch},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.True(t, tt.want.Equal(ParseDate(tt.in)), "ParseDate(%q) = %v", tt.in, ParseDate(tt.in))
		})
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "01.02.2024", FormatDate("1.2.2024"))
	assert.Equal(t, "31.12.2024", FormatDate("31.12.2024"))
	assert.Equal(t, "not set", FormatDate(""))
	assert.Equal(t, "2024-03-05T10:20:30Z", FormatDate("2024-03-05T10:20:30Z"))
	assert.Equal(t, "99.99.2024", FormatDate("99.99.2024"))
}

func TestFieldsListed(t *testing.T) {
	assert.Equal(t, []string{"created_at", "id", "name"}, Videos.Fields())
}

func videoIDs(vs []models.Video) []models.ID {
	ids := make([]models.ID, len(vs))
	for i, v := range vs {
		ids[i] = v.ID
	}
	return ids
}

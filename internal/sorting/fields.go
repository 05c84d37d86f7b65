package sorting

import (
	"cmp"
	"strings"

	"github.com/therealutkarshpriyadarshi/catalogadmin/pkg/models"
)

func compareIDs(a, b models.ID) int {
	return cmp.Compare(a, b)
}

// Videos are sortable by id, name and created_at
var Videos = FieldSet[models.Video]{
	"id":         func(a, b models.Video) int { return compareIDs(a.ID, b.ID) },
	"name":       func(a, b models.Video) int { return Names.Compare(a.Name, b.Name) },
	"created_at": func(a, b models.Video) int { return CompareDates(a.CreatedAt, b.CreatedAt) },
}

// Categories are sortable by id, name and date_created
var Categories = FieldSet[models.Category]{
	"id":           func(a, b models.Category) int { return compareIDs(a.ID, b.ID) },
	"name":         func(a, b models.Category) int { return Names.Compare(a.Name, b.Name) },
	"date_created": func(a, b models.Category) int { return CompareDates(a.DateCreated, b.DateCreated) },
}

// ContentTypes are sortable by id, name and created_at
var ContentTypes = FieldSet[models.ContentType]{
	"id":         func(a, b models.ContentType) int { return compareIDs(a.ID, b.ID) },
	"name":       func(a, b models.ContentType) int { return Names.Compare(a.Name, b.Name) },
	"created_at": func(a, b models.ContentType) int { return CompareDates(a.CreatedAt, b.CreatedAt) },
}

func normalizedTypeName(u models.User) string {
	return strings.ToLower(strings.TrimSpace(u.ContentTypeName))
}

// Users are sortable by id, username, content type, admin flag and date_created
var Users = FieldSet[models.User]{
	"id":              func(a, b models.User) int { return compareIDs(a.ID, b.ID) },
	"username":        func(a, b models.User) int { return Names.Compare(a.Username, b.Username) },
	"content_type_id": func(a, b models.User) int { return compareIDs(a.ContentTypeID, b.ContentTypeID) },
	"content_type_name": func(a, b models.User) int {
		return Names.Compare(normalizedTypeName(a), normalizedTypeName(b))
	},
	"admin":        func(a, b models.User) int { return compareBool(a.Admin, b.Admin) },
	"date_created": func(a, b models.User) int { return CompareDates(a.DateCreated, b.DateCreated) },
}

// Files are sortable by name, size and mod_time
var Files = FieldSet[models.FileInfo]{
	"name":     func(a, b models.FileInfo) int { return BaseNames.Compare(a.Name, b.Name) },
	"size":     func(a, b models.FileInfo) int { return cmp.Compare(a.Size, b.Size) },
	"mod_time": func(a, b models.FileInfo) int { return CompareDates(a.ModTime, b.ModTime) },
}

// DefaultFileSort is the file picker's initial ordering
var DefaultFileSort = State{Field: "mod_time", Order: Desc}

// SortFiles sorts a file listing. Any field other than size and
// mod_time sorts by name
func SortFiles(files []models.FileInfo, st State) []models.FileInfo {
	if _, ok := Files[st.Field]; !ok {
		st.Field = "name"
	}
	return Sort(files, Files, st)
}

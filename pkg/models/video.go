package models

import "strings"

// Video is a catalog video entry
type Video struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
	ImgURL      string `json:"img_url"`
	Categories  []Ref  `json:"categories"`
	CreatedAt   string `json:"created_at"`
}

// Filename returns the last path segment of the video URL
func (v Video) Filename() string {
	if i := strings.LastIndex(v.URL, "/"); i >= 0 {
		return v.URL[i+1:]
	}
	return v.URL
}

// VideoRequest is the create/update body for /video
type VideoRequest struct {
	Name        string  `json:"name"`
	URL         string  `json:"url"`
	ImgURL      string  `json:"img_url"`
	Description string  `json:"description"`
	CategoryIDs []int64 `json:"category_ids"`
}

// Category groups videos and is attached to content types
type Category struct {
	ID          ID     `json:"id"`
	Name        string `json:"name"`
	ImgURL      string `json:"img_url,omitempty"`
	Types       []Ref  `json:"types,omitempty"`
	DateCreated string `json:"date_created,omitempty"`
}

// CategoryRequest is the create/update body for /category
type CategoryRequest struct {
	Name    string  `json:"name"`
	ImgURL  string  `json:"img_url"`
	TypeIDs []int64 `json:"type_ids"`
}

// ContentType is a content-type tag
type ContentType struct {
	ID        ID     `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at,omitempty"`
}

// TypeRequest is the create/update body for /type
type TypeRequest struct {
	Name string `json:"name"`
}

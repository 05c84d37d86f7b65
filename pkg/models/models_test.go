package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want ID
	}{
		{"number", `7`, 7},
		{"float", `7.0`, 7},
		{"string", `"12"`, 12},
		{"empty string", `""`, 0},
		{"null", `null`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id ID
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &id))
			assert.Equal(t, tt.want, id)
		})
	}

	var id ID
	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &id))
}

func TestUserDecodesStringIDs(t *testing.T) {
	var u User
	err := json.Unmarshal([]byte(`{"id":"3","username":"kate","content_type_id":"2","content_type_name":"Yoga","admin":true,"date_created":"01.02.2024"}`), &u)
	require.NoError(t, err)

	assert.Equal(t, ID(3), u.ID)
	assert.Equal(t, ID(2), u.ContentTypeID)
	assert.True(t, u.Admin)
}

func TestUserRequestOmitsBlankPassword(t *testing.T) {
	data, err := json.Marshal(UserRequest{Username: "kate"})
	require.NoError(t, err)

	assert.JSONEq(t, `{"username":"kate","admin":false,"content_type_id":null,"content_type_name":null}`, string(data))
}

func TestParseID(t *testing.T) {
	id, err := ParseID(" 42 ")
	require.NoError(t, err)
	assert.Equal(t, ID(42), id)

	_, err = ParseID("0")
	assert.Error(t, err)
	_, err = ParseID("x")
	assert.Error(t, err)
}

func TestVideoFilename(t *testing.T) {
	assert.Equal(t, "clip.mp4", Video{URL: "https://cdn.example.com/video/clip.mp4"}.Filename())
	assert.Equal(t, "clip.mp4", Video{URL: "clip.mp4"}.Filename())
}

func TestParseMediaKind(t *testing.T) {
	k, err := ParseMediaKind("image")
	require.NoError(t, err)
	assert.Equal(t, MediaImage, k)
	assert.Equal(t, "image", k.FormField())

	k, err = ParseMediaKind("video")
	require.NoError(t, err)
	assert.Equal(t, "video", k.FormField())

	_, err = ParseMediaKind("audio")
	assert.Error(t, err)
}

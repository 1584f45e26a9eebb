package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "puppaka/internal/errors"
)

func TestPost_Validate(t *testing.T) {
	tests := []struct {
		name       string
		post       Post
		wantFields []string
	}{
		{
			name: "valid",
			post: Post{Title: "Hello", Slug: "hello-world", Content: "body"},
		},
		{
			name:       "missing required",
			post:       Post{},
			wantFields: []string{"title", "slug", "content"},
		},
		{
			name:       "slug with spaces",
			post:       Post{Title: "Hello", Slug: "hello world", Content: "body"},
			wantFields: []string{"slug"},
		},
		{
			name:       "upper case slug",
			post:       Post{Title: "Hello", Slug: "Hello", Content: "body"},
			wantFields: []string{"slug"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.post.Validate()
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}
			var verr *apperrors.ValidationError
			require.ErrorAs(t, err, &verr)
			for _, f := range tt.wantFields {
				assert.Contains(t, verr.Fields, f)
			}
			assert.Len(t, verr.Fields, len(tt.wantFields))
		})
	}
}

func TestProject_Validate(t *testing.T) {
	p := Project{Title: "Site", Slug: "site", Description: "desc", Link: "not a url"}

	var verr *apperrors.ValidationError
	require.ErrorAs(t, p.Validate(), &verr)
	assert.Equal(t, "must be a valid URL", verr.Fields["link"])

	p.Link = "https://example.com"
	assert.NoError(t, p.Validate())
}

func TestContact_Validate(t *testing.T) {
	c := Contact{Name: "Ann", Email: "ann@example.com", Message: ""}

	var verr *apperrors.ValidationError
	require.ErrorAs(t, c.Validate(), &verr)
	assert.Equal(t, "is required", verr.Fields["message"])

	c.Message = "hi"
	assert.NoError(t, c.Validate())

	c.Email = "nope"
	assert.Error(t, c.Validate())
}

func TestIsSlug(t *testing.T) {
	assert.True(t, IsSlug("getting-started"))
	assert.True(t, IsSlug("v2_release"))
	assert.True(t, IsSlug("a1"))
	assert.False(t, IsSlug(""))
	assert.False(t, IsSlug("-leading"))
	assert.False(t, IsSlug("double--dash"))
	assert.False(t, IsSlug("über"))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"go", "web", "sql"}, SplitList(" go, web ,,sql "))
	assert.Empty(t, SplitList(""))
	assert.Equal(t, []string{"design"}, (&Post{Tags: "design"}).TagList())
	assert.Equal(t, []string{"Go", "Echo"}, (&Project{Technologies: "Go,Echo"}).TechnologyList())
}

func TestNewPost_DefaultsPublished(t *testing.T) {
	assert.True(t, NewPost().Published)
	assert.True(t, NewProject().Published)
}

package service

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryService_CreateCategory(t *testing.T) {
	env := setupServiceTest(t)
	svc := NewCategoryService(env.categoryRepo)

	tests := []struct {
		name     string
		input    string
		wantName string
		wantErr  error
	}{
		{name: "Valid name is trimmed", input: "  방석 ", wantName: "방석"},
		{name: "Duplicate", input: "방석", wantErr: ErrCategoryExists},
		{name: "Blank", input: "   ", wantErr: ErrNameRequired},
		{name: "Fifty characters allowed", input: strings.Repeat("가", 50), wantName: strings.Repeat("가", 50)},
		{name: "Too long", input: strings.Repeat("가", 51), wantErr: ErrNameTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			category, err := svc.CreateCategory(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, category)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, category.Name)
			assert.True(t, category.IsActive)
		})
	}
}

func TestCategoryService_DeactivateCategory(t *testing.T) {
	env := setupServiceTest(t)
	svc := NewCategoryService(env.categoryRepo)

	category, err := svc.CreateCategory("방석")
	require.NoError(t, err)

	require.NoError(t, svc.DeactivateCategory(category.ID))

	categories, err := svc.ListCategories()
	require.NoError(t, err)
	assert.Empty(t, categories)

	assert.ErrorIs(t, svc.DeactivateCategory(uuid.New()), ErrCategoryNotFound)
}

func TestMediumService(t *testing.T) {
	env := setupServiceTest(t)
	env.seedDefaultMediums(t)
	svc := NewMediumService(env.mediumRepo)

	mediums, err := svc.ListMediums()
	require.NoError(t, err)
	assert.Len(t, mediums, 5)

	_, err = svc.CreateMedium("전화")
	assert.ErrorIs(t, err, ErrMediumExists)

	fax, err := svc.CreateMedium("팩스")
	require.NoError(t, err)
	require.NoError(t, svc.DeactivateMedium(fax.ID))

	mediums, err = svc.ListMediums()
	require.NoError(t, err)
	assert.Len(t, mediums, 5)

	assert.ErrorIs(t, svc.DeactivateMedium(uuid.New()), ErrMediumNotFound)
}

func TestTagService(t *testing.T) {
	env := setupServiceTest(t)
	svc := NewTagService(env.tagRepo)

	tag, err := svc.CreateTag("에어셀")
	require.NoError(t, err)

	_, err = svc.CreateTag("에어셀")
	assert.ErrorIs(t, err, ErrTagExists)

	require.NoError(t, svc.DeleteTag(tag.ID))
	assert.ErrorIs(t, svc.DeleteTag(tag.ID), ErrTagNotFound)

	tags, err := svc.ListTags()
	require.NoError(t, err)
	assert.Empty(t, tags)
}

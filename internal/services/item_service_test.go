package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaashuyko/wishlist-api/internal/apierr"
)

func TestCreateAndGetItem(t *testing.T) {
	t.Parallel()

	svc := NewItemService(newTestDB(t))

	item, err := svc.CreateItem("widget")
	require.NoError(t, err)
	assert.Positive(t, item.ID)

	got, err := svc.GetItemByID(item.ID)
	require.NoError(t, err)
	assert.Equal(t, "widget", got.Name)

	_, err = svc.GetItemByID(item.ID + 1000)
	apiErr := apierr.From(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, "not_found", apiErr.Code)
}

func TestCreateItem_NameLength(t *testing.T) {
	t.Parallel()

	svc := NewItemService(newTestDB(t))

	_, err := svc.CreateItem("")
	require.Error(t, err)

	// The limit counts characters: 100 two-byte characters pass.
	_, err = svc.CreateItem(strings.Repeat("ы", 100))
	require.NoError(t, err)

	_, err = svc.CreateItem(strings.Repeat("ы", 101))
	require.Error(t, err)
	apiErr := apierr.From(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, "validation_error", apiErr.Code)
}

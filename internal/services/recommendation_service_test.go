package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendPrefersOtherCategories(t *testing.T) {
	db := setupTestDB(t)
	service := NewRecommendationService(db)
	burger := itemByName(t, db, "Classic Burger")

	recs, err := service.Recommend(burger.ID, "tr", 0)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "Limonata", recs[0].Name, "drinks go first for a main, localized")
	assert.Equal(t, "Falafel Wrap", recs[1].Name)
	for _, r := range recs {
		assert.NotEqual(t, burger.ID, r.ID)
	}
}

func TestRecommendLimitAndMissingItem(t *testing.T) {
	db := setupTestDB(t)
	service := NewRecommendationService(db)
	lemonade := itemByName(t, db, "Lemonade")

	recs, err := service.Recommend(lemonade.ID, "", 1)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Classic Burger", recs[0].Name, "featured main wins the tie")

	_, err = service.Recommend(9999, "", 4)
	assert.ErrorIs(t, err, ErrItemNotFound)
}

package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/Vickmut/v0-haven-craft-website-design/pkg/db/dbtest"
	"github.com/Vickmut/v0-haven-craft-website-design/pkg/db/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type ctxKey struct{}

func TestBaseDBBindsContext(t *testing.T) {
	base := NewBase(dbtest.Open(t))

	ctx := context.WithValue(context.Background(), ctxKey{}, "value")
	bound := base.DB(ctx)
	require.NotNil(t, bound.Statement)
	assert.Equal(t, ctx, bound.Statement.Context)
	assert.Same(t, base.db, base.DB(nil))
}

func TestBaseTxRollsBack(t *testing.T) {
	db := dbtest.Open(t)
	base := NewBase(db)

	err := base.Tx(context.Background(), func(tx *gorm.DB) error {
		if err := tx.Create(&models.Profile{UID: "u1"}).Error; err != nil {
			return err
		}
		return errors.New("boom")
	})
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Profile{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestLookup(t *testing.T) {
	db := dbtest.Open(t)
	require.NoError(t, db.Create(&models.Profile{UID: "u1", Email: "a@havencraft.test"}).Error)

	find := func(uid string) func(*models.Profile) error {
		return func(p *models.Profile) error { return db.Where("uid = ?", uid).Take(p).Error }
	}

	row, found, err := Lookup(find("u1"))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "a@havencraft.test", row.Email)

	row, found, err = Lookup(find("missing"))
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, row.UID)

	_, _, err = Lookup(func(*models.Profile) error { return errors.New("disk full") })
	assert.EqualError(t, err, "disk full")
}

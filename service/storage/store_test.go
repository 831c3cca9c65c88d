package storage

import (
	"context"
	"path/filepath"
	"testing"

	"zonedash-service/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	store := NewFileStore(path)
	ctx := context.Background()

	// 文件不存在时返回未找到
	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, ErrConfigNotFound)

	doc := []byte(`{"schema_version":2}`)
	require.NoError(t, store.Save(ctx, doc))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, doc, loaded)

	// 覆盖写
	updated := []byte(`{"schema_version":3}`)
	require.NoError(t, store.Save(ctx, updated))
	loaded, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, updated, loaded)

	require.NoError(t, store.Delete(ctx))
	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestGormStoreRoundTrip(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()

	store := NewGormStore(tdb.DB, ConfigKey)
	ctx := context.Background()

	_, err := store.Load(ctx)
	assert.ErrorIs(t, err, ErrConfigNotFound)

	doc := []byte(`{"schema_version":2}`)
	require.NoError(t, store.Save(ctx, doc))

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, doc, loaded)

	// 同一键重复保存为覆盖写，不产生第二行
	updated := []byte(`{"schema_version":2,"active_layout_id":"main"}`)
	require.NoError(t, store.Save(ctx, updated))

	loaded, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, updated, loaded)

	var count int64
	tdb.DB.Table("dashboard_documents").Count(&count)
	assert.EqualValues(t, 1, count)

	require.NoError(t, store.Delete(ctx))
	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestGormStoreDeleteMissingIsNoop(t *testing.T) {
	tdb := testutil.NewTestDB()
	defer tdb.Close()

	store := NewGormStore(tdb.DB, ConfigKey)
	assert.NoError(t, store.Delete(context.Background()))
}

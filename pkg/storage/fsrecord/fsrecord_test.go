package fsrecord

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/lkiparis/printforge-backend/pkg/models"
	"github.com/lkiparis/printforge-backend/pkg/types"
)

func testItem(t *testing.T) *models.Item {
	t.Helper()
	id := uuid.New()
	return &models.Item{
		ID:         id,
		Filename:   "bracket.stl",
		PayloadRef: PayloadFilename(id, "bracket.stl"),
		Config:     types.JSONMap{"tech": "FDM", "material": "PLA", "infill": float64(35)},
		AddedAt:    time.Now().UTC().Truncate(time.Second),
		Quantity:   2,
		Status:     models.ItemStatusPending,
	}
}

func TestPayloadFilenameKeepsExtensionOnly(t *testing.T) {
	id := uuid.New()
	name := PayloadFilename(id, "some body.stl")
	require.Equal(t, id.String()+".stl", name)

	require.Equal(t, id.String(), PayloadFilename(id, "no-extension"))
}

func TestWriteReadMetadataRoundTrip(t *testing.T) {
	dir := t.TempDir()
	item := testItem(t)

	require.NoError(t, WriteMetadata(dir, item))

	path, err := FindMetadata(dir, item.ID)
	require.NoError(t, err)

	got, err := ReadMetadata(path)
	require.NoError(t, err)
	require.Equal(t, item.ID, got.ID)
	require.Equal(t, item.Quantity, got.Quantity)
	require.Equal(t, "FDM", got.Technology())
	require.Equal(t, 35, got.Infill())
}

func TestFindMetadataMissing(t *testing.T) {
	dir := t.TempDir()
	_, err := FindMetadata(dir, uuid.New())
	require.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestListMetadataSkipsTempAndPayloadFiles(t *testing.T) {
	dir := t.TempDir()
	item := testItem(t)

	require.NoError(t, WritePayload(dir, item.PayloadRef, strings.NewReader("solid")))
	require.NoError(t, WriteMetadata(dir, item))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".meta-stale"), []byte("{"), 0o644))

	paths, err := ListMetadata(dir)
	require.NoError(t, err)
	require.Len(t, paths, 1)
	require.True(t, strings.HasSuffix(paths[0], MetadataSuffix))
}

func TestMovePairAndRemovePair(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()
	item := testItem(t)

	require.NoError(t, WritePayload(src, item.PayloadRef, strings.NewReader("solid")))
	require.NoError(t, WriteMetadata(src, item))

	require.NoError(t, MovePair(src, dst, item))

	_, err := FindMetadata(src, item.ID)
	require.True(t, errors.Is(err, fs.ErrNotExist))
	_, err = FindMetadata(dst, item.ID)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dst, item.PayloadRef))
	require.NoError(t, err)

	require.NoError(t, RemovePair(dst, item))
	_, err = os.Stat(filepath.Join(dst, item.PayloadRef))
	require.True(t, os.IsNotExist(err))
}

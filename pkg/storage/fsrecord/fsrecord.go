// Package fsrecord implements the paired-record layout both stores share: a
// binary payload file plus a metadata record at payload path + ".json". The
// metadata record is authoritative for membership; a payload without its
// record is invisible to listings.
package fsrecord

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/lkiparis/printforge-backend/pkg/models"
)

// MetadataSuffix marks metadata records inside a store directory.
const MetadataSuffix = ".json"

// PayloadFilename derives the stored payload name from the item id and the
// uploaded filename; only the extension of the original name is kept.
func PayloadFilename(id uuid.UUID, originalName string) string {
	ext := filepath.Ext(originalName)
	return id.String() + ext
}

// MetadataFilename returns the metadata record name paired with a payload.
func MetadataFilename(payloadName string) string {
	return payloadName + MetadataSuffix
}

// WritePayload streams the payload into dir under name.
func WritePayload(dir, name string, payload io.Reader) error {
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create payload: %w", err)
	}
	if _, err := io.Copy(f, payload); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("write payload: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("close payload: %w", err)
	}
	return nil
}

// WriteMetadata persists the item's metadata record atomically: the record is
// staged in a temp file and renamed into place so a concurrent reader sees
// either the old or the new record, never a partial one.
func WriteMetadata(dir string, item *models.Item) error {
	data, err := json.MarshalIndent(item, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".meta-*")
	if err != nil {
		return fmt.Errorf("stage metadata: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write metadata: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close metadata: %w", err)
	}

	target := filepath.Join(dir, MetadataFilename(item.PayloadRef))
	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("publish metadata: %w", err)
	}
	return nil
}

// ReadMetadata decodes one metadata record.
func ReadMetadata(path string) (*models.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var item models.Item
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, fmt.Errorf("decode metadata %s: %w", filepath.Base(path), err)
	}
	return &item, nil
}

// FindMetadata locates the metadata record for an item id inside dir.
// Returns fs.ErrNotExist when no record matches.
func FindMetadata(dir string, id uuid.UUID) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	prefix := id.String()
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, MetadataSuffix) {
			continue
		}
		if strings.HasPrefix(name, prefix) {
			return filepath.Join(dir, name), nil
		}
	}
	return "", fs.ErrNotExist
}

// ListMetadata returns the metadata record paths in dir. Temp staging files
// are excluded; ordering is left to the caller.
func ListMetadata(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, MetadataSuffix) || strings.HasPrefix(name, ".") {
			continue
		}
		paths = append(paths, filepath.Join(dir, name))
	}
	return paths, nil
}

// MovePair relocates an item's payload and metadata record from srcDir to
// dstDir. The payload moves first: membership follows the metadata record,
// so an interrupted move leaves the item in the source store rather than
// splitting it across both.
func MovePair(srcDir, dstDir string, item *models.Item) error {
	srcPayload := filepath.Join(srcDir, item.PayloadRef)
	dstPayload := filepath.Join(dstDir, item.PayloadRef)
	if err := os.Rename(srcPayload, dstPayload); err != nil {
		return fmt.Errorf("move payload: %w", err)
	}

	meta := MetadataFilename(item.PayloadRef)
	if err := os.Rename(filepath.Join(srcDir, meta), filepath.Join(dstDir, meta)); err != nil {
		return fmt.Errorf("move metadata: %w", err)
	}
	return nil
}

// RemovePair deletes an item's metadata record first, then its payload, so a
// concurrent listing stops returning the item before the payload disappears.
func RemovePair(dir string, item *models.Item) error {
	if err := os.Remove(filepath.Join(dir, MetadataFilename(item.PayloadRef))); err != nil {
		return fmt.Errorf("remove metadata: %w", err)
	}
	if err := os.Remove(filepath.Join(dir, item.PayloadRef)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove payload: %w", err)
	}
	return nil
}

package supabase

import (
	"bytes"
	"fmt"
	"math/rand"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	storage "github.com/supabase-community/storage-go"
)

type StorageClient struct {
	client  *storage.Client
	bucket  string
	baseURL string
}

func NewStorageClient(supabaseURL, serviceKey, bucket string) (*StorageClient, error) {
	baseURL := strings.TrimSuffix(supabaseURL, "/")
	client := storage.NewClient(baseURL+"/storage/v1", serviceKey, nil)

	return &StorageClient{
		client:  client,
		bucket:  bucket,
		baseURL: baseURL,
	}, nil
}

// UploadProjectFile stores one attachment under
// {projectId}/{timestamp}_{random}.{ext} and returns the object key
// and its public URL. The caller inserts the metadata row afterwards:
// the two steps are not atomic and an upload that succeeds before a
// failed insert leaves an orphaned object.
func (s *StorageClient) UploadProjectFile(projectID uuid.UUID, fileName, contentType string, data []byte) (string, string, error) {
	ext := path.Ext(fileName)
	objectKey := fmt.Sprintf("%s/%d_%s%s",
		projectID.String(), time.Now().UnixMilli(), randomSuffix(), ext)

	upsert := false
	_, err := s.client.UploadFile(s.bucket, objectKey, bytes.NewReader(data), storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to upload file: %w", err)
	}

	return objectKey, s.GetPublicURL(objectKey), nil
}

func (s *StorageClient) GetPublicURL(objectKey string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s",
		s.baseURL, s.bucket, objectKey)
}

func (s *StorageClient) DeleteFile(objectKey string) error {
	_, err := s.client.RemoveFile(s.bucket, []string{objectKey})
	return err
}

func randomSuffix() string {
	return strconv.FormatUint(rand.Uint64()%(1<<31), 36)
}

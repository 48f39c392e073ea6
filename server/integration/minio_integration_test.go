//go:build testcontainers
// +build testcontainers

package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/indieinfra/photobin/config"
	"github.com/indieinfra/photobin/server"
)

const (
	minioUser   = "minioadmin"
	minioBucket = "test-photos"
	minioPrefix = "photos"
)

func startMinio(t *testing.T) string {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "minio/minio:RELEASE.2024-01-16T16-07-38Z",
		ExposedPorts: []string{"9000/tcp"},
		Env: map[string]string{
			"MINIO_ROOT_USER":     minioUser,
			"MINIO_ROOT_PASSWORD": minioUser,
		},
		Cmd:        []string{"server", "/data"},
		WaitingFor: wait.ForLog("API:").WithStartupTimeout(60 * time.Second),
	}

	cont, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("failed to start minio container: %v", err)
	}

	t.Cleanup(func() {
		_ = cont.Terminate(ctx)
	})

	host, err := cont.Host(ctx)
	if err != nil {
		t.Fatalf("failed to get host: %v", err)
	}

	mapped, err := cont.MappedPort(ctx, "9000")
	if err != nil {
		t.Fatalf("failed to get mapped port: %v", err)
	}

	return host + ":" + mapped.Port()
}

func minioClient(t *testing.T, endpoint string) *minio.Client {
	t.Helper()

	cli, err := minio.New(endpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(minioUser, minioUser, ""),
		Secure:       false,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		t.Fatalf("failed to init minio client: %v", err)
	}
	return cli
}

func newMinioServer(t *testing.T) (*httptest.Server, *minio.Client) {
	t.Helper()

	endpoint := startMinio(t)
	cli := minioClient(t, endpoint)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := cli.MakeBucket(ctx, minioBucket, minio.MakeBucketOptions{Region: "us-east-1"}); err != nil {
		exists, errExists := cli.BucketExists(ctx, minioBucket)
		if errExists != nil || !exists {
			t.Fatalf("failed to ensure bucket exists: %v", err)
		}
	}

	cfg := &config.Config{
		Server: config.Server{
			Address: "localhost",
			Port:    8080,
			Limits: config.ServerLimits{
				MaxUploadSize:   5 << 20,
				MaxMultipartMem: 8 << 20,
			},
		},
		Metadata: config.Metadata{
			Strategy: "json",
			JSON:     &config.JSONMetadataStrategy{Path: filepath.Join(t.TempDir(), "media.json")},
		},
		Blobs: config.Blobs{
			Strategy: "s3",
			S3: &config.S3BlobStrategy{
				AccessKeyId: minioUser,
				SecretKeyId: minioUser,
				Region:      "us-east-1",
				Bucket:      minioBucket,
				Endpoint:    "http://" + endpoint,
				Prefix:      minioPrefix,
			},
		},
	}

	st, err := server.NewState(cfg, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("failed to build state: %v", err)
	}

	ts := httptest.NewServer(server.NewHandler(st))
	t.Cleanup(ts.Close)
	return ts, cli
}

func TestMinio_UploadStoresAllVariants(t *testing.T) {
	ts, cli := newMinioServer(t)

	resp := postPhoto(t, ts.URL, "item-s3", jpegFixture(t, 1600, 800))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("upload: expected 200, got %d", resp.StatusCode)
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	resp.Body.Close()
	id := body["id"].(string)

	ctx := context.Background()
	for _, variant := range []string{"original", "medium", "thumb"} {
		key := minioPrefix + "/" + variant + "/" + id + ".jpg"
		if _, err := cli.StatObject(ctx, minioBucket, key, minio.StatObjectOptions{}); err != nil {
			t.Fatalf("object %s missing: %v", key, err)
		}
	}
}

func TestMinio_GetAndDelete(t *testing.T) {
	ts, cli := newMinioServer(t)

	resp := postPhoto(t, ts.URL, "item-s3", jpegFixture(t, 200, 100))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("upload: expected 200, got %d", resp.StatusCode)
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	resp.Body.Close()
	id := body["id"].(string)

	get, err := http.Get(ts.URL + "/media/" + id + "?variant=thumb")
	if err != nil {
		t.Fatalf("get thumb: %v", err)
	}
	get.Body.Close()
	if get.StatusCode != http.StatusOK {
		t.Fatalf("get thumb: status %d", get.StatusCode)
	}
	if ct := get.Header.Get("Content-Type"); ct != "image/jpeg" {
		t.Fatalf("get thumb: content type %q", ct)
	}

	del, err := http.NewRequest("DELETE", ts.URL+"/media/"+id, nil)
	if err != nil {
		t.Fatalf("build delete: %v", err)
	}
	delResp, err := http.DefaultClient.Do(del)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	delResp.Body.Close()
	if delResp.StatusCode != http.StatusOK {
		t.Fatalf("delete: status %d", delResp.StatusCode)
	}

	ctx := context.Background()
	for _, variant := range []string{"original", "medium", "thumb"} {
		key := minioPrefix + "/" + variant + "/" + id + ".jpg"
		if _, err := cli.StatObject(ctx, minioBucket, key, minio.StatObjectOptions{}); err == nil {
			t.Fatalf("object %s should be deleted", key)
		}
	}
}

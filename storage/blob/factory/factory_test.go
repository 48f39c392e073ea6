package factory

import (
	"context"
	"io"
	"testing"

	"github.com/indieinfra/photobin/config"
	"github.com/indieinfra/photobin/storage/blob"
)

type stubStore struct{}

func (stubStore) Put(context.Context, string, string, string, []byte) error { return nil }
func (stubStore) Open(context.Context, string, string) (io.ReadCloser, error) {
	return nil, blob.ErrNotFound
}
func (stubStore) Remove(context.Context, string, string) error { return nil }

func TestCreate_UsesRegisteredFactory(t *testing.T) {
	strategy := "stub-blob"
	Register(strategy, func(cfg *config.Blobs) (blob.Store, error) {
		return stubStore{}, nil
	})

	store, err := Create(&config.Blobs{Strategy: strategy})
	if err != nil {
		t.Fatalf("expected store, got error %v", err)
	}

	if _, ok := store.(stubStore); !ok {
		t.Fatalf("unexpected store type: %T", store)
	}
}

func TestCreate_UnknownStrategy(t *testing.T) {
	if _, err := Create(&config.Blobs{Strategy: "ftp"}); err == nil {
		t.Fatalf("expected error for unknown strategy")
	}
}

func TestCreate_FilesystemStrategy(t *testing.T) {
	cfg := &config.Blobs{
		Strategy: "filesystem",
		Filesystem: &config.FilesystemBlobStrategy{
			Path: t.TempDir(),
		},
	}

	store, err := Create(cfg)
	if err != nil {
		t.Fatalf("Create filesystem strategy: %v", err)
	}
	if store == nil {
		t.Fatalf("expected non-nil store")
	}
}

func TestGet_RegisteredStrategies(t *testing.T) {
	for _, strategy := range []string{"filesystem", "s3"} {
		if _, ok := Get(strategy); !ok {
			t.Fatalf("strategy %q not registered", strategy)
		}
	}
}

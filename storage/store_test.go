package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func TestLocalStorePut(t *testing.T) {
	root := t.TempDir()
	store := NewLocalStore(root, DefaultPublicPrefix)

	got, err := store.Put(context.Background(), "projects/screenshots/20240102030405_shot.png", strings.NewReader("png"), 3, "image/png")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}

	want := "/static/uploads/projects/screenshots/20240102030405_shot.png"
	if got != want {
		t.Errorf("path = %q, want %q", got, want)
	}

	data, err := os.ReadFile(filepath.Join(root, "projects", "screenshots", "20240102030405_shot.png"))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(data) != "png" {
		t.Errorf("content = %q, want png", data)
	}
}

func TestLocalStoreCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := NewLocalStore(t.TempDir(), DefaultPublicPrefix)
	if _, err := store.Put(ctx, "events/a.png", strings.NewReader("x"), 1, ""); err == nil {
		t.Fatal("expected error on canceled context")
	}
}

type fakePutter struct {
	input *s3.PutObjectInput
	body  string
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	b, _ := io.ReadAll(params.Body)
	f.body = string(b)
	return &s3.PutObjectOutput{}, f.err
}

func TestS3StorePut(t *testing.T) {
	client := &fakePutter{}
	store := newS3Store(client, "portal-uploads", "https://cdn.example.com/uploads/")

	got, err := store.Put(context.Background(), "events/gallery/x.jpg", strings.NewReader("jpeg"), 4, "image/jpeg")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}

	if got != "https://cdn.example.com/uploads/events/gallery/x.jpg" {
		t.Errorf("url = %q", got)
	}
	if aws.ToString(client.input.Bucket) != "portal-uploads" || aws.ToString(client.input.Key) != "events/gallery/x.jpg" {
		t.Errorf("bucket/key = %s/%s", aws.ToString(client.input.Bucket), aws.ToString(client.input.Key))
	}
	if aws.ToString(client.input.ContentType) != "image/jpeg" {
		t.Errorf("content type = %q", aws.ToString(client.input.ContentType))
	}
	if client.body != "jpeg" {
		t.Errorf("body = %q", client.body)
	}
}

func TestS3StorePutError(t *testing.T) {
	store := newS3Store(&fakePutter{err: errors.New("access denied")}, "b", "/uploads")
	if _, err := store.Put(context.Background(), "k", strings.NewReader(""), 0, ""); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewRejectsUnknownBackend(t *testing.T) {
	_, err := New(context.Background(), map[string]string{"UPLOAD_BACKEND": "ftp"})
	if err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestNewLocalDefault(t *testing.T) {
	store, err := New(context.Background(), map[string]string{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	local, ok := store.(*LocalStore)
	if !ok {
		t.Fatalf("store = %T, want *LocalStore", store)
	}
	if local.Root() != "static/uploads" || local.PublicPrefix() != DefaultPublicPrefix {
		t.Errorf("root/prefix = %s %s", local.Root(), local.PublicPrefix())
	}
}

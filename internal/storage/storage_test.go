package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func TestLocalStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := NewLocalStore(dir, "/uploads/")

	url, err := s.Put(ctx, "t1/w1/logo.png", strings.NewReader("png"), 3, "image/png")
	if err != nil {
		t.Fatal(err)
	}
	if url != "/uploads/t1/w1/logo.png" {
		t.Errorf("url = %q", url)
	}
	b, err := os.ReadFile(filepath.Join(dir, "t1", "w1", "logo.png"))
	if err != nil || string(b) != "png" {
		t.Fatalf("read = %q, %v", b, err)
	}

	if err := s.Delete(ctx, "t1/w1/logo.png"); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, "t1/w1/logo.png"); err != nil {
		t.Errorf("deleting a missing object: %v", err)
	}
	if _, err := s.Put(ctx, "../escape", strings.NewReader("x"), 1, ""); err == nil {
		t.Error("expected traversal to be rejected")
	}
}

type fakeS3 struct {
	objects map[string]string
	types   map[string]string
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	b, _ := io.ReadAll(in.Body)
	f.objects[aws.ToString(in.Key)] = string(b)
	f.types[aws.ToString(in.Key)] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Store(t *testing.T) {
	ctx := context.Background()
	fake := &fakeS3{objects: map[string]string{}, types: map[string]string{}}
	s := NewS3Store(fake, "media", "https://cdn.example.com/")

	url, err := s.Put(ctx, "t1/w1/a.jpg", strings.NewReader("jpg"), 3, "image/jpeg")
	if err != nil {
		t.Fatal(err)
	}
	if url != "https://cdn.example.com/t1/w1/a.jpg" {
		t.Errorf("url = %q", url)
	}
	if fake.objects["t1/w1/a.jpg"] != "jpg" || fake.types["t1/w1/a.jpg"] != "image/jpeg" {
		t.Errorf("object not stored: %+v", fake)
	}
	if err := s.Delete(ctx, "t1/w1/a.jpg"); err != nil {
		t.Fatal(err)
	}
	if len(fake.objects) != 0 {
		t.Error("object not deleted")
	}
}

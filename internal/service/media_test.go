package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"site-catalog/internal/mocks"
	"site-catalog/internal/repository"
)

func TestMediaUploadAndDelete(t *testing.T) {
	ctrl := gomock.NewController(t)
	objects := mocks.NewMockObjectStore(ctrl)
	env := newTestEnv(t, objects)
	ctx := context.Background()
	_, scope := env.website(t, "t1", "acme")

	var storedKey string
	objects.EXPECT().
		Put(gomock.Any(), gomock.Any(), gomock.Any(), int64(4), "image/png").
		DoAndReturn(func(_ context.Context, key string, _ any, _ int64, _ string) (string, error) {
			storedKey = key
			return "https://cdn.example.com/" + key, nil
		})

	m, err := env.svc.Media.Upload(ctx, scope, Upload{
		Filename:    "Logo.PNG",
		ContentType: "image/png",
		Size:        4,
		Body:        strings.NewReader("data"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(m.Key, "t1/"+scope.WebsiteID+"/") || !strings.HasSuffix(m.Key, ".png") {
		t.Errorf("key = %q", m.Key)
	}
	if m.Key != storedKey || m.URL != "https://cdn.example.com/"+storedKey || m.Name != "Logo.PNG" {
		t.Errorf("media = %+v", m)
	}

	list, err := env.svc.Media.List(ctx, scope, "")
	if err != nil || len(list) != 1 {
		t.Fatalf("list = %v, %v", list, err)
	}

	objects.EXPECT().Delete(gomock.Any(), storedKey).Return(nil)
	if err := env.svc.Media.Delete(ctx, scope, m.ID.Hex()); err != nil {
		t.Fatal(err)
	}
	if err := env.svc.Media.Delete(ctx, scope, m.ID.Hex()); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("second delete: got %v", err)
	}
}

func TestMediaUploadRemovesObjectOnConflict(t *testing.T) {
	ctrl := gomock.NewController(t)
	objects := mocks.NewMockObjectStore(ctrl)
	env := newTestEnv(t, objects)
	ctx := context.Background()
	_, scope := env.website(t, "t1", "acme")

	objects.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("u", nil).Times(2)
	objects.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	up := Upload{Name: "Hero", Filename: "a.jpg", Body: strings.NewReader("x")}
	if _, err := env.svc.Media.Upload(ctx, scope, up); err != nil {
		t.Fatal(err)
	}
	up.Name = "HERO"
	if _, err := env.svc.Media.Upload(ctx, scope, up); !errors.Is(err, repository.ErrConflict) {
		t.Errorf("got %v, want ErrConflict", err)
	}
}

func TestMediaUploadStoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	objects := mocks.NewMockObjectStore(ctrl)
	env := newTestEnv(t, objects)
	_, scope := env.website(t, "t1", "acme")

	boom := errors.New("s3 unavailable")
	objects.EXPECT().Put(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("", boom)

	_, err := env.svc.Media.Upload(context.Background(), scope, Upload{Filename: "a.jpg", Body: strings.NewReader("x")})
	if !errors.Is(err, boom) {
		t.Errorf("got %v", err)
	}
	if n, _ := env.repos.Media.Count(context.Background(), repository.Query{}); n != 0 {
		t.Errorf("%d media documents written", n)
	}
}

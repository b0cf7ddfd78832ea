package service

import (
	"context"
	"errors"
	"testing"

	"site-catalog/internal/repository"
)

func TestSelection(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	w1, scope := env.website(t, "t1", "w1")
	w2, _ := env.website(t, "t1", "w2")
	foreign, _ := env.website(t, "t2", "foreign")
	scope.WebsiteID = ""

	got, err := env.svc.Selection.Current(ctx, scope, "")
	if err != nil || got != "" {
		t.Fatalf("initial = %q, %v", got, err)
	}

	if _, err := env.svc.Selection.Select(ctx, scope, foreign.ID.Hex()); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("foreign select: got %v", err)
	}
	if _, err := env.svc.Selection.Select(ctx, scope, w2.ID.Hex()); err != nil {
		t.Fatal(err)
	}

	cases := map[string]string{
		"":                 w2.ID.Hex(),
		w1.ID.Hex():        w1.ID.Hex(),
		foreign.ID.Hex():   w2.ID.Hex(),
		"not-an-object-id": w2.ID.Hex(),
	}
	for cookie, want := range cases {
		got, err := env.svc.Selection.Current(ctx, scope, cookie)
		if err != nil || got != want {
			t.Errorf("Current(cookie=%q) = %q, %v; want %q", cookie, got, err, want)
		}
	}

	if n, _ := env.repos.Selections.Count(ctx, repository.Query{}); n != 1 {
		t.Errorf("%d selections stored", n)
	}
}

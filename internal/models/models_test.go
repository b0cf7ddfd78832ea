package models

import (
	"reflect"
	"testing"
)

func TestParseEntityKind(t *testing.T) {
	for _, k := range EntityKinds() {
		got, err := ParseEntityKind(string(k))
		if err != nil || got != k {
			t.Errorf("ParseEntityKind(%q) = %q, %v", k, got, err)
		}
		if k.Collection() == "" {
			t.Errorf("no collection for %q", k)
		}
	}
	if _, err := ParseEntityKind("product"); err == nil {
		t.Error("expected unknown entity to be rejected")
	}
}

func TestFoldName(t *testing.T) {
	cases := []struct{ a, b string }{
		{"Marketing", "marketing"},
		{"  MARKETING ", "marketing"},
		{"ÉCOLE", "école"},
	}
	for _, c := range cases {
		if FoldName(c.a) != FoldName(c.b) {
			t.Errorf("FoldName(%q)=%q, FoldName(%q)=%q", c.a, FoldName(c.a), c.b, FoldName(c.b))
		}
	}
	if FoldName("Sales") == FoldName("Marketing") {
		t.Error("distinct names folded together")
	}
}

func TestNormalizeHost(t *testing.T) {
	cases := map[string]string{
		"Acme.Example.com:8080": "acme.example.com",
		"acme":                  "acme",
		"shop.example.com.":     "shop.example.com",
		"[::1]:443":             "::1",
	}
	for in, want := range cases {
		if got := NormalizeHost(in); got != want {
			t.Errorf("NormalizeHost(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestAttributeValidate(t *testing.T) {
	a := &Attribute{Type: AttributeSelect}
	if err := a.Validate(); err == nil {
		t.Error("select attribute without values should fail")
	}
	a.Values = []string{"S", "M"}
	if err := a.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	a.Type = "colour"
	if err := a.Validate(); err == nil {
		t.Error("unknown attribute type should fail")
	}
}

func TestScopeCanEditContent(t *testing.T) {
	for role, want := range map[string]bool{RoleOwner: true, RoleAdmin: true, "viewer": false, "": false} {
		if got := (Scope{Role: role}).CanEditContent(); got != want {
			t.Errorf("role %q: got %v want %v", role, got, want)
		}
	}
}

func TestClaimedHosts(t *testing.T) {
	got := ClaimedHosts("acme", []string{"acme.com", "beta.sites.test", "acme.com", "x.y.sites.test"}, "sites.test")
	want := []string{"acme", "acme.sites.test", "acme.com", "beta.sites.test", "beta", "x.y.sites.test"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ClaimedHosts = %v, want %v", got, want)
	}

	if got := ClaimedHosts("shop.acme.com", nil, ""); !reflect.DeepEqual(got, []string{"shop.acme.com"}) {
		t.Errorf("without base domain = %v", got)
	}
}

package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"site-catalog/internal/database"
)

func TestPrintPlan(t *testing.T) {
	var buf bytes.Buffer
	printPlan(&buf, "siteCatalog", database.Catalogue(database.CatalogueOptions{SelectionTTL: time.Hour}))
	out := buf.String()

	for _, want := range []string{
		"database siteCatalog",
		"collection websites",
		"index uniq_primary_domain (primaryDomain) unique sparse",
		"index uniq_name_website (tenantId, websiteId, nameKey) unique",
		"index ttl_updated_at (updatedAt) expireAfterSeconds=3600",
		"collection llm_settings",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("plan missing %q:\n%s", want, out)
		}
	}
}

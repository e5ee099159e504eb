package migrate

import (
	"os"
	"strings"
	"testing"
)

func TestMigrationsDirIsValid(t *testing.T) {
	if err := ValidateDir("migrations"); err != nil {
		t.Fatalf("migrations dir failed validation: %v", err)
	}
}

func TestAddressDefaultIndexIsPartialUnique(t *testing.T) {
	b, err := os.ReadFile("migrations/20250801120200_create_addresses.sql")
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	sql := string(b)
	if !strings.Contains(sql, "CREATE UNIQUE INDEX idx_addresses_user_default ON addresses (user_id) WHERE is_default") {
		t.Fatal("expected partial unique index on default addresses")
	}
}

func TestOrdersProviderOrderIDUnique(t *testing.T) {
	b, err := os.ReadFile("migrations/20250801120300_create_orders.sql")
	if err != nil {
		t.Fatalf("read migration: %v", err)
	}
	if !strings.Contains(string(b), "CREATE UNIQUE INDEX idx_orders_provider_order_id") {
		t.Fatal("expected unique index on provider_order_id")
	}
}

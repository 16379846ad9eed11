package custody

import (
	"strings"
	"testing"
)

func TestAdminKeyedVaultAccount(t *testing.T) {
	got := AdminKeyed{}.VaultAccount("addr:admin")
	if got != "vault:admin:addr:admin" {
		t.Fatalf("unexpected account code %s", got)
	}
}

func TestDerivedVaultAccountIsDeterministic(t *testing.T) {
	d := Derived{Seed: "seed-1"}
	first := d.VaultAccount("addr:admin")
	second := d.VaultAccount("addr:admin")
	if first != second {
		t.Fatalf("derivation not deterministic: %s vs %s", first, second)
	}
	if !strings.HasPrefix(first, "vault:") {
		t.Fatalf("unexpected account prefix: %s", first)
	}

	if other := (Derived{Seed: "seed-2"}).VaultAccount("addr:admin"); other == first {
		t.Fatalf("different seeds derived the same account %s", other)
	}
	if other := d.VaultAccount("addr:other"); other == first {
		t.Fatalf("different admins derived the same account %s", other)
	}
}

func TestStrategiesDeriveDistinctAccounts(t *testing.T) {
	admin := "addr:admin"
	if (AdminKeyed{}).VaultAccount(admin) == (Derived{Seed: "s"}).VaultAccount(admin) {
		t.Fatal("strategies must not collide")
	}
}

func TestNewAccountStrategy(t *testing.T) {
	s, err := NewAccountStrategy("", "")
	if err != nil {
		t.Fatalf("default strategy: %v", err)
	}
	if s.Name() != StrategyAdminKeyed {
		t.Fatalf("expected admin strategy by default, got %s", s.Name())
	}

	s, err = NewAccountStrategy(StrategyDerived, "seed")
	if err != nil {
		t.Fatalf("derived strategy: %v", err)
	}
	if s.Name() != StrategyDerived {
		t.Fatalf("expected derived strategy, got %s", s.Name())
	}

	if _, err := NewAccountStrategy("bogus", ""); err == nil {
		t.Fatal("expected unknown strategy to fail")
	}
}

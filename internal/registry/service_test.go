package registry

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/custodia-pay/custodia/internal/audit"
	"github.com/custodia-pay/custodia/internal/identity"
)

const adminAddr = "addr:admin"

func newTestService() (*Service, *audit.MemoryLog) {
	log := audit.NewMemoryLog()
	svc := NewService(identity.Admin(adminAddr), NewMemoryStore(), log)
	return svc, log
}

func TestAddToWhitelistRequiresAdmin(t *testing.T) {
	svc, log := newTestService()
	ctx := context.Background()

	err := svc.AddToWhitelist(ctx, "addr:mallory", []string{"addr:u1"})
	if !errors.Is(err, identity.ErrNotAdmin) {
		t.Fatalf("expected not admin, got %v", err)
	}

	members, err := svc.ListWhitelisted(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(members) != 0 {
		t.Fatalf("expected empty whitelist, got %v", members)
	}
	if len(log.Events()) != 0 {
		t.Fatalf("expected no audit events, got %d", len(log.Events()))
	}
}

func TestRemoveFromWhitelistRequiresAdmin(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if err := svc.AddToWhitelist(ctx, adminAddr, []string{"addr:u1"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.RemoveFromWhitelist(ctx, "addr:mallory", []string{"addr:u1"}); !errors.Is(err, identity.ErrNotAdmin) {
		t.Fatalf("expected not admin, got %v", err)
	}
	ok, err := svc.IsWhitelisted(ctx, "addr:u1")
	if err != nil {
		t.Fatalf("is whitelisted: %v", err)
	}
	if !ok {
		t.Fatal("membership changed after rejected removal")
	}
}

func TestWhitelistRoundTrip(t *testing.T) {
	svc, log := newTestService()
	ctx := context.Background()

	if err := svc.AddToWhitelist(ctx, adminAddr, []string{"addr:u1"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	ok, err := svc.IsWhitelisted(ctx, "addr:u1")
	if err != nil {
		t.Fatalf("is whitelisted: %v", err)
	}
	if !ok {
		t.Fatal("expected addr:u1 to be whitelisted")
	}

	if err := svc.RemoveFromWhitelist(ctx, adminAddr, []string{"addr:u1"}); err != nil {
		t.Fatalf("remove: %v", err)
	}
	ok, err = svc.IsWhitelisted(ctx, "addr:u1")
	if err != nil {
		t.Fatalf("is whitelisted: %v", err)
	}
	if ok {
		t.Fatal("expected addr:u1 to no longer be whitelisted")
	}

	events := log.Events()
	if len(events) != 2 {
		t.Fatalf("expected 2 audit events, got %d", len(events))
	}
	if events[0].Action != audit.ActionAdded || events[1].Action != audit.ActionRemoved {
		t.Fatalf("unexpected event actions: %s, %s", events[0].Action, events[1].Action)
	}
}

func TestBatchAddIsAllOrNothing(t *testing.T) {
	svc, log := newTestService()
	ctx := context.Background()

	if err := svc.AddToWhitelist(ctx, adminAddr, []string{"addr:u1"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	err := svc.AddToWhitelist(ctx, adminAddr, []string{"addr:u2", "addr:u1", "addr:u3"})
	if !errors.Is(err, ErrAlreadyWhitelisted) {
		t.Fatalf("expected already whitelisted, got %v", err)
	}

	members, _ := svc.ListWhitelisted(ctx)
	if !reflect.DeepEqual(members, []string{"addr:u1"}) {
		t.Fatalf("partial batch applied: %v", members)
	}
	if len(log.Events()) != 1 {
		t.Fatalf("expected only the first add event, got %d", len(log.Events()))
	}
}

func TestBatchRemoveIsAllOrNothing(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if err := svc.AddToWhitelist(ctx, adminAddr, []string{"addr:u1", "addr:u2"}); err != nil {
		t.Fatalf("add: %v", err)
	}

	err := svc.RemoveFromWhitelist(ctx, adminAddr, []string{"addr:u1", "addr:u9"})
	if !errors.Is(err, ErrNotWhitelisted) {
		t.Fatalf("expected not whitelisted, got %v", err)
	}

	members, _ := svc.ListWhitelisted(ctx)
	if !reflect.DeepEqual(members, []string{"addr:u1", "addr:u2"}) {
		t.Fatalf("partial batch applied: %v", members)
	}
}

func TestBatchRejectsRepeatedAddress(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	err := svc.AddToWhitelist(ctx, adminAddr, []string{"addr:u1", "addr:u1"})
	if !errors.Is(err, ErrAlreadyWhitelisted) {
		t.Fatalf("expected already whitelisted for in-batch repeat, got %v", err)
	}
	members, _ := svc.ListWhitelisted(ctx)
	if len(members) != 0 {
		t.Fatalf("partial batch applied: %v", members)
	}
}

func TestBatchAuditEventCoversAllAddresses(t *testing.T) {
	svc, log := newTestService()
	ctx := context.Background()

	batch := []string{"addr:u1", "addr:u2", "addr:u3"}
	if err := svc.AddToWhitelist(ctx, adminAddr, batch); err != nil {
		t.Fatalf("add: %v", err)
	}

	events := log.Events()
	if len(events) != 1 {
		t.Fatalf("expected one event for the batch, got %d", len(events))
	}
	if events[0].Type != audit.TypeWhitelistChange {
		t.Fatalf("unexpected event type %s", events[0].Type)
	}
	if !reflect.DeepEqual(events[0].Addresses, batch) {
		t.Fatalf("event addresses %v do not match batch %v", events[0].Addresses, batch)
	}
}

func TestListPreservesOrderAcrossRemoval(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if err := svc.AddToWhitelist(ctx, adminAddr, []string{"addr:u1", "addr:u2", "addr:u3"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.RemoveFromWhitelist(ctx, adminAddr, []string{"addr:u2"}); err != nil {
		t.Fatalf("remove: %v", err)
	}

	members, _ := svc.ListWhitelisted(ctx)
	if !reflect.DeepEqual(members, []string{"addr:u1", "addr:u3"}) {
		t.Fatalf("expected order-preserving removal, got %v", members)
	}
}

func TestEmptyBatchIsRejected(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if err := svc.AddToWhitelist(ctx, adminAddr, nil); err == nil {
		t.Fatal("expected empty batch to be rejected")
	}
	if err := svc.AddToWhitelist(ctx, adminAddr, []string{""}); err == nil {
		t.Fatal("expected empty address to be rejected")
	}
}

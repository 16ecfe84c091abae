package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rapamazonia/assetregistry/internal/models"
	"github.com/rapamazonia/assetregistry/internal/scope"
	"github.com/rapamazonia/assetregistry/internal/storage"
)

func TestRegisterAsset(t *testing.T) {
	store := newTestStore(t)
	svc := NewAssetService(store, testLogger())
	ctx := context.Background()

	control := ensureCommittee(t, store, "Control interno")
	gerencia := ensureCommittee(t, store, "Gerencia")

	admin := adminCaller(1)
	operator := operatorCaller(2, control, "Control interno")

	t.Run("operator always registers into own committee", func(t *testing.T) {
		asset, err := svc.Register(ctx, operator, &RegisterAssetRequest{
			Name:        "Laptop",
			CommitteeID: gerencia, // must be ignored
		})
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if asset.CommitteeID != control {
			t.Errorf("expected committee %d, got %d", control, asset.CommitteeID)
		}
		if asset.Status != models.StatusActive {
			t.Errorf("expected default status ACTIVE, got %s", asset.Status)
		}
	})

	t.Run("admin must pick a committee", func(t *testing.T) {
		_, err := svc.Register(ctx, admin, &RegisterAssetRequest{Name: "Printer"})
		if !errors.Is(err, ErrCommitteeRequired) {
			t.Errorf("expected ErrCommitteeRequired, got %v", err)
		}
	})

	t.Run("admin committee must exist", func(t *testing.T) {
		_, err := svc.Register(ctx, admin, &RegisterAssetRequest{
			Name:        "Printer",
			CommitteeID: 9999,
		})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("admin registers into the chosen committee", func(t *testing.T) {
		asset, err := svc.Register(ctx, admin, &RegisterAssetRequest{
			Name:        "Printer",
			Status:      "REPAIR",
			CommitteeID: gerencia,
		})
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if asset.CommitteeID != gerencia {
			t.Errorf("expected committee %d, got %d", gerencia, asset.CommitteeID)
		}
		if asset.Status != models.StatusRepair {
			t.Errorf("expected status REPAIR, got %s", asset.Status)
		}
	})

	t.Run("name is required", func(t *testing.T) {
		_, err := svc.Register(ctx, operator, &RegisterAssetRequest{Name: "   "})
		if !errors.Is(err, ErrNameRequired) {
			t.Errorf("expected ErrNameRequired, got %v", err)
		}
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		_, err := svc.Register(ctx, operator, &RegisterAssetRequest{
			Name:   "Desk",
			Status: "BROKEN",
		})
		if !errors.Is(err, ErrInvalidStatus) {
			t.Errorf("expected ErrInvalidStatus, got %v", err)
		}
	})

	t.Run("blank code is stored as no code", func(t *testing.T) {
		asset, err := svc.Register(ctx, operator, &RegisterAssetRequest{
			Name: "Chair",
			Code: "   ",
		})
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if asset.Code != nil {
			t.Errorf("expected nil code, got %q", *asset.Code)
		}
	})
}

func TestListAssetsScoped(t *testing.T) {
	store := newTestStore(t)
	svc := NewAssetService(store, testLogger())
	ctx := context.Background()

	control := ensureCommittee(t, store, "Control interno")
	gerencia := ensureCommittee(t, store, "Gerencia")

	admin := adminCaller(1)
	operator := operatorCaller(2, control, "Control interno")

	if _, err := svc.Register(ctx, operator, &RegisterAssetRequest{Name: "Laptop"}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := svc.Register(ctx, admin, &RegisterAssetRequest{Name: "Server", CommitteeID: gerencia}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	t.Run("admin sees everything", func(t *testing.T) {
		resp, err := svc.List(ctx, admin, scope.ScopeAll, "")
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if resp.Scope != "All" {
			t.Errorf("expected scope label All, got %q", resp.Scope)
		}
		if len(resp.Assets) != 2 {
			t.Errorf("expected 2 assets, got %d", len(resp.Assets))
		}
	})

	t.Run("admin can narrow to one committee", func(t *testing.T) {
		resp, err := svc.List(ctx, admin, gerencia, "")
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if resp.Scope != "Gerencia" {
			t.Errorf("expected scope label Gerencia, got %q", resp.Scope)
		}
		if len(resp.Assets) != 1 || resp.Assets[0].Name != "Server" {
			t.Errorf("unexpected listing %v", resp.Assets)
		}
	})

	t.Run("admin with a stale scope sees nothing", func(t *testing.T) {
		resp, err := svc.List(ctx, admin, 9999, "")
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if resp.Scope != "Unknown" {
			t.Errorf("expected scope label Unknown, got %q", resp.Scope)
		}
		if len(resp.Assets) != 0 {
			t.Errorf("stale scope must match zero rows, got %d", len(resp.Assets))
		}
	})

	t.Run("operator is pinned regardless of request", func(t *testing.T) {
		for _, requested := range []int64{scope.ScopeAll, gerencia, 9999} {
			resp, err := svc.List(ctx, operator, requested, "")
			if err != nil {
				t.Fatalf("List(requested=%d) failed: %v", requested, err)
			}
			if resp.Scope != "Control interno" {
				t.Errorf("requested=%d: expected pinned label, got %q", requested, resp.Scope)
			}
			if len(resp.Assets) != 1 || resp.Assets[0].Name != "Laptop" {
				t.Errorf("requested=%d: unexpected listing %v", requested, resp.Assets)
			}
		}
	})

	t.Run("summary follows the same scope", func(t *testing.T) {
		resp, err := svc.Summary(ctx, operator, scope.ScopeAll)
		if err != nil {
			t.Fatalf("Summary failed: %v", err)
		}
		if resp.Scope != "Control interno" {
			t.Errorf("expected pinned label, got %q", resp.Scope)
		}
		if resp.Summary.Total != 1 {
			t.Errorf("expected 1 asset in summary, got %d", resp.Summary.Total)
		}
	})
}

func TestRetireScoped(t *testing.T) {
	store := newTestStore(t)
	svc := NewAssetService(store, testLogger())
	ctx := context.Background()

	control := ensureCommittee(t, store, "Control interno")
	gerencia := ensureCommittee(t, store, "Gerencia")

	admin := adminCaller(1)
	operator := operatorCaller(2, control, "Control interno")

	own, err := svc.Register(ctx, operator, &RegisterAssetRequest{Name: "Laptop"})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	foreign, err := svc.Register(ctx, admin, &RegisterAssetRequest{Name: "Server", CommitteeID: gerencia})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	t.Run("operator cannot retire outside scope", func(t *testing.T) {
		if err := svc.Retire(ctx, operator, foreign.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		got, err := store.GetAsset(ctx, foreign.ID)
		if err != nil {
			t.Fatalf("GetAsset failed: %v", err)
		}
		if got.Status != models.StatusActive {
			t.Errorf("asset must be untouched, got status %s", got.Status)
		}
	})

	t.Run("movements are gated the same way", func(t *testing.T) {
		if _, err := svc.Movements(ctx, operator, foreign.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("operator retires own asset", func(t *testing.T) {
		if err := svc.Retire(ctx, operator, own.ID); err != nil {
			t.Fatalf("Retire failed: %v", err)
		}

		movements, err := svc.Movements(ctx, operator, own.ID)
		if err != nil {
			t.Fatalf("Movements failed: %v", err)
		}
		if len(movements) != 1 || movements[0].Kind != models.MovementStatusChange {
			t.Errorf("expected one STATUS_CHANGE movement, got %v", movements)
		}
	})

	t.Run("admin retires anywhere", func(t *testing.T) {
		if err := svc.Retire(ctx, admin, foreign.ID); err != nil {
			t.Fatalf("Retire failed: %v", err)
		}
	})

	t.Run("missing asset is not found", func(t *testing.T) {
		if err := svc.Retire(ctx, admin, 9999); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

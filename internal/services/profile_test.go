package services

import (
	"context"
	"testing"

	"github.com/devlogai/devlog-backend/internal/repos"
	"github.com/devlogai/devlog-backend/internal/types"
)

func newProfileFixture(t *testing.T) ProfileService {
	t.Helper()
	gdb := testDB(t)
	log := testLogger(t)
	return NewProfileService(gdb, log, repos.NewProfileRepo(gdb, log))
}

func TestProfileSet_RoundTripsThroughStore(t *testing.T) {
	svc := newProfileFixture(t)
	ctx := context.Background()

	got, err := svc.Get(ctx)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Fatalf("Get before onboarding = %+v, want nil", got)
	}

	saved, err := svc.Set(ctx, testProfile())
	if err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err = svc.Get(ctx)
	if err != nil {
		t.Fatalf("Get after Set failed: %v", err)
	}
	if got == nil || got.Name != "Ada" || got.Role != types.RoleBackend || got.Level != types.LevelMid {
		t.Fatalf("stored profile = %+v", got)
	}
	if got.ID != saved.ID {
		t.Fatalf("stored id %s != returned id %s", got.ID, saved.ID)
	}
}

func TestProfileSet_ReonboardingKeepsSingleRow(t *testing.T) {
	svc := newProfileFixture(t)
	ctx := context.Background()

	first, err := svc.Set(ctx, testProfile())
	if err != nil {
		t.Fatalf("first Set failed: %v", err)
	}

	updated := testProfile()
	updated.Name = "Grace"
	updated.Role = types.RoleFrontend
	second, err := svc.Set(ctx, updated)
	if err != nil {
		t.Fatalf("second Set failed: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("re-onboarding changed the profile id: %s vs %s", second.ID, first.ID)
	}

	got, err := svc.Get(ctx)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "Grace" || got.Role != types.RoleFrontend {
		t.Fatalf("stored profile = %+v, want updated fields", got)
	}
}

func TestProfileSet_RejectsUnknownEnums(t *testing.T) {
	svc := newProfileFixture(t)
	ctx := context.Background()

	bad := testProfile()
	bad.Role = types.UserRole("wizard")
	if _, err := svc.Set(ctx, bad); err == nil {
		t.Fatal("Set accepted an unknown role")
	}

	bad = testProfile()
	bad.Level = types.ExperienceLevel("grandmaster")
	if _, err := svc.Set(ctx, bad); err == nil {
		t.Fatal("Set accepted an unknown level")
	}
}

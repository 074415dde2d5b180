package services

import (
	"context"
	"testing"
	"time"

	"voidlauncher/internal/rules"
	"voidlauncher/internal/types"
)

func newLauncherFixture(t *testing.T) (*LauncherService, *evaluatorFixture, *MockPrefsRepository) {
	t.Helper()

	ef := newEvaluatorFixture(t, afternoon)
	prefs := NewMockPrefsRepository()
	return NewLauncherService(prefs, ef.evaluator, nil), ef, prefs
}

func TestLauncherService_HomepageDefaults(t *testing.T) {
	t.Parallel()

	svc, _, _ := newLauncherFixture(t)
	ctx := context.Background()

	apps := svc.HomepageApps(ctx)
	if len(apps) != 5 {
		t.Fatalf("default homepage has %d apps, want 5", len(apps))
	}
	if !svc.IsOnHomepage(ctx, "com.android.chrome") {
		t.Error("default homepage missing com.android.chrome")
	}

	if err := svc.SaveHomepageApps(ctx, []string{"com.example.mail"}); err != nil {
		t.Fatalf("SaveHomepageApps failed: %v", err)
	}
	apps = svc.HomepageApps(ctx)
	if len(apps) != 1 || apps[0] != "com.example.mail" {
		t.Errorf("saved homepage = %v, want [com.example.mail]", apps)
	}

	// Saving an empty set falls back to the defaults again.
	if err := svc.SaveHomepageApps(ctx, nil); err != nil {
		t.Fatalf("SaveHomepageApps(nil) failed: %v", err)
	}
	if len(svc.HomepageApps(ctx)) != 5 {
		t.Error("empty homepage set should fall back to defaults")
	}
}

func TestLauncherService_HiddenApps(t *testing.T) {
	t.Parallel()

	svc, _, _ := newLauncherFixture(t)
	ctx := context.Background()

	if len(svc.HiddenApps(ctx)) != 0 {
		t.Error("hidden set should start empty")
	}

	if err := svc.SaveHiddenApps(ctx, []string{"com.example.game"}); err != nil {
		t.Fatalf("SaveHiddenApps failed: %v", err)
	}
	if !svc.IsHidden(ctx, "com.example.game") {
		t.Error("IsHidden = false for hidden package")
	}
	if svc.IsHidden(ctx, "com.example.mail") {
		t.Error("IsHidden = true for visible package")
	}
}

func TestLauncherService_FontSize(t *testing.T) {
	t.Parallel()

	svc, _, prefs := newLauncherFixture(t)
	ctx := context.Background()

	if got := svc.FontSize(ctx); got != DefaultFontSize {
		t.Errorf("unset font size = %v, want %v", got, DefaultFontSize)
	}

	if err := svc.SaveFontSize(ctx, 24); err != nil {
		t.Fatalf("SaveFontSize failed: %v", err)
	}
	if got := svc.FontSize(ctx); got != 24 {
		t.Errorf("font size = %v, want 24", got)
	}

	// Corrupt stored value degrades to the default.
	prefs.SetPref(ctx, prefKeyFontSize, "huge")
	if got := svc.FontSize(ctx); got != DefaultFontSize {
		t.Errorf("corrupt font size = %v, want default", got)
	}
}

func TestLauncherService_CorruptAppListTreatedAsEmpty(t *testing.T) {
	t.Parallel()

	svc, _, prefs := newLauncherFixture(t)
	ctx := context.Background()

	prefs.SetPref(ctx, prefKeyHiddenApps, "{broken")
	if got := svc.HiddenApps(ctx); len(got) != 0 {
		t.Errorf("corrupt hidden list = %v, want empty", got)
	}
}

func TestLauncherService_VisibleApps(t *testing.T) {
	t.Parallel()

	svc, ef, _ := newLauncherFixture(t)
	ctx := context.Background()

	installed := []types.App{
		{Label: "Zulu Mail", PackageName: "com.example.mail"},
		{Label: "alpha Video", PackageName: "com.example.video"},
		{Label: "Game", PackageName: "com.example.game"},
		{Label: "Browser", PackageName: "com.example.browser"},
	}

	if err := svc.SaveHiddenApps(ctx, []string{"com.example.game"}); err != nil {
		t.Fatalf("SaveHiddenApps failed: %v", err)
	}

	// Auto-hide the video app for the afternoon.
	if err := ef.evaluator.SetRules(ctx, "com.example.video", rules.AutoHideRules{
		TimeRules: []rules.TimeRule{{StartHour: 13, StartMinute: 0, EndHour: 18, EndMinute: 0}},
	}); err != nil {
		t.Fatalf("SetRules failed: %v", err)
	}

	visible := svc.VisibleApps(ctx, installed, afternoon)
	if len(visible) != 2 {
		t.Fatalf("got %d visible apps, want 2: %v", len(visible), visible)
	}
	// Sorted by label, case-insensitive.
	if visible[0].PackageName != "com.example.browser" || visible[1].PackageName != "com.example.mail" {
		t.Errorf("visible order = %v, want browser then mail", visible)
	}

	// Outside the window the video app comes back.
	morning := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	visible = svc.VisibleApps(ctx, installed, morning)
	if len(visible) != 3 {
		t.Errorf("got %d visible apps in the morning, want 3", len(visible))
	}
	if visible[0].Label != "alpha Video" {
		t.Errorf("case-insensitive sort broken: %v", visible)
	}
}

func TestLauncherService_VisibleAppsWithoutEvaluator(t *testing.T) {
	t.Parallel()

	prefs := NewMockPrefsRepository()
	svc := NewLauncherService(prefs, nil, nil)
	ctx := context.Background()

	installed := []types.App{
		{Label: "Mail", PackageName: "com.example.mail"},
		{Label: "Game", PackageName: "com.example.game"},
	}
	if err := svc.SaveHiddenApps(ctx, []string{"com.example.game"}); err != nil {
		t.Fatalf("SaveHiddenApps failed: %v", err)
	}

	visible := svc.VisibleApps(ctx, installed, afternoon)
	if len(visible) != 1 || visible[0].PackageName != "com.example.mail" {
		t.Errorf("visible = %v, want only mail", visible)
	}
}

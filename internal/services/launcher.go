package services

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"

	"voidlauncher/internal/infrastructure/logging"
	"voidlauncher/internal/repository"
	"voidlauncher/internal/types"
)

// Preference keys in launcher_prefs.
const (
	prefKeyHomepageApps = "homepage_apps"
	prefKeyHiddenApps   = "hidden_apps"
	prefKeyFontSize     = "font_size"
)

// DefaultFontSize matches the launcher's base text size in sp.
const DefaultFontSize = 16.0

// defaultHomepageApps is shown until the user picks their own set.
var defaultHomepageApps = []string{
	"com.instagram.android",
	"com.google.android.apps.messaging",
	"com.android.chrome",
	"com.google.android.youtube",
	"com.android.settings",
}

// LauncherService owns the launcher-facing preferences (homepage set, hidden
// set, font size) and builds the visible app list from them together with the
// auto-hide evaluator.
type LauncherService struct {
	prefs     repository.PrefsRepository
	evaluator *AutoHideEvaluator
	logger    logging.Logger
}

// NewLauncherService creates a launcher service. The evaluator may be nil
// when auto-hide is not wired, in which case only manual hiding applies.
func NewLauncherService(prefs repository.PrefsRepository, evaluator *AutoHideEvaluator, logger logging.Logger) *LauncherService {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &LauncherService{prefs: prefs, evaluator: evaluator, logger: logger}
}

// HomepageApps returns the homepage package set, falling back to the default
// list when none has been saved or the saved value is empty.
func (s *LauncherService) HomepageApps(ctx context.Context) []string {
	apps := s.loadAppList(ctx, prefKeyHomepageApps)
	if len(apps) == 0 {
		return append([]string(nil), defaultHomepageApps...)
	}
	return apps
}

// SaveHomepageApps replaces the homepage package set.
func (s *LauncherService) SaveHomepageApps(ctx context.Context, pkgs []string) error {
	return s.saveAppList(ctx, prefKeyHomepageApps, pkgs)
}

// HiddenApps returns the manually hidden package set, empty when unset.
func (s *LauncherService) HiddenApps(ctx context.Context) []string {
	return s.loadAppList(ctx, prefKeyHiddenApps)
}

// SaveHiddenApps replaces the manually hidden package set.
func (s *LauncherService) SaveHiddenApps(ctx context.Context, pkgs []string) error {
	return s.saveAppList(ctx, prefKeyHiddenApps, pkgs)
}

// IsHidden reports whether a package is manually hidden.
func (s *LauncherService) IsHidden(ctx context.Context, pkg string) bool {
	for _, hidden := range s.HiddenApps(ctx) {
		if hidden == pkg {
			return true
		}
	}
	return false
}

// IsOnHomepage reports whether a package is on the homepage.
func (s *LauncherService) IsOnHomepage(ctx context.Context, pkg string) bool {
	for _, home := range s.HomepageApps(ctx) {
		if home == pkg {
			return true
		}
	}
	return false
}

// FontSize returns the configured font size in sp.
func (s *LauncherService) FontSize(ctx context.Context) float64 {
	value, found, err := s.prefs.Pref(ctx, prefKeyFontSize)
	if err != nil {
		s.logger.Warn("Failed to read font size, using default", "error", err)
		return DefaultFontSize
	}
	if !found {
		return DefaultFontSize
	}
	size, err := strconv.ParseFloat(value, 64)
	if err != nil || size <= 0 {
		return DefaultFontSize
	}
	return size
}

// SaveFontSize stores the font size in sp.
func (s *LauncherService) SaveFontSize(ctx context.Context, size float64) error {
	return s.prefs.SetPref(ctx, prefKeyFontSize, strconv.FormatFloat(size, 'g', -1, 64))
}

// VisibleApps filters the installed list down to what the all-apps screen
// shows: manually hidden apps drop out first, then whatever auto-hide says to
// hide right now, and the remainder is sorted by label.
func (s *LauncherService) VisibleApps(ctx context.Context, installed []types.App, now time.Time) []types.App {
	manuallyHidden := make(map[string]bool)
	for _, pkg := range s.HiddenApps(ctx) {
		manuallyHidden[pkg] = true
	}

	candidates := make([]types.App, 0, len(installed))
	pkgs := make([]string, 0, len(installed))
	for _, app := range installed {
		if manuallyHidden[app.PackageName] {
			continue
		}
		candidates = append(candidates, app)
		pkgs = append(pkgs, app.PackageName)
	}

	var autoHidden map[string]bool
	if s.evaluator != nil {
		autoHidden = s.evaluator.HiddenNow(ctx, pkgs, now)
	}

	visible := make([]types.App, 0, len(candidates))
	for _, app := range candidates {
		if autoHidden[app.PackageName] {
			continue
		}
		visible = append(visible, app)
	}

	sort.Slice(visible, func(i, j int) bool {
		return strings.ToLower(visible[i].Label) < strings.ToLower(visible[j].Label)
	})
	return visible
}

// loadAppList reads a JSON string-array preference. Missing, unreadable and
// corrupt values all come back empty.
func (s *LauncherService) loadAppList(ctx context.Context, key string) []string {
	value, found, err := s.prefs.Pref(ctx, key)
	if err != nil {
		s.logger.Warn("Failed to read app list preference", "key", key, "error", err)
		return []string{}
	}
	if !found || value == "" {
		return []string{}
	}

	var pkgs []string
	if err := json.Unmarshal([]byte(value), &pkgs); err != nil {
		s.logger.Warn("Corrupt app list preference, treating as empty", "key", key, "error", err)
		return []string{}
	}
	return pkgs
}

func (s *LauncherService) saveAppList(ctx context.Context, key string, pkgs []string) error {
	if pkgs == nil {
		pkgs = []string{}
	}
	encoded, err := json.Marshal(pkgs)
	if err != nil {
		return err
	}
	return s.prefs.SetPref(ctx, key, string(encoded))
}

package services

import (
	"context"
	"time"

	"voidlauncher/internal/infrastructure/logging"
	"voidlauncher/internal/repository"
	"voidlauncher/internal/rules"
	"voidlauncher/internal/types"
)

// AutoHideEvaluator decides whether an app should be hidden right now.
// Evaluation is stateless per (package, moment): time windows first, then the
// daily open cap, then the daily time cap. Every failure mode degrades to
// visible; hiding an app the user needs costs more than showing one they are
// trying to avoid.
type AutoHideEvaluator struct {
	rules   repository.RuleRepository
	tracker *UsageTracker
	logger  logging.Logger
}

// NewAutoHideEvaluator creates an evaluator over the rule store and tracker.
func NewAutoHideEvaluator(ruleRepo repository.RuleRepository, tracker *UsageTracker, logger logging.Logger) *AutoHideEvaluator {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}
	return &AutoHideEvaluator{rules: ruleRepo, tracker: tracker, logger: logger}
}

// ShouldHide evaluates one package. Missing rules, store errors and corrupt
// rule text all mean visible.
func (e *AutoHideEvaluator) ShouldHide(ctx context.Context, pkg string, now time.Time) bool {
	text, found, err := e.rules.RuleText(ctx, pkg)
	if err != nil {
		e.logger.Warn("Rule lookup failed, treating as no rules", "package", pkg, "error", err)
		return false
	}
	if !found {
		return false
	}

	ruleSet, ok := rules.Decode(text)
	if !ok {
		e.logger.Warn("Corrupt rule text, treating as no rules", "package", pkg)
		return false
	}

	return e.evaluate(ruleSet, now, func() types.UsageRecord {
		return e.tracker.AppUsage(ctx, pkg)
	})
}

// HiddenNow evaluates many packages with one rule-store read and one usage
// query. This is the form list builders call once per rebuild; usage is
// fetched in bulk and indexed instead of queried per package.
func (e *AutoHideEvaluator) HiddenNow(ctx context.Context, pkgs []string, now time.Time) map[string]bool {
	hidden := make(map[string]bool, len(pkgs))
	if len(pkgs) == 0 {
		return hidden
	}

	texts, err := e.rules.AllRuleTexts(ctx)
	if err != nil {
		e.logger.Warn("Rule listing failed, hiding nothing", "error", err)
		return hidden
	}

	var usageByPkg map[string]types.UsageRecord
	usageOf := func(pkg string) func() types.UsageRecord {
		return func() types.UsageRecord {
			if usageByPkg == nil {
				usageByPkg = make(map[string]types.UsageRecord)
				for _, rec := range e.tracker.AllAppUsage(ctx) {
					usageByPkg[rec.PackageName] = rec
				}
			}
			return usageByPkg[pkg]
		}
	}

	for _, pkg := range pkgs {
		text, found := texts[pkg]
		if !found {
			continue
		}
		ruleSet, ok := rules.Decode(text)
		if !ok {
			e.logger.Warn("Corrupt rule text, treating as no rules", "package", pkg)
			continue
		}
		if e.evaluate(ruleSet, now, usageOf(pkg)) {
			hidden[pkg] = true
		}
	}
	return hidden
}

// evaluate applies the precedence order. The usage thunk defers the usage
// fetch until a cap actually needs it; pure time-window rule sets never touch
// the tracker.
func (e *AutoHideEvaluator) evaluate(ruleSet rules.AutoHideRules, now time.Time, usage func() types.UsageRecord) bool {
	if ruleSet.Empty() {
		return false
	}
	if ruleSet.MatchesTime(now) {
		return true
	}
	if ruleSet.MaxOpens <= 0 && ruleSet.MaxTimeMs <= 0 {
		return false
	}

	rec := usage()
	if ruleSet.MaxOpens > 0 && rec.OpenCount >= ruleSet.MaxOpens {
		return true
	}
	if ruleSet.MaxTimeMs > 0 && rec.TimeSpentMs >= ruleSet.MaxTimeMs {
		return true
	}
	return false
}

// Rules returns the decoded rule set for a package. Absent and corrupt both
// come back as (zero, false).
func (e *AutoHideEvaluator) Rules(ctx context.Context, pkg string) (rules.AutoHideRules, bool, error) {
	text, found, err := e.rules.RuleText(ctx, pkg)
	if err != nil {
		return rules.AutoHideRules{}, false, err
	}
	if !found {
		return rules.AutoHideRules{}, false, nil
	}
	ruleSet, ok := rules.Decode(text)
	return ruleSet, ok, nil
}

// SetRules validates and stores a rule set. Out-of-range hours, minutes or
// negative caps are rejected here at the editing boundary; the evaluator
// never depends on stored values being sane.
func (e *AutoHideEvaluator) SetRules(ctx context.Context, pkg string, ruleSet rules.AutoHideRules) error {
	if err := ruleSet.Validate(); err != nil {
		return err
	}
	return e.rules.SetRuleText(ctx, pkg, rules.Encode(ruleSet))
}

// ClearRules removes the rule set for a package.
func (e *AutoHideEvaluator) ClearRules(ctx context.Context, pkg string) error {
	return e.rules.DeleteRules(ctx, pkg)
}

// AllRules returns every stored, decodable rule set keyed by package.
// Corrupt entries are skipped.
func (e *AutoHideEvaluator) AllRules(ctx context.Context) (map[string]rules.AutoHideRules, error) {
	texts, err := e.rules.AllRuleTexts(ctx)
	if err != nil {
		return nil, err
	}

	decoded := make(map[string]rules.AutoHideRules, len(texts))
	for pkg, text := range texts {
		ruleSet, ok := rules.Decode(text)
		if !ok {
			e.logger.Warn("Skipping corrupt rule text", "package", pkg)
			continue
		}
		decoded[pkg] = ruleSet
	}
	return decoded, nil
}

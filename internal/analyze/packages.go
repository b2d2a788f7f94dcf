package analyze

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/histlens/histlens/internal/detect"
	"github.com/histlens/histlens/internal/history"
)

// TrendKind classifies a package usage trend.
type TrendKind string

const (
	TrendFrequentInstalls TrendKind = "frequent-installs"
	TrendRepeatedInstalls TrendKind = "repeated-installs"
	TrendQuickRemoval     TrendKind = "quick-removal"
)

// ConflictKind classifies a version conflict.
type ConflictKind string

const (
	ConflictMultipleVersions ConflictKind = "multiple-versions"
	ConflictDowngrade        ConflictKind = "downgrade"
)

// PackageAnalysis reports on package manager usage.
type PackageAnalysis struct {
	TotalOperations int
	Managers        []ManagerStats
	Trends          []PackageTrend
	Conflicts       []VersionConflict
	Recommendations []string
	HealthScore     float64
}

// ManagerStats aggregates operations for one package manager, most active
// manager first in PackageAnalysis.Managers.
type ManagerStats struct {
	Manager     string
	Total       int
	Installs    int
	Removes     int
	Updates     int
	TopPackages []PackageStats
}

// PackageStats tracks one package under one manager.
type PackageStats struct {
	Name           string
	InstallCount   int
	RemoveCount    int
	FirstInstalled *time.Time
	LastUsed       time.Time
	VersionsSeen   []string
}

// PackageTrend is one detected usage trend for a (manager, package) pair.
type PackageTrend struct {
	Manager   string
	Package   string
	Kind      TrendKind
	Frequency int
	SpanDays  int
}

// VersionConflict records multiple versions observed for one package.
type VersionConflict struct {
	Manager        string
	Package        string
	Versions       []string
	Kind           ConflictKind
	Recommendation string
}

// Packages computes the package usage report. Empty input (no package
// operations at all) yields a perfect 1.0 health score.
func Packages(cmds []history.Command) PackageAnalysis {
	var pkgCmds []*history.Command
	for i := range cmds {
		if len(cmds[i].PackagesUsed) > 0 {
			pkgCmds = append(pkgCmds, &cmds[i])
		}
	}

	a := PackageAnalysis{
		TotalOperations: len(pkgCmds),
		Managers:        managerStats(pkgCmds),
		Trends:          packageTrends(pkgCmds),
		Conflicts:       versionConflicts(pkgCmds),
	}
	a.Recommendations = packageRecommendations(a.Managers, a.Trends, a.Conflicts)
	a.HealthScore = packageHealthScore(a)
	return a
}

func managerStats(cmds []*history.Command) []ManagerStats {
	type managerAgg struct {
		installs, removes, updates int
		packages                   map[string]*PackageStats
	}
	byManager := make(map[string]*managerAgg)

	for _, c := range cmds {
		for _, pkg := range c.PackagesUsed {
			m := byManager[pkg.Manager]
			if m == nil {
				m = &managerAgg{packages: make(map[string]*PackageStats)}
				byManager[pkg.Manager] = m
			}

			action := pkg.Action.Canonical()
			switch action {
			case detect.ActionRemove:
				m.removes++
			case detect.ActionUpdate:
				m.updates++
			default:
				m.installs++
			}

			p := m.packages[pkg.Name]
			if p == nil {
				p = &PackageStats{Name: pkg.Name, LastUsed: c.Timestamp}
				m.packages[pkg.Name] = p
			}
			switch action {
			case detect.ActionInstall:
				p.InstallCount++
				if p.FirstInstalled == nil {
					ts := c.Timestamp
					p.FirstInstalled = &ts
				}
			case detect.ActionRemove:
				p.RemoveCount++
			}
			if c.Timestamp.After(p.LastUsed) {
				p.LastUsed = c.Timestamp
			}
			if pkg.Version != "" && !containsString(p.VersionsSeen, pkg.Version) {
				p.VersionsSeen = append(p.VersionsSeen, pkg.Version)
			}
		}
	}

	out := make([]ManagerStats, 0, len(byManager))
	for manager, m := range byManager {
		top := make([]PackageStats, 0, len(m.packages))
		for _, p := range m.packages {
			top = append(top, *p)
		}
		sort.Slice(top, func(i, j int) bool {
			if top[i].InstallCount != top[j].InstallCount {
				return top[i].InstallCount > top[j].InstallCount
			}
			return top[i].Name < top[j].Name
		})
		if len(top) > 10 {
			top = top[:10]
		}

		out = append(out, ManagerStats{
			Manager:     manager,
			Total:       m.installs + m.removes + m.updates,
			Installs:    m.installs,
			Removes:     m.removes,
			Updates:     m.updates,
			TopPackages: top,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].Manager < out[j].Manager
	})
	return out
}

type packageEvent struct {
	at     time.Time
	action detect.Action
}

func packageTrends(cmds []*history.Command) []PackageTrend {
	type key struct{ manager, name string }
	timelines := make(map[key][]packageEvent)
	for _, c := range cmds {
		for _, pkg := range c.PackagesUsed {
			k := key{pkg.Manager, pkg.Name}
			timelines[k] = append(timelines[k], packageEvent{c.Timestamp, pkg.Action.Canonical()})
		}
	}

	var trends []PackageTrend
	for k, timeline := range timelines {
		sort.Slice(timeline, func(i, j int) bool { return timeline[i].at.Before(timeline[j].at) })

		installs, removes := 0, 0
		for _, ev := range timeline {
			switch ev.action {
			case detect.ActionRemove:
				removes++
			case detect.ActionInstall:
				installs++
			}
		}

		if installs >= 3 {
			trends = append(trends, PackageTrend{
				Manager:   k.manager,
				Package:   k.name,
				Kind:      TrendFrequentInstalls,
				Frequency: installs,
				SpanDays:  timelineSpanDays(timeline),
			})
		}
		if installs > removes+1 {
			trends = append(trends, PackageTrend{
				Manager:   k.manager,
				Package:   k.name,
				Kind:      TrendRepeatedInstalls,
				Frequency: installs - removes,
				SpanDays:  timelineSpanDays(timeline),
			})
		}
		if hasQuickRemoval(timeline) {
			trends = append(trends, PackageTrend{
				Manager:   k.manager,
				Package:   k.name,
				Kind:      TrendQuickRemoval,
				Frequency: 1,
			})
		}
	}

	sort.Slice(trends, func(i, j int) bool {
		if trends[i].Frequency != trends[j].Frequency {
			return trends[i].Frequency > trends[j].Frequency
		}
		if trends[i].Manager != trends[j].Manager {
			return trends[i].Manager < trends[j].Manager
		}
		if trends[i].Package != trends[j].Package {
			return trends[i].Package < trends[j].Package
		}
		return trends[i].Kind < trends[j].Kind
	})
	if len(trends) > 20 {
		trends = trends[:20]
	}
	return trends
}

func timelineSpanDays(timeline []packageEvent) int {
	if len(timeline) < 2 {
		return 0
	}
	span := timeline[len(timeline)-1].at.Sub(timeline[0].at)
	return int(span.Hours() / 24)
}

// hasQuickRemoval reports an install followed by a remove of the same
// package within 24 hours.
func hasQuickRemoval(timeline []packageEvent) bool {
	for i, ev := range timeline {
		if ev.action != detect.ActionInstall {
			continue
		}
		for _, later := range timeline[i+1:] {
			if later.action != detect.ActionRemove {
				continue
			}
			return later.at.Sub(ev.at) <= 24*time.Hour
		}
	}
	return false
}

func versionConflicts(cmds []*history.Command) []VersionConflict {
	type key struct{ manager, name string }
	versions := make(map[key][]string)
	for _, c := range cmds {
		for _, pkg := range c.PackagesUsed {
			if pkg.Version == "" {
				continue
			}
			k := key{pkg.Manager, pkg.Name}
			if !containsString(versions[k], pkg.Version) {
				versions[k] = append(versions[k], pkg.Version)
			}
		}
	}

	var out []VersionConflict
	for k, seen := range versions {
		if len(seen) < 2 {
			continue
		}
		kind := ConflictMultipleVersions
		recommendation := "Multiple versions detected. Consider standardizing on one version."
		if hasDowngrade(seen) {
			kind = ConflictDowngrade
			recommendation = "Consider if downgrade was intentional. Check for compatibility issues."
		}
		out = append(out, VersionConflict{
			Manager:        k.manager,
			Package:        k.name,
			Versions:       seen,
			Kind:           kind,
			Recommendation: recommendation,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Manager != out[j].Manager {
			return out[i].Manager < out[j].Manager
		}
		return out[i].Package < out[j].Package
	})
	return out
}

// hasDowngrade approximates downgrade detection by flagging low version
// prefixes among multiple seen versions. Real semver ordering would need
// a version parser; this matches the documented heuristic.
func hasDowngrade(versions []string) bool {
	if len(versions) < 2 {
		return false
	}
	for _, v := range versions {
		if strings.Contains(v, "0.") || strings.HasPrefix(v, "1.") {
			return true
		}
	}
	return false
}

func packageRecommendations(managers []ManagerStats, trends []PackageTrend, conflicts []VersionConflict) []string {
	var out []string

	for _, m := range managers {
		if m.Removes > m.Installs/2 {
			out = append(out, fmt.Sprintf("High removal rate for %s packages: consider testing before installing", m.Manager))
		}
		if m.Manager == "npm" && m.Installs > 20 {
			out = append(out, "Consider using npm ci for faster, reliable installs in CI/CD")
		}
		if m.Manager == "pip" && m.Installs > 15 {
			out = append(out, "Consider using virtual environments to isolate Python dependencies")
		}
	}

	for i, trend := range trends {
		if i >= 5 {
			break
		}
		switch trend.Kind {
		case TrendRepeatedInstalls:
			out = append(out, fmt.Sprintf("Package '%s' installed %d times: check if this is intentional", trend.Package, trend.Frequency))
		case TrendFrequentInstalls:
			out = append(out, fmt.Sprintf("Frequent installs of '%s': consider adding to a requirements file", trend.Package))
		}
	}

	if len(conflicts) > 0 {
		out = append(out, fmt.Sprintf("%d version conflicts detected: review package versions for consistency", len(conflicts)))
	}
	if len(managers) > 3 {
		out = append(out, "Multiple package managers in use: consider standardizing where possible")
	}

	if len(out) > 8 {
		out = out[:8]
	}
	return out
}

// packageHealthScore starts at 1.0, penalizes conflicts and repeated
// installs, and rewards sticking to one primary manager.
func packageHealthScore(a PackageAnalysis) float64 {
	if a.TotalOperations == 0 {
		return 1.0
	}

	score := 1.0

	conflictPenalty := float64(len(a.Conflicts)) * 0.1
	if conflictPenalty > 0.3 {
		conflictPenalty = 0.3
	}
	score -= conflictPenalty

	repeated := 0
	for _, t := range a.Trends {
		if t.Kind == TrendRepeatedInstalls {
			repeated++
		}
	}
	repeatPenalty := float64(repeated) * 0.05
	if repeatPenalty > 0.2 {
		repeatPenalty = 0.2
	}
	score -= repeatPenalty

	totalOps := 0
	for _, m := range a.Managers {
		totalOps += m.Total
	}
	if totalOps > 0 && float64(a.Managers[0].Total)/float64(totalOps) > 0.7 {
		score += 0.1
	}

	return clamp01(score)
}

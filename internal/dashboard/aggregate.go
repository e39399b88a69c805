package dashboard

import (
	"github.com/mannuking/Project-Radius/internal/policy"
)

// View names one of the dashboard shapes.
type View string

const (
	ViewAdmin     View = "admin"
	ViewManager   View = "manager"
	ViewCollector View = "collector"
	ViewBiller    View = "biller"
)

// Aggregator builds a role-shaped summary from scoped records.
type Aggregator func(Input) any

var aggregators = map[View]Aggregator{
	ViewAdmin:     func(in Input) any { return Admin(in) },
	ViewManager:   func(in Input) any { return Manager(in) },
	ViewCollector: func(in Input) any { return Collector(in) },
	ViewBiller:    func(in Input) any { return Biller(in) },
}

// ForView resolves the aggregator for a view.
func ForView(v View) (Aggregator, bool) {
	agg, ok := aggregators[v]
	return agg, ok
}

// DefaultView maps a role to the dashboard it lands on.
func DefaultView(role policy.Role) View {
	switch role {
	case policy.RoleDirector:
		return ViewManager
	case policy.RoleOperations:
		return ViewAdmin
	case policy.RoleCollector:
		return ViewCollector
	default:
		return ViewBiller
	}
}

// Scoped reports whether a view covers one user's book rather than the
// whole ledger.
func (v View) Scoped() bool {
	return v == ViewCollector || v == ViewBiller
}

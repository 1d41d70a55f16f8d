// Package risk maps days-until-expiry to a spoilage risk assessment.
package risk

import "fmt"

// Label identifies one of the four risk partitions.
type Label string

const (
	Expired      Label = "Expired"
	ExpiresToday Label = "ExpiresToday"
	HighRisk     Label = "HighRisk"
	LowRisk      Label = "LowRisk"
)

// Labels lists every label from most to least urgent.
var Labels = []Label{Expired, ExpiresToday, HighRisk, LowRisk}

// HighRiskMaxDays is the last day count still classified as HighRisk.
const HighRiskMaxDays = 2

// DisplayName returns the human-readable form of the label.
func (l Label) DisplayName() string {
	switch l {
	case Expired:
		return "Expired"
	case ExpiresToday:
		return "Expires Today"
	case HighRisk:
		return "High Risk"
	case LowRisk:
		return "Low Risk"
	default:
		return string(l)
	}
}

// RecipeEligible reports whether recipes may be offered for the label.
func (l Label) RecipeEligible() bool {
	return l == ExpiresToday || l == HighRisk
}

// Severity drives how adapters style an assessment.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeveritySuccess Severity = "success"
)

// Assessment is the classifier output for one item.
// Message and Advice are markdown.
type Assessment struct {
	DaysLeft       int      `json:"days_left"`
	Label          Label    `json:"label"`
	DisplayName    string   `json:"display_name"`
	Message        string   `json:"message"`
	Advice         string   `json:"advice,omitempty"`
	Severity       Severity `json:"severity"`
	RecipeEligible bool     `json:"recipe_eligible"`
}

// Classify is total over all integers:
//
//	d < 0   Expired
//	d == 0  ExpiresToday
//	1..2    HighRisk
//	d > 2   LowRisk
func Classify(daysLeft int) Assessment {
	var a Assessment
	switch {
	case daysLeft < 0:
		a = Assessment{
			Label:    Expired,
			Message:  fmt.Sprintf("### 🚨 ALREADY EXPIRED: %d Days Overdue", overdue(daysLeft)),
			Advice:   "⚠️ **Recommendation:** This item is unsafe for consumption.",
			Severity: SeverityError,
		}
	case daysLeft == 0:
		a = Assessment{
			Label:    ExpiresToday,
			Message:  "### 🚨 CRITICAL: Expires Today",
			Severity: SeverityError,
		}
	case daysLeft <= HighRiskMaxDays:
		a = Assessment{
			Label:    HighRisk,
			Message:  fmt.Sprintf("### ⚠️ HIGH WASTE RISK: %d Days Remaining", daysLeft),
			Severity: SeverityWarning,
		}
	default:
		a = Assessment{
			Label:    LowRisk,
			Message:  "### ✅ STATUS: Fresh & Low Risk",
			Severity: SeveritySuccess,
		}
	}

	a.DaysLeft = daysLeft
	a.DisplayName = a.Label.DisplayName()
	a.RecipeEligible = a.Label.RecipeEligible()
	return a
}

// overdue returns |d| for d < 0 as an unsigned count so math.MinInt does
// not overflow.
func overdue(d int) uint {
	return uint(-(d + 1)) + 1
}

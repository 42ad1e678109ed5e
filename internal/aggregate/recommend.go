package aggregate

import "fmt"

// RecommendYesNo returns the canned follow-up for a yes/no result.
func RecommendYesNo(r YesNoResult) string {
	switch {
	case r.YesPct >= 80:
		return "Most respondents answered yes, which points to strong adoption or awareness. Document current practice, share it across the network and keep monitoring it."
	case r.YesPct >= 50:
		return "Uptake is real but not universal. Follow up with targeted training, monthly check-ins and short reference material."
	default:
		return "Adoption or awareness is low. Diagnose the causes through focus groups or calls, then run targeted capacity-building with simple job aids."
	}
}

// RecommendRating returns the canned follow-up for a rating result.
func RecommendRating(r RatingResult) string {
	switch {
	case r.Mean >= 4:
		return "Satisfaction is strong. Capture local case studies, keep the current approach and schedule regular peer-sharing sessions."
	case r.Mean >= 3:
		return "Satisfaction is moderate. Use open-ended follow-up and interviews to find the most actionable improvements."
	default:
		return "Satisfaction is low. Set up a focused working group, review curriculum and delivery, and roll out the top three fixes first."
	}
}

// RecommendCollaboration returns the canned follow-up for a collaboration result.
func RecommendCollaboration(r CollabResult) string {
	switch {
	case r.Total >= 30:
		return fmt.Sprintf("High adoption (n=%d). Document how %s runs %q and publish a short practical guide for replication.", r.Total, r.Top, r.Label)
	case r.Total >= 10:
		return fmt.Sprintf("Moderate adoption (n=%d). Encourage peer learning and share implementation templates.", r.Total)
	default:
		return fmt.Sprintf("Low adoption (n=%d). Run awareness sessions and short practical workshops.", r.Total)
	}
}

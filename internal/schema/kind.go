package schema

import "fmt"

// Kind is the question type assigned to a column.
type Kind int

const (
	Unclassified Kind = iota
	YesNo
	Rating
	CollaborationOption
)

func (k Kind) String() string {
	switch k {
	case YesNo:
		return "yes/no"
	case Rating:
		return "rating"
	case CollaborationOption:
		return "collaboration"
	case Unclassified:
		return "unclassified"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind accepts the names printed by String plus a few aliases.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "yes/no", "yesno", "yes-no":
		return YesNo, nil
	case "rating", "ratings":
		return Rating, nil
	case "collaboration", "collab":
		return CollaborationOption, nil
	case "unclassified", "other":
		return Unclassified, nil
	}
	return Unclassified, fmt.Errorf("unknown question kind %q", s)
}

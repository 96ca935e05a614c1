package interviews

import "github.com/blesswrld/codesync/backend/go-services/internal/models"

var transitions = map[models.Status][]models.Status{
	models.StatusUpcoming:  {models.StatusCompleted},
	models.StatusCompleted: {models.StatusSucceeded, models.StatusFailed},
}

// CanTransition reports whether from -> to follows the interview lifecycle.
// Writing the current status again is always allowed.
func CanTransition(from, to models.Status) bool {
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

package models

import "time"

// Status is the stored, interviewer-driven state of an interview. Storage
// treats it as a free-form string; these are the values the system assigns.
type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusCompleted Status = "completed"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Interview is a scheduled video session between one candidate and a set of
// interviewers. CandidateID and InterviewerIDs hold identity-provider ids.
type Interview struct {
	ID             string    `bson:"_id,omitempty" json:"id"`
	Title          string    `bson:"title" json:"title"`
	Description    string    `bson:"description,omitempty" json:"description,omitempty"`
	StartTime      time.Time `bson:"startTime" json:"startTime"`
	Status         Status    `bson:"status" json:"status"`
	CallRef        string    `bson:"callRef" json:"callRef"`
	CandidateID    string    `bson:"candidateId" json:"candidateId"`
	InterviewerIDs []string  `bson:"interviewerIds" json:"interviewerIds"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}

// HasInterviewer reports whether identity is one of the assigned interviewers.
func (i *Interview) HasInterviewer(identity string) bool {
	for _, id := range i.InterviewerIDs {
		if id == identity {
			return true
		}
	}
	return false
}

package models

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// Comment is immutable interviewer feedback attached to an interview.
type Comment struct {
	ID            string    `bson:"_id,omitempty" json:"id"`
	InterviewID   string    `bson:"interviewId" json:"interviewId"`
	InterviewerID string    `bson:"interviewerId" json:"interviewerId"`
	Content       string    `bson:"content" json:"content"`
	Rating        int       `bson:"rating" json:"rating"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
}

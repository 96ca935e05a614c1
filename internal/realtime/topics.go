// Package realtime implements the query-invalidation contract: every mutation
// publishes the logical query topics it touched, clients either subscribe to
// those topics over a websocket or poll with If-None-Match against the topic
// version.
package realtime

import (
	"context"
	"strings"
)

const (
	TopicUsers      = "users"
	TopicInterviews = "interviews"
)

// CandidateInterviewsTopic is the dependency key of a candidate's own interview list.
func CandidateInterviewsTopic(candidateID string) string {
	return "interviews:candidate:" + candidateID
}

// InterviewTopic is the dependency key of a single interview document.
func InterviewTopic(interviewID string) string {
	return "interview:" + interviewID
}

// InterviewCommentsTopic is the dependency key of an interview's comment list.
func InterviewCommentsTopic(interviewID string) string {
	return "comments:interview:" + interviewID
}

// TopicKind strips the entity id from a topic, for metric labels.
func TopicKind(topic string) string {
	switch {
	case strings.HasPrefix(topic, "interviews:candidate:"):
		return "interviews:candidate"
	case strings.HasPrefix(topic, "comments:interview:"):
		return "comments:interview"
	case strings.HasPrefix(topic, "interview:"):
		return "interview"
	}
	return topic
}

// Publisher is what mutations depend on to announce changed query topics.
type Publisher interface {
	Publish(ctx context.Context, topics ...string)
}

// NoOpPublisher is a publisher that does nothing (for testing or when realtime is disabled)
type NoOpPublisher struct{}

func (NoOpPublisher) Publish(ctx context.Context, topics ...string) {}

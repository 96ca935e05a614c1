package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockClient struct {
	id       string
	topics   []string
	mu       sync.Mutex
	messages [][]byte
	closed   bool
}

func (m *mockClient) ID() string       { return m.id }
func (m *mockClient) Topics() []string { return m.topics }

func (m *mockClient) Send(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClientClosed
	}
	m.messages = append(m.messages, data)
	return nil
}

func (m *mockClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockClient) events(t *testing.T) []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, 0, len(m.messages))
	for _, b := range m.messages {
		var e Event
		require.NoError(t, json.Unmarshal(b, &e))
		out = append(out, e)
	}
	return out
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()
	c1 := &mockClient{id: "c1", topics: []string{TopicInterviews, TopicUsers}}
	c2 := &mockClient{id: "c2", topics: []string{TopicInterviews}}

	hub.Register(c1)
	hub.Register(c2)
	assert.Equal(t, 2, hub.SubscriberCount(TopicInterviews))
	assert.Equal(t, 1, hub.SubscriberCount(TopicUsers))

	hub.Unregister(c1)
	assert.Equal(t, 1, hub.SubscriberCount(TopicInterviews))
	assert.Equal(t, 0, hub.SubscriberCount(TopicUsers))

	// unregistering twice is harmless
	hub.Unregister(c1)
	assert.Equal(t, 1, hub.SubscriberCount(TopicInterviews))
}

func TestNotifier_PublishesOnlyToSubscribedTopics(t *testing.T) {
	hub := NewHub()
	candidateTopic := CandidateInterviewsTopic("cand_1")
	all := &mockClient{id: "all", topics: []string{TopicInterviews}}
	mine := &mockClient{id: "mine", topics: []string{candidateTopic}}
	other := &mockClient{id: "other", topics: []string{CandidateInterviewsTopic("cand_2")}}
	hub.Register(all)
	hub.Register(mine)
	hub.Register(other)

	n := NewNotifier(NewMemoryVersions(), hub)
	ctx := context.Background()
	n.Publish(ctx, TopicInterviews, candidateTopic)
	n.Publish(ctx, TopicInterviews)

	allEvents := all.events(t)
	require.Len(t, allEvents, 2)
	assert.Equal(t, EventTypeInvalidate, allEvents[0].Type)
	assert.Equal(t, int64(1), allEvents[0].Version)
	assert.Equal(t, int64(2), allEvents[1].Version)

	mineEvents := mine.events(t)
	require.Len(t, mineEvents, 1)
	assert.Equal(t, candidateTopic, mineEvents[0].Topic)

	assert.Empty(t, other.events(t))

	v, err := n.Version(ctx, TopicInterviews)
	require.NoError(t, err)
	assert.Equal(t, int64(2), v)
}

func TestNotifier_ClosedClientDoesNotBlockOthers(t *testing.T) {
	hub := NewHub()
	closed := &mockClient{id: "closed", topics: []string{TopicUsers}, closed: true}
	open := &mockClient{id: "open", topics: []string{TopicUsers}}
	hub.Register(closed)
	hub.Register(open)

	NewNotifier(NewMemoryVersions(), hub).Publish(context.Background(), TopicUsers)
	assert.Len(t, open.events(t), 1)
}

func TestRedisVersions(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	vs := NewRedisVersions(client, "test:qv:")
	ctx := context.Background()

	v, err := vs.Get(ctx, TopicUsers)
	require.NoError(t, err)
	assert.Equal(t, int64(0), v)

	v, err = vs.Bump(ctx, TopicUsers)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)

	// a second store over the same redis sees the same version
	other := NewRedisVersions(client, "test:qv:")
	v, err = other.Get(ctx, TopicUsers)
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
	assert.True(t, m.Exists("test:qv:users"))
}

func TestTopicKind(t *testing.T) {
	assert.Equal(t, "users", TopicKind(TopicUsers))
	assert.Equal(t, "interviews:candidate", TopicKind(CandidateInterviewsTopic("x")))
	assert.Equal(t, "comments:interview", TopicKind(InterviewCommentsTopic("x")))
	assert.Equal(t, "interview", TopicKind(InterviewTopic("x")))
}

package usecase_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"helperhive/internal/usecase"
	"helperhive/pkg/errors"
)

func TestConversationKey_Symmetric(t *testing.T) {
	pairs := [][2]string{{"alice", "bob"}, {"b", "a"}, {"uid-10", "uid-9"}, {"x", "x"}}
	for _, p := range pairs {
		assert.Equal(t, usecase.ConversationKey(p[0], p[1]), usecase.ConversationKey(p[1], p[0]))
	}
	assert.Equal(t, "5:alice_bob", usecase.ConversationKey("bob", "alice"))
	assert.NotEqual(t, usecase.ConversationKey("a", "bc"), usecase.ConversationKey("ab", "c"))
	assert.NotEqual(t, usecase.ConversationKey("a_b", "c"), usecase.ConversationKey("a", "b_c"))
}

func TestSendMessage_Validation(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "alice")
	f.seedUser(t, "bob")

	tests := []struct {
		name      string
		recipient string
		body      string
		code      string
	}{
		{"empty body", "bob", "", errors.CodeInvalidInput},
		{"whitespace body", "bob", "  \n ", errors.CodeInvalidInput},
		{"self message", "alice", "hi me", errors.CodeInvalidInput},
		{"too long", "bob", strings.Repeat("x", 2001), errors.CodeInvalidInput},
		{"unknown recipient", "ghost", "hello", errors.CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := f.chat.SendMessage(f.ctx, "alice", tt.recipient, tt.body)
			assert.Nil(t, msg)
			assert.True(t, errors.Is(err, tt.code), "expected %s, got %v", tt.code, err)
		})
	}

	msg, err := f.chat.SendMessage(f.ctx, "alice", "bob", strings.Repeat("x", 2000))
	require.NoError(t, err)
	assert.Len(t, msg.Body, 2000)
}

func TestSendMessage_RateLimited(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "alice")
	f.seedUser(t, "bob")
	f.limiter.Deny = true

	_, err := f.chat.SendMessage(f.ctx, "alice", "bob", "hello")
	assert.True(t, errors.Is(err, errors.CodeTooManyRequests))
}

func TestSendMessage_TimestampsStrictlyIncrease(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "alice")
	f.seedUser(t, "bob")

	first, err := f.chat.SendMessage(f.ctx, "alice", "bob", "one")
	require.NoError(t, err)
	second, err := f.chat.SendMessage(f.ctx, "bob", "alice", "two")
	require.NoError(t, err)
	third, err := f.chat.SendMessage(f.ctx, "alice", "bob", "three")
	require.NoError(t, err)

	assert.True(t, second.SentAt.After(first.SentAt))
	assert.True(t, third.SentAt.After(second.SentAt))
	assert.Equal(t, first.ConversationKey, second.ConversationKey)
}

func TestListConversations_GroupsByCounterpartNewestFirst(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "alice")
	f.seedUser(t, "bob")
	f.seedUser(t, "carol")

	_, err := f.chat.SendMessage(f.ctx, "alice", "bob", "hi bob")
	require.NoError(t, err)
	_, err = f.chat.SendMessage(f.ctx, "bob", "alice", "hi alice")
	require.NoError(t, err)
	last, err := f.chat.SendMessage(f.ctx, "carol", "alice", "quote please")
	require.NoError(t, err)
	_, err = f.chat.SendMessage(f.ctx, "bob", "carol", "not for alice")
	require.NoError(t, err)

	summaries, err := f.chat.ListConversations(f.ctx, "alice")
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, "carol", summaries[0].Counterpart.ID)
	assert.Equal(t, "User carol", summaries[0].Counterpart.Name)
	assert.Equal(t, last.ID, summaries[0].LastMessage.ID)

	assert.Equal(t, "bob", summaries[1].Counterpart.ID)
	assert.Equal(t, "hi alice", summaries[1].LastMessage.Body)

	bobView, err := f.chat.ListConversations(f.ctx, "bob")
	require.NoError(t, err)
	require.Len(t, bobView, 2)
	assert.Equal(t, "carol", bobView[0].Counterpart.ID)
	assert.Equal(t, "alice", bobView[1].Counterpart.ID)
	assert.Equal(t, summaries[1].ConversationKey, bobView[1].ConversationKey)
}

func TestListConversations_KeepsQuietCounterparts(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "alice")
	f.seedUser(t, "bob")
	f.seedUser(t, "carol")

	_, err := f.chat.SendMessage(f.ctx, "carol", "alice", "still there?")
	require.NoError(t, err)
	for i := 0; i < 600; i++ {
		_, err := f.chat.SendMessage(f.ctx, "alice", "bob", "ping")
		require.NoError(t, err)
	}

	summaries, err := f.chat.ListConversations(f.ctx, "alice")
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "bob", summaries[0].Counterpart.ID)
	assert.Equal(t, "carol", summaries[1].Counterpart.ID)
	assert.Equal(t, "still there?", summaries[1].LastMessage.Body)
}

func TestListConversations_CachesCounterpartsAndInvalidatesOnPresence(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "alice")
	f.seedUser(t, "bob")

	_, err := f.chat.SendMessage(f.ctx, "alice", "bob", "hello")
	require.NoError(t, err)

	_, err = f.chat.ListConversations(f.ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, f.cache.Misses)

	summaries, err := f.chat.ListConversations(f.ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, f.cache.Hits)
	assert.False(t, summaries[0].Counterpart.IsOnline)

	require.NoError(t, f.users.SetPresence(f.ctx, "bob", true))

	summaries, err = f.chat.ListConversations(f.ctx, "alice")
	require.NoError(t, err)
	assert.True(t, summaries[0].Counterpart.IsOnline)
}

func TestListConversations_DeletedCounterpart(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "alice")
	f.seedUser(t, "bob")

	_, err := f.chat.SendMessage(f.ctx, "alice", "bob", "hello")
	require.NoError(t, err)
	require.NoError(t, f.store.Users().Delete(f.ctx, "bob"))

	summaries, err := f.chat.ListConversations(f.ctx, "alice")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, "bob", summaries[0].Counterpart.ID)
	assert.Equal(t, "Unknown user", summaries[0].Counterpart.Name)
}

func TestGetConversation_AscendingOrder(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "alice")
	f.seedUser(t, "bob")
	f.seedUser(t, "carol")

	for _, body := range []string{"1", "2", "3"} {
		_, err := f.chat.SendMessage(f.ctx, "alice", "bob", body)
		require.NoError(t, err)
	}
	_, err := f.chat.SendMessage(f.ctx, "carol", "alice", "other")
	require.NoError(t, err)
	_, err = f.chat.SendMessage(f.ctx, "bob", "alice", "4")
	require.NoError(t, err)

	messages, err := f.chat.GetConversation(f.ctx, "bob", "alice", 0)
	require.NoError(t, err)
	require.Len(t, messages, 4)
	for i, want := range []string{"1", "2", "3", "4"} {
		assert.Equal(t, want, messages[i].Body)
	}

	window, err := f.chat.GetConversation(f.ctx, "alice", "bob", 2)
	require.NoError(t, err)
	require.Len(t, window, 2)
	assert.Equal(t, "3", window[0].Body)
	assert.Equal(t, "4", window[1].Body)

	_, err = f.chat.GetConversation(f.ctx, "alice", "alice", 10)
	assert.True(t, errors.Is(err, errors.CodeInvalidInput))
}

func TestSubscribeConversations_ReaggregatesOnSend(t *testing.T) {
	f := newFixture(t)
	f.seedUser(t, "alice")
	f.seedUser(t, "bob")

	sub, err := f.chat.SubscribeConversations(f.ctx, "alice")
	require.NoError(t, err)
	defer sub.Cancel()

	assert.Empty(t, receive(t, sub.Updates()))

	_, err = f.chat.SendMessage(f.ctx, "bob", "alice", "are you free tomorrow?")
	require.NoError(t, err)

	summaries := receive(t, sub.Updates())
	require.Len(t, summaries, 1)
	assert.Equal(t, "bob", summaries[0].Counterpart.ID)
	assert.Equal(t, "are you free tomorrow?", summaries[0].LastMessage.Body)
}

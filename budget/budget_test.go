package budget

import (
	"strings"
	"testing"

	"github.com/casualjim/hermes/messages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// msg30 builds a message that estimates to exactly 30 tokens:
// 80 characters of content -> 20 tokens, plus the per-message overhead.
func msg30(role messages.Role) messages.Message {
	return messages.Message{Role: role, Content: strings.Repeat("x", 80)}
}

func TestEstimateMessage(t *testing.T) {
	t.Run("rounds up partial tokens", func(t *testing.T) {
		// 5 chars -> ceil(5/4) = 2 tokens + overhead
		assert.Equal(t, 12, EstimateMessage(messages.User("hello")))
	})

	t.Run("exact multiple", func(t *testing.T) {
		assert.Equal(t, 30, EstimateMessage(msg30(messages.RoleUser)))
	})

	t.Run("empty content still costs overhead", func(t *testing.T) {
		assert.Equal(t, 10, EstimateMessage(messages.User("")))
	})
}

func TestEstimate(t *testing.T) {
	conversation := []messages.Message{
		msg30(messages.RoleSystem),
		msg30(messages.RoleUser),
		msg30(messages.RoleAssistant),
	}
	assert.Equal(t, 90, Estimate(conversation))
	assert.Equal(t, 0, Estimate(nil))
}

func TestTruncate(t *testing.T) {
	t.Run("within budget is returned unchanged", func(t *testing.T) {
		conversation := []messages.Message{
			messages.System("anchor"),
			messages.User("one"),
			messages.Assistant("two"),
		}
		got := Truncate(conversation, 1000, true)
		assert.Equal(t, conversation, got)
	})

	t.Run("anchor is always preserved", func(t *testing.T) {
		conversation := []messages.Message{msg30(messages.RoleSystem)}
		for i := 0; i < 10; i++ {
			conversation = append(conversation, msg30(messages.RoleUser))
		}
		got := Truncate(conversation, 100, true)
		require.NotEmpty(t, got)
		assert.Equal(t, messages.RoleSystem, got[0].Role)
	})

	t.Run("result is a contiguous suffix of the input", func(t *testing.T) {
		conversation := []messages.Message{messages.System("anchor")}
		for i := 0; i < 8; i++ {
			conversation = append(conversation, messages.User(strings.Repeat("m", 40+i)))
		}
		got := Truncate(conversation, 120, true)
		require.NotEmpty(t, got)
		assert.Equal(t, messages.RoleSystem, got[0].Role)

		rest := got[1:]
		require.NotEmpty(t, rest)
		// the kept tail must line up with the end of the original slice
		tail := conversation[len(conversation)-len(rest):]
		assert.Equal(t, tail, rest)
	})

	t.Run("keeps system plus the single most recent message", func(t *testing.T) {
		// context window 100, reserve 40 => 60 tokens of budget,
		// six messages of 30 estimated tokens each
		conversation := []messages.Message{msg30(messages.RoleSystem)}
		for i := 0; i < 5; i++ {
			role := messages.RoleUser
			if i%2 == 1 {
				role = messages.RoleAssistant
			}
			conversation = append(conversation, msg30(role))
		}

		got := Truncate(conversation, 100-40, true)
		require.Len(t, got, 2)
		assert.Equal(t, messages.RoleSystem, got[0].Role)
		assert.Equal(t, conversation[5], got[1])
	})

	t.Run("only the anchor fits", func(t *testing.T) {
		conversation := []messages.Message{
			msg30(messages.RoleSystem),
			msg30(messages.RoleUser),
			msg30(messages.RoleUser),
		}
		got := Truncate(conversation, 40, true)
		require.Len(t, got, 1)
		assert.Equal(t, messages.RoleSystem, got[0].Role)
	})

	t.Run("no anchor and nothing fits", func(t *testing.T) {
		conversation := []messages.Message{
			msg30(messages.RoleUser),
			msg30(messages.RoleUser),
		}
		got := Truncate(conversation, 20, true)
		assert.Empty(t, got)
	})

	t.Run("anchor not preserved when flag is off", func(t *testing.T) {
		conversation := []messages.Message{
			msg30(messages.RoleSystem),
			msg30(messages.RoleUser),
			msg30(messages.RoleUser),
		}
		got := Truncate(conversation, 60, false)
		require.Len(t, got, 2)
		assert.Equal(t, conversation[1:], got)
	})

	t.Run("first message is not system so flag has no effect", func(t *testing.T) {
		conversation := []messages.Message{
			msg30(messages.RoleUser),
			msg30(messages.RoleAssistant),
			msg30(messages.RoleUser),
		}
		got := Truncate(conversation, 60, true)
		require.Len(t, got, 2)
		assert.Equal(t, conversation[1:], got)
	})
}

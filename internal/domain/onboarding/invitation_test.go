package onboarding

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderPlaceholders(t *testing.T) {
	out := RenderPlaceholders("Hi {{first_name}}, see {{link}} ({{unknown}})", map[string]string{
		"first_name": "Ana",
		"link":       "https://example.com/x",
	})
	assert.Equal(t, "Hi Ana, see https://example.com/x ({{unknown}})", out)
	assert.Equal(t, "", RenderPlaceholders("", map[string]string{"a": "b"}))
}

func TestSession_RenderInvitation(t *testing.T) {
	s := newTestSession(t, catalogPreset(t, PresetStandardResidential))
	s.Phone = "555-0101"
	link := "https://portal.example.com/onboarding/abc"

	t.Run("email", func(t *testing.T) {
		inv := s.RenderInvitation(ChannelEmail, link)
		assert.Equal(t, "sam@example.com", inv.Email)
		assert.Equal(t, DefaultInvitationEmailSubject, inv.Subject)
		assert.Contains(t, inv.Body, "Hi Sam,")
		assert.Contains(t, inv.Body, "welcome you to Elm Court")
		assert.Contains(t, inv.Body, link)
		assert.Contains(t, inv.Body, "expire in 14 days")
		assert.Empty(t, inv.SMS)
	})

	t.Run("sms", func(t *testing.T) {
		inv := s.RenderInvitation(ChannelSMS, link)
		assert.Equal(t, "Welcome to Elm Court! Complete your move-in at: "+link, inv.SMS)
		assert.Equal(t, "555-0101", inv.Phone)
		assert.Empty(t, inv.Body)
	})

	t.Run("both", func(t *testing.T) {
		inv := s.RenderInvitation(ChannelBoth, link)
		assert.True(t, inv.WantsEmail())
		assert.True(t, inv.WantsSMS())
		assert.NotEmpty(t, inv.Body)
		assert.NotEmpty(t, inv.SMS)
	})

	t.Run("fallback texts", func(t *testing.T) {
		s.Config.Messaging = Messaging{}
		s.FirstName = ""
		inv := s.RenderInvitation(ChannelBoth, link)
		assert.Equal(t, DefaultInvitationEmailSubject, inv.Subject)
		assert.Contains(t, inv.Body, "Hi there,")
		assert.Equal(t, "Complete your move-in for Elm Court: "+link, inv.SMS)
	})
}

func TestChannel_IsValid(t *testing.T) {
	assert.True(t, ChannelBoth.IsValid())
	assert.False(t, Channel("fax").IsValid())
}

package onboarding

import (
	"strconv"
	"strings"
)

// Channel is the delivery route for an invitation
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
	ChannelBoth  Channel = "both"
)

// IsValid checks if the channel is known
func (c Channel) IsValid() bool {
	return c == ChannelEmail || c == ChannelSMS || c == ChannelBoth
}

// Placeholders recognised in invitation texts
const (
	PlaceholderFirstName    = "first_name"
	PlaceholderPropertyName = "property_name"
	PlaceholderLink         = "link"
	PlaceholderExpiryDays   = "expiry_days"
)

const (
	fallbackEmailBody = "Hi {{first_name}},\n\n" +
		"Please complete your move-in for {{property_name}} using the link below.\n\n" +
		"{{link}}\n\n" +
		"This link expires in {{expiry_days}} days."
	fallbackSMSBody = "Complete your move-in for {{property_name}}: {{link}}"
)

// Invitation is a rendered message ready for delivery
type Invitation struct {
	Channel Channel `json:"channel"`
	Email   string  `json:"email,omitempty"`
	Phone   string  `json:"phone,omitempty"`
	Subject string  `json:"subject,omitempty"`
	Body    string  `json:"body,omitempty"`
	SMS     string  `json:"sms,omitempty"`
}

// WantsEmail reports whether the invitation goes out by email
func (i Invitation) WantsEmail() bool {
	return i.Channel == ChannelEmail || i.Channel == ChannelBoth
}

// WantsSMS reports whether the invitation goes out by SMS
func (i Invitation) WantsSMS() bool {
	return i.Channel == ChannelSMS || i.Channel == ChannelBoth
}

// RenderPlaceholders replaces each {{key}} with its value. Unknown
// placeholders are left untouched.
func RenderPlaceholders(text string, values map[string]string) string {
	if text == "" || len(values) == 0 {
		return text
	}
	pairs := make([]string, 0, len(values)*2)
	for key, value := range values {
		pairs = append(pairs, "{{"+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// InvitationValues collects placeholder values for a session
func (s *Session) InvitationValues(link string) map[string]string {
	firstName := s.FirstName
	if firstName == "" {
		firstName = "there"
	}
	return map[string]string{
		PlaceholderFirstName:    firstName,
		PlaceholderPropertyName: s.PropertyName,
		PlaceholderLink:         link,
		PlaceholderExpiryDays:   strconv.Itoa(s.Config.LinkExpiryDays),
	}
}

// RenderInvitation builds the invitation for the session's snapshot, using
// fallback texts where the preset left them blank.
func (s *Session) RenderInvitation(channel Channel, link string) Invitation {
	values := s.InvitationValues(link)
	msg := s.Config.Messaging

	subject := msg.InvitationEmailSubject
	if subject == "" {
		subject = DefaultInvitationEmailSubject
	}
	body := msg.InvitationEmailBody
	if body == "" {
		body = fallbackEmailBody
	}
	sms := msg.InvitationSMSBody
	if sms == "" {
		sms = fallbackSMSBody
	}

	inv := Invitation{Channel: channel}
	if inv.WantsEmail() {
		inv.Email = s.Email
		inv.Subject = RenderPlaceholders(subject, values)
		inv.Body = RenderPlaceholders(body, values)
	}
	if inv.WantsSMS() {
		inv.Phone = s.Phone
		inv.SMS = RenderPlaceholders(sms, values)
	}
	return inv
}

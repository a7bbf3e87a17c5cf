package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// LegalHandler serves the static public pages (terms, FAQ, community guidelines).
type LegalHandler struct{}

func NewLegalHandler() *LegalHandler {
	return &LegalHandler{}
}

const legalStyle = `<style>body{font-family:-apple-system,BlinkMacSystemFont,sans-serif;max-width:800px;margin:0 auto;padding:20px;color:#333}h1{color:#1a1a1a}h2{color:#444;margin-top:30px}</style>`

func (h *LegalHandler) TermsOfService(c *fiber.Ctx) error {
	return c.Type("html").SendString(`<!DOCTYPE html>
<html><head><title>Terms of Service - Tablemates</title>
<meta name="viewport" content="width=device-width, initial-scale=1">
` + legalStyle + `
</head><body>
<h1>Terms of Service</h1>
<p>Last updated: August 2026</p>
<h2>Acceptance</h2>
<p>By using Tablemates, you agree to these terms.</p>
<h2>Bookings</h2>
<p>Bookings can be cancelled or rescheduled up to 48 hours before the event start. Inside that window the seat is committed to the table pairing and can no longer be changed.</p>
<h2>Credits</h2>
<p>Event credits entitle you to one free booking each. Credits are non-transferable and may expire.</p>
<h2>User Conduct</h2>
<p>Dinners bring strangers together. Treat your tablemates with respect; we may suspend accounts that repeatedly violate our community guidelines.</p>
<h2>Contact</h2>
<p>For questions, contact us at support@tablemates.app</p>
</body></html>`)
}

func (h *LegalHandler) PrivacyPolicy(c *fiber.Ctx) error {
	return c.Type("html").SendString(`<!DOCTYPE html>
<html><head><title>Privacy Policy - Tablemates</title>
<meta name="viewport" content="width=device-width, initial-scale=1">
` + legalStyle + `
</head><body>
<h1>Privacy Policy</h1>
<p>Last updated: August 2026</p>
<h2>Information We Collect</h2>
<p>We collect your email address, profile details, and your assessment answers to match you with compatible dinner guests. If you sign in with Apple, we receive your Apple ID identifier.</p>
<h2>How We Use Your Information</h2>
<p>Assessment answers are used only to compute your personality category for table pairing. We never share individual answers with other guests.</p>
<h2>Account Deletion</h2>
<p>You can delete your account and all associated data at any time from your profile settings.</p>
<h2>Contact</h2>
<p>For questions about this policy, contact us at support@tablemates.app</p>
</body></html>`)
}

func (h *LegalHandler) FAQ(c *fiber.Ctx) error {
	return c.Type("html").SendString(`<!DOCTYPE html>
<html><head><title>FAQ - Tablemates</title>
<meta name="viewport" content="width=device-width, initial-scale=1">
` + legalStyle + `
</head><body>
<h1>Frequently Asked Questions</h1>
<h2>When do I find out where the dinner is?</h2>
<p>The venue address is revealed 48 hours before the event starts.</p>
<h2>When do I learn about my tablemates?</h2>
<p>A short group snapshot appears 24 hours before the event. Conversation starters unlock once the dinner begins.</p>
<h2>Can I cancel?</h2>
<p>Yes, up to 48 hours before the event. Later than that the booking is locked in.</p>
<h2>Can I bring a friend?</h2>
<p>You can book a second seat for a friend or send them an invitation from your booking.</p>
</body></html>`)
}

func (h *LegalHandler) Guidelines(c *fiber.Ctx) error {
	return c.Type("html").SendString(`<!DOCTYPE html>
<html><head><title>Community Guidelines - Tablemates</title>
<meta name="viewport" content="width=device-width, initial-scale=1">
` + legalStyle + `
</head><body>
<h1>Community Guidelines</h1>
<p>Show up on time. A table of six with two empty seats is a worse dinner for everyone.</p>
<p>Phones stay in pockets. You booked a dinner with strangers, not a room to scroll in.</p>
<p>Split the bill fairly and tip where customary.</p>
<p>Report any behavior that made you uncomfortable to support@tablemates.app — reports are read by a human.</p>
</body></html>`)
}

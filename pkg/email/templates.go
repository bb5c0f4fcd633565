package email

import "fmt"

// BookingConfirmationHTML renders the email sent when a booking's
// payment completes.
func BookingConfirmationHTML(name, source, destination string, seats int, amount float64) string {
	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
			<h2 style="color: #16a34a;">Booking Confirmed</h2>
			<p>Hi %s,</p>
			<p>Your payment was received and your booking is confirmed.</p>
			<table style="width: 100%%; border-collapse: collapse;">
				<tr><td style="padding: 8px; color: #6b7280;">Route</td><td style="padding: 8px;">%s &rarr; %s</td></tr>
				<tr><td style="padding: 8px; color: #6b7280;">Seats</td><td style="padding: 8px;">%d</td></tr>
				<tr><td style="padding: 8px; color: #6b7280;">Amount paid</td><td style="padding: 8px;">&#8377;%.2f</td></tr>
			</table>
			<p>Safe travels!</p>
			<p style="color: #9ca3af; font-size: 12px;">GoaLyft &mdash; shared rides across Goa</p>
		</div>`,
		name, source, destination, seats, amount)
}

// KycDecisionHTML renders the email sent after an admin reviews a KYC
// submission.
func KycDecisionHTML(name string, approved bool) string {
	if approved {
		return fmt.Sprintf(`
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #16a34a;">You're Verified</h2>
				<p>Hi %s,</p>
				<p>Your identity documents were reviewed and approved. You can now offer rides on GoaLyft.</p>
				<p style="color: #9ca3af; font-size: 12px;">GoaLyft &mdash; shared rides across Goa</p>
			</div>`, name)
	}
	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
			<h2 style="color: #dc2626;">Verification Unsuccessful</h2>
			<p>Hi %s,</p>
			<p>We could not verify your identity documents. Please re-submit clear photos of your license and ID.</p>
			<p style="color: #9ca3af; font-size: 12px;">GoaLyft &mdash; shared rides across Goa</p>
		</div>`, name)
}

// RideReminderHTML renders the reminder sent shortly before departure.
func RideReminderHTML(name, source, destination, startTime string) string {
	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
			<h2 style="color: #2563eb;">Your Ride Is Coming Up</h2>
			<p>Hi %s,</p>
			<p>Reminder: your ride from <strong>%s</strong> to <strong>%s</strong> departs at %s.</p>
			<p style="color: #9ca3af; font-size: 12px;">GoaLyft &mdash; shared rides across Goa</p>
		</div>`,
		name, source, destination, startTime)
}

package templates

import (
	"fmt"
	"strings"
	"time"
)

// ChallanLine is one fine as shown in an email
type ChallanLine struct {
	Amount   int
	IssuedAt time.Time
	Reasons  []string
}

// ChallanIssuedSubject is the subject line of the challan issued email
const ChallanIssuedSubject = "A challan has been issued"

// ChallanReminderSubject is the subject line of the pending challan reminder
const ChallanReminderSubject = "You have unpaid challans"

// RenderChallanIssuedEmail returns the plain text and HTML bodies telling a
// rider a new challan was issued.
func RenderChallanIssuedEmail(riderName string, line ChallanLine) (string, string) {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", riderName)
	fmt.Fprintf(&b, "A challan of Rs. %d was issued on %s for:\n", line.Amount, line.IssuedAt.Format("02 Jan 2006 15:04 MST"))
	for _, r := range line.Reasons {
		fmt.Fprintf(&b, "  - %s\n", r)
	}
	b.WriteString("\nPlease pay it from the app at your earliest convenience.\n")
	text := b.String()
	return text, RenderGenericEmail(ChallanIssuedSubject, text)
}

// RenderChallanReminderEmail returns the plain text and HTML bodies listing a
// rider's unpaid challans.
func RenderChallanReminderEmail(riderName string, lines []ChallanLine) (string, string) {
	total := 0
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", riderName)
	fmt.Fprintf(&b, "You have %d unpaid challan(s):\n", len(lines))
	for _, l := range lines {
		total += l.Amount
		fmt.Fprintf(&b, "  - Rs. %d issued %s\n", l.Amount, l.IssuedAt.Format("02 Jan 2006"))
	}
	fmt.Fprintf(&b, "\nTotal outstanding: Rs. %d\n", total)
	text := b.String()
	return text, RenderGenericEmail(ChallanReminderSubject, text)
}

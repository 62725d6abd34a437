package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRenderChallanIssuedEmail(t *testing.T) {
	text, html := RenderChallanIssuedEmail("Asha", ChallanLine{
		Amount:   1500,
		IssuedAt: time.Date(2024, 5, 1, 10, 15, 0, 0, time.UTC),
		Reasons:  []string{"Riding without a helmet", "Speeding"},
	})

	assert.Contains(t, text, "Hi Asha,")
	assert.Contains(t, text, "Rs. 1500")
	assert.Contains(t, text, "  - Speeding\n")
	assert.Contains(t, html, "<title>A challan has been issued</title>")
}

func TestRenderChallanReminderEmailTotals(t *testing.T) {
	at := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	text, _ := RenderChallanReminderEmail("Ravi", []ChallanLine{{Amount: 500, IssuedAt: at}, {Amount: 1000, IssuedAt: at}})

	assert.Contains(t, text, "You have 2 unpaid challan(s)")
	assert.Contains(t, text, "Total outstanding: Rs. 1500")
}

func TestRenderGenericEmailEscapes(t *testing.T) {
	out := RenderGenericEmail("Hi <b>", "line one\n<script>")

	assert.Contains(t, out, "Hi &lt;b&gt;")
	assert.Contains(t, out, "line one<br>&lt;script&gt;")
}

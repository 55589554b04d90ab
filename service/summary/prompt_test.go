package summary

import (
	"strings"
	"testing"
	"time"

	"github.com/KAsare1/fintrack-server/cmd/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLines(t *testing.T) {
	txs := []models.Transaction{
		{Title: "Coffee", Amount: decimal.NewFromInt(150)},
		{Title: "Refund", Amount: decimal.RequireFromString("-12.5")},
	}

	assert.Equal(t, "- ₹150 for Coffee\n- ₹-12.5 for Refund", Lines(txs, "₹"))
	assert.Equal(t, "- $150 for Coffee\n- $-12.5 for Refund", Lines(txs, "$"))
}

func TestBuildPrompt(t *testing.T) {
	txs := []models.Transaction{{Title: "Salary", Amount: decimal.NewFromInt(2000)}}

	prompt := BuildPrompt(txs, time.March, "₹")

	assert.True(t, strings.HasPrefix(prompt, "Analyze these transactions from the past month (March):\n- ₹2000 for Salary\n"))
	assert.Contains(t, prompt, "## Financial Summary (March)")
	assert.Contains(t, prompt, "- Total Income: **₹X** (from Y sources)")
	assert.Contains(t, prompt, "- Never invent numbers")
	assert.NotContains(t, prompt, "%!")
}

package summary

import (
	"fmt"
	"strings"
	"time"

	"github.com/KAsare1/fintrack-server/cmd/models"
)

const promptTemplate = `Analyze these transactions from the past month (%[1]s):
%[2]s

INSTRUCTIONS:
1. First separate transactions into income and expenses
2. Calculate totals for each category
3. Follow this exact analysis format:

## Financial Summary (%[1]s)

### Income & Expenses
- Total Income: **%[3]sX** (from Y sources)
- Total Expenses: **%[3]sY**
  - Essentials: **%[3]sA** (Rent, Food, Utilities)
  - Discretionary: **%[3]sB** (Entertainment, Dining)
- Net Savings: **%[3]sZ** (X-Y)

### Key Observations
1. [Most significant spending category]
2. [Notable pattern or anomaly]

### Recommendations
1. **Immediate Actions**
  - Reduce spending on [specific category] by %[3]sX/month
  - Consider [specific suggestion] for saving %[3]sY

2. **Investment Options**
  - Based on your %[3]sZ savings: [specific instruments]

3. **Long-Term Planning**
  - [Retirement/emergency fund advice]

RULES:
- Only use data provided
- Never invent numbers
- Mark uncertain estimates with (~)
- If insufficient data, say "Not enough data to determine [X]"
- Always use emojis
`

// Lines renders one "- <currency><amount> for <title>" line per transaction.
func Lines(txs []models.Transaction, currency string) string {
	lines := make([]string, 0, len(txs))
	for _, t := range txs {
		lines = append(lines, fmt.Sprintf("- %s%s for %s", currency, t.Amount.String(), t.Title))
	}
	return strings.Join(lines, "\n")
}

func BuildPrompt(txs []models.Transaction, month time.Month, currency string) string {
	return fmt.Sprintf(promptTemplate, month.String(), Lines(txs, currency), currency)
}

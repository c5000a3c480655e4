package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestStylesKeepText(t *testing.T) {
	var buf bytes.Buffer
	styles := NewStyles(&buf)

	assert.Contains(t, styles.Success("ok"), "ok")
	assert.Contains(t, styles.Error("failed"), "failed")
	assert.Contains(t, styles.Amount("-12.50", true), "-12.50")
	assert.Contains(t, styles.Projected("1,000.00"), "1,000.00")
	assert.Contains(t, styles.Timing("5ms", false), "5ms")
}

func TestTableAlignsColumns(t *testing.T) {
	table := NewTable("Date", "Description", "Amount").Align(2, AlignRight)
	table.AddRow("2024-01-01", "Paycheck", "5.00")
	table.AddRow("2024-01-08", "家賃", "1,234.00")

	var buf bytes.Buffer
	assert.NoError(t, table.Render(&buf))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, 4, len(lines))
	assert.Equal(t, "Date        Description    Amount", lines[0])
	assert.Equal(t, "2024-01-01  Paycheck         5.00", lines[2])
	assert.Equal(t, "2024-01-08  家賃         1,234.00", lines[3])
}

func TestTableStyledCellsMeasurePlainText(t *testing.T) {
	table := NewTable("Name", "Balance").Align(1, AlignRight)
	table.AddStyledRow([]string{"Checking", "10.00"}, []string{"Checking", "\x1b[32m10.00\x1b[0m"})

	var buf bytes.Buffer
	assert.NoError(t, table.Render(&buf))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, "Checking    \x1b[32m10.00\x1b[0m", lines[2])
	assert.Equal(t, 1, table.Len())
}

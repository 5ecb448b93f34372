package content

// Post-processing limits. Provider output is capped before layout so a
// verbose model cannot blow up the fixed canvas; overflow past these caps
// is truncated with an ellipsis, never an error.
const (
	MaxBulletItems    = 7
	MaxBulletChars    = 50
	MaxFlowchartSteps = 6
	MaxTextBlockChars = 200
)

// Truncate cuts text to at most maxLen runes and appends an ellipsis when
// something was removed.
func Truncate(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen]) + "..."
}

// Process applies the content limits to a document and returns the result.
// The input is not modified. Tables are additionally squared: rows longer
// than the column list are cut to it.
func Process(d Document) Document {
	out := d
	out.Sections = make([]Section, len(d.Sections))

	for i, sec := range d.Sections {
		switch sec.Type {
		case TypeBullets:
			sec.Content.Items = processBullets(sec.Content.Items)
		case TypeFlowchart:
			if len(sec.Content.Steps) > MaxFlowchartSteps {
				sec.Content.Steps = sec.Content.Steps[:MaxFlowchartSteps]
			}
		case TypeTable:
			sec.Content.Rows = squareRows(sec.Content.Rows, len(sec.Content.Columns))
		case TypeTextBlock:
			sec.Content.Text = Truncate(sec.Content.Text, MaxTextBlockChars)
		}
		out.Sections[i] = sec
	}

	return out
}

// processBullets caps the item count and the length of each item.
func processBullets(items []BulletItem) []BulletItem {
	n := min(len(items), MaxBulletItems)
	out := make([]BulletItem, n)
	for i := range n {
		out[i] = BulletItem{
			Text:   Truncate(items[i].Text, MaxBulletChars),
			Indent: items[i].Indent,
		}
	}
	return out
}

// squareRows trims each row to the declared column count. With no declared
// columns the rows pass through unchanged; the composer treats that table
// as single-column.
func squareRows(rows [][]string, colCount int) [][]string {
	if colCount == 0 {
		return rows
	}
	out := make([][]string, len(rows))
	for i, row := range rows {
		if len(row) > colCount {
			row = row[:colCount]
		}
		out[i] = row
	}
	return out
}

package repository

import "strings"

// insertBatchSize bounds the number of rows per multi-row INSERT so a
// large load never builds one oversized statement.
const insertBatchSize = 500

// valuesPlaceholders renders "(?,?,...),(?,?,...)" for rows x cols bind
// parameters.
func valuesPlaceholders(rows, cols int) string {
	row := "(" + strings.TrimSuffix(strings.Repeat("?,", cols), ",") + ")"
	var b strings.Builder
	for i := 0; i < rows; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(row)
	}
	return b.String()
}

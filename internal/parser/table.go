package parser

import (
	"fmt"
	"strconv"

	"github.com/sheetchart/backend/internal/models"
)

// buildTable turns positional cells into a table. Leading and trailing empty rows are dropped,
// the first remaining row is the header, and interior empty rows are kept as all-null rows.
func buildTable(sheet string, grid [][]models.Cell) *models.Table {
	start := 0
	for start < len(grid) && rowEmpty(grid[start]) {
		start++
	}
	end := len(grid)
	for end > start && rowEmpty(grid[end-1]) {
		end--
	}
	if start == end {
		return models.NewTable(sheet, []string{}, nil)
	}

	header := grid[start]
	body := grid[start+1 : end]

	width := len(header)
	for _, row := range body {
		if n := lastFilled(row) + 1; n > width {
			width = n
		}
	}

	return models.NewTable(sheet, headerNames(header, width), body)
}

// headerNames labels every column: blanks become "Unnamed: <i>" and repeats get a ".<n>" suffix.
func headerNames(header []models.Cell, width int) []string {
	names := make([]string, width)
	seen := make(map[string]int, width)
	for i := 0; i < width; i++ {
		var name string
		if i < len(header) {
			name = header[i].Label()
		}
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		if n, dup := seen[name]; dup {
			base := name
			for {
				n++
				candidate := fmt.Sprintf("%s.%d", base, n)
				if _, taken := seen[candidate]; !taken {
					seen[base] = n
					name = candidate
					break
				}
			}
		}
		seen[name] = 0
		names[i] = name
	}
	return names
}

func rowEmpty(row []models.Cell) bool {
	return lastFilled(row) < 0
}

func lastFilled(row []models.Cell) int {
	for i := len(row) - 1; i >= 0; i-- {
		if !row[i].IsNull() {
			return i
		}
	}
	return -1
}

package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/aussiebroadwan/stockbook/pkg/stocksdk"
)

const barWidth = 30

var (
	accent = lipgloss.Color("#2E9E6B")

	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent)

	successStyle = lipgloss.NewStyle().
			Foreground(accent)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#828282"))

	borderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#555555"))

	headerCellStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	numberCellStyle = cellStyle.
			Align(lipgloss.Right)

	barStyle = lipgloss.NewStyle().
			Foreground(accent)
)

// newTable builds a bordered table. Columns listed in numeric are right
// aligned.
func newTable(headers []string, rows [][]string, numeric ...int) string {
	right := make(map[int]bool, len(numeric))
	for _, c := range numeric {
		right[c] = true
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerCellStyle
			case right[col]:
				return numberCellStyle
			default:
				return cellStyle
			}
		}).
		Headers(headers...).
		Rows(rows...)

	return t.String()
}

func renderStock(items []stocksdk.StockItem) string {
	if len(items) == 0 {
		return dimStyle.Render("No stock items yet.")
	}

	rows := make([][]string, len(items))
	for i, it := range items {
		rows[i] = []string{strconv.FormatInt(it.ID, 10), it.Name, formatQuantity(it.Quantity), it.Unit}
	}
	return newTable([]string{"ID", "Name", "Quantity", "Unit"}, rows, 0, 2)
}

func renderProducts(products []stocksdk.Product) string {
	if len(products) == 0 {
		return dimStyle.Render("No products yet.")
	}

	rows := make([][]string, len(products))
	for i, p := range products {
		rows[i] = []string{strconv.FormatInt(p.ID, 10), p.Name, p.Unit, formatRecipe(p.Ingredients)}
	}
	return newTable([]string{"ID", "Name", "Unit", "Ingredients"}, rows, 0)
}

func formatRecipe(ings []stocksdk.Ingredient) string {
	if len(ings) == 0 {
		return "-"
	}
	parts := make([]string, len(ings))
	for i, ing := range ings {
		name := ing.StockItemName
		if name == "" {
			name = "#" + strconv.FormatInt(ing.StockItem, 10)
		}
		parts[i] = name + " x" + formatQuantity(ing.QuantityRequired)
	}
	return strings.Join(parts, ", ")
}

func renderTransactions(txs []stocksdk.Transaction) string {
	if len(txs) == 0 {
		return dimStyle.Render("No transactions recorded.")
	}

	rows := make([][]string, len(txs))
	for i, tx := range txs {
		date := tx.FormattedDate
		if date == "" {
			date = tx.Date
		}
		name := tx.ProductName
		if name == "" {
			name = "#" + strconv.FormatInt(tx.Product, 10)
		}
		rows[i] = []string{strconv.FormatInt(tx.ID, 10), date, name, formatQuantity(tx.QuantitySold)}
	}
	return newTable([]string{"ID", "Date", "Product", "Sold"}, rows, 0, 3)
}

// renderWeeklySales draws one bar per week, scaled to the best week.
func renderWeeklySales(weeks []stocksdk.WeeklySales) string {
	if len(weeks) == 0 {
		return dimStyle.Render("No sales recorded.")
	}

	var peak float64
	labelWidth := 0
	labels := make([]string, len(weeks))
	for i, w := range weeks {
		peak = max(peak, w.TotalSales)
		labels[i] = strings.TrimSpace(w.WeekDay + " " + w.Date)
		labelWidth = max(labelWidth, lipgloss.Width(labels[i]))
	}

	var b strings.Builder
	for i, w := range weeks {
		n := 0
		if peak > 0 && w.TotalSales > 0 {
			n = max(1, int(w.TotalSales/peak*barWidth+0.5))
		}
		fmt.Fprintf(&b, "%-*s %s %s\n",
			labelWidth, labels[i],
			barStyle.Render(strings.Repeat("█", n)),
			formatQuantity(w.TotalSales),
		)
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderProfile(p *stocksdk.Profile) string {
	picture := p.ProfilePicture
	if picture == "" {
		picture = "-"
	}
	return renderKeyValues([][]string{
		{"Username", p.Username},
		{"Email", p.Email},
		{"Phone", p.PhoneNumber},
		{"Address", p.Address},
		{"Business", p.BusinessName},
		{"Picture", picture},
	})
}

func renderKeyValues(rows [][]string) string {
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		StyleFunc(func(_, col int) lipgloss.Style {
			if col == 0 {
				return headerCellStyle
			}
			return cellStyle
		}).
		Rows(rows...)
	return t.String()
}

func formatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

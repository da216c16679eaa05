package cart

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Prices are displayed with thousands grouping and no decimals; the template
// supplies the currency symbol, so the formatted string carries none.
var displayPrinter = message.NewPrinter(language.MustParse("es-PY"))

// LineView is the renderable projection of one cart line.
type LineView struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Price           int64  `json:"price"`
	Quantity        int    `json:"quantity"`
	Subtotal        int64  `json:"subtotal"`
	PriceDisplay    string `json:"price_display"`
	SubtotalDisplay string `json:"subtotal_display"`
}

// CartView is the aggregate state the cart panel renders from.
type CartView struct {
	Empty        bool       `json:"empty"`
	ItemCount    int        `json:"item_count"`
	Total        int64      `json:"total"`
	TotalDisplay string     `json:"total_display"`
	Lines        []LineView `json:"lines"`
}

// Render derives the view state from a cart. It is pure: calling it twice with
// the same cart yields the same view.
func Render(c Cart) *CartView {
	view := &CartView{
		Lines: make([]LineView, 0, len(c)),
	}

	for _, line := range c {
		subtotal := line.Price * int64(line.Quantity)
		view.ItemCount += line.Quantity
		view.Total += subtotal
		view.Lines = append(view.Lines, LineView{
			ID:              line.ID,
			Name:            line.Name,
			Price:           line.Price,
			Quantity:        line.Quantity,
			Subtotal:        subtotal,
			PriceDisplay:    FormatAmount(line.Price),
			SubtotalDisplay: FormatAmount(subtotal),
		})
	}

	view.Empty = len(view.Lines) == 0
	view.TotalDisplay = FormatAmount(view.Total)
	return view
}

// FormatAmount renders a whole currency amount with locale grouping.
func FormatAmount(amount int64) string {
	return displayPrinter.Sprintf("%d", amount)
}

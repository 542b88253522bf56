package storefront

import (
	"strconv"

	"github.com/aaravmahajanofficial/teagram/internal/models"
)

// formatPrice renders whole rubles with ru-RU digit grouping, e.g. "1 640 ₽"
// with a no-break space between digit groups.
func formatPrice(amount int64) string {

	digits := strconv.FormatInt(amount, 10)

	sign := ""
	if amount < 0 {
		sign, digits = "-", digits[1:]
	}

	var grouped []byte
	for i := range len(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped = append(grouped, "\u00a0"...)
		}
		grouped = append(grouped, digits[i])
	}

	return sign + string(grouped) + " ₽"
}

func minPrice(p models.Product) int64 {
	if len(p.Variants) == 0 {
		return 0
	}

	lowest := p.Variants[0].Price
	for _, v := range p.Variants[1:] {
		lowest = min(lowest, v.Price)
	}

	return lowest
}

package storefront

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aaravmahajanofficial/teagram/internal/cart"
	"github.com/aaravmahajanofficial/teagram/internal/checkout"
	"github.com/aaravmahajanofficial/teagram/internal/models"
	"github.com/aaravmahajanofficial/teagram/internal/navigation"
	"github.com/aaravmahajanofficial/teagram/internal/theme"
)

const allCategoriesLabel = "Все"

// Render draws the current page as plain text.
func (a *App) Render() string {

	var b strings.Builder

	a.renderHeader(&b)

	if a.router.Renderable() {
		switch a.router.Current() {
		case navigation.PageCatalog:
			a.renderCatalog(&b)
		case navigation.PageProduct:
			a.renderProduct(&b)
		case navigation.PageCart:
			a.renderCart(&b)
		case navigation.PageCheckout:
			a.renderCheckout(&b)
		case navigation.PageConfirmation:
			a.renderConfirmation(&b)
		}
	}

	if notice := a.takeNotice(); notice != "" {
		b.WriteString("\n")
		b.WriteString(notice)
		b.WriteString("\n")
	}

	return b.String()
}

func (a *App) renderHeader(b *strings.Builder) {
	icon := "☀️"
	if a.theme.Get() == theme.Dark {
		icon = "🌙"
	}

	back := ""
	if a.router.ShowBackButton() {
		back = "← "
	}

	fmt.Fprintf(b, "%s%s %s\n\n", back, a.router.Title(), icon)
}

func (a *App) renderCatalog(b *strings.Builder) {

	active := a.pager.Category()

	a.mu.Lock()
	options := append([]models.CategoryOption{{ID: models.CategoryAll, Label: allCategoriesLabel}}, a.categories...)
	a.mu.Unlock()

	chips := make([]string, 0, len(options))
	for _, c := range options {
		label := a.text(c.Label)
		if c.ID == active {
			label = "[" + label + "]"
		}
		chips = append(chips, label)
	}
	fmt.Fprintf(b, "%s\n", strings.Join(chips, " "))

	if search := a.pager.Search(); search != "" {
		fmt.Fprintf(b, "Поиск: %q\n", search)
	}
	b.WriteString("\n")

	items := a.pager.Items()
	for i, p := range items {
		fmt.Fprintf(b, "%d. %s — от %s (%s)\n", i+1, a.text(p.Name), formatPrice(minPrice(p)), p.ID)
	}

	switch {
	case a.pager.Loading():
		b.WriteString("Загрузка…\n")
	case a.pager.Err() != nil:
		b.WriteString("Не удалось загрузить товары. Введите more, чтобы повторить\n")
	case len(items) == 0:
		b.WriteString("Ничего не найдено\n")
	case a.pager.HasMore():
		fmt.Fprintf(b, "\nПоказано %d из %d · more — загрузить ещё\n", len(items), a.pager.Total())
	}

	a.renderCartBadge(b)
}

func (a *App) renderCartBadge(b *strings.Builder) {
	if a.cart.IsEmpty() {
		return
	}

	fmt.Fprintf(b, "\n🛒 %d шт. · %s\n", a.cart.TotalCount(), formatPrice(a.cart.TotalPrice()))
}

func (a *App) renderProduct(b *strings.Builder) {

	product := a.openProduct()
	if product == nil {
		b.WriteString("Товар не найден\n")
		return
	}

	fmt.Fprintf(b, "%s\n", a.text(product.Name))
	fmt.Fprintf(b, "%s\n", a.text(product.Description))

	if len(product.Tags) > 0 {
		tags := make([]string, 0, len(product.Tags))
		for _, tag := range product.Tags {
			tags = append(tags, "#"+a.text(tag))
		}
		fmt.Fprintf(b, "%s\n", strings.Join(tags, " "))
	}

	b.WriteString("\nВыбор упаковки\n")

	var total int64
	for _, v := range product.Variants {
		quantity := a.cart.ItemQuantity(product.ID, v.ID)
		total += v.Price * int64(quantity)

		inCart := "add " + v.ID
		if quantity > 0 {
			inCart = "в корзине: " + strconv.Itoa(quantity)
		}
		fmt.Fprintf(b, "  %-8s %10s   %s\n", a.text(v.Weight), formatPrice(v.Price), inCart)
	}

	fmt.Fprintf(b, "\nСумма по товару: %s\n", formatPrice(total))
	a.renderCartStatus(b)
}

func (a *App) renderCartStatus(b *strings.Builder) {
	if a.cart.IsUpdating() {
		b.WriteString("Обновление корзины…\n")
	}
	if msg := a.cart.Error(); msg != "" {
		fmt.Fprintf(b, "⚠️ %s\n", msg)
	}
}

func (a *App) renderCart(b *strings.Builder) {

	if a.cart.Status() == cart.StatusLoading {
		b.WriteString("Загрузка…\n")
		return
	}

	if a.cart.IsEmpty() {
		b.WriteString("Корзина пуста\n")
		a.renderCartStatus(b)
		return
	}

	for _, line := range a.cart.Lines() {
		fmt.Fprintf(b, "%s, %s\n", a.text(line.Product.Name), a.text(line.Variant.Weight))
		fmt.Fprintf(b, "  %s × %d = %s   (%s %s)\n",
			formatPrice(line.Variant.Price), line.Quantity, formatPrice(line.Total), line.Product.ID, line.Variant.ID)
	}

	fmt.Fprintf(b, "\nТоваров: %d\n", a.cart.TotalCount())
	fmt.Fprintf(b, "Сумма: %s\n", formatPrice(a.cart.TotalPrice()))
	b.WriteString("Доставка рассчитывается позже\n")
	a.renderCartStatus(b)
}

func (a *App) renderCheckout(b *strings.Builder) {

	if a.cart.IsEmpty() {
		b.WriteString("Корзина пуста\n")
		return
	}

	form := a.checkout.Form()
	errs := a.checkout.Errors()

	field := func(label string, value string, f checkout.Field) {
		fmt.Fprintf(b, "%s: %s\n", label, value)
		if msg, ok := errs[f]; ok {
			fmt.Fprintf(b, "  ⚠️ %s\n", msg)
		}
	}

	b.WriteString("Контактные данные\n")
	field("Имя*", form.Name, checkout.FieldName)
	field("Телефон*", form.Phone, checkout.FieldPhone)

	methods := models.DeliveryMethods()
	chips := make([]string, 0, len(methods))
	for _, m := range methods {
		label := m.Label()
		if m == form.Delivery {
			label = "[" + label + "]"
		}
		chips = append(chips, label)
	}

	b.WriteString("\nДоставка\n")
	field("Способ", strings.Join(chips, " "), checkout.FieldDelivery)

	addressLabel := "Адрес доставки"
	if !form.Delivery.RequiresAddress() {
		addressLabel = "Адрес самовывоза"
	}
	field(addressLabel, form.Address, checkout.FieldAddress)
	field("Комментарий", form.Comment, checkout.FieldComment)

	b.WriteString("\nОплата при получении\n")
	fmt.Fprintf(b, "\nПозиций: %d\n", a.cart.TotalCount())
	fmt.Fprintf(b, "Сумма заказа: %s\n", formatPrice(a.cart.TotalPrice()))

	if msg := a.checkout.SubmitError(); msg != "" {
		fmt.Fprintf(b, "\n⚠️ %s\n", msg)
	}
	if a.checkout.Submitting() {
		b.WriteString("Отправка...\n")
	}
}

func (a *App) renderConfirmation(b *strings.Builder) {

	summary, ok := a.router.OrderSummary()
	if !ok {
		return
	}

	b.WriteString("✅ Заказ оформлен\n")
	b.WriteString("Спасибо, ваш заказ принят в обработку.\n\n")
	fmt.Fprintf(b, "Номер заказа: %s\n", a.text(summary.OrderID))
	fmt.Fprintf(b, "Имя: %s\n", a.text(summary.CustomerName))
	fmt.Fprintf(b, "Доставка: %s\n", a.text(summary.DeliveryMethod))
	fmt.Fprintf(b, "Сумма: %s\n", formatPrice(summary.Total))
}

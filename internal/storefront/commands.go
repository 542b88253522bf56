package storefront

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/aaravmahajanofficial/teagram/internal/checkout"
	"github.com/aaravmahajanofficial/teagram/internal/models"
	"github.com/aaravmahajanofficial/teagram/internal/navigation"
)

var (
	ErrUnknownCommand = errors.New("неизвестная команда, введите help")
	ErrUsage          = errors.New("неверные аргументы")
	ErrWrongPage      = errors.New("команда недоступна на этой странице")
)

type command struct {
	usage string
	help  string
	run   func(ctx context.Context, args []string) error
}

func (a *App) commands() map[string]command {
	return map[string]command{
		"help":       {"help", "список команд", a.cmdHelp},
		"catalog":    {"catalog", "перейти в каталог", a.cmdCatalog},
		"categories": {"categories", "обновить список категорий", a.cmdCategories},
		"category":   {"category <id>", "выбрать категорию (all — все)", a.cmdCategory},
		"search":     {"search [текст]", "искать в текущей категории", a.cmdSearch},
		"more":       {"more", "загрузить ещё товары", a.cmdMore},
		"open":       {"open <id|номер>", "открыть товар", a.cmdOpen},
		"add":        {"add [товар] <упаковка>", "добавить в корзину", a.cmdAdd},
		"qty":        {"qty [товар] <упаковка> <n>", "изменить количество (0 — удалить)", a.cmdQty},
		"rm":         {"rm <товар> <упаковка>", "удалить позицию", a.cmdRemove},
		"clear":      {"clear", "очистить корзину", a.cmdClear},
		"cart":       {"cart", "открыть корзину", a.cmdCart},
		"reload":     {"reload", "перезагрузить корзину", a.cmdReload},
		"checkout":   {"checkout", "оформить заказ", a.cmdCheckout},
		"set":        {"set <name|phone|delivery|address|comment> <значение>", "заполнить поле заказа", a.cmdSet},
		"submit":     {"submit", "подтвердить заказ", a.cmdSubmit},
		"back":       {"back", "назад", a.cmdBack},
		"theme":      {"theme", "переключить тему", a.cmdTheme},
		"login":      {"login <refresh-token>", "войти по refresh-токену", a.cmdLogin},
		"logout":     {"logout", "выйти", a.cmdLogout},
	}
}

// Execute runs one command line and returns the rendered current page. The
// page is rendered even when the command fails.
func (a *App) Execute(ctx context.Context, line string) (string, error) {

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return a.Render(), nil
	}

	name, args := strings.ToLower(fields[0]), fields[1:]

	cmd, ok := a.commands()[name]
	if !ok {
		return a.Render(), fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}

	if err := cmd.run(ctx, args); err != nil {
		a.logger.Debug("Command failed", slog.String("command", name), slog.String("error", err.Error()))
		return a.Render(), err
	}

	return a.Render(), nil
}

func usage(cmd string) error {
	return fmt.Errorf("%w, ожидается: %s", ErrUsage, cmd)
}

func (a *App) cmdHelp(_ context.Context, _ []string) error {

	cmds := a.commands()
	order := []string{
		"catalog", "categories", "category", "search", "more", "open",
		"add", "qty", "rm", "clear", "cart", "reload",
		"checkout", "set", "submit", "back", "theme", "login", "logout", "help",
	}

	var b strings.Builder
	b.WriteString("Команды:\n")
	for _, name := range order {
		fmt.Fprintf(&b, "  %-55s %s\n", cmds[name].usage, cmds[name].help)
	}

	a.setNotice(strings.TrimRight(b.String(), "\n"))

	return nil
}

func (a *App) cmdCatalog(_ context.Context, _ []string) error {
	a.router.SetPage(navigation.PageCatalog)

	return nil
}

func (a *App) cmdCategories(ctx context.Context, _ []string) error {
	a.router.SetPage(navigation.PageCatalog)
	a.loadCategories(ctx)

	return nil
}

func (a *App) cmdCategory(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("category <id>")
	}

	category := models.ProductCategory(strings.ToLower(args[0]))
	if category != models.CategoryAll && !a.knownCategory(category) {
		return fmt.Errorf("%w: неизвестная категория %s", ErrUsage, args[0])
	}

	a.router.SetPage(navigation.PageCatalog)

	scoped, cancel := a.scope(ctx)
	defer cancel()

	_, err := a.pager.Reset(scoped, category, a.pager.Search())

	return err
}

func (a *App) knownCategory(category models.ProductCategory) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, c := range a.categories {
		if c.ID == category {
			return true
		}
	}

	return category.Valid()
}

func (a *App) cmdSearch(ctx context.Context, args []string) error {
	a.router.SetPage(navigation.PageCatalog)

	scoped, cancel := a.scope(ctx)
	defer cancel()

	_, err := a.pager.Reset(scoped, a.pager.Category(), strings.Join(args, " "))

	return err
}

func (a *App) cmdMore(ctx context.Context, _ []string) error {
	if a.router.Current() != navigation.PageCatalog {
		return ErrWrongPage
	}

	if !a.pager.HasMore() && a.pager.Err() == nil {
		a.setNotice("Больше товаров нет")
		return nil
	}

	scoped, cancel := a.scope(ctx)
	defer cancel()

	_, err := a.pager.LoadMore(scoped)

	return err
}

// cmdOpen accepts a product id or a 1-based position in the catalog list.
func (a *App) cmdOpen(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("open <id|номер>")
	}

	id := args[0]
	if n, err := strconv.Atoi(id); err == nil {
		items := a.pager.Items()
		if n < 1 || n > len(items) {
			return fmt.Errorf("%w: нет товара с номером %d", ErrUsage, n)
		}
		id = items[n-1].ID
	}

	scoped, cancel := a.scope(ctx)
	defer cancel()

	product, err := a.catalog.GetProduct(scoped, id)
	if err != nil {
		return err
	}

	a.router.SelectProduct(product.ID)

	a.mu.Lock()
	a.product = product
	a.mu.Unlock()

	return nil
}

// lineArgs resolves "[product] <variant> ..." against the open product page.
func (a *App) lineArgs(args []string, extra int) (productID, variantID string, rest []string, ok bool) {

	switch len(args) {
	case 1 + extra:
		product := a.openProduct()
		if product == nil {
			return "", "", nil, false
		}
		return product.ID, args[0], args[1:], true
	case 2 + extra:
		return args[0], args[1], args[2:], true
	default:
		return "", "", nil, false
	}
}

func (a *App) openProduct() *models.Product {
	a.mu.Lock()
	defer a.mu.Unlock()

	id, selected := a.router.SelectedProduct()
	if !selected || a.product == nil || a.product.ID != id || a.router.Current() != navigation.PageProduct {
		return nil
	}

	return a.product
}

func (a *App) cmdAdd(ctx context.Context, args []string) error {
	productID, variantID, _, ok := a.lineArgs(args, 0)
	if !ok {
		return usage("add [товар] <упаковка>")
	}

	scoped, cancel := a.scope(ctx)
	defer cancel()

	return a.cart.AddItem(scoped, productID, variantID, 1)
}

func (a *App) cmdQty(ctx context.Context, args []string) error {
	productID, variantID, rest, ok := a.lineArgs(args, 1)
	if !ok {
		return usage("qty [товар] <упаковка> <n>")
	}

	quantity, err := strconv.Atoi(rest[0])
	if err != nil {
		return usage("qty [товар] <упаковка> <n>")
	}

	scoped, cancel := a.scope(ctx)
	defer cancel()

	return a.cart.UpdateItem(scoped, productID, variantID, quantity)
}

func (a *App) cmdRemove(ctx context.Context, args []string) error {
	productID, variantID, _, ok := a.lineArgs(args, 0)
	if !ok {
		return usage("rm <товар> <упаковка>")
	}

	scoped, cancel := a.scope(ctx)
	defer cancel()

	return a.cart.RemoveItem(scoped, productID, variantID)
}

func (a *App) cmdClear(ctx context.Context, _ []string) error {
	scoped, cancel := a.scope(ctx)
	defer cancel()

	return a.cart.Clear(scoped)
}

func (a *App) cmdCart(_ context.Context, _ []string) error {
	a.router.SetPage(navigation.PageCart)

	return nil
}

func (a *App) cmdReload(ctx context.Context, _ []string) error {
	scoped, cancel := a.scope(ctx)
	defer cancel()

	return a.cart.Load(scoped)
}

func (a *App) cmdCheckout(_ context.Context, _ []string) error {
	a.router.SetPage(navigation.PageCheckout)

	return nil
}

func (a *App) cmdSet(_ context.Context, args []string) error {
	if a.router.Current() != navigation.PageCheckout {
		return ErrWrongPage
	}
	if len(args) < 1 {
		return usage("set <поле> <значение>")
	}

	return a.checkout.Set(checkout.Field(strings.ToLower(args[0])), strings.Join(args[1:], " "))
}

func (a *App) cmdSubmit(ctx context.Context, _ []string) error {
	if a.router.Current() != navigation.PageCheckout {
		return ErrWrongPage
	}

	scoped, cancel := a.scope(ctx)
	defer cancel()

	summary, err := a.checkout.Submit(scoped)
	if err != nil {
		return err
	}

	a.router.CompleteOrder(*summary)

	return nil
}

func (a *App) cmdBack(_ context.Context, _ []string) error {
	a.router.Back()

	return nil
}

func (a *App) cmdTheme(ctx context.Context, _ []string) error {
	next, err := a.theme.Toggle(ctx)
	if err != nil {
		return err
	}

	a.logger.Info("Theme changed", slog.String("theme", string(next)))

	return nil
}

func (a *App) cmdLogin(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("login <refresh-token>")
	}

	if _, err := a.auth.Login(ctx, args[0]); err != nil {
		return err
	}

	a.setNotice("Вход выполнен")

	return a.cart.Load(ctx)
}

func (a *App) cmdLogout(ctx context.Context, _ []string) error {
	if err := a.auth.Logout(ctx); err != nil {
		return err
	}

	a.setNotice("Вы вышли")

	return nil
}

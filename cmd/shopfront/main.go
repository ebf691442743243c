package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/rmontanez/shopfront/internal/app"
	"github.com/rmontanez/shopfront/internal/forms"
	"github.com/rmontanez/shopfront/internal/gateway"
	"github.com/rmontanez/shopfront/internal/session"
	"github.com/rmontanez/shopfront/pkg/config"
	"github.com/rmontanez/shopfront/pkg/enums"
	pkgerrors "github.com/rmontanez/shopfront/pkg/errors"
	"github.com/rmontanez/shopfront/pkg/logger"
	"github.com/rmontanez/shopfront/pkg/types"
)

const usage = `shopfront <command> [flags]

Browsing
  browse                      list the catalog
  product <slug>              show one product

Cart
  add <slug>                  add a product to the cart
  remove <id>                 remove a line item
  qty <id> <n>                set a line item quantity
  cart                        show the cart with prices
  shipping [flags]            capture the shipping address
  payment <method>            select the payment method

Checkout
  placeorder                  submit the cart as an order
  order <id>                  show one order
  orders                      list your orders
  pay <id>                    mark an order paid

Account
  signin [flags]              sign in
  signup [flags]              register
  signout                     sign out (local only)

Admin
  users                       list accounts
  useradd [flags]             create an account
  userdel <id>                delete an account
  productadd [flags]          add a catalog entry
  productdel <id>             delete a catalog entry
`

func main() {
	logg := logger.New(logger.Options{ServiceName: "shopfront"})
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		logg.Debug(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "shopfront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	a, err := app.New(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to assemble state layer", err)
		os.Exit(1)
	}
	defer func() {
		if err := a.Close(); err != nil {
			logg.Error(ctx, "error closing store", err)
		}
	}()

	if err := dispatch(ctx, a, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", pkgerrors.UserMessage(err))
		if typed := pkgerrors.As(err); typed != nil && typed.Details() != nil {
			fmt.Fprintf(os.Stderr, "  %v\n", typed.Details())
		}
		os.Exit(1)
	}
}

func dispatch(ctx context.Context, a *app.App, command string, args []string) error {
	switch command {
	case "browse":
		return cmdBrowse(ctx, a)
	case "product":
		return cmdProduct(ctx, a, args)
	case "add":
		return cmdAdd(ctx, a, args)
	case "remove":
		return cmdRemove(ctx, a, args)
	case "qty":
		return cmdQuantity(ctx, a, args)
	case "cart":
		return cmdCart(a)
	case "shipping":
		return cmdShipping(ctx, a, args)
	case "payment":
		return cmdPayment(ctx, a, args)
	case "placeorder":
		return cmdPlaceOrder(ctx, a)
	case "order":
		return cmdOrder(ctx, a, args)
	case "orders":
		return cmdOrders(ctx, a)
	case "pay":
		return cmdPay(ctx, a, args)
	case "signin":
		return cmdSignIn(ctx, a, args)
	case "signup":
		return cmdSignUp(ctx, a, args)
	case "signout":
		a.Session.SignOut(ctx)
		fmt.Println("signed out")
		return nil
	case "users":
		return cmdUsers(ctx, a)
	case "useradd":
		return cmdUserAdd(ctx, a, args)
	case "userdel":
		return cmdUserDelete(ctx, a, args)
	case "productadd":
		return cmdProductAdd(ctx, a, args)
	case "productdel":
		return cmdProductDelete(ctx, a, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

// requireRole enforces the route guard the way the screens did: a missing or
// mismatched session yields the redirect path instead of the page.
func requireRole(a *app.App, required enums.Role) error {
	var current *types.User
	if user, ok := a.Session.Current(); ok {
		current = &user
	}
	if redirect, allowed := session.Guard(current, &required); !allowed {
		return pkgerrors.New(pkgerrors.CodeForbidden,
			fmt.Sprintf("not allowed here, go to %s", redirect))
	}
	return nil
}

func cmdBrowse(ctx context.Context, a *app.App) error {
	products, err := a.Catalog.FetchProducts(ctx)
	if err != nil {
		return err
	}
	for _, p := range products {
		fmt.Printf("%-14s %-24s $%s  (%d in stock)\n", p.Slug, p.Name, p.Price, p.CountInStock)
	}
	return nil
}

func cmdProduct(ctx context.Context, a *app.App, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: shopfront product <slug>")
	}
	p, err := a.Catalog.FetchDetail(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("%s\n%s by %s — $%s\n%s\nrating %.1f (%d reviews), %d in stock\n",
		p.Name, p.Category, p.Brand, p.Price, p.Description, p.Rating, p.NumReviews, p.CountInStock)
	return nil
}

func cmdAdd(ctx context.Context, a *app.App, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: shopfront add <slug>")
	}
	p, err := a.Catalog.FetchDetail(ctx, args[0])
	if err != nil {
		return err
	}

	// The machine never checks stock; the caller refuses before dispatching.
	held := 0
	for _, item := range a.Cart.Snapshot().Items {
		if item.ID == p.ID {
			held = item.Quantity
			break
		}
	}
	if held+1 > p.CountInStock {
		return pkgerrors.New(pkgerrors.CodeValidation, "sorry, product is out of stock")
	}

	a.Cart.AddItem(ctx, types.CartItemFromProduct(p))
	return cmdCart(a)
}

func cmdRemove(ctx context.Context, a *app.App, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: shopfront remove <id>")
	}
	a.Cart.RemoveItem(ctx, args[0])
	return cmdCart(a)
}

func cmdQuantity(ctx context.Context, a *app.App, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: shopfront qty <id> <n>")
	}
	quantity, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("quantity must be a number: %w", err)
	}

	for _, item := range a.Cart.Snapshot().Items {
		if item.ID == args[0] && quantity > item.CountInStock {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("only %d in stock", item.CountInStock))
		}
	}

	a.Cart.SetQuantity(ctx, args[0], quantity)
	return cmdCart(a)
}

func cmdCart(a *app.App) error {
	a.Cart.RecalculatePrices()
	snap := a.Cart.Snapshot()

	if len(snap.Items) == 0 {
		fmt.Println("cart is empty")
		return nil
	}
	for _, item := range snap.Items {
		fmt.Printf("%-24s %-14s x%-3d $%s\n", item.ID, item.Name, item.Quantity, item.Price)
	}
	fmt.Printf("items    $%s\nshipping $%s\ntax      $%s\ntotal    $%s\n",
		snap.ItemsPrice, snap.ShippingPrice, snap.TaxPrice, snap.TotalPrice)
	if !snap.ShippingAddress.IsZero() {
		fmt.Printf("ship to  %s, %s, %s %s, %s\n",
			snap.ShippingAddress.FullName, snap.ShippingAddress.Address,
			snap.ShippingAddress.City, snap.ShippingAddress.PostalCode,
			snap.ShippingAddress.Country)
	}
	fmt.Printf("payment  %s\n", snap.PaymentMethod)
	return nil
}

func cmdShipping(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("shipping", flag.ContinueOnError)
	form := forms.ShippingForm{}
	fs.StringVar(&form.FullName, "name", "", "full name")
	fs.StringVar(&form.Address, "address", "", "street address")
	fs.StringVar(&form.City, "city", "", "city")
	fs.StringVar(&form.PostalCode, "postal", "", "postal code")
	fs.StringVar(&form.Country, "country", "", "country")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := forms.Validate(form); err != nil {
		return err
	}

	a.Cart.SetShippingAddress(ctx, types.ShippingAddress{
		FullName:   form.FullName,
		Address:    form.Address,
		City:       form.City,
		PostalCode: form.PostalCode,
		Country:    form.Country,
	})
	fmt.Println("shipping address saved")
	return nil
}

func cmdPayment(ctx context.Context, a *app.App, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: shopfront payment <method>")
	}
	method, err := enums.ParsePaymentMethod(args[0])
	if err != nil {
		return err
	}
	a.Cart.SetPaymentMethod(ctx, method)
	fmt.Println("payment method saved")
	return nil
}

func cmdPlaceOrder(ctx context.Context, a *app.App) error {
	a.Cart.RecalculatePrices()
	snap := a.Cart.Snapshot()

	if len(snap.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	if snap.ShippingAddress.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "shipping address is required")
	}

	order, err := a.Orders.Submit(ctx, types.Order{
		OrderItems:      snap.Items,
		ShippingAddress: snap.ShippingAddress,
		PaymentMethod:   snap.PaymentMethod,
		ItemsPrice:      snap.ItemsPrice,
		ShippingPrice:   snap.ShippingPrice,
		TaxPrice:        snap.TaxPrice,
		TotalPrice:      snap.TotalPrice,
	})
	if err != nil {
		return err
	}

	a.Cart.Reset(ctx)
	fmt.Printf("order %s placed, total $%s\n", order.ID, order.TotalPrice)
	return nil
}

func cmdOrder(ctx context.Context, a *app.App, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: shopfront order <id>")
	}
	order, err := a.Orders.Fetch(ctx, args[0])
	if err != nil {
		return err
	}
	printOrder(order)
	return nil
}

func cmdOrders(ctx context.Context, a *app.App) error {
	orders, err := a.Orders.FetchAll(ctx)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		fmt.Println("no orders")
		return nil
	}
	for _, order := range orders {
		printOrder(order)
	}
	return nil
}

func cmdPay(ctx context.Context, a *app.App, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: shopfront pay <id>")
	}
	if _, err := a.Payment.FetchClientID(ctx); err != nil {
		return err
	}
	order, err := a.Payment.Pay(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("order %s paid\n", order.ID)
	return nil
}

func printOrder(order types.Order) {
	status := "pending"
	if order.IsPaid {
		status = "paid"
	}
	if order.IsDelivered {
		status = "delivered"
	}
	fmt.Printf("%s  %d item(s)  $%s  %s\n", order.ID, len(order.OrderItems), order.TotalPrice, status)
}

func cmdSignIn(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("signin", flag.ContinueOnError)
	form := forms.SignInForm{}
	fs.StringVar(&form.Email, "email", "", "account email")
	fs.StringVar(&form.Password, "password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := forms.Validate(form); err != nil {
		return err
	}

	user, err := a.Session.SignIn(ctx, form.Email, form.Password)
	if err != nil {
		return err
	}
	fmt.Printf("signed in as %s (%s)\n", user.Name, user.Role)
	return nil
}

func cmdSignUp(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ContinueOnError)
	form := forms.SignUpForm{}
	fs.StringVar(&form.Name, "name", "", "display name")
	fs.StringVar(&form.Email, "email", "", "account email")
	fs.StringVar(&form.Password, "password", "", "account password")
	fs.StringVar(&form.ConfirmPassword, "confirm", "", "password confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := forms.Validate(form); err != nil {
		return err
	}

	user, err := a.Session.SignUp(ctx, form.Name, form.Email, form.Password)
	if err != nil {
		return err
	}
	fmt.Printf("welcome, %s\n", user.Name)
	return nil
}

func cmdUsers(ctx context.Context, a *app.App) error {
	if err := requireRole(a, enums.RoleAdmin); err != nil {
		return err
	}
	users, err := a.Session.FetchUsers(ctx)
	if err != nil {
		return err
	}
	for _, user := range users {
		fmt.Printf("%-36s %-20s %-28s %s\n", user.ID, user.Name, user.Email, user.Role)
	}
	return nil
}

func cmdUserAdd(ctx context.Context, a *app.App, args []string) error {
	if err := requireRole(a, enums.RoleAdmin); err != nil {
		return err
	}

	fs := flag.NewFlagSet("useradd", flag.ContinueOnError)
	form := forms.AddUserForm{}
	fs.StringVar(&form.Name, "name", "", "display name")
	fs.StringVar(&form.Email, "email", "", "account email")
	fs.StringVar(&form.Password, "password", "", "account password")
	fs.StringVar(&form.Role, "role", "user", "account role")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := forms.ValidateAddUser(form); err != nil {
		return err
	}

	user, err := a.Session.AddUser(ctx, gateway.CreateUserInput{
		Name:     form.Name,
		Email:    form.Email,
		Password: form.Password,
		Role:     form.Role,
	})
	if err != nil {
		return err
	}
	fmt.Printf("created %s (%s)\n", user.Email, user.Role)
	return nil
}

func cmdUserDelete(ctx context.Context, a *app.App, args []string) error {
	if err := requireRole(a, enums.RoleAdmin); err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("usage: shopfront userdel <id>")
	}
	if err := a.Session.DeleteUser(ctx, args[0]); err != nil {
		return err
	}
	fmt.Println("user deleted")
	return nil
}

func cmdProductAdd(ctx context.Context, a *app.App, args []string) error {
	if err := requireRole(a, enums.RoleAdmin); err != nil {
		return err
	}

	fs := flag.NewFlagSet("productadd", flag.ContinueOnError)
	form := forms.AddProductForm{}
	fs.StringVar(&form.Name, "name", "", "product name")
	fs.StringVar(&form.Slug, "slug", "", "url slug")
	fs.Float64Var(&form.Price, "price", 0, "unit price")
	fs.StringVar(&form.Image, "image", "", "image path")
	fs.StringVar(&form.Category, "category", "", "category")
	fs.StringVar(&form.Brand, "brand", "", "brand")
	fs.IntVar(&form.CountInStock, "stock", 0, "count in stock")
	fs.StringVar(&form.Description, "description", "", "description")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := forms.Validate(form); err != nil {
		return err
	}

	created, err := a.Catalog.AddProduct(ctx, types.Product{
		Name:         form.Name,
		Slug:         form.Slug,
		Price:        decimal.NewFromFloat(form.Price),
		Image:        form.Image,
		Category:     form.Category,
		Brand:        form.Brand,
		CountInStock: form.CountInStock,
		Description:  form.Description,
	})
	if err != nil {
		return err
	}
	fmt.Printf("created %s (%s)\n", created.Name, created.ID)
	return nil
}

func cmdProductDelete(ctx context.Context, a *app.App, args []string) error {
	if err := requireRole(a, enums.RoleAdmin); err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("usage: shopfront productdel <id>")
	}
	if err := a.Catalog.DeleteProduct(ctx, args[0]); err != nil {
		return err
	}
	fmt.Println("product deleted")
	return nil
}

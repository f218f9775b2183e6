package echoServer

import (
	"net/http"

	"bookshop/app/echoServer/controller/auth"
	"bookshop/app/echoServer/controller/book"
	"bookshop/app/echoServer/controller/borrower"
	"bookshop/app/echoServer/controller/cart"
	"bookshop/app/echoServer/controller/checkout"
	"bookshop/app/echoServer/controller/coupon"
	"bookshop/app/echoServer/controller/lending"
	"bookshop/app/echoServer/controller/transaction"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

type C struct {
	Auth        *auth.Controller
	Book        *book.Controller
	Borrower    *borrower.Controller
	Cart        *cart.Controller
	Checkout    *checkout.Controller
	Coupon      *coupon.Controller
	Lending     *lending.Controller
	Transaction *transaction.Controller
	JWTSecret   string
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/v1")
	pub.POST("/auth/login", c.Auth.Login)

	// Staff (pincode-authenticated)
	api := e.Group("/v1")
	api.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(c.JWTSecret),

		NewClaimsFunc: func(c echo.Context) jwt.Claims { return jwt.MapClaims{} },
		TokenLookup:   "header:Authorization",
	}))
	api.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			tok, ok := ctx.Get("user").(*jwt.Token)
			if !ok || tok == nil {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			sub, ok := claims["sub"].(float64)
			if !ok {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			ctx.Set("user_id", int64(sub))
			if role, ok := claims["role"].(string); ok {
				ctx.Set("role", role)
			}
			return next(ctx)
		}
	})

	// Books
	api.GET("/books", c.Book.List)
	api.GET("/books/export", c.Book.Export)
	api.GET("/books/:id", c.Book.Detail)
	// Admin endpoints
	api.POST("/books", c.Book.Create)
	api.PUT("/books/:id", c.Book.Update)
	api.DELETE("/books/:id", c.Book.Delete)

	// Borrowers
	api.POST("/borrowers", c.Borrower.Register)
	api.GET("/borrowers", c.Borrower.List)

	// Cart (per staff session)
	api.GET("/cart", c.Cart.Show)
	api.POST("/cart/items", c.Cart.AddItem)
	api.POST("/cart/items/increment", c.Cart.Increment)
	api.POST("/cart/items/decrement", c.Cart.Decrement)
	api.POST("/cart/items/remove", c.Cart.Remove)
	api.DELETE("/cart", c.Cart.Clear)

	// Checkout
	api.POST("/checkout", c.Checkout.Checkout)

	// Coupons
	api.GET("/coupons", c.Coupon.List)
	api.POST("/coupons/validate", c.Coupon.Validate)
	api.POST("/coupons", c.Coupon.Create)
	api.PATCH("/coupons/:id/active", c.Coupon.SetActive)
	api.DELETE("/coupons/:id", c.Coupon.Delete)

	// Lending
	api.POST("/lendings", c.Lending.Borrow)
	api.POST("/lendings/:id/return", c.Lending.Return)
	api.GET("/lendings", c.Lending.History)
	api.DELETE("/lendings/:id", c.Lending.Delete)

	// Transactions
	api.GET("/transactions", c.Transaction.List)
}

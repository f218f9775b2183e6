// Package main bookshop API.
//
// @title           Bookshop POS API
// @version         1.0
// @description     Point-of-sale and lending service for a small bookshop (catalog, cart, checkout, coupons, lending).
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"bookshop/app/echoServer"
	authctrl "bookshop/app/echoServer/controller/auth"
	bookctrl "bookshop/app/echoServer/controller/book"
	borrowerctrl "bookshop/app/echoServer/controller/borrower"
	cartctrl "bookshop/app/echoServer/controller/cart"
	checkoutctrl "bookshop/app/echoServer/controller/checkout"
	couponctrl "bookshop/app/echoServer/controller/coupon"
	lendingctrl "bookshop/app/echoServer/controller/lending"
	txnctrl "bookshop/app/echoServer/controller/transaction"
	"bookshop/app/echoServer/validation"
	"bookshop/config"
	blobrepo "bookshop/repository/blob"
	bookrepo "bookshop/repository/book"
	borrowerrepo "bookshop/repository/borrower"
	checkoutrepo "bookshop/repository/checkout"
	couponrepo "bookshop/repository/coupon"
	lendingrepo "bookshop/repository/lending"
	staffrepo "bookshop/repository/staff"
	txnrepo "bookshop/repository/transaction"
	authsvc "bookshop/service/auth"
	borrowersvc "bookshop/service/borrower"
	cartsvc "bookshop/service/cart"
	catalogsvc "bookshop/service/catalog"
	checkoutsvc "bookshop/service/checkout"
	couponsvc "bookshop/service/coupon"
	lendingsvc "bookshop/service/lending"
	txnsvc "bookshop/service/transaction"
	"bookshop/util/clock"
	"bookshop/util/database"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// DB: *sql.DB
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(cfg.DatabaseURL, cfg.MigratePath); err != nil {
		log.Error("migrate failed", "err", err)
		os.Exit(1)
	}

	// repos
	br := bookrepo.New(db)
	bor := borrowerrepo.New(db)
	lr := lendingrepo.New(db)
	chr := checkoutrepo.New(db)
	cpr := couponrepo.New(db)
	tr := txnrepo.New(db)
	sr := staffrepo.New(db)
	blr := blobrepo.NewHTTP(cfg.StorageURL, cfg.StorageKey)

	// services
	clk := clock.Real{}
	loanPeriod := time.Duration(cfg.LoanPeriodHours) * time.Hour

	as := authsvc.New(sr, cfg.JWTSecret)
	cs := catalogsvc.New(br, blr)
	bos := borrowersvc.New(bor, blr)
	cps := couponsvc.New(cpr, clk)
	chs := checkoutsvc.New(chr, cps, clk)
	ls := lendingsvc.New(lr, loanPeriod, clk)
	ts := txnsvc.New(tr)
	carts := cartsvc.NewStore()

	// controllers
	v := validator.New()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	bookC := &bookctrl.Controller{Svc: cs, V: v, Log: log}
	borrowerC := &borrowerctrl.Controller{Svc: bos, V: v, Log: log}
	cartC := &cartctrl.Controller{Store: carts, Catalog: cs, V: v, Log: log}
	checkoutC := &checkoutctrl.Controller{Svc: chs, Store: carts, V: v, Log: log}
	couponC := &couponctrl.Controller{Svc: cps, V: v, Log: log}
	lendingC := &lendingctrl.Controller{Svc: ls, V: v, Log: log}
	txnC := &txnctrl.Controller{Svc: ts, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:        authC,
		Book:        bookC,
		Borrower:    borrowerC,
		Cart:        cartC,
		Checkout:    checkoutC,
		Coupon:      couponC,
		Lending:     lendingC,
		Transaction: txnC,

		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	slog.Info("starting server", "port", port, "env", cfg.Env)

	e.Logger.Fatal(e.Start(":" + port))
}

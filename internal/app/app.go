// Package app wires repositories, usecases and transports into one ledger.
package app

import (
	"time"

	"github.com/fekuna/omnipos-ledger/config"
	"github.com/fekuna/omnipos-ledger/internal/cash"
	cashH "github.com/fekuna/omnipos-ledger/internal/cash/handler"
	cashRepoPkg "github.com/fekuna/omnipos-ledger/internal/cash/repository"
	cashUCPkg "github.com/fekuna/omnipos-ledger/internal/cash/usecase"
	"github.com/fekuna/omnipos-ledger/internal/customer"
	custH "github.com/fekuna/omnipos-ledger/internal/customer/handler"
	custRepoPkg "github.com/fekuna/omnipos-ledger/internal/customer/repository"
	custUCPkg "github.com/fekuna/omnipos-ledger/internal/customer/usecase"
	"github.com/fekuna/omnipos-ledger/internal/database"
	"github.com/fekuna/omnipos-ledger/internal/debt"
	debtH "github.com/fekuna/omnipos-ledger/internal/debt/handler"
	debtRepoPkg "github.com/fekuna/omnipos-ledger/internal/debt/repository"
	debtUCPkg "github.com/fekuna/omnipos-ledger/internal/debt/usecase"
	"github.com/fekuna/omnipos-ledger/internal/events"
	"github.com/fekuna/omnipos-ledger/internal/inventory"
	invH "github.com/fekuna/omnipos-ledger/internal/inventory/handler"
	invRepoPkg "github.com/fekuna/omnipos-ledger/internal/inventory/repository"
	invUCPkg "github.com/fekuna/omnipos-ledger/internal/inventory/usecase"
	"github.com/fekuna/omnipos-ledger/internal/logger"
	"github.com/fekuna/omnipos-ledger/internal/product"
	prodH "github.com/fekuna/omnipos-ledger/internal/product/handler"
	prodRepoPkg "github.com/fekuna/omnipos-ledger/internal/product/repository"
	prodUCPkg "github.com/fekuna/omnipos-ledger/internal/product/usecase"
	"github.com/fekuna/omnipos-ledger/internal/report"
	reportH "github.com/fekuna/omnipos-ledger/internal/report/handler"
	reportRepoPkg "github.com/fekuna/omnipos-ledger/internal/report/repository"
	reportUCPkg "github.com/fekuna/omnipos-ledger/internal/report/usecase"
	"github.com/fekuna/omnipos-ledger/internal/sale"
	saleH "github.com/fekuna/omnipos-ledger/internal/sale/handler"
	saleRepoPkg "github.com/fekuna/omnipos-ledger/internal/sale/repository"
	saleUCPkg "github.com/fekuna/omnipos-ledger/internal/sale/usecase"
	"github.com/fekuna/omnipos-ledger/internal/server"
	"github.com/fekuna/omnipos-ledger/internal/settlement"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

type App struct {
	DB       *sqlx.DB
	Tx       *database.TxManager
	Location *time.Location
	Currency string

	Products  product.UseCase
	Customers customer.UseCase
	Inventory inventory.UseCase
	Debts     debt.UseCase
	Sales     sale.UseCase
	Cash      cash.UseCase
	Reports   report.UseCase

	logger logger.ZapLogger
}

// New builds every usecase over db. All writers share one TxManager, so
// the whole ledger has a single writer at a time.
func New(cfg *config.BusinessConfig, db *sqlx.DB, publisher events.Publisher, log logger.ZapLogger) *App {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Warn("unknown business timezone, using UTC", zap.String("timezone", cfg.Timezone), zap.Error(err))
		loc = time.UTC
	}

	tx := database.NewTxManager(db)

	prodRepo := prodRepoPkg.NewSQLiteRepository(db)
	custRepo := custRepoPkg.NewSQLiteRepository(db)
	saleRepo := saleRepoPkg.NewSQLiteRepository(db)

	invUC := invUCPkg.NewInventoryUseCase(invRepoPkg.NewSQLiteRepository(db), tx, log)
	materializer := settlement.NewMaterializer(saleRepo, log)

	return &App{
		DB:        db,
		Tx:        tx,
		Location:  loc,
		Currency:  cfg.Currency,
		Products:  prodUCPkg.NewProductUseCase(prodRepo, log),
		Customers: custUCPkg.NewCustomerUseCase(custRepo, log),
		Inventory: invUC,
		Debts:     debtUCPkg.NewDebtUseCase(debtRepoPkg.NewSQLiteRepository(db), custRepo, prodRepo, invUC, materializer, tx, publisher, log),
		Sales:     saleUCPkg.NewSaleUseCase(saleRepo, prodRepo, invUC, tx, publisher, log),
		Cash:      cashUCPkg.NewCashUseCase(cashRepoPkg.NewSQLiteRepository(db), tx, publisher, log),
		Reports:   reportUCPkg.NewReportUseCase(reportRepoPkg.NewSQLiteRepository(db), log),
		logger:    log,
	}
}

// RegisterGRPC registers every ledger service on s.
func (a *App) RegisterGRPC(s grpc.ServiceRegistrar) {
	prodH.RegisterProductServer(s, prodH.NewProductHandler(a.Products, a.logger))
	custH.RegisterCustomerServer(s, custH.NewCustomerHandler(a.Customers, a.logger))
	invH.RegisterInventoryServer(s, invH.NewInventoryHandler(a.Inventory, a.logger))
	debtH.RegisterDebtServer(s, debtH.NewDebtHandler(a.Debts, a.logger))
	saleH.RegisterSaleServer(s, saleH.NewSaleHandler(a.Sales, a.logger))
	cashH.RegisterCashServer(s, cashH.NewCashHandler(a.Cash, a.logger))
}

// HTTPHandler serves health, metrics and the report endpoints.
func (a *App) HTTPHandler() *gin.Engine {
	return server.NewRouter(a.DB, a.logger,
		reportH.NewReportHandler(a.Reports, a.Location, a.Currency, a.logger),
	)
}

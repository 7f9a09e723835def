// Package app wires the bridge together and manages its lifecycle: one
// ledger client and signing identity, one binding per deployed
// contract, the weather adapter, the services and the HTTP server.
package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"github.com/agrochain/agrochain-bridge/internal/blockchain"
	"github.com/agrochain/agrochain-bridge/internal/config"
	"github.com/agrochain/agrochain-bridge/internal/contract"
	"github.com/agrochain/agrochain-bridge/internal/handler"
	"github.com/agrochain/agrochain-bridge/internal/receipt"
	"github.com/agrochain/agrochain-bridge/internal/service"
	"github.com/agrochain/agrochain-bridge/internal/weather"
	"github.com/agrochain/agrochain-bridge/pkg/logger"
)

// App is the assembled service.
type App struct {
	cfg *config.Config

	chainClient *blockchain.Client
	sender      *blockchain.TxSender

	insurance  *contract.Insurance
	oracle     *contract.Oracle
	treasury   *contract.Treasury
	governance *contract.Governance
	token      *contract.Token
	nft        *contract.PolicyNFT

	httpServer *http.Server

	stopCh chan struct{}
}

// NewApp builds the application. Construction fails fast: an unreachable
// ledger endpoint or a malformed ABI aborts startup.
func NewApp(cfg *config.Config) (*App, error) {
	app := &App{
		cfg:    cfg,
		stopCh: make(chan struct{}),
	}

	if err := app.initBlockchain(); err != nil {
		return nil, fmt.Errorf("init blockchain: %w", err)
	}
	if err := app.initContracts(); err != nil {
		return nil, fmt.Errorf("init contracts: %w", err)
	}
	app.initHTTP()

	return app, nil
}

// initBlockchain dials the ledger and builds the transaction sender.
func (a *App) initBlockchain() error {
	rpcURLs := append([]string{a.cfg.Blockchain.RPCURL}, a.cfg.Blockchain.BackupRPCURLs...)

	client, err := blockchain.NewClient(&blockchain.ClientConfig{
		ChainID:    a.cfg.Blockchain.ChainID,
		PrivateKey: a.cfg.Blockchain.AdminPrivateKey,
		RPCURLs:    rpcURLs,
	})
	if err != nil {
		return err
	}
	a.chainClient = client

	a.sender = blockchain.NewTxSender(client, &blockchain.SenderConfig{
		GasLimit:       a.cfg.Blockchain.GasLimit,
		ConfirmTimeout: a.cfg.Blockchain.ConfirmTimeoutDuration(),
	})

	logger.Info("ledger client initialized",
		zap.Int64("chain_id", a.cfg.Blockchain.ChainID),
		zap.String("admin", client.Address().Hex()),
	)
	return nil
}

// initContracts binds every deployed contract, loading deployed ABIs
// from the artifact directory when one is configured.
func (a *App) initContracts() error {
	addrs := a.cfg.Blockchain.Contracts
	abiDir := a.cfg.Blockchain.ABIDir

	var err error
	a.insurance, err = contract.NewInsurance(
		common.HexToAddress(addrs.Insurance),
		contract.LoadABI(abiDir, "CropInsurance", contract.InsuranceABI),
		a.chainClient,
	)
	if err != nil {
		return fmt.Errorf("bind insurance: %w", err)
	}

	a.oracle, err = contract.NewOracle(
		common.HexToAddress(addrs.Oracle),
		contract.LoadABI(abiDir, "ClimateOracle", contract.OracleABI),
		a.chainClient,
	)
	if err != nil {
		return fmt.Errorf("bind oracle: %w", err)
	}

	a.treasury, err = contract.NewTreasury(
		common.HexToAddress(addrs.Treasury),
		contract.LoadABI(abiDir, "Treasury", contract.TreasuryABI),
		a.chainClient,
	)
	if err != nil {
		return fmt.Errorf("bind treasury: %w", err)
	}

	a.governance, err = contract.NewGovernance(
		common.HexToAddress(addrs.Governance),
		contract.LoadABI(abiDir, "Governance", contract.GovernanceABI),
		a.chainClient,
	)
	if err != nil {
		return fmt.Errorf("bind governance: %w", err)
	}

	a.token, err = contract.NewToken(
		common.HexToAddress(addrs.Token),
		contract.LoadABI(abiDir, "GovernanceToken", contract.TokenABI),
		a.chainClient,
	)
	if err != nil {
		return fmt.Errorf("bind token: %w", err)
	}

	a.nft, err = contract.NewPolicyNFT(
		common.HexToAddress(addrs.PolicyNFT),
		contract.LoadABI(abiDir, "PolicyNFT", contract.PolicyNFTABI),
		a.chainClient,
	)
	if err != nil {
		return fmt.Errorf("bind policy nft: %w", err)
	}

	return nil
}

// initHTTP builds services, handlers and the HTTP server.
func (a *App) initHTTP() {
	weatherClient := weather.NewClient(&a.cfg.Weather)
	extractor := receipt.NewInterpreter(a.insurance)

	policySvc := service.NewPolicyService(a.insurance, a.nft, weatherClient, a.sender, extractor)
	climateSvc := service.NewClimateService(weatherClient, a.oracle, a.sender)
	treasurySvc := service.NewTreasuryService(a.treasury, a.sender)
	governanceSvc := service.NewGovernanceService(a.governance, a.sender, extractor)
	tokenSvc := service.NewTokenService(a.token, a.sender)
	adminSvc := service.NewAdminService(a.insurance, a.oracle, a.sender)
	statusSvc := service.NewStatusService(
		a.cfg.Service.Name, a.cfg.Service.Env, a.chainClient,
		a.insurance, a.oracle, treasurySvc, a.governance, a.token, a.nft,
	)
	proofVerifier := service.NewProofVerifier(&a.cfg.ZK)

	router := handler.NewRouter(&handler.Handlers{
		Policy:     handler.NewPolicyHandler(policySvc),
		Climate:    handler.NewClimateHandler(climateSvc),
		Treasury:   handler.NewTreasuryHandler(treasurySvc),
		Governance: handler.NewGovernanceHandler(governanceSvc),
		Token:      handler.NewTokenHandler(tokenSvc),
		Admin:      handler.NewAdminHandler(adminSvc),
		System:     handler.NewSystemHandler(statusSvc, proofVerifier),
	})

	a.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.cfg.Service.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * a.cfg.Blockchain.ConfirmTimeoutDuration(),
	}
}

// Run serves HTTP until a shutdown signal arrives.
func (a *App) Run() error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		logger.Info("received shutdown signal")
	case <-a.stopCh:
		logger.Info("shutdown requested")
	}

	return a.shutdown()
}

// shutdown drains in-flight requests, then closes the ledger client.
func (a *App) shutdown() error {
	logger.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(ctx); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}

	if a.chainClient != nil {
		a.chainClient.Close()
	}

	logger.Info("shutdown complete")
	return nil
}

// Stop requests a shutdown.
func (a *App) Stop() {
	close(a.stopCh)
}

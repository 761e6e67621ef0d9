package prime

import (
	"context"
	"fmt"
	"time"

	"safvacut-wallet-go/internal/models"
	"safvacut-wallet-go/internal/transport"

	"github.com/coinbase-samples/prime-sdk-go/client"
	"github.com/coinbase-samples/prime-sdk-go/credentials"
	"github.com/coinbase-samples/prime-sdk-go/portfolios"
	"github.com/coinbase-samples/prime-sdk-go/wallets"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const tradingWalletType = "TRADING"

// Service issues custody deposit addresses from a Coinbase Prime portfolio.
type Service struct {
	client        client.RestClient
	portfoliosSvc portfolios.PortfoliosService
	walletsSvc    wallets.WalletsService
	portfolioId   string
}

func NewService(creds *credentials.Credentials) (*Service, error) {
	httpClient, err := transport.NewHttpClient(60 * time.Second)
	if err != nil {
		return nil, fmt.Errorf("unable to create custom http client: %w", err)
	}

	restClient := client.NewRestClient(creds, httpClient)

	return &Service{
		client:        restClient,
		portfoliosSvc: portfolios.NewPortfoliosService(restClient),
		walletsSvc:    wallets.NewWalletsService(restClient),
	}, nil
}

// UsePortfolio pins the portfolio. An empty id resolves the default portfolio.
func (s *Service) UsePortfolio(ctx context.Context, portfolioId string) error {
	if portfolioId != "" {
		s.portfolioId = portfolioId
		return nil
	}

	portfolio, err := s.FindDefaultPortfolio(ctx)
	if err != nil {
		return err
	}
	zap.L().Info("Using default portfolio",
		zap.String("name", portfolio.Name),
		zap.String("id", portfolio.Id))
	s.portfolioId = portfolio.Id
	return nil
}

func (s *Service) ListPortfolios(ctx context.Context) ([]models.Portfolio, error) {
	response, err := s.portfoliosSvc.ListPortfolios(ctx, &portfolios.ListPortfoliosRequest{})
	if err != nil {
		return nil, fmt.Errorf("unable to list portfolios: %w", err)
	}

	portfolioList := make([]models.Portfolio, len(response.Portfolios))
	for i, p := range response.Portfolios {
		portfolioList[i] = models.Portfolio{Id: p.Id, Name: p.Name}
	}
	return portfolioList, nil
}

func (s *Service) FindDefaultPortfolio(ctx context.Context) (*models.Portfolio, error) {
	portfolioList, err := s.ListPortfolios(ctx)
	if err != nil {
		return nil, err
	}
	return pickDefaultPortfolio(portfolioList)
}

func pickDefaultPortfolio(list []models.Portfolio) (*models.Portfolio, error) {
	for _, portfolio := range list {
		if portfolio.Name == "Default Portfolio" {
			return &portfolio, nil
		}
	}
	return nil, fmt.Errorf("default portfolio not found")
}

func (s *Service) ListWallets(ctx context.Context, walletType string, symbols []string) ([]models.PrimeWallet, error) {
	response, err := s.walletsSvc.ListWallets(ctx, &wallets.ListWalletsRequest{
		PortfolioId: s.portfolioId,
		Type:        walletType,
		Symbols:     symbols,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to list wallets: %w", err)
	}

	walletList := make([]models.PrimeWallet, len(response.Wallets))
	for i, w := range response.Wallets {
		walletList[i] = models.PrimeWallet{Id: w.Id, Name: w.Name, Symbol: w.Symbol, Type: w.Type}
	}
	return walletList, nil
}

func (s *Service) CreateWallet(ctx context.Context, symbol string) (*models.PrimeWallet, error) {
	response, err := s.walletsSvc.CreateWallet(ctx, &wallets.CreateWalletRequest{
		PortfolioId:    s.portfolioId,
		Name:           walletName(symbol),
		Symbol:         symbol,
		Type:           tradingWalletType,
		IdempotencyKey: uuid.New().String(),
	})
	if err != nil {
		return nil, fmt.Errorf("unable to create wallet: %w", err)
	}

	return &models.PrimeWallet{
		Id:     response.ActivityId,
		Name:   response.Name,
		Symbol: response.Symbol,
		Type:   response.Type,
	}, nil
}

func (s *Service) CreateDepositAddress(ctx context.Context, walletId, symbol, network string) (*models.DepositAddress, error) {
	response, err := s.walletsSvc.CreateWalletAddress(ctx, &wallets.CreateWalletAddressRequest{
		PortfolioId: s.portfolioId,
		WalletId:    walletId,
		NetworkId:   network,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to create wallet address: %w", err)
	}

	return &models.DepositAddress{
		Id:      response.AccountIdentifier,
		Address: response.Address,
		Network: network,
		Asset:   symbol,
	}, nil
}

// DepositAddress returns a fresh deposit address on the symbol's trading
// wallet, creating the wallet when the portfolio has none.
func (s *Service) DepositAddress(ctx context.Context, symbol, network string) (string, error) {
	if s.portfolioId == "" {
		return "", fmt.Errorf("prime portfolio not resolved")
	}

	walletList, err := s.ListWallets(ctx, tradingWalletType, []string{symbol})
	if err != nil {
		return "", err
	}

	var walletId string
	if len(walletList) > 0 {
		walletId = walletList[0].Id
		zap.L().Debug("Using existing wallet", zap.String("asset", symbol), zap.String("wallet_id", walletId))
	} else {
		zap.L().Info("Creating new wallet", zap.String("asset", symbol), zap.String("wallet_name", walletName(symbol)))
		created, err := s.CreateWallet(ctx, symbol)
		if err != nil {
			return "", err
		}
		walletId = created.Id
	}

	addr, err := s.CreateDepositAddress(ctx, walletId, symbol, network)
	if err != nil {
		return "", err
	}

	zap.L().Info("Prime deposit address issued",
		zap.String("asset", symbol),
		zap.String("network", network),
		zap.String("wallet_id", walletId))
	return addr.Address, nil
}

func walletName(symbol string) string {
	return fmt.Sprintf("%s Trading Wallet", symbol)
}

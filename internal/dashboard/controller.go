package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"safvacut-wallet-go/internal/common"
	"safvacut-wallet-go/internal/models"
	"safvacut-wallet-go/internal/notification"
	"safvacut-wallet-go/internal/store"

	"github.com/shopspring/decimal"
)

type Section string

const (
	SectionOverview     Section = "overview"
	SectionWallet       Section = "wallet"
	SectionTransactions Section = "transactions"
	SectionProfile      Section = "profile"
	SectionSettings     Section = "settings"
)

// TransactionsLimit is how many recent transactions the section shows.
const TransactionsLimit = 10

var ErrUnknownSection = errors.New("unknown dashboard section")

var sections = map[Section]bool{
	SectionOverview:     true,
	SectionWallet:       true,
	SectionTransactions: true,
	SectionProfile:      true,
	SectionSettings:     true,
}

// LedgerMirror receives a copy of every send and wallet connection.
// Satisfied by formance.Service.
type LedgerMirror interface {
	RecordSend(ctx context.Context, tx models.Transaction) error
	RecordWallet(ctx context.Context, w models.Wallet) error
}

// Custodian issues deposit addresses for custody wallets.
// Satisfied by prime.Service.
type Custodian interface {
	DepositAddress(ctx context.Context, symbol, network string) (string, error)
}

// Controller holds one user's dashboard state. Every operation runs under
// a single lock, so sends for the same user never interleave.
type Controller struct {
	mu sync.Mutex

	docs          store.DocumentStore
	userId        string
	notifications *notification.Center
	ledger        LedgerMirror
	custodian     Custodian
	catalogue     []common.AssetConfig
	now           func() time.Time

	section      Section
	profile      *models.Profile
	settings     *models.Settings
	assets       []models.Asset
	wallets      []models.Wallet
	transactions []models.Transaction
}

type Option func(*Controller)

func WithLedger(l LedgerMirror) Option {
	return func(c *Controller) { c.ledger = l }
}

func WithCustodian(cu Custodian, catalogue []common.AssetConfig) Option {
	return func(c *Controller) {
		c.custodian = cu
		c.catalogue = catalogue
	}
}

func NewController(docs store.DocumentStore, userId string, notifications *notification.Center, opts ...Option) *Controller {
	c := &Controller{
		docs:          docs,
		userId:        userId,
		notifications: notifications,
		section:       SectionOverview,
		now:           func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load fetches the documents every section renders from.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load(ctx)
}

// Refresh reloads profile, settings, assets and wallets.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.Load(ctx)
}

func (c *Controller) load(ctx context.Context) error {
	profile, err := c.docs.GetProfile(ctx, c.userId)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	settings, err := c.docs.GetSettings(ctx, c.userId)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	assets, err := c.docs.ListAssets(ctx, c.userId)
	if err != nil {
		return fmt.Errorf("failed to load assets: %w", err)
	}
	wallets, err := c.docs.ListWallets(ctx, c.userId)
	if err != nil {
		return fmt.Errorf("failed to load wallets: %w", err)
	}

	c.profile = profile
	c.settings = settings
	c.assets = assets
	c.wallets = wallets
	return nil
}

// Section returns the active section.
func (c *Controller) Section() Section {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.section
}

// Navigate switches to section and loads only its data. An unknown section
// leaves the state unchanged.
func (c *Controller) Navigate(ctx context.Context, section Section) (*models.SectionView, error) {
	if !sections[section] {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSection, section)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	view := &models.SectionView{Section: string(section)}
	switch section {
	case SectionOverview:
		overview := c.overview()
		view.Overview = &overview
	case SectionWallet:
		wallets := c.walletSection()
		view.Wallets = &wallets
	case SectionTransactions:
		txs, err := c.docs.ListTransactions(ctx, c.userId, TransactionsLimit)
		if err != nil {
			return nil, fmt.Errorf("failed to load transactions: %w", err)
		}
		c.transactions = txs
		view.Transactions = txs
	case SectionProfile:
		view.Profile = c.profileCopy()
	case SectionSettings:
		view.Settings = c.settingsCopy()
	}

	c.section = section
	return view, nil
}

// Overview sums asset values already in memory.
func (c *Controller) Overview() models.OverviewResponse {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.overview()
}

var dailyChangeRate = decimal.RequireFromString("0.02")

func (c *Controller) overview() models.OverviewResponse {
	total := decimal.Zero
	for _, a := range c.assets {
		total = total.Add(a.Value)
	}
	assets := make([]models.Asset, len(c.assets))
	copy(assets, c.assets)

	return models.OverviewResponse{
		TotalBalance: total,
		DailyChange:  total.Mul(dailyChangeRate),
		ChangeLabel:  "(" + common.FormatPercent(dailyChangeRate.Mul(decimal.NewFromInt(100))) + ")",
		Assets:       assets,
	}
}

func (c *Controller) Wallets() models.WalletSectionResponse {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.walletSection()
}

func (c *Controller) walletSection() models.WalletSectionResponse {
	views := make([]models.WalletView, 0, len(c.wallets))
	for _, w := range c.wallets {
		views = append(views, models.WalletView{Wallet: w, DisplayAddress: TruncateAddress(w.Address)})
	}
	return models.WalletSectionResponse{Empty: len(views) == 0, Wallets: views}
}

// Assets returns a copy of the loaded assets.
func (c *Controller) Assets() []models.Asset {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Asset, len(c.assets))
	copy(out, c.assets)
	return out
}

func (c *Controller) Profile() *models.Profile {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.profileCopy()
}

func (c *Controller) profileCopy() *models.Profile {
	if c.profile == nil {
		return nil
	}
	p := *c.profile
	return &p
}

func (c *Controller) settingsCopy() *models.Settings {
	if c.settings == nil {
		return nil
	}
	s := *c.settings
	return &s
}

// TruncateAddress keeps the first 10 and last 8 characters. Addresses of
// 18 characters or fewer are returned as-is.
func TruncateAddress(address string) string {
	if len(address) <= 18 {
		return address
	}
	return address[:10] + "..." + address[len(address)-8:]
}

func (c *Controller) findAsset(symbol string) int {
	for i := range c.assets {
		if c.assets[i].Symbol == symbol {
			return i
		}
	}
	return -1
}

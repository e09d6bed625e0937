package vault

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/joefazee/flashpred/models"
)

// Custody is the token-custody collaborator. The engine only directs
// transfers between user accounts and pooled vaults; it never implements
// token mechanics itself.
type Custody interface {
	CreateVault(ctx context.Context) (uuid.UUID, error)
	Deposit(ctx context.Context, vaultID, from uuid.UUID, amount models.Amount) error
	Withdraw(ctx context.Context, vaultID, to uuid.UUID, amount models.Amount) error
	VaultBalance(ctx context.Context, vaultID uuid.UUID) (models.Amount, error)
}

// MemoryCustody is an in-process custody service tracking vault and user
// balances. Every transfer is conserving: credits and debits always move
// the same amount between two accounts.
type MemoryCustody struct {
	mu     sync.Mutex
	vaults map[uuid.UUID]models.Amount
	users  map[uuid.UUID]models.Amount
}

// NewMemoryCustody creates an empty custody service.
func NewMemoryCustody() *MemoryCustody {
	return &MemoryCustody{
		vaults: make(map[uuid.UUID]models.Amount),
		users:  make(map[uuid.UUID]models.Amount),
	}
}

// CreateVault allocates an empty pooled vault.
func (c *MemoryCustody) CreateVault(_ context.Context) (uuid.UUID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := uuid.New()
	c.vaults[id] = 0
	return id, nil
}

// Fund credits a user's external balance. This stands in for the deposit
// rails outside the engine's scope.
func (c *MemoryCustody) Fund(_ context.Context, userID uuid.UUID, amount models.Amount) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	sum, err := c.users[userID].CheckedAdd(amount)
	if err != nil {
		return err
	}
	c.users[userID] = sum
	return nil
}

// Deposit moves amount from a user's balance into a vault.
func (c *MemoryCustody) Deposit(_ context.Context, vaultID, from uuid.UUID, amount models.Amount) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.vaults[vaultID]; !ok {
		return fmt.Errorf("vault %s: %w", vaultID, models.ErrRecordNotFound)
	}
	if c.users[from] < amount {
		return fmt.Errorf("user %s holds %d, needs %d: %w",
			from, c.users[from], amount, models.ErrInsufficientFunds)
	}

	sum, err := c.vaults[vaultID].CheckedAdd(amount)
	if err != nil {
		return err
	}
	c.users[from] -= amount
	c.vaults[vaultID] = sum
	return nil
}

// Withdraw moves amount from a vault back to a user's balance.
func (c *MemoryCustody) Withdraw(_ context.Context, vaultID, to uuid.UUID, amount models.Amount) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	balance, ok := c.vaults[vaultID]
	if !ok {
		return fmt.Errorf("vault %s: %w", vaultID, models.ErrRecordNotFound)
	}
	if balance < amount {
		return fmt.Errorf("vault %s holds %d, needs %d: %w",
			vaultID, balance, amount, models.ErrInsufficientFunds)
	}

	sum, err := c.users[to].CheckedAdd(amount)
	if err != nil {
		return err
	}
	c.vaults[vaultID] = balance - amount
	c.users[to] = sum
	return nil
}

// VaultBalance returns the pooled balance of a vault.
func (c *MemoryCustody) VaultBalance(_ context.Context, vaultID uuid.UUID) (models.Amount, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	balance, ok := c.vaults[vaultID]
	if !ok {
		return 0, fmt.Errorf("vault %s: %w", vaultID, models.ErrRecordNotFound)
	}
	return balance, nil
}

// UserBalance returns a user's external balance.
func (c *MemoryCustody) UserBalance(_ context.Context, userID uuid.UUID) (models.Amount, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.users[userID], nil
}

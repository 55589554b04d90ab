package transactions

import (
	"context"
	"fmt"

	"github.com/KAsare1/fintrack-server/cmd/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Filter narrows a query to one owner and optionally one category.
type Filter struct {
	OwnerID  uuid.UUID
	Category models.Category
}

type SortOrder int

const (
	NewestFirst SortOrder = iota
	OldestFirst
)

// Totals is the income/expense split for one owner.
type Totals struct {
	Balance       decimal.Decimal `json:"balance"`
	TotalIncome   decimal.Decimal `json:"totalIncome"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
}

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) scope(ctx context.Context, f Filter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&models.Transaction{}).Where("user_id = ?", f.OwnerID)
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	return q
}

func (s *Store) Create(ctx context.Context, t *models.Transaction) error {
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, f Filter, order SortOrder) ([]models.Transaction, error) {
	direction := "DESC"
	if order == OldestFirst {
		direction = "ASC"
	}

	txs := []models.Transaction{}
	err := s.scope(ctx, f).
		Order("date " + direction).
		Order("created_at " + direction).
		Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

// Recent returns at most limit transactions matching f, newest first.
func (s *Store) Recent(ctx context.Context, f Filter, limit int) ([]models.Transaction, error) {
	txs := []models.Transaction{}
	err := s.scope(ctx, f).
		Order("date DESC").
		Order("created_at DESC").
		Limit(limit).
		Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("recent transactions: %w", err)
	}
	return txs, nil
}

func (s *Store) Count(ctx context.Context, f Filter) (int64, error) {
	var n int64
	if err := s.scope(ctx, f).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return n, nil
}

// Sum adds up amounts matching f. An empty match sums to zero. Drivers that
// keep numeric columns as floating point return binary noise, so the total is
// rounded back to the column scale.
func (s *Store) Sum(ctx context.Context, f Filter) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := s.scope(ctx, f).Select("COALESCE(SUM(amount), 0) AS total").Scan(&result).Error; err != nil {
		return decimal.Zero, fmt.Errorf("sum transactions: %w", err)
	}
	return result.Total.Round(models.AmountScale), nil
}

// Balance is total income minus total expenses.
func (s *Store) Balance(ctx context.Context, ownerID uuid.UUID) (Totals, error) {
	income, err := s.Sum(ctx, Filter{OwnerID: ownerID, Category: models.CategoryIncome})
	if err != nil {
		return Totals{}, err
	}
	expenses, err := s.Sum(ctx, Filter{OwnerID: ownerID, Category: models.CategoryExpense})
	if err != nil {
		return Totals{}, err
	}
	return Totals{
		Balance:       income.Sub(expenses),
		TotalIncome:   income,
		TotalExpenses: expenses,
	}, nil
}

// Delete removes the owner's transaction with id and reports how many rows
// went away. Ids owned by someone else match nothing.
func (s *Store) Delete(ctx context.Context, ownerID, id uuid.UUID) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, ownerID).
		Delete(&models.Transaction{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete transaction: %w", res.Error)
	}
	return res.RowsAffected, nil
}

package repository

import (
	"context"

	"github.com/Lina3386/weekgram/internal/models"
)

type ExpenseRepository struct {
	kv *KVRepository
}

func NewExpenseRepository(kv *KVRepository) *ExpenseRepository {
	return &ExpenseRepository{kv: kv}
}

func (r *ExpenseRepository) GetExpenses(ctx context.Context) ([]models.Expense, error) {
	var expenses []models.Expense
	ok, err := r.kv.Load(ctx, ExpensesKey, &expenses)
	if err != nil {
		return nil, err
	}
	if !ok || expenses == nil {
		return []models.Expense{}, nil
	}
	return expenses, nil
}

// SaveExpenses replaces the whole collection.
func (r *ExpenseRepository) SaveExpenses(ctx context.Context, expenses []models.Expense) error {
	if expenses == nil {
		expenses = []models.Expense{}
	}
	return r.kv.Store(ctx, ExpensesKey, expenses)
}

func (r *ExpenseRepository) DeleteExpenses(ctx context.Context) error {
	return r.kv.Delete(ctx, ExpensesKey)
}

package transaction

import (
	"context"

	"interest/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type transactionStore struct {
	db *db.DB
}

// New new transaction store
func New(db *db.DB) core.ITransactionStore {
	return &transactionStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Transaction{})
		if err := tx.AutoMigrate(core.Transaction{}).Error; err != nil {
			return err
		}

		return nil
	})
}

// Create insert keyed on trace id; resubmitting the same trace is a
// no-op, which is what makes action retries safe
func (s *transactionStore) Create(ctx context.Context, tx *db.DB, transaction *core.Transaction) error {
	return tx.Update().Where(core.Transaction{
		TraceID: transaction.TraceID,
	}).FirstOrCreate(transaction).Error
}

func (s *transactionStore) Update(ctx context.Context, tx *db.DB, transaction *core.Transaction) error {
	return tx.Update().Model(core.Transaction{}).
		Where("trace_id=?", transaction.TraceID).
		Update(transaction).Error
}

func (s *transactionStore) FindTrace(ctx context.Context, traceID string) (*core.Transaction, bool, error) {
	var transaction core.Transaction
	err := s.db.View().Where("trace_id=?", traceID).First(&transaction).Error
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	return &transaction, true, nil
}

func (s *transactionStore) List(ctx context.Context, limit int) ([]*core.Transaction, error) {
	if limit <= 0 {
		limit = 100
	}

	var transactions []*core.Transaction
	err := s.db.View().
		Order("id desc").
		Limit(limit).
		Find(&transactions).Error
	if err != nil {
		return nil, err
	}

	return transactions, nil
}

func (s *transactionStore) PendingFollowUps(ctx context.Context) ([]*core.Transaction, error) {
	var transactions []*core.Transaction
	err := s.db.View().
		Where("primary_status=? and follow_up_status<>?", core.PhaseOK, core.PhaseOK).
		Find(&transactions).Error
	if err != nil {
		return nil, err
	}

	return transactions, nil
}

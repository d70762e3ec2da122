package services

import (
	"context"
	"fmt"

	"chitieu/internal/amqp"
	"chitieu/internal/api"
	"chitieu/internal/log"
)

// MutationPublisher is the outbound side of the activity journal.
type MutationPublisher interface {
	PublishMutation(ctx context.Context, msg *amqp.MutationEvent) error
}

// JournalingBackend forwards every call to the wrapped backend and, after a
// successful write, publishes a mutation event. Publishing never changes the
// outcome of the write.
type JournalingBackend struct {
	api.Backend
	publisher MutationPublisher
	logger    *log.Logger
}

var _ api.Backend = (*JournalingBackend)(nil)

func NewJournalingBackend(b api.Backend, p MutationPublisher, logger *log.Logger) *JournalingBackend {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &JournalingBackend{Backend: b, publisher: p, logger: logger.WithComponent(log.ComponentBroker)}
}

func (j *JournalingBackend) publish(ctx context.Context, res amqp.Resource, op amqp.Operation, id, summary string) {
	if j.publisher == nil {
		return
	}
	// Detach from request cancellation: the write already happened.
	ctx = context.WithoutCancel(ctx)
	if err := j.publisher.PublishMutation(ctx, amqp.NewMutationEvent(res, op, id, summary)); err != nil {
		j.logger.WarnContext(ctx, "Failed to publish mutation event",
			log.FieldResource, res,
			log.FieldOperation, op,
			log.FieldResourceID, id,
			log.FieldError, err)
	}
}

func (j *JournalingBackend) CreateWallet(ctx context.Context, in api.WalletInput) error {
	if err := j.Backend.CreateWallet(ctx, in); err != nil {
		return err
	}
	j.publish(ctx, amqp.ResourceWallet, amqp.OpCreate, "", fmt.Sprintf("Thêm ví %s", in.Name))
	return nil
}

func (j *JournalingBackend) UpdateWallet(ctx context.Context, id string, in api.WalletInput) error {
	if err := j.Backend.UpdateWallet(ctx, id, in); err != nil {
		return err
	}
	j.publish(ctx, amqp.ResourceWallet, amqp.OpUpdate, id, fmt.Sprintf("Cập nhật ví %s", in.Name))
	return nil
}

func (j *JournalingBackend) DeleteWallet(ctx context.Context, id string) error {
	if err := j.Backend.DeleteWallet(ctx, id); err != nil {
		return err
	}
	j.publish(ctx, amqp.ResourceWallet, amqp.OpDelete, id, "Xóa ví")
	return nil
}

func (j *JournalingBackend) CreateCategory(ctx context.Context, in api.CategoryInput) error {
	if err := j.Backend.CreateCategory(ctx, in); err != nil {
		return err
	}
	j.publish(ctx, amqp.ResourceCategory, amqp.OpCreate, "", fmt.Sprintf("Thêm danh mục %s", in.Name))
	return nil
}

func (j *JournalingBackend) UpdateCategory(ctx context.Context, id string, in api.CategoryInput) error {
	if err := j.Backend.UpdateCategory(ctx, id, in); err != nil {
		return err
	}
	j.publish(ctx, amqp.ResourceCategory, amqp.OpUpdate, id, fmt.Sprintf("Cập nhật danh mục %s", in.Name))
	return nil
}

func (j *JournalingBackend) DeleteCategory(ctx context.Context, id string) error {
	if err := j.Backend.DeleteCategory(ctx, id); err != nil {
		return err
	}
	j.publish(ctx, amqp.ResourceCategory, amqp.OpDelete, id, "Xóa danh mục")
	return nil
}

func transactionSummary(verb string, in api.TransactionInput) string {
	s := fmt.Sprintf("%s giao dịch %s %s", verb, in.Type, in.Amount)
	if in.Description != "" {
		s += " (" + in.Description + ")"
	}
	return s
}

func (j *JournalingBackend) CreateTransaction(ctx context.Context, in api.TransactionInput) error {
	if err := j.Backend.CreateTransaction(ctx, in); err != nil {
		return err
	}
	j.publish(ctx, amqp.ResourceTransaction, amqp.OpCreate, "", transactionSummary("Thêm", in))
	return nil
}

func (j *JournalingBackend) UpdateTransaction(ctx context.Context, id string, in api.TransactionInput) error {
	if err := j.Backend.UpdateTransaction(ctx, id, in); err != nil {
		return err
	}
	j.publish(ctx, amqp.ResourceTransaction, amqp.OpUpdate, id, transactionSummary("Cập nhật", in))
	return nil
}

func (j *JournalingBackend) DeleteTransaction(ctx context.Context, id string) error {
	if err := j.Backend.DeleteTransaction(ctx, id); err != nil {
		return err
	}
	j.publish(ctx, amqp.ResourceTransaction, amqp.OpDelete, id, "Xóa giao dịch")
	return nil
}

func (j *JournalingBackend) CreateBudget(ctx context.Context, in api.BudgetInput) error {
	if err := j.Backend.CreateBudget(ctx, in); err != nil {
		return err
	}
	j.publish(ctx, amqp.ResourceBudget, amqp.OpCreate, "",
		fmt.Sprintf("Thêm ngân sách %s (%s)", in.Name, in.Amount))
	return nil
}

func (j *JournalingBackend) DeleteBudget(ctx context.Context, id string) error {
	if err := j.Backend.DeleteBudget(ctx, id); err != nil {
		return err
	}
	j.publish(ctx, amqp.ResourceBudget, amqp.OpDelete, id, "Xóa ngân sách")
	return nil
}

package implementation

import (
	"context"
	"errors"

	"allnimall-store-be/internal/entity"
	"allnimall-store-be/internal/mapper"
	"allnimall-store-be/internal/model"
	"allnimall-store-be/internal/repository/contract"
	"allnimall-store-be/internal/repository/specification"

	"gorm.io/gorm"
)

type InvoiceRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.BillingMapper
}

func NewInvoiceRepository(db *gorm.DB) contract.InvoiceRepository {
	return &InvoiceRepositoryImpl{
		db:     db,
		mapper: mapper.NewBillingMapper(),
	}
}

func (r *InvoiceRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *InvoiceRepositoryImpl) Create(ctx context.Context, invoice *entity.BillingInvoice) error {
	m := r.mapper.InvoiceToModel(invoice)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*invoice = *r.mapper.InvoiceToEntity(m)
	return nil
}

func (r *InvoiceRepositoryImpl) Update(ctx context.Context, invoice *entity.BillingInvoice) error {
	m := r.mapper.InvoiceToModel(invoice)
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *InvoiceRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.BillingInvoice, error) {
	var m model.BillingInvoice
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.InvoiceToEntity(&m), nil
}

func (r *InvoiceRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.BillingInvoice, error) {
	var models []*model.BillingInvoice
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.BillingInvoice, len(models))
	for i, m := range models {
		entities[i] = r.mapper.InvoiceToEntity(m)
	}
	return entities, nil
}

type PaymentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.BillingMapper
}

func NewPaymentRepository(db *gorm.DB) contract.PaymentRepository {
	return &PaymentRepositoryImpl{
		db:     db,
		mapper: mapper.NewBillingMapper(),
	}
}

func (r *PaymentRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PaymentRepositoryImpl) Create(ctx context.Context, payment *entity.BillingPayment) error {
	m := r.mapper.PaymentToModel(payment)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*payment = *r.mapper.PaymentToEntity(m)
	return nil
}

func (r *PaymentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.BillingPayment, error) {
	var m model.BillingPayment
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.PaymentToEntity(&m), nil
}

func (r *PaymentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.BillingPayment, error) {
	var models []*model.BillingPayment
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.BillingPayment, len(models))
	for i, m := range models {
		entities[i] = r.mapper.PaymentToEntity(m)
	}
	return entities, nil
}

type PlanChangeRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.BillingMapper
}

func NewPlanChangeRepository(db *gorm.DB) contract.PlanChangeRepository {
	return &PlanChangeRepositoryImpl{
		db:     db,
		mapper: mapper.NewBillingMapper(),
	}
}

func (r *PlanChangeRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *PlanChangeRepositoryImpl) Create(ctx context.Context, request *entity.PlanChangeRequest) error {
	m := r.mapper.PlanChangeToModel(request)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*request = *r.mapper.PlanChangeToEntity(m)
	return nil
}

func (r *PlanChangeRepositoryImpl) Update(ctx context.Context, request *entity.PlanChangeRequest) error {
	m := r.mapper.PlanChangeToModel(request)
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *PlanChangeRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PlanChangeRequest, error) {
	var m model.PlanChangeRequest
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.PlanChangeToEntity(&m), nil
}

func (r *PlanChangeRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PlanChangeRequest, error) {
	var models []*model.PlanChangeRequest
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.PlanChangeRequest, len(models))
	for i, m := range models {
		entities[i] = r.mapper.PlanChangeToEntity(m)
	}
	return entities, nil
}

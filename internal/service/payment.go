package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"assetverse/internal/apperr"
	"assetverse/internal/models"
	"assetverse/internal/provider"
	"assetverse/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type paymentStore interface {
	GetPackageByID(ctx context.Context, id int64) (*models.Package, error)
	ListPackages(ctx context.Context, ownerEmail string) ([]models.Package, error)
	CreatePackage(ctx context.Context, pkg *models.Package) error
	PackageExists(ctx context.Context, ownerEmail, packageName string) (bool, error)
	MarkPackagePaid(ctx context.Context, id int64, paidAt time.Time) (bool, error)
	GetPaymentByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error)
	CreatePayment(ctx context.Context, payment *models.Payment) error
	ListPaymentsByEmail(ctx context.Context, hrEmail string) ([]models.Payment, error)
}

type paymentEvents interface {
	PublishPaymentReconciled(ctx context.Context, event *models.PaymentReconciledEvent) error
}

// CheckoutConfig carries the provider-facing checkout settings
type CheckoutConfig struct {
	Currency   string
	SuccessURL string
	CancelURL  string
}

// ReconcileResult is the composite outcome of reconciling one session
type ReconcileResult struct {
	PackageUpdated bool            `json:"package_updated"`
	Payment        *models.Payment `json:"payment"`
}

// PaymentService converts provider payment confirmations into durable
// local state exactly once, and creates checkout sessions for packages.
type PaymentService struct {
	store    paymentStore
	provider provider.PaymentProvider
	events   paymentEvents
	checkout CheckoutConfig
	logger   *zap.Logger
}

// NewPaymentService creates a new payment service. events may be nil.
func NewPaymentService(store paymentStore, pp provider.PaymentProvider, events paymentEvents, checkout CheckoutConfig) *PaymentService {
	return &PaymentService{
		store:    store,
		provider: pp,
		events:   events,
		checkout: checkout,
		logger:   util.GetLogger(),
	}
}

// CreateCheckout creates a provider checkout session for a package and
// returns the hosted payment URL
func (s *PaymentService) CreateCheckout(ctx context.Context, packageID int64, customerEmail string) (string, error) {
	ctx, span := util.StartSpan(ctx, "PaymentService.CreateCheckout")
	defer span.End()

	pkg, err := s.store.GetPackageByID(ctx, packageID)
	if err != nil {
		return "", err
	}

	sess, err := s.provider.CreateCheckoutSession(ctx, provider.CheckoutParams{
		AmountMinorUnits: pkg.Price,
		Currency:         s.checkout.Currency,
		ProductLabel:     fmt.Sprintf("Please pay for %s", pkg.PackageName),
		CustomerEmail:    customerEmail,
		Metadata: map[string]string{
			"packageId":     strconv.FormatInt(pkg.ID, 10),
			"packageName":   pkg.PackageName,
			"employeeLimit": strconv.Itoa(pkg.EmployeeLimit),
		},
		SuccessURL: s.checkout.SuccessURL,
		CancelURL:  s.checkout.CancelURL,
	})
	if err != nil {
		return "", fmt.Errorf("checkout session creation failed: %w", err)
	}

	util.CheckoutSessionsCreatedTotal.Inc()
	s.logger.Info("Checkout session created",
		zap.Int64("package_id", pkg.ID),
		zap.String("session_id", sess.ID))

	return sess.URL, nil
}

// Reconcile converts a provider confirmation for sessionID into a package
// update and a payment record. Reconciling the same session twice yields
// the same payment row: the transaction id is checked first and a unique
// index backstops the race between check and insert.
func (s *PaymentService) Reconcile(ctx context.Context, sessionID string) (*ReconcileResult, error) {
	ctx, span := util.StartSpan(ctx, "PaymentService.Reconcile")
	defer span.End()

	sess, err := s.provider.RetrieveSession(ctx, sessionID)
	if err != nil {
		s.logger.Warn("Session retrieval failed",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return nil, fmt.Errorf("session %s: %w", sessionID, apperr.ErrSessionNotFound)
	}

	if sess.PaymentStatus != "paid" {
		return nil, fmt.Errorf("session %s is %s: %w", sessionID, sess.PaymentStatus, apperr.ErrPaymentIncomplete)
	}

	now := time.Now()
	result := &ReconcileResult{}

	packageID, perr := strconv.ParseInt(sess.Metadata["packageId"], 10, 64)
	if perr != nil {
		s.logger.Warn("Session metadata carries no usable packageId",
			zap.String("session_id", sessionID))
	} else {
		updated, err := s.store.MarkPackagePaid(ctx, packageID, now)
		if err != nil {
			return nil, fmt.Errorf("failed to mark package paid: %w", err)
		}
		result.PackageUpdated = updated
		if !updated {
			// Reported but non-fatal: the payment record is still written.
			s.logger.Warn("Package referenced by session metadata not found",
				zap.Int64("package_id", packageID),
				zap.String("session_id", sessionID))
		}
	}

	existing, err := s.store.GetPaymentByTransactionID(ctx, sess.PaymentIntentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing payment: %w", err)
	}
	if existing != nil {
		util.PaymentsDuplicateTotal.Inc()
		s.logger.Info("Session already reconciled",
			zap.String("transaction_id", sess.PaymentIntentID))
		result.Payment = existing
		return result, nil
	}

	employeeLimit, _ := strconv.Atoi(sess.Metadata["employeeLimit"])
	payment := &models.Payment{
		TransactionID: sess.PaymentIntentID,
		HrEmail:       sess.CustomerEmail,
		PackageID:     packageID,
		PackageName:   sess.Metadata["packageName"],
		EmployeeLimit: employeeLimit,
		Amount:        sess.AmountTotal,
		Currency:      sess.Currency,
		PaidAt:        now,
	}

	if err := s.store.CreatePayment(ctx, payment); err != nil {
		if errors.Is(err, apperr.ErrDuplicate) {
			// A concurrent reconcile of the same session won the insert.
			winner, werr := s.store.GetPaymentByTransactionID(ctx, sess.PaymentIntentID)
			if werr != nil {
				return nil, fmt.Errorf("failed to load winning payment: %w", werr)
			}
			util.PaymentsDuplicateTotal.Inc()
			result.Payment = winner
			return result, nil
		}
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	util.PaymentsReconciledTotal.Inc()
	s.logger.Info("Payment reconciled",
		zap.Int64("payment_id", payment.ID),
		zap.String("transaction_id", payment.TransactionID),
		zap.Int64("amount", payment.Amount))

	if s.events != nil {
		event := &models.PaymentReconciledEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypePaymentReconciled,
				Timestamp: time.Now(),
			},
			PaymentID:     payment.ID,
			TransactionID: payment.TransactionID,
			PackageID:     payment.PackageID,
			HrEmail:       payment.HrEmail,
			Amount:        payment.Amount,
			Currency:      payment.Currency,
		}
		if err := s.events.PublishPaymentReconciled(ctx, event); err != nil {
			s.logger.Error("Failed to publish PaymentReconciled event", zap.Error(err))
		}
	}

	result.Payment = payment
	return result, nil
}

// GetPackage retrieves a package by ID
func (s *PaymentService) GetPackage(ctx context.Context, packageID int64) (*models.Package, error) {
	return s.store.GetPackageByID(ctx, packageID)
}

// ListPackages retrieves packages, optionally scoped to one owner
func (s *PaymentService) ListPackages(ctx context.Context, ownerEmail string) ([]models.Package, error) {
	return s.store.ListPackages(ctx, ownerEmail)
}

// AddPackage registers a package for an owner; one package name per owner
func (s *PaymentService) AddPackage(ctx context.Context, pkg *models.Package) error {
	exists, err := s.store.PackageExists(ctx, pkg.OwnerEmail, pkg.PackageName)
	if err != nil {
		return fmt.Errorf("failed to check for existing package: %w", err)
	}
	if exists {
		return fmt.Errorf("package %s for %s: %w", pkg.PackageName, pkg.OwnerEmail, apperr.ErrDuplicate)
	}

	if pkg.PaymentStatus == "" {
		pkg.PaymentStatus = models.PackageStatusPending
	}
	pkg.TrackingID = newTrackingID()

	if err := s.store.CreatePackage(ctx, pkg); err != nil {
		return fmt.Errorf("failed to create package: %w", err)
	}
	return nil
}

// ListPayments retrieves payments, optionally scoped to one HR manager
func (s *PaymentService) ListPayments(ctx context.Context, hrEmail string) ([]models.Payment, error) {
	return s.store.ListPaymentsByEmail(ctx, hrEmail)
}

func newTrackingID() string {
	return fmt.Sprintf("TRK-%s", uuid.New().String()[:8])
}

package service

import (
	"context"
	"crypto/sha512"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"

	"dream-journal-be/internal/dto"
	"dream-journal-be/internal/entity"
	"dream-journal-be/internal/pkg/apperror"
	"dream-journal-be/internal/pkg/logger"
	"dream-journal-be/internal/repository/specification"
	"dream-journal-be/internal/repository/unitofwork"
	"dream-journal-be/pkg/events"
	pkgNats "dream-journal-be/pkg/nats"
)

type IPaymentService interface {
	Checkout(ctx context.Context, userId uuid.UUID, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error)
	HandleNotification(ctx context.Context, req *dto.MidtransWebhookRequest) error
}

type paymentService struct {
	uowFactory          unitofwork.RepositoryFactory
	subscriptionService ISubscriptionService
	eventPublisher      *pkgNats.Publisher
	log                 logger.ILogger
}

func NewPaymentService(uowFactory unitofwork.RepositoryFactory, subscriptionService ISubscriptionService, eventPublisher *pkgNats.Publisher, log logger.ILogger) IPaymentService {
	return &paymentService{
		uowFactory:          uowFactory,
		subscriptionService: subscriptionService,
		eventPublisher:      eventPublisher,
		log:                 log,
	}
}

func planPrice(plan entity.SubscriptionType) int64 {
	if plan == entity.SubscriptionTypeYearly {
		return entity.ProYearlyPriceRUB
	}
	return entity.ProMonthlyPriceRUB
}

func planPeriodEnd(plan entity.SubscriptionType, from time.Time) time.Time {
	if plan == entity.SubscriptionTypeYearly {
		return from.AddDate(1, 0, 0)
	}
	return from.AddDate(0, 1, 0)
}

func (s *paymentService) Checkout(ctx context.Context, userId uuid.UUID, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	plan := entity.SubscriptionType(req.Plan)
	if plan != entity.SubscriptionTypePro && plan != entity.SubscriptionTypeYearly {
		return nil, apperror.Validation("plan", "unknown plan")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("user")
	}

	now := time.Now()
	subId := uuid.New()
	orderId := subId.String()
	sub := &entity.Subscription{
		Id:                 subId,
		UserId:             userId,
		Type:               plan,
		Status:             entity.SubscriptionStatusExpired,
		PaymentStatus:      entity.PaymentStatusPending,
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   now,
		MidtransOrderId:    &orderId,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := uow.SubscriptionRepository().Create(ctx, sub); err != nil {
		return nil, err
	}

	var sClient snap.Client
	env := midtrans.Sandbox
	if os.Getenv("MIDTRANS_IS_PRODUCTION") == "true" {
		env = midtrans.Production
	}
	sClient.New(os.Getenv("MIDTRANS_SERVER_KEY"), env)

	frontendURL := os.Getenv("FRONTEND_URL")
	finishRedirectURL := fmt.Sprintf("%s/app?payment=success", frontendURL)

	snapReq := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  orderId,
			GrossAmt: planPrice(plan),
		},
		CreditCard: &snap.CreditCardDetails{
			Secure: true,
		},
		Callbacks: &snap.Callbacks{
			Finish: finishRedirectURL,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: user.FullName,
			Email: user.Email,
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:    string(plan),
				Price: planPrice(plan),
				Qty:   1,
				Name:  fmt.Sprintf("DreamJournal %s plan", plan),
			},
		},
		EnabledPayments: snap.AllSnapPaymentType,
	}

	snapResp, midErr := sClient.CreateTransaction(snapReq)
	if midErr != nil {
		return nil, fmt.Errorf("midtrans error: %v", midErr.GetMessage())
	}

	s.log.Info("payment", "checkout created", map[string]interface{}{
		"user_id":  userId.String(),
		"order_id": orderId,
		"plan":     string(plan),
	})

	return &dto.CheckoutResponse{
		OrderId:     orderId,
		RedirectURL: snapResp.RedirectURL,
		Token:       snapResp.Token,
	}, nil
}

func (s *paymentService) HandleNotification(ctx context.Context, req *dto.MidtransWebhookRequest) error {
	serverKey := os.Getenv("MIDTRANS_SERVER_KEY")
	if serverKey == "" {
		return fmt.Errorf("server configuration error")
	}

	// Midtrans signature = SHA512(order_id + status_code + gross_amount + server_key)
	signatureInput := req.OrderId + req.StatusCode + req.GrossAmount + serverKey
	expectedSignature := fmt.Sprintf("%x", sha512.Sum512([]byte(signatureInput)))
	if req.SignatureKey != expectedSignature {
		s.log.Warn("payment", "webhook signature mismatch", map[string]interface{}{
			"order_id": req.OrderId,
		})
		return apperror.Unauthorized("invalid signature")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	sub, err := uow.SubscriptionRepository().FindByOrderId(ctx, req.OrderId)
	if err != nil {
		return err
	}
	if sub == nil {
		return apperror.NotFound("subscription")
	}

	switch req.TransactionStatus {
	case "capture", "settlement":
		if sub.PaymentStatus == entity.PaymentStatusPaid {
			// Midtrans retries notifications; the first settlement wins.
			return nil
		}
		now := time.Now()
		sub.Status = entity.SubscriptionStatusActive
		sub.PaymentStatus = entity.PaymentStatusPaid
		sub.CurrentPeriodStart = now
		sub.CurrentPeriodEnd = planPeriodEnd(sub.Type, now)
		if req.TransactionId != "" {
			txId := req.TransactionId
			sub.MidtransTransactionId = &txId
		}
		sub.UpdatedAt = now
		if err := uow.SubscriptionRepository().Update(ctx, sub); err != nil {
			return err
		}
		s.subscriptionService.InvalidatePolicy(sub.UserId)
		if s.eventPublisher != nil {
			evt := events.NewSubscriptionActivated(sub.UserId, string(sub.Type), sub.CurrentPeriodEnd)
			if pubErr := s.eventPublisher.Publish(ctx, evt); pubErr != nil {
				s.log.Warn("payment", "failed to publish activation event", map[string]interface{}{
					"order_id": req.OrderId,
					"error":    pubErr.Error(),
				})
			}
		}
		s.log.Info("payment", "subscription activated", map[string]interface{}{
			"user_id":  sub.UserId.String(),
			"order_id": req.OrderId,
			"plan":     string(sub.Type),
		})
	case "deny", "cancel", "expire":
		sub.PaymentStatus = entity.PaymentStatusFailed
		sub.Status = entity.SubscriptionStatusExpired
		sub.UpdatedAt = time.Now()
		if err := uow.SubscriptionRepository().Update(ctx, sub); err != nil {
			return err
		}
	case "pending":
		// Nothing to do until the payment resolves.
	default:
		s.log.Warn("payment", "unknown transaction status", map[string]interface{}{
			"order_id": req.OrderId,
			"status":   req.TransactionStatus,
		})
	}

	return nil
}

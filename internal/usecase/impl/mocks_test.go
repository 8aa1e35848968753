package impl

import (
	"context"
	"io"
	"log/slog"
	"time"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Hand-rolled testify doubles for the repository and service interfaces the
// services under test depend on.

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockUserRepository struct{ mock.Mock }

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *mockUserRepository) Create(ctx context.Context, user *entity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepository) Update(ctx context.Context, user *entity.User) error {
	return m.Called(ctx, user).Error(0)
}

type mockRoleGrantRepository struct{ mock.Mock }

func (m *mockRoleGrantRepository) HasGrant(ctx context.Context, userID uuid.UUID, role entity.Role) (bool, error) {
	args := m.Called(ctx, userID, role)

	return args.Bool(0), args.Error(1)
}

type mockProductRepository struct{ mock.Mock }

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Product), args.Error(1)
}

func (m *mockProductRepository) List(ctx context.Context, filter repository.ProductFilter) ([]*entity.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.Product), args.Error(1)
}

func (m *mockProductRepository) Create(ctx context.Context, product *entity.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *mockProductRepository) Update(ctx context.Context, product *entity.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *mockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockProductRepository) ReserveStock(ctx context.Context, id uuid.UUID, qty int) error {
	return m.Called(ctx, id, qty).Error(0)
}

func (m *mockProductRepository) ReleaseStock(ctx context.Context, id uuid.UUID, qty int) error {
	return m.Called(ctx, id, qty).Error(0)
}

func (m *mockProductRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta int) error {
	return m.Called(ctx, id, delta).Error(0)
}

func (m *mockProductRepository) UpdateAverageRating(ctx context.Context, id uuid.UUID, average float64) error {
	return m.Called(ctx, id, average).Error(0)
}

type mockCartRepository struct{ mock.Mock }

func (m *mockCartRepository) FindLine(ctx context.Context, userID, productID uuid.UUID) (*entity.CartLine, error) {
	args := m.Called(ctx, userID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.CartLine), args.Error(1)
}

func (m *mockCartRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.CartLine, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.CartLine), args.Error(1)
}

func (m *mockCartRepository) Create(ctx context.Context, line *entity.CartLine) error {
	return m.Called(ctx, line).Error(0)
}

func (m *mockCartRepository) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity int) error {
	return m.Called(ctx, id, quantity).Error(0)
}

func (m *mockCartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCartRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

type mockPurchaseRepository struct{ mock.Mock }

func (m *mockPurchaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Purchase, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Purchase), args.Error(1)
}

func (m *mockPurchaseRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.Purchase, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.Purchase), args.Error(1)
}

func (m *mockPurchaseRepository) ListByOrder(ctx context.Context, orderID string) ([]*entity.Purchase, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.Purchase), args.Error(1)
}

func (m *mockPurchaseRepository) Create(ctx context.Context, purchase *entity.Purchase) error {
	return m.Called(ctx, purchase).Error(0)
}

func (m *mockPurchaseRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.DeliveryStatus, deliveredAt *time.Time) error {
	return m.Called(ctx, id, status, deliveredAt).Error(0)
}

func (m *mockPurchaseRepository) UpdateRefundStatus(ctx context.Context, id uuid.UUID, status entity.RefundStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockPurchaseRepository) ExistsByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, productID)

	return args.Bool(0), args.Error(1)
}

type mockRefundRequestRepository struct{ mock.Mock }

func (m *mockRefundRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.RefundRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.RefundRequest), args.Error(1)
}

func (m *mockRefundRequestRepository) HasPendingForPurchase(ctx context.Context, purchaseID uuid.UUID) (bool, error) {
	args := m.Called(ctx, purchaseID)

	return args.Bool(0), args.Error(1)
}

func (m *mockRefundRequestRepository) ListByStatus(ctx context.Context, status entity.RefundRequestStatus) ([]*entity.RefundRequest, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.RefundRequest), args.Error(1)
}

func (m *mockRefundRequestRepository) Create(ctx context.Context, request *entity.RefundRequest) error {
	return m.Called(ctx, request).Error(0)
}

func (m *mockRefundRequestRepository) Update(ctx context.Context, request *entity.RefundRequest) error {
	return m.Called(ctx, request).Error(0)
}

type mockReviewRepository struct{ mock.Mock }

func (m *mockReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Review), args.Error(1)
}

func (m *mockReviewRepository) FindByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*entity.Review, error) {
	args := m.Called(ctx, userID, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*entity.Review), args.Error(1)
}

func (m *mockReviewRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*entity.Review, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.Review), args.Error(1)
}

func (m *mockReviewRepository) Create(ctx context.Context, review *entity.Review) error {
	return m.Called(ctx, review).Error(0)
}

func (m *mockReviewRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.ReviewStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

type mockWishlistRepository struct{ mock.Mock }

func (m *mockWishlistRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.WishlistItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.WishlistItem), args.Error(1)
}

func (m *mockWishlistRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*entity.WishlistItem, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*entity.WishlistItem), args.Error(1)
}

func (m *mockWishlistRepository) Create(ctx context.Context, item *entity.WishlistItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *mockWishlistRepository) Delete(ctx context.Context, userID, productID uuid.UUID) error {
	return m.Called(ctx, userID, productID).Error(0)
}

type mockPasswordHasher struct{ mock.Mock }

func (m *mockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)

	return args.String(0), args.Error(1)
}

func (m *mockPasswordHasher) Check(password, hash string) bool {
	return m.Called(password, hash).Bool(0)
}

type mockTokenService struct{ mock.Mock }

func (m *mockTokenService) Issue(userID uuid.UUID, email string, role entity.Role, remember bool) (string, error) {
	args := m.Called(userID, email, role, remember)

	return args.String(0), args.Error(1)
}

func (m *mockTokenService) IssueResetToken(userID uuid.UUID, email string) (string, error) {
	args := m.Called(userID, email)

	return args.String(0), args.Error(1)
}

func (m *mockTokenService) VerifyAny(token string, chain service.SecretChain) (*service.TokenClaims, error) {
	args := m.Called(token, chain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*service.TokenClaims), args.Error(1)
}

func (m *mockTokenService) VerifyResetToken(token string) (*service.TokenClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*service.TokenClaims), args.Error(1)
}

type mockMailSender struct{ mock.Mock }

func (m *mockMailSender) Send(ctx context.Context, to, subject, body, htmlBody string) error {
	return m.Called(ctx, to, subject, body, htmlBody).Error(0)
}

type mockReceiptRenderer struct{ mock.Mock }

func (m *mockReceiptRenderer) Render(data service.ReceiptData) ([]byte, error) {
	args := m.Called(data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]byte), args.Error(1)
}

// stubRepositoryFactory hands back the same mocks the service under test
// already holds, so expectations set on them also cover transactional calls.
type stubRepositoryFactory struct {
	userRepo     repository.UserRepository
	productRepo  repository.ProductRepository
	purchaseRepo repository.PurchaseRepository
	refundRepo   repository.RefundRequestRepository
	cartRepo     repository.CartRepository
}

func (f *stubRepositoryFactory) NewUserRepository() repository.UserRepository { return f.userRepo }

func (f *stubRepositoryFactory) NewProductRepository() repository.ProductRepository {
	return f.productRepo
}

func (f *stubRepositoryFactory) NewPurchaseRepository() repository.PurchaseRepository {
	return f.purchaseRepo
}

func (f *stubRepositoryFactory) NewRefundRequestRepository() repository.RefundRequestRepository {
	return f.refundRepo
}

func (f *stubRepositoryFactory) NewCartRepository() repository.CartRepository { return f.cartRepo }

// stubTxManager runs the callback immediately against the stub factory.
// Commit/rollback semantics are exercised in the persistence layer, not here.
type stubTxManager struct {
	factory *stubRepositoryFactory
}

func (m *stubTxManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(m.factory)
}

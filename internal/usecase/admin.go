package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/techdetails/storefront-api/internal/model"
	"github.com/techdetails/storefront-api/internal/repository"
	"github.com/techdetails/storefront-api/shared/security"
)

// AdminUsecase defines back-office user management and dashboard stats.
type AdminUsecase interface {
	ListUsers(ctx context.Context, params repository.FilterUsersParams) ([]*model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)

	// UpdateUser patches name, email, and password only. Role changes are
	// a separate, explicitly guarded operation.
	UpdateUser(ctx context.Context, id string, params AdminUpdateUserParams) (*model.User, error)

	// GrantAdmin elevates a user to the admin role. This is the only way a
	// role changes after creation.
	GrantAdmin(ctx context.Context, id string) (*model.User, error)

	// DeleteUser removes a user. Admins cannot delete themselves.
	DeleteUser(ctx context.Context, actorID, id string) error

	Stats(ctx context.Context) (*DashboardStats, error)

	// BootstrapAdmins ensures the configured admin emails exist with the
	// admin role. Runs once at provisioning time.
	BootstrapAdmins(ctx context.Context, emails []string, defaultPassword string) error
}

// AdminUpdateUserParams defines the restricted field set an admin may patch
// on a user. A non-nil Password is re-hashed before storage, never stored
// raw.
type AdminUpdateUserParams struct {
	Name     *string
	Email    *string
	Password *string
}

// DashboardStats summarizes the back-office dashboard numbers.
type DashboardStats struct {
	TotalOrders    int64   `json:"totalOrders"`
	RecentOrders   int64   `json:"recentOrders"`
	TotalRevenue   float64 `json:"totalRevenue"`
	TotalProducts  int64   `json:"totalProducts"`
	LowStockCount  int64   `json:"lowStockProducts"`
	TotalCustomers int64   `json:"totalCustomers"`
}

// ErrSelfDeletion is returned when an admin tries to delete their own
// account.
var ErrSelfDeletion = errors.New("cannot delete your own account")

const lowStockThreshold = 10

type adminUsecase struct {
	userRepo    repository.UserRepository
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
	logger      *zerolog.Logger
}

// NewAdminUsecase creates a new instance of AdminUsecase.
func NewAdminUsecase(
	userRepo repository.UserRepository,
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	logger *zerolog.Logger,
) AdminUsecase {
	return &adminUsecase{
		userRepo:    userRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		logger:      logger,
	}
}

func (u *adminUsecase) ListUsers(
	ctx context.Context,
	params repository.FilterUsersParams,
) ([]*model.User, error) {
	return u.userRepo.ListUsers(ctx, params)
}

func (u *adminUsecase) GetUser(ctx context.Context, id string) (*model.User, error) {
	user, err := u.userRepo.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return user, nil
}

func (u *adminUsecase) UpdateUser(
	ctx context.Context,
	id string,
	params AdminUpdateUserParams,
) (*model.User, error) {
	updateParams := repository.UpdateUserParams{
		Name: params.Name,
	}

	if params.Email != nil {
		normalized := NormalizeEmail(*params.Email)
		updateParams.Email = &normalized
	}

	if params.Password != nil {
		passwordHash, err := security.HashPassword(*params.Password)
		if err != nil {
			return nil, err
		}
		updateParams.PasswordHash = &passwordHash
	}

	user, err := u.userRepo.UpdateUser(ctx, id, updateParams)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}

	return user, nil
}

func (u *adminUsecase) GrantAdmin(ctx context.Context, id string) (*model.User, error) {
	user, err := u.userRepo.UpdateRole(ctx, id, model.RoleAdmin)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	u.logger.Info().Str("user_id", id).Msg("admin role granted")

	return user, nil
}

func (u *adminUsecase) DeleteUser(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return ErrSelfDeletion
	}

	if _, err := u.userRepo.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrUserNotFound
		}
		return err
	}

	return nil
}

func (u *adminUsecase) Stats(ctx context.Context) (*DashboardStats, error) {
	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)

	totalOrders, err := u.orderRepo.CountOrders(ctx)
	if err != nil {
		return nil, err
	}

	recentOrders, err := u.orderRepo.CountOrdersSince(ctx, thirtyDaysAgo)
	if err != nil {
		return nil, err
	}

	totalRevenue, err := u.orderRepo.TotalRevenue(ctx)
	if err != nil {
		return nil, err
	}

	totalProducts, err := u.productRepo.CountProducts(ctx)
	if err != nil {
		return nil, err
	}

	lowStock, err := u.productRepo.CountLowStock(ctx, lowStockThreshold)
	if err != nil {
		return nil, err
	}

	totalCustomers, err := u.userRepo.CountUsersByRole(ctx, model.RoleUser)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		TotalOrders:    totalOrders,
		RecentOrders:   recentOrders,
		TotalRevenue:   totalRevenue,
		TotalProducts:  totalProducts,
		LowStockCount:  lowStock,
		TotalCustomers: totalCustomers,
	}, nil
}

func (u *adminUsecase) BootstrapAdmins(ctx context.Context, emails []string, defaultPassword string) error {
	for _, email := range emails {
		normalized := NormalizeEmail(email)
		if normalized == "" {
			continue
		}

		existing, err := u.userRepo.GetUserByEmail(ctx, normalized)
		if err == nil {
			if existing.IsAdmin() {
				continue
			}

			if _, err := u.userRepo.UpdateRole(ctx, existing.ID.Hex(), model.RoleAdmin); err != nil {
				return err
			}

			u.logger.Info().Str("email", normalized).Msg("existing user elevated to admin")
			continue
		}

		if !errors.Is(err, mongo.ErrNoDocuments) {
			return err
		}

		passwordHash, err := security.HashPassword(defaultPassword)
		if err != nil {
			return err
		}

		if _, err := u.userRepo.CreateUser(ctx, &model.User{
			Name:         fmt.Sprintf("Admin (%s)", normalized),
			Email:        normalized,
			PasswordHash: passwordHash,
			Role:         model.RoleAdmin,
		}); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				continue
			}
			return err
		}

		u.logger.Info().Str("email", normalized).Msg("admin user created")
	}

	return nil
}

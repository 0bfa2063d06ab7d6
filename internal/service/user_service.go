package service

import (
	"context"

	"fanjoy-backend/internal/errors"
	"fanjoy-backend/internal/model"
	"fanjoy-backend/internal/repository/interfaces"
	"fanjoy-backend/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserServiceInterface 创作者账户服务接口
type UserServiceInterface interface {
	Register(ctx context.Context, email, password, displayName string) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.User, error)
	GetUserByUID(ctx context.Context, uid string) (*model.User, error)
	UpdateDisplayName(ctx context.Context, uid, displayName string) (*model.User, error)
	ConnectPrintify(ctx context.Context, uid, apiKey, shopID string) (*model.User, error)
	ConnectStripe(ctx context.Context, uid, stripeAccountID string) (*model.User, error)
}

type UserService struct {
	userRepo interfaces.UserRepository
}

// 确保 UserService 实现了 UserServiceInterface
var _ UserServiceInterface = (*UserService)(nil)

func NewUserService(userRepo interfaces.UserRepository) *UserService {
	return &UserService{userRepo}
}

// Register 注册创作者账户
func (s *UserService) Register(ctx context.Context, email, password, displayName string) (*model.User, error) {
	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, errors.Wrap(errors.ErrStore, "查询创作者失败", err)
	}
	if existing != nil {
		return nil, errors.New(errors.ErrCreatorExists, "邮箱已被注册")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternal, "密码哈希失败", err)
	}

	user := &model.User{
		UID:          uuid.New().String(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: string(hashedPassword),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, errors.Wrap(errors.ErrStore, "创建创作者账户失败", err)
	}

	util.Logger.Info("创作者注册成功", zap.String("uid", user.UID), zap.String("email", email))
	return user, nil
}

// Login 校验邮箱和密码
func (s *UserService) Login(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, errors.Wrap(errors.ErrStore, "查询创作者失败", err)
	}
	if user == nil {
		return nil, errors.New(errors.ErrInvalidCredentials, "邮箱或密码错误")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errors.New(errors.ErrInvalidCredentials, "邮箱或密码错误")
	}
	return user, nil
}

func (s *UserService) GetUserByUID(ctx context.Context, uid string) (*model.User, error) {
	user, err := s.userRepo.FindByUID(ctx, uid)
	if err != nil {
		return nil, errors.Wrap(errors.ErrStore, "查询创作者失败", err)
	}
	if user == nil {
		return nil, errors.New(errors.ErrCreatorNotFound, "Creator not found")
	}
	return user, nil
}

// UpdateDisplayName 更新展示名称
func (s *UserService) UpdateDisplayName(ctx context.Context, uid, displayName string) (*model.User, error) {
	user, err := s.GetUserByUID(ctx, uid)
	if err != nil {
		return nil, err
	}

	user.DisplayName = displayName
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, errors.Wrap(errors.ErrStore, "更新创作者账户失败", err)
	}
	return user, nil
}

// ConnectPrintify 绑定 Printify 商店
func (s *UserService) ConnectPrintify(ctx context.Context, uid, apiKey, shopID string) (*model.User, error) {
	user, err := s.GetUserByUID(ctx, uid)
	if err != nil {
		return nil, err
	}

	user.PrintifyAPIKey = apiKey
	user.PrintifyShopID = shopID
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, errors.Wrap(errors.ErrStore, "绑定 Printify 失败", err)
	}

	util.Logger.Info("创作者绑定 Printify 成功", zap.String("uid", uid), zap.String("shop_id", shopID))
	return user, nil
}

// ConnectStripe 绑定收款账户
func (s *UserService) ConnectStripe(ctx context.Context, uid, stripeAccountID string) (*model.User, error) {
	user, err := s.GetUserByUID(ctx, uid)
	if err != nil {
		return nil, err
	}

	user.StripeAccountID = stripeAccountID
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, errors.Wrap(errors.ErrStore, "绑定收款账户失败", err)
	}

	util.Logger.Info("创作者绑定收款账户成功", zap.String("uid", uid))
	return user, nil
}

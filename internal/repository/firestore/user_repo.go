package firestore

import (
	"context"
	"time"

	"fanjoy-backend/internal/model"
	"fanjoy-backend/internal/util"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const usersCollection = "users"

type UserRepository struct {
	client *firestore.Client
}

func NewUserRepository(client *firestore.Client) *UserRepository {
	return &UserRepository{client}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.client.Collection(usersCollection).Doc(user.UID).Set(ctx, user)
	if err != nil {
		util.Logger.Error("创建创作者账户失败", zap.Error(err), zap.String("uid", user.UID))
		return err
	}

	util.Logger.Info("创作者账户创建成功", zap.String("uid", user.UID), zap.String("email", user.Email))
	return nil
}

func (r *UserRepository) FindByUID(ctx context.Context, uid string) (*model.User, error) {
	doc, err := r.client.Collection(usersCollection).Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, err
	}

	var user model.User
	if err := doc.DataTo(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	iter := r.client.Collection(usersCollection).
		Where("email", "==", email).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var user model.User
	if err := doc.DataTo(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Update(ctx context.Context, user *model.User) error {
	user.UpdatedAt = time.Now()

	_, err := r.client.Collection(usersCollection).Doc(user.UID).Set(ctx, user)
	if err != nil {
		util.Logger.Error("更新创作者账户失败", zap.Error(err), zap.String("uid", user.UID))
		return err
	}
	return nil
}

package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"EventMap-App/internal/domain/repository"
)

// LikesUseCase イベントへのいいね・いいね解除を提供する
type LikesUseCase interface {
	// LikeEvent 閲覧者がイベントをいいねする
	LikeEvent(ctx context.Context, viewerID, eventID string) error

	// UnlikeEvent 閲覧者がいいねを取り消す
	UnlikeEvent(ctx context.Context, viewerID, eventID string) error
}

// likesUseCaseImpl LikesUseCaseの実装
type likesUseCaseImpl struct {
	likedRepo repository.LikedEventsRepository
}

// NewLikesUseCase 新しいLikesUseCaseインスタンスを作成
func NewLikesUseCase(likedRepo repository.LikedEventsRepository) LikesUseCase {
	return &likesUseCaseImpl{likedRepo: likedRepo}
}

// LikeEvent いいねを記録する
func (u *likesUseCaseImpl) LikeEvent(ctx context.Context, viewerID, eventID string) error {
	if err := validateLikeIDs(viewerID, eventID); err != nil {
		return err
	}
	if err := u.likedRepo.Like(ctx, viewerID, eventID); err != nil {
		return fmt.Errorf("いいねの保存失敗: %w", err)
	}
	return nil
}

// UnlikeEvent いいねを取り消す
func (u *likesUseCaseImpl) UnlikeEvent(ctx context.Context, viewerID, eventID string) error {
	if err := validateLikeIDs(viewerID, eventID); err != nil {
		return err
	}
	if err := u.likedRepo.Unlike(ctx, viewerID, eventID); err != nil {
		return fmt.Errorf("いいねの取り消し失敗: %w", err)
	}
	return nil
}

// validateLikeIDs 閲覧者IDとイベントIDの形式チェック
func validateLikeIDs(viewerID, eventID string) error {
	if _, err := uuid.Parse(viewerID); err != nil {
		return fmt.Errorf("無効な閲覧者ID形式: %s", viewerID)
	}
	if _, err := uuid.Parse(eventID); err != nil {
		return fmt.Errorf("無効なイベントID形式: %s", eventID)
	}
	return nil
}

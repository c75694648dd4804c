package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"EventMap-App/internal/domain/repository"
)

// FirestoreLikedEventsRepository Firestoreを使ういいねリポジトリ
// userLikes/{viewerID}/events/{eventID} のドキュメント構成で保持する。
type FirestoreLikedEventsRepository struct {
	client *firestore.Client
}

// NewFirestoreLikedEventsRepository 新しいFirestoreLikedEventsRepositoryインスタンスを作成
func NewFirestoreLikedEventsRepository(client *firestore.Client) repository.LikedEventsRepository {
	return &FirestoreLikedEventsRepository{
		client: client,
	}
}

// likedEvents 閲覧者1人分のいいねコレクションへの参照
func (r *FirestoreLikedEventsRepository) likedEvents(viewerID string) *firestore.CollectionRef {
	return r.client.Collection("userLikes").Doc(viewerID).Collection("events")
}

// GetLikedEventIDs 閲覧者がいいね済みのイベントID集合を取得する
func (r *FirestoreLikedEventsRepository) GetLikedEventIDs(ctx context.Context, viewerID string) (map[string]bool, error) {
	liked := make(map[string]bool)

	iter := r.likedEvents(viewerID).Documents(ctx)
	defer iter.Stop()
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("いいね済みイベントの取得失敗: %w", err)
		}
		liked[doc.Ref.ID] = true
	}

	return liked, nil
}

// Like いいねを記録する（ドキュメントIDがイベントIDなので再いいねは上書きで冪等）
func (r *FirestoreLikedEventsRepository) Like(ctx context.Context, viewerID, eventID string) error {
	_, err := r.likedEvents(viewerID).Doc(eventID).Set(ctx, map[string]interface{}{
		"event_id": eventID,
		"liked_at": time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("いいねデータの作成失敗: %w", err)
	}

	return nil
}

// Unlike いいねを取り消す
func (r *FirestoreLikedEventsRepository) Unlike(ctx context.Context, viewerID, eventID string) error {
	_, err := r.likedEvents(viewerID).Doc(eventID).Delete(ctx)
	if err != nil {
		return fmt.Errorf("いいねデータの削除失敗: %w", err)
	}

	return nil
}

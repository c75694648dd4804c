package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"EventMap-App/internal/domain/repository"
	"EventMap-App/internal/infrastructure/database"
)

// SupabaseLikedEventsRepository Supabaseのevent_likesテーブルを使ういいねリポジトリ
type SupabaseLikedEventsRepository struct {
	client *database.SupabaseClient
}

// NewSupabaseLikedEventsRepository 新しいSupabaseLikedEventsRepositoryインスタンスを作成
func NewSupabaseLikedEventsRepository(client *database.SupabaseClient) repository.LikedEventsRepository {
	return &SupabaseLikedEventsRepository{
		client: client,
	}
}

// likeRow event_likesテーブルの1行
type likeRow struct {
	ID      string `json:"id"`
	UserID  string `json:"user_id"`
	EventID string `json:"event_id"`
}

// GetLikedEventIDs 閲覧者がいいね済みのイベントID集合を取得する
func (r *SupabaseLikedEventsRepository) GetLikedEventIDs(ctx context.Context, viewerID string) (map[string]bool, error) {
	var rows []likeRow
	data, count, err := r.client.GetClient().From("event_likes").
		Select("event_id", "exact", false).
		Eq("user_id", viewerID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("いいね済みイベントの取得失敗: %w", err)
	}
	_ = count

	if err := json.Unmarshal([]byte(data), &rows); err != nil {
		return nil, fmt.Errorf("いいね済みイベントのJSONアンマーシャル失敗: %w", err)
	}

	liked := make(map[string]bool, len(rows))
	for _, row := range rows {
		liked[row.EventID] = true
	}

	return liked, nil
}

// Like いいねを記録する（既にいいね済みの場合は何もしない）
func (r *SupabaseLikedEventsRepository) Like(ctx context.Context, viewerID, eventID string) error {
	existing, err := r.GetLikedEventIDs(ctx, viewerID)
	if err != nil {
		return err
	}
	if existing[eventID] {
		return nil
	}

	row := likeRow{
		ID:      uuid.New().String(),
		UserID:  viewerID,
		EventID: eventID,
	}
	data, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("いいねデータのJSONマーシャル失敗: %w", err)
	}

	_, _, err = r.client.GetClient().From("event_likes").Insert(string(data), false, "", "", "").Execute()
	if err != nil {
		return fmt.Errorf("いいねデータの作成失敗: %w", err)
	}

	return nil
}

// Unlike いいねを取り消す
func (r *SupabaseLikedEventsRepository) Unlike(ctx context.Context, viewerID, eventID string) error {
	_, _, err := r.client.GetClient().From("event_likes").
		Delete("", "").
		Eq("user_id", viewerID).
		Eq("event_id", eventID).
		Execute()
	if err != nil {
		return fmt.Errorf("いいねデータの削除失敗: %w", err)
	}

	return nil
}

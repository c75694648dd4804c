package auth

import (
	"context"
	"fmt"

	"EventMap-App/internal/domain/repository"
	"EventMap-App/internal/infrastructure/database"
)

// SupabaseViewerResolver Supabase Authのアクセストークンから閲覧者IDを解決する
type SupabaseViewerResolver struct {
	client *database.SupabaseClient
}

// NewSupabaseViewerResolver 新しいSupabaseViewerResolverインスタンスを作成
func NewSupabaseViewerResolver(client *database.SupabaseClient) repository.ViewerResolver {
	return &SupabaseViewerResolver{
		client: client,
	}
}

// ResolveViewerID アクセストークンを検証して認証済みユーザーIDを返す
func (r *SupabaseViewerResolver) ResolveViewerID(ctx context.Context, accessToken string) (string, error) {
	if accessToken == "" {
		return "", fmt.Errorf("アクセストークンが指定されていません")
	}

	user, err := r.client.GetClient().Auth.WithToken(accessToken).GetUser()
	if err != nil {
		return "", fmt.Errorf("閲覧者の解決失敗: %w", err)
	}

	return user.ID.String(), nil
}

package repository

import "context"

// ViewerResolver アクセストークンから閲覧者の認証済みIDを解決する
// 解決に失敗したリクエストは匿名として扱われる（リクエスト全体は失敗させない）。
type ViewerResolver interface {
	ResolveViewerID(ctx context.Context, accessToken string) (string, error)
}

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"EventMap-App/internal/domain/repository"
	"EventMap-App/internal/handler"
	"EventMap-App/internal/infrastructure/auth"
	"EventMap-App/internal/infrastructure/database"
	fsinfra "EventMap-App/internal/infrastructure/firestore"
	repoImpl "EventMap-App/internal/repository"
	"EventMap-App/internal/usecase"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found, using system environment variables")
	}

	supabaseURL := os.Getenv("SUPABASE_URL")
	supabaseAnonKey := os.Getenv("SUPABASE_ANON_KEY")

	if supabaseURL == "" || supabaseAnonKey == "" {
		fmt.Println("⚠️  環境変数が設定されていません:")
		fmt.Println("必要な環境変数: SUPABASE_URL, SUPABASE_ANON_KEY")
		fmt.Println("任意の環境変数: SUPABASE_DB_PASSWORD, FIRESTORE_PROJECT_ID, MAP_STORE, PORT")
		fmt.Println("\n.envファイルを作成するか、環境変数を設定してください")
		log.Fatal("Environment variables not set")
	}

	ctx := context.Background()

	fmt.Println("Initializing Supabase client...")
	supabaseClient, err := database.NewSupabaseClient()
	if err != nil {
		log.Fatalf("Supabaseクライアント初期化失敗: %v", err)
	}
	if err := supabaseClient.HealthCheck(); err != nil {
		log.Fatalf("Supabaseヘルスチェック失敗: %v", err)
	}
	fmt.Println("✅ Supabase connection successful!")

	// 地図クエリ用のイベントストアを選択
	// PostgreSQL直接接続が使える場合はJOINを1クエリで発行できるためそちらを優先する
	eventsRepo := buildMapEventsRepository(supabaseClient)

	// いいねストアを選択（FirestoreプロジェクトIDがあればFirestore、なければSupabase）
	likedRepo := buildLikedEventsRepository(ctx, supabaseClient)

	viewerResolver := auth.NewSupabaseViewerResolver(supabaseClient)

	mapUseCase := usecase.NewMapQueryUseCase(eventsRepo, likedRepo)
	likesUseCase := usecase.NewLikesUseCase(likedRepo)

	mapHandler := handler.NewMapEventsHandler(mapUseCase, viewerResolver)
	likesHandler := handler.NewLikesHandler(likesUseCase, viewerResolver)

	r := gin.Default()

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "EventMap-App"})
	})

	r.GET("/api/map/events", mapHandler.GetMapEvents)
	r.POST("/api/events/:id/like", likesHandler.PostLike)
	r.DELETE("/api/events/:id/like", likesHandler.DeleteLike)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	fmt.Printf("EventMap-App server starting on :%s...\n", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("サーバーの起動に失敗: %v", err)
	}
}

// buildMapEventsRepository 環境変数に応じて地図クエリ用リポジトリを構築する
func buildMapEventsRepository(supabaseClient *database.SupabaseClient) repository.MapEventsRepository {
	if os.Getenv("MAP_STORE") == "supabase" || os.Getenv("SUPABASE_DB_PASSWORD") == "" {
		fmt.Println("Using PostgREST for map event queries")
		return repoImpl.NewSupabaseMapEventsRepository(supabaseClient)
	}

	pgClient, err := database.NewPostgreSQLClient()
	if err != nil {
		log.Printf("⚠️ PostgreSQL接続に失敗したためPostgRESTへフォールバックします: %v", err)
		return repoImpl.NewSupabaseMapEventsRepository(supabaseClient)
	}

	fmt.Println("Using direct PostgreSQL for map event queries")
	return repoImpl.NewPostgresMapEventsRepository(pgClient)
}

// buildLikedEventsRepository 環境変数に応じていいねリポジトリを構築する
func buildLikedEventsRepository(ctx context.Context, supabaseClient *database.SupabaseClient) repository.LikedEventsRepository {
	projectID := os.Getenv("FIRESTORE_PROJECT_ID")
	if projectID == "" {
		fmt.Println("Using Supabase for liked events storage")
		return repoImpl.NewSupabaseLikedEventsRepository(supabaseClient)
	}

	fsClient, err := fsinfra.NewFirestoreClient(ctx, projectID)
	if err != nil {
		log.Printf("⚠️ Firestore初期化に失敗したためSupabaseへフォールバックします: %v", err)
		return repoImpl.NewSupabaseLikedEventsRepository(supabaseClient)
	}

	fmt.Println("Using Firestore for liked events storage")
	return repoImpl.NewFirestoreLikedEventsRepository(fsClient.GetClient())
}

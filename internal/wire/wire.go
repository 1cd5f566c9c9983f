package wire

import (
	"InstaGraph/internal/api"
	"InstaGraph/internal/api/config"
	"InstaGraph/internal/api/handler"
	"InstaGraph/internal/api/middleware"
	"InstaGraph/internal/job"
	"InstaGraph/internal/pkg/cron"
	"InstaGraph/internal/pkg/es"
	"InstaGraph/internal/pkg/graph"
	"InstaGraph/internal/pkg/kafka"
	"InstaGraph/internal/pkg/llm"
	"InstaGraph/internal/pkg/minio"
	"InstaGraph/internal/pkg/mongo"
	"InstaGraph/internal/pkg/security"
	"InstaGraph/internal/repository"
	"InstaGraph/internal/service"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gin-gonic/gin"
	"github.com/go-resty/resty/v2"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

const thumbnailDownloadTimeout = 15 * time.Second

// Infrastructure 由 main 初始化的外部连接，Elastic / Storage 为 nil 表示未启用搜索 / 缩略图镜像
type Infrastructure struct {
	DB      *gorm.DB
	Mongo   *mongodriver.Database
	Elastic *elasticsearch.TypedClient
	Storage *minio.Storage
}

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	KafkaManager *kafka.ConsumerManager
	Producer     *kafka.Producer
	CronMgr      *cron.Manager
}

func BuildApplication(infra *Infrastructure, cfg *config.Config) (*ApplicationContainer, error) {
	db := infra.DB

	userRepo := repository.NewUserRepo(db)
	accountRepo := repository.NewAccountRepo(db)
	postRepo := repository.NewPostRepo(db)
	insightRepo := repository.NewInsightRepo(db)
	accountInsightRepo := repository.NewAccountInsightRepo(db)
	recommendationRepo := repository.NewRecommendationRepo(db)
	generationLogRepo := mongo.NewGenerationLogRepo(infra.Mongo)

	jwtManager, err := security.NewJWTManager(cfg.JWT)
	if err != nil {
		return nil, err
	}
	sealer, err := security.NewTokenSealer(cfg.Security.TokenSealKey)
	if err != nil {
		return nil, err
	}
	facebookOAuth := security.NewFacebookOAuth(cfg.OAuth, cfg.Graph)
	graphClient := graph.NewClient(cfg.Graph)

	llmClient, err := llm.NewClient(cfg.LLM)
	if err != nil {
		return nil, err
	}

	producer, err := kafka.NewProducer(cfg.Kafka)
	if err != nil {
		return nil, err
	}

	var postIndex es.PostRepo
	if infra.Elastic != nil {
		postIndex = es.NewPostRepo(infra.Elastic, cfg.Elastic.PostIndex)
	}

	var mirror service.ThumbnailMirror
	if infra.Storage != nil {
		mirror = service.NewThumbnailMirror(
			infra.Storage,
			resty.New().SetTimeout(thumbnailDownloadTimeout),
			cfg.MinIO.ThumbnailWidth,
		)
	}

	analyticsService := service.NewAnalyticsService(accountRepo, postRepo, accountInsightRepo)
	instagramService := service.NewInstagramService(
		graphClient, sealer,
		accountRepo, postRepo, insightRepo, accountInsightRepo,
		analyticsService, producer, postIndex, mirror,
	)
	recommendationService := service.NewRecommendationService(
		accountRepo, postRepo, recommendationRepo,
		service.NewContentGenerator(llmClient, generationLogRepo),
	)
	authService := service.NewAuthService(facebookOAuth, graphClient, jwtManager, userRepo)

	handlers := &api.HandlersGroup{
		AuthHandler:           handler.NewAuthHandler(authService, cfg.Frontend.BaseURL),
		InstagramHandler:      handler.NewInstagramHandler(instagramService),
		AnalyticsHandler:      handler.NewAnalyticsHandler(analyticsService),
		RecommendationHandler: handler.NewRecommendationHandler(recommendationService),
	}
	router := api.SetupRouter(handlers, middleware.AuthMiddleware(jwtManager, userRepo), cfg.Frontend.BaseURL, cfg.Log)

	kafkaMgr, err := kafka.NewConsumerManager(cfg.Kafka, instagramService)
	if err != nil {
		_ = producer.Close()
		return nil, err
	}

	cronMgr := cron.NewCronManager(cfg.Jobs.InsightsCron, job.NewInsightsJob(accountRepo, producer))

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		KafkaManager: kafkaMgr,
		Producer:     producer,
		CronMgr:      cronMgr,
	}, nil
}
